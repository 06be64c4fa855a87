package config

import (
	"os"

	"github.com/joho/godotenv"
)

// Environment variables
const (
	EnvRPCURL     = "ETH_RPC_URL"
	EnvSigningKey = "FLASHBOTS_SIGNING_KEY"
)

// LoadEnv loads environment variables from a .env file if one exists.
func LoadEnv() error {
	if _, err := os.Stat(".env"); os.IsNotExist(err) {
		return nil
	}
	return godotenv.Load()
}

// GetEnvWithDefault gets an environment variable with a default value.
func GetEnvWithDefault(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// ApplyEnv overrides file-based settings from the environment: the node
// endpoint and the relay signing key.
func (c *Config) ApplyEnv() {
	c.RPCEndpoint = GetEnvWithDefault(EnvRPCURL, c.RPCEndpoint)
	if key := os.Getenv(EnvSigningKey); key != "" {
		for i := range c.Relays {
			if c.Relays[i].Credential == "" {
				c.Relays[i].Credential = key
			}
		}
	}
}
