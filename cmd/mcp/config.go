package main

import "os"

// Config holds environment-based configuration for the MCP server
type Config struct {
	// AWS configuration
	AWSRegion  string
	AWSProfile string

	// Meraki configuration
	MerakiAPIKey string
	MerakiOrgID  string
}

// LoadConfig reads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		AWSRegion:    getEnvOrDefault("AWS_REGION", "us-east-1"),
		AWSProfile:   os.Getenv("AWS_PROFILE"),
		MerakiAPIKey: os.Getenv("MERAKI_API_KEY"),
		MerakiOrgID:  os.Getenv("MERAKI_ORG_ID"),
	}
}

// HasMeraki returns true if dashboard credentials are configured
func (c *Config) HasMeraki() bool {
	return c.MerakiAPIKey != "" && c.MerakiOrgID != ""
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
