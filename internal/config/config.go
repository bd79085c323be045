package config

import "os"

// ServerConfig holds the environment-driven settings of the HTTP server.
type ServerConfig struct {
	ListenAddr    string
	DBPath        string
	ReferencePath string
	Debug         bool
}

// LoadServerConfig reads the server settings from the environment, applying
// defaults. A .env file, if any, is loaded by the caller before this runs.
func LoadServerConfig() *ServerConfig {
	cfg := &ServerConfig{
		ListenAddr: ":8080",
		DBPath:     "pivatax.db",
	}
	if v := os.Getenv("PIVATAX_ADDR"); v != "" {
		cfg.ListenAddr = v
	}
	if v := os.Getenv("PIVATAX_DB"); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv("PIVATAX_REFERENCE"); v != "" {
		cfg.ReferencePath = v
	}
	if v := os.Getenv("PIVATAX_DEBUG"); v == "1" || v == "true" {
		cfg.Debug = true
	}
	return cfg
}
