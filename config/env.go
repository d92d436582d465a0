package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// envPrefix namespaces all environment overrides.
const envPrefix = "KILN_"

// ApplyEnv applies environment-variable overrides to a Config struct.
// A .env file in the working directory is loaded first (if present);
// real environment variables win over .env entries.
func ApplyEnv(cfg *Config) {
	// godotenv does not overwrite variables already set in the
	// environment, which gives the precedence we want.
	_ = godotenv.Load()

	if v := os.Getenv(envPrefix + "NETWORK"); v != "" {
		cfg.Network = NetworkType(v)
	}
	if v := os.Getenv(envPrefix + "DATADIR"); v != "" {
		cfg.DataDir = v
	}
	if v := os.Getenv(envPrefix + "RPC_ADDR"); v != "" {
		cfg.RPC.Addr = v
	}
	if v := os.Getenv(envPrefix + "RPC_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			cfg.RPC.Port = p
		}
	}
	if v := os.Getenv(envPrefix + "RPC_ALLOWED"); v != "" {
		cfg.RPC.AllowedIPs = parseStringList(v)
	}
	if v := os.Getenv(envPrefix + "RPC_CORS"); v != "" {
		cfg.RPC.CORSOrigins = parseStringList(v)
	}
	if v := os.Getenv(envPrefix + "LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv(envPrefix + "LOG_FILE"); v != "" {
		cfg.Log.File = v
	}
	if v := os.Getenv(envPrefix + "LOG_JSON"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Log.JSON = b
		}
	}
}
