// Package config handles application configuration.
//
// Configuration is split into two categories:
//   - Collection parameters: fixed at deployment, immutable for the life
//     of the contract (name, symbol, supply cap, mint price, treasury)
//   - Node settings: runtime configuration, can vary per node
package config

import (
	"os"
	"path/filepath"
	"runtime"
)

// NetworkType identifies mainnet or testnet.
type NetworkType string

const (
	Mainnet NetworkType = "mainnet"
	Testnet NetworkType = "testnet"
)

// =============================================================================
// Node Configuration (runtime, per-node settings)
// =============================================================================

// Config holds node-specific runtime configuration.
type Config struct {
	// Core
	Network NetworkType `conf:"network"`
	DataDir string      `conf:"datadir"`

	// RPC server
	RPC RPCConfig

	// Wallet (CLI keystore)
	Wallet WalletConfig

	// Logging
	Log LogConfig
}

// RPCConfig holds RPC server settings.
type RPCConfig struct {
	Enabled     bool     `conf:"rpc.enabled"`
	Addr        string   `conf:"rpc.addr"`
	Port        int      `conf:"rpc.port"`
	AllowedIPs  []string `conf:"rpc.allowed"`
	CORSOrigins []string `conf:"rpc.cors"` // Allowed CORS origins ("*" = all).
}

// WalletConfig holds wallet settings.
type WalletConfig struct {
	Enabled bool `conf:"wallet.enabled"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `conf:"log.level"`
	File  string `conf:"log.file"`
	JSON  bool   `conf:"log.json"`
}

// =============================================================================
// Directory helpers
// =============================================================================

// DefaultDataDir returns the platform-specific default data directory.
//
//	Linux:   ~/.kiln
//	macOS:   ~/Library/Application Support/Kiln
//	Windows: %APPDATA%\Kiln
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".kiln"
	}
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "Kiln")
	case "windows":
		appData := os.Getenv("APPDATA")
		if appData != "" {
			return filepath.Join(appData, "Kiln")
		}
		return filepath.Join(home, "AppData", "Roaming", "Kiln")
	default:
		return filepath.Join(home, ".kiln")
	}
}

// NetworkDataDir returns the network-specific data directory.
func (c *Config) NetworkDataDir() string {
	return filepath.Join(c.DataDir, string(c.Network))
}

// StateDir returns the contract state database directory.
func (c *Config) StateDir() string {
	return filepath.Join(c.NetworkDataDir(), "state")
}

// KeystoreDir returns the keystore directory.
func (c *Config) KeystoreDir() string {
	return filepath.Join(c.NetworkDataDir(), "keystore")
}

// LogsDir returns the logs directory.
func (c *Config) LogsDir() string {
	return filepath.Join(c.DataDir, "logs")
}

// ConfigFile returns the config file path.
func (c *Config) ConfigFile() string {
	return filepath.Join(c.DataDir, "kiln.conf")
}

// CollectionFile returns the collection parameters file path.
func (c *Config) CollectionFile() string {
	return filepath.Join(c.DataDir, "collection.json")
}
