package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

const (
	LedgerModeMock = "mock"
	LedgerModeGRPC = "grpc"
)

// Config holds runtime settings for the recordkeeper CLI.
type Config struct {
	LedgerMode          string
	LedgerEndpointAddr  string
	DatabasePath        string
	KeystoreDir         string
	Site                string
	Network             string
	WalletGraceDelay    time.Duration
	OnlineCheckInterval time.Duration
	MockCreateLatency   time.Duration
	MockUpdateLatency   time.Duration
	MockDeleteLatency   time.Duration
	LogLevel            string
}

// DefaultKeystoreDir is ~/.recordkeeper/wallet, or a relative "wallet"
// directory when the home directory is unknown.
func DefaultKeystoreDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "wallet"
	}
	return filepath.Join(home, ".recordkeeper", "wallet")
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.LedgerMode = LedgerModeMock
	c.LedgerEndpointAddr = "127.0.0.1:50051"
	c.DatabasePath = "recordkeeper.db"
	c.KeystoreDir = DefaultKeystoreDir()
	c.Site = "recordkeeper"
	c.Network = "TESTNET"
	c.WalletGraceDelay = time.Second
	c.OnlineCheckInterval = 3 * time.Second
	c.MockCreateLatency = 2 * time.Second
	c.MockUpdateLatency = 1500 * time.Millisecond
	c.MockDeleteLatency = time.Second
	c.LogLevel = "warn"
}

func (c *Config) Validate() error {
	switch c.LedgerMode {
	case LedgerModeMock, LedgerModeGRPC:
	default:
		return fmt.Errorf("unknown ledger mode %q", c.LedgerMode)
	}
	if c.OnlineCheckInterval <= 0 {
		return fmt.Errorf("online check interval must be positive")
	}
	if c.WalletGraceDelay < 0 {
		return fmt.Errorf("wallet grace delay must not be negative")
	}
	return nil
}

// LoadConfig builds a Config from defaults, the optional config file and the
// command-line flags in args (os.Args[1:]). Later sources take precedence.
func LoadConfig(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseFile(cfg, args); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
