package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/dmitrijs2005/recordkeeper/internal/flagx"
	"github.com/dmitrijs2005/recordkeeper/internal/timex"
	"gopkg.in/yaml.v3"
)

// FileConfig is a DTO used exclusively for config file decoding. Keys that
// are absent leave the current value untouched.
type FileConfig struct {
	LedgerMode          string          `json:"ledger_mode" yaml:"ledger_mode" toml:"ledger_mode"`
	LedgerEndpointAddr  string          `json:"ledger_endpoint_addr" yaml:"ledger_endpoint_addr" toml:"ledger_endpoint_addr"`
	DatabasePath        string          `json:"database_path" yaml:"database_path" toml:"database_path"`
	KeystoreDir         string          `json:"keystore_dir" yaml:"keystore_dir" toml:"keystore_dir"`
	Site                string          `json:"site" yaml:"site" toml:"site"`
	Network             string          `json:"network" yaml:"network" toml:"network"`
	WalletGraceDelay    *timex.Duration `json:"wallet_grace_delay" yaml:"wallet_grace_delay" toml:"wallet_grace_delay"`
	OnlineCheckInterval *timex.Duration `json:"online_check_interval" yaml:"online_check_interval" toml:"online_check_interval"`
	MockCreateLatency   *timex.Duration `json:"mock_create_latency" yaml:"mock_create_latency" toml:"mock_create_latency"`
	MockUpdateLatency   *timex.Duration `json:"mock_update_latency" yaml:"mock_update_latency" toml:"mock_update_latency"`
	MockDeleteLatency   *timex.Duration `json:"mock_delete_latency" yaml:"mock_delete_latency" toml:"mock_delete_latency"`
	LogLevel            string          `json:"log_level" yaml:"log_level" toml:"log_level"`
}

func decodeFile(path string, fc *FileConfig) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		err = json.Unmarshal(data, fc)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, fc)
	case ".toml":
		err = toml.Unmarshal(data, fc)
	default:
		return fmt.Errorf("unsupported config format %q", ext)
	}
	if err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

// parseFile overlays cfg with the file named by -c/-config, if any.
func parseFile(cfg *Config, args []string) error {
	path := flagx.ConfigFileFlag(args)
	if path == "" {
		return nil
	}

	var fc FileConfig
	if err := decodeFile(path, &fc); err != nil {
		return err
	}

	setString(&cfg.LedgerMode, fc.LedgerMode)
	setString(&cfg.LedgerEndpointAddr, fc.LedgerEndpointAddr)
	setString(&cfg.DatabasePath, fc.DatabasePath)
	setString(&cfg.KeystoreDir, fc.KeystoreDir)
	setString(&cfg.Site, fc.Site)
	setString(&cfg.Network, fc.Network)
	setString(&cfg.LogLevel, fc.LogLevel)

	for _, d := range []struct {
		src *timex.Duration
		dst *time.Duration
	}{
		{fc.WalletGraceDelay, &cfg.WalletGraceDelay},
		{fc.OnlineCheckInterval, &cfg.OnlineCheckInterval},
		{fc.MockCreateLatency, &cfg.MockCreateLatency},
		{fc.MockUpdateLatency, &cfg.MockUpdateLatency},
		{fc.MockDeleteLatency, &cfg.MockDeleteLatency},
	} {
		if d.src != nil {
			*d.dst = d.src.Duration
		}
	}
	return nil
}
