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

// FileConfig is an intermediate DTO used only for reading config files.
// Durations accept both strings such as "1s" and integer nanoseconds.
type FileConfig struct {
	EndpointAddrGRPC            string          `json:"endpoint_addr_grpc" yaml:"endpoint_addr_grpc" toml:"endpoint_addr_grpc"`
	StorageMode                 string          `json:"storage_mode" yaml:"storage_mode" toml:"storage_mode"`
	DatabaseDSN                 string          `json:"database_dsn" yaml:"database_dsn" toml:"database_dsn"`
	SecretKey                   string          `json:"secret_key" yaml:"secret_key" toml:"secret_key"`
	AccessTokenValidityDuration *timex.Duration `json:"access_token_validity_duration" yaml:"access_token_validity_duration" toml:"access_token_validity_duration"`
	ChallengeValidityDuration   *timex.Duration `json:"challenge_validity_duration" yaml:"challenge_validity_duration" toml:"challenge_validity_duration"`
	S3RootUser                  string          `json:"s3_root_user" yaml:"s3_root_user" toml:"s3_root_user"`
	S3RootPassword              string          `json:"s3_root_password" yaml:"s3_root_password" toml:"s3_root_password"`
	S3Bucket                    string          `json:"s3_bucket" yaml:"s3_bucket" toml:"s3_bucket"`
	S3Region                    string          `json:"s3_region" yaml:"s3_region" toml:"s3_region"`
	S3BaseEndpoint              string          `json:"s3_base_endpoint" yaml:"s3_base_endpoint" toml:"s3_base_endpoint"`
	SnapshotURLValidity         *timex.Duration `json:"snapshot_url_validity" yaml:"snapshot_url_validity" toml:"snapshot_url_validity"`
	LogLevel                    string          `json:"log_level" yaml:"log_level" toml:"log_level"`
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

// parseFile overlays cfg with the file named by -c/-config, if any.
// Empty values in the file leave the current setting untouched.
func parseFile(cfg *Config, args []string) error {
	path := flagx.ConfigFileFlag(args)
	if path == "" {
		return nil
	}

	var fc FileConfig
	if err := decodeFile(path, &fc); err != nil {
		return err
	}

	for _, s := range []struct {
		src string
		dst *string
	}{
		{fc.EndpointAddrGRPC, &cfg.EndpointAddrGRPC},
		{fc.StorageMode, &cfg.StorageMode},
		{fc.DatabaseDSN, &cfg.DatabaseDSN},
		{fc.SecretKey, &cfg.SecretKey},
		{fc.S3RootUser, &cfg.S3RootUser},
		{fc.S3RootPassword, &cfg.S3RootPassword},
		{fc.S3Bucket, &cfg.S3Bucket},
		{fc.S3Region, &cfg.S3Region},
		{fc.S3BaseEndpoint, &cfg.S3BaseEndpoint},
		{fc.LogLevel, &cfg.LogLevel},
	} {
		if s.src != "" {
			*s.dst = s.src
		}
	}

	for _, d := range []struct {
		src *timex.Duration
		dst *time.Duration
	}{
		{fc.AccessTokenValidityDuration, &cfg.AccessTokenValidityDuration},
		{fc.ChallengeValidityDuration, &cfg.ChallengeValidityDuration},
		{fc.SnapshotURLValidity, &cfg.SnapshotURLValidity},
	} {
		if d.src != nil {
			*d.dst = d.src.Duration
		}
	}
	return nil
}
