package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaults() *Config {
	c := &Config{}
	c.LoadDefaults()
	return c
}

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	c := defaults()

	assert.Equal(t, LedgerModeMock, c.LedgerMode)
	assert.Equal(t, "127.0.0.1:50051", c.LedgerEndpointAddr)
	assert.Equal(t, "recordkeeper.db", c.DatabasePath)
	assert.Equal(t, "recordkeeper", c.Site)
	assert.Equal(t, time.Second, c.WalletGraceDelay)
	assert.Equal(t, 3*time.Second, c.OnlineCheckInterval)
	assert.Equal(t, 2*time.Second, c.MockCreateLatency)
	assert.Equal(t, 1500*time.Millisecond, c.MockUpdateLatency)
	assert.Equal(t, time.Second, c.MockDeleteLatency)
	assert.NoError(t, c.Validate())
}

func TestLoadConfig_NoArgsGivesDefaults(t *testing.T) {
	cfg, err := LoadConfig(nil)
	require.NoError(t, err)
	assert.Empty(t, cmp.Diff(defaults(), cfg))
}

func TestLoadConfig_Flags(t *testing.T) {
	cfg, err := LoadConfig([]string{"-m", "grpc", "-a", "ledger:9090", "-i", "10", "-g", "250ms", "-d", "x.db", "-k", "/tmp/ks", "-l", "debug", "list"})
	require.NoError(t, err)

	want := defaults()
	want.LedgerMode = LedgerModeGRPC
	want.LedgerEndpointAddr = "ledger:9090"
	want.OnlineCheckInterval = 10 * time.Second
	want.WalletGraceDelay = 250 * time.Millisecond
	want.DatabasePath = "x.db"
	want.KeystoreDir = "/tmp/ks"
	want.LogLevel = "debug"
	assert.Empty(t, cmp.Diff(want, cfg))
}

func TestLoadConfig_BadFlag(t *testing.T) {
	_, err := LoadConfig([]string{"-i", "abc"})
	require.Error(t, err)

	_, err = LoadConfig([]string{"-m", "chain"})
	require.ErrorContains(t, err, "unknown ledger mode")
}

func TestLoadConfig_Formats(t *testing.T) {
	tests := []struct {
		name string
		file string
		body string
	}{
		{"json", "cfg.json", `{"ledger_mode":"grpc","ledger_endpoint_addr":"example:9000","online_check_interval":"10s","mock_create_latency":5000000}`},
		{"yaml", "cfg.yaml", "ledger_mode: grpc\nledger_endpoint_addr: example:9000\nonline_check_interval: 10s\nmock_create_latency: 5000000\n"},
		{"toml", "cfg.toml", "ledger_mode = \"grpc\"\nledger_endpoint_addr = \"example:9000\"\nonline_check_interval = \"10s\"\nmock_create_latency = \"5ms\"\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, tt.file, tt.body)

			cfg, err := LoadConfig([]string{"-config", path})
			require.NoError(t, err)

			want := defaults()
			want.LedgerMode = LedgerModeGRPC
			want.LedgerEndpointAddr = "example:9000"
			want.OnlineCheckInterval = 10 * time.Second
			want.MockCreateLatency = 5 * time.Millisecond
			assert.Empty(t, cmp.Diff(want, cfg))
		})
	}
}

func TestLoadConfig_FlagsOverrideFile(t *testing.T) {
	path := writeFile(t, "cfg.yml", "ledger_endpoint_addr: file:1\nonline_check_interval: 500ms\n")

	cfg, err := LoadConfig([]string{"-c", path, "-a", "flag:2"})
	require.NoError(t, err)
	assert.Equal(t, "flag:2", cfg.LedgerEndpointAddr)
	assert.Equal(t, 500*time.Millisecond, cfg.OnlineCheckInterval)
}

func TestLoadConfig_FileErrors(t *testing.T) {
	_, err := LoadConfig([]string{"-c", filepath.Join(t.TempDir(), "missing.json")})
	require.ErrorContains(t, err, "read config")

	_, err = LoadConfig([]string{"-c", writeFile(t, "bad.json", "{ not json")})
	require.ErrorContains(t, err, "parse config")

	_, err = LoadConfig([]string{"-c", writeFile(t, "cfg.ini", "a=b")})
	require.ErrorContains(t, err, "unsupported config format")
}

func TestValidate(t *testing.T) {
	c := defaults()
	c.OnlineCheckInterval = 0
	require.Error(t, c.Validate())

	c = defaults()
	c.WalletGraceDelay = -time.Second
	require.Error(t, c.Validate())
}
