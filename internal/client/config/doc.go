// Package config loads runtime configuration for the recordkeeper CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional config file selected with -c or -config. The format follows
//     the extension: .json, .yaml/.yml or .toml.
//  3. Command-line flags, which override earlier values.
//
// Supported flags
//
//	-m string   ledger mode: "mock" or "grpc"
//	-a string   address:port of the ledger gRPC endpoint
//	-d string   path of the local SQLite database
//	-k string   wallet keystore directory
//	-i int      online status check interval (seconds)
//	-g string   wallet restore grace delay (e.g. "1s")
//	-l string   log level (debug, info, warn, error)
//
// # File schema
//
// Durations accept strings like "3s" or integer nanoseconds:
//
//	{
//	  "ledger_mode": "grpc",
//	  "ledger_endpoint_addr": "127.0.0.1:50051",
//	  "database_path": "recordkeeper.db",
//	  "keystore_dir": "~/.recordkeeper/wallet",
//	  "site": "recordkeeper",
//	  "network": "TESTNET",
//	  "wallet_grace_delay": "1s",
//	  "online_check_interval": "3s",
//	  "mock_create_latency": "2s",
//	  "mock_update_latency": "1500ms",
//	  "mock_delete_latency": "1s",
//	  "log_level": "warn"
//	}
package config
