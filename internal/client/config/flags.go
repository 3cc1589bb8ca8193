package config

import (
	"flag"
	"fmt"
	"io"
	"time"

	"github.com/dmitrijs2005/recordkeeper/internal/flagx"
)

var knownFlags = []string{"-m", "-a", "-d", "-k", "-i", "-g", "-l"}

// parseFlags populates Config fields from command-line flags. Only the flags
// listed in knownFlags are considered; everything else in args is ignored.
func parseFlags(cfg *Config, args []string) error {
	fs := flag.NewFlagSet("recordkeeper", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.LedgerMode, "m", cfg.LedgerMode, "ledger mode: mock or grpc")
	fs.StringVar(&cfg.LedgerEndpointAddr, "a", cfg.LedgerEndpointAddr, "address and port of the ledger service")
	fs.StringVar(&cfg.DatabasePath, "d", cfg.DatabasePath, "path of the local database")
	fs.StringVar(&cfg.KeystoreDir, "k", cfg.KeystoreDir, "wallet keystore directory")
	onlineCheckInterval := fs.Int("i", int(cfg.OnlineCheckInterval.Seconds()), "online check interval (in seconds)")
	fs.DurationVar(&cfg.WalletGraceDelay, "g", cfg.WalletGraceDelay, "wallet restore grace delay")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")

	if err := fs.Parse(flagx.FilterArgs(args, knownFlags)); err != nil {
		return fmt.Errorf("parse flags: %w", err)
	}

	// keep sub-second intervals from the file unless -i was given
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "i" {
			cfg.OnlineCheckInterval = time.Duration(*onlineCheckInterval) * time.Second
		}
	})
	return nil
}
