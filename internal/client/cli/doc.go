// Package cli provides the interactive recordkeeper command-line client.
//
// It wires configuration, local storage, the wallet session, the ledger and
// the record store behind a small REPL. On start it restores a previously
// connected wallet, shows the cached records, refreshes them from the ledger
// and starts a background connectivity watcher.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
