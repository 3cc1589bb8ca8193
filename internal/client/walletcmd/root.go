// Package walletcmd implements the wallet management CLI: creating the local
// keystore, showing its address and managing site grants.
package walletcmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dmitrijs2005/recordkeeper/internal/client/config"
	"github.com/dmitrijs2005/recordkeeper/internal/client/wallet"
	"github.com/dmitrijs2005/recordkeeper/internal/common"
	"github.com/dmitrijs2005/recordkeeper/internal/cryptox"
	"github.com/dmitrijs2005/recordkeeper/internal/filex"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

const minPassphraseLength = 8

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Dir string
	// fd is the descriptor used for hidden passphrase input, -1 for none.
	fd int
}

// NewRootCommand creates the wallet command tree.
func NewRootCommand(fd int) *cobra.Command {
	opts := &RootOptions{fd: fd}

	cmd := &cobra.Command{
		Use:           "wallet",
		Short:         "Manage the local recordkeeper wallet",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&opts.Dir, "dir", config.DefaultKeystoreDir(), "keystore directory")

	cmd.AddCommand(newInitCommand(opts))
	cmd.AddCommand(newAddressCommand(opts))
	cmd.AddCommand(newGrantsCommand(opts))
	cmd.AddCommand(newRevokeCommand(opts))

	return cmd
}

// passphraseReader prompts for secrets, hiding input when fd is a terminal.
type passphraseReader struct {
	in  *bufio.Reader
	out io.Writer
	fd  int
}

func (o *RootOptions) passphrases(cmd *cobra.Command) *passphraseReader {
	return &passphraseReader{in: bufio.NewReader(cmd.InOrStdin()), out: cmd.OutOrStdout(), fd: o.fd}
}

func (p *passphraseReader) read(prompt string) ([]byte, error) {
	fmt.Fprint(p.out, prompt)

	if p.fd >= 0 && term.IsTerminal(p.fd) {
		b, err := term.ReadPassword(p.fd)
		fmt.Fprintln(p.out)
		return b, err
	}

	line, err := p.in.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return nil, err
	}
	return []byte(strings.TrimRight(line, "\r\n")), nil
}

func newInitCommand(opts *RootOptions) *cobra.Command {
	var network string

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a new keystore",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p := opts.passphrases(cmd)

			pass, err := p.read("New passphrase: ")
			if err != nil {
				return err
			}
			defer common.WipeByteArray(pass)
			if len(pass) < minPassphraseLength {
				return fmt.Errorf("passphrase must be at least %d characters", minPassphraseLength)
			}

			confirm, err := p.read("Repeat passphrase: ")
			if err != nil {
				return err
			}
			defer common.WipeByteArray(confirm)
			if string(pass) != string(confirm) {
				return errors.New("passphrases do not match")
			}

			ks, err := wallet.CreateKeystore(opts.Dir, pass, nil, network)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wallet created: %s (%s)\n", ks.Address, ks.Network)
			return nil
		},
	}

	cmd.Flags().StringVarP(&network, "network", "n", "TESTNET", "network the wallet reports")
	return cmd
}

func newAddressCommand(opts *RootOptions) *cobra.Command {
	var short bool

	cmd := &cobra.Command{
		Use:   "address",
		Short: "Print the wallet address",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ks, err := wallet.LoadKeystore(opts.Dir)
			if err != nil {
				return err
			}
			addr := ks.Address
			if short {
				addr = cryptox.ShortAddress(addr)
			}
			fmt.Fprintln(cmd.OutOrStdout(), addr)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&short, "short", "s", false, "abbreviate the address")
	return cmd
}

func newGrantsCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "grants",
		Short: "List sites allowed to use the wallet",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			grants, err := wallet.ListGrants(opts.Dir)
			if err != nil {
				return err
			}
			return printGrants(cmd.OutOrStdout(), grants)
		},
	}
}

func printGrants(w io.Writer, grants []wallet.Grant) error {
	if len(grants) == 0 {
		_, err := fmt.Fprintln(w, "No grants.")
		return err
	}
	for _, g := range grants {
		if _, err := fmt.Fprintf(w, "%-24s %s  %s\n", g.Site, cryptox.ShortAddress(g.Address), g.GrantedAt.Format("2006-01-02 15:04")); err != nil {
			return err
		}
	}
	return nil
}

func newRevokeCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "revoke <site>",
		Short: "Revoke a site's access to the wallet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !filex.Exists(opts.Dir) {
				return wallet.ErrKeystoreNotFound
			}
			ok, err := wallet.RevokeGrant(opts.Dir, args[0])
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintf(cmd.OutOrStdout(), "No grant for %s\n", args[0])
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Revoked %s\n", args[0])
			return nil
		},
	}
}
