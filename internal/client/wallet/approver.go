package wallet

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/dmitrijs2005/recordkeeper/internal/cryptox"
	"golang.org/x/term"
)

// TerminalApprover prompts on the terminal. It shares its reader with the
// REPL so buffered input is not lost between prompts.
type TerminalApprover struct {
	in  *bufio.Reader
	out io.Writer
	fd  int
}

// NewTerminalApprover builds an approver; fd is the descriptor used for
// hidden passphrase input, or -1 to read the passphrase as a plain line.
func NewTerminalApprover(in *bufio.Reader, out io.Writer, fd int) *TerminalApprover {
	return &TerminalApprover{in: in, out: out, fd: fd}
}

func (a *TerminalApprover) readLine() (string, error) {
	line, err := a.in.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func (a *TerminalApprover) ApproveAccess(ctx context.Context, site, address string) (bool, error) {
	fmt.Fprintf(a.out, "Allow %q to access wallet %s? [y/N]: ", site, cryptox.ShortAddress(address))
	answer, err := a.readLine()
	if err != nil {
		return false, err
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

func (a *TerminalApprover) Passphrase(ctx context.Context, address string) ([]byte, error) {
	fmt.Fprintf(a.out, "Passphrase for %s: ", cryptox.ShortAddress(address))

	if a.fd >= 0 && term.IsTerminal(a.fd) {
		b, err := term.ReadPassword(a.fd)
		fmt.Fprintln(a.out)
		return b, err
	}

	line, err := a.readLine()
	if err != nil {
		return nil, err
	}
	return []byte(line), nil
}
