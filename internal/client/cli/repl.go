package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// commands defines the command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type commands interface {
	Connect(ctx context.Context) error
	Disconnect(ctx context.Context) error
	Status(ctx context.Context) error
	List(ctx context.Context, args []string) error
	Show(ctx context.Context, args []string) error
	Refresh(ctx context.Context) error
	Create(ctx context.Context) error
	Update(ctx context.Context, args []string) error
	Delete(ctx context.Context, args []string) error
	Errors(ctx context.Context) error
	ClearError(ctx context.Context) error
	History(ctx context.Context) error
	Export(ctx context.Context, args []string) error
}

const helpText = `Available commands:
  connect              connect a wallet
  disconnect           forget the connected wallet
  status               show wallet and ledger status
  list [mine] [term]   list records, optionally only yours or matching term
  show <id>            show a single record
  refresh              reload records from the ledger
  create               create a record
  update <id>          update one of your records
  delete <id>          delete one of your records
  errors               show the last error
  clear                clear the last error
  history              show recent operations
  export [file]        export a ledger snapshot, optionally saving it (grpc ledger only)
  exit | quit          leave the program`

// runREPL reads commands from in, one per line, and dispatches them to c.
//
// Forms started by a command read their answers from the same reader, so the
// loop and the forms never compete for buffered input. The loop exits on EOF
// or when the user types "exit" or "quit".
//
// Errors returned by command handlers are not printed here; handlers report
// their own errors through the notifier.
func runREPL(ctx context.Context, c commands, statusFn func() string, in *bufio.Reader, out io.Writer) {
	for {
		if ctx.Err() != nil {
			return
		}
		fmt.Fprintf(out, "rk (%s)> ", statusFn())
		line, err := readLine(in)
		if err != nil {
			if !errors.Is(err, io.EOF) {
				fmt.Fprintln(out, "read error:", err)
			}
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		switch cmd {
		case "help", "?":
			fmt.Fprintln(out, helpText)

		case "connect":
			_ = c.Connect(ctx)

		case "disconnect":
			_ = c.Disconnect(ctx)

		case "status":
			_ = c.Status(ctx)

		case "l", "list":
			_ = c.List(ctx, args)

		case "show":
			_ = c.Show(ctx, args)

		case "refresh", "sync":
			_ = c.Refresh(ctx)

		case "create", "add":
			_ = c.Create(ctx)

		case "update", "edit":
			_ = c.Update(ctx, args)

		case "delete", "rm":
			_ = c.Delete(ctx, args)

		case "errors":
			_ = c.Errors(ctx)

		case "clear":
			_ = c.ClearError(ctx)

		case "history":
			_ = c.History(ctx)

		case "export":
			_ = c.Export(ctx, args)

		case "exit", "quit":
			fmt.Fprintln(out, "Bye!")
			return

		default:
			fmt.Fprintln(out, "Unknown command:", cmd)
		}
	}
}
