package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/dmitrijs2005/recordkeeper/internal/client/config"
	"github.com/dmitrijs2005/recordkeeper/internal/client/ledger"
	"github.com/dmitrijs2005/recordkeeper/internal/client/notify"
	"github.com/dmitrijs2005/recordkeeper/internal/client/records"
	"github.com/dmitrijs2005/recordkeeper/internal/client/storage"
	"github.com/dmitrijs2005/recordkeeper/internal/client/wallet"
	"github.com/dmitrijs2005/recordkeeper/internal/cryptox"
	"github.com/dmitrijs2005/recordkeeper/internal/logging"
)

type Mode string

const (
	ModeUnknown Mode = "checking"
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

// walletSession is the part of *wallet.Session the CLI drives.
type walletSession interface {
	records.Session
	Connect(ctx context.Context) error
	Disconnect(ctx context.Context) error
	RestoreFromStorage(ctx context.Context) error
}

// exporter is implemented by ledgers that can publish a snapshot.
type exporter interface {
	ExportSnapshot(ctx context.Context, owner string) (string, error)
}

type App struct {
	cfg      *config.Config
	in       *bufio.Reader
	out      io.Writer
	session  walletSession
	store    *records.Store
	ledger   ledger.Ledger
	notifier notify.Notifier
	log      logging.Logger
	now      func() time.Time
	db       *sql.DB

	httpClient *http.Client

	modeMu sync.Mutex
	mode   Mode
}

// NewApp wires the local database, the wallet session, the ledger selected
// by cfg.LedgerMode and the record store. stdin is shared by the REPL, the
// forms and the wallet approval prompts; fd is its file descriptor, used for
// hidden passphrase input.
func NewApp(ctx context.Context, cfg *config.Config, stdin io.Reader, out io.Writer, fd int, log logging.Logger) (*App, error) {
	db, err := storage.InitDatabase(ctx, cfg.DatabasePath)
	if err != nil {
		log.Error(ctx, "error initializing database", "path", cfg.DatabasePath, "error", err)
		return nil, err
	}
	repos := storage.NewRepositories(db)

	in := bufio.NewReader(stdin)
	approver := wallet.NewTerminalApprover(in, out, fd)
	session := wallet.NewSession(
		wallet.KeystoreLocator(cfg.KeystoreDir, cfg.Site, approver),
		repos.Metadata,
		wallet.WithLogger(log.With("component", "wallet")),
		wallet.WithGraceDelay(cfg.WalletGraceDelay),
		wallet.WithNetwork(cfg.Network),
	)

	var l ledger.Ledger
	switch cfg.LedgerMode {
	case config.LedgerModeGRPC:
		l, err = ledger.NewGRPCClient(cfg.LedgerEndpointAddr, session,
			ledger.WithLogger(log.With("component", "ledger")))
		if err != nil {
			_ = db.Close()
			return nil, err
		}
	default:
		l = ledger.NewMock(ledger.WithLatency(cfg.MockCreateLatency, cfg.MockUpdateLatency, cfg.MockDeleteLatency))
	}

	store := records.NewStore(l, session,
		records.WithCache(repos.Records),
		records.WithJournal(repos.Operations),
		records.WithLogger(log.With("component", "records")),
	)

	a := newApp(cfg, in, out, session, store, l, notify.NewTerminal(out), log)
	a.db = db
	return a, nil
}

func newApp(cfg *config.Config, in *bufio.Reader, out io.Writer, session walletSession,
	store *records.Store, l ledger.Ledger, n notify.Notifier, log logging.Logger) *App {
	return &App{
		cfg:      cfg,
		in:       in,
		out:      out,
		session:  session,
		store:    store,
		ledger:   l,
		notifier: n,
		log:      log,
		now:      time.Now,
		mode:     ModeUnknown,

		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (a *App) Mode() Mode {
	a.modeMu.Lock()
	defer a.modeMu.Unlock()
	return a.mode
}

func (a *App) setMode(mode Mode) {
	a.modeMu.Lock()
	changed := a.mode != mode
	a.mode = mode
	a.modeMu.Unlock()

	if changed {
		a.log.Info(context.Background(), "switched mode", "mode", mode)
	}
}

// Close releases the ledger connection and the local database.
func (a *App) Close() error {
	err := a.ledger.Close()
	if a.db != nil {
		if cerr := a.db.Close(); err == nil {
			err = cerr
		}
	}
	return err
}

// Run restores the wallet, loads records and serves the REPL until the user
// exits or ctx is cancelled.
func (a *App) Run(ctx context.Context) {
	defer func() {
		if err := a.Close(); err != nil {
			a.log.Warn(ctx, "close failed", "error", err)
		}
	}()

	fmt.Fprintln(a.out, "recordkeeper: type 'help' for the list of commands")
	a.start(ctx)

	watchCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go a.StartOnlineStatusWatcher(watchCtx, a.cfg.OnlineCheckInterval)

	runREPL(ctx, a, a.statusLine, a.in, a.out)
}

func (a *App) start(ctx context.Context) {
	if err := a.session.RestoreFromStorage(ctx); err != nil {
		a.log.Warn(ctx, "wallet restore failed", "error", err)
	}
	if st := a.session.State(); st.Connected {
		a.notifier.Info("Wallet restored: " + cryptox.ShortAddress(st.PublicKey))
	}

	if n, err := a.store.RecoverPending(ctx); err != nil {
		a.log.Warn(ctx, "recover pending operations", "error", err)
	} else if n > 0 {
		a.notifier.Info(fmt.Sprintf("%d unfinished operation(s) marked as failed", n))
	}

	if err := a.store.LoadCached(ctx); err != nil {
		a.log.Warn(ctx, "load cached records", "error", err)
	}
	_ = a.Refresh(ctx)
}

func (a *App) statusLine() string {
	st := a.session.State()
	who := "not connected"
	switch {
	case st.Connecting:
		who = "connecting"
	case st.Connected:
		who = cryptox.ShortAddress(st.PublicKey)
	}
	return fmt.Sprintf("%s, %s", who, a.Mode())
}

// StartOnlineStatusWatcher pings the ledger every interval and switches
// between online and offline mode until ctx is cancelled.
func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	a.checkOnline(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			a.checkOnline(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (a *App) checkOnline(ctx context.Context) {
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	err := a.ledger.Ping(pingCtx)
	cancel()

	if err != nil {
		a.setMode(ModeOffline)
	} else {
		a.setMode(ModeOnline)
	}
}
