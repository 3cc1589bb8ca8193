package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/recordkeeper/internal/client/config"
	"github.com/dmitrijs2005/recordkeeper/internal/client/models"
	"github.com/dmitrijs2005/recordkeeper/internal/client/records"
	"github.com/dmitrijs2005/recordkeeper/internal/common"
	"github.com/dmitrijs2005/recordkeeper/internal/cryptox"
	"github.com/dmitrijs2005/recordkeeper/internal/filex"
	"github.com/dmitrijs2005/recordkeeper/internal/netx"
	"github.com/dmitrijs2005/recordkeeper/internal/validation"
)

const historyLimit = 10

var errExportUnsupported = errors.New("snapshot export requires the grpc ledger")

// report shows err to the user and returns it unchanged.
func (a *App) report(err error) error {
	var verr *validation.Error
	if errors.As(err, &verr) {
		for _, f := range verr.Fields {
			a.notifier.Error(f.Field + ": " + f.Message)
		}
		return err
	}
	a.notifier.Error(err.Error())
	return err
}

// me returns the connected address, or "".
func (a *App) me() string {
	st := a.session.State()
	if !st.Connected {
		return ""
	}
	return st.PublicKey
}

func (a *App) requireWallet() (string, error) {
	me := a.me()
	if me == "" {
		return "", a.report(common.ErrNotAuthorized)
	}
	return me, nil
}

// ownRecord resolves the id argument to a record owned by me.
func (a *App) ownRecord(args []string, me string) (models.Record, error) {
	id, err := ParseID(args)
	if err != nil {
		return models.Record{}, a.report(err)
	}
	rec, ok := a.store.Find(id)
	if !ok {
		return models.Record{}, a.report(common.ErrNotFound)
	}
	if rec.Owner != me {
		return models.Record{}, a.report(common.ErrNotOwner)
	}
	return rec, nil
}

func (a *App) Connect(ctx context.Context) error {
	if st := a.session.State(); st.Connected {
		a.notifier.Info("Wallet already connected: " + cryptox.ShortAddress(st.PublicKey))
		return nil
	}

	id := a.notifier.Loading("Connecting wallet...")
	err := a.session.Connect(ctx)
	a.notifier.Dismiss(id)
	if err != nil {
		return a.report(err)
	}

	a.notifier.Success("Wallet connected: " + cryptox.ShortAddress(a.session.State().PublicKey))
	return nil
}

func (a *App) Disconnect(ctx context.Context) error {
	if err := a.session.Disconnect(ctx); err != nil {
		return a.report(err)
	}
	a.notifier.Info("Wallet disconnected")
	return nil
}

func (a *App) Status(ctx context.Context) error {
	ws := a.session.State()
	rs := a.store.State()

	fmt.Fprintf(a.out, "Wallet:   %s\n", ws.Status())
	if ws.Connected {
		fmt.Fprintf(a.out, "Address:  %s\n", ws.PublicKey)
	}
	if ws.LastError != "" {
		fmt.Fprintf(a.out, "Wallet error: %s\n", ws.LastError)
	}
	fmt.Fprintf(a.out, "Network:  %s\n", a.cfg.Network)
	ledgerLine := a.cfg.LedgerMode
	if a.cfg.LedgerMode != config.LedgerModeMock {
		ledgerLine += " " + a.cfg.LedgerEndpointAddr
	}
	fmt.Fprintf(a.out, "Ledger:   %s (%s)\n", ledgerLine, a.Mode())
	fmt.Fprintf(a.out, "Records:  %d", len(rs.Records))
	if rs.Stale {
		fmt.Fprint(a.out, " (cached)")
	}
	fmt.Fprintln(a.out)
	if rs.Error != "" {
		fmt.Fprintf(a.out, "Last error: %s\n", rs.Error)
	}
	return nil
}

// List renders the collection. "mine" as the first argument keeps only the
// connected wallet's records; the remaining arguments form the search term.
func (a *App) List(ctx context.Context, args []string) error {
	q := records.Query{Scope: records.ScopeAll, Owner: a.me()}
	if len(args) > 0 && args[0] == "mine" {
		q.Scope = records.ScopeMine
		args = args[1:]
		if q.Owner == "" {
			a.notifier.Info("Connect a wallet to see your records")
		}
	}
	q.Term = strings.Join(args, " ")

	st := a.store.State()
	renderRecords(a.out, records.Filter(st.Records, q), q.Owner, st.Stale, a.now())
	return nil
}

func (a *App) Show(ctx context.Context, args []string) error {
	id, err := ParseID(args)
	if err != nil {
		return a.report(err)
	}
	rec, ok := a.store.Find(id)
	if !ok {
		return a.report(common.ErrNotFound)
	}
	renderRecord(a.out, rec, a.me())
	return nil
}

func (a *App) Refresh(ctx context.Context) error {
	id := a.notifier.Loading("Loading records...")
	err := a.store.FetchRecords(ctx)
	a.notifier.Dismiss(id)
	if err != nil {
		if n := len(a.store.Records()); n > 0 {
			a.notifier.Info(fmt.Sprintf("Showing %d cached records", n))
		}
		return a.report(err)
	}
	a.notifier.Success(fmt.Sprintf("Loaded %d records", len(a.store.Records())))
	return nil
}

func (a *App) Create(ctx context.Context) error {
	if _, err := a.requireWallet(); err != nil {
		return err
	}

	name, err := GetSimpleText(a.in, "Name (required, up to 50 characters)", a.out)
	if err != nil {
		return err
	}
	description, err := GetSimpleText(a.in, "Description (required, up to 200 characters)", a.out)
	if err != nil {
		return err
	}
	raw, err := GetSimpleText(a.in, "Value (0 to 999,999,999)", a.out)
	if err != nil {
		return err
	}
	value, err := ParseValue(raw)
	if err != nil {
		return a.report(err)
	}

	in := models.CreateRecordInput{Name: name, Description: description, Value: value}
	if err := validation.Create(in.Name, in.Description, in.Value); err != nil {
		return a.report(err)
	}

	id := a.notifier.Loading("Creating record...")
	rec, err := a.store.CreateRecord(ctx, in)
	a.notifier.Dismiss(id)
	if err != nil {
		return a.report(err)
	}

	a.notifier.Success(fmt.Sprintf("Record created successfully! (id %d)", rec.ID))
	return nil
}

func (a *App) Update(ctx context.Context, args []string) error {
	me, err := a.requireWallet()
	if err != nil {
		return err
	}
	rec, err := a.ownRecord(args, me)
	if err != nil {
		return err
	}

	name, err := GetTextWithDefault(a.in, "Name", rec.Name, a.out)
	if err != nil {
		return err
	}
	description, err := GetTextWithDefault(a.in, "Description", rec.Description, a.out)
	if err != nil {
		return err
	}
	raw, err := GetTextWithDefault(a.in, "Value", strconv.FormatUint(rec.Value, 10), a.out)
	if err != nil {
		return err
	}
	value, err := ParseValue(raw)
	if err != nil {
		return a.report(err)
	}

	in := models.UpdateRecordInput{ID: rec.ID, Name: name, Description: description, Value: value}
	if err := validation.Update(in.ID, in.Name, in.Description, in.Value); err != nil {
		return a.report(err)
	}

	id := a.notifier.Loading("Updating record...")
	_, err = a.store.UpdateRecord(ctx, in)
	a.notifier.Dismiss(id)
	if err != nil {
		return a.report(err)
	}

	a.notifier.Success("Record updated successfully!")
	return nil
}

func (a *App) Delete(ctx context.Context, args []string) error {
	me, err := a.requireWallet()
	if err != nil {
		return err
	}
	rec, err := a.ownRecord(args, me)
	if err != nil {
		return err
	}

	answer, err := GetSimpleText(a.in, fmt.Sprintf("Delete %q? [y/N]", rec.Name), a.out)
	if err != nil {
		return err
	}
	if ans := strings.ToLower(answer); ans != "y" && ans != "yes" {
		fmt.Fprintln(a.out, "Cancelled.")
		return nil
	}

	id := a.notifier.Loading(fmt.Sprintf("Deleting %q...", rec.Name))
	err = a.store.DeleteRecord(ctx, rec.ID)
	a.notifier.Dismiss(id)
	if err != nil {
		return a.report(err)
	}

	a.notifier.Success(fmt.Sprintf("Record %q deleted successfully!", rec.Name))
	return nil
}

func (a *App) Errors(ctx context.Context) error {
	st := a.store.State()
	if st.Error == "" {
		fmt.Fprintln(a.out, "No errors.")
		return nil
	}
	fmt.Fprintln(a.out, "Last error:", st.Error)
	return nil
}

func (a *App) ClearError(ctx context.Context) error {
	a.store.ClearError()
	a.notifier.Info("Error cleared")
	return nil
}

func (a *App) History(ctx context.Context) error {
	ops, err := a.store.RecentOperations(ctx, historyLimit)
	if err != nil {
		return a.report(err)
	}
	renderOperations(a.out, ops, a.now())
	return nil
}

// Export asks the ledger for a snapshot. With a path argument the snapshot
// is downloaded and written there.
func (a *App) Export(ctx context.Context, args []string) error {
	ex, ok := a.ledger.(exporter)
	if !ok {
		return a.report(errExportUnsupported)
	}
	me, err := a.requireWallet()
	if err != nil {
		return err
	}

	id := a.notifier.Loading("Exporting snapshot...")
	url, err := ex.ExportSnapshot(ctx, me)
	if err == nil && len(args) > 0 {
		err = a.saveSnapshot(ctx, url, args[0])
	}
	a.notifier.Dismiss(id)
	if err != nil {
		return a.report(err)
	}

	if len(args) > 0 {
		a.notifier.Success("Snapshot saved to " + args[0])
		return nil
	}
	a.notifier.Success("Snapshot exported: " + url)
	return nil
}

func (a *App) saveSnapshot(ctx context.Context, url, path string) error {
	data, err := netx.DownloadPresignedURL(ctx, a.httpClient, url)
	if err != nil {
		return fmt.Errorf("download snapshot: %w", err)
	}
	return filex.WriteFileAtomic(path, data, 0o600)
}
