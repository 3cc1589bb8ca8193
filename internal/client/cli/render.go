package cli

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/dmitrijs2005/recordkeeper/internal/client/models"
	"github.com/dmitrijs2005/recordkeeper/internal/cryptox"
	"github.com/dustin/go-humanize"
)

const nameWidth = 20

func formatValue(v uint64) string {
	if v > math.MaxInt64 {
		return strconv.FormatUint(v, 10)
	}
	return humanize.Comma(int64(v))
}

func truncate(s string, width int) string {
	if utf8.RuneCountInString(s) <= width {
		return s
	}
	r := []rune(s)
	return strings.TrimRight(string(r[:width-1]), " ") + "…"
}

func formatOwner(owner, me string) string {
	short := cryptox.ShortAddress(owner)
	if me != "" && owner == me {
		return short + " (you)"
	}
	return short
}

// renderRecords writes records as a table. me marks the caller's own records.
func renderRecords(w io.Writer, recs []models.Record, me string, stale bool, now time.Time) {
	if len(recs) == 0 {
		fmt.Fprintln(w, "No records found.")
		return
	}

	fmt.Fprintf(w, "%-14s %-20s %12s  %-17s %s\n", "ID", "NAME", "VALUE", "OWNER", "UPDATED")
	for _, r := range recs {
		fmt.Fprintf(w, "%-14d %-20s %12s  %-17s %s\n",
			r.ID,
			truncate(r.Name, nameWidth),
			formatValue(r.Value),
			formatOwner(r.Owner, me),
			humanize.RelTime(r.UpdatedTime(), now, "ago", "from now"),
		)
		if r.Description != "" {
			fmt.Fprintf(w, "%14s %s\n", "", r.Description)
		}
	}

	footer := humanize.Comma(int64(len(recs))) + " records"
	if len(recs) == 1 {
		footer = "1 record"
	}
	if stale {
		footer += " (cached, ledger unreachable)"
	}
	fmt.Fprintln(w, footer)
}

// renderRecord writes the full details of a single record.
func renderRecord(w io.Writer, r models.Record, me string) {
	fmt.Fprintf(w, "ID:          %d\n", r.ID)
	fmt.Fprintf(w, "Name:        %s\n", r.Name)
	fmt.Fprintf(w, "Description: %s\n", r.Description)
	fmt.Fprintf(w, "Value:       %s\n", formatValue(r.Value))
	fmt.Fprintf(w, "Owner:       %s\n", formatOwner(r.Owner, me))
	fmt.Fprintf(w, "Created:     %s\n", r.CreatedTime().UTC().Format(time.RFC3339))
	fmt.Fprintf(w, "Updated:     %s\n", r.UpdatedTime().UTC().Format(time.RFC3339))
}

func renderOperations(w io.Writer, ops []models.Operation, now time.Time) {
	if len(ops) == 0 {
		fmt.Fprintln(w, "No operations yet.")
		return
	}
	for _, op := range ops {
		line := fmt.Sprintf("%-9s %-6s record %d  %s",
			op.State, op.Kind, op.RecordID,
			humanize.RelTime(time.UnixMilli(op.CreatedAt), now, "ago", "from now"))
		if op.Error != "" {
			line += "  (" + op.Error + ")"
		}
		fmt.Fprintln(w, line)
	}
}
