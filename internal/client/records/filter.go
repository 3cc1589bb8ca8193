package records

import (
	"strings"

	"github.com/dmitrijs2005/recordkeeper/internal/client/models"
)

type Scope string

const (
	ScopeAll  Scope = "all"
	ScopeMine Scope = "mine"
)

// Query selects records by a search term and ownership.
type Query struct {
	// Term matches name or description, case-insensitively.
	Term  string
	Scope Scope
	// Owner is the connected address; ScopeMine with no owner matches nothing.
	Owner string
}

func Filter(records []models.Record, q Query) []models.Record {
	term := strings.ToLower(strings.TrimSpace(q.Term))

	out := make([]models.Record, 0, len(records))
	for _, r := range records {
		if q.Scope == ScopeMine && (q.Owner == "" || r.Owner != q.Owner) {
			continue
		}
		if term != "" &&
			!strings.Contains(strings.ToLower(r.Name), term) &&
			!strings.Contains(strings.ToLower(r.Description), term) {
			continue
		}
		out = append(out, r)
	}
	return out
}
