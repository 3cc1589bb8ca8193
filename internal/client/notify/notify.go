// Package notify shows short status messages to the user. Loading messages
// stay active until they are dismissed by id.
package notify

import (
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/oklog/ulid/v2"
)

type ID string

type Kind int

const (
	KindSuccess Kind = iota
	KindError
	KindInfo
	KindLoading
)

func (k Kind) String() string {
	switch k {
	case KindSuccess:
		return "success"
	case KindError:
		return "error"
	case KindLoading:
		return "loading"
	default:
		return "info"
	}
}

type Notification struct {
	ID        ID
	Kind      Kind
	Message   string
	CreatedAt time.Time
}

type Notifier interface {
	Success(msg string) ID
	Error(msg string) ID
	Info(msg string) ID
	Loading(msg string) ID
	Dismiss(id ID)
}

// Terminal prints notifications as styled lines and keeps loading
// notifications until they are dismissed.
type Terminal struct {
	mu     sync.Mutex
	out    io.Writer
	active map[ID]Notification
	now    func() time.Time

	styles map[Kind]lipgloss.Style
	icons  map[Kind]string
}

func NewTerminal(out io.Writer) *Terminal {
	r := lipgloss.NewRenderer(out)
	return &Terminal{
		out:    out,
		active: map[ID]Notification{},
		now:    time.Now,
		styles: map[Kind]lipgloss.Style{
			KindSuccess: r.NewStyle().Foreground(lipgloss.Color("10")).Bold(true),
			KindError:   r.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
			KindInfo:    r.NewStyle().Foreground(lipgloss.Color("12")),
			KindLoading: r.NewStyle().Foreground(lipgloss.Color("11")).Italic(true),
		},
		icons: map[Kind]string{
			KindSuccess: "✓",
			KindError:   "✗",
			KindInfo:    "i",
			KindLoading: "…",
		},
	}
}

func (t *Terminal) show(kind Kind, msg string) ID {
	t.mu.Lock()
	defer t.mu.Unlock()

	n := Notification{
		ID:        ID(ulid.Make().String()),
		Kind:      kind,
		Message:   msg,
		CreatedAt: t.now(),
	}
	if kind == KindLoading {
		t.active[n.ID] = n
	}
	fmt.Fprintln(t.out, t.styles[kind].Render(t.icons[kind]+" "+msg))
	return n.ID
}

func (t *Terminal) Success(msg string) ID { return t.show(KindSuccess, msg) }
func (t *Terminal) Error(msg string) ID   { return t.show(KindError, msg) }
func (t *Terminal) Info(msg string) ID    { return t.show(KindInfo, msg) }
func (t *Terminal) Loading(msg string) ID { return t.show(KindLoading, msg) }

// Dismiss removes an active loading notification. Unknown ids are ignored.
func (t *Terminal) Dismiss(id ID) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.active, id)
}

// Active returns the loading notifications not yet dismissed, oldest first.
func (t *Terminal) Active() []Notification {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make([]Notification, 0, len(t.active))
	for _, n := range t.active {
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
