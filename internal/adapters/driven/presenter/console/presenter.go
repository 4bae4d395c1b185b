// Package console presents ingestion outcomes on a terminal or plain stream.
package console

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"golang.org/x/term"

	"github.com/pemre/couchspinner/internal/core/domain"
	"github.com/pemre/couchspinner/internal/core/ports/driven"
)

// Ensure Presenter implements the interface.
var _ driven.Presenter = (*Presenter)(nil)

// clearScreen moves the cursor home and clears the terminal.
const clearScreen = "\x1b[H\x1b[2J"

// Presenter writes session summaries to a stream.
type Presenter struct {
	mu             sync.Mutex
	out            io.Writer
	styles         *Styles
	interactive    bool
	showIdentities bool

	// clearPending is set by ScrollToTop; the next summary starts on a
	// cleared screen.
	clearPending bool
}

// New creates a presenter writing to out. When showIdentities is set every
// identity is listed in a table.
func New(out io.Writer, showIdentities bool) *Presenter {
	return &Presenter{
		out:            out,
		styles:         NewStyles(out, nil),
		interactive:    IsTerminal(out),
		showIdentities: showIdentities,
	}
}

// IsTerminal reports whether w is a terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// Present prints a summary of state.
func (p *Presenter) Present(_ context.Context, state domain.SessionState) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.clearPending {
		fmt.Fprint(p.out, clearScreen)
		p.clearPending = false
	}

	s := p.styles
	fileDate := state.FileDate
	if fileDate == "" {
		fileDate = s.Muted.Render("unknown")
	}

	fmt.Fprintln(p.out, s.Title.Render("Session ready"))
	fmt.Fprintf(p.out, "  %s %s\n", s.Label.Render("Exported:"), fileDate)
	fmt.Fprintf(p.out, "  %s %d\n", s.Label.Render("Identities:"), len(state.Identities))
	fmt.Fprintf(p.out, "  %s %d\n", s.Label.Render("Assets:"), len(state.Assets))
	for _, a := range state.Assets {
		fmt.Fprintf(p.out, "    %s %s\n", a.SourceName, s.Muted.Render(fmt.Sprintf("(%s, %s)", a.MIMEType, formatSize(a.Size))))
	}

	if p.showIdentities && len(state.Identities) > 0 {
		fmt.Fprintln(p.out)
		fmt.Fprintln(p.out, p.identityTable(state.Identities.Sorted()))
	}
}

// ScrollToTop makes the next summary start at the top of a cleared
// terminal. It does nothing on a plain stream.
func (p *Presenter) ScrollToTop() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.clearPending = p.interactive
}

// NotifyError prints a failure message.
func (p *Presenter) NotifyError(message string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	fmt.Fprintf(p.out, "%s %s\n", p.styles.Error.Render("Error:"), message)
}

func (p *Presenter) identityTable(identities []domain.Identity) string {
	rows := make([][]string, 0, len(identities))
	for _, id := range identities {
		personID := id.PersonID
		if personID == domain.AbsentPersonID {
			personID = "(none)"
		}
		rows = append(rows, []string{personID, id.Username, id.DisplayName})
	}

	s := p.styles
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(s.Border).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return s.Header
			}
			return s.Cell
		}).
		Headers("PERSON ID", "USERNAME", "DISPLAY NAME").
		Rows(rows...).
		String()
}

// formatSize renders a byte count for display.
func formatSize(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
