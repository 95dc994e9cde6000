// Package present renders reconciler views for the terminal.
package present

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/okian/wanderlist/internal/domain/destination"
	"github.com/okian/wanderlist/internal/reconciler"
)

// Texts shown to the user.
const (
	BannerText = "Database Unavailable: Data is being stored locally and will sync when connection is restored."
	EmptyText  = "No destinations added yet. Add your first destination above!"
	LocalMark  = "(Local Only)"
)

var (
	bannerStyle = lipgloss.NewStyle().Bold(true).
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("11")).
			Padding(0, 1)
	nameStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	localStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Italic(true)
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	idStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Faint(true)
	cardStyle  = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("14")).
			Padding(0, 1)
	noticeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	errorStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
)

// Renderer writes views to w. The zero value is not usable; use New.
type Renderer struct {
	w io.Writer
}

// New returns a Renderer writing to w.
func New(w io.Writer) *Renderer {
	return &Renderer{w: w}
}

// List renders a full view: at most one banner, then cards or the empty state.
func (r *Renderer) List(v reconciler.View) error {
	var b strings.Builder
	if v.Unavailable {
		b.WriteString(bannerStyle.Render(BannerText))
		b.WriteString("\n\n")
	}
	if len(v.Entries) == 0 {
		b.WriteString(labelStyle.Render(EmptyText))
		b.WriteString("\n")
	}
	for _, e := range v.Entries {
		b.WriteString(Card(e.Destination, e.Local))
		b.WriteString("\n")
	}
	_, err := io.WriteString(r.w, b.String())
	return err
}

// One renders a single record.
func (r *Renderer) One(d destination.Destination, local bool) error {
	_, err := fmt.Fprintln(r.w, Card(d, local))
	return err
}

// Notice prints a non-blocking message.
func (r *Renderer) Notice(msg string) error {
	_, err := fmt.Fprintln(r.w, noticeStyle.Render(msg))
	return err
}

// Error prints a blocking error message.
func (r *Renderer) Error(err error) error {
	_, werr := fmt.Fprintln(r.w, errorStyle.Render("Error: "+err.Error()))
	return werr
}

// Card renders one destination.
func Card(d destination.Destination, local bool) string {
	title := nameStyle.Render(d.Name)
	if local {
		title += " " + localStyle.Render(LocalMark)
	}
	lines := []string{
		title,
		d.Location,
		labelStyle.Render("Planned visit:") + " " + d.DisplayDate(),
		d.DisplayDescription(),
		idStyle.Render("id: " + d.ID),
	}
	return cardStyle.Render(strings.Join(lines, "\n"))
}
