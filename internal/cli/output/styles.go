package output

import (
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Styles holds the lipgloss styles used for status output.
type Styles struct {
	Header  lipgloss.Style
	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
	Muted   lipgloss.Style
}

// NewStyles builds styles bound to w. Without a terminal every style renders
// plain text.
func NewStyles(w io.Writer, isTTY bool) *Styles {
	var re *lipgloss.Renderer
	if isTTY {
		re = lipgloss.NewRenderer(w)
	} else {
		re = lipgloss.NewRenderer(w, termenv.WithProfile(termenv.Ascii))
	}

	return &Styles{
		Header:  re.NewStyle().Bold(true),
		Success: re.NewStyle().Foreground(lipgloss.Color("2")),
		Warning: re.NewStyle().Foreground(lipgloss.Color("3")),
		Error:   re.NewStyle().Foreground(lipgloss.Color("1")).Bold(true),
		Muted:   re.NewStyle().Foreground(lipgloss.Color("8")),
	}
}
