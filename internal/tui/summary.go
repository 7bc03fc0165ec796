package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	colorTitle   = lipgloss.Color("39")
	colorBorder  = lipgloss.Color("245")
	colorSuccess = lipgloss.Color("34")
	colorWarning = lipgloss.Color("214")
	colorError   = lipgloss.Color("196")
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(colorTitle)
	boxStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorBorder).Padding(0, 1)
	labelStyle = lipgloss.NewStyle().Foreground(colorBorder)
)

// Symbols prefixed to summary titles and list rows.
const (
	SymbolCheck      = "✓"
	SymbolCross      = "✗"
	SymbolArrowRight = "→"
	SymbolBullet     = "•"
)

// Tone selects the color of a summary row.
type Tone int

const (
	ToneNone Tone = iota
	ToneSuccess
	ToneWarning
	ToneError
)

// Row is one labelled line of a summary.
type Row struct {
	Label string
	Value string
	Tone  Tone
}

// Summary is a titled block of rows printed after a command.
type Summary struct {
	Title string
	Rows  []Row
}

// Add appends a row.
func (s *Summary) Add(label, value string, tone Tone) {
	s.Rows = append(s.Rows, Row{Label: label, Value: value, Tone: tone})
}

// Render returns the summary boxed and colored when styled is true, as
// aligned plain text otherwise.
func (s Summary) Render(styled bool) string {
	width := 0
	for _, r := range s.Rows {
		width = max(width, len(r.Label))
	}

	lines := make([]string, 0, len(s.Rows)+1)
	if s.Title != "" {
		if styled {
			lines = append(lines, titleStyle.Render(s.Title))
		} else {
			lines = append(lines, s.Title)
		}
	}
	for _, r := range s.Rows {
		label := fmt.Sprintf("%-*s", width, r.Label)
		value := r.Value
		if styled {
			label = labelStyle.Render(label)
			value = toneStyle(r.Tone).Render(value)
		}
		lines = append(lines, label+"  "+value)
	}

	body := strings.Join(lines, "\n")
	if !styled {
		return body + "\n"
	}
	return boxStyle.Render(body) + "\n"
}

func toneStyle(t Tone) lipgloss.Style {
	style := lipgloss.NewStyle()
	switch t {
	case ToneSuccess:
		return style.Foreground(colorSuccess)
	case ToneWarning:
		return style.Foreground(colorWarning)
	case ToneError:
		return style.Foreground(colorError)
	}
	return style
}
