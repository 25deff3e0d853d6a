package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/cms-cat/cmsstyle-go/pkg/colors"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// PaletteModel - Interactive colour browsing
// =============================================================================

// namedPalette is one qualitative colour set.
type namedPalette struct {
	Name   string
	Colors []colors.Index
}

// PaletteModel is the bubbletea model for browsing the Petroff sets and
// picking a colour.
type PaletteModel struct {
	Palettes []namedPalette
	Set      int // index into Palettes
	Cursor   int // index into the current set
	Selected *colors.Index
}

// NewPaletteModel creates a model over the given palettes, starting on
// the first one.
func NewPaletteModel(palettes []namedPalette) PaletteModel {
	return PaletteModel{Palettes: palettes}
}

func (m PaletteModel) current() []colors.Index {
	if len(m.Palettes) == 0 {
		return nil
	}
	return m.Palettes[m.Set].Colors
}

func (m PaletteModel) Init() tea.Cmd {
	return nil
}

func (m PaletteModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "up", "k":
		if m.Cursor > 0 {
			m.Cursor--
		}
	case "down", "j":
		if m.Cursor < len(m.current())-1 {
			m.Cursor++
		}
	case "left", "h":
		if m.Set > 0 {
			m.Set--
			m.Cursor = min(m.Cursor, len(m.current())-1)
		}
	case "right", "l", "tab":
		if m.Set < len(m.Palettes)-1 {
			m.Set++
			m.Cursor = min(m.Cursor, len(m.current())-1)
		}
	case "enter":
		if cs := m.current(); len(cs) > 0 {
			c := cs[m.Cursor]
			m.Selected = &c
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m PaletteModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("CMS Colour Sets"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("←/→ palette  ↑/↓ colour  ⏎ select  q quit"))
	b.WriteString("\n\n")

	tabs := make([]string, len(m.Palettes))
	for i, p := range m.Palettes {
		if i == m.Set {
			tabs[i] = listSelectedStyle.Render("[" + p.Name + "]")
		} else {
			tabs[i] = listNormalStyle.Render(" " + p.Name + " ")
		}
	}
	b.WriteString(strings.Join(tabs, " "))
	b.WriteString("\n")

	cs := m.current()
	rows := make([][]string, len(cs))
	for i, c := range cs {
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		rows[i] = []string{cursor, swatch(c, 6), colors.Name(c), colors.Hex(c), fmt.Sprint(int(c))}
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "", "Name", "Hex", "Index").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == -1:
				return headerStyle
			case row == m.Cursor && col >= 2:
				return listSelectedStyle
			case col >= 3:
				return listDimStyle
			}
			return lipgloss.NewStyle()
		})

	b.WriteString(t.Render())
	b.WriteString("\n")
	if len(cs) > 0 {
		b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(cs))))
	}
	return b.String()
}
