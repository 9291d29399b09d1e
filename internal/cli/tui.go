package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/bricklabels/pkg/rebrickable"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// partListModel - Interactive part selection
// =============================================================================

// partListModel is the bubbletea model for picking one part out of the
// locally cached catalog entries.
type partListModel struct {
	parts    []rebrickable.PartInfo
	cursor   int
	selected *rebrickable.PartInfo
	height   int
	offset   int
}

// newPartListModel creates a part list model over the given parts.
func newPartListModel(parts []rebrickable.PartInfo) partListModel {
	return partListModel{
		parts:  parts,
		height: 15,
	}
}

func (m partListModel) Init() tea.Cmd {
	return nil
}

func (m partListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
				if m.cursor < m.offset {
					m.offset = m.cursor
				}
			}
		case "down", "j":
			if m.cursor < len(m.parts)-1 {
				m.cursor++
				if m.cursor >= m.offset+m.height {
					m.offset = m.cursor - m.height + 1
				}
			}
		case "enter":
			m.selected = &m.parts[m.cursor]
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.height = msg.Height - 6
		if m.height < 5 {
			m.height = 5
		}
	}
	return m, nil
}

func (m partListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Part"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ select  q quit"))
	b.WriteString("\n\n")

	end := m.offset + m.height
	if end > len(m.parts) {
		end = len(m.parts)
	}

	rows := [][]string{}
	for i := m.offset; i < end; i++ {
		p := m.parts[i]

		cursor := "  "
		if i == m.cursor {
			cursor = "▸ "
		}

		rows = append(rows, []string{cursor, p.PartNum, p.Name, formatYears(p)})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Part", "Name", "Years").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if m.offset+row == m.cursor {
				return listSelectedStyle
			}
			if col == 3 {
				return listDimStyle
			}
			return lipgloss.NewStyle().Foreground(colorWhite)
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.cursor+1, len(m.parts))))

	return b.String()
}

// =============================================================================
// Helpers
// =============================================================================

// formatYears renders the production year range of a part, or a dash when
// the catalog has none.
func formatYears(p rebrickable.PartInfo) string {
	switch {
	case p.YearFrom == 0:
		return "—"
	case p.YearTo == 0 || p.YearTo == p.YearFrom:
		return fmt.Sprintf("%d", p.YearFrom)
	default:
		return fmt.Sprintf("%d–%d", p.YearFrom, p.YearTo)
	}
}
