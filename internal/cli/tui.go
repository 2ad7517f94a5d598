package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/zendapi/moxygen/pkg/pipeline"
)

// List styles
var (
	listDimStyle = lipgloss.NewStyle().Foreground(colorDim)
	headerStyle  = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
)

// =============================================================================
// GroupPickerModel - Interactive group document selection
// =============================================================================

// GroupPickerModel is the bubbletea model for choosing which group
// documents to write. All documents start selected.
type GroupPickerModel struct {
	Outputs   []pipeline.Output
	Selected  []bool
	Cursor    int
	Height    int
	Offset    int
	Confirmed bool
}

// NewGroupPickerModel creates a picker over the rendered outputs.
func NewGroupPickerModel(outputs []pipeline.Output) GroupPickerModel {
	selected := make([]bool, len(outputs))
	for i := range selected {
		selected[i] = true
	}
	return GroupPickerModel{
		Outputs:  outputs,
		Selected: selected,
		Height:   15,
	}
}

func (m GroupPickerModel) Init() tea.Cmd {
	return nil
}

func (m GroupPickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Outputs)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case " ", "x":
			if len(m.Selected) > 0 {
				m.Selected = toggled(m.Selected, m.Cursor)
			}
		case "a":
			all := !m.allSelected()
			sel := make([]bool, len(m.Selected))
			for i := range sel {
				sel[i] = all
			}
			m.Selected = sel
		case "enter":
			m.Confirmed = true
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 6
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

// toggled returns a copy of sel with index i flipped. Models are values,
// so the backing array must not be shared with earlier states.
func toggled(sel []bool, i int) []bool {
	out := append([]bool(nil), sel...)
	out[i] = !out[i]
	return out
}

func (m GroupPickerModel) allSelected() bool {
	for _, s := range m.Selected {
		if !s {
			return false
		}
	}
	return true
}

// Chosen returns the selected outputs, or nil when the picker was aborted.
func (m GroupPickerModel) Chosen() []pipeline.Output {
	if !m.Confirmed {
		return nil
	}
	var out []pipeline.Output
	for i, o := range m.Outputs {
		if m.Selected[i] {
			out = append(out, o)
		}
	}
	return out
}

func (m GroupPickerModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Groups"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  space toggle  a all  ⏎ write  q quit"))
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.Outputs))

	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		mark := " "
		if m.Selected[i] {
			mark = "✓"
		}
		o := m.Outputs[i]
		rows = append(rows, []string{cursor, mark, o.Name, o.Path})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "", "Group", "Output").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			idx := m.Offset + row
			if idx >= len(m.Outputs) {
				return lipgloss.NewStyle()
			}
			base := lipgloss.NewStyle()
			if !m.Selected[idx] {
				base = base.Foreground(colorDim)
			} else if col != 3 {
				base = base.Foreground(colorGreen)
			}
			if idx == m.Cursor {
				base = base.Bold(true)
			}
			return base
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]  %d selected", m.Cursor+1, len(m.Outputs), m.count())))

	return b.String()
}

func (m GroupPickerModel) count() int {
	n := 0
	for _, s := range m.Selected {
		if s {
			n++
		}
	}
	return n
}

// pickOutputs runs the picker on the terminal.
func pickOutputs(outputs []pipeline.Output) ([]pipeline.Output, error) {
	final, err := tea.NewProgram(NewGroupPickerModel(outputs)).Run()
	if err != nil {
		return nil, fmt.Errorf("group picker: %w", err)
	}
	return final.(GroupPickerModel).Chosen(), nil
}
