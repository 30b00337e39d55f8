package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/hardref/pkg/asset"
	"github.com/matzehuels/hardref/pkg/blueprint"
)

// List styles
var (
	listDimStyle = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// BlueprintListModel - Interactive blueprint selection
// =============================================================================

// BlueprintListModel is the bubbletea model for choosing a Blueprint when a
// snapshot holds several. Typing filters the list by name.
type BlueprintListModel struct {
	Blueprints []*blueprint.Blueprint
	Filter     textinput.Model
	Cursor     int
	Selected   *blueprint.Blueprint
	Height     int
	Offset     int

	visible []*blueprint.Blueprint
}

// NewBlueprintListModel creates a new blueprint list model.
func NewBlueprintListModel(bps []*blueprint.Blueprint) BlueprintListModel {
	ti := textinput.New()
	ti.Placeholder = "filter"
	ti.Prompt = "/ "
	ti.Focus()

	m := BlueprintListModel{
		Blueprints: bps,
		Filter:     ti,
		Height:     15,
	}
	m.applyFilter()
	return m
}

func (m BlueprintListModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m BlueprintListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "ctrl+p":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
			return m, nil
		case "down", "ctrl+n":
			if m.Cursor < len(m.visible)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
			return m, nil
		case "enter":
			if len(m.visible) == 0 {
				return m, nil
			}
			m.Selected = m.visible[m.Cursor]
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 8
		if m.Height < 5 {
			m.Height = 5
		}
		return m, nil
	}

	var cmd tea.Cmd
	before := m.Filter.Value()
	m.Filter, cmd = m.Filter.Update(msg)
	if m.Filter.Value() != before {
		m.applyFilter()
	}
	return m, cmd
}

// applyFilter narrows the visible list to Blueprints whose path contains the
// filter text, case-insensitively, and resets the cursor.
func (m *BlueprintListModel) applyFilter() {
	q := strings.ToLower(strings.TrimSpace(m.Filter.Value()))
	m.visible = nil
	for _, bp := range m.Blueprints {
		if q == "" || strings.Contains(strings.ToLower(string(bp.Path)), q) {
			m.visible = append(m.visible, bp)
		}
	}
	m.Cursor = 0
	m.Offset = 0
}

func (m BlueprintListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Blueprint"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ select  esc quit"))
	b.WriteString("\n\n")
	b.WriteString(m.Filter.View())
	b.WriteString("\n\n")

	if len(m.visible) == 0 {
		b.WriteString(listDimStyle.Render("  no matching blueprints"))
		return b.String()
	}

	end := min(m.Offset+m.Height, len(m.visible))

	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		bp := m.visible[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		pkg, _ := asset.PathResolver{}.OwningPackage(bp.Path)
		rows = append(rows, []string{
			cursor,
			pkg.ShortName(),
			string(pkg),
			strconv.Itoa(bp.NodeCount()),
			strconv.Itoa(len(bp.Properties)),
		})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Blueprint", "Package", "Nodes", "Props").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			base := lipgloss.NewStyle()
			if m.Offset+row == m.Cursor {
				if col == 1 {
					return base.Foreground(colorGreen).Bold(true)
				}
				return base.Bold(true)
			}
			if col >= 2 {
				return base.Foreground(colorDim)
			}
			return base.Foreground(colorWhite)
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.visible))))

	return b.String()
}

// pickBlueprint runs the picker and returns the chosen Blueprint, or nil if
// the user quit without choosing.
func pickBlueprint(bps []*blueprint.Blueprint) (*blueprint.Blueprint, error) {
	final, err := tea.NewProgram(NewBlueprintListModel(bps)).Run()
	if err != nil {
		return nil, fmt.Errorf("blueprint picker: %w", err)
	}
	return final.(BlueprintListModel).Selected, nil
}
