package cli

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	boxio "github.com/matzehuels/boxlayout/pkg/io"
	"github.com/matzehuels/boxlayout/pkg/layout"
	"github.com/matzehuels/boxlayout/pkg/pipeline"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

func (c *CLI) inspectCommand() *cobra.Command {
	var strict, noCache bool

	cmd := &cobra.Command{
		Use:   "inspect <tree.json|tree.toml>",
		Short: "Browse the resolved blocks interactively",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			model, err := c.loadInspectModel(cmd.Context(), args[0], strict, noCache)
			if err != nil {
				return err
			}
			_, err = tea.NewProgram(model, tea.WithAltScreen()).Run()
			return err
		},
	}

	cmd.Flags().BoolVar(&strict, "strict", false, "fail on duplicate box ids")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the layout cache")

	return cmd
}

func (c *CLI) loadInspectModel(ctx context.Context, input string, strict, noCache bool) (InspectModel, error) {
	root, err := boxio.ImportTree(input)
	if err != nil {
		return InspectModel{}, err
	}
	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return InspectModel{}, err
	}
	defer runner.Close()

	l, err := runner.Resolve(ctx, root, pipeline.Options{StrictIDs: strict})
	if err != nil {
		return InspectModel{}, err
	}
	return NewInspectModel(root, l), nil
}

// blockRow is one line of the inspector: a node of the tree and the
// block resolved for its id.
type blockRow struct {
	ID        string
	Parent    string
	Depth     int
	Size      string // declared width x height
	Direction layout.Direction
	Padding   layout.Padding
	Block     layout.Block
}

// InspectModel is the bubbletea model for browsing a resolved layout.
type InspectModel struct {
	Rows   []blockRow
	Cursor int
	Height int
	Offset int
}

// NewInspectModel lists the root and its descendants in tree order.
func NewInspectModel(root layout.Root, l layout.Layout) InspectModel {
	rows := []blockRow{{
		ID:        root.ID,
		Size:      fmt.Sprintf("%g x %g", root.Width, root.Height),
		Direction: root.Direction,
		Padding:   root.Padding,
		Block:     l[root.ID],
	}}
	_ = root.Walk(func(parentID string, n layout.Node, depth int) error {
		rows = append(rows, blockRow{
			ID:        n.ID,
			Parent:    parentID,
			Depth:     depth,
			Size:      n.Width.String() + " x " + n.Height.String(),
			Direction: n.Direction,
			Padding:   n.Padding,
			Block:     l[n.ID],
		})
		return nil
	})
	return InspectModel{Rows: rows, Height: 15}
}

func (m InspectModel) Init() tea.Cmd {
	return nil
}

func (m InspectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
			}
		case "down", "j":
			if m.Cursor < len(m.Rows)-1 {
				m.Cursor++
			}
		case "home", "g":
			m.Cursor = 0
		case "end", "G":
			m.Cursor = max(len(m.Rows)-1, 0)
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-14, 5)
	}

	if m.Cursor < m.Offset {
		m.Offset = m.Cursor
	}
	if m.Cursor >= m.Offset+m.Height {
		m.Offset = m.Cursor - m.Height + 1
	}
	return m, nil
}

func (m InspectModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Layout Blocks"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  g/G first/last  q quit"))
	b.WriteString("\n\n")

	if len(m.Rows) == 0 {
		b.WriteString(listDimStyle.Render("  no blocks"))
		return b.String()
	}

	end := min(m.Offset+m.Height, len(m.Rows))
	rows := make([][]string, 0, end-m.Offset)
	for i := m.Offset; i < end; i++ {
		r := m.Rows[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		rows = append(rows, []string{
			cursor,
			strings.Repeat("  ", r.Depth) + r.ID,
			formatCoord(r.Block.Width),
			formatCoord(r.Block.Height),
			formatCoord(r.Block.Top),
			formatCoord(r.Block.Left),
		})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Block", "Width", "Height", "Top", "Left").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if m.Offset+row == m.Cursor {
				return listSelectedStyle
			}
			return listNormalStyle
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(m.detail(m.Rows[m.Cursor]))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Rows))))

	return b.String()
}

func (m InspectModel) detail(r blockRow) string {
	var b strings.Builder
	line := func(label, value string) {
		fmt.Fprintf(&b, "  %s %s\n", listDimStyle.Render(fmt.Sprintf("%-10s", label)), StyleValue.Render(value))
	}
	line("id", r.ID)
	if r.Parent != "" {
		line("parent", r.Parent)
	}
	line("declared", r.Size)
	if r.Direction != layout.DirectionUnset {
		line("direction", r.Direction.String())
	}
	if !r.Padding.IsZero() {
		line("padding", r.Padding.String())
	}
	line("box", fmt.Sprintf("(%s, %s) to (%s, %s)",
		formatCoord(r.Block.Left), formatCoord(r.Block.Top),
		formatCoord(r.Block.Right), formatCoord(r.Block.Bottom)))
	return b.String()
}

// formatCoord prints a coordinate with at most two decimals.
func formatCoord(v float64) string {
	s := fmt.Sprintf("%.2f", v)
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}
