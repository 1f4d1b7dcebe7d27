package cli

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/pedalboard/pkg/chain"
	"github.com/matzehuels/pedalboard/pkg/diagram"
)

var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
	tableHeaderStyle  = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
)

// headerRow is the row index lipgloss tables pass for the header.
const headerRow = -1

// inspectCommand creates the inspect command.
func (c *CLI) inspectCommand() *cobra.Command {
	var plain bool

	cmd := &cobra.Command{
		Use:   "inspect [chain.yaml | board.json]",
		Short: "Browse the nodes and connections of a board",
		Long: `Browse the nodes and connections of a board.

Opens an interactive view listing every node with its resolved channel
counts. Selecting a node shows its bounds and the flow of every connector
touching it. Use --plain to print the node table and exit.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := c.loadDiagram(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			m := NewBoardModel(d)
			if plain {
				fmt.Fprintln(out, m.table(0, len(m.Nodes)))
				return nil
			}
			_, err = tea.NewProgram(m, tea.WithContext(cmd.Context())).Run()
			return err
		},
	}
	cmd.Flags().BoolVar(&plain, "plain", false, "print the node table without the interactive view")
	return cmd
}

// loadDiagram reads a diagram file, or lays out a chain document.
func (c *CLI) loadDiagram(ctx context.Context, input string) (diagram.Diagram, error) {
	if isDiagramFile(input) {
		d, err := diagram.ReadFile(input)
		if err != nil {
			return diagram.Diagram{}, fmt.Errorf("load diagram %s: %w", input, err)
		}
		if !d.IsBoard() {
			return diagram.Diagram{}, fmt.Errorf("%s is a %s diagram; board diagrams only", input, d.VizType)
		}
		return d, nil
	}

	ch, err := chain.ReadFile(input)
	if err != nil {
		return diagram.Diagram{}, fmt.Errorf("load chain %s: %w", input, err)
	}
	reg, err := c.registry()
	if err != nil {
		return diagram.Diagram{}, err
	}
	opts := c.defaultOptions()
	opts.Registry = reg

	runner, err := c.newRunner(ctx, false)
	if err != nil {
		return diagram.Diagram{}, err
	}
	defer runner.Close()
	return runner.Compute(ctx, ch, opts)
}

// =============================================================================
// BoardModel - interactive board inspector
// =============================================================================

// BoardModel is the bubbletea model behind `pedalboard inspect`.
type BoardModel struct {
	Name   string
	Nodes  []diagram.Node
	Links  []diagram.Link
	Cursor int
	Offset int
	Height int
}

// NewBoardModel creates an inspector over d.
func NewBoardModel(d diagram.Diagram) BoardModel {
	return BoardModel{Name: d.Name, Nodes: d.Nodes, Links: d.Links, Height: 15}
}

func (m BoardModel) Init() tea.Cmd { return nil }

func (m BoardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
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
			if m.Cursor < len(m.Nodes)-1 {
				m.Cursor++
			}
		case "home", "g":
			m.Cursor = 0
		case "end", "G":
			m.Cursor = max(len(m.Nodes)-1, 0)
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

func (m BoardModel) View() string {
	var b strings.Builder

	title := "Board"
	if m.Name != "" {
		title += " " + m.Name
	}
	b.WriteString(StyleTitle.Render(title))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  g/G first/last  q quit"))
	b.WriteString("\n\n")

	if len(m.Nodes) == 0 {
		b.WriteString(listDimStyle.Render("  (empty chain)"))
		return b.String()
	}

	b.WriteString(m.table(m.Offset, min(m.Offset+m.Height, len(m.Nodes))))
	b.WriteString("\n\n")
	b.WriteString(m.detail(m.Nodes[m.Cursor]))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Nodes))))
	return b.String()
}

func (m BoardModel) table(from, to int) string {
	rows := make([][]string, 0, to-from)
	for i := from; i < to; i++ {
		n := m.Nodes[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		rows = append(rows, []string{
			cursor,
			strings.Repeat("  ", n.Depth) + n.DisplayLabel(),
			kindLabel(n),
			fmt.Sprintf("%d → %d", n.Inputs, n.Outputs),
			nodeStatus(n),
		})
	}

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Node", "Kind", "Channels", "Status").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == headerRow {
				return tableHeaderStyle
			}
			idx := from + row
			if idx >= len(m.Nodes) {
				return lipgloss.NewStyle()
			}
			n := m.Nodes[idx]
			style := lipgloss.NewStyle()
			switch {
			case n.Missing:
				style = style.Foreground(colorRed)
			case n.Disabled:
				style = style.Foreground(colorDim)
			}
			if idx == m.Cursor {
				style = style.Bold(true)
				if !n.Missing {
					style = style.Foreground(colorCyan)
				}
			}
			return style
		}).
		Render()
}

func (m BoardModel) detail(n diagram.Node) string {
	var b strings.Builder
	b.WriteString(listSelectedStyle.Render(n.ID))
	if n.Plugin != "" {
		b.WriteString(" " + listDimStyle.Render(n.Plugin))
	}
	b.WriteString("\n")
	fmt.Fprintf(&b, "  bounds  x=%.0f y=%.0f w=%.0f h=%.0f\n", n.X, n.Y, n.Width, n.Height)
	if n.Split != nil {
		fmt.Fprintf(&b, "  split   %s", n.Split.Mode)
		if n.Split.Select != "" {
			fmt.Fprintf(&b, " (selects %s)", n.Split.Select)
		}
		if n.Split.Bridged {
			b.WriteString(" bridged")
		}
		b.WriteString("\n")
	}
	for _, l := range m.Links {
		var dir, other string
		switch n.ID {
		case l.To:
			dir, other = "in ", l.From
		case l.From:
			dir, other = "out", l.To
		default:
			continue
		}
		flow := l.Flow
		if !l.Enabled {
			flow += " (bypassed)"
		}
		fmt.Fprintf(&b, "  %s     %-8s %s %s\n", dir, l.Role, other, listDimStyle.Render(flow))
	}
	return b.String()
}

func kindLabel(n diagram.Node) string {
	if n.Split != nil {
		return "split/" + n.Split.Mode
	}
	return n.Kind
}

func nodeStatus(n diagram.Node) string {
	switch {
	case n.Missing:
		return "missing"
	case n.Disabled:
		return "bypassed"
	}
	return "ok"
}
