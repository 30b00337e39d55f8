package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"

	"github.com/matzehuels/hardref/pkg/hardref"
)

var (
	colorCyan   = lipgloss.Color("36")
	colorYellow = lipgloss.Color("220")
	colorWhite  = lipgloss.Color("255")
	colorGray   = lipgloss.Color("245")
	colorDim    = lipgloss.Color("240")

	styleTitle  = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	styleHeader = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	styleDim    = lipgloss.NewStyle().Foreground(colorDim)
	styleValue  = lipgloss.NewStyle().Foreground(colorWhite)
	styleNumber = lipgloss.NewStyle().Foreground(colorCyan)
	styleWarn   = lipgloss.NewStyle().Foreground(colorYellow)
)

// Size formats a byte count the way the table shows it ("1.5 MiB").
func Size(n int64) string {
	if n < 0 {
		n = 0
	}
	return humanize.IBytes(uint64(n))
}

// Text writes a table of dependency groups, largest first. With
// [Options.Sites] set, each group's sites are listed below the table.
func Text(w io.Writer, res *hardref.Result, opts Options) error {
	var b strings.Builder

	b.WriteString(styleTitle.Render(string(res.Blueprint)))
	b.WriteString("\n")

	if res.Root == "" {
		b.WriteString(styleWarn.Render("  does not resolve to a package"))
		b.WriteString("\n")
		_, err := io.WriteString(w, b.String())
		return err
	}

	var total int64
	for _, g := range res.Groups {
		total += g.OwnSize
	}
	fmt.Fprintf(&b, "  %s %s  %s %s  %s %s\n",
		styleDim.Render("package"), styleValue.Render(string(res.Root)),
		styleDim.Render("own"), styleNumber.Render(Size(res.RootSize)),
		styleDim.Render("dependencies"), styleNumber.Render(strconv.Itoa(len(res.Groups))))

	if len(res.Groups) == 0 {
		b.WriteString(styleDim.Render("  no hard references"))
		b.WriteString("\n")
		_, err := io.WriteString(w, b.String())
		return err
	}

	rows := make([][]string, 0, len(res.Groups))
	for _, g := range res.Groups {
		sites := strconv.Itoa(len(g.Sites))
		if !g.Identified() {
			sites = "?"
		}
		typ := g.TypeName
		if typ == "" {
			typ = "-"
		}
		rows = append(rows, []string{g.Name, typ, Size(g.Size), Size(g.OwnSize), sites})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Package", "Type", "Size", "Own", "Sites").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return styleHeader.Padding(0, 1)
			}
			base := lipgloss.NewStyle().Padding(0, 1)
			switch col {
			case 0:
				if row < len(res.Groups) && !res.Groups[row].Identified() {
					return base.Foreground(colorYellow)
				}
				return base.Foreground(colorWhite)
			case 2, 3:
				return base.Foreground(colorCyan).Align(lipgloss.Right)
			default:
				return base.Foreground(colorGray)
			}
		})

	b.WriteString(t.Render())
	b.WriteString("\n")
	fmt.Fprintf(&b, "  %s %s\n", styleDim.Render("direct dependencies on disk"), styleNumber.Render(Size(total)))

	if opts.Sites {
		for _, g := range res.Groups {
			b.WriteString("\n")
			fmt.Fprintf(&b, "%s %s\n", styleValue.Bold(true).Render(g.Name), styleDim.Render(g.DisplayPath))
			for _, s := range g.Sites {
				writeSite(&b, s)
			}
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func writeSite(b *strings.Builder, s hardref.Site) {
	if s.IsPlaceholder() {
		fmt.Fprintf(b, "  %s %s\n", styleWarn.Render("?"), styleWarn.Render(s.Label))
		return
	}
	line := fmt.Sprintf("  %s %s %s", styleDim.Render("•"), styleValue.Render(s.Label), styleDim.Render("["+string(s.Category)+"]"))
	if s.Tooltip != "" {
		line += " " + styleDim.Render(s.Tooltip)
	}
	b.WriteString(line)
	b.WriteString("\n")
}
