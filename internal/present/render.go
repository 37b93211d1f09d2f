package present

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// WriteJSON encodes v as one JSON document.
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

var (
	titleStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	headerStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("245")).Padding(0, 1)
	cellStyle      = lipgloss.NewStyle().Padding(0, 1)
	numStyle       = cellStyle.Align(lipgloss.Right)
	highlightStyle = lipgloss.NewStyle().Background(lipgloss.Color("#90ee90")).Foreground(lipgloss.Color("0"))
	borderStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))

	noticeStyles = map[Level]lipgloss.Style{
		LevelInfo:    lipgloss.NewStyle().Foreground(lipgloss.Color("14")),
		LevelSuccess: lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		LevelWarning: lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
		LevelError:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9")),
	}
)

// WriteText renders v for a terminal: title, notices, the grid as a bordered
// table with highlighted rows, then a short summary of each chart.
func WriteText(w io.Writer, v View) error {
	var b strings.Builder
	b.WriteString(titleStyle.Render(v.Title))
	b.WriteString("\n\n")
	for _, n := range v.Notices {
		b.WriteString(noticeStyles[n.Level].Render(n.Text))
		b.WriteString("\n")
	}
	if v.Grid != nil && len(v.Grid.Rows) > 0 {
		b.WriteString(Table(*v.Grid))
		b.WriteString("\n")
	}
	for _, c := range v.Charts {
		b.WriteString(chartSummary(c))
		b.WriteString("\n")
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// Table renders g with lipgloss.
func Table(g Grid) string {
	rows := make([][]string, len(g.Rows))
	for i, r := range g.Rows {
		rows[i] = make([]string, len(g.Columns))
		for j := range g.Columns {
			rows[i][j] = cell(r, j).Text
		}
	}
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(borderStyle).
		Headers(g.Columns...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			if row < 0 || row >= len(g.Rows) {
				return cellStyle
			}
			s := cellStyle
			if cell(g.Rows[row], col).Num != nil {
				s = numStyle
			}
			if g.Rows[row].Highlight {
				s = s.Inherit(highlightStyle)
			}
			return s
		})
	return t.String()
}

func chartSummary(c Chart) string {
	if len(c.Points) == 0 {
		return fmt.Sprintf("%s: no data", c.Title)
	}
	first, last := c.Points[0], c.Points[len(c.Points)-1]
	lo, hi := first.Value, first.Value
	for _, p := range c.Points {
		lo = min(lo, p.Value)
		hi = max(hi, p.Value)
	}
	return fmt.Sprintf("%s  %s %s .. %s %s  (low %s, high %s, %d points)",
		c.Title,
		first.Time.Format(time.DateOnly), price(first.Value),
		last.Time.Format(time.DateOnly), price(last.Value),
		price(lo), price(hi), len(c.Points))
}

func price(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
