package present

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// NA marks a missing value in a text cell.
const NA = "N/A"

// ErrUnknownColumn is returned when sorting by a column the grid does not have.
var ErrUnknownColumn = errors.New("unknown column")

// Cell is one grid value. Num is set for numeric cells and drives sorting; Text
// is what gets displayed.
type Cell struct {
	Text string   `json:"text"`
	Num  *float64 `json:"num,omitempty"`
}

// GridRow is one table line. Highlight marks rows the page wants to stand out.
type GridRow struct {
	Cells     []Cell `json:"cells"`
	Highlight bool   `json:"highlight,omitempty"`
}

// Grid is a sortable table.
type Grid struct {
	Columns []string  `json:"columns"`
	Rows    []GridRow `json:"rows"`
}

var printer = message.NewPrinter(language.English)

// Text is a plain text cell. An empty string shows as N/A.
func Text(s string) Cell {
	if s == "" {
		s = NA
	}
	return Cell{Text: s}
}

// Number is a numeric cell printed with prec decimals.
func Number(v float64, prec int) Cell {
	return Cell{Text: strconv.FormatFloat(v, 'f', prec, 64), Num: &v}
}

// Count is a numeric cell printed as an integer with thousands separators.
func Count(v float64) Cell {
	return Cell{Text: printer.Sprintf("%d", int64(v)), Num: &v}
}

// Labeled is a numeric cell shown with a custom text, e.g. "2.50B" or "$412.3".
func Labeled(text string, v *float64) Cell {
	c := Text(text)
	if v != nil {
		n := *v
		c.Num = &n
	}
	return c
}

// Optional renders v with fn, or missing when v is nil.
func Optional(v *float64, missing string, fn func(float64) Cell) Cell {
	if v == nil {
		return Text(missing)
	}
	return fn(*v)
}

// Column returns the index of the named column, matched case-insensitively.
func (g Grid) Column(name string) (int, error) {
	for i, c := range g.Columns {
		if strings.EqualFold(c, name) {
			return i, nil
		}
	}
	return -1, fmt.Errorf("%w: %q", ErrUnknownColumn, name)
}

// SortBy returns a copy of g with rows ordered by column. Numeric cells compare
// numerically, others lexically. Missing values sort last in both directions.
func (g Grid) SortBy(column string, desc bool) (Grid, error) {
	i, err := g.Column(column)
	if err != nil {
		return Grid{}, err
	}
	rows := slices.Clone(g.Rows)
	slices.SortStableFunc(rows, func(a, b GridRow) int {
		return compare(cell(a, i), cell(b, i), desc)
	})
	return Grid{Columns: slices.Clone(g.Columns), Rows: rows}, nil
}

func cell(r GridRow, i int) Cell {
	if i < len(r.Cells) {
		return r.Cells[i]
	}
	return Cell{}
}

func missing(c Cell) bool {
	return c.Num == nil && (c.Text == "" || c.Text == NA)
}

func compare(a, b Cell, desc bool) int {
	am, bm := missing(a), missing(b)
	switch {
	case am && bm:
		return 0
	case am:
		return 1
	case bm:
		return -1
	}

	var r int
	switch {
	case a.Num != nil && b.Num != nil:
		r = cmpFloat(*a.Num, *b.Num)
	case a.Num != nil:
		r = -1
	case b.Num != nil:
		r = 1
	default:
		r = strings.Compare(a.Text, b.Text)
	}
	if desc {
		r = -r
	}
	return r
}

func cmpFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
