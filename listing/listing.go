// Package listing draws the small member tables that appear on batch
// separator and summary pages: fixed zebra styling, ellipsized cells, and a
// trailing "+N more" row instead of spilling onto another page, since the
// batch page sequence is fixed before painting starts.
package listing

import (
	"fmt"
	"strings"

	"codeberg.org/go-pdf/fpdf"
)

// Column defines one listing column. Width 0 means the column shares the
// space left over by fixed-width columns.
type Column struct {
	Title string
	Width float64
	Align string // "L", "C", "R"; default "L"
}

// Listing is a single-page table builder over an fpdf document.
type Listing struct {
	pdf     *fpdf.Fpdf
	columns []Column
	rows    [][]string
	x, y    float64
	width   float64
	rowH    float64
	font    string
	size    float64
}

// New returns a Listing drawing into pdf at the current cursor position.
func New(pdf *fpdf.Fpdf) *Listing {
	return &Listing{
		pdf:  pdf,
		rowH: 22,
		font: "Helvetica",
		size: 11,
	}
}

// Font sets the face family and size used for all cells. The family must
// already be registered on the document.
func (l *Listing) Font(family string, size float64) *Listing {
	l.font = family
	l.size = size
	return l
}

// Columns sets the column definitions.
func (l *Listing) Columns(cols ...Column) *Listing {
	l.columns = cols
	return l
}

// Row appends a data row. Extra cells beyond the column count are dropped.
func (l *Listing) Row(cells ...string) *Listing {
	l.rows = append(l.rows, cells)
	return l
}

// Position sets the top-left corner. Unset means the current cursor.
func (l *Listing) Position(x, y float64) *Listing {
	l.x = x
	l.y = y
	return l
}

// Width sets the total listing width. Unset means page width minus margins.
func (l *Listing) Width(w float64) *Listing {
	l.width = w
	return l
}

// Render draws the header and rows. When vertical space runs out before the
// bottom margin, remaining rows collapse into one "+N more" line.
func (l *Listing) Render() error {
	if l.pdf.Err() {
		return l.pdf.Error()
	}
	if len(l.columns) == 0 {
		return nil
	}

	widths := l.columnWidths()

	x := l.x
	if x == 0 {
		x = l.pdf.GetX()
	}
	if l.y != 0 {
		l.pdf.SetY(l.y)
	}

	_, pageH := l.pdf.GetPageSize()
	limit := pageH - 30 // keep clear of the page foot

	// Header row.
	l.pdf.SetFont(l.font, "B", l.size)
	l.pdf.SetFillColor(50, 62, 88)
	l.pdf.SetTextColor(255, 255, 255)
	l.pdf.SetX(x)
	for i, col := range l.columns {
		l.cell(widths[i], col.Title, col.Align, true)
	}
	l.pdf.Ln(l.rowH)

	l.pdf.SetFont(l.font, "", l.size)
	l.pdf.SetTextColor(0, 0, 0)

	for i, row := range l.rows {
		if l.pdf.GetY()+l.rowH > limit && i < len(l.rows)-1 {
			l.pdf.SetX(x)
			l.pdf.SetFillColor(255, 255, 255)
			l.cell(sum(widths), fmt.Sprintf("+ %d more", len(l.rows)-i), "C", false)
			break
		}

		if i%2 == 1 {
			l.pdf.SetFillColor(240, 242, 246)
		} else {
			l.pdf.SetFillColor(255, 255, 255)
		}

		l.pdf.SetX(x)
		for c, col := range l.columns {
			text := ""
			if c < len(row) {
				text = row[c]
			}
			l.cell(widths[c], l.ellipsize(text, widths[c]-6), col.Align, true)
		}
		l.pdf.Ln(l.rowH)
	}

	return l.pdf.Error()
}

func (l *Listing) cell(w float64, text, align string, fill bool) {
	if align == "" {
		align = "L"
	}
	l.pdf.CellFormat(w, l.rowH, text, "1", 0, align, fill, 0, "")
}

// ellipsize trims text to fit maxW, appending an ellipsis when it trims.
func (l *Listing) ellipsize(text string, maxW float64) string {
	if l.pdf.GetStringWidth(text) <= maxW {
		return text
	}
	runes := []rune(text)
	for len(runes) > 0 {
		runes = runes[:len(runes)-1]
		candidate := strings.TrimRight(string(runes), " ") + "…"
		if l.pdf.GetStringWidth(candidate) <= maxW {
			return candidate
		}
	}
	return "…"
}

func (l *Listing) columnWidths() []float64 {
	total := l.width
	if total == 0 {
		pageW, _ := l.pdf.GetPageSize()
		lm, _, rm, _ := l.pdf.GetMargins()
		total = pageW - lm - rm
		if l.x > 0 {
			total = pageW - 2*l.x
		}
	}

	widths := make([]float64, len(l.columns))
	fixed := 0.0
	flex := 0
	for i, col := range l.columns {
		if col.Width > 0 {
			widths[i] = col.Width
			fixed += col.Width
		} else {
			flex++
		}
	}
	if flex > 0 {
		remaining := total - fixed
		if remaining < 0 {
			remaining = 0
		}
		share := remaining / float64(flex)
		for i, col := range l.columns {
			if col.Width == 0 {
				widths[i] = share
			}
		}
	}
	return widths
}

func sum(vs []float64) float64 {
	t := 0.0
	for _, v := range vs {
		t += v
	}
	return t
}
