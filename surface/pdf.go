package surface

import (
	"bytes"
	"fmt"
	"image/png"
	"io"
	"path/filepath"
	"strings"

	"codeberg.org/go-pdf/fpdf"
	"codeberg.org/go-pdf/fpdf/contrib/gofpdi"
	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/code128"
	pdf417 "github.com/ruudk/golang-pdf417"

	"github.com/lading/manifest"
	"github.com/lading/manifest/batch"
	"github.com/lading/manifest/listing"
	"github.com/lading/manifest/overlay"
	"github.com/lading/manifest/pagescale"
)

// WritePDF renders a single manifest document to w: one A4 page, full bleed,
// the template background underneath the fitted field overlay.
func (r *Renderer) WritePDF(w io.Writer, tpl *manifest.Template, rec manifest.Record) error {
	if err := tpl.Validate(); err != nil {
		return err
	}

	pdf := newPDF()
	pdf.SetTitle("Cargo Clearance Manifest", true)

	bg := newBackgroundImporter()
	scale := pagescale.Compute(tpl.Canvas, manifest.ModePrint, nil)
	fields := r.overlay.Resolve(tpl, rec)

	paintItemPage(pdf, bg, tpl, scale, fields)

	if pdf.Err() {
		return fmt.Errorf("surface: print: %w", pdf.Error())
	}
	return pdf.Output(w)
}

// WriteBatchPDF paginates items and renders the whole batch document to w:
// start summary, per-group separators with Code 128 group barcodes, the item
// pages repeated per copy count, and an end summary. The separator and
// summary listings show computed per-item copy counts.
func (r *Renderer) WriteBatchPDF(w io.Writer, items []batch.Item) error {
	doc, err := r.paginator.Paginate(items)
	if err != nil {
		return err
	}

	pdf := newPDF()
	pdf.SetTitle("Cargo Clearance Batch", true)

	bg := newBackgroundImporter()

	for _, page := range doc.Pages {
		switch page.Kind {
		case batch.PageStart:
			r.paintStartPage(pdf, doc)
		case batch.PageSeparator:
			r.paintSeparatorPage(pdf, doc, page.GroupKey)
		case batch.PageItem:
			paintItemPage(pdf, bg, page.Item.Template, page.Item.Scale, page.Item.Fields)
		case batch.PageEnd:
			r.paintEndPage(pdf, doc)
		}
	}

	if pdf.Err() {
		return fmt.Errorf("surface: batch: %w", pdf.Error())
	}
	return pdf.Output(w)
}

// newPDF builds the shared page setup: the A4 pixel area as points, zero
// margins, no auto page break, and the Go faces the metrics provider measured
// with, so painted widths match fitted widths.
func newPDF() *fpdf.Fpdf {
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           fpdf.SizeType{Wd: pagescale.PageWidth, Ht: pagescale.PageHeight},
	})
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetCreator("lading/manifest", true)
	addEngineFonts(pdf)
	return pdf
}

// backgroundImporter caches imported PDF background pages per source file so
// a batch with hundreds of copies imports each template once.
type backgroundImporter struct {
	imp  *gofpdi.Importer
	tpls map[string]int
}

func newBackgroundImporter() *backgroundImporter {
	return &backgroundImporter{
		imp:  gofpdi.NewImporter(),
		tpls: make(map[string]int),
	}
}

// paint draws the background reference full-page: PDF pages go through the
// importer, raster images through the image registry. A missing or unreadable
// background leaves the page blank rather than failing the run.
func (b *backgroundImporter) paint(pdf *fpdf.Fpdf, ref string) {
	if ref == "" {
		return
	}

	if strings.EqualFold(filepath.Ext(ref), ".pdf") {
		tplID, ok := b.tpls[ref]
		if !ok {
			tplID = b.imp.ImportPage(pdf, ref, 1, "/MediaBox")
			b.tpls[ref] = tplID
		}
		b.imp.UseImportedTemplate(pdf, tplID, 0, 0, pagescale.PageWidth, pagescale.PageHeight)
		return
	}

	pdf.ImageOptions(ref, 0, 0, pagescale.PageWidth, pagescale.PageHeight,
		false, fpdf.ImageOptions{}, 0, "")
}

// paintItemPage draws one rendered manifest page: background, then the field
// overlay inside a page-level scale transform so fields draw in canvas
// coordinates.
func paintItemPage(pdf *fpdf.Fpdf, bg *backgroundImporter, tpl *manifest.Template, scale manifest.Scale, fields []overlay.ResolvedField) {
	pdf.AddPage()
	bg.paint(pdf, tpl.Background)

	pdf.TransformBegin()
	pdf.TransformScale(scale.X*100, scale.Y*100, 0, 0)

	for _, f := range fields {
		paintField(pdf, tpl.Canvas, f)
	}

	pdf.TransformEnd()
}

// paintField draws one resolved field in canvas coordinates.
func paintField(pdf *fpdf.Fpdf, canvas manifest.Canvas, f overlay.ResolvedField) {
	if f.Value == "" {
		return
	}

	x := f.X * canvas.WidthPx
	y := f.Y * canvas.HeightPx
	w := f.Width * canvas.WidthPx
	h := f.Height * canvas.HeightPx

	style := ""
	if f.FontWeight >= 600 {
		style = "B"
	}
	pdf.SetFont("Go", style, f.Fit.FontSize)

	cr, cg, cb := parseHexColor(f.Color)
	pdf.SetTextColor(cr, cg, cb)

	if f.Clip {
		pdf.ClipRect(x, y, w, h, false)
	}

	align := alignLetter(f.TextAlign)

	switch {
	case f.Stretched && f.Fit.ScaleY != 1:
		// Natural-width glyphs stretched vertically about the box top.
		pdf.TransformBegin()
		pdf.TransformScale(100, f.Fit.ScaleY*100, x, y)
		pdf.SetXY(x, y)
		pdf.CellFormat(w, f.Fit.FontSize*1.2, f.Value, "", 0, align, false, 0, "")
		pdf.TransformEnd()
	case f.Wrap:
		lineH := f.Fit.FontSize * 1.2
		pdf.SetXY(x, y)
		pdf.MultiCell(w, lineH, clampLines(pdf, f, w), "", align, false)
	default:
		pdf.SetXY(x, y)
		pdf.CellFormat(w, h, singleLine(pdf, f, w), "", 0, align, false, 0, "")
	}

	if f.Clip {
		pdf.ClipEnd()
	}
}

// clampLines applies the field's line clamp: when MaxLines is set, keep that
// many wrapped lines and end the cut with an ellipsis.
func clampLines(pdf *fpdf.Fpdf, f overlay.ResolvedField, w float64) string {
	if f.MaxLines <= 0 {
		return f.Value
	}
	lines := pdf.SplitText(f.Value, w)
	if len(lines) <= f.MaxLines {
		return f.Value
	}
	kept := lines[:f.MaxLines]
	kept[len(kept)-1] = strings.TrimRight(kept[len(kept)-1], " ") + "…"
	return strings.Join(kept, "\n")
}

// singleLine truncates a non-wrapping value to the box, with an ellipsis only
// when the field asked for one.
func singleLine(pdf *fpdf.Fpdf, f overlay.ResolvedField, w float64) string {
	if !f.Ellipsis || pdf.GetStringWidth(f.Value) <= w {
		return f.Value
	}
	runes := []rune(f.Value)
	for len(runes) > 0 {
		runes = runes[:len(runes)-1]
		candidate := strings.TrimRight(string(runes), " ") + "…"
		if pdf.GetStringWidth(candidate) <= w {
			return candidate
		}
	}
	return "…"
}

func (r *Renderer) paintStartPage(pdf *fpdf.Fpdf, doc *batch.Document) {
	pdf.AddPage()

	pdf.SetFont("Go", "B", 30)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(0, 70)
	pdf.CellFormat(pagescale.PageWidth, 36, "CARGO CLEARANCE BATCH", "", 1, "C", false, 0, "")

	pdf.SetFont("Go", "", 14)
	pdf.SetXY(0, 120)
	pdf.CellFormat(pagescale.PageWidth, 20,
		fmt.Sprintf("%d shipments / %d documents / %d copies / %d pages",
			len(doc.Groups), doc.TotalItems, doc.TotalCopies, doc.TotalPages),
		"", 1, "C", false, 0, "")

	// PDF417 digest of the batch totals for the clearance desk scanner.
	digest := fmt.Sprintf("LADING|G%d|I%d|C%d|P%d",
		len(doc.Groups), doc.TotalItems, doc.TotalCopies, doc.TotalPages)
	drawBarcode(pdf, pdf417.Encode(digest, 4, 2), "batch-digest",
		pagescale.PageWidth/2-120, 160, 240, 80)

	l := listing.New(pdf).
		Font("Go", 11).
		Columns(
			listing.Column{Title: "Shipment", Width: 220},
			listing.Column{Title: "Documents", Width: 120, Align: "R"},
			listing.Column{Title: "Copies", Width: 120, Align: "R"},
		).
		Position(pagescale.PageWidth/2-230, 280).
		Width(460)
	for _, g := range doc.Groups {
		l.Row(displayKey(g.Key), fmt.Sprintf("%d", g.TotalItems), fmt.Sprintf("%d", g.TotalCopies))
	}
	l.Render()
}

func (r *Renderer) paintSeparatorPage(pdf *fpdf.Fpdf, doc *batch.Document, groupKey string) {
	pdf.AddPage()

	var group *batch.Group
	for i := range doc.Groups {
		if doc.Groups[i].Key == groupKey {
			group = &doc.Groups[i]
			break
		}
	}

	pdf.SetFont("Go", "B", 26)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(0, 80)
	pdf.CellFormat(pagescale.PageWidth, 32, displayKey(groupKey), "", 1, "C", false, 0, "")

	if bc, err := code128.Encode(barcodeKey(groupKey)); err == nil {
		drawBarcode(pdf, bc, "group-"+groupKey, pagescale.PageWidth/2-180, 130, 360, 70)
	}

	if group == nil {
		return
	}

	pdf.SetFont("Go", "", 13)
	pdf.SetXY(0, 215)
	pdf.CellFormat(pagescale.PageWidth, 18,
		fmt.Sprintf("%d documents, %d copies", group.TotalItems, group.TotalCopies),
		"", 1, "C", false, 0, "")

	l := listing.New(pdf).
		Font("Go", 11).
		Columns(
			listing.Column{Title: "Document", Width: 260},
			listing.Column{Title: "Packages", Width: 100, Align: "R"},
			listing.Column{Title: "Per Pkg", Width: 100, Align: "R"},
			listing.Column{Title: "Copies", Width: 100, Align: "R"},
		).
		Position(pagescale.PageWidth/2-280, 260).
		Width(560)
	for i, item := range group.Items {
		l.Row(
			r.itemLabel(item.Record, i+1),
			fmt.Sprintf("%d", item.UnitCount),
			fmt.Sprintf("%d", item.CopiesPerUnit),
			fmt.Sprintf("%d", item.CopyCount),
		)
	}
	l.Render()
}

func (r *Renderer) paintEndPage(pdf *fpdf.Fpdf, doc *batch.Document) {
	pdf.AddPage()

	pdf.SetFont("Go", "B", 30)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(0, pagescale.PageHeight/2-60)
	pdf.CellFormat(pagescale.PageWidth, 36, "END OF BATCH", "", 1, "C", false, 0, "")

	pdf.SetFont("Go", "", 14)
	pdf.SetXY(0, pagescale.PageHeight/2-10)
	pdf.CellFormat(pagescale.PageWidth, 20,
		fmt.Sprintf("%d pages total", doc.TotalPages),
		"", 1, "C", false, 0, "")
}

// drawBarcode scales a barcode to pixel dimensions, registers it as a PNG and
// places it. Encoding failures skip the symbol; a batch must still print.
func drawBarcode(pdf *fpdf.Fpdf, bc barcode.Barcode, name string, x, y, w, h float64) {
	scaled, err := barcode.Scale(bc, int(w), int(h))
	if err != nil {
		return
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, scaled); err != nil {
		return
	}
	opts := fpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader(name, opts, &buf)
	pdf.ImageOptions(name, x, y, w, h, false, opts, 0, "")
}

// displayKey keeps separator titles readable for items that arrived without
// a grouping value.
func displayKey(key string) string {
	if key == "" {
		return "(no shipment)"
	}
	return key
}

// barcodeKey substitutes a scannable placeholder for empty group keys;
// code128 cannot encode the empty string.
func barcodeKey(key string) string {
	if key == "" {
		return "NONE"
	}
	return key
}

func alignLetter(align string) string {
	switch align {
	case "center":
		return "C"
	case "right":
		return "R"
	}
	return "L"
}

func parseHexColor(s string) (r, g, b int) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) == 3 {
		s = string([]byte{s[0], s[0], s[1], s[1], s[2], s[2]})
	}
	if len(s) != 6 {
		return 0, 0, 0
	}
	var rv, gv, bv int
	if _, err := fmt.Sscanf(s, "%02x%02x%02x", &rv, &gv, &bv); err != nil {
		return 0, 0, 0
	}
	return rv, gv, bv
}
