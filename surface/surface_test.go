package surface_test

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/lading/manifest"
	"github.com/lading/manifest/batch"
	"github.com/lading/manifest/pagescale"
	"github.com/lading/manifest/surface"
)

func newRenderer(t *testing.T, opts ...surface.Option) *surface.Renderer {
	t.Helper()
	r, err := surface.New(opts...)
	if err != nil {
		t.Fatalf("surface.New: %v", err)
	}
	return r
}

func manifestTemplate() *manifest.Template {
	return &manifest.Template{
		Name:   "Import Clearance A4",
		Canvas: manifest.Canvas{WidthPx: 1000, HeightPx: 1400},
		Fields: []manifest.Field{
			{ID: "bl", X: 80, Y: 60, Width: 360, Height: 34, DataKey: "blNumber", FontWeight: "bold"},
			{ID: "consignee", X: 80, Y: 120, Width: 500, Height: 30, DataKey: "consignee", Overflow: manifest.OverflowEllipsis},
			{ID: "goods", X: 80, Y: 180, Width: 600, Height: 90, DataKey: "goodsDesc", WordWrap: true, MaxLines: 3},
			{ID: "weight", X: 700, Y: 60, Width: 200, Height: 40, DataKey: "grossWeight", StretchHeight: true, TextAlign: "right"},
		},
	}
}

func manifestRecord() manifest.Record {
	return manifest.Record{
		"blNumber":    "LAD-2026-00815",
		"consignee":   "NORTH SEA TRADING B.V., ROTTERDAM",
		"goodsDesc":   "GENERAL CARGO SAID TO CONTAIN 42 PACKAGES OF MACHINE PARTS AND ACCESSORIES",
		"grossWeight": "1,234.50 KG",
	}
}

func TestPreviewAndEditorAgree(t *testing.T) {
	r := newRenderer(t)
	tpl := manifestTemplate()

	preview, err := r.Preview(tpl, manifestRecord(), &pagescale.Limits{MaxWidth: 600})
	if err != nil {
		t.Fatalf("Preview: %v", err)
	}
	editor, err := r.Editor(tpl, &pagescale.Limits{MaxWidth: 600})
	if err != nil {
		t.Fatalf("Editor: %v", err)
	}

	for _, page := range []*surface.ScreenPage{preview, editor} {
		if page.Scale.X != page.Scale.Y {
			t.Errorf("%s: screen scale not uniform: %+v", page.Mode, page.Scale)
		}
		if page.Scale.X > 0.6 {
			t.Errorf("%s: viewport limit ignored: %v", page.Mode, page.Scale.X)
		}
		if len(page.Fields) != 4 {
			t.Errorf("%s: fields = %d, want 4", page.Mode, len(page.Fields))
		}
	}

	// Field geometry is shared between the two surfaces; only data differs.
	for i := range preview.Fields {
		p, e := preview.Fields[i], editor.Fields[i]
		if p.X != e.X || p.Y != e.Y || p.Width != e.Width || p.Height != e.Height {
			t.Errorf("field %s: geometry differs between preview and editor", p.ID)
		}
	}
}

func TestWritePDF(t *testing.T) {
	r := newRenderer(t)

	var buf bytes.Buffer
	if err := r.WritePDF(&buf, manifestTemplate(), manifestRecord()); err != nil {
		t.Fatalf("WritePDF: %v", err)
	}
	if buf.Len() == 0 {
		t.Fatal("expected non-empty PDF output")
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF")) {
		t.Error("output does not start with a PDF header")
	}
	t.Logf("manifest PDF: %d bytes", buf.Len())
}

func TestWritePDFInvalidTemplate(t *testing.T) {
	r := newRenderer(t)

	var buf bytes.Buffer
	err := r.WritePDF(&buf, &manifest.Template{}, manifest.Record{})
	if !errors.Is(err, manifest.ErrNoCanvas) {
		t.Errorf("err = %v, want ErrNoCanvas", err)
	}
}

func batchItems() []batch.Item {
	mk := func(ship, units, per string) batch.Item {
		return batch.Item{
			Template: manifestTemplate(),
			Record: manifest.Record{
				"shipmentId":       ship,
				"packageCount":     units,
				"copiesPerPackage": per,
				"blNumber":         "LAD-" + ship,
				"consignee":        "NORTH SEA TRADING B.V.",
				"goodsDesc":        "GENERAL CARGO",
				"grossWeight":      "800 KG",
			},
		}
	}
	return []batch.Item{
		mk("SHIP-A", "3", "2"),
		mk("SHIP-B", "2", "1"),
		mk("SHIP-B", "3", "1"),
	}
}

func TestWriteBatchPDFPageCount(t *testing.T) {
	r := newRenderer(t)

	var buf bytes.Buffer
	if err := r.WriteBatchPDF(&buf, batchItems()); err != nil {
		t.Fatalf("WriteBatchPDF: %v", err)
	}
	if buf.Len() == 0 {
		t.Fatal("expected non-empty PDF output")
	}
	t.Logf("batch PDF: %d bytes", buf.Len())
}

func TestWriteBatchPDFEmpty(t *testing.T) {
	r := newRenderer(t)

	// An empty batch still gets its start and end summary.
	var buf bytes.Buffer
	if err := r.WriteBatchPDF(&buf, nil); err != nil {
		t.Fatalf("WriteBatchPDF: %v", err)
	}
	if buf.Len() == 0 {
		t.Error("expected non-empty PDF output")
	}
}

func TestExportHTML(t *testing.T) {
	r := newRenderer(t)

	var buf bytes.Buffer
	if err := r.ExportHTML(&buf, manifestTemplate(), manifestRecord()); err != nil {
		t.Fatalf("ExportHTML: %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		"<!DOCTYPE html>",
		"LAD-2026-00815",
		"-webkit-line-clamp:3",
		"text-overflow:ellipsis",
		"transform:scale(",
		"scaleY(",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("HTML export missing %q", want)
		}
	}

	// Document mode: the page transform uses independent axis scales.
	s := pagescale.Compute(manifest.Canvas{WidthPx: 1000, HeightPx: 1400}, manifest.ModeHTML, nil)
	if s.X == s.Y {
		t.Fatal("test canvas should produce distinct axis scales")
	}
}

func TestExportHTMLSingleLineClamp(t *testing.T) {
	r := newRenderer(t)

	tpl := &manifest.Template{
		Canvas: manifest.Canvas{WidthPx: 1000, HeightPx: 1400},
		Fields: []manifest.Field{
			{ID: "goods", X: 80, Y: 60, Width: 400, Height: 30, DataKey: "goodsDesc", MaxLines: 1},
		},
	}

	var buf bytes.Buffer
	if err := r.ExportHTML(&buf, tpl, manifest.Record{"goodsDesc": "GENERAL CARGO"}); err != nil {
		t.Fatalf("ExportHTML: %v", err)
	}

	// An explicit one-line clamp clips like the PDF surface does, not like a
	// plain single-line ellipsis field.
	if !strings.Contains(buf.String(), "-webkit-line-clamp:1") {
		t.Error("maxLines:1 did not produce a line clamp")
	}
}

func TestCustomBatchKeys(t *testing.T) {
	r := newRenderer(t,
		surface.WithBatchOptions(batch.WithGroupKey("containerNo")),
		surface.WithLabelKey("containerNo"),
	)

	var buf bytes.Buffer
	items := []batch.Item{{
		Template: manifestTemplate(),
		Record: manifest.Record{
			"containerNo":      "MSKU1234567",
			"packageCount":     "1",
			"copiesPerPackage": "1",
		},
	}}
	if err := r.WriteBatchPDF(&buf, items); err != nil {
		t.Fatalf("WriteBatchPDF: %v", err)
	}
	if buf.Len() == 0 {
		t.Error("expected non-empty PDF output")
	}
}
