package surface

import (
	"encoding/base64"
	"fmt"
	"html/template"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/lading/manifest"
	"github.com/lading/manifest/overlay"
	"github.com/lading/manifest/pagescale"
)

// htmlDocument is one self-contained export: no external assets, so the file
// can be mailed to a broker and printed from any browser.
const htmlDocument = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
@page { size: {{.PageW}}px {{.PageH}}px; margin: 0; }
html, body { margin: 0; padding: 0; }
body { font-family: "Go", "Helvetica Neue", Arial, sans-serif; }
.page { position: relative; overflow: hidden; width: {{.PageW}}px; height: {{.PageH}}px; }
.canvas { position: relative; transform-origin: top left; }
.field { position: absolute; box-sizing: border-box; }
</style>
</head>
<body>
<div class="page">
<div class="canvas" style="{{.CanvasStyle}}">
{{- range .Fields}}
<div class="field" style="{{.Style}}">{{.Value}}</div>
{{- end}}
</div>
</div>
</body>
</html>
`

var htmlTmpl = template.Must(template.New("manifest").Parse(htmlDocument))

type htmlField struct {
	Style template.CSS
	Value string
}

type htmlPage struct {
	Title       string
	PageW       string
	PageH       string
	CanvasStyle template.CSS
	Fields      []htmlField
}

// ExportHTML writes the standalone HTML rendering of one manifest to w. The
// page uses the same document-mode scale as the print surface; backgrounds
// are inlined as data URIs when readable and silently skipped otherwise.
func (r *Renderer) ExportHTML(w io.Writer, tpl *manifest.Template, rec manifest.Record) error {
	if err := tpl.Validate(); err != nil {
		return err
	}

	scale := pagescale.Compute(tpl.Canvas, manifest.ModeHTML, nil)
	fields := r.overlay.Resolve(tpl, rec)

	page := htmlPage{
		Title:       htmlTitle(tpl),
		PageW:       px(pagescale.PageWidth),
		PageH:       px(pagescale.PageHeight),
		CanvasStyle: canvasStyle(tpl, scale),
		Fields:      make([]htmlField, 0, len(fields)),
	}
	for _, f := range fields {
		if f.Value == "" {
			continue
		}
		page.Fields = append(page.Fields, htmlField{
			Style: fieldStyle(tpl.Canvas, f),
			Value: f.Value,
		})
	}

	if err := htmlTmpl.Execute(w, page); err != nil {
		return fmt.Errorf("surface: html: %w", err)
	}
	return nil
}

func htmlTitle(tpl *manifest.Template) string {
	if tpl.Name != "" {
		return tpl.Name
	}
	return "Cargo Clearance Manifest"
}

// canvasStyle sizes the canvas wrapper at native pixels and applies the
// document-mode scale as a CSS transform, mirroring the PDF surface's page
// transform.
func canvasStyle(tpl *manifest.Template, scale manifest.Scale) template.CSS {
	var b strings.Builder
	fmt.Fprintf(&b, "width:%spx;height:%spx;", px(tpl.Canvas.WidthPx), px(tpl.Canvas.HeightPx))
	fmt.Fprintf(&b, "transform:scale(%s,%s);", num(scale.X), num(scale.Y))
	if uri := backgroundDataURI(tpl.Background); uri != "" {
		fmt.Fprintf(&b, "background-image:url(%s);background-size:100%% 100%%;", uri)
	}
	return template.CSS(b.String())
}

// fieldStyle translates one resolved field into inline CSS. The overflow
// flags map onto the usual trio: -webkit-line-clamp for the line clamp,
// text-overflow for single-line ellipsis, plain overflow:hidden for clipping.
func fieldStyle(canvas manifest.Canvas, f overlay.ResolvedField) template.CSS {
	var b strings.Builder
	fmt.Fprintf(&b, "left:%spx;top:%spx;width:%spx;height:%spx;",
		px(f.X*canvas.WidthPx), px(f.Y*canvas.HeightPx),
		px(f.Width*canvas.WidthPx), px(f.Height*canvas.HeightPx))
	fmt.Fprintf(&b, "font-size:%spx;", px(f.Fit.FontSize))
	fmt.Fprintf(&b, "font-weight:%d;", f.FontWeight)
	fmt.Fprintf(&b, "text-align:%s;", f.TextAlign)
	if c := safeColor(f.Color); c != "" {
		fmt.Fprintf(&b, "color:%s;", c)
	}

	if f.Wrap {
		b.WriteString("white-space:normal;word-break:break-word;")
	} else {
		b.WriteString("white-space:nowrap;")
	}
	if f.Clip {
		b.WriteString("overflow:hidden;")
	}
	switch {
	case f.MaxLines > 0 && f.Wrap:
		// Wrapped line clamp, matching the PDF surface's split-and-cut.
		fmt.Fprintf(&b, "display:-webkit-box;-webkit-box-orient:vertical;-webkit-line-clamp:%d;", f.MaxLines)
	case f.Ellipsis:
		b.WriteString("text-overflow:ellipsis;")
	}
	if f.Stretched && f.Fit.ScaleY != 1 {
		fmt.Fprintf(&b, "transform:scaleY(%s);transform-origin:top left;", num(f.Fit.ScaleY))
	}
	return template.CSS(b.String())
}

// backgroundDataURI inlines a raster background. PDF backgrounds have no
// HTML representation and are skipped.
func backgroundDataURI(ref string) string {
	var mime string
	switch strings.ToLower(filepath.Ext(ref)) {
	case ".png":
		mime = "image/png"
	case ".jpg", ".jpeg":
		mime = "image/jpeg"
	case ".gif":
		mime = "image/gif"
	default:
		return ""
	}
	data, err := os.ReadFile(ref)
	if err != nil {
		return ""
	}
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// safeColor admits only hex colors into inline CSS.
func safeColor(s string) string {
	s = strings.TrimSpace(s)
	if len(s) != 4 && len(s) != 7 {
		return ""
	}
	if s[0] != '#' {
		return ""
	}
	for _, c := range s[1:] {
		switch {
		case c >= '0' && c <= '9', c >= 'a' && c <= 'f', c >= 'A' && c <= 'F':
		default:
			return ""
		}
	}
	return s
}

func px(v float64) string {
	return strconv.FormatFloat(v, 'f', 3, 64)
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}
