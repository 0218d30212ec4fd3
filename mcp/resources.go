package mcp

// RegisterDefaultResources adds the static documentation resources clients
// read before calling the rendering tools.
func RegisterDefaultResources(s *Server) {
	s.AddResource(Resource{
		URI:         "manifest://template-schema",
		Name:        "Manifest Template Schema",
		Description: "The JSON template format accepted by render_manifest, render_batch, export_html, preview_layout and template_info.",
		MIMEType:    "text/markdown",
		Handler:     staticResource("text/markdown", templateSchemaDoc),
	})

	s.AddResource(Resource{
		URI:         "manifest://modes",
		Name:        "Target Modes",
		Description: "The five rendering contexts and their page-scaling policies.",
		MIMEType:    "text/markdown",
		Handler:     staticResource("text/markdown", modesDoc),
	})
}

func staticResource(mime, text string) ResourceHandler {
	return func(uri string) ([]ResourceContent, error) {
		return []ResourceContent{{URI: uri, MIMEType: mime, Text: text}}, nil
	}
}

const templateSchemaDoc = `# Manifest template schema

A template is a JSON object:

    {
      "name": "Import Clearance A4",
      "canvas": {"widthPx": 1000, "heightPx": 1400},
      "background": "forms/import-a4.pdf",
      "fields": [
        {
          "id": "bl",
          "x": 80, "y": 60, "width": 360, "height": 34,
          "dataKey": "blNumber",
          "fontWeight": "bold",
          "textAlign": "left",
          "overflow": "ellipsis",
          "wordWrap": false,
          "maxLines": 0,
          "stretchHeight": false
        }
      ]
    }

Rules:

- canvas is required and must be positive; it is the template's native pixel
  space and every field coordinate lives in it.
- background may be a raster image or a PDF (first page is used).
- dataKey selects the record value; a missing key renders as empty text.
- fontWeight accepts "normal", "bold" or "100".."900".
- overflow is one of "visible" (default), "hidden", "ellipsis".
- maxLines > 0 clamps wrapped text to that many lines with a trailing
  ellipsis and overrides the overflow setting.
- stretchHeight renders text at its natural width-fit size, then stretches it
  vertically to fill the box.

Font sizes are never taken from the template at render time: every field is
fitted to its box by the engine.
`

const modesDoc = `# Target modes

- print, batch, html: document modes. Each axis is scaled independently so
  the canvas fills the full A4 area (793.7 x 1122.5 px at 96 dpi, zero
  margin); aspect ratio is deliberately not preserved. Both axes are clamped
  to [0.3, 6.0].
- preview, editor: screen modes. One uniform scale (min of the axis ratios),
  optionally bounded by a viewport, never above 1.0 and never below 0.3.
`
