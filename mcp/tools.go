package mcp

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"strconv"

	"github.com/lading/manifest"
	"github.com/lading/manifest/batch"
	"github.com/lading/manifest/pagescale"
	"github.com/lading/manifest/surface"
)

// RegisterDefaultTools adds all manifest rendering tools to the server. One
// surface renderer (and so one metrics cache) is shared by every tool call.
func RegisterDefaultTools(s *Server) error {
	r, err := surface.New()
	if err != nil {
		return fmt.Errorf("mcp: building renderer: %w", err)
	}

	s.AddTool(renderManifestTool(r))
	s.AddTool(renderBatchTool())
	s.AddTool(exportHTMLTool(r))
	s.AddTool(previewLayoutTool(r))
	s.AddTool(computeScaleTool())
	s.AddTool(templateInfoTool())
	return nil
}

func renderManifestTool(r *surface.Renderer) Tool {
	return Tool{
		Name:        "render_manifest",
		Description: "Render one cargo-clearance manifest to PDF from a JSON template and a flat record of field values. Returns the PDF as base64 unless outputPath is given.",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"template": map[string]interface{}{
					"type":        "object",
					"description": "Manifest template: canvas {widthPx, heightPx}, optional background path, and positioned fields",
				},
				"record": map[string]interface{}{
					"type":        "object",
					"description": "Field values keyed by dataKey; missing keys render empty",
				},
				"outputPath": map[string]interface{}{
					"type":        "string",
					"description": "Optional file path to save the PDF. If omitted, returns base64.",
				},
			},
			"required": []string{"template"},
		},
		Handler: func(args map[string]interface{}) (ToolResult, error) {
			tpl, err := decodeTemplate(args["template"])
			if err != nil {
				return ToolResult{}, err
			}

			var buf bytes.Buffer
			if err := r.WritePDF(&buf, tpl, decodeRecord(args["record"])); err != nil {
				return ToolResult{}, fmt.Errorf("rendering manifest: %w", err)
			}
			return pdfResult(args, buf.Bytes())
		},
	}
}

func renderBatchTool() Tool {
	return Tool{
		Name:        "render_batch",
		Description: "Render a batch print run: every record is rendered against the template, grouped by shipment, with separator pages, computed copy counts and summary pages. Returns the PDF as base64 unless outputPath is given.",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"template": map[string]interface{}{
					"type":        "object",
					"description": "Manifest template shared by all records",
				},
				"records": map[string]interface{}{
					"type":        "array",
					"description": "Array of record objects",
				},
				"groupKey": map[string]interface{}{
					"type":        "string",
					"description": "Record key to group by (default shipmentId)",
				},
				"unitKey": map[string]interface{}{
					"type":        "string",
					"description": "Record key holding the package count (default packageCount)",
				},
				"perUnitKey": map[string]interface{}{
					"type":        "string",
					"description": "Record key holding copies per package (default copiesPerPackage)",
				},
				"labelKey": map[string]interface{}{
					"type":        "string",
					"description": "Record key shown on separator listings (default blNumber)",
				},
				"outputPath": map[string]interface{}{
					"type":        "string",
					"description": "Optional file path to save the PDF. If omitted, returns base64.",
				},
			},
			"required": []string{"template", "records"},
		},
		Handler: handleRenderBatch,
	}
}

func handleRenderBatch(args map[string]interface{}) (ToolResult, error) {
	tpl, err := decodeTemplate(args["template"])
	if err != nil {
		return ToolResult{}, err
	}

	rawRecords, ok := args["records"].([]interface{})
	if !ok {
		return ToolResult{}, fmt.Errorf("'records' must be an array")
	}

	var batchOpts []batch.Option
	if v, ok := args["groupKey"].(string); ok && v != "" {
		batchOpts = append(batchOpts, batch.WithGroupKey(v))
	}
	unitKey, _ := args["unitKey"].(string)
	perUnitKey, _ := args["perUnitKey"].(string)
	if unitKey != "" || perUnitKey != "" {
		if unitKey == "" {
			unitKey = batch.DefaultUnitKey
		}
		if perUnitKey == "" {
			perUnitKey = batch.DefaultPerUnitKey
		}
		batchOpts = append(batchOpts, batch.WithQuantityKeys(unitKey, perUnitKey))
	}

	surfaceOpts := []surface.Option{surface.WithBatchOptions(batchOpts...)}
	if v, ok := args["labelKey"].(string); ok && v != "" {
		surfaceOpts = append(surfaceOpts, surface.WithLabelKey(v))
	}

	// Grouping keys are per call, so this tool builds its own renderer.
	r, err := surface.New(surfaceOpts...)
	if err != nil {
		return ToolResult{}, err
	}

	items := make([]batch.Item, 0, len(rawRecords))
	for _, raw := range rawRecords {
		items = append(items, batch.Item{Template: tpl, Record: decodeRecord(raw)})
	}

	var buf bytes.Buffer
	if err := r.WriteBatchPDF(&buf, items); err != nil {
		return ToolResult{}, fmt.Errorf("rendering batch: %w", err)
	}
	return pdfResult(args, buf.Bytes())
}

func exportHTMLTool(r *surface.Renderer) Tool {
	return Tool{
		Name:        "export_html",
		Description: "Render one manifest as a standalone HTML document (inline styles and background, printable from a browser).",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"template": map[string]interface{}{"type": "object"},
				"record":   map[string]interface{}{"type": "object"},
			},
			"required": []string{"template"},
		},
		Handler: func(args map[string]interface{}) (ToolResult, error) {
			tpl, err := decodeTemplate(args["template"])
			if err != nil {
				return ToolResult{}, err
			}

			var buf bytes.Buffer
			if err := r.ExportHTML(&buf, tpl, decodeRecord(args["record"])); err != nil {
				return ToolResult{}, fmt.Errorf("exporting html: %w", err)
			}
			return ToolResult{Content: []ContentBlock{{
				Type:     "text",
				Text:     buf.String(),
				MIMEType: "text/html",
			}}}, nil
		},
	}
}

func previewLayoutTool(r *surface.Renderer) Tool {
	return Tool{
		Name:        "preview_layout",
		Description: "Resolve a template against a record for on-screen preview: returns the uniform screen scale and every field's fractional box, fitted font size and overflow treatment as JSON.",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"template":  map[string]interface{}{"type": "object"},
				"record":    map[string]interface{}{"type": "object"},
				"maxWidth":  map[string]interface{}{"type": "number"},
				"maxHeight": map[string]interface{}{"type": "number"},
			},
			"required": []string{"template"},
		},
		Handler: func(args map[string]interface{}) (ToolResult, error) {
			tpl, err := decodeTemplate(args["template"])
			if err != nil {
				return ToolResult{}, err
			}

			page, err := r.Preview(tpl, decodeRecord(args["record"]), decodeLimits(args))
			if err != nil {
				return ToolResult{}, err
			}
			return jsonResult(page)
		},
	}
}

func computeScaleTool() Tool {
	return Tool{
		Name:        "compute_scale",
		Description: "Compute the page-scale pair for a canvas size and target mode (preview, print, batch, html, editor).",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"canvasWidth":  map[string]interface{}{"type": "number"},
				"canvasHeight": map[string]interface{}{"type": "number"},
				"mode":         map[string]interface{}{"type": "string"},
				"maxWidth":     map[string]interface{}{"type": "number"},
				"maxHeight":    map[string]interface{}{"type": "number"},
			},
			"required": []string{"canvasWidth", "canvasHeight", "mode"},
		},
		Handler: handleComputeScale,
	}
}

func handleComputeScale(args map[string]interface{}) (ToolResult, error) {
	w, _ := args["canvasWidth"].(float64)
	h, _ := args["canvasHeight"].(float64)
	modeStr, _ := args["mode"].(string)

	mode, err := manifest.ParseMode(modeStr)
	if err != nil {
		return ToolResult{}, fmt.Errorf("unknown mode %q", modeStr)
	}

	scale := pagescale.Compute(manifest.Canvas{WidthPx: w, HeightPx: h}, mode, decodeLimits(args))
	return jsonResult(map[string]interface{}{
		"mode":   mode.String(),
		"scaleX": scale.X,
		"scaleY": scale.Y,
	})
}

func templateInfoTool() Tool {
	return Tool{
		Name:        "template_info",
		Description: "Validate a manifest template and summarize its canvas, background and fields.",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"template": map[string]interface{}{"type": "object"},
			},
			"required": []string{"template"},
		},
		Handler: func(args map[string]interface{}) (ToolResult, error) {
			tpl, err := decodeTemplate(args["template"])
			if err != nil {
				return ToolResult{}, err
			}

			fields := make([]map[string]interface{}, 0, len(tpl.Fields))
			for _, f := range tpl.Fields {
				fields = append(fields, map[string]interface{}{
					"id":       f.ID,
					"dataKey":  f.DataKey,
					"box":      []float64{f.X, f.Y, f.Width, f.Height},
					"overflow": string(f.Overflow),
				})
			}
			return jsonResult(map[string]interface{}{
				"name":         tpl.Name,
				"canvasWidth":  tpl.Canvas.WidthPx,
				"canvasHeight": tpl.Canvas.HeightPx,
				"background":   tpl.Background,
				"fieldCount":   len(tpl.Fields),
				"fields":       fields,
			})
		},
	}
}

// decodeTemplate round-trips a tool argument through the template loader so
// MCP input gets the same validation and normalization as file input.
func decodeTemplate(v interface{}) (*manifest.Template, error) {
	if v == nil {
		return nil, fmt.Errorf("missing 'template' argument")
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encoding template: %w", err)
	}
	return manifest.LoadTemplate(bytes.NewReader(raw))
}

// decodeRecord flattens a JSON object into the engine's string-keyed record.
// Numeric values are stringified the way they were typed (3, not 3.000000),
// since quantity fields often arrive as JSON numbers.
func decodeRecord(v interface{}) manifest.Record {
	obj, ok := v.(map[string]interface{})
	if !ok {
		return manifest.Record{}
	}
	rec := make(manifest.Record, len(obj))
	for k, val := range obj {
		switch t := val.(type) {
		case string:
			rec[k] = t
		case float64:
			if t == math.Trunc(t) {
				rec[k] = strconv.FormatInt(int64(t), 10)
			} else {
				rec[k] = strconv.FormatFloat(t, 'f', -1, 64)
			}
		case bool:
			rec[k] = strconv.FormatBool(t)
		case nil:
			rec[k] = ""
		default:
			data, _ := json.Marshal(t)
			rec[k] = string(data)
		}
	}
	return rec
}

func decodeLimits(args map[string]interface{}) *pagescale.Limits {
	mw, _ := args["maxWidth"].(float64)
	mh, _ := args["maxHeight"].(float64)
	if mw <= 0 && mh <= 0 {
		return nil
	}
	return &pagescale.Limits{MaxWidth: mw, MaxHeight: mh}
}

func pdfResult(args map[string]interface{}, pdf []byte) (ToolResult, error) {
	if outputPath, ok := args["outputPath"].(string); ok && outputPath != "" {
		if err := os.WriteFile(outputPath, pdf, 0644); err != nil {
			return ToolResult{}, fmt.Errorf("writing file: %w", err)
		}
		return ToolResult{Content: []ContentBlock{{
			Type: "text",
			Text: fmt.Sprintf("PDF created successfully: %s (%d bytes)", outputPath, len(pdf)),
		}}}, nil
	}

	encoded := base64.StdEncoding.EncodeToString(pdf)
	return ToolResult{Content: []ContentBlock{{
		Type: "text",
		Text: fmt.Sprintf("PDF created successfully (%d bytes). Base64 data:\n%s", len(pdf), encoded),
	}}}, nil
}

func jsonResult(v interface{}) (ToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return ToolResult{}, fmt.Errorf("encoding result: %w", err)
	}
	return ToolResult{Content: []ContentBlock{{
		Type:     "text",
		Text:     string(data),
		MIMEType: "application/json",
	}}}, nil
}
