package manifest

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// LoadTemplate parses a JSON template from r and validates it. A template
// declaring a zero-sized canvas over a PDF background has its canvas filled
// from the PDF's first-page MediaBox before validation.
//
// Validation is deliberately permissive: unknown overflow values normalize to
// "visible", fields without an id receive a positional one, and negative
// geometry is zeroed. The single fatal condition is a missing canvas — a
// template without native dimensions cannot be scaled or rendered at all.
func LoadTemplate(r io.Reader) (*Template, error) {
	var tpl Template
	dec := json.NewDecoder(r)
	if err := dec.Decode(&tpl); err != nil {
		return nil, newRenderError("LoadTemplate", fmt.Errorf("parsing template: %w", err))
	}

	if (tpl.Canvas.WidthPx <= 0 || tpl.Canvas.HeightPx <= 0) && isPDF(tpl.Background) {
		c, err := DetectCanvas(tpl.Background)
		if err != nil {
			return nil, err
		}
		tpl.Canvas = c
	}

	if err := tpl.Validate(); err != nil {
		return nil, err
	}
	return &tpl, nil
}

func isPDF(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".pdf")
}

// LoadTemplateFile reads and validates a JSON template file.
func LoadTemplateFile(path string) (*Template, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, newRenderError("LoadTemplate", err)
	}
	defer f.Close()
	return LoadTemplate(f)
}

// Validate checks structural soundness and normalizes field settings in
// place. It returns ErrNoCanvas (wrapped) when the canvas is missing or
// non-positive, and ErrDuplicateField when two fields share an id.
func (t *Template) Validate() error {
	if t.Canvas.WidthPx <= 0 || t.Canvas.HeightPx <= 0 {
		return newRenderError("Validate", ErrNoCanvas)
	}

	seen := make(map[string]struct{}, len(t.Fields))
	for i := range t.Fields {
		f := &t.Fields[i]
		if f.ID == "" {
			f.ID = "field-" + strconv.Itoa(i+1)
		}
		if _, dup := seen[f.ID]; dup {
			return newRenderError("Validate", fmt.Errorf("%w: %q", ErrDuplicateField, f.ID))
		}
		seen[f.ID] = struct{}{}

		switch f.Overflow {
		case OverflowVisible, OverflowHidden, OverflowEllipsis:
		default:
			f.Overflow = OverflowVisible
		}
		if f.Width < 0 {
			f.Width = 0
		}
		if f.Height < 0 {
			f.Height = 0
		}
		if f.MaxLines < 0 {
			f.MaxLines = 0
		}
	}
	return nil
}

// SampleRecord builds a placeholder record for the editor surface: every
// field's data key maps to its own name, so field positions stay visible
// while a template is being laid out.
func (t *Template) SampleRecord() Record {
	rec := make(Record, len(t.Fields))
	for _, f := range t.Fields {
		if f.DataKey != "" {
			rec[f.DataKey] = f.DataKey
		}
	}
	return rec
}
