// Package overlay resolves a template's fields against a data record.
//
// The output is presentation-agnostic geometry: fractional boxes, resolved
// text, fitted font sizes and wrap/clip treatment. Painting is left to the
// output surfaces, which all consume the same resolved fields so that the
// five of them agree pixel for pixel.
package overlay

import (
	"github.com/lading/manifest"
	"github.com/lading/manifest/fit"
	"github.com/lading/manifest/metrics"
)

// ResolvedField is one field's render-ready state. Box coordinates are
// fractions of the canvas, so any surface can place the field at its own
// resolution by multiplying with its output size.
type ResolvedField struct {
	ID     string  `json:"id"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`

	Value string     `json:"value"`
	Fit   fit.Result `json:"fit"`

	Color      string `json:"color,omitempty"`
	FontWeight int    `json:"fontWeight"`
	TextAlign  string `json:"textAlign"`

	// Overflow treatment, already reduced from the field's declared settings.
	// MaxLines 0 means unlimited; MaxLines > 0 implies Ellipsis at the cutoff.
	Wrap     bool `json:"wrap"`
	Clip     bool `json:"clip"`
	Ellipsis bool `json:"ellipsis"`
	MaxLines int  `json:"maxLines"`

	Stretched bool `json:"stretched"`
}

// Renderer resolves fields using a shared fit solver.
type Renderer struct {
	solver *fit.Solver
}

// NewRenderer returns a Renderer backed by solver.
func NewRenderer(solver *fit.Solver) *Renderer {
	return &Renderer{solver: solver}
}

// Resolve produces one ResolvedField per template field, in declaration
// order. Unknown data keys resolve to the empty string; resolution never
// fails.
func (r *Renderer) Resolve(tpl *manifest.Template, rec manifest.Record) []ResolvedField {
	out := make([]ResolvedField, 0, len(tpl.Fields))
	for _, f := range tpl.Fields {
		out = append(out, r.resolveField(tpl.Canvas, f, rec))
	}
	return out
}

func (r *Renderer) resolveField(canvas manifest.Canvas, f manifest.Field, rec manifest.Record) ResolvedField {
	value := rec.Get(f.DataKey)
	weight := metrics.ParseWeight(f.FontWeight)

	rf := ResolvedField{
		ID:         f.ID,
		Value:      value,
		Fit:        r.solver.Fit(value, f.Width, f.Height, weight, f.StretchHeight),
		Color:      f.Color,
		FontWeight: weight,
		TextAlign:  normalizeAlign(f.TextAlign),
		Stretched:  f.StretchHeight,
	}

	if canvas.WidthPx > 0 && canvas.HeightPx > 0 {
		rf.X = f.X / canvas.WidthPx
		rf.Y = f.Y / canvas.HeightPx
		rf.Width = f.Width / canvas.WidthPx
		rf.Height = f.Height / canvas.HeightPx
	}

	applyOverflow(&rf, f)
	return rf
}

// applyOverflow reduces the field's declared overflow settings to wrap, clip,
// ellipsis and line-clamp values, in precedence order: an explicit maxLines
// wins over everything, then ellipsis, then hidden, then the visible default.
func applyOverflow(rf *ResolvedField, f manifest.Field) {
	switch {
	case f.MaxLines > 0:
		rf.MaxLines = f.MaxLines
		rf.Ellipsis = true
		rf.Clip = true
		rf.Wrap = true
	case f.Overflow == manifest.OverflowEllipsis:
		rf.MaxLines = 1
		rf.Ellipsis = true
		rf.Clip = true
		rf.Wrap = false
	case f.Overflow == manifest.OverflowHidden:
		rf.Clip = true
		rf.Wrap = f.WordWrap
	default:
		// visible: most fields are pre-sized for their expected content, so
		// the default lets long values run past the box rather than hide data
		// on a customs document.
		rf.Clip = false
		rf.Wrap = f.WordWrap
	}
}

func normalizeAlign(a string) string {
	switch a {
	case "center", "right":
		return a
	}
	return "left"
}
