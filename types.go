// Package manifest defines the shared data model for the cargo-clearance
// manifest engine: templates with positioned text fields, the records that
// fill them, and the target modes that select a page-scaling policy.
//
// A template describes a fixed-layout document in its own native pixel
// coordinate space (the canvas). Fields are rectangular text regions bound to
// record keys; the rendering packages (overlay, fit, pagescale, batch) turn a
// template plus a record into resolved geometry that an output surface can
// paint.
package manifest

// Canvas is a template's native, unscaled pixel size. It is fixed once a
// template is loaded; all field coordinates are expressed in this space.
type Canvas struct {
	WidthPx  float64 `json:"widthPx"`
	HeightPx float64 `json:"heightPx"`
}

// Overflow selects how a field treats text that exceeds its box.
type Overflow string

const (
	OverflowVisible  Overflow = "visible"
	OverflowHidden   Overflow = "hidden"
	OverflowEllipsis Overflow = "ellipsis"
)

// Field is a positioned text region within a template. Positions and sizes
// are pixels in the template's canvas space. DataKey names the record entry
// that supplies the field's text; unknown keys resolve to the empty string.
type Field struct {
	ID            string   `json:"id"`
	X             float64  `json:"x"`
	Y             float64  `json:"y"`
	Width         float64  `json:"width"`
	Height        float64  `json:"height"`
	DataKey       string   `json:"dataKey"`
	FontSize      float64  `json:"fontSize,omitempty"`
	Color         string   `json:"color,omitempty"`
	FontWeight    string   `json:"fontWeight,omitempty"` // "normal", "bold" or "100".."900"
	TextAlign     string   `json:"textAlign,omitempty"`  // left, center, right
	Overflow      Overflow `json:"overflow,omitempty"`
	WordWrap      bool     `json:"wordWrap,omitempty"`
	MaxLines      int      `json:"maxLines,omitempty"`
	StretchHeight bool     `json:"stretchHeight,omitempty"`
}

// Template is a complete manifest layout: canvas size, an optional background
// reference (image or PDF path), and the field list. Templates are read-only
// to the rendering engine; the visual editor owns mutation.
type Template struct {
	Name       string  `json:"name,omitempty"`
	Canvas     Canvas  `json:"canvas"`
	Background string  `json:"background,omitempty"`
	Fields     []Field `json:"fields"`
}

// Record is the merged data for one manifest: an open-ended mapping from
// field keys to display strings. Records arrive pre-merged from upstream
// (customs API, warehouse rows); the engine never produces or validates them.
type Record map[string]string

// Get returns the value for key, or the empty string when the key is absent.
// Absent and present-but-empty are deliberately indistinguishable.
func (r Record) Get(key string) string {
	return r[key]
}

// TargetMode identifies the rendering context requesting a page scale.
type TargetMode int

const (
	ModePreview TargetMode = iota
	ModePrint
	ModeBatch
	ModeHTML
	ModeEditor
)

var modeNames = map[TargetMode]string{
	ModePreview: "preview",
	ModePrint:   "print",
	ModeBatch:   "batch",
	ModeHTML:    "html",
	ModeEditor:  "editor",
}

func (m TargetMode) String() string {
	if s, ok := modeNames[m]; ok {
		return s
	}
	return "unknown"
}

// IsDocument reports whether the mode targets a physical page (print, batch,
// html). Document modes fill the page per axis; screen modes (preview,
// editor) preserve the canvas aspect ratio.
func (m TargetMode) IsDocument() bool {
	switch m {
	case ModePrint, ModeBatch, ModeHTML:
		return true
	}
	return false
}

// ParseMode converts a mode name to a TargetMode.
func ParseMode(s string) (TargetMode, error) {
	for m, name := range modeNames {
		if name == s {
			return m, nil
		}
	}
	return 0, newRenderError("ParseMode", ErrUnknownMode)
}

// Scale is a pair of independent axis multipliers mapping canvas pixels onto
// a target surface. Document modes may produce X != Y; screen modes never do.
type Scale struct {
	X float64 `json:"scaleX"`
	Y float64 `json:"scaleY"`
}
