// Package metrics measures rendered text widths for the manifest engine.
//
// Widths come from real glyph advances: the embedded Go fonts (regular,
// medium, bold) are parsed once and faces are built per size on demand. All
// results are memoized for the life of the Measurer, which is cheap because
// distinct inputs are bounded by template field count times distinct data
// values. A Measurer is safe for concurrent use.
package metrics

import (
	"fmt"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gomedium"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
)

// Weight constants on the CSS 100-900 scale.
const (
	WeightNormal = 400
	WeightMedium = 500
	WeightBold   = 700
)

type faceKey struct {
	weight int // bucketed weight
	size   float64
}

type widthKey struct {
	text   string
	size   float64
	weight int
}

// Measurer computes pixel widths of single-line strings under the engine's
// fixed font family. The zero value is not usable; call New.
type Measurer struct {
	mu     sync.Mutex
	fonts  map[int]*sfnt.Font // parsed font per weight bucket
	faces  map[faceKey]font.Face
	widths map[widthKey]float64
}

// New parses the embedded fonts and returns an empty-cached Measurer.
func New() (*Measurer, error) {
	m := &Measurer{
		fonts:  make(map[int]*sfnt.Font, 3),
		faces:  make(map[faceKey]font.Face),
		widths: make(map[widthKey]float64),
	}

	for _, src := range []struct {
		weight int
		data   []byte
		name   string
	}{
		{WeightNormal, goregular.TTF, "goregular"},
		{WeightMedium, gomedium.TTF, "gomedium"},
		{WeightBold, gobold.TTF, "gobold"},
	} {
		f, err := opentype.Parse(src.data)
		if err != nil {
			return nil, fmt.Errorf("metrics: parsing %s: %w", src.name, err)
		}
		m.fonts[src.weight] = f
	}
	return m, nil
}

// MeasureWidth returns the rendered pixel width of text at the given font
// size and weight. The empty string and non-positive sizes measure zero.
func (m *Measurer) MeasureWidth(text string, fontSizePx float64, weight int) float64 {
	if text == "" || fontSizePx <= 0 {
		return 0
	}

	key := widthKey{text: text, size: fontSizePx, weight: weight}

	m.mu.Lock()
	defer m.mu.Unlock()

	if w, ok := m.widths[key]; ok {
		return w
	}

	face, err := m.face(bucketWeight(weight), fontSizePx)
	if err != nil {
		// A face that fails to build at one size will fail at every size;
		// report zero width rather than guessing.
		m.widths[key] = 0
		return 0
	}

	adv := font.MeasureString(face, text)
	w := float64(adv) / 64 // fixed.Int26_6 to pixels

	m.widths[key] = w
	return w
}

// Reset drops every cached face and width. Intended for tests that need
// cache-cold measurements.
func (m *Measurer) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.faces = make(map[faceKey]font.Face)
	m.widths = make(map[widthKey]float64)
}

// face returns a cached font.Face for the bucketed weight and size.
// Callers must hold m.mu.
func (m *Measurer) face(bucket int, size float64) (font.Face, error) {
	key := faceKey{weight: bucket, size: size}
	if f, ok := m.faces[key]; ok {
		return f, nil
	}

	face, err := opentype.NewFace(m.fonts[bucket], &opentype.FaceOptions{
		Size:    size,
		DPI:     72, // 1pt == 1px, sizes are already pixels
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil, err
	}
	m.faces[key] = face
	return face, nil
}

// bucketWeight maps a 100-900 weight onto the nearest available font file.
func bucketWeight(weight int) int {
	switch {
	case weight < 500:
		return WeightNormal
	case weight < 650:
		return WeightMedium
	default:
		return WeightBold
	}
}

// ParseWeight normalizes a font-weight declaration to the numeric 100-900
// scale. Symbolic values map per CSS ("normal" is 400, "bold" 700); numeric
// strings are clamped into range. Anything unparseable falls back to normal.
func ParseWeight(s string) int {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "normal", "regular":
		return WeightNormal
	case "medium":
		return WeightMedium
	case "bold":
		return WeightBold
	}
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return WeightNormal
	}
	if n < 100 {
		n = 100
	}
	if n > 900 {
		n = 900
	}
	return n
}
