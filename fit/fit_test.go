package fit_test

import (
	"math"
	"testing"

	"github.com/lading/manifest/fit"
	"github.com/lading/manifest/metrics"
)

func newSolver(t *testing.T) (*fit.Solver, *metrics.Measurer) {
	t.Helper()
	m, err := metrics.New()
	if err != nil {
		t.Fatalf("metrics.New: %v", err)
	}
	return fit.NewSolver(m), m
}

func TestFitWidthContainment(t *testing.T) {
	s, m := newSolver(t)

	cases := []struct {
		text string
		w, h float64
	}{
		{"MSKU1234567", 200, 40},
		{"GENERAL CARGO, 42 PACKAGES, SAID TO CONTAIN", 300, 28},
		{"X", 50, 50},
		{"Port of Discharge: Rotterdam", 180, 24},
	}
	for _, tc := range cases {
		r := s.Fit(tc.text, tc.w, tc.h, metrics.WeightNormal, false)
		got := m.MeasureWidth(tc.text, r.FontSize, metrics.WeightNormal)
		if got > tc.w {
			t.Errorf("Fit(%q, %v): measured width %v exceeds box", tc.text, tc.w, got)
		}
		if r.ScaleX != 1 || r.ScaleY != 1 {
			t.Errorf("Fit(%q): non-stretch fit must not scale, got (%v, %v)", tc.text, r.ScaleX, r.ScaleY)
		}
	}
}

func TestFitHeightContainment(t *testing.T) {
	s, _ := newSolver(t)

	// Short text in a wide, shallow box: the width search alone would pick a
	// huge size, so the height cap must bite.
	r := s.Fit("OK", 1000, 30, metrics.WeightNormal, false)
	if r.FontSize > 0.95*30 {
		t.Errorf("font size %v exceeds height cap %v", r.FontSize, 0.95*30)
	}
}

func TestFitIdempotent(t *testing.T) {
	s, _ := newSolver(t)

	a := s.Fit("B/L NO. LAD-2026-00815", 240, 32, metrics.WeightBold, false)
	b := s.Fit("B/L NO. LAD-2026-00815", 240, 32, metrics.WeightBold, false)
	if a != b {
		t.Errorf("identical inputs produced different fits: %+v vs %+v", a, b)
	}
}

func TestFitStretchFillsHeight(t *testing.T) {
	s, _ := newSolver(t)

	const w, h = 200.0, 30.0
	r := s.Fit("CUSTOMS RELEASED", w, h, metrics.WeightNormal, true)

	if r.ScaleX != 1 {
		t.Errorf("stretch fit must keep horizontal proportions, ScaleX = %v", r.ScaleX)
	}
	want := fit.StretchFill * h / r.FontSize
	if math.Abs(r.ScaleY-want) > 1e-9 {
		t.Errorf("ScaleY = %v, want %v", r.ScaleY, want)
	}
	// Stretched glyph height fills the box to the stretch target.
	if got := r.FontSize * r.ScaleY; math.Abs(got-fit.StretchFill*h) > 1e-9 {
		t.Errorf("stretched height %v, want %v", got, fit.StretchFill*h)
	}
}

func TestFitDefaults(t *testing.T) {
	s, _ := newSolver(t)

	def := fit.Result{FontSize: fit.DefaultFontSize, ScaleX: 1, ScaleY: 1}
	for name, r := range map[string]fit.Result{
		"empty text":  s.Fit("", 200, 30, metrics.WeightNormal, false),
		"zero width":  s.Fit("abc", 0, 30, metrics.WeightNormal, false),
		"zero height": s.Fit("abc", 200, 0, metrics.WeightNormal, true),
	} {
		if r != def {
			t.Errorf("%s: got %+v, want %+v", name, r, def)
		}
	}
}
