package pagescale_test

import (
	"math"
	"testing"

	"github.com/lading/manifest"
	"github.com/lading/manifest/pagescale"
)

var allModes = []manifest.TargetMode{
	manifest.ModePreview,
	manifest.ModePrint,
	manifest.ModeBatch,
	manifest.ModeHTML,
	manifest.ModeEditor,
}

func TestDocumentModesFillPage(t *testing.T) {
	canvas := manifest.Canvas{WidthPx: 1000, HeightPx: 1400}

	for _, mode := range []manifest.TargetMode{manifest.ModePrint, manifest.ModeBatch, manifest.ModeHTML} {
		s := pagescale.Compute(canvas, mode, nil)
		wantX := pagescale.PageWidth / 1000
		wantY := pagescale.PageHeight / 1400
		if math.Abs(s.X-wantX) > 1e-9 || math.Abs(s.Y-wantY) > 1e-9 {
			t.Errorf("%s: got (%v, %v), want (%v, %v)", mode, s.X, s.Y, wantX, wantY)
		}
		if s.X == s.Y {
			t.Errorf("%s: expected independent axis scales for this canvas", mode)
		}
	}
}

func TestScreenModesPreserveAspect(t *testing.T) {
	cases := []manifest.Canvas{
		{WidthPx: 1000, HeightPx: 1400},
		{WidthPx: 400, HeightPx: 2000},
		{WidthPx: 3000, HeightPx: 500},
	}
	for _, canvas := range cases {
		for _, mode := range []manifest.TargetMode{manifest.ModePreview, manifest.ModeEditor} {
			s := pagescale.Compute(canvas, mode, nil)
			if s.X != s.Y {
				t.Errorf("%s %+v: scaleX %v != scaleY %v", mode, canvas, s.X, s.Y)
			}
		}
	}
}

func TestScreenModeNeverUpscales(t *testing.T) {
	// Tiny canvas: the raw page ratio would be far above 1.
	s := pagescale.Compute(manifest.Canvas{WidthPx: 100, HeightPx: 100}, manifest.ModePreview, nil)
	if s.X != pagescale.ScreenCap || s.Y != pagescale.ScreenCap {
		t.Errorf("got (%v, %v), want cap %v", s.X, s.Y, pagescale.ScreenCap)
	}
}

func TestScreenLimitsBoundScale(t *testing.T) {
	canvas := manifest.Canvas{WidthPx: 1000, HeightPx: 1000}
	s := pagescale.Compute(canvas, manifest.ModePreview, &pagescale.Limits{MaxWidth: 500})
	if math.Abs(s.X-0.5) > 1e-9 || math.Abs(s.Y-0.5) > 1e-9 {
		t.Errorf("got (%v, %v), want (0.5, 0.5)", s.X, s.Y)
	}

	// A viewport smaller than the floor still clamps up to the floor.
	s = pagescale.Compute(canvas, manifest.ModePreview, &pagescale.Limits{MaxWidth: 100, MaxHeight: 100})
	if s.X != pagescale.MinScale || s.Y != pagescale.MinScale {
		t.Errorf("got (%v, %v), want floor %v", s.X, s.Y, pagescale.MinScale)
	}
}

func TestScaleClampAllModes(t *testing.T) {
	cases := []manifest.Canvas{
		{WidthPx: 1, HeightPx: 1},
		{WidthPx: 100000, HeightPx: 100000},
		{WidthPx: 1, HeightPx: 100000},
		{WidthPx: 793.7, HeightPx: 1122.5},
	}
	for _, canvas := range cases {
		for _, mode := range allModes {
			s := pagescale.Compute(canvas, mode, nil)
			if s.X < pagescale.MinScale || s.X > pagescale.MaxScale ||
				s.Y < pagescale.MinScale || s.Y > pagescale.MaxScale {
				t.Errorf("%s %+v: scale (%v, %v) outside [%v, %v]",
					mode, canvas, s.X, s.Y, pagescale.MinScale, pagescale.MaxScale)
			}
		}
	}
}

func TestDegenerateCanvasGuard(t *testing.T) {
	s := pagescale.Compute(manifest.Canvas{}, manifest.ModePrint, nil)
	if s.X != 1 || s.Y != 1 {
		t.Errorf("zero canvas: got (%v, %v), want identity", s.X, s.Y)
	}
}
