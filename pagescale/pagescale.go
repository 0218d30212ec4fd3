// Package pagescale maps a template's native canvas onto a physical A4 page
// or a screen viewport.
//
// Document modes (print, batch, html) scale each axis independently so the
// page is filled edge to edge, accepting distortion. Screen modes (preview,
// editor) keep the canvas aspect ratio and never upscale, so the operator
// sees the template as drawn.
package pagescale

import (
	"github.com/lading/manifest"
)

// A4 usable area in pixels at 96 px/inch, full bleed. Margins are
// deliberately zero: the business goal is maximal print coverage, not a
// conventional printable-area inset.
const (
	PageWidth  = 793.7
	PageHeight = 1122.5
)

// Clamp bounds applied to every axis in every mode, plus the screen-mode
// upscale cap. Empirical values kept for output compatibility.
const (
	MinScale  = 0.3
	MaxScale  = 6.0
	ScreenCap = 1.0
)

// Limits optionally bounds screen-mode scaling to a viewport. Zero values
// mean unbounded.
type Limits struct {
	MaxWidth  float64
	MaxHeight float64
}

// Compute returns the axis multipliers that map canvas onto the target
// selected by mode. Degenerate canvases (non-positive axes) yield the
// identity scale; template validation rejects them before rendering starts,
// so this is purely a division guard.
func Compute(canvas manifest.Canvas, mode manifest.TargetMode, limits *Limits) manifest.Scale {
	if canvas.WidthPx <= 0 || canvas.HeightPx <= 0 {
		return manifest.Scale{X: 1, Y: 1}
	}

	if mode.IsDocument() {
		return manifest.Scale{
			X: clamp(PageWidth / canvas.WidthPx),
			Y: clamp(PageHeight / canvas.HeightPx),
		}
	}

	s := min2(PageWidth/canvas.WidthPx, PageHeight/canvas.HeightPx)
	if limits != nil {
		if limits.MaxWidth > 0 {
			s = min2(s, limits.MaxWidth/canvas.WidthPx)
		}
		if limits.MaxHeight > 0 {
			s = min2(s, limits.MaxHeight/canvas.HeightPx)
		}
	}
	if s > ScreenCap {
		s = ScreenCap
	}
	if s < MinScale {
		s = MinScale
	}
	return manifest.Scale{X: s, Y: s}
}

func clamp(s float64) float64 {
	if s < MinScale {
		return MinScale
	}
	if s > MaxScale {
		return MaxScale
	}
	return s
}

func min2(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
