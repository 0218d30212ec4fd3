// Package fit finds the largest font size at which a line of text fits a
// fixed box, optionally stretching it vertically to fill the box height.
package fit

// Tuning constants. The margins were settled empirically against printed
// manifests; treat them as configuration, not derived physics.
const (
	MinFontSize      = 1.0
	MaxFontSize      = 1000.0
	SearchIterations = 20   // sub-pixel convergence over [1, 1000]
	WidthMargin      = 0.98 // guard against rounding/kerning variance
	HeightCap        = 0.95 // non-stretch: a short line never exceeds the box
	StretchFill      = 0.98 // stretch: vertical fill target
	DefaultFontSize  = 12.0
)

// Measurer is the width oracle the solver searches against. *metrics.Measurer
// satisfies it.
type Measurer interface {
	MeasureWidth(text string, fontSizePx float64, weight int) float64
}

// Result is a fitted font size plus non-uniform stretch factors. ScaleX and
// ScaleY are 1 except for stretch fits, where ScaleY fills the box height
// while the glyphs keep their natural width-fit proportions.
type Result struct {
	FontSize float64 `json:"fontSize"`
	ScaleX   float64 `json:"scaleX"`
	ScaleY   float64 `json:"scaleY"`
}

// Solver runs the font-size search. Solvers are stateless beyond the shared
// Measurer and safe for concurrent use if the Measurer is.
type Solver struct {
	metrics Measurer
}

// NewSolver returns a Solver backed by m.
func NewSolver(m Measurer) *Solver {
	return &Solver{metrics: m}
}

// Fit returns the largest font size whose single-line rendering of text fits
// targetWidth, then applies the height policy:
//
//   - stretchHeight false: the size is additionally capped at HeightCap times
//     targetHeight and no stretching occurs.
//   - stretchHeight true: the width-fit size is kept and the text is scaled
//     vertically only, to StretchFill times targetHeight.
//
// Empty text and degenerate boxes short-circuit to the default size with no
// stretch; fitting never fails.
func (s *Solver) Fit(text string, targetWidth, targetHeight float64, weight int, stretchHeight bool) Result {
	if text == "" || targetWidth <= 0 || targetHeight <= 0 {
		return Result{FontSize: DefaultFontSize, ScaleX: 1, ScaleY: 1}
	}

	size := s.searchWidthFit(text, targetWidth, weight)

	if !stretchHeight {
		if max := HeightCap * targetHeight; size > max {
			size = max
		}
		return Result{FontSize: size, ScaleX: 1, ScaleY: 1}
	}

	return Result{
		FontSize: size,
		ScaleX:   1,
		ScaleY:   StretchFill * targetHeight / size,
	}
}

// searchWidthFit binary-searches [MinFontSize, MaxFontSize] for the largest
// size whose measured width stays within the margin. A fixed iteration count
// converges well below a pixel over this range.
func (s *Solver) searchWidthFit(text string, targetWidth float64, weight int) float64 {
	limit := WidthMargin * targetWidth

	lo, hi := MinFontSize, MaxFontSize
	best := MinFontSize
	for i := 0; i < SearchIterations; i++ {
		mid := (lo + hi) / 2
		if s.metrics.MeasureWidth(text, mid, weight) <= limit {
			best = mid
			lo = mid
		} else {
			hi = mid
		}
	}
	return best
}
