// Package surface adapts the manifest engine's resolved output to its five
// rendering contexts: interactive preview, single-document print, batch
// print, standalone HTML export, and the visual template editor.
//
// Every surface consumes the same overlay resolution and page-scale
// computation; nothing here re-fits text or re-derives geometry, which is
// what keeps the five outputs identical.
package surface

import (
	"strconv"

	"github.com/lading/manifest"
	"github.com/lading/manifest/batch"
	"github.com/lading/manifest/fit"
	"github.com/lading/manifest/metrics"
	"github.com/lading/manifest/overlay"
	"github.com/lading/manifest/pagescale"
)

// Option configures a Renderer.
type Option func(*config)

type config struct {
	batchOpts []batch.Option
	labelKey  string
}

// WithBatchOptions forwards options to the batch paginator (grouping and
// quantity keys).
func WithBatchOptions(opts ...batch.Option) Option {
	return func(c *config) { c.batchOpts = opts }
}

// WithLabelKey sets the record key used as an item's display label on batch
// separator and summary listings. Default "blNumber".
func WithLabelKey(key string) Option {
	return func(c *config) { c.labelKey = key }
}

// Renderer owns the shared measurement, fitting and pagination state behind
// all five surfaces.
type Renderer struct {
	measurer  *metrics.Measurer
	overlay   *overlay.Renderer
	paginator *batch.Paginator
	labelKey  string
}

// New builds a Renderer with a fresh metrics cache.
func New(opts ...Option) (*Renderer, error) {
	cfg := config{labelKey: "blNumber"}
	for _, opt := range opts {
		opt(&cfg)
	}

	m, err := metrics.New()
	if err != nil {
		return nil, err
	}
	ov := overlay.NewRenderer(fit.NewSolver(m))
	return &Renderer{
		measurer:  m,
		overlay:   ov,
		paginator: batch.NewPaginator(ov, cfg.batchOpts...),
		labelKey:  cfg.labelKey,
	}, nil
}

// ScreenPage is the JSON payload the preview and editor front ends position
// their DOM from: a uniform screen scale plus resolved field geometry.
type ScreenPage struct {
	Mode         string                  `json:"mode"`
	CanvasWidth  float64                 `json:"canvasWidth"`
	CanvasHeight float64                 `json:"canvasHeight"`
	Scale        manifest.Scale          `json:"scale"`
	Background   string                  `json:"background,omitempty"`
	Fields       []overlay.ResolvedField `json:"fields"`
}

// Preview renders one record against a template for on-screen display,
// bounded by the caller's viewport.
func (r *Renderer) Preview(tpl *manifest.Template, rec manifest.Record, limits *pagescale.Limits) (*ScreenPage, error) {
	return r.screen(tpl, rec, manifest.ModePreview, limits)
}

// Editor renders a template for the visual editor using a placeholder record
// built from the template's own data keys.
func (r *Renderer) Editor(tpl *manifest.Template, limits *pagescale.Limits) (*ScreenPage, error) {
	return r.screen(tpl, tpl.SampleRecord(), manifest.ModeEditor, limits)
}

func (r *Renderer) screen(tpl *manifest.Template, rec manifest.Record, mode manifest.TargetMode, limits *pagescale.Limits) (*ScreenPage, error) {
	if err := tpl.Validate(); err != nil {
		return nil, err
	}
	return &ScreenPage{
		Mode:         mode.String(),
		CanvasWidth:  tpl.Canvas.WidthPx,
		CanvasHeight: tpl.Canvas.HeightPx,
		Scale:        pagescale.Compute(tpl.Canvas, mode, limits),
		Background:   tpl.Background,
		Fields:       r.overlay.Resolve(tpl, rec),
	}, nil
}

// itemLabel picks a listing label for a record: the configured label key,
// falling back to the item's position.
func (r *Renderer) itemLabel(rec manifest.Record, position int) string {
	if v := rec.Get(r.labelKey); v != "" {
		return v
	}
	return "item " + strconv.Itoa(position)
}
