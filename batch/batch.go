// Package batch turns a list of manifest items into an ordered page
// sequence: a start summary, per-group separator pages, the items' pages
// repeated per their copy counts, and an end summary.
//
// The paginator only sequences. Item pages carry document-mode scales and
// resolved fields computed by pagescale and overlay; painting is the output
// surface's job.
package batch

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/lading/manifest"
	"github.com/lading/manifest/overlay"
	"github.com/lading/manifest/pagescale"
)

// Default record keys. In the source domain a batch is grouped by shipment,
// and each row declares how many packages it covers and how many copies each
// package needs at the customs desk.
const (
	DefaultGroupKey   = "shipmentId"
	DefaultUnitKey    = "packageCount"
	DefaultPerUnitKey = "copiesPerPackage"
)

// Item is one record/template pair submitted for batch printing.
type Item struct {
	Record   manifest.Record
	Template *manifest.Template
}

// PageKind identifies a page's role in the batch document.
type PageKind int

const (
	PageStart PageKind = iota
	PageSeparator
	PageItem
	PageEnd
)

func (k PageKind) String() string {
	switch k {
	case PageStart:
		return "start"
	case PageSeparator:
		return "separator"
	case PageItem:
		return "item"
	case PageEnd:
		return "end"
	}
	return "unknown"
}

// GroupItem is one item with its computed copy count and render-ready state.
type GroupItem struct {
	Record        manifest.Record
	Template      *manifest.Template
	UnitCount     int
	CopiesPerUnit int
	CopyCount     int // UnitCount * CopiesPerUnit
	Scale         manifest.Scale
	Fields        []overlay.ResolvedField
}

// Group is the set of items sharing one grouping key, in declaration order.
// TotalPages counts the group's separator plus its copies; summed over all
// groups and added to the start and end pages it equals Document.TotalPages.
type Group struct {
	Key         string
	Items       []GroupItem
	TotalItems  int
	TotalCopies int
	TotalPages  int
}

// Page is one page of the batch document. Item is nil except for PageItem
// pages, where Copy counts from 1 to the item's CopyCount.
type Page struct {
	Number   int
	Kind     PageKind
	GroupKey string
	Item     *GroupItem
	Copy     int
}

// Document is a fully sequenced batch. TotalPages is computed once and equals
// 2 + group count + the sum of all copy counts; it is the value every surface
// must display.
type Document struct {
	Groups      []Group
	Pages       []Page
	TotalItems  int
	TotalCopies int
	TotalPages  int
}

// Option configures a Paginator.
type Option func(*config)

type config struct {
	groupKey   string
	unitKey    string
	perUnitKey string
}

// WithGroupKey sets the record key items are grouped by.
func WithGroupKey(key string) Option {
	return func(c *config) { c.groupKey = key }
}

// WithQuantityKeys sets the record keys holding the unit count and the
// per-unit copy multiplier.
func WithQuantityKeys(unitKey, perUnitKey string) Option {
	return func(c *config) {
		c.unitKey = unitKey
		c.perUnitKey = perUnitKey
	}
}

// Paginator sequences batch documents.
type Paginator struct {
	overlay *overlay.Renderer
	cfg     config
}

// NewPaginator returns a Paginator rendering fields through r.
func NewPaginator(r *overlay.Renderer, opts ...Option) *Paginator {
	cfg := config{
		groupKey:   DefaultGroupKey,
		unitKey:    DefaultUnitKey,
		perUnitKey: DefaultPerUnitKey,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Paginator{overlay: r, cfg: cfg}
}

// Paginate groups items by the configured key (groups ordered by first
// appearance, members in declaration order) and emits the full page
// sequence. The only error condition is a structurally unusable template;
// malformed quantities silently fall back to 0 units and 1 copy per unit.
func (p *Paginator) Paginate(items []Item) (*Document, error) {
	doc := &Document{TotalItems: len(items)}

	order := make(map[string]int)
	for i, item := range items {
		if item.Template == nil || item.Template.Canvas.WidthPx <= 0 || item.Template.Canvas.HeightPx <= 0 {
			return nil, fmt.Errorf("batch: item %d: %w", i, manifest.ErrNoCanvas)
		}

		key := item.Record.Get(p.cfg.groupKey)
		gi, ok := order[key]
		if !ok {
			gi = len(doc.Groups)
			order[key] = gi
			doc.Groups = append(doc.Groups, Group{Key: key})
		}

		units := parseQuantity(item.Record.Get(p.cfg.unitKey), 0)
		perUnit := parseQuantity(item.Record.Get(p.cfg.perUnitKey), 1)

		gitem := GroupItem{
			Record:        item.Record,
			Template:      item.Template,
			UnitCount:     units,
			CopiesPerUnit: perUnit,
			CopyCount:     units * perUnit,
			Scale:         pagescale.Compute(item.Template.Canvas, manifest.ModeBatch, nil),
			Fields:        p.overlay.Resolve(item.Template, item.Record),
		}
		doc.Groups[gi].Items = append(doc.Groups[gi].Items, gitem)
		doc.Groups[gi].TotalItems++
		doc.Groups[gi].TotalCopies += gitem.CopyCount
		doc.TotalCopies += gitem.CopyCount
	}

	for gi := range doc.Groups {
		doc.Groups[gi].TotalPages = 1 + doc.Groups[gi].TotalCopies
	}
	doc.TotalPages = 2 + len(doc.Groups) + doc.TotalCopies
	doc.Pages = p.sequence(doc)
	return doc, nil
}

// sequence emits pages in the fixed document order. Item pointers reference
// doc.Groups, which is fully built before this runs.
func (p *Paginator) sequence(doc *Document) []Page {
	pages := make([]Page, 0, doc.TotalPages)

	add := func(pg Page) {
		pg.Number = len(pages) + 1
		pages = append(pages, pg)
	}

	add(Page{Kind: PageStart})
	for gi := range doc.Groups {
		g := &doc.Groups[gi]
		add(Page{Kind: PageSeparator, GroupKey: g.Key})
		for ii := range g.Items {
			item := &g.Items[ii]
			for c := 1; c <= item.CopyCount; c++ {
				add(Page{Kind: PageItem, GroupKey: g.Key, Item: item, Copy: c})
			}
		}
	}
	add(Page{Kind: PageEnd})

	return pages
}

// parseQuantity parses a record-supplied integer quantity. Unparseable or
// negative values take the fallback; a bad quantity must never abort a batch
// that is already printing.
func parseQuantity(s string, fallback int) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 {
		return fallback
	}
	return n
}
