// Package page composes the behavior layer of a report page: the outline,
// its collapse controls, the reveal resolver and the mission tables, all
// bound to one live content tree through an explicit event registry.
package page

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/dgallion1/reportview/internal/collapse"
	"github.com/dgallion1/reportview/internal/doctree"
	"github.com/dgallion1/reportview/internal/dom"
	"github.com/dgallion1/reportview/internal/loader"
	"github.com/dgallion1/reportview/internal/mission"
	"github.com/dgallion1/reportview/internal/outline"
	"github.com/dgallion1/reportview/internal/reveal"
)

var (
	// ErrNoSection is returned for a section index outside the outline.
	ErrNoSection = errors.New("no such section")
	// ErrNoTable is returned for a mission table id not wired on the page.
	ErrNoTable = errors.New("no such mission table")
	// ErrNoRow is returned for a row serial outside the table.
	ErrNoRow = errors.New("no such mission row")
	// ErrNoElement is returned when a clicked element is not in the tree.
	ErrNoElement = errors.New("element not present on page")
)

// Options configures the page components.
type Options struct {
	Outline       outline.Options
	CollapseAllID string
	NavClass      string // container class of plain navigation links
	Mission       mission.Data
	Scroller      reveal.Scroller
	Clipboard     mission.Clipboard
}

// DefaultOptions matches the report page layout and the built-in missions.
func DefaultOptions() Options {
	return Options{
		Outline:       outline.DefaultOptions(),
		CollapseAllID: "toc-collapse-all",
		NavClass:      "nav",
		Mission:       mission.DefaultData(),
	}
}

// Page is one live report page.
type Page struct {
	Doc      *html.Node
	Title    string
	Outline  *outline.Outline
	Collapse *collapse.Controller
	Resolver *reveal.Resolver
	Sidebar  *Sidebar
	Tables   []*mission.Table

	opts   Options
	events *Dispatcher
	log    *slog.Logger
}

// New sectionizes doc and wires every component present on it.
func New(doc *html.Node, opts Options, log *slog.Logger) (*Page, error) {
	if log == nil {
		log = slog.Default()
	}
	o, err := outline.Build(doc, opts.Outline, log)
	if err != nil {
		return nil, fmt.Errorf("sectionize: %w", err)
	}

	toc := dom.ByID(doc, opts.Outline.OutlineID)
	p := &Page{
		Doc:     doc,
		Title:   loader.Title(doc),
		Outline: o,
		Sidebar: newSidebar(doc, toc),
		opts:    opts,
		events:  NewDispatcher(),
		log:     log,
	}
	p.Collapse = collapse.New(o, dom.ByID(doc, opts.CollapseAllID), log)
	p.Resolver = reveal.New(doc, o, opts.Scroller, p.Sidebar, log)

	for _, cfg := range opts.Mission.Tables {
		if t := mission.Init(doc, cfg, opts.Mission.Legend, log); t != nil {
			p.Tables = append(p.Tables, t)
		}
	}

	p.bindSections()
	p.bindOutline(toc)
	p.bindNav(toc)
	for _, t := range p.Tables {
		p.bindTable(t)
	}

	log.Debug("page ready", "title", p.Title, "sections", o.Len(), "tables", len(p.Tables))
	return p, nil
}

func (p *Page) bindSections() {
	for _, s := range p.Outline.Sections() {
		i := s.Index
		p.events.On(s.Heading, Click, func(e *Event, _ *html.Node) {
			p.Collapse.Toggle(i)
		})
		p.events.On(s.Heading, KeyDown, func(e *Event, _ *html.Node) {
			if p.Collapse.KeyDown(i, e.Key) {
				e.PreventDefault()
			}
		})
	}
}

func (p *Page) bindOutline(toc *html.Node) {
	if btn := dom.ByID(p.Doc, p.opts.CollapseAllID); btn != nil {
		p.events.On(btn, Click, func(e *Event, _ *html.Node) {
			p.Collapse.ToggleAll()
		})
	}
	if toc == nil {
		return
	}
	if h := p.Sidebar.Handle(); h != nil {
		p.events.On(h, Click, func(e *Event, _ *html.Node) { p.Sidebar.Toggle() })
	}
	if overlay := dom.ByID(p.Doc, p.opts.Outline.OutlineID+"-overlay"); overlay != nil {
		p.events.On(overlay, Click, func(e *Event, _ *html.Node) { p.Sidebar.Collapse() })
	}
	for _, a := range dom.FindAll(toc, dom.Tag(atom.A)) {
		p.events.On(a, Click, func(e *Event, cur *html.Node) {
			href, _ := dom.Attr(cur, "href")
			if p.Navigate(href).Intercepted {
				e.PreventDefault()
			}
		})
	}
}

// bindNav gives plain navigation links smooth scrolling without reveal.
func (p *Page) bindNav(toc *html.Node) {
	if p.opts.NavClass == "" {
		return
	}
	for _, nav := range dom.FindAll(p.Doc, func(n *html.Node) bool { return dom.HasClass(n, p.opts.NavClass) }) {
		if dom.Contains(toc, nav) {
			continue
		}
		for _, a := range dom.FindAll(nav, dom.Tag(atom.A)) {
			p.events.On(a, Click, func(e *Event, cur *html.Node) {
				href, _ := dom.Attr(cur, "href")
				if p.Resolver.ScrollTo(href).Intercepted {
					e.PreventDefault()
				}
			})
		}
	}
}

func (p *Page) bindTable(t *mission.Table) {
	for i, tr := range t.Rows() {
		p.events.On(tr, Click, func(e *Event, _ *html.Node) { t.Select(i) })
	}
	for _, td := range t.CoordinateCells() {
		p.events.On(td, Click, func(e *Event, cur *html.Node) {
			if err := t.Copy(cur, p.opts.Clipboard); err != nil {
				p.log.Warn("copy coordinates failed", "table", t.ID(), "error", err)
			}
		})
	}
	p.events.On(t.HeaderRow(), Click, func(e *Event, _ *html.Node) { t.Reset() })
	p.events.OnDocument(Click, func(e *Event, _ *html.Node) { t.ClickOutside(e.Target) })
	p.events.On(t.Toggle(), Click, func(e *Event, _ *html.Node) { t.ToggleAdvanced() })
}

// Dispatch delivers an event to the page.
func (p *Page) Dispatch(e *Event) *Event {
	p.events.Dispatch(e)
	return e
}

// Click delivers a click on n.
func (p *Page) Click(n *html.Node) *Event {
	return p.Dispatch(&Event{Type: Click, Target: n})
}

// Key delivers a key press on n.
func (p *Page) Key(n *html.Node, key string) *Event {
	return p.Dispatch(&Event{Type: KeyDown, Target: n, Key: key})
}

// ClickID clicks the element with the given id, or the body when id is
// empty.
func (p *Page) ClickID(id string) (*Event, error) {
	var n *html.Node
	if id == "" {
		n = dom.Find(p.Doc, dom.Tag(atom.Body))
	} else {
		n = dom.ByID(p.Doc, id)
	}
	if n == nil {
		return nil, fmt.Errorf("%w: #%s", ErrNoElement, id)
	}
	return p.Click(n), nil
}

// ToggleSection clicks the heading of section i.
func (p *Page) ToggleSection(i int) (bool, error) {
	if !p.Outline.Valid(i) {
		return false, fmt.Errorf("%w: %d", ErrNoSection, i)
	}
	p.Click(p.Outline.Section(i).Heading)
	return p.Outline.Expanded(i), nil
}

// KeySection presses key on the heading of section i and returns whether
// the key was consumed.
func (p *Page) KeySection(i int, key string) (bool, error) {
	if !p.Outline.Valid(i) {
		return false, fmt.Errorf("%w: %d", ErrNoSection, i)
	}
	return p.Key(p.Outline.Section(i).Heading, key).DefaultPrevented(), nil
}

// CollapseAll activates the global control. Without a control on the page
// the controller is driven directly.
func (p *Page) CollapseAll() string {
	if btn := dom.ByID(p.Doc, p.opts.CollapseAllID); btn != nil {
		p.Click(btn)
	} else {
		p.Collapse.ToggleAll()
	}
	return p.Collapse.Label()
}

// Navigate runs the reveal resolver for href and resyncs the global
// control, whose label depends on section state.
func (p *Page) Navigate(href string) reveal.Result {
	res := p.Resolver.Navigate(href)
	p.Collapse.Sync()
	return res
}

// Table returns the mission table with the given element id.
func (p *Page) Table(id string) (*mission.Table, error) {
	for _, t := range p.Tables {
		if t.ID() == id {
			return t, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrNoTable, id)
}

// SelectRow clicks row serial (1-based) of table id.
func (p *Page) SelectRow(id string, serial int) (*mission.Table, error) {
	t, err := p.Table(id)
	if err != nil {
		return nil, err
	}
	if serial < 1 || serial > t.Len() {
		return nil, fmt.Errorf("%w: %s row %d", ErrNoRow, id, serial)
	}
	p.Click(t.Rows()[serial-1])
	return t, nil
}

// ResetTable clicks the header row of table id.
func (p *Page) ResetTable(id string) (*mission.Table, error) {
	t, err := p.Table(id)
	if err != nil {
		return nil, err
	}
	if t.HeaderRow() == nil {
		return nil, fmt.Errorf("%w: header row of %s", ErrNoElement, id)
	}
	p.Click(t.HeaderRow())
	return t, nil
}

// ToggleAdvanced clicks the advanced-columns control of table id.
func (p *Page) ToggleAdvanced(id string) (*mission.Table, error) {
	t, err := p.Table(id)
	if err != nil {
		return nil, err
	}
	if t.Toggle() == nil {
		return nil, fmt.Errorf("%w: advanced toggle of %s", ErrNoElement, id)
	}
	p.Click(t.Toggle())
	return t, nil
}

// Tree returns the outline view of the page.
func (p *Page) Tree() *doctree.DocTree {
	return p.Outline.Tree(p.Title)
}

// Render writes the live tree as HTML.
func (p *Page) Render(w io.Writer) error {
	return html.Render(w, p.Doc)
}

// HTML returns the live tree as an HTML string.
func (p *Page) HTML() string {
	var b strings.Builder
	if err := p.Render(&b); err != nil {
		return ""
	}
	return b.String()
}
