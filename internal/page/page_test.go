package page

import (
	"errors"
	"strings"
	"testing"

	"golang.org/x/net/html"

	"github.com/dgallion1/reportview/internal/collapse"
	"github.com/dgallion1/reportview/internal/dom"
	"github.com/dgallion1/reportview/internal/mission"
	"github.com/dgallion1/reportview/internal/reveal"
)

func missionTable(id string) string {
	var b strings.Builder
	b.WriteString(`<button id="` + mission.ToggleIDFor(id) + `">Advanced</button>`)
	b.WriteString(`<table id="` + id + `"><thead><tr>`)
	for range mission.DefaultHeaders {
		b.WriteString("<th></th>")
	}
	b.WriteString(`</tr></thead><tbody></tbody></table>`)
	return b.String()
}

var reportHTML = `<!DOCTYPE html><html><head><title>Flight Report</title></head><body>` +
	`<header><h1>Site Header</h1></header>` +
	`<nav id="toc"><button class="toc-handle">&#9776;</button>` +
	`<button id="toc-collapse-all">?</button>` +
	`<a id="link-leg" href="#leg">Leg</a><a id="link-ext" href="https://example.com/">Ext</a>` +
	`<a id="link-missing" href="#missing">Missing</a></nav>` +
	`<div id="toc-overlay"></div>` +
	`<div class="nav"><a id="nav-top" href="#intro">Top</a></div>` +
	`<main>` +
	`<h1 id="intro">Intro</h1><p>intro</p>` +
	`<h2 id="missions">Missions</h2><p>two legs</p>` +
	`<h3 id="leg">Leg</h3><p id="leg-text">leg</p>` +
	missionTable("mission-table") +
	missionTable("mission-table-2") +
	`<h1 id="appendix">Appendix</h1><p>notes</p>` +
	`</main><p id="footer">footer</p></body></html>`

type clip struct{ texts []string }

func (c *clip) WriteText(s string) error {
	c.texts = append(c.texts, s)
	return nil
}

func newPage(t *testing.T) (*Page, *ScrollRecorder, *clip) {
	t.Helper()
	doc, err := html.Parse(strings.NewReader(reportHTML))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	sc := &ScrollRecorder{}
	cb := &clip{}
	opts := DefaultOptions()
	opts.Scroller = sc
	opts.Clipboard = cb
	p, err := New(doc, opts, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return p, sc, cb
}

func TestNew(t *testing.T) {
	p, _, _ := newPage(t)
	if p.Title != "Flight Report" {
		t.Errorf("expected title %q, got %q", "Flight Report", p.Title)
	}
	if p.Outline.Len() != 4 {
		t.Errorf("expected 4 sections, got %d", p.Outline.Len())
	}
	if len(p.Tables) != 2 {
		t.Errorf("expected 2 tables, got %d", len(p.Tables))
	}
	if got := dom.Text(dom.ByID(p.Doc, "toc-collapse-all")); got != collapse.CollapseAllLabel {
		t.Errorf("expected %q, got %q", collapse.CollapseAllLabel, got)
	}
	if !p.Sidebar.Expanded() {
		t.Error("expected sidebar open")
	}
}

func TestHeadingClickAndKeys(t *testing.T) {
	p, _, _ := newPage(t)
	if expanded, err := p.ToggleSection(1); err != nil || expanded {
		t.Fatalf("expected section 1 collapsed, got %v (%v)", expanded, err)
	}
	consumed, err := p.KeySection(1, "Enter")
	if err != nil || !consumed {
		t.Fatalf("expected Enter consumed, got %v (%v)", consumed, err)
	}
	if !p.Outline.Expanded(1) {
		t.Error("expected section 1 expanded again")
	}
	if consumed, _ := p.KeySection(1, "Tab"); consumed {
		t.Error("expected Tab to pass through")
	}
	if _, err := p.ToggleSection(42); !errors.Is(err, ErrNoSection) {
		t.Errorf("expected ErrNoSection, got %v", err)
	}
}

func TestCollapseAll(t *testing.T) {
	p, _, _ := newPage(t)
	if got := p.CollapseAll(); got != collapse.ExpandAllLabel {
		t.Errorf("expected %q, got %q", collapse.ExpandAllLabel, got)
	}
	if !p.Outline.AllCollapsed() {
		t.Error("expected all collapsed")
	}
	if got := p.CollapseAll(); got != collapse.CollapseAllLabel {
		t.Errorf("expected %q, got %q", collapse.CollapseAllLabel, got)
	}
}

func TestOutlineLinkReveals(t *testing.T) {
	p, sc, _ := newPage(t)
	p.CollapseAll()

	e, err := p.ClickID("link-leg")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !e.DefaultPrevented() {
		t.Error("expected fragment navigation to be intercepted")
	}
	for _, id := range []string{"intro", "missions", "leg"} {
		i, _ := p.Outline.ForHeading(dom.ByID(p.Doc, id))
		if !p.Outline.Expanded(i) {
			t.Errorf("%s: expected expanded", id)
		}
	}
	if i, _ := p.Outline.ForHeading(dom.ByID(p.Doc, "appendix")); p.Outline.Expanded(i) {
		t.Error("expected appendix to stay collapsed")
	}
	reqs := sc.Drain()
	if len(reqs) != 1 || reqs[0].TargetID != "leg" || reqs[0].Options != reveal.SmoothStart {
		t.Errorf("unexpected scroll requests %+v", reqs)
	}
	if p.Sidebar.Expanded() {
		t.Error("expected sidebar collapsed after navigation")
	}
	if got := p.Collapse.Label(); got != collapse.CollapseAllLabel {
		t.Errorf("expected %q after reveal, got %q", collapse.CollapseAllLabel, got)
	}
}

func TestOutlineLinkExternal(t *testing.T) {
	p, sc, _ := newPage(t)
	e, _ := p.ClickID("link-ext")
	if e.DefaultPrevented() {
		t.Error("expected external link to navigate normally")
	}
	if len(sc.Drain()) != 0 || !p.Sidebar.Expanded() {
		t.Error("expected no side effects")
	}
	e, _ = p.ClickID("link-missing")
	if !e.DefaultPrevented() {
		t.Error("expected fragment link to be intercepted even without target")
	}
}

func TestNavLinkScrollsOnly(t *testing.T) {
	p, sc, _ := newPage(t)
	p.CollapseAll()
	e, _ := p.ClickID("nav-top")
	if !e.DefaultPrevented() {
		t.Error("expected nav link intercepted")
	}
	if reqs := sc.Drain(); len(reqs) != 1 || reqs[0].TargetID != "intro" {
		t.Errorf("unexpected scroll requests %+v", reqs)
	}
	if !p.Outline.AllCollapsed() {
		t.Error("expected nav link not to reveal")
	}
}

func TestSidebarHandleAndOverlay(t *testing.T) {
	p, _, _ := newPage(t)
	p.Click(p.Sidebar.Handle())
	if p.Sidebar.Expanded() {
		t.Error("expected handle to collapse the sidebar")
	}
	if v, _ := dom.Attr(p.Sidebar.Handle(), "aria-expanded"); v != "false" {
		t.Errorf("expected aria-expanded false, got %q", v)
	}
	p.Click(p.Sidebar.Handle())
	if !p.Sidebar.Expanded() {
		t.Error("expected handle to reopen the sidebar")
	}
	p.ClickID("toc-overlay")
	if p.Sidebar.Expanded() {
		t.Error("expected overlay to collapse the sidebar")
	}
}

func TestTableSelectionAndOutsideClick(t *testing.T) {
	p, _, _ := newPage(t)
	legend := mission.DefaultLegend()

	a, err := p.SelectRow("mission-table", 5) // DO_SET_SERVO
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := a.Headers()[2]; got != legend.Headers("DO_SET_SERVO")[2] {
		t.Errorf("expected %q, got %q", legend.Headers("DO_SET_SERVO")[2], got)
	}

	// Clicking table 2's advanced toggle is outside table 1.
	if _, err := p.ToggleAdvanced("mission-table-2"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := a.Selected(); ok {
		t.Error("expected table 1 reset")
	}
	b, _ := p.Table("mission-table-2")
	if !b.AdvancedHidden() || a.AdvancedHidden() {
		t.Error("expected only table 2 advanced columns hidden")
	}

	// Table 2 ignores clicks on its own toggle.
	p.SelectRow("mission-table-2", 1)
	p.ToggleAdvanced("mission-table-2")
	if _, ok := b.Selected(); !ok {
		t.Error("expected table 2 to keep its selection")
	}
	if b.AdvancedHidden() {
		t.Error("expected advanced columns shown again")
	}

	p.ClickID("footer")
	if _, ok := b.Selected(); ok {
		t.Error("expected click elsewhere to reset table 2")
	}
	if got := b.Headers(); got[2] != mission.DefaultHeaders[2] {
		t.Errorf("expected default headers, got %v", got)
	}
}

func TestTableHeaderReset(t *testing.T) {
	p, _, _ := newPage(t)
	tbl, _ := p.SelectRow("mission-table", 2)
	if _, err := p.ResetTable("mission-table"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := tbl.Selected(); ok {
		t.Error("expected selection cleared")
	}
	if _, err := p.SelectRow("mission-table", 0); !errors.Is(err, ErrNoRow) {
		t.Errorf("expected ErrNoRow, got %v", err)
	}
	if _, err := p.Table("nope"); !errors.Is(err, ErrNoTable) {
		t.Errorf("expected ErrNoTable, got %v", err)
	}
}

func TestCoordinateCopy(t *testing.T) {
	p, _, cb := newPage(t)
	tbl, _ := p.Table("mission-table")
	cell := tbl.CoordinateCells()[2] // row 2 latitude
	p.Click(cell)
	if len(cb.texts) != 1 || cb.texts[0] != "27.4835753" {
		t.Errorf("unexpected copies %v", cb.texts)
	}
	// The click also bubbles to the row.
	if i, ok := tbl.Selected(); !ok || i != 1 {
		t.Errorf("expected row 2 selected, got %d (%v)", i, ok)
	}
}

func TestClickUnknownElement(t *testing.T) {
	p, _, _ := newPage(t)
	if _, err := p.ClickID("nope"); !errors.Is(err, ErrNoElement) {
		t.Errorf("expected ErrNoElement, got %v", err)
	}
	if _, err := p.ClickID(""); err != nil {
		t.Errorf("expected body click, got %v", err)
	}
}

func TestRenderIncludesMarkers(t *testing.T) {
	p, _, _ := newPage(t)
	out := p.HTML()
	for _, want := range []string{`data-collapsible-content`, `collapsible-heading`, `Sr. No`, `coordinates`} {
		if !strings.Contains(out, want) {
			t.Errorf("expected rendered page to contain %q", want)
		}
	}
}

func TestDispatcherBubblesThenDocument(t *testing.T) {
	doc, _ := html.Parse(strings.NewReader(`<div id="outer"><span id="inner"></span></div>`))
	d := NewDispatcher()
	var order []string
	outer, inner := dom.ByID(doc, "outer"), dom.ByID(doc, "inner")
	d.OnDocument(Click, func(e *Event, _ *html.Node) { order = append(order, "document") })
	d.On(outer, Click, func(e *Event, cur *html.Node) { order = append(order, "outer") })
	d.On(inner, Click, func(e *Event, cur *html.Node) { order = append(order, "inner") })
	d.On(inner, KeyDown, func(e *Event, cur *html.Node) { order = append(order, "key") })

	d.Dispatch(&Event{Type: Click, Target: inner})
	if strings.Join(order, ",") != "inner,outer,document" {
		t.Errorf("unexpected order %v", order)
	}

	order = nil
	d.On(inner, Click, func(e *Event, cur *html.Node) { e.StopPropagation() })
	d.Dispatch(&Event{Type: Click, Target: inner})
	if strings.Join(order, ",") != "inner" {
		t.Errorf("expected propagation to stop, got %v", order)
	}
}
