package collapse

import (
	"strings"
	"testing"

	"golang.org/x/net/html"

	"github.com/dgallion1/reportview/internal/dom"
	"github.com/dgallion1/reportview/internal/outline"
)

const page = `<body><button id="all">?</button><main>` +
	`<h1>A</h1><p>a</p><h2>B</h2><p>b</p><h1>C</h1><p>c</p>` +
	`</main></body>`

func setup(t *testing.T, src string) (*Controller, *outline.Outline, *html.Node) {
	t.Helper()
	doc, err := html.Parse(strings.NewReader(src))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	o, err := outline.Build(doc, outline.DefaultOptions(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	btn := dom.ByID(doc, "all")
	return New(o, btn, nil), o, btn
}

func TestNew_SyncsLabel(t *testing.T) {
	_, _, btn := setup(t, page)
	if got := dom.Text(btn); got != CollapseAllLabel {
		t.Errorf("expected %q, got %q", CollapseAllLabel, got)
	}
}

func TestToggle_TwiceRestores(t *testing.T) {
	c, o, _ := setup(t, page)
	before := dom.Text(o.Section(1).Group)
	if c.Toggle(1) {
		t.Fatal("expected first toggle to collapse")
	}
	if !dom.HasClass(o.Section(1).Group, outline.HiddenClass) {
		t.Error("expected group hidden")
	}
	if !c.Toggle(1) {
		t.Fatal("expected second toggle to expand")
	}
	if dom.HasClass(o.Section(1).Group, outline.HiddenClass) {
		t.Error("expected group visible again")
	}
	if v, _ := dom.Attr(o.Section(1).Heading, "aria-expanded"); v != "true" {
		t.Errorf("expected aria-expanded true, got %q", v)
	}
	if dom.Text(o.Section(1).Group) != before {
		t.Error("expected content unchanged")
	}
}

func TestKeyDown(t *testing.T) {
	c, o, _ := setup(t, page)
	for _, key := range []string{"Enter", " ", "Spacebar"} {
		was := o.Expanded(0)
		if !c.KeyDown(0, key) {
			t.Errorf("%q: expected key to be consumed", key)
		}
		if o.Expanded(0) == was {
			t.Errorf("%q: expected state to flip", key)
		}
	}
	for _, key := range []string{"Tab", "a", "Escape"} {
		was := o.Expanded(0)
		if c.KeyDown(0, key) {
			t.Errorf("%q: expected key to be ignored", key)
		}
		if o.Expanded(0) != was {
			t.Errorf("%q: expected no state change", key)
		}
	}
}

func TestToggleAll(t *testing.T) {
	c, o, btn := setup(t, page)

	// Mixed state collapses everything.
	c.Toggle(0)
	if c.ToggleAll() {
		t.Error("expected collapse when not all are collapsed")
	}
	for i := range o.Len() {
		if o.Expanded(i) {
			t.Errorf("section %d: expected collapsed", i)
		}
	}
	if got := dom.Text(btn); got != ExpandAllLabel {
		t.Errorf("expected %q, got %q", ExpandAllLabel, got)
	}

	if !c.ToggleAll() {
		t.Error("expected expand when all are collapsed")
	}
	for i := range o.Len() {
		if !o.Expanded(i) {
			t.Errorf("section %d: expected expanded", i)
		}
	}
	if got := dom.Text(btn); got != CollapseAllLabel {
		t.Errorf("expected %q, got %q", CollapseAllLabel, got)
	}
}

func TestLabelFollowsIndividualToggles(t *testing.T) {
	c, o, btn := setup(t, page)
	for i := range o.Len() {
		c.Toggle(i)
	}
	if got := dom.Text(btn); got != ExpandAllLabel {
		t.Errorf("expected %q after collapsing every section, got %q", ExpandAllLabel, got)
	}
	c.Toggle(2)
	if got := dom.Text(btn); got != CollapseAllLabel {
		t.Errorf("expected %q, got %q", CollapseAllLabel, got)
	}
}

func TestNoSections(t *testing.T) {
	c, _, btn := setup(t, `<body><button id="all"></button><main><p>only text</p></main></body>`)
	if !c.AllCollapsed() {
		t.Error("expected vacuous all-collapsed")
	}
	if got := dom.Text(btn); got != ExpandAllLabel {
		t.Errorf("expected %q, got %q", ExpandAllLabel, got)
	}
	c.ToggleAll()
	if !c.AllCollapsed() {
		t.Error("expected state to stay vacuous")
	}
}

func TestNilButton(t *testing.T) {
	c, _, _ := setup(t, `<main><h1>A</h1><p>a</p></main>`)
	c.ToggleAll()
	if c.Label() != ExpandAllLabel {
		t.Errorf("expected %q, got %q", ExpandAllLabel, c.Label())
	}
}
