// Package reveal opens every collapsed section enclosing a navigation target
// before the target is scrolled into view.
package reveal

import (
	"log/slog"
	"net/url"
	"strings"

	"golang.org/x/net/html"

	"github.com/dgallion1/reportview/internal/dom"
	"github.com/dgallion1/reportview/internal/outline"
)

// ScrollOptions mirrors the scroll-into-view request of the client.
type ScrollOptions struct {
	Behavior string `json:"behavior"` // "smooth" or "auto"
	Block    string `json:"block"`    // vertical alignment, "start" aligns the top edge
}

// SmoothStart is the scroll request issued after a reveal.
var SmoothStart = ScrollOptions{Behavior: "smooth", Block: "start"}

// Scroller scrolls a node into the viewport. Scrolling is fire-and-forget.
type Scroller interface {
	ScrollIntoView(target *html.Node, opts ScrollOptions)
}

// Sidebar is the outline widget that folds away after navigation.
type Sidebar interface {
	Collapse()
}

// Result describes one navigation.
type Result struct {
	// Intercepted is false when the href is not a same-document fragment
	// and default navigation should proceed.
	Intercepted bool
	// Target is nil when the fragment matched no element.
	Target *html.Node
	// Expanded lists the sections opened, innermost ancestor first, followed
	// by the target's own section when it had to be opened.
	Expanded []int
}

// Resolver reveals targets within one sectioned document.
type Resolver struct {
	doc      *html.Node
	outline  *outline.Outline
	scroller Scroller
	sidebar  Sidebar
	log      *slog.Logger
}

// New creates a resolver. scroller and sidebar may be nil.
func New(doc *html.Node, o *outline.Outline, scroller Scroller, sidebar Sidebar, log *slog.Logger) *Resolver {
	if log == nil {
		log = slog.Default()
	}
	return &Resolver{doc: doc, outline: o, scroller: scroller, sidebar: sidebar, log: log}
}

// Fragment returns the id referenced by a same-document href, percent
// decoded. A malformed escape leaves the id as written.
func Fragment(href string) (string, bool) {
	if !strings.HasPrefix(href, "#") {
		return "", false
	}
	id := href[1:]
	if dec, err := url.PathUnescape(id); err == nil {
		id = dec
	}
	return id, true
}

// Navigate handles activation of an outline link with the given href.
func (r *Resolver) Navigate(href string) Result {
	id, ok := Fragment(href)
	if !ok {
		return Result{}
	}
	res := Result{Intercepted: true}
	target := dom.ByID(r.doc, id)
	if target == nil {
		r.log.Debug("navigation target not found", "href", href)
		return res
	}
	res.Target = target
	res.Expanded = r.Reveal(target)

	if r.scroller != nil {
		r.scroller.ScrollIntoView(target, SmoothStart)
	}
	if r.sidebar != nil {
		r.sidebar.Collapse()
	}
	r.log.Debug("navigated", "href", href, "expanded", len(res.Expanded))
	return res
}

// Reveal expands the sections needed to make target visible and returns
// them in the order they were opened. Each step moves one containment level
// up: from a node to the section holding it, then from that section's
// heading to its parent.
func (r *Resolver) Reveal(target *html.Node) []int {
	var opened []int
	current := target
	for {
		i, ok := r.outline.Containing(current)
		if !ok {
			break
		}
		if r.outline.SetExpanded(i, true) {
			opened = append(opened, i)
		}
		current = r.outline.Section(i).Heading
	}
	if i, ok := r.outline.ForHeading(target); ok && r.outline.SetExpanded(i, true) {
		opened = append(opened, i)
	}
	return opened
}

// ScrollTo scrolls to a fragment target without revealing it. Plain
// navigation links use this.
func (r *Resolver) ScrollTo(href string) Result {
	id, ok := Fragment(href)
	if !ok {
		return Result{}
	}
	res := Result{Intercepted: true, Target: dom.ByID(r.doc, id)}
	if res.Target != nil && r.scroller != nil {
		r.scroller.ScrollIntoView(res.Target, SmoothStart)
	}
	return res
}
