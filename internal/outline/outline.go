// Package outline infers a section hierarchy from the h1–h3 headings of a
// report page and wraps each heading's trailing content into a collapsible
// group.
package outline

import (
	"errors"
	"strconv"
	"strings"

	"golang.org/x/net/html"

	"github.com/dgallion1/reportview/internal/doctree"
	"github.com/dgallion1/reportview/internal/dom"
)

// Markers written into the content tree.
const (
	HeadingClass = "collapsible-heading"
	ToggleClass  = "collapsible-toggle"
	HiddenClass  = "is-hidden"
	GroupAttr    = "data-collapsible-content"
	ToggleGlyph  = "▾"
)

// ErrAlreadySectioned is returned when Build meets a tree that already
// carries collapsible markers.
var ErrAlreadySectioned = errors.New("content tree is already sectioned")

// Section is a collapsible heading together with the group of nodes it owns.
type Section struct {
	Index    int
	Level    int
	Title    string
	ID       string
	Heading  *html.Node
	Group    *html.Node
	Parent   int   // -1 for top-level sections
	Children []int // in document order

	expanded bool
}

// Outline is the arena of sections built from one content tree.
type Outline struct {
	sections  []*Section
	byGroup   map[*html.Node]int
	byHeading map[*html.Node]int
	collapsed int
}

// Len returns the number of collapsible sections.
func (o *Outline) Len() int { return len(o.sections) }

// Section returns section i. It panics on an out-of-range index like a
// slice access would.
func (o *Outline) Section(i int) *Section { return o.sections[i] }

// Sections returns the arena in document order.
func (o *Outline) Sections() []*Section { return o.sections }

// Valid reports whether i names a section.
func (o *Outline) Valid(i int) bool { return i >= 0 && i < len(o.sections) }

// ForHeading maps a heading element to its section.
func (o *Outline) ForHeading(h *html.Node) (int, bool) {
	i, ok := o.byHeading[h]
	return i, ok
}

// Containing returns the innermost section whose group holds n, directly
// or transitively. A heading is never inside its own group, so calling
// Containing on a section's heading yields its parent.
func (o *Outline) Containing(n *html.Node) (int, bool) {
	for c := n; c != nil; c = c.Parent {
		if i, ok := o.byGroup[c]; ok {
			return i, true
		}
	}
	return -1, false
}

// Ancestors lists the sections enclosing section i, innermost first.
func (o *Outline) Ancestors(i int) []int {
	var out []int
	for p := o.sections[i].Parent; p >= 0; p = o.sections[p].Parent {
		out = append(out, p)
	}
	return out
}

// Expanded reports the state of section i.
func (o *Outline) Expanded(i int) bool { return o.sections[i].expanded }

// SetExpanded moves section i into the given state, updating the group's
// visibility and the heading's aria-expanded. It returns whether the state
// changed.
func (o *Outline) SetExpanded(i int, expanded bool) bool {
	s := o.sections[i]
	if s.expanded == expanded {
		return false
	}
	s.expanded = expanded
	if expanded {
		o.collapsed--
	} else {
		o.collapsed++
	}
	s.apply()
	return true
}

// Toggle flips section i and returns its new state.
func (o *Outline) Toggle(i int) bool {
	next := !o.sections[i].expanded
	o.SetExpanded(i, next)
	return next
}

// Collapsed returns the number of collapsed sections.
func (o *Outline) Collapsed() int { return o.collapsed }

// AllCollapsed reports whether every section is collapsed. It is vacuously
// true for an outline without sections.
func (o *Outline) AllCollapsed() bool { return o.collapsed == len(o.sections) }

// Recount recomputes the collapsed counter from section state.
func (o *Outline) Recount() {
	o.collapsed = 0
	for _, s := range o.sections {
		if !s.expanded {
			o.collapsed++
		}
	}
}

// Tree returns a nested JSON-friendly view of the outline.
func (o *Outline) Tree(title string) *doctree.DocTree {
	nodes := make([]*doctree.DocNode, len(o.sections))
	for i, s := range o.sections {
		nodes[i] = &doctree.DocNode{
			Index:    i,
			Title:    s.Title,
			ID:       s.ID,
			Level:    s.Level,
			Expanded: s.expanded,
		}
	}
	tree := &doctree.DocTree{Title: title, Children: []*doctree.DocNode{}}
	for i, s := range o.sections {
		if s.Parent < 0 {
			tree.Children = append(tree.Children, nodes[i])
			continue
		}
		parent := nodes[s.Parent]
		parent.Children = append(parent.Children, nodes[i])
	}
	return tree
}

func (s *Section) apply() {
	dom.SetClass(s.Group, HiddenClass, !s.expanded)
	dom.SetAttr(s.Heading, "aria-expanded", strconv.FormatBool(s.expanded))
}

func headingTitle(h *html.Node) string {
	return strings.Join(strings.Fields(dom.Text(h)), " ")
}
