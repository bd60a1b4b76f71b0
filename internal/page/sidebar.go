package page

import (
	"strconv"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/dgallion1/reportview/internal/dom"
)

// SidebarCollapsedClass is set on <body> while the outline sidebar is
// folded away.
const SidebarCollapsedClass = "toc-collapsed"

// Sidebar is the open/close state of the outline widget.
type Sidebar struct {
	body   *html.Node
	handle *html.Node
}

func newSidebar(doc, toc *html.Node) *Sidebar {
	s := &Sidebar{body: dom.Find(doc, dom.Tag(atom.Body))}
	if toc != nil {
		s.handle = dom.Find(toc, func(n *html.Node) bool { return dom.HasClass(n, "toc-handle") })
	}
	s.updateAria()
	return s
}

// Expanded reports whether the sidebar is open.
func (s *Sidebar) Expanded() bool {
	return s.body != nil && !dom.HasClass(s.body, SidebarCollapsedClass)
}

// Collapse folds the sidebar away.
func (s *Sidebar) Collapse() {
	if s.body == nil {
		return
	}
	dom.AddClass(s.body, SidebarCollapsedClass)
	s.updateAria()
}

// Toggle flips the sidebar.
func (s *Sidebar) Toggle() {
	if s.body == nil {
		return
	}
	dom.ToggleClass(s.body, SidebarCollapsedClass)
	s.updateAria()
}

// Handle returns the sidebar handle element, if present.
func (s *Sidebar) Handle() *html.Node { return s.handle }

func (s *Sidebar) updateAria() {
	if s.handle == nil {
		return
	}
	dom.SetAttr(s.handle, "aria-expanded", strconv.FormatBool(s.Expanded()))
}
