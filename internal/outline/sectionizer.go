package outline

import (
	"log/slog"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/dgallion1/reportview/internal/dom"
)

// Options identifies the structural regions of a report page.
type Options struct {
	// OutlineID is the id of the outline/TOC widget. Headings inside it are
	// never sectioned.
	OutlineID string
}

// DefaultOptions matches the report page layout.
func DefaultOptions() Options {
	return Options{OutlineID: "toc"}
}

// Build sectionizes the <main> region of doc in place and returns the
// resulting outline. A document without <main> yields an empty outline.
func Build(doc *html.Node, opts Options, log *slog.Logger) (*Outline, error) {
	if log == nil {
		log = slog.Default()
	}
	if sectioned(doc) {
		return nil, ErrAlreadySectioned
	}

	o := &Outline{
		byGroup:   make(map[*html.Node]int),
		byHeading: make(map[*html.Node]int),
	}

	main := dom.Find(doc, dom.Tag(atom.Main))
	if main == nil {
		log.Debug("no main region, skipping sectioning")
		return o, nil
	}

	// Capture the headings before any relocation; the scan order is the
	// original document order.
	headings := dom.FindAll(main, func(n *html.Node) bool {
		return dom.HeadingLevel(n) > 0
	})

	skipped := 0
	for _, h := range headings {
		if excluded(h, opts) {
			continue
		}
		level := dom.HeadingLevel(h)
		toMove := collectSiblings(h, level)
		toMove = append(toMove, absorbSections(h, level)...)
		if len(toMove) == 0 {
			skipped++
			continue
		}
		o.add(h, level, toMove)
	}

	for i, s := range o.sections {
		if p, ok := o.Containing(s.Heading); ok {
			s.Parent = p
			o.sections[p].Children = append(o.sections[p].Children, i)
		}
	}

	log.Debug("sectioned content", "sections", len(o.sections), "without_content", skipped)
	return o, nil
}

// collectSiblings returns the forward siblings of h up to, not including,
// the next heading of rank <= level.
func collectSiblings(h *html.Node, level int) []*html.Node {
	var out []*html.Node
	for sib := h.NextSibling; sib != nil; sib = sib.NextSibling {
		if l := dom.HeadingLevel(sib); l > 0 && l <= level {
			break
		}
		out = append(out, sib)
	}
	return out
}

// absorbSections applies the cross-block rule: when h leads its enclosing
// <section>, the sibling sections that follow and open with a strictly
// deeper heading belong to h as well.
func absorbSections(h *html.Node, level int) []*html.Node {
	parent := dom.Closest(h, dom.Tag(atom.Section))
	if parent == nil {
		return nil
	}
	first := dom.Find(parent, func(n *html.Node) bool { return dom.HeadingLevel(n) > 0 })
	if first != h {
		return nil
	}
	var out []*html.Node
	for sec := dom.NextElementSibling(parent); dom.IsElement(sec, atom.Section); sec = dom.NextElementSibling(sec) {
		if dom.HeadingLevel(dom.FirstElementChild(sec)) <= level {
			break
		}
		out = append(out, sec)
	}
	return out
}

func (o *Outline) add(h *html.Node, level int, toMove []*html.Node) {
	title := headingTitle(h)

	group := dom.NewElement(atom.Div)
	dom.SetAttr(group, GroupAttr, "")
	dom.InsertAfter(h, group)
	for _, n := range toMove {
		dom.Move(group, n)
	}

	dom.AddClass(h, HeadingClass)
	dom.SetAttr(h, "tabindex", "0")
	dom.SetAttr(h, "role", "button")
	icon := dom.NewElement(atom.Span)
	dom.SetAttr(icon, "class", ToggleClass)
	dom.SetAttr(icon, "aria-hidden", "true")
	dom.SetText(icon, ToggleGlyph)
	dom.Prepend(h, icon)

	s := &Section{
		Index:    len(o.sections),
		Level:    level,
		Title:    title,
		ID:       dom.ID(h),
		Heading:  h,
		Group:    group,
		Parent:   -1,
		expanded: true,
	}
	s.apply()
	o.byGroup[group] = s.Index
	o.byHeading[h] = s.Index
	o.sections = append(o.sections, s)
}

func excluded(h *html.Node, opts Options) bool {
	if dom.Closest(h, dom.Tag(atom.Header)) != nil {
		return true
	}
	if opts.OutlineID == "" {
		return false
	}
	return dom.Closest(h, func(n *html.Node) bool {
		return n.Type == html.ElementNode && dom.ID(n) == opts.OutlineID
	}) != nil
}

func sectioned(doc *html.Node) bool {
	return dom.Find(doc, func(n *html.Node) bool {
		return n.Type == html.ElementNode && (dom.HasAttr(n, GroupAttr) || dom.HasClass(n, HeadingClass))
	}) != nil
}
