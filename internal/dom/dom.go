// Package dom holds the small set of node operations the page components
// need on top of golang.org/x/net/html: class lists, attributes, inline
// styles, containment and relocation.
package dom

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// IsElement reports whether n is an element with the given tag.
func IsElement(n *html.Node, a atom.Atom) bool {
	return n != nil && n.Type == html.ElementNode && n.DataAtom == a
}

// HeadingLevel returns 1, 2 or 3 for h1–h3 elements and 0 for anything
// else. Deeper headings never take part in sectioning.
func HeadingLevel(n *html.Node) int {
	if n == nil || n.Type != html.ElementNode {
		return 0
	}
	switch n.DataAtom {
	case atom.H1:
		return 1
	case atom.H2:
		return 2
	case atom.H3:
		return 3
	}
	return 0
}

// NewElement creates a detached element.
func NewElement(a atom.Atom) *html.Node {
	return &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String()}
}

// Attr returns the value of attribute key.
func Attr(n *html.Node, key string) (string, bool) {
	if n == nil {
		return "", false
	}
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

// HasAttr reports whether n carries attribute key.
func HasAttr(n *html.Node, key string) bool {
	_, ok := Attr(n, key)
	return ok
}

// SetAttr sets attribute key, replacing any existing value.
func SetAttr(n *html.Node, key, val string) {
	for i, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

// RemoveAttr drops attribute key if present.
func RemoveAttr(n *html.Node, key string) {
	out := n.Attr[:0]
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			continue
		}
		out = append(out, a)
	}
	n.Attr = out
}

// ID returns the element id.
func ID(n *html.Node) string {
	id, _ := Attr(n, "id")
	return id
}

func classes(n *html.Node) []string {
	v, _ := Attr(n, "class")
	return strings.Fields(v)
}

// HasClass reports whether class c is in n's class list.
func HasClass(n *html.Node, c string) bool {
	for _, have := range classes(n) {
		if have == c {
			return true
		}
	}
	return false
}

// SetClass adds c when on is true and removes it otherwise.
func SetClass(n *html.Node, c string, on bool) {
	list := classes(n)
	out := list[:0]
	found := false
	for _, have := range list {
		if have == c {
			if !on || found {
				continue
			}
			found = true
		}
		out = append(out, have)
	}
	if on && !found {
		out = append(out, c)
	}
	if len(out) == 0 {
		RemoveAttr(n, "class")
		return
	}
	SetAttr(n, "class", strings.Join(out, " "))
}

// AddClass adds c to the class list.
func AddClass(n *html.Node, c string) { SetClass(n, c, true) }

// RemoveClass removes c from the class list.
func RemoveClass(n *html.Node, c string) { SetClass(n, c, false) }

// ToggleClass flips c and returns whether it is now present.
func ToggleClass(n *html.Node, c string) bool {
	on := !HasClass(n, c)
	SetClass(n, c, on)
	return on
}

// Style returns the inline style value of prop.
func Style(n *html.Node, prop string) string {
	for _, decl := range styleDecls(n) {
		if decl[0] == prop {
			return decl[1]
		}
	}
	return ""
}

// SetStyle sets an inline style property, keeping declaration order.
func SetStyle(n *html.Node, prop, val string) {
	decls := styleDecls(n)
	replaced := false
	for i := range decls {
		if decls[i][0] == prop {
			decls[i][1] = val
			replaced = true
		}
	}
	if !replaced {
		decls = append(decls, [2]string{prop, val})
	}
	var b strings.Builder
	for i, d := range decls {
		if d[1] == "" {
			continue
		}
		if i > 0 && b.Len() > 0 {
			b.WriteString(" ")
		}
		b.WriteString(d[0] + ": " + d[1] + ";")
	}
	if b.Len() == 0 {
		RemoveAttr(n, "style")
		return
	}
	SetAttr(n, "style", b.String())
}

func styleDecls(n *html.Node) [][2]string {
	v, _ := Attr(n, "style")
	var out [][2]string
	for _, part := range strings.Split(v, ";") {
		prop, val, ok := strings.Cut(part, ":")
		if !ok {
			continue
		}
		prop = strings.ToLower(strings.TrimSpace(prop))
		if prop == "" {
			continue
		}
		out = append(out, [2]string{prop, strings.TrimSpace(val)})
	}
	return out
}

// Contains reports whether other is n or one of its descendants.
func Contains(n, other *html.Node) bool {
	if n == nil {
		return false
	}
	for c := other; c != nil; c = c.Parent {
		if c == n {
			return true
		}
	}
	return false
}

// Closest returns n or its nearest ancestor satisfying match.
func Closest(n *html.Node, match func(*html.Node) bool) *html.Node {
	for c := n; c != nil; c = c.Parent {
		if match(c) {
			return c
		}
	}
	return nil
}

// Find returns the first descendant of root (excluding root) in document
// order satisfying match.
func Find(root *html.Node, match func(*html.Node) bool) *html.Node {
	if root == nil {
		return nil
	}
	for c := root.FirstChild; c != nil; c = c.NextSibling {
		if match(c) {
			return c
		}
		if f := Find(c, match); f != nil {
			return f
		}
	}
	return nil
}

// FindAll returns every descendant of root in document order satisfying
// match.
func FindAll(root *html.Node, match func(*html.Node) bool) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if match(c) {
				out = append(out, c)
			}
			walk(c)
		}
	}
	if root != nil {
		walk(root)
	}
	return out
}

// ByID finds the element with the given id.
func ByID(root *html.Node, id string) *html.Node {
	if id == "" {
		return nil
	}
	return Find(root, func(n *html.Node) bool {
		return n.Type == html.ElementNode && ID(n) == id
	})
}

// Tag returns a matcher for elements with the given tag.
func Tag(a atom.Atom) func(*html.Node) bool {
	return func(n *html.Node) bool { return IsElement(n, a) }
}

// Children returns the element children of n.
func Children(n *html.Node, a atom.Atom) []*html.Node {
	var out []*html.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if IsElement(c, a) {
			out = append(out, c)
		}
	}
	return out
}

// NextElementSibling skips text and comment nodes.
func NextElementSibling(n *html.Node) *html.Node {
	for c := n.NextSibling; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			return c
		}
	}
	return nil
}

// FirstElementChild returns the first element child of n.
func FirstElementChild(n *html.Node) *html.Node {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			return c
		}
	}
	return nil
}

// Text returns the concatenated text content of n.
func Text(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}

// SetText replaces the children of n with a single text node.
func SetText(n *html.Node, s string) {
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		n.RemoveChild(c)
		c = next
	}
	n.AppendChild(&html.Node{Type: html.TextNode, Data: s})
}

// Detach removes n from its parent, if any.
func Detach(n *html.Node) {
	if n.Parent != nil {
		n.Parent.RemoveChild(n)
	}
}

// InsertAfter places n immediately after ref.
func InsertAfter(ref, n *html.Node) {
	ref.Parent.InsertBefore(n, ref.NextSibling)
}

// Prepend makes n the first child of parent.
func Prepend(parent, n *html.Node) {
	parent.InsertBefore(n, parent.FirstChild)
}

// Move relocates n to the end of parent. The node keeps its subtree.
func Move(parent, n *html.Node) {
	Detach(n)
	parent.AppendChild(n)
}
