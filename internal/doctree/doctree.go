package doctree

// DocTree is the outline of a sectioned report page.
type DocTree struct {
	Title    string     `json:"title"`
	Children []*DocNode `json:"children"` // Top-level sections
}

// DocNode is one collapsible section in the outline.
type DocNode struct {
	Index    int        `json:"index"`        // Position in the section arena
	Title    string     `json:"title"`        // Heading text
	ID       string     `json:"id,omitempty"` // Anchor id of the heading, if any
	Level    int        `json:"level"`        // Heading rank, 1–3
	Expanded bool       `json:"expanded"`
	Children []*DocNode `json:"children,omitempty"` // Nested sections
}

// Walk visits every node depth-first in document order.
func (t *DocTree) Walk(fn func(n *DocNode, depth int)) {
	var walk func(nodes []*DocNode, depth int)
	walk = func(nodes []*DocNode, depth int) {
		for _, n := range nodes {
			fn(n, depth)
			walk(n.Children, depth+1)
		}
	}
	walk(t.Children, 0)
}
