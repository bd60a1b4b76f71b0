package page

import "golang.org/x/net/html"

// EventType names the input events a page reacts to.
type EventType string

const (
	Click   EventType = "click"
	KeyDown EventType = "keydown"
)

// Event is one user input delivered to a node.
type Event struct {
	Type   EventType
	Target *html.Node
	Key    string // for KeyDown

	defaultPrevented bool
	stopped          bool
}

// PreventDefault suppresses the client's default action.
func (e *Event) PreventDefault() { e.defaultPrevented = true }

// DefaultPrevented reports whether a handler suppressed the default action.
func (e *Event) DefaultPrevented() bool { return e.defaultPrevented }

// StopPropagation ends bubbling after the current node's handlers.
func (e *Event) StopPropagation() { e.stopped = true }

// Handler reacts to an event. current is the node the handler was bound to.
type Handler func(e *Event, current *html.Node)

type binding struct {
	typ EventType
	fn  Handler
}

// Dispatcher is the registry of bound handlers. Events bubble from the
// target to the root, then reach document-level handlers, in binding order
// at every step.
type Dispatcher struct {
	nodes    map[*html.Node][]binding
	document []binding
}

// NewDispatcher returns an empty registry.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{nodes: make(map[*html.Node][]binding)}
}

// On binds fn to events of type typ reaching n.
func (d *Dispatcher) On(n *html.Node, typ EventType, fn Handler) {
	if n == nil {
		return
	}
	d.nodes[n] = append(d.nodes[n], binding{typ: typ, fn: fn})
}

// OnDocument binds fn to every event of type typ after bubbling.
func (d *Dispatcher) OnDocument(typ EventType, fn Handler) {
	d.document = append(d.document, binding{typ: typ, fn: fn})
}

// Dispatch runs one event to completion.
func (d *Dispatcher) Dispatch(e *Event) {
	for n := e.Target; n != nil && !e.stopped; n = n.Parent {
		for _, b := range d.nodes[n] {
			if b.typ == e.Type {
				b.fn(e, n)
			}
		}
	}
	if e.stopped {
		return
	}
	for _, b := range d.document {
		if b.typ == e.Type {
			b.fn(e, nil)
		}
	}
}
