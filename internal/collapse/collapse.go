// Package collapse drives the expanded/collapsed state of outline sections,
// one section at a time or all at once through the collapse-all control.
package collapse

import (
	"log/slog"

	"golang.org/x/net/html"

	"github.com/dgallion1/reportview/internal/dom"
	"github.com/dgallion1/reportview/internal/outline"
)

// Labels of the global control. The label names the action the next
// activation performs.
const (
	CollapseAllLabel = "Collapse All"
	ExpandAllLabel   = "Expand All"
)

// Controller owns the toggle behavior of every section of one outline.
type Controller struct {
	outline *outline.Outline
	button  *html.Node
	log     *slog.Logger
}

// New creates a controller. button may be nil when the page has no
// collapse-all control; the per-section behavior still works.
func New(o *outline.Outline, button *html.Node, log *slog.Logger) *Controller {
	if log == nil {
		log = slog.Default()
	}
	c := &Controller{outline: o, button: button, log: log}
	o.Recount()
	c.Sync()
	return c
}

// IsActivationKey reports whether key activates a focused heading.
func IsActivationKey(key string) bool {
	switch key {
	case "Enter", " ", "Spacebar":
		return true
	}
	return false
}

// Toggle flips section i and returns its new state.
func (c *Controller) Toggle(i int) bool {
	expanded := c.outline.Toggle(i)
	c.log.Debug("section toggled", "section", i, "expanded", expanded)
	c.Sync()
	return expanded
}

// KeyDown handles a key press on the heading of section i. It returns
// whether the key was consumed.
func (c *Controller) KeyDown(i int, key string) bool {
	if !IsActivationKey(key) {
		return false
	}
	c.Toggle(i)
	return true
}

// AllCollapsed reports whether every section is collapsed.
func (c *Controller) AllCollapsed() bool { return c.outline.AllCollapsed() }

// ToggleAll expands everything when all sections are collapsed and
// collapses everything otherwise. It returns the state applied.
func (c *Controller) ToggleAll() bool {
	expand := c.outline.AllCollapsed()
	c.SetAll(expand)
	return expand
}

// SetAll moves every section into the given state.
func (c *Controller) SetAll(expanded bool) {
	changed := 0
	for i := range c.outline.Len() {
		if c.outline.SetExpanded(i, expanded) {
			changed++
		}
	}
	c.log.Debug("all sections set", "expanded", expanded, "changed", changed)
	c.Sync()
}

// Label returns the text the global control should show.
func (c *Controller) Label() string {
	if c.outline.AllCollapsed() {
		return ExpandAllLabel
	}
	return CollapseAllLabel
}

// Sync rewrites the global control's label from current state.
func (c *Controller) Sync() {
	if c.button == nil {
		return
	}
	dom.SetText(c.button, c.Label())
}
