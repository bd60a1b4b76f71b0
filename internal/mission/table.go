package mission

import (
	"log/slog"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/dgallion1/reportview/internal/dom"
)

// Classes and styles written into the table.
const (
	SelectedClass    = "selected"
	AdvancedClass    = "hide-advanced"
	ActiveClass      = "active"
	CoordinatesClass = "coordinates"

	copyTitle  = "Click to copy coordinates"
	resetTitle = "Click to reset headings"
	flashColor = "#2ecc71"
)

// Column positions within CommandRow.Cells.
const (
	firstNumericCell = 5
	latCell          = 5
	longCell         = 6
)

// Clipboard receives copied coordinates.
type Clipboard interface {
	WriteText(text string) error
}

// Table is one mission table wired to its dataset. Selection and
// advanced-column state belong to the table alone.
type Table struct {
	cfg    TableConfig
	legend Legend
	log    *slog.Logger

	table     *html.Node
	tbody     *html.Node
	headerRow *html.Node
	toggle    *html.Node
	rows      []*html.Node
	coords    []*html.Node

	selected int
}

// Init renders cfg into its table element in doc. It returns nil when the
// table or its body is absent, in which case the document is untouched.
func Init(doc *html.Node, cfg TableConfig, legend Legend, log *slog.Logger) *Table {
	if log == nil {
		log = slog.Default()
	}
	log = log.With("table", cfg.TableID)

	table := dom.ByID(doc, cfg.TableID)
	if table == nil {
		log.Debug("mission table not present")
		return nil
	}
	tbody := dom.Find(table, dom.Tag(atom.Tbody))
	if tbody == nil {
		log.Debug("mission table has no body")
		return nil
	}

	t := &Table{
		cfg:      cfg,
		legend:   legend,
		log:      log,
		table:    table,
		tbody:    tbody,
		toggle:   dom.ByID(doc, cfg.ToggleID),
		selected: -1,
	}
	if thead := dom.Find(table, dom.Tag(atom.Thead)); thead != nil {
		t.headerRow = dom.Find(thead, dom.Tag(atom.Tr))
	}

	t.render()
	t.setHeader(DefaultHeaders)
	if t.headerRow != nil {
		dom.SetStyle(t.headerRow, "cursor", "pointer")
		dom.SetAttr(t.headerRow, "title", resetTitle)
	}
	log.Debug("mission table rendered", "rows", len(t.rows))
	return t
}

func (t *Table) render() {
	for c := t.tbody.FirstChild; c != nil; {
		next := c.NextSibling
		t.tbody.RemoveChild(c)
		c = next
	}
	t.rows = t.rows[:0]
	t.coords = t.coords[:0]

	for idx, row := range t.cfg.Rows {
		tr := dom.NewElement(atom.Tr)
		serial := dom.NewElement(atom.Td)
		dom.SetText(serial, strconv.Itoa(idx+1))
		tr.AppendChild(serial)

		for cidx, cell := range row.Cells() {
			td := dom.NewElement(atom.Td)
			dom.SetText(td, cell)
			if cidx >= firstNumericCell {
				dom.SetStyle(td, "font-family", "monospace")
			}
			if cidx == latCell || cidx == longCell {
				dom.AddClass(td, CoordinatesClass)
				dom.SetStyle(td, "cursor", "pointer")
				dom.SetAttr(td, "title", copyTitle)
				t.coords = append(t.coords, td)
			}
			tr.AppendChild(td)
		}
		t.tbody.AppendChild(tr)
		t.rows = append(t.rows, tr)
	}
}

// ID returns the table element id.
func (t *Table) ID() string { return t.cfg.TableID }

// Title returns the mission title.
func (t *Table) Title() string { return t.cfg.Title }

// Node returns the table element.
func (t *Table) Node() *html.Node { return t.table }

// HeaderRow returns the header row, or nil when the table has none.
func (t *Table) HeaderRow() *html.Node { return t.headerRow }

// Toggle returns the advanced-columns control, or nil when absent.
func (t *Table) Toggle() *html.Node { return t.toggle }

// Rows returns the rendered row elements in dataset order.
func (t *Table) Rows() []*html.Node { return t.rows }

// CoordinateCells returns the copyable latitude and longitude cells.
func (t *Table) CoordinateCells() []*html.Node { return t.coords }

// Len returns the number of rows.
func (t *Table) Len() int { return len(t.rows) }

// Selected returns the selected row index.
func (t *Table) Selected() (int, bool) { return t.selected, t.selected >= 0 }

// Select marks row i and relabels the header for its command type.
func (t *Table) Select(i int) bool {
	if i < 0 || i >= len(t.rows) {
		return false
	}
	t.clearSelected()
	dom.AddClass(t.rows[i], SelectedClass)
	t.selected = i
	cmd := t.cfg.Rows[i].CommandType
	t.setHeader(t.legend.Headers(cmd))
	t.log.Debug("row selected", "row", i+1, "command", cmd)
	return true
}

// Reset clears the selection and restores the default header.
func (t *Table) Reset() {
	t.clearSelected()
	t.setHeader(DefaultHeaders)
}

// ClickOutside resets the table unless target is inside the table or its
// advanced toggle.
func (t *Table) ClickOutside(target *html.Node) bool {
	if dom.Contains(t.table, target) || dom.Contains(t.toggle, target) {
		return false
	}
	t.Reset()
	return true
}

// ToggleAdvanced flips the advanced-column visibility and returns whether
// advanced columns are now hidden.
func (t *Table) ToggleAdvanced() bool {
	hidden := dom.ToggleClass(t.table, AdvancedClass)
	if t.toggle != nil {
		dom.ToggleClass(t.toggle, ActiveClass)
	}
	return hidden
}

// AdvancedHidden reports whether advanced columns are hidden.
func (t *Table) AdvancedHidden() bool { return dom.HasClass(t.table, AdvancedClass) }

// Headers returns the current header labels.
func (t *Table) Headers() []string {
	if t.headerRow == nil {
		return nil
	}
	var out []string
	for _, th := range dom.FindAll(t.headerRow, dom.Tag(atom.Th)) {
		out = append(out, strings.TrimSpace(dom.Text(th)))
	}
	return out
}

// Copy writes the text of a coordinate cell to the clipboard and flashes
// the cell on success.
func (t *Table) Copy(cell *html.Node, cb Clipboard) error {
	if cb == nil {
		return nil
	}
	if err := cb.WriteText(dom.Text(cell)); err != nil {
		return err
	}
	dom.SetStyle(cell, "background-color", flashColor)
	dom.SetStyle(cell, "color", "white")
	return nil
}

func (t *Table) clearSelected() {
	for _, r := range t.rows {
		dom.RemoveClass(r, SelectedClass)
	}
	t.selected = -1
}

// setHeader relabels as many header cells as both sides provide.
func (t *Table) setHeader(labels []string) {
	if t.headerRow == nil {
		return
	}
	ths := dom.FindAll(t.headerRow, dom.Tag(atom.Th))
	for i, label := range labels {
		if i < len(ths) {
			dom.SetText(ths[i], label)
		}
	}
}
