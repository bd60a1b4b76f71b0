package loader

import (
	"encoding/csv"
	"fmt"
	"io"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/dgallion1/reportview/internal/dom"
)

// csvBatchSize is the number of data rows per collapsible section.
const csvBatchSize = 20

// CSVLoader renders tabular reports. The first record is the header; data
// rows are split into batches, each under its own h2 so long tables fold.
type CSVLoader struct{}

func (l *CSVLoader) Load(r io.Reader, filename string) (*html.Node, error) {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}

	title := baseTitle(filename)
	doc, main := newDocument(title)
	if len(records) == 0 {
		return doc, nil
	}
	main.AppendChild(textElement(atom.H1, title))

	headers := records[0]
	dataRows := records[1:]

	for i := 0; i < len(dataRows); i += csvBatchSize {
		end := min(i+csvBatchSize, len(dataRows))

		// 1-indexed, counting the header line.
		h := textElement(atom.H2, fmt.Sprintf("Rows %d-%d", i+2, end+1))
		h.Attr = append(h.Attr, html.Attribute{Key: "id", Val: fmt.Sprintf("rows-%d", i+2)})
		main.AppendChild(h)
		main.AppendChild(csvTable(headers, dataRows[i:end]))
	}
	return doc, nil
}

func csvTable(headers []string, rows [][]string) *html.Node {
	table := dom.NewElement(atom.Table)
	thead := dom.NewElement(atom.Thead)
	tr := dom.NewElement(atom.Tr)
	for _, h := range headers {
		tr.AppendChild(textElement(atom.Th, h))
	}
	thead.AppendChild(tr)
	table.AppendChild(thead)

	tbody := dom.NewElement(atom.Tbody)
	for _, row := range rows {
		tr := dom.NewElement(atom.Tr)
		for _, cell := range row {
			tr.AppendChild(textElement(atom.Td, cell))
		}
		tbody.AppendChild(tr)
	}
	table.AppendChild(tbody)
	return table
}
