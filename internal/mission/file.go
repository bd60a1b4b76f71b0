package mission

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Data is everything the decoder needs: the shared legend and the tables.
type Data struct {
	Legend Legend
	Tables []TableConfig
}

// DefaultData returns the built-in legend and missions.
func DefaultData() Data {
	return Data{Legend: DefaultLegend(), Tables: DefaultTables()}
}

type fileTable struct {
	Title  string     `yaml:"title"`
	ID     string     `yaml:"id"`
	Toggle string     `yaml:"toggle"`
	Rows   [][]string `yaml:"rows"`
}

type fileData struct {
	Legend map[string][]string `yaml:"legend"`
	Tables []fileTable         `yaml:"tables"`
}

// LoadFile reads mission data from a YAML or CSV file. Legend entries in
// the file are layered over the default legend. A file without tables
// keeps the default missions.
func LoadFile(path string) (Data, error) {
	f, err := os.Open(path)
	if err != nil {
		return Data{}, fmt.Errorf("open mission data: %w", err)
	}
	defer f.Close()

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		return ParseYAML(f)
	case ".csv":
		return ParseCSV(f)
	default:
		return Data{}, fmt.Errorf("unsupported mission data format: %s", ext)
	}
}

// ParseYAML decodes a mission data document:
//
//	legend:
//	  LOITER_TIME: [Command, Seconds, ...]
//	tables:
//	  - id: mission-table
//	    title: Base -> Monastery
//	    rows:
//	      - [TAKEOFF, "0", ...]
func ParseYAML(r io.Reader) (Data, error) {
	var fd fileData
	if err := yaml.NewDecoder(r).Decode(&fd); err != nil && err != io.EOF {
		return Data{}, fmt.Errorf("parse mission yaml: %w", err)
	}

	data := DefaultData()
	if len(fd.Legend) > 0 {
		data.Legend = data.Legend.Merge(fd.Legend)
	}
	if err := data.Legend.Validate(); err != nil {
		return Data{}, err
	}

	if len(fd.Tables) > 0 {
		data.Tables = data.Tables[:0]
		for i, ft := range fd.Tables {
			if ft.ID == "" {
				return Data{}, fmt.Errorf("mission table %d has no id", i+1)
			}
			rows, err := ParseRows(ft.Rows)
			if err != nil {
				return Data{}, fmt.Errorf("mission table %s: %w", ft.ID, err)
			}
			toggle := ft.Toggle
			if toggle == "" {
				toggle = ToggleIDFor(ft.ID)
			}
			data.Tables = append(data.Tables, TableConfig{
				Title:    ft.Title,
				TableID:  ft.ID,
				ToggleID: toggle,
				Rows:     rows,
			})
		}
	}
	return data, nil
}

// ParseCSV reads rows of the form table-id,command,p1..p12. An optional
// first row whose first cell is "table" is treated as a header. Tables
// appear in order of first mention.
func ParseCSV(r io.Reader) (Data, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return Data{}, fmt.Errorf("parse mission csv: %w", err)
	}
	if len(records) > 0 && len(records[0]) > 0 && strings.EqualFold(records[0][0], "table") {
		records = records[1:]
	}

	var order []string
	grouped := make(map[string][][]string)
	for i, rec := range records {
		if len(rec) < 2 {
			return Data{}, fmt.Errorf("%w: csv line %d has %d cells", ErrBadRow, i+1, len(rec))
		}
		id := strings.TrimSpace(rec[0])
		if _, ok := grouped[id]; !ok {
			order = append(order, id)
		}
		grouped[id] = append(grouped[id], rec[1:])
	}

	data := DefaultData()
	if len(order) == 0 {
		return data, nil
	}
	data.Tables = data.Tables[:0]
	for _, id := range order {
		rows, err := ParseRows(grouped[id])
		if err != nil {
			return Data{}, fmt.Errorf("mission table %s: %w", id, err)
		}
		data.Tables = append(data.Tables, TableConfig{
			Title:    id,
			TableID:  id,
			ToggleID: ToggleIDFor(id),
			Rows:     rows,
		})
	}
	return data, nil
}
