// Package mission renders flight mission tables and decodes their column
// headers from the command type of the selected row.
package mission

import (
	"errors"
	"fmt"
	"strings"
)

// ParamCount is the number of cells following the command in a row.
const ParamCount = 12

// ErrBadRow is returned for dataset rows of the wrong width.
var ErrBadRow = errors.New("malformed mission row")

// CommandRow is one mission item.
type CommandRow struct {
	CommandType string
	Fields      []string // the ParamCount cells after the command
	RowIndex    int      // 1-based serial
}

// Cells returns the command followed by its fields, the order in which the
// row is rendered after the serial column.
func (r CommandRow) Cells() []string {
	out := make([]string, 0, 1+len(r.Fields))
	out = append(out, r.CommandType)
	return append(out, r.Fields...)
}

// Dataset is the ordered content of one mission table.
type Dataset []CommandRow

// ParseRows builds a dataset from raw rows of command plus twelve fields.
func ParseRows(raw [][]string) (Dataset, error) {
	ds := make(Dataset, 0, len(raw))
	for i, cells := range raw {
		if len(cells) != 1+ParamCount {
			return nil, fmt.Errorf("%w: row %d has %d cells, want %d", ErrBadRow, i+1, len(cells), 1+ParamCount)
		}
		cmd := strings.TrimSpace(cells[0])
		if cmd == "" {
			return nil, fmt.Errorf("%w: row %d has no command", ErrBadRow, i+1)
		}
		fields := make([]string, ParamCount)
		copy(fields, cells[1:])
		ds = append(ds, CommandRow{CommandType: cmd, Fields: fields, RowIndex: i + 1})
	}
	return ds, nil
}

// mustRows is for the built-in datasets only.
func mustRows(raw [][]string) Dataset {
	ds, err := ParseRows(raw)
	if err != nil {
		panic(err)
	}
	return ds
}

// TableConfig binds a dataset to the ids of its table and advanced toggle.
type TableConfig struct {
	Title    string
	TableID  string
	ToggleID string
	Rows     Dataset
}

// ToggleIDFor derives the advanced-toggle id from a table id following the
// page convention: mission-table -> mission-advanced-toggle.
func ToggleIDFor(tableID string) string {
	return strings.Replace(tableID, "table", "advanced-toggle", 1)
}

// DefaultTables returns the two missions of the report: the outbound leg
// Base -> Monastery and the return leg Monastery -> Base.
func DefaultTables() []TableConfig {
	return []TableConfig{
		{
			Title:    "Base -> Monastery",
			TableID:  "mission-table",
			ToggleID: "mission-advanced-toggle",
			Rows: mustRows([][]string{
				{"TAKEOFF", "0", "0", "0", "0", "0", "0", "10", "Relative", "0", "0", "0", "0"},
				{"WAYPOINT", "0", "0", "0", "0", "27.4835753", "89.6237273", "40", "Relative", "3682.5", "88.4", "40.0", "124"},
				{"WAYPOINT", "0", "0", "0", "0", "27.4890358", "89.57476", "976", "Relative", "19.2", "10.9", "4957.5", "277"},
				{"WAYPOINT", "5", "0", "0", "0", "27.4890358", "89.57476", "941", "Relative", "-∞", "-90.0", "35.0", "180"},
				{"DO_SET_SERVO", "11", "2000", "0", "0", "0", "0", "0", "Absolute", "0", "0", "0", "0"},
				{"DELAY", "5", "0", "0", "0", "0", "0", "0", "Absolute", "0", "0", "0", "0"},
				{"WAYPOINT", "40", "0", "0", "0", "27.4890358", "89.57476", "976", "Relative", "∞", "90.0", "35.0", "180"},
				{"CONDITION_YAW", "180", "10", "1", "1", "0", "0", "0", "Absolute", "0", "0", "0", "0"},
				{"DELAY", "30", "0", "0", "0", "0", "0", "0", "Absolute", "0", "0", "0", "0"},
				{"WAYPOINT", "0", "0", "0", "0", "27.4835963", "89.6237514", "489", "Relative", "-10.0", "-5.7", "4894.7", "97"},
				{"CONDITION_YAW", "180", "10", "1", "1", "0", "0", "0", "Absolute", "0", "0", "0", "0"},
				{"DELAY", "30", "0", "0", "0", "0", "0", "0", "Absolute", "0", "0", "0", "0"},
				{"WAYPOINT", "0", "0", "0", "0", "27.4860763", "89.6013565", "265", "Relative", "-10.1", "-5.7", "2237.5", "277"},
				{"CONDITION_YAW", "180", "10", "1", "1", "0", "0", "0", "Absolute", "0", "0", "0", "0"},
				{"DELAY", "30", "0", "0", "0", "0", "0", "0", "Absolute", "0", "0", "0", "0"},
				{"WAYPOINT", "0", "0", "0", "0", "27.4835963", "89.6237514", "41", "Relative", "-10.1", "-5.7", "2237.5", "97"},
				{"LAND", "0", "0", "0", "1", "27.4835753", "89.6237273", "0", "Relative", "-1230.4", "-85.4", "41.1", "226"},
			}),
		},
		{
			Title:    "Monastery -> Base",
			TableID:  "mission-table-2",
			ToggleID: "mission-advanced-toggle-2",
			Rows: mustRows([][]string{
				{"TAKEOFF", "0", "0", "0", "0", "0", "0", "40", "Relative", "0", "0", "0", "0"},
				{"WAYPOINT", "0", "0", "0", "0", "27.4835753", "89.6237273", "-447", "Relative", "-9.2", "-5.2", "4888.5", "97"},
				{"CONDITION_YAW", "180", "10", "1", "0", "0", "0", "0", "Absolute", "0", "0", "0", "0"},
				{"DELAY", "30", "0", "0", "0", "0", "0", "0", "Absolute", "0", "0", "0", "0"},
				{"WAYPOINT", "0", "0", "0", "0", "27.4859639", "89.6017885", "-631", "Relative", "-8.4", "-4.8", "2188.1", "277"},
				{"CONDITION_YAW", "180", "10", "1", "0", "0", "0", "0", "Absolute", "0", "0", "0", "0"},
				{"DELAY", "30", "0", "0", "0", "0", "0", "0", "Absolute", "0", "0", "0", "0"},
				{"WAYPOINT", "0", "0", "0", "0", "27.4835753", "89.6237273", "-895", "Relative", "-12.1", "-6.9", "2196.3", "97"},
				{"LAND", "0", "0", "0", "1", "27.4835753", "89.6237273", "-956", "Relative", "-∞", "-90.0", "61.0", "180"},
			}),
		},
	}
}
