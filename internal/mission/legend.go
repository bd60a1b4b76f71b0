package mission

import "fmt"

// FallbackCommand names the legend used for command types the legend does
// not know.
const FallbackCommand = "WAYPOINT"

// SerialLabel heads the serial column regardless of the selected command.
const SerialLabel = "Sr. No"

// LegendWidth is the number of labels per legend entry: the command column
// followed by the twelve parameter columns.
const LegendWidth = 1 + ParamCount

// DefaultHeaders are the labels shown while no row is selected.
var DefaultHeaders = []string{
	SerialLabel, "Command", "P1", "P2", "P3", "P4",
	"Lat", "Long", "Alt", "Frame", "Grad %", "Angle", "Dist", "AZ",
}

// Legend maps a command type to the meaning of each column for rows of
// that type.
type Legend map[string][]string

// DefaultLegend returns the column meanings of the supported MAVLink
// mission commands.
func DefaultLegend() Legend {
	return Legend{
		"TAKEOFF":       {"Command", "—", "—", "—", "—", "—", "—", "Alt", "Frame", "Grad %", "Angle", "Dist", "AZ"},
		"LAND":          {"Command", "—", "—", "—", "1=Prec Land", "Lat", "Long", "Alt", "Frame", "Grad %", "Angle", "Dist", "AZ"},
		"WAYPOINT":      {"Command", "Delay", "—", "—", "—", "Lat", "Long", "Alt", "Frame", "Grad %", "Angle", "Dist", "AZ"},
		"DO_SET_SERVO":  {"Command", "Ser No", "PWM", "—", "—", "—", "—", "—", "Frame", "Grad %", "Angle", "Dist", "AZ"},
		"DELAY":         {"Command", "Seconds (or -1)", "Hour UTC (or -1)", "Minute UTC (or -1)", "Second UTC (or -1)", "—", "—", "—", "Frame", "Grad %", "Angle", "Dist", "AZ"},
		"CONDITION_YAW": {"Command", "Deg", "Speed (deg/s)", "Dir (1=CW)", "0=Abs, 1=Rel", "—", "—", "—", "Frame", "Grad %", "Angle", "Dist", "AZ"},
	}
}

// Headers returns the full header row (serial column included) for a row
// of the given command type.
func (l Legend) Headers(command string) []string {
	labels, ok := l[command]
	if !ok {
		labels = l[FallbackCommand]
	}
	out := make([]string, 0, 1+len(labels))
	out = append(out, SerialLabel)
	return append(out, labels...)
}

// Merge returns a copy of l with the entries of other layered on top.
func (l Legend) Merge(other Legend) Legend {
	out := make(Legend, len(l)+len(other))
	for k, v := range l {
		out[k] = v
	}
	for k, v := range other {
		out[k] = v
	}
	return out
}

// Validate checks entry widths and the presence of the fallback entry.
func (l Legend) Validate() error {
	if _, ok := l[FallbackCommand]; !ok {
		return fmt.Errorf("legend has no %s entry", FallbackCommand)
	}
	for cmd, labels := range l {
		if len(labels) != LegendWidth {
			return fmt.Errorf("legend entry %s has %d labels, want %d", cmd, len(labels), LegendWidth)
		}
	}
	return nil
}
