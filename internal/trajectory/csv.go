package trajectory

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

// Header is the first row of every trajectory CSV.
var Header = []string{"Time", "Angle"}

// FormatValue renders v as the shortest decimal that parses back to the same float64.
func FormatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// WriteCSV writes the header followed by one Time,Angle row per sample.
func WriteCSV(w io.Writer, samples []Sample) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i, s := range samples {
		if err := cw.Write([]string{FormatValue(s.Time), FormatValue(s.Angle)}); err != nil {
			return fmt.Errorf("write row %d: %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}
