package export

import (
	"encoding/csv"
	"fmt"
	"io"
)

// WriteCSV writes the header lines, a blank line, then the table.
func WriteCSV(w io.Writer, h Header, t Table) error {
	cw := csv.NewWriter(w)

	for _, line := range h.Lines() {
		if err := cw.Write([]string{line}); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}
	if err := cw.Write([]string{""}); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	if err := cw.Write(t.Columns); err != nil {
		return fmt.Errorf("writing columns: %w", err)
	}

	for i, row := range t.Rows {
		if err := cw.Write(textRow(row)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+1, err)
		}
	}
	if t.Footer != nil {
		if err := cw.Write(textRow(t.Footer)); err != nil {
			return fmt.Errorf("writing totals: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

func textRow(row []any) []string {
	out := make([]string, len(row))
	for i, v := range row {
		out[i] = formatCell(v)
	}
	return out
}
