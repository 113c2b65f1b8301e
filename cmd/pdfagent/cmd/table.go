package cmd

import (
	"fmt"
	"strings"
)

const MaxCharPerCol = 32

// renderTable lays rows out in fixed-width columns under headers. Cells
// longer than MaxCharPerCol are truncated.
func renderTable(headers []string, rows [][]string) string {
	rows = append([][]string{headers}, rows...)

	widths := make([]int, len(headers))
	for _, row := range rows {
		for i, cell := range row {
			if n := len(cell); n > widths[i] {
				widths[i] = n
			}
		}
	}
	for i := range widths {
		if widths[i] > MaxCharPerCol {
			widths[i] = MaxCharPerCol
		}
	}

	var stringRows []string
	for _, row := range rows {
		cells := make([]string, len(row))
		for i, cell := range row {
			cells[i] = fmt.Sprintf("%-*.*s", widths[i], widths[i], cell)
		}
		stringRows = append(stringRows, strings.TrimRight(strings.Join(cells, " | "), " "))
	}
	return strings.Join(stringRows, "\n") + "\n"
}
