package table

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
)

// Table is the shaped, render-ready form of a row list.
//
// Columns come from the first row only; rows with extra keys silently lose
// them and rows with missing keys render empty cells. This mirrors the
// original front-end behavior and is kept on purpose.
type Table struct {
	Columns []string
	Cells   [][]string
	// Empty marks a table that should render as a single placeholder row:
	// the source list was nil/empty or its first row was an error marker.
	Empty bool
}

// Build shapes a row list into a Table.
func Build(rows []Row) Table {
	if len(rows) == 0 || rows[0].Has("error") {
		return Table{Empty: true}
	}

	cols := rows[0].Keys()
	cells := make([][]string, 0, len(rows))
	for _, r := range rows {
		line := make([]string, len(cols))
		for i, c := range cols {
			line[i] = r.Get(c)
		}
		cells = append(cells, line)
	}
	return Table{Columns: cols, Cells: cells}
}

// Text writes a tab-aligned rendition of the table, for terminal output.
func (t Table) Text(w io.Writer) error {
	if t.Empty {
		_, err := fmt.Fprintln(w, "(no data)")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(t.Columns, "\t"))
	for _, row := range t.Cells {
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	return tw.Flush()
}
