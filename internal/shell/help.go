package shell

import (
	"fmt"
	"io"
)

const (
	// DefaultHelpColumns is the column count for the help listing.
	DefaultHelpColumns = 3

	// helpFieldWidth is the left-justified field each name prints into.
	helpFieldWidth = 30
)

// RenderColumns prints the visible registry entries in a balanced
// multi-column layout, row-major across columns.
//
// Every column uses the same row budget, V/columns + V%columns, sized so
// the last column absorbs the remainder; earlier columns may end with
// blank cells. Column cursors skip c*rowsPerColumn entries counting
// hidden entries in the skip distance even though hidden entries are
// excluded from V. That asymmetry is inherited behavior and shifts the
// observable column boundaries; keep it.
func RenderColumns(w io.Writer, reg *Registry, columns int) {
	if columns <= 0 {
		columns = DefaultHelpColumns
	}

	visible := reg.VisibleCount()
	rowsPerColumn := visible/columns + visible%columns

	cursors := make([]int, columns)
	for c := range cursors {
		cursors[c] = c * rowsPerColumn
	}

	for row := 0; row < rowsPerColumn; row++ {
		fmt.Fprint(w, "\r\n")

		for c := 0; c < columns; c++ {
			if cursors[c] >= reg.Len() {
				continue
			}
			entry := reg.At(cursors[c])
			if !entry.Hidden {
				fmt.Fprintf(w, "%-*s", helpFieldWidth, entry.Name)
			}
			cursors[c]++
		}
	}
}
