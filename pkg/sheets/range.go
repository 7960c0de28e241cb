package sheets

import (
	"fmt"
	"strings"
)

// ColumnName returns the A1 letters of the 1-based column n: 1 is A,
// 26 is Z, 27 is AA.
func ColumnName(n int) string {
	var b []byte
	for n > 0 {
		n--
		b = append([]byte{byte('A' + n%26)}, b...)
		n /= 26
	}
	return string(b)
}

// quoteTitle renders a sheet title for use in an A1 range.
func quoteTitle(title string) string {
	return "'" + strings.ReplaceAll(title, "'", "''") + "'"
}

// RowRange returns the A1 range covering columns 1..cols of row.
func RowRange(title string, row, cols int) string {
	return fmt.Sprintf("%s!A%d:%s%d", quoteTitle(title), row, ColumnName(cols), row)
}

// CellRange returns the A1 reference of a single cell.
func CellRange(title string, row, col int) string {
	return fmt.Sprintf("%s!%s%d", quoteTitle(title), ColumnName(col), row)
}
