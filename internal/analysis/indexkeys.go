package analysis

import "github.com/dcol97/souffle/internal/ram"

// IndexScanKeys returns a bitmask over pattern where bit i is set iff
// pattern[i] is non-nil (concrete), i.e. which columns of an
// IndexScan/IndexChoice pattern are bound. Columns at index 64 and
// above are not represented. No transformer in this repository calls
// it.
func IndexScanKeys(pattern []ram.Value) uint64 {
	var mask uint64
	for i, v := range pattern {
		if i >= 64 {
			break
		}
		if v != nil {
			mask |= 1 << uint(i)
		}
	}
	return mask
}

// BoundColumns returns the count of concrete (non-nil) slots in
// pattern — IndexScanKeys as a cardinality rather than a mask (and
// without the 64-column cap). No transformer in this repository calls
// it.
func BoundColumns(pattern []ram.Value) int {
	n := 0
	for _, v := range pattern {
		if v != nil {
			n++
		}
	}
	return n
}
