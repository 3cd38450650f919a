// Package bucket provides a row-partitioned cumulative-sum index over a
// caller-owned flat numeric slice.
//
// A Bucket views the slice as a logical ROWS x COLS grid and maintains two
// summary vectors: the per-row sums and the (ROWS+1)-length prefix sum of
// those row sums. When the caller mutates a few elements of the slice, only
// the touched rows need to be re-summed (UpdateRow) and only the affected
// range of the cumulative vector reconciled (Refresh) before the next
// upper-bound query. This is the standard building block for
// inverse-transform weighted sampling where weights change between draws.
//
// Given the flat slice
//
//	{1, 2, 3, 4, 5, 6, 7, 8, 9}
//
// with ROWS = 3 and COLS = 3, the summary vectors are
//
//	RowSums = {6, 15, 24}
//	CumSums = {0, 6, 21, 45}
//
// The slice is borrowed, never copied: the caller owns it, may mutate it
// freely between operations, and must keep it alive for the Bucket's
// lifetime. Values are assumed non-negative; this is not enforced, but the
// monotonicity of CumSums (and therefore the meaning of FindUpperBound)
// depends on it.
//
// A Bucket is not safe for concurrent use.
package bucket

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"golang.org/x/exp/constraints"
)

// Number constrains the element types a Bucket can index: any integer or
// floating point type. byte and rune satisfy it through their underlying
// integer types; slices holding actual character data are outside the
// intended domain.
type Number interface {
	constraints.Integer | constraints.Float
}

// NotFound is the sentinel returned by FindUpperBound when no element of the
// located row reaches the target. It is an expected outcome (for example
// when floating-point round-off places the target just past the total), not
// an error.
const NotFound = -1

var (
	// ErrBadShape is returned by New when rows or cols is less than 1.
	ErrBadShape = errors.New("bucket: rows and cols must be at least 1")

	// ErrViewTooLarge is returned by New when the view does not fit the
	// logical rows x cols grid.
	ErrViewTooLarge = errors.New("bucket: view longer than rows*cols")

	// ErrRowOutOfRange is the panic value raised by UpdateRow for an
	// out-of-bounds row index when the bucketdebug build tag is set.
	ErrRowOutOfRange = errors.New("bucket: row index out of range")

	// ErrValueOutOfRange is the panic value raised by FindUpperBound for a
	// target outside (0, Total()] when the bucketdebug build tag is set.
	ErrValueOutOfRange = errors.New("bucket: target outside cumulative range")
)

// Bucket indexes a borrowed []T as a ROWS x COLS grid with per-row and
// cumulative row sums. The zero value is not usable; construct with New.
type Bucket[T Number] struct {
	rows int
	cols int
	size int

	// view is the caller-owned flat slice. Never written.
	view []T

	rowSums []T // length rows
	cumSums []T // length rows+1, cumSums[0] == 0

	// Closed dirty row range since the last Rebuild/Refresh.
	// minRowAffected > maxRowAffected encodes "nothing dirty"; the
	// canonical empty encoding is (rows, 0).
	minRowAffected int
	maxRowAffected int
}

// New builds a Bucket over view with the given logical shape and computes
// the initial summaries. The view may be shorter than rows*cols; missing
// trailing cells count as zero. It is kept by reference and must outlive
// the Bucket.
func New[T Number](rows, cols int, view []T) (*Bucket[T], error) {
	if rows < 1 || cols < 1 {
		return nil, ErrBadShape
	}
	if len(view) > rows*cols {
		return nil, fmt.Errorf("%w: len %d > %d x %d", ErrViewTooLarge, len(view), rows, cols)
	}

	b := &Bucket[T]{
		rows:    rows,
		cols:    cols,
		size:    rows * cols,
		view:    view,
		rowSums: make([]T, rows),
		cumSums: make([]T, rows+1),
	}
	b.UpdateAllRows()
	b.Rebuild()
	return b, nil
}

// Rows returns the number of logical rows.
func (b *Bucket[T]) Rows() int { return b.rows }

// Cols returns the number of logical columns per row.
func (b *Bucket[T]) Cols() int { return b.cols }

// Size returns the total number of cells in the logical grid, rows*cols.
// Not to be confused with the length of the underlying slice, which may be
// shorter.
func (b *Bucket[T]) Size() int { return b.size }

// RowSums returns the per-row sum vector. The slice is shared with the
// Bucket and must not be mutated by the caller.
func (b *Bucket[T]) RowSums() []T { return b.rowSums }

// CumSums returns the cumulative row-sum vector, length Rows()+1 with a
// leading zero. The slice is shared with the Bucket and must not be mutated
// by the caller.
func (b *Bucket[T]) CumSums() []T { return b.cumSums }

// Total returns the cumulative sum over the whole view, CumSums()[Rows()].
func (b *Bucket[T]) Total() T { return b.cumSums[b.rows] }

// DirtyRange returns the closed range of row indices touched by UpdateRow
// since the last Rebuild or Refresh. min > max means no rows are dirty; the
// empty encoding is (Rows(), 0).
func (b *Bucket[T]) DirtyRange() (min, max int) {
	return b.minRowAffected, b.maxRowAffected
}

// UpdateRow re-sums row from the current contents of the view and widens
// the dirty range to include it. It does not touch the cumulative vector;
// call Refresh or Rebuild afterwards.
//
// row must be in [0, Rows()). With the bucketdebug build tag the violation
// panics with ErrRowOutOfRange; otherwise behavior is undefined (in
// practice a runtime bounds panic).
func (b *Bucket[T]) UpdateRow(row int) {
	if debugChecks && (row < 0 || row >= b.rows) {
		panic(ErrRowOutOfRange)
	}

	start := row * b.cols
	end := start + b.cols
	if start > len(b.view) {
		start = len(b.view)
	}
	if end > len(b.view) {
		end = len(b.view)
	}

	var sum T
	for _, v := range b.view[start:end] {
		sum += v
	}
	b.rowSums[row] = sum

	if row < b.minRowAffected {
		b.minRowAffected = row
	}
	if row > b.maxRowAffected {
		b.maxRowAffected = row
	}
}

// UpdateAllRows re-sums every row. Intended to be followed by Rebuild, not
// Refresh: afterwards the dirty range spans the whole table and the
// incremental path has no advantage.
func (b *Bucket[T]) UpdateAllRows() {
	for row := 0; row < b.rows; row++ {
		b.UpdateRow(row)
	}
}

// Rebuild recomputes the full cumulative vector from the row sums and
// resets the dirty range. Cost is linear in Rows(). Always exact with
// respect to the current row sums.
func (b *Bucket[T]) Rebuild() {
	b.cumSums[0] = 0
	for row := 0; row < b.rows; row++ {
		b.cumSums[row+1] = b.cumSums[row] + b.rowSums[row]
	}
	b.resetDirty()
}

// Refresh reconciles the cumulative vector with the row sums touching only
// the dirty range and the tail beyond it: the dirty segment is recomputed
// exactly, then the net change is propagated to the remaining entries as a
// single shift. Cost is linear in (max-min) + (Rows()-max), cheaper than
// Rebuild when few rows near each other changed. With an empty dirty range
// it is a no-op.
//
// Correctness contract: every row whose sum changed since the last
// Rebuild/Refresh must have had UpdateRow called on it first. Stale dirty
// tracking silently yields an inconsistent cumulative vector; the structure
// cannot detect it.
func (b *Bucket[T]) Refresh() {
	if b.minRowAffected > b.maxRowAffected {
		return
	}

	diff := b.cumSums[b.maxRowAffected+1]
	row := b.minRowAffected
	for ; row <= b.maxRowAffected; row++ {
		b.cumSums[row+1] = b.cumSums[row] + b.rowSums[row]
	}
	diff -= b.cumSums[b.maxRowAffected+1]

	for ; row < b.rows; row++ {
		b.cumSums[row+1] -= diff
	}
	b.resetDirty()
}

func (b *Bucket[T]) resetDirty() {
	b.minRowAffected = b.rows
	b.maxRowAffected = 0
}

// FindUpperBound returns the first flat index i (in row-major order over the
// logical grid) at which the running sum of the view reaches v, or NotFound
// if the located row is exhausted without reaching it. It binary-searches
// the cumulative vector for the containing row, then scans that row's
// elements.
//
// The intended domain is 0 < v <= Total(): samplers over float weights draw
// v uniformly from the open interval, samplers over integer weights draw
// from [1, Total()], and the closed upper bound resolves to the last
// contributing element. With the bucketdebug build tag an out-of-domain v
// panics with ErrValueOutOfRange; otherwise the result is unspecified
// (typically NotFound above the total, index 0 below zero).
func (b *Bucket[T]) FindUpperBound(v T) int {
	if debugChecks && (v <= 0 || v > b.cumSums[b.rows]) {
		panic(ErrValueOutOfRange)
	}

	// First cumulative entry strictly greater than v; the row before it
	// contains the answer.
	rowIndex := sort.Search(len(b.cumSums), func(i int) bool {
		return b.cumSums[i] > v
	}) - 1
	if rowIndex >= b.rows {
		rowIndex = b.rows - 1
	}
	if rowIndex < 0 {
		rowIndex = 0
	}

	index := rowIndex * b.cols
	end := index + b.cols
	if end > len(b.view) {
		end = len(b.view)
	}

	running := b.cumSums[rowIndex]
	for ; index < end; index++ {
		running += b.view[index]
		if running >= v {
			return index
		}
	}
	return NotFound
}

// IsValidIndex reports whether index is a real result rather than the
// NotFound sentinel.
func IsValidIndex(index int) bool { return index != NotFound }

// String renders the shape, cumulative vector and dirty range, for
// debugging.
func (b *Bucket[T]) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "bucket %dx%d cumsums=[", b.rows, b.cols)
	for i, v := range b.cumSums {
		if i > 0 {
			sb.WriteByte(' ')
		}
		fmt.Fprintf(&sb, "%v", v)
	}
	fmt.Fprintf(&sb, "] dirty=(%d,%d)", b.minRowAffected, b.maxRowAffected)
	return sb.String()
}
