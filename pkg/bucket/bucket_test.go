package bucket_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bucketlib/bucketlib-go/pkg/bucket"
)

const tol = 1e-9

func newFixture(t *testing.T) ([]float64, *bucket.Bucket[float64]) {
	t.Helper()
	data := []float64{0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9}
	b, err := bucket.New(3, 3, data)
	require.NoError(t, err)
	return data, b
}

func TestNew_ShapeAndDirtyRange(t *testing.T) {
	_, b := newFixture(t)

	assert.Equal(t, 3, b.Rows())
	assert.Equal(t, 3, b.Cols())
	assert.Equal(t, 9, b.Size())

	min, max := b.DirtyRange()
	assert.Equal(t, 3, min)
	assert.Equal(t, 0, max)

	b.UpdateRow(1)
	min, max = b.DirtyRange()
	assert.Equal(t, 1, min)
	assert.Equal(t, 1, max)

	b.Rebuild()
	min, max = b.DirtyRange()
	assert.Equal(t, 3, min)
	assert.Equal(t, 0, max)

	b.UpdateRow(1)
	b.Refresh()
	min, max = b.DirtyRange()
	assert.Equal(t, 3, min)
	assert.Equal(t, 0, max)
}

func TestNew_Preconditions(t *testing.T) {
	data := make([]float64, 10)

	_, err := bucket.New(3, 3, data)
	assert.ErrorIs(t, err, bucket.ErrViewTooLarge)

	_, err = bucket.New[float64](0, 3, nil)
	assert.ErrorIs(t, err, bucket.ErrBadShape)

	_, err = bucket.New[float64](3, 0, nil)
	assert.ErrorIs(t, err, bucket.ErrBadShape)

	// A view shorter than rows*cols is allowed.
	b, err := bucket.New(4, 3, data)
	require.NoError(t, err)
	assert.Equal(t, 12, b.Size())
}

func TestRowSums(t *testing.T) {
	_, b := newFixture(t)

	sums := b.RowSums()
	require.Len(t, sums, 3)
	assert.InDelta(t, 0.6, sums[0], tol)
	assert.InDelta(t, 1.5, sums[1], tol)
	assert.InDelta(t, 2.4, sums[2], tol)
}

func TestCumSums(t *testing.T) {
	_, b := newFixture(t)

	cumSums := b.CumSums()
	require.Len(t, cumSums, 4)
	assert.InDelta(t, 0.0, cumSums[0], tol)
	assert.InDelta(t, 0.6, cumSums[1], tol)
	assert.InDelta(t, 2.1, cumSums[2], tol)
	assert.InDelta(t, 4.5, cumSums[3], tol)
	assert.InDelta(t, 4.5, b.Total(), tol)
}

func TestFindUpperBound(t *testing.T) {
	_, b := newFixture(t)

	assert.Equal(t, 0, b.FindUpperBound(0.1))
	assert.Equal(t, 3, b.FindUpperBound(0.7)) // inside 2nd row
	assert.Equal(t, 6, b.FindUpperBound(2.2)) // inside last row
	assert.Equal(t, 8, b.FindUpperBound(4.4))
}

func TestFindUpperBound_NotFound(t *testing.T) {
	_, b := newFixture(t)

	// Above the total the located row is exhausted without reaching the
	// target. An expected outcome, not an error.
	got := b.FindUpperBound(b.Total() + 1)
	assert.Equal(t, bucket.NotFound, got)
	assert.False(t, bucket.IsValidIndex(got))
	assert.True(t, bucket.IsValidIndex(0))
	assert.True(t, bucket.IsValidIndex(8))
}

func TestFindUpperBound_SearchInvariant(t *testing.T) {
	data, b := newFixture(t)

	// For every in-domain target: prefix(0..i) < v <= prefix(0..i+1).
	for _, v := range []float64{0.05, 0.1, 0.3, 0.61, 1.0, 2.0999, 2.11, 3.3, 4.49} {
		i := b.FindUpperBound(v)
		require.True(t, bucket.IsValidIndex(i), "v=%v", v)

		var before float64
		for _, x := range data[:i] {
			before += x
		}
		assert.Less(t, before, v, "v=%v", v)
		assert.GreaterOrEqual(t, before+data[i]+tol, v, "v=%v", v)
	}
}

func TestMutateThenRebuild(t *testing.T) {
	data, b := newFixture(t)

	data[0] = 1.0
	b.UpdateRow(0)
	b.Rebuild()
	assert.InDelta(t, 1.5, b.RowSums()[0], tol)
	assert.InDelta(t, 1.5, b.CumSums()[1], tol)
	assert.InDelta(t, 3.0, b.CumSums()[2], tol)
	assert.InDelta(t, 5.4, b.CumSums()[3], tol)

	data[0] = 0.1
	b.UpdateRow(0)
	b.Rebuild()
	cumSums := b.CumSums()
	assert.InDelta(t, 0.0, cumSums[0], tol)
	assert.InDelta(t, 0.6, cumSums[1], tol)
	assert.InDelta(t, 2.1, cumSums[2], tol)
	assert.InDelta(t, 4.5, cumSums[3], tol)
}

func TestMutateThenRefresh(t *testing.T) {
	data, b := newFixture(t)

	data[0] = 1.0
	b.UpdateRow(0)
	b.Refresh() // instead of Rebuild

	assert.InDelta(t, 1.5, b.RowSums()[0], tol)
	assert.InDelta(t, 1.5, b.CumSums()[1], tol)
	assert.InDelta(t, 3.0, b.CumSums()[2], tol)
	assert.InDelta(t, 5.4, b.CumSums()[3], tol)
}

func TestRefresh_EmptyDirtyRangeIsNoOp(t *testing.T) {
	data, b := newFixture(t)

	// Mutating the view without UpdateRow leaves nothing dirty; Refresh
	// must not touch the cumulative vector.
	data[4] = 100
	before := append([]float64(nil), b.CumSums()...)
	b.Refresh()
	assert.Equal(t, before, b.CumSums())
}

func TestRebuild_Idempotent(t *testing.T) {
	_, b := newFixture(t)

	b.Rebuild()
	first := append([]float64(nil), b.CumSums()...)
	b.Rebuild()
	assert.Equal(t, first, b.CumSums())
}

func TestRefresh_EquivalentToRebuild(t *testing.T) {
	const (
		rows = 37
		cols = 11
	)
	rng := rand.New(rand.NewSource(42))

	data := make([]float64, rows*cols)
	for i := range data {
		data[i] = rng.Float64()
	}
	b, err := bucket.New(rows, cols, data)
	require.NoError(t, err)

	shadow := append([]float64(nil), data...)
	ref, err := bucket.New(rows, cols, shadow)
	require.NoError(t, err)

	for step := 0; step < 200; step++ {
		// Mutate a small batch of cells, track exactly the touched rows.
		touched := map[int]bool{}
		for k := 0; k < 1+rng.Intn(4); k++ {
			i := rng.Intn(len(data))
			v := rng.Float64()
			data[i] = v
			shadow[i] = v
			touched[i/cols] = true
		}
		for row := range touched {
			b.UpdateRow(row)
			ref.UpdateRow(row)
		}

		b.Refresh()
		ref.Rebuild()

		for r := 0; r <= rows; r++ {
			assert.InDelta(t, ref.CumSums()[r], b.CumSums()[r], 1e-6, "step %d row %d", step, r)
		}
	}
}

func TestShortView(t *testing.T) {
	// 7 values over a 3x3 grid: the last row has a single present cell.
	data := []float64{1, 1, 1, 1, 1, 1, 1}
	b, err := bucket.New(3, 3, data)
	require.NoError(t, err)

	assert.InDelta(t, 3.0, b.RowSums()[0], tol)
	assert.InDelta(t, 3.0, b.RowSums()[1], tol)
	assert.InDelta(t, 1.0, b.RowSums()[2], tol)
	assert.InDelta(t, 7.0, b.Total(), tol)

	assert.Equal(t, 6, b.FindUpperBound(6.5))
	assert.Equal(t, bucket.NotFound, b.FindUpperBound(7.5))

	data[6] = 5
	b.UpdateRow(2)
	b.Refresh()
	assert.InDelta(t, 11.0, b.Total(), tol)
}

func TestIntegerElements(t *testing.T) {
	data := []int64{1, 2, 3, 4, 5, 6, 7, 8, 9}
	b, err := bucket.New(3, 3, data)
	require.NoError(t, err)

	assert.Equal(t, []int64{6, 15, 24}, b.RowSums())
	assert.Equal(t, []int64{0, 6, 21, 45}, b.CumSums())

	assert.Equal(t, 0, b.FindUpperBound(1))
	assert.Equal(t, 3, b.FindUpperBound(7))
	assert.Equal(t, 8, b.FindUpperBound(44))

	// The closed upper end of the domain resolves to the last element.
	assert.Equal(t, 8, b.FindUpperBound(45))

	// A target equal to a row boundary lands at the first element of the
	// next row: the row search already passes the boundary row.
	assert.Equal(t, 6, b.FindUpperBound(21))

	data[4] = 50
	b.UpdateRow(1)
	b.Refresh()
	assert.Equal(t, []int64{0, 6, 66, 90}, b.CumSums())
}

func TestNegativeValues_DocumentedBehavior(t *testing.T) {
	// Non-negativity is a caller contract. With a negative weight the
	// cumulative vector is still the exact prefix sum (no clamping), but it
	// is no longer monotone and the search result is only meaningful within
	// the still-monotone prefix.
	data := []float64{1, -2, 3, 4}
	b, err := bucket.New(2, 2, data)
	require.NoError(t, err)

	assert.InDelta(t, -1.0, b.RowSums()[0], tol)
	assert.InDelta(t, 7.0, b.RowSums()[1], tol)
	assert.InDelta(t, -1.0, b.CumSums()[1], tol)
	assert.InDelta(t, 6.0, b.CumSums()[2], tol)
}

func TestString(t *testing.T) {
	data := []int{1, 2, 3, 4}
	b, err := bucket.New(2, 2, data)
	require.NoError(t, err)

	assert.Equal(t, "bucket 2x2 cumsums=[0 3 10] dirty=(2,0)", b.String())
}
