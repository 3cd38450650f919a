package selector

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/bucketlib/bucketlib-go/internal/types"
	"github.com/bucketlib/bucketlib-go/pkg/bucket"
)

// BucketSelector implements the ItemSelector interface on top of the
// row-partitioned cumulative index in pkg/bucket. Weights live in a flat
// slice laid out as a near-square grid; a weight change re-sums one row and
// incrementally refreshes the cumulative vector instead of rebuilding the
// whole prefix sum.
type BucketSelector struct {
	// index is the cumulative structure over weights. nil until Reset.
	index *bucket.Bucket[int64]

	// weights is the flat backing slice the index borrows. One entry per
	// catalog item; the grid may be longer than the slice.
	weights []int64

	// itemIDs maps flat index back to the actual ItemID.
	itemIDs []string

	// itemIndex maps ItemID to its flat index.
	itemIndex map[string]int

	cols int

	// rand is the random number generator for selection.
	rand *rand.Rand
}

var _ types.ItemSelector = (*BucketSelector)(nil)

// NewBucketSelector creates a new BucketSelector.
func NewBucketSelector() *BucketSelector {
	return &BucketSelector{
		itemIndex: make(map[string]int),
		rand:      rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Reset initializes or re-initializes the selector with a new catalog. The
// weight slice is owned by the selector.
func (bs *BucketSelector) Reset(catalog []types.WeightedItem) {
	weights := make([]int64, len(catalog))
	for i, item := range catalog {
		weights[i] = item.Weight
	}
	bs.ResetWithView(catalog, weights)
}

// ResetWithView is like Reset but indexes weights held in caller-owned
// storage, for example an mmap-backed vector: the slice is borrowed, its
// current values win over the catalog weights, and mutations made through
// Update are visible to the owner. len(view) must equal len(catalog).
func (bs *BucketSelector) ResetWithView(catalog []types.WeightedItem, view []int64) {
	n := len(catalog)
	bs.itemIDs = make([]string, n)
	bs.itemIndex = make(map[string]int, n)
	bs.weights = view

	for i, item := range catalog {
		bs.itemIDs[i] = item.ItemID
		bs.itemIndex[item.ItemID] = i
	}

	if n == 0 {
		bs.index = nil
		bs.cols = 0
		return
	}

	// Near-square grid keeps both the row re-sum and the in-row scan at
	// about sqrt(n).
	cols := int(math.Ceil(math.Sqrt(float64(n))))
	rows := (n + cols - 1) / cols
	bs.cols = cols

	// len(view) == n <= rows*cols, so New cannot fail here.
	idx, err := bucket.New(rows, cols, view)
	if err != nil {
		panic(err)
	}
	bs.index = idx
}

// Select draws an item with probability proportional to its weight.
func (bs *BucketSelector) Select() (string, error) {
	if bs.index == nil || bs.index.Total() <= 0 {
		return "", types.ErrEmptyPool
	}
	total := bs.index.Total()

	// Draw in [1, total] so every positive-weight item is reachable.
	randVal := bs.rand.Int63n(total) + 1

	idx := bs.index.FindUpperBound(randVal)
	if !bucket.IsValidIndex(idx) || idx >= len(bs.itemIDs) {
		return "", fmt.Errorf("internal error: failed to find item for random value %d (total weight: %d)", randVal, total)
	}
	return bs.itemIDs[idx], nil
}

// Update adjusts the weight of a specific item, re-sums the touched row and
// refreshes the cumulative vector incrementally.
func (bs *BucketSelector) Update(itemID string, delta int64) {
	idx, ok := bs.itemIndex[itemID]
	if !ok {
		// Item not found in the selector, ignore.
		return
	}

	bs.weights[idx] += delta
	bs.index.UpdateRow(idx / bs.cols)
	bs.index.Refresh()
}

// TotalWeight returns the sum of all item weights.
func (bs *BucketSelector) TotalWeight() int64 {
	if bs.index == nil {
		return 0
	}
	return bs.index.Total()
}

// ItemWeight returns the current weight of an item, or -1 if unknown.
func (bs *BucketSelector) ItemWeight(itemID string) int64 {
	idx, ok := bs.itemIndex[itemID]
	if !ok {
		return -1
	}
	return bs.weights[idx]
}

// Catalog returns the current per-item weights as a snapshot.
func (bs *BucketSelector) Catalog() []types.WeightedItem {
	out := make([]types.WeightedItem, len(bs.itemIDs))
	for i, id := range bs.itemIDs {
		out[i] = types.WeightedItem{ItemID: id, Weight: bs.weights[i]}
	}
	return out
}
