package selector

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/bucketlib/bucketlib-go/internal/types"
	"github.com/bucketlib/bucketlib-go/internal/utils"
)

// FenwickTreeSelector implements the ItemSelector interface using a binary
// indexed tree: log-time update and log²-time selection, the classic
// comparator for the bucket index.
type FenwickTreeSelector struct {
	// tree stores the cumulative weights of items.
	tree *utils.FenwickTree[int64]

	// itemIDs maps the index in the Fenwick tree back to the actual ItemID.
	itemIDs []string

	// itemIndex maps ItemID to its index in the Fenwick tree and itemIDs slice.
	itemIndex map[string]int

	// rand is the random number generator for selection.
	rand *rand.Rand
}

var _ types.ItemSelector = (*FenwickTreeSelector)(nil)

// NewFenwickTreeSelector creates a new FenwickTreeSelector.
func NewFenwickTreeSelector() *FenwickTreeSelector {
	return &FenwickTreeSelector{
		itemIndex: make(map[string]int),
		rand:      rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Reset initializes or re-initializes the selector with a new catalog.
func (fts *FenwickTreeSelector) Reset(catalog []types.WeightedItem) {
	fts.itemIDs = make([]string, len(catalog))
	fts.itemIndex = make(map[string]int)
	fts.tree = utils.NewFenwickTree[int64](len(catalog))

	for i, item := range catalog {
		fts.itemIDs[i] = item.ItemID
		fts.itemIndex[item.ItemID] = i
		fts.tree.Add(i, item.Weight)
	}
}

// Select draws an item with probability proportional to its weight.
func (fts *FenwickTreeSelector) Select() (string, error) {
	total := fts.TotalWeight()
	if total <= 0 {
		return "", types.ErrEmptyPool
	}

	randVal := fts.rand.Int63n(total) + 1 // +1 because Find expects a 1-based cumulative sum

	idx := fts.tree.Find(randVal)
	if idx == -1 || idx >= len(fts.itemIDs) {
		return "", fmt.Errorf("internal error: failed to find item for random value %d (total weight: %d)", randVal, total)
	}
	return fts.itemIDs[idx], nil
}

// Update adjusts the weight of a specific item in the selector.
func (fts *FenwickTreeSelector) Update(itemID string, delta int64) {
	idx, ok := fts.itemIndex[itemID]
	if !ok {
		// Item not found in the selector, ignore.
		return
	}
	fts.tree.Add(idx, delta)
}

// TotalWeight returns the sum of all item weights.
func (fts *FenwickTreeSelector) TotalWeight() int64 {
	if fts.tree == nil {
		return 0
	}
	return fts.tree.Total()
}

// ItemWeight returns the current weight of an item, or -1 if unknown.
func (fts *FenwickTreeSelector) ItemWeight(itemID string) int64 {
	idx, ok := fts.itemIndex[itemID]
	if !ok {
		return -1
	}
	w := fts.tree.Query(idx)
	if idx > 0 {
		w -= fts.tree.Query(idx - 1)
	}
	return w
}

// Catalog returns the current per-item weights as a snapshot.
func (fts *FenwickTreeSelector) Catalog() []types.WeightedItem {
	out := make([]types.WeightedItem, len(fts.itemIDs))
	var prev int64
	for i, id := range fts.itemIDs {
		cum := fts.tree.Query(i)
		out[i] = types.WeightedItem{ItemID: id, Weight: cum - prev}
		prev = cum
	}
	return out
}
