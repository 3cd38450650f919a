package selector

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/bucketlib/bucketlib-go/internal/types"
)

// PrefixSumSelector implements the ItemSelector interface with a flat
// prefix-sum array. Selection is a binary search; every weight change
// rewrites the whole suffix. This is the naive baseline the bucket index is
// benchmarked against.
type PrefixSumSelector struct {
	// prefixSums stores the cumulative sums of item weights.
	prefixSums []int64

	// itemIDs maps the index in the prefixSums array back to the actual ItemID.
	itemIDs []string

	// itemIndex maps ItemID to its index in the prefixSums and itemIDs slices.
	itemIndex map[string]int

	// totalWeight stores the sum of all weights in the selector.
	totalWeight int64

	// rand is the random number generator for selection.
	rand *rand.Rand
}

var _ types.ItemSelector = (*PrefixSumSelector)(nil)

// NewPrefixSumSelector creates a new PrefixSumSelector.
func NewPrefixSumSelector() *PrefixSumSelector {
	return &PrefixSumSelector{
		itemIndex: make(map[string]int),
		rand:      rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Reset initializes or re-initializes the selector with a new catalog.
func (pss *PrefixSumSelector) Reset(catalog []types.WeightedItem) {
	pss.itemIDs = make([]string, len(catalog))
	pss.itemIndex = make(map[string]int)
	pss.prefixSums = make([]int64, len(catalog))
	pss.totalWeight = 0

	var currentSum int64
	for i, item := range catalog {
		currentSum += item.Weight
		pss.prefixSums[i] = currentSum
		pss.itemIDs[i] = item.ItemID
		pss.itemIndex[item.ItemID] = i
	}
	pss.totalWeight = currentSum
}

// Select draws an item with probability proportional to its weight.
func (pss *PrefixSumSelector) Select() (string, error) {
	if pss.totalWeight <= 0 {
		return "", types.ErrEmptyPool
	}

	randVal := pss.rand.Int63n(pss.totalWeight) + 1 // +1 because we're looking for a value >= 1

	idx := pss.findItemIndex(randVal)
	if idx == -1 || idx >= len(pss.itemIDs) {
		return "", fmt.Errorf("internal error: failed to find item for random value %d (total weight: %d)", randVal, pss.totalWeight)
	}
	return pss.itemIDs[idx], nil
}

// findItemIndex performs a binary search to find the index of the item
// corresponding to the given cumulative value.
func (pss *PrefixSumSelector) findItemIndex(value int64) int {
	low := 0
	high := len(pss.prefixSums) - 1
	resultIdx := -1

	for low <= high {
		mid := low + (high-low)/2
		if pss.prefixSums[mid] >= value {
			resultIdx = mid
			high = mid - 1
		} else {
			low = mid + 1
		}
	}
	return resultIdx
}

// Update adjusts the weight of a specific item in the selector.
func (pss *PrefixSumSelector) Update(itemID string, delta int64) {
	idx, ok := pss.itemIndex[itemID]
	if !ok {
		// Item not found in the selector, ignore.
		return
	}

	// Every prefix sum from the item's index onwards shifts by delta.
	for i := idx; i < len(pss.prefixSums); i++ {
		pss.prefixSums[i] += delta
	}
	pss.totalWeight += delta
}

// TotalWeight returns the sum of all item weights.
func (pss *PrefixSumSelector) TotalWeight() int64 {
	return pss.totalWeight
}

// ItemWeight returns the current weight of an item, or -1 if unknown.
func (pss *PrefixSumSelector) ItemWeight(itemID string) int64 {
	idx, ok := pss.itemIndex[itemID]
	if !ok {
		return -1
	}
	if idx == 0 {
		return pss.prefixSums[0]
	}
	return pss.prefixSums[idx] - pss.prefixSums[idx-1]
}

// Catalog returns the current per-item weights as a snapshot.
func (pss *PrefixSumSelector) Catalog() []types.WeightedItem {
	out := make([]types.WeightedItem, len(pss.itemIDs))
	var prev int64
	for i, id := range pss.itemIDs {
		out[i] = types.WeightedItem{ItemID: id, Weight: pss.prefixSums[i] - prev}
		prev = pss.prefixSums[i]
	}
	return out
}
