package selector

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bucketlib/bucketlib-go/internal/types"
)

func TestNewPrefixSumSelector(t *testing.T) {
	pss := NewPrefixSumSelector()
	assert.NotNil(t, pss)
	assert.NotNil(t, pss.itemIndex)
	assert.NotNil(t, pss.rand)
	assert.Empty(t, pss.itemIDs)
	assert.Empty(t, pss.prefixSums)
	assert.Zero(t, pss.totalWeight)
}

func TestPrefixSumSelector_Reset(t *testing.T) {
	pss := NewPrefixSumSelector()

	// Empty catalog
	pss.Reset([]types.WeightedItem{})
	assert.Empty(t, pss.itemIDs)
	assert.Empty(t, pss.prefixSums)
	assert.Zero(t, pss.totalWeight)

	// Single item
	pss.Reset([]types.WeightedItem{
		{ItemID: "itemA", Weight: 5},
	})
	assert.Equal(t, []string{"itemA"}, pss.itemIDs)
	assert.Equal(t, 0, pss.itemIndex["itemA"])
	assert.Equal(t, []int64{5}, pss.prefixSums)
	assert.Equal(t, int64(5), pss.totalWeight)

	// Multiple items, one with zero weight
	pss.Reset([]types.WeightedItem{
		{ItemID: "itemA", Weight: 10},
		{ItemID: "itemB", Weight: 20},
		{ItemID: "itemC", Weight: 0},
	})
	assert.Equal(t, []int64{10, 30, 30}, pss.prefixSums)
	assert.Equal(t, int64(30), pss.totalWeight)
	assert.Equal(t, int64(0), pss.ItemWeight("itemC"))
}

func TestPrefixSumSelector_SelectDeterministic(t *testing.T) {
	pss := NewPrefixSumSelector()
	pss.Reset([]types.WeightedItem{
		{ItemID: "itemA", Weight: 10},
		{ItemID: "itemB", Weight: 20},
		{ItemID: "itemC", Weight: 30},
	})

	pss.rand = rand.New(&MockRandSource{values: []int64{0, 9, 10, 29, 59}})

	want := []string{"itemA", "itemA", "itemB", "itemB", "itemC"}
	for i, expected := range want {
		got, err := pss.Select()
		assert.NoError(t, err)
		assert.Equal(t, expected, got, "draw %d", i)
	}
}

func TestPrefixSumSelector_Update(t *testing.T) {
	pss := NewPrefixSumSelector()
	pss.Reset([]types.WeightedItem{
		{ItemID: "itemA", Weight: 10},
		{ItemID: "itemB", Weight: 20},
		{ItemID: "itemC", Weight: 30},
	})

	pss.Update("itemA", 5)
	assert.Equal(t, []int64{15, 35, 65}, pss.prefixSums)
	assert.Equal(t, int64(65), pss.totalWeight)
	assert.Equal(t, int64(15), pss.ItemWeight("itemA"))

	pss.Update("itemC", -30)
	assert.Equal(t, []int64{15, 35, 35}, pss.prefixSums)
	assert.Equal(t, int64(35), pss.totalWeight)

	// Unknown item is ignored.
	pss.Update("itemX", 100)
	assert.Equal(t, int64(35), pss.totalWeight)
}
