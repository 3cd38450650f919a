package types

// WeightedItem is one catalog entry for the samplers: an identifier and its
// current draw weight. Weights are expected to be non-negative; the
// selectors do not enforce this.
type WeightedItem struct {
	ItemID string `json:"item_id" yaml:"item_id"`
	Weight int64  `json:"weight" yaml:"weight"`
}

// Scenario describes a sampling setup loaded from a config file.
type Scenario struct {
	Catalog []WeightedItem `json:"catalog" yaml:"catalog"`
}

// ItemSelector defines the contract for weighted item selection. It
// abstracts the underlying cumulative structure used for the draw.
// Implementations are not safe for concurrent use.
type ItemSelector interface {
	// Reset clears the selector's state and re-initializes it with a new
	// catalog.
	Reset(catalog []WeightedItem)

	// Select draws an item with probability proportional to its weight and
	// returns its ID.
	Select() (string, error)

	// Update adjusts the weight of a specific item. A positive delta
	// increases its share, a negative delta decreases it.
	Update(itemID string, delta int64)

	// TotalWeight returns the sum of all item weights.
	TotalWeight() int64

	// ItemWeight returns the current weight of an item, or -1 if the item
	// is unknown.
	ItemWeight(itemID string) int64

	// Catalog returns the current per-item weights as a snapshot.
	Catalog() []WeightedItem
}

// Error
type errString string

func (e errString) Error() string {
	return string(e)
}

const ErrEmptyPool = errString("selector: total weight is zero")
