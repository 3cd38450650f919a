package utils

import "golang.org/x/exp/constraints"

// Number mirrors the element constraint of pkg/bucket: any integer or
// floating point type.
type Number interface {
	constraints.Integer | constraints.Float
}

// FenwickTree is a binary indexed tree over prefix sums, kept as the
// log-time comparator for the bucket index.
type FenwickTree[T Number] struct {
	size int
	tree []T
}

func NewFenwickTree[T Number](size int) *FenwickTree[T] {
	return &FenwickTree[T]{
		size: size,
		tree: make([]T, size+1),
	}
}

// Add adds value to the element at index. Out-of-range indices are ignored.
func (ft *FenwickTree[T]) Add(index int, value T) {
	if index < 0 || index >= ft.size {
		return
	}
	index++ // 1-based index
	for index <= ft.size {
		ft.tree[index] += value
		index += index & -index
	}
}

// Query returns the prefix sum over [0, index].
func (ft *FenwickTree[T]) Query(index int) T {
	if index < 0 || index >= ft.size {
		return 0
	}
	index++ // 1-based index
	var sum T
	for index > 0 {
		sum += ft.tree[index]
		index -= index & -index
	}
	return sum
}

// Find returns the smallest index whose prefix sum reaches value, or -1.
func (ft *FenwickTree[T]) Find(value T) int {
	low := 0
	high := ft.size - 1
	result := -1

	for low <= high {
		mid := (low + high) / 2
		if ft.Query(mid) >= value {
			result = mid
			high = mid - 1
		} else {
			low = mid + 1
		}
	}
	return result
}

// Total returns the sum over all elements.
func (ft *FenwickTree[T]) Total() T {
	return ft.Query(ft.size - 1)
}
