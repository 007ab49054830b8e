package packer

import (
	"fmt"

	"github.com/eugenenazirov/carton-fit/internal/geometry"
)

// DefaultPoolSize bounds how many copies are offered to the packer. It is far
// above what realistic cartons hold, so the packer rather than the pool decides
// the count.
const DefaultPoolSize = 1000

// GeneratePool returns count identical items.
func GeneratePool(name string, dims geometry.Dimensions, weight float64, count int) ([]Item, error) {
	if count <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidPoolSize, count)
	}
	item, err := NewItem(name, dims, weight)
	if err != nil {
		return nil, err
	}

	pool := make([]Item, count)
	for i := range pool {
		pool[i] = item
	}
	return pool, nil
}
