package packer

import (
	"fmt"
	"math"

	"github.com/eugenenazirov/carton-fit/internal/geometry"
)

// Item is one copy of the package being packed. Items in a pool are fungible.
// Weight is tracked but never constrains placement.
type Item struct {
	Name       string
	Dimensions geometry.Dimensions
	Weight     float64
}

// NewItem validates dimensions and weight and returns an Item.
func NewItem(name string, dims geometry.Dimensions, weight float64) (Item, error) {
	if err := dims.Validate(); err != nil {
		return Item{}, err
	}
	if !(weight >= 0) || math.IsInf(weight, 0) {
		return Item{}, fmt.Errorf("%w: got %g", ErrInvalidWeight, weight)
	}
	return Item{Name: name, Dimensions: dims, Weight: weight}, nil
}

// Container is a candidate storage unit. MaxWeight of zero means uncapped.
type Container struct {
	Label      string
	Dimensions geometry.Dimensions
	MaxWeight  float64
}

// NewContainer validates the interior dimensions and returns a Container.
func NewContainer(label string, dims geometry.Dimensions, maxWeight float64) (Container, error) {
	c := Container{Label: label, Dimensions: dims, MaxWeight: maxWeight}
	if err := c.Validate(); err != nil {
		return Container{}, err
	}
	return c, nil
}

// Validate returns an error matching both ErrInvalidContainer and
// geometry.ErrInvalidDimension when any interior dimension is not positive.
func (c Container) Validate() error {
	if err := c.Dimensions.Validate(); err != nil {
		return fmt.Errorf("%w %q: %w", ErrInvalidContainer, c.Label, err)
	}
	return nil
}

// Volume returns the interior volume.
func (c Container) Volume() float64 {
	return c.Dimensions.Volume()
}

// Placement records where one item went: the minimum corner of its bounding
// box and its extents along the container's x, y and z axes.
type Placement struct {
	Item        string              `json:"item"`
	Position    geometry.Point      `json:"position"`
	Orientation geometry.Dimensions `json:"orientation"`
}

// Box returns the placed bounding box.
func (p Placement) Box() geometry.Box {
	return geometry.Box{Min: p.Position, Size: p.Orientation}
}

// Result is the outcome of packing one pool into one container.
type Result struct {
	Container  Container
	Item       geometry.Dimensions
	Placements []Placement
	// Unplaced counts rejected items plus items never attempted because of the attempt cap.
	Unplaced int
	Attempts int
}

// Placed returns the number of committed placements.
func (r Result) Placed() int {
	return len(r.Placements)
}

// OccupiedVolume returns the summed volume of all placed items.
func (r Result) OccupiedVolume() float64 {
	total := 0.0
	for _, p := range r.Placements {
		total += p.Orientation.Volume()
	}
	return total
}

// Utilization returns the occupied share of the container volume as a percentage.
func (r Result) Utilization() float64 {
	volume := r.Container.Volume()
	if volume <= 0 {
		return 0
	}
	return r.OccupiedVolume() / volume * 100
}

// Packer describes the behaviour required from a placement engine.
type Packer interface {
	Pack(container Container, items []Item) (Result, error)
}
