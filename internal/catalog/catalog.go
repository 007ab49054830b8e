// Package catalog describes the carton and package records the selector is fed
// with, and loads them from YAML or Excel files.
package catalog

import (
	"fmt"
	"strings"

	"github.com/eugenenazirov/carton-fit/internal/geometry"
	"github.com/eugenenazirov/carton-fit/internal/packer"
)

// Carton is a candidate container with interior dimensions in inches.
type Carton struct {
	ID          string  `json:"id,omitempty" yaml:"id"`
	Description string  `json:"description" yaml:"description"`
	Length      float64 `json:"length" yaml:"length"`
	Width       float64 `json:"width" yaml:"width"`
	Height      float64 `json:"height" yaml:"height"`
	MaxWeight   float64 `json:"maxWeight,omitempty" yaml:"max_weight"`
}

// Label returns the description, falling back to the ID.
func (c Carton) Label() string {
	if c.Description != "" {
		return c.Description
	}
	return c.ID
}

// Dimensions returns the interior extents.
func (c Carton) Dimensions() geometry.Dimensions {
	return geometry.Dimensions{Length: c.Length, Width: c.Width, Height: c.Height}
}

// Container converts the record into a validated packer.Container.
func (c Carton) Container() (packer.Container, error) {
	return packer.NewContainer(c.Label(), c.Dimensions(), c.MaxWeight)
}

// Package is a named package preset.
type Package struct {
	ID     string  `json:"id" yaml:"id"`
	Length float64 `json:"length" yaml:"length"`
	Width  float64 `json:"width" yaml:"width"`
	Height float64 `json:"height" yaml:"height"`
	Weight float64 `json:"weight,omitempty" yaml:"weight"`
}

// Dimensions returns the package extents.
func (p Package) Dimensions() geometry.Dimensions {
	return geometry.Dimensions{Length: p.Length, Width: p.Width, Height: p.Height}
}

// Item converts the preset into a validated packer.Item.
func (p Package) Item() (packer.Item, error) {
	return packer.NewItem(p.ID, p.Dimensions(), p.Weight)
}

// Catalog is the full set of cartons and package presets.
type Catalog struct {
	Cartons  []Carton  `json:"cartons" yaml:"cartons"`
	Packages []Package `json:"packages" yaml:"packages"`
}

// Validate checks that there is at least one carton and that every record has
// positive dimensions.
func (c Catalog) Validate() error {
	if len(c.Cartons) == 0 {
		return ErrNoCartons
	}
	for i, carton := range c.Cartons {
		if err := carton.Dimensions().Validate(); err != nil {
			return fmt.Errorf("%w: carton %d (%s): %w", ErrInvalidRecord, i+1, carton.Label(), err)
		}
		if carton.MaxWeight < 0 {
			return fmt.Errorf("%w: carton %d (%s): negative max weight", ErrInvalidRecord, i+1, carton.Label())
		}
	}
	for i, pkg := range c.Packages {
		if err := pkg.Dimensions().Validate(); err != nil {
			return fmt.Errorf("%w: package %d (%s): %w", ErrInvalidRecord, i+1, pkg.ID, err)
		}
		if pkg.Weight < 0 {
			return fmt.Errorf("%w: package %d (%s): negative weight", ErrInvalidRecord, i+1, pkg.ID)
		}
	}
	return nil
}

// Containers converts every carton, preserving catalog order.
func (c Catalog) Containers() ([]packer.Container, error) {
	out := make([]packer.Container, 0, len(c.Cartons))
	for _, carton := range c.Cartons {
		container, err := carton.Container()
		if err != nil {
			return nil, err
		}
		out = append(out, container)
	}
	return out, nil
}

// Package returns the first preset whose ID matches, ignoring case and surrounding spaces.
func (c Catalog) Package(id string) (Package, error) {
	key := normalize(id)
	for _, pkg := range c.Packages {
		if normalize(pkg.ID) == key {
			return pkg, nil
		}
	}
	return Package{}, fmt.Errorf("%w %q", ErrUnknownPackage, id)
}

// Carton returns the first carton whose ID or description matches.
func (c Catalog) Carton(key string) (Carton, error) {
	want := normalize(key)
	for _, carton := range c.Cartons {
		if (carton.ID != "" && normalize(carton.ID) == want) || normalize(carton.Description) == want {
			return carton, nil
		}
	}
	return Carton{}, fmt.Errorf("%w %q", ErrUnknownCarton, key)
}

// Clone returns a deep copy.
func (c Catalog) Clone() Catalog {
	out := Catalog{
		Cartons:  make([]Carton, len(c.Cartons)),
		Packages: make([]Package, len(c.Packages)),
	}
	copy(out.Cartons, c.Cartons)
	copy(out.Packages, c.Packages)
	return out
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
