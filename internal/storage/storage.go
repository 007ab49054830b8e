package storage

import (
	"errors"
	"fmt"
	"sync"

	"github.com/eugenenazirov/carton-fit/internal/catalog"
)

const maxCartons = 500

var (
	// ErrInvalidCartons indicates the provided cartons violate validation rules.
	ErrInvalidCartons = errors.New("cartons must contain between 1 and 500 records with positive dimensions")
	// ErrInvalidPackages indicates a package preset has invalid dimensions or weight.
	ErrInvalidPackages = errors.New("packages must have positive dimensions and non-negative weight")
)

// Storage provides access to the catalog the selector evaluates against.
type Storage interface {
	GetCatalog() (catalog.Catalog, error)
	SetCartons(cartons []catalog.Carton) error
	SetPackages(packages []catalog.Package) error
}

// MemoryStorage keeps the catalog in-memory and guards access with a RWMutex.
type MemoryStorage struct {
	mu      sync.RWMutex
	catalog catalog.Catalog
}

// NewMemoryStorage initialises storage with a copy of the built-in catalog.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		catalog: catalog.Default(),
	}
}

// NewMemoryStorageFrom initialises storage with a validated copy of c.
func NewMemoryStorageFrom(c catalog.Catalog) (*MemoryStorage, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidCartons, err)
	}
	return &MemoryStorage{catalog: c.Clone()}, nil
}

// GetCatalog returns a defensive copy of the current catalog.
func (s *MemoryStorage) GetCatalog() (catalog.Catalog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.catalog.Clone(), nil
}

// SetCartons validates and replaces the carton list. Order is preserved since
// it decides selection ties.
func (s *MemoryStorage) SetCartons(cartons []catalog.Carton) error {
	if len(cartons) == 0 || len(cartons) > maxCartons {
		return ErrInvalidCartons
	}
	candidate := catalog.Catalog{Cartons: cartons}
	if err := candidate.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidCartons, err)
	}
	candidate = candidate.Clone()

	s.mu.Lock()
	s.catalog.Cartons = candidate.Cartons
	s.mu.Unlock()

	return nil
}

// SetPackages validates and replaces the package presets. An empty list is allowed.
func (s *MemoryStorage) SetPackages(packages []catalog.Package) error {
	for _, pkg := range packages {
		if pkg.Dimensions().Validate() != nil || pkg.Weight < 0 {
			return ErrInvalidPackages
		}
	}
	cloned := make([]catalog.Package, len(packages))
	copy(cloned, packages)

	s.mu.Lock()
	s.catalog.Packages = cloned
	s.mu.Unlock()

	return nil
}
