package selector

import "errors"

var (
	// ErrInvalidCatalog is returned when there are no candidate containers to evaluate.
	ErrInvalidCatalog = errors.New("no candidate containers to evaluate")
	// ErrPackingInvariant signals a packer defect such as overlapping placements
	// or a utilization outside [0, 100]. It is never recovered from.
	ErrPackingInvariant = errors.New("packing invariant violated")
)
