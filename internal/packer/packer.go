package packer

import (
	"fmt"
	"slices"

	"github.com/eugenenazirov/carton-fit/internal/geometry"
)

type firstFitPacker struct {
	maxAttempts int
	eps         float64
}

// Option configures the packer.
type Option func(*firstFitPacker)

// WithMaxAttempts caps how many items of a pool are attempted. Zero or a
// negative value attempts the whole pool.
func WithMaxAttempts(n int) Option {
	return func(p *firstFitPacker) {
		p.maxAttempts = n
	}
}

// WithEpsilon overrides the tolerance used for fit and overlap tests.
func WithEpsilon(eps float64) Option {
	return func(p *firstFitPacker) {
		if eps >= 0 {
			p.eps = eps
		}
	}
}

// New creates a Packer that places items first-fit over a list of open anchors,
// trying every distinct orientation at each anchor.
func New(opts ...Option) Packer {
	p := &firstFitPacker{eps: geometry.Epsilon}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *firstFitPacker) Pack(container Container, items []Item) (Result, error) {
	if err := container.Validate(); err != nil {
		return Result{}, err
	}
	for i, item := range items {
		if err := item.Dimensions.Validate(); err != nil {
			return Result{}, fmt.Errorf("item %d: %w", i, err)
		}
	}

	limit := len(items)
	if p.maxAttempts > 0 && p.maxAttempts < limit {
		limit = p.maxAttempts
	}

	state := newPackState(container.Dimensions, p.eps)
	result := Result{
		Container:  container,
		Placements: make([]Placement, 0),
	}
	if len(items) > 0 {
		result.Item = items[0].Dimensions
	}

	// Shapes rejected since the last commit. Nothing changes until the next
	// commit, so an identical shape would be rejected again.
	var rejected []geometry.Dimensions

	for i := 0; i < limit; i++ {
		item := items[i]
		result.Attempts++

		if slices.Contains(rejected, item.Dimensions) {
			continue
		}

		box, ok := state.place(item.Dimensions)
		if !ok {
			rejected = append(rejected, item.Dimensions)
			continue
		}
		rejected = rejected[:0]

		result.Placements = append(result.Placements, Placement{
			Item:        item.Name,
			Position:    box.Min,
			Orientation: box.Size,
		})
	}

	result.Unplaced = len(items) - len(result.Placements)
	return result, nil
}

// anchor is an open placement origin. failed holds oriented extents already
// proven infeasible here; boxes are only ever added, so the proof is permanent.
type anchor struct {
	pos    geometry.Point
	failed []geometry.Dimensions
}

type packState struct {
	bounds  geometry.Dimensions
	eps     float64
	anchors []*anchor
	boxes   []geometry.Box
}

func newPackState(bounds geometry.Dimensions, eps float64) *packState {
	return &packState{
		bounds:  bounds,
		eps:     eps,
		anchors: []*anchor{{pos: geometry.Point{}}},
	}
}

// place scans anchors in list order and, per anchor, orientations in order,
// committing the first feasible pair.
func (s *packState) place(dims geometry.Dimensions) (geometry.Box, bool) {
	orientations := dims.Orientations()

	for idx, a := range s.anchors {
		for _, o := range orientations {
			if slices.Contains(a.failed, o) {
				continue
			}
			box := geometry.Box{Min: a.pos, Size: o}
			if !s.feasible(box) {
				a.failed = append(a.failed, o)
				continue
			}
			s.commit(idx, box)
			return box, true
		}
	}
	return geometry.Box{}, false
}

func (s *packState) feasible(box geometry.Box) bool {
	if !box.Within(s.bounds, s.eps) {
		return false
	}
	for _, placed := range s.boxes {
		if box.Overlaps(placed, s.eps) {
			return false
		}
	}
	return true
}

func (s *packState) commit(idx int, box geometry.Box) {
	s.anchors = slices.Delete(s.anchors, idx, idx+1)
	s.boxes = append(s.boxes, box)

	// Anchors swallowed by the new box can never host an item again.
	s.anchors = slices.DeleteFunc(s.anchors, func(a *anchor) bool {
		return box.Covers(a.pos, s.eps)
	})

	for axis := 0; axis < 3; axis++ {
		s.addAnchor(box.Min.Advance(axis, box.Size.Axis(axis)))
	}
}

func (s *packState) addAnchor(pos geometry.Point) {
	for axis := 0; axis < 3; axis++ {
		if pos.Axis(axis) >= s.bounds.Axis(axis)-s.eps {
			return
		}
	}
	for _, a := range s.anchors {
		if a.pos.Near(pos, s.eps) {
			return
		}
	}
	for _, b := range s.boxes {
		if b.Covers(pos, s.eps) {
			return
		}
	}
	s.anchors = append(s.anchors, &anchor{pos: pos})
}
