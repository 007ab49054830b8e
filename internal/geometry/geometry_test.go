package geometry

import (
	"errors"
	"math"
	"testing"
)

func TestNewDimensionsValidates(t *testing.T) {
	t.Parallel()

	invalid := []Dimensions{
		{Length: 0, Width: 1, Height: 1},
		{Length: 1, Width: -2, Height: 1},
		{Length: 1, Width: 1, Height: math.NaN()},
		{Length: math.Inf(1), Width: 1, Height: 1},
		{Length: 1e200, Width: 1e200, Height: 1e200},
	}
	for _, d := range invalid {
		if _, err := NewDimensions(d.Length, d.Width, d.Height); !errors.Is(err, ErrInvalidDimension) {
			t.Fatalf("expected ErrInvalidDimension for %v, got %v", d, err)
		}
	}

	d, err := NewDimensions(2, 3, 4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Volume() != 24 {
		t.Fatalf("expected volume 24, got %g", d.Volume())
	}
}

func TestOrientations(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		dims Dimensions
		want []Dimensions
	}{
		{
			name: "AllDistinct",
			dims: Dimensions{Length: 1, Width: 2, Height: 3},
			want: []Dimensions{{1, 2, 3}, {2, 3, 1}, {3, 1, 2}},
		},
		{
			name: "Cube",
			dims: Dimensions{Length: 5, Width: 5, Height: 5},
			want: []Dimensions{{5, 5, 5}},
		},
	}

	for _, tc := range tests {
		got := tc.dims.Orientations()
		if len(got) != len(tc.want) {
			t.Fatalf("%s: expected %d orientations, got %v", tc.name, len(tc.want), got)
		}
		for i := range got {
			if got[i] != tc.want[i] {
				t.Fatalf("%s: orientation %d: expected %v, got %v", tc.name, i, tc.want[i], got[i])
			}
		}
	}
}

func TestIsOrientationOf(t *testing.T) {
	t.Parallel()

	d := Dimensions{Length: 1, Width: 2, Height: 3}
	if !d.IsOrientationOf(Dimensions{Length: 3, Width: 2, Height: 1}, Epsilon) {
		t.Fatalf("expected permutation to match")
	}
	if d.IsOrientationOf(Dimensions{Length: 3, Width: 3, Height: 1}, Epsilon) {
		t.Fatalf("expected different extents not to match")
	}
}

func TestBoxOverlaps(t *testing.T) {
	t.Parallel()

	a := Box{Size: Dimensions{Length: 10, Width: 10, Height: 10}}

	tests := []struct {
		name string
		b    Box
		want bool
	}{
		{"SharedFace", Box{Min: Point{X: 10}, Size: a.Size}, false},
		{"SharedEdge", Box{Min: Point{X: 10, Y: 10}, Size: a.Size}, false},
		{"Nested", Box{Min: Point{X: 2, Y: 2, Z: 2}, Size: Dimensions{Length: 1, Width: 1, Height: 1}}, true},
		{"Partial", Box{Min: Point{X: 5, Y: 5, Z: 5}, Size: a.Size}, true},
		{"Apart", Box{Min: Point{Z: 20}, Size: a.Size}, false},
	}

	for _, tc := range tests {
		if got := a.Overlaps(tc.b, Epsilon); got != tc.want {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.want, got)
		}
		if got := tc.b.Overlaps(a, Epsilon); got != tc.want {
			t.Fatalf("%s (reversed): expected %v, got %v", tc.name, tc.want, got)
		}
	}
}

func TestBoxWithinAndCovers(t *testing.T) {
	t.Parallel()

	bounds := Dimensions{Length: 20, Width: 20, Height: 20}
	b := Box{Min: Point{X: 10}, Size: Dimensions{Length: 10, Width: 10, Height: 10}}

	if !b.Within(bounds, Epsilon) {
		t.Fatalf("expected box flush with the wall to be within bounds")
	}
	if (Box{Min: Point{X: 11}, Size: b.Size}).Within(bounds, Epsilon) {
		t.Fatalf("expected protruding box to be out of bounds")
	}

	if !b.Covers(Point{X: 10}, Epsilon) {
		t.Fatalf("expected min corner to be covered")
	}
	if b.Covers(Point{X: 20}, Epsilon) {
		t.Fatalf("expected max face not to be covered")
	}
	if !b.Covers(Point{X: 15, Y: 5, Z: 9}, Epsilon) {
		t.Fatalf("expected interior point to be covered")
	}
}

func TestPointAdvance(t *testing.T) {
	t.Parallel()

	p := Point{X: 1, Y: 2, Z: 3}
	if got := p.Advance(1, 4); got != (Point{X: 1, Y: 6, Z: 3}) {
		t.Fatalf("unexpected point %v", got)
	}
	if !p.Near(Point{X: 1, Y: 2, Z: 3 + Epsilon/2}, Epsilon) {
		t.Fatalf("expected points within epsilon to be near")
	}
}
