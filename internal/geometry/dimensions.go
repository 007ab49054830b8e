package geometry

import (
	"fmt"
	"math"
)

// Epsilon is the default tolerance for fit and overlap comparisons.
const Epsilon = 1e-9

// Dimensions is an axis-aligned extent. Length runs along x, Width along y and
// Height along z when the value describes an oriented box.
type Dimensions struct {
	Length float64 `json:"length" yaml:"length"`
	Width  float64 `json:"width" yaml:"width"`
	Height float64 `json:"height" yaml:"height"`
}

// NewDimensions validates and returns a Dimensions value.
func NewDimensions(length, width, height float64) (Dimensions, error) {
	d := Dimensions{Length: length, Width: width, Height: height}
	if err := d.Validate(); err != nil {
		return Dimensions{}, err
	}
	return d, nil
}

// Validate reports ErrInvalidDimension when any side is not strictly positive
// and finite, or when the volume overflows float64.
func (d Dimensions) Validate() error {
	for _, v := range [3]float64{d.Length, d.Width, d.Height} {
		if !(v > 0) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: got %s", ErrInvalidDimension, d)
		}
	}
	if math.IsInf(d.Volume(), 0) {
		return fmt.Errorf("%w: volume of %s overflows", ErrInvalidDimension, d)
	}
	return nil
}

// Volume returns Length * Width * Height.
func (d Dimensions) Volume() float64 {
	return d.Length * d.Width * d.Height
}

// Scale returns the dimensions multiplied by factor on every axis.
func (d Dimensions) Scale(factor float64) Dimensions {
	return Dimensions{Length: d.Length * factor, Width: d.Width * factor, Height: d.Height * factor}
}

// Axis returns the extent along axis 0 (x), 1 (y) or 2 (z).
func (d Dimensions) Axis(i int) float64 {
	switch i {
	case 0:
		return d.Length
	case 1:
		return d.Width
	default:
		return d.Height
	}
}

// Orientations returns the distinct axis assignments the packer tries, in order:
// (L,W,H), (W,H,L), (H,L,W). Each side lands on every axis exactly once across
// the set. Duplicates caused by equal sides are dropped, so a cube yields one.
func (d Dimensions) Orientations() []Dimensions {
	candidates := [3]Dimensions{
		{Length: d.Length, Width: d.Width, Height: d.Height},
		{Length: d.Width, Width: d.Height, Height: d.Length},
		{Length: d.Height, Width: d.Length, Height: d.Width},
	}

	out := make([]Dimensions, 0, len(candidates))
	for _, c := range candidates {
		seen := false
		for _, o := range out {
			if o == c {
				seen = true
				break
			}
		}
		if !seen {
			out = append(out, c)
		}
	}
	return out
}

// IsOrientationOf reports whether o is a permutation of d's sides.
func (d Dimensions) IsOrientationOf(o Dimensions, eps float64) bool {
	a := sorted(d)
	b := sorted(o)
	for i := range a {
		if math.Abs(a[i]-b[i]) > eps {
			return false
		}
	}
	return true
}

func (d Dimensions) String() string {
	return fmt.Sprintf("%gx%gx%g", d.Length, d.Width, d.Height)
}

func sorted(d Dimensions) [3]float64 {
	s := [3]float64{d.Length, d.Width, d.Height}
	if s[0] > s[1] {
		s[0], s[1] = s[1], s[0]
	}
	if s[1] > s[2] {
		s[1], s[2] = s[2], s[1]
	}
	if s[0] > s[1] {
		s[0], s[1] = s[1], s[0]
	}
	return s
}
