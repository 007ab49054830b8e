// Package geometry provides the axis-aligned value types used by the packer:
// dimensions, points and boxes in a container-local coordinate frame, plus the
// orientation set an item may be rotated into.
package geometry
