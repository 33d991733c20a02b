// Package geom holds the integer and floating-point coordinate types that
// command arguments resolve to.
package geom

import (
	"fmt"
	"math"

	"github.com/dekarrin/rezi"
)

// Point3 is an integer block coordinate.
type Point3 struct {
	X, Y, Z int
}

// Vector3 is a floating-point world coordinate.
type Vector3 struct {
	X, Y, Z float64
}

// Point2 is an integer coordinate on a plane.
type Point2 struct {
	X, Y int
}

// Vector2 is a floating-point coordinate on a plane.
type Vector2 struct {
	X, Y float64
}

// Vector returns the world coordinate of p.
func (p Point3) Vector() Vector3 {
	return Vector3{X: float64(p.X), Y: float64(p.Y), Z: float64(p.Z)}
}

// Add returns p offset by the given amounts.
func (p Point3) Add(dx, dy, dz int) Point3 {
	return Point3{X: p.X + dx, Y: p.Y + dy, Z: p.Z + dz}
}

func (p Point3) String() string {
	return fmt.Sprintf("(%d, %d, %d)", p.X, p.Y, p.Z)
}

// Point rounds v to the block coordinate containing it. Halves round up.
func (v Vector3) Point() Point3 {
	return Point3{
		X: int(math.Floor(v.X + 0.5)),
		Y: int(math.Floor(v.Y + 0.5)),
		Z: int(math.Floor(v.Z + 0.5)),
	}
}

// Sub returns v - o.
func (v Vector3) Sub(o Vector3) Vector3 {
	return Vector3{X: v.X - o.X, Y: v.Y - o.Y, Z: v.Z - o.Z}
}

// LengthSquared returns the squared euclidean length of v.
func (v Vector3) LengthSquared() float64 {
	return v.X*v.X + v.Y*v.Y + v.Z*v.Z
}

// DistanceSquared returns the squared distance between v and o.
func (v Vector3) DistanceSquared(o Vector3) float64 {
	return v.Sub(o).LengthSquared()
}

func (v Vector3) String() string {
	return fmt.Sprintf("(%g, %g, %g)", v.X, v.Y, v.Z)
}

// MarshalBinary converts p into a slice of bytes that can be decoded with
// UnmarshalBinary.
func (p Point3) MarshalBinary() ([]byte, error) {
	var data []byte
	data = append(data, rezi.EncInt(p.X)...)
	data = append(data, rezi.EncInt(p.Y)...)
	data = append(data, rezi.EncInt(p.Z)...)
	return data, nil
}

// UnmarshalBinary decodes a slice of bytes that was created with
// MarshalBinary.
func (p *Point3) UnmarshalBinary(data []byte) error {
	var decoded Point3
	axes := []*int{&decoded.X, &decoded.Y, &decoded.Z}
	names := []string{"x", "y", "z"}

	for i := range axes {
		val, n, err := rezi.DecInt(data)
		if err != nil {
			return fmt.Errorf("%s: %w", names[i], err)
		}
		*axes[i] = val
		data = data[n:]
	}

	*p = decoded
	return nil
}

// Box is an axis-aligned region of block coordinates, inclusive on both
// corners.
type Box struct {
	Min, Max Point3
}

// BoxOf returns the Box spanned by the two corners in any order.
func BoxOf(a, b Point3) Box {
	return Box{
		Min: Point3{X: min(a.X, b.X), Y: min(a.Y, b.Y), Z: min(a.Z, b.Z)},
		Max: Point3{X: max(a.X, b.X), Y: max(a.Y, b.Y), Z: max(a.Z, b.Z)},
	}
}

// Volume returns the number of block coordinates in the box.
func (b Box) Volume() int {
	return (b.Max.X - b.Min.X + 1) * (b.Max.Y - b.Min.Y + 1) * (b.Max.Z - b.Min.Z + 1)
}

// Each calls fn on every coordinate in the box, x fastest.
func (b Box) Each(fn func(p Point3)) {
	for z := b.Min.Z; z <= b.Max.Z; z++ {
		for y := b.Min.Y; y <= b.Max.Y; y++ {
			for x := b.Min.X; x <= b.Max.X; x++ {
				fn(Point3{X: x, Y: y, Z: z})
			}
		}
	}
}
