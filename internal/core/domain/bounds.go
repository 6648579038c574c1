package domain

import (
	"math"

	"github.com/soypat/geometry/md3"
)

// Matrix4 is a row-major 4x4 affine transform, laid out the way 3D tools
// report an object's world matrix (translation in the last column).
type Matrix4 [4][4]float64

// IdentityMatrix returns the identity transform
func IdentityMatrix() Matrix4 {
	return Matrix4{
		{1, 0, 0, 0},
		{0, 1, 0, 0},
		{0, 0, 1, 0},
		{0, 0, 0, 1},
	}
}

// IsZero reports whether the matrix was never set
func (m Matrix4) IsZero() bool {
	return m == Matrix4{}
}

// Apply transforms a position (w = 1) by the matrix
func (m Matrix4) Apply(v md3.Vec) md3.Vec {
	x := m[0][0]*v.X + m[0][1]*v.Y + m[0][2]*v.Z + m[0][3]
	y := m[1][0]*v.X + m[1][1]*v.Y + m[1][2]*v.Z + m[1][3]
	z := m[2][0]*v.X + m[2][1]*v.Y + m[2][2]*v.Z + m[2][3]
	w := m[3][0]*v.X + m[3][1]*v.Y + m[3][2]*v.Z + m[3][3]
	if w != 0 && w != 1 {
		return md3.Vec{X: x / w, Y: y / w, Z: z / w}
	}
	return md3.Vec{X: x, Y: y, Z: z}
}

// BoundsOf returns the axis-aligned box enclosing points.
// An empty slice yields the zero box.
func BoundsOf(points []md3.Vec) md3.Box {
	if len(points) == 0 {
		return md3.Box{}
	}
	box := md3.Box{Min: points[0], Max: points[0]}
	for _, p := range points[1:] {
		box.Min = md3.MinElem(box.Min, p)
		box.Max = md3.MaxElem(box.Max, p)
	}
	return box
}

// WorldBounds transforms the eight local bounding-box corners by the
// world matrix and returns their componentwise min/max.
func WorldBounds(corners [8]md3.Vec, world Matrix4) md3.Box {
	if world.IsZero() {
		world = IdentityMatrix()
	}
	transformed := make([]md3.Vec, 0, len(corners))
	for _, c := range corners {
		transformed = append(transformed, world.Apply(c))
	}
	return BoundsOf(transformed)
}

// BoxCorners lists the eight corners of a box
func BoxCorners(b md3.Box) [8]md3.Vec {
	return [8]md3.Vec{
		{X: b.Min.X, Y: b.Min.Y, Z: b.Min.Z},
		{X: b.Max.X, Y: b.Min.Y, Z: b.Min.Z},
		{X: b.Max.X, Y: b.Max.Y, Z: b.Min.Z},
		{X: b.Min.X, Y: b.Max.Y, Z: b.Min.Z},
		{X: b.Min.X, Y: b.Min.Y, Z: b.Max.Z},
		{X: b.Max.X, Y: b.Min.Y, Z: b.Max.Z},
		{X: b.Max.X, Y: b.Max.Y, Z: b.Max.Z},
		{X: b.Min.X, Y: b.Max.Y, Z: b.Max.Z},
	}
}

// Extents returns the size of a box along each axis
func Extents(b md3.Box) md3.Vec {
	return b.Size()
}

// roundTiny clears floating point noise left behind by 90° rotations
func roundTiny(v md3.Vec) md3.Vec {
	const eps = 1e-9
	clean := func(f float64) float64 {
		if math.Abs(f) < eps {
			return 0
		}
		return f
	}
	return md3.Vec{X: clean(v.X), Y: clean(v.Y), Z: clean(v.Z)}
}
