package domain

import (
	"testing"

	"github.com/soypat/geometry/md3"
)

func TestWorldBounds_Identity(t *testing.T) {
	local := md3.Box{Min: md3.Vec{X: -1, Y: -2, Z: -3}, Max: md3.Vec{X: 1, Y: 2, Z: 3}}

	got := WorldBounds(BoxCorners(local), IdentityMatrix())
	if got != local {
		t.Errorf("WorldBounds with identity = %v, want %v", got, local)
	}

	// A zero matrix means "not reported" and is treated as identity
	got = WorldBounds(BoxCorners(local), Matrix4{})
	if got != local {
		t.Errorf("WorldBounds with zero matrix = %v, want %v", got, local)
	}
}

func TestWorldBounds_TranslateAndScale(t *testing.T) {
	local := md3.Box{Max: md3.Vec{X: 1, Y: 1, Z: 1}}
	world := Matrix4{
		{2, 0, 0, 10},
		{0, 3, 0, 0},
		{0, 0, 1, -5},
		{0, 0, 0, 1},
	}

	got := WorldBounds(BoxCorners(local), world)
	want := md3.Box{Min: md3.Vec{X: 10, Y: 0, Z: -5}, Max: md3.Vec{X: 12, Y: 3, Z: -4}}
	if got != want {
		t.Errorf("WorldBounds = %v, want %v", got, want)
	}
}

func TestWorldBounds_RotationSwapsExtents(t *testing.T) {
	// 90° about z: (x, y, z) -> (-y, x, z)
	local := md3.Box{Max: md3.Vec{X: 10, Y: 50, Z: 5}}
	world := Matrix4{
		{0, -1, 0, 0},
		{1, 0, 0, 0},
		{0, 0, 1, 0},
		{0, 0, 0, 1},
	}

	dims := Extents(WorldBounds(BoxCorners(local), world))
	if !approxVec(dims, md3.Vec{X: 50, Y: 10, Z: 5}) {
		t.Errorf("dims = %v, want (50, 10, 5)", dims)
	}
}

func TestBoundsOf(t *testing.T) {
	if got := BoundsOf(nil); got != (md3.Box{}) {
		t.Errorf("BoundsOf(nil) = %v, want zero box", got)
	}

	points := []md3.Vec{{X: 1, Y: -1, Z: 0}, {X: -2, Y: 4, Z: 7}, {X: 0, Y: 0, Z: -3}}
	got := BoundsOf(points)
	want := md3.Box{Min: md3.Vec{X: -2, Y: -1, Z: -3}, Max: md3.Vec{X: 1, Y: 4, Z: 7}}
	if got != want {
		t.Errorf("BoundsOf = %v, want %v", got, want)
	}
}
