package domain

import (
	"math"

	"github.com/soypat/geometry/md3"
)

// Rotation is a rotation of Degrees about a principal axis
type Rotation struct {
	Axis    Axis    `json:"axis"`
	Degrees float64 `json:"degrees"`
}

// NormalizationPlan describes how a model is re-oriented so that its
// extrusion runs along the canonical axis.
type NormalizationPlan struct {
	Requested  bool      // --normalize was given
	SourceAxis Axis      // axis detected before any re-orientation
	Recenter   bool      // re-origin to the bounding-box center first
	Rotation   *Rotation // nil when the source axis is already canonical
}

// PlanNormalization decides the re-orientation for a detected axis.
// A y extrusion rotates 90° about z; a z extrusion rotates 90° about y.
func PlanNormalization(detected Axis, normalize bool) NormalizationPlan {
	plan := NormalizationPlan{
		Requested:  normalize,
		SourceAxis: detected,
	}
	if !normalize {
		return plan
	}

	plan.Recenter = true
	switch detected {
	case AxisY:
		plan.Rotation = &Rotation{Axis: AxisZ, Degrees: 90}
	case AxisZ:
		plan.Rotation = &Rotation{Axis: AxisY, Degrees: 90}
	}
	return plan
}

// ResultAxis is the extrusion axis reported in metadata once the plan has
// been applied.
func (p NormalizationPlan) ResultAxis() Axis {
	if p.Requested {
		return CanonicalAxis
	}
	return p.SourceAxis
}

// Rotates reports whether the plan changes the geometry's orientation
func (p NormalizationPlan) Rotates() bool {
	return p.Rotation != nil
}

// Apply predicts the bounds of a box after the plan: recentered at the
// origin and rotated. Plans that do nothing return the box unchanged.
func (p NormalizationPlan) Apply(b md3.Box) md3.Box {
	if !p.Requested {
		return b
	}

	center := b.Center()
	corners := BoxCorners(b)
	for i := range corners {
		corners[i] = md3.Sub(corners[i], center)
	}

	if p.Rotation != nil {
		axis := unitVector(p.Rotation.Axis)
		m := md3.RotationMat4(p.Rotation.Degrees*math.Pi/180, axis)
		for i := range corners {
			corners[i] = roundTiny(m.MulPosition(corners[i]))
		}
	}

	// Recentering moves the origin, not the geometry; shift back so the
	// world-space position is preserved.
	moved := BoundsOf(corners[:])
	return md3.Box{Min: md3.Add(moved.Min, center), Max: md3.Add(moved.Max, center)}
}

func unitVector(a Axis) md3.Vec {
	switch a {
	case AxisY:
		return md3.Vec{Y: 1}
	case AxisZ:
		return md3.Vec{Z: 1}
	default:
		return md3.Vec{X: 1}
	}
}
