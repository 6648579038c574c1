package domain

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/soypat/geometry/md3"
)

// Axis identifies one of the three local axes of a model
type Axis int

const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

// CanonicalAxis is the axis a normalized extrusion runs along
const CanonicalAxis = AxisX

var axisNames = [...]string{"x", "y", "z"}

// String returns the lowercase axis name ("x", "y" or "z")
func (a Axis) String() string {
	if a < AxisX || a > AxisZ {
		return fmt.Sprintf("axis(%d)", int(a))
	}
	return axisNames[a]
}

// ParseAxis converts "x", "y" or "z" (case-insensitive) into an Axis
func ParseAxis(s string) (Axis, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "x":
		return AxisX, nil
	case "y":
		return AxisY, nil
	case "z":
		return AxisZ, nil
	}
	return AxisX, fmt.Errorf("invalid axis %q: must be x, y or z", s)
}

// MarshalJSON encodes the axis as its name
func (a Axis) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.String())
}

// UnmarshalJSON decodes an axis name
func (a *Axis) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseAxis(s)
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// Component returns the value of v along axis a
func (a Axis) Component(v md3.Vec) float64 {
	switch a {
	case AxisY:
		return v.Y
	case AxisZ:
		return v.Z
	default:
		return v.X
	}
}

// Others returns the two remaining axes in x, y, z order
func (a Axis) Others() (Axis, Axis) {
	switch a {
	case AxisY:
		return AxisX, AxisZ
	case AxisZ:
		return AxisX, AxisY
	default:
		return AxisY, AxisZ
	}
}

// InferAxis returns the extrusion axis: the axis with the largest dimension.
// Ties go to the earlier axis (x before y before z).
func InferAxis(dims md3.Vec) Axis {
	best := AxisX
	for _, a := range []Axis{AxisY, AxisZ} {
		if a.Component(dims) > best.Component(dims) {
			best = a
		}
	}
	return best
}
