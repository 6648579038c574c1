package domain

import (
	"math"
	"testing"

	"github.com/soypat/geometry/md3"
)

const tolerance = 1e-9

func approxVec(a, b md3.Vec) bool {
	return math.Abs(a.X-b.X) < tolerance &&
		math.Abs(a.Y-b.Y) < tolerance &&
		math.Abs(a.Z-b.Z) < tolerance
}

func TestPlanNormalization(t *testing.T) {
	tests := []struct {
		name       string
		axis       Axis
		normalize  bool
		wantRotate *Rotation
		wantResult Axis
	}{
		{"not requested keeps y", AxisY, false, nil, AxisY},
		{"not requested keeps z", AxisZ, false, nil, AxisZ},
		{"x is already canonical", AxisX, true, nil, AxisX},
		{"y rotates about z", AxisY, true, &Rotation{Axis: AxisZ, Degrees: 90}, AxisX},
		{"z rotates about y", AxisZ, true, &Rotation{Axis: AxisY, Degrees: 90}, AxisX},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan := PlanNormalization(tt.axis, tt.normalize)

			if plan.SourceAxis != tt.axis {
				t.Errorf("SourceAxis = %s, want %s", plan.SourceAxis, tt.axis)
			}
			if plan.Recenter != tt.normalize {
				t.Errorf("Recenter = %v, want %v", plan.Recenter, tt.normalize)
			}
			if plan.ResultAxis() != tt.wantResult {
				t.Errorf("ResultAxis = %s, want %s", plan.ResultAxis(), tt.wantResult)
			}

			switch {
			case tt.wantRotate == nil && plan.Rotation != nil:
				t.Errorf("expected no rotation, got %+v", *plan.Rotation)
			case tt.wantRotate != nil && plan.Rotation == nil:
				t.Errorf("expected rotation %+v, got none", *tt.wantRotate)
			case tt.wantRotate != nil && *plan.Rotation != *tt.wantRotate:
				t.Errorf("rotation = %+v, want %+v", *plan.Rotation, *tt.wantRotate)
			}
		})
	}
}

func TestNormalizationPlan_ApplyAlignsExtrusionWithX(t *testing.T) {
	tests := []struct {
		name     string
		box      md3.Box
		wantDims md3.Vec
	}{
		{
			name:     "y extrusion",
			box:      md3.Box{Max: md3.Vec{X: 10, Y: 50, Z: 5}},
			wantDims: md3.Vec{X: 50, Y: 10, Z: 5},
		},
		{
			name:     "z extrusion",
			box:      md3.Box{Min: md3.Vec{X: -2, Y: -3, Z: 0}, Max: md3.Vec{X: 2, Y: 3, Z: 40}},
			wantDims: md3.Vec{X: 40, Y: 6, Z: 4},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			axis := InferAxis(Extents(tt.box))
			plan := PlanNormalization(axis, true)

			got := plan.Apply(tt.box)
			if !approxVec(Extents(got), tt.wantDims) {
				t.Errorf("dims after normalization = %v, want %v", Extents(got), tt.wantDims)
			}
			if !approxVec(got.Center(), tt.box.Center()) {
				t.Errorf("center moved from %v to %v", tt.box.Center(), got.Center())
			}
			if InferAxis(Extents(got)) != AxisX {
				t.Errorf("expected extrusion along x after normalization, got %s", InferAxis(Extents(got)))
			}
		})
	}
}

func TestNormalizationPlan_Idempotent(t *testing.T) {
	box := md3.Box{Min: md3.Vec{X: -50, Y: -5, Z: -5}, Max: md3.Vec{X: 50, Y: 5, Z: 5}}

	first := PlanNormalization(InferAxis(Extents(box)), true)
	once := first.Apply(box)

	second := PlanNormalization(InferAxis(Extents(once)), true)
	if second.Rotates() {
		t.Fatalf("canonical input should not rotate, got %+v", *second.Rotation)
	}
	twice := second.Apply(once)

	if !approxVec(Extents(once), Extents(twice)) {
		t.Errorf("dims changed on second normalization: %v -> %v", Extents(once), Extents(twice))
	}
	if first.ResultAxis() != second.ResultAxis() {
		t.Errorf("axis label changed: %s -> %s", first.ResultAxis(), second.ResultAxis())
	}
}

func TestNormalizationPlan_NotRequestedIsNoop(t *testing.T) {
	box := md3.Box{Min: md3.Vec{X: 1, Y: 2, Z: 3}, Max: md3.Vec{X: 4, Y: 20, Z: 6}}
	plan := PlanNormalization(AxisY, false)
	if got := plan.Apply(box); got != box {
		t.Errorf("Apply without normalization changed box: %v -> %v", box, got)
	}
}
