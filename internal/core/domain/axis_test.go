package domain

import (
	"encoding/json"
	"testing"

	"github.com/soypat/geometry/md3"
)

func TestInferAxis(t *testing.T) {
	tests := []struct {
		name string
		dims md3.Vec
		want Axis
	}{
		{"x longest", md3.Vec{X: 100, Y: 10, Z: 10}, AxisX},
		{"y longest", md3.Vec{X: 10, Y: 50, Z: 5}, AxisY},
		{"z longest", md3.Vec{X: 1, Y: 2, Z: 3}, AxisZ},
		{"all equal prefers x", md3.Vec{X: 5, Y: 5, Z: 5}, AxisX},
		{"x and y tie prefers x", md3.Vec{X: 8, Y: 8, Z: 1}, AxisX},
		{"y and z tie prefers y", md3.Vec{X: 1, Y: 8, Z: 8}, AxisY},
		{"x and z tie prefers x", md3.Vec{X: 8, Y: 1, Z: 8}, AxisX},
		{"zero box", md3.Vec{}, AxisX},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := InferAxis(tt.dims); got != tt.want {
				t.Errorf("InferAxis(%v) = %s, want %s", tt.dims, got, tt.want)
			}
		})
	}
}

func TestParseAxis(t *testing.T) {
	for _, s := range []string{"x", "Y", " z "} {
		if _, err := ParseAxis(s); err != nil {
			t.Errorf("ParseAxis(%q) unexpected error: %v", s, err)
		}
	}
	if _, err := ParseAxis("w"); err == nil {
		t.Error("expected error for invalid axis")
	}
}

func TestAxisOthers(t *testing.T) {
	tests := []struct {
		axis          Axis
		first, second Axis
	}{
		{AxisX, AxisY, AxisZ},
		{AxisY, AxisX, AxisZ},
		{AxisZ, AxisX, AxisY},
	}
	for _, tt := range tests {
		first, second := tt.axis.Others()
		if first != tt.first || second != tt.second {
			t.Errorf("%s.Others() = (%s, %s), want (%s, %s)", tt.axis, first, second, tt.first, tt.second)
		}
	}
}

func TestAxisJSON(t *testing.T) {
	data, err := json.Marshal(struct {
		Axis Axis `json:"axis"`
	}{AxisZ})
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if string(data) != `{"axis":"z"}` {
		t.Errorf("unexpected JSON: %s", data)
	}

	var decoded struct {
		Axis Axis `json:"axis"`
	}
	if err := json.Unmarshal([]byte(`{"axis":"y"}`), &decoded); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if decoded.Axis != AxisY {
		t.Errorf("expected y, got %s", decoded.Axis)
	}

	if err := json.Unmarshal([]byte(`{"axis":"q"}`), &decoded); err == nil {
		t.Error("expected error for invalid axis name")
	}
}
