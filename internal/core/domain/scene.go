package domain

import (
	"github.com/soypat/geometry/md3"
)

// SurfaceAppearance describes the PBR material assigned before export
type SurfaceAppearance struct {
	Name      string     `json:"name"`
	BaseColor [4]float64 `json:"base_color"`
	Metallic  float64    `json:"metallic"`
	Roughness float64    `json:"roughness"`
	Specular  float64    `json:"specular"`
}

// AluminumAppearance is the fixed brushed-aluminum look of every profile
var AluminumAppearance = SurfaceAppearance{
	Name:      "Aluminum",
	BaseColor: [4]float64{0.91, 0.91, 0.91, 1.0},
	Metallic:  0.9,
	Roughness: 0.2,
	Specular:  0.5,
}

// DracoCompressionLevel is the compression level used when --compress is set
const DracoCompressionLevel = 6

// SceneReport is what a 3D engine reports about the joined, imported object
type SceneReport struct {
	Objects     int           `json:"objects"`
	BoundBox    [8][3]float64 `json:"bound_box"`    // local corners
	MatrixWorld Matrix4       `json:"matrix_world"` // row-major
	Location    [3]float64    `json:"location"`
	Faces       int           `json:"faces"`
	Messages    []string      `json:"messages,omitempty"`
}

// Corners returns the local bounding-box corners as vectors
func (r *SceneReport) Corners() [8]md3.Vec {
	var corners [8]md3.Vec
	for i, c := range r.BoundBox {
		corners[i] = md3.Vec{X: c[0], Y: c[1], Z: c[2]}
	}
	return corners
}

// WorldBounds returns the world-space axis-aligned bounds of the object
func (r *SceneReport) WorldBounds() md3.Box {
	return WorldBounds(r.Corners(), r.MatrixWorld)
}

// Origin returns the object location
func (r *SceneReport) Origin() md3.Vec {
	return md3.Vec{X: r.Location[0], Y: r.Location[1], Z: r.Location[2]}
}

// InspectRequest asks an engine to import a model and report its bounds
type InspectRequest struct {
	Input string `json:"input"`
}

// ExportSpec is the typed request an engine executes to produce a model
type ExportSpec struct {
	Input            string            `json:"input"`
	Output           string            `json:"output"`
	Recenter         bool              `json:"recenter"`
	CenterAtOrigin   bool              `json:"center_at_origin"`
	Rotation         *Rotation         `json:"rotation,omitempty"`
	DecimateRatio    float64           `json:"decimate_ratio"` // 0 disables decimation
	Appearance       SurfaceAppearance `json:"appearance"`
	Compress         bool              `json:"compress"`
	CompressionLevel int               `json:"compression_level"`
}

// Decimates reports whether the export asks for mesh reduction
func (s ExportSpec) Decimates() bool {
	return s.DecimateRatio > 0 && s.DecimateRatio < 1
}
