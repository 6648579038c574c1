package domain

import (
	"path/filepath"
	"strings"

	"github.com/soypat/geometry/md3"
)

const (
	// ProfileTypeCustom is the only profile classification produced today
	ProfileTypeCustom = "custom"
	// MaterialAluminum is the material every profile is rendered with
	MaterialAluminum = "aluminum"
)

// Dimensions holds the profile cross-section and its length
type Dimensions struct {
	Width      float64 `json:"width"`
	Height     float64 `json:"height"`
	BaseLength float64 `json:"baseLength"`
}

// BoundingBox holds the axis-aligned box corners
type BoundingBox struct {
	Min [3]float64 `json:"min"`
	Max [3]float64 `json:"max"`
}

// Metadata is the sidecar record written next to every exported model.
// FileSize stays 0 until the export has completed.
type Metadata struct {
	ID              string         `json:"id"`
	Name            string         `json:"name"`
	ProfileType     string         `json:"profileType"`
	Dimensions      Dimensions     `json:"dimensions"`
	BoundingBox     BoundingBox    `json:"boundingBox"`
	Center          [3]float64     `json:"center"`
	ExtrusionAxis   Axis           `json:"extrusionAxis"`
	Material        string         `json:"material"`
	SupportsTapping bool           `json:"supportsTapping"`
	ModelFile       string         `json:"modelFile"`
	ModelFiles      map[LOD]string `json:"modelFiles,omitempty"`
	LOD             LOD            `json:"lod"`
	FileSize        int64          `json:"fileSize"`
}

// MetadataInput carries everything needed to derive a metadata record
type MetadataInput struct {
	InputPath  string
	OutputPath string
	LOD        LOD
	Unit       Unit
	Plan       NormalizationPlan
	Bounds     md3.Box // world bounds of the exported geometry
	Center     md3.Vec // object origin after centering
}

// NewMetadata derives the metadata record for an export. Lengths are
// converted to inches; width and height are the two non-extrusion axes
// in x, y, z order.
func NewMetadata(in MetadataInput) *Metadata {
	scale := in.Unit.Scale()
	dims := Extents(in.Bounds)
	axis := in.Plan.ResultAxis()
	first, second := axis.Others()

	id := ModelID(in.InputPath)
	lod := in.LOD
	if lod == "" {
		lod = DefaultLOD
	}

	return &Metadata{
		ID:          id,
		Name:        HumanizeID(id),
		ProfileType: ProfileTypeCustom,
		Dimensions: Dimensions{
			Width:      first.Component(dims) * scale,
			Height:     second.Component(dims) * scale,
			BaseLength: axis.Component(dims) * scale,
		},
		BoundingBox: BoundingBox{
			Min: scaled(in.Bounds.Min, scale),
			Max: scaled(in.Bounds.Max, scale),
		},
		Center:          scaled(in.Center, scale),
		ExtrusionAxis:   axis,
		Material:        MaterialAluminum,
		SupportsTapping: true,
		ModelFile:       filepath.Base(in.OutputPath),
		LOD:             lod,
		FileSize:        0,
	}
}

// ExportCompleted reports whether the record describes a finished export
func (m *Metadata) ExportCompleted() bool {
	return m.FileSize > 0
}

// ModelID derives the model identifier from a file path ("/a/8020-1001.step" -> "8020-1001")
func ModelID(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// HumanizeID turns an identifier into a display name ("t-slot-rail" -> "T Slot Rail")
func HumanizeID(id string) string {
	words := strings.Fields(strings.ReplaceAll(id, "-", " "))
	for i, w := range words {
		words[i] = titleWord(w)
	}
	return strings.Join(words, " ")
}

// titleWord upper-cases the first letter of each alphabetic run, like
// Python's str.title ("8020abc" -> "8020Abc").
func titleWord(w string) string {
	var b strings.Builder
	prevLetter := false
	for _, r := range w {
		isLetter := ('a' <= r && r <= 'z') || ('A' <= r && r <= 'Z')
		switch {
		case isLetter && !prevLetter:
			b.WriteString(strings.ToUpper(string(r)))
		case isLetter:
			b.WriteString(strings.ToLower(string(r)))
		default:
			b.WriteRune(r)
		}
		prevLetter = isLetter
	}
	return b.String()
}

func scaled(v md3.Vec, s float64) [3]float64 {
	return [3]float64{v.X * s, v.Y * s, v.Z * s}
}
