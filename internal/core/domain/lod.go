package domain

import (
	"fmt"
	"strings"
)

// LOD is a discrete level of detail for exported models
type LOD string

const (
	LODLow    LOD = "low"
	LODMedium LOD = "medium"
	LODHigh   LOD = "high"
)

// DefaultLOD is used when no level of detail is requested
const DefaultLOD = LODMedium

// AllLODs lists every level of detail from coarsest to finest
var AllLODs = []LOD{LODLow, LODMedium, LODHigh}

// ParseLOD validates a level of detail name
func ParseLOD(s string) (LOD, error) {
	switch LOD(strings.ToLower(strings.TrimSpace(s))) {
	case LODLow:
		return LODLow, nil
	case LODMedium:
		return LODMedium, nil
	case LODHigh:
		return LODHigh, nil
	}
	return "", fmt.Errorf("invalid lod %q: must be low, medium or high", s)
}

// DecimationRatio is the fraction of faces kept at this level of detail.
// low keeps 30%, medium 70%, high keeps everything.
func (l LOD) DecimationRatio() float64 {
	switch l {
	case LODLow:
		return 0.3
	case LODMedium:
		return 0.7
	default:
		return 1.0
	}
}

// Decimates reports whether this level of detail reduces the mesh at all
func (l LOD) Decimates() bool {
	return l.DecimationRatio() < 1.0
}

func (l LOD) String() string {
	return string(l)
}
