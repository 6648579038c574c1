package domain

import (
	"path/filepath"
	"strings"
)

// IsSTEP reports whether path names a STEP file (.step or .stp, any case)
func IsSTEP(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".step", ".stp":
		return true
	}
	return false
}

// IsOBJ reports whether path names a Wavefront OBJ file
func IsOBJ(path string) bool {
	return strings.ToLower(filepath.Ext(path)) == ".obj"
}

// IsImportable reports whether the scene engine can import path
func IsImportable(path string) bool {
	return IsSTEP(path) || IsOBJ(path)
}
