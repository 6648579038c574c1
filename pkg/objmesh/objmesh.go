// Package objmesh reads the geometry summary of Wavefront OBJ files
// without any external tool.
package objmesh

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/soypat/geometry/md3"
)

// Stats summarizes an OBJ file
type Stats struct {
	Vertices int
	Faces    int
	Objects  int // "o" and "g" records
	Bounds   md3.Box
}

// Dimensions returns the extents of the vertex bounds
func (s *Stats) Dimensions() md3.Vec {
	if s.Vertices == 0 {
		return md3.Vec{}
	}
	return s.Bounds.Size()
}

// Read parses OBJ records from r. Only vertex positions, faces and
// object/group names are interpreted; every other record is skipped.
func Read(r io.Reader) (*Stats, error) {
	stats := &Stats{}
	lo := md3.Vec{X: math.Inf(1), Y: math.Inf(1), Z: math.Inf(1)}
	hi := md3.Vec{X: math.Inf(-1), Y: math.Inf(-1), Z: math.Inf(-1)}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	line := 0
	for scanner.Scan() {
		line++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
			continue
		}

		switch fields[0] {
		case "v":
			v, err := parseVertex(fields[1:])
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", line, err)
			}
			lo = md3.MinElem(lo, v)
			hi = md3.MaxElem(hi, v)
			stats.Vertices++
		case "f":
			if len(fields) < 4 {
				return nil, fmt.Errorf("line %d: face has %d vertices", line, len(fields)-1)
			}
			stats.Faces++
		case "o", "g":
			stats.Objects++
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read obj: %w", err)
	}

	if stats.Vertices > 0 {
		stats.Bounds = md3.Box{Min: lo, Max: hi}
	}
	return stats, nil
}

// ReadFile parses the OBJ file at path
func ReadFile(path string) (*Stats, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	stats, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return stats, nil
}

func parseVertex(args []string) (md3.Vec, error) {
	if len(args) < 3 {
		return md3.Vec{}, fmt.Errorf("vertex has %d coordinates", len(args))
	}
	var xyz [3]float64
	for i := range xyz {
		f, err := strconv.ParseFloat(args[i], 64)
		if err != nil {
			return md3.Vec{}, fmt.Errorf("bad vertex coordinate %q", args[i])
		}
		xyz[i] = f
	}
	return md3.Vec{X: xyz[0], Y: xyz[1], Z: xyz[2]}, nil
}

// Verifier counts faces in mesh files on disk
type Verifier struct{}

// CountFaces returns the number of face records in the OBJ at path
func (Verifier) CountFaces(path string) (int, error) {
	stats, err := ReadFile(path)
	if err != nil {
		return 0, err
	}
	return stats.Faces, nil
}
