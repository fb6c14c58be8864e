package meshgen

import (
	_ "embed"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// DefaultResolution is the grid resolution the embedded index buffer was written for.
const DefaultResolution = 16

// ErrBadIndices is returned when an index buffer does not describe an N×N quad grid.
var ErrBadIndices = errors.New("bad index buffer")

//go:embed resources/indices16.txt
var indices16 string

// ParseIndices reads a comma-separated triangle list for an n×n grid of quads.
func ParseIndices(src string, n int) ([]uint32, error) {
	if n < 1 {
		return nil, fmt.Errorf("%w: resolution %d", ErrBadIndices, n)
	}

	fields := strings.Split(strings.TrimSpace(src), ",")
	want := 6 * n * n
	if len(fields) != want {
		return nil, fmt.Errorf("%w: got %d indices, want %d", ErrBadIndices, len(fields), want)
	}

	vertices := uint64((n + 1) * (n + 1))
	out := make([]uint32, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseUint(strings.TrimSpace(f), 10, 32)
		if err != nil {
			return nil, fmt.Errorf("%w: index %d: %v", ErrBadIndices, i, err)
		}
		if v >= vertices {
			return nil, fmt.Errorf("%w: index %d is %d, grid has %d vertices", ErrBadIndices, i, v, vertices)
		}
		out[i] = uint32(v)
	}
	return out, nil
}

// GridIndices generates the triangle list for an n×n grid of quads. Vertex (x, y) has
// index y*(n+1)+x and every triangle winds counter-clockwise seen from outside the planet.
func GridIndices(n int) []uint32 {
	out := make([]uint32, 0, 6*n*n)
	row := uint32(n + 1)
	for y := 0; y < n; y++ {
		for x := 0; x < n; x++ {
			i := uint32(y)*row + uint32(x)
			out = append(out,
				i, i+row, i+1,
				i+1, i+row, i+row+1,
			)
		}
	}
	return out
}

// Indices returns the index buffer for resolution n, parsed from the embedded resource
// when one exists for n.
func Indices(n int) ([]uint32, error) {
	if n == DefaultResolution {
		return ParseIndices(indices16, n)
	}
	if n < 1 {
		return nil, fmt.Errorf("%w: resolution %d", ErrBadIndices, n)
	}
	return GridIndices(n), nil
}
