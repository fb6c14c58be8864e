package meshgen

import (
	"errors"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/spacecraft/internal/terrain"
	"github.com/Faultbox/spacecraft/pkg/quadtree"
)

func newTestBuilder(t *testing.T, n int, d Displacer) *Builder {
	t.Helper()
	b, err := NewBuilder(n, GridIndices(n), d)
	require.NoError(t, err)
	return b
}

func TestNewBuilder_RejectsMismatchedIndices(t *testing.T) {
	_, err := NewBuilder(4, GridIndices(3), nil)
	assert.True(t, errors.Is(err, ErrBadIndices))

	bad := GridIndices(2)
	bad[5] = 9
	_, err = NewBuilder(2, bad, nil)
	assert.True(t, errors.Is(err, ErrBadIndices))

	_, err = NewBuilder(0, nil, nil)
	assert.True(t, errors.Is(err, ErrBadIndices))
}

func TestBuilder_Counts(t *testing.T) {
	b := newTestBuilder(t, DefaultResolution, Smooth{})
	p := terrain.RootPatch(terrain.Top, 10)

	assert.Len(t, b.Vertices(p, 10), 17*17)

	m := b.Build(p, 10)
	assert.Len(t, m.Positions, 6*16*16)
	assert.Len(t, m.Normals, len(m.Positions))
	assert.Equal(t, 2*16*16, m.TriangleCount())
}

func TestBuilder_OnSphere(t *testing.T) {
	const radius = 50
	b := newTestBuilder(t, 8, Smooth{})

	for _, f := range terrain.Faces {
		for _, v := range b.Vertices(terrain.RootPatch(f, radius), radius) {
			assert.InDelta(t, radius, v.Len(), 1e-3, "face %s", f)
		}
	}
}

func TestBuilder_NormalsPointOutward(t *testing.T) {
	b := newTestBuilder(t, 4, Smooth{})

	for _, f := range terrain.Faces {
		root := terrain.RootPatch(f, 1)
		for _, p := range []terrain.Patch{root, terrain.DeriveChild(root, quadtree.BottomRight, 1)} {
			m := b.Build(p, 1)
			for i := 0; i < len(m.Positions); i += 3 {
				centroid := m.Positions[i].Add(m.Positions[i+1]).Add(m.Positions[i+2]).Mul(1.0 / 3)
				n := m.Normals[i]
				assert.InDelta(t, 1, n.Len(), 1e-4)
				assert.Positive(t, n.Dot(centroid), "face %s triangle %d", f, i/3)
				assert.Equal(t, n, m.Normals[i+1])
				assert.Equal(t, n, m.Normals[i+2])
			}
		}
	}
}

func TestBuilder_SiblingEdgesMeet(t *testing.T) {
	const n = 4
	b := newTestBuilder(t, n, Smooth{})
	root := terrain.RootPatch(terrain.Right, 20)

	left := b.Vertices(terrain.DeriveChild(root, quadtree.TopLeft, 1), 20)
	right := b.Vertices(terrain.DeriveChild(root, quadtree.TopRight, 1), 20)

	for y := 0; y <= n; y++ {
		l := left[y*(n+1)+n]
		r := right[y*(n+1)]
		assert.True(t, l.ApproxEqualThreshold(r, 1e-4), "row %d: %v != %v", y, l, r)
	}
}

func TestBuilder_Bounds(t *testing.T) {
	b := newTestBuilder(t, 4, Smooth{})
	m := b.Build(terrain.RootPatch(terrain.Top, 10), 10)

	for _, v := range m.Positions {
		for i := 0; i < 3; i++ {
			assert.GreaterOrEqual(t, v[i], m.Bounds.Min[i])
			assert.LessOrEqual(t, v[i], m.Bounds.Max[i])
		}
	}
	assert.InDelta(t, 10, m.Bounds.Max.Y(), 1e-4)
}

func TestSimplex_Deterministic(t *testing.T) {
	cfg := DefaultNoiseConfig()
	a := NewSimplex(cfg)
	b := NewSimplex(cfg)

	p := mgl32.Vec3{0.3, 0.8, -0.52}.Normalize()
	assert.Equal(t, a.Height(p), b.Height(p))
	assert.LessOrEqual(t, abs32(a.Height(p)), float32(cfg.Amplitude))
}

func TestNoise_DisplacesWithinAmplitude(t *testing.T) {
	const radius = 100
	cfg := DefaultNoiseConfig()
	cfg.Amplitude = 0.1
	b := newTestBuilder(t, 8, NewDisplacer(cfg))

	varied := false
	for _, v := range b.Vertices(terrain.RootPatch(terrain.Front, radius), radius) {
		l := v.Len()
		assert.InDelta(t, radius, l, radius*cfg.Amplitude+1e-3)
		if abs32(l-radius) > 1e-3 {
			varied = true
		}
	}
	assert.True(t, varied)
}

func TestNewDisplacer_Disabled(t *testing.T) {
	cfg := DefaultNoiseConfig()
	cfg.Enabled = false
	assert.IsType(t, Smooth{}, NewDisplacer(cfg))

	cfg.Enabled = true
	assert.IsType(t, &Simplex{}, NewDisplacer(cfg))
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
