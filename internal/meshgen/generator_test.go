package meshgen

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/spacecraft/internal/scene"
	"github.com/Faultbox/spacecraft/internal/terrain"
)

type fixture struct {
	queue  *Queue
	planet *terrain.Planet
	graph  *scene.Graph
	gen    *Generator
}

func newFixture(t *testing.T, maxDepth uint8) *fixture {
	t.Helper()
	q := NewQueue(1000)
	p, err := terrain.New(terrain.Config{Radius: 100, MaxDepth: maxDepth, LODMultiplier: 7}, q)
	require.NoError(t, err)

	g := scene.NewGraph(scene.NewAssets())
	return &fixture{
		queue:  q,
		planet: p,
		graph:  g,
		gen:    NewGenerator(q, newTestBuilder(t, 4, Smooth{}), p, g, 0),
	}
}

func (f *fixture) entity(t *testing.T, face terrain.Face) scene.Entity {
	t.Helper()
	root := f.planet.Tree(face).Root()
	return root.Data().Entity
}

func TestGenerator_CreatesRoots(t *testing.T) {
	f := newFixture(t, 2)

	assert.Equal(t, 6, f.gen.Drain(0))
	assert.Equal(t, 6, f.graph.Len())
	assert.Equal(t, 6, f.graph.Assets().MeshCount())

	for _, face := range terrain.Faces {
		e := f.entity(t, face)
		require.NotZero(t, e)
		assert.True(t, f.graph.Visible(e))
	}

	s := f.gen.Stats()
	assert.EqualValues(t, 6, s.Created)
	assert.Zero(t, s.Stale)
	assert.Zero(t, s.Pending)
}

func TestGenerator_SplitAndMerge(t *testing.T) {
	f := newFixture(t, 2)
	f.gen.Drain(0)

	near := terrain.Top.DirectionVector().Mul(100)
	f.planet.Update(near)
	f.gen.Drain(0)

	// Every node of every face has an entity, only the leaves are visible.
	assert.Equal(t, 6*21, f.graph.Len())
	assert.Len(t, f.graph.Drawables(), 6*16)
	root := f.entity(t, terrain.Top)
	assert.False(t, f.graph.Visible(root))
	assert.Len(t, f.graph.Children(root), 4)

	for _, c := range f.planet.Tree(terrain.Top).Root().Children() {
		e := c.Data().Entity
		require.NotZero(t, e)
		assert.Equal(t, root, f.graph.Parent(e))
	}

	f.planet.Update(mgl32.Vec3{0, 1e5, 0})
	f.gen.Drain(0)

	assert.Equal(t, 6, f.graph.Len())
	assert.Len(t, f.graph.Drawables(), 6)
	assert.True(t, f.graph.Visible(root))
	assert.Equal(t, 6, f.graph.Assets().MeshCount())
	assert.Equal(t, 6, f.graph.Assets().MaterialCount())

	s := f.gen.Stats()
	assert.EqualValues(t, 6*21, s.Created)
	assert.EqualValues(t, 6*4, s.Removed)
	assert.EqualValues(t, 6*16, s.Stale)
	assert.EqualValues(t, 6*5, s.Hidden)
	assert.EqualValues(t, 6, s.Shown)
}

func TestGenerator_CreateThenRemoveInOneDrain(t *testing.T) {
	f := newFixture(t, 1)
	f.gen.Drain(0)

	f.planet.Update(terrain.Top.DirectionVector().Mul(100))
	f.planet.Update(mgl32.Vec3{0, 1e5, 0})
	f.gen.Drain(0)

	assert.Equal(t, 6, f.graph.Len())
	assert.Len(t, f.graph.Drawables(), 6)
	for _, face := range terrain.Faces {
		assert.True(t, f.graph.Visible(f.entity(t, face)))
	}

	s := f.gen.Stats()
	assert.EqualValues(t, 6, s.Created)
	assert.Zero(t, s.Removed)
	// Four Creates and four Removes per face found nothing to act on.
	assert.EqualValues(t, 6*8, s.Stale)
}

func TestGenerator_RemoveOfDespawnedEntityIsSkipped(t *testing.T) {
	f := newFixture(t, 1)
	f.gen.Drain(0)

	e := f.entity(t, terrain.Left)
	f.graph.DespawnRecursive(e)

	require.NoError(t, f.queue.Schedule(terrain.Request{
		Kind:  terrain.RequestRemove,
		Ref:   f.planet.Tree(terrain.Left).Ref(f.planet.Tree(terrain.Left).Root().Handle()),
		Patch: terrain.Patch{Entity: e},
	}))
	f.gen.Drain(0)

	assert.EqualValues(t, 1, f.gen.Stats().Stale)
	assert.Zero(t, f.gen.Stats().Removed)
}

func TestGenerator_DuplicateCreateIsSkipped(t *testing.T) {
	f := newFixture(t, 1)
	f.gen.Drain(0)

	tree := f.planet.Tree(terrain.Back)
	require.NoError(t, f.queue.Schedule(terrain.Request{
		Kind:  terrain.RequestCreate,
		Ref:   tree.Ref(tree.Root().Handle()),
		Scale: 100,
	}))
	f.gen.Drain(0)

	assert.Equal(t, 6, f.graph.Len())
	assert.EqualValues(t, 1, f.gen.Stats().Stale)
}

func TestGenerator_DrainMax(t *testing.T) {
	f := newFixture(t, 1)

	assert.Equal(t, 4, f.gen.Drain(4))
	assert.Equal(t, 2, f.gen.Stats().Pending)
	assert.Equal(t, 2, f.gen.Drain(4))
	assert.Zero(t, f.gen.Drain(4))
}

func TestPatchMaterial(t *testing.T) {
	a := PatchMaterial(terrain.Top, 3)
	assert.Equal(t, a, PatchMaterial(terrain.Top, 3))
	assert.NotEqual(t, a, PatchMaterial(terrain.Top, 4))
	assert.NotEqual(t, a, PatchMaterial(terrain.Right, 3))
	assert.InDelta(t, 1, a.BaseColor.W(), 1e-6)

	deep := PatchMaterial(terrain.Front, 200)
	assert.Equal(t, PatchMaterial(terrain.Front, 100), deep)
}
