package terrain

import (
	"errors"
	"math"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/spacecraft/internal/logger"
	"github.com/Faultbox/spacecraft/internal/queue"
	"github.com/Faultbox/spacecraft/pkg/quadtree"
)

// DefaultLODMultiplier is the distance multiplier used when none is configured.
const DefaultLODMultiplier float32 = 7

// LODPolicy decides when a patch is close enough to split.
type LODPolicy struct {
	Multiplier float32
	// Scale is the planet radius.
	Scale float32
}

// Threshold returns the camera distance below which a patch at level splits.
// It halves with every level.
func (p LODPolicy) Threshold(level uint8) float32 {
	return p.Multiplier * float32(math.Ldexp(1, -int(level))) * p.Scale
}

// UpdateStats counts what one traversal did.
type UpdateStats struct {
	Visited   int `json:"visited"`
	Splits    int `json:"splits"`
	Merges    int `json:"merges"`
	Rollbacks int `json:"rollbacks"`
	Postponed int `json:"postponed"`
}

func (s *UpdateStats) add(o UpdateStats) {
	s.Visited += o.Visited
	s.Splits += o.Splits
	s.Merges += o.Merges
	s.Rollbacks += o.Rollbacks
	s.Postponed += o.Postponed
}

// QuadTree is the patch tree of one cube face together with its LOD policy.
type QuadTree struct {
	face   Face
	tree   *quadtree.Tree[Patch]
	policy LODPolicy
	sched  Scheduler
	log    *zap.Logger
	warn   *logger.Throttled
}

// NewQuadTree creates a face tree holding only the root patch. It does not schedule the
// root mesh; Planet does that for all faces at once.
func NewQuadTree(face Face, maxDepth uint8, policy LODPolicy, sched Scheduler) *QuadTree {
	log := logger.Named("terrain").With(zap.Stringer("face", face))
	return &QuadTree{
		face:   face,
		tree:   quadtree.New(maxDepth, RootPatch(face, policy.Scale), DeriveChild),
		policy: policy,
		sched:  sched,
		log:    log,
		warn:   logger.NewThrottled(log, time.Second),
	}
}

// Face returns the cube face the tree covers.
func (t *QuadTree) Face() Face {
	return t.face
}

// Root returns the root node.
func (t *QuadTree) Root() quadtree.Node[Patch] {
	return t.tree.Root()
}

// Tree exposes the underlying container.
func (t *QuadTree) Tree() *quadtree.Tree[Patch] {
	return t.tree
}

// Ref returns the planet-wide reference to a node of this tree.
func (t *QuadTree) Ref(h quadtree.Handle) PatchRef {
	return PatchRef{Face: t.face, Node: h}
}

// Update walks the tree depth-first and splits or merges against the camera position.
func (t *QuadTree) Update(camera mgl32.Vec3) UpdateStats {
	var stats UpdateStats
	t.visit(t.tree.Root(), camera, &stats)
	instrumentNodeCount(t.face, t.tree.Len())
	return stats
}

func (t *QuadTree) visit(n quadtree.Node[Patch], camera mgl32.Vec3, stats *UpdateStats) {
	stats.Visited++
	p := n.Data()
	near := camera.Sub(p.Center).Len() <= t.policy.Threshold(n.Level())

	if !n.HasChildren() {
		if near && t.split(n, stats) {
			for _, c := range n.Children() {
				t.visit(c, camera, stats)
			}
		}
		return
	}

	if !near {
		t.merge(n, stats)
		return
	}
	for _, c := range n.Children() {
		t.visit(c, camera, stats)
	}
}

// split creates the children and schedules their meshes plus a Hide for n. If the queue
// refuses the batch the split is undone and retried on the next frame.
func (t *QuadTree) split(n quadtree.Node[Patch], stats *UpdateStats) bool {
	if !n.Split() {
		return false
	}

	parent := t.Ref(n.Handle())
	children := n.Children()
	reqs := make([]Request, 0, len(children)+1)
	for _, c := range children {
		reqs = append(reqs, Request{
			Kind:   RequestCreate,
			Ref:    t.Ref(c.Handle()),
			Parent: parent,
			Patch:  c.Data(),
			Scale:  t.policy.Scale,
		})
	}
	reqs = append(reqs, Request{
		Kind:  RequestHide,
		Ref:   parent,
		Patch: n.Data(),
		Scale: t.policy.Scale,
	})

	if err := t.sched.ScheduleBatch(reqs...); err != nil {
		n.Merge()
		stats.Rollbacks++
		instrumentRollback(t.face)
		t.warn.Warn("split rolled back",
			zap.Stringer("node", n.Handle()),
			zap.Uint8("level", n.Level()),
			zap.Error(err),
		)
		return false
	}

	stats.Splits++
	instrumentSplit(t.face)
	return true
}

// merge schedules a Remove for every node below n plus a Show for n, then drops the
// subtree. If the queue refuses the batch the merge waits for the next frame. A subtree
// too large to ever fit is collapsed bottom-up, one level per frame.
func (t *QuadTree) merge(n quadtree.Node[Patch], stats *UpdateStats) {
	dropped := n.Descendants()
	reqs := make([]Request, 0, len(dropped)+1)
	for _, e := range dropped {
		reqs = append(reqs, Request{
			Kind:   RequestRemove,
			Ref:    t.Ref(e.Handle),
			Parent: t.Ref(e.Parent),
			Patch:  e.Data,
			Scale:  t.policy.Scale,
		})
	}
	reqs = append(reqs, Request{
		Kind:  RequestShow,
		Ref:   t.Ref(n.Handle()),
		Patch: n.Data(),
		Scale: t.policy.Scale,
	})

	err := t.sched.ScheduleBatch(reqs...)
	if errors.Is(err, queue.ErrBatchTooLarge) {
		for _, c := range n.Children() {
			if c.HasChildren() {
				t.merge(c, stats)
			}
		}
	}
	if err != nil {
		stats.Postponed++
		instrumentPostpone(t.face)
		t.warn.Warn("merge postponed",
			zap.Stringer("node", n.Handle()),
			zap.Int("subtree", len(dropped)),
			zap.Error(err),
		)
		return
	}

	n.Merge()
	stats.Merges++
	instrumentMerge(t.face)
}
