package terrain

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/spacecraft/internal/logger"
	"github.com/Faultbox/spacecraft/internal/scene"
	"github.com/Faultbox/spacecraft/pkg/quadtree"
)

// Config holds the planet parameters.
type Config struct {
	Radius        float32
	MaxDepth      uint8
	LODMultiplier float32
}

// DefaultConfig returns the settings used when nothing is configured.
func DefaultConfig() Config {
	return Config{
		Radius:        1000,
		MaxDepth:      8,
		LODMultiplier: DefaultLODMultiplier,
	}
}

// Validate checks that the config describes a planet.
func (c Config) Validate() error {
	if c.Radius <= 0 {
		return fmt.Errorf("planet radius must be positive, got %v", c.Radius)
	}
	if c.LODMultiplier <= 0 {
		return fmt.Errorf("lod multiplier must be positive, got %v", c.LODMultiplier)
	}
	return nil
}

// Stats describes the shape of the forest.
type Stats struct {
	Nodes  int   `json:"nodes"`
	Leaves int   `json:"leaves"`
	Levels []int `json:"levels"`
}

// Planet owns the six face trees.
type Planet struct {
	cfg   Config
	trees [6]*QuadTree
	log   *zap.Logger
}

// New builds the six root patches and schedules their meshes in one batch.
func New(cfg Config, sched Scheduler) (*Planet, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if sched == nil {
		return nil, errors.New("planet needs a scheduler")
	}

	p := &Planet{
		cfg: cfg,
		log: logger.Named("planet"),
	}
	policy := LODPolicy{Multiplier: cfg.LODMultiplier, Scale: cfg.Radius}

	reqs := make([]Request, 0, len(Faces))
	for _, f := range Faces {
		t := NewQuadTree(f, cfg.MaxDepth, policy, sched)
		p.trees[f] = t
		root := t.Root()
		reqs = append(reqs, Request{
			Kind:  RequestCreate,
			Ref:   t.Ref(root.Handle()),
			Patch: root.Data(),
			Scale: cfg.Radius,
		})
	}
	if err := sched.ScheduleBatch(reqs...); err != nil {
		return nil, fmt.Errorf("scheduling root patches: %w", err)
	}

	p.log.Info("planet created",
		zap.Float32("radius", cfg.Radius),
		zap.Uint8("max_depth", cfg.MaxDepth),
		zap.Float32("lod_multiplier", cfg.LODMultiplier),
	)
	return p, nil
}

// Config returns the planet parameters.
func (p *Planet) Config() Config {
	return p.cfg
}

// Update runs the LOD traversal of every face tree.
func (p *Planet) Update(camera mgl32.Vec3) UpdateStats {
	var stats UpdateStats
	for _, t := range p.trees {
		stats.add(t.Update(camera))
	}
	return stats
}

// Tree returns the tree of one face.
func (p *Planet) Tree(f Face) *QuadTree {
	return p.trees[f]
}

func (p *Planet) resolve(ref PatchRef) (*quadtree.Tree[Patch], bool) {
	if int(ref.Face) >= len(p.trees) {
		return nil, false
	}
	return p.trees[ref.Face].tree, true
}

// Lookup returns the current payload of a live node.
func (p *Planet) Lookup(ref PatchRef) (Patch, bool) {
	t, ok := p.resolve(ref)
	if !ok {
		return Patch{}, false
	}
	return t.Data(ref.Node)
}

// AttachEntity records the scene entity built for a node. It returns false if the node
// was merged away in the meantime.
func (p *Planet) AttachEntity(ref PatchRef, e scene.Entity) bool {
	t, ok := p.resolve(ref)
	if !ok {
		return false
	}
	return t.Update(ref.Node, func(patch *Patch) {
		patch.Entity = e
	})
}

// Stats counts nodes across all faces.
func (p *Planet) Stats() Stats {
	s := Stats{Levels: make([]int, int(p.cfg.MaxDepth)+1)}
	for _, t := range p.trees {
		entries := t.tree.Entries()
		split := make(map[quadtree.Handle]bool, len(entries))
		for _, e := range entries {
			if e.Parent.Valid() {
				split[e.Parent] = true
			}
		}
		for _, e := range entries {
			s.Nodes++
			s.Levels[e.Level]++
			if !split[e.Handle] {
				s.Leaves++
			}
		}
	}
	return s
}
