package terrain

import (
	"fmt"

	"github.com/Faultbox/spacecraft/pkg/quadtree"
)

// RequestKind says what the mesh consumer should do with a patch.
type RequestKind uint8

const (
	// RequestCreate builds the patch mesh and spawns its entity.
	RequestCreate RequestKind = iota
	// RequestRemove despawns the patch entity and everything below it.
	RequestRemove
	// RequestHide hides a patch that its children now cover.
	RequestHide
	// RequestShow shows a patch again after its children were merged away.
	RequestShow
)

func (k RequestKind) String() string {
	switch k {
	case RequestCreate:
		return "create"
	case RequestRemove:
		return "remove"
	case RequestHide:
		return "hide"
	case RequestShow:
		return "show"
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// PatchRef names a node in one of the planet's face trees.
type PatchRef struct {
	Face Face
	Node quadtree.Handle
}

// Valid reports whether the ref was ever issued.
func (r PatchRef) Valid() bool {
	return r.Node.Valid()
}

func (r PatchRef) String() string {
	return r.Face.String() + "/" + r.Node.String()
}

// Request is one unit of work for the mesh consumer. Patch is a snapshot taken when the
// request was made; the consumer re-resolves Ref before acting on it.
type Request struct {
	Kind   RequestKind
	Ref    PatchRef
	Parent PatchRef
	Patch  Patch
	Scale  float32
}

// Scheduler accepts mesh requests without blocking. Implementations return an error
// wrapping queue.ErrFull or queue.ErrBatchTooLarge when they cannot take the work.
type Scheduler interface {
	Schedule(r Request) error
	ScheduleBatch(rs ...Request) error
}
