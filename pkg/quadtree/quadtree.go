// Package quadtree provides a generic quadtree whose nodes live in an index arena.
//
// Nodes never hold pointers to each other. A parent refers to its children and a child to
// its parent by slot index, and every slot carries a generation counter so that a Handle
// taken before a merge can never resolve to the node that later reuses the slot.
package quadtree

import (
	"fmt"
	"sync"
)

// Quadrant identifies one of the four children of a split node.
type Quadrant uint8

const (
	TopLeft Quadrant = iota
	TopRight
	BottomLeft
	BottomRight
)

// Quadrants lists the quadrants in child order.
var Quadrants = [4]Quadrant{TopLeft, TopRight, BottomLeft, BottomRight}

func (q Quadrant) String() string {
	switch q {
	case TopLeft:
		return "top_left"
	case TopRight:
		return "top_right"
	case BottomLeft:
		return "bottom_left"
	case BottomRight:
		return "bottom_right"
	}
	return fmt.Sprintf("quadrant(%d)", uint8(q))
}

// NodeID is the arena slot of a node.
type NodeID int32

// NoNode marks an absent parent or child.
const NoNode NodeID = -1

// Handle is a generation-stamped reference to a node. The zero Handle refers to nothing.
type Handle struct {
	ID  NodeID
	Gen uint32
}

// Valid reports whether h was issued by a tree. It says nothing about liveness.
func (h Handle) Valid() bool {
	return h.Gen != 0
}

func (h Handle) String() string {
	return fmt.Sprintf("%d@%d", h.ID, h.Gen)
}

// DeriveFunc computes a child payload from its parent's payload.
// It must be pure: the result may depend only on its arguments.
type DeriveFunc[T any] func(parent T, q Quadrant, level uint8) T

// Entry is a detached copy of one node.
type Entry[T any] struct {
	Handle Handle
	Parent Handle
	Level  uint8
	Data   T
}

type slot[T any] struct {
	gen      uint32
	alive    bool
	level    uint8
	parent   NodeID
	split    bool
	children [4]NodeID
	data     T
}

// Tree is a quadtree rooted at a single node with a fixed depth ceiling.
// All methods are safe for concurrent use.
type Tree[T any] struct {
	mu       sync.RWMutex
	slots    []slot[T]
	free     []NodeID
	live     int
	maxDepth uint8
	derive   DeriveFunc[T]
	root     NodeID
}

// New creates a tree whose root holds data. Nodes at level maxDepth never split.
func New[T any](maxDepth uint8, data T, derive DeriveFunc[T]) *Tree[T] {
	if derive == nil {
		panic("quadtree: nil derive function")
	}
	t := &Tree[T]{
		maxDepth: maxDepth,
		derive:   derive,
	}
	t.root = t.alloc(NoNode, 0, data)
	return t
}

// MaxDepth returns the subdivision ceiling.
func (t *Tree[T]) MaxDepth() uint8 {
	return t.maxDepth
}

// Root returns the root node.
func (t *Tree[T]) Root() Node[T] {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.nodeAt(t.root)
}

// Len returns the number of live nodes.
func (t *Tree[T]) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.live
}

// Get resolves a handle. It fails once the node has been merged away.
func (t *Tree[T]) Get(h Handle) (Node[T], bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if !t.valid(h) {
		return Node[T]{}, false
	}
	return Node[T]{tree: t, h: h}, true
}

// Alive reports whether h still refers to a live node.
func (t *Tree[T]) Alive(h Handle) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.valid(h)
}

// Data returns a copy of the payload behind h.
func (t *Tree[T]) Data(h Handle) (T, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if !t.valid(h) {
		var zero T
		return zero, false
	}
	return t.slots[h.ID].data, true
}

// Update mutates the payload behind h in place. It returns false for stale handles.
func (t *Tree[T]) Update(h Handle, fn func(*T)) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.valid(h) {
		return false
	}
	fn(&t.slots[h.ID].data)
	return true
}

// Entries returns every live node in depth-first pre-order, children in quadrant order.
func (t *Tree[T]) Entries() []Entry[T] {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]Entry[T], 0, t.live)
	return t.collect(t.root, out)
}

func (t *Tree[T]) collect(id NodeID, out []Entry[T]) []Entry[T] {
	s := &t.slots[id]
	out = append(out, t.entry(id))
	if s.split {
		for _, c := range s.children {
			out = t.collect(c, out)
		}
	}
	return out
}

func (t *Tree[T]) entry(id NodeID) Entry[T] {
	s := &t.slots[id]
	e := Entry[T]{
		Handle: Handle{ID: id, Gen: s.gen},
		Level:  s.level,
		Data:   s.data,
	}
	if s.parent != NoNode {
		e.Parent = Handle{ID: s.parent, Gen: t.slots[s.parent].gen}
	}
	return e
}

func (t *Tree[T]) valid(h Handle) bool {
	if h.ID < 0 || int(h.ID) >= len(t.slots) {
		return false
	}
	s := &t.slots[h.ID]
	return s.alive && s.gen == h.Gen
}

func (t *Tree[T]) nodeAt(id NodeID) Node[T] {
	return Node[T]{tree: t, h: Handle{ID: id, Gen: t.slots[id].gen}}
}

// alloc takes a slot from the free list or grows the arena. Caller holds the write lock.
func (t *Tree[T]) alloc(parent NodeID, level uint8, data T) NodeID {
	var id NodeID
	if n := len(t.free); n > 0 {
		id = t.free[n-1]
		t.free = t.free[:n-1]
	} else {
		id = NodeID(len(t.slots))
		t.slots = append(t.slots, slot[T]{})
	}
	s := &t.slots[id]
	s.gen++
	s.alive = true
	s.level = level
	s.parent = parent
	s.split = false
	s.children = [4]NodeID{NoNode, NoNode, NoNode, NoNode}
	s.data = data
	t.live++
	return id
}

// release tombstones a slot. The generation is bumped again on reuse, so handles to the
// released node stay stale forever.
func (t *Tree[T]) release(id NodeID) {
	s := &t.slots[id]
	var zero T
	s.alive = false
	s.split = false
	s.parent = NoNode
	s.children = [4]NodeID{NoNode, NoNode, NoNode, NoNode}
	s.data = zero
	t.free = append(t.free, id)
	t.live--
}

func (t *Tree[T]) split(h Handle) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.valid(h) {
		return false
	}
	s := &t.slots[h.ID]
	if s.split || s.level >= t.maxDepth {
		return false
	}

	// Derive every payload before touching the arena so a panicking derive leaves the
	// node a leaf.
	level := s.level + 1
	var payloads [4]T
	for i, q := range Quadrants {
		payloads[i] = t.derive(s.data, q, level)
	}

	var children [4]NodeID
	for i := range Quadrants {
		children[i] = t.alloc(h.ID, level, payloads[i])
	}
	// alloc may grow the arena; re-take the pointer.
	s = &t.slots[h.ID]
	s.children = children
	s.split = true
	return true
}

func (t *Tree[T]) merge(h Handle) []Entry[T] {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.valid(h) || !t.slots[h.ID].split {
		return nil
	}
	dropped := t.descendants(h.ID, nil)
	for i := len(dropped) - 1; i >= 0; i-- {
		t.release(dropped[i].Handle.ID)
	}
	s := &t.slots[h.ID]
	s.split = false
	s.children = [4]NodeID{NoNode, NoNode, NoNode, NoNode}
	return dropped
}

func (t *Tree[T]) descendants(id NodeID, out []Entry[T]) []Entry[T] {
	s := &t.slots[id]
	if !s.split {
		return out
	}
	for _, c := range s.children {
		out = append(out, t.entry(c))
		out = t.descendants(c, out)
	}
	return out
}
