package quadtree

// Node is a cursor onto one node of a Tree. It is a small value and cheap to copy.
// Operations on a node that has been merged away are no-ops returning zero values.
type Node[T any] struct {
	tree *Tree[T]
	h    Handle
}

// Handle returns the stable reference to this node.
func (n Node[T]) Handle() Handle {
	return n.h
}

// Alive reports whether the node still exists in its tree.
func (n Node[T]) Alive() bool {
	return n.tree != nil && n.tree.Alive(n.h)
}

// Level returns the depth below the root, or 0 for a dead node.
func (n Node[T]) Level() uint8 {
	if n.tree == nil {
		return 0
	}
	n.tree.mu.RLock()
	defer n.tree.mu.RUnlock()
	if !n.tree.valid(n.h) {
		return 0
	}
	return n.tree.slots[n.h.ID].level
}

// Data returns a copy of the payload.
func (n Node[T]) Data() T {
	var zero T
	if n.tree == nil {
		return zero
	}
	d, _ := n.tree.Data(n.h)
	return d
}

// HasChildren reports whether the node has been split.
func (n Node[T]) HasChildren() bool {
	if n.tree == nil {
		return false
	}
	n.tree.mu.RLock()
	defer n.tree.mu.RUnlock()
	return n.tree.valid(n.h) && n.tree.slots[n.h.ID].split
}

// Children returns the four children in quadrant order, or nil for a leaf.
func (n Node[T]) Children() []Node[T] {
	if n.tree == nil {
		return nil
	}
	t := n.tree
	t.mu.RLock()
	defer t.mu.RUnlock()
	if !t.valid(n.h) || !t.slots[n.h.ID].split {
		return nil
	}
	out := make([]Node[T], 0, 4)
	for _, c := range t.slots[n.h.ID].children {
		out = append(out, t.nodeAt(c))
	}
	return out
}

// Parent returns the containing node. The second result is false at a root.
func (n Node[T]) Parent() (Node[T], bool) {
	if n.tree == nil {
		return Node[T]{}, false
	}
	t := n.tree
	t.mu.RLock()
	defer t.mu.RUnlock()
	if !t.valid(n.h) {
		return Node[T]{}, false
	}
	p := t.slots[n.h.ID].parent
	if p == NoNode {
		return Node[T]{}, false
	}
	return t.nodeAt(p), true
}

// MustParent is Parent for callers that know the node is not a root.
func (n Node[T]) MustParent() Node[T] {
	p, ok := n.Parent()
	if !ok {
		panic("quadtree: node " + n.h.String() + " has no parent")
	}
	return p
}

// Split creates the four children at once. It returns false if the node is already
// split, sits at the depth ceiling, or no longer exists.
func (n Node[T]) Split() bool {
	if n.tree == nil {
		return false
	}
	return n.tree.split(n.h)
}

// Merge drops the whole child subtree in one step and returns the dropped nodes in
// pre-order. Releasing whatever the payloads point at is the caller's job.
func (n Node[T]) Merge() []Entry[T] {
	if n.tree == nil {
		return nil
	}
	return n.tree.merge(n.h)
}

// Descendants returns the subtree below the node in pre-order without modifying it.
func (n Node[T]) Descendants() []Entry[T] {
	if n.tree == nil {
		return nil
	}
	t := n.tree
	t.mu.RLock()
	defer t.mu.RUnlock()
	if !t.valid(n.h) {
		return nil
	}
	return t.descendants(n.h.ID, nil)
}
