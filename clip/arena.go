package clip

import (
	"fmt"
	"slices"
)

// Arena owns every non-root component of a clip. Slot i always holds the
// component whose index is i; removal swaps the last slot into the hole.
type Arena struct {
	root       *Component
	components []*Component
}

func newArena(root *Component) *Arena {
	return &Arena{root: root}
}

// Len returns the number of arena slots.
func (a *Arena) Len() int {
	if a == nil {
		return 0
	}
	return len(a.components)
}

// Root returns the root component, which is not stored in a slot.
func (a *Arena) Root() *Component {
	if a == nil {
		return nil
	}
	return a.root
}

// At returns the component in slot i, or nil.
func (a *Arena) At(i int) *Component {
	if a == nil || i < 0 || i >= len(a.components) {
		return nil
	}
	return a.components[i]
}

// Resolve maps a parent or child index to a component. RootIndex resolves to
// the root; sentinels and out-of-range values resolve to nil.
func (a *Arena) Resolve(index int) *Component {
	if index == RootIndex {
		return a.Root()
	}
	return a.At(index)
}

// Components returns a copy of the slot list.
func (a *Arena) Components() []*Component {
	if a == nil {
		return nil
	}
	return slices.Clone(a.components)
}

// Contains reports whether c occupies its recorded slot.
func (a *Arena) Contains(c *Component) bool {
	return c != nil && a.At(c.index) == c
}

// AddChild appends c and assigns it the last index. Adding a component that
// is already present does nothing. The caller records the parent edge.
func (a *Arena) AddChild(c *Component) int {
	if a == nil || c == nil {
		return RemovedIndex
	}
	if a.Contains(c) {
		return c.index
	}
	a.components = append(a.components, c)
	c.index = len(a.components) - 1
	return c.index
}

// RemoveChild drops c from the arena by moving the last component into its
// slot. The moved component's children and its parent's child list are
// redirected to the new slot. Removing an already removed component does
// nothing.
//
// Children still attached to c are orphaned (parent = RemovedIndex) and stay
// in their slots. The arena fails Check until the caller removes them too;
// Clip.RemoveComponent removes the whole subtree bottom-up instead.
func (a *Arena) RemoveChild(c *Component) {
	if a == nil || c == nil || c.index == RemovedIndex || !a.Contains(c) {
		return
	}
	idx := c.index

	if p := a.Resolve(c.parent); p != nil {
		p.children = removeValue(p.children, idx)
	}
	for _, ci := range c.children {
		if ch := a.At(ci); ch != nil && ch.parent == idx {
			ch.parent = RemovedIndex
		}
	}

	last := len(a.components) - 1
	if idx != last {
		moved := a.components[last]
		a.components[idx] = moved
		moved.index = idx
		for _, ci := range moved.children {
			if ci >= 0 && ci <= last {
				a.components[ci].parent = idx
			}
		}
		if p := a.Resolve(moved.parent); p != nil {
			replaceValue(p.children, last, idx)
		}
	}

	a.components[last] = nil
	a.components = a.components[:last]

	c.index = RemovedIndex
	c.parent = NoParent
	c.children = nil
}

// FindByID scans the root and every slot for the component with the given
// identity. IDs are process-local; never persist them.
func (a *Arena) FindByID(id ID) (*Component, bool) {
	if a == nil || !id.Valid() {
		return nil, false
	}
	if a.root != nil && a.root.id == id {
		return a.root, true
	}
	for _, c := range a.components {
		if c.id == id {
			return c, true
		}
	}
	return nil, false
}

// FindByPathHash scans the root and every slot for the first component whose
// full path hashes to h.
func (a *Arena) FindByPathHash(h int32) (*Component, bool) {
	if a == nil {
		return nil, false
	}
	if a.root != nil && a.root.fullPathHash == h {
		return a.root, true
	}
	for _, c := range a.components {
		if c.fullPathHash == h {
			return c, true
		}
	}
	return nil, false
}

// Check verifies slot indices, parent/child symmetry and that every slot is
// reachable from the root exactly once.
func (a *Arena) Check() error {
	if a == nil || a.root == nil {
		return fmt.Errorf("%w: missing root", ErrBrokenInvariant)
	}
	for i, c := range a.components {
		if c == nil {
			return fmt.Errorf("%w: slot %d is empty", ErrBrokenInvariant, i)
		}
		if c.index != i {
			return fmt.Errorf("%w: slot %d holds index %d", ErrBrokenInvariant, i, c.index)
		}
		p := a.Resolve(c.parent)
		if p == nil {
			return fmt.Errorf("%w: slot %d has invalid parent %d", ErrBrokenInvariant, i, c.parent)
		}
		if n := count(p.children, i); n != 1 {
			return fmt.Errorf("%w: parent %d lists slot %d %d times", ErrBrokenInvariant, c.parent, i, n)
		}
	}

	seen := make([]bool, len(a.components))
	stack := []*Component{a.root}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, ci := range n.children {
			ch := a.At(ci)
			if ch == nil {
				return fmt.Errorf("%w: %q lists missing slot %d", ErrBrokenInvariant, n.Name, ci)
			}
			if ch.parent != n.index {
				return fmt.Errorf("%w: slot %d parent is %d, listed under %d", ErrBrokenInvariant, ci, ch.parent, n.index)
			}
			if seen[ci] {
				return fmt.Errorf("%w: slot %d reachable twice", ErrBrokenInvariant, ci)
			}
			seen[ci] = true
			stack = append(stack, ch)
		}
	}
	for i, ok := range seen {
		if !ok {
			return fmt.Errorf("%w: slot %d unreachable from root", ErrBrokenInvariant, i)
		}
	}
	return nil
}

func count(list []int, v int) int {
	n := 0
	for _, x := range list {
		if x == v {
			n++
		}
	}
	return n
}
