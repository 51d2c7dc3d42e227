package clip

import "iter"

// Traverse visits the tree depth-first, pre-order, starting at the root and
// following each child list in order. fn returning false stops the walk;
// Traverse then returns false. With skipCollapsed set, the children of a
// component are only visited when it is Expanded.
//
// fn must not add, remove, rename or re-parent components. Those edits return
// ErrTraversalActive while a traversal is running.
func (c *Clip) Traverse(fn func(*Component) bool, skipCollapsed bool) bool {
	c.traversing++
	defer func() { c.traversing-- }()
	return c.visit(c.root, fn, skipCollapsed)
}

func (c *Clip) visit(n *Component, fn func(*Component) bool, skipCollapsed bool) bool {
	if !fn(n) {
		return false
	}
	if skipCollapsed && !n.Expanded {
		return true
	}
	for _, ci := range n.children {
		ch := c.arena.At(ci)
		if ch == nil {
			continue
		}
		if !c.visit(ch, fn, skipCollapsed) {
			return false
		}
	}
	return true
}

// All returns the traversal order as a lazy sequence. Each range over the
// sequence restarts at the root. When pulled with iter.Pull, call stop once
// done so that edits are allowed again.
func (c *Clip) All(skipCollapsed bool) iter.Seq[*Component] {
	return func(yield func(*Component) bool) {
		c.Traverse(yield, skipCollapsed)
	}
}

// Paths lists every full path in traversal order.
func (c *Clip) Paths() []string {
	var out []string
	for n := range c.All(false) {
		out = append(out, n.fullPath)
	}
	return out
}
