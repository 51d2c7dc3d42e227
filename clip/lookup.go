package clip

// FindByPath looks a component up by full path, e.g. "/body/armL". The path
// hash is the key; the stored path is compared too so a hash collision is
// reported as a miss rather than the wrong component.
func (c *Clip) FindByPath(path string) (*Component, bool) {
	h := HashPath(path)
	if c.root.fullPathHash == h && c.root.fullPath == path {
		return c.root, true
	}
	for _, n := range c.arena.components {
		if n.fullPathHash == h && n.fullPath == path {
			return n, true
		}
	}
	return nil, false
}

// FindByPathHash returns the first component whose path hashes to h.
func (c *Clip) FindByPathHash(h int32) (*Component, bool) {
	return c.arena.FindByPathHash(h)
}

// FindByID returns the component with the given process-local identity.
func (c *Clip) FindByID(id ID) (*Component, bool) {
	return c.arena.FindByID(id)
}
