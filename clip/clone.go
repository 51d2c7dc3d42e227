package clip

import "slices"

// CloneOptions configures Clone.
type CloneOptions struct {
	// Recalculate runs the bookkeeping derive pass on the copy.
	Recalculate bool
	// AliasEvents shares the event list with the source instead of copying
	// it. Older tooling behaved this way; edits made through UpdateEvent on
	// either clip then show up in both. Only use it for compatibility.
	AliasEvents bool
}

// Clone returns an independent copy of c. Every component is a new instance
// with a new ID but the same name, keyframes and slot index, owned by the new
// clip.
func (c *Clip) Clone(opts CloneOptions) *Clip {
	out := &Clip{
		name:      c.name,
		handle:    newHandle(),
		wrapMode:  c.wrapMode,
		version:   c.version,
		frameRate: c.frameRate,
		tick:      c.tick,
		length:    c.length,
		playback:  c.playback,
	}

	out.root = c.root.clone(out.handle)
	out.arena = newArena(out.root)
	out.arena.components = make([]*Component, len(c.arena.components))
	for i, n := range c.arena.components {
		cp := n.clone(out.handle)
		cp.index = i
		out.arena.components[i] = cp
	}
	if len(c.root.legacy) > 0 {
		cloneLegacy(c.root, out.root, out.handle, map[*Component]*Component{c.root: out.root})
	}

	if opts.AliasEvents {
		out.events = c.events
	} else {
		out.events = slices.Clone(c.events)
	}

	if opts.Recalculate {
		out.Recalculate(false)
	}
	return out
}

// cloneLegacy copies the nested tree of a clip that has not been flattened
// yet, keeping shared references shared.
func cloneLegacy(src, dst *Component, owner ClipHandle, done map[*Component]*Component) {
	for _, ch := range src.legacy {
		if ch == nil {
			dst.legacy = append(dst.legacy, nil)
			continue
		}
		cp, ok := done[ch]
		if !ok {
			cp = ch.clone(owner)
			done[ch] = cp
			cloneLegacy(ch, cp, owner, done)
		}
		dst.legacy = append(dst.legacy, cp)
	}
}
