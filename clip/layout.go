package clip

import (
	"fmt"

	"github.com/milk9111/spriteclip/curve"
)

// Layout is the persisted shape of a clip, used by decoders to rebuild one.
// Children[i] lists the child slots of Components[i]. Documents older than
// VersionLegacyArena leave Components empty and carry the tree through
// AddLegacyChild on Root instead.
type Layout struct {
	Version      Version
	FrameRate    float64
	WrapMode     curve.WrapMode
	Root         *Component
	RootChildren []int
	Components   []*Component
	Children     [][]int
	Events       []Event
}

// FromLayout assembles a clip from decoded data. Arena layouts are validated
// against the tree invariants; nothing is migrated, call Upgrade for that.
func FromLayout(name string, l Layout) (*Clip, error) {
	if l.Root == nil {
		return nil, fmt.Errorf("%w: layout has no root", ErrNilComponent)
	}
	if l.Version > CurrentVersion {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedVersion, l.Version)
	}
	fps := l.FrameRate
	if fps <= 0 {
		fps = DefaultFrameRate
	}
	c := &Clip{
		name:      name,
		handle:    newHandle(),
		frameRate: fps,
		wrapMode:  l.WrapMode,
		version:   l.Version,
	}
	c.root = l.Root
	c.root.index = RootIndex
	c.root.parent = NoParent
	c.root.owner = c.handle
	c.arena = newArena(c.root)
	c.root.children = nil

	if l.Version >= VersionLegacyArena {
		if err := c.loadArena(l); err != nil {
			return nil, err
		}
	} else {
		c.adoptLegacy(c.root, map[*Component]bool{c.root: true})
	}

	c.SetEvents(l.Events)
	c.Recalculate(false)
	return c, nil
}

func (c *Clip) loadArena(l Layout) error {
	if len(l.Children) != 0 && len(l.Children) != len(l.Components) {
		return fmt.Errorf("%w: %d child lists for %d components", ErrBrokenInvariant, len(l.Children), len(l.Components))
	}
	for i, n := range l.Components {
		if n == nil {
			return fmt.Errorf("%w: slot %d", ErrNilComponent, i)
		}
		n.index = i
		n.parent = NoParent
		n.owner = c.handle
		n.children = nil
		c.arena.components = append(c.arena.components, n)
	}

	link := func(parent *Component, kids []int) error {
		for _, ci := range kids {
			ch := c.arena.At(ci)
			if ch == nil {
				return fmt.Errorf("%w: %q lists missing slot %d", ErrBrokenInvariant, parent.Name, ci)
			}
			if ch.parent != NoParent {
				return fmt.Errorf("%w: slot %d has two parents", ErrBrokenInvariant, ci)
			}
			ch.parent = parent.index
			parent.children = append(parent.children, ci)
		}
		return nil
	}
	if err := link(c.root, l.RootChildren); err != nil {
		return err
	}
	for i, kids := range l.Children {
		if err := link(c.arena.components[i], kids); err != nil {
			return err
		}
	}
	return c.arena.Check()
}

// adoptLegacy stamps ownership on the nested legacy tree so the migrator and
// the cloner can recognise it.
func (c *Clip) adoptLegacy(n *Component, seen map[*Component]bool) {
	for _, ch := range n.legacy {
		if ch == nil || seen[ch] {
			continue
		}
		seen[ch] = true
		ch.owner = c.handle
		c.adoptLegacy(ch, seen)
	}
}
