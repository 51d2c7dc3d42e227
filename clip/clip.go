package clip

import (
	"fmt"
	"math"

	"github.com/milk9111/spriteclip/curve"
)

// DefaultFrameRate is used when a clip is created with a non-positive rate.
const DefaultFrameRate = 12

// Clip is a reusable animation asset: a root component, the arena holding
// every other component, and the clip-wide timing data derived from them.
//
// A Clip is not safe for concurrent use.
type Clip struct {
	name     string
	handle   ClipHandle
	root     *Component
	arena    *Arena
	events   []Event
	wrapMode curve.WrapMode
	version  Version

	frameRate float64
	tick      float64
	length    float64
	playback  curve.LinearTimeCurve

	traversing int
}

// New creates an empty clip at the current schema version.
func New(name string, frameRate float64) *Clip {
	if frameRate <= 0 {
		frameRate = DefaultFrameRate
	}
	c := &Clip{
		name:      name,
		handle:    newHandle(),
		frameRate: frameRate,
		version:   CurrentVersion,
	}
	c.root = NewComponent(name)
	c.root.index = RootIndex
	c.root.owner = c.handle
	c.arena = newArena(c.root)
	c.Recalculate(false)
	return c
}

func (c *Clip) Name() string                         { return c.name }
func (c *Clip) Handle() ClipHandle                   { return c.handle }
func (c *Clip) Root() *Component                     { return c.root }
func (c *Clip) Arena() *Arena                        { return c.arena }
func (c *Clip) FrameRate() float64                   { return c.frameRate }
func (c *Clip) Tick() float64                        { return c.tick }
func (c *Clip) Length() float64                      { return c.length }
func (c *Clip) MaxFrameIndex() int                   { return c.root.maxFrameIndex }
func (c *Clip) WrapMode() curve.WrapMode             { return c.wrapMode }
func (c *Clip) Version() Version                     { return c.version }
func (c *Clip) PlaybackCurve() curve.LinearTimeCurve { return c.playback }

// SetFrameRate changes the frame rate and re-derives length and event times.
func (c *Clip) SetFrameRate(fps float64) {
	if fps <= 0 {
		fps = DefaultFrameRate
	}
	c.frameRate = fps
	c.Recalculate(false)
}

func (c *Clip) SetWrapMode(m curve.WrapMode) {
	c.wrapMode = m
}

// FrameAt converts elapsed playback time into a frame index using the
// playback curve.
func (c *Clip) FrameAt(elapsed float64) int {
	return int(math.Floor(c.playback.Evaluate(elapsed)))
}

// Owns reports whether n is currently part of this clip.
func (c *Clip) Owns(n *Component) bool {
	if n == nil || n.owner != c.handle {
		return false
	}
	return n == c.root || c.arena.Contains(n)
}

// AddComponent creates a component named name under parent.
func (c *Clip) AddComponent(parent *Component, name string) (*Component, error) {
	n := NewComponent(name)
	if err := c.Attach(parent, n); err != nil {
		return nil, err
	}
	return n, nil
}

// Attach makes child the last child of parent. A child already in this clip
// is re-parented; a detached component is added to the arena.
func (c *Clip) Attach(parent, child *Component) error {
	if err := c.checkEditable(); err != nil {
		return err
	}
	if parent == nil || child == nil {
		return ErrNilComponent
	}
	if !c.Owns(parent) {
		return ErrNotInClip
	}
	if child == c.root {
		return ErrRootEdit
	}
	if child.owner != 0 && child.owner != c.handle && !child.Removed() {
		return ErrForeignComponent
	}

	if c.Owns(child) {
		for p := parent; p != nil && p != c.root; p = c.arena.Resolve(p.parent) {
			if p == child {
				return fmt.Errorf("%w: %q under %q", ErrCycle, child.Name, parent.Name)
			}
		}
		if old := c.arena.Resolve(child.parent); old != nil {
			old.children = removeValue(old.children, child.index)
		}
	} else {
		child.children = nil
		child.owner = c.handle
		c.arena.AddChild(child)
	}

	child.parent = parent.index
	parent.children = append(parent.children, child.index)
	c.Recalculate(false)
	return nil
}

// RemoveComponent removes n and its whole subtree. Removing a component that
// has already been removed succeeds without effect.
func (c *Clip) RemoveComponent(n *Component) error {
	if err := c.checkEditable(); err != nil {
		return err
	}
	if n == nil {
		return ErrNilComponent
	}
	if n == c.root {
		return ErrRootEdit
	}
	if n.Removed() {
		return nil
	}
	if !c.Owns(n) {
		return ErrNotInClip
	}

	for _, sub := range c.subtree(n) {
		c.arena.RemoveChild(sub)
	}
	c.Recalculate(false)
	return nil
}

// Rename changes a component's name and re-derives the paths below it.
func (c *Clip) Rename(n *Component, name string) error {
	if err := c.checkEditable(); err != nil {
		return err
	}
	if !c.Owns(n) {
		return ErrNotInClip
	}
	n.Name = name
	c.Recalculate(false)
	return nil
}

// SetKeyframes replaces n's keyframes.
func (c *Clip) SetKeyframes(n *Component, keys []Keyframe) error {
	if !c.Owns(n) {
		return ErrNotInClip
	}
	n.Keyframes = append([]Keyframe(nil), keys...)
	n.rebuildCurve()
	c.Recalculate(false)
	return nil
}

// AddKeyframe appends a keyframe to n.
func (c *Clip) AddKeyframe(n *Component, key Keyframe) error {
	if !c.Owns(n) {
		return ErrNotInClip
	}
	n.Keyframes = append(n.Keyframes, key)
	n.rebuildCurve()
	c.Recalculate(false)
	return nil
}

// Check verifies the arena invariants and that every derived path hash
// matches its path.
func (c *Clip) Check() error {
	if err := c.arena.Check(); err != nil {
		return err
	}
	var bad error
	c.Traverse(func(n *Component) bool {
		if n.owner != c.handle {
			bad = fmt.Errorf("%w: %q owned by clip %d", ErrBrokenInvariant, n.fullPath, n.owner)
			return false
		}
		if n.fullPathHash != HashPath(n.fullPath) {
			bad = fmt.Errorf("%w: %q has stale hash", ErrBrokenInvariant, n.fullPath)
			return false
		}
		return true
	}, false)
	return bad
}

// subtree lists n and its descendants children-first.
func (c *Clip) subtree(n *Component) []*Component {
	var out []*Component
	var walk func(*Component)
	walk = func(x *Component) {
		for _, ci := range x.children {
			if ch := c.arena.At(ci); ch != nil {
				walk(ch)
			}
		}
		out = append(out, x)
	}
	walk(n)
	return out
}

func (c *Clip) checkEditable() error {
	if c.traversing > 0 {
		return ErrTraversalActive
	}
	return nil
}
