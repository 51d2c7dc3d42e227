package clip

import (
	"math"

	"github.com/milk9111/spriteclip/curve"
)

// PlaybackEpsilon is added to the last frame index of the playback curve so
// that converting elapsed time back to a frame does not truncate to the
// previous frame. Persisted playback relies on this exact value.
const PlaybackEpsilon = 0.051

// Recalculate re-derives every component's path, path hash and max frame
// index, then the clip length, playback curve and event times.
//
// With recomputeCurves set each component's frame index is rebuilt as well.
// Pure renames and re-parents only need the bookkeeping pass.
func (c *Clip) Recalculate(recomputeCurves bool) {
	c.tick = 1 / c.frameRate
	c.root.fullPath = RootPath
	c.root.fullPathHash = HashPath(RootPath)
	c.derive(c.root, recomputeCurves)

	c.length = float64(c.root.maxFrameIndex) * c.tick
	c.playback = curve.New(0, 0, c.length, math.Floor(c.length/c.tick)+PlaybackEpsilon, curve.Once)
	c.deriveEventTimes()
}

// derive sets paths top-down on the way in and folds max frame indices
// bottom-up on the way out.
func (c *Clip) derive(n *Component, recomputeCurves bool) int {
	if recomputeCurves {
		n.rebuildCurve()
	}
	top := n.HighestKeyframe()
	for _, ci := range n.children {
		ch := c.arena.At(ci)
		if ch == nil {
			continue
		}
		ch.fullPath = joinPath(n.fullPath, ch.Name)
		ch.fullPathHash = HashPath(ch.fullPath)
		if m := c.derive(ch, recomputeCurves); m > top {
			top = m
		}
	}
	n.maxFrameIndex = top
	return top
}

// pathOf rebuilds n's full path from the parent chain without touching any
// derived field.
func (c *Clip) pathOf(n *Component) string {
	var names []string
	for x, hops := n, 0; x != nil && x != c.root && hops <= c.arena.Len(); hops++ {
		names = append(names, x.Name)
		x = c.arena.Resolve(x.parent)
	}
	path := RootPath
	for i := len(names) - 1; i >= 0; i-- {
		path = joinPath(path, names[i])
	}
	return path
}
