package clip

import (
	"slices"

	"github.com/milk9111/spriteclip/curve"
)

type componentState struct {
	index         int
	parent        int
	owner         ClipHandle
	children      []int
	fullPath      string
	fullPathHash  int32
	maxFrameIndex int
	keyframes     []Keyframe
	frameIndex    []int
	legacy        []*Component
}

// snapshot records the mutable state of a clip in place, keyed by component
// identity, so a failed migration stage can be undone without invalidating
// pointers callers already hold.
type snapshot struct {
	components []*Component
	states     map[*Component]componentState
	events     []Event
	version    Version
	tick       float64
	length     float64
	playback   curve.LinearTimeCurve
}

func (c *Clip) snapshot() *snapshot {
	s := &snapshot{
		components: slices.Clone(c.arena.components),
		states:     make(map[*Component]componentState),
		events:     slices.Clone(c.events),
		version:    c.version,
		tick:       c.tick,
		length:     c.length,
		playback:   c.playback,
	}
	var record func(*Component)
	record = func(n *Component) {
		if n == nil {
			return
		}
		if _, done := s.states[n]; done {
			return
		}
		s.states[n] = componentState{
			index:         n.index,
			parent:        n.parent,
			owner:         n.owner,
			children:      slices.Clone(n.children),
			fullPath:      n.fullPath,
			fullPathHash:  n.fullPathHash,
			maxFrameIndex: n.maxFrameIndex,
			keyframes:     slices.Clone(n.Keyframes),
			frameIndex:    slices.Clone(n.frameIndex),
			legacy:        slices.Clone(n.legacy),
		}
		for _, ch := range n.legacy {
			record(ch)
		}
	}
	record(c.root)
	for _, n := range c.arena.components {
		record(n)
	}
	return s
}

func (c *Clip) restore(s *snapshot) {
	c.arena.components = s.components
	c.events = s.events
	c.version = s.version
	c.tick = s.tick
	c.length = s.length
	c.playback = s.playback
	for n, st := range s.states {
		n.index = st.index
		n.parent = st.parent
		n.owner = st.owner
		n.children = st.children
		n.fullPath = st.fullPath
		n.fullPathHash = st.fullPathHash
		n.maxFrameIndex = st.maxFrameIndex
		n.Keyframes = st.keyframes
		n.frameIndex = st.frameIndex
		n.legacy = st.legacy
	}
}
