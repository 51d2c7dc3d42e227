package clip

import (
	"slices"
	"sort"

	"github.com/milk9111/spriteclip/common"
)

const (
	// RootIndex is the index of the root component, which lives outside the arena.
	RootIndex = -1
	// RemovedIndex marks a component whose slot has been reclaimed.
	RemovedIndex = -2
	// NoParent is the parent index of the root and of detached components.
	NoParent = -3

	// RootPath is the full path of every clip's root.
	RootPath = "/"
)

// HashPath is the lookup key for a full component path.
func HashPath(path string) int32 {
	return common.PathHash(path)
}

// Component is one node of a clip's tree. Links to the parent and children
// are arena indices; the owning clip is referenced by handle only.
type Component struct {
	Name      string
	Keyframes []Keyframe
	// Expanded is an editor annotation consulted by collapsed traversals.
	Expanded bool

	id            ID
	owner         ClipHandle
	index         int
	parent        int
	children      []int
	fullPath      string
	fullPathHash  int32
	maxFrameIndex int

	// frameIndex holds the frame of each keyframe in sorted order, parallel
	// to Keyframes. Rebuilt by the expensive derive pass.
	frameIndex []int

	// legacy holds nested child references from pre-arena documents. It is
	// emptied once the tree is flattened.
	legacy []*Component
}

// NewComponent creates a detached component.
func NewComponent(name string) *Component {
	return &Component{
		Name:   name,
		id:     newID(),
		index:  RemovedIndex,
		parent: NoParent,
	}
}

func (n *Component) ID() ID              { return n.id }
func (n *Component) Index() int          { return n.index }
func (n *Component) ParentIndex() int    { return n.parent }
func (n *Component) FullPath() string    { return n.fullPath }
func (n *Component) FullPathHash() int32 { return n.fullPathHash }
func (n *Component) MaxFrameIndex() int  { return n.maxFrameIndex }
func (n *Component) Owner() ClipHandle   { return n.owner }
func (n *Component) IsRoot() bool        { return n.index == RootIndex }
func (n *Component) Removed() bool       { return n.index == RemovedIndex }
func (n *Component) NumChildren() int    { return len(n.children) }

// Children returns a copy of the child index list in declaration order.
func (n *Component) Children() []int {
	return slices.Clone(n.children)
}

// AddLegacyChild records a nested child reference the way pre-0.43 documents
// stored the tree. Only the schema migrator consumes these.
func (n *Component) AddLegacyChild(child *Component) {
	n.legacy = append(n.legacy, child)
}

func (n *Component) LegacyChildren() []*Component {
	return slices.Clone(n.legacy)
}

// HighestKeyframe returns the largest frame index among the component's own
// keyframes, or 0 when it has none.
func (n *Component) HighestKeyframe() int {
	top := 0
	for _, k := range n.Keyframes {
		if k.Frame > top {
			top = k.Frame
		}
	}
	return top
}

// SampleKey returns the keyframe active at frame: the last keyframe placed at
// or before it. It reads the index built by Recalculate(true).
func (n *Component) SampleKey(frame int) (Keyframe, bool) {
	if frame < 0 {
		return Keyframe{}, false
	}
	ki := sort.Search(len(n.frameIndex), func(i int) bool {
		return n.frameIndex[i] > frame
	}) - 1
	if ki < 0 || ki >= len(n.Keyframes) {
		return Keyframe{}, false
	}
	return n.Keyframes[ki], true
}

func (n *Component) subClipRefs() []string {
	var refs []string
	for _, k := range n.Keyframes {
		if k.Kind == SubClipKey && k.Ref != "" {
			refs = append(refs, k.Ref)
		}
	}
	return refs
}

// rebuildCurve sorts the keyframes by frame and rebuilds the frame index.
func (n *Component) rebuildCurve() {
	sort.SliceStable(n.Keyframes, func(i, j int) bool {
		return n.Keyframes[i].Frame < n.Keyframes[j].Frame
	})
	if len(n.Keyframes) == 0 {
		n.frameIndex = nil
		return
	}
	frames := make([]int, len(n.Keyframes))
	for i, k := range n.Keyframes {
		frames[i] = k.Frame
	}
	n.frameIndex = frames
}

func (n *Component) clone(owner ClipHandle) *Component {
	out := *n
	out.id = newID()
	out.owner = owner
	out.children = slices.Clone(n.children)
	out.Keyframes = slices.Clone(n.Keyframes)
	out.frameIndex = slices.Clone(n.frameIndex)
	out.legacy = nil
	return &out
}

func joinPath(parent, name string) string {
	if parent == "" || parent[len(parent)-1] == '/' {
		return parent + name
	}
	return parent + "/" + name
}

func removeValue(list []int, v int) []int {
	for i, x := range list {
		if x == v {
			return append(list[:i], list[i+1:]...)
		}
	}
	return list
}

func replaceValue(list []int, from, to int) {
	for i, x := range list {
		if x == from {
			list[i] = to
			return
		}
	}
}
