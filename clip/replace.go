package clip

import "fmt"

// ReplaceSprites swaps sprite references: every sprite keyframe whose Ref
// equals src[i] is pointed at dst[i]. It returns the number of keyframes
// changed.
func (c *Clip) ReplaceSprites(src, dst []string) (int, error) {
	return c.replaceRefs(SpriteKey, src, dst)
}

// ReplaceSubClips is ReplaceSprites for sub-clip keyframes.
func (c *Clip) ReplaceSubClips(src, dst []string) (int, error) {
	return c.replaceRefs(SubClipKey, src, dst)
}

func (c *Clip) replaceRefs(kind KeyKind, src, dst []string) (int, error) {
	if len(src) != len(dst) {
		return 0, fmt.Errorf("%w: %d sources, %d destinations", ErrReplaceTable, len(src), len(dst))
	}
	lookup := make(map[string]int, len(src))
	for i := len(src) - 1; i >= 0; i-- {
		lookup[src[i]] = i
	}

	replaced := 0
	apply := func(n *Component) {
		for k := range n.Keyframes {
			key := &n.Keyframes[k]
			if key.Kind != kind {
				continue
			}
			if i, ok := lookup[key.Ref]; ok {
				key.Ref = dst[i]
				replaced++
			}
		}
	}
	apply(c.root)
	for _, n := range c.arena.components {
		apply(n)
	}
	if replaced > 0 {
		c.Recalculate(false)
	}
	return replaced, nil
}
