package assets

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/milk9111/spriteclip/clip"
	"gopkg.in/yaml.v3"
)

// Decode parses a clip document. The clip keeps the document's version;
// call clip.Upgrade to bring it current.
func Decode(data []byte) (*clip.Clip, error) {
	var spec ClipSpec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("assets: unmarshal clip: %w", err)
	}
	return FromSpec(spec)
}

// Encode writes c as a document at c's version. Only flattened clips can be
// encoded.
func Encode(c *clip.Clip) ([]byte, error) {
	spec, err := ToSpec(c)
	if err != nil {
		return nil, err
	}
	data, err := yaml.Marshal(&spec)
	if err != nil {
		return nil, fmt.Errorf("assets: marshal %s: %w", c.Name(), err)
	}
	return data, nil
}

// LoadClip loads and decodes a document by name. A document without a name
// is named after its file.
func LoadClip(name string) (*clip.Clip, error) {
	spec, err := LoadSpec[ClipSpec](name)
	if err != nil {
		return nil, err
	}
	if spec.Name == "" {
		spec.Name = strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))
	}
	c, err := FromSpec(spec)
	if err != nil {
		return nil, fmt.Errorf("assets: %s: %w", name, err)
	}
	return c, nil
}

func FromSpec(spec ClipSpec) (*clip.Clip, error) {
	version := clip.CurrentVersion
	if spec.Version != "" {
		v, err := clip.ParseVersion(spec.Version)
		if err != nil {
			return nil, fmt.Errorf("assets: %w", err)
		}
		version = v
	}

	root := newComponent(spec.Root)
	layout := clip.Layout{
		Version:   version,
		FrameRate: spec.FrameRate,
		WrapMode:  spec.WrapMode,
		Root:      root,
	}
	for _, e := range spec.Events {
		layout.Events = append(layout.Events, clip.Event{Frame: e.Frame, Name: e.Name, Payload: e.Payload})
	}

	if version < clip.VersionLegacyArena {
		if len(spec.Components) > 0 {
			return nil, fmt.Errorf("assets: version %s document has a flat component list", version)
		}
		nestLegacy(root, spec.Root.Nodes)
	} else {
		if len(spec.Root.Nodes) > 0 {
			return nil, fmt.Errorf("assets: version %s document has nested nodes", version)
		}
		layout.RootChildren = spec.Root.Children
		layout.Components = make([]*clip.Component, len(spec.Components))
		layout.Children = make([][]int, len(spec.Components))
		for i, cs := range spec.Components {
			layout.Components[i] = newComponent(cs)
			layout.Children[i] = cs.Children
		}
	}

	c, err := clip.FromLayout(spec.Name, layout)
	if err != nil {
		return nil, fmt.Errorf("assets: build %q: %w", spec.Name, err)
	}
	c.Recalculate(true)
	return c, nil
}

// ToSpec captures c in document form. Legacy clips must be upgraded first.
func ToSpec(c *clip.Clip) (ClipSpec, error) {
	if c.Version() < clip.VersionLegacyArena {
		return ClipSpec{}, fmt.Errorf("assets: %q is at %s, upgrade before encoding", c.Name(), c.Version())
	}
	spec := ClipSpec{
		Version:   c.Version().String(),
		Name:      c.Name(),
		FrameRate: c.FrameRate(),
		WrapMode:  c.WrapMode(),
		Root:      componentSpec(c.Root()),
	}
	for _, n := range c.Arena().Components() {
		spec.Components = append(spec.Components, componentSpec(n))
	}
	for _, e := range c.Events() {
		spec.Events = append(spec.Events, EventSpec{Frame: e.Frame, Name: e.Name, Payload: e.Payload})
	}
	return spec, nil
}

func newComponent(cs ComponentSpec) *clip.Component {
	n := clip.NewComponent(cs.Name)
	n.Expanded = cs.Expanded
	n.Keyframes = append([]clip.Keyframe(nil), cs.Keyframes...)
	return n
}

func nestLegacy(parent *clip.Component, nodes []ComponentSpec) {
	for _, cs := range nodes {
		n := newComponent(cs)
		parent.AddLegacyChild(n)
		nestLegacy(n, cs.Nodes)
	}
}

func componentSpec(n *clip.Component) ComponentSpec {
	return ComponentSpec{
		Name:      n.Name,
		Expanded:  n.Expanded,
		Keyframes: append([]clip.Keyframe(nil), n.Keyframes...),
		Children:  n.Children(),
	}
}
