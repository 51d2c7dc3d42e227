package clip

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// KeyKind says what kind of external resource a keyframe points at.
type KeyKind int

const (
	SpriteKey KeyKind = iota
	SubClipKey
)

func (k KeyKind) String() string {
	switch k {
	case SpriteKey:
		return "sprite"
	case SubClipKey:
		return "sub_clip"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

func (k KeyKind) MarshalYAML() (any, error) {
	return k.String(), nil
}

func (k *KeyKind) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	switch s {
	case "", "sprite":
		*k = SpriteKey
	case "sub_clip", "subclip":
		*k = SubClipKey
	default:
		return fmt.Errorf("clip: unknown keyframe kind %q", s)
	}
	return nil
}

// Keyframe places an external resource at a frame index. Ref is only compared
// for identity.
type Keyframe struct {
	Frame int     `yaml:"frame"`
	Kind  KeyKind `yaml:"kind,omitempty"`
	Ref   string  `yaml:"ref"`
}
