// Package assets reads and writes clip documents and watches them for edits.
package assets

import (
	"fmt"

	"github.com/milk9111/spriteclip/clip"
	"github.com/milk9111/spriteclip/curve"
	"gopkg.in/yaml.v3"
)

// ClipSpec is the YAML form of a clip.
//
// Since 0.43 the tree is stored flat: Components lists every non-root
// component and Children holds slot indices. Older documents nest the tree
// under Root.Nodes and leave Components empty.
type ClipSpec struct {
	Version    string          `yaml:"version"`
	Name       string          `yaml:"name,omitempty"`
	FrameRate  float64         `yaml:"frame_rate,omitempty"`
	WrapMode   curve.WrapMode  `yaml:"wrap_mode,omitempty"`
	Root       ComponentSpec   `yaml:"root"`
	Components []ComponentSpec `yaml:"components,omitempty"`
	Events     []EventSpec     `yaml:"events,omitempty"`
}

type ComponentSpec struct {
	Name      string          `yaml:"name"`
	Expanded  bool            `yaml:"expanded,omitempty"`
	Keyframes []clip.Keyframe `yaml:"keyframes,omitempty"`
	Children  []int           `yaml:"children,omitempty"`
	Nodes     []ComponentSpec `yaml:"nodes,omitempty"`
}

// EventSpec carries no time; it is derived from the frame on load.
type EventSpec struct {
	Frame   int    `yaml:"frame"`
	Name    string `yaml:"name"`
	Payload string `yaml:"payload,omitempty"`
}

func LoadSpec[T any](filename string) (T, error) {
	var zero T
	data, err := Load(filename)
	if err != nil {
		return zero, fmt.Errorf("assets: load %s: %w", filename, err)
	}

	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("assets: unmarshal %s: %w", filename, err)
	}

	return spec, nil
}
