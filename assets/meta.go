package assets

import (
	"fmt"
	"math"

	"github.com/milk9111/spriteclip/clip"
	yamlv2 "gopkg.in/yaml.v2"
)

// AnimationMeta is one entry of the flat animation index used by older
// packers. Each frame is a pair of spritesheet cell and duration in
// milliseconds.
type AnimationMeta struct {
	Name          string   `yaml:"name"`
	Tag           string   `yaml:"tag"`
	TextureID     string   `yaml:"textureID"`
	SpritesheetID string   `yaml:"spritesheetID"`
	Frames        [][2]int `yaml:"frames"`
}

// ReadAnimationsMeta parses an animation index file.
func ReadAnimationsMeta(data []byte) ([]AnimationMeta, error) {
	var metas []AnimationMeta
	if err := yamlv2.Unmarshal(data, &metas); err != nil {
		return nil, fmt.Errorf("assets: unmarshal animation index: %w", err)
	}
	for i, m := range metas {
		if m.Name == "" {
			return nil, fmt.Errorf("assets: animation %d has no name", i)
		}
	}
	return metas, nil
}

// Tags groups animation names by tag in index order.
func Tags(metas []AnimationMeta) map[string][]string {
	tags := map[string][]string{}
	for _, m := range metas {
		tags[m.Tag] = append(tags[m.Tag], m.Name)
	}
	return tags
}

// SpriteRef names a spritesheet cell the way clip keyframes refer to it.
func SpriteRef(spritesheetID string, cell int) string {
	return fmt.Sprintf("%s#%d", spritesheetID, cell)
}

// ClipFromMeta converts an index entry into a current clip with a single
// component named after the texture. Every frame becomes a sprite keyframe
// held for its duration, at least one frame long.
func ClipFromMeta(m AnimationMeta, frameRate float64) (*clip.Clip, error) {
	c := clip.New(m.Name, frameRate)
	name := m.TextureID
	if name == "" {
		name = m.Name
	}
	n, err := c.AddComponent(c.Root(), name)
	if err != nil {
		return nil, err
	}

	keys := make([]clip.Keyframe, 0, len(m.Frames))
	frame := 0
	for _, f := range m.Frames {
		keys = append(keys, clip.Keyframe{Frame: frame, Kind: clip.SpriteKey, Ref: SpriteRef(m.SpritesheetID, f[0])})
		frame += max(1, int(math.Round(float64(f[1])*c.FrameRate()/1000)))
	}
	if err := c.SetKeyframes(n, keys); err != nil {
		return nil, err
	}
	return c, nil
}
