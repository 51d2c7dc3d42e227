package curve

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// WrapMode identifies how time outside a curve's range maps back into it.
type WrapMode int

const (
	Default WrapMode = iota
	Once
	Loop
	PingPong
	Clamp
	ClampForever
)

var wrapNames = map[WrapMode]string{
	Default:      "default",
	Once:         "once",
	Loop:         "loop",
	PingPong:     "ping_pong",
	Clamp:        "clamp",
	ClampForever: "clamp_forever",
}

func (m WrapMode) String() string {
	if s, ok := wrapNames[m]; ok {
		return s
	}
	return fmt.Sprintf("wrap(%d)", int(m))
}

// ParseWrapMode accepts the names produced by String. Matching is case
// insensitive and treats '-' like '_'.
func ParseWrapMode(s string) (WrapMode, error) {
	key := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_")
	if key == "" {
		return Default, nil
	}
	for m, name := range wrapNames {
		if name == key {
			return m, nil
		}
	}
	return Default, fmt.Errorf("curve: unknown wrap mode %q", s)
}

func (m WrapMode) MarshalYAML() (any, error) {
	return m.String(), nil
}

func (m *WrapMode) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	parsed, err := ParseWrapMode(s)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
