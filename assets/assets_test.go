package assets

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/milk9111/spriteclip/clip"
	"github.com/milk9111/spriteclip/curve"
)

type clipMap map[string]*clip.Clip

func (m clipMap) ResolveClip(ref string) (*clip.Clip, bool) {
	c, ok := m[ref]
	return c, ok
}

func TestLoadClip(t *testing.T) {
	c, err := LoadClip("hero_idle")
	if err != nil {
		t.Fatalf("LoadClip: %v", err)
	}
	if err := c.Check(); err != nil {
		t.Fatalf("Check: %v", err)
	}

	want := []string{"/", "/body", "/body/armL", "/body/armR", "/shadow"}
	if diff := cmp.Diff(want, c.Paths()); diff != "" {
		t.Fatalf("paths mismatch (-want +got):\n%s", diff)
	}
	if c.Version() != clip.CurrentVersion || c.WrapMode() != curve.Loop {
		t.Fatalf("version %s wrap %s", c.Version(), c.WrapMode())
	}
	if c.Length() != 1.25 {
		t.Fatalf("length = %v, want 1.25", c.Length())
	}

	wantEvents := []clip.Event{
		{Frame: 2, Name: "breathe", Time: 0.5},
		{Frame: 5, Name: "blink", Payload: "left", Time: 1.25},
	}
	if diff := cmp.Diff(wantEvents, c.Events()); diff != "" {
		t.Fatalf("events mismatch (-want +got):\n%s", diff)
	}

	armL, ok := c.FindByPath("/body/armL")
	if !ok {
		t.Fatalf("FindByPath(/body/armL) missed")
	}
	if k, ok := armL.SampleKey(3); !ok || k.Ref != "arm#0" {
		t.Fatalf("SampleKey(3) = %q, %v", k.Ref, ok)
	}
}

func TestEncodeDecode(t *testing.T) {
	c, err := LoadClip("clips/hero_idle.yaml")
	if err != nil {
		t.Fatalf("LoadClip: %v", err)
	}
	data, err := Encode(c)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if !strings.Contains(string(data), "wrap_mode: loop") {
		t.Fatalf("encoded document lost the wrap mode:\n%s", data)
	}
	if strings.Contains(string(data), "time") {
		t.Fatalf("derived event times must not be persisted:\n%s", data)
	}

	back, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	before, _ := ToSpec(c)
	after, _ := ToSpec(back)
	if diff := cmp.Diff(before, after); diff != "" {
		t.Fatalf("document changed (-before +after):\n%s", diff)
	}
}

func TestLegacyDocument(t *testing.T) {
	idle, err := LoadClip("hero_idle")
	if err != nil {
		t.Fatalf("LoadClip(hero_idle): %v", err)
	}
	walk, err := LoadClip("hero_walk_legacy")
	if err != nil {
		t.Fatalf("LoadClip(hero_walk_legacy): %v", err)
	}
	if walk.Version() != 40 || walk.Arena().Len() != 0 {
		t.Fatalf("legacy clip loaded at %s with %d slots", walk.Version(), walk.Arena().Len())
	}
	if _, err := Encode(walk); err == nil {
		t.Fatalf("encoding a legacy clip should fail")
	}

	r := clip.Upgrade(walk, clip.UpgradeOptions{Resolver: clipMap{"hero_idle": idle}})
	if !r.OK() {
		t.Fatalf("Upgrade: %v", r.Err())
	}
	want := []string{"/", "/body", "/body/fx", "/shadow"}
	if diff := cmp.Diff(want, walk.Paths()); diff != "" {
		t.Fatalf("paths mismatch (-want +got):\n%s", diff)
	}
	if walk.Length() != 0.75 || walk.WrapMode() != curve.PingPong {
		t.Fatalf("length %v wrap %s", walk.Length(), walk.WrapMode())
	}

	data, err := Encode(walk)
	if err != nil {
		t.Fatalf("Encode after upgrade: %v", err)
	}
	if !strings.Contains(string(data), `version: "0.46"`) {
		t.Fatalf("upgraded document is not at the current version:\n%s", data)
	}
}

func TestFromSpecRejectsMixedForms(t *testing.T) {
	cases := []struct {
		name string
		spec ClipSpec
	}{
		{
			name: "legacy_with_components",
			spec: ClipSpec{Version: "0.40", Components: []ComponentSpec{{Name: "a"}}},
		},
		{
			name: "current_with_nodes",
			spec: ClipSpec{Version: "0.46", Root: ComponentSpec{Nodes: []ComponentSpec{{Name: "a"}}}},
		},
		{
			name: "bad_version",
			spec: ClipSpec{Version: "zero"},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := FromSpec(tc.spec); err == nil {
				t.Fatalf("FromSpec should fail")
			}
		})
	}

	_, err := FromSpec(ClipSpec{Version: "0.99"})
	if !errors.Is(err, clip.ErrUnsupportedVersion) {
		t.Fatalf("newer document error = %v", err)
	}
}

func TestDecodeFarKeyframe(t *testing.T) {
	doc := []byte(`
version: "0.46"
name: far
frame_rate: 4
root:
  name: far
  children: [0]
components:
  - name: body
    keyframes:
      - {frame: 2, ref: "body#0"}
      - {frame: 4611686018427387904, ref: "body#1"}
`)
	c, err := Decode(doc)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if c.MaxFrameIndex() != 4611686018427387904 {
		t.Fatalf("max frame = %d", c.MaxFrameIndex())
	}
	body, ok := c.FindByPath("/body")
	if !ok {
		t.Fatalf("FindByPath(/body) missed")
	}
	cases := []struct {
		frame int
		ref   string
	}{
		{2, "body#0"},
		{1 << 40, "body#0"},
		{4611686018427387904, "body#1"},
	}
	for _, tc := range cases {
		if k, ok := body.SampleKey(tc.frame); !ok || k.Ref != tc.ref {
			t.Fatalf("SampleKey(%d) = %q, %v want %q", tc.frame, k.Ref, ok, tc.ref)
		}
	}
}

func TestAnimationsMeta(t *testing.T) {
	index := []byte(`
- name: hero_run
  tag: hero
  textureID: hero_tex
  spritesheetID: hero_sheet
  frames: [[0, 250], [1, 500], [2, 100]]
- name: hero_jump
  tag: hero
  textureID: hero_tex
  spritesheetID: hero_sheet
  frames: [[3, 250]]
- name: slime_idle
  tag: slime
  spritesheetID: slime_sheet
  frames: [[0, 250]]
`)
	metas, err := ReadAnimationsMeta(index)
	if err != nil {
		t.Fatalf("ReadAnimationsMeta: %v", err)
	}
	wantTags := map[string][]string{
		"hero":  {"hero_run", "hero_jump"},
		"slime": {"slime_idle"},
	}
	if diff := cmp.Diff(wantTags, Tags(metas)); diff != "" {
		t.Fatalf("tags mismatch (-want +got):\n%s", diff)
	}

	c, err := ClipFromMeta(metas[0], 4)
	if err != nil {
		t.Fatalf("ClipFromMeta: %v", err)
	}
	n, ok := c.FindByPath("/hero_tex")
	if !ok {
		t.Fatalf("component named after the texture is missing: %v", c.Paths())
	}
	wantKeys := []clip.Keyframe{
		{Frame: 0, Ref: "hero_sheet#0"},
		{Frame: 1, Ref: "hero_sheet#1"},
		{Frame: 3, Ref: "hero_sheet#2"},
	}
	if diff := cmp.Diff(wantKeys, n.Keyframes); diff != "" {
		t.Fatalf("keyframes mismatch (-want +got):\n%s", diff)
	}
	if c.Length() != 0.75 {
		t.Fatalf("length = %v, want 0.75", c.Length())
	}

	slime, err := ClipFromMeta(metas[2], 4)
	if err != nil {
		t.Fatalf("ClipFromMeta: %v", err)
	}
	if _, ok := slime.FindByPath("/slime_idle"); !ok {
		t.Fatalf("component without texture should use the animation name")
	}

	if _, err := ReadAnimationsMeta([]byte("- tag: x\n")); err == nil {
		t.Fatalf("unnamed animation should be rejected")
	}
}

func TestWatcher(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWatcher(dir)
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}
	defer w.Close()

	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	doc := filepath.Join(dir, "run.yaml")
	if err := os.WriteFile(doc, []byte("version: \"0.46\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case name := <-w.Events:
		if name != doc {
			t.Fatalf("event for %q, want %q", name, doc)
		}
	case err := <-w.Errors:
		t.Fatalf("watch error: %v", err)
	case <-time.After(5 * time.Second):
		t.Fatalf("no event for %s", doc)
	}

	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
}

func TestCleanClipPath(t *testing.T) {
	cases := map[string]string{
		"hero":                   "hero.yaml",
		"hero.yaml":              "hero.yaml",
		"clips/hero.yaml":        "hero.yaml",
		"assets/clips/hero.yaml": "hero.yaml",
		"hero.yml":               "hero.yml",
		"":                       "",
	}
	for in, want := range cases {
		if got := cleanClipPath(in); got != want {
			t.Fatalf("cleanClipPath(%q) = %q, want %q", in, got, want)
		}
	}
}
