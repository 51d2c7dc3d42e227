package main

import (
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/milk9111/spriteclip/assets"
	"github.com/milk9111/spriteclip/clip"
)

// dirResolver resolves sub-clip references to documents next to each other:
// ref "walk" is walk.yaml (or walk.yml) in dir. Decoded clips are cached so
// repeated references share one instance.
type dirResolver struct {
	dir   string
	cache map[string]*clip.Clip
}

func newDirResolver(dir string) *dirResolver {
	return &dirResolver{dir: dir, cache: map[string]*clip.Clip{}}
}

func (r *dirResolver) ResolveClip(ref string) (*clip.Clip, bool) {
	if c, ok := r.cache[ref]; ok {
		return c, true
	}
	for _, ext := range []string{".yaml", ".yml"} {
		data, err := os.ReadFile(filepath.Join(r.dir, ref+ext))
		if err != nil {
			continue
		}
		c, err := assets.Decode(data)
		if err != nil {
			log.Printf("clipctl: resolve %q: %v", ref, err)
			return nil, false
		}
		r.cache[ref] = c
		return c, true
	}
	return nil, false
}

// resolverChain tries each resolver in turn.
type resolverChain []clip.SubClipResolver

func (rc resolverChain) ResolveClip(ref string) (*clip.Clip, bool) {
	for _, r := range rc {
		if c, ok := r.ResolveClip(ref); ok {
			return c, true
		}
	}
	return nil, false
}

func readClip(path string) (*clip.Clip, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	c, err := assets.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

func writeClip(path string, c *clip.Clip) error {
	data, err := assets.Encode(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// docName is the name a document is packed and referenced under.
func docName(path string) string {
	return strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
}

// findDocs lists every clip document under dir in lexical order.
func findDocs(dir string) ([]string, error) {
	var docs []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		switch strings.ToLower(filepath.Ext(path)) {
		case ".yaml", ".yml":
			docs = append(docs, path)
		}
		return nil
	})
	sort.Strings(docs)
	return docs, err
}

func printTree(w *strings.Builder, c *clip.Clip, collapsed bool) {
	fmt.Fprintf(w, "%s (version %s, %g fps, %s)\n", c.Name(), c.Version(), c.FrameRate(), c.WrapMode())
	depth := map[int]int{clip.RootIndex: 0}
	for n := range c.All(collapsed) {
		d := 0
		if !n.IsRoot() {
			d = depth[n.ParentIndex()] + 1
			depth[n.Index()] = d
		}
		marker := ""
		if collapsed && !n.Expanded && n.NumChildren() > 0 {
			marker = " [+]"
		}
		fmt.Fprintf(w, "%s%s%s  keys=%d max=%d\n", strings.Repeat("  ", d), n.Name, marker, len(n.Keyframes), n.MaxFrameIndex())
	}
	fmt.Fprintf(w, "length %gs, %d frames\n", c.Length(), c.MaxFrameIndex()+1)
	for _, e := range c.Events() {
		fmt.Fprintf(w, "event %q at frame %d (%gs)", e.Name, e.Frame, e.Time)
		if e.Payload != "" {
			fmt.Fprintf(w, " payload=%q", e.Payload)
		}
		w.WriteString("\n")
	}
}
