package assets

import (
	"embed"
	"os"
	"path/filepath"
	"strings"
	"time"
)

//go:embed clips/*.yaml
var ClipsFS embed.FS

// Dir is the on-disk directory checked before the embedded clips.
var Dir = "clips"

// Load reads a clip document by name, preferring a file under Dir so edited
// documents are picked up without a rebuild.
func Load(name string) ([]byte, error) {
	clean := cleanClipPath(name)
	if data, err := os.ReadFile(diskClipPath(clean)); err == nil {
		return data, nil
	}
	return ClipsFS.ReadFile("clips/" + clean)
}

func ModTime(name string) (time.Time, bool) {
	info, err := os.Stat(diskClipPath(cleanClipPath(name)))
	if err != nil {
		return time.Time{}, false
	}
	return info.ModTime(), true
}

// Names lists the embedded clip documents.
func Names() ([]string, error) {
	entries, err := ClipsFS.ReadDir("clips")
	if err != nil {
		return nil, err
	}
	var out []string
	for _, e := range entries {
		if !e.IsDir() && isSpecFile(e.Name()) {
			out = append(out, e.Name())
		}
	}
	return out, nil
}

func cleanClipPath(path string) string {
	if path == "" {
		return ""
	}
	s := filepath.ToSlash(path)
	if after, ok := strings.CutPrefix(s, "assets/"); ok {
		s = after
	}
	if after, ok := strings.CutPrefix(s, "clips/"); ok {
		s = after
	}
	if filepath.Ext(s) == "" {
		s += ".yaml"
	}
	return s
}

func diskClipPath(clean string) string {
	return filepath.Join(Dir, filepath.FromSlash(clean))
}
