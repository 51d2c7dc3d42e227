package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"

	"github.com/milk9111/spriteclip/assets"
	"github.com/milk9111/spriteclip/clip"
	"github.com/milk9111/spriteclip/store"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var packCmd = &cobra.Command{
	Use:   "pack <dir>",
	Short: "Upgrade every clip document under dir and pack it into a resource file",
	Long: `Pack decodes every .yaml/.yml clip document under dir, upgrades it to the
current schema version and stores it in the resource file under its file name.
Documents are tagged with the directory they live in.

With --meta, the animation index is read as well and every entry becomes a
single-component clip tagged with the entry's tag.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := packOptions{
			Dir:        args[0],
			Out:        viper.GetString("out"),
			Meta:       viper.GetString("meta"),
			FrameRate:  viper.GetFloat64("frame_rate"),
			BestEffort: viper.GetBool("best_effort"),
		}
		res, err := packDir(opts)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "packed %d clips (%d failed) into %s\n", res.Packed, len(res.Failed), opts.Out)
		for _, name := range res.Failed {
			fmt.Fprintf(cmd.OutOrStdout(), "  failed: %s\n", name)
		}
		return nil
	},
}

func init() {
	packCmd.Flags().String("meta", "", "Animation index (yaml) to import alongside the documents")
	rootCmd.AddCommand(packCmd)
}

type packOptions struct {
	Dir        string
	Out        string
	Meta       string
	FrameRate  float64
	BestEffort bool
}

type packResult struct {
	Packed int
	Failed []string
	Tags   map[string][]string
}

// packDir writes every document under opts.Dir into the resource file.
// Documents that fail to decode or upgrade are reported and skipped; the rest
// are still packed.
func packDir(opts packOptions) (*packResult, error) {
	docs, err := findDocs(opts.Dir)
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", opts.Dir, err)
	}

	st, err := store.Open(opts.Out)
	if err != nil {
		return nil, err
	}
	defer st.Close()

	res := &packResult{Tags: map[string][]string{}}

	// Decode everything first so sub-clip references between documents
	// resolve to the instances being packed.
	loaded := map[string]*clip.Clip{}
	var names []string
	for _, path := range docs {
		c, err := readClip(path)
		if err != nil {
			log.Printf("clipctl: pack: %v", err)
			res.Failed = append(res.Failed, path)
			continue
		}
		name := docName(path)
		if _, dup := loaded[name]; dup {
			log.Printf("clipctl: pack: %s: duplicate clip name %q, skipped", path, name)
			res.Failed = append(res.Failed, path)
			continue
		}
		loaded[name] = c
		names = append(names, name)

		tag, _ := filepath.Rel(opts.Dir, filepath.Dir(path))
		if tag == "." {
			tag = filepath.Base(filepath.Clean(opts.Dir))
		}
		res.Tags[filepath.ToSlash(tag)] = append(res.Tags[filepath.ToSlash(tag)], name)
	}

	resolver := resolverChain{mapResolver(loaded), st}
	for _, name := range names {
		c := loaded[name]
		r := clip.Upgrade(c, clip.UpgradeOptions{Resolver: resolver, BestEffort: opts.BestEffort})
		if !r.OK() {
			log.Printf("clipctl: pack: %s", r)
			res.Failed = append(res.Failed, name)
			continue
		}
		if err := st.PutClip(name, c); err != nil {
			return res, err
		}
		res.Packed++
	}

	if opts.Meta != "" {
		if err := packMeta(st, opts, res); err != nil {
			return res, err
		}
	}

	tags := make([]string, 0, len(res.Tags))
	for tag := range res.Tags {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	for _, tag := range tags {
		if err := st.PutTag(tag, res.Tags[tag]); err != nil {
			return res, err
		}
	}
	return res, nil
}

func packMeta(st *store.Store, opts packOptions, res *packResult) error {
	data, err := os.ReadFile(opts.Meta)
	if err != nil {
		return err
	}
	metas, err := assets.ReadAnimationsMeta(data)
	if err != nil {
		return err
	}
	for _, m := range metas {
		c, err := assets.ClipFromMeta(m, opts.FrameRate)
		if err != nil {
			log.Printf("clipctl: pack: animation %q: %v", m.Name, err)
			res.Failed = append(res.Failed, m.Name)
			continue
		}
		if err := st.PutClip(m.Name, c); err != nil {
			return err
		}
		res.Packed++
	}
	for tag, names := range assets.Tags(metas) {
		res.Tags[tag] = append(res.Tags[tag], names...)
	}
	return nil
}

type mapResolver map[string]*clip.Clip

func (m mapResolver) ResolveClip(ref string) (*clip.Clip, bool) {
	c, ok := m[ref]
	return c, ok
}
