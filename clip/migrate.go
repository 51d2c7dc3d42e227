package clip

import (
	"fmt"
	"log"
	"strings"
)

// SubClipResolver finds the clip a sub-clip keyframe refers to.
type SubClipResolver interface {
	ResolveClip(ref string) (*Clip, bool)
}

// UpgradeOptions configures Upgrade.
type UpgradeOptions struct {
	// Resolver is used to upgrade referenced sub-clips. Without one, sub-clip
	// components are refreshed but the referenced clips are left alone.
	Resolver SubClipResolver
	// BestEffort keeps whatever a failed stage changed. By default the clip is
	// restored to its state from before the failing stage.
	BestEffort bool
}

// StageResult is the outcome of one version transition.
type StageResult struct {
	Stage string
	From  Version
	To    Version
	Err   error
}

// MigrationReport describes an Upgrade. Upgrade never panics or returns a
// bare error; the report says whether the clip reached CurrentVersion.
type MigrationReport struct {
	Clip       string
	From       Version
	To         Version
	Stages     []StageResult
	RolledBack bool

	err error
}

func (r MigrationReport) OK() bool   { return r.err == nil }
func (r MigrationReport) Err() error { return r.err }

func (r MigrationReport) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s -> %s", r.Clip, r.From, r.To)
	for _, s := range r.Stages {
		status := "ok"
		if s.Err != nil {
			status = s.Err.Error()
		}
		fmt.Fprintf(&b, "\n  %s (%s -> %s): %s", s.Stage, s.From, s.To, status)
	}
	if r.RolledBack {
		b.WriteString("\n  rolled back")
	}
	return b.String()
}

// transition moves a clip from one version bracket to the next.
type transition struct {
	name string
	to   Version
	run  func(*migrator, *Clip) error
}

// nextTransition is the migration state machine: each version bracket has
// exactly one transition, and every transition moves the version forward.
func nextTransition(v Version) (transition, bool) {
	switch {
	case v < VersionLegacyArena:
		return transition{name: "flatten-legacy-tree", to: VersionLegacyArena, run: (*migrator).flattenLegacy}, true
	case v < CurrentVersion:
		return transition{name: "refresh-sub-clips", to: CurrentVersion, run: (*migrator).refreshSubClips}, true
	}
	return transition{}, false
}

type migrator struct {
	opts   UpgradeOptions
	active map[*Clip]bool
}

// Upgrade migrates c to CurrentVersion and finishes with a full
// Recalculate(true). Upgrading a current clip only runs that final pass.
func Upgrade(c *Clip, opts UpgradeOptions) MigrationReport {
	m := &migrator{opts: opts, active: make(map[*Clip]bool)}
	return m.upgrade(c)
}

func (m *migrator) upgrade(c *Clip) MigrationReport {
	r := MigrationReport{From: c.version, To: c.version, Clip: c.name}
	if c.traversing > 0 {
		r.err = ErrTraversalActive
		return r
	}
	m.active[c] = true
	defer delete(m.active, c)

	for c.version != CurrentVersion {
		t, ok := nextTransition(c.version)
		if !ok {
			r.err = fmt.Errorf("%w: %s is newer than %s", ErrUnsupportedVersion, c.version, CurrentVersion)
			log.Printf("clip: upgrade %q: %v", c.name, r.err)
			return r
		}

		var snap *snapshot
		if !m.opts.BestEffort {
			snap = c.snapshot()
		}
		from := c.version
		err := t.run(m, c)
		r.Stages = append(r.Stages, StageResult{Stage: t.name, From: from, To: t.to, Err: err})
		if err != nil {
			if snap != nil {
				c.restore(snap)
				r.RolledBack = true
			}
			r.err = fmt.Errorf("clip: upgrade %q stage %s: %w", c.name, t.name, err)
			log.Printf("%v (rolled back: %v)", r.err, r.RolledBack)
			return r
		}
		c.version = t.to
		r.To = t.to
	}

	c.Recalculate(true)
	return r
}

// flattenLegacy rebuilds the arena from nested child references with a
// pre-order walk. A component referenced more than once keeps its first
// position.
func (m *migrator) flattenLegacy(c *Clip) error {
	var flat []*Component
	seen := map[*Component]bool{c.root: true}

	var walk func(p *Component) error
	walk = func(p *Component) error {
		p.children = nil
		for _, ch := range p.legacy {
			if ch == nil {
				return fmt.Errorf("%w: nested child of %q", ErrNilComponent, p.Name)
			}
			if seen[ch] {
				log.Printf("clip: upgrade %q: %q referenced twice, keeping first parent", c.name, ch.Name)
				continue
			}
			seen[ch] = true
			ch.index = len(flat)
			ch.parent = p.index
			ch.owner = c.handle
			ch.fullPath = joinPath(p.fullPath, ch.Name)
			ch.fullPathHash = HashPath(ch.fullPath)
			flat = append(flat, ch)
			p.children = append(p.children, ch.index)
			if err := walk(ch); err != nil {
				return err
			}
		}
		return nil
	}

	c.root.fullPath = RootPath
	c.root.fullPathHash = HashPath(RootPath)
	if err := walk(c.root); err != nil {
		return err
	}
	for n := range seen {
		n.legacy = nil
	}
	c.arena.components = flat
	return nil
}

// refreshSubClips rehashes every component that plays a sub-clip, rebuilds
// its frame index and upgrades the clips it references.
func (m *migrator) refreshSubClips(c *Clip) error {
	for _, n := range c.arena.components {
		refs := n.subClipRefs()
		if len(refs) == 0 {
			continue
		}
		n.fullPath = c.pathOf(n)
		n.fullPathHash = HashPath(n.fullPath)
		n.rebuildCurve()

		if m.opts.Resolver == nil {
			continue
		}
		for _, ref := range refs {
			sub, ok := m.opts.Resolver.ResolveClip(ref)
			if !ok || sub == nil {
				return fmt.Errorf("%w: %q used by %s", ErrSubClipMissing, ref, n.fullPath)
			}
			if m.active[sub] {
				continue
			}
			if r := m.upgrade(sub); !r.OK() {
				return fmt.Errorf("sub-clip %q: %w", ref, r.Err())
			}
		}
	}
	return nil
}
