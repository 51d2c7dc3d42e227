// Package clip stores a hierarchical sprite animation clip as an array-backed
// component tree addressed by slot index.
package clip

import "errors"

// Structural errors
var (
	ErrNilComponent     = errors.New("clip: component is nil")
	ErrNotInClip        = errors.New("clip: component does not belong to this clip")
	ErrForeignComponent = errors.New("clip: component is attached to another clip")
	ErrCycle            = errors.New("clip: edit would create a cycle")
	ErrRootEdit         = errors.New("clip: root cannot be moved or removed")
	ErrTraversalActive  = errors.New("clip: structural edit during traversal")
	ErrBrokenInvariant  = errors.New("clip: tree invariant violated")
)

// Data errors
var (
	ErrReplaceTable = errors.New("clip: replacement tables differ in length")
	ErrEventIndex   = errors.New("clip: event index out of range")
)

// Migration errors
var (
	ErrUnsupportedVersion = errors.New("clip: unsupported schema version")
	ErrSubClipMissing     = errors.New("clip: sub-clip not found")
)
