package classify

import "fmt"

// Mode is the access a classified path argument should be granted.
type Mode int

const (
	// ModeAuto grants full access: the resource is opened for reading and
	// writing if it exists, and created otherwise. This is the default for
	// inferred paths, mirroring tools whose arguments may name inputs or
	// outputs.
	ModeAuto Mode = iota

	// ModeRead grants read-only access.
	ModeRead

	// ModeWrite grants write access, creating or truncating the resource.
	ModeWrite

	// ModeAppend grants append-only access.
	ModeAppend
)

// String returns the mode as it appears in diagnostics.
func (m Mode) String() string {
	switch m {
	case ModeAuto:
		return "read/write"
	case ModeRead:
		return "read"
	case ModeWrite:
		return "write"
	case ModeAppend:
		return "append"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// ParseMode parses a default-mode policy name from configuration.
// Only the policies meaningful as defaults are accepted; %read:/%write:/
// %append: directives fix modes per argument instead.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "auto":
		return ModeAuto, nil
	case "readonly":
		return ModeRead, nil
	default:
		return ModeAuto, fmt.Errorf("unknown default mode %q (valid: auto, readonly)", s)
	}
}

// Level selects how much path inference the classifier performs.
//
// Inference is convenient but heuristic: it may miss a path, causing a clear
// and fixable error, or misidentify one, granting access to a file the user
// did not intend. The levels let users trade convenience for explicitness.
type Level int

const (
	// LevelNone disables everything; all arguments pass through verbatim.
	LevelNone Level = iota

	// LevelEscapes honors %-prefixed directives but infers nothing.
	LevelEscapes

	// LevelReadonly honors directives and infers read-only access for
	// path-like arguments.
	LevelReadonly

	// LevelAuto honors directives and infers paths with the configured
	// default access.
	LevelAuto
)

// ParseLevel parses an inference level name from configuration.
func ParseLevel(s string) (Level, error) {
	switch s {
	case "none":
		return LevelNone, nil
	case "escapes":
		return LevelEscapes, nil
	case "readonly":
		return LevelReadonly, nil
	case "auto":
		return LevelAuto, nil
	default:
		return LevelNone, fmt.Errorf("unknown inference level %q (valid: none, escapes, readonly, auto)", s)
	}
}
