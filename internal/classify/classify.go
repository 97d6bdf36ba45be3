// Package classify decides, per command-line argument, whether the argument
// denotes a filesystem path and with what access. It is pure string analysis:
// no filesystem access, no side effects.
package classify

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/pathbox-dev/pathbox/internal/apperrors"
)

// maxPathLength bounds argument length for inference. Exceptionally long
// strings are never filesystem paths.
const maxPathLength = 4096

// Decision is the outcome of classifying one argument. It is a closed set:
// Verbatim, Path, PathList, or Assignment.
type Decision interface {
	decision()
}

// Verbatim passes the argument (or the remainder of a %verbatim: directive)
// through unchanged.
type Verbatim struct {
	Value string
}

// Path treats the whole argument as a single path.
type Path struct {
	Text string
	Mode Mode
	// Inferred is true when the path was recognized by the extension
	// heuristic rather than an explicit directive or separator prefix.
	Inferred bool
}

// PathList treats the argument as a colon-separated list of paths, each
// rewritten independently.
type PathList struct {
	Parts []string
	Mode  Mode
}

// Assignment treats the argument as a --flag=path pair: the prefix up to and
// including '=' passes through, the value is rewritten as a path.
type Assignment struct {
	Prefix string
	Path   string
	Mode   Mode
}

func (Verbatim) decision()   {}
func (Path) decision()       {}
func (PathList) decision()   {}
func (Assignment) decision() {}

// Classifier applies the directive grammar and the path-likelihood heuristic.
type Classifier struct {
	level       Level
	defaultMode Mode
	extensions  *ExtensionSet
}

// New creates a classifier. A nil extension set uses the built-in rule.
func New(level Level, defaultMode Mode, extensions *ExtensionSet) *Classifier {
	if extensions == nil {
		extensions = DefaultExtensions()
	}
	return &Classifier{
		level:       level,
		defaultMode: defaultMode,
		extensions:  extensions,
	}
}

// Classify decides what one raw argument denotes. Directives are parsed
// first; an unrecognized %-directive is an error rather than a literal, since
// the % namespace is reserved for future directives.
func (c *Classifier) Classify(arg string) (Decision, error) {
	if c.level >= LevelEscapes {
		if rest, ok := strings.CutPrefix(arg, "%"); ok {
			return c.classifyDirective(arg, rest)
		}
	}

	if c.level < LevelReadonly {
		return Verbatim{Value: arg}, nil
	}

	mode := c.defaultMode
	if c.level == LevelReadonly {
		mode = ModeRead
	}

	if strings.Contains(arg, ":") {
		// A colon-separated argument is rewritten only when every
		// segment looks like a path; "hostname:80" and friends pass
		// through untouched.
		parts := strings.Split(arg, ":")
		for _, part := range parts {
			if !c.IsLikelyPath(part) {
				return Verbatim{Value: arg}, nil
			}
		}
		return PathList{Parts: parts, Mode: mode}, nil
	}

	if eq := strings.IndexByte(arg, '='); eq >= 0 {
		prefix, value := arg[:eq+1], arg[eq+1:]
		if !strings.Contains(prefix, "/") && c.IsLikelyPath(value) {
			return Assignment{Prefix: prefix, Path: value, Mode: mode}, nil
		}
	}

	if c.IsLikelyPath(arg) {
		return Path{
			Text:     arg,
			Mode:     mode,
			Inferred: !strings.Contains(arg, "/"),
		}, nil
	}

	return Verbatim{Value: arg}, nil
}

func (c *Classifier) classifyDirective(arg, rest string) (Decision, error) {
	if value, ok := strings.CutPrefix(rest, "verbatim:"); ok {
		return Verbatim{Value: value}, nil
	}
	if path, ok := strings.CutPrefix(rest, "read:"); ok {
		return Path{Text: path, Mode: ModeRead}, nil
	}
	if path, ok := strings.CutPrefix(rest, "write:"); ok {
		return Path{Text: path, Mode: ModeWrite}, nil
	}
	if path, ok := strings.CutPrefix(rest, "append:"); ok {
		return Path{Text: path, Mode: ModeAppend}, nil
	}
	return nil, apperrors.NewClassificationError(arg,
		`arguments beginning with '%' are reserved; prepend "%verbatim:" to pass one through unchanged`)
}

// IsLikelyPath applies the path-likelihood heuristic to a single string.
//
// Roughly: flags, empty strings, and strings opening with shell
// metacharacters are never paths; anything containing a '/' is a path unless
// a component looks malformed; otherwise a conventional-looking filename
// extension or a dotfile shape makes it a path. The bias is deliberately
// toward false negatives: missing a real path produces a clear, fixable
// error, while misidentifying one grants unintended access.
func (c *Classifier) IsLikelyPath(arg string) bool {
	if arg == "" || len(arg) > maxPathLength {
		return false
	}

	first, _ := utf8.DecodeRuneInString(arg)
	switch {
	case first == '-': // flags
		return false
	case first == '%': // our escape character
		return false
	case first == '~', first == '!':
		return false
	case unicode.IsSpace(first):
		return false
	case isSuspiciousMetachar(first):
		return false
	}

	for _, component := range strings.Split(arg, "/") {
		if component == "" || component == "." || component == ".." {
			continue
		}
		runes := []rune(component)
		if unicode.IsSpace(runes[0]) || unicode.IsSpace(runes[len(runes)-1]) {
			return false
		}
		if runes[len(runes)-1] == '.' {
			return false
		}
	}

	for _, r := range arg {
		if unicode.IsControl(r) {
			return false
		}
	}

	if strings.Contains(arg, "/") {
		return true
	}

	if c.extensions.Match(SplitExtension(arg)) {
		return true
	}

	// Unix-style dotfiles: ".gitignore", ".this-and_that".
	if suffix, ok := strings.CutPrefix(arg, "."); ok {
		for i := 0; i < len(suffix); i++ {
			b := suffix[i]
			if b <= ' ' || b > '~' || isSuspiciousMetachar(rune(b)) {
				return false
			}
		}
		return true
	}

	return false
}

// SplitExtension returns the final dot-suffix of the path's basename, without
// the dot, or "" if the basename has none. A leading dot does not start an
// extension, so dotfiles have none.
func SplitExtension(pathText string) string {
	base := pathText
	if slash := strings.LastIndexByte(base, '/'); slash >= 0 {
		base = base[slash+1:]
	}
	dot := strings.LastIndexByte(base, '.')
	if dot <= 0 || dot == len(base)-1 {
		return ""
	}
	return base[dot+1:]
}

// isSuspiciousMetachar reports whether r is a shell metacharacter unlikely to
// be worth assuming participates in a filename.
func isSuspiciousMetachar(r rune) bool {
	switch r {
	case '&', '<', '>', '\\', '|', '?', '*', '[', ']', '"', '\'', ';':
		return true
	}
	return false
}
