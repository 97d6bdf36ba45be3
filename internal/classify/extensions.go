package classify

import (
	"fmt"
	"os"
	"strings"

	"github.com/goccy/go-yaml"
)

// defaultMaxExtensionLength bounds how long a suffix may be and still look
// like a filename extension. "moon.delightful" passes; a 30-character suffix
// does not.
const defaultMaxExtensionLength = 16

// ExtensionSet decides whether a dot-suffix looks like a conventional
// filename extension. The base rule accepts bounded-length ASCII
// alphanumerics; users may allow or deny specific tokens on top of it.
type ExtensionSet struct {
	maxLength int
	allow     map[string]struct{}
	deny      map[string]struct{}
}

// DefaultExtensions returns the built-in extension rule with no overrides.
func DefaultExtensions() *ExtensionSet {
	return &ExtensionSet{maxLength: defaultMaxExtensionLength}
}

// Match reports whether ext (without the leading dot) looks like a filename
// extension. Matching against the allow/deny lists is case-insensitive;
// the base rule is case-preserving by construction.
func (s *ExtensionSet) Match(ext string) bool {
	if ext == "" {
		return false
	}
	lower := strings.ToLower(ext)
	if _, ok := s.deny[lower]; ok {
		return false
	}
	if _, ok := s.allow[lower]; ok {
		return true
	}
	if len(ext) > s.maxLength {
		return false
	}
	for i := 0; i < len(ext); i++ {
		c := ext[i]
		if !isASCIIAlnum(c) {
			return false
		}
	}
	return true
}

func isASCIIAlnum(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

// extensionsFile is the on-disk override document.
type extensionsFile struct {
	// MaxLength replaces the built-in length bound when positive.
	MaxLength int `yaml:"max_length"`
	// Allow lists tokens accepted even when the base rule rejects them.
	Allow []string `yaml:"allow"`
	// Deny lists tokens rejected even when the base rule accepts them.
	Deny []string `yaml:"deny"`
}

// LoadExtensions reads extension-set overrides from a YAML file.
func LoadExtensions(path string) (*ExtensionSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read extensions file: %w", err)
	}

	var doc extensionsFile
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse extensions file: %w", err)
	}

	set := DefaultExtensions()
	if doc.MaxLength > 0 {
		set.maxLength = doc.MaxLength
	}
	if len(doc.Allow) > 0 {
		set.allow = make(map[string]struct{}, len(doc.Allow))
		for _, ext := range doc.Allow {
			set.allow[strings.ToLower(strings.TrimPrefix(ext, "."))] = struct{}{}
		}
	}
	if len(doc.Deny) > 0 {
		set.deny = make(map[string]struct{}, len(doc.Deny))
		for _, ext := range doc.Deny {
			set.deny[strings.ToLower(strings.TrimPrefix(ext, "."))] = struct{}{}
		}
	}
	return set, nil
}
