// Package rewrite assembles the internal argument vector handed to the
// guest: classified path text is replaced by synthetic filenames, everything
// else passes through unchanged, and argument order and count are preserved.
package rewrite

import (
	"fmt"
	"strings"

	"github.com/pathbox-dev/pathbox/internal/classify"
)

// MintFunc grants access to a path and returns the synthetic filename to
// substitute for it. The caller wires this to the grantor and registry.
type MintFunc func(path string, mode classify.Mode) (string, error)

// Rewriter rewrites argument and environment vectors.
type Rewriter struct {
	classifier *classify.Classifier
	mint       MintFunc
}

// New creates a rewriter over the given classifier and minting function.
func New(classifier *classify.Classifier, mint MintFunc) *Rewriter {
	return &Rewriter{classifier: classifier, mint: mint}
}

// Args rewrites a full argument vector, 1:1 and in order. The first error
// stops processing; the caller is responsible for releasing any handles
// granted for earlier arguments.
func (r *Rewriter) Args(args []string) ([]string, error) {
	rewritten := make([]string, 0, len(args))
	for _, arg := range args {
		out, err := r.rewriteOne(arg)
		if err != nil {
			return nil, err
		}
		rewritten = append(rewritten, out)
	}
	return rewritten, nil
}

// Vars rewrites the values of "KEY=VALUE" environment entries the same way
// arguments are rewritten. Keys are never touched.
func (r *Rewriter) Vars(vars []string) ([]string, error) {
	rewritten := make([]string, 0, len(vars))
	for _, entry := range vars {
		key, value, found := strings.Cut(entry, "=")
		if !found {
			return nil, fmt.Errorf("malformed environment entry %q", entry)
		}
		out, err := r.rewriteOne(value)
		if err != nil {
			return nil, err
		}
		rewritten = append(rewritten, key+"="+out)
	}
	return rewritten, nil
}

func (r *Rewriter) rewriteOne(arg string) (string, error) {
	decision, err := r.classifier.Classify(arg)
	if err != nil {
		return "", err
	}

	switch d := decision.(type) {
	case classify.Verbatim:
		return d.Value, nil

	case classify.Path:
		return r.mint(d.Text, d.Mode)

	case classify.PathList:
		names := make([]string, 0, len(d.Parts))
		for _, part := range d.Parts {
			name, err := r.mint(part, d.Mode)
			if err != nil {
				return "", err
			}
			names = append(names, name)
		}
		return strings.Join(names, ":"), nil

	case classify.Assignment:
		name, err := r.mint(d.Path, d.Mode)
		if err != nil {
			return "", err
		}
		return d.Prefix + name, nil

	default:
		return "", fmt.Errorf("unhandled classification %T", decision)
	}
}
