// Package intents loads intent documents and derives the flow and method each
// one targets from its file name.
package intents

import (
	"context"
	"path"
	"slices"
	"strings"

	"github.com/spf13/afero"

	"github.com/agentstation/flowcheck/pkg/constants"
	"github.com/agentstation/flowcheck/pkg/errors"
	"github.com/agentstation/flowcheck/pkg/files"
)

// Document is one intent definition.
type Document struct {
	Name     string   // file name without extension
	File     string   // path relative to the intents directory
	Flow     string   // empty for whitelisted names
	Method   string   // full name for whitelisted names
	Contexts []string // input contexts, in document order
	Default  bool     // name is whitelisted
}

// NamePolicy controls how document names map to flows and methods.
type NamePolicy struct {
	// Separator splits a name into flow and method.
	Separator string
	// Defaults are names accepted without a flow/method split.
	Defaults []string
}

// DefaultNamePolicy returns the policy used when nothing is configured.
func DefaultNamePolicy() NamePolicy {
	return NamePolicy{
		Separator: constants.NameSeparator,
		Defaults:  []string{"login"},
	}
}

// ParseName splits name into flow and method. A name with a segment count
// other than two is a MalformedNameError unless it is whitelisted, in which
// case flow is empty and method is the whole name.
func (p NamePolicy) ParseName(name string) (flow, method string, isDefault bool, err error) {
	sep := p.Separator
	if sep == "" {
		sep = constants.NameSeparator
	}

	segments := strings.Split(name, sep)
	if len(segments) == 2 {
		return segments[0], segments[1], false, nil
	}
	if slices.Contains(p.Defaults, name) {
		return "", name, true, nil
	}
	return "", "", false, errors.NewMalformedNameError(name, sep)
}

// Set is the result of loading an intents directory.
type Set struct {
	// Documents holds the accepted documents in file name order.
	Documents []Document
	// Malformed holds one error per rejected name.
	Malformed []*errors.MalformedNameError
	// Rejected holds the documents with malformed names. Only Name, File
	// and Contexts are set.
	Rejected []Document
}

// Load reads every document in dir matching pattern. Documents with malformed
// names are reported in Set.Malformed and kept in Set.Rejected, out of
// Set.Documents. Failure to list the directory or read any document aborts
// the load.
func Load(ctx context.Context, fsys afero.Fs, dir, pattern string, policy NamePolicy) (*Set, error) {
	names, err := files.ListFileNames(fsys, dir, pattern)
	if err != nil {
		return nil, err
	}

	set := &Set{}
	for _, file := range names {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		name := files.BaseName(file)
		flow, method, isDefault, err := policy.ParseName(name)
		var malformed *errors.MalformedNameError
		if err != nil && !errors.As(err, &malformed) {
			return nil, err
		}

		var body struct {
			Contexts []string `json:"contexts" yaml:"contexts"`
		}
		if err := files.ReadJSONFile(fsys, path.Join(dir, file), &body); err != nil {
			return nil, err
		}

		if malformed != nil {
			set.Malformed = append(set.Malformed, malformed)
			set.Rejected = append(set.Rejected, Document{Name: name, File: file, Contexts: body.Contexts})
			continue
		}

		set.Documents = append(set.Documents, Document{
			Name:     name,
			File:     file,
			Flow:     flow,
			Method:   method,
			Contexts: body.Contexts,
			Default:  isDefault,
		})
	}
	return set, nil
}

// All returns accepted and rejected documents together in file name order.
func (s *Set) All() []Document {
	all := make([]Document, 0, len(s.Documents)+len(s.Rejected))
	all = append(all, s.Documents...)
	all = append(all, s.Rejected...)
	slices.SortStableFunc(all, func(a, b Document) int {
		return strings.Compare(a.File, b.File)
	})
	return all
}

// Names returns the names of the accepted documents.
func (s *Set) Names() []string {
	names := make([]string, 0, len(s.Documents))
	for _, d := range s.Documents {
		names = append(names, d.Name)
	}
	return names
}
