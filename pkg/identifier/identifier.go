// Package identifier builds the composite identifiers that make handlers
// from code, intent documents and store records directly comparable.
package identifier

import (
	"strings"

	"github.com/agentstation/flowcheck/pkg/constants"
)

// Delimiter joins the parts of an identifier.
const Delimiter = constants.IdentifierDelimiter

// Build joins the non-empty parts with Delimiter, preserving order.
// No input, or only empty parts, yields the empty string.
func Build(parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, Delimiter)
}

// Split returns the parts of an identifier built with Build.
func Split(id string) []string {
	if id == "" {
		return nil
	}
	return strings.Split(id, Delimiter)
}
