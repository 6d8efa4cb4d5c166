// Package differ provides functionality for comparing labeled collections of
// identifiers and describing what one side has that the other lacks.
package differ

import (
	"fmt"
	"strings"
)

// Discrepancy is one item present in one side and absent from the other.
type Discrepancy struct {
	Item        string // Kind of item, e.g. "Flow" or "Brand"
	Value       string // The item itself
	PresentIn   string // Label of the side holding the item
	MissingFrom string // Label of the side lacking the item
}

// String renders the discrepancy as a single report line.
func (d Discrepancy) String() string {
	return fmt.Sprintf("%s '%s' is missing from %s (present in %s)", d.Item, d.Value, d.MissingFrom, d.PresentIn)
}

// Changeset represents all discrepancies between two collections.
type Changeset struct {
	Item        string
	Discrepancy []Discrepancy
	Summary     ChangesetSummary
}

// ChangesetSummary provides summary statistics for a changeset.
type ChangesetSummary struct {
	LabelA     string
	LabelB     string
	MissingInB int // present in A, missing from B
	MissingInA int // present in B, missing from A
	Total      int
}

// HasChanges returns true if the changeset contains any discrepancy.
func (c *Changeset) HasChanges() bool {
	return c.Summary.Total > 0
}

// Lines returns one human-readable line per discrepancy, in report order.
func (c *Changeset) Lines() []string {
	lines := make([]string, 0, len(c.Discrepancy))
	for _, d := range c.Discrepancy {
		lines = append(lines, d.String())
	}
	return lines
}

// String returns a human-readable summary of the changeset.
func (c *Changeset) String() string {
	if !c.HasChanges() {
		return "No discrepancies"
	}

	var parts []string
	if c.Summary.MissingInB > 0 {
		parts = append(parts, fmt.Sprintf("%d missing from %s", c.Summary.MissingInB, c.Summary.LabelB))
	}
	if c.Summary.MissingInA > 0 {
		parts = append(parts, fmt.Sprintf("%d missing from %s", c.Summary.MissingInA, c.Summary.LabelA))
	}
	return fmt.Sprintf("%s: %s", c.Item, strings.Join(parts, ", "))
}

// calculateSummary computes the summary for a changeset.
func calculateSummary(discrepancies []Discrepancy, labelA, labelB string) ChangesetSummary {
	summary := ChangesetSummary{LabelA: labelA, LabelB: labelB, Total: len(discrepancies)}
	for _, d := range discrepancies {
		if d.MissingFrom == labelB && d.PresentIn == labelA {
			summary.MissingInB++
		} else {
			summary.MissingInA++
		}
	}
	return summary
}
