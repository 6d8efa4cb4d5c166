package differ

// Side is one labeled collection taking part in a comparison.
type Side struct {
	Label string
	Items []string
}

// Differ handles discrepancy detection between two labeled collections.
type Differ interface {
	// Compare returns the items present in one side and missing from the other.
	// Items of a missing from b come first, then items of b missing from a.
	Compare(item string, a, b Side) *Changeset
}

// differ is the default implementation of Differ.
type differ struct {
	suppress SuppressFunc
}

// New creates a Differ with default settings.
func New(opts ...Option) Differ {
	d := &differ{}

	for _, opt := range opts {
		opt(d)
	}

	return d
}

// Compare compares two collections as sets, preserving the iteration order of each side.
func (diff *differ) Compare(item string, a, b Side) *Changeset {
	changeset := &Changeset{
		Item:        item,
		Discrepancy: []Discrepancy{},
	}

	// Create maps for efficient lookup
	aSet := makeSet(a.Items)
	bSet := makeSet(b.Items)

	changeset.Discrepancy = append(changeset.Discrepancy, diff.missing(item, a, b, bSet)...)
	changeset.Discrepancy = append(changeset.Discrepancy, diff.missing(item, b, a, aSet)...)

	changeset.Summary = calculateSummary(changeset.Discrepancy, a.Label, b.Label)

	return changeset
}

// missing collects items of present absent from other, each reported once.
func (diff *differ) missing(item string, present, other Side, otherSet map[string]struct{}) []Discrepancy {
	if diff.suppress != nil && diff.suppress(present.Label, other.Label) {
		return nil
	}

	var out []Discrepancy
	seen := make(map[string]struct{}, len(present.Items))
	for _, value := range present.Items {
		if _, dup := seen[value]; dup {
			continue
		}
		seen[value] = struct{}{}

		if _, exists := otherSet[value]; !exists {
			out = append(out, Discrepancy{
				Item:        item,
				Value:       value,
				PresentIn:   present.Label,
				MissingFrom: other.Label,
			})
		}
	}
	return out
}

func makeSet(items []string) map[string]struct{} {
	set := make(map[string]struct{}, len(items))
	for _, item := range items {
		set[item] = struct{}{}
	}
	return set
}

// Compare is a convenience wrapper returning the rendered lines of a comparison.
func Compare(item string, a, b Side, opts ...Option) []string {
	return New(opts...).Compare(item, a, b).Lines()
}
