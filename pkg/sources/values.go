package sources

import (
	"context"
	"fmt"

	"github.com/spf13/afero"

	"github.com/agentstation/flowcheck/pkg/entities"
	"github.com/agentstation/flowcheck/pkg/errors"
	"github.com/agentstation/flowcheck/pkg/logging"
	"github.com/agentstation/flowcheck/pkg/store"
)

// DistinctValues returns the distinct values of field across all records of
// collection, in first-seen order. Records without the field are skipped.
func DistinctValues(ctx context.Context, s store.Store, collection, field string) ([]string, error) {
	records, err := s.Get(ctx, collection, store.Query{})
	if err != nil {
		return nil, errors.WrapSource(DatabaseID.String(), err)
	}

	seen := make(map[string]struct{})
	var out []string
	skipped := 0
	for _, r := range records {
		v, ok := r.Value(field)
		if !ok || v == nil {
			skipped++
			continue
		}
		out = appendUnique(out, seen, fmt.Sprint(v))
	}

	logging.FromContext(ctx).Debug().
		Str("collection", collection).
		Str("field", field).
		Int("records", len(records)).
		Int("distinct", len(out)).
		Int("skipped", skipped).
		Msg("Collected distinct store values")

	return out, nil
}

// LocalKeys returns the top-level keys of one local JSON document, in
// document order.
func LocalKeys(fsys afero.Fs, path string) ([]string, error) {
	e, err := entities.ReadFile(fsys, path)
	if err != nil {
		return nil, errors.WrapSource(LocalJSONID.String(), err)
	}
	return e.Keys(), nil
}
