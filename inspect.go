package flowcheck

import (
	"context"
	"path"

	"github.com/agentstation/flowcheck/pkg/report"
	"github.com/agentstation/flowcheck/pkg/sources"
)

// CodeHandlers returns the handler identifiers defined by the code and the
// non-callable leaves found while walking it.
func (c *Checker) CodeHandlers() ([]string, []report.Entry, error) {
	reg, err := c.loadRegistry()
	if err != nil {
		return nil, nil, err
	}
	ids, issues := sources.CodeHandlers(reg)
	return ids, issues, nil
}

// IntentHandlers returns the handler identifiers targeted by the intent
// documents and the malformed names that were skipped.
func (c *Checker) IntentHandlers(ctx context.Context) ([]string, []report.Entry, error) {
	set, err := c.loadIntents(ctx)
	if err != nil {
		return nil, nil, err
	}
	issues := make([]report.Entry, 0, len(set.Malformed))
	for _, m := range set.Malformed {
		issues = append(issues, report.FromError(m))
	}
	return sources.IntentHandlers(set.Documents, c.config.contextMode), issues, nil
}

// Values returns the distinct values of field in a store collection. An
// empty collection uses the configured one.
func (c *Checker) Values(ctx context.Context, collection, field string) ([]string, error) {
	if collection == "" {
		collection = c.config.collection
	}
	return c.storeValues(ctx, collection, field)
}

// Keys returns the top-level keys of an entity document. Relative names are
// resolved against the entities directory.
func (c *Checker) Keys(name string) ([]string, error) {
	if !path.IsAbs(name) && path.Dir(name) == "." {
		name = path.Join(c.config.entitiesDir, name)
	}
	return sources.LocalKeys(c.config.fs, name)
}
