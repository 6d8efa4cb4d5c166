package flowcheck

import (
	"context"
	"path"

	"github.com/agentstation/flowcheck/pkg/differ"
	"github.com/agentstation/flowcheck/pkg/entities"
	"github.com/agentstation/flowcheck/pkg/errors"
	"github.com/agentstation/flowcheck/pkg/flows"
	"github.com/agentstation/flowcheck/pkg/intents"
	"github.com/agentstation/flowcheck/pkg/logging"
	"github.com/agentstation/flowcheck/pkg/report"
	"github.com/agentstation/flowcheck/pkg/sources"
)

// Item words used in discrepancy lines.
const (
	itemContext    = "context"
	itemFlow       = "flowName"
	itemBrand      = "brand"
	itemBrandModel = "brandModel"
	itemCategory   = "category"
	itemHandler    = "handler"
)

func (c *Checker) checkContexts(ctx context.Context, in *inputs, section *report.Section) error {
	set, err := in.Intents(ctx)
	if err != nil {
		return err
	}
	reg, err := in.Registry()
	if err != nil {
		return err
	}

	section.AddWarnings(differ.Compare(itemContext,
		differ.Side{Label: sources.IntentsID.String(), Items: sources.IntentContexts(set.All())},
		differ.Side{Label: sources.CodeID.String(), Items: sources.CodeContexts(reg, c.config.defaultContexts)},
	)...)
	return nil
}

func (c *Checker) checkFlows(ctx context.Context, in *inputs, section *report.Section) error {
	set, err := in.Intents(ctx)
	if err != nil {
		return err
	}
	reg, err := in.Registry()
	if err != nil {
		return err
	}

	// Code may define flows no intent uses yet.
	section.AddWarnings(differ.Compare(itemFlow,
		differ.Side{Label: sources.IntentsID.String(), Items: sources.IntentFlows(set.Documents)},
		differ.Side{Label: sources.CodeID.String(), Items: sources.CodeFlows(reg, c.config.defaultFlows)},
		differ.WithSuppression(differ.SuppressDirection(sources.CodeID.String(), sources.IntentsID.String())),
	)...)
	return nil
}

func (c *Checker) checkBrands(ctx context.Context, _ *inputs, section *report.Section) error {
	return c.compareStoreWithFile(ctx, section, itemBrand, c.config.brandField, c.config.brandFile)
}

func (c *Checker) checkBrandModels(ctx context.Context, _ *inputs, section *report.Section) error {
	return c.compareStoreWithFile(ctx, section, itemBrandModel, c.config.modelField, c.config.brandModelFile)
}

func (c *Checker) checkCategories(ctx context.Context, _ *inputs, section *report.Section) error {
	values, err := c.storeValues(ctx, c.config.collection, c.config.categoryField)
	if err != nil {
		return err
	}

	section.AddWarnings(differ.Compare(itemCategory,
		differ.Side{Label: sources.DatabaseID.String(), Items: values},
		differ.Side{Label: sources.LocalCodeID.String(), Items: c.config.categories},
	)...)
	return nil
}

func (c *Checker) checkHandlers(ctx context.Context, in *inputs, section *report.Section) error {
	set, err := in.Intents(ctx)
	if err != nil {
		return err
	}
	reg, err := in.Registry()
	if err != nil {
		return err
	}

	for _, m := range set.Malformed {
		section.Add(report.FromError(m))
	}
	section.Add(sources.ResolveReferences(set.Documents, reg, c.config.defaultFlows)...)

	codeIDs, leafIssues := sources.CodeHandlers(reg)
	section.Add(leafIssues...)

	section.AddWarnings(differ.Compare(itemHandler,
		differ.Side{Label: sources.IntentsID.String(), Items: sources.IntentHandlers(set.Documents, c.config.contextMode)},
		differ.Side{Label: sources.CodeID.String(), Items: codeIDs},
	)...)

	section.Entries = dedupeEntries(section.Entries)
	return nil
}

func (c *Checker) checkEntities(ctx context.Context, _ *inputs, section *report.Section) error {
	if len(c.config.languages) == 0 {
		return errors.NewConfigError("languages", "no project languages configured", nil)
	}

	all, err := entities.LoadDir(ctx, c.config.fs, c.config.entitiesDir, c.config.entitiesPattern)
	if err != nil {
		return errors.WrapSource(sources.LocalJSONID.String(), err)
	}

	for _, e := range all {
		section.Add(entities.CheckLanguageCoverage(e, c.config.languages, c.config.languageDelimiter)...)
	}
	return nil
}

// compareStoreWithFile compares the distinct values of field in the store
// with the top-level keys of an entity document.
func (c *Checker) compareStoreWithFile(ctx context.Context, section *report.Section, item, field, file string) error {
	values, err := c.storeValues(ctx, c.config.collection, field)
	if err != nil {
		return err
	}
	keys, err := sources.LocalKeys(c.config.fs, path.Join(c.config.entitiesDir, file))
	if err != nil {
		return err
	}

	section.AddWarnings(differ.Compare(item,
		differ.Side{Label: sources.DatabaseID.String(), Items: values},
		differ.Side{Label: sources.LocalJSONID.String(), Items: keys},
	)...)
	return nil
}

// storeValues queries the configured store, bounded by the store timeout.
func (c *Checker) storeValues(ctx context.Context, collection, field string) ([]string, error) {
	if c.config.store == nil {
		return nil, errors.WrapSource(sources.DatabaseID.String(),
			errors.NewConfigError("store", "no store configured", nil))
	}
	if c.config.storeTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.config.storeTimeout)
		defer cancel()
	}
	ctx = logging.WithSource(ctx, sources.DatabaseID.String())
	values, err := sources.DistinctValues(ctx, c.config.store, collection, field)
	if err != nil && c.config.storeTimeout > 0 && errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return nil, errors.WrapSource(sources.DatabaseID.String(),
			errors.NewTimeoutError("query "+collection, c.config.storeTimeout.String(), "store did not answer"))
	}
	return values, err
}

// loadRegistry returns the configured registry or reads the manifest.
func (c *Checker) loadRegistry() (*flows.Registry, error) {
	if c.config.registry != nil {
		return c.config.registry, nil
	}
	if c.config.manifest == "" {
		return nil, errors.WrapSource(sources.CodeID.String(),
			errors.NewConfigError("registry", "no flow registry configured", nil))
	}
	reg, err := flows.LoadManifest(c.config.fs, c.config.manifest)
	if err != nil {
		return nil, errors.WrapSource(sources.CodeID.String(), err)
	}
	return reg, nil
}

// loadIntents reads the intent documents once per run.
func (c *Checker) loadIntents(ctx context.Context) (*intents.Set, error) {
	ctx = logging.WithSource(ctx, sources.IntentsID.String())
	set, err := intents.Load(ctx, c.config.fs, c.config.intentsDir, c.config.intentsPattern, c.config.namePolicy)
	if err != nil {
		return nil, errors.WrapSource(sources.IntentsID.String(), err)
	}

	logging.FromContext(ctx).Debug().
		Str("dir", c.config.intentsDir).
		Int("documents", len(set.Documents)).
		Int("malformed", len(set.Malformed)).
		Msg("Loaded intent documents")

	return set, nil
}

// dedupeEntries drops repeated entries, keeping the first occurrence.
func dedupeEntries(entries []report.Entry) []report.Entry {
	seen := make(map[report.Entry]struct{}, len(entries))
	out := entries[:0]
	for _, e := range entries {
		if _, dup := seen[e]; dup {
			continue
		}
		seen[e] = struct{}{}
		out = append(out, e)
	}
	return out
}
