// Package flowcheck cross-checks the sources of truth of a conversational
// agent project: intent documents, the handler code, the reference store and
// local entity documents. A run produces a report with one section per check.
package flowcheck

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sourcegraph/conc/iter"

	"github.com/agentstation/flowcheck/pkg/constants"
	"github.com/agentstation/flowcheck/pkg/errors"
	"github.com/agentstation/flowcheck/pkg/flows"
	"github.com/agentstation/flowcheck/pkg/intents"
	"github.com/agentstation/flowcheck/pkg/logging"
	"github.com/agentstation/flowcheck/pkg/report"
)

// Checker runs the consistency checks of a project
type Checker struct {
	config *config
	hooks  *hooks
}

// check is one report section and the function that fills it
type check struct {
	title string
	run   func(ctx context.Context, in *inputs, section *report.Section) error
}

// New creates a new Checker with the given options
func New(opts ...Option) (*Checker, error) {
	c := &Checker{
		config: defaultConfig(),
		hooks:  newHooks(),
	}

	for _, opt := range opts {
		if err := opt(c.config); err != nil {
			return nil, fmt.Errorf("applying options: %w", err)
		}
	}

	return c, nil
}

// OnSection registers a callback invoked after each section completes
func (c *Checker) OnSection(fn SectionHook) {
	c.hooks.OnSection(fn)
}

// checks returns the checks in report order
func (c *Checker) checks() []check {
	return []check{
		{title: constants.SectionContexts, run: c.checkContexts},
		{title: constants.SectionFlows, run: c.checkFlows},
		{title: constants.SectionBrands, run: c.checkBrands},
		{title: constants.SectionBrandModels, run: c.checkBrandModels},
		{title: constants.SectionCategories, run: c.checkCategories},
		{title: constants.SectionHandlers, run: c.checkHandlers},
		{title: constants.SectionEntities, run: c.checkEntities},
	}
}

// Run executes every check and returns the report. Section failures are
// recorded in the report; the returned error is only set when ctx is done.
func (c *Checker) Run(ctx context.Context) (*report.Report, error) {
	rep := &report.Report{
		RunID:     uuid.NewString(),
		StartedAt: time.Now(),
	}
	ctx = logging.WithRunID(ctx, rep.RunID)
	logger := logging.FromContext(ctx)

	logger.Debug().
		Bool("parallel", c.config.parallel).
		Str("context_mode", c.config.contextMode.String()).
		Msg("Starting consistency run")

	in := c.newInputs()
	checks := c.checks()

	if c.config.parallel {
		mapper := iter.Mapper[check, *report.Section]{MaxGoroutines: constants.MaxConcurrentChecks}
		rep.Sections = mapper.Map(checks, func(chk *check) *report.Section {
			return c.runSection(ctx, in, *chk)
		})
	} else {
		rep.Sections = make([]*report.Section, 0, len(checks))
		for _, chk := range checks {
			rep.Sections = append(rep.Sections, c.runSection(ctx, in, chk))
		}
	}

	rep.Duration = time.Since(rep.StartedAt)

	sum := rep.Summary()
	logger.Debug().
		Int("sections", sum.Sections).
		Int("issues", sum.Issues).
		Int("failed", sum.Failed).
		Dur("duration", rep.Duration).
		Msg("Consistency run complete")

	return rep, ctx.Err()
}

// runSection runs one check, turning returned errors and panics into a
// section failure.
func (c *Checker) runSection(ctx context.Context, in *inputs, chk check) (section *report.Section) {
	ctx = logging.WithSection(ctx, chk.title)
	logger := logging.FromContext(ctx)
	section = report.NewSection(chk.title)
	start := time.Now()

	logger.Debug().Msg("Processing section")

	defer func() {
		if r := recover(); r != nil {
			section.Fail(fmt.Errorf("check panicked: %v", r))
		}
		switch {
		case errors.IsCanceled(section.Err):
			logger.Debug().Msg("Section canceled")
		case section.Failed():
			logger.Error().Err(section.Err).Msg("Section failed")
		default:
			logger.Debug().
				Int("issues", section.Issues()).
				Dur("duration", time.Since(start)).
				Msg("Section complete")
		}
		c.hooks.triggerSection(section)
	}()

	if err := ctx.Err(); err != nil {
		section.Fail(errors.Join(errors.ErrCanceled, err))
		return section
	}

	section.Fail(chk.run(ctx, in, section))
	return section
}

// inputs holds sources shared between checks of one run. Each source is
// read once by the first check that needs it.
type inputs struct {
	intentsOnce sync.Once
	intents     *intents.Set
	intentsErr  error

	registryOnce sync.Once
	registry     *flows.Registry
	registryErr  error

	c *Checker
}

func (c *Checker) newInputs() *inputs {
	return &inputs{c: c}
}

// Intents returns the intent documents of the run.
func (in *inputs) Intents(ctx context.Context) (*intents.Set, error) {
	in.intentsOnce.Do(func() {
		in.intents, in.intentsErr = in.c.loadIntents(ctx)
	})
	return in.intents, in.intentsErr
}

// Registry returns the handler definitions of the run.
func (in *inputs) Registry() (*flows.Registry, error) {
	in.registryOnce.Do(func() {
		in.registry, in.registryErr = in.c.loadRegistry()
	})
	return in.registry, in.registryErr
}
