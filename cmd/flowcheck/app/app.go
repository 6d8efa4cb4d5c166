// Package app provides the application context and dependency management
// for the flowcheck CLI. It centralizes configuration, logging and the
// lifecycle of the reference store.
package app

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"

	"github.com/agentstation/flowcheck"
	"github.com/agentstation/flowcheck/pkg/errors"
	"github.com/agentstation/flowcheck/pkg/sources"
	"github.com/agentstation/flowcheck/pkg/store"
)

// App represents the flowcheck application with all its dependencies.
type App struct {
	// Version information
	version string
	commit  string
	date    string
	builtBy string

	// Configuration
	config *Config
	flags  globalFlags

	// Logger
	logger *zerolog.Logger

	// Filesystem the project is read from
	fs afero.Fs

	// Reference store (lazy-initialized, singleton)
	mu    sync.Mutex
	store store.Store
}

// globalFlags holds the persistent root flags before they are merged into Config.
type globalFlags struct {
	configFile string
	projectDir string
	verbose    bool
	quiet      bool
	noColor    bool
	format     string
	logLevel   string
}

// New creates a new App instance with the given version information.
// The app is initialized with the loaded configuration that can be
// customized using functional options.
func New(version, commit, date, builtBy string, opts ...Option) (*App, error) {
	app := &App{
		version: version,
		commit:  commit,
		date:    date,
		builtBy: builtBy,
		fs:      afero.NewOsFs(),
	}

	// Load configuration
	config, err := LoadConfig()
	if err != nil {
		return nil, errors.WrapResource("load", "config", "", err)
	}
	app.config = config

	// Initialize logger
	logger := NewLogger(config)
	app.logger = &logger

	// Apply any custom options
	for _, opt := range opts {
		if err := opt(app); err != nil {
			return nil, err
		}
	}

	return app, nil
}

// Version returns the version information.
func (a *App) Version() string {
	return a.version
}

// Commit returns the git commit hash.
func (a *App) Commit() string {
	return a.commit
}

// Date returns the build date.
func (a *App) Date() string {
	return a.date
}

// BuiltBy returns the build system identifier.
func (a *App) BuiltBy() string {
	return a.builtBy
}

// Config returns the application configuration.
func (a *App) Config() *Config {
	return a.config
}

// Logger returns the application logger.
func (a *App) Logger() *zerolog.Logger {
	return a.logger
}

// OutputFormat returns the configured output format.
func (a *App) OutputFormat() string {
	return a.config.Format
}

// NoColor reports whether colored output is disabled.
func (a *App) NoColor() bool {
	return a.config.NoColor
}

// Checker returns a checker configured from the application configuration.
// Options are applied after the configured ones.
func (a *App) Checker(opts ...flowcheck.Option) (*flowcheck.Checker, error) {
	if err := a.config.Validate(); err != nil {
		return nil, err
	}

	mode, err := sources.ParseContextMode(a.config.ContextMode)
	if err != nil {
		return nil, err
	}
	if a.config.LastContextOnly {
		mode = sources.ContextModeLast
	}

	c := a.config
	base := []flowcheck.Option{
		flowcheck.WithFS(a.projectFS()),
		flowcheck.WithManifest(c.FlowsManifest),
		flowcheck.WithStore(a.Store(context.Background())),
		flowcheck.WithIntents(c.IntentsDir, c.IntentsPattern),
		flowcheck.WithEntities(c.EntitiesDir, c.EntitiesPattern),
		flowcheck.WithNameSeparator(c.NameSeparator),
		flowcheck.WithDefaultIntents(c.DefaultIntents...),
		flowcheck.WithDefaultContexts(c.DefaultContexts...),
		flowcheck.WithDefaultFlows(c.DefaultFlows...),
		flowcheck.WithContextMode(mode),
		flowcheck.WithLanguages(c.Languages...),
		flowcheck.WithLanguageDelimiter(c.LanguageDelimiter),
		flowcheck.WithCategories(c.Categories...),
		flowcheck.WithCollection(c.Store.Collection),
		flowcheck.WithFields(c.Store.BrandField, c.Store.ModelField, c.Store.CategoryField),
		flowcheck.WithStoreTimeout(c.Store.Timeout),
		flowcheck.WithParallel(c.Parallel),
	}

	checker, err := flowcheck.New(append(base, opts...)...)
	if err != nil {
		return nil, errors.WrapResource("create", "checker", "", err)
	}
	return checker, nil
}

// WatchPaths returns the files and directories a run reads from disk.
func (a *App) WatchPaths() []string {
	c := a.config
	paths := []string{
		c.ProjectPath(c.IntentsDir),
		c.ProjectPath(c.EntitiesDir),
		c.ProjectPath(c.FlowsManifest),
	}
	if c.Store.Backend == BackendFile {
		paths = append(paths, c.ProjectPath(c.Store.Dir))
	}
	return paths
}

// projectFS returns the filesystem rooted at the project directory.
func (a *App) projectFS() afero.Fs {
	if a.config.ProjectDir == "" || a.config.ProjectDir == "." {
		return a.fs
	}
	return afero.NewBasePathFs(a.fs, a.config.ProjectDir)
}

// Shutdown performs graceful shutdown of the application.
// It closes the reference store if one was opened.
func (a *App) Shutdown(_ context.Context) error {
	a.mu.Lock()
	s := a.store
	a.store = nil
	a.mu.Unlock()

	if s == nil {
		return nil
	}
	if err := s.Close(); err != nil {
		a.logger.Error().Err(err).Msg("Failed to close store during shutdown")
		return err
	}
	return nil
}

// Option is a functional option for configuring the App.
type Option func(*App) error

// WithConfig sets a custom configuration.
func WithConfig(config *Config) Option {
	return func(a *App) error {
		a.config = config
		return nil
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(a *App) error {
		a.logger = logger
		return nil
	}
}

// WithFS sets the filesystem the project is read from (useful for testing).
func WithFS(fs afero.Fs) Option {
	return func(a *App) error {
		a.fs = fs
		return nil
	}
}

// WithStore sets a custom reference store (useful for testing).
func WithStore(s store.Store) Option {
	return func(a *App) error {
		a.store = s
		return nil
	}
}
