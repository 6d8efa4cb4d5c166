package flowcheck

import (
	"time"

	"github.com/spf13/afero"

	"github.com/agentstation/flowcheck/pkg/constants"
	"github.com/agentstation/flowcheck/pkg/errors"
	"github.com/agentstation/flowcheck/pkg/flows"
	"github.com/agentstation/flowcheck/pkg/intents"
	"github.com/agentstation/flowcheck/pkg/sources"
	"github.com/agentstation/flowcheck/pkg/store"
)

// Option is a function that configures a Checker
type Option func(*config) error

// config holds everything a run needs.
type config struct {
	fs       afero.Fs
	registry *flows.Registry
	manifest string
	store    store.Store

	intentsDir      string
	intentsPattern  string
	entitiesDir     string
	entitiesPattern string
	brandFile       string
	brandModelFile  string

	namePolicy        intents.NamePolicy
	contextMode       sources.ContextMode
	languages         []string
	languageDelimiter string
	defaultContexts   []string
	defaultFlows      []string
	categories        []string

	collection    string
	brandField    string
	modelField    string
	categoryField string
	storeTimeout  time.Duration

	parallel bool
}

func defaultConfig() *config {
	return &config{
		fs:                afero.NewOsFs(),
		intentsDir:        constants.DefaultIntentsDir,
		intentsPattern:    constants.DefaultDocumentPattern,
		entitiesDir:       constants.DefaultEntitiesDir,
		entitiesPattern:   constants.DefaultDocumentPattern,
		brandFile:         constants.BrandEntityFile,
		brandModelFile:    constants.BrandModelEntityFile,
		namePolicy:        intents.DefaultNamePolicy(),
		contextMode:       sources.ContextModeAll,
		languageDelimiter: constants.LanguageDelimiter,
		defaultContexts:   []string{"confirmation", "permission_confirmation"},
		defaultFlows:      []string{"confirmation", "permission"},
		collection:        constants.DefaultCollection,
		brandField:        constants.DefaultBrandField,
		modelField:        constants.DefaultModelField,
		categoryField:     constants.DefaultCategoryField,
	}
}

// WithFS configures the filesystem documents are read from
func WithFS(fs afero.Fs) Option {
	return func(c *config) error {
		if fs == nil {
			return errors.NewValidationError("fs", nil, "filesystem is required")
		}
		c.fs = fs
		return nil
	}
}

// WithProjectDir reads documents relative to dir on the OS filesystem
func WithProjectDir(dir string) Option {
	return func(c *config) error {
		if dir == "" {
			return errors.NewValidationError("project_dir", dir, "cannot be empty")
		}
		c.fs = afero.NewBasePathFs(afero.NewOsFs(), dir)
		return nil
	}
}

// WithRegistry configures the handler definitions of the application
func WithRegistry(reg *flows.Registry) Option {
	return func(c *config) error {
		c.registry = reg
		return nil
	}
}

// WithManifest reads the handler definitions from a flows manifest at the
// start of every run. A registry set with WithRegistry takes precedence.
func WithManifest(path string) Option {
	return func(c *config) error {
		c.manifest = path
		return nil
	}
}

// WithStore configures the reference store
func WithStore(s store.Store) Option {
	return func(c *config) error {
		c.store = s
		return nil
	}
}

// WithIntents configures the intents directory and document pattern
func WithIntents(dir, pattern string) Option {
	return func(c *config) error {
		c.intentsDir = dir
		if pattern != "" {
			c.intentsPattern = pattern
		}
		return nil
	}
}

// WithEntities configures the entities directory and document pattern
func WithEntities(dir, pattern string) Option {
	return func(c *config) error {
		c.entitiesDir = dir
		if pattern != "" {
			c.entitiesPattern = pattern
		}
		return nil
	}
}

// WithEntityFiles configures the brand and brand model documents, relative
// to the entities directory
func WithEntityFiles(brand, brandModel string) Option {
	return func(c *config) error {
		c.brandFile = brand
		c.brandModelFile = brandModel
		return nil
	}
}

// WithNameSeparator configures how intent names split into flow and method
func WithNameSeparator(sep string) Option {
	return func(c *config) error {
		if sep == "" {
			return errors.NewValidationError("name_separator", sep, "cannot be empty")
		}
		c.namePolicy.Separator = sep
		return nil
	}
}

// WithDefaultIntents configures intent names accepted without a flow/method split
func WithDefaultIntents(names ...string) Option {
	return func(c *config) error {
		c.namePolicy.Defaults = names
		return nil
	}
}

// WithContextMode configures how multi-context intents produce identifiers
func WithContextMode(mode sources.ContextMode) Option {
	return func(c *config) error {
		c.contextMode = mode
		return nil
	}
}

// WithLanguages configures the project languages every entity entry must cover
func WithLanguages(languages ...string) Option {
	return func(c *config) error {
		c.languages = languages
		return nil
	}
}

// WithLanguageDelimiter configures the separator inside composite language keys
func WithLanguageDelimiter(delimiter string) Option {
	return func(c *config) error {
		if delimiter == "" {
			return errors.NewValidationError("language_delimiter", delimiter, "cannot be empty")
		}
		c.languageDelimiter = delimiter
		return nil
	}
}

// WithDefaultContexts configures contexts provided by the platform rather than the code
func WithDefaultContexts(names ...string) Option {
	return func(c *config) error {
		c.defaultContexts = names
		return nil
	}
}

// WithDefaultFlows configures flows provided by the platform rather than the code
func WithDefaultFlows(names ...string) Option {
	return func(c *config) error {
		c.defaultFlows = names
		return nil
	}
}

// WithCategories configures the category ids known to the application
func WithCategories(ids ...string) Option {
	return func(c *config) error {
		c.categories = ids
		return nil
	}
}

// WithCollection configures the store collection holding reference records
func WithCollection(name string) Option {
	return func(c *config) error {
		if name == "" {
			return errors.NewValidationError("collection", name, "cannot be empty")
		}
		c.collection = name
		return nil
	}
}

// WithFields configures the record fields holding brand, model and category.
// Empty values keep the defaults.
func WithFields(brand, model, category string) Option {
	return func(c *config) error {
		if brand != "" {
			c.brandField = brand
		}
		if model != "" {
			c.modelField = model
		}
		if category != "" {
			c.categoryField = category
		}
		return nil
	}
}

// WithStoreTimeout bounds each store query. Zero means no timeout.
func WithStoreTimeout(d time.Duration) Option {
	return func(c *config) error {
		if d < 0 {
			return errors.NewValidationError("store_timeout", d, "cannot be negative")
		}
		c.storeTimeout = d
		return nil
	}
}

// WithParallel runs the checks concurrently. Section order is unchanged.
func WithParallel(enabled bool) Option {
	return func(c *config) error {
		c.parallel = enabled
		return nil
	}
}
