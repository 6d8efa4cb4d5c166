package app

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"golang.org/x/text/language"

	"github.com/agentstation/flowcheck/pkg/constants"
	"github.com/agentstation/flowcheck/pkg/errors"
	"github.com/agentstation/flowcheck/pkg/sources"
)

// Store backends.
const (
	BackendFile      = "file"
	BackendDatastore = "datastore"
	BackendNATS      = "nats"
)

// Config holds the application configuration loaded from various sources
// including config files, environment variables, and .env files.
type Config struct {
	// Global flags
	Verbose bool
	Quiet   bool
	NoColor bool
	Format  string

	// Config file
	ConfigFile string

	// Project layout
	ProjectDir      string
	IntentsDir      string
	IntentsPattern  string
	EntitiesDir     string
	EntitiesPattern string
	FlowsManifest   string

	// Checks
	Languages         []string
	LanguageDelimiter string
	NameSeparator     string
	DefaultIntents    []string
	DefaultContexts   []string
	DefaultFlows      []string
	Categories        []string
	ContextMode       string
	LastContextOnly   bool
	Parallel          bool
	MetricsFile       string

	// Reference store
	Store StoreConfig

	// Logging configuration
	LogLevel  string
	LogFormat string
	LogOutput string
}

// StoreConfig selects and configures the reference store backend.
type StoreConfig struct {
	Backend         string
	Dir             string
	ProjectID       string
	Namespace       string
	CredentialsFile string
	NATSURL         string
	BucketPrefix    string
	Timeout         time.Duration
	Collection      string
	BrandField      string
	ModelField      string
	CategoryField   string
}

// LoadConfig loads configuration from all sources in order of precedence:
// 1. Command-line flags (handled by cobra)
// 2. Environment variables (FLOWCHECK_*)
// 3. .env files
// 4. Config file (.flowcheck.yaml in the working or home directory)
// 5. Defaults
func LoadConfig() (*Config, error) {
	// Load .env files first (before Viper env binding)
	loadEnvFiles()
	return loadConfig(viper.New(), os.Getenv("FLOWCHECK_CONFIG"))
}

func loadConfig(v *viper.Viper, configFile string) (*Config, error) {
	v.SetEnvPrefix("FLOWCHECK")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	setDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		// Search for config in standard locations
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
		v.SetConfigType("yaml")
		v.SetConfigName(".flowcheck")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, errors.NewConfigError("config", "reading config file", err)
		}
	}

	config := &Config{
		Verbose: v.GetBool("verbose"),
		Quiet:   v.GetBool("quiet"),
		NoColor: v.GetBool("no_color") || os.Getenv("NO_COLOR") != "",
		Format:  v.GetString("format"),

		ConfigFile: v.ConfigFileUsed(),

		ProjectDir:      v.GetString("project_dir"),
		IntentsDir:      v.GetString("intents_dir"),
		IntentsPattern:  v.GetString("intents_pattern"),
		EntitiesDir:     v.GetString("entities_dir"),
		EntitiesPattern: v.GetString("entities_pattern"),
		FlowsManifest:   v.GetString("flows_manifest"),

		Languages:         getList(v, "languages"),
		LanguageDelimiter: v.GetString("language_delimiter"),
		NameSeparator:     v.GetString("name_separator"),
		DefaultIntents:    getList(v, "default_intents"),
		DefaultContexts:   getList(v, "default_contexts"),
		DefaultFlows:      getList(v, "default_flows"),
		Categories:        getList(v, "categories"),
		ContextMode:       v.GetString("intents.context_mode"),
		LastContextOnly:   v.GetBool("intents.last_context_only"),
		Parallel:          v.GetBool("parallel"),
		MetricsFile:       v.GetString("metrics_file"),

		Store: StoreConfig{
			Backend:         v.GetString("store.backend"),
			Dir:             v.GetString("store.dir"),
			ProjectID:       v.GetString("store.project_id"),
			Namespace:       v.GetString("store.namespace"),
			CredentialsFile: v.GetString("store.credentials_file"),
			NATSURL:         v.GetString("store.nats_url"),
			BucketPrefix:    v.GetString("store.bucket_prefix"),
			Timeout:         v.GetDuration("store.timeout"),
			Collection:      v.GetString("store.collection"),
			BrandField:      v.GetString("store.brand_field"),
			ModelField:      v.GetString("store.model_field"),
			CategoryField:   v.GetString("store.category_field"),
		},

		// Logging configuration
		LogLevel:  getEnvOrDefault("LOG_LEVEL", ""),
		LogFormat: getEnvOrDefault("LOG_FORMAT", "auto"),
		LogOutput: getEnvOrDefault("LOG_OUTPUT", "stderr"),
	}

	return config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("project_dir", ".")
	v.SetDefault("intents_dir", constants.DefaultIntentsDir)
	v.SetDefault("intents_pattern", constants.DefaultDocumentPattern)
	v.SetDefault("entities_dir", constants.DefaultEntitiesDir)
	v.SetDefault("entities_pattern", constants.DefaultDocumentPattern)
	v.SetDefault("flows_manifest", constants.DefaultFlowsManifest)
	v.SetDefault("language_delimiter", constants.LanguageDelimiter)
	v.SetDefault("name_separator", constants.NameSeparator)
	v.SetDefault("default_intents", []string{"login"})
	v.SetDefault("default_contexts", []string{"confirmation", "permission_confirmation"})
	v.SetDefault("default_flows", []string{"confirmation", "permission"})
	v.SetDefault("intents.context_mode", "all")
	v.SetDefault("store.backend", BackendFile)
	v.SetDefault("store.dir", constants.DefaultStoreDir)
	v.SetDefault("store.nats_url", constants.DefaultNATSURL)
	v.SetDefault("store.collection", constants.DefaultCollection)
	v.SetDefault("store.brand_field", constants.DefaultBrandField)
	v.SetDefault("store.model_field", constants.DefaultModelField)
	v.SetDefault("store.category_field", constants.DefaultCategoryField)
}

// Validate checks the values the checks depend on.
func (c *Config) Validate() error {
	for _, lang := range c.Languages {
		if _, err := language.Parse(lang); err != nil {
			return errors.NewConfigError("languages", "invalid language code "+lang, err)
		}
	}
	if _, err := sources.ParseContextMode(c.ContextMode); err != nil {
		return errors.NewConfigError("intents", "invalid context_mode "+c.ContextMode, err)
	}
	switch c.Store.Backend {
	case BackendFile, BackendDatastore, BackendNATS:
	default:
		return errors.NewConfigError("store", "unknown backend "+c.Store.Backend+" (want file, datastore or nats)", nil)
	}
	if c.Store.Backend == BackendDatastore && c.Store.ProjectID == "" {
		return errors.NewConfigError("store", "project_id is required for the datastore backend", nil)
	}
	if c.Store.Timeout < 0 {
		return errors.NewConfigError("store", "timeout cannot be negative", nil)
	}
	return nil
}

// UpdateFromFlags updates config values from parsed command flags.
// This should be called after cobra parses flags to ensure flag
// values take precedence over config file and env vars.
func (c *Config) UpdateFromFlags(verbose, quiet, noColor bool, format, logLevel string) {
	c.Verbose = c.Verbose || verbose
	c.Quiet = c.Quiet || quiet
	c.NoColor = c.NoColor || noColor
	if format != "" {
		c.Format = format
	}
	if logLevel != "" {
		c.LogLevel = logLevel
	}
}

// ProjectPath resolves name against the project directory.
func (c *Config) ProjectPath(name string) string {
	if filepath.IsAbs(name) || c.ProjectDir == "" {
		return name
	}
	return filepath.Join(c.ProjectDir, name)
}

// loadEnvFiles loads environment variables from .env files.
func loadEnvFiles() {
	// .env.local overrides .env
	for _, envFile := range []string{".env.local", ".env"} {
		_ = godotenv.Load(envFile)
	}
}

// getList reads a list value. Environment variables hold comma separated values.
func getList(v *viper.Viper, key string) []string {
	var out []string
	for _, item := range v.GetStringSlice(key) {
		for _, part := range strings.Split(item, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// getEnvOrDefault returns the environment variable value or the default if not set.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
