// Package constants provides shared constants used throughout the flowcheck codebase.
// This includes default names, delimiters, timeouts and file permissions that
// should be consistent between the library and the CLI.
package constants

import "time"

// Timeout constants define various timeout durations used in the application
const (
	// DefaultTimeout is the standard timeout for general operations
	DefaultTimeout = 10 * time.Second

	// DialTimeout is the timeout for establishing store connections
	DialTimeout = 10 * time.Second

	// WatchDebounce is the quiet period after a file change before a re-run
	WatchDebounce = 300 * time.Millisecond
)

// File permission constants define standard Unix file permissions
const (
	// DirPermissions is the default permission for created directories (rwxr-xr-x)
	DirPermissions = 0755

	// FilePermissions is the default permission for created files (rw-r--r--)
	FilePermissions = 0644
)

// Limit constants
const (
	// MaxConcurrentChecks bounds how many report sections run at once in parallel mode
	MaxConcurrentChecks = 7

	// ChannelBufferSize is the default buffer size for channels
	ChannelBufferSize = 100
)

// Naming scheme
const (
	// IdentifierDelimiter joins flow, context and method into an identifier
	IdentifierDelimiter = ":"

	// NameSeparator splits an intent document name into flow and method
	NameSeparator = "_"

	// LanguageDelimiter separates language codes inside a composite entity key
	LanguageDelimiter = ","
)

// Project layout defaults
const (
	// DefaultIntentsDir holds one document per intent
	DefaultIntentsDir = "intents"

	// DefaultEntitiesDir holds one document per entity
	DefaultEntitiesDir = "entities"

	// DefaultStoreDir holds collection snapshots for the file store backend
	DefaultStoreDir = "store"

	// DefaultDocumentPattern matches intent and entity documents
	DefaultDocumentPattern = "*.json"

	// DefaultFlowsManifest describes the code-side flow registry
	DefaultFlowsManifest = "flows.yaml"

	// BrandEntityFile lists the brands known locally
	BrandEntityFile = "brand.json"

	// BrandModelEntityFile lists the brand models known locally
	BrandModelEntityFile = "brandModel.json"
)

// Store defaults
const (
	// DefaultCollection is the collection holding vehicle reference records
	DefaultCollection = "modelInformation"

	// DefaultBrandField holds the brand of a reference record
	DefaultBrandField = "make"

	// DefaultModelField holds the brand model of a reference record
	DefaultModelField = "brandModel"

	// DefaultCategoryField holds the category of a reference record
	DefaultCategoryField = "category"

	// DefaultNATSURL is used when the nats backend has no explicit url
	DefaultNATSURL = "nats://127.0.0.1:4222"
)

// Section titles in report order
const (
	SectionContexts    = "contexts"
	SectionFlows       = "flows"
	SectionBrands      = "brands"
	SectionBrandModels = "brandModels"
	SectionCategories  = "categories"
	SectionHandlers    = "handlers"
	SectionEntities    = "entities"
)

// Format constants
const (
	// TimeFormatHuman is a human-readable time format
	TimeFormatHuman = "Jan 2, 2006 at 3:04pm MST"
)
