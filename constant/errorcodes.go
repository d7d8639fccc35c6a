package constant

// Log-side error codes. Client-facing codes live in domain/status.

// API error codes
const (
	ErrCodeAPIBusiness       = "API001"
	ErrCodeAPIValidation     = "API002"
	ErrCodeAPIRouteNotFound  = "API003"
	ErrCodeAPIMethodNotAllow = "API004"
	ErrCodeAPIMalformedBody  = "API005"
	ErrCodeAPIInternal       = "API006"
	ErrCodeAPIPanic          = "API007"
	ErrCodeAPIEncodeResponse = "API008"
)

// Async error codes
const (
	ErrCodeAsyncBusiness = "ASY001"
	ErrCodeAsyncFailure  = "ASY002"
	ErrCodeAsyncPanic    = "ASY003"
)

// Database error codes
const (
	// General DB errors (5xx)
	ErrCodeDBGeneral = "DB500"

	// Connection errors (0xx)
	ErrCodeDBOpen    = "DB001"
	ErrCodeDBMigrate = "DB002"

	// Write errors (1xx)
	ErrCodeDBInsert = "DB101"
	ErrCodeDBUpdate = "DB102"
	ErrCodeDBDelete = "DB103"

	// Read errors (2xx)
	ErrCodeDBLookup = "DB201"
	ErrCodeDBCount  = "DB202"

	// Transaction errors (3xx)
	ErrCodeDBTxReadOnly = "DB301"

	// Close operation errors (4xx)
	ErrCodeDBClose = "DB401"
)

// Application error codes
const (
	ErrCodeAppConfig         = "APP000"
	ErrCodeAppDBInit         = "APP001"
	ErrCodeAppServerStart    = "APP002"
	ErrCodeAppServerShutdown = "APP003"
	ErrCodeAppPoolShutdown   = "APP004"
)

// Error types for categorization
const (
	ErrTypeValidation = "validation"
	ErrTypeBusiness   = "business"
	ErrTypeRoute      = "route"
	ErrTypeInternal   = "internal"
	ErrTypeAsync      = "async"
	ErrTypeDB         = "db"
	ErrTypeAPI        = "api"
	ErrTypeApp        = "application"
)
