package constant

// HTTP header names
const (
	HeaderRequestID   = "X-Request-ID"
	HeaderContentType = "Content-Type"
	MimeJSON          = "application/json"
	MimePNG           = "image/png"
)

// Function/Context names
const (
	// Domain context names
	CtxCrud       = "crud"
	CtxTx         = "Transaction"
	CtxTxReadOnly = "ReadOnlyTransaction"

	// Infrastructure context names
	CtxDB    = "db"
	CtxClose = "Close"
	CtxAsync = "async"
	CtxPool  = "pool"
	CtxAPI   = "api"

	// General context names
	CtxRouter          = "Router"
	CtxMain            = "Main"
	CtxErrorMapper     = "ErrorMapper"
	CtxCreateBookmark  = "CreateBookmark"
	CtxListBookmarks   = "ListBookmarks"
	CtxGetBookmark     = "GetBookmark"
	CtxUpdateBookmark  = "UpdateBookmark"
	CtxDeleteBookmark  = "DeleteBookmark"
	CtxBookmarkQRCode  = "BookmarkQRCode"
	CtxWriteResponse   = "WriteResponse"
	CtxRecoverer       = "Recoverer"
	CtxConfigValidator = "ConfigValidator"
)

// Data field keys
const (
	// Request data fields
	DataPath       = "path"
	DataMethod     = "method"
	DataRemoteAddr = "remote_addr"
	DataUserAgent  = "user_agent"
	DataStatus     = "status"
	DataLatency    = "latency"
	DataSize       = "size"
	DataStack      = "stack"

	// Error mapping fields
	DataCode   = "code"
	DataMsg    = "msg"
	DataKind   = "kind"
	DataFields = "fields"

	// Async fields
	DataWorker  = "worker"
	DataTimeout = "timeout"
	DataQueue   = "queue"

	// Database data fields
	DataElapsed      = "elapsed"
	DataRows         = "rows"
	DataSQL          = "sql"
	DataData         = "data"
	DataRowsAffected = "rows_affected"
	DataEntity       = "entity"

	// Application fields
	DataPort        = "port"
	DataDBPath      = "db_path"
	DataEnvironment = "environment"
	DataPoolCore    = "pool_core"
	DataPoolMax     = "pool_max"
	DataID          = "id"

	// Bookmark fields
	DataTitle    = "title"
	DataURL      = "url"
	DataPage     = "page"
	DataPageSize = "page_size"
	DataTotal    = "total"
)

// API routes
const (
	RouteBookmarks      = "/api/bookmarks"
	RouteBookmark       = "/api/bookmarks/{id}"
	RouteBookmarkQRCode = "/api/bookmarks/{id}/qrcode"
	RouteHealthcheck    = "/health"
)

// Query parameters
const (
	QueryPage  = "page"
	QuerySize  = "size"
	QueryTitle = "title"
)

// Log keys
const (
	LogTimeKey         = "time"
	LogLevelKey        = "level"
	LogNameKey         = "logger"
	LogCallerKey       = "caller"
	LogMessageKey      = "msg"
	LogStacktraceKey   = "stacktrace"
	LogRequestIDKey    = "request_id"
	LogFunctionKey     = "function"
	LogErrorCodeKey    = "error_code"
	LogErrorTypeKey    = "error_type"
	LogErrorMessageKey = "error_message"
	LogEncodingJSON    = "json"
	LogEncodingConsole = "console"
	LogOutputStdout    = "stdout"
	LogOutputStderr    = "stderr"
)

// Message constants for application
const (
	MsgApplicationStarting  = "Application starting"
	MsgFailedToLoadConfig   = "Invalid configuration"
	MsgFailedToInitDB       = "Failed to initialize database"
	MsgServerStarting       = "Server starting"
	MsgServerFailedToStart  = "Server failed to start"
	MsgServerShuttingDown   = "Server shutting down"
	MsgServerShutdownError  = "Error during server shutdown"
	MsgPoolShutdownError    = "Error while draining async pool"
	MsgServerStopped        = "Server stopped"
	MsgRequestReceived      = "Request received"
	MsgRequestCompleted     = "Request completed"
	MsgSettingUpRoutes      = "Setting up API routes"
	MsgHealthcheckRequest   = "Handling healthcheck request"
	MsgHealthy              = "Healthy"
	MsgBusinessFailure      = "Business failure"
	MsgValidationFailure    = "Request parameters are invalid"
	MsgRouteNotFound        = "Requested resource not found"
	MsgMethodNotAllowed     = "Request method not supported"
	MsgMalformedBody        = "Request body could not be parsed"
	MsgInternalFailure      = "Internal failure"
	MsgPanicRecovered       = "Recovered from panic"
	MsgEncodeResponseFailed = "Failed to encode response"
	MsgAsyncBusinessFailure = "Async task failed with business error"
	MsgAsyncFailure         = "Async task failed"
	MsgAsyncPanic           = "Async task panicked"
	MsgPoolCallerRuns       = "Async pool saturated, running task on caller"
	MsgPoolStarted          = "Async pool started"
	MsgPoolStopped          = "Async pool stopped"
)

// Message constants for persistence
const (
	MsgDBOpening           = "Opening SQLite database"
	MsgDBOpenFailed        = "Failed to open database"
	MsgDBMigrateFailed     = "Failed to migrate database schema"
	MsgDBInitialized       = "Database initialized successfully"
	MsgDBClosing           = "Closing database connection"
	MsgDBCloseFailed       = "Failed to close database connection"
	MsgSQLError            = "SQL error"
	MsgSQLQuery            = "SQL query"
	MsgInsertFailed        = "Failed to insert entity"
	MsgUpdateFailed        = "Failed to update entity"
	MsgDeleteFailed        = "Failed to delete entity"
	MsgLookupFailed        = "Failed to look up entity"
	MsgCountFailed         = "Failed to count entities"
	MsgTxReadOnlyViolation = "Read-write work requested inside a read-only transaction"
	MsgTxRolledBack        = "Transaction rolled back"
	MsgCacheHit            = "Cache hit"
	MsgCacheInvalidated    = "Cache namespace invalidated"
)

// Cache namespaces
const (
	BookmarkNamespace = "BOOKMARK"
)

// Message constants for bookmarks
const (
	MsgCreatingBookmark = "Creating bookmark"
	MsgBookmarkCreated  = "Bookmark created"
	MsgBookmarkExists   = "Bookmark URL already registered"
	MsgBookmarkNotFound = "Bookmark not found"
	MsgBookmarkUpdated  = "Bookmark updated"
	MsgBookmarkDeleted  = "Bookmark deleted"
	MsgListingBookmarks = "Listing bookmarks"
	MsgGeneratingQRCode = "Generating bookmark QR code"
)
