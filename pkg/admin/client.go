package admin

import (
	"context"
	"time"
)

// ResourceOperations is the entry point for one resource type, bound to the
// API version the client was mounted with. One generic execution engine backs
// every entry point, interpreting the type's ResourceDescriptor.
type ResourceOperations interface {
	Executor
	Lister

	// New constructs an unsaved instance bound to the session, ready to be
	// populated and saved.
	New(session *Session) *Resource

	// Find retrieves a single resource by primary key. A nonexistent id is
	// surfaced as a NotFoundError.
	Find(ctx context.Context, session *Session, id int64, params *QueryParams) (*Resource, error)

	// Count returns the collection size for the given filters.
	Count(ctx context.Context, session *Session, params *QueryParams) (int, error)

	// Delete removes a resource by primary key.
	Delete(ctx context.Context, session *Session, id int64, params *QueryParams) error

	// NextPageInfo returns the forward cursor recorded by the most recent All
	// call for this resource type, or nil on the last page. The tracker is
	// shared across callers and overwritten on every list call; concurrent
	// independent pagination sequences must use the cursors on each
	// ListResult instead.
	NextPageInfo() *PageInfo

	// PrevPageInfo returns the backward cursor recorded by the most recent
	// All call for this resource type, or nil on the first page.
	PrevPageInfo() *PageInfo

	// Descriptor returns the resource type's static metadata.
	Descriptor() *ResourceDescriptor
}

// Client is a mounted, version-bound view of the Admin API: one entry point
// per resource type in the version's descriptor bundle.
type Client interface {
	Products() ResourceOperations
	Variants() ResourceOperations
	Orders() ResourceOperations
	Customers() ResourceOperations

	// Shop retrieves the singleton shop record for the session's store.
	Shop(ctx context.Context, session *Session) (*Resource, error)

	// Resource looks up an entry point by singular type name, covering types
	// without a named accessor.
	Resource(name string) (ResourceOperations, error)

	// Version returns the API version the client was mounted with.
	Version() APIVersion

	// RateLimit returns the most recently observed API call-limit state.
	RateLimit() RateLimit
}

// Logger interface for logging.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

// Config represents client configuration for mounting an admin.Client.
//
// Sessions are deliberately absent here: the authenticated shop context is
// passed explicitly into every resource operation, so one client serves any
// number of shops concurrently.
type Config struct {
	// Version is the API version to mount, e.g. "2022-10". Unknown versions
	// fail at mount time; non-stable versions mount with a one-time advisory
	// warning.
	Version string

	// Logger: optional structured logger used by the HTTP layer and the
	// registry. Required for debug logging and version advisories.
	Logger Logger

	// Debug enables verbose HTTP request/response logging when a Logger is
	// provided.
	Debug bool

	// UserAgent overrides the default User-Agent header sent by the client.
	UserAgent string

	// HTTPTimeout: optional default HTTP timeout. Per-request deadlines
	// should generally be controlled via context.
	HTTPTimeout time.Duration

	// RetryMax: maximum number of transport retries for transient failures
	// (5xx, 429, connection errors). If 0, the transport default is used.
	RetryMax int

	// RetryWaitMin: minimum backoff between retries. Applied when RetryMax > 0.
	RetryWaitMin time.Duration

	// RetryWaitMax: maximum backoff between retries. Applied when RetryMax > 0.
	RetryWaitMax time.Duration

	// Cache: optional response cache configuration for GET requests. Caching
	// is disabled when nil.
	Cache *CacheConfig
}
