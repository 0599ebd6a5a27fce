package constants

import "time"

// File and directory permissions.
const (
	// ConfigDirPerm is the permission for configuration directories.
	ConfigDirPerm = 0750

	// ConfigFilePerm is the permission for configuration files.
	ConfigFilePerm = 0600
)

// HTTP and network timeouts.
const (
	// DefaultHTTPTimeout is the default timeout for HTTP requests.
	DefaultHTTPTimeout = 30 * time.Second

	// ShortHTTPTimeout is used for quick operations.
	ShortHTTPTimeout = 10 * time.Second
)

// Retry limits.
const (
	// DefaultRetryMax is the default maximum number of retries.
	DefaultRetryMax = 5

	// DefaultRetryWaitMin is the minimum wait time between retries.
	DefaultRetryWaitMin = 1 * time.Second

	// DefaultRetryWaitMax is the maximum wait time between retries.
	DefaultRetryWaitMax = 10 * time.Second
)

// Pagination and display limits.
const (
	// DefaultPageSize is the default number of items per page.
	DefaultPageSize = 50

	// StandardPageSize is the common page size for API responses.
	StandardPageSize = 50

	// MaxPageSize is the largest page size the API accepts.
	MaxPageSize = 250

	// SmallBufferSize is used for smaller channel buffers.
	SmallBufferSize = 10
)

// Cache sizing.
const (
	// DefaultCacheSize is the maximum number of cached responses.
	DefaultCacheSize = 1000

	// DefaultCacheTTL is the lifetime of a cached response.
	DefaultCacheTTL = 5 * time.Minute
)

// API path layout.
const (
	// APIPathPrefix is the version-prefixed base of every Admin API path.
	APIPathPrefix = "/admin/api"

	// APIPathSuffix is the representation suffix of every Admin API path.
	APIPathSuffix = ".json"
)

// Request headers.
const (
	// AccessTokenHeader carries the shop access token on every request.
	AccessTokenHeader = "X-Shopify-Access-Token"

	// DefaultUserAgent identifies the client when no override is configured.
	DefaultUserAgent = "shopkit-go"
)

// Output format constants.
const (
	// FormatJSON for JSON output format.
	FormatJSON = "json"

	// FormatYAML for YAML output format.
	FormatYAML = "yaml"

	// FormatTable for tabular output format.
	FormatTable = "table"
)
