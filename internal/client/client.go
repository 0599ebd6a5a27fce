// Package client implements the version-mounted Admin API client: a registry
// of resource descriptors interpreted by a generic execution engine.
package client

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/shopkit-io/shopkit/internal/constants"
	internalhttp "github.com/shopkit-io/shopkit/internal/http"
	"github.com/shopkit-io/shopkit/pkg/admin"
)

// Client implements the admin.Client interface. It is bound to one API
// version at mount time; sessions are passed per call, so one client serves
// any number of shops.
type Client struct {
	httpClient *internalhttp.Client
	version    admin.APIVersion
	logger     admin.Logger
	resources  map[string]*ResourceClient
}

// versionAdvisories tracks which non-stable versions have already been warned
// about, so the advisory fires once per process per version.
var versionAdvisories sync.Map

// New mounts a client for the configured API version. An unknown version is a
// configuration error here, not at first call; a non-stable version mounts
// with a one-time advisory.
func New(config *admin.Config) (*Client, error) {
	if config == nil {
		return nil, admin.ErrConfigRequired
	}

	name := config.Version
	if name == "" {
		name = admin.LatestStable().Name
	}

	version, err := admin.LookupVersion(name)
	if err != nil {
		return nil, err
	}

	httpOpts, err := createHTTPClientOptions(config)
	if err != nil {
		return nil, err
	}

	client := &Client{
		httpClient: internalhttp.NewClient(httpOpts...),
		version:    version,
		logger:     config.Logger,
		resources:  make(map[string]*ResourceClient),
	}

	for _, descriptor := range descriptorBundle(version) {
		client.resources[descriptor.Name] = NewResourceClient(client.httpClient, version, descriptor)
	}

	client.warnIfUnstable()

	return client, nil
}

// createHTTPClientOptions builds transport options from config.
func createHTTPClientOptions(config *admin.Config) ([]internalhttp.Option, error) {
	var httpOpts []internalhttp.Option

	if config.Logger != nil {
		httpOpts = append(httpOpts, internalhttp.WithLogger(config.Logger))
	}

	if config.Debug {
		httpOpts = append(httpOpts, internalhttp.WithDebug(true))
	}

	if config.UserAgent != "" {
		httpOpts = append(httpOpts, internalhttp.WithUserAgent(config.UserAgent))
	}

	if config.HTTPTimeout > 0 {
		httpOpts = append(httpOpts, internalhttp.WithHTTPTimeout(config.HTTPTimeout))
	}

	if config.RetryMax > 0 {
		retryWaitMin := constants.DefaultRetryWaitMin
		retryWaitMax := constants.DefaultRetryWaitMax

		if config.RetryWaitMin > 0 {
			retryWaitMin = config.RetryWaitMin
		}

		if config.RetryWaitMax > 0 {
			retryWaitMax = config.RetryWaitMax
		}

		httpOpts = append(httpOpts, internalhttp.WithRetryConfig(config.RetryMax, retryWaitMin, retryWaitMax))
	}

	if config.Cache != nil && config.Cache.Type != admin.CacheTypeNone {
		cache, err := admin.NewCacheFromConfig(config.Cache)
		if err != nil {
			return nil, fmt.Errorf("building response cache: %w", err)
		}

		ttl := constants.DefaultCacheTTL
		if config.Cache.Options != nil && config.Cache.Options.TTL > 0 {
			ttl = config.Cache.Options.TTL
		}

		httpOpts = append(httpOpts, internalhttp.WithCache(cache, ttl))
	}

	return httpOpts, nil
}

// warnIfUnstable emits the one-time advisory for non-stable versions.
func (c *Client) warnIfUnstable() {
	if c.version.Stable {
		return
	}

	_, alreadyWarned := versionAdvisories.LoadOrStore(c.version.Name, true)
	if alreadyWarned {
		return
	}

	message := fmt.Sprintf(
		"API version %s is not stable; migrate to %s or a newer release once available",
		c.version.Name, admin.LatestStable().Name,
	)

	if c.logger != nil {
		c.logger.Warn(message, map[string]interface{}{"version": c.version.Name})

		return
	}

	fmt.Fprintf(os.Stderr, "Warning: %s\n", message)
}

// Version returns the API version the client was mounted with.
func (c *Client) Version() admin.APIVersion {
	return c.version
}

// RateLimit returns the most recently observed call-limit state.
func (c *Client) RateLimit() admin.RateLimit {
	return c.httpClient.RateLimit()
}

// Resource looks up an entry point by singular type name.
func (c *Client) Resource(name string) (admin.ResourceOperations, error) {
	resource, ok := c.resources[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q in version %s", admin.ErrUnknownResource, name, c.version.Name)
	}

	return resource, nil
}

// Products implements admin.Client.Products.
func (c *Client) Products() admin.ResourceOperations {
	return c.resources["product"]
}

// Variants implements admin.Client.Variants.
func (c *Client) Variants() admin.ResourceOperations {
	return c.resources["variant"]
}

// Orders implements admin.Client.Orders.
func (c *Client) Orders() admin.ResourceOperations {
	return c.resources["order"]
}

// Customers implements admin.Client.Customers.
func (c *Client) Customers() admin.ResourceOperations {
	return c.resources["customer"]
}

// Shop retrieves the singleton shop record for the session's store.
func (c *Client) Shop(ctx context.Context, session *admin.Session) (*admin.Resource, error) {
	return c.resources["shop"].Find(ctx, session, 0, nil)
}
