// Package shopclient provides the main entry point for mounting Admin API
// clients.
package shopclient

import (
	"fmt"

	"github.com/shopkit-io/shopkit/internal/client"
	"github.com/shopkit-io/shopkit/pkg/admin"
)

// New mounts an Admin API client for the configured version. Version
// validation happens here: an unknown version fails immediately with a
// configuration error, and a non-stable version mounts with a one-time
// advisory warning.
func New(config *admin.Config) (admin.Client, error) {
	if config == nil {
		return nil, admin.ErrConfigRequired
	}

	mounted, err := client.New(config)
	if err != nil {
		return nil, fmt.Errorf("mounting admin client: %w", err)
	}

	return mounted, nil
}

// NewWithVersion mounts a client for a version with default configuration.
func NewWithVersion(version string) (admin.Client, error) {
	return New(&admin.Config{Version: version})
}

// NewLatest mounts a client for the newest stable version.
func NewLatest() (admin.Client, error) {
	return New(&admin.Config{Version: admin.LatestStable().Name})
}
