package admin

import "strings"

// Session carries the authenticated shop context for a single API call. It is
// constructed by the caller (typically from an OAuth callback or a stored
// offline token) and passed by reference into every resource operation. The
// client never mutates it.
type Session struct {
	// Shop is the shop's domain, e.g. "example.myshopify.com". A scheme may
	// be included; "https://" is assumed when absent.
	Shop string

	// AccessToken is the Admin API access token for the shop.
	AccessToken string
}

// BaseURL returns the scheme-qualified origin for the session's shop.
func (s *Session) BaseURL() string {
	shop := strings.TrimSuffix(s.Shop, "/")
	if strings.Contains(shop, "://") {
		return shop
	}

	return "https://" + shop
}

// Validate checks that the session carries enough context to issue a request.
func (s *Session) Validate() error {
	if s == nil {
		return ErrSessionRequired
	}

	if s.Shop == "" {
		return ErrShopRequired
	}

	return nil
}
