package admin

import (
	"fmt"
	"strconv"
	"strings"
	"sync"
)

// RateLimit is the API call-limit state reported by the
// X-Shopify-Shop-Api-Call-Limit response header, e.g. "32/40".
type RateLimit struct {
	Used int
	Cap  int
}

// Remaining returns the number of calls left in the current window.
func (r RateLimit) Remaining() int {
	return r.Cap - r.Used
}

// String returns the header wire form.
func (r RateLimit) String() string {
	return fmt.Sprintf("%d/%d", r.Used, r.Cap)
}

// ParseRateLimit decodes a call-limit header value.
func ParseRateLimit(value string) (RateLimit, error) {
	used, limit, found := strings.Cut(strings.TrimSpace(value), "/")
	if !found {
		return RateLimit{}, fmt.Errorf("%w: %q", ErrMalformedCallLimit, value)
	}

	usedN, err := strconv.Atoi(used)
	if err != nil {
		return RateLimit{}, fmt.Errorf("%w: %q", ErrMalformedCallLimit, value)
	}

	capN, err := strconv.Atoi(limit)
	if err != nil {
		return RateLimit{}, fmt.Errorf("%w: %q", ErrMalformedCallLimit, value)
	}

	return RateLimit{Used: usedN, Cap: capN}, nil
}

// RateLimitTracker holds the most recently observed call-limit state. Safe
// for concurrent use; last writer wins.
type RateLimitTracker struct {
	mu   sync.Mutex
	last RateLimit
}

// Record stores an observed call-limit state.
func (t *RateLimitTracker) Record(limit RateLimit) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.last = limit
}

// Last returns the most recently observed call-limit state.
func (t *RateLimitTracker) Last() RateLimit {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.last
}
