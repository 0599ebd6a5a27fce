package admin

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/shopkit-io/shopkit/internal/constants"
)

// PageInfo is one decoded pagination cursor: the ready-to-replay query
// parameters for the next or previous page of a list call.
type PageInfo struct {
	values url.Values
}

// NewPageInfo builds a PageInfo from raw query values. Primarily useful in
// tests; list calls produce PageInfo values from response link headers.
func NewPageInfo(values url.Values) *PageInfo {
	return &PageInfo{values: values}
}

// Query returns a copy of the query parameters suitable to pass straight back
// into a list call.
func (p *PageInfo) Query() url.Values {
	values := make(url.Values, len(p.values))
	for key, value := range p.values {
		values[key] = append([]string(nil), value...)
	}

	return values
}

// Token returns the opaque page_info cursor token.
func (p *PageInfo) Token() string {
	return p.values.Get("page_info")
}

// PageInfoSet holds the forward and backward cursors decoded from one list
// response. Either side is nil when the response carries no link in that
// direction (first or last page).
type PageInfoSet struct {
	Next     *PageInfo
	Previous *PageInfo
}

// ParseLinkHeader decodes a link-style pagination header of the form
//
//	<https://shop/admin/api/2022-10/products.json?page_info=abc&limit=50>; rel="next"
//
// into a PageInfoSet. An empty header yields an empty set. A header that does
// not parse is surfaced as an error rather than silently ignored.
func ParseLinkHeader(header string) (*PageInfoSet, error) {
	set := &PageInfoSet{}

	if header == "" {
		return set, nil
	}

	for _, link := range strings.Split(header, ",") {
		parts := strings.Split(strings.TrimSpace(link), ";")
		if len(parts) < 2 {
			return nil, fmt.Errorf("%w: %q", ErrMalformedLinkHeader, link)
		}

		target := strings.TrimSpace(parts[0])
		if !strings.HasPrefix(target, "<") || !strings.HasSuffix(target, ">") {
			return nil, fmt.Errorf("%w: %q", ErrMalformedLinkHeader, link)
		}

		parsed, err := url.Parse(strings.Trim(target, "<>"))
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrMalformedLinkHeader, link)
		}

		pageInfo := &PageInfo{values: parsed.Query()}

		switch relOf(parts[1:]) {
		case "next":
			set.Next = pageInfo
		case "previous":
			set.Previous = pageInfo
		default:
			return nil, fmt.Errorf("%w: missing rel in %q", ErrMalformedLinkHeader, link)
		}
	}

	return set, nil
}

// relOf extracts the rel attribute value from link header attributes.
func relOf(attrs []string) string {
	for _, attr := range attrs {
		name, value, found := strings.Cut(strings.TrimSpace(attr), "=")
		if found && strings.TrimSpace(name) == "rel" {
			return strings.Trim(strings.TrimSpace(value), `"`)
		}
	}

	return ""
}

// ListResult is the outcome of one list call: the page's resources plus the
// cursors for the adjacent pages. Callers running independent pagination
// sequences should thread these cursors explicitly instead of relying on the
// shared per-type tracker.
type ListResult struct {
	Resources    []*Resource
	NextPageInfo *PageInfo
	PrevPageInfo *PageInfo
}

// Lister is implemented by resource entry points that support list calls.
type Lister interface {
	All(ctx context.Context, session *Session, params *QueryParams) (*ListResult, error)
}

// PaginationOptions configures page-walking helpers.
type PaginationOptions struct {
	// PageSize is the per-page limit requested on the first call.
	PageSize int

	// MaxPages bounds the number of pages fetched; 0 means unbounded.
	MaxPages int
}

// DefaultPaginationOptions returns sensible defaults for page walking.
func DefaultPaginationOptions() *PaginationOptions {
	return &PaginationOptions{
		PageSize: constants.StandardPageSize,
	}
}

// PageIterator walks a paginated collection item by item, fetching pages
// lazily via the cursors each page returns.
type PageIterator struct {
	ctx     context.Context
	lister  Lister
	session *Session
	params  *QueryParams

	buffer  []*Resource
	next    *PageInfo
	started bool
}

// NewPageIterator creates an iterator over a paginated collection.
func NewPageIterator(ctx context.Context, lister Lister, session *Session, params *QueryParams) *PageIterator {
	return &PageIterator{
		ctx:     ctx,
		lister:  lister,
		session: session,
		params:  params,
	}
}

// HasNext reports whether another item may be available. It is optimistic
// before the first fetch; Next returns ErrNoMoreItems once the collection is
// exhausted.
func (it *PageIterator) HasNext() bool {
	return len(it.buffer) > 0 || !it.started || it.next != nil
}

// Next returns the next item, fetching the next page when the current one is
// consumed.
func (it *PageIterator) Next() (*Resource, error) {
	for len(it.buffer) == 0 {
		if it.started && it.next == nil {
			return nil, ErrNoMoreItems
		}

		err := it.fetch()
		if err != nil {
			return nil, err
		}
	}

	item := it.buffer[0]
	it.buffer = it.buffer[1:]

	return item, nil
}

// All drains the iterator, returning every remaining item.
func (it *PageIterator) All() ([]*Resource, error) {
	var items []*Resource

	for it.HasNext() {
		item, err := it.Next()
		if err != nil {
			if err == ErrNoMoreItems {
				break
			}

			return nil, err
		}

		items = append(items, item)
	}

	return items, nil
}

// ForEach applies fn to every remaining item, stopping on the first error.
func (it *PageIterator) ForEach(fn func(*Resource) error) error {
	for it.HasNext() {
		item, err := it.Next()
		if err != nil {
			if err == ErrNoMoreItems {
				return nil
			}

			return err
		}

		err = fn(item)
		if err != nil {
			return err
		}
	}

	return nil
}

func (it *PageIterator) fetch() error {
	params := it.params
	if it.started {
		params = it.params.NextPage(it.next)
	}

	result, err := it.lister.All(it.ctx, it.session, params)
	if err != nil {
		return fmt.Errorf("fetching page: %w", err)
	}

	it.started = true
	it.buffer = result.Resources
	it.next = result.NextPageInfo

	return nil
}

// FetchAllPages collects every item of a paginated collection, following next
// cursors until the last page or the MaxPages bound.
func FetchAllPages(ctx context.Context, lister Lister, session *Session, params *QueryParams, options *PaginationOptions) ([]*Resource, error) {
	if options == nil {
		options = DefaultPaginationOptions()
	}

	if params == nil {
		params = NewQueryParams()
	}

	if options.PageSize > 0 && params.Limit == 0 {
		params.WithLimit(options.PageSize)
	}

	var (
		resources []*Resource
		pages     int
	)

	for {
		result, err := lister.All(ctx, session, params)
		if err != nil {
			return nil, fmt.Errorf("fetching page %d: %w", pages+1, err)
		}

		resources = append(resources, result.Resources...)
		pages++

		if result.NextPageInfo == nil {
			break
		}

		if options.MaxPages > 0 && pages >= options.MaxPages {
			break
		}

		params = params.NextPage(result.NextPageInfo)
	}

	return resources, nil
}

// PageResult is one page delivered by StreamPages.
type PageResult struct {
	Items []*Resource
	Err   error
}

// StreamPages fetches pages sequentially and delivers them on a channel. The
// channel is closed after the last page, the first error, or context
// cancellation.
func StreamPages(ctx context.Context, lister Lister, session *Session, params *QueryParams, options *PaginationOptions) <-chan PageResult {
	if options == nil {
		options = DefaultPaginationOptions()
	}

	if params == nil {
		params = NewQueryParams()
	}

	if options.PageSize > 0 && params.Limit == 0 {
		params.WithLimit(options.PageSize)
	}

	results := make(chan PageResult, constants.SmallBufferSize)

	go func() {
		defer close(results)

		pages := 0

		for {
			result, err := lister.All(ctx, session, params)
			if err != nil {
				select {
				case results <- PageResult{Err: err}:
				case <-ctx.Done():
				}

				return
			}

			select {
			case results <- PageResult{Items: result.Resources}:
			case <-ctx.Done():
				return
			}

			pages++

			if result.NextPageInfo == nil {
				return
			}

			if options.MaxPages > 0 && pages >= options.MaxPages {
				return
			}

			params = params.NextPage(result.NextPageInfo)
		}
	}()

	return results
}
