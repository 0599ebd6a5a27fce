package admin

import (
	"net/url"
	"strconv"
	"strings"
)

// QueryParams represents query parameters for API requests.
//
// When a PageInfo cursor is attached (via WithPageInfo or
// NewQueryParamsFromPageInfo), the cursor's recorded query is replayed as-is;
// only Limit and Fields may be adjusted alongside a cursor, matching the API's
// restriction that filters cannot change mid-pagination.
type QueryParams struct {
	// Limit is the page size for list operations.
	Limit int

	// SinceID restricts results to ids greater than the given value.
	SinceID int64

	// Fields restricts the attribute set returned per resource.
	Fields []string

	// Order is the sort expression, e.g. "created_at desc".
	Order string

	// IDs restricts results to an explicit id set.
	IDs []int64

	// Filters holds resource-specific filters, e.g. status=active.
	Filters map[string][]string

	// PathParams supplies values for parent-id placeholders in the resource's
	// path template, e.g. product_id for variants.
	PathParams map[string]string

	pageInfo *PageInfo
}

// NewQueryParams creates a new empty QueryParams.
func NewQueryParams() *QueryParams {
	return &QueryParams{
		Filters:    make(map[string][]string),
		PathParams: make(map[string]string),
	}
}

// NewQueryParamsFromPageInfo creates QueryParams that replay a pagination
// cursor returned by a prior list call.
func NewQueryParamsFromPageInfo(pageInfo *PageInfo) *QueryParams {
	return NewQueryParams().WithPageInfo(pageInfo)
}

// WithLimit sets the page size.
func (q *QueryParams) WithLimit(limit int) *QueryParams {
	q.Limit = limit

	return q
}

// WithSinceID sets the since_id lower bound.
func (q *QueryParams) WithSinceID(sinceID int64) *QueryParams {
	q.SinceID = sinceID

	return q
}

// WithOrder sets the sort expression.
func (q *QueryParams) WithOrder(order string) *QueryParams {
	q.Order = order

	return q
}

// WithFields replaces the requested field set.
func (q *QueryParams) WithFields(fields ...string) *QueryParams {
	q.Fields = fields

	return q
}

// WithIDs appends to the requested id set.
func (q *QueryParams) WithIDs(ids ...int64) *QueryParams {
	q.IDs = append(q.IDs, ids...)

	return q
}

// WithFilter appends values to a named filter.
func (q *QueryParams) WithFilter(name string, values ...string) *QueryParams {
	if q.Filters == nil {
		q.Filters = make(map[string][]string)
	}

	q.Filters[name] = append(q.Filters[name], values...)

	return q
}

// WithPathParam supplies a value for a parent-id placeholder in the path
// template.
func (q *QueryParams) WithPathParam(name, value string) *QueryParams {
	if q.PathParams == nil {
		q.PathParams = make(map[string]string)
	}

	q.PathParams[name] = value

	return q
}

// NextPage returns fresh params replaying the given cursor. Parent-id
// placeholders are path material rather than query material, so the cursor
// does not record them; they carry over from the receiver.
func (q *QueryParams) NextPage(pageInfo *PageInfo) *QueryParams {
	next := NewQueryParamsFromPageInfo(pageInfo)

	if q == nil {
		return next
	}

	for name, value := range q.PathParams {
		next.WithPathParam(name, value)
	}

	return next
}

// WithPageInfo attaches a pagination cursor to replay.
func (q *QueryParams) WithPageInfo(pageInfo *PageInfo) *QueryParams {
	q.pageInfo = pageInfo

	return q
}

// PageInfo returns the attached pagination cursor, if any.
func (q *QueryParams) PageInfo() *PageInfo {
	return q.pageInfo
}

// ToValues converts QueryParams to url.Values.
func (q *QueryParams) ToValues() url.Values {
	if q.pageInfo != nil {
		values := q.pageInfo.Query()

		if q.Limit > 0 {
			values.Set("limit", strconv.Itoa(q.Limit))
		}

		if len(q.Fields) > 0 {
			values.Set("fields", strings.Join(q.Fields, ","))
		}

		return values
	}

	values := url.Values{}

	if q.Limit > 0 {
		values.Set("limit", strconv.Itoa(q.Limit))
	}

	if q.SinceID > 0 {
		values.Set("since_id", strconv.FormatInt(q.SinceID, 10))
	}

	if len(q.Fields) > 0 {
		values.Set("fields", strings.Join(q.Fields, ","))
	}

	if q.Order != "" {
		values.Set("order", q.Order)
	}

	if len(q.IDs) > 0 {
		ids := make([]string, 0, len(q.IDs))
		for _, id := range q.IDs {
			ids = append(ids, strconv.FormatInt(id, 10))
		}

		values.Set("ids", strings.Join(ids, ","))
	}

	for name, filterValues := range q.Filters {
		values.Set(name, strings.Join(filterValues, ","))
	}

	return values
}
