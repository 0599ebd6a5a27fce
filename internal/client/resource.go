package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"sync"

	"github.com/shopkit-io/shopkit/internal/constants"
	internalhttp "github.com/shopkit-io/shopkit/internal/http"
	"github.com/shopkit-io/shopkit/pkg/admin"
)

// ResourceClient is the generic execution engine: one instance per resource
// type per mounted version, interpreting the type's descriptor to bind
// logical operations to HTTP calls.
//
// The page cursor tracker it carries is the only mutable state shared across
// independent call sequences. It is keyed by resource type (this client), not
// by session or caller: overlapping All calls overwrite it, last writer wins.
type ResourceClient struct {
	httpClient *internalhttp.Client
	version    admin.APIVersion
	descriptor *admin.ResourceDescriptor

	mu       sync.Mutex
	nextPage *admin.PageInfo
	prevPage *admin.PageInfo
}

// NewResourceClient creates the execution engine for one resource type.
func NewResourceClient(httpClient *internalhttp.Client, version admin.APIVersion, descriptor *admin.ResourceDescriptor) *ResourceClient {
	return &ResourceClient{
		httpClient: httpClient,
		version:    version,
		descriptor: descriptor,
	}
}

// Descriptor returns the resource type's static metadata.
func (c *ResourceClient) Descriptor() *admin.ResourceDescriptor {
	return c.descriptor
}

// New constructs an unsaved instance bound to the session.
func (c *ResourceClient) New(session *admin.Session) *admin.Resource {
	return admin.NewResource(c, c.descriptor, session)
}

// Find retrieves a single resource by primary key.
func (c *ResourceClient) Find(ctx context.Context, session *admin.Session, id int64, params *admin.QueryParams) (*admin.Resource, error) {
	path, query, err := c.buildCall(admin.OpFind, strconv.FormatInt(id, 10), params)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Get(ctx, session, path, query)
	if err != nil {
		return nil, fmt.Errorf("finding %s: %w", c.descriptor.Name, err)
	}

	attributes, err := decodeEnvelope(resp.Body, c.descriptor.Name)
	if err != nil {
		return nil, fmt.Errorf("parsing %s response: %w", c.descriptor.Name, err)
	}

	return c.newPersisted(session, attributes, params), nil
}

// All retrieves one page of the collection. On success the returned
// ListResult carries the page's own cursors and the shared per-type tracker
// is overwritten with them; on failure neither instances nor the tracker are
// touched.
func (c *ResourceClient) All(ctx context.Context, session *admin.Session, params *admin.QueryParams) (*admin.ListResult, error) {
	path, query, err := c.buildCall(admin.OpAll, "", params)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Get(ctx, session, path, query)
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", c.descriptor.PluralName, err)
	}

	items, err := decodeListEnvelope(resp.Body, c.descriptor.PluralName)
	if err != nil {
		return nil, fmt.Errorf("parsing %s list response: %w", c.descriptor.PluralName, err)
	}

	pages, err := admin.ParseLinkHeader(resp.Headers.Get("Link"))
	if err != nil {
		return nil, fmt.Errorf("parsing %s pagination: %w", c.descriptor.PluralName, err)
	}

	resources := make([]*admin.Resource, 0, len(items))
	for _, attributes := range items {
		resources = append(resources, c.newPersisted(session, attributes, params))
	}

	c.mu.Lock()
	c.nextPage = pages.Next
	c.prevPage = pages.Previous
	c.mu.Unlock()

	return &admin.ListResult{
		Resources:    resources,
		NextPageInfo: pages.Next,
		PrevPageInfo: pages.Previous,
	}, nil
}

// Count returns the collection size for the given filters.
func (c *ResourceClient) Count(ctx context.Context, session *admin.Session, params *admin.QueryParams) (int, error) {
	path, query, err := c.buildCall(admin.OpCount, "", params)
	if err != nil {
		return 0, err
	}

	resp, err := c.httpClient.Get(ctx, session, path, query)
	if err != nil {
		return 0, fmt.Errorf("counting %s: %w", c.descriptor.PluralName, err)
	}

	var result struct {
		Count int `json:"count"`
	}

	err = json.Unmarshal(resp.Body, &result)
	if err != nil {
		return 0, fmt.Errorf("parsing %s count response: %w", c.descriptor.PluralName, err)
	}

	return result.Count, nil
}

// Delete removes a resource by primary key.
func (c *ResourceClient) Delete(ctx context.Context, session *admin.Session, id int64, params *admin.QueryParams) error {
	path, query, err := c.buildCall(admin.OpDelete, strconv.FormatInt(id, 10), params)
	if err != nil {
		return err
	}

	_, err = c.httpClient.Delete(ctx, session, path, query)
	if err != nil {
		return fmt.Errorf("deleting %s: %w", c.descriptor.Name, err)
	}

	return nil
}

// SaveResource implements admin.Executor: create when the instance has no
// primary key value, update otherwise. The full attribute set goes out under
// the singular envelope key; on success the attributes are repopulated from
// the response body.
func (c *ResourceClient) SaveResource(ctx context.Context, resource *admin.Resource) error {
	operation := admin.OpCreate

	var id string

	if existing, ok := resource.ID(); ok {
		operation = admin.OpUpdate
		id = strconv.FormatInt(existing, 10)
	}

	path, err := c.buildInstancePath(operation, id, resource)
	if err != nil {
		return err
	}

	body := map[string]interface{}{
		c.descriptor.Name: resource.Attributes(),
	}

	var resp *internalhttp.Response

	if operation == admin.OpCreate {
		resp, err = c.httpClient.Post(ctx, resource.Session(), path, body)
	} else {
		resp, err = c.httpClient.Put(ctx, resource.Session(), path, body)
	}

	if err != nil {
		return err
	}

	attributes, err := decodeEnvelope(resp.Body, c.descriptor.Name)
	if err != nil {
		return fmt.Errorf("parsing %s response: %w", c.descriptor.Name, err)
	}

	// A create that comes back without the identifying key would leave the
	// instance permanently unsaveable; surface it instead of defaulting.
	if _, ok := attributes[c.descriptor.PrimaryKey]; !ok {
		return &admin.ValidationError{Status: resp.StatusCode, Body: resp.Body}
	}

	resource.ReplaceAttributes(attributes)
	resource.MarkPersisted()

	return nil
}

// DeleteResource implements admin.Executor.
func (c *ResourceClient) DeleteResource(ctx context.Context, resource *admin.Resource) error {
	id, ok := resource.ID()
	if !ok {
		return admin.ErrMissingPrimaryKey
	}

	path, err := c.buildInstancePath(admin.OpDelete, strconv.FormatInt(id, 10), resource)
	if err != nil {
		return err
	}

	_, err = c.httpClient.Delete(ctx, resource.Session(), path, nil)
	if err != nil {
		return err
	}

	resource.MarkDeleted()

	return nil
}

// NextPageInfo returns the shared tracker's forward cursor: the one recorded
// by the most recent All call for this resource type, nil on the last page.
func (c *ResourceClient) NextPageInfo() *admin.PageInfo {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.nextPage
}

// PrevPageInfo returns the shared tracker's backward cursor.
func (c *ResourceClient) PrevPageInfo() *admin.PageInfo {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.prevPage
}

// buildCall resolves an operation's path template and query for one call.
func (c *ResourceClient) buildCall(name admin.OperationName, id string, params *admin.QueryParams) (string, url.Values, error) {
	operation, err := c.descriptor.Operation(name)
	if err != nil {
		return "", nil, err
	}

	placeholders := make(map[string]string)

	var query url.Values

	if params != nil {
		for key, value := range params.PathParams {
			placeholders[key] = value
		}

		query = params.ToValues()
	}

	if operation.RequiresID {
		placeholders["id"] = id
	}

	expanded, err := admin.ExpandPath(operation.PathTemplate, placeholders)
	if err != nil {
		return "", nil, err
	}

	return c.apiPath(expanded), query, nil
}

// buildInstancePath resolves an operation's path for an instance, drawing
// parent-id placeholders from the instance itself.
func (c *ResourceClient) buildInstancePath(name admin.OperationName, id string, resource *admin.Resource) (string, error) {
	operation, err := c.descriptor.Operation(name)
	if err != nil {
		return "", err
	}

	placeholders := resource.PathParams()
	if operation.RequiresID {
		placeholders["id"] = id
	}

	expanded, err := admin.ExpandPath(operation.PathTemplate, placeholders)
	if err != nil {
		return "", err
	}

	return c.apiPath(expanded), nil
}

// apiPath prefixes an expanded template with the version segment and the
// representation suffix.
func (c *ResourceClient) apiPath(expanded string) string {
	return constants.APIPathPrefix + "/" + c.version.Name + "/" + expanded + constants.APIPathSuffix
}

// newPersisted builds an instance from response attributes, carrying over any
// parent-id placeholders so nested instances can be saved or deleted.
func (c *ResourceClient) newPersisted(session *admin.Session, attributes map[string]interface{}, params *admin.QueryParams) *admin.Resource {
	resource := admin.NewPersistedResource(c, c.descriptor, session, attributes)

	if params != nil {
		for key, value := range params.PathParams {
			resource.SetPathParam(key, value)
		}
	}

	return resource
}

// decodeEnvelope unwraps a single-key item body, e.g. {"product": {...}}.
// Numbers decode as json.Number so 64-bit ids survive intact.
func decodeEnvelope(body []byte, key string) (map[string]interface{}, error) {
	var payload map[string]json.RawMessage

	err := json.Unmarshal(body, &payload)
	if err != nil {
		return nil, fmt.Errorf("decoding body: %w", err)
	}

	raw, ok := payload[key]
	if !ok {
		return nil, fmt.Errorf("%w: %q", admin.ErrMissingEnvelopeKey, key)
	}

	return decodeAttributes(raw)
}

// decodeListEnvelope unwraps a plural body, e.g. {"products": [...]}.
func decodeListEnvelope(body []byte, key string) ([]map[string]interface{}, error) {
	var payload map[string]json.RawMessage

	err := json.Unmarshal(body, &payload)
	if err != nil {
		return nil, fmt.Errorf("decoding body: %w", err)
	}

	raw, ok := payload[key]
	if !ok {
		return nil, fmt.Errorf("%w: %q", admin.ErrMissingEnvelopeKey, key)
	}

	var items []json.RawMessage

	err = json.Unmarshal(raw, &items)
	if err != nil {
		return nil, fmt.Errorf("decoding %q array: %w", key, err)
	}

	attributeSets := make([]map[string]interface{}, 0, len(items))

	for _, item := range items {
		attributes, err := decodeAttributes(item)
		if err != nil {
			return nil, err
		}

		attributeSets = append(attributeSets, attributes)
	}

	return attributeSets, nil
}

func decodeAttributes(raw json.RawMessage) (map[string]interface{}, error) {
	decoder := json.NewDecoder(bytes.NewReader(raw))
	decoder.UseNumber()

	var attributes map[string]interface{}

	err := decoder.Decode(&attributes)
	if err != nil {
		return nil, fmt.Errorf("decoding attributes: %w", err)
	}

	return attributes, nil
}
