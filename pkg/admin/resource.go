package admin

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
)

// ResourceState tracks an instance through its lifecycle.
type ResourceState int

// Lifecycle states of a Resource instance.
const (
	// StateUnsaved marks an instance constructed by the caller that has not
	// been persisted yet.
	StateUnsaved ResourceState = iota

	// StatePersisted marks an instance returned by the API or successfully
	// saved.
	StatePersisted

	// StateDeleted is terminal; every subsequent operation on the instance
	// fails.
	StateDeleted
)

// String returns the lifecycle state name.
func (s ResourceState) String() string {
	switch s {
	case StateUnsaved:
		return "unsaved"
	case StatePersisted:
		return "persisted"
	case StateDeleted:
		return "deleted"
	default:
		return "unknown"
	}
}

// Executor is implemented by the generic execution engine that binds resource
// descriptors to HTTP calls.
type Executor interface {
	// SaveResource creates the resource when it has no primary key value and
	// updates it otherwise, repopulating attributes from the response.
	SaveResource(ctx context.Context, resource *Resource) error

	// DeleteResource deletes the resource by its primary key value.
	DeleteResource(ctx context.Context, resource *Resource) error
}

// Resource is an in-memory instance of one API entity: a dynamically shaped
// attribute mapping plus the session it was loaded with or is to be saved
// with. Attribute assignment is free-form; the entire current attribute set is
// serialized under the resource's singular envelope key on every save.
//
// Instances carry no shared mutable state between independent call sequences
// and require no synchronization.
type Resource struct {
	descriptor *ResourceDescriptor
	session    *Session
	executor   Executor
	attributes map[string]interface{}
	pathParams map[string]string
	state      ResourceState
}

// NewResource constructs an unsaved instance the caller can populate prior to
// a create call.
func NewResource(executor Executor, descriptor *ResourceDescriptor, session *Session) *Resource {
	return &Resource{
		descriptor: descriptor,
		session:    session,
		executor:   executor,
		attributes: make(map[string]interface{}),
		pathParams: make(map[string]string),
		state:      StateUnsaved,
	}
}

// NewPersistedResource constructs an instance from a successful API response.
// Intended for use by the execution engine.
func NewPersistedResource(executor Executor, descriptor *ResourceDescriptor, session *Session, attributes map[string]interface{}) *Resource {
	return &Resource{
		descriptor: descriptor,
		session:    session,
		executor:   executor,
		attributes: attributes,
		pathParams: make(map[string]string),
		state:      StatePersisted,
	}
}

// Descriptor returns the static metadata of the instance's resource type.
func (r *Resource) Descriptor() *ResourceDescriptor {
	return r.descriptor
}

// Session returns the authenticated context the instance is bound to.
func (r *Resource) Session() *Session {
	return r.session
}

// State returns the instance's lifecycle state.
func (r *Resource) State() ResourceState {
	return r.state
}

// Get returns an attribute value.
func (r *Resource) Get(name string) (interface{}, bool) {
	value, ok := r.attributes[name]

	return value, ok
}

// GetString returns an attribute as a string, or "" when absent or not a
// string.
func (r *Resource) GetString(name string) string {
	value, ok := r.attributes[name].(string)
	if !ok {
		return ""
	}

	return value
}

// GetInt64 returns a numeric attribute coerced to int64.
func (r *Resource) GetInt64(name string) (int64, bool) {
	return coerceInt64(r.attributes[name])
}

// Set assigns an attribute value.
func (r *Resource) Set(name string, value interface{}) {
	r.attributes[name] = value
}

// Attributes returns a copy of the current attribute set.
func (r *Resource) Attributes() map[string]interface{} {
	attributes := make(map[string]interface{}, len(r.attributes))
	for name, value := range r.attributes {
		attributes[name] = value
	}

	return attributes
}

// ReplaceAttributes swaps the entire attribute set. Intended for use by the
// execution engine when repopulating an instance from a response body.
func (r *Resource) ReplaceAttributes(attributes map[string]interface{}) {
	r.attributes = attributes
}

// MarkPersisted transitions the instance to the persisted state. Intended for
// use by the execution engine after a successful save.
func (r *Resource) MarkPersisted() {
	r.state = StatePersisted
}

// MarkDeleted transitions the instance to its terminal state. Intended for
// use by the execution engine after a successful delete.
func (r *Resource) MarkDeleted() {
	r.state = StateDeleted
}

// ID returns the resource's primary key value, when set.
func (r *Resource) ID() (int64, bool) {
	return coerceInt64(r.attributes[r.descriptor.PrimaryKey])
}

// HasID reports whether the primary key value is present.
func (r *Resource) HasID() bool {
	_, ok := r.ID()

	return ok
}

// PathParam returns a parent-id placeholder value bound to the instance.
func (r *Resource) PathParam(name string) string {
	return r.pathParams[name]
}

// SetPathParam binds a parent-id placeholder value, e.g. product_id for a
// variant instance.
func (r *Resource) SetPathParam(name, value string) {
	r.pathParams[name] = value
}

// PathParams returns a copy of the bound placeholder values.
func (r *Resource) PathParams() map[string]string {
	params := make(map[string]string, len(r.pathParams))
	for name, value := range r.pathParams {
		params[name] = value
	}

	return params
}

// Save persists the instance: a create when no primary key value is set, an
// update otherwise. On success the attributes are repopulated from the
// response body; on failure they are left exactly as they were.
func (r *Resource) Save(ctx context.Context) error {
	if r.state == StateDeleted {
		return fmt.Errorf("saving %s: %w", r.descriptor.Name, ErrResourceDeleted)
	}

	err := r.executor.SaveResource(ctx, r)
	if err != nil {
		return fmt.Errorf("saving %s: %w", r.descriptor.Name, err)
	}

	return nil
}

// Delete removes the persisted resource. The instance transitions to its
// terminal state on success and stays persisted on failure.
func (r *Resource) Delete(ctx context.Context) error {
	if r.state == StateDeleted {
		return fmt.Errorf("deleting %s: %w", r.descriptor.Name, ErrResourceDeleted)
	}

	if !r.HasID() {
		return fmt.Errorf("deleting %s: %w", r.descriptor.Name, ErrMissingPrimaryKey)
	}

	err := r.executor.DeleteResource(ctx, r)
	if err != nil {
		return fmt.Errorf("deleting %s: %w", r.descriptor.Name, err)
	}

	return nil
}

// Decode unmarshals the attribute set into a typed record.
func (r *Resource) Decode(v interface{}) error {
	data, err := json.Marshal(r.attributes)
	if err != nil {
		return fmt.Errorf("encoding %s attributes: %w", r.descriptor.Name, err)
	}

	err = json.Unmarshal(data, v)
	if err != nil {
		return fmt.Errorf("decoding %s into record: %w", r.descriptor.Name, err)
	}

	return nil
}

// SetFrom merges a typed record's fields into the attribute set. Zero-valued
// omitempty fields are skipped by the record's own JSON tags.
func (r *Resource) SetFrom(v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding record: %w", err)
	}

	fields := make(map[string]interface{})

	err = json.Unmarshal(data, &fields)
	if err != nil {
		return fmt.Errorf("decoding record fields: %w", err)
	}

	for name, value := range fields {
		r.attributes[name] = value
	}

	return nil
}

// coerceInt64 normalizes the numeric shapes JSON decoding can produce.
func coerceInt64(value interface{}) (int64, bool) {
	switch v := value.(type) {
	case int64:
		return v, true
	case int:
		return int64(v), true
	case float64:
		return int64(v), true
	case json.Number:
		parsed, err := v.Int64()
		if err != nil {
			return 0, false
		}

		return parsed, true
	case string:
		parsed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return 0, false
		}

		return parsed, true
	default:
		return 0, false
	}
}
