package admin

import (
	"fmt"
	"regexp"
	"strings"
)

// OperationName identifies a logical resource operation.
type OperationName string

// Logical operations a descriptor can bind.
const (
	OpFind   OperationName = "find"
	OpAll    OperationName = "all"
	OpCount  OperationName = "count"
	OpCreate OperationName = "create"
	OpUpdate OperationName = "update"
	OpDelete OperationName = "delete"
)

// Operation binds a logical operation to an HTTP verb and a path template.
type Operation struct {
	// Method is the HTTP verb, e.g. "GET".
	Method string

	// PathTemplate is the version-relative path with "{placeholder}" segments
	// for parent and resource ids, e.g. "products/{product_id}/variants/{id}".
	PathTemplate string

	// RequiresID marks operations that must substitute the resource's own
	// primary key into the template.
	RequiresID bool

	// Paginates marks list operations whose responses carry cursor link
	// headers.
	Paginates bool
}

// ResourceDescriptor is the static, immutable metadata for one resource type.
// Descriptors are plain data interpreted by a single generic execution engine;
// there is no per-resource class hierarchy.
type ResourceDescriptor struct {
	// Name is the singular type name and the JSON envelope key for item
	// operations, e.g. "product".
	Name string

	// PluralName is the JSON envelope key for list operations, e.g.
	// "products".
	PluralName string

	// PrimaryKey is the identifying attribute, e.g. "id".
	PrimaryKey string

	// Operations maps each supported logical operation to its HTTP binding.
	Operations map[OperationName]Operation
}

// Supports reports whether the descriptor binds the given operation.
func (d *ResourceDescriptor) Supports(name OperationName) bool {
	_, ok := d.Operations[name]

	return ok
}

// Operation returns the HTTP binding for a logical operation.
func (d *ResourceDescriptor) Operation(name OperationName) (Operation, error) {
	operation, ok := d.Operations[name]
	if !ok {
		return Operation{}, fmt.Errorf("%w: %s on %s", ErrUnsupportedOp, name, d.Name)
	}

	return operation, nil
}

var placeholderPattern = regexp.MustCompile(`\{([a-z_]+)\}`)

// ExpandPath substitutes placeholder segments in a path template. Every
// placeholder must have a non-empty value; a missing one is a configuration
// error surfaced before any request is built.
func ExpandPath(template string, params map[string]string) (string, error) {
	var missing []string

	expanded := placeholderPattern.ReplaceAllStringFunc(template, func(match string) string {
		name := strings.Trim(match, "{}")

		value, ok := params[name]
		if !ok || value == "" {
			missing = append(missing, name)

			return match
		}

		return value
	})

	if len(missing) > 0 {
		return "", &ConfigError{
			Reason: fmt.Sprintf("path %q missing placeholder value(s): %s", template, strings.Join(missing, ", ")),
		}
	}

	return expanded, nil
}
