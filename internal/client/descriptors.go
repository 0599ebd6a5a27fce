package client

import (
	"net/http"

	"github.com/shopkit-io/shopkit/pkg/admin"
)

// Resource descriptors are plain data: the whole per-version API surface is a
// bundle of these tables, interpreted by ResourceClient. Adding a resource
// type means adding a descriptor, not a client type.

func productDescriptor() *admin.ResourceDescriptor {
	return &admin.ResourceDescriptor{
		Name:       "product",
		PluralName: "products",
		PrimaryKey: "id",
		Operations: map[admin.OperationName]admin.Operation{
			admin.OpFind:   {Method: http.MethodGet, PathTemplate: "products/{id}", RequiresID: true},
			admin.OpAll:    {Method: http.MethodGet, PathTemplate: "products", Paginates: true},
			admin.OpCount:  {Method: http.MethodGet, PathTemplate: "products/count"},
			admin.OpCreate: {Method: http.MethodPost, PathTemplate: "products"},
			admin.OpUpdate: {Method: http.MethodPut, PathTemplate: "products/{id}", RequiresID: true},
			admin.OpDelete: {Method: http.MethodDelete, PathTemplate: "products/{id}", RequiresID: true},
		},
	}
}

func variantDescriptor() *admin.ResourceDescriptor {
	return &admin.ResourceDescriptor{
		Name:       "variant",
		PluralName: "variants",
		PrimaryKey: "id",
		Operations: map[admin.OperationName]admin.Operation{
			admin.OpFind:   {Method: http.MethodGet, PathTemplate: "variants/{id}", RequiresID: true},
			admin.OpAll:    {Method: http.MethodGet, PathTemplate: "products/{product_id}/variants", Paginates: true},
			admin.OpCount:  {Method: http.MethodGet, PathTemplate: "products/{product_id}/variants/count"},
			admin.OpCreate: {Method: http.MethodPost, PathTemplate: "products/{product_id}/variants"},
			admin.OpUpdate: {Method: http.MethodPut, PathTemplate: "variants/{id}", RequiresID: true},
			admin.OpDelete: {Method: http.MethodDelete, PathTemplate: "products/{product_id}/variants/{id}", RequiresID: true},
		},
	}
}

func orderDescriptor() *admin.ResourceDescriptor {
	return &admin.ResourceDescriptor{
		Name:       "order",
		PluralName: "orders",
		PrimaryKey: "id",
		Operations: map[admin.OperationName]admin.Operation{
			admin.OpFind:   {Method: http.MethodGet, PathTemplate: "orders/{id}", RequiresID: true},
			admin.OpAll:    {Method: http.MethodGet, PathTemplate: "orders", Paginates: true},
			admin.OpCount:  {Method: http.MethodGet, PathTemplate: "orders/count"},
			admin.OpCreate: {Method: http.MethodPost, PathTemplate: "orders"},
			admin.OpUpdate: {Method: http.MethodPut, PathTemplate: "orders/{id}", RequiresID: true},
			admin.OpDelete: {Method: http.MethodDelete, PathTemplate: "orders/{id}", RequiresID: true},
		},
	}
}

func customerDescriptor() *admin.ResourceDescriptor {
	return &admin.ResourceDescriptor{
		Name:       "customer",
		PluralName: "customers",
		PrimaryKey: "id",
		Operations: map[admin.OperationName]admin.Operation{
			admin.OpFind:   {Method: http.MethodGet, PathTemplate: "customers/{id}", RequiresID: true},
			admin.OpAll:    {Method: http.MethodGet, PathTemplate: "customers", Paginates: true},
			admin.OpCount:  {Method: http.MethodGet, PathTemplate: "customers/count"},
			admin.OpCreate: {Method: http.MethodPost, PathTemplate: "customers"},
			admin.OpUpdate: {Method: http.MethodPut, PathTemplate: "customers/{id}", RequiresID: true},
			admin.OpDelete: {Method: http.MethodDelete, PathTemplate: "customers/{id}", RequiresID: true},
		},
	}
}

// shopDescriptor describes the singleton shop record. It has no collection
// and no primary-key path segment; find fetches the one record for the
// session's store.
func shopDescriptor() *admin.ResourceDescriptor {
	return &admin.ResourceDescriptor{
		Name:       "shop",
		PluralName: "shops",
		PrimaryKey: "id",
		Operations: map[admin.OperationName]admin.Operation{
			admin.OpFind: {Method: http.MethodGet, PathTemplate: "shop"},
		},
	}
}

// descriptorBundle returns the resource descriptors mounted for a version.
// Every supported version currently shares the same bundle; version-specific
// additions slot in here as the API evolves.
func descriptorBundle(version admin.APIVersion) []*admin.ResourceDescriptor {
	return []*admin.ResourceDescriptor{
		productDescriptor(),
		variantDescriptor(),
		orderDescriptor(),
		customerDescriptor(),
		shopDescriptor(),
	}
}
