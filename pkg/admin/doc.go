// Package admin provides types, interfaces, and helpers for working with a
// versioned commerce Admin REST API.
//
// # Overview
//
// The admin package defines the resource-mapping primitives: ResourceDescriptor
// (declarative metadata binding logical operations to HTTP verbs and path
// templates), Resource (an in-memory instance of one API entity), Session (the
// authenticated shop context threaded through every call), and the cursor
// pagination types (PageInfo, ListResult). A concrete client implementation is
// provided by the shopclient package, which wires configuration, transport,
// and the versioned resource registry. Most consumers should import shopclient
// to construct a client and then interact with the resource entry points
// exposed here.
//
// Getting a client
//
//	import (
//	  "context"
//	  "log"
//
//	  "github.com/shopkit-io/shopkit/pkg/admin"
//	  "github.com/shopkit-io/shopkit/pkg/shopclient"
//	)
//
//	func example() {
//	  ctx := context.Background()
//	  cli, err := shopclient.New(&admin.Config{Version: "2022-10"})
//	  if err != nil { log.Fatal(err) }
//
//	  session := &admin.Session{Shop: "example.myshopify.com", AccessToken: "shpat_..."}
//
//	  // Fetch one product
//	  product, err := cli.Products().Find(ctx, session, 7504536535062, nil)
//	  if err != nil { log.Fatal(err) }
//	  _ = product
//	}
//
// # Queries and pagination
//
// Use QueryParams to express common list options (limit, fields, order,
// filters). List calls return the page's cursors on the ListResult so callers
// can thread them explicitly:
//
//	page, err := cli.Products().All(ctx, session, admin.NewQueryParams().WithLimit(50))
//	for err == nil && page.NextPageInfo != nil {
//	  page, err = cli.Products().All(ctx, session, admin.NewQueryParamsFromPageInfo(page.NextPageInfo))
//	}
//
// A shared per-resource-type tracker (NextPageInfo/PrevPageInfo on the entry
// point) is retained for convenience; it reflects only the most recent list
// call for that type and is overwritten by concurrent callers, so independent
// pagination sequences must use the cursors returned on each ListResult.
//
// # Errors
//
// API failures are represented by ConfigError, NotFoundError, ValidationError,
// and APIError. Helpers such as IsNotFound, IsValidation, and IsConfig make it
// easy to branch on common cases. The client never retries beyond the
// transport's transient-failure policy and never applies partial responses.
package admin
