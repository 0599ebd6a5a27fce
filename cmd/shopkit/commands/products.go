package commands

import (
	"context"
	"fmt"

	"github.com/shopkit-io/shopkit/pkg/admin"
	"github.com/spf13/cobra"
)

var productColumns = []string{"id", "title", "status", "vendor", "product_type", "updated_at"}

// NewProductsCommand creates the products command group.
func NewProductsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "products",
		Aliases: []string{"product"},
		Short:   "Manage products",
		Long:    "List, inspect and modify the shop's products",
	}

	cmd.AddCommand(newProductsListCommand())
	cmd.AddCommand(newProductsGetCommand())
	cmd.AddCommand(newProductsCreateCommand())
	cmd.AddCommand(newProductsUpdateCommand())
	cmd.AddCommand(newProductsDeleteCommand())
	cmd.AddCommand(newProductsCountCommand())

	return cmd
}

func newProductsListCommand() *cobra.Command {
	var (
		allPages bool
		limit    int
		status   string
		vendor   string
		sinceID  int64
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List products",
		Long:  "List the shop's products one page at a time, or all pages with --all",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := createClient()
			if err != nil {
				return err
			}

			session, err := currentSession()
			if err != nil {
				return err
			}

			ctx := context.Background()
			params := admin.NewQueryParams().WithLimit(limit)

			if status != "" {
				params.WithFilter("status", status)
			}

			if vendor != "" {
				params.WithFilter("vendor", vendor)
			}

			if sinceID > 0 {
				params.WithSinceID(sinceID)
			}

			var products []*admin.Resource

			if allPages {
				products, err = admin.FetchAllPages(ctx, client.Products(), session, params, nil)
				if err != nil {
					return fmt.Errorf("failed to list products: %w", err)
				}
			} else {
				result, err := client.Products().All(ctx, session, params)
				if err != nil {
					return fmt.Errorf("failed to list products: %w", err)
				}

				products = result.Resources

				defer func() {
					if result.NextPageInfo != nil {
						fmt.Println("\nMore pages available. Use --all to fetch everything.")
					}
				}()
			}

			printRateLimit(client)

			return outputAttributeSets(products, productColumns, "No products found")
		},
	}

	cmd.Flags().BoolVar(&allPages, "all", false, "fetch all pages")
	cmd.Flags().IntVar(&limit, "limit", 50, "results per page")
	cmd.Flags().StringVar(&status, "status", "", "filter by status (active, draft, archived)")
	cmd.Flags().StringVar(&vendor, "vendor", "", "filter by vendor")
	cmd.Flags().Int64Var(&sinceID, "since-id", 0, "only products with an id greater than this")

	return cmd
}

func newProductsGetCommand() *cobra.Command {
	var fields []string

	cmd := &cobra.Command{
		Use:   "get PRODUCT_ID",
		Short: "Get a product",
		Long:  "Retrieve a single product by id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			client, err := createClient()
			if err != nil {
				return err
			}

			session, err := currentSession()
			if err != nil {
				return err
			}

			params := admin.NewQueryParams()
			if len(fields) > 0 {
				params.WithFields(fields...)
			}

			product, err := client.Products().Find(context.Background(), session, id, params)
			if err != nil {
				return fmt.Errorf("failed to get product: %w", err)
			}

			return outputAttributeSet(product)
		},
	}

	cmd.Flags().StringSliceVar(&fields, "fields", nil, "restrict the returned attributes")

	return cmd
}

func newProductsCreateCommand() *cobra.Command {
	var (
		title       string
		vendor      string
		productType string
		status      string
		bodyHTML    string
		tags        string
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a product",
		Long:  "Create a new product from the given attributes",
		RunE: func(cmd *cobra.Command, args []string) error {
			if title == "" {
				return ErrTitleRequired
			}

			client, err := createClient()
			if err != nil {
				return err
			}

			session, err := currentSession()
			if err != nil {
				return err
			}

			product := client.Products().New(session)
			product.Set("title", title)

			if vendor != "" {
				product.Set("vendor", vendor)
			}

			if productType != "" {
				product.Set("product_type", productType)
			}

			if status != "" {
				product.Set("status", status)
			}

			if bodyHTML != "" {
				product.Set("body_html", bodyHTML)
			}

			if tags != "" {
				product.Set("tags", tags)
			}

			err = product.Save(context.Background())
			if err != nil {
				return fmt.Errorf("failed to create product: %w", err)
			}

			id, _ := product.ID()
			fmt.Printf("Created product %d\n", id)

			return outputAttributeSet(product)
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "product title (required)")
	cmd.Flags().StringVar(&vendor, "vendor", "", "product vendor")
	cmd.Flags().StringVar(&productType, "product-type", "", "product type")
	cmd.Flags().StringVar(&status, "status", "", "product status (active, draft, archived)")
	cmd.Flags().StringVar(&bodyHTML, "body-html", "", "product description HTML")
	cmd.Flags().StringVar(&tags, "tags", "", "comma separated tags")

	return cmd
}

func newProductsUpdateCommand() *cobra.Command {
	var (
		title  string
		status string
		vendor string
		tags   string
	)

	cmd := &cobra.Command{
		Use:   "update PRODUCT_ID",
		Short: "Update a product",
		Long:  "Fetch a product, apply the given attribute changes and save it back",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			client, err := createClient()
			if err != nil {
				return err
			}

			session, err := currentSession()
			if err != nil {
				return err
			}

			ctx := context.Background()

			product, err := client.Products().Find(ctx, session, id, nil)
			if err != nil {
				return fmt.Errorf("failed to get product: %w", err)
			}

			if cmd.Flags().Changed("title") {
				product.Set("title", title)
			}

			if cmd.Flags().Changed("status") {
				product.Set("status", status)
			}

			if cmd.Flags().Changed("vendor") {
				product.Set("vendor", vendor)
			}

			if cmd.Flags().Changed("tags") {
				product.Set("tags", tags)
			}

			err = product.Save(ctx)
			if err != nil {
				return fmt.Errorf("failed to update product: %w", err)
			}

			fmt.Printf("Updated product %d\n", id)

			return outputAttributeSet(product)
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "new product title")
	cmd.Flags().StringVar(&status, "status", "", "new product status")
	cmd.Flags().StringVar(&vendor, "vendor", "", "new product vendor")
	cmd.Flags().StringVar(&tags, "tags", "", "new comma separated tags")

	return cmd
}

func newProductsDeleteCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete PRODUCT_ID",
		Short: "Delete a product",
		Long:  "Delete a product by id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			client, err := createClient()
			if err != nil {
				return err
			}

			session, err := currentSession()
			if err != nil {
				return err
			}

			err = client.Products().Delete(context.Background(), session, id, nil)
			if err != nil {
				return fmt.Errorf("failed to delete product: %w", err)
			}

			fmt.Printf("Deleted product %d\n", id)

			return nil
		},
	}

	return cmd
}

func newProductsCountCommand() *cobra.Command {
	var status string

	cmd := &cobra.Command{
		Use:   "count",
		Short: "Count products",
		Long:  "Count the shop's products, optionally filtered by status",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := createClient()
			if err != nil {
				return err
			}

			session, err := currentSession()
			if err != nil {
				return err
			}

			params := admin.NewQueryParams()
			if status != "" {
				params.WithFilter("status", status)
			}

			count, err := client.Products().Count(context.Background(), session, params)
			if err != nil {
				return fmt.Errorf("failed to count products: %w", err)
			}

			fmt.Println(count)

			return nil
		},
	}

	cmd.Flags().StringVar(&status, "status", "", "filter by status")

	return cmd
}
