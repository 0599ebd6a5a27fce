package commands

import (
	"context"
	"fmt"
	"strconv"

	"github.com/shopkit-io/shopkit/pkg/admin"
	"github.com/spf13/cobra"
)

var variantColumns = []string{"id", "title", "sku", "price", "inventory_quantity"}

// NewVariantsCommand creates the variants command group.
func NewVariantsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "variants",
		Aliases: []string{"variant"},
		Short:   "Manage product variants",
		Long:    "List, inspect and modify variants of a product",
	}

	cmd.AddCommand(newVariantsListCommand())
	cmd.AddCommand(newVariantsGetCommand())
	cmd.AddCommand(newVariantsDeleteCommand())

	return cmd
}

func newVariantsListCommand() *cobra.Command {
	var (
		productID int64
		limit     int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List variants",
		Long:  "List the variants of one product",
		RunE: func(cmd *cobra.Command, args []string) error {
			if productID == 0 {
				return ErrProductIDRequired
			}

			client, err := createClient()
			if err != nil {
				return err
			}

			session, err := currentSession()
			if err != nil {
				return err
			}

			params := admin.NewQueryParams().
				WithLimit(limit).
				WithPathParam("product_id", strconv.FormatInt(productID, 10))

			result, err := client.Variants().All(context.Background(), session, params)
			if err != nil {
				return fmt.Errorf("failed to list variants: %w", err)
			}

			return outputAttributeSets(result.Resources, variantColumns, "No variants found")
		},
	}

	cmd.Flags().Int64Var(&productID, "product", 0, "parent product id (required)")
	cmd.Flags().IntVar(&limit, "limit", 50, "results per page")

	return cmd
}

func newVariantsGetCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get VARIANT_ID",
		Short: "Get a variant",
		Long:  "Retrieve a single variant by id",
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

			variant, err := client.Variants().Find(context.Background(), session, id, nil)
			if err != nil {
				return fmt.Errorf("failed to get variant: %w", err)
			}

			return outputAttributeSet(variant)
		},
	}

	return cmd
}

func newVariantsDeleteCommand() *cobra.Command {
	var productID int64

	cmd := &cobra.Command{
		Use:   "delete VARIANT_ID",
		Short: "Delete a variant",
		Long:  "Delete a variant of a product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if productID == 0 {
				return ErrProductIDRequired
			}

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

			params := admin.NewQueryParams().
				WithPathParam("product_id", strconv.FormatInt(productID, 10))

			err = client.Variants().Delete(context.Background(), session, id, params)
			if err != nil {
				return fmt.Errorf("failed to delete variant: %w", err)
			}

			fmt.Printf("Deleted variant %d\n", id)

			return nil
		},
	}

	cmd.Flags().Int64Var(&productID, "product", 0, "parent product id (required)")

	return cmd
}
