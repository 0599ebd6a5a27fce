package commands

import (
	"context"
	"fmt"

	"github.com/shopkit-io/shopkit/pkg/admin"
	"github.com/spf13/cobra"
)

var customerColumns = []string{"id", "email", "first_name", "last_name", "orders_count", "state"}

// NewCustomersCommand creates the customers command group.
func NewCustomersCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "customers",
		Aliases: []string{"customer"},
		Short:   "Manage customers",
		Long:    "List and inspect the shop's customers",
	}

	cmd.AddCommand(newCustomersListCommand())
	cmd.AddCommand(newCustomersGetCommand())
	cmd.AddCommand(newCustomersCountCommand())

	return cmd
}

func newCustomersListCommand() *cobra.Command {
	var (
		allPages bool
		limit    int
		sinceID  int64
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List customers",
		Long:  "List the shop's customers one page at a time, or all pages with --all",
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

			if sinceID > 0 {
				params.WithSinceID(sinceID)
			}

			var customers []*admin.Resource

			if allPages {
				customers, err = admin.FetchAllPages(ctx, client.Customers(), session, params, nil)
				if err != nil {
					return fmt.Errorf("failed to list customers: %w", err)
				}
			} else {
				result, err := client.Customers().All(ctx, session, params)
				if err != nil {
					return fmt.Errorf("failed to list customers: %w", err)
				}

				customers = result.Resources
			}

			printRateLimit(client)

			return outputAttributeSets(customers, customerColumns, "No customers found")
		},
	}

	cmd.Flags().BoolVar(&allPages, "all", false, "fetch all pages")
	cmd.Flags().IntVar(&limit, "limit", 50, "results per page")
	cmd.Flags().Int64Var(&sinceID, "since-id", 0, "only customers with an id greater than this")

	return cmd
}

func newCustomersGetCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get CUSTOMER_ID",
		Short: "Get a customer",
		Long:  "Retrieve a single customer by id",
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

			customer, err := client.Customers().Find(context.Background(), session, id, nil)
			if err != nil {
				return fmt.Errorf("failed to get customer: %w", err)
			}

			return outputAttributeSet(customer)
		},
	}

	return cmd
}

func newCustomersCountCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "count",
		Short: "Count customers",
		Long:  "Count the shop's customers",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := createClient()
			if err != nil {
				return err
			}

			session, err := currentSession()
			if err != nil {
				return err
			}

			count, err := client.Customers().Count(context.Background(), session, admin.NewQueryParams())
			if err != nil {
				return fmt.Errorf("failed to count customers: %w", err)
			}

			fmt.Println(count)

			return nil
		},
	}

	return cmd
}
