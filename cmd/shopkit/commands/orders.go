package commands

import (
	"context"
	"fmt"

	"github.com/shopkit-io/shopkit/pkg/admin"
	"github.com/spf13/cobra"
)

var orderColumns = []string{"id", "name", "email", "financial_status", "fulfillment_status", "total_price", "created_at"}

// NewOrdersCommand creates the orders command group.
func NewOrdersCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "orders",
		Aliases: []string{"order"},
		Short:   "Manage orders",
		Long:    "List and inspect the shop's orders",
	}

	cmd.AddCommand(newOrdersListCommand())
	cmd.AddCommand(newOrdersGetCommand())
	cmd.AddCommand(newOrdersCountCommand())

	return cmd
}

func newOrdersListCommand() *cobra.Command {
	var (
		allPages        bool
		limit           int
		status          string
		financialStatus string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List orders",
		Long:  "List the shop's orders one page at a time, or all pages with --all",
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

			if financialStatus != "" {
				params.WithFilter("financial_status", financialStatus)
			}

			var orders []*admin.Resource

			if allPages {
				orders, err = admin.FetchAllPages(ctx, client.Orders(), session, params, nil)
				if err != nil {
					return fmt.Errorf("failed to list orders: %w", err)
				}
			} else {
				result, err := client.Orders().All(ctx, session, params)
				if err != nil {
					return fmt.Errorf("failed to list orders: %w", err)
				}

				orders = result.Resources
			}

			printRateLimit(client)

			return outputAttributeSets(orders, orderColumns, "No orders found")
		},
	}

	cmd.Flags().BoolVar(&allPages, "all", false, "fetch all pages")
	cmd.Flags().IntVar(&limit, "limit", 50, "results per page")
	cmd.Flags().StringVar(&status, "status", "", "filter by status (open, closed, cancelled, any)")
	cmd.Flags().StringVar(&financialStatus, "financial-status", "", "filter by financial status")

	return cmd
}

func newOrdersGetCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get ORDER_ID",
		Short: "Get an order",
		Long:  "Retrieve a single order by id",
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

			order, err := client.Orders().Find(context.Background(), session, id, nil)
			if err != nil {
				return fmt.Errorf("failed to get order: %w", err)
			}

			return outputAttributeSet(order)
		},
	}

	return cmd
}

func newOrdersCountCommand() *cobra.Command {
	var status string

	cmd := &cobra.Command{
		Use:   "count",
		Short: "Count orders",
		Long:  "Count the shop's orders, optionally filtered by status",
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

			count, err := client.Orders().Count(context.Background(), session, params)
			if err != nil {
				return fmt.Errorf("failed to count orders: %w", err)
			}

			fmt.Println(count)

			return nil
		},
	}

	cmd.Flags().StringVar(&status, "status", "", "filter by status")

	return cmd
}
