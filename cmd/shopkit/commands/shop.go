package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// NewShopCommand creates the shop command.
func NewShopCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "shop",
		Short: "Show the shop record",
		Long:  "Retrieve the record of the shop the session is authenticated against",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := createClient()
			if err != nil {
				return err
			}

			session, err := currentSession()
			if err != nil {
				return err
			}

			shop, err := client.Shop(context.Background(), session)
			if err != nil {
				return fmt.Errorf("failed to get shop: %w", err)
			}

			return outputAttributeSet(shop)
		},
	}
}
