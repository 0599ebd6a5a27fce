package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/shopkit-io/shopkit/pkg/admin"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

type buildInfo struct {
	Version      string `json:"version" yaml:"version"`
	Commit       string `json:"commit" yaml:"commit"`
	Built        string `json:"built" yaml:"built"`
	LatestStable string `json:"latest_stable_api" yaml:"latest_stable_api"`
}

// NewVersionCommand creates the version command
func NewVersionCommand(version, commit, date string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Display version information",
		Long:  "Display the shopkit CLI build details and the newest stable Admin API version it supports",
		RunE: func(cmd *cobra.Command, args []string) error {
			info := buildInfo{
				Version:      version,
				Commit:       commit,
				Built:        date,
				LatestStable: admin.LatestStable().String(),
			}

			switch viper.GetString("output") {
			case OutputFormatJSON:
				encoder := json.NewEncoder(os.Stdout)
				encoder.SetIndent("", "  ")

				return encoder.Encode(info)
			case OutputFormatYAML:
				return yaml.NewEncoder(os.Stdout).Encode(info)
			default:
				table := tablewriter.NewWriter(os.Stdout)
				table.Header("Property", "Value")
				_ = table.Append("Version", info.Version)
				_ = table.Append("Commit", info.Commit)
				_ = table.Append("Built", info.Built)
				_ = table.Append("Latest Stable API", info.LatestStable)

				if err := table.Render(); err != nil {
					return fmt.Errorf("failed to render table: %w", err)
				}
			}

			return nil
		},
	}
}
