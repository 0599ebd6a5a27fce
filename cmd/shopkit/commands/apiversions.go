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

// NewAPIVersionsCommand creates the api-versions command.
func NewAPIVersionsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "api-versions",
		Short: "List supported API versions",
		Long:  "List the Admin API versions this CLI can mount, oldest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			type versionInfo struct {
				Name   string `json:"name"   yaml:"name"`
				Stable bool   `json:"stable" yaml:"stable"`
				Latest bool   `json:"latest" yaml:"latest"`
			}

			latest := admin.LatestStable()

			versions := make([]versionInfo, 0, len(admin.SupportedVersions()))
			for _, version := range admin.SupportedVersions() {
				versions = append(versions, versionInfo{
					Name:   version.Name,
					Stable: version.Stable,
					Latest: version == latest,
				})
			}

			output := viper.GetString("output")
			switch output {
			case OutputFormatJSON:
				encoder := json.NewEncoder(os.Stdout)
				encoder.SetIndent("", "  ")

				return encoder.Encode(versions)
			case OutputFormatYAML:
				encoder := yaml.NewEncoder(os.Stdout)

				return encoder.Encode(versions)
			default:
				table := tablewriter.NewWriter(os.Stdout)
				table.Header("Version", "Stable", "Latest")

				for _, version := range versions {
					stable := "no"
					if version.Stable {
						stable = "yes"
					}

					latest := ""
					if version.Latest {
						latest = "yes"
					}

					_ = table.Append(version.Name, stable, latest)
				}

				if err := table.Render(); err != nil {
					return fmt.Errorf("failed to render table: %w", err)
				}
			}

			return nil
		},
	}
}
