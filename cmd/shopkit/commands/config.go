package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/olekukonko/tablewriter"
	"github.com/shopkit-io/shopkit/internal/constants"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"
)

const maskedValue = "***"

// configKeys are the settings the config command manages.
var configKeys = []string{"shop", "token", "api-version", "output"}

// NewConfigCommand creates the config command group.
func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage CLI configuration",
		Long:  "View and modify the stored shopkit configuration",
	}

	cmd.AddCommand(newConfigViewCommand())
	cmd.AddCommand(newConfigGetCommand())
	cmd.AddCommand(newConfigSetCommand())

	return cmd
}

func newConfigViewCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "view",
		Short: "View the configuration",
		Long:  "Show the effective configuration, with the token masked",
		RunE: func(cmd *cobra.Command, args []string) error {
			settings := make(map[string]string, len(configKeys))
			for _, key := range configKeys {
				settings[key] = viper.GetString(key)
			}

			if settings["token"] != "" {
				settings["token"] = maskedValue
			}

			output := viper.GetString("output")
			switch output {
			case OutputFormatJSON:
				encoder := json.NewEncoder(os.Stdout)
				encoder.SetIndent("", "  ")

				return encoder.Encode(settings)
			case OutputFormatYAML:
				encoder := yaml.NewEncoder(os.Stdout)

				return encoder.Encode(settings)
			default:
				table := tablewriter.NewWriter(os.Stdout)
				table.Header("Key", "Value")

				for _, key := range configKeys {
					_ = table.Append(key, settings[key])
				}

				if err := table.Render(); err != nil {
					return fmt.Errorf("failed to render table: %w", err)
				}
			}

			return nil
		},
	}
}

func newConfigGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get KEY",
		Short: "Get a configuration value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]
			if !isConfigKey(key) {
				return fmt.Errorf("%w: %q", ErrConfigKeyUnknown, key)
			}

			value := viper.GetString(key)
			if key == "token" && value != "" {
				value = maskedValue
			}

			fmt.Println(value)

			return nil
		},
	}
}

func newConfigSetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set KEY [VALUE]",
		Short: "Set a configuration value",
		Long: `Set a configuration value and persist it.

Setting "token" without a VALUE prompts for it without echoing.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]
			if !isConfigKey(key) {
				return fmt.Errorf("%w: %q", ErrConfigKeyUnknown, key)
			}

			var value string

			switch {
			case len(args) == 2:
				value = args[1]
			case key == "token":
				fmt.Print("Access token: ")

				tokenBytes, err := term.ReadPassword(int(syscall.Stdin))

				fmt.Println()

				if err != nil {
					return fmt.Errorf("failed to read token: %w", err)
				}

				value = strings.TrimSpace(string(tokenBytes))
			default:
				return fmt.Errorf("%w: %q", ErrConfigValueMissing, key)
			}

			viper.Set(key, value)

			err := persistConfig()
			if err != nil {
				return err
			}

			shown := value
			if key == "token" {
				shown = maskedValue
			}

			fmt.Printf("Set %s to %s\n", key, shown)

			return nil
		},
	}
}

func isConfigKey(key string) bool {
	for _, known := range configKeys {
		if known == key {
			return true
		}
	}

	return false
}

// persistConfig writes the managed settings to the config file.
func persistConfig() error {
	path := viper.ConfigFileUsed()

	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("resolving home directory: %w", err)
		}

		configDir := filepath.Join(home, ".shopkit")

		err = os.MkdirAll(configDir, constants.ConfigDirPerm)
		if err != nil {
			return fmt.Errorf("creating config directory: %w", err)
		}

		path = filepath.Join(configDir, "config.yml")
	}

	settings := make(map[string]string, len(configKeys))

	for _, key := range configKeys {
		if value := viper.GetString(key); value != "" {
			settings[key] = value
		}
	}

	data, err := yaml.Marshal(settings)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	err = os.WriteFile(path, data, constants.ConfigFilePerm)
	if err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}
