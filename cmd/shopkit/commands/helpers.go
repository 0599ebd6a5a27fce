package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/shopkit-io/shopkit/pkg/admin"
	"github.com/shopkit-io/shopkit/pkg/shopclient"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Common string constants used throughout the commands package.
const (
	NotAvailable = "N/A"

	// Output formats.
	OutputFormatJSON = "json"
	OutputFormatYAML = "yaml"
)

// Common static errors used throughout the commands package.
var (
	ErrShopRequired       = errors.New("shop is required (use --shop or set it in the config)")
	ErrTokenRequired      = errors.New("access token is required (use --token or set it in the config)")
	ErrProductIDRequired  = errors.New("product id is required (use --product)")
	ErrTitleRequired      = errors.New("title is required (use --title)")
	ErrConfigKeyUnknown   = errors.New("unknown config key")
	ErrConfigValueMissing = errors.New("a value is required for this config key")
	ErrInvalidID          = errors.New("invalid id")
)

// createClient mounts an Admin API client from the effective configuration.
func createClient() (admin.Client, error) {
	config := &admin.Config{
		Version: viper.GetString("api-version"),
		Debug:   viper.GetBool("verbose"),
	}

	client, err := shopclient.New(config)
	if err != nil {
		return nil, err
	}

	return client, nil
}

// currentSession builds the per-call shop session from the effective
// configuration.
func currentSession() (*admin.Session, error) {
	shop := viper.GetString("shop")
	if shop == "" {
		return nil, ErrShopRequired
	}

	token := viper.GetString("token")
	if token == "" {
		return nil, ErrTokenRequired
	}

	return &admin.Session{Shop: shop, AccessToken: token}, nil
}

// parseID parses a positional id argument.
func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidID, arg)
	}

	return id, nil
}

// outputAttributeSets renders resources in the requested output format. The
// table view shows the given columns; json and yaml dump the full attribute
// sets.
func outputAttributeSets(resources []*admin.Resource, columns []string, emptyMessage string) error {
	sets := make([]map[string]interface{}, 0, len(resources))
	for _, resource := range resources {
		sets = append(sets, resource.Attributes())
	}

	output := viper.GetString("output")
	switch output {
	case OutputFormatJSON:
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")

		return encoder.Encode(sets)
	case OutputFormatYAML:
		encoder := yaml.NewEncoder(os.Stdout)

		return encoder.Encode(sets)
	default:
		if len(resources) == 0 {
			fmt.Println(emptyMessage)

			return nil
		}

		table := tablewriter.NewWriter(os.Stdout)

		header := make([]any, 0, len(columns))
		for _, column := range columns {
			header = append(header, column)
		}

		table.Header(header...)

		for _, resource := range resources {
			row := make([]any, 0, len(columns))
			for _, column := range columns {
				row = append(row, attributeCell(resource, column))
			}

			table.Append(row...)
		}

		table.Render()

		return nil
	}
}

// outputAttributeSet renders a single resource.
func outputAttributeSet(resource *admin.Resource) error {
	attributes := resource.Attributes()

	output := viper.GetString("output")
	switch output {
	case OutputFormatJSON:
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")

		return encoder.Encode(attributes)
	case OutputFormatYAML:
		encoder := yaml.NewEncoder(os.Stdout)

		return encoder.Encode(attributes)
	default:
		table := tablewriter.NewWriter(os.Stdout)
		table.Header("Attribute", "Value")

		for _, name := range sortedKeys(attributes) {
			table.Append(name, attributeCell(resource, name))
		}

		table.Render()

		return nil
	}
}

// attributeCell formats one attribute for table output.
func attributeCell(resource *admin.Resource, name string) string {
	value, ok := resource.Get(name)
	if !ok || value == nil {
		return NotAvailable
	}

	switch v := value.(type) {
	case string:
		return v
	default:
		return fmt.Sprintf("%v", v)
	}
}

func sortedKeys(attributes map[string]interface{}) []string {
	keys := make([]string, 0, len(attributes))
	for name := range attributes {
		keys = append(keys, name)
	}

	sort.Strings(keys)

	return keys
}

// printRateLimit prints the observed call budget in verbose mode.
func printRateLimit(client admin.Client) {
	if !viper.GetBool("verbose") {
		return
	}

	limit := client.RateLimit()
	if limit.Cap == 0 {
		return
	}

	fmt.Fprintf(os.Stderr, "API call limit: %s (%d remaining)\n", limit, limit.Remaining())
}
