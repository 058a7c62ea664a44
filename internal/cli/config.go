package cli

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/packages-box/box/internal/preferences"
)

var configJSON bool

func init() {
	configCmd.Flags().BoolVar(&configJSON, "json", false, "Print the whole preferences document as JSON")
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configDeleteCmd)
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect and modify user preferences",
	Long: `Read and write the preferences document (~/.boxrc, or the path in
BOX_CLI_CONFIG_PATH). Known keys: ` + strings.Join(knownKeys(), ", ") + `.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !configJSON {
			return cmd.Help()
		}
		doc, err := session.Prefs.Load()
		if err != nil {
			return err
		}
		return printJSON(cmd, map[string]any(doc))
	},
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Print a preference value",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, err := session.Prefs.Load()
		if err != nil {
			return err
		}
		value, ok := doc[args[0]]
		if !ok {
			return fmt.Errorf("preference %q is not set", args[0])
		}
		if s, isString := value.(string); isString {
			fmt.Fprintln(cmd.OutOrStdout(), s)
			return nil
		}
		return printJSON(cmd, value)
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a preference value",
	Long: `Set a preference value. The value is parsed as JSON when possible
(true, 42, {"a":1}); otherwise it is stored as a string.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, rawValue := args[0], args[1]
		if !preferences.IsKnownKey(key) {
			return fmt.Errorf("unknown preference %q (known: %s)", key, strings.Join(knownKeys(), ", "))
		}
		var value any
		if err := json.Unmarshal([]byte(rawValue), &value); err != nil {
			value = rawValue
		}
		if err := session.Prefs.Save(preferences.Document{key: value}); err != nil {
			return fmt.Errorf("setting preference %q: %w", key, err)
		}
		session.Out.Success(fmt.Sprintf("Set %s = %s", key, session.Out.Emphasis(rawValue)))
		return nil
	},
}

var configDeleteCmd = &cobra.Command{
	Use:   "delete <key>",
	Short: "Remove a preference",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := session.Prefs.Unset(args[0]); err != nil {
			return fmt.Errorf("deleting preference %q: %w", args[0], err)
		}
		session.Out.Success(fmt.Sprintf("Deleted %s", args[0]))
		return nil
	},
}

func knownKeys() []string {
	keys := make([]string, 0)
	for k := range preferences.Defaults() {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

func printJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding JSON: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}
