package cli

import (
	"encoding/json"
	"fmt"
	"maps"
	"os"
	"slices"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/packages-box/box/internal/preferences"
)

var (
	presetFile     string
	presetShowYAML bool
)

func init() {
	presetSaveCmd.Flags().StringVarP(&presetFile, "file", "f", "", "JSON file containing the preset")
	_ = presetSaveCmd.MarkFlagRequired("file")
	presetShowCmd.Flags().BoolVar(&presetShowYAML, "yaml", false, "Output as YAML")

	presetCmd.AddCommand(presetListCmd)
	presetCmd.AddCommand(presetSaveCmd)
	presetCmd.AddCommand(presetShowCmd)
	rootCmd.AddCommand(presetCmd)
}

var presetCmd = &cobra.Command{
	Use:   "preset",
	Short: "Manage saved project presets",
}

var presetListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show saved presets",
	RunE: func(cmd *cobra.Command, args []string) error {
		presets, err := loadPresets()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		for _, name := range slices.Sorted(maps.Keys(presets)) {
			if name == "default" {
				fmt.Fprintf(out, "  %s (built-in)\n", name)
				continue
			}
			fmt.Fprintf(out, "  %s\n", name)
		}
		return nil
	},
}

var presetSaveCmd = &cobra.Command{
	Use:   "save <name>",
	Short: "Validate and save a preset",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(presetFile)
		if err != nil {
			return fmt.Errorf("reading preset file: %w", err)
		}
		var preset map[string]any
		if err := json.Unmarshal(data, &preset); err != nil {
			return fmt.Errorf("parsing preset file %s: %w", presetFile, err)
		}
		if err := preferences.ValidatePreset(preset); err != nil {
			return err
		}
		if err := session.Prefs.SavePreset(args[0], preset); err != nil {
			return fmt.Errorf("saving preset %q: %w", args[0], err)
		}
		session.Out.Success(fmt.Sprintf("Saved preset %s", session.Out.Accent(args[0])))
		return nil
	},
}

var presetShowCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Print a preset",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		presets, err := loadPresets()
		if err != nil {
			return err
		}
		preset, ok := presets[args[0]]
		if !ok {
			return fmt.Errorf("preset %q not found", args[0])
		}
		if presetShowYAML {
			data, err := yaml.Marshal(preset)
			if err != nil {
				return fmt.Errorf("encoding YAML: %w", err)
			}
			fmt.Fprint(cmd.OutOrStdout(), string(data))
			return nil
		}
		return printJSON(cmd, preset)
	},
}

// loadPresets returns the saved presets, with the built-in default preset
// when the user has not overridden it.
func loadPresets() (map[string]map[string]any, error) {
	doc, err := session.Prefs.Load()
	if err != nil {
		return nil, err
	}
	presets := doc.Presets()
	if _, ok := presets["default"]; !ok {
		presets["default"] = preferences.DefaultPreset()
	}
	return presets, nil
}
