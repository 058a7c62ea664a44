package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/packages-box/box/internal/branding"
	"github.com/packages-box/box/internal/updater"
)

var (
	versionShort bool
	versionJSON  bool
)

func init() {
	versionCmd.Flags().BoolVar(&versionShort, "short", false, "Print version number only")
	versionCmd.Flags().BoolVar(&versionJSON, "json", false, "Print version info as JSON")
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information and check for updates",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		if versionShort {
			fmt.Fprintln(out, buildVersion)
			return nil
		}

		v := session.Checker.GetVersions(cmd.Context())
		if v.Err != nil {
			session.Logger.Debug("version check failed", "error", v.Err)
		}

		if versionJSON {
			info := map[string]string{
				"version": v.Current,
				"latest":  v.Latest,
				"commit":  buildCommit,
				"date":    buildDate,
			}
			data, err := json.MarshalIndent(info, "", "  ")
			if err != nil {
				return fmt.Errorf("marshaling version info: %w", err)
			}
			fmt.Fprintln(out, string(data))
			return nil
		}

		fmt.Fprintf(out, "%s version %s (commit: %s, built: %s)\n", branding.CLIName(), v.Current, buildCommit, buildDate)
		updater.PrintUpdateBanner(session.Out, v)
		return nil
	},
}
