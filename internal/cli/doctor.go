package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"

	"github.com/spf13/cobra"

	"github.com/packages-box/box/internal/config"
	"github.com/packages-box/box/internal/pkgmanager"
	"github.com/packages-box/box/internal/plugin"
	"github.com/packages-box/box/internal/preferences"
	"github.com/packages-box/box/internal/project"
)

var (
	checkRuntime     bool
	checkPreferences bool
	checkProject     bool
)

func init() {
	doctorCmd.Flags().BoolVar(&checkRuntime, "check-runtime", false, "Verify git and package managers are available")
	doctorCmd.Flags().BoolVar(&checkPreferences, "check-preferences", false, "Validate the preferences file")
	doctorCmd.Flags().BoolVar(&checkProject, "check-project", false, "List plugins declared by the current project")
	rootCmd.AddCommand(doctorCmd)
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Health check for the local environment",
	Long:  `Run diagnostic checks on the tools, preferences, and project the CLI depends on.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		all := !checkRuntime && !checkPreferences && !checkProject
		out := cmd.OutOrStdout()

		if all || checkRuntime {
			runRuntimeCheck(out)
		}
		if all || checkPreferences {
			if err := runPreferencesCheck(out, config.PreferencesPath()); err != nil {
				return err
			}
		}
		if all || checkProject {
			dir, err := os.Getwd()
			if err != nil {
				return fmt.Errorf("resolving working directory: %w", err)
			}
			runProjectCheck(out, dir)
		}
		return nil
	},
}

func runRuntimeCheck(w io.Writer) {
	fmt.Fprintln(w, "Runtime check:")
	checkBinary(w, "git")
	checkBinary(w, "node")
	for _, bin := range []string{pkgmanager.NPM, pkgmanager.Yarn, pkgmanager.PNPM} {
		checkBinary(w, bin)
	}
}

func checkBinary(w io.Writer, name string) {
	path, err := exec.LookPath(name)
	if err != nil {
		fmt.Fprintf(w, "  [MISS] %s not found\n", name)
		return
	}
	fmt.Fprintf(w, "  [ OK ] %s found at %s\n", name, path)
}

// runPreferencesCheck reports schema problems in the preferences file at
// path. Only a file that cannot be parsed at all is returned as an error.
func runPreferencesCheck(w io.Writer, path string) error {
	fmt.Fprintf(w, "Preferences check: %s\n", path)
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		fmt.Fprintln(w, "  [INFO] No preferences saved yet")
		return nil
	}

	var warnings []string
	store := preferences.NewStore(path, preferences.WithWarnings(func(msg string) {
		warnings = append(warnings, msg)
	}))
	doc, err := store.Load()
	if err != nil {
		fmt.Fprintf(w, "  [FAIL] %v\n", err)
		return fmt.Errorf("preferences check failed: %w", err)
	}
	if len(warnings) > 0 {
		for _, msg := range warnings {
			fmt.Fprintf(w, "  [WARN] %s\n", msg)
		}
		return nil
	}
	fmt.Fprintf(w, "  [ OK ] Valid preferences (%d presets)\n", len(doc.Presets()))
	return nil
}

func runProjectCheck(w io.Writer, dir string) {
	fmt.Fprintln(w, "Project check:")
	pkg, err := project.Load(dir)
	if err != nil {
		if errors.Is(err, project.ErrManifestNotFound) {
			fmt.Fprintf(w, "  [INFO] No %s in %s\n", project.ManifestFile, dir)
			return
		}
		fmt.Fprintf(w, "  [FAIL] %v\n", err)
		return
	}
	fmt.Fprintf(w, "  [ OK ] %s %s\n", pkg.Name(), pkg.Version())

	ids := plugin.Declared(pkg)
	if len(ids) == 0 {
		fmt.Fprintln(w, "  [INFO] No plugins declared")
		return
	}
	for _, id := range ids {
		fmt.Fprintf(w, "  [ OK ] plugin %s (%s)\n", plugin.ShortID(id), id)
	}
}
