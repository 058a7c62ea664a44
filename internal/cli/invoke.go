package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/packages-box/box/internal/config"
	"github.com/packages-box/box/internal/invoke"
	"github.com/packages-box/box/internal/pkgmanager"
	"github.com/packages-box/box/internal/plugin"
	"github.com/packages-box/box/internal/prompt"
	"github.com/packages-box/box/internal/vcs"
)

// Plugins holds generator plugins compiled into the binary. They are
// consulted before scripts installed under node_modules.
var Plugins = plugin.NewRegistry()

func init() {
	rootCmd.AddCommand(invokeCmd)
}

var invokeCmd = &cobra.Command{
	Use:   "invoke <plugin> [pluginOptions]",
	Short: "Invoke the generator of a plugin in an already created project",
	Long: `Invoke the generator of a plugin in an already created project.

Flags after the plugin name are passed to the plugin as options:
  --foo          foo = true
  --no-foo       foo = false
  --foo=bar      foo = "bar"

When no plugin options are given, the plugin's prompts are asked instead.

Flags:
      --registry <url>          Use the specified registry when installing dependencies
      --inline-options <json>   Pass plugin options as a JSON object
  -h, --help                    Help for invoke`,
	DisableFlagParsing: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 || args[0] == "-h" || args[0] == "--help" {
			return cmd.Help()
		}
		name, rest := args[0], args[1:]
		raw, _, err := ParseArgs(rest)
		if err != nil {
			return err
		}

		dir, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("resolving working directory: %w", err)
		}

		inv, err := newInvoker(cmd, dir, raw)
		if err != nil {
			return err
		}
		invoke.Report(session.Err, session.Env, inv.Invoke(cmd.Context(), name, raw))
		return nil
	},
}

func newInvoker(cmd *cobra.Command, dir string, raw invoke.RawOptions) (*invoke.Invoker, error) {
	doc, err := session.Prefs.Load()
	if err != nil {
		return nil, err
	}

	// Only pass a registry to the install command when the user chose one.
	installRegistry := ""
	if raw.Registry != "" || doc.UseTaobaoRegistry() {
		installRegistry = pkgmanager.ResolveRegistry(raw.Registry, doc.UseTaobaoRegistry(), config.Registry())
	}
	pm := pkgmanager.New(dir, doc.PackageManager(), installRegistry)
	pm.Stdout = cmd.OutOrStdout()
	pm.Stderr = cmd.ErrOrStderr()

	return &invoke.Invoker{
		Dir:       dir,
		Env:       session.Env,
		Loader:    plugin.ChainLoader{Plugins, plugin.ScriptLoader{}},
		Asker:     prompt.NewTerminal(cmd.InOrStdin(), cmd.OutOrStdout()),
		Repo:      vcs.Git{Dir: dir},
		Installer: pm,
		Printer:   session.Out,
	}, nil
}
