package cli

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/packages-box/box/internal/branding"
	"github.com/packages-box/box/internal/config"
	"github.com/packages-box/box/internal/ctxlog"
	"github.com/packages-box/box/internal/pkgmanager"
	"github.com/packages-box/box/internal/preferences"
	"github.com/packages-box/box/internal/ui"
	"github.com/packages-box/box/internal/updater"
)

// Session is the per-process state shared by every command.
type Session struct {
	Env     config.Env
	Logger  *slog.Logger
	Prefs   *preferences.Store
	Checker *updater.Checker
	Out     *ui.Printer
	Err     *ui.Printer
}

var session *Session

// newSession loads configuration and preferences for cmd. A preferences
// file that is not valid JSON fails here, before any command runs.
func newSession(cmd *cobra.Command) (*Session, error) {
	config.Load()
	env := config.LoadEnv()

	s := &Session{
		Env:    env,
		Logger: ctxlog.New(cmd.ErrOrStderr(), env.Debug),
		Out:    ui.New(cmd.OutOrStdout()),
		Err:    ui.New(cmd.ErrOrStderr()),
	}
	cmd.SetContext(ctxlog.WithLogger(cmd.Context(), s.Logger))

	s.Prefs = preferences.NewStore(config.PreferencesPath(), preferences.WithWarnings(s.Err.Warn))
	doc, err := s.Prefs.Load()
	if err != nil {
		return nil, err
	}

	registry := pkgmanager.ResolveRegistry("", doc.UseTaobaoRegistry(), config.Registry())
	s.Checker = updater.NewChecker(buildVersion, s.Prefs, pkgmanager.NewClient(registry, pkgmanager.WithUserAgent(branding.CLIName()+"/"+buildVersion)), updater.WithEnv(env))
	s.Logger.Debug("session ready", "preferences", s.Prefs.Path(), "registry", registry, "test", env.Test)
	return s, nil
}
