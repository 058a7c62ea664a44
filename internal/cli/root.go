package cli

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/packages-box/box/internal/branding"
	"github.com/packages-box/box/internal/ui"
)

var (
	buildVersion string
	buildCommit  string
	buildDate    string
)

var rootCmd = &cobra.Command{
	Use:   branding.CLIName(),
	Short: branding.Description(),
	Long: branding.DisplayName() + ` invokes generator plugins against an existing project, merging their
file and dependency changes into it, and keeps user presets and cached
version checks in a local preferences file.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSession(cmd)
		if err != nil {
			return err
		}
		session = s
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if session != nil {
			waitForRefresh(session, refreshGrace)
		}
	},
}

// refreshGrace bounds how long the process lingers for a background
// version refresh before exiting.
const refreshGrace = 3 * time.Second

func waitForRefresh(s *Session, limit time.Duration) {
	done := make(chan struct{})
	go func() {
		s.Checker.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(limit):
		s.Logger.Debug("background version check still running at exit")
	}
}

// Execute runs the root command with build info injected via ldflags.
// Errors are printed to stderr before being returned.
func Execute(version, commit, date string) error {
	buildVersion = version
	buildCommit = commit
	buildDate = date
	err := rootCmd.ExecuteContext(context.Background())
	if err != nil {
		ui.New(rootCmd.ErrOrStderr()).Error(err.Error())
	}
	return err
}
