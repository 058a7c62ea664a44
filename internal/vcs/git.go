// Package vcs inspects the git working tree of a project.
package vcs

import (
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/packages-box/box/internal/config"
	"github.com/packages-box/box/internal/prompt"
	"github.com/packages-box/box/internal/ui"
)

// Repo is the version-control view the invoke workflow needs.
type Repo interface {
	IsRepo(ctx context.Context) bool
	IsDirty(ctx context.Context) (bool, error)
	ChangedFiles(ctx context.Context) ([]string, error)
}

// Git runs the git binary in Dir.
type Git struct {
	Dir string
}

// IsRepo reports whether Dir is inside a git work tree. A missing git
// binary counts as not a repository.
func (g Git) IsRepo(ctx context.Context) bool {
	_, err := g.run(ctx, "status")
	return err == nil
}

// IsDirty reports whether the work tree has uncommitted changes.
func (g Git) IsDirty(ctx context.Context) (bool, error) {
	out, err := g.run(ctx, "status", "--porcelain")
	if err != nil {
		return false, err
	}
	return strings.TrimSpace(out) != "", nil
}

// ChangedFiles lists modified and untracked files, honoring .gitignore.
func (g Git) ChangedFiles(ctx context.Context) ([]string, error) {
	out, err := g.run(ctx, "ls-files", "--exclude-standard", "--modified", "--others")
	if err != nil {
		return nil, err
	}
	var files []string
	seen := map[string]bool{}
	for line := range strings.SplitSeq(out, "\n") {
		line = strings.TrimSpace(line)
		// --modified lists deleted files too; a path may appear twice.
		if line == "" || seen[line] {
			continue
		}
		seen[line] = true
		files = append(files, line)
	}
	return files, nil
}

func (g Git) run(ctx context.Context, args ...string) (string, error) {
	if _, err := exec.LookPath("git"); err != nil {
		return "", fmt.Errorf("git is required but not found in PATH")
	}
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = g.Dir
	output, err := cmd.CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("git %s: %w\n%s", strings.Join(args, " "), err, strings.TrimSpace(string(output)))
	}
	return string(output), nil
}

// ConfirmIfDirty asks before touching a repository with uncommitted
// changes. It returns true when the caller may proceed. Test mode and
// clean or non-git directories proceed without asking.
func ConfirmIfDirty(ctx context.Context, repo Repo, asker prompt.Asker, env config.Env, p *ui.Printer) (bool, error) {
	if env.Test || !repo.IsRepo(ctx) {
		return true, nil
	}
	dirty, err := repo.IsDirty(ctx)
	if err != nil {
		return false, err
	}
	if !dirty {
		return true, nil
	}
	p.Warn("There are uncommitted changes in the current repository, it's recommended to commit or stash them first.")
	return asker.Confirm(ctx, "Still proceed?", false)
}
