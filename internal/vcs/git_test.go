package vcs

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/packages-box/box/internal/config"
	"github.com/packages-box/box/internal/prompt"
	"github.com/packages-box/box/internal/ui"
)

type fakeRepo struct {
	repo  bool
	dirty bool
}

func (f fakeRepo) IsRepo(context.Context) bool                    { return f.repo }
func (f fakeRepo) IsDirty(context.Context) (bool, error)          { return f.dirty, nil }
func (f fakeRepo) ChangedFiles(context.Context) ([]string, error) { return nil, nil }

type fakeAsker struct {
	answer bool
	asked  int
}

func (f *fakeAsker) Ask(context.Context, []prompt.Question) (map[string]any, error) {
	return nil, nil
}

func (f *fakeAsker) Confirm(context.Context, string, bool) (bool, error) {
	f.asked++
	return f.answer, nil
}

func TestConfirmIfDirty(t *testing.T) {
	tests := []struct {
		name      string
		repo      fakeRepo
		env       config.Env
		answer    bool
		want      bool
		wantAsked int
	}{
		{"not a repo", fakeRepo{}, config.Env{}, false, true, 0},
		{"clean", fakeRepo{repo: true}, config.Env{}, false, true, 0},
		{"dirty declined", fakeRepo{repo: true, dirty: true}, config.Env{}, false, false, 1},
		{"dirty accepted", fakeRepo{repo: true, dirty: true}, config.Env{}, true, true, 1},
		{"test mode skips", fakeRepo{repo: true, dirty: true}, config.Env{Test: true}, false, true, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			asker := &fakeAsker{answer: tt.answer}
			var buf bytes.Buffer
			got, err := ConfirmIfDirty(context.Background(), tt.repo, asker, tt.env, ui.New(&buf))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantAsked, asker.asked)
		})
	}
}

func initRepo(t *testing.T) string {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}
	dir := t.TempDir()
	for _, args := range [][]string{
		{"init", "-q"},
		{"config", "user.email", "test@example.com"},
		{"config", "user.name", "test"},
	} {
		cmd := exec.Command("git", args...)
		cmd.Dir = dir
		out, err := cmd.CombinedOutput()
		require.NoError(t, err, string(out))
	}
	return dir
}

func TestGit(t *testing.T) {
	dir := initRepo(t)
	g := Git{Dir: dir}
	ctx := context.Background()

	assert.True(t, g.IsRepo(ctx))
	dirty, err := g.IsDirty(ctx)
	require.NoError(t, err)
	assert.False(t, dirty)

	require.NoError(t, os.WriteFile(filepath.Join(dir, ".gitignore"), []byte("ignored.txt\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "new.txt"), []byte("x"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ignored.txt"), []byte("x"), 0644))

	dirty, err = g.IsDirty(ctx)
	require.NoError(t, err)
	assert.True(t, dirty)

	files, err := g.ChangedFiles(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{".gitignore", "new.txt"}, files)
}

func TestGitNotRepo(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}
	dir := t.TempDir()
	t.Setenv("GIT_CEILING_DIRECTORIES", filepath.Dir(dir))
	assert.False(t, Git{Dir: dir}.IsRepo(context.Background()))
}
