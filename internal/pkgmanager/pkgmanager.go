package pkgmanager

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// Supported package manager binaries.
const (
	NPM  = "npm"
	Yarn = "yarn"
	PNPM = "pnpm"
)

// Installer installs the dependencies declared in a project manifest.
type Installer interface {
	Install(ctx context.Context) error
}

// PackageManager runs install commands in a project directory.
type PackageManager struct {
	Bin      string // npm, yarn or pnpm
	Dir      string // project directory
	Registry string // registry URL passed through to install; empty for the tool default

	// Stdout and Stderr default to os.Stdout/os.Stderr.
	Stdout io.Writer
	Stderr io.Writer
}

// New returns a PackageManager for dir. preferred is the user's saved
// package manager preference and may be empty, in which case the lockfile
// present in dir decides, falling back to npm.
func New(dir, preferred, registry string) *PackageManager {
	return &PackageManager{
		Bin:      Detect(dir, preferred),
		Dir:      dir,
		Registry: registry,
	}
}

// Detect chooses the package manager binary for dir.
func Detect(dir, preferred string) string {
	switch preferred {
	case NPM, Yarn, PNPM:
		return preferred
	}
	if fileExists(filepath.Join(dir, "yarn.lock")) {
		return Yarn
	}
	if fileExists(filepath.Join(dir, "pnpm-lock.yaml")) {
		return PNPM
	}
	return NPM
}

// Install runs `<bin> install` in the project directory, streaming output.
func (pm *PackageManager) Install(ctx context.Context) error {
	bin, err := exec.LookPath(pm.Bin)
	if err != nil {
		return fmt.Errorf("%s is required but not found in PATH", pm.Bin)
	}

	cmd := exec.CommandContext(ctx, bin, pm.installArgs()...)
	cmd.Dir = pm.Dir
	cmd.Stdout = pm.Stdout
	if cmd.Stdout == nil {
		cmd.Stdout = os.Stdout
	}
	cmd.Stderr = pm.Stderr
	if cmd.Stderr == nil {
		cmd.Stderr = os.Stderr
	}

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s: %w", strings.Join(append([]string{pm.Bin}, pm.installArgs()...), " "), err)
	}
	return nil
}

func (pm *PackageManager) installArgs() []string {
	args := []string{"install"}
	if pm.Registry != "" {
		args = append(args, "--registry="+pm.Registry)
	}
	if pm.Bin == NPM {
		args = append(args, "--loglevel", "error")
	}
	return args
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
