package invoke

import (
	"context"
	"fmt"
	"maps"

	"github.com/packages-box/box/internal/config"
	"github.com/packages-box/box/internal/ctxlog"
	"github.com/packages-box/box/internal/generator"
	"github.com/packages-box/box/internal/pkgmanager"
	"github.com/packages-box/box/internal/plugin"
	"github.com/packages-box/box/internal/project"
	"github.com/packages-box/box/internal/prompt"
	"github.com/packages-box/box/internal/ui"
	"github.com/packages-box/box/internal/vcs"
)

// Invoker runs plugin generators in one project directory.
type Invoker struct {
	Dir       string
	Env       config.Env
	Loader    plugin.Loader
	Asker     prompt.Asker
	Repo      vcs.Repo
	Installer pkgmanager.Installer
	Printer   *ui.Printer

	// OnStage, when set, is called as each stage starts.
	OnStage func(Stage)
}

func (inv *Invoker) enter(ctx context.Context, s Stage) {
	ctxlog.FromContext(ctx).Debug("invoke stage", "stage", s.String())
	if inv.OnStage != nil {
		inv.OnStage(s)
	}
}

// Invoke resolves the plugin called name, gathers its options and runs its
// generator. Declining the dirty-tree confirmation returns nil without
// touching the project. Failures are *StageError.
func (inv *Invoker) Invoke(ctx context.Context, name string, raw RawOptions) error {
	inv.enter(ctx, StageCheckDirty)
	proceed, err := vcs.ConfirmIfDirty(ctx, inv.Repo, inv.Asker, inv.Env, inv.Printer)
	if err != nil {
		return wrapStage(StageCheckDirty, err)
	}
	if !proceed {
		return nil
	}

	inv.enter(ctx, StageResolvePlugin)
	pkg, err := project.Load(inv.Dir)
	if err != nil {
		return wrapStage(StageResolvePlugin, err)
	}
	id, err := plugin.Resolve(name, pkg)
	if err != nil {
		return wrapStage(StageResolvePlugin, err)
	}
	bundle, err := inv.Loader.Load(ctx, id, inv.Dir)
	if err != nil {
		return wrapStage(StageResolvePlugin, err)
	}
	if bundle == nil || bundle.Generator == nil {
		return wrapStage(StageResolvePlugin, fmt.Errorf("%w: plugin %s does not have a generator", plugin.ErrInvalid, id))
	}

	inv.enter(ctx, StageAssembleOptions)
	opts, err := BuildOptions(ctx, raw, bundle, pkg, inv.Asker)
	if err != nil {
		return wrapStage(StageAssembleOptions, err)
	}

	return inv.RunGenerator(ctx, plugin.Ref{ID: id, Apply: bundle.Generator, Options: opts}, pkg)
}

// RunGenerator applies an already resolved plugin to the project and runs
// every stage from Generate on.
func (inv *Invoker) RunGenerator(ctx context.Context, ref plugin.Ref, pkg *project.Descriptor) error {
	p := inv.Printer

	inv.enter(ctx, StageGenerate)
	files, err := project.ReadFiles(inv.Dir)
	if err != nil {
		return wrapStage(StageGenerate, err)
	}
	gen := generator.New(inv.Dir, generator.Options{
		Pkg:      pkg,
		Plugins:  []plugin.Ref{ref},
		Files:    files,
		Invoking: true,
	})

	p.Log("")
	p.Log(fmt.Sprintf("🚀  Invoking generator for %s...", ref.ID))
	if err := gen.Generate(ctx, generator.GenerateOptions{ExtractConfigFiles: true, CheckExisting: true}); err != nil {
		return wrapStage(StageGenerate, err)
	}

	inv.enter(ctx, StageInstallDeps)
	if !inv.Env.Hermetic() && depsChanged(pkg, gen.Pkg()) {
		p.Log("📦  Installing additional dependencies...")
		p.Log("")
		if err := inv.Installer.Install(ctx); err != nil {
			return wrapStage(StageInstallDeps, err)
		}
	}

	inv.enter(ctx, StageRunHooks)
	hooks := append(gen.AfterInvokeHooks(), gen.AfterAnyInvokeHooks()...)
	if len(hooks) > 0 {
		err := p.RunWithSpinner(ctx, "⚓", "Running completion hooks...", func(ctx context.Context) error {
			for _, hook := range hooks {
				if err := hook(ctx); err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			return wrapStage(StageRunHooks, err)
		}
		p.Log("")
	}

	p.Success(fmt.Sprintf("Successfully invoked generator for plugin: %s", p.Accent(ref.ID)))

	inv.enter(ctx, StageReportChanges)
	if err := inv.reportChanges(ctx); err != nil {
		return wrapStage(StageReportChanges, err)
	}

	gen.PrintExitLogs(p)
	inv.enter(ctx, StageDone)
	return nil
}

func (inv *Invoker) reportChanges(ctx context.Context) error {
	if inv.Env.Test || !inv.Repo.IsRepo(ctx) {
		return nil
	}
	changed, err := inv.Repo.ChangedFiles(ctx)
	if err != nil {
		return err
	}
	if len(changed) == 0 {
		return nil
	}
	p := inv.Printer
	p.Step("The following files have been updated / added:")
	p.Log("")
	p.List(changed)
	p.Log("")
	p.Step(fmt.Sprintf("You should review these changes with %s and commit them.", p.Accent("git diff")))
	p.Log("")
	return nil
}

func depsChanged(before, after *project.Descriptor) bool {
	return !maps.Equal(before.Dependencies(), after.Dependencies()) ||
		!maps.Equal(before.DevDependencies(), after.DevDependencies())
}
