package invoke

import "fmt"

// Stage is a step of an invocation. Stages run strictly in order.
type Stage int

const (
	StageCheckDirty Stage = iota
	StageResolvePlugin
	StageAssembleOptions
	StageGenerate
	StageInstallDeps
	StageRunHooks
	StageReportChanges
	StageDone
)

var stageNames = [...]string{
	StageCheckDirty:      "check-dirty",
	StageResolvePlugin:   "resolve-plugin",
	StageAssembleOptions: "assemble-options",
	StageGenerate:        "generate",
	StageInstallDeps:     "install-deps",
	StageRunHooks:        "run-hooks",
	StageReportChanges:   "report-changes",
	StageDone:            "done",
}

func (s Stage) String() string {
	if s < 0 || int(s) >= len(stageNames) {
		return fmt.Sprintf("stage(%d)", int(s))
	}
	return stageNames[s]
}

// StageError records the stage an invocation failed in. Stages before it
// completed and are not rolled back.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return e.Err.Error()
}

func (e *StageError) Unwrap() error {
	return e.Err
}

func wrapStage(stage Stage, err error) error {
	if err == nil {
		return nil
	}
	return &StageError{Stage: stage, Err: err}
}
