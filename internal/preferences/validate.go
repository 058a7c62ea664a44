package preferences

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

//go:embed schema/preferences.schema.json
var documentSchemaBytes []byte

//go:embed schema/preset.schema.json
var presetSchemaBytes []byte

const (
	documentSchemaURL = "preferences.schema.json"
	presetSchemaURL   = "preset.schema.json"
)

var (
	documentSchema *jsonschema.Schema
	presetSchema   *jsonschema.Schema
	compileOnce    sync.Once
	compileErr     error
	printer        = message.NewPrinter(language.English)
)

// Issue is a single schema violation.
type Issue struct {
	Path    string // Instance location (e.g., "/presets/default/plugins")
	Message string
	Keyword string // Failing schema keyword (e.g., "pattern", "required")
}

func (i Issue) String() string {
	if i.Path == "" {
		return i.Message
	}
	return i.Path + ": " + i.Message
}

// compileSchemas compiles both embedded schemas once.
func compileSchemas() error {
	compileOnce.Do(func() {
		c := jsonschema.NewCompiler()
		for url, raw := range map[string][]byte{
			documentSchemaURL: documentSchemaBytes,
			presetSchemaURL:   presetSchemaBytes,
		} {
			doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
			if err != nil {
				compileErr = fmt.Errorf("unmarshaling %s: %w", url, err)
				return
			}
			if err := c.AddResource(url, doc); err != nil {
				compileErr = fmt.Errorf("adding schema resource %s: %w", url, err)
				return
			}
		}
		if documentSchema, compileErr = c.Compile(documentSchemaURL); compileErr != nil {
			compileErr = fmt.Errorf("compiling preferences schema: %w", compileErr)
			return
		}
		if presetSchema, compileErr = c.Compile(presetSchemaURL); compileErr != nil {
			compileErr = fmt.Errorf("compiling preset schema: %w", compileErr)
		}
	})
	return compileErr
}

// validateJSON validates raw JSON against the preferences document schema.
// The error return is for schema or decoding failures; violations are
// returned as issues.
func validateJSON(data []byte) ([]Issue, error) {
	if err := compileSchemas(); err != nil {
		return nil, err
	}
	return validateWith(documentSchema, data)
}

// ValidatePreset checks a single preset against the preset schema. The
// returned error lists every violation.
func ValidatePreset(preset map[string]any) error {
	if err := compileSchemas(); err != nil {
		return err
	}
	data, err := json.Marshal(preset)
	if err != nil {
		return fmt.Errorf("encoding preset: %w", err)
	}
	issues, err := validateWith(presetSchema, data)
	if err != nil {
		return err
	}
	if len(issues) > 0 {
		return fmt.Errorf("invalid preset options: %s", joinIssues(issues))
	}
	return nil
}

func validateWith(schema *jsonschema.Schema, data []byte) ([]Issue, error) {
	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("preparing JSON for validation: %w", err)
	}

	err = schema.Validate(inst)
	if err == nil {
		return nil, nil
	}
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return nil, fmt.Errorf("unexpected validation error type: %w", err)
	}
	return extractIssues(ve), nil
}

// extractIssues walks the ValidationError tree and returns leaf-level issues.
func extractIssues(ve *jsonschema.ValidationError) []Issue {
	var issues []Issue
	collectIssues(ve, &issues)
	if len(issues) == 0 {
		return []Issue{{Message: ve.Error()}}
	}
	return issues
}

func collectIssues(ve *jsonschema.ValidationError, issues *[]Issue) {
	if len(ve.Causes) > 0 {
		for _, cause := range ve.Causes {
			collectIssues(cause, issues)
		}
		return
	}

	path := ""
	if len(ve.InstanceLocation) > 0 {
		path = "/" + strings.Join(ve.InstanceLocation, "/")
	}
	keyword := ""
	msg := ""
	if ve.ErrorKind != nil {
		if kwPath := ve.ErrorKind.KeywordPath(); len(kwPath) > 0 {
			keyword = kwPath[len(kwPath)-1]
		}
		msg = ve.ErrorKind.LocalizedString(printer)
	}
	// Container keywords carry no information of their own.
	if keyword == "allOf" || keyword == "$ref" || keyword == "" {
		return
	}
	*issues = append(*issues, Issue{Path: path, Message: msg, Keyword: keyword})
}

func joinIssues(issues []Issue) string {
	parts := make([]string, len(issues))
	for i, issue := range issues {
		parts[i] = issue.String()
	}
	return strings.Join(parts, "; ")
}
