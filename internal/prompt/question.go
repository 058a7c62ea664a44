package prompt

import (
	"context"
	"fmt"

	"go.yaml.in/yaml/v3"
)

// Kind selects how a question is asked and what type its answer has.
type Kind string

const (
	// KindInput answers with a string.
	KindInput Kind = "input"
	// KindConfirm answers with a bool.
	KindConfirm Kind = "confirm"
	// KindList answers with the value of one choice.
	KindList Kind = "list"
	// KindCheckbox answers with the values of zero or more choices.
	KindCheckbox Kind = "checkbox"
)

// Question is a single prompt. Name is the option key its answer is stored
// under.
type Question struct {
	Name    string   `yaml:"name" json:"name"`
	Type    Kind     `yaml:"type,omitempty" json:"type,omitempty"`
	Message string   `yaml:"message,omitempty" json:"message,omitempty"`
	Default any      `yaml:"default,omitempty" json:"default,omitempty"`
	Choices []Choice `yaml:"choices,omitempty" json:"choices,omitempty"`
}

// Choice is one selectable entry of a list or checkbox question.
type Choice struct {
	Name  string `yaml:"name" json:"name"`
	Value any    `yaml:"value" json:"value"`
}

// UnmarshalYAML accepts both the {name, value} form and a bare scalar, which
// is used as both name and value.
func (c *Choice) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		c.Name = node.Value
		c.Value = node.Value
		return nil
	}
	type plain Choice
	var p plain
	if err := node.Decode(&p); err != nil {
		return err
	}
	*c = Choice(p)
	if c.Value == nil {
		c.Value = c.Name
	}
	return nil
}

// Asker runs a question/answer session.
type Asker interface {
	// Ask asks every question in order and returns answers keyed by
	// Question.Name.
	Ask(ctx context.Context, questions []Question) (map[string]any, error)
	// Confirm asks a yes/no question.
	Confirm(ctx context.Context, message string, defaultYes bool) (bool, error)
}

// DecodeQuestions converts loosely typed question maps, as produced by
// plugin scripts, into Questions.
func DecodeQuestions(raw []map[string]any) ([]Question, error) {
	questions := make([]Question, 0, len(raw))
	for idx, entry := range raw {
		payload, err := yaml.Marshal(entry)
		if err != nil {
			return nil, fmt.Errorf("question[%d]: %w", idx, err)
		}
		var q Question
		if err := yaml.Unmarshal(payload, &q); err != nil {
			return nil, fmt.Errorf("question[%d]: %w", idx, err)
		}
		if q.Name == "" {
			return nil, fmt.Errorf("question[%d]: missing name", idx)
		}
		if q.Type == "" {
			q.Type = KindInput
		}
		questions = append(questions, q)
	}
	return questions, nil
}
