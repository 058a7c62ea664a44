package prompt

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Terminal asks questions over a line-oriented reader and writer.
// End of input selects each question's default.
type Terminal struct {
	reader      *bufio.Reader
	w           io.Writer
	promptStyle lipgloss.Style
	hintStyle   lipgloss.Style
}

// NewTerminal returns a Terminal reading answers from r and writing
// questions to w.
func NewTerminal(r io.Reader, w io.Writer) *Terminal {
	renderer := lipgloss.NewRenderer(w)
	return &Terminal{
		reader:      bufio.NewReader(r),
		w:           w,
		promptStyle: renderer.NewStyle().Foreground(lipgloss.Color("cyan")).Bold(true),
		hintStyle:   renderer.NewStyle().Foreground(lipgloss.Color("240")),
	}
}

// Ask implements Asker.
func (t *Terminal) Ask(ctx context.Context, questions []Question) (map[string]any, error) {
	answers := make(map[string]any, len(questions))
	for _, q := range questions {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		answer, err := t.ask(q)
		if err != nil {
			return nil, fmt.Errorf("answering %q: %w", q.Name, err)
		}
		answers[q.Name] = answer
	}
	return answers, nil
}

// Confirm implements Asker.
func (t *Terminal) Confirm(_ context.Context, message string, defaultYes bool) (bool, error) {
	return t.confirm(message, defaultYes)
}

func (t *Terminal) ask(q Question) (any, error) {
	message := q.Message
	if message == "" {
		message = q.Name
	}
	switch q.Type {
	case KindConfirm:
		defaultYes, _ := q.Default.(bool)
		return t.confirm(message, defaultYes)
	case KindList:
		return t.selectOne(message, q)
	case KindCheckbox:
		return t.selectMany(message, q)
	default:
		def := ""
		if q.Default != nil {
			def = fmt.Sprint(q.Default)
		}
		line, err := t.readLine(message, def)
		if err != nil {
			return nil, err
		}
		if line == "" {
			return def, nil
		}
		return line, nil
	}
}

func (t *Terminal) confirm(message string, defaultYes bool) (bool, error) {
	hint := "y/N"
	if defaultYes {
		hint = "Y/n"
	}
	line, err := t.readLine(message, hint)
	if err != nil {
		return false, err
	}
	switch strings.ToLower(line) {
	case "":
		return defaultYes, nil
	case "y", "yes":
		return true, nil
	case "n", "no":
		return false, nil
	default:
		return false, fmt.Errorf("invalid answer %q: expected y or n", line)
	}
}

func (t *Terminal) selectOne(message string, q Question) (any, error) {
	if len(q.Choices) == 0 {
		return nil, fmt.Errorf("list question has no choices")
	}
	t.printChoices(message, q.Choices)
	line, err := t.readLine(fmt.Sprintf("Enter number [1-%d]", len(q.Choices)), "")
	if err != nil {
		return nil, err
	}
	if line == "" {
		if q.Default != nil {
			return q.Default, nil
		}
		return q.Choices[0].Value, nil
	}
	idx, err := parseIndex(line, len(q.Choices))
	if err != nil {
		return nil, err
	}
	return q.Choices[idx].Value, nil
}

func (t *Terminal) selectMany(message string, q Question) (any, error) {
	if len(q.Choices) == 0 {
		return []any{}, nil
	}
	t.printChoices(message, q.Choices)
	line, err := t.readLine(fmt.Sprintf("Enter numbers separated by commas [1-%d]", len(q.Choices)), "")
	if err != nil {
		return nil, err
	}
	if line == "" {
		if q.Default != nil {
			return q.Default, nil
		}
		return []any{}, nil
	}
	var selected []any
	for _, part := range strings.Split(line, ",") {
		idx, err := parseIndex(strings.TrimSpace(part), len(q.Choices))
		if err != nil {
			return nil, err
		}
		selected = append(selected, q.Choices[idx].Value)
	}
	return selected, nil
}

func (t *Terminal) printChoices(message string, choices []Choice) {
	fmt.Fprintf(t.w, "\n%s\n", t.promptStyle.Render(message))
	for i, c := range choices {
		fmt.Fprintf(t.w, "  %d) %s\n", i+1, c.Name)
	}
}

// readLine prints message with an optional hint and returns the trimmed
// answer. End of input yields an empty answer.
func (t *Terminal) readLine(message, hint string) (string, error) {
	if hint != "" {
		fmt.Fprint(t.w, t.promptStyle.Render(message)+" "+t.hintStyle.Render("("+hint+")")+": ")
	} else {
		fmt.Fprint(t.w, t.promptStyle.Render(message)+": ")
	}
	line, err := t.reader.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("reading answer: %w", err)
	}
	return strings.TrimSpace(line), nil
}

func parseIndex(s string, n int) (int, error) {
	num, err := strconv.Atoi(s)
	if err != nil || num < 1 || num > n {
		return 0, fmt.Errorf("invalid selection %q: choose 1-%d", s, n)
	}
	return num - 1, nil
}
