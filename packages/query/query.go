// Package query applies jq expressions to JSON response bodies.
package query

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/itchyny/gojq"
)

// ErrInvalidJSON is returned when the input is not a JSON document.
var ErrInvalidJSON = errors.New("invalid JSON data")

// Result holds the values produced by an expression. Errors raised for
// individual outputs do not stop the query and are collected instead.
type Result struct {
	Values []any    `json:"values"`
	Errors []string `json:"errors,omitempty"`
}

// Compile parses and compiles a jq expression.
func Compile(expression string) (*gojq.Code, error) {
	q, err := gojq.Parse(expression)
	if err != nil {
		return nil, fmt.Errorf("invalid jq expression: %w", err)
	}
	code, err := gojq.Compile(q)
	if err != nil {
		return nil, fmt.Errorf("failed to compile jq expression: %w", err)
	}
	return code, nil
}

// Run evaluates expression against a JSON document.
func Run(data []byte, expression string) (*Result, error) {
	code, err := Compile(expression)
	if err != nil {
		return nil, err
	}

	var input any
	if err := json.Unmarshal(data, &input); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidJSON, err)
	}

	result := &Result{Values: make([]any, 0)}
	iter := code.Run(input)
	for {
		v, ok := iter.Next()
		if !ok {
			break
		}
		if err, isErr := v.(error); isErr {
			result.Errors = append(result.Errors, formatError(err))
			continue
		}
		result.Values = append(result.Values, v)
	}
	return result, nil
}

// Format renders each value on its own line as indented JSON, like jq does.
func (r *Result) Format() (string, error) {
	lines := make([]string, 0, len(r.Values))
	for _, v := range r.Values {
		b, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return "", err
		}
		lines = append(lines, string(b))
	}
	return strings.Join(lines, "\n"), nil
}

// formatError adds a hint to the most common runtime errors. gojq does not
// type these, so the message text is matched.
func formatError(err error) string {
	var haltErr *gojq.HaltError
	if errors.As(err, &haltErr) {
		if haltErr.Value() == nil {
			return "query halted"
		}
		return fmt.Sprintf("query halted with: %v", haltErr.Value())
	}

	msg := err.Error()
	var hint string
	switch {
	case strings.Contains(msg, "cannot iterate over: null"):
		hint = " (the path may not exist in this response)"
	case strings.Contains(msg, "cannot index") && strings.Contains(msg, "with"):
		hint = " (field not found or wrong type)"
	}
	return msg + hint
}
