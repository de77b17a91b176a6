package output

import (
	"fmt"
	"io"
	"time"

	"github.com/abdul-hamid-achik/hitdiff/packages/core/runner"
)

// PlainFormatter writes the rendered line diff and nothing else.
type PlainFormatter struct {
	writer io.Writer
}

func NewPlainFormatter(w io.Writer) *PlainFormatter {
	return &PlainFormatter{writer: w}
}

func (f *PlainFormatter) FormatResult(result *runner.Result) {
	if rendered := result.Render(); rendered != "" {
		fmt.Fprintln(f.writer, rendered)
	}
}

func (f *PlainFormatter) FormatError(profile string, err error) {
	fmt.Fprintf(f.writer, "error: %v\n", err)
}

func (f *PlainFormatter) FormatResponse(side *runner.Side) {
	resp := side.Response
	fmt.Fprintln(f.writer, resp.StatusLine())
	for _, h := range resp.Headers {
		fmt.Fprintf(f.writer, "%s: %s\n", h.Name, h.Value)
	}
	fmt.Fprintln(f.writer)
	fmt.Fprintln(f.writer, side.Text)
}

func (f *PlainFormatter) Flush(totalDuration time.Duration) error {
	return nil
}

// UnifiedFormatter writes a unified diff per profile.
type UnifiedFormatter struct {
	writer io.Writer
	err    error
}

func NewUnifiedFormatter(w io.Writer) *UnifiedFormatter {
	return &UnifiedFormatter{writer: w}
}

func (f *UnifiedFormatter) FormatResult(result *runner.Result) {
	unified, err := result.Unified()
	if err != nil {
		f.err = fmt.Errorf("profile %q: %w", result.Profile, err)
		return
	}
	fmt.Fprint(f.writer, unified)
}

func (f *UnifiedFormatter) FormatError(profile string, err error) {
	fmt.Fprintf(f.writer, "error: %v\n", err)
}

// Flush reports the first failure to build a unified diff.
func (f *UnifiedFormatter) Flush(totalDuration time.Duration) error {
	return f.err
}
