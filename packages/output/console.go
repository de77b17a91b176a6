package output

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/abdul-hamid-achik/hitdiff/packages/core/runner"
	"github.com/abdul-hamid-achik/hitdiff/packages/textdiff"
	"github.com/fatih/color"
)

type ConsoleFormatter struct {
	writer  io.Writer
	verbose bool
	noColor bool
	summary Summary
}

type ConsoleOption func(*ConsoleFormatter)

func NewConsoleFormatter(opts ...ConsoleOption) *ConsoleFormatter {
	f := &ConsoleFormatter{
		writer: os.Stdout,
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.noColor {
		color.NoColor = true
	}
	return f
}

func WithWriter(w io.Writer) ConsoleOption {
	return func(f *ConsoleFormatter) {
		f.writer = w
	}
}

func WithVerbose(v bool) ConsoleOption {
	return func(f *ConsoleFormatter) {
		f.verbose = v
	}
}

func WithNoColor(nc bool) ConsoleOption {
	return func(f *ConsoleFormatter) {
		f.noColor = nc
	}
}

func (f *ConsoleFormatter) FormatResult(result *runner.Result) {
	f.summary.addResult(result)

	green := color.New(color.FgGreen).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()
	cyan := color.New(color.FgCyan).SprintFunc()
	bold := color.New(color.Bold).SprintFunc()

	fmt.Fprintf(f.writer, "%s %s\n", bold("Profile:"), result.Profile)
	fmt.Fprintf(f.writer, "%s %s %s\n", red("--- req1"), result.Left.Method, result.Left.URL)
	fmt.Fprintf(f.writer, "%s %s %s\n", green("+++ req2"), result.Right.Method, result.Right.URL)
	if f.verbose {
		fmt.Fprintf(f.writer, "%s\n", cyan(fmt.Sprintf("run %s (%dms)", result.RunID, result.Duration.Milliseconds())))
	}

	for _, line := range result.Lines {
		text := line.String()
		switch line.Tag {
		case textdiff.Delete:
			text = red(text)
		case textdiff.Insert:
			text = green(text)
		}
		fmt.Fprintln(f.writer, text)
	}

	if result.Changed() {
		fmt.Fprintf(f.writer, "%s, %s\n\n",
			green(fmt.Sprintf("%d insertion(s)(+)", result.Stats.Inserted)),
			red(fmt.Sprintf("%d deletion(s)(-)", result.Stats.Deleted)))
	} else {
		fmt.Fprintf(f.writer, "%s\n\n", green("no differences"))
	}
}

func (f *ConsoleFormatter) FormatError(profile string, err error) {
	f.summary.addError()
	red := color.New(color.FgRed).SprintFunc()
	fmt.Fprintf(f.writer, "%s %v\n", red("Error:"), err)
}

func (f *ConsoleFormatter) FormatResponse(side *runner.Side) {
	bold := color.New(color.Bold).SprintFunc()
	cyan := color.New(color.FgCyan).SprintFunc()
	green := color.New(color.FgGreen).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()

	resp := side.Response
	fmt.Fprintf(f.writer, "%s %s\n", bold(side.Method), side.URL)

	status := resp.StatusLine()
	if resp.IsSuccess() {
		status = green(status)
	} else {
		status = red(status)
	}
	fmt.Fprintln(f.writer, status)

	for _, h := range resp.Headers {
		fmt.Fprintf(f.writer, "%s: %s\n", cyan(h.Name), h.Value)
	}
	fmt.Fprintln(f.writer)
	fmt.Fprintln(f.writer, side.Text)

	if f.verbose {
		fmt.Fprintf(f.writer, "%s\n", cyan(fmt.Sprintf("(%dms)", resp.DurationMs())))
	}
}

func (f *ConsoleFormatter) FormatHeader(version string) {
	bold := color.New(color.Bold).SprintFunc()
	fmt.Fprintf(f.writer, "%s %s\n", bold("hitdiff"), version)
}

// Flush prints a summary when more than one profile ran.
func (f *ConsoleFormatter) Flush(totalDuration time.Duration) error {
	if f.summary.Total < 2 {
		return nil
	}
	green := color.New(color.FgGreen).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()

	fmt.Fprintf(f.writer, "Profiles: ")
	if f.summary.Unchanged > 0 {
		fmt.Fprintf(f.writer, "%s, ", green(fmt.Sprintf("%d unchanged", f.summary.Unchanged)))
	}
	if f.summary.Changed > 0 {
		fmt.Fprintf(f.writer, "%s, ", yellow(fmt.Sprintf("%d changed", f.summary.Changed)))
	}
	if f.summary.Failed > 0 {
		fmt.Fprintf(f.writer, "%s, ", red(fmt.Sprintf("%d failed", f.summary.Failed)))
	}
	fmt.Fprintf(f.writer, "%d total\n", f.summary.Total)
	fmt.Fprintf(f.writer, "Time:     %dms\n", totalDuration.Milliseconds())
	return nil
}
