package output

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/abdul-hamid-achik/hitdiff/packages/core/runner"
)

// Formats lists the accepted names for New.
var Formats = []string{"console", "plain", "unified", "json", "junit"}

type Formatter interface {
	FormatResult(result *runner.Result)
	FormatError(profile string, err error)
	Flush(totalDuration time.Duration) error
}

// ResponseFormatter prints a single executed request.
type ResponseFormatter interface {
	FormatResponse(side *runner.Side)
}

// Options configures the formatter returned by New.
type Options struct {
	Writer  io.Writer
	NoColor bool
	Verbose bool
}

func New(format string, opts Options) (Formatter, error) {
	w := opts.Writer
	if w == nil {
		w = os.Stdout
	}

	switch format {
	case "", "console":
		return NewConsoleFormatter(WithWriter(w), WithNoColor(opts.NoColor), WithVerbose(opts.Verbose)), nil
	case "plain":
		return NewPlainFormatter(w), nil
	case "unified":
		return NewUnifiedFormatter(w), nil
	case "json":
		return NewJSONFormatter(JSONWithWriter(w)), nil
	case "junit":
		return NewJUnitFormatter(JUnitWithWriter(w)), nil
	default:
		return nil, fmt.Errorf("unknown output format %q (want one of %v)", format, Formats)
	}
}

// Summary counts profile outcomes across a run.
type Summary struct {
	Total     int `json:"total"`
	Changed   int `json:"changed"`
	Unchanged int `json:"unchanged"`
	Failed    int `json:"failed"`
}

func (s *Summary) addResult(r *runner.Result) {
	s.Total++
	if r.Changed() {
		s.Changed++
	} else {
		s.Unchanged++
	}
}

func (s *Summary) addError() {
	s.Total++
	s.Failed++
}
