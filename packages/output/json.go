package output

import (
	"encoding/json"
	"io"
	"os"
	"time"

	"github.com/abdul-hamid-achik/hitdiff/packages/core/runner"
	"github.com/abdul-hamid-achik/hitdiff/packages/http"
	"github.com/abdul-hamid-achik/hitdiff/packages/profile"
	"github.com/abdul-hamid-achik/hitdiff/packages/textdiff"
)

// JSONOutput represents the complete JSON output structure
type JSONOutput struct {
	Summary  Summary       `json:"summary"`
	Profiles []JSONProfile `json:"profiles"`
	Duration float64       `json:"duration"`
	Time     string        `json:"time"`
}

// JSONProfile represents the outcome of one diff profile
type JSONProfile struct {
	Name     string          `json:"name"`
	RunID    string          `json:"runId,omitempty"`
	Changed  bool            `json:"changed"`
	Duration float64         `json:"duration"`
	Error    *JSONError      `json:"error,omitempty"`
	Req1     *JSONRequest    `json:"req1,omitempty"`
	Req2     *JSONRequest    `json:"req2,omitempty"`
	Stats    *textdiff.Stats `json:"stats,omitempty"`
	Lines    []JSONLine      `json:"lines,omitempty"`
}

// JSONError describes a failed profile
type JSONError struct {
	Kind    string `json:"kind,omitempty"`
	Side    string `json:"side,omitempty"`
	Message string `json:"message"`
}

// JSONRequest represents one side of a diff
type JSONRequest struct {
	Method     string            `json:"method"`
	URL        string            `json:"url"`
	StatusCode int               `json:"statusCode,omitempty"`
	Status     string            `json:"status,omitempty"`
	Headers    map[string]string `json:"headers,omitempty"`
	Body       string            `json:"body,omitempty"`
	Duration   float64           `json:"duration"`
}

// JSONLine is one tagged line of a diff
type JSONLine struct {
	Tag     string `json:"tag"`
	Content string `json:"content"`
}

// JSONFormatter formats diff results as JSON
type JSONFormatter struct {
	writer   io.Writer
	profiles []JSONProfile
	summary  Summary
}

type JSONOption func(*JSONFormatter)

func NewJSONFormatter(opts ...JSONOption) *JSONFormatter {
	f := &JSONFormatter{
		writer:   os.Stdout,
		profiles: make([]JSONProfile, 0),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func JSONWithWriter(w io.Writer) JSONOption {
	return func(f *JSONFormatter) {
		f.writer = w
	}
}

func (f *JSONFormatter) FormatResult(result *runner.Result) {
	f.summary.addResult(result)

	stats := result.Stats
	p := JSONProfile{
		Name:     result.Profile,
		RunID:    result.RunID,
		Changed:  result.Changed(),
		Duration: float64(result.Duration.Milliseconds()),
		Req1:     jsonRequest(result.Left, false),
		Req2:     jsonRequest(result.Right, false),
		Stats:    &stats,
		Lines:    make([]JSONLine, len(result.Lines)),
	}
	for i, l := range result.Lines {
		p.Lines[i] = JSONLine{Tag: l.Tag.String(), Content: l.Content}
	}

	f.profiles = append(f.profiles, p)
}

func (f *JSONFormatter) FormatError(name string, err error) {
	f.summary.addError()

	jerr := &JSONError{Message: err.Error()}
	if kind := profile.KindOf(err); kind != nil {
		jerr.Kind = kind.Error()
	}
	if side := sideOf(err); side != "" {
		jerr.Side = side
	}
	f.profiles = append(f.profiles, JSONProfile{Name: name, Error: jerr})
}

// FormatResponse writes a single request immediately.
func (f *JSONFormatter) FormatResponse(side *runner.Side) {
	encoder := json.NewEncoder(f.writer)
	encoder.SetIndent("", "  ")
	_ = encoder.Encode(jsonRequest(side, true))
}

// Flush writes the accumulated JSON output
func (f *JSONFormatter) Flush(totalDuration time.Duration) error {
	output := JSONOutput{
		Summary:  f.summary,
		Profiles: f.profiles,
		Duration: float64(totalDuration.Milliseconds()),
		Time:     time.Now().Format(time.RFC3339),
	}

	encoder := json.NewEncoder(f.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(output)
}

func jsonRequest(side *runner.Side, withBody bool) *JSONRequest {
	if side == nil {
		return nil
	}
	req := &JSONRequest{Method: side.Method, URL: side.URL}
	if resp := side.Response; resp != nil {
		req.StatusCode = resp.StatusCode
		req.Status = resp.Status
		req.Headers = headerMap(resp.Headers)
		req.Duration = float64(resp.Duration.Milliseconds())
	}
	if withBody {
		req.Body = side.Text
	}
	return req
}

func headerMap(headers []http.Header) map[string]string {
	if len(headers) == 0 {
		return nil
	}
	m := make(map[string]string, len(headers))
	for _, h := range headers {
		if prev, ok := m[h.Name]; ok {
			m[h.Name] = prev + ", " + h.Value
			continue
		}
		m[h.Name] = h.Value
	}
	return m
}
