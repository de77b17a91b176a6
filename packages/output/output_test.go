package output

import (
	"bytes"
	"encoding/json"
	"encoding/xml"
	"errors"
	"testing"
	"time"

	"github.com/abdul-hamid-achik/hitdiff/packages/core/runner"
	"github.com/abdul-hamid-achik/hitdiff/packages/http"
	"github.com/abdul-hamid-achik/hitdiff/packages/profile"
	"github.com/abdul-hamid-achik/hitdiff/packages/textdiff"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleResult(left, right string) *runner.Result {
	lines := textdiff.Lines(left, right)
	resp := &http.Response{
		Proto:      "HTTP/1.1",
		StatusCode: 200,
		Status:     "200 OK",
		Headers:    []http.Header{{Name: "Content-Type", Value: "application/json"}},
	}
	return &runner.Result{
		Profile:  "todo",
		RunID:    "run-1",
		Left:     &runner.Side{Name: "req1", Method: "GET", URL: "https://a.example.com", Response: resp, Text: left},
		Right:    &runner.Side{Name: "req2", Method: "GET", URL: "https://b.example.com", Response: resp, Text: right},
		Lines:    lines,
		Stats:    textdiff.Summarize(lines),
		Duration: 12 * time.Millisecond,
	}
}

func transportError() error {
	return &profile.Error{Kind: profile.ErrTransport, Profile: "down", Side: "req1", Err: errors.New("connection refused")}
}

func TestNew(t *testing.T) {
	for _, name := range Formats {
		f, err := New(name, Options{Writer: &bytes.Buffer{}})
		require.NoError(t, err, name)
		assert.NotNil(t, f)
	}

	_, err := New("html", Options{})
	assert.Error(t, err)
}

func TestConsoleFormatter(t *testing.T) {
	var buf bytes.Buffer
	f := NewConsoleFormatter(WithWriter(&buf), WithNoColor(true))

	f.FormatResult(sampleResult("a\nb", "a\nc"))
	f.FormatError("down", transportError())
	require.NoError(t, f.Flush(time.Second))

	out := buf.String()
	assert.Contains(t, out, "Profile: todo")
	assert.Contains(t, out, "--- req1 GET https://a.example.com")
	assert.Contains(t, out, "+++ req2 GET https://b.example.com")
	assert.Contains(t, out, " a\n-b\n+c\n")
	assert.Contains(t, out, "1 insertion(s)(+), 1 deletion(s)(-)")
	assert.Contains(t, out, `Error: profile "down": req1: transport error: connection refused`)
	assert.Contains(t, out, "1 changed, 1 failed, 2 total")
}

func TestConsoleFormatter_NoChanges(t *testing.T) {
	var buf bytes.Buffer
	f := NewConsoleFormatter(WithWriter(&buf), WithNoColor(true))

	f.FormatResult(sampleResult("a", "a"))
	require.NoError(t, f.Flush(time.Second))

	assert.Contains(t, buf.String(), "no differences")
	assert.NotContains(t, buf.String(), "Profiles:")
}

func TestConsoleFormatter_FormatResponse(t *testing.T) {
	var buf bytes.Buffer
	f := NewConsoleFormatter(WithWriter(&buf), WithNoColor(true))

	side := sampleResult(`{"id":1}`, "").Left
	f.FormatResponse(side)

	out := buf.String()
	assert.Contains(t, out, "GET https://a.example.com\n")
	assert.Contains(t, out, "HTTP/1.1 200 OK\n")
	assert.Contains(t, out, "Content-Type: application/json\n")
	assert.Contains(t, out, `{"id":1}`)
}

func TestPlainFormatter(t *testing.T) {
	var buf bytes.Buffer
	f := NewPlainFormatter(&buf)

	f.FormatResult(sampleResult("a\nb", "a\nc"))
	require.NoError(t, f.Flush(0))
	assert.Equal(t, " a\n-b\n+c\n", buf.String())
}

func TestUnifiedFormatter(t *testing.T) {
	var buf bytes.Buffer
	f := NewUnifiedFormatter(&buf)

	f.FormatResult(sampleResult("a\nb", "a\nc"))
	require.NoError(t, f.Flush(0))

	out := buf.String()
	assert.Contains(t, out, "--- req1")
	assert.Contains(t, out, "+++ req2")
	assert.Contains(t, out, "-b")
	assert.Contains(t, out, "+c")
}

func TestJSONFormatter(t *testing.T) {
	var buf bytes.Buffer
	f := NewJSONFormatter(JSONWithWriter(&buf))

	f.FormatResult(sampleResult("a\nb", "a\nc"))
	f.FormatError("down", transportError())
	require.NoError(t, f.Flush(time.Second))

	var out JSONOutput
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))

	assert.Equal(t, Summary{Total: 2, Changed: 1, Failed: 1}, out.Summary)
	require.Len(t, out.Profiles, 2)

	ok := out.Profiles[0]
	assert.Equal(t, "todo", ok.Name)
	assert.True(t, ok.Changed)
	assert.Equal(t, 200, ok.Req1.StatusCode)
	assert.Equal(t, "application/json", ok.Req1.Headers["Content-Type"])
	require.Len(t, ok.Lines, 3)
	assert.Equal(t, JSONLine{Tag: "delete", Content: "b"}, ok.Lines[1])

	failed := out.Profiles[1]
	require.NotNil(t, failed.Error)
	assert.Equal(t, "transport error", failed.Error.Kind)
	assert.Equal(t, "req1", failed.Error.Side)
}

func TestJUnitFormatter(t *testing.T) {
	var buf bytes.Buffer
	f := NewJUnitFormatter(JUnitWithWriter(&buf))

	f.FormatResult(sampleResult("a\nb", "a\nc"))
	f.FormatResult(sampleResult("same", "same"))
	f.FormatError("down", transportError())
	require.NoError(t, f.Flush(time.Second))

	out := buf.Bytes()
	assert.True(t, bytes.HasPrefix(out, []byte(`<?xml version="1.0" encoding="UTF-8"?>`)))

	var suites JUnitTestSuites
	require.NoError(t, xml.Unmarshal(out[bytes.IndexByte(out, '\n')+1:], &suites))
	assert.Equal(t, 3, suites.Tests)
	assert.Equal(t, 1, suites.Failures)
	assert.Equal(t, 1, suites.Errors)

	cases := suites.TestSuites[0].TestCases
	require.Len(t, cases, 3)
	require.NotNil(t, cases[0].Failure)
	assert.Contains(t, cases[0].Failure.Content, "-b")
	assert.Nil(t, cases[1].Failure)
	require.NotNil(t, cases[2].Error)
	assert.Equal(t, "transport error", cases[2].Error.Type)
}
