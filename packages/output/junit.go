package output

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/abdul-hamid-achik/hitdiff/packages/core/runner"
	"github.com/abdul-hamid-achik/hitdiff/packages/profile"
)

// JUnit XML structures

// JUnitTestSuites is the root element
type JUnitTestSuites struct {
	XMLName    xml.Name         `xml:"testsuites"`
	Name       string           `xml:"name,attr,omitempty"`
	Tests      int              `xml:"tests,attr"`
	Failures   int              `xml:"failures,attr"`
	Errors     int              `xml:"errors,attr"`
	Time       float64          `xml:"time,attr"`
	Timestamp  string           `xml:"timestamp,attr,omitempty"`
	TestSuites []JUnitTestSuite `xml:"testsuite"`
}

// JUnitTestSuite groups the profiles of one run
type JUnitTestSuite struct {
	XMLName   xml.Name        `xml:"testsuite"`
	Name      string          `xml:"name,attr"`
	Tests     int             `xml:"tests,attr"`
	Failures  int             `xml:"failures,attr"`
	Errors    int             `xml:"errors,attr"`
	Time      float64         `xml:"time,attr"`
	TestCases []JUnitTestCase `xml:"testcase"`
}

// JUnitTestCase is one diff profile
type JUnitTestCase struct {
	XMLName   xml.Name      `xml:"testcase"`
	Name      string        `xml:"name,attr"`
	ClassName string        `xml:"classname,attr"`
	Time      float64       `xml:"time,attr"`
	Failure   *JUnitFailure `xml:"failure,omitempty"`
	Error     *JUnitError   `xml:"error,omitempty"`
}

// JUnitFailure holds the diff of a profile whose responses differ
type JUnitFailure struct {
	Message string `xml:"message,attr,omitempty"`
	Type    string `xml:"type,attr,omitempty"`
	Content string `xml:",chardata"`
}

// JUnitError represents a profile that could not be diffed
type JUnitError struct {
	Message string `xml:"message,attr,omitempty"`
	Type    string `xml:"type,attr,omitempty"`
	Content string `xml:",chardata"`
}

// JUnitFormatter formats diff results as JUnit XML. A profile whose
// responses differ is a failure; one that could not run is an error.
type JUnitFormatter struct {
	writer io.Writer
	suite  JUnitTestSuite
}

type JUnitOption func(*JUnitFormatter)

func NewJUnitFormatter(opts ...JUnitOption) *JUnitFormatter {
	f := &JUnitFormatter{
		writer: os.Stdout,
		suite: JUnitTestSuite{
			Name:      "hitdiff",
			TestCases: make([]JUnitTestCase, 0),
		},
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func JUnitWithWriter(w io.Writer) JUnitOption {
	return func(f *JUnitFormatter) {
		f.writer = w
	}
}

func (f *JUnitFormatter) FormatResult(result *runner.Result) {
	tc := JUnitTestCase{
		Name:      result.Profile,
		ClassName: "hitdiff",
		Time:      result.Duration.Seconds(),
	}
	if result.Changed() {
		f.suite.Failures++
		tc.Failure = &JUnitFailure{
			Message: fmt.Sprintf("%d insertion(s), %d deletion(s)", result.Stats.Inserted, result.Stats.Deleted),
			Type:    "ResponseDiff",
			Content: result.Render(),
		}
	}
	f.suite.Tests++
	f.suite.TestCases = append(f.suite.TestCases, tc)
}

func (f *JUnitFormatter) FormatError(name string, err error) {
	errType := "Error"
	if kind := profile.KindOf(err); kind != nil {
		errType = kind.Error()
	}
	f.suite.Tests++
	f.suite.Errors++
	f.suite.TestCases = append(f.suite.TestCases, JUnitTestCase{
		Name:      name,
		ClassName: "hitdiff",
		Error: &JUnitError{
			Message: err.Error(),
			Type:    errType,
		},
	})
}

// Flush writes the accumulated JUnit XML output
func (f *JUnitFormatter) Flush(totalDuration time.Duration) error {
	f.suite.Time = totalDuration.Seconds()
	suites := JUnitTestSuites{
		Name:       "hitdiff",
		Tests:      f.suite.Tests,
		Failures:   f.suite.Failures,
		Errors:     f.suite.Errors,
		Time:       totalDuration.Seconds(),
		Timestamp:  time.Now().Format(time.RFC3339),
		TestSuites: []JUnitTestSuite{f.suite},
	}

	fmt.Fprintf(f.writer, "<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n")
	encoder := xml.NewEncoder(f.writer)
	encoder.Indent("", "  ")
	return encoder.Encode(suites)
}

func sideOf(err error) string {
	var pe *profile.Error
	if errors.As(err, &pe) {
		return pe.Side
	}
	return ""
}
