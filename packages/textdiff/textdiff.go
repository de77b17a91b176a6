package textdiff

import (
	"strings"

	"github.com/aymanbagabas/go-udiff"
)

// Tag labels one line of an edit script.
type Tag int

const (
	Equal Tag = iota
	Insert
	Delete
)

func (t Tag) String() string {
	switch t {
	case Equal:
		return "equal"
	case Insert:
		return "insert"
	case Delete:
		return "delete"
	default:
		return "unknown"
	}
}

// Prefix is the marker written in front of a line of this kind.
func (t Tag) Prefix() string {
	switch t {
	case Insert:
		return "+"
	case Delete:
		return "-"
	default:
		return " "
	}
}

// Line is one line of an edit script.
type Line struct {
	Tag     Tag
	Content string
}

func (l Line) String() string {
	return l.Tag.Prefix() + l.Content
}

// SplitLines splits s into lines. CRLF terminators count as LF and a single
// trailing terminator does not start a new line. The empty string has no
// lines.
func SplitLines(s string) []string {
	if s == "" {
		return nil
	}
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.TrimSuffix(s, "\n")
	return strings.Split(s, "\n")
}

// Lines diffs two texts line by line.
func Lines(a, b string) []Line {
	return Diff(SplitLines(a), SplitLines(b))
}

// Diff returns a minimal edit script turning a into b. When several minimal
// scripts exist the earliest matching alignment is kept, so the result is
// deterministic.
func Diff(a, b []string) []Line {
	prefix := 0
	for prefix < len(a) && prefix < len(b) && a[prefix] == b[prefix] {
		prefix++
	}
	suffix := 0
	for suffix < len(a)-prefix && suffix < len(b)-prefix &&
		a[len(a)-1-suffix] == b[len(b)-1-suffix] {
		suffix++
	}

	out := make([]Line, 0, len(a)+len(b)-prefix-suffix)
	for _, s := range a[:prefix] {
		out = append(out, Line{Tag: Equal, Content: s})
	}
	out = appendMiddle(out, a[prefix:len(a)-suffix], b[prefix:len(b)-suffix])
	for _, s := range a[len(a)-suffix:] {
		out = append(out, Line{Tag: Equal, Content: s})
	}
	return out
}

// appendMiddle diffs the region between the common prefix and suffix.
// table[i*(m+1)+j] holds the LCS length of a[i:] and b[j:].
func appendMiddle(out []Line, a, b []string) []Line {
	n, m := len(a), len(b)
	if n == 0 || m == 0 {
		for _, s := range a {
			out = append(out, Line{Tag: Delete, Content: s})
		}
		for _, s := range b {
			out = append(out, Line{Tag: Insert, Content: s})
		}
		return out
	}

	w := m + 1
	table := make([]int32, (n+1)*w)
	for i := n - 1; i >= 0; i-- {
		for j := m - 1; j >= 0; j-- {
			switch {
			case a[i] == b[j]:
				table[i*w+j] = table[(i+1)*w+j+1] + 1
			case table[(i+1)*w+j] >= table[i*w+j+1]:
				table[i*w+j] = table[(i+1)*w+j]
			default:
				table[i*w+j] = table[i*w+j+1]
			}
		}
	}

	i, j := 0, 0
	for i < n && j < m {
		switch {
		case a[i] == b[j]:
			out = append(out, Line{Tag: Equal, Content: a[i]})
			i++
			j++
		case table[(i+1)*w+j] >= table[i*w+j+1]:
			out = append(out, Line{Tag: Delete, Content: a[i]})
			i++
		default:
			out = append(out, Line{Tag: Insert, Content: b[j]})
			j++
		}
	}
	for ; i < n; i++ {
		out = append(out, Line{Tag: Delete, Content: a[i]})
	}
	for ; j < m; j++ {
		out = append(out, Line{Tag: Insert, Content: b[j]})
	}
	return out
}

// Render writes each line with its prefix, separated by newlines.
func Render(lines []Line) string {
	var b strings.Builder
	for i, l := range lines {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(l.Tag.Prefix())
		b.WriteString(l.Content)
	}
	return b.String()
}

// Stats counts the lines of an edit script by tag.
type Stats struct {
	Equal    int `json:"equal"`
	Inserted int `json:"inserted"`
	Deleted  int `json:"deleted"`
}

func Summarize(lines []Line) Stats {
	var s Stats
	for _, l := range lines {
		switch l.Tag {
		case Equal:
			s.Equal++
		case Insert:
			s.Inserted++
		case Delete:
			s.Deleted++
		}
	}
	return s
}

// Changed reports whether the script contains any insert or delete.
func (s Stats) Changed() bool {
	return s.Inserted+s.Deleted > 0
}

// Invert turns a script from a to b into the script from b to a. Inserts
// and deletes swap, and each changed run is reordered so that its deletes
// still come first.
func Invert(lines []Line) []Line {
	out := make([]Line, 0, len(lines))
	var pending []Line
	flush := func() {
		out = append(out, pending...)
		pending = pending[:0]
	}
	for _, l := range lines {
		switch l.Tag {
		case Insert:
			out = append(out, Line{Tag: Delete, Content: l.Content})
		case Delete:
			pending = append(pending, Line{Tag: Insert, Content: l.Content})
		default:
			flush()
			out = append(out, l)
		}
	}
	flush()
	return out
}

// Unified renders a unified diff of a and b with three lines of context.
// Identical inputs produce an empty string.
func Unified(fromName, toName, a, b string) (string, error) {
	edits := udiff.Strings(a, b)
	return udiff.ToUnified(fromName, toName, a, edits, 3)
}
