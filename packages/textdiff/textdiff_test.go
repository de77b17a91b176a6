package textdiff

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lcsLen(a, b []string) int {
	prev := make([]int, len(b)+1)
	cur := make([]int, len(b)+1)
	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			switch {
			case a[i-1] == b[j-1]:
				cur[j] = prev[j-1] + 1
			case prev[j] >= cur[j-1]:
				cur[j] = prev[j]
			default:
				cur[j] = cur[j-1]
			}
		}
		prev, cur = cur, prev
	}
	return prev[len(b)]
}

// sides rebuilds both inputs from a script.
func sides(lines []Line) (a, b []string) {
	for _, l := range lines {
		if l.Tag != Insert {
			a = append(a, l.Content)
		}
		if l.Tag != Delete {
			b = append(b, l.Content)
		}
	}
	return a, b
}

var pairs = []struct {
	name string
	a, b string
}{
	{"empty", "", ""},
	{"empty left", "", "a\nb"},
	{"empty right", "a\nb", ""},
	{"identical", "a\nb\nc", "a\nb\nc"},
	{"disjoint", "a\nb", "c\nd"},
	{"replace middle", "1\n2\n3", "1\nX\n3"},
	{"swap", "x\ny", "y\nx"},
	{"repeated", "a\nb\na\nb\na", "b\na\nb"},
	{"shift", "a\nb\nc\nd", "a\nc\nd\ne"},
	{"json", "{\n  \"id\": 1,\n  \"version\": \"v1\"\n}", "{\n  \"id\": 1,\n  \"version\": \"v2\"\n}"},
	{"trailing newline", "a\nb\n", "a\nb"},
	{"crlf", "a\r\nb\r\n", "a\nb\n"},
	{"long", "l1\nl2\nl3\nl4\nl5\nl6\nl7\nl8", "l1\nl3\nl4\nnew\nl5\nl7\nl8\nl9"},
}

func TestSplitLines(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", nil},
		{"a", []string{"a"}},
		{"a\n", []string{"a"}},
		{"a\n\n", []string{"a", ""}},
		{"a\r\nb", []string{"a", "b"}},
		{"\n", []string{""}},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, SplitLines(tt.in), "%q", tt.in)
	}
}

func TestLines_Identity(t *testing.T) {
	for _, p := range pairs {
		t.Run(p.name, func(t *testing.T) {
			for _, s := range []string{p.a, p.b} {
				for _, l := range Lines(s, s) {
					assert.Equal(t, Equal, l.Tag)
				}
			}
		})
	}
	assert.Empty(t, Lines("", ""))
	assert.Equal(t, "", Render(Lines("", "")))
}

func TestLines_Disjoint(t *testing.T) {
	got := Lines("a\nb", "c\nd")
	assert.Equal(t, []Line{
		{Tag: Delete, Content: "a"},
		{Tag: Delete, Content: "b"},
		{Tag: Insert, Content: "c"},
		{Tag: Insert, Content: "d"},
	}, got)
}

func TestLines_EmptySides(t *testing.T) {
	assert.Equal(t, []Line{{Insert, "a"}, {Insert, "b"}}, Lines("", "a\nb"))
	assert.Equal(t, []Line{{Delete, "a"}, {Delete, "b"}}, Lines("a\nb", ""))
}

func TestLines_ReplaceMiddle(t *testing.T) {
	got := Render(Lines("1\n2\n3", "1\nX\n3"))
	assert.Equal(t, " 1\n-2\n+X\n 3", got)
}

func TestLines_TieBreakIsStable(t *testing.T) {
	want := []Line{{Delete, "x"}, {Equal, "y"}, {Insert, "x"}}
	for i := 0; i < 5; i++ {
		assert.Equal(t, want, Lines("x\ny", "y\nx"))
	}
}

func TestLines_DeletesBeforeInserts(t *testing.T) {
	for _, p := range pairs {
		t.Run(p.name, func(t *testing.T) {
			lines := Lines(p.a, p.b)
			sawInsert := false
			for _, l := range lines {
				switch l.Tag {
				case Equal:
					sawInsert = false
				case Insert:
					sawInsert = true
				case Delete:
					assert.False(t, sawInsert, "delete after insert in %q", Render(lines))
				}
			}
		})
	}
}

func TestLines_Minimal(t *testing.T) {
	for _, p := range pairs {
		t.Run(p.name, func(t *testing.T) {
			a, b := SplitLines(p.a), SplitLines(p.b)
			lines := Diff(a, b)

			gotA, gotB := sides(lines)
			assert.Equal(t, a, gotA)
			assert.Equal(t, b, gotB)

			stats := Summarize(lines)
			assert.Equal(t, len(a)+len(b)-2*lcsLen(a, b), stats.Inserted+stats.Deleted)
			assert.Equal(t, lcsLen(a, b), stats.Equal)
		})
	}
}

func TestLines_SymmetricCounts(t *testing.T) {
	for _, p := range pairs {
		t.Run(p.name, func(t *testing.T) {
			ab := Summarize(Lines(p.a, p.b))
			ba := Summarize(Lines(p.b, p.a))
			assert.Equal(t, ab.Inserted, ba.Deleted)
			assert.Equal(t, ab.Deleted, ba.Inserted)
			assert.Equal(t, ab.Equal, ba.Equal)
		})
	}
}

func TestLines_SymmetricScript(t *testing.T) {
	// inputs with a single optimal alignment
	unique := []string{"empty", "empty left", "empty right", "identical", "disjoint", "replace middle", "shift", "json", "long"}
	byName := make(map[string]int)
	for i, p := range pairs {
		byName[p.name] = i
	}

	for _, name := range unique {
		t.Run(name, func(t *testing.T) {
			p := pairs[byName[name]]
			assert.Equal(t, Lines(p.b, p.a), Invert(Lines(p.a, p.b)))
		})
	}
}

func TestLines_VersionChange(t *testing.T) {
	a := "HTTP/1.1 200 OK\nContent-Type: application/json\n\n{\n  \"id\": 1,\n  \"version\": \"v1\"\n}"
	b := "HTTP/1.1 200 OK\nContent-Type: application/json\n\n{\n  \"id\": 1,\n  \"version\": \"v2\"\n}"

	lines := Lines(a, b)
	stats := Summarize(lines)
	assert.Equal(t, 1, stats.Inserted)
	assert.Equal(t, 1, stats.Deleted)
	assert.Equal(t, 6, stats.Equal)
	assert.True(t, stats.Changed())

	for _, l := range lines {
		switch l.Tag {
		case Delete:
			assert.Contains(t, l.Content, `"version": "v1"`)
		case Insert:
			assert.Contains(t, l.Content, `"version": "v2"`)
		}
	}
}

func TestRender(t *testing.T) {
	lines := []Line{{Equal, "a"}, {Delete, "b"}, {Insert, "c"}}
	assert.Equal(t, " a\n-b\n+c", Render(lines))
	assert.Equal(t, "-b", lines[1].String())
	assert.Equal(t, "", Render(nil))
}

func TestLines_LargeInput(t *testing.T) {
	var a, b []string
	for i := 0; i < 2000; i++ {
		line := strings.Repeat("x", i%7) + string(rune('a'+i%26))
		a = append(a, line)
		if i%100 != 0 {
			b = append(b, line)
		}
	}
	lines := Diff(a, b)
	stats := Summarize(lines)
	assert.Equal(t, 20, stats.Deleted)
	assert.Equal(t, 0, stats.Inserted)
}

func TestUnified(t *testing.T) {
	out, err := Unified("req1", "req2", "x\ny\nz\n", "x\nw\nz\n")
	require.NoError(t, err)
	assert.Contains(t, out, "--- req1")
	assert.Contains(t, out, "+++ req2")
	assert.Contains(t, out, "-y")
	assert.Contains(t, out, "+w")

	same, err := Unified("req1", "req2", "x\n", "x\n")
	require.NoError(t, err)
	assert.Empty(t, same)
}

func TestTag_String(t *testing.T) {
	assert.Equal(t, "equal", Equal.String())
	assert.Equal(t, "insert", Insert.String())
	assert.Equal(t, "delete", Delete.String())
	assert.Equal(t, " ", Equal.Prefix())
}
