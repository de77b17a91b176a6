package normalize

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	hithttp "github.com/abdul-hamid-achik/hitdiff/packages/http"
	"github.com/abdul-hamid-achik/hitdiff/packages/profile"
	"github.com/abdul-hamid-achik/hitdiff/packages/value"
)

const indent = "  "

// Normalize renders resp as canonical text with res applied. A nil res
// filters nothing.
func Normalize(resp *hithttp.Response, res *profile.ResponseProfile) (string, error) {
	var b strings.Builder

	b.WriteString(resp.StatusLine())
	b.WriteByte('\n')
	for _, h := range resp.Headers {
		if res.SkipsHeader(h.Name) {
			continue
		}
		fmt.Fprintf(&b, "%s: %s\n", h.Name, h.Value)
	}
	b.WriteByte('\n')

	body, err := Body(resp, res)
	if err != nil {
		return "", err
	}
	b.WriteString(body)
	return b.String(), nil
}

// Body returns the body section of the canonical text. JSON objects lose the
// fields named in res.SkipBody and are pretty printed with sorted keys; any
// other JSON value yields an empty section. Non-JSON bodies are returned
// as is.
func Body(resp *hithttp.Response, res *profile.ResponseProfile) (string, error) {
	if !resp.IsJSON() {
		return string(resp.Body), nil
	}
	if len(bytes.TrimSpace(resp.Body)) == 0 {
		return "", nil
	}

	v, err := value.Parse(resp.Body)
	if err != nil {
		return "", &profile.Error{Kind: profile.ErrResponseParse, Err: err}
	}
	if !v.IsObject() {
		return "", nil
	}

	if res != nil {
		for _, field := range res.SkipBody {
			_ = v.Delete(field)
		}
	}
	return Pretty(v)
}

// Pretty renders v as indented JSON with object keys sorted.
func Pretty(v value.Value) (string, error) {
	compact, err := v.MarshalJSON()
	if err != nil {
		return "", err
	}
	var out bytes.Buffer
	if err := json.Indent(&out, compact, "", indent); err != nil {
		return "", err
	}
	return out.String(), nil
}
