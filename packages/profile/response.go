package profile

import "strings"

// ResponseProfile lists the header names and top-level body fields removed
// from both responses before they are compared.
type ResponseProfile struct {
	SkipHeaders []string `yaml:"skip_headers,omitempty" json:"skip_headers,omitempty"`
	SkipBody    []string `yaml:"skip_body,omitempty" json:"skip_body,omitempty"`
}

func (r ResponseProfile) IsZero() bool {
	return len(r.SkipHeaders) == 0 && len(r.SkipBody) == 0
}

// SkipsHeader reports whether name is filtered. Names compare case-insensitively.
func (r *ResponseProfile) SkipsHeader(name string) bool {
	if r == nil {
		return false
	}
	for _, h := range r.SkipHeaders {
		if strings.EqualFold(h, name) {
			return true
		}
	}
	return false
}
