package profile

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"

	hithttp "github.com/abdul-hamid-achik/hitdiff/packages/http"
	"github.com/abdul-hamid-achik/hitdiff/packages/value"
	"golang.org/x/net/http/httpguts"
	"gopkg.in/yaml.v3"
)

// RequestProfile is a template for one HTTP request. It is never mutated
// after it has been built; every send works on a clone.
type RequestProfile struct {
	Method  string
	URL     *url.URL
	Params  *value.Value
	Headers http.Header
	Body    *value.Value
}

type rawRequest struct {
	Method  string            `yaml:"method,omitempty"`
	URL     string            `yaml:"url"`
	Params  *value.Value      `yaml:"params,omitempty"`
	Headers map[string]string `yaml:"headers,omitempty"`
	Body    *value.Value      `yaml:"body,omitempty"`
}

// NewRequestProfile builds a profile from its parts. An empty method means GET.
func NewRequestProfile(method, rawURL string, params, body *value.Value, headers http.Header) (*RequestProfile, error) {
	raw := rawRequest{Method: method, URL: rawURL, Params: params, Body: body}
	p, err := raw.build()
	if err != nil {
		return nil, err
	}
	for name, values := range headers {
		for _, v := range values {
			p.Headers.Add(name, v)
		}
	}
	return p, nil
}

// ParseRequestProfile builds a GET profile from a bare URL. The query string
// moves into params with each value read as a typed scalar; for repeated
// keys the last value wins.
func ParseRequestProfile(rawURL string) (*RequestProfile, error) {
	p, err := rawRequest{URL: rawURL}.build()
	if err != nil {
		return nil, err
	}
	query, err := url.ParseQuery(p.URL.RawQuery)
	if err != nil {
		return nil, newError(ErrConfig, fmt.Errorf("query string: %w", err))
	}
	if len(query) > 0 {
		params := value.EmptyObject()
		for k, vs := range query {
			_ = params.Set(k, value.ParseScalar(vs[len(vs)-1]))
		}
		p.Params = &params
	}
	p.URL.RawQuery = ""
	p.URL.ForceQuery = false
	return p, nil
}

func (r rawRequest) build() (*RequestProfile, error) {
	method := strings.ToUpper(strings.TrimSpace(r.Method))
	if method == "" {
		method = http.MethodGet
	}
	if !httpguts.ValidHeaderFieldName(method) {
		return nil, newError(ErrConfig, fmt.Errorf("invalid method %q", r.Method))
	}

	if err := hithttp.ValidateURL(r.URL); err != nil {
		return nil, newError(ErrConfig, fmt.Errorf("url %q: %w", r.URL, err))
	}
	u, err := url.Parse(r.URL)
	if err != nil {
		return nil, newError(ErrConfig, err)
	}

	p := &RequestProfile{
		Method:  method,
		URL:     u,
		Headers: make(http.Header, len(r.Headers)),
	}
	for name, v := range r.Headers {
		p.Headers.Set(name, v)
	}
	if r.Params != nil {
		params := r.Params.Clone()
		p.Params = &params
	}
	if r.Body != nil {
		body := r.Body.Clone()
		p.Body = &body
	}
	return p, nil
}

func (p *RequestProfile) UnmarshalYAML(node *yaml.Node) error {
	var raw rawRequest
	if err := node.Decode(&raw); err != nil {
		return newError(ErrConfig, err)
	}
	built, err := raw.build()
	if err != nil {
		return err
	}
	*p = *built
	return nil
}

func (p RequestProfile) MarshalYAML() (any, error) {
	raw := rawRequest{Method: p.Method}
	if p.URL != nil {
		raw.URL = p.URL.String()
	}
	if p.Params != nil && !p.Params.IsEmpty() {
		raw.Params = p.Params
	}
	if p.Body != nil && !p.Body.IsEmpty() {
		raw.Body = p.Body
	}
	if len(p.Headers) > 0 {
		raw.Headers = make(map[string]string, len(p.Headers))
		for name, values := range p.Headers {
			raw.Headers[name] = strings.Join(values, ", ")
		}
	}
	return raw, nil
}

// Validate checks that params and body, when present, are objects. Every
// violation is reported.
func (p *RequestProfile) Validate() error {
	var errs []error
	if p.Params != nil && !p.Params.IsObject() {
		errs = append(errs, fmt.Errorf("params must be an object but got %s: %s", p.Params.Kind(), p.Params))
	}
	if p.Body != nil && !p.Body.IsObject() {
		errs = append(errs, fmt.Errorf("body must be an object but got %s: %s", p.Body.Kind(), p.Body))
	}
	if len(errs) == 0 {
		return nil
	}
	return newError(ErrValidation, errors.Join(errs...))
}

// Equal reports whether two profiles describe the same request. A missing
// params or body is equal to an empty one.
func (p *RequestProfile) Equal(o *RequestProfile) bool {
	if p == nil || o == nil {
		return p == o
	}
	if p.Method != o.Method || p.URL.String() != o.URL.String() {
		return false
	}
	if !orEmpty(p.Params).Equal(orEmpty(o.Params)) || !orEmpty(p.Body).Equal(orEmpty(o.Body)) {
		return false
	}
	return headersEqual(p.Headers, o.Headers)
}

func orEmpty(v *value.Value) value.Value {
	if v == nil || v.IsNull() {
		return value.EmptyObject()
	}
	return v.Clone()
}

func headersEqual(a, b http.Header) bool {
	if len(a) != len(b) {
		return false
	}
	for name, av := range a {
		bv := b.Values(name)
		if strings.Join(av, ", ") != strings.Join(bv, ", ") {
			return false
		}
	}
	return true
}

// HeaderNames returns the canonical header names of the profile, sorted.
func (p *RequestProfile) HeaderNames() []string {
	names := make([]string, 0, len(p.Headers))
	for name := range p.Headers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
