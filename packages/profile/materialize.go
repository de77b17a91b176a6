package profile

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	hithttp "github.com/abdul-hamid-achik/hitdiff/packages/http"
	"github.com/abdul-hamid-achik/hitdiff/packages/override"
	"github.com/abdul-hamid-achik/hitdiff/packages/value"
	"golang.org/x/net/http/httpguts"
)

const (
	contentTypeJSON      = "application/json"
	contentTypeForm      = "application/x-www-form-urlencoded"
	contentTypeMultipart = "multipart/form-data"
)

// Transport performs exactly one round trip for a materialized request.
type Transport interface {
	Do(ctx context.Context, req *hithttp.Request) (*hithttp.Response, error)
}

// Materialized is a request with all overrides merged and the body encoded.
type Materialized struct {
	Method      string
	URL         string
	Headers     http.Header
	Query       value.Value
	Body        []byte
	ContentType string
}

// Request converts m into a transport request.
func (m *Materialized) Request() *hithttp.Request {
	req := hithttp.NewRequest(m.Method, m.URL)
	req.Headers = m.Headers.Clone()
	req.Body = m.Body
	return req
}

// Materialize merges ovr into a copy of the profile and encodes the result.
// A nil ovr is the same as an empty one. The profile is not modified.
func (p *RequestProfile) Materialize(ovr *override.Set) (*Materialized, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if ovr == nil {
		ovr = &override.Set{}
	}

	headers := p.Headers.Clone()
	if headers == nil {
		headers = make(http.Header)
	}
	body := orEmpty(p.Body)
	query := orEmpty(p.Params)

	for _, h := range ovr.Headers {
		headers.Set(h.Key, h.Value)
	}
	if err := checkHeaders(headers); err != nil {
		return nil, err
	}
	if headers.Get("Content-Type") == "" {
		headers.Set("Content-Type", contentTypeJSON)
	}

	for _, q := range ovr.Query {
		if err := query.Set(q.Key, value.ParseScalar(q.Value)); err != nil {
			return nil, newError(ErrRequestBuild, fmt.Errorf("query: %w", err))
		}
	}
	for _, b := range ovr.Body {
		if err := body.Set(b.Key, value.ParseScalar(b.Value)); err != nil {
			return nil, newError(ErrRequestBuild, fmt.Errorf("body: %w", err))
		}
	}

	contentType := headers.Get("Content-Type")
	payload, err := encodeBody(contentType, body)
	if err != nil {
		return nil, err
	}
	rawQuery, err := encodeQuery(query)
	if err != nil {
		return nil, err
	}

	u := *p.URL
	switch {
	case u.RawQuery == "":
		u.RawQuery = rawQuery
	case rawQuery != "":
		u.RawQuery += "&" + rawQuery
	}

	return &Materialized{
		Method:      p.Method,
		URL:         u.String(),
		Headers:     headers,
		Query:       query,
		Body:        payload,
		ContentType: contentType,
	}, nil
}

// FinalURL returns the URL the profile would be sent to with ovr applied.
func (p *RequestProfile) FinalURL(ovr *override.Set) (string, error) {
	m, err := p.Materialize(ovr)
	if err != nil {
		return "", err
	}
	return m.URL, nil
}

// Send materializes the profile and performs one round trip with t.
// Nothing is sent when materialization fails.
func (p *RequestProfile) Send(ctx context.Context, t Transport, ovr *override.Set) (*hithttp.Response, error) {
	m, err := p.Materialize(ovr)
	if err != nil {
		return nil, err
	}
	resp, err := t.Do(ctx, m.Request())
	if err != nil {
		return nil, newError(ErrTransport, err)
	}
	return resp, nil
}

func checkHeaders(h http.Header) error {
	for name, values := range h {
		if !httpguts.ValidHeaderFieldName(name) {
			return newError(ErrRequestBuild, fmt.Errorf("invalid header name %q", name))
		}
		for _, v := range values {
			if !httpguts.ValidHeaderFieldValue(v) {
				return newError(ErrRequestBuild, fmt.Errorf("invalid value for header %q", name))
			}
		}
	}
	return nil
}

func encodeBody(contentType string, body value.Value) ([]byte, error) {
	switch hithttp.MediaType(contentType) {
	case contentTypeJSON:
		return []byte(body.String()), nil
	case contentTypeForm, contentTypeMultipart:
		form, err := encodeForm(body)
		if err != nil {
			return nil, err
		}
		return []byte(form), nil
	default:
		return []byte(body.String()), nil
	}
}

// encodeForm url-encodes the top-level fields of body. Null fields are
// omitted; arrays and objects cannot be represented.
func encodeForm(body value.Value) (string, error) {
	form := url.Values{}
	for _, key := range body.Keys() {
		field, _ := body.Get(key)
		if field.IsNull() {
			continue
		}
		s, ok := field.Scalar()
		if !ok {
			return "", newError(ErrSerialization, fmt.Errorf("body field %q: %s cannot be form encoded", key, field.Kind()))
		}
		form.Set(key, s)
	}
	return form.Encode(), nil
}

// encodeQuery builds a query string from an object. Nested objects and
// arrays use bracket notation: a[b]=1, a[0]=x.
func encodeQuery(query value.Value) (string, error) {
	if !query.IsObject() {
		return "", newError(ErrRequestBuild, fmt.Errorf("query must be an object but got %s", query.Kind()))
	}
	var parts []string
	for _, key := range query.Keys() {
		field, _ := query.Get(key)
		parts = appendQuery(parts, key, field)
	}
	return strings.Join(parts, "&"), nil
}

func appendQuery(parts []string, key string, v value.Value) []string {
	switch v.Kind() {
	case value.Null:
		return parts
	case value.Object:
		for _, k := range v.Keys() {
			item, _ := v.Get(k)
			parts = appendQuery(parts, key+"["+k+"]", item)
		}
		return parts
	case value.Array:
		for i, item := range v.Items() {
			parts = appendQuery(parts, key+"["+strconv.Itoa(i)+"]", item)
		}
		return parts
	default:
		s, _ := v.Scalar()
		return append(parts, url.QueryEscape(key)+"="+url.QueryEscape(s))
	}
}
