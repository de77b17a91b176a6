package http

import (
	"mime"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Header is a single response header line.
type Header struct {
	Name  string
	Value string
}

type Response struct {
	Proto      string
	StatusCode int
	Status     string
	Headers    []Header
	Body       []byte
	Duration   time.Duration
}

// headerList flattens h into lines ordered by canonical name. Values of a
// repeated header keep the order they were received in.
func headerList(h http.Header) []Header {
	names := make([]string, 0, len(h))
	for name := range h {
		names = append(names, name)
	}
	sort.Strings(names)

	var list []Header
	for _, name := range names {
		for _, v := range h[name] {
			list = append(list, Header{Name: name, Value: v})
		}
	}
	return list
}

func (r *Response) BodyString() string {
	return string(r.Body)
}

func (r *Response) Header(key string) string {
	for _, h := range r.Headers {
		if strings.EqualFold(h.Name, key) {
			return h.Value
		}
	}
	return ""
}

// HeaderNames returns the distinct header names in response order.
func (r *Response) HeaderNames() []string {
	var names []string
	seen := make(map[string]bool)
	for _, h := range r.Headers {
		if !seen[h.Name] {
			seen[h.Name] = true
			names = append(names, h.Name)
		}
	}
	return names
}

func (r *Response) ContentType() string {
	return r.Header("Content-Type")
}

// MediaType returns the lower-cased content type without parameters.
func (r *Response) MediaType() string {
	return MediaType(r.ContentType())
}

func (r *Response) IsJSON() bool {
	return r.MediaType() == "application/json"
}

// StatusLine returns the protocol version followed by the status code and reason.
func (r *Response) StatusLine() string {
	status := r.Status
	if status == "" {
		status = strconv.Itoa(r.StatusCode) + " " + http.StatusText(r.StatusCode)
	}
	proto := r.Proto
	if proto == "" {
		proto = "HTTP/1.1"
	}
	return proto + " " + status
}

func (r *Response) IsSuccess() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

func (r *Response) DurationMs() int64 {
	return r.Duration.Milliseconds()
}

// MediaType strips parameters such as charset from a Content-Type value.
func MediaType(contentType string) string {
	if contentType == "" {
		return ""
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		mediaType, _, _ = strings.Cut(contentType, ";")
	}
	return strings.ToLower(strings.TrimSpace(mediaType))
}
