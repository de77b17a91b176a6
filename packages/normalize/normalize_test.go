package normalize

import (
	"errors"
	"testing"

	hithttp "github.com/abdul-hamid-achik/hitdiff/packages/http"
	"github.com/abdul-hamid-achik/hitdiff/packages/profile"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func jsonResponse(body string, headers ...hithttp.Header) *hithttp.Response {
	hs := append([]hithttp.Header{{Name: "Content-Type", Value: "application/json; charset=utf-8"}}, headers...)
	return &hithttp.Response{
		Proto:      "HTTP/1.1",
		StatusCode: 200,
		Status:     "200 OK",
		Headers:    hs,
		Body:       []byte(body),
	}
}

func TestNormalize_Layout(t *testing.T) {
	resp := jsonResponse(`{"b":2,"a":{"y":1,"x":[1,2]}}`, hithttp.Header{Name: "X-Request-Id", Value: "abc"})

	text, err := Normalize(resp, nil)
	require.NoError(t, err)

	expected := "HTTP/1.1 200 OK\n" +
		"Content-Type: application/json; charset=utf-8\n" +
		"X-Request-Id: abc\n" +
		"\n" +
		"{\n" +
		"  \"a\": {\n" +
		"    \"x\": [\n" +
		"      1,\n" +
		"      2\n" +
		"    ],\n" +
		"    \"y\": 1\n" +
		"  },\n" +
		"  \"b\": 2\n" +
		"}"
	assert.Equal(t, expected, text)
}

func TestNormalize_SkipBody(t *testing.T) {
	resp := jsonResponse(`{"id":1,"token":"secret","name":"x"}`)
	res := &profile.ResponseProfile{SkipBody: []string{"token", "missing"}}

	body, err := Body(resp, res)
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"id\": 1,\n  \"name\": \"x\"\n}", body)

	text, err := Normalize(resp, res)
	require.NoError(t, err)
	assert.NotContains(t, text, `"token"`)
	assert.NotContains(t, text, "secret")
}

func TestNormalize_SkipHeaders(t *testing.T) {
	resp := jsonResponse(`{}`,
		hithttp.Header{Name: "Date", Value: "Mon, 01 Jan 2024 00:00:00 GMT"},
		hithttp.Header{Name: "X-Request-Id", Value: "r-1"},
	)
	res := &profile.ResponseProfile{SkipHeaders: []string{"date"}}

	text, err := Normalize(resp, res)
	require.NoError(t, err)
	assert.Contains(t, text, "X-Request-Id: r-1\n")
	assert.NotContains(t, text, "Date:")
}

func TestNormalize_RepeatedHeaders(t *testing.T) {
	resp := jsonResponse(`{}`,
		hithttp.Header{Name: "Set-Cookie", Value: "a=1"},
		hithttp.Header{Name: "Set-Cookie", Value: "b=2"},
	)

	text, err := Normalize(resp, nil)
	require.NoError(t, err)
	assert.Contains(t, text, "Set-Cookie: a=1\nSet-Cookie: b=2\n")
}

func TestNormalize_NonObjectJSON(t *testing.T) {
	for _, body := range []string{`[1,2,3]`, `"text"`, `42`, `null`} {
		t.Run(body, func(t *testing.T) {
			got, err := Body(jsonResponse(body), &profile.ResponseProfile{SkipBody: []string{"a"}})
			require.NoError(t, err)
			assert.Empty(t, got)
		})
	}
}

func TestNormalize_EmptyJSONBody(t *testing.T) {
	got, err := Body(jsonResponse(""), nil)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestNormalize_InvalidJSON(t *testing.T) {
	_, err := Normalize(jsonResponse(`{"a":`), nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, profile.ErrResponseParse))
}

func TestNormalize_PlainText(t *testing.T) {
	resp := &hithttp.Response{
		Proto:      "HTTP/2.0",
		StatusCode: 404,
		Status:     "404 Not Found",
		Headers:    []hithttp.Header{{Name: "Content-Type", Value: "text/plain"}},
		Body:       []byte(`{"token":"kept as is"}`),
	}
	res := &profile.ResponseProfile{SkipBody: []string{"token"}}

	text, err := Normalize(resp, res)
	require.NoError(t, err)
	assert.Equal(t, "HTTP/2.0 404 Not Found\nContent-Type: text/plain\n\n{\"token\":\"kept as is\"}", text)
}

func TestNormalize_Deterministic(t *testing.T) {
	resp := jsonResponse(`{"z":1,"a":2,"m":{"k":true}}`)
	res := &profile.ResponseProfile{SkipBody: []string{"a"}}

	first, err := Normalize(resp, res)
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		again, err := Normalize(resp, res)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestNormalize_StatusLineFallback(t *testing.T) {
	resp := &hithttp.Response{StatusCode: 201}
	text, err := Normalize(resp, nil)
	require.NoError(t, err)
	assert.Equal(t, "HTTP/1.1 201 Created\n\n", text)
}
