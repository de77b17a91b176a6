// Package http provides the HTTP transport used to execute materialized requests.
//
// It wraps the standard library's http package with additional features:
//   - Per-request timeouts bound to the caller's context
//   - Redirect, proxy and TLS verification settings
//   - Optional client-wide rate limiting
//   - Responses with status line, ordered headers and fully read bodies
package http
