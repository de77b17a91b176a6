// Package profile defines request, response and diff profiles and the
// registries they are loaded into.
//
// A RequestProfile is a template for one HTTP request. Materialize merges an
// override.Set into a private copy of the template and serializes the result
// according to its Content-Type. A ResponseProfile is the filtering policy
// applied to both responses of a DiffProfile before they are compared.
//
// Profiles are read from YAML documents shaped as a mapping from profile name
// to profile:
//
//	todo:
//	  req1:
//	    url: https://staging.example.com/todos/1
//	  req2:
//	    url: https://api.example.com/todos/1
//	  res:
//	    skip_headers: [date, x-request-id]
//	    skip_body: [updated_at]
//
// Every error returned by this package is an *Error whose Kind is one of the
// Err* sentinels, so callers can branch with errors.Is.
package profile
