// Package value implements the JSON value used for request params and bodies.
//
// A Value is a tagged variant (null, boolean, number, string, array, object)
// with explicit object operations that fail on non-objects instead of
// silently coercing them. It round-trips through JSON and YAML.
package value
