// Package normalize turns a response into canonical text: a status line,
// the unfiltered headers, a blank line and the filtered body. The same
// response and policy always produce the same text.
package normalize
