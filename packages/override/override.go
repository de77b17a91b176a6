// Package override models the ad hoc key/value pairs a caller layers on top
// of a request profile for a single invocation.
//
// Tokens use a leading sigil to pick their category:
//
//	name=value     query parameter
//	%name=value    header
//	@name=value    body field
package override

import (
	"errors"
	"fmt"
	"strings"
)

const (
	HeaderSigil = '%'
	BodySigil   = '@'
)

// ErrInvalidToken is returned for tokens that cannot be classified.
var ErrInvalidToken = errors.New("invalid override")

// Category selects which part of the request an override applies to.
type Category int

const (
	Query Category = iota
	Header
	Body
)

func (c Category) String() string {
	switch c {
	case Query:
		return "query"
	case Header:
		return "header"
	case Body:
		return "body"
	default:
		return "unknown"
	}
}

type Pair struct {
	Key   string
	Value string
}

// Set holds overrides per category, in application order. Later pairs
// overwrite earlier ones with the same key.
type Set struct {
	Headers []Pair
	Query   []Pair
	Body    []Pair
}

func (s *Set) Add(c Category, key, value string) {
	p := Pair{Key: key, Value: value}
	switch c {
	case Header:
		s.Headers = append(s.Headers, p)
	case Body:
		s.Body = append(s.Body, p)
	default:
		s.Query = append(s.Query, p)
	}
}

func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Headers) + len(s.Query) + len(s.Body)
}

func (s *Set) IsEmpty() bool {
	return s.Len() == 0
}

// Classify splits a key=value token and resolves its category from the
// key's sigil. Tokens without '=' or with an empty key are rejected.
func Classify(token string) (Category, Pair, error) {
	key, value, found := strings.Cut(token, "=")
	if !found {
		return Query, Pair{}, fmt.Errorf("%w %q: expected key=value", ErrInvalidToken, token)
	}

	category := Query
	if key != "" {
		switch key[0] {
		case HeaderSigil:
			category = Header
			key = key[1:]
		case BodySigil:
			category = Body
			key = key[1:]
		}
	}

	if strings.TrimSpace(key) == "" {
		return category, Pair{}, fmt.Errorf("%w %q: empty %s key", ErrInvalidToken, token, category)
	}

	return category, Pair{Key: key, Value: value}, nil
}

// Parse classifies every token into a new Set.
func Parse(tokens []string) (*Set, error) {
	s := &Set{}
	for _, token := range tokens {
		c, p, err := Classify(token)
		if err != nil {
			return nil, err
		}
		s.Add(c, p.Key, p.Value)
	}
	return s, nil
}
