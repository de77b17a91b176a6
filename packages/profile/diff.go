package profile

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

// DiffProfile pairs two requests with the policy used to normalize both
// of their responses.
type DiffProfile struct {
	Req1 *RequestProfile `yaml:"req1"`
	Req2 *RequestProfile `yaml:"req2"`
	Res  ResponseProfile `yaml:"res,omitempty"`
}

func NewDiffProfile(req1, req2 *RequestProfile, res ResponseProfile) *DiffProfile {
	return &DiffProfile{Req1: req1, Req2: req2, Res: res}
}

func (d *DiffProfile) UnmarshalYAML(node *yaml.Node) error {
	var raw struct {
		Req1 yaml.Node       `yaml:"req1"`
		Req2 yaml.Node       `yaml:"req2"`
		Res  ResponseProfile `yaml:"res"`
	}
	if err := node.Decode(&raw); err != nil {
		return newError(ErrConfig, err)
	}

	req1, err := decodeSide(&raw.Req1, Req1)
	if err != nil {
		return err
	}
	req2, err := decodeSide(&raw.Req2, Req2)
	if err != nil {
		return err
	}

	*d = DiffProfile{Req1: req1, Req2: req2, Res: raw.Res}
	return nil
}

func decodeSide(node *yaml.Node, side string) (*RequestProfile, error) {
	if node.Kind == 0 {
		return nil, &Error{Kind: ErrConfig, Side: side, Err: errors.New("missing request")}
	}
	var p RequestProfile
	if err := node.Decode(&p); err != nil {
		return nil, Annotate(wrap(ErrConfig, err), "", side)
	}
	return &p, nil
}

// Validate checks both requests, req1 first, and stops at the first
// invalid side.
func (d *DiffProfile) Validate() error {
	for _, s := range []struct {
		name string
		req  *RequestProfile
	}{{Req1, d.Req1}, {Req2, d.Req2}} {
		if s.req == nil {
			return &Error{Kind: ErrConfig, Side: s.name, Err: fmt.Errorf("missing request")}
		}
		if err := s.req.Validate(); err != nil {
			return Annotate(err, "", s.name)
		}
	}
	return nil
}
