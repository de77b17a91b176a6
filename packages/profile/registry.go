package profile

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// Registry maps profile names to diff profiles. It is loaded once and then
// only read.
type Registry struct {
	profiles map[string]*DiffProfile
}

func NewRegistry() *Registry {
	return &Registry{profiles: make(map[string]*DiffProfile)}
}

// LoadRegistry reads and parses a profiles file.
func LoadRegistry(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, newError(ErrConfig, fmt.Errorf("read %s: %w", path, err))
	}
	return ParseRegistry(data)
}

// ParseRegistry decodes a YAML mapping of profile names to diff profiles.
// The structure is checked against the embedded schema first; params and
// body shapes are left to Validate.
func ParseRegistry(data []byte) (*Registry, error) {
	if err := checkSchema(diffSchema, data); err != nil {
		return nil, err
	}

	var nodes map[string]yaml.Node
	if err := yaml.Unmarshal(data, &nodes); err != nil {
		return nil, newError(ErrConfig, err)
	}

	r := NewRegistry()
	for name, node := range nodes {
		var p DiffProfile
		if err := node.Decode(&p); err != nil {
			return nil, Annotate(wrap(ErrConfig, err), name, "")
		}
		r.profiles[name] = &p
	}
	return r, nil
}

// Get returns the named profile or an ErrProfileNotFound error.
func (r *Registry) Get(name string) (*DiffProfile, error) {
	p, ok := r.profiles[name]
	if !ok {
		return nil, &Error{Kind: ErrProfileNotFound, Profile: name}
	}
	return p, nil
}

// Names returns the profile names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.profiles))
	for name := range r.profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *Registry) Len() int {
	return len(r.profiles)
}

// Add stores p under name, replacing any existing profile.
func (r *Registry) Add(name string, p *DiffProfile) {
	r.profiles[name] = p
}

// Validate checks every profile in name order and returns the first failure.
func (r *Registry) Validate() error {
	for _, name := range r.Names() {
		if err := r.profiles[name].Validate(); err != nil {
			return Annotate(err, name, "")
		}
	}
	return nil
}

// Marshal encodes the registry in the same format ParseRegistry reads.
func (r *Registry) Marshal() ([]byte, error) {
	return yaml.Marshal(r.profiles)
}

// Save writes the registry to path.
func (r *Registry) Save(path string) error {
	data, err := r.Marshal()
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// RequestRegistry maps names to single request profiles.
type RequestRegistry struct {
	profiles map[string]*RequestProfile
}

func NewRequestRegistry() *RequestRegistry {
	return &RequestRegistry{profiles: make(map[string]*RequestProfile)}
}

func LoadRequestRegistry(path string) (*RequestRegistry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, newError(ErrConfig, fmt.Errorf("read %s: %w", path, err))
	}
	return ParseRequestRegistry(data)
}

func ParseRequestRegistry(data []byte) (*RequestRegistry, error) {
	if err := checkSchema(requestSchema, data); err != nil {
		return nil, err
	}

	var nodes map[string]yaml.Node
	if err := yaml.Unmarshal(data, &nodes); err != nil {
		return nil, newError(ErrConfig, err)
	}

	r := NewRequestRegistry()
	for name, node := range nodes {
		var p RequestProfile
		if err := node.Decode(&p); err != nil {
			return nil, Annotate(wrap(ErrConfig, err), name, "")
		}
		r.profiles[name] = &p
	}
	return r, nil
}

func (r *RequestRegistry) Get(name string) (*RequestProfile, error) {
	p, ok := r.profiles[name]
	if !ok {
		return nil, &Error{Kind: ErrProfileNotFound, Profile: name}
	}
	return p, nil
}

func (r *RequestRegistry) Names() []string {
	names := make([]string, 0, len(r.profiles))
	for name := range r.profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *RequestRegistry) Add(name string, p *RequestProfile) {
	r.profiles[name] = p
}

func (r *RequestRegistry) Validate() error {
	for _, name := range r.Names() {
		if err := r.profiles[name].Validate(); err != nil {
			return Annotate(err, name, "")
		}
	}
	return nil
}

func (r *RequestRegistry) Marshal() ([]byte, error) {
	return yaml.Marshal(r.profiles)
}
