package pipeline

import (
	"errors"
	"fmt"

	"github.com/alnah/go-docx2html/internal/dom"
)

// Sentinel errors for registration.
var (
	ErrInvalidPass   = errors.New("invalid pass")
	ErrDuplicatePass = errors.New("duplicate pass name")
	ErrUnknownPass   = errors.New("unknown pass")
)

// ApplyFunc rewrites a document in place. A pass that builds a new tree
// installs it with Document.SetRoot.
type ApplyFunc func(doc *dom.Document) error

// Pass is one named rewrite step.
type Pass struct {
	Name  string
	Apply ApplyFunc
}

// Registry is an ordered set of uniquely named passes.
type Registry struct {
	passes []Pass
	index  map[string]int
}

// NewRegistry returns a registry holding passes, in order.
func NewRegistry(passes ...Pass) (*Registry, error) {
	r := &Registry{index: make(map[string]int)}
	for _, p := range passes {
		if err := r.Register(p); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Register appends p. Names must be non-empty and unique.
func (r *Registry) Register(p Pass) error {
	if p.Name == "" || p.Apply == nil {
		return fmt.Errorf("%w: name %q", ErrInvalidPass, p.Name)
	}
	if r.index == nil {
		r.index = make(map[string]int)
	}
	if _, ok := r.index[p.Name]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicatePass, p.Name)
	}
	r.index[p.Name] = len(r.passes)
	r.passes = append(r.passes, p)
	return nil
}

// Len returns the number of passes.
func (r *Registry) Len() int {
	return len(r.passes)
}

// Passes returns a copy of the passes in execution order.
func (r *Registry) Passes() []Pass {
	return append([]Pass(nil), r.passes...)
}

// Names returns the pass names in execution order.
func (r *Registry) Names() []string {
	names := make([]string, len(r.passes))
	for i, p := range r.passes {
		names[i] = p.Name
	}
	return names
}

// Lookup returns the pass called name.
func (r *Registry) Lookup(name string) (Pass, bool) {
	i, ok := r.index[name]
	if !ok {
		return Pass{}, false
	}
	return r.passes[i], true
}

// Select returns a new registry holding only the named passes, in the
// order given. Tests use it to run a pass sequence out of its normal order.
func (r *Registry) Select(names ...string) (*Registry, error) {
	out := &Registry{index: make(map[string]int)}
	for _, n := range names {
		p, ok := r.Lookup(n)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownPass, n)
		}
		if err := out.Register(p); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Until returns a new registry holding the passes up to and including name.
func (r *Registry) Until(name string) (*Registry, error) {
	i, ok := r.index[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPass, name)
	}
	return NewRegistry(r.passes[:i+1]...)
}
