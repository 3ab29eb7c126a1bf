package pass

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pkg/errors"
)

// Factory creates a fresh instance of a pass.
type Factory func() Pass

// UnknownPassError is the error returned when creating a pass that was never
// registered.
type UnknownPassError struct {
	Name  string
	Known []string
}

func (e *UnknownPassError) Error() string {
	return fmt.Sprintf("unknown pass %q (known: %s)", e.Name, strings.Join(e.Known, ", "))
}

type entry struct {
	desc    string
	factory Factory
}

// Registry maps pass names to factories.
type Registry struct {
	entries map[string]entry
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]entry)}
}

// Register adds a pass factory under name.
func (r *Registry) Register(name, desc string, f Factory) error {
	if name == "" {
		return errors.New("pass name is empty")
	}
	if _, exists := r.entries[name]; exists {
		return errors.Errorf("pass %q already registered", name)
	}
	r.entries[name] = entry{desc: desc, factory: f}
	return nil
}

// RegisterFunctionPass registers a FunctionPass factory, wrapped with
// ForEachFunction.
func (r *Registry) RegisterFunctionPass(name, desc string, f func() FunctionPass) error {
	return r.Register(name, desc, func() Pass { return ForEachFunction(f()) })
}

// Create returns a new instance of the pass registered as name.
func (r *Registry) Create(name string) (Pass, error) {
	e, ok := r.entries[name]
	if !ok {
		return nil, errors.WithStack(&UnknownPassError{Name: name, Known: r.Names()})
	}
	return e.factory(), nil
}

// Names returns the registered pass names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.entries))
	for name := range r.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Describe returns the description of pass name.
func (r *Registry) Describe(name string) string {
	return r.entries[name].desc
}

// Pipeline creates the named passes, in order, as a Pipeline.
func (r *Registry) Pipeline(names ...string) (*Pipeline, error) {
	p := NewPipeline()
	for _, name := range names {
		ps, err := r.Create(name)
		if err != nil {
			return nil, err
		}
		p.Add(ps)
	}
	return p, nil
}
