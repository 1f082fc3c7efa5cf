package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/hasura/data-generator-sub003/internal/domain"
	"github.com/hasura/data-generator-sub003/internal/generators"
)

type GeneratorRegistry struct {
	mu         sync.RWMutex
	generators map[string]generators.Generator
}

func NewGeneratorRegistry() *GeneratorRegistry {
	return &GeneratorRegistry{
		generators: make(map[string]generators.Generator),
	}
}

func (r *GeneratorRegistry) Register(name string, gen generators.Generator) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.generators[name] = gen
}

func (r *GeneratorRegistry) Get(name string) (generators.Generator, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	gen, ok := r.generators[name]
	if !ok {
		return nil, fmt.Errorf("generator not found: %s", name)
	}
	return gen, nil
}

// List returns the registered generator names in sorted order.
func (r *GeneratorRegistry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.generators))
	for name := range r.generators {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Bind resolves spec.Type and binds its params into a value function.
func (r *GeneratorRegistry) Bind(spec domain.GeneratorSpec) (generators.Func, error) {
	gen, err := r.Get(spec.Type)
	if err != nil {
		return nil, err
	}
	fn, err := gen.Bind(spec)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", spec.Type, err)
	}
	return fn, nil
}

func DefaultGeneratorRegistry() *GeneratorRegistry {
	r := NewGeneratorRegistry()
	r.Register("const", &generators.ConstGenerator{})
	r.Register("uuid4", &generators.UUID4Generator{})
	r.Register("sequence", &generators.SequenceGenerator{})
	r.Register("uniform_int", &generators.UniformIntGenerator{})
	r.Register("uniform_float", &generators.UniformFloatGenerator{})
	r.Register("normal", &generators.NormalGenerator{})
	r.Register("choice", &generators.ChoiceGenerator{})
	r.Register("faker", &generators.FakerGenerator{})
	r.Register("date", &generators.DateGenerator{})
	r.Register("fk", &generators.FKGenerator{})
	r.Register("unique_fk", &generators.UniqueFKGenerator{})
	r.Register("pair", &generators.PairGenerator{})
	r.Register("paired", &generators.PairedGenerator{})
	r.Register("content", &generators.ContentGenerator{})
	r.Register("subnet", &generators.SubnetGenerator{})
	r.Register("port", &generators.PortGenerator{})
	return r
}
