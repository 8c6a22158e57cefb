/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package registry

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/suparena/polycodec/conventions"
	"github.com/suparena/polycodec/errors"
)

// TypeRegistry names the concrete entity types stored behind a polymorphic
// datastore. It is a conventions.Module, so a codec can register every type
// in one call, and it can build a type-map convention from the names.
type TypeRegistry struct {
	mu     sync.RWMutex
	byName map[string]reflect.Type
	order  []string
}

// NewTypeRegistry creates an empty registry.
func NewTypeRegistry() *TypeRegistry {
	return &TypeRegistry{byName: make(map[string]reflect.Type)}
}

// Register adds t under name. Pointer types register their element. A name
// can only be used once.
func (r *TypeRegistry) Register(name string, t reflect.Type) error {
	if name == "" || t == nil {
		return errors.NewConfigurationError("TypeRegistry.Register", "name and type are required")
	}
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, exists := r.byName[name]; exists {
		return errors.NewConfigurationError("TypeRegistry.Register",
			fmt.Sprintf("name %q already registered for %s", name, existing))
	}
	r.byName[name] = t
	r.order = append(r.order, name)
	return nil
}

// RegisterType is Register for a static type.
func RegisterType[T any](r *TypeRegistry, name string) error {
	return r.Register(name, reflect.TypeOf((*T)(nil)).Elem())
}

// Lookup returns the type registered under name.
func (r *TypeRegistry) Lookup(name string) (reflect.Type, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.byName[name]
	return t, ok
}

// Types returns the registered types in registration order.
func (r *TypeRegistry) Types() []reflect.Type {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]reflect.Type, len(r.order))
	for i, name := range r.order {
		out[i] = r.byName[name]
	}
	return out
}

// Convention builds a convention that writes the registered names under
// memberName.
func (r *TypeRegistry) Convention(memberName string) (*conventions.TypeMapConvention, error) {
	r.mu.RLock()
	mapping := make(map[string]reflect.Type, len(r.byName))
	for name, t := range r.byName {
		mapping[name] = t
	}
	r.mu.RUnlock()
	return conventions.NewTypeMapConvention(memberName, mapping)
}
