/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package conventions

import (
	"fmt"
	"log/slog"
	"reflect"
	"sync"
	"sync/atomic"

	"github.com/suparena/polycodec/errors"
	"github.com/suparena/polycodec/typecache"
	"github.com/suparena/polycodec/typedesc"
)

// binding wraps a possibly nil owner so absence can be cached.
type binding struct {
	owner Convention
}

// RegistryOptions configures NewRegistry. Zero fields take defaults.
type RegistryOptions struct {
	Provider   *typedesc.Provider
	Logger     *slog.Logger
	MemberName string
	Policy     Policy
}

// Registry resolves the convention owning a type. Conventions are consulted
// newest first and the answer is memoized per type, including "none".
type Registry struct {
	provider   *typedesc.Provider
	logger     *slog.Logger
	chain      atomic.Pointer[[]Convention]
	bindings   typecache.Cache[binding]
	registered sync.Map // map[reflect.Type]struct{}
	policy     atomic.Int32
	def        *DefaultConvention
}

// NewRegistry creates a registry whose chain holds the default convention.
func NewRegistry(opts RegistryOptions) *Registry {
	if opts.Provider == nil {
		opts.Provider = typedesc.NewProvider()
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.MemberName == "" {
		opts.MemberName = DefaultMemberName
	}

	r := &Registry{
		provider: opts.Provider,
		logger:   opts.Logger,
	}
	r.policy.Store(int32(opts.Policy))
	r.def = NewDefaultConvention(opts.MemberName, opts.Logger)
	r.chain.Store(&[]Convention{r.def})
	return r
}

// Default returns the built-in convention, even after ClearConventions.
func (r *Registry) Default() *DefaultConvention {
	return r.def
}

// Provider returns the descriptor provider used for claims.
func (r *Registry) Provider() *typedesc.Provider {
	return r.provider
}

// Policy returns the discriminator write policy.
func (r *Registry) Policy() Policy {
	return Policy(r.policy.Load())
}

// SetPolicy changes the discriminator write policy.
func (r *Registry) SetPolicy(p Policy) {
	r.policy.Store(int32(p))
}

// RegisterConvention pushes c onto the chain with the highest priority.
func (r *Registry) RegisterConvention(c Convention) error {
	if c == nil || isNilPointer(c) {
		return errors.NewConfigurationError("RegisterConvention", "convention must not be nil")
	}
	for {
		old := r.chain.Load()
		next := make([]Convention, len(*old), len(*old)+1)
		copy(next, *old)
		next = append(next, c)
		if r.chain.CompareAndSwap(old, &next) {
			r.logger.Debug("discriminator convention registered",
				slog.String("member", c.MemberName()),
				slog.Int("rank", len(next)-1))
			return nil
		}
	}
}

// ClearConventions empties the chain, the default convention included.
// Bindings already resolved are kept.
func (r *Registry) ClearConventions() {
	r.chain.Store(&[]Convention{})
}

// Conventions returns the chain, oldest first.
func (r *Registry) Conventions() []Convention {
	chain := *r.chain.Load()
	out := make([]Convention, len(chain))
	copy(out, chain)
	return out
}

// GetConvention returns the convention owning t, or nil when none claims it.
func (r *Registry) GetConvention(t reflect.Type) Convention {
	if t == nil {
		return nil
	}
	if b, ok := r.bindings.Load(t); ok {
		return b.owner
	}
	return r.resolve(t)
}

func (r *Registry) resolve(t reflect.Type) Convention {
	d := r.provider.Describe(t)
	candidate := Candidate{Descriptor: d, Registered: r.isRegistered(t)}

	var owner Convention
	chain := *r.chain.Load()
	for i := len(chain) - 1; i >= 0; i-- {
		if chain[i].TryClaim(candidate) {
			owner = chain[i]
			break
		}
	}

	b, loaded := r.bindings.LoadOrStore(t, binding{owner: owner})
	if loaded || owner == nil {
		return b.owner
	}

	r.logger.Debug("type claimed by discriminator convention",
		slog.String("type", d.FullName),
		slog.String("member", owner.MemberName()))

	for _, base := range d.Bases {
		if r.bindings.TryAdd(base, binding{owner: owner}) {
			r.logger.Debug("convention propagated to base type",
				slog.String("type", d.FullName),
				slog.String("base", base.String()))
		}
	}
	return owner
}

// RegisterType marks t as explicitly registered and resolves its convention
// now. A pointer type registers its element. A type that already has a
// binding keeps it. A struct left unclaimed because its discriminator is
// taken by another type is a ConfigurationError.
func (r *Registry) RegisterType(t reflect.Type) error {
	if t == nil {
		return errors.NewConfigurationError("RegisterType", "type must not be nil")
	}
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	r.registered.Store(t, struct{}{})
	if r.GetConvention(t) != nil {
		return nil
	}
	if holder, ok := r.def.conflict(t); ok {
		return errors.NewConfigurationError("RegisterType",
			fmt.Sprintf("%s has the same discriminator as %s", t, holder))
	}
	return nil
}

// RegisterTypes registers each type in order.
func (r *Registry) RegisterTypes(types ...reflect.Type) error {
	for _, t := range types {
		if err := r.RegisterType(t); err != nil {
			return err
		}
	}
	return nil
}

// RegisterModule registers every type m supplies.
func (r *Registry) RegisterModule(m Module) error {
	if m == nil {
		return errors.NewConfigurationError("RegisterModule", "module must not be nil")
	}
	return r.RegisterTypes(m.Types()...)
}

func isNilPointer(c Convention) bool {
	v := reflect.ValueOf(c)
	return v.Kind() == reflect.Pointer && v.IsNil()
}

func (r *Registry) isRegistered(t reflect.Type) bool {
	_, ok := r.registered.Load(t)
	return ok
}
