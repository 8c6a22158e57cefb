/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package polycodec

import (
	"log/slog"
	"reflect"

	"github.com/suparena/polycodec/conventions"
	"github.com/suparena/polycodec/converter"
	"github.com/suparena/polycodec/typedesc"
)

// settings collects what the functional options set before Options is built.
type settings struct {
	logger     *slog.Logger
	memberName string
	policy     conventions.Policy
	factories  []converter.Factory
	types      []reflect.Type
}

// Option is a functional option for New.
type Option func(*settings)

// WithLogger sets the logger used by the registry.
func WithLogger(logger *slog.Logger) Option {
	return func(s *settings) {
		s.logger = logger
	}
}

// WithMemberName sets the property the default convention writes the
// discriminator under.
func WithMemberName(name string) Option {
	return func(s *settings) {
		s.memberName = name
	}
}

// WithPolicy sets when discriminators are written.
func WithPolicy(p conventions.Policy) Option {
	return func(s *settings) {
		s.policy = p
	}
}

// WithFactory puts factories ahead of the built-in ones.
func WithFactory(factories ...converter.Factory) Option {
	return func(s *settings) {
		s.factories = append(s.factories, factories...)
	}
}

// WithTypes registers types with the default convention as soon as the
// configuration is built.
func WithTypes(types ...reflect.Type) Option {
	return func(s *settings) {
		s.types = append(s.types, types...)
	}
}

// Options is one serializer configuration. It owns the convention registry,
// the converter factories and the converter cache they share. An Options is
// safe for concurrent use once configured.
type Options struct {
	logger     *slog.Logger
	provider   *typedesc.Provider
	registry   *conventions.Registry
	resolver   *converter.Resolver
	collection *converter.CollectionFactory
}

// New builds a configuration. The default convention is registered first.
func New(opts ...Option) (*Options, error) {
	s := settings{logger: slog.Default()}
	for _, opt := range opts {
		opt(&s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}

	provider := typedesc.NewProvider()
	reg := conventions.NewRegistry(conventions.RegistryOptions{
		Provider:   provider,
		Logger:     s.logger,
		MemberName: s.memberName,
		Policy:     s.policy,
	})

	o := &Options{
		logger:   s.logger,
		provider: provider,
		registry: reg,
		resolver: converter.NewResolver(),
	}
	o.collection = converter.NewCollectionFactory(o.resolver, provider)
	o.resolver.Use(s.factories...)
	o.resolver.Use(
		converter.NewScalarFactory(),
		converter.NewDictionaryFactory(o.resolver),
		o.collection,
		converter.NewPointerFactory(o.resolver),
		converter.NewInterfaceFactory(o.resolver, reg),
		converter.NewObjectFactory(o.resolver, reg, provider),
	)

	if err := reg.RegisterTypes(s.types...); err != nil {
		return nil, err
	}
	return o, nil
}

// MustNew is New for package-level configurations. It panics on error.
func MustNew(opts ...Option) *Options {
	o, err := New(opts...)
	if err != nil {
		panic(err)
	}
	return o
}

// Logger returns the configuration's logger.
func (o *Options) Logger() *slog.Logger {
	return o.logger
}

// Registry exposes the convention registry.
func (o *Options) Registry() *conventions.Registry {
	return o.registry
}

// Provider returns the descriptor provider shared by the registry and the
// factories.
func (o *Options) Provider() *typedesc.Provider {
	return o.provider
}

// RegisterConvention gives c priority over every convention registered
// before it.
func (o *Options) RegisterConvention(c conventions.Convention) error {
	return o.registry.RegisterConvention(c)
}

// ClearConventions removes every convention, the default one included.
func (o *Options) ClearConventions() {
	o.registry.ClearConventions()
}

// GetConvention returns the convention owning t, or nil when t is not
// polymorphic.
func (o *Options) GetConvention(t reflect.Type) conventions.Convention {
	return o.registry.GetConvention(t)
}

// RegisterType resolves t's convention now.
func (o *Options) RegisterType(t reflect.Type) error {
	return o.registry.RegisterType(t)
}

// RegisterTypes resolves each type in order.
func (o *Options) RegisterTypes(types ...reflect.Type) error {
	return o.registry.RegisterTypes(types...)
}

// RegisterModule resolves every type m supplies.
func (o *Options) RegisterModule(m conventions.Module) error {
	return o.registry.RegisterModule(m)
}

// SetDiscriminator assigns the default convention's value for t and
// registers t.
func (o *Options) SetDiscriminator(t reflect.Type, value string) error {
	if err := o.registry.Default().SetDiscriminator(t, value); err != nil {
		return err
	}
	return o.registry.RegisterType(t)
}

// Policy returns the discriminator write policy.
func (o *Options) Policy() conventions.Policy {
	return o.registry.Policy()
}

// CanConvert reports whether the collection factory handles t.
func (o *Options) CanConvert(t reflect.Type) bool {
	return o.collection.CanConvert(t)
}

// CreateConverter builds a collection converter for t.
func (o *Options) CreateConverter(t reflect.Type) (converter.Converter, error) {
	return o.collection.CreateConverter(t)
}

// ConverterFor returns the cached converter for any type, asking every
// factory at most once per type.
func (o *Options) ConverterFor(t reflect.Type) (converter.Converter, error) {
	return o.resolver.ConverterFor(t)
}
