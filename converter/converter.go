/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package converter

import (
	"io"
	"reflect"
	"sync"

	"github.com/suparena/polycodec/conventions"
	"github.com/suparena/polycodec/errors"
	"github.com/suparena/polycodec/token"
	"github.com/suparena/polycodec/typecache"
	"github.com/suparena/polycodec/typedesc"
)

// Converter reads and writes values of one type.
//
// Read stores into target, which must be settable. Either the whole value
// is stored or target is left as it was.
type Converter interface {
	Read(r token.Reader, target reflect.Value) error
	Write(w token.Writer, v reflect.Value) error
}

// Factory builds converters for the types it accepts.
type Factory interface {
	CanConvert(t reflect.Type) bool
	CreateConverter(t reflect.Type) (Converter, error)
}

// Lookup returns the converter for a type.
type Lookup interface {
	ConverterFor(t reflect.Type) (Converter, error)
}

// Conventions is the part of the convention registry the converters need.
type Conventions interface {
	GetConvention(t reflect.Type) conventions.Convention
	Policy() conventions.Policy
}

type result struct {
	conv Converter
	err  error
}

// Resolver asks its factories in order and caches the outcome per type,
// failures included.
type Resolver struct {
	mu        sync.RWMutex
	factories []Factory
	cache     typecache.Cache[result]
}

// NewResolver creates a resolver with no factories.
func NewResolver() *Resolver {
	return &Resolver{}
}

// Use appends factories. Configure before the first lookup.
func (r *Resolver) Use(factories ...Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories = append(r.factories, factories...)
}

// Prepend puts factories ahead of the existing ones.
func (r *Resolver) Prepend(factories ...Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories = append(append([]Factory(nil), factories...), r.factories...)
}

func (r *Resolver) snapshot() []Factory {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.factories
}

// CanConvert reports whether any factory accepts t.
func (r *Resolver) CanConvert(t reflect.Type) bool {
	for _, f := range r.snapshot() {
		if f.CanConvert(t) {
			return true
		}
	}
	return false
}

// CreateConverter builds a converter for t without consulting the cache.
func (r *Resolver) CreateConverter(t reflect.Type) (Converter, error) {
	if t == nil {
		return nil, errors.NewUnsupportedTypeError("<nil>", "type is nil")
	}
	for _, f := range r.snapshot() {
		if f.CanConvert(t) {
			return f.CreateConverter(t)
		}
	}
	return nil, errors.NewUnsupportedTypeError(t.String(), "no converter factory accepts it")
}

// ConverterFor returns the cached converter for t, building it once.
func (r *Resolver) ConverterFor(t reflect.Type) (Converter, error) {
	if t == nil {
		return nil, errors.NewUnsupportedTypeError("<nil>", "type is nil")
	}
	res := r.cache.GetOrBuild(t, func(t reflect.Type) result {
		conv, err := r.CreateConverter(t)
		return result{conv: conv, err: err}
	})
	return res.conv, res.err
}

// Len returns the number of cached types.
func (r *Resolver) Len() int {
	return r.cache.Len()
}

// Defaults returns the built-in factories in lookup order.
func Defaults(l Lookup, convs Conventions, p *typedesc.Provider) []Factory {
	return []Factory{
		NewScalarFactory(),
		NewDictionaryFactory(l),
		NewCollectionFactory(l, p),
		NewPointerFactory(l),
		NewInterfaceFactory(l, convs),
		NewObjectFactory(l, convs, p),
	}
}

type lazy struct {
	l    Lookup
	t    reflect.Type
	once sync.Once
	conv Converter
	err  error
}

// Lazy defers resolving t until first use, which lets recursive types build.
func Lazy(l Lookup, t reflect.Type) Converter {
	return &lazy{l: l, t: t}
}

func (z *lazy) get() (Converter, error) {
	z.once.Do(func() {
		z.conv, z.err = z.l.ConverterFor(z.t)
	})
	return z.conv, z.err
}

func (z *lazy) Read(r token.Reader, target reflect.Value) error {
	conv, err := z.get()
	if err != nil {
		return err
	}
	return conv.Read(r, target)
}

func (z *lazy) Write(w token.Writer, v reflect.Value) error {
	conv, err := z.get()
	if err != nil {
		return err
	}
	return conv.Write(w, v)
}

// readNull consumes a null token when one is next.
func readNull(r token.Reader) (bool, error) {
	k, err := r.Peek()
	if err != nil {
		return false, eofAsDecode(err)
	}
	if k != token.Null {
		return false, nil
	}
	_, err = r.Next()
	return true, err
}

func eofAsDecode(err error) error {
	if err == io.EOF {
		return errors.NewDecodeError("", "unexpected end of input")
	}
	return err
}

func mismatch(t reflect.Type, tok token.Token) error {
	return errors.NewDecodeError(t.String(), "unexpected %s", tok)
}
