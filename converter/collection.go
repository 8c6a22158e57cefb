/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package converter

import (
	"reflect"

	"github.com/suparena/polycodec/collections"
	"github.com/suparena/polycodec/errors"
	"github.com/suparena/polycodec/token"
	"github.com/suparena/polycodec/typedesc"
)

// CollectionFactory handles arrays, slices, immutable collections, types
// with the sequence capability, and the Set and Collection interfaces.
type CollectionFactory struct {
	lookup   Lookup
	provider *typedesc.Provider
}

// NewCollectionFactory creates the factory. Element converters come from l.
func NewCollectionFactory(l Lookup, p *typedesc.Provider) *CollectionFactory {
	if p == nil {
		p = typedesc.NewProvider()
	}
	return &CollectionFactory{lookup: l, provider: p}
}

// CanConvert reports whether t has exactly one collection shape.
func (f *CollectionFactory) CanConvert(t reflect.Type) bool {
	return Matches(f.provider.Describe(t)) == 1
}

// Classify returns the collection shape of t.
func (f *CollectionFactory) Classify(t reflect.Type) (Shape, bool) {
	return Classify(f.provider.Describe(t))
}

func (f *CollectionFactory) CreateConverter(t reflect.Type) (Converter, error) {
	shape, ok := f.Classify(t)
	if !ok {
		return nil, errors.NewUnsupportedTypeError(t.String(), "not a recognised collection shape")
	}
	elem := Lazy(f.lookup, shape.Elem)

	switch shape.Kind {
	case ShapeArray:
		return &arrayConverter{t: t, elemType: shape.Elem, elem: elem}, nil
	case ShapeImmutable:
		return &immutableConverter{t: t, elemType: shape.Elem, elem: elem}, nil
	case ShapeConcrete:
		return &concreteConverter{t: t, elemType: shape.Elem, elem: elem}, nil
	case ShapeInterface:
		return &surrogateConverter{t: t, surrogate: shape.Surrogate, elemType: shape.Elem, elem: elem}, nil
	}
	return nil, errors.NewUnsupportedTypeError(t.String(), "unknown collection shape "+shape.Kind.String())
}

// readElements decodes a JSON-style array, passing each element to add.
func readElements(r token.Reader, t, elemType reflect.Type, elem Converter, add func(reflect.Value) error) error {
	tok, err := r.Next()
	if err != nil {
		return eofAsDecode(err)
	}
	if tok.Kind != token.BeginArray {
		return mismatch(t, tok)
	}
	for {
		k, err := r.Peek()
		if err != nil {
			return eofAsDecode(err)
		}
		if k == token.EndArray {
			_, err = r.Next()
			return err
		}
		ev := reflect.New(elemType).Elem()
		if err := elem.Read(r, ev); err != nil {
			return err
		}
		if err := add(ev); err != nil {
			return errors.NewDecodeError(t.String(), "%v", err)
		}
	}
}

// writeSequence encodes seq in enumeration order.
func writeSequence(w token.Writer, seq collections.Sequence, elemType reflect.Type, elem Converter) error {
	if err := w.BeginArray(); err != nil {
		return err
	}
	var werr error
	seq.Each(func(item any) bool {
		ev := reflect.New(elemType).Elem()
		if item != nil {
			ev.Set(reflect.ValueOf(item))
		}
		werr = elem.Write(w, ev)
		return werr == nil
	})
	if werr != nil {
		return werr
	}
	return w.EndArray()
}

type arrayConverter struct {
	t        reflect.Type
	elemType reflect.Type
	elem     Converter
}

func (c *arrayConverter) Read(r token.Reader, target reflect.Value) error {
	if null, err := readNull(r); err != nil || null {
		if null {
			target.Set(reflect.Zero(c.t))
		}
		return err
	}

	items := make([]reflect.Value, 0, 8)
	err := readElements(r, c.t, c.elemType, c.elem, func(ev reflect.Value) error {
		items = append(items, ev)
		return nil
	})
	if err != nil {
		return err
	}

	var out reflect.Value
	if c.t.Kind() == reflect.Array {
		if len(items) != c.t.Len() {
			return errors.NewDecodeError(c.t.String(), "expected %d elements, got %d", c.t.Len(), len(items))
		}
		out = reflect.New(c.t).Elem()
	} else {
		out = reflect.MakeSlice(c.t, len(items), len(items))
	}
	for i, item := range items {
		out.Index(i).Set(item)
	}
	target.Set(out)
	return nil
}

func (c *arrayConverter) Write(w token.Writer, v reflect.Value) error {
	if v.Kind() == reflect.Slice && v.IsNil() {
		return w.Null()
	}
	if err := w.BeginArray(); err != nil {
		return err
	}
	for i := 0; i < v.Len(); i++ {
		if err := c.elem.Write(w, v.Index(i)); err != nil {
			return err
		}
	}
	return w.EndArray()
}

type immutableConverter struct {
	t        reflect.Type
	elemType reflect.Type
	elem     Converter
}

func (c *immutableConverter) Read(r token.Reader, target reflect.Value) error {
	if null, err := readNull(r); err != nil || null {
		if null {
			target.Set(reflect.Zero(c.t))
		}
		return err
	}

	builder := reflect.Zero(c.t).Interface().(collections.Immutable).NewBuilder()
	err := readElements(r, c.t, c.elemType, c.elem, func(ev reflect.Value) error {
		return builder.Insert(ev.Interface())
	})
	if err != nil {
		return err
	}
	target.Set(reflect.ValueOf(builder.Freeze()))
	return nil
}

func (c *immutableConverter) Write(w token.Writer, v reflect.Value) error {
	return writeSequence(w, v.Interface().(collections.Sequence), c.elemType, c.elem)
}

type concreteConverter struct {
	t        reflect.Type
	elemType reflect.Type
	elem     Converter
}

func (c *concreteConverter) Read(r token.Reader, target reflect.Value) error {
	if null, err := readNull(r); err != nil || null {
		if null {
			target.Set(reflect.Zero(c.t))
		}
		return err
	}

	p := reflect.New(c.t)
	m := p.Interface().(collections.Mutable)
	err := readElements(r, c.t, c.elemType, c.elem, func(ev reflect.Value) error {
		return m.Insert(ev.Interface())
	})
	if err != nil {
		return err
	}
	target.Set(p.Elem())
	return nil
}

func (c *concreteConverter) Write(w token.Writer, v reflect.Value) error {
	p := reflect.New(c.t)
	p.Elem().Set(v)
	return writeSequence(w, p.Interface().(collections.Sequence), c.elemType, c.elem)
}

// surrogateConverter decodes an interface slot into its registered concrete
// collection.
type surrogateConverter struct {
	t         reflect.Type
	surrogate *collections.Surrogate
	elemType  reflect.Type
	elem      Converter
}

func (c *surrogateConverter) Read(r token.Reader, target reflect.Value) error {
	if null, err := readNull(r); err != nil || null {
		if null {
			target.Set(reflect.Zero(c.t))
		}
		return err
	}

	m := c.surrogate.New()
	err := readElements(r, c.t, c.elemType, c.elem, func(ev reflect.Value) error {
		return m.Insert(ev.Interface())
	})
	if err != nil {
		return err
	}
	target.Set(reflect.ValueOf(m))
	return nil
}

func (c *surrogateConverter) Write(w token.Writer, v reflect.Value) error {
	if v.IsNil() {
		return w.Null()
	}
	seq, ok := v.Interface().(collections.Sequence)
	if !ok {
		return errors.NewUnsupportedTypeError(v.Elem().Type().String(), "value does not enumerate its items")
	}
	return writeSequence(w, seq, c.elemType, c.elem)
}
