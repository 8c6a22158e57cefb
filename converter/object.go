/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package converter

import (
	"reflect"
	"strings"

	"github.com/suparena/polycodec/conventions"
	"github.com/suparena/polycodec/errors"
	"github.com/suparena/polycodec/token"
	"github.com/suparena/polycodec/typedesc"
)

// ObjectFactory handles structs. Field names follow json struct tags and
// embedded structs are flattened.
type ObjectFactory struct {
	lookup   Lookup
	convs    Conventions
	provider *typedesc.Provider
}

// NewObjectFactory creates the factory. convs may be nil, in which case no
// discriminator is ever written.
func NewObjectFactory(l Lookup, convs Conventions, p *typedesc.Provider) *ObjectFactory {
	if p == nil {
		p = typedesc.NewProvider()
	}
	return &ObjectFactory{lookup: l, convs: convs, provider: p}
}

func (f *ObjectFactory) CanConvert(t reflect.Type) bool {
	return t.Kind() == reflect.Struct
}

func (f *ObjectFactory) CreateConverter(t reflect.Type) (Converter, error) {
	if t.Kind() != reflect.Struct {
		return nil, errors.NewUnsupportedTypeError(t.String(), "not a struct")
	}
	d := f.provider.Describe(t)
	c := &objectConverter{
		t:      t,
		convs:  f.convs,
		fields: make([]objectField, len(d.Fields)),
		byName: make(map[string]int, len(d.Fields)),
	}
	for i, fd := range d.Fields {
		c.fields[i] = objectField{Field: fd, conv: Lazy(f.lookup, fd.Type)}
		c.byName[fd.WireName] = i
	}
	return c, nil
}

type objectField struct {
	typedesc.Field
	conv Converter
}

type objectConverter struct {
	t      reflect.Type
	convs  Conventions
	fields []objectField
	byName map[string]int
}

func (c *objectConverter) owner() conventions.Convention {
	if c.convs == nil {
		return nil
	}
	return c.convs.GetConvention(c.t)
}

func (c *objectConverter) field(name string) (*objectField, bool) {
	if i, ok := c.byName[name]; ok {
		return &c.fields[i], true
	}
	for i := range c.fields {
		if strings.EqualFold(c.fields[i].WireName, name) {
			return &c.fields[i], true
		}
	}
	return nil, false
}

func (c *objectConverter) Read(r token.Reader, target reflect.Value) error {
	if null, err := readNull(r); err != nil || null {
		if null {
			target.Set(reflect.Zero(c.t))
		}
		return err
	}
	if _, err := token.Expect(r, token.BeginObject); err != nil {
		return errors.NewDecodeError(c.t.String(), "%v", err)
	}

	member := ""
	if owner := c.owner(); owner != nil {
		member = owner.MemberName()
	}

	out := reflect.New(c.t).Elem()
	for {
		tok, err := r.Next()
		if err != nil {
			return eofAsDecode(err)
		}
		if tok.Kind == token.EndObject {
			break
		}
		if tok.Kind != token.Property {
			return mismatch(c.t, tok)
		}

		f, ok := c.field(tok.Value)
		if !ok || tok.Value == member {
			if err := token.Skip(r); err != nil {
				return err
			}
			continue
		}
		if err := f.conv.Read(r, out.FieldByIndex(f.Index)); err != nil {
			return err
		}
	}
	target.Set(out)
	return nil
}

func (c *objectConverter) Write(w token.Writer, v reflect.Value) error {
	if err := w.BeginObject(); err != nil {
		return err
	}
	if c.convs != nil && c.convs.Policy() == conventions.PolicyAlways {
		if owner := c.owner(); owner != nil {
			if err := owner.WriteDiscriminator(w, c.t); err != nil {
				return err
			}
		}
	}
	for i := range c.fields {
		f := &c.fields[i]
		fv := v.FieldByIndex(f.Index)
		if f.OmitEmpty && isEmpty(fv) {
			continue
		}
		if err := w.Property(f.WireName); err != nil {
			return err
		}
		if err := f.conv.Write(w, fv); err != nil {
			return err
		}
	}
	return w.EndObject()
}

func isEmpty(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Array, reflect.Map, reflect.Slice, reflect.String:
		return v.Len() == 0
	}
	return v.IsZero()
}
