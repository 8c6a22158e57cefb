/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package converter

import (
	"reflect"
	"strconv"

	"github.com/suparena/polycodec/conventions"
	"github.com/suparena/polycodec/errors"
	"github.com/suparena/polycodec/token"
)

// InterfaceFactory handles interface-typed slots. The concrete type is
// chosen by the discriminator convention owning the slot type.
type InterfaceFactory struct {
	lookup Lookup
	convs  Conventions
}

// NewInterfaceFactory creates the factory.
func NewInterfaceFactory(l Lookup, convs Conventions) *InterfaceFactory {
	return &InterfaceFactory{lookup: l, convs: convs}
}

func (f *InterfaceFactory) CanConvert(t reflect.Type) bool {
	return t.Kind() == reflect.Interface
}

func (f *InterfaceFactory) CreateConverter(t reflect.Type) (Converter, error) {
	if t.Kind() != reflect.Interface {
		return nil, errors.NewUnsupportedTypeError(t.String(), "not an interface")
	}
	return &interfaceConverter{t: t, lookup: f.lookup, convs: f.convs}, nil
}

type interfaceConverter struct {
	t      reflect.Type
	lookup Lookup
	convs  Conventions
}

func (c *interfaceConverter) owner() conventions.Convention {
	if c.convs == nil {
		return nil
	}
	return c.convs.GetConvention(c.t)
}

func (c *interfaceConverter) Read(r token.Reader, target reflect.Value) error {
	if null, err := readNull(r); err != nil || null {
		if null {
			target.Set(reflect.Zero(c.t))
		}
		return err
	}

	generic := c.t.NumMethod() == 0
	owner := c.owner()
	if owner == nil && !generic {
		return errors.NewNoConventionError(c.t.String())
	}

	k, err := r.Peek()
	if err != nil {
		return eofAsDecode(err)
	}
	if k != token.BeginObject {
		if generic {
			return c.readGeneric(r, target)
		}
		tok, _ := r.Next()
		return errors.NewDecodeError(c.t.String(), "expected an object carrying a discriminator, got %s", tok)
	}

	toks, err := token.Capture(r)
	if err != nil {
		return err
	}
	replay := token.NewSliceReader(toks)

	at := -1
	if owner != nil {
		at = findMember(toks, owner.MemberName())
	}
	if at < 0 {
		if generic {
			return c.readGeneric(replay, target)
		}
		return errors.NewDecodeError(c.t.String(), "missing discriminator %q", owner.MemberName())
	}

	value, err := owner.ReadDiscriminator(token.NewSliceReader(toks[at+1:]))
	if err != nil {
		return errors.NewDecodeError(c.t.String(), "%v", err)
	}
	resolved, err := owner.ResolveType(value)
	if err != nil {
		return errors.NewUnknownDiscriminatorError(value, c.t.String())
	}
	concrete, ok := assignableForm(resolved, c.t)
	if !ok {
		return errors.NewUnknownDiscriminatorError(value, c.t.String())
	}

	conv, err := c.lookup.ConverterFor(concrete)
	if err != nil {
		return err
	}
	tmp := reflect.New(concrete).Elem()
	if err := conv.Read(replay, tmp); err != nil {
		return err
	}
	target.Set(tmp)
	return nil
}

// assignableForm returns resolved or a pointer to it, whichever fits slot.
func assignableForm(resolved, slot reflect.Type) (reflect.Type, bool) {
	if resolved.AssignableTo(slot) {
		return resolved, true
	}
	if p := reflect.PointerTo(resolved); p.AssignableTo(slot) {
		return p, true
	}
	return nil, false
}

// findMember returns the index of the top-level property named name.
func findMember(toks []token.Token, name string) int {
	depth := 0
	for i, tok := range toks {
		switch tok.Kind {
		case token.BeginObject, token.BeginArray:
			depth++
		case token.EndObject, token.EndArray:
			depth--
		case token.Property:
			if depth == 1 && tok.Value == name {
				return i
			}
		}
	}
	return -1
}

// readGeneric decodes into plain maps, slices and scalars. Nested values go
// back through c so discriminated objects inside them still resolve.
func (c *interfaceConverter) readGeneric(r token.Reader, target reflect.Value) error {
	tok, err := r.Next()
	if err != nil {
		return eofAsDecode(err)
	}

	var out any
	switch tok.Kind {
	case token.Null:
	case token.String:
		out = tok.Value
	case token.Bool:
		out = tok.Bool
	case token.Number:
		f, err := strconv.ParseFloat(tok.Value, 64)
		if err != nil {
			return errors.NewDecodeError(c.t.String(), "invalid number %q", tok.Value)
		}
		out = f
	case token.BeginArray:
		items := []any{}
		for {
			k, err := r.Peek()
			if err != nil {
				return eofAsDecode(err)
			}
			if k == token.EndArray {
				_, _ = r.Next()
				break
			}
			item := reflect.New(c.t).Elem()
			if err := c.Read(r, item); err != nil {
				return err
			}
			items = append(items, item.Interface())
		}
		out = items
	case token.BeginObject:
		m := map[string]any{}
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
			item := reflect.New(c.t).Elem()
			if err := c.Read(r, item); err != nil {
				return err
			}
			m[tok.Value] = item.Interface()
		}
		out = m
	default:
		return mismatch(c.t, tok)
	}

	if out == nil {
		target.Set(reflect.Zero(c.t))
		return nil
	}
	target.Set(reflect.ValueOf(out))
	return nil
}

func (c *interfaceConverter) Write(w token.Writer, v reflect.Value) error {
	if v.IsNil() {
		return w.Null()
	}
	dyn := v.Elem()
	if dyn.Kind() == reflect.Pointer && dyn.IsNil() {
		return w.Null()
	}
	dynType := dyn.Type()

	conv, err := c.lookup.ConverterFor(dynType)
	if err != nil {
		return err
	}

	base := dynType
	if base.Kind() == reflect.Pointer {
		base = base.Elem()
	}
	var owner conventions.Convention
	if c.convs != nil && c.convs.Policy() != conventions.PolicyNever {
		owner = c.convs.GetConvention(base)
	}
	if owner == nil || base.Kind() != reflect.Struct {
		return conv.Write(w, dyn)
	}

	var rec token.Recorder
	if err := conv.Write(&rec, dyn); err != nil {
		return err
	}
	toks := rec.Tokens
	if len(toks) == 0 || toks[0].Kind != token.BeginObject || findMember(toks, owner.MemberName()) >= 0 {
		return replayTo(w, toks)
	}

	if err := w.BeginObject(); err != nil {
		return err
	}
	if err := owner.WriteDiscriminator(w, base); err != nil {
		return err
	}
	return replayTo(w, toks[1:])
}

func replayTo(w token.Writer, toks []token.Token) error {
	for _, tok := range toks {
		if err := token.WriteToken(w, tok); err != nil {
			return err
		}
	}
	return nil
}
