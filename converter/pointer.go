/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package converter

import (
	"reflect"

	"github.com/suparena/polycodec/errors"
	"github.com/suparena/polycodec/token"
)

// PointerFactory maps null to nil and otherwise delegates to the element.
type PointerFactory struct {
	lookup Lookup
}

// NewPointerFactory creates the factory.
func NewPointerFactory(l Lookup) *PointerFactory {
	return &PointerFactory{lookup: l}
}

func (f *PointerFactory) CanConvert(t reflect.Type) bool {
	return t.Kind() == reflect.Pointer
}

func (f *PointerFactory) CreateConverter(t reflect.Type) (Converter, error) {
	if t.Kind() != reflect.Pointer {
		return nil, errors.NewUnsupportedTypeError(t.String(), "not a pointer")
	}
	return &pointerConverter{t: t, elem: Lazy(f.lookup, t.Elem())}, nil
}

type pointerConverter struct {
	t    reflect.Type
	elem Converter
}

func (c *pointerConverter) Read(r token.Reader, target reflect.Value) error {
	if null, err := readNull(r); err != nil || null {
		if null {
			target.Set(reflect.Zero(c.t))
		}
		return err
	}
	p := reflect.New(c.t.Elem())
	if err := c.elem.Read(r, p.Elem()); err != nil {
		return err
	}
	target.Set(p)
	return nil
}

func (c *pointerConverter) Write(w token.Writer, v reflect.Value) error {
	if v.IsNil() {
		return w.Null()
	}
	return c.elem.Write(w, v.Elem())
}
