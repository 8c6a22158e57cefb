/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package converter

import (
	"bytes"
	"reflect"
	"strings"
	"testing"

	"github.com/suparena/polycodec/conventions"
	"github.com/suparena/polycodec/token"
)

func newTestResolver(reg *conventions.Registry) *Resolver {
	if reg == nil {
		reg = conventions.NewRegistry(conventions.RegistryOptions{})
	}
	res := NewResolver()
	res.Use(Defaults(res, reg, reg.Provider())...)
	return res
}

// encode writes v as JSON using the converter for its static type T.
func encode[T any](t *testing.T, res *Resolver, v T) string {
	t.Helper()
	typ := reflect.TypeOf((*T)(nil)).Elem()
	conv, err := res.ConverterFor(typ)
	if err != nil {
		t.Fatalf("ConverterFor(%v) failed: %v", typ, err)
	}
	var buf bytes.Buffer
	w := token.NewJSONWriter(&buf)
	if err := conv.Write(w, reflect.ValueOf(&v).Elem()); err != nil {
		t.Fatalf("Write(%v) failed: %v", typ, err)
	}
	if err := w.Flush(); err != nil {
		t.Fatalf("Flush failed: %v", err)
	}
	return buf.String()
}

// decode reads input into target using the converter for *target's type.
func decode[T any](res *Resolver, input string, target *T) error {
	typ := reflect.TypeOf((*T)(nil)).Elem()
	conv, err := res.ConverterFor(typ)
	if err != nil {
		return err
	}
	return conv.Read(token.NewJSONReader(strings.NewReader(input)), reflect.ValueOf(target).Elem())
}

// decodeValue reads input into the value target points to.
func decodeValue(res *Resolver, input string, target any) error {
	v := reflect.ValueOf(target).Elem()
	conv, err := res.ConverterFor(v.Type())
	if err != nil {
		return err
	}
	return conv.Read(token.NewJSONReader(strings.NewReader(input)), v)
}
