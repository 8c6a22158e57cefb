/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package converter

import (
	"encoding"
	"reflect"
	"sort"
	"strconv"

	"github.com/suparena/polycodec/errors"
	"github.com/suparena/polycodec/token"
)

// DictionaryFactory handles maps keyed by strings, integers or text
// marshalers. Entries are written in key order so encoding is stable.
type DictionaryFactory struct {
	lookup Lookup
}

// NewDictionaryFactory creates the factory. Value converters come from l.
func NewDictionaryFactory(l Lookup) *DictionaryFactory {
	return &DictionaryFactory{lookup: l}
}

func (f *DictionaryFactory) CanConvert(t reflect.Type) bool {
	return t.Kind() == reflect.Map && keyCodecFor(t.Key()) != nil
}

func (f *DictionaryFactory) CreateConverter(t reflect.Type) (Converter, error) {
	if t.Kind() != reflect.Map {
		return nil, errors.NewUnsupportedTypeError(t.String(), "not a map")
	}
	keys := keyCodecFor(t.Key())
	if keys == nil {
		return nil, errors.NewUnsupportedTypeError(t.String(), "map key must be a string, an integer or a text marshaler")
	}
	return &dictionaryConverter{t: t, keys: keys, elem: Lazy(f.lookup, t.Elem())}, nil
}

type keyCodec struct {
	format func(k reflect.Value) (string, error)
	parse  func(t reflect.Type, s string) (reflect.Value, error)
	less   func(a, b reflect.Value) bool
}

func keyCodecFor(t reflect.Type) *keyCodec {
	switch t.Kind() {
	case reflect.String:
		return &keyCodec{
			format: func(k reflect.Value) (string, error) { return k.String(), nil },
			parse: func(t reflect.Type, s string) (reflect.Value, error) {
				return reflect.ValueOf(s).Convert(t), nil
			},
			less: func(a, b reflect.Value) bool { return a.String() < b.String() },
		}
	}
	if isTextual(t) {
		return &keyCodec{
			format: func(k reflect.Value) (string, error) {
				b, err := k.Interface().(encoding.TextMarshaler).MarshalText()
				return string(b), err
			},
			parse: func(t reflect.Type, s string) (reflect.Value, error) {
				p := reflect.New(t)
				err := p.Interface().(encoding.TextUnmarshaler).UnmarshalText([]byte(s))
				return p.Elem(), err
			},
		}
	}
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return &keyCodec{
			format: func(k reflect.Value) (string, error) { return strconv.FormatInt(k.Int(), 10), nil },
			parse: func(t reflect.Type, s string) (reflect.Value, error) {
				n, err := strconv.ParseInt(s, 10, t.Bits())
				v := reflect.New(t).Elem()
				v.SetInt(n)
				return v, err
			},
			less: func(a, b reflect.Value) bool { return a.Int() < b.Int() },
		}
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return &keyCodec{
			format: func(k reflect.Value) (string, error) { return strconv.FormatUint(k.Uint(), 10), nil },
			parse: func(t reflect.Type, s string) (reflect.Value, error) {
				n, err := strconv.ParseUint(s, 10, t.Bits())
				v := reflect.New(t).Elem()
				v.SetUint(n)
				return v, err
			},
			less: func(a, b reflect.Value) bool { return a.Uint() < b.Uint() },
		}
	}
	return nil
}

type dictionaryConverter struct {
	t    reflect.Type
	keys *keyCodec
	elem Converter
}

func (c *dictionaryConverter) Read(r token.Reader, target reflect.Value) error {
	if null, err := readNull(r); err != nil || null {
		if null {
			target.Set(reflect.Zero(c.t))
		}
		return err
	}
	if _, err := token.Expect(r, token.BeginObject); err != nil {
		return errors.NewDecodeError(c.t.String(), "%v", err)
	}

	out := reflect.MakeMap(c.t)
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
		key, err := c.keys.parse(c.t.Key(), tok.Value)
		if err != nil {
			return errors.NewDecodeError(c.t.String(), "invalid key %q: %v", tok.Value, err)
		}
		val := reflect.New(c.t.Elem()).Elem()
		if err := c.elem.Read(r, val); err != nil {
			return err
		}
		out.SetMapIndex(key, val)
	}
	target.Set(out)
	return nil
}

func (c *dictionaryConverter) Write(w token.Writer, v reflect.Value) error {
	if v.IsNil() {
		return w.Null()
	}

	type entry struct {
		key  reflect.Value
		name string
	}
	entries := make([]entry, 0, v.Len())
	iter := v.MapRange()
	for iter.Next() {
		name, err := c.keys.format(iter.Key())
		if err != nil {
			return err
		}
		entries = append(entries, entry{key: iter.Key(), name: name})
	}
	sort.Slice(entries, func(i, j int) bool {
		if c.keys.less != nil {
			return c.keys.less(entries[i].key, entries[j].key)
		}
		return entries[i].name < entries[j].name
	})

	if err := w.BeginObject(); err != nil {
		return err
	}
	for _, e := range entries {
		if err := w.Property(e.name); err != nil {
			return err
		}
		if err := c.elem.Write(w, v.MapIndex(e.key)); err != nil {
			return err
		}
	}
	return w.EndObject()
}
