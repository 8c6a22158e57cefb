/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package converter

import (
	"reflect"
	"testing"

	"github.com/suparena/polycodec/conventions"
	"github.com/suparena/polycodec/errors"
)

type figure interface {
	Area() float64
}

type circle struct {
	R float64 `json:"r"`
}

func (c circle) Area() float64 { return 3 * c.R * c.R }

type square struct {
	Side float64 `json:"side"`
}

func (s *square) Area() float64 { return s.Side * s.Side }

type triangle struct {
	B float64 `json:"b"`
	H float64 `json:"h"`
}

func (triangle) DiscriminatorValue() string { return "tri" }

func (t triangle) Area() float64 { return t.B * t.H / 2 }

type label3d struct {
	Text string `json:"text"`
}

type orphan interface {
	Orphaned()
}

type drawing struct {
	Title  string   `json:"title"`
	Shapes []figure `json:"shapes"`
	Extra  any      `json:"extra,omitempty"`
}

func shapesRegistry(t *testing.T, opts conventions.RegistryOptions) *conventions.Registry {
	t.Helper()
	reg := conventions.NewRegistry(opts)
	err := reg.RegisterTypes(
		reflect.TypeOf(circle{}),
		reflect.TypeOf(&square{}),
		reflect.TypeOf(triangle{}),
		reflect.TypeOf(label3d{}),
	)
	if err != nil {
		t.Fatalf("RegisterTypes failed: %v", err)
	}
	return reg
}

func TestInterfaceWrite(t *testing.T) {
	res := newTestResolver(shapesRegistry(t, conventions.RegistryOptions{}))

	tests := []struct {
		name string
		in   figure
		want string
	}{
		{"value receiver", circle{R: 1}, `{"$type":"circle","r":1}`},
		{"pointer receiver", &square{Side: 2}, `{"$type":"square","side":2}`},
		{"marker", triangle{B: 2, H: 3}, `{"$type":"tri","b":2,"h":3}`},
		{"nil", nil, `null`},
		{"nil pointer", (*square)(nil), `null`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := encode(t, res, tt.in); got != tt.want {
				t.Fatalf("Expected %s, got %s", tt.want, got)
			}
		})
	}

	t.Run("StaticTypeHasNoDiscriminator", func(t *testing.T) {
		if got := encode(t, res, circle{R: 1}); got != `{"r":1}` {
			t.Fatalf(`Expected {"r":1}, got %s`, got)
		}
	})
}

func TestInterfaceRead(t *testing.T) {
	res := newTestResolver(shapesRegistry(t, conventions.RegistryOptions{}))

	tests := []struct {
		name  string
		input string
		want  figure
	}{
		{"first position", `{"$type":"circle","r":2}`, circle{R: 2}},
		{"last position", `{"r":2,"$type":"circle"}`, circle{R: 2}},
		{"pointer receiver", `{"side":4,"$type":"square"}`, &square{Side: 4}},
		{"marker", `{"$type":"tri","b":1,"h":1}`, triangle{B: 1, H: 1}},
		{"null", `null`, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got figure = circle{R: 99}
			if err := decode(res, tt.input, &got); err != nil {
				t.Fatalf("decode failed: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("Expected %#v, got %#v", tt.want, got)
			}
		})
	}
}

func TestInterfaceReadErrors(t *testing.T) {
	res := newTestResolver(shapesRegistry(t, conventions.RegistryOptions{}))
	preset := circle{R: 7}

	tests := []struct {
		name  string
		input string
		check func(error) bool
	}{
		{"unknown discriminator", `{"$type":"hexagon","r":1}`, errors.IsUnknownDiscriminator},
		{"does not implement slot", `{"$type":"label3d","text":"x"}`, errors.IsUnknownDiscriminator},
		{"missing discriminator", `{"r":1}`, errors.IsDecodeError},
		{"not an object", `12`, errors.IsDecodeError},
		{"discriminator not a string", `{"$type":5}`, errors.IsDecodeError},
		{"bad payload", `{"$type":"circle","r":"big"}`, errors.IsDecodeError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got figure = preset
			err := decode(res, tt.input, &got)
			if !tt.check(err) {
				t.Fatalf("Unexpected error %v", err)
			}
			if got != preset {
				t.Fatalf("Target should be untouched, got %#v", got)
			}
		})
	}

	t.Run("NoConvention", func(t *testing.T) {
		var o orphan
		if err := decode(res, `{"$type":"circle"}`, &o); !errors.IsNoConvention(err) {
			t.Fatalf("Expected NoConventionError, got %v", err)
		}
	})
}

func TestInterfaceFields(t *testing.T) {
	res := newTestResolver(shapesRegistry(t, conventions.RegistryOptions{}))

	in := `{"title":"t","shapes":[{"$type":"circle","r":1},{"$type":"square","side":2},null]}`
	var d drawing
	if err := decode(res, in, &d); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if len(d.Shapes) != 3 || d.Shapes[0] != (circle{R: 1}) || d.Shapes[2] != nil {
		t.Fatalf("Unexpected shapes %#v", d.Shapes)
	}
	if sq, ok := d.Shapes[1].(*square); !ok || sq.Side != 2 {
		t.Fatalf("Expected *square, got %#v", d.Shapes[1])
	}
	if got := encode(t, res, d); got != in {
		t.Fatalf("Expected %s, got %s", in, got)
	}
}

func TestGenericSlot(t *testing.T) {
	t.Run("PlainValues", func(t *testing.T) {
		res := newTestResolver(nil)
		var v any
		if err := decode(res, `{"a":[1,"x",true,null],"b":{"c":2.5}}`, &v); err != nil {
			t.Fatalf("decode failed: %v", err)
		}
		want := map[string]any{
			"a": []any{1.0, "x", true, nil},
			"b": map[string]any{"c": 2.5},
		}
		if !reflect.DeepEqual(v, want) {
			t.Fatalf("Expected %#v, got %#v", want, v)
		}
		if got := encode(t, res, v); got != `{"a":[1,"x",true,null],"b":{"c":2.5}}` {
			t.Fatalf("Unexpected encoding %s", got)
		}
	})

	t.Run("NestedDiscriminator", func(t *testing.T) {
		res := newTestResolver(shapesRegistry(t, conventions.RegistryOptions{}))
		in := `{"title":"t","shapes":[],"extra":{"items":[{"$type":"circle","r":3}]}}`
		var d drawing
		if err := decode(res, in, &d); err != nil {
			t.Fatalf("decode failed: %v", err)
		}
		extra, ok := d.Extra.(map[string]any)
		if !ok {
			t.Fatalf("Expected map extra, got %#v", d.Extra)
		}
		items := extra["items"].([]any)
		if items[0] != (circle{R: 3}) {
			t.Fatalf("Expected circle, got %#v", items[0])
		}
		if got := encode(t, res, d); got != in {
			t.Fatalf("Expected %s, got %s", in, got)
		}
	})

	t.Run("TopLevelDiscriminator", func(t *testing.T) {
		res := newTestResolver(shapesRegistry(t, conventions.RegistryOptions{}))
		var v any
		if err := decode(res, `{"$type":"tri","b":4,"h":2}`, &v); err != nil {
			t.Fatalf("decode failed: %v", err)
		}
		if v != (triangle{B: 4, H: 2}) {
			t.Fatalf("Expected triangle, got %#v", v)
		}
	})
}

func TestDiscriminatorPolicy(t *testing.T) {
	t.Run("Always", func(t *testing.T) {
		reg := shapesRegistry(t, conventions.RegistryOptions{Policy: conventions.PolicyAlways})
		res := newTestResolver(reg)
		if got := encode(t, res, circle{R: 1}); got != `{"$type":"circle","r":1}` {
			t.Fatalf("Unexpected encoding %s", got)
		}
		if got := encode[figure](t, res, circle{R: 1}); got != `{"$type":"circle","r":1}` {
			t.Fatalf("Discriminator should be written once, got %s", got)
		}
		var c circle
		if err := decode(res, `{"$type":"circle","r":5}`, &c); err != nil || c.R != 5 {
			t.Fatalf("Expected r=5, got %v (%v)", c, err)
		}
	})

	t.Run("Never", func(t *testing.T) {
		reg := shapesRegistry(t, conventions.RegistryOptions{Policy: conventions.PolicyNever})
		res := newTestResolver(reg)
		if got := encode[figure](t, res, circle{R: 1}); got != `{"r":1}` {
			t.Fatalf(`Expected {"r":1}, got %s`, got)
		}
	})

	t.Run("MemberName", func(t *testing.T) {
		reg := shapesRegistry(t, conventions.RegistryOptions{MemberName: "kind"})
		res := newTestResolver(reg)
		if got := encode[figure](t, res, &square{Side: 1}); got != `{"kind":"square","side":1}` {
			t.Fatalf("Unexpected encoding %s", got)
		}
		var f figure
		if err := decode(res, `{"side":3,"kind":"square"}`, &f); err != nil {
			t.Fatalf("decode failed: %v", err)
		}
		if sq, ok := f.(*square); !ok || sq.Side != 3 {
			t.Fatalf("Expected *square, got %#v", f)
		}
	})
}

func TestTypeMapConvention(t *testing.T) {
	tm, err := conventions.NewTypeMapConvention("@t", map[string]reflect.Type{
		"c": reflect.TypeOf(circle{}),
		"s": reflect.TypeOf(square{}),
	})
	if err != nil {
		t.Fatalf("NewTypeMapConvention failed: %v", err)
	}
	reg := conventions.NewRegistry(conventions.RegistryOptions{})
	if err := reg.RegisterConvention(tm); err != nil {
		t.Fatalf("RegisterConvention failed: %v", err)
	}
	res := newTestResolver(reg)

	if got := encode[figure](t, res, circle{R: 2}); got != `{"@t":"c","r":2}` {
		t.Fatalf(`Expected {"@t":"c","r":2}, got %s`, got)
	}
	var f figure
	if err := decode(res, `{"side":1,"@t":"s"}`, &f); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if _, ok := f.(*square); !ok {
		t.Fatalf("Expected *square, got %#v", f)
	}
	if err := decode(res, `{"$type":"circle"}`, &f); !errors.IsDecodeError(err) {
		t.Fatalf("Expected DecodeError for the wrong member, got %v", err)
	}
}
