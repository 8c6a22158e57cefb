/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package conventions

import (
	"bytes"
	"log/slog"
	"reflect"
	"strings"
	"testing"

	"github.com/suparena/polycodec/errors"
	"github.com/suparena/polycodec/token"
)

type Shape interface {
	Area() float64
}

type Circle struct {
	Radius float64
}

func (c Circle) Area() float64 { return 3 * c.Radius * c.Radius }

type Square struct {
	Side float64
}

func (s *Square) Area() float64 { return s.Side * s.Side }

type Triangle struct {
	Base, Height float64
}

func (Triangle) DiscriminatorValue() string { return "tri" }

type RightTriangle struct {
	Triangle
}

type Disc struct {
	Circle
	Hole float64
}

type Impostor struct{}

func (Impostor) DiscriminatorValue() string { return "tri" }

var (
	shapeType    = reflect.TypeOf((*Shape)(nil)).Elem()
	circleType   = reflect.TypeOf(Circle{})
	squareType   = reflect.TypeOf(Square{})
	triangleType = reflect.TypeOf(Triangle{})
)

func TestDefaultConventionClaims(t *testing.T) {
	t.Run("UnregisteredStructIgnored", func(t *testing.T) {
		r := NewRegistry(RegistryOptions{})
		if r.GetConvention(circleType) != nil {
			t.Fatal("Plain unregistered struct should have no convention")
		}
	})

	t.Run("RegisteredStruct", func(t *testing.T) {
		r := NewRegistry(RegistryOptions{})
		if err := r.RegisterTypes(circleType, reflect.TypeOf(&Square{})); err != nil {
			t.Fatalf("RegisterTypes failed: %v", err)
		}
		if r.GetConvention(circleType) != r.Default() {
			t.Fatal("Registered Circle should be owned by the default convention")
		}
		if r.GetConvention(squareType) != r.Default() {
			t.Fatal("Registering *Square should register Square")
		}
		got, err := r.Default().ResolveType("Square")
		if err != nil || got != squareType {
			t.Fatalf("Expected Square, got %v (%v)", got, err)
		}
	})

	t.Run("MarkerAndEmbedder", func(t *testing.T) {
		r := NewRegistry(RegistryOptions{})
		if r.GetConvention(reflect.TypeOf(RightTriangle{})) != r.Default() {
			t.Fatal("A struct embedding a marked base should be claimed")
		}
		if r.GetConvention(triangleType) != r.Default() {
			t.Fatal("Marked base should be bound")
		}
		got, err := r.Default().ResolveType("RightTriangle")
		if err != nil || got != reflect.TypeOf(RightTriangle{}) {
			t.Fatalf("Expected RightTriangle, got %v (%v)", got, err)
		}
	})

	t.Run("InterfaceAfterRegistration", func(t *testing.T) {
		r := NewRegistry(RegistryOptions{})
		_ = r.RegisterType(squareType)
		if r.GetConvention(shapeType) != r.Default() {
			t.Fatal("Shape is implemented by *Square and should be claimed")
		}
	})

	t.Run("InterfaceBeforeRegistration", func(t *testing.T) {
		r := NewRegistry(RegistryOptions{})
		if r.GetConvention(shapeType) != nil {
			t.Fatal("No indexed type implements Shape yet")
		}
		_ = r.RegisterType(circleType)
		if r.GetConvention(shapeType) != nil {
			t.Fatal("The absent binding for Shape is memoized")
		}
	})

	t.Run("Module", func(t *testing.T) {
		r := NewRegistry(RegistryOptions{})
		if err := r.RegisterModule(TypeList{circleType, squareType}); err != nil {
			t.Fatalf("RegisterModule failed: %v", err)
		}
		for _, tag := range []string{"Circle", "Square"} {
			if _, err := r.Default().ResolveType(tag); err != nil {
				t.Fatalf("ResolveType(%q) failed: %v", tag, err)
			}
		}
	})
}

func TestDefaultConventionValues(t *testing.T) {
	t.Run("SetDiscriminator", func(t *testing.T) {
		r := NewRegistry(RegistryOptions{MemberName: "kind"})
		if err := r.Default().SetDiscriminator(circleType, "round"); err != nil {
			t.Fatalf("SetDiscriminator failed: %v", err)
		}
		if r.GetConvention(circleType) != r.Default() {
			t.Fatal("Mapped type should be claimed without registration")
		}
		if err := r.Default().SetDiscriminator(circleType, "other"); !errors.IsConfiguration(err) {
			t.Fatalf("Re-mapping an indexed type should fail, got %v", err)
		}

		var rec token.Recorder
		if err := r.Default().WriteDiscriminator(&rec, reflect.TypeOf(&Circle{})); err != nil {
			t.Fatalf("WriteDiscriminator failed: %v", err)
		}
		expected := []token.Token{
			{Kind: token.Property, Value: "kind"},
			{Kind: token.String, Value: "round"},
		}
		if !reflect.DeepEqual(rec.Tokens, expected) {
			t.Fatalf("Unexpected tokens %v", rec.Tokens)
		}
	})

	t.Run("CollisionFirstWins", func(t *testing.T) {
		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
		r := NewRegistry(RegistryOptions{Logger: logger})

		impostorType := reflect.TypeOf(Impostor{})
		if err := r.RegisterTypes(triangleType, impostorType); !errors.IsConfiguration(err) {
			t.Fatalf("Expected ConfigurationError for the second type, got %v", err)
		}
		got, err := r.Default().ResolveType("tri")
		if err != nil || got != triangleType {
			t.Fatalf("Expected Triangle to keep the tag, got %v (%v)", got, err)
		}
		if !strings.Contains(buf.String(), "discriminator already in use") {
			t.Fatalf("Expected a collision warning, log was: %s", buf.String())
		}
		if r.GetConvention(impostorType) != nil {
			t.Fatal("A type refused its tag must stay unclaimed")
		}

		var rec token.Recorder
		if err := r.Default().WriteDiscriminator(&rec, impostorType); !errors.IsConfiguration(err) {
			t.Fatalf("Writing a taken tag should fail, got %v", err)
		}
		if len(rec.Tokens) != 0 {
			t.Fatalf("Nothing should be written, got %v", rec.Tokens)
		}

		rec = token.Recorder{}
		if err := r.Default().WriteDiscriminator(&rec, triangleType); err != nil {
			t.Fatalf("WriteDiscriminator failed: %v", err)
		}
		value, err := r.Default().ReadDiscriminator(token.NewSliceReader(rec.Tokens[1:]))
		if err != nil {
			t.Fatalf("ReadDiscriminator failed: %v", err)
		}
		if back, err := r.Default().ResolveType(value); err != nil || back != triangleType {
			t.Fatalf("Expected %q to resolve to Triangle, got %v (%v)", value, back, err)
		}
	})

	t.Run("BaseIndexedOnWrite", func(t *testing.T) {
		r := NewRegistry(RegistryOptions{})
		if err := r.RegisterType(reflect.TypeOf(Disc{})); err != nil {
			t.Fatalf("RegisterType failed: %v", err)
		}
		if r.GetConvention(circleType) != r.Default() {
			t.Fatal("Circle should be bound through Disc")
		}
		if _, err := r.Default().ResolveType("Circle"); !errors.IsUnknownDiscriminator(err) {
			t.Fatalf("Circle is not indexed yet, got %v", err)
		}

		var rec token.Recorder
		if err := r.Default().WriteDiscriminator(&rec, reflect.TypeOf(&Circle{})); err != nil {
			t.Fatalf("WriteDiscriminator failed: %v", err)
		}
		if got, err := r.Default().ResolveType("Circle"); err != nil || got != circleType {
			t.Fatalf("Written tag should resolve to Circle, got %v (%v)", got, err)
		}
		if err := r.Default().WriteDiscriminator(&rec, reflect.TypeOf([]int{})); !errors.IsUnsupportedType(err) {
			t.Fatalf("Expected UnsupportedTypeError for a slice, got %v", err)
		}
	})

	t.Run("UnknownValue", func(t *testing.T) {
		r := NewRegistry(RegistryOptions{})
		if _, err := r.Default().ResolveType("Hexagon"); !errors.IsUnknownDiscriminator(err) {
			t.Fatalf("Expected UnknownDiscriminatorError, got %v", err)
		}
	})

	t.Run("ReadDiscriminator", func(t *testing.T) {
		c := NewDefaultConvention("", nil)
		v, err := c.ReadDiscriminator(token.NewSliceReader([]token.Token{{Kind: token.String, Value: "Circle"}}))
		if err != nil || v != "Circle" {
			t.Fatalf("Expected Circle, got %q (%v)", v, err)
		}
		if _, err := c.ReadDiscriminator(token.NewSliceReader([]token.Token{{Kind: token.Number, Value: "1"}})); err == nil {
			t.Fatal("A numeric discriminator should be rejected")
		}
	})
}

func TestTypeMapConvention(t *testing.T) {
	c, err := NewTypeMapConvention("shape", map[string]reflect.Type{
		"c": circleType,
		"s": reflect.TypeOf(&Square{}),
	})
	if err != nil {
		t.Fatalf("NewTypeMapConvention failed: %v", err)
	}

	r := NewRegistry(RegistryOptions{})
	_ = r.RegisterType(circleType)
	if err := r.RegisterConvention(c); err != nil {
		t.Fatalf("RegisterConvention failed: %v", err)
	}

	if r.GetConvention(squareType) != c {
		t.Fatal("Square should be owned by the type map")
	}
	if r.GetConvention(shapeType) != c {
		t.Fatal("Shape should be owned by the newer type map")
	}
	if r.GetConvention(circleType) != r.Default() {
		t.Fatal("Circle was bound before the type map was registered")
	}
	if r.GetConvention(unrelatedType) != nil {
		t.Fatal("Unmapped struct should not be claimed")
	}

	got, err := c.ResolveType("s")
	if err != nil || got != squareType {
		t.Fatalf("Expected Square, got %v (%v)", got, err)
	}
	if _, err := c.ResolveType("x"); !errors.IsUnknownDiscriminator(err) {
		t.Fatalf("Expected UnknownDiscriminatorError, got %v", err)
	}
	if err := c.WriteDiscriminator(&token.Recorder{}, unrelatedType); !errors.IsUnsupportedType(err) {
		t.Fatalf("Expected UnsupportedTypeError, got %v", err)
	}

	_, err = NewTypeMapConvention("", map[string]reflect.Type{"a": circleType, "b": circleType})
	if !errors.IsConfiguration(err) {
		t.Fatalf("Expected ConfigurationError for duplicate mapping, got %v", err)
	}
}
