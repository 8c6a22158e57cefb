/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package typedesc

import (
	"reflect"
	"testing"

	"github.com/suparena/polycodec/collections"
)

type animal struct{ Name string }

type Animal struct {
	Name string `json:"name"`
}

type Dog struct {
	Animal
	Breed string `json:"breed,omitempty"`
}

type Puppy struct {
	Dog
	Age int `json:"age"`
}

type Tagged struct{}

func (Tagged) DiscriminatorValue() string { return "tagged" }

type TaggedChild struct {
	Tagged
}

type PtrTagged struct{}

func (*PtrTagged) DiscriminatorValue() string { return "ptr-tagged" }

type notFirst struct {
	ID int
	Animal
}

type hidden struct {
	animal
	Skip  string `json:"-"`
	inner int
}

func TestDescribe(t *testing.T) {
	t.Run("BaseChain", func(t *testing.T) {
		d := Describe(reflect.TypeOf(Puppy{}))
		expected := []reflect.Type{reflect.TypeOf(Dog{}), reflect.TypeOf(Animal{})}
		if !reflect.DeepEqual(d.Bases, expected) {
			t.Fatalf("Expected bases %v, got %v", expected, d.Bases)
		}
		if !d.Has(CapStruct) {
			t.Fatal("Expected CapStruct")
		}
	})

	t.Run("BaseMustBeFirstAndExported", func(t *testing.T) {
		if b := Describe(reflect.TypeOf(notFirst{})).Bases; len(b) != 0 {
			t.Fatalf("Embedding after the first field is not a base, got %v", b)
		}
		if b := Describe(reflect.TypeOf(hidden{})).Bases; len(b) != 0 {
			t.Fatalf("Unexported embedding is not a base, got %v", b)
		}
	})

	t.Run("FlattenedFields", func(t *testing.T) {
		d := Describe(reflect.TypeOf(Puppy{}))
		var names []string
		for _, f := range d.Fields {
			names = append(names, f.WireName)
		}
		expected := []string{"age", "breed", "name"}
		if !reflect.DeepEqual(names, expected) {
			t.Fatalf("Expected fields %v, got %v", expected, names)
		}
		if !d.Fields[1].OmitEmpty {
			t.Fatal("breed should be omitempty")
		}
		if !reflect.DeepEqual(d.Fields[2].Index, []int{0, 0, 0}) {
			t.Fatalf("Unexpected index path %v", d.Fields[2].Index)
		}

		h := Describe(reflect.TypeOf(hidden{}))
		if len(h.Fields) != 1 || h.Fields[0].WireName != "Name" {
			t.Fatalf("Expected only promoted Name, got %+v", h.Fields)
		}
	})

	t.Run("Markers", func(t *testing.T) {
		d := Describe(reflect.TypeOf(Tagged{}))
		if !d.HasMarker || d.Marker != "tagged" {
			t.Fatalf("Expected marker tagged, got %q (%v)", d.Marker, d.HasMarker)
		}
		p := Describe(reflect.TypeOf(PtrTagged{}))
		if !p.HasMarker || p.Marker != "ptr-tagged" {
			t.Fatalf("Expected marker ptr-tagged, got %q", p.Marker)
		}
		if Describe(reflect.TypeOf(Dog{})).HasMarker {
			t.Fatal("Dog declares no marker")
		}
		if Describe(reflect.TypeOf(TaggedChild{})).HasMarker {
			t.Fatal("A promoted marker does not belong to the embedder")
		}
	})

	t.Run("Collections", func(t *testing.T) {
		tests := []struct {
			name string
			t    reflect.Type
			caps Capability
			elem reflect.Type
		}{
			{"slice", reflect.TypeOf([]string{}), CapArray, reflect.TypeOf("")},
			{"array", reflect.TypeOf([3]int{}), CapArray | CapFixedLength, reflect.TypeOf(0)},
			{"list", reflect.TypeOf(collections.List[int]{}), CapSequence, reflect.TypeOf(0)},
			{"hashset", reflect.TypeOf(collections.HashSet[string]{}), CapSequence, reflect.TypeOf("")},
			{"immutable", reflect.TypeOf(collections.ImmutableSortedSet[int]{}), CapImmutable | CapSet, reflect.TypeOf(0)},
			{"set interface", reflect.TypeOf((*collections.Set[string])(nil)).Elem(), CapInterface | CapSetInterface, reflect.TypeOf("")},
			{"list interface", reflect.TypeOf((*collections.Collection[int])(nil)).Elem(), CapInterface | CapListInterface, reflect.TypeOf(0)},
			{"map", reflect.TypeOf(map[int]string{}), CapMap, reflect.TypeOf("")},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				d := Describe(tt.t)
				if !d.Has(tt.caps) {
					t.Fatalf("Expected caps %b, got %b", tt.caps, d.Caps)
				}
				if d.Elem() != tt.elem {
					t.Fatalf("Expected element %v, got %v", tt.elem, d.Elem())
				}
			})
		}
	})

	t.Run("Cached", func(t *testing.T) {
		p := NewProvider()
		a := p.Describe(reflect.TypeOf(Dog{}))
		b := p.Describe(reflect.TypeOf(Dog{}))
		if a != b {
			t.Fatal("Describe should return the same descriptor")
		}
	})
}
