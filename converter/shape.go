/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package converter

import (
	"fmt"
	"reflect"

	"github.com/suparena/polycodec/collections"
	"github.com/suparena/polycodec/typedesc"
)

// ShapeKind names the collection families.
type ShapeKind int

const (
	ShapeNone ShapeKind = iota
	ShapeArray
	ShapeImmutable
	ShapeConcrete
	ShapeInterface
)

func (k ShapeKind) String() string {
	switch k {
	case ShapeArray:
		return "Array"
	case ShapeImmutable:
		return "Immutable"
	case ShapeConcrete:
		return "Concrete"
	case ShapeInterface:
		return "Interface"
	default:
		return "None"
	}
}

// Shape is the classification of a collection type.
type Shape struct {
	Kind ShapeKind
	Elem reflect.Type

	// Immutable is set for ShapeImmutable.
	Immutable collections.ImmutableKind

	// Interface and Surrogate are set for ShapeInterface.
	Interface reflect.Type
	Surrogate *collections.Surrogate
}

func (s Shape) String() string {
	switch s.Kind {
	case ShapeImmutable:
		return fmt.Sprintf("Immutable(%s, %s)", s.Immutable, s.Elem)
	case ShapeInterface:
		return fmt.Sprintf("Interface(%s, %s, %s)", s.Surrogate.Concrete, s.Interface, s.Elem)
	case ShapeNone:
		return "None"
	default:
		return fmt.Sprintf("%s(%s)", s.Kind, s.Elem)
	}
}

type predicate struct {
	kind  ShapeKind
	match func(d *typedesc.Descriptor) bool
}

// predicates are checked in order and are mutually exclusive.
var predicates = []predicate{
	{ShapeArray, func(d *typedesc.Descriptor) bool {
		return d.Has(typedesc.CapArray)
	}},
	{ShapeImmutable, func(d *typedesc.Descriptor) bool {
		return d.Has(typedesc.CapImmutable) && !d.Has(typedesc.CapArray)
	}},
	{ShapeConcrete, func(d *typedesc.Descriptor) bool {
		return d.Has(typedesc.CapSequence) && !d.Has(typedesc.CapImmutable) && !d.Has(typedesc.CapArray)
	}},
	{ShapeInterface, func(d *typedesc.Descriptor) bool {
		s, ok := d.CollectionSurrogate()
		return ok && s.SetLike
	}},
	{ShapeInterface, func(d *typedesc.Descriptor) bool {
		s, ok := d.CollectionSurrogate()
		return ok && !s.SetLike
	}},
}

// Matches returns how many shape predicates accept d.
func Matches(d *typedesc.Descriptor) int {
	n := 0
	for _, p := range predicates {
		if p.match(d) {
			n++
		}
	}
	return n
}

// Classify returns the shape of d, or false when d is not a collection.
func Classify(d *typedesc.Descriptor) (Shape, bool) {
	for _, p := range predicates {
		if !p.match(d) {
			continue
		}
		s := Shape{Kind: p.kind, Elem: d.Elem()}
		switch p.kind {
		case ShapeImmutable:
			s.Immutable = d.Immutable
		case ShapeInterface:
			s.Interface = d.Type
			s.Surrogate, _ = d.CollectionSurrogate()
			s.Elem = s.Surrogate.Element
		}
		return s, true
	}
	return Shape{}, false
}
