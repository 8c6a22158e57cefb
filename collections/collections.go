/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package collections

import (
	"fmt"
	"reflect"
)

// Sequence is the read side of every collection the codec understands.
// Each must visit items in enumeration order, which is also the encode order.
type Sequence interface {
	ElementType() reflect.Type
	Len() int
	Each(fn func(item any) bool)
}

// Mutable is the sequence capability: a collection that can be filled item by
// item. Implementations use a pointer receiver for Insert.
type Mutable interface {
	Sequence
	Insert(item any) error
}

// ImmutableKind identifies one of the persistent collection families.
type ImmutableKind int

const (
	KindNone ImmutableKind = iota
	KindArray
	KindList
	KindHashSet
	KindSortedSet
)

func (k ImmutableKind) String() string {
	switch k {
	case KindArray:
		return "ImmutableArray"
	case KindList:
		return "ImmutableList"
	case KindHashSet:
		return "ImmutableHashSet"
	case KindSortedSet:
		return "ImmutableSortedSet"
	default:
		return "None"
	}
}

// Immutable is implemented by persistent collections. NewBuilder is usable on
// the zero value, so a decoder can obtain a builder from the type alone.
type Immutable interface {
	Sequence
	ImmutableKind() ImmutableKind
	NewBuilder() Builder
}

// Builder accumulates items and freezes them into an immutable collection.
type Builder interface {
	Insert(item any) error
	Freeze() any
}

// Capability interface types, resolved once.
var (
	SequenceType  = reflect.TypeOf((*Sequence)(nil)).Elem()
	MutableType   = reflect.TypeOf((*Mutable)(nil)).Elem()
	ImmutableType = reflect.TypeOf((*Immutable)(nil)).Elem()
)

func elementTypeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

// cast converts an untyped item to T. A nil item is accepted for element
// types that can hold nil.
func cast[T any](item any) (T, error) {
	if v, ok := item.(T); ok {
		return v, nil
	}
	var zero T
	if item == nil {
		switch elementTypeOf[T]().Kind() {
		case reflect.Interface, reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
			return zero, nil
		}
	}
	return zero, fmt.Errorf("collections: cannot insert %T into a collection of %s", item, elementTypeOf[T]())
}

// sliceBuilder collects items and hands them to freeze.
type sliceBuilder[T any] struct {
	items  []T
	freeze func([]T) any
}

func (b *sliceBuilder[T]) Insert(item any) error {
	v, err := cast[T](item)
	if err != nil {
		return err
	}
	b.items = append(b.items, v)
	return nil
}

func (b *sliceBuilder[T]) Freeze() any {
	items := b.items
	b.items = nil
	return b.freeze(items)
}

func eachOf[T any](items []T, fn func(any) bool) {
	for _, item := range items {
		if !fn(item) {
			return
		}
	}
}
