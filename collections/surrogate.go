/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package collections

import (
	"reflect"
	"sync"
)

// Set is the abstract set interface. Decoding into a Set[T] slot builds a
// *HashSet[T].
type Set[T comparable] interface {
	Sequence
	Add(item T) bool
	Contains(item T) bool
	Remove(item T) bool
	Items() []T
}

// Collection is the abstract list interface. Decoding into a Collection[T]
// slot builds a *List[T].
type Collection[T any] interface {
	Sequence
	Add(item T)
	At(i int) T
	Items() []T
	Clear()
}

// Surrogate describes the concrete collection built for an interface slot.
type Surrogate struct {
	Interface reflect.Type
	Concrete  reflect.Type
	Element   reflect.Type
	SetLike   bool
	New       func() Mutable
}

var (
	surrogateMu sync.RWMutex
	surrogates  = make(map[reflect.Type]Surrogate)
)

// RegisterSetSurrogate makes Set[T] and Collection[T] decodable. Generic
// instantiations cannot be created from a reflect.Type at run time, so every
// element type used behind these interfaces has to be registered once.
func RegisterSetSurrogate[T comparable]() {
	registerSurrogate(Surrogate{
		Interface: reflect.TypeOf((*Set[T])(nil)).Elem(),
		Concrete:  reflect.TypeOf((*HashSet[T])(nil)),
		Element:   elementTypeOf[T](),
		SetLike:   true,
		New:       func() Mutable { return NewHashSet[T]() },
	})
	RegisterListSurrogate[T]()
}

// RegisterListSurrogate makes Collection[T] decodable.
func RegisterListSurrogate[T any]() {
	registerSurrogate(Surrogate{
		Interface: reflect.TypeOf((*Collection[T])(nil)).Elem(),
		Concrete:  reflect.TypeOf((*List[T])(nil)),
		Element:   elementTypeOf[T](),
		New:       func() Mutable { return NewList[T]() },
	})
}

// Re-registration keeps the existing entry.
func registerSurrogate(s Surrogate) {
	surrogateMu.Lock()
	defer surrogateMu.Unlock()
	if _, exists := surrogates[s.Interface]; exists {
		return
	}
	surrogates[s.Interface] = s
}

// LookupSurrogate returns the surrogate registered for interface type t.
func LookupSurrogate(t reflect.Type) (Surrogate, bool) {
	surrogateMu.RLock()
	defer surrogateMu.RUnlock()
	s, ok := surrogates[t]
	return s, ok
}

func init() {
	RegisterSetSurrogate[string]()
	RegisterSetSurrogate[bool]()
	RegisterSetSurrogate[int]()
	RegisterSetSurrogate[int8]()
	RegisterSetSurrogate[int16]()
	RegisterSetSurrogate[int32]()
	RegisterSetSurrogate[int64]()
	RegisterSetSurrogate[uint]()
	RegisterSetSurrogate[uint8]()
	RegisterSetSurrogate[uint16]()
	RegisterSetSurrogate[uint32]()
	RegisterSetSurrogate[uint64]()
	RegisterSetSurrogate[float32]()
	RegisterSetSurrogate[float64]()
	RegisterListSurrogate[any]()
}
