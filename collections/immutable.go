/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package collections

import (
	"cmp"
	"reflect"
	"slices"
)

// ImmutableArray is a fixed, read-only list.
type ImmutableArray[T any] struct {
	items []T
}

// NewImmutableArray freezes a copy of items.
func NewImmutableArray[T any](items ...T) ImmutableArray[T] {
	return ImmutableArray[T]{items: slices.Clone(items)}
}

func (a ImmutableArray[T]) At(i int) T                   { return a.items[i] }
func (a ImmutableArray[T]) Items() []T                   { return slices.Clone(a.items) }
func (a ImmutableArray[T]) Len() int                     { return len(a.items) }
func (a ImmutableArray[T]) ElementType() reflect.Type    { return elementTypeOf[T]() }
func (a ImmutableArray[T]) Each(fn func(item any) bool)  { eachOf(a.items, fn) }
func (a ImmutableArray[T]) ImmutableKind() ImmutableKind { return KindArray }

func (a ImmutableArray[T]) NewBuilder() Builder {
	return &sliceBuilder[T]{freeze: func(items []T) any {
		return ImmutableArray[T]{items: items}
	}}
}

// ImmutableList is a persistent list. Every update returns a new list and
// leaves the receiver unchanged.
type ImmutableList[T any] struct {
	items []T
}

// NewImmutableList freezes a copy of items.
func NewImmutableList[T any](items ...T) ImmutableList[T] {
	return ImmutableList[T]{items: slices.Clone(items)}
}

// Add returns a list with item appended.
func (l ImmutableList[T]) Add(item T) ImmutableList[T] {
	items := make([]T, len(l.items), len(l.items)+1)
	copy(items, l.items)
	return ImmutableList[T]{items: append(items, item)}
}

// SetAt returns a list with the item at index i replaced.
func (l ImmutableList[T]) SetAt(i int, item T) ImmutableList[T] {
	items := slices.Clone(l.items)
	items[i] = item
	return ImmutableList[T]{items: items}
}

// RemoveAt returns a list without the item at index i.
func (l ImmutableList[T]) RemoveAt(i int) ImmutableList[T] {
	items := slices.Clone(l.items)
	return ImmutableList[T]{items: slices.Delete(items, i, i+1)}
}

func (l ImmutableList[T]) At(i int) T                   { return l.items[i] }
func (l ImmutableList[T]) Items() []T                   { return slices.Clone(l.items) }
func (l ImmutableList[T]) Len() int                     { return len(l.items) }
func (l ImmutableList[T]) ElementType() reflect.Type    { return elementTypeOf[T]() }
func (l ImmutableList[T]) Each(fn func(item any) bool)  { eachOf(l.items, fn) }
func (l ImmutableList[T]) ImmutableKind() ImmutableKind { return KindList }

func (l ImmutableList[T]) NewBuilder() Builder {
	return &sliceBuilder[T]{freeze: func(items []T) any {
		return ImmutableList[T]{items: items}
	}}
}

// ImmutableHashSet is a persistent set that enumerates in insertion order.
type ImmutableHashSet[T comparable] struct {
	index map[T]struct{}
	items []T
}

// NewImmutableHashSet freezes the unique items.
func NewImmutableHashSet[T comparable](items ...T) ImmutableHashSet[T] {
	s := ImmutableHashSet[T]{index: make(map[T]struct{}, len(items))}
	for _, item := range items {
		if _, ok := s.index[item]; ok {
			continue
		}
		s.index[item] = struct{}{}
		s.items = append(s.items, item)
	}
	return s
}

// Add returns a set that also holds item.
func (s ImmutableHashSet[T]) Add(item T) ImmutableHashSet[T] {
	if s.Contains(item) {
		return s
	}
	items := make([]T, len(s.items), len(s.items)+1)
	copy(items, s.items)
	return NewImmutableHashSet(append(items, item)...)
}

// Contains reports whether item is in the set.
func (s ImmutableHashSet[T]) Contains(item T) bool {
	_, ok := s.index[item]
	return ok
}

func (s ImmutableHashSet[T]) Items() []T                   { return slices.Clone(s.items) }
func (s ImmutableHashSet[T]) Len() int                     { return len(s.items) }
func (s ImmutableHashSet[T]) ElementType() reflect.Type    { return elementTypeOf[T]() }
func (s ImmutableHashSet[T]) Each(fn func(item any) bool)  { eachOf(s.items, fn) }
func (s ImmutableHashSet[T]) ImmutableKind() ImmutableKind { return KindHashSet }

func (s ImmutableHashSet[T]) NewBuilder() Builder {
	return &sliceBuilder[T]{freeze: func(items []T) any {
		return NewImmutableHashSet(items...)
	}}
}

// ImmutableSortedSet is a persistent set kept in ascending order.
type ImmutableSortedSet[T cmp.Ordered] struct {
	items []T
}

// NewImmutableSortedSet freezes the unique items in ascending order.
func NewImmutableSortedSet[T cmp.Ordered](items ...T) ImmutableSortedSet[T] {
	sorted := slices.Clone(items)
	slices.Sort(sorted)
	return ImmutableSortedSet[T]{items: slices.Compact(sorted)}
}

// Add returns a set that also holds item.
func (s ImmutableSortedSet[T]) Add(item T) ImmutableSortedSet[T] {
	i, found := slices.BinarySearch(s.items, item)
	if found {
		return s
	}
	items := slices.Clone(s.items)
	return ImmutableSortedSet[T]{items: slices.Insert(items, i, item)}
}

// Contains reports whether item is in the set.
func (s ImmutableSortedSet[T]) Contains(item T) bool {
	_, found := slices.BinarySearch(s.items, item)
	return found
}

func (s ImmutableSortedSet[T]) Items() []T                   { return slices.Clone(s.items) }
func (s ImmutableSortedSet[T]) Len() int                     { return len(s.items) }
func (s ImmutableSortedSet[T]) ElementType() reflect.Type    { return elementTypeOf[T]() }
func (s ImmutableSortedSet[T]) Each(fn func(item any) bool)  { eachOf(s.items, fn) }
func (s ImmutableSortedSet[T]) ImmutableKind() ImmutableKind { return KindSortedSet }

func (s ImmutableSortedSet[T]) NewBuilder() Builder {
	return &sliceBuilder[T]{freeze: func(items []T) any {
		return NewImmutableSortedSet(items...)
	}}
}
