/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package collections

import (
	"cmp"
	"reflect"
	"slices"
)

// List is a growable list. The zero value is ready to use.
type List[T any] struct {
	items []T
}

// NewList creates a list holding items.
func NewList[T any](items ...T) *List[T] {
	return &List[T]{items: slices.Clone(items)}
}

// Add appends item.
func (l *List[T]) Add(item T) {
	l.items = append(l.items, item)
}

// At returns the item at index i.
func (l List[T]) At(i int) T {
	return l.items[i]
}

// Clear removes all items.
func (l *List[T]) Clear() {
	l.items = nil
}

// Items returns a copy of the items in order.
func (l List[T]) Items() []T {
	return slices.Clone(l.items)
}

func (l List[T]) Len() int                    { return len(l.items) }
func (l List[T]) ElementType() reflect.Type   { return elementTypeOf[T]() }
func (l List[T]) Each(fn func(item any) bool) { eachOf(l.items, fn) }

func (l *List[T]) Insert(item any) error {
	v, err := cast[T](item)
	if err != nil {
		return err
	}
	l.Add(v)
	return nil
}

// HashSet is a set of unique items that enumerates in insertion order.
// The zero value is ready to use.
type HashSet[T comparable] struct {
	index map[T]int
	items []T
}

// NewHashSet creates a set holding the unique items.
func NewHashSet[T comparable](items ...T) *HashSet[T] {
	s := &HashSet[T]{}
	for _, item := range items {
		s.Add(item)
	}
	return s
}

// Add inserts item and reports whether it was not already present.
func (s *HashSet[T]) Add(item T) bool {
	if s.index == nil {
		s.index = make(map[T]int)
	}
	if _, ok := s.index[item]; ok {
		return false
	}
	s.index[item] = len(s.items)
	s.items = append(s.items, item)
	return true
}

// Contains reports whether item is in the set.
func (s HashSet[T]) Contains(item T) bool {
	_, ok := s.index[item]
	return ok
}

// Remove deletes item and reports whether it was present.
func (s *HashSet[T]) Remove(item T) bool {
	i, ok := s.index[item]
	if !ok {
		return false
	}
	delete(s.index, item)
	s.items = slices.Delete(s.items, i, i+1)
	for j := i; j < len(s.items); j++ {
		s.index[s.items[j]] = j
	}
	return true
}

// Items returns a copy of the items in insertion order.
func (s HashSet[T]) Items() []T {
	return slices.Clone(s.items)
}

func (s HashSet[T]) Len() int                    { return len(s.items) }
func (s HashSet[T]) ElementType() reflect.Type   { return elementTypeOf[T]() }
func (s HashSet[T]) Each(fn func(item any) bool) { eachOf(s.items, fn) }

func (s *HashSet[T]) Insert(item any) error {
	v, err := cast[T](item)
	if err != nil {
		return err
	}
	s.Add(v)
	return nil
}

// SortedSet is a set of unique items kept in ascending order.
type SortedSet[T cmp.Ordered] struct {
	items []T
}

// NewSortedSet creates a sorted set holding the unique items.
func NewSortedSet[T cmp.Ordered](items ...T) *SortedSet[T] {
	s := &SortedSet[T]{}
	for _, item := range items {
		s.Add(item)
	}
	return s
}

// Add inserts item and reports whether it was not already present.
func (s *SortedSet[T]) Add(item T) bool {
	i, found := slices.BinarySearch(s.items, item)
	if found {
		return false
	}
	s.items = slices.Insert(s.items, i, item)
	return true
}

// Contains reports whether item is in the set.
func (s SortedSet[T]) Contains(item T) bool {
	_, found := slices.BinarySearch(s.items, item)
	return found
}

// Remove deletes item and reports whether it was present.
func (s *SortedSet[T]) Remove(item T) bool {
	i, found := slices.BinarySearch(s.items, item)
	if !found {
		return false
	}
	s.items = slices.Delete(s.items, i, i+1)
	return true
}

// Items returns a copy of the items in ascending order.
func (s SortedSet[T]) Items() []T {
	return slices.Clone(s.items)
}

func (s SortedSet[T]) Len() int                    { return len(s.items) }
func (s SortedSet[T]) ElementType() reflect.Type   { return elementTypeOf[T]() }
func (s SortedSet[T]) Each(fn func(item any) bool) { eachOf(s.items, fn) }

func (s *SortedSet[T]) Insert(item any) error {
	v, err := cast[T](item)
	if err != nil {
		return err
	}
	s.Add(v)
	return nil
}
