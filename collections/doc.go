/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

// Package collections holds the collection types the codec recognises beyond
// Go's built-in arrays and slices.
//
// Mutable collections (List, HashSet, SortedSet) implement Mutable through a
// pointer receiver. Persistent collections (ImmutableArray, ImmutableList,
// ImmutableHashSet, ImmutableSortedSet) implement Immutable and are filled
// through a Builder. The Set and Collection interfaces are decoded through a
// registered surrogate:
//
//	collections.RegisterSetSurrogate[Color]()
//
// Surrogates for the builtin scalar element types are registered at init.
// A surrogate may be registered after its interface was first seen, but a
// configuration that already built a converter for that slot keeps it.
package collections
