/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

// Package converter turns Go values into token streams and back.
//
// A Resolver asks its factories in order (scalar, dictionary, collection,
// pointer, interface, object) and caches one converter per type. Element and
// field converters are resolved lazily, so recursive types are fine.
//
// The CollectionFactory classifies a type into exactly one Shape:
//
//	[]T, [N]T                      Array(T)
//	collections.ImmutableList[T]   Immutable(ImmutableList, T)
//	collections.List[T]            Concrete(T)
//	collections.Set[T]             Interface(*HashSet[T], Set[T], T)
//	collections.Collection[T]      Interface(*List[T], Collection[T], T)
//
// Interface slots are resolved through the discriminator convention owning
// the slot type.
package converter
