/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

// Package conventions decides which discriminator convention owns a type.
//
// A Registry keeps an ordered chain of conventions. The most recently
// registered convention is asked first; the first to claim a type owns it
// for the life of the registry, and the same owner is recorded for each of
// the type's bases that has no owner yet. A type nobody claims is remembered
// as such.
//
//	reg := conventions.NewRegistry(conventions.RegistryOptions{Logger: logger})
//	_ = reg.RegisterTypes(reflect.TypeOf(Circle{}), reflect.TypeOf(Square{}))
//	conv := reg.GetConvention(reflect.TypeOf((*Shape)(nil)).Elem())
package conventions
