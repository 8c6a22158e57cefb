/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

// Package typedesc derives a Descriptor for every reflect.Type the codec meets
// and caches it for the lifetime of its Provider.
//
// A struct's base is the exported struct it embeds as its first field:
//
//	type Animal struct{ Name string }
//	type Dog struct {
//		Animal
//		Breed string
//	}
//
// Describe(Dog).Bases is [Animal]. Reflection over types happens here and
// nowhere else in the core.
package typedesc
