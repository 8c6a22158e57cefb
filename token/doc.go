/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

// Package token defines the structured token stream the converters read and
// write, with a JSON implementation and replay helpers.
//
// A discriminator may appear anywhere inside an object. Converters that need
// it first Capture the object, look for the member, then replay the tokens
// through NewSliceReader.
package token
