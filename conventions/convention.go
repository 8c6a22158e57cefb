/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package conventions

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/suparena/polycodec/errors"
	"github.com/suparena/polycodec/token"
	"github.com/suparena/polycodec/typedesc"
)

// DefaultMemberName is the property that carries the discriminator.
const DefaultMemberName = "$type"

// Candidate is what a convention sees when asked to claim a type.
type Candidate struct {
	*typedesc.Descriptor

	// Registered is set when the type was passed to RegisterType.
	Registered bool
}

// Convention is a pluggable strategy that owns the discriminator handling
// for the types it claims.
type Convention interface {
	// MemberName is the property name the discriminator is stored under.
	MemberName() string

	// TryClaim reports whether the convention owns the candidate type. It
	// may run more than once for the same type under concurrent first use.
	TryClaim(c Candidate) bool

	// ReadDiscriminator reads the discriminator value. The reader is
	// positioned just after the member property name.
	ReadDiscriminator(r token.Reader) (string, error)

	// ResolveType maps a discriminator value to a concrete type.
	ResolveType(value string) (reflect.Type, error)

	// WriteDiscriminator writes the member property and the value for t.
	WriteDiscriminator(w token.Writer, t reflect.Type) error
}

// Policy decides when a discriminator is written.
type Policy int

const (
	// PolicyAuto writes the discriminator when the declared type is an
	// interface.
	PolicyAuto Policy = iota
	// PolicyAlways also writes it for claimed structs encoded through their
	// concrete type.
	PolicyAlways
	// PolicyNever never writes it. Reading still honours one if present.
	PolicyNever
)

func (p Policy) String() string {
	switch p {
	case PolicyAuto:
		return "auto"
	case PolicyAlways:
		return "always"
	case PolicyNever:
		return "never"
	default:
		return fmt.Sprintf("Policy(%d)", int(p))
	}
}

// ParsePolicy parses the names produced by Policy.String.
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return PolicyAuto, nil
	case "always":
		return PolicyAlways, nil
	case "never":
		return PolicyNever, nil
	default:
		return PolicyAuto, errors.NewConfigurationError("ParsePolicy", fmt.Sprintf("unknown discriminator policy %q", s))
	}
}

// Module supplies a set of types for bulk registration.
type Module interface {
	Types() []reflect.Type
}

// TypeList is the simplest Module.
type TypeList []reflect.Type

func (l TypeList) Types() []reflect.Type { return l }

// readString reads a string discriminator value.
func readString(r token.Reader) (string, error) {
	tok, err := token.Expect(r, token.String)
	if err != nil {
		return "", fmt.Errorf("discriminator must be a string: %w", err)
	}
	return tok.Value, nil
}

// writeMember emits the member property followed by value.
func writeMember(w token.Writer, member, value string) error {
	if err := w.Property(member); err != nil {
		return err
	}
	return w.String(value)
}

// polymorphicInterface reports whether an interface descriptor can be owned
// by a convention. Collection interfaces are handled by surrogates.
func polymorphicInterface(d *typedesc.Descriptor) bool {
	if !d.Has(typedesc.CapInterface) {
		return false
	}
	_, surrogate := d.CollectionSurrogate()
	return !surrogate
}

// polymorphicStruct reports whether a struct descriptor can carry a
// discriminator.
func polymorphicStruct(d *typedesc.Descriptor) bool {
	return d.Has(typedesc.CapStruct) && !d.Has(typedesc.CapSequence) && !d.Has(typedesc.CapImmutable)
}

func implementedByAny(iface reflect.Type, types []reflect.Type) bool {
	for _, t := range types {
		if typedesc.Implements(t, iface) {
			return true
		}
	}
	return false
}
