/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package conventions

import (
	"fmt"
	"reflect"

	"github.com/suparena/polycodec/errors"
	"github.com/suparena/polycodec/token"
)

// TypeMapConvention uses a fixed table of discriminator values. It claims
// the mapped types and the interfaces they implement.
type TypeMapConvention struct {
	memberName string
	byTag      map[string]reflect.Type
	byType     map[reflect.Type]string
	types      []reflect.Type
}

// NewTypeMapConvention builds a convention from tag to type. Pointer types
// map their element. Two tags for one type is a configuration error.
func NewTypeMapConvention(memberName string, mapping map[string]reflect.Type) (*TypeMapConvention, error) {
	if memberName == "" {
		memberName = DefaultMemberName
	}
	c := &TypeMapConvention{
		memberName: memberName,
		byTag:      make(map[string]reflect.Type, len(mapping)),
		byType:     make(map[reflect.Type]string, len(mapping)),
	}
	for tag, t := range mapping {
		if t == nil || tag == "" {
			return nil, errors.NewConfigurationError("NewTypeMapConvention", "tag and type are required")
		}
		if t.Kind() == reflect.Pointer {
			t = t.Elem()
		}
		if other, dup := c.byType[t]; dup {
			return nil, errors.NewConfigurationError("NewTypeMapConvention",
				fmt.Sprintf("%s is mapped to both %q and %q", t, other, tag))
		}
		c.byTag[tag] = t
		c.byType[t] = tag
		c.types = append(c.types, t)
	}
	return c, nil
}

func (c *TypeMapConvention) MemberName() string {
	return c.memberName
}

func (c *TypeMapConvention) TryClaim(cand Candidate) bool {
	d := cand.Descriptor
	switch {
	case polymorphicInterface(d):
		return implementedByAny(d.Type, c.types)
	case polymorphicStruct(d):
		_, ok := c.byType[d.Type]
		return ok
	}
	return false
}

func (c *TypeMapConvention) ReadDiscriminator(r token.Reader) (string, error) {
	return readString(r)
}

func (c *TypeMapConvention) ResolveType(value string) (reflect.Type, error) {
	if t, ok := c.byTag[value]; ok {
		return t, nil
	}
	return nil, errors.NewUnknownDiscriminatorError(value, "")
}

func (c *TypeMapConvention) WriteDiscriminator(w token.Writer, t reflect.Type) error {
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	tag, ok := c.byType[t]
	if !ok {
		return errors.NewUnsupportedTypeError(t.String(), "type has no discriminator in this type map")
	}
	return writeMember(w, c.memberName, tag)
}
