/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package conventions

import (
	"fmt"
	"log/slog"
	"reflect"
	"sync"

	"github.com/suparena/polycodec/errors"
	"github.com/suparena/polycodec/token"
	"github.com/suparena/polycodec/typedesc"
)

var markerType = reflect.TypeOf((*typedesc.Discriminator)(nil)).Elem()

// DefaultConvention is always present at the bottom of a new registry.
//
// It claims structs that were registered, declare a marker, were given a
// value with SetDiscriminator, or embed a type it already indexed. It claims
// interfaces implemented by an indexed type or a pointer to one. The value
// written is the marker, else the mapped value, else the type name.
type DefaultConvention struct {
	memberName string
	logger     *slog.Logger

	mu     sync.RWMutex
	byTag  map[string]reflect.Type
	byType map[reflect.Type]string
	mapped map[reflect.Type]string
}

// NewDefaultConvention creates the convention with the given member name.
func NewDefaultConvention(memberName string, logger *slog.Logger) *DefaultConvention {
	if memberName == "" {
		memberName = DefaultMemberName
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &DefaultConvention{
		memberName: memberName,
		logger:     logger,
		byTag:      make(map[string]reflect.Type),
		byType:     make(map[reflect.Type]string),
		mapped:     make(map[reflect.Type]string),
	}
}

func (c *DefaultConvention) MemberName() string {
	return c.memberName
}

// SetDiscriminator assigns value to t. It only affects types not yet
// indexed.
func (c *DefaultConvention) SetDiscriminator(t reflect.Type, value string) error {
	if t == nil || value == "" {
		return errors.NewConfigurationError("SetDiscriminator", "type and value are required")
	}
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if tag, ok := c.byType[t]; ok && tag != value {
		return errors.NewConfigurationError("SetDiscriminator",
			fmt.Sprintf("%s is already indexed as %q", t, tag))
	}
	c.mapped[t] = value
	return nil
}

func (c *DefaultConvention) TryClaim(cand Candidate) bool {
	d := cand.Descriptor
	switch {
	case polymorphicInterface(d):
		c.mu.RLock()
		defer c.mu.RUnlock()
		for t := range c.byType {
			if typedesc.Implements(t, d.Type) {
				return true
			}
		}
		return false

	case polymorphicStruct(d):
		if !cand.Registered && !d.HasMarker && !c.isMapped(d.Type) && !c.hasClaimableBase(d) {
			return false
		}
		_, holder := c.index(d)
		return holder == d.Type
	}
	return false
}

func (c *DefaultConvention) isMapped(t reflect.Type) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.mapped[t]
	return ok
}

func (c *DefaultConvention) hasClaimableBase(d *typedesc.Descriptor) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, base := range d.Bases {
		if _, ok := c.byType[base]; ok {
			return true
		}
		if typedesc.Implements(base, markerType) {
			return true
		}
	}
	return false
}

// index records the tag for d and returns it with the type holding it. The
// first type to take a tag keeps it, so holder differs from d.Type on a
// collision.
func (c *DefaultConvention) index(d *typedesc.Descriptor) (string, reflect.Type) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if tag, ok := c.byType[d.Type]; ok {
		return tag, d.Type
	}
	tag := c.valueLocked(d)
	if existing, taken := c.byTag[tag]; taken && existing != d.Type {
		c.logger.Warn("discriminator already in use, type not indexed",
			slog.String("discriminator", tag),
			slog.String("type", d.FullName),
			slog.String("existing", existing.String()))
		return tag, existing
	}
	c.byTag[tag] = d.Type
	c.byType[d.Type] = tag
	return tag, d.Type
}

// conflict returns the type already holding the tag t would take.
func (c *DefaultConvention) conflict(t reflect.Type) (reflect.Type, bool) {
	d := typedesc.Describe(t)
	if !polymorphicStruct(d) {
		return nil, false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	if _, ok := c.byType[t]; ok {
		return nil, false
	}
	existing, taken := c.byTag[c.valueLocked(d)]
	return existing, taken && existing != t
}

func (c *DefaultConvention) valueLocked(d *typedesc.Descriptor) string {
	if d.HasMarker {
		return d.Marker
	}
	if v, ok := c.mapped[d.Type]; ok {
		return v
	}
	if d.Name != "" {
		return d.Name
	}
	return d.FullName
}

func (c *DefaultConvention) ReadDiscriminator(r token.Reader) (string, error) {
	return readString(r)
}

func (c *DefaultConvention) ResolveType(value string) (reflect.Type, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if t, ok := c.byTag[value]; ok {
		return t, nil
	}
	return nil, errors.NewUnknownDiscriminatorError(value, "")
}

func (c *DefaultConvention) WriteDiscriminator(w token.Writer, t reflect.Type) error {
	tag, err := c.DiscriminatorOf(t)
	if err != nil {
		return err
	}
	return writeMember(w, c.memberName, tag)
}

// DiscriminatorOf returns the value written for t. A struct bound through
// one of its embedders is indexed on first use, so every value written
// resolves back to t.
func (c *DefaultConvention) DiscriminatorOf(t reflect.Type) (string, error) {
	if t == nil {
		return "", errors.NewUnsupportedTypeError("<nil>", "no discriminator for a nil type")
	}
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	c.mu.RLock()
	tag, ok := c.byType[t]
	c.mu.RUnlock()
	if ok {
		return tag, nil
	}

	d := typedesc.Describe(t)
	if !polymorphicStruct(d) {
		return "", errors.NewUnsupportedTypeError(d.FullName, "not a discriminated struct")
	}
	tag, holder := c.index(d)
	if holder != t {
		return "", errors.NewConfigurationError("WriteDiscriminator",
			fmt.Sprintf("discriminator %q of %s is already used by %s", tag, t, holder))
	}
	return tag, nil
}
