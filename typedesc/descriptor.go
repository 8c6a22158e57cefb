/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package typedesc

import (
	"reflect"
	"strings"

	"github.com/suparena/polycodec/collections"
	"github.com/suparena/polycodec/typecache"
)

// Capability is a bit set of the structural facts the codec cares about.
type Capability uint32

const (
	CapArray Capability = 1 << iota
	CapFixedLength
	CapSequence
	CapSet
	CapImmutable
	CapSetInterface
	CapListInterface
	CapMap
	CapInterface
	CapStruct
	CapPointer
)

// Discriminator is implemented by types that declare their own discriminator
// value. It is called on the zero value.
type Discriminator interface {
	DiscriminatorValue() string
}

var discriminatorType = reflect.TypeOf((*Discriminator)(nil)).Elem()

// Field describes one encodable struct field, embedded fields flattened.
type Field struct {
	Name      string
	WireName  string
	Index     []int
	Type      reflect.Type
	OmitEmpty bool
}

// Descriptor is the derived, immutable description of a reflect.Type.
type Descriptor struct {
	Type     reflect.Type
	Name     string
	FullName string

	// Args holds the element type for arrays, slices and collections, and the
	// key then element type for maps.
	Args []reflect.Type
	Caps Capability

	// Bases is the embedding chain, nearest first.
	Bases []reflect.Type

	Marker    string
	HasMarker bool

	Immutable collections.ImmutableKind
	// Surrogate is the one registered when the type was described. Callers
	// use CollectionSurrogate.
	Surrogate *collections.Surrogate

	Fields []Field
}

// CollectionSurrogate returns the surrogate for a collection interface. The
// surrogate table is consulted again when none was registered at describe
// time, so a registration made after first use still applies.
func (d *Descriptor) CollectionSurrogate() (*collections.Surrogate, bool) {
	if d.Surrogate != nil {
		return d.Surrogate, true
	}
	if !d.Has(CapInterface) {
		return nil, false
	}
	s, ok := collections.LookupSurrogate(d.Type)
	if !ok {
		return nil, false
	}
	return &s, true
}

// Has reports whether every capability in c is present.
func (d *Descriptor) Has(c Capability) bool {
	return d.Caps&c == c
}

// Elem returns the element type, or nil when the type has none.
func (d *Descriptor) Elem() reflect.Type {
	if len(d.Args) == 0 {
		return nil
	}
	return d.Args[len(d.Args)-1]
}

// Provider derives descriptors once per type.
type Provider struct {
	cache typecache.Cache[*Descriptor]
}

// NewProvider creates an empty provider.
func NewProvider() *Provider {
	return &Provider{}
}

var shared = NewProvider()

// Describe uses the process-wide provider.
func Describe(t reflect.Type) *Descriptor {
	return shared.Describe(t)
}

// Describe returns the descriptor for t, building it on first use.
func (p *Provider) Describe(t reflect.Type) *Descriptor {
	return p.cache.GetOrBuild(t, build)
}

// Implements reports whether t or *t implements iface.
func Implements(t, iface reflect.Type) bool {
	if t.Implements(iface) {
		return true
	}
	return t.Kind() != reflect.Pointer && t.Kind() != reflect.Interface && reflect.PointerTo(t).Implements(iface)
}

func build(t reflect.Type) *Descriptor {
	d := &Descriptor{
		Type:     t,
		Name:     t.Name(),
		FullName: t.String(),
	}

	switch t.Kind() {
	case reflect.Array:
		d.Caps |= CapArray | CapFixedLength
		d.Args = []reflect.Type{t.Elem()}
	case reflect.Slice:
		d.Caps |= CapArray
		d.Args = []reflect.Type{t.Elem()}
	case reflect.Map:
		d.Caps |= CapMap
		d.Args = []reflect.Type{t.Key(), t.Elem()}
	case reflect.Pointer:
		d.Caps |= CapPointer
		d.Args = []reflect.Type{t.Elem()}
	case reflect.Interface:
		d.Caps |= CapInterface
		if s, ok := collections.LookupSurrogate(t); ok {
			d.Surrogate = &s
			d.Args = []reflect.Type{s.Element}
			if s.SetLike {
				d.Caps |= CapSetInterface | CapSet
			} else {
				d.Caps |= CapListInterface
			}
		}
	case reflect.Struct:
		d.Caps |= CapStruct
		d.Bases = baseChain(t)
		d.Fields = structFields(t)
	}

	if t.Kind() != reflect.Interface && t.Kind() != reflect.Pointer {
		describeCollection(d, t)
		if v, ok := markerOf(t); ok && !promotedMarker(t, v) {
			d.Marker = v
			d.HasMarker = true
		}
	}
	return d
}

func markerOf(t reflect.Type) (string, bool) {
	if !Implements(t, discriminatorType) {
		return "", false
	}
	return reflect.New(t).Interface().(Discriminator).DiscriminatorValue(), true
}

// promotedMarker reports whether a struct's marker is only inherited from an
// embedded field. An embedder has to declare its own value.
func promotedMarker(t reflect.Type, v string) bool {
	if t.Kind() != reflect.Struct {
		return false
	}
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.Anonymous {
			continue
		}
		ft := f.Type
		if ft.Kind() == reflect.Pointer {
			ft = ft.Elem()
		}
		if inner, ok := markerOf(ft); ok && inner == v {
			return true
		}
	}
	return false
}

func describeCollection(d *Descriptor, t reflect.Type) {
	if t.Implements(collections.ImmutableType) {
		zero := reflect.Zero(t).Interface().(collections.Immutable)
		d.Caps |= CapImmutable
		d.Immutable = zero.ImmutableKind()
		d.Args = []reflect.Type{zero.ElementType()}
		if d.Immutable == collections.KindHashSet || d.Immutable == collections.KindSortedSet {
			d.Caps |= CapSet
		}
		return
	}
	if reflect.PointerTo(t).Implements(collections.MutableType) {
		seq := reflect.New(t).Interface().(collections.Mutable)
		d.Caps |= CapSequence
		if d.Args == nil {
			d.Args = []reflect.Type{seq.ElementType()}
		}
	}
}

// baseChain follows the first declared field while it is an exported,
// embedded struct.
func baseChain(t reflect.Type) []reflect.Type {
	var bases []reflect.Type
	for t.Kind() == reflect.Struct && t.NumField() > 0 {
		f := t.Field(0)
		if !f.Anonymous || !f.IsExported() || f.Type.Kind() != reflect.Struct {
			break
		}
		bases = append(bases, f.Type)
		t = f.Type
	}
	return bases
}

// structFields lists encodable fields. Shallower fields hide deeper ones with
// the same wire name.
func structFields(t reflect.Type) []Field {
	var fields []Field
	seen := make(map[string]int)

	type level struct {
		t     reflect.Type
		index []int
		depth int
	}
	queue := []level{{t: t}}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		for i := 0; i < cur.t.NumField(); i++ {
			sf := cur.t.Field(i)
			index := append(append([]int(nil), cur.index...), i)

			name, omitEmpty, skip := parseTag(sf)
			if skip {
				continue
			}
			if sf.Anonymous && sf.Type.Kind() == reflect.Struct && sf.Tag.Get("json") == "" {
				queue = append(queue, level{t: sf.Type, index: index, depth: cur.depth + 1})
				continue
			}
			if !sf.IsExported() {
				continue
			}
			if depth, dup := seen[name]; dup && depth <= cur.depth {
				continue
			}
			seen[name] = cur.depth
			fields = append(fields, Field{
				Name:      sf.Name,
				WireName:  name,
				Index:     index,
				Type:      sf.Type,
				OmitEmpty: omitEmpty,
			})
		}
	}
	return fields
}

func parseTag(sf reflect.StructField) (name string, omitEmpty, skip bool) {
	tag := sf.Tag.Get("json")
	if tag == "-" {
		return "", false, true
	}
	name = sf.Name
	parts := strings.Split(tag, ",")
	if n := strings.TrimSpace(parts[0]); n != "" {
		name = n
	}
	for _, opt := range parts[1:] {
		if strings.TrimSpace(opt) == "omitempty" {
			omitEmpty = true
		}
	}
	return name, omitEmpty, false
}
