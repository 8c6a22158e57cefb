/*
Package polycodec is the type-resolution core of a structured-data serializer.

It answers two questions for any Go type met during encoding or decoding:
which concrete type a polymorphic (interface-typed) slot materializes as, and
which converter handles a container shape such as an array, a growable list,
a set, an immutable collection or a collection interface.

The library is organized in layers:
  - typedesc: one immutable Descriptor per reflect.Type
  - typecache: build-once, first-insert-wins caches keyed by reflect.Type
  - conventions: the discriminator convention registry
  - converter: the collection factory and the other converter factories
  - token: JSON and DynamoDB attribute-value token streams

Basic Usage:

	type Shape interface{ Area() float64 }

	type Circle struct {
	    Radius float64 `json:"radius"`
	}

	opts, _ := polycodec.New(polycodec.WithTypes(reflect.TypeOf(Circle{})))

	data, _ := polycodec.MarshalAs[Shape](opts, Circle{Radius: 2})
	// {"$type":"Circle","radius":2}

	var s Shape
	err := opts.Unmarshal(data, &s) // s is a Circle

Conventions registered later take priority over earlier ones; the default
convention is registered first and so is consulted last. Registration is
expected to happen before an Options value is shared between goroutines.
*/
package polycodec
