/*
Package registry holds the per-type metadata a polymorphic datastore needs
beyond the codec itself.

Type Registry:
Names the concrete types stored in one table. It is a conventions.Module and
can produce a type-map convention:

	types := registry.NewTypeRegistry()
	registry.RegisterType[Circle](types, "circle")
	registry.RegisterType[Square](types, "square")

	conv, _ := types.Convention("kind")
	opts.RegisterConvention(conv)
	opts.RegisterModule(types)

Index Maps:
Associate concrete types with DynamoDB key templates. Macros name encoded
properties:

	maps := registry.NewIndexMaps()
	registry.RegisterIndexMap[Circle](maps, map[string]string{
	    "PK": "SHAPE#{id}",
	    "SK": "SHAPE#{id}",
	    "GSI1PK": "COLOR#{color}",
	})

Both are safe for concurrent use and are normally populated during
initialization.
*/
package registry
