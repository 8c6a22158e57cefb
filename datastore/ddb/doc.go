/*
Package ddb provides a DynamoDB implementation of the DataStore interface.

Items are encoded with a polycodec configuration. When the store's type
parameter is an interface, every item carries the discriminator of its
concrete type and is decoded back into that type:

	codec := polycodec.MustNew(polycodec.WithTypes(reflect.TypeOf(Elo{}), reflect.TypeOf(Glicko{})))
	store, err := ddb.NewDynamodbDataStore[Rater](client, "ratings", codec, indexMaps,
	    ddb.WithKeyTemplate(map[string]string{"PK": "RS#{Id}", "SK": "RS#{Id}"}))

Macro Expansion:
Put expands the index map registered for the concrete type. A macro names
an encoded property holding a string, number or bool:

	indexMap := map[string]string{
	    "PK":     "RS#{Id}",      // Becomes "RS#123"
	    "SK":     "RS#{Id}",
	    "GSI1PK": "KIND#elo",     // Static value
	    "GSI1SK": "{Name}",
	}

GetOne and Delete take a plain key and substitute it for every macro of the
key template.

Queries:

	results, err := store.QueryPartition("KIND#elo").
	    OnIndex("GSI1").
	    WithSortKeyPrefix("classic").
	    Execute(ctx)

Streaming:
Stream walks every page, retrying throttled queries. An item that cannot be
decoded is delivered with Error set and the stream goes on:

	results := store.Stream(ctx, params,
	    storagemodels.WithPageSize(25),
	    storagemodels.WithMaxRetries(3),
	    storagemodels.WithErrorHandler(func(err error) bool {
	        return true // keep going
	    }),
	)
*/
package ddb
