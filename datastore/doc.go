/*
Package datastore defines the persistence interface for polymorphic entities.

	type DataStore[T any] interface {
	    GetOne(ctx context.Context, key string) (T, error)
	    Put(ctx context.Context, entity T) error
	    Query(ctx context.Context, params *storagemodels.QueryParams) ([]T, error)
	    Stream(ctx context.Context, params *storagemodels.QueryParams, opts ...storagemodels.StreamOption) <-chan storagemodels.StreamResult[T]
	    Delete(ctx context.Context, key string) error
	}

Entities are encoded with a polycodec.Options. When T is an interface the
encoded item carries the discriminator of the concrete value, and reads
resolve it back through the configuration's conventions.

Implementations:
  - ddb: DynamoDB single-table implementation
  - mock: in-memory implementation for tests
*/
package datastore
