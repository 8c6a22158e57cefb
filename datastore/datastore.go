/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package datastore

import (
	"context"

	"github.com/suparena/polycodec/storagemodels"
)

// DataStore persists values of T. T is usually a polymorphic interface; each
// stored item carries its discriminator and is decoded back into the
// concrete type it names.
type DataStore[T any] interface {
	// GetOne returns the entity stored under key, or a NotFoundError.
	GetOne(ctx context.Context, key string) (T, error)

	Put(ctx context.Context, entity T) error

	Query(ctx context.Context, params *storagemodels.QueryParams) ([]T, error)

	Stream(ctx context.Context, params *storagemodels.QueryParams, opts ...storagemodels.StreamOption) <-chan storagemodels.StreamResult[T]

	Delete(ctx context.Context, key string) error
}
