/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

// Package mock provides mock implementations of the DataStore interface for testing
package mock

import (
	"context"
	"fmt"
	"reflect"
	"sort"
	"sync"
	"time"

	"github.com/suparena/polycodec"
	"github.com/suparena/polycodec/errors"
	"github.com/suparena/polycodec/storagemodels"
)

// DataStore is an in-memory datastore.DataStore[T]. Entities are stored as
// encoded JSON and decoded on every read, so polymorphic values go through
// the same discriminator resolution as a real store.
type DataStore[T any] struct {
	mu          sync.RWMutex
	codec       *polycodec.Options
	data        map[string][]byte
	queryFunc   func(ctx context.Context, params *storagemodels.QueryParams) ([]T, error)
	streamFunc  func(ctx context.Context, params *storagemodels.QueryParams, opts ...storagemodels.StreamOption) <-chan storagemodels.StreamResult[T]
	getKeyFunc  func(entity T) string
	putError    error
	deleteError error
}

// New creates a mock DataStore encoding with codec. A nil codec uses the
// defaults.
func New[T any](codec *polycodec.Options) *DataStore[T] {
	if codec == nil {
		codec = polycodec.MustNew()
	}
	return &DataStore[T]{
		codec: codec,
		data:  make(map[string][]byte),
	}
}

// WithGetKeyFunc sets a custom function to extract keys from entities
func (m *DataStore[T]) WithGetKeyFunc(f func(T) string) *DataStore[T] {
	m.getKeyFunc = f
	return m
}

// WithQueryFunc sets a custom query function for testing
func (m *DataStore[T]) WithQueryFunc(f func(ctx context.Context, params *storagemodels.QueryParams) ([]T, error)) *DataStore[T] {
	m.queryFunc = f
	return m
}

// WithStreamFunc sets a custom stream function for testing
func (m *DataStore[T]) WithStreamFunc(f func(ctx context.Context, params *storagemodels.QueryParams, opts ...storagemodels.StreamOption) <-chan storagemodels.StreamResult[T]) *DataStore[T] {
	m.streamFunc = f
	return m
}

// WithPutError makes Put operations return an error
func (m *DataStore[T]) WithPutError(err error) *DataStore[T] {
	m.putError = err
	return m
}

// WithDeleteError makes Delete operations return an error
func (m *DataStore[T]) WithDeleteError(err error) *DataStore[T] {
	m.deleteError = err
	return m
}

// GetOne decodes the entity stored under key.
func (m *DataStore[T]) GetOne(ctx context.Context, key string) (T, error) {
	m.mu.RLock()
	raw, exists := m.data[key]
	m.mu.RUnlock()

	if !exists {
		var zero T
		return zero, errors.NewNotFoundError(entityType[T](), key)
	}
	return m.decode(raw)
}

// Put encodes and stores an entity under the key extracted from it.
func (m *DataStore[T]) Put(ctx context.Context, entity T) error {
	if m.putError != nil {
		return m.putError
	}

	key := m.extractKey(entity)
	if key == "" {
		return errors.NewConfigurationError("mock.Put", "unable to extract key from entity")
	}

	raw, err := polycodec.MarshalAs(m.codec, entity)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = raw
	return nil
}

// Query decodes every stored entity in key order, unless a query func is set.
func (m *DataStore[T]) Query(ctx context.Context, params *storagemodels.QueryParams) ([]T, error) {
	if m.queryFunc != nil {
		return m.queryFunc(ctx, params)
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	results := make([]T, 0, len(m.data))
	for i, key := range m.sortedKeys() {
		v, err := m.decode(m.data[key])
		if err != nil {
			return nil, fmt.Errorf("failed to decode item %d: %w", i, err)
		}
		results = append(results, v)
	}
	return results, nil
}

// Stream sends every stored entity in key order. Entries that fail to decode
// are sent with Error set.
func (m *DataStore[T]) Stream(ctx context.Context, params *storagemodels.QueryParams, opts ...storagemodels.StreamOption) <-chan storagemodels.StreamResult[T] {
	if m.streamFunc != nil {
		return m.streamFunc(ctx, params, opts...)
	}

	options := storagemodels.DefaultStreamOptions()
	for _, opt := range opts {
		opt(&options)
	}

	m.mu.RLock()
	keys := m.sortedKeys()
	snapshot := make([][]byte, len(keys))
	for i, key := range keys {
		snapshot[i] = m.data[key]
	}
	m.mu.RUnlock()

	resultChan := make(chan storagemodels.StreamResult[T], options.BufferSize)

	go func() {
		defer close(resultChan)

		for i, raw := range snapshot {
			result := storagemodels.StreamResult[T]{
				Meta: storagemodels.StreamMeta{
					Index:      int64(i),
					PageNumber: 1,
					Timestamp:  time.Now(),
				},
			}
			result.Item, result.Error = m.decode(raw)

			select {
			case <-ctx.Done():
				return
			case resultChan <- result:
			}
			if result.Error != nil && options.ErrorHandler != nil && !options.ErrorHandler(result.Error) {
				return
			}
		}
	}()

	return resultChan
}

// Delete removes an entity by key
func (m *DataStore[T]) Delete(ctx context.Context, key string) error {
	if m.deleteError != nil {
		return m.deleteError
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.data[key]; !exists {
		return errors.NewNotFoundError(entityType[T](), key)
	}

	delete(m.data, key)
	return nil
}

// Helper methods for testing

// SetRaw stores an encoded document under key as is.
func (m *DataStore[T]) SetRaw(key string, raw []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = append([]byte(nil), raw...)
}

// Raw returns the encoded document stored under key.
func (m *DataStore[T]) Raw(key string) ([]byte, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	raw, ok := m.data[key]
	return raw, ok
}

// Count returns the number of stored entities
func (m *DataStore[T]) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.data)
}

// Clear removes all data
func (m *DataStore[T]) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = make(map[string][]byte)
}

func (m *DataStore[T]) decode(raw []byte) (T, error) {
	var v T
	err := m.codec.Unmarshal(raw, &v)
	return v, err
}

// sortedKeys must be called with the lock held.
func (m *DataStore[T]) sortedKeys() []string {
	keys := make([]string, 0, len(m.data))
	for k := range m.data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func entityType[T any]() string {
	return reflect.TypeOf((*T)(nil)).Elem().String()
}

// extractKey attempts to extract a key from an entity
func (m *DataStore[T]) extractKey(entity T) string {
	if m.getKeyFunc != nil {
		return m.getKeyFunc(entity)
	}
	return fmt.Sprintf("key_%v", entity)
}
