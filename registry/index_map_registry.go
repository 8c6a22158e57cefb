/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package registry

import (
	"reflect"
	"sync"

	"github.com/suparena/polycodec/errors"
)

// IndexMaps associates concrete types with their DynamoDB key templates
// (PK, SK, GSI keys). Templates reference encoded property names, e.g.
// "SHAPE#{id}".
type IndexMaps struct {
	mu   sync.RWMutex
	maps map[reflect.Type]map[string]string
}

// NewIndexMaps creates an empty set of index maps.
func NewIndexMaps() *IndexMaps {
	return &IndexMaps{maps: make(map[reflect.Type]map[string]string)}
}

// Register stores a copy of idxMap for t. Pointer types register their
// element.
func (m *IndexMaps) Register(t reflect.Type, idxMap map[string]string) error {
	if t == nil || len(idxMap) == 0 {
		return errors.NewConfigurationError("IndexMaps.Register", "type and index map are required")
	}
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	cp := make(map[string]string, len(idxMap))
	for k, v := range idxMap {
		cp[k] = v
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.maps[t] = cp
	return nil
}

// RegisterIndexMap associates T with idxMap.
func RegisterIndexMap[T any](m *IndexMaps, idxMap map[string]string) error {
	return m.Register(reflect.TypeOf((*T)(nil)).Elem(), idxMap)
}

// Lookup returns the index map for t, if any.
func (m *IndexMaps) Lookup(t reflect.Type) (map[string]string, bool) {
	if t == nil {
		return nil, false
	}
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	idx, ok := m.maps[t]
	return idx, ok
}

// GetIndexMap retrieves the index map for T, if any.
func GetIndexMap[T any](m *IndexMaps) (map[string]string, bool) {
	return m.Lookup(reflect.TypeOf((*T)(nil)).Elem())
}
