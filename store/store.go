/* Copyright © 2025-2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/gregjones/httpcache"
)

var ErrNotFound = errors.New("document not found")

// Store keeps JSON documents by id in a namespace of an httpcache.Cache
// backend. Backends cannot enumerate keys, so the store maintains an index
// document listing every id it holds.
type Store struct {
	backend   httpcache.Cache
	namespace string

	// guards read-modify-write of the index
	mu sync.Mutex
}

func New(backend httpcache.Cache, namespace string) *Store {
	return &Store{backend: backend, namespace: namespace}
}

// NewMemory returns a store backed by an in-process cache.
func NewMemory(namespace string) *Store {
	return New(httpcache.NewMemoryCache(), namespace)
}

func (s *Store) key(id string) string {
	return s.namespace + "/doc/" + id
}

func (s *Store) indexKey() string {
	return s.namespace + "/index"
}

// Put stores doc under id, replacing any previous version.
func (s *Store) Put(id string, doc any) error {
	if id == "" {
		return fmt.Errorf("store.put: empty id")
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("store.put: failed to marshal %v: %w", id, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.backend.Set(s.key(id), data)
	if got, ok := s.backend.Get(s.key(id)); !ok || !bytes.Equal(got, data) {
		return fmt.Errorf("store.put: backend did not persist %v", id)
	}

	ids, err := s.readIndex()
	if err != nil {
		return err
	}
	pos := sort.SearchStrings(ids, id)
	if pos < len(ids) && ids[pos] == id {
		return nil
	}
	ids = append(ids, "")
	copy(ids[pos+1:], ids[pos:])
	ids[pos] = id

	return s.writeIndex(ids)
}

// Get decodes the document stored under id into doc.
func (s *Store) Get(id string, doc any) error {
	data, ok := s.backend.Get(s.key(id))
	if !ok {
		return fmt.Errorf("store.get: %v: %w", id, ErrNotFound)
	}
	if err := json.Unmarshal(data, doc); err != nil {
		return fmt.Errorf("store.get: failed to unmarshal %v: %w", id, err)
	}

	return nil
}

func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids, err := s.readIndex()
	if err != nil {
		return err
	}
	pos := sort.SearchStrings(ids, id)
	if pos >= len(ids) || ids[pos] != id {
		return fmt.Errorf("store.delete: %v: %w", id, ErrNotFound)
	}

	s.backend.Delete(s.key(id))
	ids = append(ids[:pos], ids[pos+1:]...)

	return s.writeIndex(ids)
}

// List returns every stored id in sorted order.
func (s *Store) List() ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.readIndex()
}

func (s *Store) readIndex() ([]string, error) {
	data, ok := s.backend.Get(s.indexKey())
	if !ok {
		return []string{}, nil
	}
	var ids []string
	if err := json.Unmarshal(data, &ids); err != nil {
		return nil, fmt.Errorf("store.index: corrupt index: %w", err)
	}
	sort.Strings(ids)

	return ids, nil
}

func (s *Store) writeIndex(ids []string) error {
	data, err := json.Marshal(ids)
	if err != nil {
		return fmt.Errorf("store.index: failed to marshal index: %w", err)
	}
	s.backend.Set(s.indexKey(), data)

	return nil
}
