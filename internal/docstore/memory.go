package docstore

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
)

var _ Store = (*MemoryStore)(nil)

// MemoryStore is an in-memory Store for tests and ephemeral environments.
// Transactions are serialized under one mutex, which makes every commit
// trivially atomic and isolated.
type MemoryStore struct {
	mu   sync.Mutex
	docs map[string]map[string]json.RawMessage // collection -> id -> doc
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{docs: make(map[string]map[string]json.RawMessage)}
}

func (s *MemoryStore) Get(ctx context.Context, collection, id string, dest interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	raw, ok := s.docs[collection][id]
	if !ok {
		return fmt.Errorf("%w: %s/%s", ErrNotFound, collection, id)
	}
	return json.Unmarshal(raw, dest)
}

func (s *MemoryStore) Set(ctx context.Context, collection, id string, doc interface{}) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.put(collection, id, raw)
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, collection, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.docs[collection], id)
	return nil
}

func (s *MemoryStore) List(ctx context.Context, collection string, dest interface{}) error {
	s.mu.Lock()
	ids := make([]string, 0, len(s.docs[collection]))
	for id := range s.docs[collection] {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	raws := make([]json.RawMessage, 0, len(ids))
	for _, id := range ids {
		raws = append(raws, s.docs[collection][id])
	}
	s.mu.Unlock()

	arr, err := json.Marshal(raws)
	if err != nil {
		return err
	}
	return json.Unmarshal(arr, dest)
}

func (s *MemoryStore) RunTransaction(ctx context.Context, fn func(tx Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &memoryTx{store: s, overlay: make(map[string]map[string]*json.RawMessage)}
	if err := fn(tx); err != nil {
		return err
	}

	// Commit: fold the overlay into the base maps.
	for collection, docs := range tx.overlay {
		for id, raw := range docs {
			if raw == nil {
				delete(s.docs[collection], id)
				continue
			}
			s.put(collection, id, *raw)
		}
	}
	return nil
}

func (s *MemoryStore) put(collection, id string, raw json.RawMessage) {
	if s.docs[collection] == nil {
		s.docs[collection] = make(map[string]json.RawMessage)
	}
	s.docs[collection][id] = raw
}

// memoryTx stages writes in an overlay; a nil entry is a tombstone. Reads go
// through the overlay first so the transaction observes its own writes.
type memoryTx struct {
	store   *MemoryStore
	overlay map[string]map[string]*json.RawMessage
}

func (t *memoryTx) read(collection, id string) (json.RawMessage, bool) {
	if docs, ok := t.overlay[collection]; ok {
		if raw, ok := docs[id]; ok {
			if raw == nil {
				return nil, false
			}
			return *raw, true
		}
	}
	raw, ok := t.store.docs[collection][id]
	return raw, ok
}

func (t *memoryTx) write(collection, id string, raw *json.RawMessage) {
	if t.overlay[collection] == nil {
		t.overlay[collection] = make(map[string]*json.RawMessage)
	}
	t.overlay[collection][id] = raw
}

func (t *memoryTx) Get(collection, id string, dest interface{}) error {
	raw, ok := t.read(collection, id)
	if !ok {
		return fmt.Errorf("%w: %s/%s", ErrNotFound, collection, id)
	}
	return json.Unmarshal(raw, dest)
}

func (t *memoryTx) Set(collection, id string, doc interface{}) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	msg := json.RawMessage(raw)
	t.write(collection, id, &msg)
	return nil
}

func (t *memoryTx) Delete(collection, id string) error {
	t.write(collection, id, nil)
	return nil
}

func (t *memoryTx) Increment(collection, id, field string, delta int64) error {
	raw, ok := t.read(collection, id)
	if !ok {
		return fmt.Errorf("%w: %s/%s", ErrNotFound, collection, id)
	}
	var doc map[string]interface{}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return err
	}
	current, err := numericField(doc, field)
	if err != nil {
		return fmt.Errorf("increment %s/%s.%s: %w", collection, id, field, err)
	}
	doc[field] = current + delta
	updated, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	msg := json.RawMessage(updated)
	t.write(collection, id, &msg)
	return nil
}

func numericField(doc map[string]interface{}, field string) (int64, error) {
	v, ok := doc[field]
	if !ok || v == nil {
		return 0, nil
	}
	f, ok := v.(float64)
	if !ok {
		return 0, fmt.Errorf("field is %T, not numeric", v)
	}
	return int64(f), nil
}
