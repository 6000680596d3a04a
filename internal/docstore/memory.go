package docstore

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"github.com/AbdoulayeSG/site-antigravi/internal/common"
)

type listener struct {
	prefix string
	fn     func(path string)
}

// MemoryStore is an in-process Store. Listeners are invoked asynchronously.
type MemoryStore struct {
	mu        sync.RWMutex
	nodes     map[string][]byte
	listeners map[int]listener
	nextID    int
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		nodes:     make(map[string][]byte),
		listeners: make(map[int]listener),
	}
}

func (m *MemoryStore) Get(ctx context.Context, path string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	v, ok := m.nodes[path]
	if !ok {
		return nil, nil
	}
	return append([]byte(nil), v...), nil
}

func (m *MemoryStore) Children(ctx context.Context, parent string) (map[string][]byte, []string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make(map[string][]byte)
	keys := make([]string, 0)
	for p, v := range m.nodes {
		if Parent(p) != parent {
			continue
		}
		k := Base(p)
		out[k] = append([]byte(nil), v...)
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return out, keys, nil
}

func (m *MemoryStore) Set(ctx context.Context, path string, value []byte) error {
	if !json.Valid(value) {
		return fmt.Errorf("invalid json at %s", path)
	}
	m.mu.Lock()
	m.nodes[path] = append([]byte(nil), value...)
	m.mu.Unlock()

	m.notify(path)
	return nil
}

func (m *MemoryStore) Update(ctx context.Context, path string, fields map[string]any) error {
	m.mu.Lock()
	raw, ok := m.nodes[path]
	if !ok {
		m.mu.Unlock()
		return fmt.Errorf("update %s: %w", path, common.ErrNotFound)
	}

	doc := map[string]any{}
	if err := json.Unmarshal(raw, &doc); err != nil {
		m.mu.Unlock()
		return fmt.Errorf("update %s: %w", path, err)
	}
	for k, v := range fields {
		doc[k] = v
	}
	merged, err := json.Marshal(doc)
	if err != nil {
		m.mu.Unlock()
		return fmt.Errorf("update %s: %w", path, err)
	}
	m.nodes[path] = merged
	m.mu.Unlock()

	m.notify(path)
	return nil
}

func (m *MemoryStore) Push(ctx context.Context, parent string, value []byte) (string, error) {
	key := newPushKey()
	if err := m.Set(ctx, Join(parent, key), value); err != nil {
		return "", err
	}
	return key, nil
}

func (m *MemoryStore) Remove(ctx context.Context, path string) error {
	m.mu.Lock()
	for p := range m.nodes {
		if under(p, path) {
			delete(m.nodes, p)
		}
	}
	m.mu.Unlock()

	m.notify(path)
	return nil
}

func (m *MemoryStore) Listen(ctx context.Context, prefix string, fn func(path string)) (func(), error) {
	m.mu.Lock()
	id := m.nextID
	m.nextID++
	m.listeners[id] = listener{prefix: prefix, fn: fn}
	m.mu.Unlock()

	var once sync.Once
	stop := func() {
		once.Do(func() {
			m.mu.Lock()
			delete(m.listeners, id)
			m.mu.Unlock()
		})
	}

	unregister := context.AfterFunc(ctx, stop)
	return func() {
		unregister()
		stop()
	}, nil
}

func (m *MemoryStore) notify(path string) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, l := range m.listeners {
		if under(path, l.prefix) {
			go l.fn(path)
		}
	}
}
