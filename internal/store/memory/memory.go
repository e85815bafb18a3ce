// Package memory implements store.Store in process. It backs unit tests and
// dry runs, and mirrors the hosted database's semantics: paths address a
// JSON tree, server timestamps are materialized at write time, and pushed
// children get chronologically ordered keys.
package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/nguyentranbao-ct/community-worker/internal/models"
	"github.com/nguyentranbao-ct/community-worker/internal/store"
)

type Store struct {
	mu     sync.Mutex
	root   map[string]any
	pushID *store.PushIDGenerator
	now    func() time.Time
	writes int
}

var _ store.Store = (*Store)(nil)

func New() *Store {
	return &Store{
		root:   map[string]any{},
		pushID: store.NewPushIDGenerator(),
		now:    time.Now,
	}
}

// SetClock overrides the clock used for server timestamps and push keys.
func (s *Store) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

// Writes returns how many mutating calls have been applied. Tests use it to
// assert that a handler performed zero writes.
func (s *Store) Writes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writes
}

func (s *Store) Get(ctx context.Context, path string, into any) error {
	// Marshal under the lock: the node is still live inside the tree and
	// Update mutates those maps in place.
	s.mu.Lock()
	node, ok := s.lookup(path)
	if !ok || node == nil {
		s.mu.Unlock()
		return models.ErrNotFound
	}
	raw, err := json.Marshal(node)
	s.mu.Unlock()
	if err != nil {
		return fmt.Errorf("encode value at %s: %w", path, err)
	}
	if err := json.Unmarshal(raw, into); err != nil {
		return fmt.Errorf("decode value at %s: %w", path, err)
	}
	return nil
}

func (s *Store) Set(ctx context.Context, path string, value any) error {
	node, err := s.normalize(value)
	if err != nil {
		return fmt.Errorf("set %s: %w", path, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.writes++
	s.put(path, node)
	return nil
}

func (s *Store) Update(ctx context.Context, path string, patch map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	target, ok := s.lookup(path)
	existing, isMap := target.(map[string]any)
	if !ok || !isMap {
		existing = map[string]any{}
	}
	for k, v := range patch {
		node, err := s.normalize(v)
		if err != nil {
			return fmt.Errorf("update %s/%s: %w", path, k, err)
		}
		existing[k] = node
	}
	s.writes++
	s.put(path, existing)
	return nil
}

func (s *Store) Push(ctx context.Context, path string, value any) (string, error) {
	node, err := s.normalize(value)
	if err != nil {
		return "", fmt.Errorf("push %s: %w", path, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	key := s.pushID.Next(s.now())
	s.writes++
	s.put(store.Join(path, key), node)
	return key, nil
}

func (s *Store) Delete(ctx context.Context, path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	segs := store.Split(path)
	if len(segs) == 0 {
		return nil
	}
	parent := s.root
	for _, seg := range segs[:len(segs)-1] {
		child, ok := parent[seg].(map[string]any)
		if !ok {
			return nil
		}
		parent = child
	}
	s.writes++
	delete(parent, segs[len(segs)-1])
	return nil
}

// normalize round-trips a value through JSON and resolves server timestamps.
func (s *Store) normalize(value any) (any, error) {
	raw, err := json.Marshal(value)
	if err != nil {
		return nil, err
	}
	var node any
	if err := json.Unmarshal(raw, &node); err != nil {
		return nil, err
	}
	return s.materialize(node), nil
}

func (s *Store) materialize(node any) any {
	if store.IsServerTimestamp(node) {
		return s.now().UnixMilli()
	}
	if m, ok := node.(map[string]any); ok {
		for k, v := range m {
			m[k] = s.materialize(v)
		}
	}
	return node
}

func (s *Store) lookup(path string) (any, bool) {
	var node any = s.root
	for _, seg := range store.Split(path) {
		m, ok := node.(map[string]any)
		if !ok {
			return nil, false
		}
		node, ok = m[seg]
		if !ok {
			return nil, false
		}
	}
	return node, true
}

func (s *Store) put(path string, value any) {
	segs := store.Split(path)
	if len(segs) == 0 {
		if m, ok := value.(map[string]any); ok {
			s.root = m
		}
		return
	}
	parent := s.root
	for _, seg := range segs[:len(segs)-1] {
		child, ok := parent[seg].(map[string]any)
		if !ok {
			child = map[string]any{}
			parent[seg] = child
		}
		parent = child
	}
	parent[segs[len(segs)-1]] = value
}
