package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore is an in-process Store used by tests. Failures and
// latency can be injected per path prefix to exercise the error and
// timeout paths of the core.
type MemoryStore struct {
	mu       sync.Mutex
	data     map[string]json.RawMessage
	failures map[string]error
	delays   map[string]time.Duration
	reads    map[string]int
	writes   int
}

func NewMemory() *MemoryStore {
	return &MemoryStore{
		data:     make(map[string]json.RawMessage),
		failures: make(map[string]error),
		delays:   make(map[string]time.Duration),
		reads:    make(map[string]int),
	}
}

// FailWith makes every operation on path (or below) return err.
// A nil err clears the injection.
func (m *MemoryStore) FailWith(path string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err == nil {
		delete(m.failures, path)
		return
	}
	m.failures[path] = err
}

// DelayPath makes operations on path (or below) wait for d before
// completing, honouring context cancellation.
func (m *MemoryStore) DelayPath(path string, d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.delays[path] = d
}

// Reads reports how many reads (Get or QueryByField) hit path
func (m *MemoryStore) Reads(path string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.reads[path]
}

// Writes reports how many writes (Set or Push) the store has seen
func (m *MemoryStore) Writes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes
}

func (m *MemoryStore) enter(ctx context.Context, path string) error {
	m.mu.Lock()
	var delay time.Duration
	var injected error
	for p, d := range m.delays {
		if path == p || strings.HasPrefix(path, p+"/") {
			delay = d
		}
	}
	for p, e := range m.failures {
		if path == p || strings.HasPrefix(path, p+"/") {
			injected = e
		}
	}
	m.mu.Unlock()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	if injected != nil {
		return injected
	}
	return ctx.Err()
}

func (m *MemoryStore) Get(ctx context.Context, path string) (*Snapshot, error) {
	m.mu.Lock()
	m.reads[path]++
	m.mu.Unlock()
	if err := m.enter(ctx, path); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var rows []row
	for p, v := range m.data {
		if p == path || strings.HasPrefix(p, path+"/") {
			rows = append(rows, row{path: p, value: v})
		}
	}
	return buildSnapshot(lastSegment(path), path, rows), nil
}

func (m *MemoryStore) Set(ctx context.Context, path string, value any) error {
	if err := m.enter(ctx, path); err != nil {
		return err
	}
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("set %q: %w", path, err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[path] = data
	m.writes++
	return nil
}

func (m *MemoryStore) Push(ctx context.Context, path string, value any) (string, error) {
	key := uuid.NewString()
	if err := m.Set(ctx, path+"/"+key, value); err != nil {
		return "", err
	}
	return key, nil
}

func (m *MemoryStore) QueryByField(ctx context.Context, path, field string, equals any) (*Snapshot, error) {
	snap, err := m.Get(ctx, path)
	if err != nil {
		return nil, err
	}
	return filterByField(snap, field, equals), nil
}
