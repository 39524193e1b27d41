// Package store is the client boundary for the hierarchical key/value
// tree holding catalog, branch, cart, order and user data. Paths are
// slash-separated ("carts/c_u1", "orders/u1/<pushId>"). Writes are
// atomic per path only; there are no multi-path transactions.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"
)

// ErrNoValue is returned by Snapshot.Decode when the snapshot holds
// nothing at all.
var ErrNoValue = errors.New("store: snapshot has no value")

// Store is the remote-store client the core depends on. All calls are
// bounded by their context; cancelling the context abandons the call.
// Ordering between independently issued calls is not guaranteed.
type Store interface {
	// Get reads the subtree at path. A missing path yields a snapshot
	// whose Exists() is false, not an error.
	Get(ctx context.Context, path string) (*Snapshot, error)
	// Set writes a whole value at path, replacing any previous value.
	Set(ctx context.Context, path string, value any) error
	// Push appends value under path with a generated child key.
	Push(ctx context.Context, path string, value any) (string, error)
	// QueryByField returns the children of path whose named field
	// equals the given value.
	QueryByField(ctx context.Context, path, field string, equals any) (*Snapshot, error)
}

// Snapshot is a typed view over a read result: either a leaf value, a
// set of child snapshots, or both are possible (field-level writes can
// live under a document path).
type Snapshot struct {
	Key      string
	raw      json.RawMessage
	children []*Snapshot
}

// Exists reports whether anything was stored at the requested path
func (s *Snapshot) Exists() bool {
	return s != nil && (len(s.raw) > 0 || len(s.children) > 0)
}

// Children returns the immediate child snapshots in key order
func (s *Snapshot) Children() []*Snapshot {
	if s == nil {
		return nil
	}
	return s.children
}

// Decode unmarshals the snapshot into v. This is the single place
// numeric fields are normalized: JSON numbers decode into float64
// whether the writer stored an integer or a float.
func (s *Snapshot) Decode(v any) error {
	raw := s.value()
	if raw == nil {
		return ErrNoValue
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("decode %q: %w", s.Key, err)
	}
	return nil
}

// value assembles the snapshot's JSON. Leaves return their raw bytes;
// interior nodes are synthesized from their children, which is what
// makes field-level writes (users/{id}/address) readable as one record.
func (s *Snapshot) value() json.RawMessage {
	if len(s.raw) > 0 || len(s.children) == 0 {
		return s.raw
	}
	obj := make(map[string]json.RawMessage, len(s.children))
	for _, c := range s.children {
		if v := c.value(); v != nil {
			obj[c.Key] = v
		}
	}
	b, err := json.Marshal(obj)
	if err != nil {
		return nil
	}
	return b
}

// row is one stored node, shared by the backends
type row struct {
	path  string
	value json.RawMessage
}

// buildSnapshot assembles the subtree rooted at base from flat rows.
// Every row is either base itself or strictly below it.
func buildSnapshot(key, base string, rows []row) *Snapshot {
	snap := &Snapshot{Key: key}
	grouped := make(map[string][]row)
	var segs []string
	for _, r := range rows {
		if r.path == base {
			snap.raw = r.value
			continue
		}
		rel := strings.TrimPrefix(r.path, base+"/")
		seg := rel
		if i := strings.IndexByte(rel, '/'); i >= 0 {
			seg = rel[:i]
		}
		if _, ok := grouped[seg]; !ok {
			segs = append(segs, seg)
		}
		grouped[seg] = append(grouped[seg], r)
	}
	sort.Strings(segs)
	for _, seg := range segs {
		snap.children = append(snap.children, buildSnapshot(seg, base+"/"+seg, grouped[seg]))
	}
	return snap
}

// filterByField keeps the children of snap whose decoded field equals
// the wanted value. Children that fail to decode are skipped.
func filterByField(snap *Snapshot, field string, equals any) *Snapshot {
	want := normalize(equals)
	out := &Snapshot{Key: snap.Key}
	for _, c := range snap.Children() {
		var m map[string]any
		if err := c.Decode(&m); err != nil {
			continue
		}
		if normalize(m[field]) == want {
			out.children = append(out.children, c)
		}
	}
	return out
}

// normalize folds numeric kinds into float64 and named string types
// into plain strings so query values compare against decoded JSON.
func normalize(v any) any {
	if v == nil {
		return nil
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.String:
		return rv.String()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint())
	case reflect.Float32, reflect.Float64:
		return rv.Float()
	}
	return v
}

func lastSegment(path string) string {
	if i := strings.LastIndexByte(path, '/'); i >= 0 {
		return path[i+1:]
	}
	return path
}
