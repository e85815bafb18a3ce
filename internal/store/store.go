package store

import (
	"context"
	"strings"
)

// Store is a path-addressed hierarchical key-value client. Every write is a
// single-value round trip; Update patches individual fields so concurrent
// writers never clobber whole records.
type Store interface {
	// Get decodes the value at path into the given pointer. Returns
	// models.ErrNotFound when nothing exists there.
	Get(ctx context.Context, path string, into any) error
	// Set replaces the value at path.
	Set(ctx context.Context, path string, value any) error
	// Update merges the given fields into the value at path.
	Update(ctx context.Context, path string, patch map[string]any) error
	// Push appends value under a new store-assigned key and returns the key.
	// Keys sort chronologically.
	Push(ctx context.Context, path string, value any) (string, error)
	// Delete removes the value at path.
	Delete(ctx context.Context, path string) error
}

// ServerTimestamp is resolved to the current server time at write time.
// The firebase backend forwards it as-is; other backends materialize it.
var ServerTimestamp = map[string]string{".sv": "timestamp"}

// IsServerTimestamp reports whether a decoded JSON value is the
// ServerTimestamp sentinel.
func IsServerTimestamp(v any) bool {
	switch m := v.(type) {
	case map[string]string:
		return m[".sv"] == "timestamp"
	case map[string]any:
		sv, ok := m[".sv"].(string)
		return ok && sv == "timestamp" && len(m) == 1
	}
	return false
}

// Join builds a store path from segments, always rooted with a single slash.
func Join(parts ...string) string {
	segs := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.Trim(p, "/")
		if p != "" {
			segs = append(segs, p)
		}
	}
	return "/" + strings.Join(segs, "/")
}

// Split returns the non-empty segments of a store path.
func Split(path string) []string {
	raw := strings.Split(path, "/")
	segs := make([]string, 0, len(raw))
	for _, s := range raw {
		if s != "" {
			segs = append(segs, s)
		}
	}
	return segs
}
