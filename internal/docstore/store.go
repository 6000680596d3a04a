// Package docstore is a small hierarchical document store addressed by
// slash-separated paths ("products/<key>"). Each node holds one JSON document.
// Writers notify listeners of the changed path so readers can re-query.
package docstore

import (
	"context"
	"strings"

	"github.com/google/uuid"
)

// Store is the generic get/children/set/update/push/remove/listen API.
//
// Get returns (nil, nil) for an absent node. Children returns the direct
// children of parent keyed by their last path segment, plus those keys in
// ascending order. Update
// merges top-level fields into an existing document and fails with
// common.ErrNotFound when the node is absent. Push stores value under a new
// time-ordered key and returns the key. Remove deletes a node and everything
// below it. Listen calls fn with the changed path for every write under
// prefix until stop is called or ctx is done; fn may run on another
// goroutine and may be called redundantly.
type Store interface {
	Get(ctx context.Context, path string) ([]byte, error)
	Children(ctx context.Context, parent string) (map[string][]byte, []string, error)
	Set(ctx context.Context, path string, value []byte) error
	Update(ctx context.Context, path string, fields map[string]any) error
	Push(ctx context.Context, parent string, value []byte) (string, error)
	Remove(ctx context.Context, path string) error
	Listen(ctx context.Context, prefix string, fn func(path string)) (stop func(), err error)
}

// Join builds a node path from segments.
func Join(segments ...string) string {
	return strings.Join(segments, "/")
}

// Parent returns everything before the last "/" ("" for top-level nodes).
func Parent(path string) string {
	if i := strings.LastIndex(path, "/"); i >= 0 {
		return path[:i]
	}
	return ""
}

// Base returns the last path segment.
func Base(path string) string {
	return path[strings.LastIndex(path, "/")+1:]
}

// under reports whether path equals prefix or lies below it.
func under(path, prefix string) bool {
	return path == prefix || strings.HasPrefix(path, prefix+"/")
}

// newPushKey is a seam for deterministic keys in tests. UUIDv7 keys sort in
// creation order.
var newPushKey = func() string {
	return uuid.Must(uuid.NewV7()).String()
}
