package catalog

import (
	"fmt"
	"sync"

	"github.com/AbdoulayeSG/site-antigravi/internal/common"
)

// guard rejects a second mutation on the same key while one is running.
type guard struct {
	mu       sync.Mutex
	inflight map[string]struct{}
}

func newGuard() *guard {
	return &guard{inflight: map[string]struct{}{}}
}

// acquire marks key busy and returns its release func.
func (g *guard) acquire(key string) (func(), error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, busy := g.inflight[key]; busy {
		return nil, fmt.Errorf("%s: %w", key, common.ErrBusy)
	}
	g.inflight[key] = struct{}{}

	return func() {
		g.mu.Lock()
		delete(g.inflight, key)
		g.mu.Unlock()
	}, nil
}
