package catalog

import (
	"context"
	"fmt"
)

// Watch reloads the catalog on every remote change while ctx is live and
// active reports true, then calls onReload (if set). Redundant
// notifications only cause redundant reloads. Backends without a push
// channel return common.ErrNoPushChannel; callers poll with Load instead.
func (s *Service) Watch(ctx context.Context, active func() bool, onReload func()) (func(), error) {
	stop, err := s.backend.SubscribeProducts(ctx, func() {
		if ctx.Err() != nil || !active() {
			return
		}
		if _, err := s.Load(ctx); err != nil {
			s.logger.Warn(ctx, "reload on change failed", "error", err)
			return
		}
		if onReload != nil {
			onReload()
		}
	})
	if err != nil {
		return nil, fmt.Errorf("watch catalog: %w", err)
	}
	return stop, nil
}
