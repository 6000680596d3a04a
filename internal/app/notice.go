package app

import (
	"sync"
	"time"
)

type Level string

const (
	LevelSuccess Level = "success"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// Notice is a transient user-facing message.
type Notice struct {
	Level   Level
	Text    string
	Expires time.Time
}

type noticeBoard struct {
	mu    sync.Mutex
	items []Notice
	seen  int
}

func (b *noticeBoard) add(n Notice) {
	b.mu.Lock()
	b.items = append(b.items, n)
	b.mu.Unlock()
}

// live drops expired notices and returns the rest.
func (b *noticeBoard) live(now time.Time) []Notice {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.prune(now)
	return append([]Notice{}, b.items...)
}

// take returns live notices not returned by a previous take.
func (b *noticeBoard) take(now time.Time) []Notice {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.prune(now)
	out := append([]Notice{}, b.items[b.seen:]...)
	b.seen = len(b.items)
	return out
}

// prune must be called with mu held.
func (b *noticeBoard) prune(now time.Time) {
	kept := b.items[:0]
	seen := 0
	for i, n := range b.items {
		if !now.Before(n.Expires) {
			continue
		}
		if i < b.seen {
			seen++
		}
		kept = append(kept, n)
	}
	b.items = kept
	b.seen = seen
}

// Notices returns the notices that have not expired yet.
func (c *Controller) Notices() []Notice {
	return c.notices.live(c.now())
}

// TakeNotices returns live notices not yet taken, for surfaces that print
// each notice once.
func (c *Controller) TakeNotices() []Notice {
	return c.notices.take(c.now())
}

func (c *Controller) notify(level Level, text string) {
	c.notices.add(Notice{Level: level, Text: text, Expires: c.now().Add(c.noticeTTL)})
}

func (c *Controller) success(text string) { c.notify(LevelSuccess, text) }
func (c *Controller) warn(text string) { c.notify(LevelWarning, text) }
func (c *Controller) alert(text string) { c.notify(LevelError, text) }
