// Package carousel holds the ordered promotional slides: admin CRUD,
// persisted under their own kv key, plus the active index with wraparound
// navigation and a single autoplay timer.
package carousel

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/AbdoulayeSG/site-antigravi/internal/common"
	"github.com/AbdoulayeSG/site-antigravi/internal/kvstore"
	"github.com/AbdoulayeSG/site-antigravi/internal/logging"
	"github.com/AbdoulayeSG/site-antigravi/internal/models"
)

const DefaultInterval = 5 * time.Second

type Manager struct {
	kv       kvstore.Store
	interval time.Duration
	logger   logging.Logger

	mu       sync.Mutex
	slides   []models.Slide
	active   int
	onChange func(active int)
	running  bool

	// reset restarts the autoplay period after manual navigation.
	reset chan struct{}
}

func NewManager(kv kvstore.Store, interval time.Duration, logger logging.Logger) *Manager {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Manager{
		kv:       kv,
		interval: interval,
		logger:   logger.With("module", "carousel"),
		slides:   models.DefaultSlides(),
		reset:    make(chan struct{}, 1),
	}
}

// Load reads the stored slides, falling back to the built-in defaults, and
// activates index 0.
func (m *Manager) Load(ctx context.Context) error {
	var slides []models.Slide
	ok, err := kvstore.GetJSON(ctx, m.kv, kvstore.KeySlides, &slides)
	if err != nil {
		return fmt.Errorf("load slides: %w", err)
	}
	if !ok {
		slides = models.DefaultSlides()
	}

	m.mu.Lock()
	m.slides = slides
	m.active = 0
	m.mu.Unlock()

	m.changed()
	return nil
}

// OnChange registers the callback that receives the new active index.
func (m *Manager) OnChange(fn func(active int)) {
	m.mu.Lock()
	m.onChange = fn
	m.mu.Unlock()
}

func (m *Manager) Slides() []models.Slide {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.Slide{}, m.slides...)
}

func (m *Manager) Active() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.active
}

// Current returns the active slide; ok is false when there are no slides.
func (m *Manager) Current() (models.Slide, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.slides) == 0 {
		return models.Slide{}, false
	}
	return m.slides[m.active], true
}

func (m *Manager) Add(ctx context.Context, s models.Slide) error {
	if err := validate(s); err != nil {
		return err
	}
	_, err := m.mutate(ctx, func(slides []models.Slide) ([]models.Slide, bool) {
		return append(slides, s), true
	})
	return err
}

// Update replaces slide i. An out-of-range index is a no-op.
func (m *Manager) Update(ctx context.Context, i int, s models.Slide) error {
	if err := validate(s); err != nil {
		return err
	}
	_, err := m.mutate(ctx, func(slides []models.Slide) ([]models.Slide, bool) {
		if i < 0 || i >= len(slides) {
			return slides, false
		}
		slides[i] = s
		return slides, true
	})
	return err
}

// Remove deletes slide i once confirm accepts. A declined confirmation or an
// out-of-range index changes nothing and reports false.
func (m *Manager) Remove(ctx context.Context, i int, confirm common.ConfirmFunc) (bool, error) {
	if !confirm("Êtes-vous sûr de vouloir supprimer ce slide ?") {
		return false, nil
	}

	return m.mutate(ctx, func(slides []models.Slide) ([]models.Slide, bool) {
		if i < 0 || i >= len(slides) {
			return slides, false
		}
		return append(slides[:i], slides[i+1:]...), true
	})
}

// GoTo activates slide k modulo the slide count and restarts the autoplay
// period. Going to the active slide re-applies it.
func (m *Manager) GoTo(k int) {
	m.mu.Lock()
	n := len(m.slides)
	if n == 0 {
		m.mu.Unlock()
		return
	}
	m.active = ((k % n) + n) % n
	m.mu.Unlock()

	m.changed()
	m.restartTimer()
}

func (m *Manager) Next() {
	m.GoTo(m.Active() + 1)
}

func (m *Manager) Previous() {
	m.GoTo(m.Active() - 1)
}

// Reset re-renders from the first slide.
func (m *Manager) Reset() {
	m.GoTo(0)
}

// Run advances the active slide every interval until ctx is done. Manual
// navigation restarts the period. A second concurrent Run returns at once.
func (m *Manager) Run(ctx context.Context) {
	m.mu.Lock()
	if m.running {
		m.mu.Unlock()
		return
	}
	m.running = true
	m.mu.Unlock()

	defer func() {
		m.mu.Lock()
		m.running = false
		m.mu.Unlock()
	}()

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.advance()
		case <-m.reset:
			ticker.Reset(m.interval)
		case <-ctx.Done():
			return
		}
	}
}

func (m *Manager) advance() {
	m.mu.Lock()
	n := len(m.slides)
	if n == 0 {
		m.mu.Unlock()
		return
	}
	m.active = (m.active + 1) % n
	m.mu.Unlock()

	m.changed()
}

func (m *Manager) restartTimer() {
	select {
	case m.reset <- struct{}{}:
	default:
	}
}

func (m *Manager) changed() {
	m.mu.Lock()
	fn, active := m.onChange, m.active
	m.mu.Unlock()

	if fn != nil {
		fn(active)
	}
}

// mutate applies fn to a copy of the slides and, when fn reports a change,
// persists the result and re-renders from index 0.
func (m *Manager) mutate(ctx context.Context, fn func([]models.Slide) ([]models.Slide, bool)) (bool, error) {
	m.mu.Lock()
	next, changed := fn(append([]models.Slide{}, m.slides...))
	m.mu.Unlock()

	if !changed {
		return false, nil
	}
	if err := kvstore.SetJSON(ctx, m.kv, kvstore.KeySlides, next); err != nil {
		return false, fmt.Errorf("save slides: %w", err)
	}

	m.mu.Lock()
	m.slides = next
	m.mu.Unlock()

	m.logger.Debug(ctx, "slides saved", "count", len(next))
	m.Reset()
	return true, nil
}

func validate(s models.Slide) error {
	if strings.TrimSpace(s.Image) == "" || strings.TrimSpace(s.Title) == "" {
		return fmt.Errorf("slide image and title are required: %w", common.ErrValidation)
	}
	return nil
}
