// Package gallery keeps generated stickers in memory and caches their
// background-removed versions.
package gallery

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/maax3v3/diecut/internal/generator"
)

// ErrNotFound is returned for unknown sticker ids.
var ErrNotFound = errors.New("sticker not found")

// Remover clears the background of a data-URI image.
type Remover interface {
	RemoveBackground(ctx context.Context, src string) (string, error)
}

// RemoverFunc adapts a function to Remover.
type RemoverFunc func(ctx context.Context, src string) (string, error)

// RemoveBackground implements Remover.
func (f RemoverFunc) RemoveBackground(ctx context.Context, src string) (string, error) {
	return f(ctx, src)
}

// Sticker is one gallery entry.
type Sticker struct {
	ID          string          `json:"id"`
	ImageURL    string          `json:"imageUrl"`
	Prompt      string          `json:"prompt"`
	Theme       generator.Theme `json:"theme"`
	CreatedAt   time.Time       `json:"createdAt"`
	Transparent bool            `json:"transparent"`
}

// Filename returns the download name of the sticker's current image.
func Filename(s Sticker) string {
	theme := strings.ReplaceAll(string(s.Theme), " ", "-")
	suffix := ""
	if s.Transparent {
		suffix = "-transparent"
	}
	return fmt.Sprintf("sticker-%s-%s%s.png", theme, s.ID, suffix)
}

type entry struct {
	Sticker
	processed string
	pending   chan struct{} // closed when an in-flight removal finishes
}

// Store is an in-memory, newest-first sticker gallery. It is safe for
// concurrent use.
type Store struct {
	mu      sync.RWMutex
	items   []*entry
	remover Remover
	now     func() time.Time
}

// NewStore creates an empty gallery that uses r to remove backgrounds.
func NewStore(r Remover) *Store {
	return &Store{remover: r, now: time.Now}
}

// Add stores a new sticker in front of the gallery and returns it.
func (s *Store) Add(imageURL, prompt string, theme generator.Theme) Sticker {
	e := &entry{Sticker: Sticker{
		ID:        uuid.NewString(),
		ImageURL:  imageURL,
		Prompt:    prompt,
		Theme:     theme,
		CreatedAt: s.now(),
	}}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append([]*entry{e}, s.items...)
	return e.Sticker
}

// List returns all stickers, newest first.
func (s *Store) List() []Sticker {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Sticker, len(s.items))
	for i, e := range s.items {
		out[i] = e.Sticker
	}
	return out
}

// Len returns the number of stickers.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// Get returns the sticker with the given id.
func (s *Store) Get(id string) (Sticker, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, _ := s.find(id)
	if e == nil {
		return Sticker{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return e.Sticker, nil
}

// Remove deletes the sticker with the given id.
func (s *Store) Remove(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, i := s.find(id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	s.items = append(s.items[:i], s.items[i+1:]...)
	return nil
}

// Current returns the image currently shown for the sticker: the
// processed version when transparency is on, the original otherwise.
func (s *Store) Current(id string) (string, Sticker, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, _ := s.find(id)
	if e == nil {
		return "", Sticker{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if e.Transparent && e.processed != "" {
		return e.processed, e.Sticker, nil
	}
	return e.ImageURL, e.Sticker, nil
}

// ToggleBackground switches the sticker between its original and its
// transparent version. The background is removed at most once per
// sticker; later toggles reuse the cached result. A toggle that arrives
// while the removal is running waits for it and reports its outcome
// instead of starting another one. If removal fails the sticker stays on
// its original image.
func (s *Store) ToggleBackground(ctx context.Context, id string) (Sticker, error) {
	s.mu.Lock()
	e, _ := s.find(id)
	if e == nil {
		s.mu.Unlock()
		return Sticker{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if wait := e.pending; wait != nil {
		s.mu.Unlock()
		return s.awaitRemoval(ctx, id, wait)
	}
	if e.Transparent || e.processed != "" {
		e.Transparent = !e.Transparent
		st := e.Sticker
		s.mu.Unlock()
		return st, nil
	}
	src := e.ImageURL
	done := make(chan struct{})
	e.pending = done
	s.mu.Unlock()

	// The fill runs without the lock; the source is immutable.
	processed, err := s.remover.RemoveBackground(ctx, src)

	s.mu.Lock()
	defer s.mu.Unlock()
	e.pending = nil
	close(done)
	if err != nil {
		return Sticker{}, fmt.Errorf("removing background: %w", err)
	}
	if cur, _ := s.find(id); cur == nil {
		return Sticker{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	e.processed = processed
	e.Transparent = true
	return e.Sticker, nil
}

// awaitRemoval blocks until the in-flight removal signalled by wait ends.
func (s *Store) awaitRemoval(ctx context.Context, id string, wait <-chan struct{}) (Sticker, error) {
	select {
	case <-wait:
	case <-ctx.Done():
		return Sticker{}, ctx.Err()
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	e, _ := s.find(id)
	if e == nil {
		return Sticker{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if !e.Transparent {
		return Sticker{}, errors.New("removing background: concurrent removal failed")
	}
	return e.Sticker, nil
}

func (s *Store) find(id string) (*entry, int) {
	for i, e := range s.items {
		if e.ID == id {
			return e, i
		}
	}
	return nil, -1
}
