// Package linkstore keeps share links under short codes so a formation can
// be shared without the full query string.
package linkstore

import (
	"context"
	"errors"
	"sync"
	"time"
)

var ErrLinkNotFound = errors.New("link not found")
var ErrCodeTaken = errors.New("link code already taken")

// Link is a stored pair of link blobs.
type Link struct {
	Code      string    `json:"code"`
	Units     string    `json:"units"`
	Formation string    `json:"formation"`
	CreatedAt time.Time `json:"created_at"`
}

// Store persists links. Save never overwrites: a used code yields
// ErrCodeTaken and the caller picks another.
type Store interface {
	Save(ctx context.Context, link Link) error
	Get(ctx context.Context, code string) (Link, error)
	Close() error
}

// Memory is a process-local Store.
type Memory struct {
	mu    sync.RWMutex
	links map[string]Link
}

func NewMemory() *Memory {
	return &Memory{links: make(map[string]Link)}
}

func (m *Memory) Save(_ context.Context, link Link) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.links[link.Code]; ok {
		return ErrCodeTaken
	}
	if link.CreatedAt.IsZero() {
		link.CreatedAt = time.Now().UTC()
	}
	m.links[link.Code] = link
	return nil
}

func (m *Memory) Get(_ context.Context, code string) (Link, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	link, ok := m.links[code]
	if !ok {
		return Link{}, ErrLinkNotFound
	}
	return link, nil
}

func (m *Memory) Close() error { return nil }

// Open picks a backend: Postgres when databaseURL is set, else SQLite when
// sqlitePath is set, else Memory.
func Open(databaseURL, sqlitePath string) (Store, error) {
	switch {
	case databaseURL != "":
		return NewPostgres(databaseURL)
	case sqlitePath != "":
		return NewSQLite(sqlitePath)
	default:
		return NewMemory(), nil
	}
}
