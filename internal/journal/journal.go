package journal

import (
	"context"
	"errors"
	"sync"
	"time"
)

var ErrInvalidLimit = errors.New("limit must be positive")

type Outcome string

const (
	OutcomeOK    Outcome = "ok"
	OutcomeSoft  Outcome = "soft" // request succeeded, server declined
	OutcomeError Outcome = "error"
)

// Entry is one resolved dashboard action.
type Entry struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Session   string    `gorm:"index;size:16" json:"session"`
	Action    string    `gorm:"size:32" json:"action"`
	Outcome   Outcome   `gorm:"size:8" json:"outcome"`
	Message   string    `json:"message"`
	Turn      int       `json:"turn"`
	Infested  int       `json:"infested"`
	CreatedAt time.Time `json:"created_at"`
}

func (Entry) TableName() string { return "journal_entries" }

type Store interface {
	Record(ctx context.Context, e Entry) error
	// Recent returns up to limit entries of session, newest first.
	Recent(ctx context.Context, session string, limit int) ([]Entry, error)
}

// MemoryStore keeps the last size entries across all sessions.
type MemoryStore struct {
	mu     sync.Mutex
	size   int
	nextID uint
	ring   []Entry
	now    func() time.Time
}

func NewMemoryStore(size int) *MemoryStore {
	if size < 1 {
		size = 1
	}
	return &MemoryStore{size: size, now: time.Now}
}

func (m *MemoryStore) Record(_ context.Context, e Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextID++
	e.ID = m.nextID
	if e.CreatedAt.IsZero() {
		e.CreatedAt = m.now()
	}
	if len(m.ring) == m.size {
		copy(m.ring, m.ring[1:])
		m.ring = m.ring[:len(m.ring)-1]
	}
	m.ring = append(m.ring, e)
	return nil
}

func (m *MemoryStore) Recent(_ context.Context, session string, limit int) ([]Entry, error) {
	if limit < 1 {
		return nil, ErrInvalidLimit
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	out := []Entry{}
	for i := len(m.ring) - 1; i >= 0 && len(out) < limit; i-- {
		if m.ring[i].Session == session {
			out = append(out, m.ring[i])
		}
	}
	return out, nil
}
