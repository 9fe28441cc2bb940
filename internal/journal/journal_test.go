package journal

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_RecentNewestFirstPerSession(t *testing.T) {
	m := NewMemoryStore(10)
	ctx := context.Background()

	require.NoError(t, m.Record(ctx, Entry{Session: "AAA111", Action: "advance", Outcome: OutcomeOK, Turn: 1}))
	require.NoError(t, m.Record(ctx, Entry{Session: "BBB222", Action: "reset", Outcome: OutcomeOK}))
	require.NoError(t, m.Record(ctx, Entry{Session: "AAA111", Action: "add-zombie", Outcome: OutcomeSoft, Turn: 1}))

	got, err := m.Recent(ctx, "AAA111", 5)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "add-zombie", got[0].Action)
	assert.Equal(t, "advance", got[1].Action)
	assert.Greater(t, got[0].ID, got[1].ID)
	assert.False(t, got[0].CreatedAt.IsZero())
}

func TestMemoryStore_EvictsOldest(t *testing.T) {
	m := NewMemoryStore(3)
	ctx := context.Background()
	for i := 1; i <= 5; i++ {
		require.NoError(t, m.Record(ctx, Entry{Session: "S", Action: fmt.Sprintf("a%d", i)}))
	}

	got, err := m.Recent(ctx, "S", 10)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, []string{"a5", "a4", "a3"}, []string{got[0].Action, got[1].Action, got[2].Action})
}

func TestMemoryStore_Limit(t *testing.T) {
	m := NewMemoryStore(10)
	ctx := context.Background()
	for i := 0; i < 4; i++ {
		require.NoError(t, m.Record(ctx, Entry{Session: "S"}))
	}

	got, err := m.Recent(ctx, "S", 2)
	require.NoError(t, err)
	assert.Len(t, got, 2)

	_, err = m.Recent(ctx, "S", 0)
	assert.ErrorIs(t, err, ErrInvalidLimit)
}

func TestMemoryStore_KeepsGivenTimestamp(t *testing.T) {
	m := NewMemoryStore(2)
	at := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, m.Record(context.Background(), Entry{Session: "S", CreatedAt: at}))

	got, err := m.Recent(context.Background(), "S", 1)
	require.NoError(t, err)
	assert.Equal(t, at, got[0].CreatedAt)
}

func TestOpen_EmptyDSNIsMemory(t *testing.T) {
	s, err := Open("", 5)
	require.NoError(t, err)
	assert.IsType(t, &MemoryStore{}, s)
}

// Runs against a real database only when JOURNAL_TEST_DSN is set.
func TestGormStore_Postgres(t *testing.T) {
	dsn := os.Getenv("JOURNAL_TEST_DSN")
	if dsn == "" {
		t.Skip("JOURNAL_TEST_DSN not set")
	}

	g, err := OpenPostgres(dsn)
	require.NoError(t, err)
	defer g.Close()

	ctx := context.Background()
	session := fmt.Sprintf("T%d", time.Now().UnixNano()%1_000_000)
	require.NoError(t, g.Record(ctx, Entry{Session: session, Action: "advance", Outcome: OutcomeOK, Turn: 3}))
	require.NoError(t, g.Record(ctx, Entry{Session: session, Action: "clean-room", Outcome: OutcomeSoft}))

	got, err := g.Recent(ctx, session, 10)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "clean-room", got[0].Action)
	assert.Equal(t, 3, got[1].Turn)
}
