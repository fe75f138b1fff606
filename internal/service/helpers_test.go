package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-quest-ledger/internal/logger"
	"github.com/MKhiriev/go-quest-ledger/internal/store"
	"github.com/MKhiriev/go-quest-ledger/models"
)

var testTime = time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

// recordingNotifier keeps every event it is handed.
type recordingNotifier struct {
	mu     sync.Mutex
	events []models.Event
}

func (n *recordingNotifier) Notify(_ context.Context, event models.Event) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, event)
}

func (n *recordingNotifier) types() []models.EventType {
	n.mu.Lock()
	defer n.mu.Unlock()
	types := make([]models.EventType, 0, len(n.events))
	for _, e := range n.events {
		types = append(types, e.Type)
	}
	return types
}

func (n *recordingNotifier) last() models.Event {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.events[len(n.events)-1]
}

func newFileStorage(t *testing.T) store.Storage {
	t.Helper()
	s, err := store.NewFileStorage(t.TempDir(), logger.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func seedUser(t *testing.T, s store.Storage, id string, trials, points int64) models.User {
	t.Helper()
	u := models.User{
		ID:           id,
		Name:         "User " + id,
		Email:        id + "@example.com",
		Phone:        "",
		PasswordHash: "hash",
		FreeTrials:   trials,
		Points:       points,
		CreatedAt:    testTime,
	}
	require.NoError(t, s.CreateUser(context.Background(), u))
	return u
}

func balanceOf(t *testing.T, s store.Storage, id string) models.Balance {
	t.Helper()
	u, err := s.GetUserByID(context.Background(), id)
	require.NoError(t, err)
	return u.Balance()
}
