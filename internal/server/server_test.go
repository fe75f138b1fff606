package server

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-quest-ledger/internal/config"
	"github.com/MKhiriev/go-quest-ledger/internal/handler"
	"github.com/MKhiriev/go-quest-ledger/internal/logger"
)

type journal struct {
	mu     sync.Mutex
	events []string
}

func (j *journal) add(event string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.events = append(j.events, event)
}

func (j *journal) list() []string {
	j.mu.Lock()
	defer j.mu.Unlock()
	return append([]string(nil), j.events...)
}

type fakeHTTP struct {
	j        *journal
	stopped  chan struct{}
	stopOnce sync.Once
}

func (f *fakeHTTP) RunServer() {
	f.j.add("http run")
	<-f.stopped
}

func (f *fakeHTTP) Shutdown() {
	f.j.add("http shutdown")
	f.stopOnce.Do(func() { close(f.stopped) })
}

type fakeWorker struct{ j *journal }

func (f fakeWorker) Start(context.Context) { f.j.add("workers start") }
func (f fakeWorker) Stop()                 { f.j.add("workers stop") }

func TestServer_RunStopsOnContextCancel(t *testing.T) {
	j := &journal{}
	s := &server{
		httpServer: &fakeHTTP{j: j, stopped: make(chan struct{})},
		workers:    fakeWorker{j: j},
		logger:     logger.Nop(),
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.run(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool { return len(j.list()) == 2 }, time.Second, 5*time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("run did not return after cancel")
	}

	events := j.list()
	require.Len(t, events, 4)
	assert.Equal(t, "workers start", events[0])
	assert.Equal(t, "http run", events[1])
	assert.Equal(t, []string{"http shutdown", "workers stop"}, events[2:])
}

func TestNewServer_NothingToServe(t *testing.T) {
	tests := []struct {
		name     string
		handlers *handler.Handlers
		cfg      config.Server
	}{
		{name: "nil handlers", cfg: config.Server{HTTPAddress: ":8080"}},
		{name: "no http handler", handlers: &handler.Handlers{}, cfg: config.Server{HTTPAddress: ":8080"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := NewServer(tt.handlers, nil, tt.cfg, logger.Nop())

			require.ErrorIs(t, err, errNoServersAreCreated)
			assert.Nil(t, s)
		})
	}
}
