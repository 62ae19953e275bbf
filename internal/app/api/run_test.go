package api

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	storeports "github.com/Apurer/go-gin-marketplace/internal/domains/store/ports"
	usermemory "github.com/Apurer/go-gin-marketplace/internal/domains/users/adapters/memory"
	userports "github.com/Apurer/go-gin-marketplace/internal/domains/users/ports"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestOpenBackends_FallsBackToMemory(t *testing.T) {
	backends := OpenBackends(context.Background(), Config{KafkaOrdersTopic: "orders.placed"}, discardLogger())
	require.Nil(t, backends.DB)
	require.Nil(t, backends.Redis)
	require.Nil(t, backends.OrderEvents)

	repos := backends.Repositories(Config{})
	assert.IsType(t, &usermemory.Repository{}, repos.Users)
	assert.IsType(t, &usermemory.SessionStore{}, repos.Sessions)
	assert.Equal(t, storeports.NoopEventPublisher, repos.Events)
	require.NoError(t, backends.Close())
}

func TestPurgeSessions_RemovesExpired(t *testing.T) {
	store := usermemory.NewSessionStore()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, store.Save(ctx, userports.Session{ID: "old", UserID: "u1", ExpiresAt: time.Now().Add(-time.Minute)}))
	require.NoError(t, store.Save(ctx, userports.Session{ID: "live", UserID: "u1", ExpiresAt: time.Now().Add(time.Hour)}))

	done := make(chan struct{})
	go func() {
		defer close(done)
		purgeSessions(ctx, store, 10*time.Millisecond, discardLogger())
	}()

	require.Eventually(t, func() bool {
		_, err := store.Get(ctx, "old")
		return err != nil
	}, time.Second, 10*time.Millisecond)
	_, err := store.Get(ctx, "live")
	require.NoError(t, err)

	cancel()
	<-done
}
