package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Apurer/go-order-bot/internal/domains/ordering/domain"
)

func TestSessionStore_CreatesLazily(t *testing.T) {
	store := NewSessionStore()
	ctx := context.Background()

	err := store.WithSession(ctx, "7", func(s *domain.Session) error {
		require.Equal(t, domain.UserID("7"), s.UserID)
		require.Equal(t, domain.StateIdle, s.State)
		require.True(t, s.Cart.IsEmpty())
		s.Cart.Add("Tea")
		return nil
	})
	require.NoError(t, err)

	require.NoError(t, store.WithSession(ctx, "7", func(s *domain.Session) error {
		require.Equal(t, 1, s.Cart.Quantity("Tea"))
		return nil
	}))
	require.Equal(t, 1, store.Len())
}

func TestSessionStore_RejectsEmptyID(t *testing.T) {
	store := NewSessionStore()
	err := store.WithSession(context.Background(), "", func(*domain.Session) error { return nil })
	require.ErrorIs(t, err, domain.ErrInvalidUserID)
	require.Zero(t, store.Len())
}

func TestSessionStore_SerializesSameUser(t *testing.T) {
	store := NewSessionStore()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = store.WithSession(ctx, "1", func(s *domain.Session) error {
				s.Cart.Add("Samsa")
				return nil
			})
		}()
	}
	wg.Wait()

	require.NoError(t, store.WithSession(ctx, "1", func(s *domain.Session) error {
		require.Equal(t, 50, s.Cart.Quantity("Samsa"))
		return nil
	}))
}

func TestSessionStore_OtherUsersProceedWhileOneIsBusy(t *testing.T) {
	store := NewSessionStore()
	ctx := context.Background()

	entered := make(chan struct{})
	release := make(chan struct{})
	go func() {
		_ = store.WithSession(ctx, "busy", func(*domain.Session) error {
			close(entered)
			<-release
			return nil
		})
	}()
	<-entered
	defer close(release)

	done := make(chan struct{})
	go func() {
		_ = store.WithSession(ctx, "other", func(*domain.Session) error { return nil })
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("unrelated user was blocked")
	}
}

func TestSessionStore_WaitHonoursContext(t *testing.T) {
	store := NewSessionStore()

	entered := make(chan struct{})
	release := make(chan struct{})
	go func() {
		_ = store.WithSession(context.Background(), "1", func(*domain.Session) error {
			close(entered)
			<-release
			return nil
		})
	}()
	<-entered
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	called := false
	err := store.WithSession(ctx, "1", func(*domain.Session) error {
		called = true
		return nil
	})
	require.ErrorIs(t, err, context.DeadlineExceeded)
	require.False(t, called)
}
