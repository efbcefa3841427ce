//go:build !integration

package sched

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	red "bos-storefront/internal/infra/redis"
)

type mockExpirer struct {
	ExpireOverdueFunc func(ctx context.Context) (int, error)
	calls             int
}

func (m *mockExpirer) ExpireOverdue(ctx context.Context) (int, error) {
	m.calls++
	return m.ExpireOverdueFunc(ctx)
}

type mockLocker struct {
	TryLockFunc func(ctx context.Context, key string, ttl time.Duration) (string, error)
	unlocked    []string
}

func (m *mockLocker) TryLock(ctx context.Context, key string, ttl time.Duration) (string, error) {
	return m.TryLockFunc(ctx, key, ttl)
}

func (m *mockLocker) Unlock(ctx context.Context, key, token string) error {
	m.unlocked = append(m.unlocked, key+"="+token)
	return nil
}

func TestExpiryWorker_Sweep(t *testing.T) {
	logger := zerolog.Nop()

	t.Run("expires under the lock and releases it", func(t *testing.T) {
		// Arrange
		uc := &mockExpirer{ExpireOverdueFunc: func(ctx context.Context) (int, error) { return 3, nil }}
		var gotTTL time.Duration
		locker := &mockLocker{TryLockFunc: func(ctx context.Context, key string, ttl time.Duration) (string, error) {
			gotTTL = ttl
			return "tok", nil
		}}
		w := NewExpiryWorker(time.Hour, uc, locker, &logger)

		// Act
		n := w.sweep(context.Background())

		// Assert
		if n != 3 || uc.calls != 1 {
			t.Fatalf("expected 3 expired in one call, got %d after %d calls", n, uc.calls)
		}
		if gotTTL != 30*time.Minute {
			t.Errorf("expected lock ttl of half the interval, got %v", gotTTL)
		}
		if len(locker.unlocked) != 1 || locker.unlocked[0] != expiryLockKey+"=tok" {
			t.Errorf("expected lock release, got %v", locker.unlocked)
		}
	})

	t.Run("skips when another replica holds the lock", func(t *testing.T) {
		uc := &mockExpirer{ExpireOverdueFunc: func(ctx context.Context) (int, error) { return 1, nil }}
		locker := &mockLocker{TryLockFunc: func(ctx context.Context, key string, ttl time.Duration) (string, error) {
			return "", red.ErrLockNotAcquired
		}}
		w := NewExpiryWorker(time.Hour, uc, locker, &logger)

		if n := w.sweep(context.Background()); n != -1 || uc.calls != 0 {
			t.Fatalf("expected skip, got n=%d calls=%d", n, uc.calls)
		}
		if len(locker.unlocked) != 0 {
			t.Error("must not unlock a lock it never held")
		}
	})

	t.Run("runs without a locker", func(t *testing.T) {
		uc := &mockExpirer{ExpireOverdueFunc: func(ctx context.Context) (int, error) { return 0, nil }}
		w := NewExpiryWorker(0, uc, nil, &logger)

		if n := w.sweep(context.Background()); n != 0 || uc.calls != 1 {
			t.Fatalf("expected one call, got n=%d calls=%d", n, uc.calls)
		}
		if w.interval != time.Hour {
			t.Errorf("expected default interval, got %v", w.interval)
		}
	})

	t.Run("nil logger is tolerated", func(t *testing.T) {
		uc := &mockExpirer{ExpireOverdueFunc: func(ctx context.Context) (int, error) { return 0, errors.New("db down") }}
		w := NewExpiryWorker(time.Hour, uc, nil, nil)

		if n := w.sweep(context.Background()); n != 0 || uc.calls != 1 {
			t.Fatalf("expected one logged failure, got n=%d calls=%d", n, uc.calls)
		}
	})

	t.Run("use case errors are swallowed", func(t *testing.T) {
		uc := &mockExpirer{ExpireOverdueFunc: func(ctx context.Context) (int, error) { return 0, errors.New("db down") }}
		w := NewExpiryWorker(time.Hour, uc, nil, &logger)

		if n := w.sweep(context.Background()); n != 0 {
			t.Fatalf("expected 0, got %d", n)
		}
	})
}

func TestExpiryWorker_RunStopsOnCancel(t *testing.T) {
	logger := zerolog.Nop()
	uc := &mockExpirer{ExpireOverdueFunc: func(ctx context.Context) (int, error) { return 0, nil }}
	w := NewExpiryWorker(time.Hour, uc, nil, &logger)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context.Canceled, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not stop")
	}
}
