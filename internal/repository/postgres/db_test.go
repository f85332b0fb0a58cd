package postgres

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
)

func newFakeHandle(t *testing.T) *sql.DB {
	t.Helper()
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestConnector_Connect_SharesOneAttempt(t *testing.T) {
	handle := newFakeHandle(t)
	var attempts int32
	release := make(chan struct{})

	c := NewConnector("postgres://test", func(ctx context.Context, dsn string) (*sql.DB, error) {
		atomic.AddInt32(&attempts, 1)
		<-release
		return handle, nil
	})

	const callers = 10
	results := make([]*sql.DB, callers)
	errs := make([]error, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = c.Connect(context.Background())
		}(i)
	}

	// Give every caller time to join the in-flight attempt, then resolve it.
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	require.Equal(t, int32(1), atomic.LoadInt32(&attempts), "exactly one physical connection attempt")
	for i := 0; i < callers; i++ {
		require.NoError(t, errs[i])
		require.Same(t, handle, results[i], "all callers receive the identical handle")
	}
}

func TestConnector_Connect_ReturnsCachedHandle(t *testing.T) {
	handle := newFakeHandle(t)
	var attempts int32

	c := NewConnector("postgres://test", func(ctx context.Context, dsn string) (*sql.DB, error) {
		atomic.AddInt32(&attempts, 1)
		return handle, nil
	})

	first, err := c.Connect(context.Background())
	require.NoError(t, err)
	second, err := c.Connect(context.Background())
	require.NoError(t, err)
	require.Same(t, first, second)
	require.Equal(t, int32(1), atomic.LoadInt32(&attempts))
}

func TestConnector_Connect_FailurePropagatesAndAllowsRetry(t *testing.T) {
	handle := newFakeHandle(t)
	dialErr := errors.New("connection refused")
	var attempts int32

	c := NewConnector("postgres://test", func(ctx context.Context, dsn string) (*sql.DB, error) {
		if atomic.AddInt32(&attempts, 1) == 1 {
			return nil, dialErr
		}
		return handle, nil
	})

	_, err := c.Connect(context.Background())
	require.ErrorIs(t, err, dialErr)

	// The failed attempt must not be cached: the next call dials again.
	db, err := c.Connect(context.Background())
	require.NoError(t, err)
	require.Same(t, handle, db)
	require.Equal(t, int32(2), atomic.LoadInt32(&attempts))
}

func TestConnector_Connect_FailurePropagatesToAllWaiters(t *testing.T) {
	dialErr := errors.New("connection refused")
	release := make(chan struct{})

	c := NewConnector("postgres://test", func(ctx context.Context, dsn string) (*sql.DB, error) {
		<-release
		return nil, dialErr
	})

	const callers = 5
	errs := make([]error, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = c.Connect(context.Background())
		}(i)
	}
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	for i := 0; i < callers; i++ {
		require.ErrorIs(t, errs[i], dialErr)
	}
}

func TestConnector_Connect_ContextCancellation(t *testing.T) {
	block := make(chan struct{})
	defer close(block)

	c := NewConnector("postgres://test", func(ctx context.Context, dsn string) (*sql.DB, error) {
		<-block
		return nil, errors.New("never reached")
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := c.Connect(ctx)
	require.ErrorIs(t, err, context.Canceled)
}
