package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "github.com/lib/pq"
)

// Pool settings applied to the shared handle on open.
const (
	maxOpenConns    = 25
	maxIdleConns    = 5
	connMaxLifetime = 30 * time.Minute
)

// OpenFunc establishes a database handle for the given connection string.
type OpenFunc func(ctx context.Context, dsn string) (*sql.DB, error)

// inflight is one connection attempt shared by every caller that arrives
// while it is unresolved.
type inflight struct {
	done chan struct{}
	db   *sql.DB
	err  error
}

// Connector owns the single shared database handle for the process. The
// handle is established lazily on first Connect; concurrent first callers
// share one physical connection attempt and receive the same resolved handle.
// A failed attempt is not cached: the in-flight slot is cleared so a later
// call retries.
type Connector struct {
	dsn  string
	open OpenFunc

	mu      sync.Mutex
	db      *sql.DB
	current *inflight
}

// NewConnector returns a Connector for the given connection string. Passing a
// nil open function uses the default lib/pq dial with pool settings applied.
func NewConnector(dsn string, open OpenFunc) *Connector {
	if open == nil {
		open = defaultOpen
	}
	return &Connector{dsn: dsn, open: open}
}

// Connect returns the shared handle, dialing on first use. Every caller that
// arrives during an unresolved attempt awaits that same attempt; its error,
// if any, propagates to all of them. After the handle is resolved, Connect
// returns it immediately.
func (c *Connector) Connect(ctx context.Context) (*sql.DB, error) {
	c.mu.Lock()
	if c.db != nil {
		db := c.db
		c.mu.Unlock()
		return db, nil
	}
	if c.current == nil {
		attempt := &inflight{done: make(chan struct{})}
		c.current = attempt
		go c.dial(attempt)
	}
	attempt := c.current
	c.mu.Unlock()

	select {
	case <-attempt.done:
		return attempt.db, attempt.err
	case <-ctx.Done():
		// The attempt keeps running; only this caller gives up.
		return nil, ctx.Err()
	}
}

func (c *Connector) dial(attempt *inflight) {
	db, err := c.open(context.Background(), c.dsn)
	c.mu.Lock()
	if err == nil {
		c.db = db
	}
	c.current = nil
	c.mu.Unlock()
	attempt.db = db
	attempt.err = err
	close(attempt.done)
}

func defaultOpen(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(maxOpenConns)
	db.SetMaxIdleConns(maxIdleConns)
	db.SetConnMaxLifetime(connMaxLifetime)
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return db, nil
}
