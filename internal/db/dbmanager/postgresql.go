package dbmanager

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	_ "github.com/jackc/pgx/v4/stdlib"
	"github.com/rs/zerolog/log"
)

const (
	maxOpenConns    = 16
	maxIdleConns    = 4
	connMaxLifetime = 30 * time.Minute
)

type postgresqlDb struct {
	db               *sql.DB
	configuredScopes map[string]bool
	requests         atomic.Uint64
	returns          atomic.Uint64
}

var _ ScopedDb = (*postgresqlDb)(nil)

// NewPostgresqlDb opens a pool through the pgx database/sql driver. Only the
// configured scopes can be set on connections.
func NewPostgresqlDb(dsn string, configuredScopes []string) (*postgresqlDb, error) {
	if dsn == "" {
		return nil, fmt.Errorf("empty postgresql dsn")
	}
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(maxOpenConns)
	db.SetMaxIdleConns(maxIdleConns)
	db.SetConnMaxLifetime(connMaxLifetime)

	scopes := make(map[string]bool, len(configuredScopes))
	for _, s := range configuredScopes {
		scopes[s] = true
	}
	return &postgresqlDb{db: db, configuredScopes: scopes}, nil
}

func (p *postgresqlDb) Conn(ctx context.Context) (ScopedConn, error) {
	c, err := p.db.Conn(ctx)
	if err != nil {
		return nil, err
	}
	p.requests.Add(1)
	return &postgresqlConn{conn: c, pool: p, scopes: make(map[string]string)}, nil
}

func (p *postgresqlDb) Stats() (requests, returns uint64) {
	return p.requests.Load(), p.returns.Load()
}

func (p *postgresqlDb) Close() error {
	return p.db.Close()
}

type postgresqlConn struct {
	mu     sync.Mutex
	conn   *sql.Conn
	pool   *postgresqlDb
	scopes map[string]string
	closed bool
}

var _ ScopedConn = (*postgresqlConn)(nil)

func (c *postgresqlConn) AddScopes(ctx context.Context, scopes map[string]string) {
	for k, v := range scopes {
		c.AddScope(ctx, k, v)
	}
}

// AddScope sets a session variable on the connection. Unconfigured scopes are ignored.
func (c *postgresqlConn) AddScope(ctx context.Context, scope, value string) {
	if !c.pool.configuredScopes[scope] {
		log.Ctx(ctx).Error().Str("scope", scope).Msg("scope not configured")
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, err := c.conn.ExecContext(ctx, "SELECT set_config($1, $2, false)", scope, value); err != nil {
		log.Ctx(ctx).Error().Err(err).Str("scope", scope).Msg("unable to set scope")
		return
	}
	c.scopes[scope] = value
}

func (c *postgresqlConn) DropScopes(ctx context.Context, scopes []string) error {
	for _, s := range scopes {
		if err := c.DropScope(ctx, s); err != nil {
			return err
		}
	}
	return nil
}

func (c *postgresqlConn) DropScope(ctx context.Context, scope string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.scopes[scope]; !ok {
		return nil
	}
	if _, err := c.conn.ExecContext(ctx, "SELECT set_config($1, '', false)", scope); err != nil {
		return err
	}
	delete(c.scopes, scope)
	return nil
}

func (c *postgresqlConn) DropAllScopes(ctx context.Context) error {
	c.mu.Lock()
	scopes := make([]string, 0, len(c.scopes))
	for s := range c.scopes {
		scopes = append(scopes, s)
	}
	c.mu.Unlock()
	return c.DropScopes(ctx, scopes)
}

func (c *postgresqlConn) Conn() any {
	return c.conn
}

// Close drops the scopes and returns the connection to the pool.
func (c *postgresqlConn) Close(ctx context.Context) {
	if c.closed {
		return
	}
	if err := c.DropAllScopes(ctx); err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("unable to drop scopes")
	}
	if err := c.conn.Close(); err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("unable to close connection")
	}
	c.closed = true
	c.pool.returns.Add(1)
}
