package db

import (
	"context"

	"github.com/mugiliam/hatchschemesrv/internal/db/dbmanager"
	"github.com/mugiliam/hatchschemesrv/internal/db/dberror"
	"github.com/mugiliam/hatchschemesrv/internal/db/models"
	"github.com/mugiliam/hatchschemesrv/internal/db/postgresql"
	"github.com/rs/zerolog/log"
)

// DB_ is an interface for the database connection. It wraps the underlying sql.Conn interface while
// adding the ability to manage scopes.
type DB_ interface {
	// Schema
	EnsureSchema(ctx context.Context) error

	// Scheme files
	UpsertSchemeFile(ctx context.Context, file *models.SchemeFile) error
	GetSchemeFile(ctx context.Context, directory, fileName string) (*models.SchemeFile, error)
	ListSchemeFiles(ctx context.Context, directory string) ([]string, error)
	DeleteSchemeFile(ctx context.Context, directory, fileName string) error

	// Scope Management
	AddScopes(ctx context.Context, scopes map[string]string)
	DropScopes(ctx context.Context, scopes []string) error
	AddScope(ctx context.Context, scope, value string)
	DropScope(ctx context.Context, scope string) error
	DropAllScopes(ctx context.Context) error

	// Close the connection to the database.
	Close(ctx context.Context)
}

const (
	Scope_ProjectId string = "hatch.curr_projectid"
)

var configuredScopes = []string{
	Scope_ProjectId,
}

// Open creates a scoped connection pool for the given dsn.
func Open(ctx context.Context, dsn string) (dbmanager.ScopedDb, error) {
	pool := dbmanager.NewScopedDb(ctx, "postgresql", dsn, configuredScopes)
	if pool == nil {
		return nil, dberror.ErrNoConnection.Msg("unable to create db pool")
	}
	return pool, nil
}

// Conn returns a DB_ over a new connection from the pool, or nil.
func Conn(ctx context.Context, pool dbmanager.ScopedDb) DB_ {
	if pool == nil {
		log.Ctx(ctx).Error().Msg("no db pool")
		return nil
	}
	conn, err := pool.Conn(ctx)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("unable to get db connection")
		return nil
	}
	return postgresql.NewHatchSchemesDb(conn)
}
