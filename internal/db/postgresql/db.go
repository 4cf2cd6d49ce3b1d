package postgresql

import (
	"context"
	"database/sql"

	"github.com/mugiliam/hatchschemesrv/internal/db/dbmanager"
)

type hatchSchemesDb struct {
	c dbmanager.ScopedConn
}

func NewHatchSchemesDb(conn dbmanager.ScopedConn) *hatchSchemesDb {
	return &hatchSchemesDb{c: conn}
}

func (h *hatchSchemesDb) conn() *sql.Conn {
	return h.c.Conn().(*sql.Conn)
}

func (h *hatchSchemesDb) AddScopes(ctx context.Context, scopes map[string]string) {
	h.c.AddScopes(ctx, scopes)
}

func (h *hatchSchemesDb) DropScopes(ctx context.Context, scopes []string) error {
	return h.c.DropScopes(ctx, scopes)
}

func (h *hatchSchemesDb) AddScope(ctx context.Context, scope, value string) {
	h.c.AddScope(ctx, scope, value)
}

func (h *hatchSchemesDb) DropScope(ctx context.Context, scope string) error {
	return h.c.DropScope(ctx, scope)
}

func (h *hatchSchemesDb) DropAllScopes(ctx context.Context) error {
	return h.c.DropAllScopes(ctx)
}

func (h *hatchSchemesDb) Close(ctx context.Context) {
	h.c.Close(ctx)
}
