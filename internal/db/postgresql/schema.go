package postgresql

import (
	"context"

	"github.com/mugiliam/hatchschemesrv/internal/db/dberror"
	"github.com/rs/zerolog/log"
)

const schemeFilesDDL = `
	CREATE TABLE IF NOT EXISTS scheme_files (
		project_id VARCHAR(64) NOT NULL,
		directory VARCHAR(512) NOT NULL,
		file_name VARCHAR(255) NOT NULL,
		content BYTEA NOT NULL,
		info JSONB,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		PRIMARY KEY (project_id, directory, file_name)
	);
`

// EnsureSchema creates the tables used by the scheme store.
func (h *hatchSchemesDb) EnsureSchema(ctx context.Context) error {
	if _, err := h.conn().ExecContext(ctx, schemeFilesDDL); err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("failed to create scheme_files table")
		return dberror.ErrDatabase.Err(err)
	}
	return nil
}
