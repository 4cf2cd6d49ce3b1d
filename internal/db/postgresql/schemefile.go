package postgresql

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgconn"
	"github.com/mugiliam/hatchschemesrv/internal/common"
	"github.com/mugiliam/hatchschemesrv/internal/db/dberror"
	"github.com/mugiliam/hatchschemesrv/internal/db/models"
	"github.com/rs/zerolog/log"
)

const pgCheckViolation = "23514"

// UpsertSchemeFile inserts a scheme file or replaces the content of an existing one.
// The project is taken from the context.
func (h *hatchSchemesDb) UpsertSchemeFile(ctx context.Context, file *models.SchemeFile) error {
	projectID := common.ProjectIdFromContext(ctx)

	if file.Directory == "" || file.FileName == "" {
		log.Ctx(ctx).Error().Msg("directory and file name are required")
		return dberror.ErrInvalidInput.Msg("directory and file name are required")
	}

	query := `
		INSERT INTO scheme_files (project_id, directory, file_name, content, info, updated_at)
		VALUES ($1, $2, $3, $4, $5, now())
		ON CONFLICT (project_id, directory, file_name)
		DO UPDATE SET content = EXCLUDED.content, info = EXCLUDED.info, updated_at = now()
		RETURNING updated_at;
	`

	row := h.conn().QueryRowContext(ctx, query, string(projectID), file.Directory, file.FileName, file.Content, file.Info)
	if err := row.Scan(&file.UpdatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgCheckViolation {
			log.Ctx(ctx).Info().Str("directory", file.Directory).Str("file", file.FileName).Msg("scheme file rejected")
			return dberror.ErrInvalidInput.Err(err)
		}
		log.Ctx(ctx).Error().Err(err).Str("directory", file.Directory).Str("file", file.FileName).Msg("failed to upsert scheme file")
		return dberror.ErrDatabase.Err(err)
	}
	file.ProjectID = projectID
	return nil
}

// GetSchemeFile retrieves a scheme file of the project in the context.
func (h *hatchSchemesDb) GetSchemeFile(ctx context.Context, directory, fileName string) (*models.SchemeFile, error) {
	projectID := common.ProjectIdFromContext(ctx)

	query := `
		SELECT project_id, directory, file_name, content, info, updated_at
		FROM scheme_files
		WHERE project_id = $1 AND directory = $2 AND file_name = $3;
	`

	row := h.conn().QueryRowContext(ctx, query, string(projectID), directory, fileName)

	var file models.SchemeFile
	var pid string
	err := row.Scan(&pid, &file.Directory, &file.FileName, &file.Content, &file.Info, &file.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			log.Ctx(ctx).Debug().Str("directory", directory).Str("file", fileName).Msg("scheme file not found")
			return nil, dberror.ErrNotFound.Msg("scheme file not found")
		}
		log.Ctx(ctx).Error().Err(err).Str("directory", directory).Str("file", fileName).Msg("failed to retrieve scheme file")
		return nil, dberror.ErrDatabase.Err(err)
	}
	file.ProjectID = projectID
	return &file, nil
}

// ListSchemeFiles returns the file names in a directory ordered by name.
func (h *hatchSchemesDb) ListSchemeFiles(ctx context.Context, directory string) ([]string, error) {
	projectID := common.ProjectIdFromContext(ctx)

	query := `
		SELECT file_name
		FROM scheme_files
		WHERE project_id = $1 AND directory = $2
		ORDER BY file_name;
	`

	rows, err := h.conn().QueryContext(ctx, query, string(projectID), directory)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("directory", directory).Msg("failed to list scheme files")
		return nil, dberror.ErrDatabase.Err(err)
	}
	defer rows.Close()

	names := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, dberror.ErrDatabase.Err(err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, dberror.ErrDatabase.Err(err)
	}
	return names, nil
}

// DeleteSchemeFile deletes a scheme file. Deleting a missing file is not an error.
func (h *hatchSchemesDb) DeleteSchemeFile(ctx context.Context, directory, fileName string) error {
	projectID := common.ProjectIdFromContext(ctx)

	query := `
		DELETE FROM scheme_files
		WHERE project_id = $1 AND directory = $2 AND file_name = $3;
	`

	if _, err := h.conn().ExecContext(ctx, query, string(projectID), directory, fileName); err != nil {
		log.Ctx(ctx).Error().Err(err).Str("directory", directory).Str("file", fileName).Msg("failed to delete scheme file")
		return dberror.ErrDatabase.Err(err)
	}
	return nil
}
