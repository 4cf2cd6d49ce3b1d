package db

import (
	"context"
	"errors"

	"github.com/golang/snappy"
	"github.com/jackc/pgtype"
	"github.com/mugiliam/hatchschemesrv/internal/common"
	"github.com/mugiliam/hatchschemesrv/internal/db/dbmanager"
	"github.com/mugiliam/hatchschemesrv/internal/db/dberror"
	"github.com/mugiliam/hatchschemesrv/internal/db/models"
	"github.com/mugiliam/hatchschemesrv/internal/storage"
	"github.com/mugiliam/hatchschemesrv/internal/types"
	pkgtypes "github.com/mugiliam/hatchschemesrv/pkg/types"
	"github.com/rs/zerolog/log"
)

// schemeStorage adapts the scheme_files table to storage.Storage. Every call
// takes its own connection scoped to the project in the context.
type schemeStorage struct {
	pool dbmanager.ScopedDb
}

var _ storage.Storage = (*schemeStorage)(nil)

func NewSchemeStorage(ctx context.Context, pool dbmanager.ScopedDb) (storage.Storage, error) {
	s := &schemeStorage{pool: pool}
	err := s.withConn(ctx, func(ctx context.Context, db DB_) error {
		return db.EnsureSchema(ctx)
	})
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (s *schemeStorage) withConn(ctx context.Context, fn func(context.Context, DB_) error) error {
	db := Conn(ctx, s.pool)
	if db == nil {
		return storage.ErrUnavailable.Err(dberror.ErrNoConnection)
	}
	defer db.Close(ctx)
	projectID := common.ProjectIdFromContext(ctx)
	if projectID != types.ApplicationScope {
		db.AddScope(ctx, Scope_ProjectId, string(projectID))
	}
	return fn(ctx, db)
}

func (s *schemeStorage) Read(ctx context.Context, dir, file string) ([]byte, error) {
	if err := storage.ValidatePath(dir, file); err != nil {
		return nil, err
	}
	var data []byte
	err := s.withConn(ctx, func(ctx context.Context, db DB_) error {
		f, err := db.GetSchemeFile(ctx, dir, file)
		if err != nil {
			if errors.Is(err, dberror.ErrNotFound) {
				return storage.ErrNotFound.Msg(dir + "/" + file + " not found")
			}
			return storage.ErrStorage.Err(err)
		}
		data, err = snappy.Decode(nil, f.Content)
		if err != nil {
			log.Ctx(ctx).Error().Err(err).Str("directory", dir).Str("file", file).Msg("unable to decompress scheme file")
			return storage.ErrStorage.Err(dberror.ErrCorruptData.Err(err))
		}
		return nil
	})
	return data, err
}

func (s *schemeStorage) Write(ctx context.Context, dir, file string, data []byte, roaming pkgtypes.RoamingType) error {
	if err := storage.ValidatePath(dir, file); err != nil {
		return err
	}
	var info pgtype.JSONB
	if err := info.Set(models.SchemeFileInfo{Roaming: string(roaming), Size: len(data)}); err != nil {
		return storage.ErrWriteFailed.Err(err)
	}
	f := &models.SchemeFile{
		Directory: dir,
		FileName:  file,
		Content:   snappy.Encode(nil, data),
		Info:      info,
	}
	return s.withConn(ctx, func(ctx context.Context, db DB_) error {
		if err := db.UpsertSchemeFile(ctx, f); err != nil {
			return storage.ErrWriteFailed.Err(err)
		}
		return nil
	})
}

func (s *schemeStorage) Delete(ctx context.Context, dir, file string) error {
	if err := storage.ValidatePath(dir, file); err != nil {
		return err
	}
	return s.withConn(ctx, func(ctx context.Context, db DB_) error {
		if err := db.DeleteSchemeFile(ctx, dir, file); err != nil {
			return storage.ErrDeleteFailed.Err(err)
		}
		return nil
	})
}

func (s *schemeStorage) List(ctx context.Context, dir string) ([]string, error) {
	if err := storage.ValidatePath(dir, ""); err != nil {
		return nil, err
	}
	var names []string
	err := s.withConn(ctx, func(ctx context.Context, db DB_) error {
		var err error
		names, err = db.ListSchemeFiles(ctx, dir)
		if err != nil {
			return storage.ErrStorage.Err(err)
		}
		return nil
	})
	return names, err
}
