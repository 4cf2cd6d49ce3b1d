// Package app wires storage, factories and scheme kinds together for a host
// process.
package app

import (
	"context"
	"errors"
	"path/filepath"

	"github.com/mugiliam/hatchschemesrv/internal/config"
	"github.com/mugiliam/hatchschemesrv/internal/db"
	"github.com/mugiliam/hatchschemesrv/internal/db/dbmanager"
	"github.com/mugiliam/hatchschemesrv/internal/kinds/colors"
	"github.com/mugiliam/hatchschemesrv/internal/schememanager/factory"
	"github.com/mugiliam/hatchschemesrv/internal/storage"
	"github.com/mugiliam/hatchschemesrv/internal/storage/filestore"
	"github.com/mugiliam/hatchschemesrv/internal/storage/memstore"
	"github.com/mugiliam/hatchschemesrv/internal/types"
	"github.com/rs/zerolog/log"
)

// Kinds registers the scheme kinds of every factory.
var Kinds = []func(factory.Factory) error{
	func(f factory.Factory) error {
		_, err := colors.Register(f)
		return err
	},
}

type App struct {
	Config    *config.ConfigParam
	factories []factory.Factory
	pool      dbmanager.ScopedDb
	shared    storage.Storage
}

// Init creates the application factory and one factory per configured
// project, registers them for lookup and loads their schemes. Schemes that
// fail to load are logged and skipped.
func Init(ctx context.Context, c *config.ConfigParam) (*App, error) {
	a := &App{Config: c}
	if c.Storage == config.StoragePostgreSQL {
		pool, err := db.Open(ctx, c.DB.DSN)
		if err != nil {
			return nil, err
		}
		a.pool = pool
		if a.shared, err = db.NewSchemeStorage(ctx, pool); err != nil {
			a.Close()
			return nil, err
		}
	}

	factory.Reset()
	for _, id := range a.projectIds() {
		st, err := a.storageFor(id)
		if err != nil {
			a.Close()
			return nil, err
		}
		f := factory.NewFactory(factory.ProjectScope(id), st)
		for _, register := range Kinds {
			if err := register(f); err != nil {
				a.Close()
				return nil, err
			}
		}
		if f.Scope().IsApplication() {
			factory.Register(f)
		} else {
			factory.RegisterProject(id, f)
		}
		if err := f.LoadAll(ctx); err != nil {
			log.Ctx(ctx).Error().Err(err).Str("project", string(id)).Msg("some schemes could not be loaded")
		}
		a.factories = append(a.factories, f)
	}
	return a, nil
}

func (a *App) projectIds() []types.ProjectId {
	ids := []types.ProjectId{types.ApplicationScope}
	seen := map[types.ProjectId]bool{types.ApplicationScope: true}
	projects := append([]string{}, a.Config.Projects...)
	if a.Config.DefaultProject != "" {
		projects = append(projects, a.Config.DefaultProject)
	}
	for _, p := range projects {
		id := types.ProjectId(p)
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	return ids
}

func (a *App) storageFor(id types.ProjectId) (storage.Storage, error) {
	switch a.Config.Storage {
	case config.StorageMemory:
		return memstore.New(), nil
	case config.StoragePostgreSQL:
		return a.shared, nil
	default:
		root := a.Config.StorageRoot
		if id != types.ApplicationScope {
			root = filepath.Join(root, "projects", string(id))
		}
		return filestore.New(root)
	}
}

// Factories returns the application factory followed by the project factories.
func (a *App) Factories() []factory.Factory {
	return append([]factory.Factory(nil), a.factories...)
}

// SaveAll saves the schemes of every factory.
func (a *App) SaveAll(ctx context.Context) ([]factory.SaveResult, error) {
	var (
		results []factory.SaveResult
		errs    []error
	)
	for _, f := range a.factories {
		r, err := f.SaveAll(ctx)
		results = append(results, r...)
		if err != nil {
			errs = append(errs, err)
		}
	}
	return results, errors.Join(errs...)
}

func (a *App) Close() {
	if a.pool != nil {
		if err := a.pool.Close(); err != nil {
			log.Error().Err(err).Msg("unable to close db pool")
		}
		a.pool = nil
	}
}
