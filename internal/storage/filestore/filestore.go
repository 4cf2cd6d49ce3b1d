// Package filestore stores scheme files on the local filesystem, one
// directory per scheme kind under a common root.
package filestore

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/mugiliam/hatchschemesrv/internal/storage"
	"github.com/mugiliam/hatchschemesrv/pkg/types"
	"github.com/rs/zerolog/log"
)

const (
	dirPerm  = 0o755
	filePerm = 0o644
)

type fileStore struct {
	root string
}

var _ storage.Storage = (*fileStore)(nil)

func New(root string) (storage.Storage, error) {
	if root == "" {
		return nil, storage.ErrInvalidPath.Msg("empty storage root")
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, storage.ErrInvalidPath.Err(err)
	}
	if err := os.MkdirAll(abs, dirPerm); err != nil {
		return nil, storage.ErrUnavailable.Err(err)
	}
	return &fileStore{root: abs}, nil
}

func (f *fileStore) path(dir, file string) string {
	return filepath.Join(f.root, filepath.FromSlash(dir), file)
}

func (f *fileStore) Read(ctx context.Context, dir, file string) ([]byte, error) {
	if err := storage.ValidatePath(dir, file); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(f.path(dir, file))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, storage.ErrNotFound.Msg(dir + "/" + file + " not found")
		}
		log.Ctx(ctx).Error().Err(err).Str("directory", dir).Str("file", file).Msg("failed to read scheme file")
		return nil, storage.ErrStorage.Err(err)
	}
	return data, nil
}

// Write replaces the file through a temporary file and a rename, so readers
// never observe a partially written document.
func (f *fileStore) Write(ctx context.Context, dir, file string, data []byte, roaming types.RoamingType) error {
	if err := storage.ValidatePath(dir, file); err != nil {
		return err
	}
	target := f.path(dir, file)
	if err := os.MkdirAll(filepath.Dir(target), dirPerm); err != nil {
		return storage.ErrWriteFailed.Err(err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(target), "."+file+".*.tmp")
	if err != nil {
		return storage.ErrWriteFailed.Err(err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return storage.ErrWriteFailed.Err(err)
	}
	if err := tmp.Close(); err != nil {
		return storage.ErrWriteFailed.Err(err)
	}
	if err := os.Chmod(tmpName, filePerm); err != nil {
		return storage.ErrWriteFailed.Err(err)
	}
	if err := os.Rename(tmpName, target); err != nil {
		log.Ctx(ctx).Error().Err(err).Str("directory", dir).Str("file", file).Msg("failed to replace scheme file")
		return storage.ErrWriteFailed.Err(err)
	}
	log.Ctx(ctx).Debug().Str("directory", dir).Str("file", file).Str("roaming", string(roaming)).Int("size", len(data)).Msg("scheme file written")
	return nil
}

func (f *fileStore) Delete(ctx context.Context, dir, file string) error {
	if err := storage.ValidatePath(dir, file); err != nil {
		return err
	}
	err := os.Remove(f.path(dir, file))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Ctx(ctx).Error().Err(err).Str("directory", dir).Str("file", file).Msg("failed to delete scheme file")
		return storage.ErrDeleteFailed.Err(err)
	}
	return nil
}

func (f *fileStore) List(ctx context.Context, dir string) ([]string, error) {
	if err := storage.ValidatePath(dir, ""); err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(f.path(dir, ""))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []string{}, nil
		}
		log.Ctx(ctx).Error().Err(err).Str("directory", dir).Msg("failed to list scheme files")
		return nil, storage.ErrStorage.Err(err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || e.Name()[0] == '.' {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names, nil
}
