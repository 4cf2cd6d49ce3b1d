// Package memstore is an in-memory storage backend for tests and dry runs.
package memstore

import (
	"context"
	"sort"
	"sync"

	"github.com/mugiliam/hatchschemesrv/internal/storage"
	"github.com/mugiliam/hatchschemesrv/pkg/types"
)

type file struct {
	data    []byte
	roaming types.RoamingType
}

type Store struct {
	mu          sync.RWMutex
	dirs        map[string]map[string]file
	writeErrors map[string]error
	writes      int
}

var _ storage.Storage = (*Store)(nil)

func New() *Store {
	return &Store{
		dirs:        make(map[string]map[string]file),
		writeErrors: make(map[string]error),
	}
}

func (s *Store) Read(_ context.Context, dir, name string) ([]byte, error) {
	if err := storage.ValidatePath(dir, name); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	f, ok := s.dirs[dir][name]
	if !ok {
		return nil, storage.ErrNotFound.Msg(dir + "/" + name + " not found")
	}
	return append([]byte(nil), f.data...), nil
}

func (s *Store) Write(_ context.Context, dir, name string, data []byte, roaming types.RoamingType) error {
	if err := storage.ValidatePath(dir, name); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err, ok := s.writeErrors[dir+"/"+name]; ok {
		return storage.ErrWriteFailed.Err(err)
	}
	files, ok := s.dirs[dir]
	if !ok {
		files = make(map[string]file)
		s.dirs[dir] = files
	}
	files[name] = file{data: append([]byte(nil), data...), roaming: roaming}
	s.writes++
	return nil
}

func (s *Store) Delete(_ context.Context, dir, name string) error {
	if err := storage.ValidatePath(dir, name); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.dirs[dir], name)
	return nil
}

func (s *Store) List(_ context.Context, dir string) ([]string, error) {
	if err := storage.ValidatePath(dir, ""); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.dirs[dir]))
	for n := range s.dirs[dir] {
		names = append(names, n)
	}
	sort.Strings(names)
	return names, nil
}

// Roaming returns the roaming type dir/name was last written with.
func (s *Store) Roaming(dir, name string) (types.RoamingType, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	f, ok := s.dirs[dir][name]
	return f.roaming, ok
}

// Writes returns the number of successful writes so far.
func (s *Store) Writes() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.writes
}

// FailWrites makes every write of dir/name fail with err. A nil err clears it.
func (s *Store) FailWrites(dir, name string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err == nil {
		delete(s.writeErrors, dir+"/"+name)
		return
	}
	s.writeErrors[dir+"/"+name] = err
}
