package factory

import (
	"sync"

	"github.com/mugiliam/hatchschemesrv/internal/types"
)

var (
	instanceMu sync.RWMutex
	instance   Factory
	projects   = make(map[types.ProjectId]Factory)
)

// Instance returns the process-wide factory. It panics when none has been
// registered; that is a wiring error of the host, not a runtime condition.
func Instance() Factory {
	instanceMu.RLock()
	defer instanceMu.RUnlock()
	if instance == nil {
		panic(ErrFactoryNotRegistered.Msg("no application scheme manager factory"))
	}
	return instance
}

// ProjectInstance returns the factory of a project. The application scope
// resolves to Instance.
func ProjectInstance(id types.ProjectId) Factory {
	if id == "" || id == types.ApplicationScope {
		return Instance()
	}
	instanceMu.RLock()
	defer instanceMu.RUnlock()
	f, ok := projects[id]
	if !ok {
		panic(ErrFactoryNotRegistered.Msg("no scheme manager factory for project " + string(id)))
	}
	return f
}

// HasProjectInstance reports whether a project factory is registered.
func HasProjectInstance(id types.ProjectId) bool {
	instanceMu.RLock()
	defer instanceMu.RUnlock()
	_, ok := projects[id]
	return ok
}

func Register(f Factory) {
	instanceMu.Lock()
	defer instanceMu.Unlock()
	instance = f
}

func RegisterProject(id types.ProjectId, f Factory) {
	instanceMu.Lock()
	defer instanceMu.Unlock()
	projects[id] = f
}

// SetInstanceForTesting replaces the process-wide factory and returns a
// function restoring the previous one.
func SetInstanceForTesting(f Factory) (restore func()) {
	instanceMu.Lock()
	prev := instance
	instance = f
	instanceMu.Unlock()
	return func() {
		instanceMu.Lock()
		defer instanceMu.Unlock()
		instance = prev
	}
}

// Reset drops every registered factory.
func Reset() {
	instanceMu.Lock()
	defer instanceMu.Unlock()
	instance = nil
	projects = make(map[types.ProjectId]Factory)
}
