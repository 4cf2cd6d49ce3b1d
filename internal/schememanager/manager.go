// Package schememanager implements the registry that owns the live schemes of
// one kind. It tracks the current scheme, decides which schemes have to be
// persisted and reports lifecycle events to the kind's processor.
//
// Structural state is guarded by the manager. Scheme contents are not:
// callers mutating schemes must not do so concurrently with a save cycle.
package schememanager

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/mugiliam/hatchschemesrv/internal/common/validation"
	"github.com/mugiliam/hatchschemesrv/internal/storage"
	"github.com/mugiliam/hatchschemesrv/internal/types"
	"github.com/mugiliam/hatchschemesrv/pkg/scheme"
	pkgtypes "github.com/mugiliam/hatchschemesrv/pkg/types"
	"github.com/rs/zerolog/log"
)

// Settings configures a manager. DirectoryName is the storage bucket of the
// kind and must stay stable across versions.
type Settings struct {
	DirectoryName      string               `json:"directory" validate:"required,directoryNameValidator"`
	PresentableName    string               `json:"presentable_name"`
	RoamingType        pkgtypes.RoamingType `json:"roaming" validate:"required,roamingTypeValidator"`
	UseOldNameSanitize bool                 `json:"use_old_name_sanitize"`
	ProjectID          types.ProjectId      `json:"project_id"`
	Storage            storage.Storage      `json:"-"`
}

// Managed is the kind-independent view of a manager.
type Managed interface {
	ID() uuid.UUID
	DirectoryName() string
	PresentableName() string
	RoamingType() pkgtypes.RoamingType
	ProjectID() types.ProjectId
	AllSchemeNames() []string
	CurrentName() string
	Len() int
	Document(name string) (*scheme.Element, error)
	Save(ctx context.Context) (*SaveReport, error)
	Load(ctx context.Context) (*LoadReport, error)
}

type entry[S scheme.Scheme] struct {
	scheme S
	// fileName and digest describe the last successful write or load.
	fileName string
	digest   string
}

type Manager[S scheme.Scheme, M scheme.Scheme] struct {
	id        uuid.UUID
	settings  Settings
	processor scheme.Processor[S, M]

	mu            sync.RWMutex
	entries       []*entry[S]
	current       S
	filesToDelete map[string]struct{}
}

var _ Managed = (*Manager[scheme.Scheme, scheme.ExternalizableScheme])(nil)

// New creates a manager. Most callers go through the factory instead.
func New[S scheme.Scheme, M scheme.Scheme](settings Settings, processor scheme.Processor[S, M]) (*Manager[S, M], error) {
	if processor == nil {
		return nil, ErrNoProcessor
	}
	if settings.Storage == nil {
		return nil, ErrNoStorage
	}
	if settings.RoamingType == "" {
		settings.RoamingType = pkgtypes.RoamingDefault
	}
	if settings.ProjectID == "" {
		settings.ProjectID = types.ApplicationScope
	}
	if err := validation.V().Struct(&settings); err != nil {
		return nil, ErrInvalidSettings.MsgErr("invalid settings for "+settings.DirectoryName, err)
	}
	if settings.PresentableName == "" {
		settings.PresentableName = settings.DirectoryName
	}
	return &Manager[S, M]{
		id:            uuid.New(),
		settings:      settings,
		processor:     processor,
		filesToDelete: make(map[string]struct{}),
	}, nil
}

func (m *Manager[S, M]) ID() uuid.UUID {
	return m.id
}

func (m *Manager[S, M]) DirectoryName() string {
	return m.settings.DirectoryName
}

func (m *Manager[S, M]) PresentableName() string {
	return m.settings.PresentableName
}

func (m *Manager[S, M]) RoamingType() pkgtypes.RoamingType {
	return m.settings.RoamingType
}

func (m *Manager[S, M]) ProjectID() types.ProjectId {
	return m.settings.ProjectID
}

func (m *Manager[S, M]) UseOldNameSanitize() bool {
	return m.settings.UseOldNameSanitize
}

func (m *Manager[S, M]) Processor() scheme.Processor[S, M] {
	return m.processor
}

// Add registers a newly created scheme. A live scheme with the same name is
// replaced in place: it receives OnSchemeDeleted, then the new scheme receives
// InitScheme and OnSchemeAdded. If the replaced scheme was current, the new
// scheme becomes current. Adding a registered instance again is a no-op.
func (m *Manager[S, M]) Add(s S) error {
	return m.add(s, true, "", "")
}

// AddLoaded registers a scheme read from storage. It behaves like Add
// without calling InitScheme.
func (m *Manager[S, M]) AddLoaded(s S) error {
	return m.add(s, false, "", "")
}

func (m *Manager[S, M]) add(s S, isNew bool, fileName, digest string) error {
	if scheme.IsAbsent(s) {
		return ErrInvalidScheme.Msg("cannot add an absent scheme")
	}
	if !scheme.Identifiable(s) {
		return ErrInvalidScheme.Msg(fmt.Sprintf("scheme type %T is not comparable", s))
	}
	name := s.Name()
	if !validation.ValidateSchemeName(name) {
		return ErrInvalidSchemeName.Msg("invalid scheme name " + quote(name))
	}

	m.mu.Lock()
	if m.indexOfSchemeLocked(s) >= 0 {
		m.mu.Unlock()
		return nil
	}
	var replaced *entry[S]
	replacedCurrent := false
	e := &entry[S]{scheme: s, fileName: fileName, digest: digest}
	if idx := m.indexOfNameLocked(name); idx >= 0 {
		if held := m.entries[idx].fileName; fileName != "" && held != "" && held != fileName {
			m.mu.Unlock()
			return ErrDuplicateScheme.Msg("scheme " + quote(name) + " is already loaded from " + quote(held))
		}
		replaced = m.entries[idx]
		m.entries[idx] = e
		if replaced.fileName != "" {
			m.filesToDelete[replaced.fileName] = struct{}{}
		}
		if scheme.Same(m.current, replaced.scheme) {
			m.current = s
			replacedCurrent = true
		}
	} else {
		m.entries = append(m.entries, e)
	}
	if fileName != "" {
		delete(m.filesToDelete, fileName)
	}
	m.mu.Unlock()

	if replaced != nil {
		m.notifyDeleted(replaced.scheme)
	}
	if isNew {
		m.notifyInit(s)
	}
	m.notifyAdded(s)
	if replacedCurrent {
		m.notifySwitched(replaced.scheme, s)
	}
	return nil
}

// Remove unregisters the scheme with the given name. If it was current, the
// current scheme becomes absent; there is no implicit fallback.
func (m *Manager[S, M]) Remove(name string) (S, bool) {
	m.mu.Lock()
	idx := m.indexOfNameLocked(name)
	if idx < 0 {
		m.mu.Unlock()
		var zero S
		return zero, false
	}
	return m.removeLocked(idx), true
}

// RemoveScheme unregisters the given scheme instance.
func (m *Manager[S, M]) RemoveScheme(s S) bool {
	m.mu.Lock()
	idx := m.indexOfSchemeLocked(s)
	if idx < 0 {
		m.mu.Unlock()
		return false
	}
	m.removeLocked(idx)
	return true
}

// removeLocked is called with the lock held and releases it.
func (m *Manager[S, M]) removeLocked(idx int) S {
	e := m.entries[idx]
	m.entries = append(m.entries[:idx:idx], m.entries[idx+1:]...)
	if e.fileName != "" {
		m.filesToDelete[e.fileName] = struct{}{}
	}
	wasCurrent := scheme.Same(m.current, e.scheme)
	var zero S
	if wasCurrent {
		m.current = zero
	}
	m.mu.Unlock()

	m.notifyDeleted(e.scheme)
	if wasCurrent {
		m.notifySwitched(e.scheme, zero)
	}
	return e.scheme
}

// SetCurrent selects the current scheme; the zero S clears it. The processor
// is notified only when the selection actually changes.
func (m *Manager[S, M]) SetCurrent(s S) error {
	m.mu.Lock()
	if !scheme.IsAbsent(s) && m.indexOfSchemeLocked(s) < 0 {
		m.mu.Unlock()
		return ErrSchemeNotFound.Msg("scheme " + quote(s.Name()) + " is not registered")
	}
	if scheme.Same(m.current, s) || (scheme.IsAbsent(m.current) && scheme.IsAbsent(s)) {
		m.mu.Unlock()
		return nil
	}
	old := m.current
	m.current = s
	m.mu.Unlock()

	m.notifySwitched(old, s)
	return nil
}

// SetCurrentByName selects the scheme with the given name; an empty name clears the selection.
func (m *Manager[S, M]) SetCurrentByName(name string) error {
	if name == "" {
		var zero S
		return m.SetCurrent(zero)
	}
	s, ok := m.FindByName(name)
	if !ok {
		return ErrSchemeNotFound.Msg("scheme " + quote(name) + " not found")
	}
	return m.SetCurrent(s)
}

func (m *Manager[S, M]) Current() (S, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current, !scheme.IsAbsent(m.current)
}

func (m *Manager[S, M]) CurrentName() string {
	if s, ok := m.Current(); ok {
		return s.Name()
	}
	return ""
}

// FindByName resolves names against the live Name of each scheme, so
// renamed schemes are found under their new name only. When renames leave
// two schemes with the same name, the earliest registered wins.
func (m *Manager[S, M]) FindByName(name string) (S, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if idx := m.indexOfNameLocked(name); idx >= 0 {
		return m.entries[idx].scheme, true
	}
	var zero S
	return zero, false
}

// AllSchemes returns a snapshot of the schemes in registration order.
func (m *Manager[S, M]) AllSchemes() []S {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]S, len(m.entries))
	for i, e := range m.entries {
		out[i] = e.scheme
	}
	return out
}

func (m *Manager[S, M]) AllSchemeNames() []string {
	schemes := m.AllSchemes()
	names := make([]string, len(schemes))
	for i, s := range schemes {
		names[i] = s.Name()
	}
	return names
}

func (m *Manager[S, M]) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

func (m *Manager[S, M]) indexOfNameLocked(name string) int {
	for i, e := range m.entries {
		if e.scheme.Name() == name {
			return i
		}
	}
	return -1
}

func (m *Manager[S, M]) indexOfSchemeLocked(s S) int {
	for i, e := range m.entries {
		if scheme.Same(e.scheme, s) {
			return i
		}
	}
	return -1
}

func (m *Manager[S, M]) mutable(s S) (M, bool) {
	mm, ok := scheme.Narrow[M](s)
	if !ok {
		log.Debug().Str("directory", m.settings.DirectoryName).Str("scheme", s.Name()).Msg("scheme has no mutable view, hook skipped")
	}
	return mm, ok
}

func (m *Manager[S, M]) notifyInit(s S) {
	if mm, ok := m.mutable(s); ok {
		m.processor.InitScheme(mm)
	}
}

func (m *Manager[S, M]) notifyAdded(s S) {
	if mm, ok := m.mutable(s); ok {
		m.processor.OnSchemeAdded(mm)
	}
}

func (m *Manager[S, M]) notifyDeleted(s S) {
	if mm, ok := m.mutable(s); ok {
		m.processor.OnSchemeDeleted(mm)
	}
}

func (m *Manager[S, M]) notifySwitched(oldScheme, newScheme S) {
	m.processor.OnCurrentSchemeSwitched(oldScheme, newScheme)
}

func quote(s string) string {
	return "'" + s + "'"
}
