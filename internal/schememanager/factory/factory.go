// Package factory creates scheme managers and keeps track of the managers of
// one scope, either the application or a single project.
package factory

import (
	"context"
	"errors"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"github.com/mugiliam/hatchschemesrv/internal/common/validation"
	"github.com/mugiliam/hatchschemesrv/internal/schememanager"
	"github.com/mugiliam/hatchschemesrv/internal/storage"
	"github.com/mugiliam/hatchschemesrv/internal/types"
	"github.com/mugiliam/hatchschemesrv/pkg/scheme"
	pkgtypes "github.com/mugiliam/hatchschemesrv/pkg/types"
	"github.com/rs/zerolog/log"
)

// Scope identifies who owns the schemes of a factory.
type Scope struct {
	ProjectID types.ProjectId `json:"project_id"`
}

func ApplicationScope() Scope {
	return Scope{ProjectID: types.ApplicationScope}
}

func ProjectScope(id types.ProjectId) Scope {
	if id == "" {
		return ApplicationScope()
	}
	return Scope{ProjectID: id}
}

func (s Scope) IsApplication() bool {
	return s.ProjectID == types.ApplicationScope || s.ProjectID == ""
}

// Factory is the kind independent part of a scheme manager factory. Managers
// are created with the package level Create function since Go methods cannot
// carry their own type parameters.
type Factory interface {
	Scope() Scope
	Storage() storage.Storage
	Register(m schememanager.Managed) error
	Managers() []schememanager.Managed
	Manager(directoryName string) (schememanager.Managed, bool)
	SaveAll(ctx context.Context) ([]SaveResult, error)
	LoadAll(ctx context.Context) error
}

// SaveResult is the outcome of saving one manager.
type SaveResult struct {
	Directory string                    `json:"directory"`
	Report    *schememanager.SaveReport `json:"report,omitempty"`
	Error     string                    `json:"error,omitempty"`
}

type createOptions struct {
	presentableName    string
	roamingType        pkgtypes.RoamingType
	useOldNameSanitize bool
}

type CreateOption func(*createOptions)

func WithPresentableName(name string) CreateOption {
	return func(o *createOptions) {
		o.presentableName = name
	}
}

func WithRoamingType(roaming pkgtypes.RoamingType) CreateOption {
	return func(o *createOptions) {
		o.roamingType = roaming
	}
}

// WithOldNameSanitize keeps file names compatible with the legacy sanitizer.
func WithOldNameSanitize() CreateOption {
	return func(o *createOptions) {
		o.useOldNameSanitize = true
	}
}

// Create builds a manager for directoryName and registers it with f.
func Create[S scheme.Scheme, M scheme.Scheme](f Factory, directoryName string, p scheme.Processor[S, M], opts ...CreateOption) (*schememanager.Manager[S, M], error) {
	o := createOptions{roamingType: pkgtypes.RoamingDefault}
	for _, opt := range opts {
		opt(&o)
	}
	if !validation.ValidateDirectoryName(directoryName) {
		return nil, ErrInvalidDirectory.Msg("invalid directory name '" + directoryName + "'")
	}
	if _, ok := f.Manager(directoryName); ok {
		return nil, ErrDuplicateDirectory.Msg("directory '" + directoryName + "' is already managed")
	}
	if o.presentableName == "" {
		o.presentableName = PresentableName(directoryName)
	}
	m, err := schememanager.New(schememanager.Settings{
		DirectoryName:      directoryName,
		PresentableName:    o.presentableName,
		RoamingType:        o.roamingType,
		UseOldNameSanitize: o.useOldNameSanitize,
		ProjectID:          f.Scope().ProjectID,
		Storage:            f.Storage(),
	}, p)
	if err != nil {
		return nil, err
	}
	if err := f.Register(m); err != nil {
		return nil, err
	}
	return m, nil
}

// PresentableName derives a display name from the last segment of a
// directory name, e.g. "code_styles" becomes "Code Styles".
func PresentableName(directoryName string) string {
	if i := strings.LastIndex(directoryName, "/"); i >= 0 {
		directoryName = directoryName[i+1:]
	}
	words := strings.FieldsFunc(directoryName, func(r rune) bool {
		return r == '_' || r == '-' || r == '.' || unicode.IsSpace(r)
	})
	for i, w := range words {
		r, size := utf8.DecodeRuneInString(w)
		words[i] = string(unicode.ToUpper(r)) + w[size:]
	}
	return strings.Join(words, " ")
}

type factory struct {
	scope   Scope
	storage storage.Storage

	mu       sync.RWMutex
	managers []schememanager.Managed
}

var _ Factory = (*factory)(nil)

func NewFactory(scope Scope, st storage.Storage) Factory {
	if scope.ProjectID == "" {
		scope = ApplicationScope()
	}
	return &factory{
		scope:   scope,
		storage: st,
	}
}

func (f *factory) Scope() Scope {
	return f.scope
}

func (f *factory) Storage() storage.Storage {
	return f.storage
}

func (f *factory) Register(m schememanager.Managed) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.managers {
		if existing.DirectoryName() == m.DirectoryName() {
			return ErrDuplicateDirectory.Msg("directory '" + m.DirectoryName() + "' is already managed")
		}
	}
	f.managers = append(f.managers, m)
	return nil
}

func (f *factory) Managers() []schememanager.Managed {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return append([]schememanager.Managed(nil), f.managers...)
}

func (f *factory) Manager(directoryName string) (schememanager.Managed, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	for _, m := range f.managers {
		if m.DirectoryName() == directoryName {
			return m, true
		}
	}
	return nil, false
}

// SaveAll saves every manager in registration order. A failing manager does
// not stop the others.
func (f *factory) SaveAll(ctx context.Context) ([]SaveResult, error) {
	var errs []error
	managers := f.Managers()
	results := make([]SaveResult, 0, len(managers))
	for _, m := range managers {
		report, err := m.Save(ctx)
		r := SaveResult{Directory: m.DirectoryName(), Report: report}
		if err != nil {
			r.Error = err.Error()
			errs = append(errs, err)
		}
		results = append(results, r)
	}
	return results, errors.Join(errs...)
}

// LoadAll loads every manager whose processor can read schemes.
func (f *factory) LoadAll(ctx context.Context) error {
	var errs []error
	for _, m := range f.Managers() {
		if _, err := m.Load(ctx); err != nil {
			if errors.Is(err, schememanager.ErrLoadNotSupported) {
				log.Ctx(ctx).Debug().Str("directory", m.DirectoryName()).Msg("manager cannot load schemes")
				continue
			}
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
