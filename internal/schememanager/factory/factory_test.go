package factory

import (
	"context"
	"errors"
	"testing"

	"github.com/mugiliam/hatchschemesrv/internal/schememanager"
	"github.com/mugiliam/hatchschemesrv/internal/storage/memstore"
	"github.com/mugiliam/hatchschemesrv/internal/types"
	"github.com/mugiliam/hatchschemesrv/pkg/scheme"
	pkgtypes "github.com/mugiliam/hatchschemesrv/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type style struct {
	name string
}

func (s *style) Name() string        { return s.name }
func (s *style) SetName(name string) { s.name = name }

type styleProcessor struct {
	scheme.BaseProcessor[*style, *style]
	fail bool
}

func (p *styleProcessor) WriteScheme(s *style) (*scheme.Element, error) {
	if p.fail {
		return nil, errors.New("cannot write " + s.name)
	}
	return scheme.NewElement("style").SetAttribute("name", s.name), nil
}

func (p *styleProcessor) ReadScheme(el *scheme.Element) (*style, error) {
	name, _ := el.Attribute("name")
	return &style{name: name}, nil
}

// plainProcessor cannot read schemes back.
type plainProcessor struct {
	scheme.BaseProcessor[*style, *style]
}

func (plainProcessor) WriteScheme(s *style) (*scheme.Element, error) {
	return scheme.NewElement("style").SetAttribute("name", s.name), nil
}

func TestCreate(t *testing.T) {
	f := NewFactory(ApplicationScope(), memstore.New())

	m, err := Create[*style, *style](f, "code_styles", &styleProcessor{})
	require.NoError(t, err)
	assert.Equal(t, "Code Styles", m.PresentableName())
	assert.Equal(t, pkgtypes.RoamingDefault, m.RoamingType())
	assert.False(t, m.UseOldNameSanitize())
	assert.Equal(t, types.ApplicationScope, m.ProjectID())

	m2, err := Create[*style, *style](f, "keymaps", &styleProcessor{},
		WithPresentableName("Keymap"),
		WithRoamingType(pkgtypes.RoamingPerOS),
		WithOldNameSanitize())
	require.NoError(t, err)
	assert.Equal(t, "Keymap", m2.PresentableName())
	assert.Equal(t, pkgtypes.RoamingPerOS, m2.RoamingType())
	assert.True(t, m2.UseOldNameSanitize())

	got, ok := f.Manager("keymaps")
	require.True(t, ok)
	assert.Equal(t, m2.ID(), got.ID())
	assert.Len(t, f.Managers(), 2)

	_, err = Create[*style, *style](f, "keymaps", &styleProcessor{})
	assert.ErrorIs(t, err, ErrDuplicateDirectory)
	_, err = Create[*style, *style](f, "", &styleProcessor{})
	assert.ErrorIs(t, err, ErrInvalidDirectory)
	_, err = Create[*style, *style](f, "../escape", &styleProcessor{})
	assert.ErrorIs(t, err, ErrInvalidDirectory)
	_, err = Create[*style, *style](f, "colors", &styleProcessor{}, WithRoamingType("sideways"))
	assert.ErrorIs(t, err, schememanager.ErrInvalidSettings)
	assert.Len(t, f.Managers(), 2)
}

func TestPresentableName(t *testing.T) {
	tests := []struct {
		in       string
		expected string
	}{
		{"code_styles", "Code Styles"},
		{"keymaps", "Keymaps"},
		{"options/color-schemes", "Color Schemes"},
		{"file.templates", "File Templates"},
		{"ümlaut_names", "Ümlaut Names"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.expected, PresentableName(tt.in))
		})
	}
}

func TestProjectScope(t *testing.T) {
	f := NewFactory(ProjectScope("p1"), memstore.New())
	assert.False(t, f.Scope().IsApplication())

	m, err := Create[*style, *style](f, "keymaps", &styleProcessor{})
	require.NoError(t, err)
	assert.Equal(t, types.ProjectId("p1"), m.ProjectID())

	assert.True(t, ProjectScope("").IsApplication())
	assert.True(t, NewFactory(Scope{}, memstore.New()).Scope().IsApplication())
}

func TestSaveAllAndLoadAll(t *testing.T) {
	ctx := context.Background()
	st := memstore.New()
	f := NewFactory(ApplicationScope(), st)
	good, err := Create[*style, *style](f, "code_styles", &styleProcessor{})
	require.NoError(t, err)
	bad, err := Create[*style, *style](f, "keymaps", &styleProcessor{fail: true})
	require.NoError(t, err)
	require.NoError(t, good.Add(&style{name: "Default"}))
	require.NoError(t, bad.Add(&style{name: "Emacs"}))

	results, err := f.SaveAll(ctx)
	assert.ErrorIs(t, err, schememanager.ErrExternalization)
	require.Len(t, results, 2)
	assert.Equal(t, "code_styles", results[0].Directory)
	assert.Equal(t, []string{"Default"}, results[0].Report.Written)
	assert.Empty(t, results[0].Error)
	assert.Equal(t, "keymaps", results[1].Directory)
	assert.NotEmpty(t, results[1].Error)

	reloaded := NewFactory(ApplicationScope(), st)
	loaded, err := Create[*style, *style](reloaded, "code_styles", &styleProcessor{})
	require.NoError(t, err)
	_, err = Create[*style, *style](reloaded, "keymaps", plainProcessor{})
	require.NoError(t, err)
	require.NoError(t, reloaded.LoadAll(ctx))
	assert.Equal(t, []string{"Default"}, loaded.AllSchemeNames())
}

func TestInstance(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	assert.PanicsWithError(t, "no application scheme manager factory", func() {
		Instance()
	})
	assert.Panics(t, func() { ProjectInstance("p1") })

	app := NewFactory(ApplicationScope(), memstore.New())
	Register(app)
	assert.Same(t, app, Instance())
	assert.Same(t, app, ProjectInstance(types.ApplicationScope))

	p1 := NewFactory(ProjectScope("p1"), memstore.New())
	RegisterProject("p1", p1)
	assert.True(t, HasProjectInstance("p1"))
	assert.Same(t, p1, ProjectInstance("p1"))

	other := NewFactory(ApplicationScope(), memstore.New())
	restore := SetInstanceForTesting(other)
	assert.Same(t, other, Instance())
	restore()
	assert.Same(t, app, Instance())
}
