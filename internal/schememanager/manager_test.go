package schememanager

import (
	"testing"

	"github.com/mugiliam/hatchschemesrv/internal/storage/memstore"
	"github.com/mugiliam/hatchschemesrv/internal/types"
	"github.com/mugiliam/hatchschemesrv/pkg/scheme"
	pkgtypes "github.com/mugiliam/hatchschemesrv/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestNew(t *testing.T) {
	p := newTestProcessor()
	tests := []struct {
		name     string
		settings Settings
		expected error
	}{
		{
			name:     "defaults",
			settings: Settings{DirectoryName: "keymaps", Storage: memstore.New()},
		},
		{
			name:     "nested directory",
			settings: Settings{DirectoryName: "options/colors", RoamingType: pkgtypes.RoamingPerOS, Storage: memstore.New()},
		},
		{
			name:     "missing directory",
			settings: Settings{Storage: memstore.New()},
			expected: ErrInvalidSettings,
		},
		{
			name:     "directory escaping the root",
			settings: Settings{DirectoryName: "../keymaps", Storage: memstore.New()},
			expected: ErrInvalidSettings,
		},
		{
			name:     "invalid roaming type",
			settings: Settings{DirectoryName: "keymaps", RoamingType: "everywhere", Storage: memstore.New()},
			expected: ErrInvalidSettings,
		},
		{
			name:     "no storage",
			settings: Settings{DirectoryName: "keymaps"},
			expected: ErrNoStorage,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			m, err := New[scheme.Scheme, *testScheme](tt.settings, p)
			if tt.expected != nil {
				assert.ErrorIs(t, err, tt.expected)
				assert.ErrorIs(t, err, ErrSchemeManager)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.settings.DirectoryName, m.DirectoryName())
			assert.Equal(t, tt.settings.DirectoryName, m.PresentableName())
			assert.Equal(t, types.ApplicationScope, m.ProjectID())
			assert.NotEqual(t, m.ID().String(), "00000000-0000-0000-0000-000000000000")
			if tt.settings.RoamingType == "" {
				assert.Equal(t, pkgtypes.RoamingDefault, m.RoamingType())
			} else {
				assert.Equal(t, tt.settings.RoamingType, m.RoamingType())
			}
		})
	}

	_, err := New[scheme.Scheme, *testScheme](Settings{DirectoryName: "keymaps", Storage: memstore.New()}, nil)
	assert.ErrorIs(t, err, ErrNoProcessor)
}

func TestAdd(t *testing.T) {
	p := newTestProcessor()
	m := newTestManager(t, p, nil, false)

	a := &testScheme{name: "A"}
	require.NoError(t, m.Add(a))
	assert.Equal(t, []string{"init:A", "added:A"}, p.events)

	// the same instance again changes nothing
	p.reset()
	require.NoError(t, m.Add(a))
	assert.Empty(t, p.events)
	assert.Equal(t, 1, m.Len())

	err := m.Add(&testScheme{name: " "})
	assert.ErrorIs(t, err, ErrInvalidSchemeName)
	assert.ErrorIs(t, err, ErrInvalidScheme)
	err = m.Add(nil)
	assert.ErrorIs(t, err, ErrInvalidScheme)
	var absent *testScheme
	assert.ErrorIs(t, m.Add(absent), ErrInvalidScheme)
	assert.Equal(t, 1, m.Len())
}

type mapScheme struct {
	name  string
	props map[string]string
}

func (s mapScheme) Name() string { return s.name }

func TestAddRejectsNonComparableScheme(t *testing.T) {
	p := newTestProcessor()
	m := newTestManager(t, p, nil, false)

	err := m.Add(mapScheme{name: "Map", props: map[string]string{"k": "v"}})
	assert.ErrorIs(t, err, ErrInvalidScheme)
	assert.Equal(t, 0, m.Len())
	assert.Empty(t, p.events)
}

func TestAddReplacesSameName(t *testing.T) {
	p := newTestProcessor()
	m := newTestManager(t, p, nil, false)

	a1 := &testScheme{name: "A", body: "first"}
	b := &testScheme{name: "B"}
	a2 := &testScheme{name: "A", body: "second"}
	require.NoError(t, m.Add(a1))
	require.NoError(t, m.Add(b))
	require.NoError(t, m.SetCurrent(a1))

	p.reset()
	require.NoError(t, m.Add(a2))
	assert.Equal(t, []string{"deleted:A", "init:A", "added:A", "switched:A->A"}, p.events)

	assert.Equal(t, []scheme.Scheme{a2, b}, m.AllSchemes())
	found, ok := m.FindByName("A")
	require.True(t, ok)
	assert.Same(t, a2, found)
	current, ok := m.Current()
	require.True(t, ok)
	assert.Same(t, a2, current)
}

func TestAddLoadedSkipsInit(t *testing.T) {
	p := newTestProcessor()
	m := newTestManager(t, p, nil, false)

	require.NoError(t, m.AddLoaded(&testScheme{name: "A"}))
	assert.Equal(t, []string{"added:A"}, p.events)
}

func TestSetCurrent(t *testing.T) {
	p := newTestProcessor()
	m := newTestManager(t, p, nil, false)
	a := &testScheme{name: "A"}
	b := &testScheme{name: "B"}
	require.NoError(t, m.Add(a))
	require.NoError(t, m.Add(b))
	p.reset()

	require.NoError(t, m.SetCurrent(a))
	require.NoError(t, m.SetCurrent(a))
	assert.Equal(t, []string{"switched:<none>->A"}, p.events)
	assert.Equal(t, "A", m.CurrentName())

	require.NoError(t, m.SetCurrentByName("B"))
	require.NoError(t, m.SetCurrentByName(""))
	require.NoError(t, m.SetCurrent(nil))
	assert.Equal(t, []string{"switched:<none>->A", "switched:A->B", "switched:B-><none>"}, p.events)
	_, ok := m.Current()
	assert.False(t, ok)
	assert.Equal(t, "", m.CurrentName())

	assert.ErrorIs(t, m.SetCurrent(&testScheme{name: "C"}), ErrSchemeNotFound)
	assert.ErrorIs(t, m.SetCurrentByName("C"), ErrSchemeNotFound)
	assert.Len(t, p.events, 3)
}

func TestRemove(t *testing.T) {
	p := newTestProcessor()
	m := newTestManager(t, p, nil, false)
	a := &testScheme{name: "A"}
	b := &testScheme{name: "B"}
	require.NoError(t, m.Add(a))
	require.NoError(t, m.Add(b))
	require.NoError(t, m.SetCurrent(a))
	p.reset()

	removed, ok := m.Remove("A")
	require.True(t, ok)
	assert.Same(t, a, removed)
	assert.Equal(t, []string{"deleted:A", "switched:A-><none>"}, p.events)
	_, ok = m.Current()
	assert.False(t, ok)

	_, ok = m.Remove("A")
	assert.False(t, ok)

	p.reset()
	assert.False(t, m.RemoveScheme(&testScheme{name: "B"}))
	assert.True(t, m.RemoveScheme(b))
	assert.Equal(t, []string{"deleted:B"}, p.events)
	assert.Equal(t, 0, m.Len())
}

func TestFindByNameAfterRename(t *testing.T) {
	m := newTestManager(t, newTestProcessor(), nil, false)
	a := &testScheme{name: "A"}
	require.NoError(t, m.Add(a))

	a.SetName("B")
	_, ok := m.FindByName("A")
	assert.False(t, ok)
	found, ok := m.FindByName("B")
	require.True(t, ok)
	assert.Same(t, a, found)
	assert.Equal(t, []string{"B"}, m.AllSchemeNames())
}

func TestAllSchemesIsSnapshot(t *testing.T) {
	m := newTestManager(t, newTestProcessor(), nil, false)
	require.NoError(t, m.Add(&testScheme{name: "A"}))
	require.NoError(t, m.Add(&testScheme{name: "B"}))

	all := m.AllSchemes()
	all[0] = &testScheme{name: "X"}
	assert.Equal(t, []string{"A", "B"}, m.AllSchemeNames())
}

func TestSchemesToSave(t *testing.T) {
	p := newTestProcessor()
	m := newTestManager(t, p, nil, false)
	p.states["Unchanged"] = scheme.StateUnchanged
	p.states["Bundled"] = scheme.StateNonPersistent

	for _, n := range []string{"Changed", "Unchanged", "Bundled"} {
		require.NoError(t, m.Add(&testScheme{name: n}))
	}
	require.NoError(t, m.Add(&fixedScheme{name: "Fixed"}))

	assert.Equal(t, []string{"Changed"}, names(m.SchemesToSave()))
}

func TestKeymapsScenario(t *testing.T) {
	p := newTestProcessor()
	p.externalizable = func(scheme.Scheme) bool { return true }
	m := newTestManager(t, p, nil, false)

	d := &testScheme{name: "Default"}
	require.NoError(t, m.Add(d))
	assert.Equal(t, []string{"Default"}, names(m.SchemesToSave()))

	_, ok := m.Remove("Default")
	require.True(t, ok)
	assert.Empty(t, m.SchemesToSave())
	assert.Equal(t, 1, p.count("deleted:Default"))
}

func TestNonExternalizableScenario(t *testing.T) {
	p := newTestProcessor()
	p.externalizable = func(scheme.Scheme) bool { return false }
	m := newTestManager(t, p, nil, false)

	require.NoError(t, m.Add(&testScheme{name: "Temp"}))
	assert.Equal(t, scheme.StatePossiblyChanged, p.GetState(&testScheme{name: "Temp"}))
	assert.Empty(t, m.SchemesToSave())
}

func TestManagerProperties(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		p := newTestProcessor()
		m, err := New[scheme.Scheme, *testScheme](Settings{DirectoryName: "keymaps", Storage: memstore.New()}, p)
		if err != nil {
			t.Fatalf("new: %v", err)
		}
		nameGen := rapid.SampledFrom([]string{"A", "B", "C", "D"})
		steps := rapid.IntRange(1, 40).Draw(t, "steps")
		for i := 0; i < steps; i++ {
			name := nameGen.Draw(t, "name")
			switch rapid.IntRange(0, 3).Draw(t, "op") {
			case 0:
				if err := m.Add(&testScheme{name: name}); err != nil {
					t.Fatalf("add %s: %v", name, err)
				}
			case 1:
				m.Remove(name)
			case 2:
				before := len(p.events)
				if s, ok := m.FindByName(name); ok {
					_ = m.SetCurrent(s)
					afterFirst := len(p.events)
					_ = m.SetCurrent(s)
					if len(p.events) != afterFirst {
						t.Fatalf("repeated SetCurrent(%s) fired a switch", name)
					}
					if afterFirst-before > 1 {
						t.Fatalf("SetCurrent(%s) fired %d events", name, afterFirst-before)
					}
				}
			case 3:
				_ = m.SetCurrent(nil)
			}

			seen := map[string]bool{}
			all := m.AllSchemes()
			for _, s := range all {
				if seen[s.Name()] {
					t.Fatalf("duplicate name %s", s.Name())
				}
				seen[s.Name()] = true
			}
			if len(all) != m.Len() {
				t.Fatalf("len %d, snapshot %d", m.Len(), len(all))
			}
			if cur, ok := m.Current(); ok {
				found, ok := m.FindByName(cur.Name())
				if !ok || found != cur {
					t.Fatalf("current %s is not registered", cur.Name())
				}
			}
		}
	})
}

func names(schemes []scheme.Scheme) []string {
	out := make([]string, 0, len(schemes))
	for _, s := range schemes {
		out = append(out, s.Name())
	}
	return out
}
