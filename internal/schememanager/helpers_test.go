package schememanager

import (
	"testing"

	"github.com/mugiliam/hatchschemesrv/internal/storage"
	"github.com/mugiliam/hatchschemesrv/internal/storage/memstore"
	"github.com/mugiliam/hatchschemesrv/pkg/scheme"
	"github.com/stretchr/testify/require"
)

type testScheme struct {
	name string
	body string
}

func (s *testScheme) Name() string        { return s.name }
func (s *testScheme) SetName(name string) { s.name = name }

// fixedScheme has no mutable name.
type fixedScheme struct {
	name string
}

func (s *fixedScheme) Name() string { return s.name }

type testProcessor struct {
	scheme.BaseProcessor[scheme.Scheme, *testScheme]
	events         []string
	states         map[string]scheme.State
	writeErrs      map[string]error
	externalizable func(scheme.Scheme) bool
}

var _ scheme.SchemeReader[*testScheme] = (*testProcessor)(nil)

func newTestProcessor() *testProcessor {
	return &testProcessor{
		states:    make(map[string]scheme.State),
		writeErrs: make(map[string]error),
	}
}

func (p *testProcessor) IsExternalizable(s scheme.Scheme) bool {
	if p.externalizable != nil {
		return p.externalizable(s)
	}
	return p.BaseProcessor.IsExternalizable(s)
}

func (p *testProcessor) GetState(s scheme.Scheme) scheme.State {
	if st, ok := p.states[s.Name()]; ok {
		return st
	}
	return p.BaseProcessor.GetState(s)
}

func (p *testProcessor) WriteScheme(s *testScheme) (*scheme.Element, error) {
	if err := p.writeErrs[s.name]; err != nil {
		return nil, err
	}
	el := scheme.NewElement("keymap").SetAttribute("name", s.name)
	el.Text = s.body
	return el, nil
}

func (p *testProcessor) ReadScheme(el *scheme.Element) (*testScheme, error) {
	name, _ := el.Attribute("name")
	return &testScheme{name: name, body: el.Text}, nil
}

func (p *testProcessor) InitScheme(s *testScheme) {
	p.events = append(p.events, "init:"+s.name)
}

func (p *testProcessor) OnSchemeAdded(s *testScheme) {
	p.events = append(p.events, "added:"+s.name)
}

func (p *testProcessor) OnSchemeDeleted(s *testScheme) {
	p.events = append(p.events, "deleted:"+s.name)
}

func (p *testProcessor) OnCurrentSchemeSwitched(oldScheme, newScheme scheme.Scheme) {
	p.events = append(p.events, "switched:"+nameOf(oldScheme)+"->"+nameOf(newScheme))
}

func (p *testProcessor) reset() {
	p.events = nil
}

func (p *testProcessor) count(event string) int {
	n := 0
	for _, e := range p.events {
		if e == event {
			n++
		}
	}
	return n
}

// writeOnlyProcessor cannot read schemes back.
type writeOnlyProcessor struct {
	scheme.BaseProcessor[scheme.Scheme, *testScheme]
}

func (writeOnlyProcessor) WriteScheme(s *testScheme) (*scheme.Element, error) {
	return scheme.NewElement("keymap").SetAttribute("name", s.name), nil
}

func nameOf(s scheme.Scheme) string {
	if scheme.IsAbsent(s) {
		return "<none>"
	}
	return s.Name()
}

type testManager = Manager[scheme.Scheme, *testScheme]

func newTestManager(t *testing.T, p scheme.Processor[scheme.Scheme, *testScheme], st storage.Storage, legacy bool) *testManager {
	t.Helper()
	if st == nil {
		st = memstore.New()
	}
	m, err := New(Settings{DirectoryName: "keymaps", Storage: st, UseOldNameSanitize: legacy}, p)
	require.NoError(t, err)
	return m
}
