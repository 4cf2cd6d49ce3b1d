// Package colors is the color scheme kind: named maps of color keys to hex
// values, some of them bundled with the application.
package colors

import (
	"encoding/json"
	"sort"
	"sync"

	"github.com/mugiliam/hatchschemesrv/internal/common/apperrors"
	"github.com/mugiliam/hatchschemesrv/internal/common/validation"
	"github.com/mugiliam/hatchschemesrv/internal/schememanager"
	"github.com/mugiliam/hatchschemesrv/internal/schememanager/factory"
	"github.com/mugiliam/hatchschemesrv/pkg/api/schemastore"
	"github.com/mugiliam/hatchschemesrv/pkg/scheme"
	"github.com/mugiliam/hatchschemesrv/pkg/types"
	"github.com/rs/zerolog/log"
)

const (
	DirectoryName = "colors"

	elementScheme = "colorscheme"
	elementColor  = "color"
)

var (
	ErrColors        apperrors.Error = apperrors.New("color scheme error")
	ErrInvalidColor  apperrors.Error = ErrColors.New("invalid color")
	ErrInvalidScheme apperrors.Error = ErrColors.New("invalid color scheme document")
)

type ColorScheme struct {
	name    string
	Colors  map[string]string
	Bundled bool
}

var _ scheme.ExternalizableScheme = (*ColorScheme)(nil)

func New(name string, colors map[string]string) *ColorScheme {
	c := &ColorScheme{name: name, Colors: make(map[string]string, len(colors))}
	for k, v := range colors {
		c.Colors[k] = v
	}
	return c
}

func (c *ColorScheme) Name() string {
	return c.name
}

func (c *ColorScheme) SetName(name string) {
	c.name = name
}

func (c *ColorScheme) SetColor(key, value string) {
	if c.Colors == nil {
		c.Colors = make(map[string]string)
	}
	c.Colors[key] = value
}

func (c *ColorScheme) Color(key string) (string, bool) {
	v, ok := c.Colors[key]
	return v, ok
}

func (c *ColorScheme) keys() []string {
	keys := make([]string, 0, len(c.Colors))
	for k := range c.Colors {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// contentHash covers everything that ends up in storage.
func (c *ColorScheme) contentHash() string {
	b, err := json.Marshal(struct {
		Name   string            `json:"name"`
		Colors map[string]string `json:"colors"`
	}{c.name, c.Colors})
	if err != nil {
		return ""
	}
	return schemastore.HexEncodedSHA512(b)
}

// Processor is the color scheme processor. A loaded scheme reports
// unchanged until its content differs from what was read.
type Processor struct {
	scheme.BaseProcessor[*ColorScheme, *ColorScheme]

	mu      sync.Mutex
	loaded  map[*ColorScheme]string
	current string
}

var (
	_ scheme.Processor[*ColorScheme, *ColorScheme] = (*Processor)(nil)
	_ scheme.SchemeReader[*ColorScheme]            = (*Processor)(nil)
)

func NewProcessor() *Processor {
	return &Processor{loaded: make(map[*ColorScheme]string)}
}

func (p *Processor) GetState(c *ColorScheme) scheme.State {
	if c.Bundled {
		return scheme.StateNonPersistent
	}
	p.mu.Lock()
	digest, ok := p.loaded[c]
	p.mu.Unlock()
	if ok && digest == c.contentHash() {
		return scheme.StateUnchanged
	}
	return scheme.StatePossiblyChanged
}

func (p *Processor) WriteScheme(c *ColorScheme) (*scheme.Element, error) {
	el := scheme.NewElement(elementScheme).SetAttribute("name", c.name)
	for _, k := range c.keys() {
		v := c.Colors[k]
		if k == "" {
			return nil, ErrInvalidColor.Msg("empty color key in " + c.name)
		}
		if err := validation.V().Var(v, "required,hexcolor"); err != nil {
			return nil, ErrInvalidColor.MsgErr("invalid value '"+v+"' for color "+k, err)
		}
		el.AddChild(scheme.NewElement(elementColor).SetAttribute("name", k).SetAttribute("value", v))
	}
	return el, nil
}

func (p *Processor) ReadScheme(el *scheme.Element) (*ColorScheme, error) {
	if el == nil || el.Name != elementScheme {
		return nil, ErrInvalidScheme.Msg("not a color scheme")
	}
	name, ok := el.Attribute("name")
	if !ok || name == "" {
		return nil, ErrInvalidScheme.Msg("color scheme without a name")
	}
	c := New(name, nil)
	for _, child := range el.ChildrenNamed(elementColor) {
		k, _ := child.Attribute("name")
		v, _ := child.Attribute("value")
		if k == "" {
			return nil, ErrInvalidScheme.Msg("color without a name in " + name)
		}
		c.Colors[k] = v
	}
	p.mu.Lock()
	p.loaded[c] = c.contentHash()
	p.mu.Unlock()
	return c, nil
}

func (p *Processor) OnSchemeDeleted(c *ColorScheme) {
	p.mu.Lock()
	delete(p.loaded, c)
	p.mu.Unlock()
}

func (p *Processor) OnCurrentSchemeSwitched(oldScheme, newScheme *ColorScheme) {
	name := ""
	if newScheme != nil {
		name = newScheme.Name()
	}
	p.mu.Lock()
	p.current = name
	p.mu.Unlock()
	log.Debug().Str("directory", DirectoryName).Str("scheme", name).Msg("color scheme switched")
}

// Active returns the name of the color scheme currently in effect.
func (p *Processor) Active() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.current
}

// Bundled returns the schemes shipped with the application.
func Bundled() []*ColorScheme {
	light := New("Default", map[string]string{
		"background": "#ffffff",
		"foreground": "#000000",
		"selection":  "#a6d2ff",
		"caret":      "#000000",
	})
	dark := New("Darcula", map[string]string{
		"background": "#2b2b2b",
		"foreground": "#a9b7c6",
		"selection":  "#214283",
		"caret":      "#bbbbbb",
	})
	light.Bundled = true
	dark.Bundled = true
	return []*ColorScheme{light, dark}
}

type Manager = schememanager.Manager[*ColorScheme, *ColorScheme]

// Register creates the color scheme manager of f with the bundled schemes,
// "Default" being current.
func Register(f factory.Factory) (*Manager, error) {
	m, err := factory.Create[*ColorScheme, *ColorScheme](f, DirectoryName, NewProcessor(),
		factory.WithPresentableName("Color Schemes"),
		factory.WithRoamingType(types.RoamingPerOS))
	if err != nil {
		return nil, err
	}
	for _, c := range Bundled() {
		if err := m.Add(c); err != nil {
			return nil, err
		}
	}
	if err := m.SetCurrentByName("Default"); err != nil {
		return nil, err
	}
	return m, nil
}
