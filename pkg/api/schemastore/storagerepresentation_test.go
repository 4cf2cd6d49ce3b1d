package schemastore

import (
	"testing"

	"github.com/mugiliam/hatchschemesrv/pkg/scheme"
	"github.com/mugiliam/hatchschemesrv/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleDocument(background string) *scheme.Element {
	el := scheme.NewElement("scheme").SetAttribute("name", "Dark")
	colors := el.AddChild(scheme.NewElement("colors"))
	colors.AddChild(scheme.NewElement("option").SetAttribute("name", "background").SetAttribute("value", background))
	return el
}

func TestYAMLRoundTrip(t *testing.T) {
	s := New("colors", "Dark", types.RoamingDefault, sampleDocument("#000000"))
	y, err := s.ToYAML()
	require.NoError(t, err)
	assert.Contains(t, string(y), "directory: colors")

	d, err := Decode(y)
	require.NoError(t, err)
	assert.Equal(t, s, d)
	assert.Equal(t, s.GetHash(), d.GetHash())
}

func TestGetHash(t *testing.T) {
	a := New("colors", "Dark", types.RoamingDefault, sampleDocument("#000000"))
	b := New("colors", "Dark", types.RoamingDefault, sampleDocument("#000000"))
	c := New("colors", "Dark", types.RoamingDefault, sampleDocument("#ffffff"))

	assert.Equal(t, a.GetHash(), b.GetHash())
	assert.NotEqual(t, a.GetHash(), c.GetHash())
	assert.Len(t, a.GetHash(), 128)
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name     string
		data     string
		expected error
	}{
		{
			name:     "malformed",
			data:     "version: [v1",
			expected: ErrInvalidRepresentation,
		},
		{
			name:     "unsupported version",
			data:     `{"version": "v2", "directory": "colors", "name": "Dark", "document": {"name": "scheme"}}`,
			expected: ErrUnsupportedVersion,
		},
		{
			name:     "missing document",
			data:     "version: v1\ndirectory: colors\nname: Dark\n",
			expected: ErrInvalidRepresentation,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode([]byte(tt.data))
			assert.ErrorIs(t, err, tt.expected)
		})
	}
}

func TestEncode(t *testing.T) {
	data, digest, err := Encode("colors", "Dark", types.RoamingPerOS, sampleDocument("#000000"))
	require.NoError(t, err)
	assert.Equal(t, New("colors", "Dark", types.RoamingPerOS, sampleDocument("#000000")).GetHash(), digest)

	d, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, types.RoamingPerOS, d.Roaming)
	assert.Equal(t, digest, d.GetHash())

	_, _, err = Encode("colors", "Dark", types.RoamingDefault, nil)
	assert.ErrorIs(t, err, ErrInvalidRepresentation)
}
