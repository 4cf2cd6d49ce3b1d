package schemastore

import (
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"errors"

	"github.com/mugiliam/hatchschemesrv/pkg/scheme"
	"github.com/mugiliam/hatchschemesrv/pkg/types"
	"sigs.k8s.io/yaml"
)

var (
	ErrInvalidRepresentation = errors.New("invalid scheme storage representation")
	ErrUnsupportedVersion    = errors.New("unsupported scheme document version")
)

// SchemeStorageRepresentation is the stored form of one scheme.
type SchemeStorageRepresentation struct {
	Version   string            `json:"version"`
	Directory string            `json:"directory"`
	Name      string            `json:"name"`
	Roaming   types.RoamingType `json:"roaming,omitempty"`
	Document  *scheme.Element   `json:"document"`
}

func New(directory, name string, roaming types.RoamingType, document *scheme.Element) *SchemeStorageRepresentation {
	return &SchemeStorageRepresentation{
		Version:   types.DocumentVersionV1,
		Directory: directory,
		Name:      name,
		Roaming:   roaming,
		Document:  document,
	}
}

// Serialize converts the SchemeStorageRepresentation to a JSON byte array
func (s *SchemeStorageRepresentation) Serialize() ([]byte, error) {
	return json.Marshal(s)
}

// ToYAML converts the SchemeStorageRepresentation to the on-disk document format
func (s *SchemeStorageRepresentation) ToYAML() ([]byte, error) {
	return yaml.Marshal(s)
}

// FromYAML replaces s with the document in data.
func (s *SchemeStorageRepresentation) FromYAML(data []byte) error {
	return yaml.Unmarshal(data, s)
}

// GetHash returns the SHA-512 hash of the serialized SchemeStorageRepresentation.
// Field order is fixed by the struct, so equal representations yield the same hash.
func (s *SchemeStorageRepresentation) GetHash() string {
	sz, err := s.Serialize()
	if err != nil {
		return ""
	}
	return HexEncodedSHA512(sz)
}

// Validate checks the fields a loader depends on.
func (s *SchemeStorageRepresentation) Validate() error {
	if s.Version != types.DocumentVersionV1 {
		return ErrUnsupportedVersion
	}
	if s.Document == nil || s.Document.Name == "" {
		return ErrInvalidRepresentation
	}
	return nil
}

// Decode parses a stored document. JSON input is accepted as well since it
// is a subset of YAML.
func Decode(data []byte) (*SchemeStorageRepresentation, error) {
	s := &SchemeStorageRepresentation{}
	if err := s.FromYAML(data); err != nil {
		return nil, errors.Join(ErrInvalidRepresentation, err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Encode builds the stored form of a scheme document and returns it with its digest.
func Encode(directory, name string, roaming types.RoamingType, document *scheme.Element) ([]byte, string, error) {
	rep := New(directory, name, roaming, document)
	if err := rep.Validate(); err != nil {
		return nil, "", err
	}
	data, err := rep.ToYAML()
	if err != nil {
		return nil, "", err
	}
	return data, rep.GetHash(), nil
}

func HexEncodedSHA512(b []byte) string {
	h := sha512.Sum512(b)
	return hex.EncodeToString(h[:])
}
