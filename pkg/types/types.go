package types

import "fmt"

const (
	DocumentVersionV1   = "v1"
	SchemeFileExtension = ".yaml"
)

// RoamingType tells the sync collaborator whether a scheme kind takes part in
// cross-machine synchronization. The scheme core only threads it through.
type RoamingType string

const (
	RoamingDefault     RoamingType = "default"
	RoamingPerOS       RoamingType = "per_os"
	RoamingPerPlatform RoamingType = "per_platform"
	RoamingDisabled    RoamingType = "disabled"
	RoamingInvalid     RoamingType = "invalid"
)

var validRoamingTypes = []RoamingType{
	RoamingDefault,
	RoamingPerOS,
	RoamingPerPlatform,
	RoamingDisabled,
}

func (r RoamingType) IsValid() bool {
	for _, v := range validRoamingTypes {
		if r == v {
			return true
		}
	}
	return false
}

// IsRoamable reports whether data of this roaming type leaves the machine.
func (r RoamingType) IsRoamable() bool {
	return r.IsValid() && r != RoamingDisabled
}

func ParseRoamingType(s string) (RoamingType, error) {
	if s == "" {
		return RoamingDefault, nil
	}
	r := RoamingType(s)
	if !r.IsValid() {
		return RoamingInvalid, fmt.Errorf("invalid roaming type %q", s)
	}
	return r, nil
}
