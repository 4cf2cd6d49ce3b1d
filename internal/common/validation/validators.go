// Package validation holds the shared validator instance and the custom
// validators for directory names, scheme names and roaming types.
package validation

import (
	"reflect"
	"regexp"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/mugiliam/hatchschemesrv/pkg/types"
)

const (
	MaxSchemeNameLength = 255

	directorySegmentRegex = `^[A-Za-z0-9_.-]+$`
)

var (
	v          *validator.Validate
	vOnce      sync.Once
	dirSegment = regexp.MustCompile(directorySegmentRegex)
)

// V returns the shared validator with the custom validations registered.
func V() *validator.Validate {
	vOnce.Do(func() {
		v = validator.New()
		v.RegisterValidation("directoryNameValidator", directoryNameValidator)
		v.RegisterValidation("schemeNameValidator", schemeNameValidator)
		v.RegisterValidation("roamingTypeValidator", roamingTypeValidator)
		v.RegisterTagNameFunc(func(field reflect.StructField) string {
			return GetFieldTag(field)
		})
	})
	return v
}

// directoryNameValidator checks that a storage directory name is a relative
// path whose segments are alphanumeric with underscores, dots and hyphens.
func directoryNameValidator(fl validator.FieldLevel) bool {
	return ValidateDirectoryName(fl.Field().String())
}

func ValidateDirectoryName(name string) bool {
	if name == "" {
		return false
	}
	for _, seg := range strings.Split(name, "/") {
		if seg == "." || seg == ".." || !dirSegment.MatchString(seg) {
			return false
		}
	}
	return true
}

// schemeNameValidator accepts any non-blank printable name up to MaxSchemeNameLength bytes.
func schemeNameValidator(fl validator.FieldLevel) bool {
	return ValidateSchemeName(fl.Field().String())
}

func ValidateSchemeName(name string) bool {
	if strings.TrimSpace(name) == "" || len(name) > MaxSchemeNameLength || !utf8.ValidString(name) {
		return false
	}
	for _, r := range name {
		if unicode.IsControl(r) {
			return false
		}
	}
	return true
}

func roamingTypeValidator(fl validator.FieldLevel) bool {
	return types.RoamingType(fl.Field().String()).IsValid()
}
