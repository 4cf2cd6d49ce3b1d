package validation

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Get the JSON or TOML tag for a given field, or fallback to field name if not found
func GetFieldTag(field reflect.StructField) string {
	for _, key := range []string{"json", "toml"} {
		tag := field.Tag.Get(key)
		if tag == "" || tag == "-" {
			continue
		}
		if name := strings.Split(tag, ",")[0]; name != "" {
			return name
		}
	}
	return field.Name
}

// FieldErrors flattens validator errors into "field: tag" messages, keyed by
// the tag path of the failing field.
func FieldErrors(err error) []string {
	ve, ok := err.(validator.ValidationErrors)
	if !ok {
		if err == nil {
			return nil
		}
		return []string{err.Error()}
	}
	msgs := make([]string, 0, len(ve))
	for _, e := range ve {
		ns := e.Namespace()
		// drop the root struct name
		if i := strings.Index(ns, "."); i >= 0 {
			ns = ns[i+1:]
		}
		msgs = append(msgs, ns+": failed "+e.Tag())
	}
	return msgs
}
