// Package validation carries field-scoped validation failures between
// modules. Failures travel inside response payloads rather than as opaque
// errors so the API layer can render them verbatim.
package validation

// NonFieldErrors is the key for failures not tied to a single field.
const NonFieldErrors = "non_field_errors"

// Messages shared by several request paths.
const (
	MsgRequired = "This field is required."
	MsgBlank    = "This field may not be blank."
)

// FieldErrors maps a field name to its validation messages.
type FieldErrors map[string][]string

// Add appends a message for the given field.
func (e FieldErrors) Add(field, message string) {
	e[field] = append(e[field], message)
}
