// Package validator checks request and dependency structs against their
// `validate` tags.
//
// Use cases depend on the Validator interface; V10Validator is the
// go-playground/validator implementation wired by the app.
package validator

// Validator validates a struct. A failure is usually a V10ValidationError
// keyed by snake_case field name.
type Validator interface {
	Validate(data any) error
}
