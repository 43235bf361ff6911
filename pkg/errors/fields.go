package errors

import "strings"

// FieldErrors collects per-field validation messages in the order they were found.
type FieldErrors struct {
	fields []string
	msgs   map[string]string
}

// Add records msg for field unless the field already has a message.
func (f *FieldErrors) Add(field, msg string) {
	if f.msgs == nil {
		f.msgs = map[string]string{}
	}
	if _, exists := f.msgs[field]; exists {
		return
	}
	f.fields = append(f.fields, field)
	f.msgs[field] = msg
}

func (f *FieldErrors) Empty() bool {
	return f == nil || len(f.fields) == 0
}

// Map returns a copy of the collected messages keyed by field.
func (f *FieldErrors) Map() map[string]string {
	out := make(map[string]string, len(f.fields))
	for _, field := range f.fields {
		out[field] = f.msgs[field]
	}
	return out
}

// Err converts the collected messages into a validation error whose message is
// the first failure, or nil when nothing was recorded.
func (f *FieldErrors) Err() error {
	if f.Empty() {
		return nil
	}
	return New(CodeValidation, f.msgs[f.fields[0]]).WithDetails(f.Map())
}

// IsCode reports whether err carries the given typed code.
func IsCode(err error, code Code) bool {
	typed := As(err)
	return typed != nil && typed.Code() == code
}

// Validation builds a single-field validation error.
func Validation(field, msg string) *Error {
	return New(CodeValidation, msg).WithDetails(map[string]string{strings.TrimSpace(field): msg})
}
