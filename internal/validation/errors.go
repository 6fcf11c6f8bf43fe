package validation

import "strings"

// FieldError is a single failed field with a user-facing message.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error collects every failed field of a form in form order.
type Error struct {
	Fields []FieldError
}

// Error returns the first field's message.
func (e *Error) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	return e.Fields[0].Message
}

// Message returns the message recorded for field, or "".
func (e *Error) Message(field string) string {
	for _, f := range e.Fields {
		if f.Field == field {
			return f.Message
		}
	}
	return ""
}

// Has reports whether field failed.
func (e *Error) Has(field string) bool {
	return e.Message(field) != ""
}

// baseField strips a slice index, "hobbies[2]" -> "hobbies".
func baseField(name string) string {
	if i := strings.IndexByte(name, '['); i >= 0 {
		return name[:i]
	}
	return name
}
