package validation

import (
	"net/url"
	"strings"
)

// Field declares one form input and the validators it must satisfy.
type Field struct {
	Name       string
	Label      string
	Validators []Validator
}

// FieldError is an inline message attached to a field.
type FieldError struct {
	Field   string `json:"field"`
	Label   string `json:"label,omitempty"`
	Message string `json:"message"`
}

// Form keeps field values alongside per-field validity. Set revalidates a
// single field as the user edits it; ValidateAll re-checks every field on submit.
type Form struct {
	fields   []Field
	values   map[string]string
	messages map[string]string
	checked  map[string]bool
}

// NewForm creates a form over fields. Fields are reported in declaration order.
func NewForm(fields ...Field) *Form {
	return &Form{
		fields:   fields,
		values:   make(map[string]string, len(fields)),
		messages: make(map[string]string, len(fields)),
		checked:  make(map[string]bool, len(fields)),
	}
}

func (f *Form) field(name string) (Field, bool) {
	for _, fd := range f.fields {
		if fd.Name == name {
			return fd, true
		}
	}
	return Field{}, false
}

// Set stores value and revalidates that field only. Unknown fields are
// stored but never validated. It reports whether the field is now valid.
func (f *Form) Set(name, value string) bool {
	f.values[name] = value
	fd, ok := f.field(name)
	if !ok {
		return true
	}
	msg := First(value, fd.Validators...)
	f.checked[name] = true
	if msg == "" {
		delete(f.messages, name)
		return true
	}
	f.messages[name] = msg
	return false
}

// Value returns the stored value of a field.
func (f *Form) Value(name string) string {
	return f.values[name]
}

// TrimmedValue returns the stored value with surrounding whitespace removed.
func (f *Form) TrimmedValue(name string) string {
	return strings.TrimSpace(f.values[name])
}

// Bind copies the first value of every declared field from vals without
// validating, the way a form is populated before submit.
func (f *Form) Bind(vals url.Values) *Form {
	for _, fd := range f.fields {
		if v, ok := vals[fd.Name]; ok && len(v) > 0 {
			f.values[fd.Name] = v[0]
		}
	}
	return f
}

// ValidateAll re-checks every declared field and reports whether all pass.
func (f *Form) ValidateAll() bool {
	messages := make(map[string]string, len(f.fields))
	for _, fd := range f.fields {
		if msg := First(f.values[fd.Name], fd.Validators...); msg != "" {
			messages[fd.Name] = msg
		}
		f.checked[fd.Name] = true
	}
	f.messages = messages
	return len(messages) == 0
}

// Valid reports whether every field has been checked and none failed.
func (f *Form) Valid() bool {
	for _, fd := range f.fields {
		if !f.checked[fd.Name] {
			return false
		}
	}
	return len(f.messages) == 0
}

// Invalid reports whether name currently carries a message.
func (f *Form) Invalid(name string) bool {
	_, bad := f.messages[name]
	return bad
}

// Message returns the inline message of a field, or "".
func (f *Form) Message(name string) string {
	return f.messages[name]
}

// Errors returns current messages keyed by field name.
func (f *Form) Errors() map[string]string {
	out := make(map[string]string, len(f.messages))
	for k, v := range f.messages {
		out[k] = v
	}
	return out
}

// FieldErrors returns current messages in declaration order.
func (f *Form) FieldErrors() []FieldError {
	out := make([]FieldError, 0, len(f.messages))
	for _, fd := range f.fields {
		if msg, ok := f.messages[fd.Name]; ok {
			out = append(out, FieldError{Field: fd.Name, Label: fd.Label, Message: msg})
		}
	}
	return out
}

// Merge attaches externally produced messages, e.g. backend failures keyed by
// field name. Empty messages are ignored.
func (f *Form) Merge(messages map[string]string) {
	for name, msg := range messages {
		if msg == "" {
			continue
		}
		f.messages[name] = msg
		f.checked[name] = true
	}
}
