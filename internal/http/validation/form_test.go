package validation

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
)

func newTestForm() *Form {
	return NewForm(
		Field{Name: "name", Label: "Name", Validators: []Validator{NotBlank("Enter a name")}},
		Field{Name: "code", Label: "Code", Validators: []Validator{NotBlank("Enter a code"), MaxLen("Code is too long", 4)}},
		Field{Name: "notes", Label: "Notes"},
	)
}

func TestForm_SetRevalidatesOneField(t *testing.T) {
	f := newTestForm()

	assert.False(t, f.Set("name", ""))
	assert.True(t, f.Invalid("name"))
	assert.False(t, f.Invalid("code"), "untouched fields carry no message")
	assert.Equal(t, map[string]string{"name": "Enter a name"}, f.Errors())

	assert.True(t, f.Set("name", "Academies"))
	assert.False(t, f.Invalid("name"))
	assert.Empty(t, f.Errors())
	assert.False(t, f.Valid(), "a form is not valid until every field was checked")

	assert.True(t, f.Set("unknown", "x"))
	assert.Equal(t, "x", f.Value("unknown"))
}

func TestForm_ValidateAll(t *testing.T) {
	f := newTestForm()
	f.Set("name", "Academies")
	f.Set("code", "TOO-LONG")

	assert.False(t, f.ValidateAll())
	assert.Equal(t, []FieldError{{Field: "code", Label: "Code", Message: "Code is too long"}}, f.FieldErrors())

	f.Set("code", "AB")
	assert.True(t, f.ValidateAll())
	assert.True(t, f.Valid())
}

func TestForm_FieldErrorsFollowDeclarationOrder(t *testing.T) {
	f := newTestForm()
	assert.False(t, f.ValidateAll())
	assert.Equal(t, []FieldError{
		{Field: "name", Label: "Name", Message: "Enter a name"},
		{Field: "code", Label: "Code", Message: "Enter a code"},
	}, f.FieldErrors())
}

func TestForm_BindAndMerge(t *testing.T) {
	f := newTestForm().Bind(url.Values{"name": {"  Academies "}, "code": {"A1"}, "extra": {"ignored"}})
	assert.Equal(t, "Academies", f.TrimmedValue("name"))
	assert.Empty(t, f.Value("extra"))
	assert.True(t, f.ValidateAll())

	f.Merge(map[string]string{"code": "Code already exists", "name": ""})
	assert.False(t, f.Valid())
	assert.Equal(t, "Code already exists", f.Message("code"))
	assert.False(t, f.Invalid("name"))
}
