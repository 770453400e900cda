package validation

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

const errNameRequired = "Name is required."

func TestValidators(t *testing.T) {
	upper := regexp.MustCompile(`^[A-Z]+$`)

	tests := []struct {
		name      string
		validator Validator
		value     string
		want      string
	}{
		{name: "required ok", validator: Required("Name", 10), value: "valid"},
		{name: "required empty", validator: Required("Name", 10), value: "", want: errNameRequired},
		{name: "required whitespace", validator: Required("Name", 10), value: "   ", want: errNameRequired},
		{name: "required too long", validator: Required("Name", 5), value: "toolong", want: "Name cannot exceed 5 characters."},
		{name: "required counts runes", validator: Required("Name", 5), value: "héllo"},
		{name: "not blank custom message", validator: NotBlank("Enter a dataset name"), value: " ", want: "Enter a dataset name"},
		{name: "not blank ok", validator: NotBlank("Enter a dataset name"), value: "Sixth form"},
		{name: "max len ok", validator: MaxLen("too long", 3), value: " abc "},
		{name: "max len exceeded", validator: MaxLen("too long", 3), value: "abcd", want: "too long"},
		{name: "int range ok", validator: IntRange("Count", 1, 10), value: "5"},
		{name: "int range not a number", validator: IntRange("Count", 1, 10), value: "five", want: "Count must be a number."},
		{name: "int range out of bounds", validator: IntRange("Count", 1, 10), value: "11", want: "Count must be between 1 and 10."},
		{name: "extension ok", validator: FileExtension("bad file", ".xls", ".xlsx"), value: "Providers.XLSX"},
		{name: "extension bad", validator: FileExtension("bad file", ".xls", ".xlsx"), value: "providers.csv", want: "bad file"},
		{name: "extension empty passes", validator: FileExtension("bad file", ".xls"), value: ""},
		{name: "one of case insensitive", validator: OneOf("Kind", []string{"FundingLine", "Calculation"}), value: "calculation"},
		{name: "one of miss", validator: OneOf("Kind", []string{"A", "B"}), value: "C", want: "Kind must be one of: A, B"},
		{name: "pattern ok", validator: Pattern("Code", upper), value: "ABC"},
		{name: "pattern miss", validator: Pattern("Code", upper), value: "abc", want: "Code has an invalid format."},
		{name: "pattern empty passes", validator: Pattern("Code", upper), value: ""},
		{name: "optional empty", validator: Optional("Notes", 3), value: ""},
		{name: "optional too long", validator: Optional("Notes", 3), value: "abcd", want: "Notes cannot exceed 3 characters."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.validator(tt.value))
		})
	}
}

func TestIfPresent(t *testing.T) {
	v := IfPresent(OneOf("Line type", []string{"Payment", "Information"}))
	assert.Empty(t, v(""))
	assert.Empty(t, v("  "))
	assert.Empty(t, v("payment"))
	assert.Equal(t, "Line type must be one of: Payment, Information", v("Other"))
}

func TestFirst(t *testing.T) {
	validators := []Validator{NotBlank("Enter a code"), MaxLen("Code is too long", 3)}

	assert.Equal(t, "Enter a code", First("", validators...))
	assert.Equal(t, "Code is too long", First("ABCD", validators...))
	assert.Empty(t, First("ABC", validators...))
	assert.Empty(t, First("anything"), "no validators means no message")
}
