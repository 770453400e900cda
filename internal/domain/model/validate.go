package model

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	// Registration only fails on an empty tag or nil func.
	_ = v.RegisterValidation("excel_file", func(fl validator.FieldLevel) bool {
		return IsExcelFilename(fl.Field().String())
	})
	return v
}

// IsExcelFilename reports whether name carries a spreadsheet extension the backend accepts.
func IsExcelFilename(name string) bool {
	lower := strings.ToLower(strings.TrimSpace(name))
	return strings.HasSuffix(lower, ".xlsx") || strings.HasSuffix(lower, ".xls")
}

// fieldMessages maps Go struct field names to the inline messages the portal shows.
type fieldMessages map[string]string

// validateStruct runs tag validation and converts the first failure per field into a
// field-keyed message map. A nil map means the struct is valid.
func validateStruct(v any, messages fieldMessages) (map[string]string, error) {
	err := validate.Struct(v)
	if err == nil {
		return nil, nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil, err
	}
	out := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		key := fe.Field()
		if _, seen := out[key]; seen {
			continue
		}
		if msg, ok := messages[fe.StructField()]; ok {
			out[key] = msg
			continue
		}
		out[key] = fe.StructField() + " is invalid"
	}
	return out, nil
}
