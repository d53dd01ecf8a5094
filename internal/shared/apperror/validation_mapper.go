package apperror

import (
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

func formatFieldName(s string) string {
	// start_date -> Start Date
	s = strings.ReplaceAll(s, "_", " ")

	caser := cases.Title(language.English)
	return caser.String(s)
}

// MapValidationError converts the first binding/validator failure into an
// AppError so clients always see the {code, detail} shape.
func MapValidationError(err error) error {
	if errs, ok := err.(validator.ValidationErrors); ok {
		e := errs[0]

		// e.Field() sudah nama json karena RegisterTagNameFunc di Init()
		fieldName := formatFieldName(e.Field())

		switch e.Tag() {
		case "required":
			return RequiredField(fieldName)
		default:
			return InvalidField(fieldName)
		}
	}

	return New(
		CodeInvalidInput,
		"Invalid input",
		http.StatusBadRequest,
	)
}
