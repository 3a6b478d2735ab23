package serverutils

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"gitsleuth-be/internal/apperrors"
)

var validate = validator.New()

// ValidateRequest checks struct tags and reports all failing fields as a
// single validation error, before any state is touched.
func ValidateRequest(req interface{}) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return apperrors.Wrap(apperrors.KindValidation, "invalid request", err)
	}

	messages := make([]string, 0, len(validationErrors))
	for _, fieldErr := range validationErrors {
		messages = append(messages, fmt.Sprintf("field '%s' failed on '%s'", fieldErr.Field(), fieldErr.Tag()))
	}

	return apperrors.Validation(strings.Join(messages, "; "))
}
