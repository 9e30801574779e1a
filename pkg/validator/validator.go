package validator

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

type ErrorResponse struct {
	FailedField string `json:"field"`
	Tag         string `json:"tag"`
	Value       string `json:"param,omitempty"`
}

var validate = validator.New()

func ValidateStruct(data interface{}) []*ErrorResponse {
	var errors []*ErrorResponse
	err := validate.Struct(data)
	if err != nil {
		for _, err := range err.(validator.ValidationErrors) {
			var element ErrorResponse
			element.FailedField = err.StructNamespace()
			element.Tag = err.Tag()
			element.Value = err.Param()
			errors = append(errors, &element)
		}
	}
	return errors
}

// Describe flattens validation failures into a single message suitable
// for an error response body.
func Describe(errs []*ErrorResponse) string {
	parts := make([]string, 0, len(errs))
	for _, e := range errs {
		if e.Value != "" {
			parts = append(parts, fmt.Sprintf("%s failed %s=%s", e.FailedField, e.Tag, e.Value))
		} else {
			parts = append(parts, fmt.Sprintf("%s failed %s", e.FailedField, e.Tag))
		}
	}
	return strings.Join(parts, "; ")
}
