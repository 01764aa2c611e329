package controller

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// validationMessages turns a binding error into user-facing messages, one
// per failed field.
func validationMessages(err error) []string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []string{err.Error()}
	}
	out := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			out = append(out, fmt.Sprintf("The %s field is required.", fe.Field()))
		default:
			out = append(out, fmt.Sprintf("The %s field is invalid (%s).", fe.Field(), fe.Tag()))
		}
	}
	return out
}

// invalidFields lists the names of the fields that failed validation.
func invalidFields(err error) []string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}
	out := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, fe.Field())
	}
	return out
}
