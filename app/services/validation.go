package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ErrValidation marks input rejected before any repository call.
var ErrValidation = errors.New("validation failed")

// invalid wraps err as a validation failure with a readable message.
func invalid(err error) error {
	return fmt.Errorf("%w: %s", ErrValidation, describe(err))
}

// describe turns validator output into "title is required; ..." form.
func describe(err error) string {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err.Error()
	}

	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, fe.Field()+" is required")
		case "max":
			msgs = append(msgs, fmt.Sprintf("%s is too long (maximum %s characters)", fe.Field(), fe.Param()))
		case "url":
			msgs = append(msgs, fe.Field()+" must be an absolute URL")
		default:
			msgs = append(msgs, fmt.Sprintf("%s failed %q", fe.Field(), fe.Tag()))
		}
	}
	return strings.Join(msgs, "; ")
}
