package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"examhub/internal/domain"
	"examhub/internal/util"

	"github.com/go-playground/validator/v10"
)

// Validator provides request validation functionality
type Validator struct {
	validate *validator.Validate
}

// NewValidator creates a new validator instance. Field names in errors use
// the json tag so they match the request body.
func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &Validator{validate: v}
}

// ValidateStruct checks the `validate` tags of req. It returns nil or a
// domain.ValidationErrors.
func (v *Validator) ValidateStruct(req interface{}) error {
	err := v.validate.Struct(req)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return domain.NewInvalidInputError("request body could not be validated")
	}

	out := make(domain.ValidationErrors, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		out = append(out, toValidationError(fe))
	}
	return out
}

// ValidateSubmissionID checks a submission id path parameter.
func (v *Validator) ValidateSubmissionID(id string) domain.ValidationErrors {
	var errs domain.ValidationErrors

	if strings.TrimSpace(id) == "" {
		errs = append(errs, domain.NewMissingFieldError("submission_id"))
	} else if !util.IsULID(id) {
		errs = append(errs, domain.NewInvalidFormatError("submission_id", id))
	}

	return errs
}

// ValidateReferenceID checks an id owned by another service (exam, assignment).
// Those are opaque, so only presence and length are enforced.
func (v *Validator) ValidateReferenceID(field, id string) domain.ValidationErrors {
	var errs domain.ValidationErrors

	if strings.TrimSpace(id) == "" {
		errs = append(errs, domain.NewMissingFieldError(field))
	} else if len(id) > 64 {
		errs = append(errs, domain.NewOutOfRangeError(field, len(id), 1, 64))
	}

	return errs
}

func toValidationError(fe validator.FieldError) domain.ValidationError {
	field := fieldPath(fe)

	switch fe.Tag() {
	case "required":
		return domain.NewMissingFieldError(field)
	case "min", "max", "gte", "lte", "gt", "lt":
		return domain.ValidationError{
			Field:   field,
			Code:    domain.CodeOutOfRange,
			Message: fmt.Sprintf("%s must satisfy %s=%s", field, fe.Tag(), fe.Param()),
			Value:   fe.Value(),
		}
	case "excluded_with":
		return domain.ValidationError{
			Field:   field,
			Code:    domain.CodeInvalidInput,
			Message: fmt.Sprintf("%s cannot be combined with %s", field, jsonName(fe.Param())),
		}
	default:
		return domain.NewInvalidFormatError(field, fe.Value())
	}
}

// fieldPath drops the struct name from the namespace:
// "AutoSaveRequest.answers[0].question_id" becomes "answers[0].question_id".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

// jsonName converts a Go field name param (ContestID) to snake case (contest_id).
func jsonName(goName string) string {
	var b strings.Builder
	for i, r := range goName {
		if r >= 'A' && r <= 'Z' {
			if i > 0 && !(goName[i-1] >= 'A' && goName[i-1] <= 'Z') {
				b.WriteByte('_')
			}
			r += 'a' - 'A'
		}
		b.WriteRune(r)
	}
	return b.String()
}
