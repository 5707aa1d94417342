// Package validation turns raw request bodies into typed registration
// inputs. Parsing checks shape and JSON types with gjson; semantic rules are
// struct tags enforced by go-playground/validator. Nothing here touches a
// store.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	svcerrors "github.com/R3E-Network/storefront/internal/errors"
)

// RootField names errors that concern the body as a whole.
const RootField = "__root__"

// FieldError describes one rejected field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Type    string `json:"type"`
}

// Errors is a list of field errors; it is returned as an error value.
type Errors []FieldError

func (e Errors) Error() string {
	parts := make([]string, 0, len(e))
	for _, fe := range e {
		parts = append(parts, fmt.Sprintf("%s: %s", fe.Field, fe.Message))
	}
	return strings.Join(parts, "; ")
}

// UserRegistration is the body of POST /users.
type UserRegistration struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// PurchaseRegistration is the body of POST /purchases.
type PurchaseRegistration struct {
	UserID   int64   `json:"user_id" validate:"gte=1"`
	ItemName string  `json:"item_name" validate:"required"`
	Price    float64 `json:"price"`
}

// PaymentRegistration is the body of POST /payments.
type PaymentRegistration struct {
	UserID     int64 `json:"user_id" validate:"gte=1"`
	PurchaseID int64 `json:"purchase_id" validate:"gte=1"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate applies the struct-tag rules to in and reports every violation.
// It returns nil when in is valid.
func Validate(in any) error {
	err := validate.Struct(in)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return Errors{{Field: RootField, Message: err.Error(), Type: "value_error"}}
	}

	out := make(Errors, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, describe(fe))
	}
	return out
}

func describe(fe validator.FieldError) FieldError {
	out := FieldError{Field: fe.Field()}
	switch fe.Tag() {
	case "required":
		out.Message = "ensure this value has at least 1 characters"
		out.Type = "value_error.any_str.min_length"
	case "gte":
		out.Message = fmt.Sprintf("ensure this value is greater than or equal to %s", fe.Param())
		out.Type = "value_error.number.not_ge"
	default:
		out.Message = fmt.Sprintf("failed %q validation", fe.Tag())
		out.Type = "value_error." + fe.Tag()
	}
	return out
}

// AsServiceError converts field errors into a VALIDATION_ERROR carrying
// them under details.fields. Other errors are returned unchanged.
func AsServiceError(err error) error {
	var errs Errors
	if errors.As(err, &errs) {
		return svcerrors.Validation("Invalid request body", []FieldError(errs))
	}
	return err
}
