package dto

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/iho/bankledger/internal/domain"
)

var validate = newValidator()

// newValidator reports fields by their JSON names.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks a decoded request against its struct tags and reports
// the first failing field as a validation error.
func Validate(req any) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return domain.NewValidationError(err.Error())
	}

	fe := fieldErrs[0]
	field := fe.Field()

	switch fe.Tag() {
	case "required":
		return domain.NewValidationError(field + " is required")
	case "max":
		return domain.NewValidationError(fmt.Sprintf("%s must not exceed %s characters", field, fe.Param()))
	case "oneof":
		return domain.NewValidationError(fmt.Sprintf("%s must be one of: %s", field, fe.Param()))
	default:
		return domain.NewValidationError(fmt.Sprintf("%s is invalid", field))
	}
}

// parseAmount parses a decimal string amount.
func parseAmount(s string) (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("%w: %q is not a decimal number", domain.ErrInvalidAmount, s)
	}

	return amount, nil
}
