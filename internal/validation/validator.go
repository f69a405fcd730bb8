// Package validation checks RPC and CLI input before it reaches the ledger engine.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/mohitkumarrajbadi/Splitzy/internal/models"
)

// Validator wraps the go-playground validator with custom rules and error formatting
type Validator struct {
	validate *validator.Validate
}

type rule struct {
	tag string
	fn  validator.Func
}

var rules = []rule{
	{"positive_amount", validatePositiveAmount},
	{"nonneg_amount", validateNonNegativeAmount},
	{"cents", validateCents},
	{"category", validateCategory},
}

func registerRules(v *validator.Validate, rules []rule) error {
	for _, r := range rules {
		if err := v.RegisterValidation(r.tag, r.fn); err != nil {
			return fmt.Errorf("register %q validation: %w", r.tag, err)
		}
	}
	return nil
}

// New creates a validator with the money and category rules registered.
// It panics if a rule cannot be registered.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	if err := registerRules(v, rules); err != nil {
		panic(err)
	}

	// Amounts are validated through their canonical string form.
	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			return d.String()
		}
		return nil
	}, decimal.Decimal{})

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return &Validator{validate: v}
}

// Struct validates s and returns a single readable error listing every failed field.
func (v *Validator) Struct(s any) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fieldMessage(fe))
	}
	return fmt.Errorf("invalid request: %s", strings.Join(msgs, "; "))
}

func fieldMessage(fe validator.FieldError) string {
	field := fe.Namespace()
	if _, rest, ok := strings.Cut(field, "."); ok {
		field = rest
	}
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "positive_amount":
		return field + " must be greater than zero"
	case "nonneg_amount":
		return field + " must not be negative"
	case "cents":
		return field + " must have at most two decimal places"
	case "category":
		return fmt.Sprintf("%s must be one of %v", field, models.AllCategories())
	case "min", "max":
		return fmt.Sprintf("%s must have %s %s", field, fe.Tag(), fe.Param())
	default:
		return fmt.Sprintf("%s failed %s", field, fe.Tag())
	}
}

func amountOf(fl validator.FieldLevel) (decimal.Decimal, bool) {
	d, err := decimal.NewFromString(fl.Field().String())
	return d, err == nil
}

func validatePositiveAmount(fl validator.FieldLevel) bool {
	d, ok := amountOf(fl)
	return ok && d.IsPositive()
}

func validateNonNegativeAmount(fl validator.FieldLevel) bool {
	d, ok := amountOf(fl)
	return ok && !d.IsNegative()
}

// validateCents accepts amounts expressible in whole cents.
func validateCents(fl validator.FieldLevel) bool {
	d, ok := amountOf(fl)
	return ok && d.Equal(d.Round(2))
}

func validateCategory(fl validator.FieldLevel) bool {
	return models.Category(fl.Field().String()).Valid()
}
