package analytics

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/angelmondragon/orderlens/internal/analytics/aggregate"
	"github.com/angelmondragon/orderlens/internal/analytics/types"
	"github.com/angelmondragon/orderlens/pkg/enums"
	pkgerrors "github.com/angelmondragon/orderlens/pkg/errors"
	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		tag := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if tag == "" || tag == "-" {
			return f.Name
		}
		return tag
	})
	return v
}

func validateStruct(req any) error {
	if err := validate.Struct(req); err != nil {
		if errs, ok := err.(validator.ValidationErrors); ok {
			details := map[string]string{}
			for _, fieldErr := range errs {
				details[fieldErr.Field()] = validationMessage(fieldErr)
			}
			return pkgerrors.New(pkgerrors.CodeValidation, "validation failed").WithDetails(details)
		}
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "validation failed")
	}
	return nil
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min", "gte":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max", "lte":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	}
	return "is invalid"
}

// validateSelection checks the selection beyond its struct tags: known types, both keys for
// keyed types and a well ordered pair of ranges for custom comparisons.
func validateSelection(sel types.PeriodSelection) error {
	if !sel.Type.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "validation failed").
			WithDetails(map[string]string{"type": fmt.Sprintf("must be one of week, month, quarter, year, custom; got %q", sel.Type)})
	}
	if sel.Type == enums.PeriodCustom {
		if sel.CustomRange == nil {
			return pkgerrors.New(pkgerrors.CodeValidation, "validation failed").
				WithDetails(map[string]string{"custom_range": "is required"})
		}
		if err := validateStruct(sel.CustomRange); err != nil {
			return err
		}
		return aggregate.ValidateCustomRange(*sel.CustomRange)
	}
	details := map[string]string{}
	if sel.Type2 != "" && (!sel.Type2.IsValid() || sel.Type2 == enums.PeriodCustom) {
		details["type2"] = fmt.Sprintf("must be one of week, month, quarter, year; got %q", sel.Type2)
	}
	if strings.TrimSpace(sel.Period1) == "" {
		details["period1"] = "is required"
	}
	if strings.TrimSpace(sel.Period2) == "" {
		details["period2"] = "is required"
	}
	if len(details) > 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "validation failed").WithDetails(details)
	}
	return nil
}
