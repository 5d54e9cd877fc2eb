package dto

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"multicurrency-wallet/pkg/apperror"
	"multicurrency-wallet/pkg/money"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

func init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(jsonFieldName)
		_ = v.RegisterValidation("currency", validateCurrency)
	}
}

// validateCurrency accepts codes from the supported currency table, in any
// letter case.
func validateCurrency(fl validator.FieldLevel) bool {
	_, err := money.ParseCurrency(fl.Field().String())
	return err == nil
}

func jsonFieldName(f reflect.StructField) string {
	name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
	if name == "-" {
		return ""
	}
	if name == "" {
		return f.Name
	}
	return name
}

// BindError maps a binding failure to the client error it represents.
func BindError(err error) *apperror.AppError {
	if errors.Is(err, ErrAmountType) {
		return apperror.ErrInvalidAmount(err)
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		for _, fe := range verrs {
			if fe.Tag() == "currency" {
				return apperror.ErrInvalidCurrency(fmt.Sprint(fe.Value()))
			}
		}
		fe := verrs[0]
		if fe.Tag() == "required" {
			return apperror.Validation(fmt.Sprintf("%s is required", fe.Field()))
		}
		return apperror.Validation(fmt.Sprintf("%s is invalid (%s)", fe.Field(), fe.Tag()))
	}

	return apperror.Validation("malformed request body")
}
