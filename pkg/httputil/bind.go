package httputil

import (
	"encoding/json"
	"errors"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/valyala/fasthttp"

	pkgerrors "github.com/Conte777/TrackFlow/pkg/errors"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// Validator returns the shared validator; field names in errors follow json tags
func Validator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	})
	return validate
}

// DecodeJSON unmarshals the request body into dst and validates it.
// All failures are returned as *errors.ValidationError.
func DecodeJSON(ctx *fasthttp.RequestCtx, dst any) error {
	body := ctx.PostBody()
	if len(body) == 0 {
		return pkgerrors.NewValidationError("request body is empty")
	}

	if err := json.Unmarshal(body, dst); err != nil {
		return pkgerrors.NewValidationError("invalid request body")
	}

	return ValidateStruct(dst)
}

// ValidateStruct runs struct tag validation on v
func ValidateStruct(v any) error {
	err := Validator().Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		parts := make([]string, 0, len(verrs))
		for _, e := range verrs {
			parts = append(parts, e.Field()+": "+validationMessage(e))
		}
		return pkgerrors.NewValidationError(strings.Join(parts, "; "))
	}

	return pkgerrors.NewValidationError("invalid request")
}

func validationMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "is required"
	case "len":
		return "must be exactly " + e.Param() + " characters"
	case "max":
		return "must be at most " + e.Param() + " characters"
	case "alphanum":
		return "must be alphanumeric"
	case "oneof":
		return "must be one of: " + e.Param()
	case "uuid":
		return "invalid UUID format"
	case "numeric":
		return "must be numeric"
	default:
		return "invalid value"
	}
}
