package validator

import (
	"reflect"
	"strings"

	"venus/internal/domain"
	"venus/pkg/geo"
	"venus/pkg/payment"

	"github.com/go-playground/validator/v10"
)

var std = New()

// New returns a validator that reports json field names and knows the
// gender, coordinates and msisdn tags.
func New() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	Register(v)
	return v
}

// Register adds the custom tags and json naming to v (used for gin's binding engine too).
func Register(v *validator.Validate) {
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	must(v.RegisterValidation("gender", func(fl validator.FieldLevel) bool {
		_, err := domain.ParseGender(fl.Field().String())
		return err == nil
	}))
	must(v.RegisterValidation("coordinates", func(fl validator.FieldLevel) bool {
		_, _, err := geo.ParseCoordinates(fl.Field().String())
		return err == nil
	}))
	must(v.RegisterValidation("msisdn", func(fl validator.FieldLevel) bool {
		_, err := payment.NormalizeMSISDN(fl.Field().String())
		return err == nil
	}))
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}

// Struct validates s with the shared instance.
func Struct(s interface{}) error {
	return std.Struct(s)
}
