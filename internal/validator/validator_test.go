package validator

import (
	"errors"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Gender string  `json:"gender" validate:"required,gender"`
	Coords *string `json:"coordinates" validate:"omitempty,coordinates"`
	Phone  string  `json:"phone_number" validate:"required,msisdn"`
}

func TestStruct(t *testing.T) {
	ok := "-1.28,36.82"
	assert.NoError(t, Struct(sample{Gender: "FEMALE", Coords: &ok, Phone: "0712345678"}))
	assert.NoError(t, Struct(sample{Gender: "male", Phone: "254712345678"}))

	bad := "200,1"
	err := Struct(sample{Gender: "robot", Coords: &bad, Phone: "12"})
	require.Error(t, err)
	var verrs validator.ValidationErrors
	require.True(t, errors.As(err, &verrs))
	fields := map[string]string{}
	for _, fe := range verrs {
		fields[fe.Field()] = fe.Tag()
	}
	assert.Equal(t, map[string]string{"gender": "gender", "coordinates": "coordinates", "phone_number": "msisdn"}, fields)
}
