package lib

import (
	"errors"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type noteBody struct {
	Name     string `json:"name" validate:"required"`
	Quantity int    `json:"quantity" validate:"gte=1,lte=99"`
}

func TestExtractAndValidateBody(t *testing.T) {
	r := httptest.NewRequest("POST", "/", strings.NewReader(`{"name":"חלה","quantity":2}`))
	body, err := ExtractAndValidateBody[noteBody](r)
	require.NoError(t, err)
	assert.Equal(t, "חלה", body.Name)
	assert.Equal(t, 2, body.Quantity)

	r = httptest.NewRequest("POST", "/", strings.NewReader(`{"name":"חלה","quantity":2,"price":1}`))
	_, err = ExtractAndValidateBody[noteBody](r)
	assert.ErrorIs(t, err, ErrValidation)

	r = httptest.NewRequest("POST", "/", strings.NewReader(`{"quantity":0}`))
	_, err = ExtractAndValidateBody[noteBody](r)
	require.ErrorIs(t, err, ErrValidation)

	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, []FieldError{
		{Field: "name", Message: "is required"},
		{Field: "quantity", Message: "must be greater than or equal to 1"},
	}, ve.Errors)
}
