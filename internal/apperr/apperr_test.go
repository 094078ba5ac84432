package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsMatchesByCode(t *testing.T) {
	err := New(CodeNotFound, "no contributor with that email")
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.False(t, errors.Is(err, ErrExpired))
}

func TestWrapPreservesCause(t *testing.T) {
	cause := fmt.Errorf("sql: no rows")
	err := Wrap(CodeNotFound, "session token unknown", cause)
	assert.Equal(t, cause, errors.Unwrap(err))
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.Equal(t, "session token unknown", err.Error())
}

func TestHTTPStatus(t *testing.T) {
	cases := []struct {
		code Code
		want int
	}{
		{CodeNotFound, http.StatusNotFound},
		{CodeExpired, http.StatusGone},
		{CodeValidation, http.StatusBadRequest},
		{CodeAlreadySubmitted, http.StatusConflict},
		{CodeConflict, http.StatusConflict},
		{CodeNotEligible, http.StatusUnprocessableEntity},
		{CodeForbidden, http.StatusForbidden},
		{Code("SOMETHING_ELSE"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, tc.code.HTTPStatus(), string(tc.code))
	}
}
