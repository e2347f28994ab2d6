package usecase

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPError_Constructors(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{ErrUnauthenticated("x"), http.StatusUnauthorized},
		{ErrForbidden("x"), http.StatusForbidden},
		{ErrNotFound("x"), http.StatusNotFound},
		{ErrValidation("x"), http.StatusBadRequest},
		{ErrConflict("x"), http.StatusConflict},
		{ErrInternal(errors.New("boom")), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		he, ok := AsHTTPError(tc.err)
		require.True(t, ok)
		assert.Equal(t, tc.status, he.Status)
	}
}

func TestErrInternal_KeepsCause(t *testing.T) {
	cause := errors.New("connection reset")
	err := ErrInternal(cause)

	assert.ErrorIs(t, err, cause)
	he, _ := AsHTTPError(err)
	assert.Equal(t, "Something went wrong!", he.Message)
	assert.Contains(t, err.Error(), "connection reset")
}
