package apperrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTPStatus(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{Validation("bad", nil), http.StatusUnprocessableEntity},
		{DuplicateEmail("taken"), http.StatusConflict},
		{Conflict("exists"), http.StatusConflict},
		{NotFound("missing"), http.StatusNotFound},
		{Unauthenticated("login"), http.StatusUnauthorized},
		{Unauthorized("owner only"), http.StatusForbidden},
		{PaymentFailed("declined", errors.New("card")), http.StatusPaymentRequired},
		{InsufficientFunds("empty"), http.StatusPaymentRequired},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, HTTPStatus(tc.err), tc.err.Error())
	}
}

func TestKindOfWrapped(t *testing.T) {
	sentinel := NotFound("chat not found")
	wrapped := fmt.Errorf("load chat: %w", sentinel)

	assert.Equal(t, KindNotFound, KindOf(wrapped))
	assert.True(t, errors.Is(wrapped, sentinel))
}

func TestPaymentFailedUnwraps(t *testing.T) {
	cause := errors.New("card declined")
	err := PaymentFailed("charge failed", cause)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "charge failed: card declined", err.Error())
}
