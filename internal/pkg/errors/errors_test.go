package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew(t *testing.T) {
	err := New(ErrAuthEmailExists)
	assert.Equal(t, "Email already registered", err.Message)
	assert.Equal(t, http.StatusConflict, err.HTTPStatus())
	assert.Equal(t, "[2002] Email already registered", err.Error())

	withDetails := New(ErrPlanEmptyGoal, "body was empty")
	assert.Equal(t, "[3000] Missing user_goal: body was empty", withDetails.Error())
}

func TestWrap(t *testing.T) {
	assert.Nil(t, Wrap(nil, ErrInternalServer))

	base := fmt.Errorf("dial tcp: refused")
	wrapped := Wrap(base, ErrCatalogUnavailable, "postgres")
	assert.True(t, errors.Is(wrapped, base))
	assert.Equal(t, ErrCatalogUnavailable, ExtractCode(wrapped))
	assert.Equal(t, "postgres", GetDetails(wrapped))

	rewrapped := Wrap(fmt.Errorf("outer: %w", wrapped), ErrInternalServer, "again")
	assert.Equal(t, ErrCatalogUnavailable, rewrapped.Code)
	assert.Equal(t, "again", rewrapped.Details)
}

func TestExtractCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"plain error", errors.New("x"), ErrInternalServer},
		{"app error", New(ErrAuthCSRF), ErrAuthCSRF},
		{"wrapped app error", fmt.Errorf("ctx: %w", New(ErrNotFound)), ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractCode(tt.err))
		})
	}
}

func TestCodeTable(t *testing.T) {
	assert.Equal(t, http.StatusInternalServerError, GetHTTPStatus(99999))
	assert.True(t, IsClientError(ErrAuthInvalidCredentials))
	assert.True(t, IsServerError(ErrPlanFailed))
	assert.False(t, IsClientError(ErrPlanFailed))
	assert.Equal(t, "Invalid email or password", FormatError(ErrAuthInvalidCredentials))
	assert.True(t, Is(New(ErrAuthCSRF), ErrAuthCSRF))
	assert.False(t, Is(errors.New("x"), ErrAuthCSRF))
	assert.Empty(t, GetDetails(errors.New("secret")))
}
