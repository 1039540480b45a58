package apperrors_test

import (
	"errors"
	"fmt"
	"testing"

	"booktank/internal/apperrors"

	"github.com/stretchr/testify/assert"
)

func TestKindsMatchWithErrorsIs(t *testing.T) {
	err := apperrors.NotFound("book")
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
	assert.False(t, errors.Is(err, apperrors.ErrConflict))
	assert.Equal(t, "book", apperrors.ResourceOf(err))
	assert.Equal(t, "book not found", err.Error())

	wrapped := fmt.Errorf("create reserve: %w", err)
	assert.True(t, errors.Is(wrapped, apperrors.ErrNotFound))
	assert.Equal(t, "book", apperrors.ResourceOf(wrapped))
}

func TestCauseIsReachable(t *testing.T) {
	expired := errors.New("token expired")
	err := apperrors.Authentication(expired)
	assert.True(t, errors.Is(err, apperrors.ErrAuthentication))
	assert.True(t, errors.Is(err, expired))
	assert.Equal(t, "not authenticated", apperrors.MessageOf(err))

	infra := apperrors.Infrastructure("query books", errors.New("connection refused"))
	assert.True(t, errors.Is(infra, apperrors.ErrInfrastructure))
	assert.Contains(t, infra.Error(), "connection refused")
}

func TestMessageOfPlainError(t *testing.T) {
	assert.Equal(t, "boom", apperrors.MessageOf(errors.New("boom")))
}
