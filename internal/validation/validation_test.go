package validation

import (
	"errors"
	"strings"
	"testing"

	"devconnector/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChecker_CollectsInOrder(t *testing.T) {
	t.Parallel()

	err := New().
		Required("name", "  ", "Name is required").
		Email("email", "not-an-email", "Please include a valid email").
		MinLength("password", "abc", MinPasswordLength, "Password too short").
		Err()
	require.Error(t, err)

	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, models.CodeValidation, appErr.Code)
	assert.Equal(t, []models.FieldError{
		{Msg: "Name is required", Param: "name"},
		{Msg: "Please include a valid email", Param: "email"},
		{Msg: "Password too short", Param: "password"},
	}, appErr.Fields)
}

func TestChecker_NoErrors(t *testing.T) {
	t.Parallel()

	err := New().
		Required("name", "Alice", "Name is required").
		Email("email", "a@x.com", "Please include a valid email").
		MinLength("password", "secret1", MinPasswordLength, "Password too short").
		MaxBytes("password", "secret1", MaxPasswordBytes, "Password too long").
		URL("website", "", "Website is invalid").
		Err()
	assert.NoError(t, err)
}

func TestChecker_MaxBytes(t *testing.T) {
	t.Parallel()
	err := New().MaxBytes("password", strings.Repeat("a", 73), MaxPasswordBytes, "too long").Err()
	assert.Error(t, err)
}

func TestIsEmail(t *testing.T) {
	t.Parallel()
	tests := []struct {
		in   string
		want bool
	}{
		{"a@x.com", true},
		{" a@x.com ", true},
		{"first.last+tag@sub.example.org", true},
		{"a@x", false},
		{"@x.com", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, IsEmail(tt.in))
		})
	}
}

func TestIsURL(t *testing.T) {
	t.Parallel()
	assert.True(t, IsURL("https://github.com/alice"))
	assert.True(t, IsURL("http://localhost:3000"))
	assert.False(t, IsURL("github.com/alice"))
	assert.False(t, IsURL("ftp://example.com"))
}

func TestNormalizeEmail(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "alice@x.com", NormalizeEmail("  Alice@X.com "))
}
