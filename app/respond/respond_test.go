package respond

import (
	"errors"
	"fmt"
	"testing"

	"kumarket/marketplace-api/internal/service"

	"github.com/stretchr/testify/assert"
)

func TestMessage(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{service.ErrUnauthenticated, "Login required"},
		{service.ErrForbidden, "Permission denied"},
		{service.ErrPostNotFound, "Post not found"},
		{service.ErrUserNotFound, "User not found"},
		{service.ErrInvalidDomain, "Only university email addresses can register"},
		{service.ErrDuplicateEmail, "This email is already registered"},
		{service.ErrInvalidCredentials, "Invalid email or password"},
		{&service.ValidationError{Message: "each image must be 10MB or less"}, "Each image must be 10MB or less"},
		{fmt.Errorf("wrapped, %w", service.ErrForbidden), "Permission denied"},
	}

	for _, tt := range tests {
		got, ok := Message(tt.err)
		assert.True(t, ok, tt.err.Error())
		assert.Equal(t, tt.want, got)
	}

	_, ok := Message(errors.New("failed to list posts, disk I/O error"))
	assert.False(t, ok)
}
