package scrub

import (
	"errors"
	"fmt"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenFromError(t *testing.T) {
	t.Run("nil error", func(t *testing.T) {
		assert.Nil(t, TokenFromError(nil, "123:ABC"))
	})

	t.Run("empty token", func(t *testing.T) {
		original := errors.New("some error")
		assert.Equal(t, original, TokenFromError(original, ""))
	})

	t.Run("token absent", func(t *testing.T) {
		original := errors.New("connection refused")
		assert.Equal(t, original, TokenFromError(original, "123:ABC"))
	})

	t.Run("token present", func(t *testing.T) {
		original := fmt.Errorf("Get https://api.telegram.org/file/bot123456:ABCdef/stickers/a.webp: no such host")
		result := TokenFromError(original, "123456:ABCdef")

		require.NotEqual(t, original, result)
		assert.Contains(t, result.Error(), "[REDACTED]")
		assert.NotContains(t, result.Error(), "123456:ABCdef")
	})
}

func TestTokenFromError_PreservesChain(t *testing.T) {
	netErr := &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connection refused")}
	wrapped := fmt.Errorf("Get https://api.telegram.org/file/bot123456:ABCdef/a.webp: %w", netErr)

	result := TokenFromError(wrapped, "123456:ABCdef")

	var opErr *net.OpError
	assert.True(t, errors.As(result, &opErr))
}
