package common

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSentinels_WrapAndMatch(t *testing.T) {
	all := []error{ErrorNotFound, ErrorInternal, ErrorUnauthorized, ErrorOffline, ErrorNotConfigured, ErrInvalidToken, ErrTokenExpired}
	for i, e := range all {
		wrapped := fmt.Errorf("op: %w", e)
		assert.ErrorIs(t, wrapped, e)
		for j, other := range all {
			if i != j {
				assert.False(t, errors.Is(wrapped, other), "%v must not match %v", e, other)
			}
		}
	}
}
