package utils

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWrapNilReturnsNil(t *testing.T) {
	require.NoError(t, Wrap(nil, "context"))
}

func TestWrapPreservesUnderlyingError(t *testing.T) {
	base := errors.New("boom")
	wrapped := Wrap(base, "loading config")

	require.ErrorIs(t, wrapped, base)
	require.Equal(t, "loading config: boom", wrapped.Error())
}
