package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveSwapExplicit(t *testing.T) {
	mb, err := resolveSwap(4, 2)
	require.NoError(t, err)
	assert.Equal(t, 4096, mb)
}

func TestResolveSwapNegative(t *testing.T) {
	_, err := resolveSwap(-1, 2)
	assert.Error(t, err)
}

func TestResolvePasswordHashFlagWinsUnchanged(t *testing.T) {
	hash, err := resolvePassword(cliFlags{passwordHash: "$6$salt$hash"}, false)
	require.NoError(t, err)
	assert.Equal(t, "$6$salt$hash", hash)
}

func TestResolvePasswordMissingNonInteractive(t *testing.T) {
	_, err := resolvePassword(cliFlags{}, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "password is required")
}
