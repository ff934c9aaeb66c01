package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequireEnv(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	_, err := requireEnv("JWT_SECRET")
	assert.ErrorContains(t, err, "JWT_SECRET is not set")

	t.Setenv("JWT_SECRET", "   ")
	_, err = requireEnv("JWT_SECRET")
	assert.Error(t, err)

	t.Setenv("JWT_SECRET", "s3cret")
	v, err := requireEnv("JWT_SECRET")
	require.NoError(t, err)
	assert.Equal(t, "s3cret", v)
}

func TestEnvInt(t *testing.T) {
	t.Setenv("CONTEXT_TIMEOUT", "")
	assert.Equal(t, 30, envInt("CONTEXT_TIMEOUT", 30))

	t.Setenv("CONTEXT_TIMEOUT", "5")
	assert.Equal(t, 5, envInt("CONTEXT_TIMEOUT", 30))
}
