package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestEnvFallbacks(t *testing.T) {
	t.Run("string values", func(t *testing.T) {
		t.Setenv("ENGINE_PROMPT", "Game > ")
		require.Equal(t, "Game > ", envOr("ENGINE_PROMPT", ""))
		require.Equal(t, "fallback", envOr("UNSET_TEST_VARIABLE", "fallback"))
	})

	t.Run("durations", func(t *testing.T) {
		t.Setenv("ERROR_BACKOFF", "45s")
		require.Equal(t, 45*time.Second, envDurationOr("ERROR_BACKOFF", time.Minute))
		require.Equal(t, time.Minute, envDurationOr("UNSET_TEST_VARIABLE", time.Minute))

		t.Setenv("ERROR_BACKOFF", "not-a-duration")
		require.Equal(t, time.Minute, envDurationOr("ERROR_BACKOFF", time.Minute),
			"an unparsable value falls back to the default")
	})
}
