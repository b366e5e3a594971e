package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg := Load()
	require.Equal(t, ":8080", cfg.Addr)
	require.Equal(t, 60*time.Second, cfg.Rules.TurnTimeout)
	require.Equal(t, 5*time.Second, cfg.Rules.MaxWordAge)
	require.True(t, cfg.Rules.ResetOnLeave)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("ADDR", ":9999")
	t.Setenv("TURN_TIMEOUT", "45s")
	t.Setenv("MAX_WORD_AGE", "2s")
	t.Setenv("RESET_ON_LEAVE", "false")

	cfg := Load()
	require.Equal(t, ":9999", cfg.Addr)
	require.Equal(t, 45*time.Second, cfg.Rules.TurnTimeout)
	require.Equal(t, 2*time.Second, cfg.Rules.MaxWordAge)
	require.False(t, cfg.Rules.ResetOnLeave)
}

func TestUnparsableValuesFallBack(t *testing.T) {
	t.Setenv("TURN_TIMEOUT", "soon")
	t.Setenv("RESET_ON_LEAVE", "maybe")

	cfg := Load()
	require.Equal(t, 60*time.Second, cfg.Rules.TurnTimeout)
	require.True(t, cfg.Rules.ResetOnLeave)
}
