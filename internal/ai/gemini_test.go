package ai

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGeminiGenerateConfigPinsTemperature(t *testing.T) {
	cfg := geminiGenerateConfig()
	require.NotNil(t, cfg)
	require.NotNil(t, cfg.Temperature)
	require.Zero(t, *cfg.Temperature)
}
