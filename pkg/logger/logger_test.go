package logger

import (
	"bytes"
	"os"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
)

func TestSetLevel(t *testing.T) {
	t.Cleanup(func() { SetLevel("info") })

	SetLevel("debug")
	assert.Equal(t, zerolog.DebugLevel, Log.GetLevel())

	SetLevel("loud")
	assert.Equal(t, zerolog.InfoLevel, Log.GetLevel())
	assert.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel())
}

func TestSetOutputSharesGlobalLogger(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	t.Cleanup(func() { SetOutput(os.Stdout) })

	log.Info().Msg("shared writer")
	forecastLog := Component("forecast")
	forecastLog.Info().Msg("tagged")

	assert.Contains(t, buf.String(), "shared writer")
	assert.Contains(t, buf.String(), "tagged")
	assert.Contains(t, buf.String(), "forecast")
}
