package logging

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
)

func TestSetup_Levels(t *testing.T) {
	defer zerolog.SetGlobalLevel(zerolog.TraceLevel)

	var buf bytes.Buffer
	assert.Equal(t, zerolog.DebugLevel, Setup("DEBUG", &buf))
	assert.Equal(t, zerolog.InfoLevel, Setup("bogus", &buf))
	assert.Equal(t, zerolog.InfoLevel, Setup("", &buf))

	Setup("warn", &buf)
	log.Info().Msg("hidden")
	log.Warn().Str("tab", "t1").Msg("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
	assert.Contains(t, buf.String(), "tab=")
}
