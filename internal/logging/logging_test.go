package logging_test

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/require"

	"github.com/jrsteele09/alpha-client/internal/logging"
)

func TestSetup(t *testing.T) {
	orig, origLevel := log.Logger, zerolog.GlobalLevel()
	t.Cleanup(func() {
		log.Logger = orig
		zerolog.SetGlobalLevel(origLevel)
	})

	t.Run("level is applied", func(t *testing.T) {
		var buf bytes.Buffer
		require.Equal(t, zerolog.DebugLevel, logging.Setup("DEBUG", &buf))
		log.Debug().Str("path", "/vitals").Msg("request")
		require.Contains(t, buf.String(), "request")
		require.Contains(t, buf.String(), "/vitals")
	})

	t.Run("unknown level falls back to warn", func(t *testing.T) {
		var buf bytes.Buffer
		require.Equal(t, zerolog.WarnLevel, logging.Setup("chatty", &buf))
		log.Info().Msg("hidden")
		require.Empty(t, buf.String())
	})
}
