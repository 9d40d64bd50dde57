package logging_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/lancehart/blogvault/internal/logging"
)

func TestNew(t *testing.T) {
	t.Run("Development", func(t *testing.T) {
		logger, err := logging.New(true)
		require.NoError(t, err)
		assert.NotNil(t, logger)
		assert.True(t, logger.Core().Enabled(-1)) // debug enabled in dev
	})

	t.Run("Production", func(t *testing.T) {
		logger, err := logging.New(false)
		require.NoError(t, err)
		assert.NotNil(t, logger)
		assert.False(t, logger.Core().Enabled(-1))
	})

	t.Run("EntriesCarryARunID", func(t *testing.T) {
		core, logs := observer.New(zapcore.DebugLevel)
		logger, err := logging.New(true, zap.WrapCore(func(zapcore.Core) zapcore.Core {
			return core
		}))
		require.NoError(t, err)

		logger.Info("hello")

		entries := logs.All()
		require.Len(t, entries, 1)
		fields := entries[0].ContextMap()
		require.Contains(t, fields, "run_id")
		assert.NotEmpty(t, fields["run_id"])
	})
}
