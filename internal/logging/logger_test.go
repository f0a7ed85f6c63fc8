package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zapcore"
)

func TestNewLogger(t *testing.T) {
	t.Run("should build a usable logger", func(t *testing.T) {
		log := NewLogger(false)
		assert.NotNil(t, log)
		assert.NotNil(t, log.Zap())
		assert.NotPanics(t, func() {
			log.Infow("hello", "key", "value")
		})
	})

	t.Run("should enable debug when verbose", func(t *testing.T) {
		log := NewLogger(true)
		assert.True(t, log.Desugar().Core().Enabled(zapcore.DebugLevel))
	})

	t.Run("should discard with nop logger", func(t *testing.T) {
		log := NewNop()
		assert.NotPanics(t, func() {
			log.Warnw("ignored", "n", 1)
		})
	})
}
