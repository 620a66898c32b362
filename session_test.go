package locsearch_test

import (
	"testing"
	"time"

	"github.com/fwojciec/locsearch"
	"github.com/stretchr/testify/assert"
)

func TestLimiterConfig_Validate(t *testing.T) {
	t.Parallel()

	t.Run("accepts defaults", func(t *testing.T) {
		t.Parallel()

		cfg := locsearch.DefaultLimiterConfig()

		assert.NoError(t, cfg.Validate())
		assert.Equal(t, 3, cfg.MaxConcurrent)
		assert.Equal(t, 10, cfg.RequestsPerMinute)
		assert.Equal(t, time.Second, cfg.InterRequestDelay)
	})

	t.Run("rejects out of range values", func(t *testing.T) {
		t.Parallel()

		for _, cfg := range []locsearch.LimiterConfig{
			{MaxConcurrent: 0, RequestsPerMinute: 1},
			{MaxConcurrent: 1, RequestsPerMinute: 0},
			{MaxConcurrent: 1, RequestsPerMinute: 1, InterRequestDelay: -time.Millisecond},
			{MaxConcurrent: 1, RequestsPerMinute: 1, PerItemTimeout: -time.Millisecond},
		} {
			assert.Equal(t, locsearch.EINVALID, locsearch.ErrorCode(cfg.Validate()))
		}
	})
}

func TestSessionState_Terminal(t *testing.T) {
	t.Parallel()

	assert.True(t, locsearch.StateReady.Terminal())
	assert.True(t, locsearch.StateFailed.Terminal())
	assert.False(t, locsearch.StateExtracting.Terminal())
}
