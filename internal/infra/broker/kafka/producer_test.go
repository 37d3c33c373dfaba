package kafka

import (
	"testing"

	"github.com/IBM/sarama"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProducerConfigIsValid(t *testing.T) {
	cfg := producerConfig(nil)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, sarama.WaitForAll, cfg.Producer.RequiredAcks)
	assert.True(t, cfg.Producer.Idempotent)
	assert.True(t, cfg.Producer.Return.Successes)
	// Idempotent production caps in-flight requests at one; anything higher
	// fails sarama's validation before a single broker is dialed.
	assert.Equal(t, 1, cfg.Net.MaxOpenRequests)
}

func TestProducerConfigOverlaysCallerConfig(t *testing.T) {
	base := sarama.NewConfig()
	base.ClientID = "tubo-worker"
	base.Net.MaxOpenRequests = 5

	cfg := producerConfig(base)
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "tubo-worker", cfg.ClientID)
	assert.Equal(t, 1, cfg.Net.MaxOpenRequests)
}
