package rabbitmq

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetEventQueues(t *testing.T) {
	queues := GetEventQueues()
	assert.Len(t, queues, 2)

	keys := make(map[string]string, len(queues))
	for _, q := range queues {
		assert.NotEmpty(t, q.QueueName)
		keys[q.RoutingKey] = q.QueueName
	}
	assert.Contains(t, keys, RoutingKeyServiceCompleted)
	assert.Contains(t, keys, RoutingKeyWorkerAssigned)
}
