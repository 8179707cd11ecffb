package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublish(t *testing.T) {
	t.Parallel()

	p := New()
	id, err := p.Publish(context.Background(), "crawl-runs", map[string]any{"run_id": "abc"})
	require.NoError(t, err)
	assert.Equal(t, "memory-1", id)

	id, err = p.Publish(context.Background(), "crawl-runs", "second")
	require.NoError(t, err)
	assert.Equal(t, "memory-2", id)

	messages := p.Messages()
	require.Len(t, messages, 2)
	assert.Equal(t, "crawl-runs", messages[0].Topic)
	assert.Equal(t, "second", messages[1].Payload)
}

func TestMessagesReturnsCopy(t *testing.T) {
	t.Parallel()

	p := New()
	_, err := p.Publish(context.Background(), "t", "payload")
	require.NoError(t, err)

	messages := p.Messages()
	messages[0].Topic = "mutated"
	assert.Equal(t, "t", p.Messages()[0].Topic)
}
