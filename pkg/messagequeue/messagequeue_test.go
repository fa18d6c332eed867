package messagequeue

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoopQueue(t *testing.T) {
	var q MessageQueue = NoopQueue{}
	require.NoError(t, q.Publish(context.Background(), "events", []byte(`{}`)))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	called := false
	err := q.Consume(ctx, "events", func(context.Context, []byte) error {
		called = true
		return nil
	})
	require.NoError(t, err)
	assert.False(t, called)
	assert.NoError(t, q.Close())
}
