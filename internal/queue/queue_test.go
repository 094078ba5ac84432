package queue

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryRoundTrip(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	q := NewInMemory(4)
	require.NoError(t, q.Publish(ctx, Message{Type: TypeRenderCertificate, Body: []byte("cert-1")}))

	out, err := q.Consume(ctx)
	require.NoError(t, err)

	msg := <-out
	assert.Equal(t, TypeRenderCertificate, msg.Type)
	assert.Equal(t, "cert-1", string(msg.Body))
}

func TestSerializeRoundTrip(t *testing.T) {
	msg := Message{Type: TypeRenderCertificate, Body: []byte("id|with|pipes")}
	got, err := deserialize(serialize(msg))
	require.NoError(t, err)
	assert.Equal(t, msg.Type, got.Type)
	assert.Equal(t, string(msg.Body), string(got.Body))
}
