package memory

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPutObject(t *testing.T) {
	t.Parallel()

	store := NewBlobStore()
	uri, err := store.PutObject(context.Background(), "runs/abc/ofac.xml", "application/xml", strings.NewReader("<sdnList/>"))
	require.NoError(t, err)
	assert.Equal(t, "memory://runs/abc/ofac.xml", uri)

	payload, ok := store.Object("runs/abc/ofac.xml")
	require.True(t, ok)
	assert.Equal(t, "<sdnList/>", string(payload))
	assert.Equal(t, 1, store.Len())
}

func TestObjectMissing(t *testing.T) {
	t.Parallel()

	store := NewBlobStore()
	_, ok := store.Object("nope")
	assert.False(t, ok)
	assert.Equal(t, 0, store.Len())
}

func TestPutObjectOverwrites(t *testing.T) {
	t.Parallel()

	store := NewBlobStore()
	_, err := store.PutObject(context.Background(), "k", "text/plain", strings.NewReader("one"))
	require.NoError(t, err)
	_, err = store.PutObject(context.Background(), "k", "text/plain", strings.NewReader("two"))
	require.NoError(t, err)

	payload, ok := store.Object("k")
	require.True(t, ok)
	assert.Equal(t, "two", string(payload))
	assert.Equal(t, 1, store.Len())
}
