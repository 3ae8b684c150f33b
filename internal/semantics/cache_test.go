package semantics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReplyCacheLookupMiss(t *testing.T) {
	c := NewReplyCache()
	_, ok := c.Lookup("1.2.3.4:9", 1)
	assert.False(t, ok)
}

func TestReplyCacheStoreAndLookup(t *testing.T) {
	c := NewReplyCache()
	c.Store("1.2.3.4:9", 1, []byte("reply"))

	b, ok := c.Lookup("1.2.3.4:9", 1)
	require.True(t, ok)
	assert.Equal(t, []byte("reply"), b)
	assert.Equal(t, 1, c.Len())
}

func TestReplyCacheDuplicateStorePanics(t *testing.T) {
	c := NewReplyCache()
	c.Store("1.2.3.4:9", 1, []byte("a"))
	assert.Panics(t, func() {
		c.Store("1.2.3.4:9", 1, []byte("b"))
	})
}

func TestReplyCacheKeysArePerPeer(t *testing.T) {
	c := NewReplyCache()
	c.Store("1.2.3.4:9", 1, []byte("a"))
	c.Store("5.6.7.8:9", 1, []byte("b"))
	assert.Equal(t, 2, c.Len())
}
