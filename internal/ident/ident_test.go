package ident

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeneratorProducesDistinctNonUUIDIds(t *testing.T) {
	g, err := NewGenerator("test-salt")
	require.NoError(t, err)

	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		id := g.Next()
		assert.False(t, IsRemoteShaped(id), "local id %q must not look like a uuid", id)
		assert.GreaterOrEqual(t, len(id), 8)
		assert.False(t, seen[id], "duplicate id %q", id)
		seen[id] = true
	}
}

func TestIsRemoteShaped(t *testing.T) {
	assert.True(t, IsRemoteShaped(NewRemoteID()))
	assert.True(t, IsRemoteShaped("c1f0b1de-9f64-4f05-9c4a-1d2e3f4a5b6c"))
	assert.False(t, IsRemoteShaped("abc123xyz"))
	assert.False(t, IsRemoteShaped(""))
}
