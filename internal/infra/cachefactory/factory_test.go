package cachefactory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cmem "github.com/dropDatabas3/instancestore/internal/cache/memory"
)

func TestOpenDefaultsToMemory(t *testing.T) {
	c, err := Open(Config{})
	require.NoError(t, err)
	_, ok := c.(*cmem.Mem)
	assert.True(t, ok)
}

func TestOpenUnknownKind(t *testing.T) {
	_, err := Open(Config{Kind: "memcached"})
	assert.Error(t, err)
}
