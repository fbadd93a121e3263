package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNilCacheIsPermanentMiss(t *testing.T) {
	var c *Cache
	ctx := context.Background()

	var out []string
	hit, err := c.GetJSON(ctx, "banks:nigeria", &out)
	require.NoError(t, err)
	assert.False(t, hit)

	assert.NoError(t, c.SetJSON(ctx, "banks:nigeria", []string{"gtbank"}, time.Hour))
	assert.NoError(t, c.Ping(ctx))
	assert.NoError(t, c.Close())
}
