package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAllowConsumesCapacity(t *testing.T) {
	l := New()

	for i := 0; i < 3; i++ {
		assert.True(t, l.Allow("ip1", 3, 0), "request %d should pass", i)
	}
	assert.False(t, l.Allow("ip1", 3, 0))
}

func TestKeysAreIndependent(t *testing.T) {
	l := New()

	for i := 0; i < 2; i++ {
		l.Allow("ip1", 2, 0)
	}
	assert.False(t, l.Allow("ip1", 2, 0))
	assert.True(t, l.Allow("ip2", 2, 0))
}

func TestRefillRestoresTokens(t *testing.T) {
	l := New()

	assert.True(t, l.Allow("ip1", 1, 1000))
	// at 1000 tokens/sec the bucket refills almost immediately
	assert.Eventually(t, func() bool {
		return l.Allow("ip1", 1, 1000)
	}, time.Second, time.Millisecond)
}
