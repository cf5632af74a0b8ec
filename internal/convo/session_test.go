package convo

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreAcquireCreatesOnce(t *testing.T) {
	store := NewStore(0, 0)
	first := store.Acquire("s1")
	second := store.Acquire("s1")
	assert.Same(t, first, second)
	assert.Equal(t, 1, store.Len())
}

func TestStoreTTLSweep(t *testing.T) {
	store := NewStore(time.Minute, 0)
	current := time.Now()
	store.now = func() time.Time { return current }

	store.Acquire("old")
	current = current.Add(2 * time.Minute)
	store.Acquire("new")

	assert.Equal(t, 1, store.Len())
	store.mu.Lock()
	_, oldAlive := store.sessions["old"]
	store.mu.Unlock()
	assert.False(t, oldAlive)
}

func TestStoreMaxCountEvictsOldest(t *testing.T) {
	store := NewStore(0, 2)
	current := time.Now()
	store.now = func() time.Time { return current }

	store.Acquire("a")
	current = current.Add(time.Second)
	store.Acquire("b")
	current = current.Add(time.Second)
	store.Acquire("c")

	assert.Equal(t, 2, store.Len())
	store.mu.Lock()
	_, aAlive := store.sessions["a"]
	_, cAlive := store.sessions["c"]
	store.mu.Unlock()
	assert.False(t, aAlive)
	assert.True(t, cAlive)
}

func TestAwaitingDimension(t *testing.T) {
	store := NewStore(0, 0)
	assert.False(t, store.AwaitingDimension("s1"))

	conv := store.Acquire("s1")
	conv.mu.Lock()
	conv.setState(StateAwaitingDimension)
	conv.mu.Unlock()
	require.True(t, store.AwaitingDimension("s1"))

	conv.mu.Lock()
	conv.reset()
	conv.mu.Unlock()
	assert.False(t, store.AwaitingDimension("s1"))
}
