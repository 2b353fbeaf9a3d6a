package debug

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPickPortRange(t *testing.T) {
	for i := 0; i < 100; i++ {
		port := PickPort(nil)
		assert.GreaterOrEqual(t, port, portBase)
		assert.Less(t, port, portBase+portRange)
	}
}

func TestPickPortAvoidsLiveSessions(t *testing.T) {
	r := NewRegistry()
	r.Add(&Session{ConfigName: "a", TmuxSession: "apdev-a-1", Port: 5000})
	r.Add(&Session{ConfigName: "b", TmuxSession: "apdev-b-2", Port: 6000})

	used := r.UsedPorts()
	require.Equal(t, map[int]bool{5000: true, 6000: true}, used)
	for i := 0; i < 50; i++ {
		port := PickPort(used)
		assert.NotEqual(t, 5000, port)
		assert.NotEqual(t, 6000, port)
	}
}

func TestRegistryAddRemove(t *testing.T) {
	r := NewRegistry()
	r.Add(&Session{TmuxSession: "apdev-x-1", Port: 5000})
	assert.Len(t, r.UsedPorts(), 1)

	r.Remove("apdev-x-1")
	assert.Empty(t, r.UsedPorts())

	// Unknown removals are fine.
	r.Remove("never-existed")
}
