package input

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestState_PressRelease(t *testing.T) {
	s := NewState()

	assert.True(t, s.Apply(Event{Symbol: "a", Pressed: true}))
	assert.True(t, s.Pressed("a"))

	assert.True(t, s.Apply(Event{Symbol: "a", Pressed: false}))
	assert.False(t, s.Pressed("a"))
}

func TestState_RepeatedPressIsNoop(t *testing.T) {
	s := NewState()

	assert.True(t, s.Apply(Event{Symbol: "leftshift", Pressed: true}))
	assert.False(t, s.Apply(Event{Symbol: "leftshift", Pressed: true}))
	assert.True(t, s.Pressed("leftshift"))
}

func TestState_ReleaseOfIdleKeyIsNoop(t *testing.T) {
	s := NewState()

	assert.False(t, s.Apply(Event{Symbol: "esc", Pressed: false}))
	assert.False(t, s.Pressed("esc"))
}

func TestState_Snapshot(t *testing.T) {
	s := NewState()
	now := time.Now()
	s.Apply(Event{Symbol: "a", Pressed: true, Time: now})
	s.Apply(Event{Symbol: "s", Pressed: true, Time: now})
	s.Apply(Event{Symbol: "a", Pressed: false, Time: now})

	snap := s.Snapshot()
	assert.Equal(t, map[string]bool{"s": true}, snap)

	// Mutating the snapshot must not leak back into the state.
	snap["a"] = true
	assert.False(t, s.Pressed("a"))
}
