package wayland

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestOutputDimsPrefersLogicalSize(t *testing.T) {
	o := &Output{modeW: 3840, modeH: 2160}
	w, h := o.dims()
	assert.Equal(t, 3840, w)
	assert.Equal(t, 2160, h)

	o.logicalW, o.logicalH = 1920, 1080
	w, h = o.dims()
	assert.Equal(t, 1920, w)
	assert.Equal(t, 1080, h)
}

func TestSelectOutput(t *testing.T) {
	outputs := []*Output{
		{Name: "eDP-1", Description: "Built-in display"},
		{Name: "DP-2", Description: "Dell U2720Q"},
	}

	t.Run("by index", func(t *testing.T) {
		s := &Session{logger: testLogger(), outputs: outputs, opts: Options{Screen: "1"}}
		s.selectOutput()
		require.NotNil(t, s.target)
		assert.Equal(t, "DP-2", s.target.Name)
	})

	t.Run("by name", func(t *testing.T) {
		s := &Session{logger: testLogger(), outputs: outputs, opts: Options{Screen: "eDP-1"}}
		s.selectOutput()
		require.NotNil(t, s.target)
		assert.Equal(t, "eDP-1", s.target.Name)
	})

	t.Run("by description", func(t *testing.T) {
		s := &Session{logger: testLogger(), outputs: outputs, opts: Options{Screen: "Dell U2720Q"}}
		s.selectOutput()
		require.NotNil(t, s.target)
		assert.Equal(t, "DP-2", s.target.Name)
	})

	t.Run("unknown leaves choice to compositor", func(t *testing.T) {
		s := &Session{logger: testLogger(), outputs: outputs, opts: Options{Screen: "HDMI-9"}}
		s.selectOutput()
		assert.Nil(t, s.target)
	})

	t.Run("index out of range", func(t *testing.T) {
		s := &Session{logger: testLogger(), outputs: outputs, opts: Options{Screen: "7"}}
		s.selectOutput()
		assert.Nil(t, s.target)
	})
}

func TestApplyConfigure(t *testing.T) {
	s := &Session{logger: testLogger()}

	up := s.applyConfigure(640, 320)
	assert.True(t, up.Configured)
	assert.True(t, up.Resized)

	// Same size again: configured but not resized.
	up = s.applyConfigure(640, 320)
	assert.True(t, up.Configured)
	assert.False(t, up.Resized)

	// Zero size keeps the previous dimensions.
	up = s.applyConfigure(0, 0)
	assert.False(t, up.Resized)
	w, h := s.Size()
	assert.Equal(t, 640, w)
	assert.Equal(t, 320, h)
}

func TestDamageOpMatchesCompositorVersion(t *testing.T) {
	s := &Session{logger: testLogger(), compositorVersion: 4}
	assert.Equal(t, uint16(opSurfaceDamageBuffer), s.damageOp())

	// Compositors older than wl_surface v4 lack damage_buffer.
	s.compositorVersion = 3
	assert.Equal(t, uint16(opSurfaceDamage), s.damageOp())
}

func TestDispatchFrameCallbackDone(t *testing.T) {
	s := &Session{
		logger:        testLogger(),
		ifaces:        map[uint32]string{7: ifaceCallback},
		frameCallback: 7,
	}

	up, err := s.Dispatch(message{Object: 7, Opcode: evCallbackDone, Data: []byte{0, 0, 0, 0}})
	require.NoError(t, err)
	assert.True(t, up.FrameDone)
	assert.Zero(t, s.frameCallback)
}

func TestDispatchToplevelClose(t *testing.T) {
	s := &Session{
		logger: testLogger(),
		ifaces: map[uint32]string{9: ifaceToplevel},
	}

	up, err := s.Dispatch(message{Object: 9, Opcode: evToplevelClose})
	require.NoError(t, err)
	assert.True(t, up.Closed)
}

func TestDispatchDisplayErrorIsFatal(t *testing.T) {
	s := &Session{
		logger: testLogger(),
		ifaces: map[uint32]string{displayID: "wl_display", 4: ifaceSurface},
	}

	data := newRequest(0, 0).putUint(4).putUint(2).putString("bad request").encode()[headerSize:]
	_, err := s.Dispatch(message{Object: displayID, Opcode: evDisplayError, Data: data})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad request")
	assert.Contains(t, err.Error(), "wl_surface")
}

func TestDispatchBufferRelease(t *testing.T) {
	pool := &BufferPool{
		logger:  testLogger(),
		buffers: []*Buffer{{id: 11, inUse: true}, {id: 12}},
	}
	s := &Session{
		logger: testLogger(),
		ifaces: map[uint32]string{11: ifaceBuffer},
		pool:   pool,
	}

	up, err := s.Dispatch(message{Object: 11, Opcode: evBufferRelease})
	require.NoError(t, err)
	assert.True(t, up.BufferReleased)
	assert.False(t, pool.buffers[0].inUse)

	// A release for a buffer from a pool that was resized away.
	s.ifaces[99] = ifaceBuffer
	up, err = s.Dispatch(message{Object: 99, Opcode: evBufferRelease})
	require.NoError(t, err)
	assert.False(t, up.BufferReleased)
}

func TestPoolAcquireSkipsServerOwnedBuffers(t *testing.T) {
	pool := &BufferPool{
		logger:  testLogger(),
		buffers: []*Buffer{{id: 1}, {id: 2}},
	}

	a, ok := pool.Acquire()
	require.True(t, ok)
	pool.MarkInUse(a)

	b, ok := pool.Acquire()
	require.True(t, ok)
	assert.NotEqual(t, a.id, b.id)
	pool.MarkInUse(b)

	_, ok = pool.Acquire()
	assert.False(t, ok)

	require.True(t, pool.Release(a.id))
	c, ok := pool.Acquire()
	require.True(t, ok)
	assert.Equal(t, a.id, c.id)
}
