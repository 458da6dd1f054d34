package input

import (
	"io"
	"log/slog"
	"testing"
	"time"

	evdev "github.com/holoplot/go-evdev"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/keyosd/internal/keycode"
)

type scriptedDevice struct {
	feed chan *evdev.InputEvent
}

func (d *scriptedDevice) ReadOne() (*evdev.InputEvent, error) {
	ev, ok := <-d.feed
	if !ok {
		return nil, io.EOF
	}
	return ev, nil
}

func (d *scriptedDevice) Close() error { return nil }

func newTestPipeline(t *testing.T) (*Pipeline, *scriptedDevice) {
	t.Helper()
	dev := &scriptedDevice{feed: make(chan *evdev.InputEvent, 16)}
	p := &Pipeline{
		table:  keycode.Load(),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		events: make(chan Event, 64),
		done:   make(chan struct{}),
	}
	p.wg.Add(1)
	go p.readDevice(dev, "scripted")
	return p, dev
}

func keyEvent(code evdev.EvCode, value int32) *evdev.InputEvent {
	return &evdev.InputEvent{Type: evdev.EV_KEY, Code: code, Value: value}
}

func recvEvent(t *testing.T, p *Pipeline) Event {
	t.Helper()
	select {
	case ev := <-p.Events():
		return ev
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for input event")
		return Event{}
	}
}

func TestPipeline_EmitsEdges(t *testing.T) {
	p, dev := newTestPipeline(t)

	dev.feed <- keyEvent(30, keyPressed) // KEY_A
	dev.feed <- keyEvent(30, keyRepeated)
	dev.feed <- keyEvent(30, keyReleased)
	close(dev.feed)

	ev := recvEvent(t, p)
	assert.Equal(t, "a", ev.Symbol)
	assert.True(t, ev.Pressed)
	assert.Equal(t, "scripted", ev.Device)

	ev = recvEvent(t, p)
	assert.Equal(t, "a", ev.Symbol)
	assert.False(t, ev.Pressed)

	p.wg.Wait()
}

func TestPipeline_DropsNonKeyEvents(t *testing.T) {
	p, dev := newTestPipeline(t)

	dev.feed <- &evdev.InputEvent{Type: evdev.EV_SYN}
	dev.feed <- keyEvent(1, keyPressed) // KEY_ESC
	close(dev.feed)

	ev := recvEvent(t, p)
	assert.Equal(t, "esc", ev.Symbol)
	p.wg.Wait()

	select {
	case ev, ok := <-p.events:
		require.False(t, ok, "unexpected extra event %+v", ev)
	default:
	}
}

func TestPipeline_UnknownCodeGetsSyntheticSymbol(t *testing.T) {
	p, dev := newTestPipeline(t)

	dev.feed <- keyEvent(0x2ff, keyPressed) // KEY_MAX, not in the table
	dev.feed <- keyEvent(0x2ff, keyReleased)
	close(dev.feed)

	ev := recvEvent(t, p)
	assert.Equal(t, "code:767", ev.Symbol)
	assert.True(t, ev.Pressed)

	ev = recvEvent(t, p)
	assert.Equal(t, "code:767", ev.Symbol)
	assert.False(t, ev.Pressed)
	p.wg.Wait()
}

func TestPipeline_DeviceRemovalReleasesHeldKeys(t *testing.T) {
	p, dev := newTestPipeline(t)

	dev.feed <- keyEvent(30, keyPressed) // KEY_A
	dev.feed <- keyEvent(42, keyPressed) // KEY_LEFTSHIFT
	close(dev.feed)                      // simulate the device going away

	held := map[string]bool{}
	for i := 0; i < 2; i++ {
		ev := recvEvent(t, p)
		require.True(t, ev.Pressed)
		held[ev.Symbol] = true
	}
	assert.Equal(t, map[string]bool{"a": true, "leftshift": true}, held)

	released := map[string]bool{}
	for i := 0; i < 2; i++ {
		ev := recvEvent(t, p)
		require.False(t, ev.Pressed)
		released[ev.Symbol] = true
	}
	assert.Equal(t, held, released)
	p.wg.Wait()
}

func TestPipeline_DuplicatePressCoalesced(t *testing.T) {
	p, dev := newTestPipeline(t)

	dev.feed <- keyEvent(57, keyPressed) // KEY_SPACE
	dev.feed <- keyEvent(57, keyPressed)
	dev.feed <- keyEvent(57, keyReleased)
	close(dev.feed)

	ev := recvEvent(t, p)
	assert.Equal(t, "space", ev.Symbol)
	assert.True(t, ev.Pressed)

	ev = recvEvent(t, p)
	assert.False(t, ev.Pressed)
	p.wg.Wait()
}
