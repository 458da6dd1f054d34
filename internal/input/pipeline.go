package input

import (
	"errors"
	"io/fs"
	"log/slog"
	"sync"
	"time"

	evdev "github.com/holoplot/go-evdev"

	"github.com/jmylchreest/keyosd/internal/keycode"
)

// Event is a single key transition attributed to a canonical symbol from
// the keycode table. Repeats are coalesced before an Event is emitted, so
// consumers only ever see edges.
type Event struct {
	Symbol  string
	Pressed bool
	Time    time.Time
	Device  string
}

const (
	keyReleased int32 = 0
	keyPressed  int32 = 1
	keyRepeated int32 = 2
)

// deviceReader is the slice of the evdev device surface the reader loop
// needs. *evdev.InputDevice satisfies it.
type deviceReader interface {
	ReadOne() (*evdev.InputEvent, error)
	Close() error
}

// Pipeline owns one reader goroutine per opened evdev device and merges
// their transitions onto a single channel.
type Pipeline struct {
	table  *keycode.Table
	logger *slog.Logger
	events chan Event
	done   chan struct{}

	mu      sync.Mutex
	devices []deviceReader
	wg      sync.WaitGroup
	closed  bool
}

// OpenPipeline enumerates /dev/input, opens every device that advertises
// key events and starts a reader for each. Devices that cannot be opened
// are logged and skipped; a pipeline with zero devices is still valid.
func OpenPipeline(table *keycode.Table, logger *slog.Logger) (*Pipeline, error) {
	paths, err := evdev.ListDevicePaths()
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		table:  table,
		logger: logger,
		events: make(chan Event, 64),
		done:   make(chan struct{}),
	}

	denied := 0
	for _, ip := range paths {
		dev, err := evdev.Open(ip.Path)
		if err != nil {
			if errors.Is(err, fs.ErrPermission) {
				denied++
				logger.Debug("input device not accessible", "path", ip.Path, "name", ip.Name)
			} else {
				logger.Warn("failed to open input device", "path", ip.Path, "error", err)
			}
			continue
		}
		if !emitsKeys(dev) {
			dev.Close()
			continue
		}
		logger.Debug("watching input device", "path", ip.Path, "name", ip.Name)
		p.devices = append(p.devices, dev)
		p.wg.Add(1)
		go p.readDevice(dev, ip.Name)
	}

	if denied > 0 {
		logger.Warn("some input devices were not readable, add your user to the input group to monitor them", "denied", denied)
	}
	if len(p.devices) == 0 {
		logger.Warn("no readable keyboard devices found, overlay will show no key activity")
	}
	return p, nil
}

// Events returns the merged transition stream. The channel is closed once
// every reader has exited after Close.
func (p *Pipeline) Events() <-chan Event {
	return p.events
}

// DeviceCount reports how many devices are being read.
func (p *Pipeline) DeviceCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.devices)
}

// Close unblocks every reader by closing its device and waits for them to
// drain. The events channel is closed afterwards.
func (p *Pipeline) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	devices := p.devices
	p.mu.Unlock()

	close(p.done)
	for _, dev := range devices {
		dev.Close()
	}
	p.wg.Wait()
	close(p.events)
}

func emitsKeys(dev *evdev.InputDevice) bool {
	for _, t := range dev.CapableTypes() {
		if t == evdev.EV_KEY {
			return true
		}
	}
	return false
}

func (p *Pipeline) readDevice(dev deviceReader, name string) {
	defer p.wg.Done()

	// Symbols this device is currently holding down. Used to synthesize
	// releases when the device goes away mid-press.
	held := make(map[string]bool)

	for {
		ev, err := dev.ReadOne()
		if err != nil {
			select {
			case <-p.done:
			default:
				p.logger.Info("input device removed", "name", name, "error", err)
				dev.Close()
			}
			now := time.Now()
			for sym := range held {
				p.emit(Event{Symbol: sym, Pressed: false, Time: now, Device: name})
			}
			return
		}
		if ev.Type != evdev.EV_KEY || ev.Value == keyRepeated {
			continue
		}
		// Symbol never fails; codes outside the table get a synthetic
		// code:N name matching what the layout assigns them.
		sym := p.table.Symbol(uint32(ev.Code))
		pressed := ev.Value == keyPressed
		if held[sym] == pressed {
			continue
		}
		if pressed {
			held[sym] = true
		} else {
			delete(held, sym)
		}
		p.emit(Event{
			Symbol:  sym,
			Pressed: pressed,
			Time:    time.Unix(ev.Time.Sec, ev.Time.Usec*1000),
			Device:  name,
		})
	}
}

func (p *Pipeline) emit(ev Event) {
	select {
	case p.events <- ev:
	case <-p.done:
	}
}
