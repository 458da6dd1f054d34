package wayland

import (
	"errors"
	"fmt"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/sys/unix"
)

// ErrConnClosed is returned from sends after the connection has gone away.
var ErrConnClosed = errors.New("wayland connection closed")

// Conn is the socket to the compositor. Writes are serialized by a mutex;
// reads happen on a single goroutine that frames messages onto Events.
type Conn struct {
	sock   *net.UnixConn
	logger *slog.Logger

	mu      sync.Mutex
	nextID  uint32
	freeIDs []uint32
	closed  bool

	events  chan message
	readErr error
	done    chan struct{}
}

// SocketPath resolves the compositor socket from the environment:
// $WAYLAND_DISPLAY (default wayland-0) relative to $XDG_RUNTIME_DIR unless
// it is already absolute.
func SocketPath() (string, error) {
	display := os.Getenv("WAYLAND_DISPLAY")
	if display == "" {
		display = "wayland-0"
	}
	if filepath.IsAbs(display) {
		return display, nil
	}
	runtime := os.Getenv("XDG_RUNTIME_DIR")
	if runtime == "" {
		return "", errors.New("XDG_RUNTIME_DIR is not set, cannot locate the wayland socket")
	}
	return filepath.Join(runtime, display), nil
}

// Dial connects to the compositor and starts the read loop.
func Dial(logger *slog.Logger) (*Conn, error) {
	path, err := SocketPath()
	if err != nil {
		return nil, err
	}
	sock, err := net.DialUnix("unix", nil, &net.UnixAddr{Name: path, Net: "unix"})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to wayland display at %s: %w", path, err)
	}
	logger.Debug("connected to wayland display", "socket", path)

	c := &Conn{
		sock:   sock,
		logger: logger,
		nextID: 2, // 1 is wl_display
		events: make(chan message, 64),
		done:   make(chan struct{}),
	}
	go c.readLoop()
	return c, nil
}

// Events delivers framed messages from the compositor. The channel is
// closed when the connection dies; Err then reports why.
func (c *Conn) Events() <-chan message {
	return c.events
}

// Err reports the read-side failure after Events is closed. A plain EOF
// after Close returns ErrConnClosed.
func (c *Conn) Err() error {
	select {
	case <-c.done:
		return c.readErr
	default:
		return nil
	}
}

// NewID allocates a client object id, reusing ids the server has retired.
func (c *Conn) NewID() uint32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	if n := len(c.freeIDs); n > 0 {
		id := c.freeIDs[n-1]
		c.freeIDs = c.freeIDs[:n-1]
		return id
	}
	id := c.nextID
	c.nextID++
	return id
}

// ReleaseID returns an id retired by wl_display.delete_id to the free
// list.
func (c *Conn) ReleaseID(id uint32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.freeIDs = append(c.freeIDs, id)
}

func (c *Conn) send(r *request) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrConnClosed
	}
	buf := r.encode()
	if len(r.fds) > 0 {
		oob := unix.UnixRights(r.fds...)
		if _, _, err := c.sock.WriteMsgUnix(buf, oob, nil); err != nil {
			return fmt.Errorf("wayland write failed: %w", err)
		}
		return nil
	}
	if _, err := c.sock.Write(buf); err != nil {
		return fmt.Errorf("wayland write failed: %w", err)
	}
	return nil
}

// Close shuts the socket down. The read loop notices and closes Events.
func (c *Conn) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	c.mu.Unlock()

	return c.sock.Close()
}

func (c *Conn) readLoop() {
	defer close(c.events)
	defer close(c.done)

	var pending []byte
	buf := make([]byte, 4096)
	oob := make([]byte, 256)

	for {
		n, oobn, _, _, err := c.sock.ReadMsgUnix(buf, oob)
		if n > 0 {
			pending = append(pending, buf[:n]...)
		}
		if oobn > 0 {
			// No bound event carries a descriptor; close any that arrive
			// so they do not leak.
			c.discardFDs(oob[:oobn])
		}
		for {
			m, rest, ok, perr := parseMessage(pending)
			if perr != nil {
				c.readErr = perr
				return
			}
			if !ok {
				break
			}
			pending = rest
			c.events <- m
		}
		if err != nil {
			c.mu.Lock()
			closed := c.closed
			c.mu.Unlock()
			if closed {
				c.readErr = ErrConnClosed
			} else {
				c.readErr = fmt.Errorf("wayland connection lost: %w", err)
			}
			return
		}
	}
}

func (c *Conn) discardFDs(oob []byte) {
	msgs, err := unix.ParseSocketControlMessage(oob)
	if err != nil {
		return
	}
	for _, m := range msgs {
		fds, err := unix.ParseUnixRights(&m)
		if err != nil {
			continue
		}
		for _, fd := range fds {
			unix.Close(fd)
		}
	}
}
