package wayland

import (
	"fmt"
	"image"
	"log/slog"

	"golang.org/x/sys/unix"
)

const poolBuffers = 2

// Buffer is one slot of the shared memory pool. A buffer is either Free
// (client owned, safe to draw into) or InUse (committed to the server and
// untouchable until it sends a release).
type Buffer struct {
	id    uint32
	inUse bool
	img   *image.RGBA
}

// Image exposes the buffer's pixels as an RGBA image over the shared
// mapping. Only valid while the buffer is Free.
func (b *Buffer) Image() *image.RGBA {
	return b.img
}

// BufferPool owns one memfd-backed wl_shm_pool carved into double
// buffers. All methods are driven from the session's dispatch loop, so no
// locking is needed.
type BufferPool struct {
	conn     *Conn
	shm      uint32
	logger   *slog.Logger
	register func(id uint32, iface string)
	drop     func(id uint32)

	mem     []byte
	poolID  uint32
	width   int
	height  int
	buffers []*Buffer
}

func newBufferPool(conn *Conn, shm uint32, logger *slog.Logger, register func(uint32, string), drop func(uint32)) *BufferPool {
	return &BufferPool{
		conn:     conn,
		shm:      shm,
		logger:   logger,
		register: register,
		drop:     drop,
	}
}

// Size reports the bytes currently mapped.
func (p *BufferPool) Size() int {
	return len(p.mem)
}

// Resize replaces the pool with one sized for the given surface. A failed
// allocation is retried once before being reported, which covers a
// transient shortage during an interactive resize.
func (p *BufferPool) Resize(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("invalid buffer size %dx%d", width, height)
	}
	if p.mem != nil && width == p.width && height == p.height {
		return nil
	}
	p.Destroy()

	err := p.alloc(width, height)
	if err != nil {
		p.logger.Warn("shared memory allocation failed, retrying", "width", width, "height", height, "error", err)
		err = p.alloc(width, height)
	}
	if err != nil {
		return fmt.Errorf("failed to allocate buffer pool for %dx%d: %w", width, height, err)
	}
	p.width = width
	p.height = height
	return nil
}

func (p *BufferPool) alloc(width, height int) error {
	stride := width * 4
	bufSize := stride * height
	total := bufSize * poolBuffers

	fd, err := unix.MemfdCreate("keyosd-shm", unix.MFD_CLOEXEC)
	if err != nil {
		return fmt.Errorf("memfd_create: %w", err)
	}
	if err := unix.Ftruncate(fd, int64(total)); err != nil {
		unix.Close(fd)
		return fmt.Errorf("ftruncate: %w", err)
	}
	mem, err := unix.Mmap(fd, 0, total, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		unix.Close(fd)
		return fmt.Errorf("mmap: %w", err)
	}

	poolID := p.conn.NewID()
	p.register(poolID, ifaceShmPool)
	err = p.conn.send(newRequest(p.shm, opShmCreatePool).
		putUint(poolID).
		putFD(fd).
		putInt(int32(total)))
	// The server holds its own descriptor once create_pool is sent.
	unix.Close(fd)
	if err != nil {
		unix.Munmap(mem)
		return err
	}

	buffers := make([]*Buffer, 0, poolBuffers)
	for i := 0; i < poolBuffers; i++ {
		id := p.conn.NewID()
		p.register(id, ifaceBuffer)
		offset := i * bufSize
		if err := p.conn.send(newRequest(poolID, opShmPoolCreateBuffer).
			putUint(id).
			putInt(int32(offset)).
			putInt(int32(width)).
			putInt(int32(height)).
			putInt(int32(stride)).
			putUint(formatARGB8888)); err != nil {
			unix.Munmap(mem)
			return err
		}
		pix := mem[offset : offset+bufSize : offset+bufSize]
		buffers = append(buffers, &Buffer{
			id: id,
			img: &image.RGBA{
				Pix:    pix,
				Stride: stride,
				Rect:   image.Rect(0, 0, width, height),
			},
		})
	}

	p.mem = mem
	p.poolID = poolID
	p.buffers = buffers
	p.logger.Debug("allocated shared buffer pool", "width", width, "height", height, "bytes", total)
	return nil
}

// Acquire returns a Free buffer, or false when the server still owns
// every slot.
func (p *BufferPool) Acquire() (*Buffer, bool) {
	for _, b := range p.buffers {
		if !b.inUse {
			return b, true
		}
	}
	return nil, false
}

// MarkInUse transfers ownership of the buffer to the server.
func (p *BufferPool) MarkInUse(b *Buffer) {
	b.inUse = true
}

// Release hands a buffer back to the pool in response to a
// wl_buffer.release event. Returns false if the id is not one of ours,
// which happens for releases of buffers from a pool that was resized
// away.
func (p *BufferPool) Release(id uint32) bool {
	for _, b := range p.buffers {
		if b.id == id {
			b.inUse = false
			return true
		}
	}
	return false
}

// Destroy tears the pool down. Buffers still held by the server are
// destroyed too; the server keeps the underlying pages alive until it is
// done with them.
func (p *BufferPool) Destroy() {
	for _, b := range p.buffers {
		p.conn.send(newRequest(b.id, opBufferDestroy))
		p.drop(b.id)
	}
	if p.poolID != 0 {
		p.conn.send(newRequest(p.poolID, opShmPoolDestroy))
		p.drop(p.poolID)
		p.poolID = 0
	}
	if p.mem != nil {
		unix.Munmap(p.mem)
		p.mem = nil
	}
	p.buffers = nil
	p.width = 0
	p.height = 0
}
