package wayland

import (
	"encoding/binary"
	"fmt"
)

// The wire format frames every message as an 8 byte header (object id,
// then size in the upper 16 bits and opcode in the lower 16 of the second
// word) followed by the arguments, all little endian and padded to 32 bit
// boundaries. File descriptors travel out of band as SCM_RIGHTS.

const headerSize = 8

// message is one framed protocol message in either direction.
type message struct {
	Object uint32
	Opcode uint16
	Data   []byte
	FDs    []int
}

// request builds the argument block for an outgoing message.
type request struct {
	object uint32
	opcode uint16
	data   []byte
	fds    []int
}

func newRequest(object uint32, opcode uint16) *request {
	return &request{object: object, opcode: opcode}
}

func (r *request) putUint(v uint32) *request {
	r.data = binary.LittleEndian.AppendUint32(r.data, v)
	return r
}

func (r *request) putInt(v int32) *request {
	return r.putUint(uint32(v))
}

// putString writes a length-prefixed NUL terminated string padded to a
// 32 bit boundary. The length includes the terminator.
func (r *request) putString(s string) *request {
	r.putUint(uint32(len(s) + 1))
	r.data = append(r.data, s...)
	r.data = append(r.data, 0)
	for len(r.data)%4 != 0 {
		r.data = append(r.data, 0)
	}
	return r
}

func (r *request) putFD(fd int) *request {
	r.fds = append(r.fds, fd)
	return r
}

func (r *request) encode() []byte {
	size := headerSize + len(r.data)
	buf := make([]byte, 0, size)
	buf = binary.LittleEndian.AppendUint32(buf, r.object)
	buf = binary.LittleEndian.AppendUint32(buf, uint32(size)<<16|uint32(r.opcode))
	return append(buf, r.data...)
}

// parseMessage frames one message off the front of buf. ok is false when
// buf does not yet hold a complete message.
func parseMessage(buf []byte) (m message, rest []byte, ok bool, err error) {
	if len(buf) < headerSize {
		return message{}, buf, false, nil
	}
	object := binary.LittleEndian.Uint32(buf)
	word := binary.LittleEndian.Uint32(buf[4:])
	size := int(word >> 16)
	if size < headerSize {
		return message{}, buf, false, fmt.Errorf("invalid message size %d for object %d", size, object)
	}
	if len(buf) < size {
		return message{}, buf, false, nil
	}
	return message{
		Object: object,
		Opcode: uint16(word & 0xffff),
		Data:   buf[headerSize:size:size],
	}, buf[size:], true, nil
}

// argReader decodes the argument block of an incoming event.
type argReader struct {
	data []byte
	err  error
}

func (a *argReader) uint() uint32 {
	if a.err != nil {
		return 0
	}
	if len(a.data) < 4 {
		a.err = fmt.Errorf("truncated event arguments")
		return 0
	}
	v := binary.LittleEndian.Uint32(a.data)
	a.data = a.data[4:]
	return v
}

func (a *argReader) int() int32 {
	return int32(a.uint())
}

func (a *argReader) string() string {
	n := int(a.uint())
	if a.err != nil {
		return ""
	}
	padded := (n + 3) &^ 3
	if n == 0 || len(a.data) < padded {
		a.err = fmt.Errorf("truncated string argument")
		return ""
	}
	s := string(a.data[:n-1]) // drop the NUL
	a.data = a.data[padded:]
	return s
}
