package wayland

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestEncodeHeader(t *testing.T) {
	buf := newRequest(displayID, opDisplayGetRegistry).putUint(2).encode()

	require.Len(t, buf, 12)
	// object id 1, size 12 in the upper half of the second word, opcode 1
	// in the lower half. Little endian throughout.
	assert.Equal(t, []byte{1, 0, 0, 0}, buf[0:4])
	assert.Equal(t, []byte{1, 0, 12, 0}, buf[4:8])
	assert.Equal(t, []byte{2, 0, 0, 0}, buf[8:12])
}

func TestRequestStringPadding(t *testing.T) {
	// "keyosd" plus NUL is 7 bytes, padded to 8, with a length prefix
	// that counts the terminator but not the padding.
	buf := newRequest(5, 0).putString("keyosd").encode()

	require.Len(t, buf, headerSize+4+8)
	assert.Equal(t, []byte{7, 0, 0, 0}, buf[8:12])
	assert.Equal(t, []byte("keyosd\x00\x00"), buf[12:20])
}

func TestParseMessageRoundTrip(t *testing.T) {
	wire := newRequest(3, 7).putUint(42).putString("DP-1").encode()

	m, rest, ok, err := parseMessage(wire)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Empty(t, rest)
	assert.Equal(t, uint32(3), m.Object)
	assert.Equal(t, uint16(7), m.Opcode)

	a := argReader{data: m.Data}
	assert.Equal(t, uint32(42), a.uint())
	assert.Equal(t, "DP-1", a.string())
	assert.NoError(t, a.err)
}

func TestParseMessagePartialAndCoalesced(t *testing.T) {
	first := newRequest(1, 0).putUint(9).encode()
	second := newRequest(2, 1).encode()
	wire := append(append([]byte{}, first...), second...)

	// Not enough bytes yet.
	_, rest, ok, err := parseMessage(wire[:6])
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Len(t, rest, 6)

	// Two messages back to back frame cleanly.
	m, rest, ok, err := parseMessage(wire)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, uint32(1), m.Object)

	m, rest, ok, err = parseMessage(rest)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, uint32(2), m.Object)
	assert.Empty(t, rest)
}

func TestParseMessageRejectsBogusSize(t *testing.T) {
	buf := []byte{1, 0, 0, 0, 0, 0, 4, 0} // size 4 < header
	_, _, _, err := parseMessage(buf)
	assert.Error(t, err)
}

func TestArgReaderTruncation(t *testing.T) {
	a := argReader{data: []byte{1, 2}}
	a.uint()
	assert.Error(t, a.err)

	a = argReader{data: []byte{10, 0, 0, 0, 'x'}}
	a.string()
	assert.Error(t, a.err)
}
