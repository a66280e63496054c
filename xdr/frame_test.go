package xdr

import (
	"bytes"
	"encoding/binary"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func marker(length uint32, last bool) [4]byte {
	v := length & 0x7fffffff
	if last {
		v |= 0x80000000
	}
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], v)
	return b
}

func TestReadFrame_SingleFragment(t *testing.T) {
	payload := []byte("hello record")
	var buf bytes.Buffer
	m := marker(uint32(len(payload)), true)
	buf.Write(m[:])
	buf.Write(payload)

	got, err := ReadFrame(&buf)
	require.NoError(t, err)
	assert.Equal(t, payload, got)
}

func TestReadFrame_MultipleFragmentsConcatenate(t *testing.T) {
	first := []byte("abc")
	second := []byte("defgh")
	var buf bytes.Buffer

	m1 := marker(uint32(len(first)), false)
	buf.Write(m1[:])
	buf.Write(first)

	m2 := marker(uint32(len(second)), true)
	buf.Write(m2[:])
	buf.Write(second)

	got, err := ReadFrame(&buf)
	require.NoError(t, err)
	assert.Equal(t, append(append([]byte{}, first...), second...), got)
}

func TestReadFrame_CleanEOFBeforeAnyMarker(t *testing.T) {
	_, err := ReadFrame(&bytes.Buffer{})
	assert.Equal(t, io.EOF, err)
}

func TestReadFrame_TruncatedMarkerIsDecodeFrameError(t *testing.T) {
	buf := bytes.NewReader([]byte{0, 0})
	_, err := ReadFrame(buf)
	assert.ErrorIs(t, err, ErrDecodeFrame)
}

func TestReadFrame_TruncatedPayloadIsDecodeFrameError(t *testing.T) {
	var buf bytes.Buffer
	m := marker(10, true)
	buf.Write(m[:])
	buf.Write([]byte("short"))

	_, err := ReadFrame(&buf)
	assert.ErrorIs(t, err, ErrDecodeFrame)
}

func TestReadFrame_OversizedFragmentIsDecodeFrameError(t *testing.T) {
	var buf bytes.Buffer
	m := marker(maxFrameSize+1, true)
	buf.Write(m[:])

	_, err := ReadFrame(&buf)
	assert.ErrorIs(t, err, ErrDecodeFrame)
}
