package xdr

import (
	"encoding/binary"
	"io"

	"github.com/pkg/errors"
)

// ErrDecodeFrame is returned when a record marker or its payload cannot be
// read off the metadata pipe - a malformed or truncated frame, not a normal
// EOF.
var ErrDecodeFrame = errors.New("xdr: failed to decode frame")

// maxFrameSize bounds a single record's declared length against a corrupt
// marker driving an unbounded allocation.
const maxFrameSize = 256 << 20

// ReadFrame reads one RFC 4506 record-marking-standard fragment sequence
// off r: each fragment is a 4-byte big-endian marker (high bit set on the
// final fragment of a record, low 31 bits the fragment's byte length)
// followed by that many payload bytes. Fragments are concatenated until the
// final-fragment marker is seen, yielding one complete record.
func ReadFrame(r io.Reader) ([]byte, error) {
	var record []byte
	for {
		var markerBuf [4]byte
		if _, err := io.ReadFull(r, markerBuf[:]); err != nil {
			if err == io.EOF && len(record) == 0 {
				return nil, io.EOF
			}
			return nil, errors.Wrap(ErrDecodeFrame, err.Error())
		}
		marker := binary.BigEndian.Uint32(markerBuf[:])
		last := marker&0x80000000 != 0
		length := marker & 0x7fffffff
		if length > maxFrameSize {
			return nil, errors.Wrapf(ErrDecodeFrame, "fragment length %d exceeds maximum %d", length, maxFrameSize)
		}

		fragment := make([]byte, length)
		if _, err := io.ReadFull(r, fragment); err != nil {
			return nil, errors.Wrap(ErrDecodeFrame, err.Error())
		}
		record = append(record, fragment...)

		if last {
			return record, nil
		}
	}
}
