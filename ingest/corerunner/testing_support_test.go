package corerunner

import (
	"bytes"
	"encoding/binary"
	"io"
	"testing"

	"github.com/stellar/go-xdr/xdr3"
	"github.com/xycloo/go-ingest/xdr"
)

// fakeCmd stands in for a real validator process: its StdoutPipe hands back
// a pre-built fixture instead of spawning anything.
type fakeCmd struct {
	stdout  io.ReadCloser
	started bool
	killed  bool
	waited  bool
}

func (c *fakeCmd) Start() error { c.started = true; return nil }
func (c *fakeCmd) Wait() error  { c.waited = true; return nil }
func (c *fakeCmd) Kill() error  { c.killed = true; return nil }
func (c *fakeCmd) StdoutPipe() (io.ReadCloser, error) {
	return c.stdout, nil
}

func frameBytes(payload []byte) []byte {
	var b bytes.Buffer
	var m [4]byte
	binary.BigEndian.PutUint32(m[:], uint32(len(payload))|0x80000000)
	b.Write(m[:])
	b.Write(payload)
	return b.Bytes()
}

// minimalLedgerCloseMetaV0 builds the smallest valid V0 record carrying only
// a ledger sequence, encoding it to the framed bytes a fixture pipe returns.
func minimalLedgerCloseMetaV0(t *testing.T, seq uint32) []byte {
	t.Helper()
	meta := xdr.LedgerCloseMeta{
		V: 0,
		V0: &xdr.LedgerCloseMetaV0{
			LedgerHeader: xdr.LedgerHeaderHistoryEntry{
				Header: xdr.LedgerHeader{LedgerSeq: xdr.Uint32(seq)},
			},
		},
	}
	payload := encodeLedgerCloseMeta(meta)
	return frameBytes(payload)
}

func encodeLedgerCloseMeta(meta xdr.LedgerCloseMeta) []byte {
	var buf bytes.Buffer
	enc := xdr3.NewEncoder(&buf)
	if _, err := meta.EncodeTo(enc); err != nil {
		panic(err)
	}
	return buf.Bytes()
}

// fixtureStream concatenates the frame-encoded bytes for seqs, in order,
// into a single readable stream a fake cmdI hands back as stdout - a clean
// io.EOF follows the last frame, same as a validator child exiting cleanly.
func fixtureStream(t *testing.T, seqs []uint32) io.ReadCloser {
	t.Helper()
	var buf bytes.Buffer
	for _, s := range seqs {
		buf.Write(minimalLedgerCloseMetaV0(t, s))
	}
	return io.NopCloser(&buf)
}
