package corerunner

import (
	"bufio"
	"context"
	"io"
	"sync"

	"github.com/xycloo/go-ingest/xdr"
)

// metaPipeBufferSize matches stellar-core's own metadata pipe buffer size,
// so the host-side buffered reader never becomes the bottleneck.
const metaPipeBufferSize = 10 << 20

// ledgerReadAheadBufferSize is the initial capacity hint for a fresh
// in-memory prepared buffer.
const ledgerReadAheadBufferSize = 20

// FrameReaderMode selects a Frame Reader's sink discipline. A reader is
// bound to exactly one mode at construction and rejects operations
// belonging to the other.
type FrameReaderMode int

const (
	ModeSingleThread FrameReaderMode = iota
	ModeMultiThread
)

// MetaResult carries either a decoded ledger close record or a decode
// error; the core never drops an attempted frame; every frame yields
// exactly one MetaResult.
type MetaResult struct {
	Meta *xdr.LedgerCloseMeta
	Err  *FrameReaderError
}

// sink is the single abstraction a frameReader's producer drains into.
// Exactly one concrete sink is bound at construction and never swapped.
type sink interface {
	send(MetaResult) error
}

// bufferSink backs SingleThread mode: a mutex-guarded slice, written only
// by the one producer and read by one caller at a time.
type bufferSink struct {
	mu  sync.Mutex
	buf []MetaResult
}

func newBufferSink() *bufferSink {
	return &bufferSink{buf: make([]MetaResult, 0, ledgerReadAheadBufferSize)}
}

func (s *bufferSink) send(r MetaResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.buf = append(s.buf, r)
	return nil
}

func (s *bufferSink) snapshot() []MetaResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]MetaResult, len(s.buf))
	copy(out, s.buf)
	return out
}

func (s *bufferSink) clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.buf = make([]MetaResult, 0, ledgerReadAheadBufferSize)
}

// chanSink backs MultiThread mode: a plain send on a bounded or unbounded
// channel. Back-pressure, when the channel is bounded and full, is native
// Go channel blocking - there is no separate back-pressure mechanism to
// model.
type chanSink struct {
	ch chan<- MetaResult
}

func (s *chanSink) send(r MetaResult) error {
	s.ch <- r
	return nil
}

// ctxSink backs the cooperative MultiThread variant: a send additionally
// selects on ctx.Done(), so a cancelled caller unblocks the producer instead
// of leaving it parked on a full channel forever. This is the idiomatic Go
// stand-in for the original's async unbounded-channel sender used to
// integrate with a caller's own cooperative scheduler.
type ctxSink struct {
	ch  chan<- MetaResult
	ctx context.Context
}

func (s *ctxSink) send(r MetaResult) error {
	select {
	case s.ch <- r:
		return nil
	case <-s.ctx.Done():
		return s.ctx.Err()
	}
}

// frameReader consumes a buffered byte stream of consecutive length-framed
// ledger-close records and publishes one MetaResult per frame to its bound
// sink.
type frameReader struct {
	mode   FrameReaderMode
	stream *bufio.Reader
	buf    *bufferSink // set only in SingleThread mode
	ch     sink        // set only in MultiThread mode
	cloned bool
}

// newFrameReader constructs a SingleThread reader backed by buf.
func newFrameReader(stream io.Reader, buf *bufferSink) *frameReader {
	return &frameReader{
		mode:   ModeSingleThread,
		stream: bufio.NewReaderSize(stream, metaPipeBufferSize),
		buf:    buf,
	}
}

// newMultiFrameReader constructs a MultiThread reader backed by ch.
func newMultiFrameReader(stream io.Reader, ch sink) *frameReader {
	return &frameReader{
		mode:   ModeMultiThread,
		stream: bufio.NewReaderSize(stream, metaPipeBufferSize),
		ch:     ch,
	}
}

// newFrameReaderFor is the general constructor mirroring the source
// implementation's single entry point: callers pass the mode plus exactly
// one of buf/ch appropriate to it. newFrameReader/newMultiFrameReader above
// are thin convenience wrappers the Runner actually uses, since it always
// knows its mode statically; this constructor exists for the mismatched-
// input cases Testable Property 6 requires.
func newFrameReaderFor(mode FrameReaderMode, stream io.Reader, buf *bufferSink, ch sink) (*frameReader, error) {
	switch mode {
	case ModeSingleThread:
		if ch != nil {
			return nil, &FrameReaderError{Kind: UnusedTransmitter}
		}
		if buf == nil {
			buf = newBufferSink()
		}
		return newFrameReader(stream, buf), nil
	case ModeMultiThread:
		if ch == nil {
			return nil, &FrameReaderError{Kind: MissingTransmitter}
		}
		return newMultiFrameReader(stream, ch), nil
	default:
		return nil, &FrameReaderError{Kind: MissingTransmitter}
	}
}

// clone returns a mode-only stub: it reports Mode() correctly but rejects
// every other operation with UsedClonedReader. The Runner does not rely on
// this for its own status tracking - it keeps an independent FrameReaderMode
// value set at construction - but the stub is retained so a caller handed a
// cloned handle observes the same UsedClonedReader behavior as the source
// implementation.
func (r *frameReader) clone() *frameReader {
	return &frameReader{mode: r.mode, cloned: true}
}

func (r *frameReader) Mode() FrameReaderMode {
	return r.mode
}

// readAll drains the stream to completion, pushing each MetaResult into the
// bound buffer. SingleThread only.
func (r *frameReader) readAll() error {
	if r.cloned {
		return &FrameReaderError{Kind: UsedClonedReader}
	}
	if r.mode != ModeSingleThread {
		return &FrameReaderError{Kind: WrongModeMultiThread}
	}
	r.drain(r.buf.send)
	return nil
}

// readAllMulti drains the stream to completion, sending each MetaResult on
// the bound channel sink. MultiThread only.
func (r *frameReader) readAllMulti() error {
	if r.cloned {
		return &FrameReaderError{Kind: UsedClonedReader}
	}
	if r.mode != ModeMultiThread {
		return &FrameReaderError{Kind: WrongModeSingleThread}
	}
	r.drain(r.ch.send)
	return nil
}

// drain is the shared decode loop for both modes: it reads frames until the
// stream ends (cleanly or otherwise) and always finishes with exactly one
// terminal DecodeFrame MetaResult, matching this module's choice to treat
// the in-band terminator as mandatory rather than optional - the out-of-band
// channel close (done by the caller via defer) remains the primary signal,
// this is the backward-compatible companion the design notes call for.
// A push failure (sink send aborted, e.g. a cancelled ctxSink) ends the
// drain early without emitting a further item.
func (r *frameReader) drain(push func(MetaResult) error) {
	for {
		payload, err := xdr.ReadFrame(r.stream)
		if err != nil {
			push(MetaResult{Err: &FrameReaderError{Kind: DecodeFrame}})
			return
		}

		meta, err := xdr.DecodeLedgerCloseMeta(payload)
		if err != nil {
			if pushErr := push(MetaResult{Err: &FrameReaderError{Kind: DecodeFrame}}); pushErr != nil {
				return
			}
			continue
		}

		if pushErr := push(MetaResult{Meta: &meta}); pushErr != nil {
			return
		}
	}
}

// snapshot returns a copy of the buffer. SingleThread only.
func (r *frameReader) snapshot() ([]MetaResult, error) {
	if r.cloned {
		return nil, &FrameReaderError{Kind: UsedClonedReader}
	}
	if r.mode != ModeSingleThread {
		return nil, &FrameReaderError{Kind: WrongModeMultiThread}
	}
	return r.buf.snapshot(), nil
}

// clear replaces the buffer with an empty one. SingleThread only.
func (r *frameReader) clear() error {
	if r.cloned {
		return &FrameReaderError{Kind: UsedClonedReader}
	}
	if r.mode != ModeSingleThread {
		return &FrameReaderError{Kind: WrongModeMultiThread}
	}
	r.buf.clear()
	return nil
}
