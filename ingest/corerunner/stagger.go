package corerunner

import (
	"fmt"

	"github.com/xycloo/go-ingest/support/ordered"
)

// segment is one contiguous sub-range of a staggered catchup.
type segment struct {
	start, end uint32
}

// computeSegments partitions [from, to] into count contiguous segments of
// step = (to-from+1)/count ledgers. When the division truncates, the
// leftover ledgers past count*step are NOT fetched by any segment - the
// last segment is clamped to min(start+step-1, to) rather than absorbing
// the remainder (see DESIGN.md, stagger.go).
func computeSegments(from, to uint32, count uint32) []segment {
	step := (to - from + 1) / count
	segments := make([]segment, count)
	for i := uint32(0); i < count; i++ {
		start := from + i*step
		end := ordered.Min(start+step-1, to)
		segments[i] = segment{start: start, end: end}
	}
	return segments
}

// runStaggeredCatchup is the single routine driving a staggered catchup:
// it is parameterized only by how the Runner is configured to deliver
// (bounded/unbounded channel), and runs each segment as its own child
// process sequentially, sharing one downstream channel across all of them.
func runStaggeredCatchup(r *Runner, from, to uint32, staggerTimes uint32) (<-chan MetaResult, error) {
	segments := computeSegments(from, to, staggerTimes)

	if r.boundedBufferSize != nil {
		ch := make(chan MetaResult, *r.boundedBufferSize)
		go superviseSegments(r, segments, &chanSink{ch: ch}, func() { close(ch) })
		return ch, nil
	}

	u := newUnboundedChannel()
	go superviseSegments(r, segments, u, u.closeSend)
	return u.out, nil
}

// superviseSegments is the supervisor: it runs each segment's child process
// to completion in order before starting the next, since segments share the
// context directory and cannot run concurrently. It closes the shared sink
// once every segment has drained, which is the authoritative "finished"
// signal to the receiver.
func superviseSegments(r *Runner, segments []segment, s sink, finish func()) {
	defer finish()

	for _, seg := range segments {
		rangeArg := fmt.Sprintf("%d/%d", seg.end, seg.end-seg.start+1)
		stdout, err := r.runCoreCLI([]string{"catchup", "--in-memory", rangeArg, "--metadata-output-stream", "fd:1"})
		if err != nil {
			s.send(MetaResult{Err: &FrameReaderError{Kind: DecodeFrame}})
			return
		}

		fr := newMultiFrameReader(stdout, s)
		r.mode = modePtr(ModeMultiThread)
		r.reader = fr
		fr.readAllMulti()

		// The segment's child exits on its own once catchup completes;
		// reap it and clear the handle so killProcess's ProcessNotFound
		// exemption (staggered mode, nil child between segments) holds.
		if r.process != nil {
			_ = r.process.Wait()
			r.process = nil
		}
	}
}
