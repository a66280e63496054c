package corerunner

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/xycloo/go-ingest/support/log"
)

// RunnerStatus is the Runner's lifecycle state machine: Closed transitions
// to exactly one of RunningOffline/RunningOnline, and only a close
// operation transitions it back.
type RunnerStatus int

const (
	StatusClosed RunnerStatus = iota
	StatusRunningOffline
	StatusRunningOnline
)

// cmdFactory builds a cmdI for a single invocation of the validator binary.
// Tests substitute a fake factory instead of spawning a real process.
type cmdFactory func(executablePath, contextPath string, args []string) cmdI

func defaultCmdFactory(executablePath, contextPath string, args []string) cmdI {
	return newExecCmd(executablePath, contextPath, args)
}

func modePtr(m FrameReaderMode) *FrameReaderMode { return &m }

// Runner owns the validator child process's lifecycle and hands its
// standard output off to a frameReader. At most one child is live per
// Runner; it is the sole owner of that process.
type Runner struct {
	executablePath string
	contextPath    string

	status RunnerStatus
	// mode is nil until the Runner's first catchup/run call sets it -
	// this lets callers (the Facade) distinguish "never started" from
	// "started in SingleThread mode" instead of relying on a zero value
	// that would otherwise alias ModeSingleThread.
	mode   *FrameReaderMode
	reader *frameReader

	prepared []MetaResult

	process cmdI

	boundedBufferSize *int
	staggered         *uint32

	log    *log.Entry
	newCmd cmdFactory
}

func newRunner(cfg Config) *Runner {
	return &Runner{
		executablePath:    cfg.ExecutablePath,
		contextPath:       cfg.contextPath(),
		status:            StatusClosed,
		boundedBufferSize: cfg.BoundedBufferSize,
		staggered:         cfg.Staggered,
		log:               cfg.logger(),
		newCmd:            defaultCmdFactory,
	}
}

// runCoreCLI spawns the validator with args plus the common trailing flags,
// starts it, and returns its captured stdout.
func (r *Runner) runCoreCLI(args []string) (io.ReadCloser, error) {
	full := buildCoreArgs(r.contextPath, args...)
	cmd := r.newCmd(r.executablePath, r.contextPath, full)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, &RunnerError{Kind: CliExec, Err: err}
	}
	if err := cmd.Start(); err != nil {
		return nil, &RunnerError{Kind: CliExec, Err: err}
	}

	r.process = cmd
	return stdout, nil
}

func (r *Runner) killProcess() error {
	if r.process == nil {
		if r.staggered != nil {
			return nil
		}
		return &RunnerError{Kind: ProcessNotFound}
	}
	if err := r.process.Kill(); err != nil {
		return &RunnerError{Kind: ProcessIO, Err: err}
	}
	r.process = nil
	return nil
}

func (r *Runner) removeTempData() error {
	if err := os.RemoveAll(filepath.Join(r.contextPath, "buckets")); err != nil {
		return &RunnerError{Kind: ProcessIO, Err: err}
	}
	return nil
}

// CatchupSingleThread drives an offline catchup over [from, to] to
// completion in the foreground, loads the drained buffer as the prepared
// set, and self-closes.
func (r *Runner) CatchupSingleThread(from, to uint32) error {
	if r.status != StatusClosed {
		return &RunnerError{Kind: AlreadyRunning}
	}
	r.status = StatusRunningOffline

	rangeArg := fmt.Sprintf("%d/%d", to, to-from+1)
	stdout, err := r.runCoreCLI([]string{"catchup", "--in-memory", rangeArg, "--metadata-output-stream", "fd:1"})
	if err != nil {
		return err
	}

	fr := newFrameReader(stdout, newBufferSink())
	r.mode = modePtr(ModeSingleThread)
	r.reader = fr

	if err := fr.readAll(); err != nil {
		return &RunnerError{Kind: MetaReader, Err: err}
	}

	prepared, err := fr.snapshot()
	if err != nil {
		return &RunnerError{Kind: MetaReader, Err: err}
	}
	r.prepared = prepared

	return r.CloseRunnerProcess()
}

// CatchupMultiThread drives an offline catchup over [from, to] through a
// producer goroutine and returns its receiver. It stays RunningOffline
// until the caller invokes CloseRunnerProcess. When stagger is configured
// and splits the range into 2+ segments, it delegates to
// runStaggeredCatchup instead of a single child invocation.
func (r *Runner) CatchupMultiThread(from, to uint32) (<-chan MetaResult, error) {
	if r.status != StatusClosed {
		return nil, &RunnerError{Kind: AlreadyRunning}
	}
	r.status = StatusRunningOffline

	if r.staggered != nil {
		ledgersAmount := to - from
		staggerTimes := ledgersAmount / *r.staggered
		if staggerTimes > 1 {
			return runStaggeredCatchup(r, from, to, staggerTimes)
		}
	}

	rangeArg := fmt.Sprintf("%d/%d", to, to-from+1)
	stdout, err := r.runCoreCLI([]string{"catchup", "--in-memory", rangeArg, "--metadata-output-stream", "fd:1"})
	if err != nil {
		return nil, err
	}
	return r.startMultiThread(stdout), nil
}

// Run drives the validator in online mode: a brief warm-up catchup (never
// a destructive new-db - see DESIGN.md) followed by the long-running `run`
// invocation, wired through a producer goroutine exactly like
// CatchupMultiThread.
func (r *Runner) Run() (<-chan MetaResult, error) {
	if r.status != StatusClosed {
		return nil, &RunnerError{Kind: AlreadyRunning}
	}
	r.status = StatusRunningOnline

	if stdout, err := r.runCoreCLI([]string{"catchup", "current/2"}); err == nil {
		_ = stdout.Close()
		if r.process != nil {
			_ = r.process.Wait()
		}
	}

	stdout, err := r.runCoreCLI([]string{"run", "--metadata-output-stream", "fd:1"})
	if err != nil {
		return nil, err
	}
	return r.startMultiThread(stdout), nil
}

// startMultiThread wires stdout through a MultiThread frameReader into
// either a bounded Go channel or an unboundedChannel, depending on
// configuration, and launches the one producer goroutine that drains it.
func (r *Runner) startMultiThread(stdout io.ReadCloser) <-chan MetaResult {
	if r.boundedBufferSize != nil {
		ch := make(chan MetaResult, *r.boundedBufferSize)
		fr := newMultiFrameReader(stdout, &chanSink{ch: ch})
		r.mode = modePtr(ModeMultiThread)
		r.reader = fr

		go func() {
			defer close(ch)
			_ = fr.readAllMulti()
		}()

		return ch
	}

	u := newUnboundedChannel()
	fr := newMultiFrameReader(stdout, u)
	r.mode = modePtr(ModeMultiThread)
	r.reader = fr

	go func() {
		defer u.closeSend()
		_ = fr.readAllMulti()
	}()

	return u.out
}

// CloseRunnerProcess transitions the Runner back to Closed, kills the
// child if one is live, and removes the validator's scratch bucket
// directory. ProcessNotFound is suppressed while stagger mode is active,
// since the supervisor legitimately observes a nil child between segments.
func (r *Runner) CloseRunnerProcess() error {
	if r.status == StatusClosed {
		return &RunnerError{Kind: AlreadyClosed}
	}
	r.status = StatusClosed

	if err := r.killProcess(); err != nil {
		return err
	}
	if err := r.removeTempData(); err != nil {
		return err
	}
	r.reader = nil
	return nil
}

// ReadPrepared returns a copy of the buffer filled by the last
// CatchupSingleThread call.
func (r *Runner) ReadPrepared() ([]MetaResult, error) {
	if r.mode == nil || *r.mode != ModeSingleThread {
		return nil, &FrameReaderError{Kind: WrongModeMultiThread}
	}
	out := make([]MetaResult, len(r.prepared))
	copy(out, r.prepared)
	return out, nil
}

// unboundedChannel delivers an arbitrarily large backlog from producer to
// consumer without the producer ever blocking on capacity: it queues
// pending items internally and pumps them out through out as the consumer
// drains it, approximating an unbounded mpsc channel in idiomatic Go.
type unboundedChannel struct {
	mu     sync.Mutex
	cond   *sync.Cond
	queue  []MetaResult
	closed bool
	out    chan MetaResult
}

func newUnboundedChannel() *unboundedChannel {
	u := &unboundedChannel{out: make(chan MetaResult)}
	u.cond = sync.NewCond(&u.mu)
	go u.pump()
	return u
}

func (u *unboundedChannel) send(r MetaResult) error {
	u.mu.Lock()
	u.queue = append(u.queue, r)
	u.cond.Signal()
	u.mu.Unlock()
	return nil
}

func (u *unboundedChannel) closeSend() {
	u.mu.Lock()
	u.closed = true
	u.cond.Signal()
	u.mu.Unlock()
}

func (u *unboundedChannel) pump() {
	defer close(u.out)
	for {
		u.mu.Lock()
		for len(u.queue) == 0 && !u.closed {
			u.cond.Wait()
		}
		if len(u.queue) == 0 && u.closed {
			u.mu.Unlock()
			return
		}
		item := u.queue[0]
		u.queue = u.queue[1:]
		u.mu.Unlock()
		u.out <- item
	}
}
