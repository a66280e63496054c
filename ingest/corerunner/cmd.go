package corerunner

import (
	"io"
	"os"
	"os/exec"
	"path/filepath"
)

// cmdI abstracts the handful of *exec.Cmd operations the Runner needs,
// grounded on the cmdI seam in ingest/ledgerbackend/run_from.go: tests
// substitute a fake implementation instead of spawning a real validator
// binary.
type cmdI interface {
	Start() error
	Wait() error
	Kill() error
	StdoutPipe() (io.ReadCloser, error)
}

// execCmd is the production cmdI backed by a real *exec.Cmd.
type execCmd struct {
	cmd *exec.Cmd
}

func newExecCmd(executablePath, contextPath string, args []string) *execCmd {
	cmd := exec.Command(executablePath, args...)
	cmd.Dir = contextPath
	cmd.Stderr = os.Stderr
	return &execCmd{cmd: cmd}
}

func (c *execCmd) Start() error { return c.cmd.Start() }
func (c *execCmd) Wait() error  { return c.cmd.Wait() }

func (c *execCmd) Kill() error {
	if c.cmd.Process == nil {
		return os.ErrProcessDone
	}
	return c.cmd.Process.Kill()
}

func (c *execCmd) StdoutPipe() (io.ReadCloser, error) {
	return c.cmd.StdoutPipe()
}

// pipe wraps the child's captured stdout, mirroring ingest/ledgerbackend's
// pipe. The Runner itself handles stdout as a plain io.ReadCloser and does
// not use this type.
type pipe struct {
	io.ReadCloser
}

// buildCoreArgs assembles the common trailing flags shared by every entry
// point (catchup, run) onto a mode-specific prefix. Factoring this
// once here is what lets the staggered scheduler and the Runner's direct
// entry points share one argument-building path instead of reimplementing
// it at each call site.
func buildCoreArgs(contextPath string, prefix ...string) []string {
	args := make([]string, 0, len(prefix)+4)
	args = append(args, prefix...)
	args = append(args, "--conf", filepath.Join(contextPath, "stellar-core.cfg"), "--ll", "INFO")
	return args
}
