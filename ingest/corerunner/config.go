package corerunner

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/xycloo/go-ingest/support/log"
)

// DefaultContextPath is used when a Config is constructed with no explicit
// context directory.
const DefaultContextPath = "/tmp/rs_ingestion_temp"

// Config is the immutable, by-value configuration a Facade is built from.
type Config struct {
	// ExecutablePath is the filesystem path to the validator binary.
	ExecutablePath string

	// ContextPath is the directory holding the generated configuration
	// file and scratch state. Defaults to DefaultContextPath when empty.
	ContextPath string

	// Network selects one of the three pre-baked configuration templates.
	Network Network

	// BoundedBufferSize, when set, makes multi-thread delivery use a
	// bounded channel of this capacity; nil means unbounded delivery.
	BoundedBufferSize *int

	// Staggered, when set, splits a multi-thread catchup of [from, to]
	// into floor((to-from)/S) sequential sub-catchups sharing one channel;
	// when that count is 1 or less, a single plain catchup runs instead.
	Staggered *uint32

	// Log is the structured logger used by every component built from
	// this Config. Falls back to log.DefaultLogger when nil.
	Log *log.Entry
}

func (c Config) contextPath() string {
	if c.ContextPath == "" {
		return DefaultContextPath
	}
	return c.ContextPath
}

func (c Config) logger() *log.Entry {
	if c.Log != nil {
		return c.Log
	}
	return log.DefaultLogger.WithField("service", "corerunner")
}

// Range is a closed integer range [from, to] of ledger sequence numbers.
// Only bounded ranges are modeled; an unbounded variant is never reachable
// from this module's entry points, so it is omitted here (see DESIGN.md).
type Range struct {
	from, to uint32
}

// NewRange validates from <= to and returns the corresponding Range.
func NewRange(from, to uint32) (Range, error) {
	if from > to {
		return Range{}, fmt.Errorf("corerunner: invalid range [%d, %d]: from must be <= to", from, to)
	}
	return Range{from: from, to: to}, nil
}

func (r Range) From() uint32 { return r.from }
func (r Range) To() uint32   { return r.to }

// Count is the number of ledgers the range covers, to−from+1.
func (r Range) Count() uint32 { return r.to - r.from + 1 }

// writeContext creates the context directory (tolerating "already exists")
// and writes stellar-core.cfg from the fixed template for cfg.Network,
// validating it parses as TOML before the child is ever spawned.
func writeContext(cfg Config) error {
	path := cfg.contextPath()
	log := cfg.logger()

	if err := os.MkdirAll(path, 0o755); err != nil && !os.IsExist(err) {
		return errors.Wrapf(err, "creating context directory %s", path)
	}

	body, ok := templates[cfg.Network]
	if !ok {
		return fmt.Errorf("corerunner: unknown network %q", cfg.Network)
	}

	if err := validateTemplate(body); err != nil {
		return errors.Wrap(err, "validating network template before write")
	}

	cfgPath := filepath.Join(path, "stellar-core.cfg")
	if err := os.WriteFile(cfgPath, []byte(body), 0o644); err != nil {
		return errors.Wrapf(err, "writing %s", cfgPath)
	}

	log.WithField("path", cfgPath).Info("wrote stellar-core.cfg")
	return nil
}
