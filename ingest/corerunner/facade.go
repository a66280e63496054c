package corerunner

// Facade is the public surface over Config, Runner, and the staggered
// scheduler: construction, range preparation, live streaming, sequence
// lookup, and shutdown. metrics is nil unless the Facade was built through
// NewInstrumentedFacade.
type Facade struct {
	runner  *Runner
	metrics *instrumentedFacade
}

// New constructs a Facade: it writes the network configuration file and
// builds an idle Runner.
func New(cfg Config) (*Facade, error) {
	if err := writeContext(cfg); err != nil {
		return nil, &FacadeError{Kind: Core, Err: err}
	}
	return &Facade{runner: newRunner(cfg)}, nil
}

// PrepareLedgersSingleThread validates range and drives a foreground
// catchup over it, populating the prepared set GetLedger reads from.
func (f *Facade) PrepareLedgersSingleThread(r Range) (err error) {
	if f.metrics != nil {
		defer f.metrics.observe("PrepareLedgersSingleThread", &err)()
	}
	if err = f.runner.CatchupSingleThread(r.From(), r.To()); err != nil {
		return &FacadeError{Kind: Core, Err: err}
	}
	if f.metrics != nil {
		f.metrics.preparedGauge.Set(float64(len(f.runner.prepared)))
	}
	return nil
}

// PrepareLedgersMultiThread validates range and either delegates directly
// to the Runner or, when stagger is configured and splits the range into
// 2+ segments, the scheduler composes multiple child invocations into one
// logical stream - either way, returns a receiver.
func (f *Facade) PrepareLedgersMultiThread(r Range) (ch <-chan MetaResult, err error) {
	if f.metrics != nil {
		defer f.metrics.observe("PrepareLedgersMultiThread", &err)()
	}
	ch, err = f.runner.CatchupMultiThread(r.From(), r.To())
	if err != nil {
		return nil, &FacadeError{Kind: Core, Err: err}
	}
	return f.metrics.wrapStream(ch), nil
}

// StartOnlineNoRange starts the validator in online (live) mode and
// returns the receiver of its growing, unbounded sequence of records.
func (f *Facade) StartOnlineNoRange() (ch <-chan MetaResult, err error) {
	if f.metrics != nil {
		defer f.metrics.observe("StartOnlineNoRange", &err)()
	}
	ch, err = f.runner.Run()
	if err != nil {
		return nil, &FacadeError{Kind: Core, Err: err}
	}
	return f.metrics.wrapStream(ch), nil
}

// GetLedger linearly scans the prepared set for the first record whose
// sequence equals the one requested.
func (f *Facade) GetLedger(sequence uint32) (result MetaResult, err error) {
	if f.metrics != nil {
		defer f.metrics.observe("GetLedger", &err)()
	}
	prepared, err := f.runner.ReadPrepared()
	if err != nil {
		return MetaResult{}, &FacadeError{Kind: Core, Err: err}
	}

	for _, item := range prepared {
		if item.Meta == nil {
			continue
		}
		seq, err := LedgerSequence(item)
		if err != nil {
			continue
		}
		if seq == sequence {
			return item, nil
		}
	}

	err = &FacadeError{Kind: LedgerNotFound}
	return MetaResult{}, err
}

// CloseRunnerProcess is legal only when the Runner is in a multi-thread
// mode; calling it while the Facade is in SingleThread mode returns
// CloseOnSingleThread - that mode always self-closes at the end of its
// own prepare call, so there is nothing left for the caller to close.
func (f *Facade) CloseRunnerProcess() (err error) {
	if f.metrics != nil {
		defer f.metrics.observe("CloseRunnerProcess", &err)()
		defer f.metrics.unregister()
	}
	if f.runner.mode != nil && *f.runner.mode == ModeSingleThread {
		return &FacadeError{Kind: CloseOnSingleThread}
	}
	if err = f.runner.CloseRunnerProcess(); err != nil {
		return &FacadeError{Kind: Core, Err: err}
	}
	return nil
}
