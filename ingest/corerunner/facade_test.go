package corerunner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestConfig(t *testing.T) Config {
	return Config{
		ExecutablePath: "/fake/stellar-core",
		ContextPath:    t.TempDir(),
		Network:        Futurenet,
	}
}

// TestFacade_SingleThread_PreparesAndLooksUpLedger is scenario S1/S2: a
// foreground catchup over a small range followed by a GetLedger lookup.
func TestFacade_SingleThread_PreparesAndLooksUpLedger(t *testing.T) {
	f, err := New(newTestConfig(t))
	require.NoError(t, err)

	f.runner.newCmd = func(executablePath, contextPath string, args []string) cmdI {
		return &fakeCmd{stdout: fixtureStream(t, []uint32{292395, 292396})}
	}

	rng, err := NewRange(292395, 292396)
	require.NoError(t, err)
	require.NoError(t, f.PrepareLedgersSingleThread(rng))

	item, err := f.GetLedger(292395)
	require.NoError(t, err)
	seq, err := LedgerSequence(item)
	require.NoError(t, err)
	assert.Equal(t, uint32(292395), seq)

	_, err = f.GetLedger(999999)
	var facadeErr *FacadeError
	require.ErrorAs(t, err, &facadeErr)
	assert.Equal(t, LedgerNotFound, facadeErr.Kind)
}

// TestFacade_SingleThread_SelfClosesAfterPreparing mirrors the single-thread
// half of S3: the mode self-closes, so a later CloseRunnerProcess call is
// rejected with CloseOnSingleThread regardless of the Runner's own status.
func TestFacade_SingleThread_SelfClosesAfterPreparing(t *testing.T) {
	f, err := New(newTestConfig(t))
	require.NoError(t, err)
	f.runner.newCmd = func(executablePath, contextPath string, args []string) cmdI {
		return &fakeCmd{stdout: fixtureStream(t, []uint32{1})}
	}

	rng, err := NewRange(1, 1)
	require.NoError(t, err)
	require.NoError(t, f.PrepareLedgersSingleThread(rng))

	err = f.CloseRunnerProcess()
	var facadeErr *FacadeError
	require.ErrorAs(t, err, &facadeErr)
	assert.Equal(t, CloseOnSingleThread, facadeErr.Kind)
}

// TestFacade_MultiThread_YieldsRecordsThenTerminal is scenario S3: two
// records followed by one terminal DecodeFrame, then the channel closes.
func TestFacade_MultiThread_YieldsRecordsThenTerminal(t *testing.T) {
	f, err := New(newTestConfig(t))
	require.NoError(t, err)
	f.runner.newCmd = func(executablePath, contextPath string, args []string) cmdI {
		return &fakeCmd{stdout: fixtureStream(t, []uint32{292395, 292396})}
	}

	rng, err := NewRange(292395, 292396)
	require.NoError(t, err)
	ch, err := f.PrepareLedgersMultiThread(rng)
	require.NoError(t, err)

	var got []MetaResult
	for r := range ch {
		got = append(got, r)
	}

	require.Len(t, got, 3)
	seq0, _ := LedgerSequence(got[0])
	seq1, _ := LedgerSequence(got[1])
	assert.Equal(t, uint32(292395), seq0)
	assert.Equal(t, uint32(292396), seq1)
	require.NotNil(t, got[2].Err)
	assert.Equal(t, DecodeFrame, got[2].Err.Kind)

	require.NoError(t, f.CloseRunnerProcess())
}

// TestFacade_Staggered_DeliversAllSegmentsInOrder is scenario S5: a range
// split across several sequential child invocations sharing one channel.
func TestFacade_Staggered_DeliversAllSegmentsInOrder(t *testing.T) {
	stagger := uint32(2)
	cfg := newTestConfig(t)
	cfg.Staggered = &stagger

	f, err := New(cfg)
	require.NoError(t, err)

	// computeSegments(100, 104, 2) truncates to two segments of step 2,
	// {100,101} and {102,103} - ledger 104 falls outside both, the same
	// truncation behavior TestComputeSegments_TruncatingDivisionDropsRemainder
	// exercises directly.
	segmentSeqs := [][]uint32{
		{100, 101},
		{102, 103},
	}
	call := 0
	f.runner.newCmd = func(executablePath, contextPath string, args []string) cmdI {
		seqs := segmentSeqs[call]
		call++
		return &fakeCmd{stdout: fixtureStream(t, seqs)}
	}

	rng, err := NewRange(100, 104)
	require.NoError(t, err)
	ch, err := f.PrepareLedgersMultiThread(rng)
	require.NoError(t, err)

	var sequences []uint32
	terminalCount := 0
	for r := range ch {
		if r.Err != nil {
			terminalCount++
			continue
		}
		seq, err := LedgerSequence(r)
		require.NoError(t, err)
		sequences = append(sequences, seq)
	}

	assert.Equal(t, []uint32{100, 101, 102, 103}, sequences)
	assert.Equal(t, 2, terminalCount)
	assert.Equal(t, 2, call)
}
