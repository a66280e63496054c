package corerunner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFrameReader_SingleThread_DrainEndsWithOneTerminalFrame(t *testing.T) {
	stream := fixtureStream(t, []uint32{292395, 292396})
	buf := newBufferSink()
	fr := newFrameReader(stream, buf)

	require.NoError(t, fr.readAll())

	results, err := fr.snapshot()
	require.NoError(t, err)
	require.Len(t, results, 3)

	seq0, err := LedgerSequence(results[0])
	require.NoError(t, err)
	assert.Equal(t, uint32(292395), seq0)

	seq1, err := LedgerSequence(results[1])
	require.NoError(t, err)
	assert.Equal(t, uint32(292396), seq1)

	assert.Nil(t, results[2].Meta)
	require.NotNil(t, results[2].Err)
	assert.Equal(t, DecodeFrame, results[2].Err.Kind)
}

func TestFrameReader_MultiThread_ChanSinkDeliversAndCloses(t *testing.T) {
	stream := fixtureStream(t, []uint32{1, 2, 3})
	ch := make(chan MetaResult, 10)
	fr := newMultiFrameReader(stream, &chanSink{ch: ch})

	go func() {
		defer close(ch)
		_ = fr.readAllMulti()
	}()

	var results []MetaResult
	for r := range ch {
		results = append(results, r)
	}

	require.Len(t, results, 4)
	for i, want := range []uint32{1, 2, 3} {
		seq, err := LedgerSequence(results[i])
		require.NoError(t, err)
		assert.Equal(t, want, seq)
	}
	assert.NotNil(t, results[3].Err)
}

func TestNewFrameReaderFor_RejectsModeSinkMismatch(t *testing.T) {
	_, err := newFrameReaderFor(ModeSingleThread, nil, nil, &chanSink{ch: make(chan MetaResult)})
	require.Error(t, err)

	_, err = newFrameReaderFor(ModeMultiThread, nil, newBufferSink(), nil)
	require.Error(t, err)
}

func TestFrameReader_ClonedReaderRejectsReads(t *testing.T) {
	fr := newFrameReader(nil, newBufferSink())
	clone := fr.clone()

	err := clone.readAll()
	var frErr *FrameReaderError
	require.ErrorAs(t, err, &frErr)
	assert.Equal(t, UsedClonedReader, frErr.Kind)
}
