package xdr

import (
	"bytes"
	"testing"

	"github.com/stellar/go-xdr/xdr3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodeMeta(t *testing.T, m LedgerCloseMeta) []byte {
	t.Helper()
	var buf bytes.Buffer
	enc := xdr3.NewEncoder(&buf)
	_, err := m.EncodeTo(enc)
	require.NoError(t, err)
	return buf.Bytes()
}

func TestLedgerCloseMeta_V0RoundTrip(t *testing.T) {
	var seq uint32 = 292395
	original := LedgerCloseMeta{
		V: 0,
		V0: &LedgerCloseMetaV0{
			LedgerHeader: LedgerHeaderHistoryEntry{
				Hash: Hash{1, 2, 3},
				Header: LedgerHeader{
					LedgerSeq: Uint32(seq),
				},
			},
			TxSet: TransactionSet{
				Txs: []TransactionEnvelope{
					{Type: 2, Raw: opaque("payload-a")},
				},
			},
			TxProcessing: []TransactionResultMeta{
				{
					Result:            TransactionResultPair{TransactionHash: Hash{4, 5, 6}},
					TxApplyProcessing: TransactionMeta{Type: 0, V0: opaque("v0-meta")},
				},
			},
		},
	}

	decoded, err := DecodeLedgerCloseMeta(encodeMeta(t, original))
	require.NoError(t, err)

	assert.Equal(t, int32(0), decoded.V)
	require.NotNil(t, decoded.V0)
	assert.Equal(t, seq, uint32(decoded.V0.LedgerHeader.Header.LedgerSeq))
	assert.Equal(t, original.V0.LedgerHeader.Hash, decoded.V0.LedgerHeader.Hash)
	require.Len(t, decoded.V0.TxSet.Txs, 1)
	assert.Equal(t, original.V0.TxSet.Txs[0].Raw, decoded.V0.TxSet.Txs[0].Raw)
}

func TestLedgerCloseMeta_V1WithSorobanEventsRoundTrip(t *testing.T) {
	event := ContractEvent{Type: 1, Body: opaque("event-body")}
	sorobanMeta := &SorobanTransactionMeta{Events: []ContractEvent{event}}

	original := LedgerCloseMeta{
		V: 1,
		V1: &LedgerCloseMetaV1{
			LedgerHeader: LedgerHeaderHistoryEntry{
				Header: LedgerHeader{LedgerSeq: Uint32(1844381)},
			},
			TxSet: GeneralizedTransactionSet{
				Type: 1,
				V1: &TransactionSetV1{
					Phases: []TransactionPhase{
						{
							Type: 0,
							V0: &[]TxSetComponent{
								{
									Type: 0,
									V0: &TxSetComponentTxsMaybeDiscountedFee{
										Txs: []TransactionEnvelope{{Type: 2, Raw: opaque("tx-1")}},
									},
								},
							},
						},
					},
				},
			},
			TxProcessing: []TransactionResultMeta{
				{
					TxApplyProcessing: TransactionMeta{
						Type: 3,
						V3: &TransactionMetaV3{
							SorobanMeta: sorobanMeta,
						},
					},
				},
			},
		},
	}

	decoded, err := DecodeLedgerCloseMeta(encodeMeta(t, original))
	require.NoError(t, err)

	assert.Equal(t, int32(1), decoded.V)
	require.NotNil(t, decoded.V1)
	require.NotNil(t, decoded.V1.TxSet.V1)
	require.Len(t, decoded.V1.TxSet.V1.Phases, 1)
	require.NotNil(t, decoded.V1.TxSet.V1.Phases[0].V0)
	require.Len(t, *decoded.V1.TxSet.V1.Phases[0].V0, 1)

	require.Len(t, decoded.V1.TxProcessing, 1)
	meta := decoded.V1.TxProcessing[0].TxApplyProcessing
	require.Equal(t, int32(3), meta.Type)
	require.NotNil(t, meta.V3)
	require.NotNil(t, meta.V3.SorobanMeta)
	require.Len(t, meta.V3.SorobanMeta.Events, 1)
	assert.Equal(t, event.Body, meta.V3.SorobanMeta.Events[0].Body)
}

func TestLedgerCloseMeta_UnknownArmFailsToDecode(t *testing.T) {
	var buf bytes.Buffer
	enc := xdr3.NewEncoder(&buf)
	_, err := enc.EncodeInt(7)
	require.NoError(t, err)

	_, err = DecodeLedgerCloseMeta(buf.Bytes())
	assert.Error(t, err)
}
