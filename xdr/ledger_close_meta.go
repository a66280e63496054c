package xdr

import (
	"bytes"
	"fmt"

	"github.com/stellar/go-xdr/xdr3"
)

// LedgerCloseMetaV0 is the classic, pre-generalized-transaction-set meta
// shape emitted by stellar-core.
type LedgerCloseMetaV0 struct {
	LedgerHeader       LedgerHeaderHistoryEntry
	TxSet              TransactionSet
	TxProcessing       []TransactionResultMeta
	UpgradesProcessing opaque
	ScpInfo            opaque
}

func (m LedgerCloseMetaV0) EncodeTo(e *xdr3.Encoder) (int, error) {
	var sum int
	n, err := m.LedgerHeader.EncodeTo(e)
	sum += n
	if err != nil {
		return sum, err
	}
	n, err = m.TxSet.EncodeTo(e)
	sum += n
	if err != nil {
		return sum, err
	}
	n, err = e.EncodeUint(uint32(len(m.TxProcessing)))
	sum += n
	if err != nil {
		return sum, err
	}
	for i := range m.TxProcessing {
		n, err = m.TxProcessing[i].EncodeTo(e)
		sum += n
		if err != nil {
			return sum, err
		}
	}
	n, err = m.UpgradesProcessing.EncodeTo(e)
	sum += n
	if err != nil {
		return sum, err
	}
	n, err = m.ScpInfo.EncodeTo(e)
	sum += n
	return sum, err
}

func (m *LedgerCloseMetaV0) DecodeFrom(d *xdr3.Decoder, maxDepth uint) (int, error) {
	if maxDepth == 0 {
		return 0, errMaxDecodingDepthReached
	}
	maxDepth--

	var sum int
	n, err := m.LedgerHeader.DecodeFrom(d, maxDepth)
	sum += n
	if err != nil {
		return sum, err
	}
	n, err = m.TxSet.DecodeFrom(d, maxDepth)
	sum += n
	if err != nil {
		return sum, err
	}
	count, n, err := d.DecodeUint()
	sum += n
	if err != nil {
		return sum, err
	}
	txProcessing := make([]TransactionResultMeta, count)
	for i := range txProcessing {
		n, err = txProcessing[i].DecodeFrom(d, maxDepth)
		sum += n
		if err != nil {
			return sum, err
		}
	}
	m.TxProcessing = txProcessing

	n, err = m.UpgradesProcessing.DecodeFrom(d, maxDepth)
	sum += n
	if err != nil {
		return sum, err
	}
	n, err = m.ScpInfo.DecodeFrom(d, maxDepth)
	sum += n
	return sum, err
}

// LedgerCloseMetaV1 is the current meta shape: it carries a generalized
// transaction set and the bucket-list-eviction bookkeeping added alongside
// Soroban's state expiration.
type LedgerCloseMetaV1 struct {
	Ext                            ExtensionPoint
	LedgerHeader                   LedgerHeaderHistoryEntry
	TxSet                          GeneralizedTransactionSet
	TxProcessing                   []TransactionResultMeta
	UpgradesProcessing             opaque
	ScpInfo                        opaque
	TotalByteSizeOfBucketList      uint64
	EvictedTemporaryLedgerKeys     opaque
	EvictedPersistentLedgerEntries opaque
}

func (m LedgerCloseMetaV1) EncodeTo(e *xdr3.Encoder) (int, error) {
	var sum int
	n, err := m.Ext.EncodeTo(e)
	sum += n
	if err != nil {
		return sum, err
	}
	n, err = m.LedgerHeader.EncodeTo(e)
	sum += n
	if err != nil {
		return sum, err
	}
	n, err = m.TxSet.EncodeTo(e)
	sum += n
	if err != nil {
		return sum, err
	}
	n, err = e.EncodeUint(uint32(len(m.TxProcessing)))
	sum += n
	if err != nil {
		return sum, err
	}
	for i := range m.TxProcessing {
		n, err = m.TxProcessing[i].EncodeTo(e)
		sum += n
		if err != nil {
			return sum, err
		}
	}
	n, err = m.UpgradesProcessing.EncodeTo(e)
	sum += n
	if err != nil {
		return sum, err
	}
	n, err = m.ScpInfo.EncodeTo(e)
	sum += n
	if err != nil {
		return sum, err
	}
	n, err = e.EncodeUhyper(m.TotalByteSizeOfBucketList)
	sum += n
	if err != nil {
		return sum, err
	}
	n, err = m.EvictedTemporaryLedgerKeys.EncodeTo(e)
	sum += n
	if err != nil {
		return sum, err
	}
	n, err = m.EvictedPersistentLedgerEntries.EncodeTo(e)
	sum += n
	return sum, err
}

func (m *LedgerCloseMetaV1) DecodeFrom(d *xdr3.Decoder, maxDepth uint) (int, error) {
	if maxDepth == 0 {
		return 0, errMaxDecodingDepthReached
	}
	maxDepth--

	var sum int
	n, err := m.Ext.DecodeFrom(d, maxDepth)
	sum += n
	if err != nil {
		return sum, err
	}
	n, err = m.LedgerHeader.DecodeFrom(d, maxDepth)
	sum += n
	if err != nil {
		return sum, err
	}
	n, err = m.TxSet.DecodeFrom(d, maxDepth)
	sum += n
	if err != nil {
		return sum, err
	}
	count, n, err := d.DecodeUint()
	sum += n
	if err != nil {
		return sum, err
	}
	txProcessing := make([]TransactionResultMeta, count)
	for i := range txProcessing {
		n, err = txProcessing[i].DecodeFrom(d, maxDepth)
		sum += n
		if err != nil {
			return sum, err
		}
	}
	m.TxProcessing = txProcessing

	n, err = m.UpgradesProcessing.DecodeFrom(d, maxDepth)
	sum += n
	if err != nil {
		return sum, err
	}
	n, err = m.ScpInfo.DecodeFrom(d, maxDepth)
	sum += n
	if err != nil {
		return sum, err
	}
	uv, n, err := d.DecodeUhyper()
	sum += n
	if err != nil {
		return sum, err
	}
	m.TotalByteSizeOfBucketList = uv

	n, err = m.EvictedTemporaryLedgerKeys.DecodeFrom(d, maxDepth)
	sum += n
	if err != nil {
		return sum, err
	}
	n, err = m.EvictedPersistentLedgerEntries.DecodeFrom(d, maxDepth)
	sum += n
	return sum, err
}

// LedgerCloseMeta is the top-level record read off the metadata pipe: a
// discriminated union with exactly two arms, V0 and V1. There is no V2 -
// Soroban events reach a ledger close record through TransactionMeta's own
// V3 arm nested inside TxProcessing, independent of which LedgerCloseMeta
// version wraps it.
type LedgerCloseMeta struct {
	V  int32
	V0 *LedgerCloseMetaV0
	V1 *LedgerCloseMetaV1
}

func (m LedgerCloseMeta) EncodeTo(e *xdr3.Encoder) (int, error) {
	var sum int
	n, err := e.EncodeInt(m.V)
	sum += n
	if err != nil {
		return sum, err
	}
	switch m.V {
	case 0:
		n, err = m.V0.EncodeTo(e)
	case 1:
		n, err = m.V1.EncodeTo(e)
	default:
		return sum, fmt.Errorf("xdr: unknown LedgerCloseMeta version %d", m.V)
	}
	sum += n
	return sum, err
}

func (m *LedgerCloseMeta) DecodeFrom(d *xdr3.Decoder, maxDepth uint) (int, error) {
	if maxDepth == 0 {
		return 0, errMaxDecodingDepthReached
	}
	maxDepth--

	var sum int
	v, n, err := d.DecodeInt()
	sum += n
	if err != nil {
		return sum, err
	}
	m.V = v
	switch v {
	case 0:
		m.V0 = new(LedgerCloseMetaV0)
		n, err = m.V0.DecodeFrom(d, maxDepth)
	case 1:
		m.V1 = new(LedgerCloseMetaV1)
		n, err = m.V1.DecodeFrom(d, maxDepth)
	default:
		return sum, fmt.Errorf("xdr: unknown LedgerCloseMeta version %d", v)
	}
	sum += n
	return sum, err
}

// DecodeLedgerCloseMeta decodes a full LedgerCloseMeta from a single framed
// record payload, returning a clear error on truncated or malformed input
// rather than panicking: the caller (the frame reader) needs to surface a
// DecodeFrame error, not crash the ingestion goroutine.
func DecodeLedgerCloseMeta(payload []byte) (LedgerCloseMeta, error) {
	dec := xdr3.NewDecoder(bytes.NewReader(payload))
	var meta LedgerCloseMeta
	if _, err := meta.DecodeFrom(dec, maxDecodingDepth); err != nil {
		return LedgerCloseMeta{}, err
	}
	return meta, nil
}
