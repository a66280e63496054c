package xdr

import "github.com/stellar/go-xdr/xdr3"

// LedgerHeader carries the handful of ledger header fields this module's
// accessor surface exposes; the scp value and upgrade list are kept opaque.
type LedgerHeader struct {
	LedgerVersion      Uint32
	PreviousLedgerHash Hash
	ScpValue           opaque
	TxSetResultHash    Hash
	BucketListHash     Hash
	LedgerSeq          Uint32
	TotalCoins         int64
	FeePool            int64
	InflationSeq       Uint32
	IdPool             uint64
	BaseFee            Uint32
	BaseReserve        Uint32
	MaxTxSetSize       Uint32
	SkipList           [4]Hash
	Ext                ExtensionPoint
}

func (h LedgerHeader) EncodeTo(e *xdr3.Encoder) (int, error) {
	var sum int
	for _, enc := range []func() (int, error){
		func() (int, error) { return h.LedgerVersion.EncodeTo(e) },
		func() (int, error) { return h.PreviousLedgerHash.EncodeTo(e) },
		func() (int, error) { return h.ScpValue.EncodeTo(e) },
		func() (int, error) { return h.TxSetResultHash.EncodeTo(e) },
		func() (int, error) { return h.BucketListHash.EncodeTo(e) },
		func() (int, error) { return h.LedgerSeq.EncodeTo(e) },
		func() (int, error) { return e.EncodeHyper(h.TotalCoins) },
		func() (int, error) { return e.EncodeHyper(h.FeePool) },
		func() (int, error) { return h.InflationSeq.EncodeTo(e) },
		func() (int, error) { return e.EncodeUhyper(h.IdPool) },
		func() (int, error) { return h.BaseFee.EncodeTo(e) },
		func() (int, error) { return h.BaseReserve.EncodeTo(e) },
		func() (int, error) { return h.MaxTxSetSize.EncodeTo(e) },
	} {
		n, err := enc()
		sum += n
		if err != nil {
			return sum, err
		}
	}
	for i := range h.SkipList {
		n, err := h.SkipList[i].EncodeTo(e)
		sum += n
		if err != nil {
			return sum, err
		}
	}
	n, err := h.Ext.EncodeTo(e)
	sum += n
	return sum, err
}

func (h *LedgerHeader) DecodeFrom(d *xdr3.Decoder, maxDepth uint) (int, error) {
	if maxDepth == 0 {
		return 0, errMaxDecodingDepthReached
	}
	maxDepth--

	var sum int
	decoders := []func() (int, error){
		func() (int, error) { return h.LedgerVersion.DecodeFrom(d, maxDepth) },
		func() (int, error) { return h.PreviousLedgerHash.DecodeFrom(d, maxDepth) },
		func() (int, error) { return h.ScpValue.DecodeFrom(d, maxDepth) },
		func() (int, error) { return h.TxSetResultHash.DecodeFrom(d, maxDepth) },
		func() (int, error) { return h.BucketListHash.DecodeFrom(d, maxDepth) },
		func() (int, error) { return h.LedgerSeq.DecodeFrom(d, maxDepth) },
	}
	for _, dec := range decoders {
		n, err := dec()
		sum += n
		if err != nil {
			return sum, err
		}
	}

	v, n, err := d.DecodeHyper()
	sum += n
	if err != nil {
		return sum, err
	}
	h.TotalCoins = v

	v, n, err = d.DecodeHyper()
	sum += n
	if err != nil {
		return sum, err
	}
	h.FeePool = v

	n, err = h.InflationSeq.DecodeFrom(d, maxDepth)
	sum += n
	if err != nil {
		return sum, err
	}

	uv, n, err := d.DecodeUhyper()
	sum += n
	if err != nil {
		return sum, err
	}
	h.IdPool = uv

	for _, dec := range []func() (int, error){
		func() (int, error) { return h.BaseFee.DecodeFrom(d, maxDepth) },
		func() (int, error) { return h.BaseReserve.DecodeFrom(d, maxDepth) },
		func() (int, error) { return h.MaxTxSetSize.DecodeFrom(d, maxDepth) },
	} {
		n, err := dec()
		sum += n
		if err != nil {
			return sum, err
		}
	}

	for i := range h.SkipList {
		n, err := h.SkipList[i].DecodeFrom(d, maxDepth)
		sum += n
		if err != nil {
			return sum, err
		}
	}

	n, err = h.Ext.DecodeFrom(d, maxDepth)
	sum += n
	return sum, err
}

// LedgerHeaderHistoryEntry pairs a ledger header with its own hash, exactly
// as stellar-core emits it on the metadata pipe.
type LedgerHeaderHistoryEntry struct {
	Hash   Hash
	Header LedgerHeader
	Ext    ExtensionPoint
}

func (e LedgerHeaderHistoryEntry) EncodeTo(enc *xdr3.Encoder) (int, error) {
	var sum int
	n, err := e.Hash.EncodeTo(enc)
	sum += n
	if err != nil {
		return sum, err
	}
	n, err = e.Header.EncodeTo(enc)
	sum += n
	if err != nil {
		return sum, err
	}
	n, err = e.Ext.EncodeTo(enc)
	sum += n
	return sum, err
}

func (e *LedgerHeaderHistoryEntry) DecodeFrom(d *xdr3.Decoder, maxDepth uint) (int, error) {
	if maxDepth == 0 {
		return 0, errMaxDecodingDepthReached
	}
	maxDepth--

	var sum int
	n, err := e.Hash.DecodeFrom(d, maxDepth)
	sum += n
	if err != nil {
		return sum, err
	}
	n, err = e.Header.DecodeFrom(d, maxDepth)
	sum += n
	if err != nil {
		return sum, err
	}
	n, err = e.Ext.DecodeFrom(d, maxDepth)
	sum += n
	return sum, err
}
