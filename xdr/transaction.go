package xdr

import (
	"fmt"

	"github.com/stellar/go-xdr/xdr3"
)

// TransactionEnvelope is kept opaque beyond its type discriminant: this
// module's accessor surface only needs to count and collect envelopes, not
// interpret their operations.
type TransactionEnvelope struct {
	Type int32
	Raw  opaque
}

func (e TransactionEnvelope) EncodeTo(enc *xdr3.Encoder) (int, error) {
	var sum int
	n, err := enc.EncodeInt(e.Type)
	sum += n
	if err != nil {
		return sum, err
	}
	n, err = e.Raw.EncodeTo(enc)
	sum += n
	return sum, err
}

func (e *TransactionEnvelope) DecodeFrom(d *xdr3.Decoder, maxDepth uint) (int, error) {
	var sum int
	v, n, err := d.DecodeInt()
	sum += n
	if err != nil {
		return sum, err
	}
	e.Type = v
	n, err = e.Raw.DecodeFrom(d, maxDepth)
	sum += n
	return sum, err
}

func encodeEnvelopes(e *xdr3.Encoder, txs []TransactionEnvelope) (int, error) {
	var sum int
	n, err := e.EncodeUint(uint32(len(txs)))
	sum += n
	if err != nil {
		return sum, err
	}
	for i := range txs {
		n, err = txs[i].EncodeTo(e)
		sum += n
		if err != nil {
			return sum, err
		}
	}
	return sum, nil
}

func decodeEnvelopes(d *xdr3.Decoder, maxDepth uint) ([]TransactionEnvelope, int, error) {
	count, n, err := d.DecodeUint()
	if err != nil {
		return nil, n, err
	}
	sum := n
	txs := make([]TransactionEnvelope, count)
	for i := range txs {
		n, err = txs[i].DecodeFrom(d, maxDepth)
		sum += n
		if err != nil {
			return nil, sum, err
		}
	}
	return txs, sum, nil
}

// TransactionSet is the pre-protocol-19 flat transaction set shape.
type TransactionSet struct {
	PreviousLedgerHash Hash
	Txs                []TransactionEnvelope
}

func (t TransactionSet) EncodeTo(e *xdr3.Encoder) (int, error) {
	var sum int
	n, err := t.PreviousLedgerHash.EncodeTo(e)
	sum += n
	if err != nil {
		return sum, err
	}
	n, err = encodeEnvelopes(e, t.Txs)
	sum += n
	return sum, err
}

func (t *TransactionSet) DecodeFrom(d *xdr3.Decoder, maxDepth uint) (int, error) {
	if maxDepth == 0 {
		return 0, errMaxDecodingDepthReached
	}
	maxDepth--

	var sum int
	n, err := t.PreviousLedgerHash.DecodeFrom(d, maxDepth)
	sum += n
	if err != nil {
		return sum, err
	}
	txs, n, err := decodeEnvelopes(d, maxDepth)
	sum += n
	t.Txs = txs
	return sum, err
}

// TxSetComponentTxsMaybeDiscountedFee is the only TxSetComponent arm this
// module models; BaseFee is nil when the component's transactions pay their
// own declared fee.
type TxSetComponentTxsMaybeDiscountedFee struct {
	BaseFee *int64
	Txs     []TransactionEnvelope
}

func (c TxSetComponentTxsMaybeDiscountedFee) EncodeTo(e *xdr3.Encoder) (int, error) {
	var sum int
	hasFee := c.BaseFee != nil
	n, err := e.EncodeBool(hasFee)
	sum += n
	if err != nil {
		return sum, err
	}
	if hasFee {
		n, err = e.EncodeHyper(*c.BaseFee)
		sum += n
		if err != nil {
			return sum, err
		}
	}
	n, err = encodeEnvelopes(e, c.Txs)
	sum += n
	return sum, err
}

func (c *TxSetComponentTxsMaybeDiscountedFee) DecodeFrom(d *xdr3.Decoder, maxDepth uint) (int, error) {
	var sum int
	hasFee, n, err := d.DecodeBool()
	sum += n
	if err != nil {
		return sum, err
	}
	if hasFee {
		fee, n, err := d.DecodeHyper()
		sum += n
		if err != nil {
			return sum, err
		}
		c.BaseFee = &fee
	}
	txs, n, err := decodeEnvelopes(d, maxDepth)
	sum += n
	c.Txs = txs
	return sum, err
}

// TxSetComponent is a discriminated union; TXSET_COMP_TXS_MAYBE_DISCOUNTED_FEE
// (0) is its only defined arm.
type TxSetComponent struct {
	Type int32
	V0   *TxSetComponentTxsMaybeDiscountedFee
}

func (c TxSetComponent) EncodeTo(e *xdr3.Encoder) (int, error) {
	var sum int
	n, err := e.EncodeInt(c.Type)
	sum += n
	if err != nil {
		return sum, err
	}
	if c.V0 != nil {
		n, err = c.V0.EncodeTo(e)
		sum += n
	}
	return sum, err
}

func (c *TxSetComponent) DecodeFrom(d *xdr3.Decoder, maxDepth uint) (int, error) {
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
	c.Type = v
	switch v {
	case 0:
		c.V0 = new(TxSetComponentTxsMaybeDiscountedFee)
		n, err = c.V0.DecodeFrom(d, maxDepth)
		sum += n
	default:
		return sum, fmt.Errorf("xdr: unknown TxSetComponent arm %d", v)
	}
	return sum, err
}

// ThreadExecutionStage is a parallel-phase execution thread: an ordered
// sequence of transactions assigned to that thread.
type ThreadExecutionStage struct {
	Txs []TransactionEnvelope
}

// ExecutionStage groups the threads that ran concurrently within one stage
// of a parallel-phase (protocol 23+) transaction set.
type ExecutionStage struct {
	Threads []ThreadExecutionStage
}

func encodeExecutionStages(e *xdr3.Encoder, stages []ExecutionStage) (int, error) {
	var sum int
	n, err := e.EncodeUint(uint32(len(stages)))
	sum += n
	if err != nil {
		return sum, err
	}
	for _, stage := range stages {
		n, err = e.EncodeUint(uint32(len(stage.Threads)))
		sum += n
		if err != nil {
			return sum, err
		}
		for _, thread := range stage.Threads {
			n, err = encodeEnvelopes(e, thread.Txs)
			sum += n
			if err != nil {
				return sum, err
			}
		}
	}
	return sum, nil
}

func decodeExecutionStages(d *xdr3.Decoder, maxDepth uint) ([]ExecutionStage, int, error) {
	stageCount, n, err := d.DecodeUint()
	if err != nil {
		return nil, n, err
	}
	sum := n
	stages := make([]ExecutionStage, stageCount)
	for i := range stages {
		threadCount, n, err := d.DecodeUint()
		sum += n
		if err != nil {
			return nil, sum, err
		}
		threads := make([]ThreadExecutionStage, threadCount)
		for j := range threads {
			txs, n, err := decodeEnvelopes(d, maxDepth)
			sum += n
			if err != nil {
				return nil, sum, err
			}
			threads[j].Txs = txs
		}
		stages[i].Threads = threads
	}
	return stages, sum, nil
}

// TransactionPhase is a discriminated union: arm 0 is the classic flat
// component list, arm 1 is the parallel execution-stage list introduced for
// Soroban's parallel apply phase.
type TransactionPhase struct {
	Type int32
	V0   *[]TxSetComponent
	V1   *[]ExecutionStage
}

func (p TransactionPhase) EncodeTo(e *xdr3.Encoder) (int, error) {
	var sum int
	n, err := e.EncodeInt(p.Type)
	sum += n
	if err != nil {
		return sum, err
	}
	switch p.Type {
	case 0:
		n, err = e.EncodeUint(uint32(len(*p.V0)))
		sum += n
		if err != nil {
			return sum, err
		}
		for _, c := range *p.V0 {
			n, err = c.EncodeTo(e)
			sum += n
			if err != nil {
				return sum, err
			}
		}
	case 1:
		n, err = encodeExecutionStages(e, *p.V1)
		sum += n
	}
	return sum, err
}

func (p *TransactionPhase) DecodeFrom(d *xdr3.Decoder, maxDepth uint) (int, error) {
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
	p.Type = v
	switch v {
	case 0:
		count, n, err := d.DecodeUint()
		sum += n
		if err != nil {
			return sum, err
		}
		components := make([]TxSetComponent, count)
		for i := range components {
			n, err = components[i].DecodeFrom(d, maxDepth)
			sum += n
			if err != nil {
				return sum, err
			}
		}
		p.V0 = &components
	case 1:
		stages, n, err := decodeExecutionStages(d, maxDepth)
		sum += n
		if err != nil {
			return sum, err
		}
		p.V1 = &stages
	default:
		return sum, fmt.Errorf("xdr: unknown TransactionPhase arm %d", v)
	}
	return sum, nil
}

// TransactionSetV1 is the generalized transaction set body: an ordered list
// of phases (classic, then Soroban).
type TransactionSetV1 struct {
	PreviousLedgerHash Hash
	Phases             []TransactionPhase
}

func (t TransactionSetV1) EncodeTo(e *xdr3.Encoder) (int, error) {
	var sum int
	n, err := t.PreviousLedgerHash.EncodeTo(e)
	sum += n
	if err != nil {
		return sum, err
	}
	n, err = e.EncodeUint(uint32(len(t.Phases)))
	sum += n
	if err != nil {
		return sum, err
	}
	for i := range t.Phases {
		n, err = t.Phases[i].EncodeTo(e)
		sum += n
		if err != nil {
			return sum, err
		}
	}
	return sum, nil
}

func (t *TransactionSetV1) DecodeFrom(d *xdr3.Decoder, maxDepth uint) (int, error) {
	if maxDepth == 0 {
		return 0, errMaxDecodingDepthReached
	}
	maxDepth--

	var sum int
	n, err := t.PreviousLedgerHash.DecodeFrom(d, maxDepth)
	sum += n
	if err != nil {
		return sum, err
	}
	count, n, err := d.DecodeUint()
	sum += n
	if err != nil {
		return sum, err
	}
	phases := make([]TransactionPhase, count)
	for i := range phases {
		n, err = phases[i].DecodeFrom(d, maxDepth)
		sum += n
		if err != nil {
			return sum, err
		}
	}
	t.Phases = phases
	return sum, nil
}

// GeneralizedTransactionSet is a discriminated union; V1 is its only defined
// arm in the protocols this module targets.
type GeneralizedTransactionSet struct {
	Type int32
	V1   *TransactionSetV1
}

func (g GeneralizedTransactionSet) EncodeTo(e *xdr3.Encoder) (int, error) {
	var sum int
	n, err := e.EncodeInt(g.Type)
	sum += n
	if err != nil {
		return sum, err
	}
	if g.V1 != nil {
		n, err = g.V1.EncodeTo(e)
		sum += n
	}
	return sum, err
}

func (g *GeneralizedTransactionSet) DecodeFrom(d *xdr3.Decoder, maxDepth uint) (int, error) {
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
	g.Type = v
	switch v {
	case 1:
		g.V1 = new(TransactionSetV1)
		n, err = g.V1.DecodeFrom(d, maxDepth)
		sum += n
	default:
		return sum, fmt.Errorf("xdr: unknown GeneralizedTransactionSet arm %d", v)
	}
	return sum, err
}

// TransactionResultPair is kept opaque beyond the transaction hash: this
// module does not need to interpret success/failure codes or the result's
// inner operation results.
type TransactionResultPair struct {
	TransactionHash Hash
	Result          opaque
}

func (p TransactionResultPair) EncodeTo(e *xdr3.Encoder) (int, error) {
	var sum int
	n, err := p.TransactionHash.EncodeTo(e)
	sum += n
	if err != nil {
		return sum, err
	}
	n, err = p.Result.EncodeTo(e)
	sum += n
	return sum, err
}

func (p *TransactionResultPair) DecodeFrom(d *xdr3.Decoder, maxDepth uint) (int, error) {
	var sum int
	n, err := p.TransactionHash.DecodeFrom(d, maxDepth)
	sum += n
	if err != nil {
		return sum, err
	}
	n, err = p.Result.DecodeFrom(d, maxDepth)
	sum += n
	return sum, err
}

// SorobanTransactionMeta carries the contract events this module's
// accessor surface exposes; the return value and diagnostic events are kept
// opaque.
type SorobanTransactionMeta struct {
	Ext             ExtensionPoint
	Events          []ContractEvent
	ReturnValue     opaque
	DiagnosticEvent opaque
}

func (s SorobanTransactionMeta) EncodeTo(e *xdr3.Encoder) (int, error) {
	var sum int
	n, err := s.Ext.EncodeTo(e)
	sum += n
	if err != nil {
		return sum, err
	}
	n, err = e.EncodeUint(uint32(len(s.Events)))
	sum += n
	if err != nil {
		return sum, err
	}
	for i := range s.Events {
		n, err = s.Events[i].EncodeTo(e)
		sum += n
		if err != nil {
			return sum, err
		}
	}
	n, err = s.ReturnValue.EncodeTo(e)
	sum += n
	if err != nil {
		return sum, err
	}
	n, err = s.DiagnosticEvent.EncodeTo(e)
	sum += n
	return sum, err
}

func (s *SorobanTransactionMeta) DecodeFrom(d *xdr3.Decoder, maxDepth uint) (int, error) {
	if maxDepth == 0 {
		return 0, errMaxDecodingDepthReached
	}
	maxDepth--

	var sum int
	n, err := s.Ext.DecodeFrom(d, maxDepth)
	sum += n
	if err != nil {
		return sum, err
	}
	count, n, err := d.DecodeUint()
	sum += n
	if err != nil {
		return sum, err
	}
	events := make([]ContractEvent, count)
	for i := range events {
		n, err = events[i].DecodeFrom(d, maxDepth)
		sum += n
		if err != nil {
			return sum, err
		}
	}
	s.Events = events
	n, err = s.ReturnValue.DecodeFrom(d, maxDepth)
	sum += n
	if err != nil {
		return sum, err
	}
	n, err = s.DiagnosticEvent.DecodeFrom(d, maxDepth)
	sum += n
	return sum, err
}

// TransactionMetaV3 is the apply-time meta body for protocol 20+; only the
// Soroban meta is structured, the classic change sets are kept opaque.
type TransactionMetaV3 struct {
	Ext             ExtensionPoint
	TxChangesBefore opaque
	Operations      opaque
	TxChangesAfter  opaque
	SorobanMeta     *SorobanTransactionMeta
}

func (m TransactionMetaV3) EncodeTo(e *xdr3.Encoder) (int, error) {
	var sum int
	n, err := m.Ext.EncodeTo(e)
	sum += n
	if err != nil {
		return sum, err
	}
	n, err = m.TxChangesBefore.EncodeTo(e)
	sum += n
	if err != nil {
		return sum, err
	}
	n, err = m.Operations.EncodeTo(e)
	sum += n
	if err != nil {
		return sum, err
	}
	n, err = m.TxChangesAfter.EncodeTo(e)
	sum += n
	if err != nil {
		return sum, err
	}
	hasSoroban := m.SorobanMeta != nil
	n, err = e.EncodeBool(hasSoroban)
	sum += n
	if err != nil {
		return sum, err
	}
	if hasSoroban {
		n, err = m.SorobanMeta.EncodeTo(e)
		sum += n
	}
	return sum, err
}

func (m *TransactionMetaV3) DecodeFrom(d *xdr3.Decoder, maxDepth uint) (int, error) {
	if maxDepth == 0 {
		return 0, errMaxDecodingDepthReached
	}
	maxDepth--

	var sum int
	for _, dec := range []func() (int, error){
		func() (int, error) { return m.Ext.DecodeFrom(d, maxDepth) },
		func() (int, error) { return m.TxChangesBefore.DecodeFrom(d, maxDepth) },
		func() (int, error) { return m.Operations.DecodeFrom(d, maxDepth) },
		func() (int, error) { return m.TxChangesAfter.DecodeFrom(d, maxDepth) },
	} {
		n, err := dec()
		sum += n
		if err != nil {
			return sum, err
		}
	}
	hasSoroban, n, err := d.DecodeBool()
	sum += n
	if err != nil {
		return sum, err
	}
	if hasSoroban {
		m.SorobanMeta = new(SorobanTransactionMeta)
		n, err = m.SorobanMeta.DecodeFrom(d, maxDepth)
		sum += n
	}
	return sum, err
}

// TransactionMeta is a discriminated union over the tx-apply-meta versions.
// Only V3 is modeled structurally (it is where Soroban events live); V0-V2
// are kept as opaque payload, matching the original reader's exhaustive but
// no-op match arms for those variants.
type TransactionMeta struct {
	Type int32
	V0   opaque
	V1   opaque
	V2   opaque
	V3   *TransactionMetaV3
}

func (m TransactionMeta) EncodeTo(e *xdr3.Encoder) (int, error) {
	var sum int
	n, err := e.EncodeInt(m.Type)
	sum += n
	if err != nil {
		return sum, err
	}
	switch m.Type {
	case 0:
		n, err = m.V0.EncodeTo(e)
	case 1:
		n, err = m.V1.EncodeTo(e)
	case 2:
		n, err = m.V2.EncodeTo(e)
	case 3:
		n, err = m.V3.EncodeTo(e)
	default:
		return sum, fmt.Errorf("xdr: unknown TransactionMeta arm %d", m.Type)
	}
	sum += n
	return sum, err
}

func (m *TransactionMeta) DecodeFrom(d *xdr3.Decoder, maxDepth uint) (int, error) {
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
	m.Type = v
	switch v {
	case 0:
		n, err = m.V0.DecodeFrom(d, maxDepth)
	case 1:
		n, err = m.V1.DecodeFrom(d, maxDepth)
	case 2:
		n, err = m.V2.DecodeFrom(d, maxDepth)
	case 3:
		m.V3 = new(TransactionMetaV3)
		n, err = m.V3.DecodeFrom(d, maxDepth)
	default:
		return sum, fmt.Errorf("xdr: unknown TransactionMeta arm %d", v)
	}
	sum += n
	return sum, err
}

// TransactionResultMeta is one entry of a ledger close meta's tx_processing
// list: the transaction's result paired with its apply-time meta.
// FeeProcessing is kept opaque.
type TransactionResultMeta struct {
	Result            TransactionResultPair
	FeeProcessing     opaque
	TxApplyProcessing TransactionMeta
}

func (m TransactionResultMeta) EncodeTo(e *xdr3.Encoder) (int, error) {
	var sum int
	n, err := m.Result.EncodeTo(e)
	sum += n
	if err != nil {
		return sum, err
	}
	n, err = m.FeeProcessing.EncodeTo(e)
	sum += n
	if err != nil {
		return sum, err
	}
	n, err = m.TxApplyProcessing.EncodeTo(e)
	sum += n
	return sum, err
}

func (m *TransactionResultMeta) DecodeFrom(d *xdr3.Decoder, maxDepth uint) (int, error) {
	if maxDepth == 0 {
		return 0, errMaxDecodingDepthReached
	}
	maxDepth--

	var sum int
	n, err := m.Result.DecodeFrom(d, maxDepth)
	sum += n
	if err != nil {
		return sum, err
	}
	n, err = m.FeeProcessing.DecodeFrom(d, maxDepth)
	sum += n
	if err != nil {
		return sum, err
	}
	n, err = m.TxApplyProcessing.DecodeFrom(d, maxDepth)
	sum += n
	return sum, err
}
