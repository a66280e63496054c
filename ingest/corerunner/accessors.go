package corerunner

import (
	"fmt"

	"github.com/xycloo/go-ingest/xdr"
)

// readMeta unwraps a MetaResult's record, or reports the error it carries
// instead. Every accessor in this file goes through it first.
func readMeta(result MetaResult) (*xdr.LedgerCloseMeta, error) {
	if result.Meta != nil {
		return result.Meta, nil
	}
	if result.Err != nil {
		return nil, fmt.Errorf("corerunner: MetaResult carries no record: %w", result.Err)
	}
	return nil, fmt.Errorf("corerunner: MetaResult carries neither a record nor an error")
}

// LedgerSequence returns the ledger sequence number of a record, normalizing
// across the V0/V1 ledger-close-meta arms.
func LedgerSequence(result MetaResult) (uint32, error) {
	meta, err := readMeta(result)
	if err != nil {
		return 0, err
	}
	switch meta.V {
	case 0:
		return uint32(meta.V0.LedgerHeader.Header.LedgerSeq), nil
	case 1:
		return uint32(meta.V1.LedgerHeader.Header.LedgerSeq), nil
	default:
		return 0, fmt.Errorf("corerunner: unknown LedgerCloseMeta arm %d", meta.V)
	}
}

// LedgerHash returns the hash of the ledger header itself, as stellar-core
// computed it over the header.
func LedgerHash(result MetaResult) (xdr.Hash, error) {
	meta, err := readMeta(result)
	if err != nil {
		return xdr.Hash{}, err
	}
	switch meta.V {
	case 0:
		return meta.V0.LedgerHeader.Hash, nil
	case 1:
		return meta.V1.LedgerHeader.Hash, nil
	default:
		return xdr.Hash{}, fmt.Errorf("corerunner: unknown LedgerCloseMeta arm %d", meta.V)
	}
}

// PreviousLedgerHash returns the hash of the ledger that precedes this one.
func PreviousLedgerHash(result MetaResult) (xdr.Hash, error) {
	meta, err := readMeta(result)
	if err != nil {
		return xdr.Hash{}, err
	}
	switch meta.V {
	case 0:
		return meta.V0.LedgerHeader.Header.PreviousLedgerHash, nil
	case 1:
		return meta.V1.LedgerHeader.Header.PreviousLedgerHash, nil
	default:
		return xdr.Hash{}, fmt.Errorf("corerunner: unknown LedgerCloseMeta arm %d", meta.V)
	}
}

// ProtocolVersion returns the protocol version this ledger closed under.
func ProtocolVersion(result MetaResult) (uint32, error) {
	meta, err := readMeta(result)
	if err != nil {
		return 0, err
	}
	switch meta.V {
	case 0:
		return uint32(meta.V0.LedgerHeader.Header.LedgerVersion), nil
	case 1:
		return uint32(meta.V1.LedgerHeader.Header.LedgerVersion), nil
	default:
		return 0, fmt.Errorf("corerunner: unknown LedgerCloseMeta arm %d", meta.V)
	}
}

// BucketListHash returns the hash of the bucket list as of this ledger.
func BucketListHash(result MetaResult) (xdr.Hash, error) {
	meta, err := readMeta(result)
	if err != nil {
		return xdr.Hash{}, err
	}
	switch meta.V {
	case 0:
		return meta.V0.LedgerHeader.Header.BucketListHash, nil
	case 1:
		return meta.V1.LedgerHeader.Header.BucketListHash, nil
	default:
		return xdr.Hash{}, fmt.Errorf("corerunner: unknown LedgerCloseMeta arm %d", meta.V)
	}
}

// CountTransactions returns how many transactions this ledger applied.
func CountTransactions(result MetaResult) (int, error) {
	meta, err := readMeta(result)
	if err != nil {
		return 0, err
	}
	switch meta.V {
	case 0:
		return len(meta.V0.TxProcessing), nil
	case 1:
		return len(meta.V1.TxProcessing), nil
	default:
		return 0, fmt.Errorf("corerunner: unknown LedgerCloseMeta arm %d", meta.V)
	}
}

// TransactionEnvelopes flattens a ledger's transaction envelopes in
// execution order. V0's flat TransactionSet.Txs needs no further work; V1's
// GeneralizedTransactionSet nests them inside phases, which in turn nest
// either TxSetComponent (classic phase) or ExecutionStage/thread (parallel
// Soroban phase, protocol 23+) - both are walked and concatenated here.
func TransactionEnvelopes(result MetaResult) ([]xdr.TransactionEnvelope, error) {
	meta, err := readMeta(result)
	if err != nil {
		return nil, err
	}

	switch meta.V {
	case 0:
		return meta.V0.TxSet.Txs, nil
	case 1:
		txSet := meta.V1.TxSet
		if txSet.V1 == nil {
			return nil, fmt.Errorf("corerunner: GeneralizedTransactionSet arm %d has no V1 payload", txSet.Type)
		}

		var envelopes []xdr.TransactionEnvelope
		for _, phase := range txSet.V1.Phases {
			switch phase.Type {
			case 0:
				if phase.V0 == nil {
					continue
				}
				for _, component := range *phase.V0 {
					if component.V0 == nil {
						continue
					}
					envelopes = append(envelopes, component.V0.Txs...)
				}
			case 1:
				if phase.V1 == nil {
					continue
				}
				for _, stage := range *phase.V1 {
					for _, thread := range stage.Threads {
						envelopes = append(envelopes, thread.Txs...)
					}
				}
			default:
				return nil, fmt.Errorf("corerunner: unknown TransactionPhase arm %d", phase.Type)
			}
		}
		return envelopes, nil
	default:
		return nil, fmt.Errorf("corerunner: unknown LedgerCloseMeta arm %d", meta.V)
	}
}

// TransactionResultMetas returns the per-transaction result/meta triples a
// ledger produced, in application order.
func TransactionResultMetas(result MetaResult) ([]xdr.TransactionResultMeta, error) {
	meta, err := readMeta(result)
	if err != nil {
		return nil, err
	}
	switch meta.V {
	case 0:
		return meta.V0.TxProcessing, nil
	case 1:
		return meta.V1.TxProcessing, nil
	default:
		return nil, fmt.Errorf("corerunner: unknown LedgerCloseMeta arm %d", meta.V)
	}
}

// SorobanTransactionMetas filters a ledger's TransactionResultMetas down to
// the Soroban-carrying ones: only TransactionMeta's V3 arm ever holds one,
// and even then only when the transaction actually invoked a contract.
func SorobanTransactionMetas(result MetaResult) ([]xdr.SorobanTransactionMeta, error) {
	metas, err := TransactionResultMetas(result)
	if err != nil {
		return nil, err
	}

	var sorobanMetas []xdr.SorobanTransactionMeta
	for _, m := range metas {
		if m.TxApplyProcessing.Type != 3 {
			continue
		}
		if m.TxApplyProcessing.V3 == nil || m.TxApplyProcessing.V3.SorobanMeta == nil {
			continue
		}
		sorobanMetas = append(sorobanMetas, *m.TxApplyProcessing.V3.SorobanMeta)
	}
	return sorobanMetas, nil
}

// ContractEvents flattens every contract event emitted across a ledger's
// Soroban transactions, in the order their transactions applied.
func ContractEvents(result MetaResult) ([]xdr.ContractEvent, error) {
	sorobanMetas, err := SorobanTransactionMetas(result)
	if err != nil {
		return nil, err
	}

	var events []xdr.ContractEvent
	for _, m := range sorobanMetas {
		events = append(events, m.Events...)
	}
	return events, nil
}
