// Package xdr contains the hand-written wire types this module decodes from
// a stellar-core metadata pipe. It intentionally does not attempt full
// fidelity with the real network XDR grammar: per this module's scope, the
// schema and content of ledger-close-meta records is treated as an opaque
// framed unit plus the handful of well-known accessor fields callers need
// (sequence number, header hash, transaction lists, contract events).
// Sub-structures that are not part of that accessor surface are decoded only
// as far as their discriminant and kept as opaque payload.
package xdr

import (
	"fmt"

	"github.com/stellar/go-xdr/xdr3"
)

// maxDecodingDepth bounds recursive union decoding against malformed input,
// mirroring the depth guard threaded through every DecodeFrom method in the
// real stellar/go generated xdr package.
const maxDecodingDepth = 50

// maxOpaqueSize bounds a single variable-length opaque field read from an
// untrusted pipe.
const maxOpaqueSize = 64 << 20

var errMaxDecodingDepthReached = fmt.Errorf("xdr: maximum decoding depth reached")

// Hash is a 32-byte fixed opaque, e.g. a ledger or transaction hash.
type Hash [32]byte

func (h Hash) EncodeTo(e *xdr3.Encoder) (int, error) {
	return e.EncodeFixedOpaque(h[:])
}

func (h *Hash) DecodeFrom(d *xdr3.Decoder, maxDepth uint) (int, error) {
	b, n, err := d.DecodeFixedOpaque(int32(len(h)))
	if err != nil {
		return n, err
	}
	copy(h[:], b)
	return n, nil
}

// Uint32 is the standard fixed-width unsigned integer used throughout the
// wire format (ledger sequence, protocol version, and so on).
type Uint32 uint32

func (u Uint32) EncodeTo(e *xdr3.Encoder) (int, error) {
	return e.EncodeUint(uint32(u))
}

func (u *Uint32) DecodeFrom(d *xdr3.Decoder, maxDepth uint) (int, error) {
	v, n, err := d.DecodeUint()
	*u = Uint32(v)
	return n, err
}

// ExtensionPoint is the conventional trailing extension slot used by almost
// every struct in the real network XDR: V == 0 means "no extension data."
// This module only ever produces/consumes V == 0.
type ExtensionPoint struct {
	V int32
}

func (e ExtensionPoint) EncodeTo(enc *xdr3.Encoder) (int, error) {
	return enc.EncodeInt(e.V)
}

func (e *ExtensionPoint) DecodeFrom(d *xdr3.Decoder, maxDepth uint) (int, error) {
	v, n, err := d.DecodeInt()
	e.V = v
	return n, err
}

// opaque is a variable-length, length-prefixed byte blob used for
// sub-structures this module does not need to interpret further.
type opaque []byte

func (o opaque) EncodeTo(e *xdr3.Encoder) (int, error) {
	return e.EncodeOpaque(o)
}

func (o *opaque) DecodeFrom(d *xdr3.Decoder, maxDepth uint) (int, error) {
	b, n, err := d.DecodeOpaque(maxOpaqueSize)
	*o = opaque(b)
	return n, err
}
