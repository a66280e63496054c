package xdr

import "github.com/stellar/go-xdr/xdr3"

// ContractEvent is the unit returned by the contract-events accessor.
// Topics and data are kept opaque (they are arbitrary ScVal trees); callers
// needing to inspect them decode the opaque payload themselves with a fuller
// ScVal codec, which is outside this module's scope.
type ContractEvent struct {
	Ext        ExtensionPoint
	ContractID *Hash
	Type       int32
	Body       opaque
}

func (c ContractEvent) EncodeTo(e *xdr3.Encoder) (int, error) {
	var sum int
	n, err := c.Ext.EncodeTo(e)
	sum += n
	if err != nil {
		return sum, err
	}

	hasContractID := c.ContractID != nil
	n, err = e.EncodeBool(hasContractID)
	sum += n
	if err != nil {
		return sum, err
	}
	if hasContractID {
		n, err = c.ContractID.EncodeTo(e)
		sum += n
		if err != nil {
			return sum, err
		}
	}

	n, err = e.EncodeInt(c.Type)
	sum += n
	if err != nil {
		return sum, err
	}

	n, err = c.Body.EncodeTo(e)
	sum += n
	return sum, err
}

func (c *ContractEvent) DecodeFrom(d *xdr3.Decoder, maxDepth uint) (int, error) {
	if maxDepth == 0 {
		return 0, errMaxDecodingDepthReached
	}
	maxDepth--

	var sum int
	n, err := c.Ext.DecodeFrom(d, maxDepth)
	sum += n
	if err != nil {
		return sum, err
	}

	hasContractID, n, err := d.DecodeBool()
	sum += n
	if err != nil {
		return sum, err
	}
	if hasContractID {
		c.ContractID = new(Hash)
		n, err = c.ContractID.DecodeFrom(d, maxDepth)
		sum += n
		if err != nil {
			return sum, err
		}
	}

	v, n, err := d.DecodeInt()
	sum += n
	if err != nil {
		return sum, err
	}
	c.Type = v

	n, err = c.Body.DecodeFrom(d, maxDepth)
	sum += n
	return sum, err
}
