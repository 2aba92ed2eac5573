package cosmos

import (
	"google.golang.org/protobuf/encoding/protowire"
)

// SignDoc is cosmos.tx.v1beta1.SignDoc. BodyBytes and AuthInfoBytes are the already encoded
// TxBody and AuthInfo built by the chain's SDK.
type SignDoc struct {
	BodyBytes     []byte
	AuthInfoBytes []byte
	ChainID       string
	AccountNumber uint64
}

// Bytes returns the protobuf encoding of the sign doc, which is what gets signed.
func (d SignDoc) Bytes() []byte {
	var b []byte
	b = appendBytesField(b, 1, d.BodyBytes)
	b = appendBytesField(b, 2, d.AuthInfoBytes)
	if d.ChainID != "" {
		b = protowire.AppendTag(b, 3, protowire.BytesType)
		b = protowire.AppendString(b, d.ChainID)
	}
	if d.AccountNumber != 0 {
		b = protowire.AppendTag(b, 4, protowire.VarintType)
		b = protowire.AppendVarint(b, d.AccountNumber)
	}

	return b
}

// TxRaw is cosmos.tx.v1beta1.TxRaw, the broadcastable form of a signed transaction.
type TxRaw struct {
	BodyBytes     []byte
	AuthInfoBytes []byte
	Signatures    [][]byte
}

// Bytes returns the protobuf encoding of the transaction.
func (t TxRaw) Bytes() []byte {
	var b []byte
	b = appendBytesField(b, 1, t.BodyBytes)
	b = appendBytesField(b, 2, t.AuthInfoBytes)
	for _, sig := range t.Signatures {
		b = protowire.AppendTag(b, 3, protowire.BytesType)
		b = protowire.AppendBytes(b, sig)
	}

	return b
}

// proto3 omits empty scalar fields.
func appendBytesField(b []byte, num protowire.Number, v []byte) []byte {
	if len(v) == 0 {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.BytesType)

	return protowire.AppendBytes(b, v)
}
