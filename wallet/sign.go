package wallet

import (
	"context"
	"errors"
	"fmt"
)

// ErrEmptyTransactionID is returned when a send reports success without a transaction id.
var ErrEmptyTransactionID = errors.New("send returned empty transaction id")

// SignThenSend is the default SignAndSendTransaction: sign tx, then send the result. Adapters
// whose provider has a native combined call may use that instead.
func SignThenSend[Tx, SignedTx any](ctx context.Context, s Signer[Tx, SignedTx], tx Tx) (SendTransactionResult, error) {
	signed, err := s.SignTransaction(ctx, tx)
	if err != nil {
		return SendTransactionResult{}, fmt.Errorf("sign transaction: %w", err)
	}

	res, err := s.SendTransaction(ctx, signed)
	if err != nil {
		return SendTransactionResult{}, fmt.Errorf("send transaction: %w", err)
	}
	if res.ID == "" {
		return SendTransactionResult{}, ErrEmptyTransactionID
	}

	return res, nil
}
