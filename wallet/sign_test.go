package wallet_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartcontractkit/chainlink-wallet-aggregator/wallet"
)

type fakeSigner struct {
	signErr error
	sendErr error
	sendID  string
	sent    []string
}

func (s *fakeSigner) SignTransaction(_ context.Context, tx string) (string, error) {
	if s.signErr != nil {
		return "", s.signErr
	}

	return "signed:" + tx, nil
}

func (s *fakeSigner) SendTransaction(_ context.Context, signed string) (wallet.SendTransactionResult, error) {
	if s.sendErr != nil {
		return wallet.SendTransactionResult{}, s.sendErr
	}
	s.sent = append(s.sent, signed)

	return wallet.SendTransactionResult{ID: s.sendID, Data: len(signed)}, nil
}

func (s *fakeSigner) SignAndSendTransaction(ctx context.Context, tx string) (wallet.SendTransactionResult, error) {
	return wallet.SignThenSend[string, string](ctx, s, tx)
}

func TestSignThenSend(t *testing.T) {
	t.Parallel()

	t.Run("signs then sends", func(t *testing.T) {
		t.Parallel()

		s := &fakeSigner{sendID: "0xabc"}
		res, err := s.SignAndSendTransaction(t.Context(), "tx")
		require.NoError(t, err)
		assert.Equal(t, "0xabc", res.ID)
		assert.Equal(t, len("signed:tx"), res.Data)
		assert.Equal(t, []string{"signed:tx"}, s.sent)
	})

	t.Run("rejected signature is not sent", func(t *testing.T) {
		t.Parallel()

		s := &fakeSigner{signErr: wallet.ErrUserRejected, sendID: "0xabc"}
		_, err := s.SignAndSendTransaction(t.Context(), "tx")
		require.ErrorIs(t, err, wallet.ErrUserRejected)
		assert.Empty(t, s.sent)
	})

	t.Run("send error propagates", func(t *testing.T) {
		t.Parallel()

		sendErr := errors.New("rpc down")
		s := &fakeSigner{sendErr: sendErr}
		_, err := s.SignAndSendTransaction(t.Context(), "tx")
		require.ErrorIs(t, err, sendErr)
		assert.ErrorContains(t, err, "send transaction")
	})

	t.Run("empty id", func(t *testing.T) {
		t.Parallel()

		s := &fakeSigner{}
		_, err := s.SignAndSendTransaction(t.Context(), "tx")
		require.ErrorIs(t, err, wallet.ErrEmptyTransactionID)
	})
}
