package sui

import (
	"context"

	"github.com/block-vision/sui-go-sdk/models"
	sui_sdk "github.com/block-vision/sui-go-sdk/sui"
)

const suiCoinType = "0x2::sui::SUI"

// Client is the node access the wallet needs.
type Client interface {
	Balance(ctx context.Context, owner string) (string, error)
	// Execute submits a signed transaction and returns its digest.
	Execute(ctx context.Context, signed SignedTransaction) (string, error)
}

// NewRPCClient returns a Client for the JSON-RPC endpoint at url.
func NewRPCClient(url string) Client {
	return &rpcClient{api: sui_sdk.NewSuiClient(url)}
}

type rpcClient struct {
	api sui_sdk.ISuiAPI
}

func (c *rpcClient) Balance(ctx context.Context, owner string) (string, error) {
	resp, err := c.api.SuiXGetBalance(ctx, models.SuiXGetBalanceRequest{
		Owner:    owner,
		CoinType: suiCoinType,
	})
	if err != nil {
		return "", err
	}

	return resp.TotalBalance, nil
}

func (c *rpcClient) Execute(ctx context.Context, signed SignedTransaction) (string, error) {
	resp, err := c.api.SuiExecuteTransactionBlock(ctx, models.SuiExecuteTransactionBlockRequest{
		TxBytes:     signed.TxBytes,
		Signature:   []string{signed.Signature},
		RequestType: "WaitForLocalExecution",
	})
	if err != nil {
		return "", err
	}

	return resp.Digest, nil
}
