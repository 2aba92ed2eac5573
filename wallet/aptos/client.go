package aptos

import (
	"context"
	"fmt"

	aptoslib "github.com/aptos-labs/aptos-go-sdk"
)

// Client is the node access the wallet needs.
type Client interface {
	Balance(ctx context.Context, addr aptoslib.AccountAddress) (uint64, error)
	// Submit submits a signed transaction and returns its hash.
	Submit(ctx context.Context, signed *aptoslib.SignedTransaction) (string, error)
}

// NewRPCClient connects a Client to the node REST API at url. chainID is the network's numeric
// chain id (1 for mainnet).
func NewRPCClient(url string, chainID uint8) (Client, error) {
	c, err := aptoslib.NewNodeClient(url, chainID)
	if err != nil {
		return nil, fmt.Errorf("failed to create aptos node client: %w", err)
	}

	return FromRPCClient(c), nil
}

// FromRPCClient wraps an existing SDK client.
func FromRPCClient(c aptoslib.AptosRpcClient) Client {
	return &rpcClient{client: c}
}

type rpcClient struct {
	client aptoslib.AptosRpcClient
}

// Balance ignores ctx; the SDK client does not accept one.
func (c *rpcClient) Balance(_ context.Context, addr aptoslib.AccountAddress) (uint64, error) {
	return c.client.AccountAPTBalance(addr)
}

func (c *rpcClient) Submit(_ context.Context, signed *aptoslib.SignedTransaction) (string, error) {
	resp, err := c.client.SubmitTransaction(signed)
	if err != nil {
		return "", err
	}

	return resp.Hash, nil
}
