package cosmos

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

// Client is the LCD (REST gateway) access the wallet needs.
type Client interface {
	Balance(ctx context.Context, address, denom string) (string, error)
	// Broadcast submits protobuf encoded tx bytes and returns the transaction hash.
	Broadcast(ctx context.Context, txBytes []byte) (string, error)
}

// LCDClient talks to a Cosmos SDK REST gateway.
type LCDClient struct {
	client *resty.Client
}

var _ Client = (*LCDClient)(nil)

// NewLCDClient returns a client for the LCD at baseURL. Failed requests are retried retries
// times.
func NewLCDClient(baseURL string, retries int, timeout time.Duration) *LCDClient {
	return &LCDClient{
		client: resty.New().
			SetBaseURL(baseURL).
			SetTimeout(timeout).
			SetRetryCount(retries).
			SetHeader("Accept", "application/json"),
	}
}

type balanceResponse struct {
	Balance struct {
		Denom  string `json:"denom"`
		Amount string `json:"amount"`
	} `json:"balance"`
}

type lcdError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (c *LCDClient) Balance(ctx context.Context, address, denom string) (string, error) {
	var (
		out    balanceResponse
		errOut lcdError
	)
	resp, err := c.client.R().
		SetContext(ctx).
		SetPathParam("address", address).
		SetQueryParam("denom", denom).
		ForceContentType("application/json").
		SetResult(&out).
		SetError(&errOut).
		Get("/cosmos/bank/v1beta1/balances/{address}/by_denom")
	if err != nil {
		return "", fmt.Errorf("lcd balance request: %w", err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("lcd balance request: status %d: %s", resp.StatusCode(), errOut.Message)
	}
	if out.Balance.Amount == "" {
		return "", fmt.Errorf("lcd balance response for %s has no amount", address)
	}

	return out.Balance.Amount, nil
}

type broadcastRequest struct {
	TxBytes string `json:"tx_bytes"`
	Mode    string `json:"mode"`
}

type broadcastResponse struct {
	TxResponse struct {
		TxHash string `json:"txhash"`
		Code   uint32 `json:"code"`
		RawLog string `json:"raw_log"`
	} `json:"tx_response"`
}

func (c *LCDClient) Broadcast(ctx context.Context, txBytes []byte) (string, error) {
	var (
		out    broadcastResponse
		errOut lcdError
	)
	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(broadcastRequest{
			TxBytes: base64.StdEncoding.EncodeToString(txBytes),
			Mode:    "BROADCAST_MODE_SYNC",
		}).
		ForceContentType("application/json").
		SetResult(&out).
		SetError(&errOut).
		Post("/cosmos/tx/v1beta1/txs")
	if err != nil {
		return "", fmt.Errorf("lcd broadcast request: %w", err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("lcd broadcast request: status %d: %s", resp.StatusCode(), errOut.Message)
	}
	if out.TxResponse.Code != 0 {
		return "", fmt.Errorf("transaction %s rejected with code %d: %s",
			out.TxResponse.TxHash, out.TxResponse.Code, out.TxResponse.RawLog)
	}
	if out.TxResponse.TxHash == "" {
		return "", errors.New("lcd broadcast response has no txhash")
	}

	return out.TxResponse.TxHash, nil
}
