package evm

import (
	"context"
	"fmt"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/ethereum/go-ethereum/ethclient"

	"github.com/smartcontractkit/chainlink-wallet-aggregator/chain"
)

// RPCDialer returns a Dialer that connects to the configured RPC url of each chain, retrying
// failed dials with a fixed delay.
func RPCDialer(urls map[chain.ID]string, attempts uint, delay time.Duration) Dialer {
	return func(ctx context.Context, id chain.ID) (Client, error) {
		url, ok := urls[id]
		if !ok {
			return nil, fmt.Errorf("no rpc url configured for %s", id)
		}

		return retry.DoWithData(func() (Client, error) {
			c, err := ethclient.DialContext(ctx, url)
			if err != nil {
				return nil, err
			}

			return c, nil
		},
			retry.Context(ctx),
			retry.Attempts(attempts),
			retry.Delay(delay),
			retry.DelayType(retry.FixedDelay),
		)
	}
}
