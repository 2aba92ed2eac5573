package wallet_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartcontractkit/chainlink-wallet-aggregator/chain"
	"github.com/smartcontractkit/chainlink-wallet-aggregator/wallet"
	"github.com/smartcontractkit/chainlink-wallet-aggregator/wallet/wallettest"
)

const (
	addrA      = wallet.Address("0x5aaeb6053f3e94c9b9a09f33669435e7ef1beaed")
	addrAChk   = wallet.Address("0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed")
	addrB      = wallet.Address("0xfb6916095ca1df60bb79ce92ce3ea74c37c5d359")
	addrBChk   = wallet.Address("0xfB6916095ca1df60bB79Ce92cE3Ea74c37c5d359")
	addrUnseen = wallet.Address("0xdbf03b407c01e7cd3cbea99509d93f8dddc8c6fb")
)

func recordEvents(w wallet.Wallet) (*[]wallet.Event, func()) {
	var (
		mu     sync.Mutex
		events []wallet.Event
	)
	unsub := w.Subscribe(func(ev wallet.Event) {
		mu.Lock()
		defer mu.Unlock()
		events = append(events, ev)
	})

	return &events, unsub
}

func TestBase_InertUntilConnect(t *testing.T) {
	t.Parallel()

	w := wallettest.New(chain.Ethereum, "fake", addrA)

	assert.NotEmpty(t, w.ID())
	assert.Equal(t, "fake", w.Name())
	assert.Equal(t, "https://fake.example", w.URL())
	assert.Equal(t, chain.Ethereum, w.ChainID())
	assert.Equal(t, wallet.Installed, w.State())
	assert.False(t, w.IsConnected())
	assert.Empty(t, w.Addresses())
	assert.Equal(t, 0, w.Handshakes())

	_, ok := w.Address()
	assert.False(t, ok)

	_, err := w.Balance(t.Context())
	require.ErrorIs(t, err, wallet.ErrNotConnected)
}

func TestBase_IDsAreUniquePerInstance(t *testing.T) {
	t.Parallel()

	w1 := wallettest.New(chain.Ethereum, "same", addrA)
	w2 := wallettest.New(chain.Ethereum, "same", addrA)

	assert.Equal(t, w1.Name(), w2.Name())
	assert.NotEqual(t, w1.ID(), w2.ID())
}

func TestBase_ConnectDisconnectLifecycle(t *testing.T) {
	t.Parallel()

	w := wallettest.New(chain.Ethereum, "fake", addrA, addrB, addrA)
	events, _ := recordEvents(w)

	addrs, err := w.Connect(t.Context())
	require.NoError(t, err)
	assert.Equal(t, []wallet.Address{addrAChk, addrBChk}, addrs, "normalized and de-duplicated")
	assert.True(t, w.IsConnected())

	main, ok := w.Address()
	require.True(t, ok)
	assert.Equal(t, addrAChk, main)

	again, err := w.Connect(t.Context())
	require.NoError(t, err)
	assert.Equal(t, addrs, again)
	assert.Equal(t, 1, w.Handshakes(), "connect while connected must not re-handshake")

	bal, err := w.Balance(t.Context())
	require.NoError(t, err)
	assert.Equal(t, "0", bal)

	require.NoError(t, w.Disconnect(t.Context()))
	assert.False(t, w.IsConnected())
	assert.Empty(t, w.Addresses())

	require.NoError(t, w.Disconnect(t.Context()), "disconnect when disconnected is a no-op")

	_, err = w.Connect(t.Context())
	require.NoError(t, err, "reconnect after disconnect")
	assert.Equal(t, 2, w.Handshakes())

	require.Len(t, *events, 3)
	assert.Equal(t, wallet.EventConnect, (*events)[0].Kind)
	assert.Equal(t, []wallet.Address{addrAChk, addrBChk}, (*events)[0].Addresses)
	assert.Equal(t, w.ID(), (*events)[0].WalletID)
	assert.Equal(t, wallet.EventDisconnect, (*events)[1].Kind)
	assert.Empty(t, (*events)[1].Addresses)
	assert.Equal(t, wallet.EventConnect, (*events)[2].Kind)
}

func TestBase_ConnectFailures(t *testing.T) {
	t.Parallel()

	providerErr := errors.New("extension crashed")

	tests := []struct {
		name       string
		addrs      []wallet.Address
		connectErr error
		wantKind   wallet.Kind
		wantIs     error
	}{
		{
			name:       "user rejection keeps its kind",
			addrs:      []wallet.Address{addrA},
			connectErr: wallet.ErrUserRejected,
			wantKind:   wallet.KindUserRejected,
			wantIs:     wallet.ErrUserRejected,
		},
		{
			name:       "provider error is a connection failure",
			addrs:      []wallet.Address{addrA},
			connectErr: providerErr,
			wantKind:   wallet.KindConnectionFailed,
			wantIs:     providerErr,
		},
		{
			name:     "no addresses",
			wantKind: wallet.KindConnectionFailed,
			wantIs:   wallet.ErrConnectionFailed,
		},
		{
			name:     "malformed address",
			addrs:    []wallet.Address{"not-an-address"},
			wantKind: wallet.KindConnectionFailed,
			wantIs:   wallet.ErrConnectionFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			w := wallettest.New(chain.Ethereum, "fake", tt.addrs...)
			w.ConnectErr = tt.connectErr
			events, _ := recordEvents(w)

			addrs, err := w.Connect(t.Context())
			require.Error(t, err)
			require.ErrorIs(t, err, tt.wantIs)
			assert.Equal(t, tt.wantKind, wallet.KindOf(err))
			assert.True(t, wallet.IsRetryable(err))
			assert.Nil(t, addrs)
			assert.False(t, w.IsConnected())
			assert.Empty(t, *events)
		})
	}
}

func TestBase_ConcurrentConnectSharesHandshake(t *testing.T) {
	t.Parallel()

	w := wallettest.New(chain.Ethereum, "fake", addrA)
	w.Gate = make(chan struct{})
	w.Started = make(chan struct{}, 1)

	const callers = 5

	var wg sync.WaitGroup
	results := make([][]wallet.Address, callers)
	errs := make([]error, callers)

	wg.Add(1)
	go func() {
		defer wg.Done()
		results[0], errs[0] = w.Connect(t.Context())
	}()
	<-w.Started

	for i := 1; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i], errs[i] = w.Connect(t.Context())
		}()
	}
	close(w.Gate)
	wg.Wait()

	for i := range callers {
		require.NoError(t, errs[i])
		assert.Equal(t, []wallet.Address{addrAChk}, results[i])
	}
	assert.Equal(t, 1, w.Handshakes())
}

func TestBase_ConnectHonoursContext(t *testing.T) {
	t.Parallel()

	w := wallettest.New(chain.Ethereum, "fake", addrA)
	w.Gate = make(chan struct{})

	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	_, err := w.Connect(ctx)
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, wallet.KindConnectionFailed, wallet.KindOf(err))
	assert.False(t, w.IsConnected())
}

func TestBase_SetMainAddress(t *testing.T) {
	t.Parallel()

	w := wallettest.New(chain.Ethereum, "fake", addrA, addrB)
	_, err := w.Connect(t.Context())
	require.NoError(t, err)

	events, _ := recordEvents(w)

	err = w.SetMainAddress(addrUnseen)
	require.ErrorIs(t, err, wallet.ErrUnknownAddress)
	assert.Equal(t, wallet.KindUnknownAddress, wallet.KindOf(err))
	assert.False(t, wallet.IsRetryable(err))

	require.ErrorIs(t, w.SetMainAddress("garbage"), wallet.ErrUnknownAddress)

	// lower-case input matches the stored checksummed form
	require.NoError(t, w.SetMainAddress(addrB))
	main, _ := w.Address()
	assert.Equal(t, addrBChk, main)

	require.NoError(t, w.SetMainAddress(addrBChk), "same address is a no-op")

	require.Len(t, *events, 1)
	assert.Equal(t, wallet.EventChanged, (*events)[0].Kind)
	assert.Equal(t, wallet.ChangeAccounts, (*events)[0].Change)
}

func TestBase_SetMainAddressBeforeConnect(t *testing.T) {
	t.Parallel()

	w := wallettest.New(chain.Ethereum, "fake", addrA)
	require.ErrorIs(t, w.SetMainAddress(addrA), wallet.ErrUnknownAddress)
}

func TestBase_SetAddresses(t *testing.T) {
	t.Parallel()

	w := wallettest.New(chain.Ethereum, "fake", addrA, addrB)
	require.ErrorIs(t, w.SetAddresses([]wallet.Address{addrA}), wallet.ErrNotConnected)

	_, err := w.Connect(t.Context())
	require.NoError(t, err)
	require.NoError(t, w.SetMainAddress(addrB))

	events, _ := recordEvents(w)

	require.NoError(t, w.SetAddresses([]wallet.Address{addrUnseen, addrB}))
	main, _ := w.Address()
	assert.Equal(t, addrBChk, main, "main address survives when still present")

	require.NoError(t, w.SetAddresses([]wallet.Address{addrA}))
	main, _ = w.Address()
	assert.Equal(t, addrAChk, main)

	require.NoError(t, w.SetAddresses(nil))
	assert.False(t, w.IsConnected())

	require.Len(t, *events, 3)
	assert.Equal(t, wallet.ChangeAccounts, (*events)[0].Change)
	assert.Equal(t, wallet.ChangeAccounts, (*events)[1].Change)
	assert.Equal(t, wallet.EventDisconnect, (*events)[2].Kind)
}

func TestFake_ChangeAccounts(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		give          []wallet.Address
		wantKind      wallet.EventKind
		wantAddresses []wallet.Address
		wantErr       string
	}{
		{
			name:          "new account list",
			give:          []wallet.Address{addrB},
			wantKind:      wallet.EventChanged,
			wantAddresses: []wallet.Address{addrBChk},
		},
		{
			name:     "session dropped",
			wantKind: wallet.EventDisconnect,
		},
		{
			name:    "invalid address",
			give:    []wallet.Address{"0x1234"},
			wantErr: "invalid EVM address format",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			w := wallettest.New(chain.Ethereum, "fake", addrA)
			_, err := w.Connect(t.Context())
			require.NoError(t, err)

			events, _ := recordEvents(w)

			err = w.ChangeAccounts(tt.give...)
			if tt.wantErr != "" {
				require.ErrorContains(t, err, tt.wantErr)
				assert.Empty(t, *events)
				assert.Equal(t, []wallet.Address{addrAChk}, w.Addresses(), "accounts are unchanged")

				return
			}
			require.NoError(t, err)

			require.Len(t, *events, 1)
			assert.Equal(t, tt.wantKind, (*events)[0].Kind)
			assert.Equal(t, tt.wantAddresses, (*events)[0].Addresses)
		})
	}
}

func TestBase_SwitchChain(t *testing.T) {
	t.Parallel()

	w := wallettest.New(chain.Ethereum, "fake", addrA)
	events, _ := recordEvents(w)

	require.NoError(t, w.Base.SwitchChain(chain.Ethereum))
	assert.Empty(t, *events)

	require.NoError(t, w.Base.SwitchChain(chain.BSC))
	assert.Equal(t, chain.BSC, w.ChainID())

	err := w.Base.SwitchChain(chain.ID(9999))
	require.ErrorIs(t, err, chain.ErrUnknownChain)
	assert.Equal(t, chain.BSC, w.ChainID())

	require.Len(t, *events, 1)
	assert.Equal(t, wallet.EventChanged, (*events)[0].Kind)
	assert.Equal(t, wallet.ChangeChain, (*events)[0].Change)
	assert.Equal(t, chain.BSC, (*events)[0].ChainID)
}

func TestBase_SubscribeOrderAndUnsubscribe(t *testing.T) {
	t.Parallel()

	w := wallettest.New(chain.Ethereum, "fake", addrA)

	var order []string
	unsubFirst := w.Subscribe(func(wallet.Event) { order = append(order, "first") })
	w.Subscribe(func(wallet.Event) { order = append(order, "second") })
	assert.NotNil(t, w.Subscribe(nil))

	_, err := w.Connect(t.Context())
	require.NoError(t, err)
	assert.Equal(t, []string{"first", "second"}, order)

	unsubFirst()
	unsubFirst()

	require.NoError(t, w.Disconnect(t.Context()))
	assert.Equal(t, []string{"first", "second", "second"}, order)
}

func TestBase_ListenerMaySubscribeDuringDelivery(t *testing.T) {
	t.Parallel()

	w := wallettest.New(chain.Ethereum, "fake", addrA)

	var late int
	w.Subscribe(func(wallet.Event) {
		w.Subscribe(func(wallet.Event) { late++ })
	})

	_, err := w.Connect(t.Context())
	require.NoError(t, err)
	assert.Equal(t, 0, late, "listener added during delivery misses the current event")

	require.NoError(t, w.Disconnect(t.Context()))
	assert.Equal(t, 1, late)
}

func TestBase_SetState(t *testing.T) {
	t.Parallel()

	w := wallettest.New(chain.Solana, "fake")
	w.SetState(wallet.NotDetected)
	assert.Equal(t, wallet.NotDetected, w.State())
	assert.Equal(t, "not_detected", w.State().String())
}
