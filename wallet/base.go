package wallet

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/smartcontractkit/chainlink-wallet-aggregator/chain"
	"github.com/smartcontractkit/chainlink-wallet-aggregator/chain/addrconv"
)

// Metadata is the static descriptive data of a wallet.
type Metadata struct {
	Name string
	URL  string
	// Icon is an image data URI.
	Icon string
}

// Handshake performs the provider-specific part of Connect and returns the account addresses.
type Handshake func(ctx context.Context) ([]Address, error)

// Teardown performs the provider-specific part of Disconnect.
type Teardown func(ctx context.Context) error

// Base implements the bookkeeping shared by all wallets: identity, connection state, addresses,
// the main address and the listener list. Adapters embed *Base and supply their own Connect and
// Disconnect, which delegate to Base.Connect and Base.Disconnect with a provider handshake.
//
// Connect policy: calling Connect while connected is a no-op returning the current addresses.
// Overlapping Connect calls share a single handshake and its result.
type Base struct {
	id   string
	meta Metadata

	mu        sync.RWMutex
	chainID   chain.ID
	normalize func(string) (string, error)
	state     State
	connected bool
	addresses []Address
	main      int

	connectGroup singleflight.Group
	observers    observers
}

// NewBase returns an inert, disconnected Base bound to chainID. Addresses are normalized with
// the chain family's converter when one is registered.
func NewBase(chainID chain.ID, meta Metadata) *Base {
	return &Base{
		id:        uuid.NewString(),
		meta:      meta,
		chainID:   chainID,
		normalize: normalizerFor(chainID),
		state:     Installed,
	}
}

func normalizerFor(id chain.ID) func(string) (string, error) {
	norm, err := addrconv.NormalizerFor(id)
	if err != nil {
		return nil
	}

	return norm
}

func (b *Base) ID() string   { return b.id }
func (b *Base) Name() string { return b.meta.Name }
func (b *Base) URL() string  { return b.meta.URL }
func (b *Base) Icon() string { return b.meta.Icon }

func (b *Base) ChainID() chain.ID {
	b.mu.RLock()
	defer b.mu.RUnlock()

	return b.chainID
}

func (b *Base) IsConnected() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()

	return b.connected
}

func (b *Base) Address() (Address, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if len(b.addresses) == 0 {
		return "", false
	}

	return b.addresses[b.main], true
}

func (b *Base) Addresses() []Address {
	b.mu.RLock()
	defer b.mu.RUnlock()

	return slices.Clone(b.addresses)
}

// ConnectedAddress returns the main address, or ErrNotConnected.
func (b *Base) ConnectedAddress() (Address, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.connected || len(b.addresses) == 0 {
		return "", ErrNotConnected
	}

	return b.addresses[b.main], nil
}

func (b *Base) State() State {
	b.mu.RLock()
	defer b.mu.RUnlock()

	return b.state
}

// SetState records the result of an environment probe.
func (b *Base) SetState(s State) {
	b.mu.Lock()
	b.state = s
	b.mu.Unlock()
}

func (b *Base) Subscribe(l Listener) func() {
	return b.observers.subscribe(l)
}

func (b *Base) SetMainAddress(addr Address) error {
	b.mu.Lock()
	want, err := b.normalizeLocked(addr)
	if err != nil {
		b.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrUnknownAddress, addr)
	}

	idx := slices.Index(b.addresses, want)
	if idx < 0 {
		b.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrUnknownAddress, addr)
	}
	if idx == b.main {
		b.mu.Unlock()
		return nil
	}
	b.main = idx
	ev := b.eventLocked(EventChanged, ChangeAccounts)
	b.mu.Unlock()

	b.observers.emit(ev)

	return nil
}

// Connect runs handshake unless the wallet is already connected. A handshake error that is not
// already a UserRejected or ConnectionFailed error is wrapped in ErrConnectionFailed.
// The handshake runs with the context of the first of any overlapping callers.
func (b *Base) Connect(ctx context.Context, handshake Handshake) ([]Address, error) {
	if addrs, ok := b.connectedAddresses(); ok {
		return addrs, nil
	}

	v, err, _ := b.connectGroup.Do("connect", func() (any, error) {
		if addrs, ok := b.connectedAddresses(); ok {
			return addrs, nil
		}

		raw, err := handshake(ctx)
		if err != nil {
			return nil, asConnectError(err)
		}
		if len(raw) == 0 {
			return nil, fmt.Errorf("%w: provider returned no addresses", ErrConnectionFailed)
		}

		b.mu.Lock()
		addrs, err := b.normalizeAllLocked(raw)
		if err != nil {
			b.mu.Unlock()
			return nil, fmt.Errorf("%w: %w", ErrConnectionFailed, err)
		}
		b.connected = true
		b.addresses = addrs
		b.main = 0
		ev := b.eventLocked(EventConnect, ChangeNone)
		b.mu.Unlock()

		b.observers.emit(ev)

		return addrs, nil
	})
	if err != nil {
		return nil, err
	}

	return slices.Clone(v.([]Address)), nil
}

func asConnectError(err error) error {
	if errors.Is(err, ErrUserRejected) || errors.Is(err, ErrConnectionFailed) {
		return err
	}

	return fmt.Errorf("%w: %w", ErrConnectionFailed, err)
}

func (b *Base) connectedAddresses() ([]Address, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.connected {
		return nil, false
	}

	return slices.Clone(b.addresses), true
}

// Disconnect runs teardown and clears account data. It is a no-op when not connected. The wallet
// is left disconnected even if teardown fails; the teardown error is returned.
func (b *Base) Disconnect(ctx context.Context, teardown Teardown) error {
	if !b.IsConnected() {
		return nil
	}

	var terr error
	if teardown != nil {
		terr = teardown(ctx)
	}

	b.mu.Lock()
	if !b.connected {
		b.mu.Unlock()
		return terr
	}
	b.connected = false
	b.addresses = nil
	b.main = 0
	ev := b.eventLocked(EventDisconnect, ChangeNone)
	b.mu.Unlock()

	b.observers.emit(ev)

	if terr != nil {
		return fmt.Errorf("disconnect %s: %w", b.meta.Name, terr)
	}

	return nil
}

// SwitchChain rebinds the wallet to id and emits a chain change. Switching to the current chain
// is a no-op.
func (b *Base) SwitchChain(id chain.ID) error {
	if !chain.IsChain(id) {
		return fmt.Errorf("%w: id %d", chain.ErrUnknownChain, id)
	}

	b.mu.Lock()
	if b.chainID == id {
		b.mu.Unlock()
		return nil
	}
	b.chainID = id
	b.normalize = normalizerFor(id)
	ev := b.eventLocked(EventChanged, ChangeChain)
	b.mu.Unlock()

	b.observers.emit(ev)

	return nil
}

// SetAddresses replaces the account list after the provider reports an account change. The main
// address is kept if it is still present. An empty list means the provider dropped the session
// and is handled as a disconnect.
//
// The key-backed adapters in this module have a fixed account and never call it. Adapters over
// providers that push account changes call it from their change handler, as wallettest.Fake does
// in ChangeAccounts.
func (b *Base) SetAddresses(raw []Address) error {
	if len(raw) == 0 {
		return b.Disconnect(context.Background(), nil)
	}

	b.mu.Lock()
	if !b.connected {
		b.mu.Unlock()
		return ErrNotConnected
	}
	addrs, err := b.normalizeAllLocked(raw)
	if err != nil {
		b.mu.Unlock()
		return err
	}
	prev := b.addresses[b.main]
	b.addresses = addrs
	b.main = max(slices.Index(addrs, prev), 0)
	ev := b.eventLocked(EventChanged, ChangeAccounts)
	b.mu.Unlock()

	b.observers.emit(ev)

	return nil
}

func (b *Base) normalizeLocked(addr Address) (Address, error) {
	if b.normalize == nil {
		return addr, nil
	}

	s, err := b.normalize(string(addr))
	if err != nil {
		return "", err
	}

	return Address(s), nil
}

// normalizeAllLocked normalizes raw and drops duplicates, keeping first occurrences.
func (b *Base) normalizeAllLocked(raw []Address) ([]Address, error) {
	out := make([]Address, 0, len(raw))
	for _, a := range raw {
		n, err := b.normalizeLocked(a)
		if err != nil {
			return nil, fmt.Errorf("address %q: %w", a, err)
		}
		if !slices.Contains(out, n) {
			out = append(out, n)
		}
	}

	return out, nil
}

func (b *Base) eventLocked(kind EventKind, change Change) Event {
	return Event{
		Kind:      kind,
		Change:    change,
		WalletID:  b.id,
		ChainID:   b.chainID,
		Addresses: slices.Clone(b.addresses),
	}
}
