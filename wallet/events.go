package wallet

import (
	"slices"
	"sync"

	"github.com/smartcontractkit/chainlink-wallet-aggregator/chain"
)

// EventKind is one of the three notifications a wallet emits.
type EventKind int

const (
	EventConnect EventKind = iota + 1
	EventDisconnect
	EventChanged
)

func (k EventKind) String() string {
	switch k {
	case EventConnect:
		return "connect"
	case EventDisconnect:
		return "disconnect"
	case EventChanged:
		return "changed"
	default:
		return "unknown"
	}
}

// Change qualifies an EventChanged notification.
type Change int

const (
	ChangeNone Change = iota
	ChangeChain
	ChangeAccounts
)

func (c Change) String() string {
	switch c {
	case ChangeChain:
		return "chain"
	case ChangeAccounts:
		return "accounts"
	default:
		return "none"
	}
}

// Event is delivered to listeners after a state change has been applied.
type Event struct {
	Kind     EventKind
	Change   Change
	WalletID string
	ChainID  chain.ID
	// Addresses is a copy of the wallet's addresses after the change.
	Addresses []Address
}

// Listener receives wallet events. It is called synchronously on the goroutine that caused the
// change and must not block.
type Listener func(Event)

type listenerEntry struct {
	id uint64
	fn Listener
}

// observers is a per-wallet listener list. Listeners are called in registration order.
type observers struct {
	mu        sync.Mutex
	nextID    uint64
	listeners []listenerEntry
}

func (o *observers) subscribe(fn Listener) func() {
	if fn == nil {
		return func() {}
	}

	o.mu.Lock()
	o.nextID++
	id := o.nextID
	o.listeners = append(o.listeners, listenerEntry{id: id, fn: fn})
	o.mu.Unlock()

	var once sync.Once

	return func() {
		once.Do(func() {
			o.mu.Lock()
			defer o.mu.Unlock()

			o.listeners = slices.DeleteFunc(o.listeners, func(e listenerEntry) bool {
				return e.id == id
			})
		})
	}
}

// emit delivers ev to a snapshot of the listeners, so listeners may subscribe or unsubscribe
// from within a callback.
func (o *observers) emit(ev Event) {
	o.mu.Lock()
	snapshot := slices.Clone(o.listeners)
	o.mu.Unlock()

	for _, l := range snapshot {
		l.fn(ev)
	}
}
