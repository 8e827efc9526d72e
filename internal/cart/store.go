package cart

import (
	"context"
	"errors"
	"sync"

	"github.com/shopspring/decimal"
	"go.uber.org/multierr"

	"github.com/merawaalameetha/meetha-backend/pkg/logger"
)

// Listener observes the post-mutation snapshot.
type Listener func(ctx context.Context, snap Snapshot) error

// ErrorHook receives the combined listener errors of one mutation.
type ErrorHook func(ctx context.Context, err error)

// Store wraps a Cart with a mutex and synchronous observers.
type Store struct {
	notify    sync.Mutex
	mu        sync.Mutex
	cart      *Cart
	listeners map[int]Listener
	order     []int
	nextID    int
	onError   ErrorHook
	logg      *logger.Logger
}

// StoreOption customizes a Store.
type StoreOption func(*Store)

// WithCartOptions forwards options to the underlying Cart.
func WithCartOptions(opts ...Option) StoreOption {
	return func(s *Store) {
		s.cart = New(opts...)
	}
}

// WithErrorHook installs the hook listener failures are reported to.
func WithErrorHook(hook ErrorHook) StoreOption {
	return func(s *Store) {
		s.onError = hook
	}
}

// WithLogger attaches a logger used for rehydrate warnings.
func WithLogger(logg *logger.Logger) StoreOption {
	return func(s *Store) {
		s.logg = logg
	}
}

// NewStore returns an empty store.
func NewStore(opts ...StoreOption) *Store {
	s := &Store{listeners: map[int]Listener{}}
	for _, opt := range opts {
		opt(s)
	}
	if s.cart == nil {
		s.cart = New()
	}
	return s
}

// Subscribe registers l and returns a func that removes it.
func (s *Store) Subscribe(l Listener) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = l
	s.order = append(s.order, id)
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.listeners, id)
		for i, v := range s.order {
			if v == id {
				s.order = append(s.order[:i], s.order[i+1:]...)
				break
			}
		}
	}
}

// AddItem applies Cart.AddItem and notifies listeners.
func (s *Store) AddItem(ctx context.Context, candidate Candidate, quantity decimal.Decimal) Snapshot {
	return s.mutate(ctx, func(c *Cart) { c.AddItem(candidate, quantity) })
}

// RemoveItem applies Cart.RemoveItem and notifies listeners.
func (s *Store) RemoveItem(ctx context.Context, productID string) Snapshot {
	return s.mutate(ctx, func(c *Cart) { c.RemoveItem(productID) })
}

// UpdateQuantity applies Cart.UpdateQuantity and notifies listeners.
func (s *Store) UpdateQuantity(ctx context.Context, productID string, quantity decimal.Decimal) Snapshot {
	return s.mutate(ctx, func(c *Cart) { c.UpdateQuantity(productID, quantity) })
}

// Clear empties the cart and notifies listeners.
func (s *Store) Clear(ctx context.Context) Snapshot {
	return s.mutate(ctx, func(c *Cart) { c.Clear() })
}

// Snapshot returns the current state without notifying.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.Snapshot()
}

// Item returns the line for productID.
func (s *Store) Item(productID string) (Item, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.ItemByProductID(productID)
}

// Rehydrate loads the slot at key into the store. Every failure leaves the cart
// empty, logs a warning and is returned for the caller to count; none is fatal.
// Listeners are not notified.
func (s *Store) Rehydrate(ctx context.Context, p Persister, key string) error {
	raw, err := p.Load(ctx, key)
	if err != nil {
		if errors.Is(err, ErrSlotEmpty) {
			return nil
		}
		return s.rehydrateFailed(ctx, &PersistError{Slot: p.Name(), Phase: phaseLoad, Err: err})
	}
	snap, err := DecodeSnapshot(raw)
	if err != nil {
		return s.rehydrateFailed(ctx, &PersistError{Slot: p.Name(), Phase: phaseDecode, Err: err})
	}

	s.mu.Lock()
	s.cart.restore(snap.Items)
	s.mu.Unlock()
	return nil
}

func (s *Store) rehydrateFailed(ctx context.Context, err error) error {
	s.mu.Lock()
	s.cart.Clear()
	s.mu.Unlock()
	if s.logg != nil {
		s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "cart.rehydrate.failed")
	}
	return err
}

// mutate holds notify across the listener fan-out so observers see snapshots in
// mutation order.
func (s *Store) mutate(ctx context.Context, fn func(*Cart)) Snapshot {
	s.notify.Lock()
	defer s.notify.Unlock()

	s.mu.Lock()
	fn(s.cart)
	snap := s.cart.Snapshot()
	listeners := make([]Listener, 0, len(s.order))
	for _, id := range s.order {
		listeners = append(listeners, s.listeners[id])
	}
	s.mu.Unlock()

	var errs error
	for _, l := range listeners {
		errs = multierr.Append(errs, l(ctx, snap))
	}
	if errs != nil && s.onError != nil {
		s.onError(ctx, errs)
	}
	return snap
}
