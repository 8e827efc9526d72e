package cart

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/multierr"

	"github.com/merawaalameetha/meetha-backend/pkg/db/models"
	pkgerrors "github.com/merawaalameetha/meetha-backend/pkg/errors"
	"github.com/merawaalameetha/meetha-backend/pkg/logger"
	"github.com/merawaalameetha/meetha-backend/pkg/metrics"
)

type productLoader interface {
	GetActiveProduct(ctx context.Context, id string) (*models.Product, error)
}

// Service runs cart commands against the durable slot of a cart session.
type Service interface {
	Get(ctx context.Context, session string) (Snapshot, error)
	Item(ctx context.Context, session, productID string) (Item, error)
	AddProduct(ctx context.Context, session, productID string, quantity decimal.Decimal) (Snapshot, error)
	UpdateQuantity(ctx context.Context, session, productID string, quantity decimal.Decimal) (Snapshot, error)
	Remove(ctx context.Context, session, productID string) (Snapshot, error)
	Clear(ctx context.Context, session string) (Snapshot, error)
}

type service struct {
	slot     Persister
	locker   Locker
	products productLoader
	metrics  *metrics.CartMetrics
	logg     *logger.Logger
	cartOpts []Option
}

// ServiceOption customizes the cart service.
type ServiceOption func(*service)

// WithMetrics records command outcomes and swallowed slot failures.
func WithMetrics(m *metrics.CartMetrics) ServiceOption {
	return func(s *service) {
		s.metrics = m
	}
}

// WithServiceLogger attaches the logger used for persistence warnings.
func WithServiceLogger(logg *logger.Logger) ServiceOption {
	return func(s *service) {
		s.logg = logg
	}
}

// WithLineIDs overrides line id generation, mainly for tests.
func WithLineIDs(fn func() string) ServiceOption {
	return func(s *service) {
		s.cartOpts = append(s.cartOpts, WithIDGenerator(fn))
	}
}

// NewService builds the cart service on top of a slot, a session locker and the catalog.
func NewService(slot Persister, locker Locker, products productLoader, opts ...ServiceOption) (Service, error) {
	if slot == nil {
		return nil, fmt.Errorf("cart slot required")
	}
	if locker == nil {
		return nil, fmt.Errorf("session locker required")
	}
	if products == nil {
		return nil, fmt.Errorf("product loader required")
	}
	s := &service{slot: slot, locker: locker, products: products}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func (s *service) Get(ctx context.Context, session string) (Snapshot, error) {
	var snap Snapshot
	err := s.observe("get", func() error {
		store, err := s.open(ctx, session)
		if err != nil {
			return err
		}
		snap = store.Snapshot()
		return nil
	})
	return snap, err
}

func (s *service) Item(ctx context.Context, session, productID string) (Item, error) {
	var item Item
	err := s.observe("item", func() error {
		store, err := s.open(ctx, session)
		if err != nil {
			return err
		}
		found, ok := store.Item(productID)
		if !ok {
			return pkgerrors.New(pkgerrors.CodeNotFound, "item not in cart")
		}
		item = found
		return nil
	})
	return item, err
}

func (s *service) AddProduct(ctx context.Context, session, productID string, quantity decimal.Decimal) (Snapshot, error) {
	productID = strings.TrimSpace(productID)
	if productID == "" {
		return Snapshot{}, pkgerrors.New(pkgerrors.CodeValidation, "product_id is required")
	}
	if !quantity.IsPositive() {
		return Snapshot{}, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be greater than 0")
	}

	var snap Snapshot
	err := s.observe("add", func() error {
		product, err := s.products.GetActiveProduct(ctx, productID)
		if err != nil {
			return err
		}
		return s.write(ctx, session, func(store *Store) {
			snap = store.AddItem(ctx, CandidateFromProduct(product), quantity)
		})
	})
	return snap, err
}

func (s *service) UpdateQuantity(ctx context.Context, session, productID string, quantity decimal.Decimal) (Snapshot, error) {
	var snap Snapshot
	err := s.observe("update_quantity", func() error {
		return s.write(ctx, session, func(store *Store) {
			snap = store.UpdateQuantity(ctx, productID, quantity)
		})
	})
	return snap, err
}

func (s *service) Remove(ctx context.Context, session, productID string) (Snapshot, error) {
	var snap Snapshot
	err := s.observe("remove", func() error {
		return s.write(ctx, session, func(store *Store) {
			snap = store.RemoveItem(ctx, productID)
		})
	})
	return snap, err
}

func (s *service) Clear(ctx context.Context, session string) (Snapshot, error) {
	var snap Snapshot
	err := s.observe("clear", func() error {
		return s.write(ctx, session, func(store *Store) {
			snap = store.Clear(ctx)
		})
	})
	return snap, err
}

// CandidateFromProduct freezes the catalog fields a cart line keeps.
func CandidateFromProduct(p *models.Product) Candidate {
	return Candidate{
		ProductID:  p.ID,
		Name:       p.Name,
		VendorName: p.VendorName,
		City:       p.City,
		State:      p.State,
		ImageURL:   p.ImageURL,
		Price:      p.Price,
		MinOrderKg: p.MinOrderKg,
		MaxOrderKg: p.MaxOrderKg,
	}
}

// open builds a store for session and rehydrates it from the slot. Any slot
// failure is counted and leaves an empty cart, which is safe for reads only.
func (s *service) open(ctx context.Context, session string) (*Store, error) {
	store, err := s.newStore(session)
	if err != nil {
		return nil, err
	}
	if err := store.Rehydrate(ctx, s.slot, session); err != nil {
		s.countFailures(err)
	}
	return store, nil
}

func (s *service) newStore(session string) (*Store, error) {
	if strings.TrimSpace(session) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart session is required")
	}
	return NewStore(
		WithCartOptions(s.cartOpts...),
		WithLogger(s.logg),
		WithErrorHook(func(_ context.Context, err error) { s.countFailures(err) }),
	), nil
}

// write runs fn under the session lock with write-through attached.
func (s *service) write(ctx context.Context, session string, fn func(*Store)) error {
	unlock, err := s.locker.Lock(ctx, session)
	if err != nil {
		if errors.Is(err, ErrLockHeld) {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "cart busy")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "acquire cart lock")
	}
	defer func() {
		if err := unlock(context.WithoutCancel(ctx)); err != nil && s.logg != nil {
			s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "cart.lock.release_failed")
		}
	}()

	store, err := s.newStore(session)
	if err != nil {
		return err
	}
	// An unreadable slot must not be overwritten from an empty cart. Undecodable
	// payloads are unrecoverable and start over.
	if err := store.Rehydrate(ctx, s.slot, session); err != nil {
		s.countFailures(err)
		var perr *PersistError
		if errors.As(err, &perr) && perr.Phase == phaseLoad {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
		}
	}
	store.Subscribe(WriteThrough(s.slot, session, s.logg))
	fn(store)
	return nil
}

func (s *service) observe(op string, fn func() error) error {
	start := time.Now()
	err := fn()
	s.metrics.ObserveOperation(op, time.Since(start), err)
	return err
}

func (s *service) countFailures(err error) {
	for _, e := range multierr.Errors(err) {
		var perr *PersistError
		if errors.As(e, &perr) {
			s.metrics.IncPersistenceFailure(perr.Slot, perr.Phase)
			continue
		}
		s.metrics.IncPersistenceFailure(s.slot.Name(), "unknown")
	}
}
