package cart

import (
	"context"
	"fmt"
	"strings"

	"github.com/coronelbarros/storefront/internal/catalog"
	pkgerrors "github.com/coronelbarros/storefront/pkg/errors"
)

type productLookup interface {
	GetByID(ctx context.Context, id string) (*catalog.Product, bool, error)
}

// activeCartsRecorder publishes the live cart count.
type activeCartsRecorder interface {
	SetActiveCarts(n int)
}

// Service is the HTTP-facing cart API, keyed by cart session id.
type Service interface {
	View(ctx context.Context, sessionID string) Snapshot
	AddProduct(ctx context.Context, sessionID, productID string, quantity int) (Snapshot, error)
	UpdateQuantity(ctx context.Context, sessionID, productID string, quantity int) Snapshot
	Remove(ctx context.Context, sessionID, productID string) Snapshot
	Clear(ctx context.Context, sessionID string) Snapshot
	// Peek exposes an existing session's container for checkout without
	// creating one.
	Peek(sessionID string) (*Cart, bool)
}

type service struct {
	store    *Store
	products productLookup
	metrics  activeCartsRecorder
}

// NewService wires the cart store to the catalog. metrics may be nil.
func NewService(store *Store, products productLookup, metrics activeCartsRecorder) (Service, error) {
	if store == nil {
		return nil, fmt.Errorf("cart store required")
	}
	if products == nil {
		return nil, fmt.Errorf("product lookup required")
	}
	return &service{store: store, products: products, metrics: metrics}, nil
}

func (s *service) View(_ context.Context, sessionID string) Snapshot {
	c, ok := s.store.Peek(sessionID)
	if !ok {
		return Snapshot{Lines: []Line{}}
	}
	return c.Snapshot()
}

// AddProduct resolves productID through the catalog so the cart always holds
// the current price snapshot.
func (s *service) AddProduct(ctx context.Context, sessionID, productID string, quantity int) (Snapshot, error) {
	productID = strings.TrimSpace(productID)
	product, ok, err := s.products.GetByID(ctx, productID)
	if err != nil {
		return Snapshot{}, err
	}
	if !ok {
		return Snapshot{}, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}

	c := s.store.Get(sessionID)
	c.Add(*product, quantity)
	s.publish()
	return c.Snapshot(), nil
}

func (s *service) UpdateQuantity(_ context.Context, sessionID, productID string, quantity int) Snapshot {
	c := s.store.Get(sessionID)
	c.UpdateQuantity(productID, quantity)
	return c.Snapshot()
}

func (s *service) Remove(_ context.Context, sessionID, productID string) Snapshot {
	c := s.store.Get(sessionID)
	c.Remove(productID)
	return c.Snapshot()
}

func (s *service) Clear(_ context.Context, sessionID string) Snapshot {
	c := s.store.Get(sessionID)
	c.Clear()
	return c.Snapshot()
}

func (s *service) Peek(sessionID string) (*Cart, bool) {
	return s.store.Peek(sessionID)
}

func (s *service) publish() {
	if s.metrics != nil {
		s.metrics.SetActiveCarts(s.store.Len())
	}
}
