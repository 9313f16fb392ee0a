package checkout

import (
	"context"
	"fmt"
	"sync"

	"github.com/coronelbarros/storefront/internal/cart"
	"github.com/coronelbarros/storefront/pkg/enums"
	pkgerrors "github.com/coronelbarros/storefront/pkg/errors"
	"github.com/coronelbarros/storefront/pkg/logger"
	"github.com/coronelbarros/storefront/pkg/metrics"
	"github.com/shopspring/decimal"
)

type cartSource interface {
	Peek(sessionID string) (*cart.Cart, bool)
}

type handoffRecorder interface {
	ObserveHandoff(outcome string)
	ObserveOrderTotal(total decimal.Decimal)
}

// Result describes one successful submission.
type Result struct {
	Message ComposedOrderMessage `json:"message"`
	Status  enums.HandoffStatus  `json:"status"`
	State   enums.CheckoutState  `json:"state"`
}

// Service composes order messages and hands them off to the store.
type Service interface {
	// Preview composes the message for the summary panel without side effects.
	Preview(ctx context.Context, sessionID string, form BuyerOrderForm) (ComposedOrderMessage, error)
	// Submit composes, launches the messaging app and, on success, takes the
	// ordered units out of the cart.
	Submit(ctx context.Context, sessionID string, form BuyerOrderForm) (*Result, error)
	// State reports where the session currently is in the flow.
	State(sessionID string) enums.CheckoutState
}

// ServiceParams wires a checkout Flow.
type ServiceParams struct {
	Carts    cartSource
	Composer *Composer
	Launcher Launcher
	Metrics  handoffRecorder
	Logger   *logger.Logger
}

// Flow runs Idle -> Composing -> HandedOff -> Idle per cart session. A
// session has at most one submission in flight.
type Flow struct {
	carts    cartSource
	composer *Composer
	launcher Launcher
	metrics  handoffRecorder
	logg     *logger.Logger

	mu     sync.Mutex
	states map[string]enums.CheckoutState
}

// NewService builds the checkout flow. Metrics and Logger are optional.
func NewService(params ServiceParams) (Service, error) {
	if params.Carts == nil {
		return nil, fmt.Errorf("cart source required")
	}
	if params.Composer == nil {
		return nil, fmt.Errorf("composer required")
	}
	if params.Launcher == nil {
		return nil, fmt.Errorf("launcher required")
	}
	logg := params.Logger
	if logg == nil {
		logg = logger.Nop()
	}
	return &Flow{
		carts:    params.Carts,
		composer: params.Composer,
		launcher: params.Launcher,
		metrics:  params.Metrics,
		logg:     logg,
		states:   map[string]enums.CheckoutState{},
	}, nil
}

func (f *Flow) Preview(_ context.Context, sessionID string, form BuyerOrderForm) (ComposedOrderMessage, error) {
	c, ok := f.carts.Peek(sessionID)
	if !ok {
		return ComposedOrderMessage{}, errEmptyCart()
	}
	snapshot := c.Snapshot()
	if snapshot.IsEmpty() {
		return ComposedOrderMessage{}, errEmptyCart()
	}
	return f.composer.Compose(snapshot, form.Normalize()), nil
}

func (f *Flow) Submit(ctx context.Context, sessionID string, form BuyerOrderForm) (*Result, error) {
	ctx = f.logg.WithCartSession(ctx, sessionID)

	if !f.begin(sessionID) {
		f.observe(metrics.OutcomeRejected)
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "checkout already in progress")
	}
	defer f.finish(sessionID)

	c, ok := f.carts.Peek(sessionID)
	if !ok {
		f.observe(metrics.OutcomeRejected)
		return nil, errEmptyCart()
	}
	snapshot := c.Snapshot()
	if snapshot.IsEmpty() {
		f.observe(metrics.OutcomeRejected)
		return nil, errEmptyCart()
	}

	msg := f.composer.Compose(snapshot, form.Normalize())

	status, err := f.launcher.Launch(ctx, msg.Link)
	if err != nil {
		f.observe(metrics.OutcomeFailed)
		f.logg.Error(ctx, "messaging hand-off failed", err)
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "could not open messaging app")
	}
	if status == "" {
		status = enums.HandoffAttempted
	}

	f.setState(sessionID, enums.CheckoutStateHandedOff)
	c.Deduct(snapshot.Lines)

	if status == enums.HandoffConfirmed {
		f.observe(metrics.OutcomeConfirmed)
	} else {
		f.observe(metrics.OutcomeAttempted)
	}
	if f.metrics != nil {
		f.metrics.ObserveOrderTotal(msg.Total)
	}
	ctx = f.logg.WithFields(ctx, map[string]any{
		"handoff_status": status.String(),
		"item_count":     snapshot.ItemCount,
		"order_total":    msg.Total.StringFixed(2),
	})
	f.logg.Info(ctx, "checkout handed off")

	return &Result{Message: msg, Status: status, State: enums.CheckoutStateHandedOff}, nil
}

func (f *Flow) State(sessionID string) enums.CheckoutState {
	f.mu.Lock()
	defer f.mu.Unlock()
	if state, ok := f.states[sessionID]; ok {
		return state
	}
	return enums.CheckoutStateIdle
}

// begin moves the session to Composing unless a submission is already running.
func (f *Flow) begin(sessionID string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if state, ok := f.states[sessionID]; ok && state != enums.CheckoutStateIdle {
		return false
	}
	f.states[sessionID] = enums.CheckoutStateComposing
	return true
}

func (f *Flow) setState(sessionID string, state enums.CheckoutState) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.states[sessionID] = state
}

// finish returns the session to Idle.
func (f *Flow) finish(sessionID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.states, sessionID)
}

func (f *Flow) observe(outcome string) {
	if f.metrics != nil {
		f.metrics.ObserveHandoff(outcome)
	}
}

func errEmptyCart() error {
	return pkgerrors.New(pkgerrors.CodeStateConflict, "cart is empty")
}
