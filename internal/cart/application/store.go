package application

import (
	"context"
	"log/slog"
	"math"
	"sync"

	"github.com/dmehra2102/cart-checkout/internal/cart/domain"
)

// Store owns the cart page state. Intents are serialised: the lock is held
// across the remote call so a page never has two requests in flight.
type Store struct {
	log       *slog.Logger
	api       CartAPI
	creds     Credentials
	promo     PromoValidator
	publisher EventPublisher

	mu         sync.Mutex
	mode       domain.Mode
	loadErr    string
	notice     string
	items      []domain.LineItem
	quantities domain.QuantityMap
	promoState domain.PromoState
	delivery   domain.DeliveryOption
	payment    domain.PaymentMethod
}

type Option func(*Store)

func WithPublisher(p EventPublisher) Option {
	return func(s *Store) {
		if p != nil {
			s.publisher = p
		}
	}
}

func NewStore(log *slog.Logger, api CartAPI, creds Credentials, promo PromoValidator, opts ...Option) *Store {
	s := &Store{
		log:        log,
		api:        api,
		creds:      creds,
		promo:      promo,
		publisher:  discardPublisher{},
		mode:       domain.ModeLoading,
		quantities: domain.QuantityMap{},
		delivery:   domain.DeliveryStandard,
		payment:    domain.PaymentCard,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Snapshot is a copy of the page state with freshly derived totals.
type Snapshot struct {
	Mode       domain.Mode
	Error      string
	Notice     string
	Items      []domain.LineItem
	Quantities domain.QuantityMap
	Promo      domain.PromoState
	Delivery   domain.DeliveryOption
	Payment    domain.PaymentMethod
	Totals     domain.Totals
}

func (s Snapshot) Quantity(itemID string) int {
	return s.Quantities[itemID]
}

func (s Snapshot) Empty() bool {
	return len(s.Items) == 0
}

func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := make([]domain.LineItem, len(s.items))
	copy(items, s.items)
	return Snapshot{
		Mode:       s.mode,
		Error:      s.loadErr,
		Notice:     s.notice,
		Items:      items,
		Quantities: s.quantities.Clone(),
		Promo:      s.promoState,
		Delivery:   s.delivery,
		Payment:    s.payment,
		Totals:     domain.Calculate(s.items, s.quantities, s.promoState, s.delivery, s.payment),
	}
}

// Load fetches the cart and replaces items and quantities. On failure the
// page enters error mode with no items; only another Load leaves it.
func (s *Store) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx)
}

func (s *Store) load(ctx context.Context) error {
	s.mode = domain.ModeLoading
	s.loadErr = ""
	s.notice = ""

	cart, err := s.fetch(ctx)
	if err != nil {
		s.mode = domain.ModeError
		s.loadErr = err.Error()
		s.items = nil
		s.quantities = domain.QuantityMap{}
		s.log.Error("failed to fetch cart items", "err", err)
		return err
	}

	items := make([]domain.LineItem, 0, len(cart.Items))
	quantities := make(domain.QuantityMap, len(cart.Items))
	for _, item := range cart.Items {
		qty := cart.Quantities[item.ID]
		if qty < 1 {
			s.log.Warn("cart item with non-positive quantity", "item_id", item.ID, "quantity", qty)
			qty = 1
		}
		if _, dup := quantities[item.ID]; !dup {
			items = append(items, item)
		}
		quantities[item.ID] = qty
	}

	s.items = items
	s.quantities = quantities
	s.notice = ""
	s.mode = domain.ModeReady
	s.log.Info("cart loaded", "items", len(items))

	ev := domain.NewEvent(domain.EventCartLoaded)
	ev.ItemCount = len(items)
	s.publisher.Publish(ctx, ev)
	return nil
}

func (s *Store) fetch(ctx context.Context) (domain.Cart, error) {
	token, err := s.token(ctx)
	if err != nil {
		return domain.Cart{}, err
	}
	return s.api.FetchCart(ctx, token)
}

// Reload is the manual reload action: selections are reset and the cart is
// fetched again, as a full page reload would.
func (s *Store) Reload(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reset()
	return s.load(ctx)
}

// Reset clears the promo code and restores default selections.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reset()
}

func (s *Store) reset() {
	s.promoState = domain.PromoState{}
	s.delivery = domain.DeliveryStandard
	s.payment = domain.PaymentCard
	s.notice = ""
}

// UpdateQuantity moves an item's quantity by delta, never below one. The new
// absolute quantity is committed locally only after the API accepts it.
func (s *Store) UpdateQuantity(ctx context.Context, itemID string, delta int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ready(); err != nil {
		return s.fail(err)
	}
	current, ok := s.quantities[itemID]
	if !ok {
		return s.fail(domain.NewItemNotFound(itemID))
	}
	if delta > 0 && current > math.MaxInt-delta {
		return s.fail(domain.NewValidationError("quantity change %d out of range", delta))
	}
	newQty := max(1, current+delta)
	if newQty == current {
		return nil
	}

	token, err := s.token(ctx)
	if err != nil {
		return s.fail(err)
	}
	if err := s.api.UpdateQuantity(ctx, token, itemID, newQty); err != nil {
		s.log.Error("failed to update quantity", "item_id", itemID, "quantity", newQty, "err", err)
		return s.fail(err)
	}

	s.quantities[itemID] = newQty
	s.notice = ""
	s.log.Info("quantity updated", "item_id", itemID, "quantity", newQty)

	ev := domain.NewEvent(domain.EventQuantityUpdated)
	ev.ItemID = itemID
	ev.Quantity = newQty
	s.publisher.Publish(ctx, ev)
	return nil
}

// RemoveItem deletes the item and its quantity together once the API
// confirms the removal.
func (s *Store) RemoveItem(ctx context.Context, itemID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ready(); err != nil {
		return s.fail(err)
	}
	idx := s.indexOf(itemID)
	if idx < 0 {
		return s.fail(domain.NewItemNotFound(itemID))
	}

	token, err := s.token(ctx)
	if err != nil {
		return s.fail(err)
	}
	if err := s.api.RemoveItem(ctx, token, itemID); err != nil {
		s.log.Error("failed to remove item", "item_id", itemID, "err", err)
		return s.fail(err)
	}

	items := make([]domain.LineItem, 0, len(s.items)-1)
	items = append(items, s.items[:idx]...)
	items = append(items, s.items[idx+1:]...)
	s.items = items
	delete(s.quantities, itemID)
	s.notice = ""
	s.log.Info("item removed", "item_id", itemID)

	ev := domain.NewEvent(domain.EventItemRemoved)
	ev.ItemID = itemID
	s.publisher.Publish(ctx, ev)
	return nil
}

// ApplyPromo validates the code locally. Once a code is applied further
// calls are no-ops.
func (s *Store) ApplyPromo(ctx context.Context, code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ready(); err != nil {
		return s.fail(err)
	}
	if s.promoState.Applied {
		return nil
	}
	rate, err := s.promo.Validate(code)
	if err != nil {
		return s.fail(err)
	}

	s.promoState = domain.PromoState{Code: domain.NormalizePromoCode(code), Applied: true, Rate: rate}
	s.notice = ""
	s.log.Info("promo applied", "code", s.promoState.Code)

	ev := domain.NewEvent(domain.EventPromoApplied)
	ev.PromoCode = s.promoState.Code
	s.publisher.Publish(ctx, ev)
	return nil
}

func (s *Store) SetDeliveryOption(ctx context.Context, option domain.DeliveryOption) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ready(); err != nil {
		return s.fail(err)
	}
	option, err := domain.ParseDeliveryOption(string(option))
	if err != nil {
		return s.fail(err)
	}
	if s.delivery == option {
		return nil
	}
	s.delivery = option
	s.notice = ""

	ev := domain.NewEvent(domain.EventDeliveryOptionChanged)
	ev.Selection = string(option)
	s.publisher.Publish(ctx, ev)
	return nil
}

// SetPaymentMethod records the selection locally; it is never sent to the
// cart API.
func (s *Store) SetPaymentMethod(ctx context.Context, method domain.PaymentMethod) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ready(); err != nil {
		return s.fail(err)
	}
	method, err := domain.ParsePaymentMethod(string(method))
	if err != nil {
		return s.fail(err)
	}
	if s.payment == method {
		return nil
	}
	s.payment = method
	s.notice = ""

	ev := domain.NewEvent(domain.EventPaymentMethodChanged)
	ev.Selection = string(method)
	s.publisher.Publish(ctx, ev)
	return nil
}

func (s *Store) token(ctx context.Context) (string, error) {
	if s.creds == nil {
		return "", domain.ErrAuthRequired
	}
	token, err := s.creds.Token(ctx)
	if err != nil {
		return "", err
	}
	if token == "" {
		return "", domain.ErrAuthRequired
	}
	return token, nil
}

// ready rejects intents while the page shows the loading or error view.
func (s *Store) ready() error {
	if s.mode != domain.ModeReady {
		return domain.NewValidationError("cart not ready (%s)", s.mode)
	}
	return nil
}

func (s *Store) indexOf(itemID string) int {
	for i, item := range s.items {
		if item.ID == itemID {
			return i
		}
	}
	return -1
}

// fail keeps the error as a transient notice; mode is left as is.
func (s *Store) fail(err error) error {
	s.notice = err.Error()
	return err
}

type discardPublisher struct{}

func (discardPublisher) Publish(context.Context, domain.Event) {}
