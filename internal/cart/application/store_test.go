package application_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"math"
	"net/http"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"github.com/dmehra2102/cart-checkout/internal/cart/application"
	"github.com/dmehra2102/cart-checkout/internal/cart/domain"
)

type mockAPI struct {
	fetchCartFunc      func(ctx context.Context, token string) (domain.Cart, error)
	updateQuantityFunc func(ctx context.Context, token, itemID string, quantity int) error
	removeItemFunc     func(ctx context.Context, token, itemID string) error

	updates int
	removes int
}

func (m *mockAPI) FetchCart(ctx context.Context, token string) (domain.Cart, error) {
	return m.fetchCartFunc(ctx, token)
}

func (m *mockAPI) UpdateQuantity(ctx context.Context, token, itemID string, quantity int) error {
	m.updates++
	return m.updateQuantityFunc(ctx, token, itemID, quantity)
}

func (m *mockAPI) RemoveItem(ctx context.Context, token, itemID string) error {
	m.removes++
	return m.removeItemFunc(ctx, token, itemID)
}

type staticToken string

func (t staticToken) Token(context.Context) (string, error) { return string(t), nil }

type recordingPublisher struct {
	events []domain.Event
}

func (p *recordingPublisher) Publish(_ context.Context, e domain.Event) {
	p.events = append(p.events, e)
}

func (p *recordingPublisher) types() []domain.EventType {
	out := make([]domain.EventType, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func sampleCart() domain.Cart {
	return domain.Cart{
		Items: []domain.LineItem{
			{ID: "A", Title: "Dune", Price: decimal.NewFromInt(200)},
			{ID: "B", Title: "Emma", Price: decimal.NewFromInt(150)},
		},
		Quantities: domain.QuantityMap{"A": 2, "B": 1},
	}
}

type storeTestSuite struct {
	suite.Suite
	ctx       context.Context
	api       *mockAPI
	publisher *recordingPublisher
	store     *application.Store
}

func TestStoreTestSuite(t *testing.T) {
	suite.Run(t, new(storeTestSuite))
}

func (s *storeTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.api = &mockAPI{
		fetchCartFunc: func(_ context.Context, token string) (domain.Cart, error) {
			s.Equal("tok", token)
			return sampleCart(), nil
		},
		updateQuantityFunc: func(context.Context, string, string, int) error { return nil },
		removeItemFunc:     func(context.Context, string, string) error { return nil },
	}
	s.publisher = &recordingPublisher{}
	s.store = application.NewStore(discardLogger(), s.api, staticToken("tok"),
		application.NewFixedTokenValidator(""), application.WithPublisher(s.publisher))
}

func (s *storeTestSuite) load() {
	s.Require().NoError(s.store.Load(s.ctx))
}

func (s *storeTestSuite) TestInitialModeIsLoading() {
	snap := s.store.Snapshot()
	s.Equal(domain.ModeLoading, snap.Mode)
	s.Equal(domain.DeliveryStandard, snap.Delivery)
	s.Equal(domain.PaymentCard, snap.Payment)
}

func (s *storeTestSuite) TestLoadPopulatesItemsAndQuantities() {
	s.load()

	snap := s.store.Snapshot()
	s.Equal(domain.ModeReady, snap.Mode)
	s.Len(snap.Items, 2)
	s.Equal(domain.QuantityMap{"A": 2, "B": 1}, snap.Quantities)
	s.True(decimal.NewFromInt(550).Equal(snap.Totals.Subtotal))
	s.Equal([]domain.EventType{domain.EventCartLoaded}, s.publisher.types())
}

func (s *storeTestSuite) TestLoadReplacesPriorState() {
	s.load()
	s.api.fetchCartFunc = func(context.Context, string) (domain.Cart, error) {
		return domain.Cart{
			Items:      []domain.LineItem{{ID: "C", Price: decimal.NewFromInt(10)}},
			Quantities: domain.QuantityMap{"C": 4},
		}, nil
	}

	s.load()

	snap := s.store.Snapshot()
	s.Len(snap.Items, 1)
	s.Equal(domain.QuantityMap{"C": 4}, snap.Quantities)
}

func (s *storeTestSuite) TestLoadClampsNonPositiveQuantities() {
	s.api.fetchCartFunc = func(context.Context, string) (domain.Cart, error) {
		return domain.Cart{
			Items:      []domain.LineItem{{ID: "A", Price: decimal.NewFromInt(10)}},
			Quantities: domain.QuantityMap{"A": 0},
		}, nil
	}

	s.load()
	s.Equal(1, s.store.Snapshot().Quantity("A"))
}

func (s *storeTestSuite) TestLoadWithoutTokenRequiresAuth() {
	store := application.NewStore(discardLogger(), s.api, staticToken(""), application.NewFixedTokenValidator(""))

	err := store.Load(s.ctx)

	s.ErrorIs(err, domain.ErrAuthRequired)
	snap := store.Snapshot()
	s.Equal(domain.ModeError, snap.Mode)
	s.Contains(snap.Error, "authentication required")
}

func (s *storeTestSuite) TestLoadFailureEntersErrorMode() {
	s.api.fetchCartFunc = func(context.Context, string) (domain.Cart, error) {
		return domain.Cart{}, domain.NewRemoteError(domain.KindFetchFailed, http.StatusInternalServerError, "Internal Server Error")
	}

	err := s.store.Load(s.ctx)

	s.ErrorIs(err, domain.ErrFetchFailed)
	snap := s.store.Snapshot()
	s.Equal(domain.ModeError, snap.Mode)
	s.Equal("error fetching cart: Internal Server Error", snap.Error)
}

func (s *storeTestSuite) TestReloadRecoversFromError() {
	s.api.fetchCartFunc = func(context.Context, string) (domain.Cart, error) {
		return domain.Cart{}, domain.NewRemoteError(domain.KindFetchFailed, http.StatusServiceUnavailable, "Service Unavailable")
	}
	s.Error(s.store.Load(s.ctx))

	s.api.fetchCartFunc = func(context.Context, string) (domain.Cart, error) { return sampleCart(), nil }
	s.NoError(s.store.Dispatch(s.ctx, application.Reload{}))

	snap := s.store.Snapshot()
	s.Equal(domain.ModeReady, snap.Mode)
	s.Empty(snap.Error)
}

func (s *storeTestSuite) TestUpdateQuantitySendsAbsoluteQuantity() {
	s.load()
	var sent int
	s.api.updateQuantityFunc = func(_ context.Context, token, itemID string, quantity int) error {
		s.Equal("tok", token)
		s.Equal("A", itemID)
		sent = quantity
		return nil
	}

	s.NoError(s.store.UpdateQuantity(s.ctx, "A", 3))

	s.Equal(5, sent)
	s.Equal(5, s.store.Snapshot().Quantity("A"))
	last := s.publisher.events[len(s.publisher.events)-1]
	s.Equal(domain.EventQuantityUpdated, last.Type)
	s.Equal(5, last.Quantity)
}

func (s *storeTestSuite) TestUpdateQuantityNeverBelowOne() {
	s.load()

	s.NoError(s.store.UpdateQuantity(s.ctx, "A", -999))
	s.Equal(1, s.store.Snapshot().Quantity("A"))
	s.Equal(1, s.api.updates)

	// decrementing a quantity of one is a no-op
	s.NoError(s.store.UpdateQuantity(s.ctx, "B", -1))
	s.Equal(1, s.store.Snapshot().Quantity("B"))
	s.Equal(1, s.api.updates)
}

func (s *storeTestSuite) TestUpdateQuantityRejectsOverflowingDelta() {
	s.load()

	err := s.store.UpdateQuantity(s.ctx, "A", math.MaxInt)

	s.ErrorIs(err, domain.ErrValidationFailed)
	s.Zero(s.api.updates)
	s.Equal(2, s.store.Snapshot().Quantity("A"))
	s.NotEmpty(s.store.Snapshot().Notice)

	// the largest delta that still fits is accepted
	s.NoError(s.store.UpdateQuantity(s.ctx, "B", math.MaxInt-1))
	s.Equal(math.MaxInt, s.store.Snapshot().Quantity("B"))
}

func (s *storeTestSuite) TestUpdateQuantityUnknownItem() {
	s.load()

	err := s.store.UpdateQuantity(s.ctx, "Z", 1)

	s.ErrorIs(err, domain.ErrItemNotFound)
	s.Zero(s.api.updates)
}

func (s *storeTestSuite) TestFailedUpdateLeavesStateUnchanged() {
	s.load()
	before := s.store.Snapshot()
	s.api.updateQuantityFunc = func(context.Context, string, string, int) error {
		return domain.NewRemoteError(domain.KindUpdateFailed, http.StatusBadRequest, "Bad Request")
	}

	err := s.store.UpdateQuantity(s.ctx, "A", 1)

	s.ErrorIs(err, domain.ErrUpdateFailed)
	after := s.store.Snapshot()
	s.Equal(before.Items, after.Items)
	s.Equal(before.Quantities, after.Quantities)
	s.Equal(domain.ModeReady, after.Mode)
	s.Equal("error updating quantity: Bad Request", after.Notice)
}

func (s *storeTestSuite) TestRemoveItemDeletesItemAndQuantity() {
	s.load()

	s.NoError(s.store.RemoveItem(s.ctx, "A"))

	snap := s.store.Snapshot()
	s.Len(snap.Items, 1)
	s.Equal("B", snap.Items[0].ID)
	s.Equal(domain.QuantityMap{"B": 1}, snap.Quantities)
}

func (s *storeTestSuite) TestFailedRemoveKeepsItem() {
	s.load()
	before := s.store.Snapshot()
	s.api.removeItemFunc = func(context.Context, string, string) error {
		return domain.NewTransportError(domain.KindRemoveFailed, errors.New("connection reset"))
	}

	err := s.store.RemoveItem(s.ctx, "A")

	s.ErrorIs(err, domain.ErrRemoveFailed)
	after := s.store.Snapshot()
	s.Equal(before.Items, after.Items)
	s.Equal(before.Quantities, after.Quantities)
	s.NotEmpty(after.Notice)
}

func (s *storeTestSuite) TestRemoveUnknownItem() {
	s.load()
	s.ErrorIs(s.store.RemoveItem(s.ctx, "Z"), domain.ErrItemNotFound)
	s.Zero(s.api.removes)
}

func (s *storeTestSuite) TestApplyPromo() {
	s.load()

	s.NoError(s.store.ApplyPromo(s.ctx, " discount20 "))

	snap := s.store.Snapshot()
	s.True(snap.Promo.Applied)
	s.Equal("DISCOUNT20", snap.Promo.Code)
	// subtotal 550, 20% = 110
	s.True(decimal.NewFromInt(110).Equal(snap.Totals.Discount))
	s.True(decimal.NewFromInt(440).Equal(snap.Totals.Total))
}

func (s *storeTestSuite) TestApplyPromoIsIdempotent() {
	s.load()
	s.NoError(s.store.ApplyPromo(s.ctx, "DISCOUNT20"))
	first := s.store.Snapshot()

	s.NoError(s.store.ApplyPromo(s.ctx, "DISCOUNT20"))
	s.NoError(s.store.ApplyPromo(s.ctx, "SOMETHINGELSE"))

	second := s.store.Snapshot()
	s.Equal(first.Promo, second.Promo)
	s.True(first.Totals.Discount.Equal(second.Totals.Discount))
	s.Len(s.publisher.events, 2)
}

func (s *storeTestSuite) TestInvalidPromoLeavesStateUntouched() {
	s.load()

	err := s.store.ApplyPromo(s.ctx, "SAVE50")

	s.ErrorIs(err, domain.ErrValidationFailed)
	snap := s.store.Snapshot()
	s.False(snap.Promo.Applied)
	s.True(snap.Totals.Discount.IsZero())
	s.Equal("invalid promo code", snap.Notice)
}

func (s *storeTestSuite) TestSelections() {
	s.load()

	s.NoError(s.store.SetDeliveryOption(s.ctx, domain.DeliveryExpress))
	s.NoError(s.store.SetPaymentMethod(s.ctx, domain.PaymentCashOnDelivery))

	snap := s.store.Snapshot()
	s.Equal(domain.DeliveryExpress, snap.Delivery)
	s.Equal(domain.PaymentCashOnDelivery, snap.Payment)
	s.True(decimal.NewFromInt(99).Equal(snap.Totals.DeliveryCharge))
	s.True(decimal.NewFromInt(40).Equal(snap.Totals.CODAdvisoryFee))
	s.True(decimal.NewFromInt(649).Equal(snap.Totals.Total))

	s.ErrorIs(s.store.SetDeliveryOption(s.ctx, "teleport"), domain.ErrValidationFailed)
	s.ErrorIs(s.store.SetPaymentMethod(s.ctx, "barter"), domain.ErrValidationFailed)
	s.Equal(domain.DeliveryExpress, s.store.Snapshot().Delivery)
}

func (s *storeTestSuite) TestInvalidSelectionSetsNotice() {
	s.load()

	s.Error(s.store.SetDeliveryOption(s.ctx, "teleport"))
	s.Contains(s.store.Snapshot().Notice, "unknown delivery option")

	s.Error(s.store.SetPaymentMethod(s.ctx, "barter"))
	s.Contains(s.store.Snapshot().Notice, "unknown payment method")

	s.NoError(s.store.SetPaymentMethod(s.ctx, domain.PaymentUPI))
	s.Empty(s.store.Snapshot().Notice)
}

func (s *storeTestSuite) TestFailedReloadDropsItemsAndBlocksIntents() {
	s.load()
	s.api.fetchCartFunc = func(context.Context, string) (domain.Cart, error) {
		return domain.Cart{}, domain.NewRemoteError(domain.KindFetchFailed, http.StatusBadGateway, "Bad Gateway")
	}
	s.Error(s.store.Reload(s.ctx))

	snap := s.store.Snapshot()
	s.Equal(domain.ModeError, snap.Mode)
	s.Empty(snap.Items)
	s.Empty(snap.Quantities)

	intents := []application.Intent{
		application.UpdateQuantity{ItemID: "A", Delta: 1},
		application.RemoveItem{ItemID: "A"},
		application.ApplyPromo{Code: "DISCOUNT20"},
		application.SetDeliveryOption{Option: domain.DeliveryExpress},
		application.SetPaymentMethod{Method: domain.PaymentUPI},
	}
	for _, in := range intents {
		s.ErrorIs(s.store.Dispatch(s.ctx, in), domain.ErrValidationFailed, in.Name())
	}

	s.Zero(s.api.updates)
	s.Zero(s.api.removes)
	after := s.store.Snapshot()
	s.Equal(domain.ModeError, after.Mode)
	s.False(after.Promo.Applied)
	s.Equal(domain.DeliveryStandard, after.Delivery)
	s.Equal(domain.PaymentCard, after.Payment)
}

func (s *storeTestSuite) TestIntentsBeforeLoadAreRejected() {
	s.ErrorIs(s.store.UpdateQuantity(s.ctx, "A", 1), domain.ErrValidationFailed)
	s.ErrorIs(s.store.SetDeliveryOption(s.ctx, domain.DeliveryExpress), domain.ErrValidationFailed)
	s.Zero(s.api.updates)
	s.Empty(s.publisher.events)
}

func (s *storeTestSuite) TestReloadResetsSelections() {
	s.load()
	s.NoError(s.store.ApplyPromo(s.ctx, "DISCOUNT20"))
	s.NoError(s.store.SetDeliveryOption(s.ctx, domain.DeliveryExpress))

	s.NoError(s.store.Reload(s.ctx))

	snap := s.store.Snapshot()
	s.False(snap.Promo.Applied)
	s.Equal(domain.DeliveryStandard, snap.Delivery)
}

func (s *storeTestSuite) TestSnapshotIsACopy() {
	s.load()
	snap := s.store.Snapshot()
	snap.Quantities["A"] = 99
	snap.Items[0].Title = "changed"

	again := s.store.Snapshot()
	s.Equal(2, again.Quantity("A"))
	s.Equal("Dune", again.Items[0].Title)
}
