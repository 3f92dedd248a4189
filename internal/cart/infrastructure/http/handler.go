package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/dmehra2102/cart-checkout/internal/cart/application"
	"github.com/dmehra2102/cart-checkout/internal/cart/domain"
)

// CartStore is the part of application.Store the page server drives.
type CartStore interface {
	Snapshot() application.Snapshot
	Dispatch(ctx context.Context, in application.Intent) error
}

type Handler struct {
	log    *slog.Logger
	store  CartStore
	tracer trace.Tracer
}

func NewHandler(log *slog.Logger, store CartStore) *Handler {
	return &Handler{
		log:    log,
		store:  store,
		tracer: otel.Tracer("cart-http"),
	}
}

type quantityReq struct {
	Delta int `json:"delta"`
}

type promoReq struct {
	Code string `json:"code"`
}

type deliveryReq struct {
	Option string `json:"option"`
}

type paymentReq struct {
	Method string `json:"method"`
}

type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func (h *Handler) Routes(middlewares ...func(http.Handler) http.Handler) http.Handler {
	r := chi.NewRouter()
	r.Get("/healthz", h.healthz)

	r.Route("/cart", func(r chi.Router) {
		r.Use(middlewares...)
		r.Get("/", h.getCart)
		r.Post("/reload", h.reload)
		r.Post("/items/{id}/quantity", h.updateQuantity)
		r.Delete("/items/{id}", h.removeItem)
		r.Post("/promo", h.applyPromo)
		r.Put("/delivery", h.setDelivery)
		r.Put("/payment", h.setPayment)
	})

	return r
}

func (h *Handler) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) getCart(w http.ResponseWriter, r *http.Request) {
	_, span := h.tracer.Start(r.Context(), "GetCart")
	defer span.End()

	writeJSON(w, http.StatusOK, newCartView(h.store.Snapshot()))
}

func (h *Handler) reload(w http.ResponseWriter, r *http.Request) {
	h.dispatch(w, r, application.Reload{})
}

func (h *Handler) updateQuantity(w http.ResponseWriter, r *http.Request) {
	var req quantityReq
	if !decode(w, r, &req) {
		return
	}
	h.dispatch(w, r, application.UpdateQuantity{ItemID: chi.URLParam(r, "id"), Delta: req.Delta})
}

func (h *Handler) removeItem(w http.ResponseWriter, r *http.Request) {
	h.dispatch(w, r, application.RemoveItem{ItemID: chi.URLParam(r, "id")})
}

func (h *Handler) applyPromo(w http.ResponseWriter, r *http.Request) {
	var req promoReq
	if !decode(w, r, &req) {
		return
	}
	h.dispatch(w, r, application.ApplyPromo{Code: req.Code})
}

func (h *Handler) setDelivery(w http.ResponseWriter, r *http.Request) {
	var req deliveryReq
	if !decode(w, r, &req) {
		return
	}
	h.dispatch(w, r, application.SetDeliveryOption{Option: domain.DeliveryOption(req.Option)})
}

func (h *Handler) setPayment(w http.ResponseWriter, r *http.Request) {
	var req paymentReq
	if !decode(w, r, &req) {
		return
	}
	h.dispatch(w, r, application.SetPaymentMethod{Method: domain.PaymentMethod(req.Method)})
}

// dispatch runs the intent and answers with the resulting page state.
func (h *Handler) dispatch(w http.ResponseWriter, r *http.Request, in application.Intent) {
	ctx, span := h.tracer.Start(r.Context(), in.Name())
	defer span.End()

	if err := h.store.Dispatch(ctx, in); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		status, kind := statusFor(err)
		span.SetAttributes(attribute.String("cart.error_kind", kind))
		h.log.Warn("intent failed", "intent", in.Name(), "status", status, "err", err)
		writeJSON(w, status, errorBody{Error: kind, Message: err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, newCartView(h.store.Snapshot()))
}

func statusFor(err error) (int, string) {
	kind := domain.KindOf(err)
	switch kind {
	case domain.KindAuthRequired:
		return http.StatusUnauthorized, kind.String()
	case domain.KindItemNotFound:
		return http.StatusNotFound, kind.String()
	case domain.KindValidationFailed:
		return http.StatusUnprocessableEntity, kind.String()
	case domain.KindFetchFailed, domain.KindUpdateFailed, domain.KindRemoveFailed:
		return http.StatusBadGateway, kind.String()
	}
	return http.StatusInternalServerError, "INTERNAL"
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "BAD_REQUEST", Message: "invalid body"})
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
