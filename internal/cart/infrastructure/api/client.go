package api

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/valyala/fasthttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/dmehra2102/cart-checkout/internal/cart/domain"
	"github.com/dmehra2102/cart-checkout/pkg/tracing"
)

const (
	PathCart   = "/api/cart"
	PathUpdate = "/api/cart/update"
	PathRemove = "/api/cart/remove"
)

// HTTPClient is the subset of *fasthttp.Client the cart client needs.
type HTTPClient interface {
	Do(req *fasthttp.Request, resp *fasthttp.Response) error
	DoDeadline(req *fasthttp.Request, resp *fasthttp.Response, deadline time.Time) error
}

// Client talks to the remote cart API.
type Client struct {
	log     *slog.Logger
	base    *url.URL
	http    HTTPClient
	timeout time.Duration
	tracer  trace.Tracer
}

// NewClient builds a client for the API at baseURL. A zero timeout means
// requests only end when the server answers or ctx is done.
func NewClient(log *slog.Logger, baseURL string, timeout time.Duration) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse api base url: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("api base url %q must be absolute", baseURL)
	}
	return &Client{
		log:     log,
		base:    base,
		http:    &fasthttp.Client{Name: "cart-checkout"},
		timeout: timeout,
		tracer:  otel.Tracer("cart-api-client"),
	}, nil
}

func (c *Client) WithHTTPClient(h HTTPClient) *Client {
	c.http = h
	return c
}

type cartResponse struct {
	Items []cartEntry `json:"items"`
}

type cartEntry struct {
	Book     *book `json:"bookId"`
	Quantity int   `json:"quantity"`
}

type book struct {
	ID            string           `json:"_id"`
	Title         string           `json:"title"`
	Author        string           `json:"author"`
	Price         decimal.Decimal  `json:"price"`
	Publisher     string           `json:"publisher"`
	Category      string           `json:"category"`
	Image         string           `json:"image"`
	OriginalPrice *decimal.Decimal `json:"originalPrice"`
	Discount      *decimal.Decimal `json:"discount"`
}

type updateRequest struct {
	BookID   string `json:"bookId"`
	Quantity int    `json:"quantity"`
}

type removeRequest struct {
	BookID string `json:"bookId"`
}

func (c *Client) FetchCart(ctx context.Context, token string) (domain.Cart, error) {
	var res cartResponse
	if err := c.do(ctx, domain.KindFetchFailed, fasthttp.MethodGet, PathCart, token, nil, &res); err != nil {
		return domain.Cart{}, err
	}

	cart := domain.Cart{
		Items:      make([]domain.LineItem, 0, len(res.Items)),
		Quantities: make(domain.QuantityMap, len(res.Items)),
	}
	for i, entry := range res.Items {
		if entry.Book == nil || entry.Book.ID == "" {
			c.log.Warn("cart entry without book", "index", i)
			continue
		}
		b := entry.Book
		cart.Items = append(cart.Items, domain.LineItem{
			ID:              b.ID,
			Title:           b.Title,
			Author:          b.Author,
			Publisher:       b.Publisher,
			Category:        b.Category,
			ImageRef:        c.resolveImage(b.Image),
			Price:           b.Price,
			OriginalPrice:   b.OriginalPrice,
			DiscountPercent: b.Discount,
		})
		cart.Quantities[b.ID] = entry.Quantity
	}
	return cart, nil
}

func (c *Client) UpdateQuantity(ctx context.Context, token, itemID string, quantity int) error {
	body := updateRequest{BookID: itemID, Quantity: quantity}
	return c.do(ctx, domain.KindUpdateFailed, fasthttp.MethodPut, PathUpdate, token, body, nil)
}

func (c *Client) RemoveItem(ctx context.Context, token, itemID string) error {
	body := removeRequest{BookID: itemID}
	return c.do(ctx, domain.KindRemoveFailed, fasthttp.MethodDelete, PathRemove, token, body, nil)
}

func (c *Client) do(ctx context.Context, kind domain.ErrorKind, method, path, token string, body, dst any) error {
	if err := ctx.Err(); err != nil {
		return domain.NewTransportError(kind, err)
	}

	ctx, span := c.tracer.Start(ctx, method+" "+path, trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()

	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(c.base.String() + path)
	req.Header.SetMethod(method)
	req.Header.Set(fasthttp.HeaderAuthorization, "Bearer "+token)
	req.Header.SetContentType("application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	tracing.InjectHTTPHeaders(ctx, &req.Header)

	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return domain.NewTransportError(kind, err)
		}
		req.SetBodyRaw(b)
	}

	if err := c.send(ctx, req, resp); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return domain.NewTransportError(kind, err)
	}

	status := resp.StatusCode()
	span.SetAttributes(attribute.Int("http.status_code", status))
	if status < fasthttp.StatusOK || status >= fasthttp.StatusMultipleChoices {
		span.SetStatus(codes.Error, "non-success status")
		c.log.Warn("cart api error response", "method", method, "path", path, "status", status)
		return domain.NewRemoteError(kind, status, statusText(resp, status))
	}

	if dst == nil {
		return nil
	}
	if err := json.Unmarshal(resp.Body(), dst); err != nil {
		return domain.NewTransportError(kind, fmt.Errorf("decode response: %w", err))
	}
	return nil
}

// statusText prefers the reason phrase the server sent.
func statusText(resp *fasthttp.Response, status int) string {
	if msg := resp.Header.StatusMessage(); len(msg) > 0 {
		return string(msg)
	}
	return fasthttp.StatusMessage(status)
}

func (c *Client) send(ctx context.Context, req *fasthttp.Request, resp *fasthttp.Response) error {
	deadline, ok := ctx.Deadline()
	if c.timeout > 0 {
		if d := time.Now().Add(c.timeout); !ok || d.Before(deadline) {
			deadline, ok = d, true
		}
	}
	if ok {
		return c.http.DoDeadline(req, resp, deadline)
	}
	return c.http.Do(req, resp)
}

// resolveImage turns a relative image path into an absolute URL on the API
// origin.
func (c *Client) resolveImage(ref string) string {
	if ref == "" {
		return ""
	}
	u, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	if u.IsAbs() {
		return ref
	}
	origin := &url.URL{Scheme: c.base.Scheme, Host: c.base.Host, Path: "/"}
	return origin.ResolveReference(u).String()
}
