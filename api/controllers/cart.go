package controllers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jravahfoods/storefront/api/middleware"
	"github.com/jravahfoods/storefront/api/responses"
	"github.com/jravahfoods/storefront/api/validators"
	"github.com/jravahfoods/storefront/internal/cart"
	"github.com/jravahfoods/storefront/internal/catalog"
	"github.com/jravahfoods/storefront/internal/checkout"
	"github.com/jravahfoods/storefront/internal/notices"
	pkgerrors "github.com/jravahfoods/storefront/pkg/errors"
	"github.com/jravahfoods/storefront/pkg/logger"
	"github.com/jravahfoods/storefront/pkg/money"
)

// CartSessions resolves the cart engine behind the current shopper session.
type CartSessions interface {
	Engine(ctx context.Context, sessionID string) (*cart.Engine, error)
	Feed() *notices.Feed
}

type lineItemResponse struct {
	cart.LineItem
	LineTotal          decimal.Decimal `json:"line_total"`
	LineTotalFormatted string          `json:"line_total_formatted"`
}

type cartResponse struct {
	Items             []lineItemResponse `json:"items"`
	Subtotal          decimal.Decimal    `json:"subtotal"`
	SubtotalFormatted string             `json:"subtotal_formatted"`
	ItemCount         int                `json:"item_count"`
}

type checkoutResponse struct {
	Message string `json:"message"`
	URL     string `json:"url"`
}

type addItemRequest struct {
	ProductID validators.FlexValue `json:"product_id" validate:"required"`
	Weight    string               `json:"weight" validate:"omitempty,max=32"`
	Quantity  validators.FlexValue `json:"quantity"`
}

type updateItemRequest struct {
	ProductID validators.FlexValue `json:"product_id" validate:"required"`
	Weight    string               `json:"weight" validate:"omitempty,max=32"`
	Quantity  validators.FlexValue `json:"quantity"`
}

func toCartResponse(engine *cart.Engine) cartResponse {
	items := engine.Items()
	totals := cart.ComputeTotals(items)
	out := cartResponse{
		Items:             make([]lineItemResponse, 0, len(items)),
		Subtotal:          totals.Subtotal,
		SubtotalFormatted: money.FormatINR(totals.Subtotal),
		ItemCount:         totals.ItemCount,
	}
	for _, item := range items {
		out.Items = append(out.Items, lineItemResponse{
			LineItem:           item,
			LineTotal:          item.LineTotal(),
			LineTotalFormatted: money.FormatINR(item.LineTotal()),
		})
	}
	return out
}

func sessionEngine(w http.ResponseWriter, r *http.Request, sessions CartSessions, logg *logger.Logger) (*cart.Engine, bool) {
	sessionID := middleware.SessionIDFromContext(r.Context())
	if sessionID == "" {
		responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "session missing"))
		return nil, false
	}
	engine, err := sessions.Engine(r.Context(), sessionID)
	if err != nil {
		responses.WriteError(r.Context(), logg, w, err)
		return nil, false
	}
	return engine, true
}

// CartFetch returns the session's cart.
func CartFetch(sessions CartSessions, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		engine, ok := sessionEngine(w, r, sessions, logg)
		if !ok {
			return
		}
		responses.WriteSuccess(w, toCartResponse(engine))
	}
}

// CartAddItem adds a product weight to the cart. Unknown products or weights
// leave the cart as it was.
func CartAddItem(sessions CartSessions, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload addItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		productID, err := catalog.ParseID(payload.ProductID.String())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product id").WithDetails(map[string]any{"field": "product_id"}))
			return
		}

		engine, ok := sessionEngine(w, r, sessions, logg)
		if !ok {
			return
		}
		if err := engine.AddItem(r.Context(), productID, payload.Weight, cart.ParseQuantity(payload.Quantity.String())); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, toCartResponse(engine))
	}
}

// CartUpdateItem sets a line's quantity; zero, negative, null, missing or
// non-numeric quantities remove the line.
func CartUpdateItem(sessions CartSessions, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload updateItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		productID, err := catalog.ParseID(payload.ProductID.String())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product id").WithDetails(map[string]any{"field": "product_id"}))
			return
		}

		engine, ok := sessionEngine(w, r, sessions, logg)
		if !ok {
			return
		}
		if err := engine.UpdateQuantity(r.Context(), productID, payload.Weight, cart.ParseQuantity(payload.Quantity.String())); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, toCartResponse(engine))
	}
}

// CartRemoveItem drops a line, confirming with a removal notice.
func CartRemoveItem(sessions CartSessions, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := catalog.ParseID(r.URL.Query().Get("product_id"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product id").WithDetails(map[string]any{"field": "product_id"}))
			return
		}
		weight := strings.TrimSpace(r.URL.Query().Get("weight"))

		engine, ok := sessionEngine(w, r, sessions, logg)
		if !ok {
			return
		}
		if err := engine.Discard(r.Context(), productID, weight); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, toCartResponse(engine))
	}
}

// CartClear empties the cart.
func CartClear(sessions CartSessions, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		engine, ok := sessionEngine(w, r, sessions, logg)
		if !ok {
			return
		}
		if err := engine.Clear(r.Context()); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, toCartResponse(engine))
	}
}

// CartNotices returns the badge count and any banner still showing.
func CartNotices(sessions CartSessions, now func() time.Time, logg *logger.Logger) http.HandlerFunc {
	if now == nil {
		now = time.Now
	}
	return func(w http.ResponseWriter, r *http.Request) {
		engine, ok := sessionEngine(w, r, sessions, logg)
		if !ok {
			return
		}
		sessionID := middleware.SessionIDFromContext(r.Context())
		responses.WriteSuccess(w, map[string]any{
			"badge":   engine.Count(),
			"notices": sessions.Feed().Pending(sessionID, now()),
		})
	}
}

// CartCheckout renders the WhatsApp order message and link.
func CartCheckout(sessions CartSessions, phone string, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		engine, ok := sessionEngine(w, r, sessions, logg)
		if !ok {
			return
		}
		items := engine.Items()
		text, err := checkout.Summary(items, cart.ComputeTotals(items))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, checkoutResponse{
			Message: text,
			URL:     checkout.MessageURL(phone, text),
		})
	}
}
