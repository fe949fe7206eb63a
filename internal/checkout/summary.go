// Package checkout turns a cart into the order message shoppers send over WhatsApp.
package checkout

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/jravahfoods/storefront/internal/cart"
	pkgerrors "github.com/jravahfoods/storefront/pkg/errors"
	"github.com/jravahfoods/storefront/pkg/money"
)

// DefaultPhone is the storefront's WhatsApp number in international form.
const DefaultPhone = "918522084422"

const (
	greeting     = "Hello JRavah Foods,"
	intro        = "I'd like to place an order with the following items:"
	confirmation = "Please confirm product availability, shipping charges, and payment options."
	baseURL      = "https://wa.me/"
)

// EmptyCartMessage is what the shopper sees when checking out with nothing in the cart.
const EmptyCartMessage = "Your cart is empty. Please add some products before checking out."

// Summary renders the order message for items.
func Summary(items []cart.LineItem, totals cart.Totals) (string, error) {
	if len(items) == 0 {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "cart is empty").
			WithDetails(map[string]any{"message": EmptyCartMessage})
	}

	lines := make([]string, 0, len(items)+7)
	lines = append(lines, greeting, "", intro)
	for i, item := range items {
		lines = append(lines, fmt.Sprintf("%d. %s - %s x %d = %s",
			i+1, item.Name, item.Weight, item.Quantity, money.FormatINR(item.LineTotal())))
	}
	lines = append(lines,
		"",
		"Total Amount: "+money.FormatINR(totals.Subtotal),
		"",
		confirmation,
	)
	return strings.Join(lines, "\n"), nil
}

// MessageURL builds the wa.me link that opens a chat with text prefilled.
func MessageURL(phone, text string) string {
	if phone == "" {
		phone = DefaultPhone
	}
	return baseURL + phone + "?text=" + encodeURIComponent(text)
}

var uriComponentUnescapes = strings.NewReplacer(
	"+", "%20",
	"%21", "!",
	"%27", "'",
	"%28", "(",
	"%29", ")",
	"%2A", "*",
)

// encodeURIComponent matches the browser function of the same name: only
// letters, digits and -_.!~*'() are left as is.
func encodeURIComponent(s string) string {
	return uriComponentUnescapes.Replace(url.QueryEscape(s))
}
