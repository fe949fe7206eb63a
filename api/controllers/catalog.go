package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/jravahfoods/storefront/api/responses"
	"github.com/jravahfoods/storefront/api/validators"
	"github.com/jravahfoods/storefront/internal/catalog"
	"github.com/jravahfoods/storefront/pkg/enums"
	pkgerrors "github.com/jravahfoods/storefront/pkg/errors"
	"github.com/jravahfoods/storefront/pkg/logger"
	"github.com/jravahfoods/storefront/pkg/money"
)

const (
	maxListLimit   = 100
	relatedLimit   = 4
	maxSearchChars = 80
)

type weightResponse struct {
	Label          string          `json:"label"`
	Price          decimal.Decimal `json:"price"`
	PriceFormatted string          `json:"price_formatted"`
}

type productResponse struct {
	catalog.Product
	Tag         string             `json:"tag"`
	WeightKeys  []string           `json:"weight_keys"`
	PriceRange  catalog.PriceRange `json:"price_range"`
	Purchasable bool               `json:"purchasable"`
}

type productDetailResponse struct {
	Product productResponse   `json:"product"`
	Weights []weightResponse  `json:"weights"`
	Related []productResponse `json:"related"`
}

func toProductResponse(p catalog.Product) productResponse {
	return productResponse{
		Product:     p,
		Tag:         catalog.DeriveTag(p.Name),
		WeightKeys:  catalog.WeightKeys(p),
		PriceRange:  catalog.GetPriceRange(p),
		Purchasable: p.Purchasable(),
	}
}

func toProductResponses(products []catalog.Product) []productResponse {
	out := make([]productResponse, 0, len(products))
	for _, p := range products {
		out = append(out, toProductResponse(p))
	}
	return out
}

// ProductsList serves the filterable product grid.
func ProductsList(store *catalog.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query, err := parseProductQuery(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, toProductResponses(store.Filter(query)))
	}
}

// ProductsFeatured serves the curated home page selection.
func ProductsFeatured(store *catalog.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, toProductResponses(store.Featured(catalog.FeaturedNames)))
	}
}

// ProductTags lists the tag filter chips.
func ProductTags(store *catalog.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, catalog.Tags(store.Products()))
	}
}

// ProductDetail serves the single product page.
func ProductDetail(store *catalog.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := catalog.ParseID(chi.URLParam(r, "productId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product id"))
			return
		}
		p, ok := store.FindByID(id)
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "product not found"))
			return
		}

		weights := make([]weightResponse, 0, len(p.Weights))
		for _, label := range catalog.WeightKeys(p) {
			price, _ := catalog.PriceFor(p, label)
			weights = append(weights, weightResponse{Label: label, Price: price, PriceFormatted: money.FormatINR(price)})
		}

		responses.WriteSuccess(w, productDetailResponse{
			Product: toProductResponse(p),
			Weights: weights,
			Related: toProductResponses(store.Related(p, relatedLimit)),
		})
	}
}

func parseProductQuery(r *http.Request) (catalog.Query, error) {
	q := r.URL.Query()

	price, err := enums.ParsePriceBand(q.Get("price"))
	if err != nil {
		return catalog.Query{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid price filter").WithDetails(map[string]any{"field": "price"})
	}
	sortOrder, err := enums.ParseSortOrder(q.Get("sort"))
	if err != nil {
		return catalog.Query{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid sort order").WithDetails(map[string]any{"field": "sort"})
	}
	limit, err := validators.ParseQueryInt(r, "limit", 0, 0, maxListLimit)
	if err != nil {
		return catalog.Query{}, err
	}

	return catalog.Query{
		Categories: validators.QueryList(r, "category"),
		Search:     validators.SanitizeString(q.Get("q"), maxSearchChars),
		Tag:        validators.SanitizeString(q.Get("type"), maxSearchChars),
		Price:      price,
		Sort:       sortOrder,
		Limit:      limit,
	}, nil
}
