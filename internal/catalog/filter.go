package catalog

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/jravahfoods/storefront/pkg/enums"
	"github.com/shopspring/decimal"
)

const (
	categoryAll = "all"
	tagOther    = "Other"
	maxTags     = 20
)

var (
	band200 = decimal.NewFromInt(200)
	band400 = decimal.NewFromInt(400)
	band600 = decimal.NewFromInt(600)
)

// FeaturedNames is the curated home page selection.
var FeaturedNames = []string{
	"tomato pickle",
	"bellam sunundalu",
	"chakralu",
	"chicken gongura pickle",
	"spicy boondi",
	"biryani masala",
	"mutton boneless",
	"ginger garlic paste",
	"gavvalu",
	"prawns pickle",
}

// Query narrows a product listing. Zero values mean no filtering.
type Query struct {
	Categories []string
	Search     string
	Tag        string
	Price      enums.PriceBand
	Sort       enums.SortOrder
	Limit      int
}

// DeriveTag turns the first word of a name into a tag: "tomato pickle" is "Tomato".
func DeriveTag(name string) string {
	fields := strings.Fields(name)
	if len(fields) == 0 {
		return tagOther
	}
	first := fields[0]
	r, size := utf8.DecodeRuneInString(first)
	return string(unicode.ToUpper(r)) + strings.ToLower(first[size:])
}

// Tags returns the distinct derived tags of products, sorted, at most 20.
func Tags(products []Product) []string {
	seen := make(map[string]struct{})
	tags := []string{}
	for _, p := range products {
		tag := DeriveTag(p.Name)
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	if len(tags) > maxTags {
		tags = tags[:maxTags]
	}
	return tags
}

// Filter applies q to the catalog and returns matches in the requested order.
func (s *Store) Filter(q Query) []Product {
	categories := normalizeCategories(q.Categories)
	search := strings.ToLower(strings.TrimSpace(q.Search))
	tag := strings.TrimSpace(q.Tag)

	out := []Product{}
	for _, p := range s.products {
		if len(categories) > 0 {
			if _, ok := categories[strings.ToLower(p.Category)]; !ok {
				continue
			}
		}
		if search != "" {
			haystack := strings.ToLower(p.Name + " " + p.Description)
			if !strings.Contains(haystack, search) {
				continue
			}
		}
		if tag != "" && DeriveTag(p.Name) != tag {
			continue
		}
		if !inPriceBand(GetPriceRange(p).Min, q.Price) {
			continue
		}
		out = append(out, cloneProduct(p))
	}

	switch q.Sort {
	case enums.SortOrderPriceAsc:
		sort.SliceStable(out, func(i, j int) bool {
			return GetPriceRange(out[i]).Min.LessThan(GetPriceRange(out[j]).Min)
		})
	case enums.SortOrderPriceDesc:
		sort.SliceStable(out, func(i, j int) bool {
			return GetPriceRange(out[i]).Min.GreaterThan(GetPriceRange(out[j]).Min)
		})
	}

	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out
}

// Featured returns the products whose names appear in names, in catalog order.
// Names match case-insensitively; names missing from the catalog are skipped.
func (s *Store) Featured(names []string) []Product {
	wanted := make(map[string]struct{}, len(names))
	for _, name := range names {
		wanted[strings.ToLower(strings.TrimSpace(name))] = struct{}{}
	}
	out := []Product{}
	for _, p := range s.products {
		if _, ok := wanted[strings.ToLower(p.Name)]; ok {
			out = append(out, cloneProduct(p))
		}
	}
	return out
}

func normalizeCategories(raw []string) map[string]struct{} {
	out := make(map[string]struct{}, len(raw))
	for _, c := range raw {
		c = strings.ToLower(strings.TrimSpace(c))
		if c == "" {
			continue
		}
		if c == categoryAll {
			return nil
		}
		out[c] = struct{}{}
	}
	return out
}

func inPriceBand(min decimal.Decimal, band enums.PriceBand) bool {
	switch band {
	case enums.PriceBandUnder200:
		return min.LessThan(band200)
	case enums.PriceBand200To400:
		return min.GreaterThanOrEqual(band200) && min.LessThanOrEqual(band400)
	case enums.PriceBand400To600:
		return min.GreaterThan(band400) && min.LessThanOrEqual(band600)
	case enums.PriceBandAbove600:
		return min.GreaterThan(band600)
	default:
		return true
	}
}
