package catalog

import (
	"sort"
	"strings"

	"github.com/DaviAleixo/pollyana3-sub000/internal/model"

	"github.com/shopspring/decimal"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// SortOption selects the catalog ordering.
type SortOption string

const (
	SortDefault   SortOption = "default"
	SortPriceAsc  SortOption = "price_asc"
	SortPriceDesc SortOption = "price_desc"
	SortAlphaAsc  SortOption = "alpha_asc"
)

// PromotionSlug is the pseudo-category that lists discounted products.
const PromotionSlug = "promocoes"

// ParseSort maps a query value to a SortOption; unknown values mean default.
func ParseSort(s string) SortOption {
	switch opt := SortOption(s); opt {
	case SortPriceAsc, SortPriceDesc, SortAlphaAsc:
		return opt
	}
	return SortDefault
}

// Query is one catalog view request.
type Query struct {
	CategoryID uint // 0 or RootCategoryID: no category filter
	Promotion  bool
	Search     string
	Sort       SortOption
}

// Apply runs category filter, text search and sort, in that order.
func Apply(products []model.Product, categories []model.Category, q Query) []model.Product {
	out := FilterCategory(products, categories, q.CategoryID, q.Promotion)
	out = Search(out, categories, q.Search)
	Sort(out, q.Sort)
	return out
}

// FilterCategory keeps discounted products for the promotion view, every
// product for the root, and the category's subtree otherwise.
func FilterCategory(products []model.Product, categories []model.Category, categoryID uint, promotion bool) []model.Product {
	out := make([]model.Product, 0, len(products))
	switch {
	case promotion:
		for i := range products {
			if IsDiscountValid(&products[i]) {
				out = append(out, products[i])
			}
		}
	case categoryID == 0 || categoryID == model.RootCategoryID:
		out = append(out, products...)
	default:
		ids := DescendantIDs(categories, categoryID)
		for _, p := range products {
			if _, ok := ids[p.CategoryID]; ok {
				out = append(out, p)
			}
		}
	}
	return out
}

// Search keeps products whose name, description or category name contains
// term, case-insensitively. A blank term keeps everything.
func Search(products []model.Product, categories []model.Category, term string) []model.Product {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return products
	}
	names := make(map[uint]string, len(categories))
	for _, c := range categories {
		names[c.ID] = strings.ToLower(c.Name)
	}

	out := make([]model.Product, 0, len(products))
	for _, p := range products {
		if strings.Contains(strings.ToLower(p.Name), term) ||
			strings.Contains(strings.ToLower(p.Description), term) ||
			strings.Contains(names[p.CategoryID], term) {
			out = append(out, p)
		}
	}
	return out
}

// Sort orders products in place. Price orders use the discounted price;
// ties and the default option keep the incoming order.
func Sort(products []model.Product, opt SortOption) {
	switch opt {
	case SortPriceAsc, SortPriceDesc:
		prices := make(map[int]decimal.Decimal, len(products))
		idx := make([]int, len(products))
		for i := range products {
			idx[i] = i
			prices[i] = EffectivePrice(&products[i])
		}
		sort.SliceStable(idx, func(a, b int) bool {
			if opt == SortPriceDesc {
				return prices[idx[a]].GreaterThan(prices[idx[b]])
			}
			return prices[idx[a]].LessThan(prices[idx[b]])
		})
		sorted := make([]model.Product, len(products))
		for i, j := range idx {
			sorted[i] = products[j]
		}
		copy(products, sorted)
	case SortAlphaAsc:
		// collate.Collator is not safe for concurrent use.
		col := collate.New(language.BrazilianPortuguese)
		sort.SliceStable(products, func(a, b int) bool {
			return col.CompareString(products[a].Name, products[b].Name) < 0
		})
	}
}
