package catalog

import (
	"testing"

	"github.com/DaviAleixo/pollyana3-sub000/internal/model"

	"github.com/stretchr/testify/assert"
)

func names(products []model.Product) []string {
	out := make([]string, 0, len(products))
	for _, p := range products {
		out = append(out, p.Name)
	}
	return out
}

func catalogFixture() []model.Product {
	return []model.Product{
		{Name: "Zebra Top", Price: dec("50"), CategoryID: 5},
		{Name: "Alpha Tee", Price: dec("30"), CategoryID: 6, DiscountActive: true, DiscountType: model.DiscountPercentage, DiscountValue: dec("50")},
		{Name: "Vestido Midi", Description: "tecido leve", Price: dec("120"), CategoryID: 4},
		{Name: "Cropped Canelado", Price: dec("45"), CategoryID: 7, DiscountActive: true, DiscountType: model.DiscountFixed, DiscountValue: dec("40")},
		{Name: "Édipo Shirt", Price: dec("80"), CategoryID: 6},
	}
}

func TestSort_PriceUsesEffectivePrice(t *testing.T) {
	products := []model.Product{
		{Name: "Zebra Top", Price: dec("50")},
		{Name: "Alpha Tee", Price: dec("30"), DiscountActive: true, DiscountType: model.DiscountPercentage, DiscountValue: dec("50")},
	}

	asc := Apply(products, nil, Query{Sort: SortPriceAsc})
	assert.Equal(t, []string{"Alpha Tee", "Zebra Top"}, names(asc))

	alpha := Apply(products, nil, Query{Sort: SortAlphaAsc})
	assert.Equal(t, []string{"Alpha Tee", "Zebra Top"}, names(alpha))

	desc := Apply(products, nil, Query{Sort: SortPriceDesc})
	assert.Equal(t, []string{"Zebra Top", "Alpha Tee"}, names(desc))
}

func TestSort_DefaultKeepsOrder(t *testing.T) {
	got := Apply(catalogFixture(), nil, Query{Sort: SortDefault})
	assert.Equal(t, names(catalogFixture()), names(got))
}

func TestSort_AlphaIsLocaleAware(t *testing.T) {
	products := []model.Product{{Name: "Zebra"}, {Name: "Édipo"}, {Name: "eva"}, {Name: "Ana"}}
	Sort(products, SortAlphaAsc)
	assert.Equal(t, []string{"Ana", "Édipo", "eva", "Zebra"}, names(products))
}

func TestFilterCategory(t *testing.T) {
	tree := sampleTree()
	products := catalogFixture()

	women := Apply(products, tree, Query{CategoryID: 2})
	assert.Equal(t, []string{"Zebra Top", "Vestido Midi", "Cropped Canelado"}, names(women))

	all := Apply(products, tree, Query{CategoryID: model.RootCategoryID})
	assert.Len(t, all, len(products))

	promo := Apply(products, tree, Query{Promotion: true, CategoryID: 3})
	assert.Equal(t, []string{"Alpha Tee", "Cropped Canelado"}, names(promo))

	assert.Empty(t, Apply(products, tree, Query{CategoryID: 404}))
}

func TestSearch(t *testing.T) {
	tree := sampleTree()
	products := catalogFixture()

	assert.Equal(t, []string{"Vestido Midi"}, names(Apply(products, tree, Query{Search: "  TECIDO "})))
	assert.Equal(t, []string{"Alpha Tee", "Édipo Shirt"}, names(Apply(products, tree, Query{Search: "camisa"})))
	assert.Len(t, Apply(products, tree, Query{Search: "   "}), len(products))
}

func TestApply_ComposesInOrder(t *testing.T) {
	got := Apply(catalogFixture(), sampleTree(), Query{CategoryID: 2, Search: "o", Sort: SortPriceAsc})
	assert.Equal(t, []string{"Cropped Canelado", "Zebra Top", "Vestido Midi"}, names(got))
}

func TestParseSort(t *testing.T) {
	assert.Equal(t, SortPriceAsc, ParseSort("price_asc"))
	assert.Equal(t, SortAlphaAsc, ParseSort("alpha_asc"))
	assert.Equal(t, SortDefault, ParseSort("newest"))
}
