package catalog

import (
	"errors"
	"math"
	"strings"

	"github.com/DaviAleixo/pollyana3-sub000/internal/model"

	"github.com/google/uuid"
)

var (
	ErrColorName      = errors.New("nome da cor é obrigatório")
	ErrDuplicateColor = errors.New("cor repetida no produto")
	ErrColorChars     = errors.New("nome da cor não pode conter \"/\" nem \"|\"")
	ErrSizeScheme     = errors.New("grade de tamanhos inválida")
)

var (
	letterSizes  = []string{"PP", "P", "M", "G", "GG"}
	numericSizes = []string{"34", "36", "38", "40", "42", "44", "46", "48"}
)

// SizeLabels returns the size labels of a scheme in display order, or nil
// for an unknown scheme.
func SizeLabels(scheme string) []string {
	switch scheme {
	case model.SizeSchemeLetters:
		return append([]string(nil), letterSizes...)
	case model.SizeSchemeNumeric:
		return append([]string(nil), numericSizes...)
	}
	return nil
}

type variantKey struct{ color, size string }

// GenerateVariants builds the color × size matrix. Combinations already in
// existing keep their ID and stock; new ones start at zero with an ID from
// newID (uuid when nil).
func GenerateVariants(existing []model.ProductVariant, colors, sizes []string, newID func() string) []model.ProductVariant {
	if newID == nil {
		newID = uuid.NewString
	}
	prev := make(map[variantKey]model.ProductVariant, len(existing))
	for _, v := range existing {
		prev[variantKey{v.Color, v.Size}] = v
	}

	out := make([]model.ProductVariant, 0, len(colors)*len(sizes))
	seen := make(map[variantKey]bool, len(colors)*len(sizes))
	for _, color := range colors {
		for _, size := range sizes {
			k := variantKey{color, size}
			if seen[k] {
				continue
			}
			seen[k] = true
			if v, ok := prev[k]; ok {
				out = append(out, v)
				continue
			}
			out = append(out, model.ProductVariant{ID: newID(), Color: color, Size: size})
		}
	}
	return out
}

// SumVariants adds up variant stock.
func SumVariants(variants []model.ProductVariant) int {
	total := 0
	for _, v := range variants {
		total = AddStock(total, v.Stock)
	}
	return total
}

// AggregateStock is the sellable total of a product: the variant sum when
// variants exist, the product's own stock otherwise.
func AggregateStock(p *model.Product) int {
	if p.HasVariants() {
		return SumVariants(p.Variants)
	}
	return p.Stock
}

// SyncAggregate refreshes p.Stock from the variants.
func SyncAggregate(p *model.Product) {
	p.Stock = AggregateStock(p)
}

// AdjustVariant applies delta to the variant with id, clamping at zero.
// The input slice is not modified. found is false (and nothing changes)
// when id is not in the list.
func AdjustVariant(variants []model.ProductVariant, id string, delta int) (updated []model.ProductVariant, before, after int, found bool) {
	updated = append([]model.ProductVariant(nil), variants...)
	for i := range updated {
		if updated[i].ID != id {
			continue
		}
		before = updated[i].Stock
		after = AddStock(before, delta)
		updated[i].Stock = after
		return updated, before, after, true
	}
	return variants, 0, 0, false
}

// AddStock returns stock+delta floored at zero, saturating at math.MaxInt
// instead of wrapping.
func AddStock(stock, delta int) int {
	if delta > 0 && stock > math.MaxInt-delta {
		return math.MaxInt
	}
	return ClampStock(stock + delta)
}

// ClampStock floors n at zero.
func ClampStock(n int) int {
	if n < 0 {
		return 0
	}
	return n
}

// FindVariant looks a variant up by color and size.
func FindVariant(variants []model.ProductVariant, color, size string) (model.ProductVariant, bool) {
	for _, v := range variants {
		if v.Color == color && v.Size == size {
			return v, true
		}
	}
	return model.ProductVariant{}, false
}

// AvailableColors lists the palette colors that still have stock in some size.
func AvailableColors(p *model.Product) []string {
	inStock := make(map[string]bool)
	for _, v := range p.Variants {
		if v.Stock > 0 {
			inStock[v.Color] = true
		}
	}
	out := []string{}
	for _, c := range p.Colors {
		if inStock[c.Name] {
			out = append(out, c.Name)
		}
	}
	return out
}

// AvailableSizes lists the sizes of color that have stock, in matrix order.
func AvailableSizes(p *model.Product, color string) []string {
	out := []string{}
	for _, v := range p.Variants {
		if v.Color == color && v.Stock > 0 {
			out = append(out, v.Size)
		}
	}
	return out
}

// ColorNames extracts the palette names in order.
func ColorNames(colors []model.ProductColor) []string {
	names := make([]string, 0, len(colors))
	for _, c := range colors {
		names = append(names, c.Name)
	}
	return names
}

// ValidateColors enforces non-empty, case-insensitively unique color names.
// Names end up inside cart line ids, which travel as one URL path segment.
func ValidateColors(colors []model.ProductColor) error {
	seen := make(map[string]bool, len(colors))
	for _, c := range colors {
		name := strings.ToLower(strings.TrimSpace(c.Name))
		if name == "" {
			return ErrColorName
		}
		if strings.ContainsAny(name, "/|") {
			return ErrColorChars
		}
		if seen[name] {
			return ErrDuplicateColor
		}
		seen[name] = true
	}
	return nil
}
