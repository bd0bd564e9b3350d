package catalog

import (
	"errors"
	"time"

	"github.com/DaviAleixo/pollyana3-sub000/internal/model"
)

var ErrLaunchExpiry = errors.New("validade do lançamento deve ser uma data futura")

// IsLaunchValid reports whether the product belongs in "new arrivals".
// LaunchExpiresAt is not consulted, same as the discount expiry.
func IsLaunchValid(p *model.Product) bool {
	return p.IsLaunch && p.Active && p.Visible
}

// ValidateLaunch checks the launch fields of an admin form.
func ValidateLaunch(isLaunch bool, expiresAt *time.Time, now time.Time) error {
	if isLaunch && expiresAt != nil && !expiresAt.After(now) {
		return ErrLaunchExpiry
	}
	return nil
}

// NewArrivals keeps the launch-valid products, preserving order.
func NewArrivals(products []model.Product) []model.Product {
	out := make([]model.Product, 0, len(products))
	for i := range products {
		if IsLaunchValid(&products[i]) {
			out = append(out, products[i])
		}
	}
	return out
}
