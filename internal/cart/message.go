package cart

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/DaviAleixo/pollyana3-sub000/internal/model"

	"github.com/shopspring/decimal"
)

// Address is the delivery block of a checkout message.
type Address struct {
	Name       string `json:"name" validate:"required"`
	Phone      string `json:"phone"`
	Street     string `json:"street" validate:"required"`
	Number     string `json:"number" validate:"required"`
	Complement string `json:"complement"`
	District   string `json:"district"`
	City       string `json:"city" validate:"required"`
	State      string `json:"state"`
	PostalCode string `json:"postal_code"`
	Notes      string `json:"notes"`
}

// ShippingOption is the resolved delivery fee. Fee nil means the fee is
// agreed over chat.
type ShippingOption struct {
	Label         string           `json:"label"`
	Fee           *decimal.Decimal `json:"fee"`
	Free          bool             `json:"free"`
	EstimatedDays int              `json:"estimated_days,omitempty"`
}

// GrandTotal adds the shipping fee to subtotal when it is known and charged.
func (s ShippingOption) GrandTotal(subtotal decimal.Decimal) decimal.Decimal {
	if s.Free || s.Fee == nil {
		return subtotal
	}
	return subtotal.Add(*s.Fee)
}

// CheckoutMessage formats the order summary sent to the store over chat.
func CheckoutMessage(storeName string, items []Item, addr Address, ship ShippingOption) string {
	totals := ComputeTotals(items)

	var b strings.Builder
	fmt.Fprintf(&b, "*Novo pedido - %s*\n\n", storeName)

	b.WriteString("*Itens:*\n")
	for i, it := range items {
		fmt.Fprintf(&b, "%d. %s", i+1, it.Name)
		if variant := variantLabel(it); variant != "" {
			fmt.Fprintf(&b, " (%s)", variant)
		}
		b.WriteString("\n")
		fmt.Fprintf(&b, "   %d x %s = %s\n", it.Quantity, FormatBRL(it.DiscountedPrice), FormatBRL(it.LineTotal()))
		if it.HasDiscount() {
			fmt.Fprintf(&b, "   _De %s por %s (%s)_\n", FormatBRL(it.OriginalPrice), FormatBRL(it.DiscountedPrice), discountLabel(it))
		}
	}

	fmt.Fprintf(&b, "\n*Subtotal:* %s\n", FormatBRL(totals.TotalPrice))
	if totals.TotalSavings.IsPositive() {
		fmt.Fprintf(&b, "*Você economizou:* %s\n", FormatBRL(totals.TotalSavings))
	}
	b.WriteString("*Frete:* " + shippingLabel(ship) + "\n")
	fmt.Fprintf(&b, "*Total:* %s", FormatBRL(ship.GrandTotal(totals.TotalPrice)))
	if ship.Fee == nil && !ship.Free {
		b.WriteString(" + frete")
	}
	b.WriteString("\n\n")

	b.WriteString("*Endereço de entrega:*\n")
	b.WriteString(addr.Name + "\n")
	if addr.Phone != "" {
		b.WriteString(addr.Phone + "\n")
	}
	street := addr.Street + ", " + addr.Number
	if addr.Complement != "" {
		street += " - " + addr.Complement
	}
	b.WriteString(street + "\n")
	city := addr.City
	if addr.State != "" {
		city += "/" + addr.State
	}
	if addr.District != "" {
		city = addr.District + " - " + city
	}
	b.WriteString(city + "\n")
	if addr.PostalCode != "" {
		b.WriteString("CEP " + addr.PostalCode + "\n")
	}
	if addr.Notes != "" {
		b.WriteString("Obs: " + addr.Notes + "\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func variantLabel(it Item) string {
	switch {
	case it.Color != "" && it.Size != "":
		return it.Color + " / " + it.Size
	case it.Color != "":
		return it.Color
	default:
		return it.Size
	}
}

func discountLabel(it Item) string {
	if it.DiscountValue == nil {
		return "promoção"
	}
	if it.DiscountType == model.DiscountPercentage {
		return it.DiscountValue.String() + "% OFF"
	}
	return FormatBRL(*it.DiscountValue) + " OFF"
}

func shippingLabel(s ShippingOption) string {
	var label string
	switch {
	case s.Free:
		label = "Grátis"
	case s.Fee == nil:
		label = "A combinar"
	default:
		label = FormatBRL(*s.Fee)
	}
	if s.Label != "" {
		label += " (" + s.Label + ")"
	}
	if s.EstimatedDays > 0 {
		label += fmt.Sprintf(" - até %d dias úteis", s.EstimatedDays)
	}
	return label
}

// FormatBRL renders an amount as "R$ 1.234,56".
func FormatBRL(d decimal.Decimal) string {
	s := d.StringFixed(2)
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")
	intPart, frac, _ := strings.Cut(s, ".")

	var grouped strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			grouped.WriteByte('.')
		}
		grouped.WriteRune(r)
	}
	out := "R$ " + grouped.String() + "," + frac
	if neg {
		out = "-" + out
	}
	return out
}

// WhatsAppLink builds the wa.me deep link that opens a chat with number
// prefilled with message. Non-digits are stripped from number.
func WhatsAppLink(number, message string) string {
	var digits strings.Builder
	for _, r := range number {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	text := strings.ReplaceAll(url.QueryEscape(message), "+", "%20")
	return "https://wa.me/" + digits.String() + "?text=" + text
}
