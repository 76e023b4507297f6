package payment

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ConvenienceFee is added to the ticket subtotal at checkout.
const ConvenienceFee = 0.05

// ParseAmount reads a display amount such as "₹1,499.50" by keeping only
// digits and dots. Unparseable input ("Free", "") is zero.
func ParseAmount(s string) float64 {
	var b strings.Builder
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '.' {
			b.WriteRune(r)
		}
	}
	v, err := strconv.ParseFloat(b.String(), 64)
	if err != nil {
		return 0
	}
	return v
}

// FormatINR renders a rounded rupee amount, e.g. "₹1050".
func FormatINR(amount float64) string {
	return fmt.Sprintf("₹%d", int64(math.Round(amount)))
}

// CheckoutTotal is price * tickets plus the convenience fee, rounded.
func CheckoutTotal(price string, tickets int) string {
	return FormatINR(ParseAmount(price) * float64(tickets) * (1 + ConvenienceFee))
}
