package payment

import (
	"context"
	"errors"
	"fmt"
	"math"

	razorpay "github.com/razorpay/razorpay-go"
)

// OrderRequest describes a payment order for a booking.
type OrderRequest struct {
	Receipt string  // booking id
	Amount  float64 // rupees
	Notes   map[string]interface{}
}

type Order struct {
	ID       string `json:"id"`
	Amount   int    `json:"amount"` // paise
	Currency string `json:"currency"`
}

// Gateway creates payment orders.
type Gateway interface {
	CreateOrder(ctx context.Context, req OrderRequest) (*Order, error)
}

// RazorpayGateway creates INR orders through the Razorpay API.
type RazorpayGateway struct {
	client *razorpay.Client
	KeyID  string
}

// NewRazorpayGateway returns nil when either key is missing, so callers can
// skip order creation.
func NewRazorpayGateway(keyID, keySecret string) *RazorpayGateway {
	if keyID == "" || keySecret == "" {
		return nil
	}
	return &RazorpayGateway{
		client: razorpay.NewClient(keyID, keySecret),
		KeyID:  keyID,
	}
}

func (g *RazorpayGateway) CreateOrder(ctx context.Context, req OrderRequest) (*Order, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	amountInPaise := int(math.Round(req.Amount * 100))
	if amountInPaise <= 0 {
		return nil, errors.New("order amount must be positive")
	}

	notes := req.Notes
	if notes == nil {
		notes = map[string]interface{}{}
	}
	data := map[string]interface{}{
		"amount":          amountInPaise,
		"currency":        "INR",
		"receipt":         req.Receipt,
		"payment_capture": 1,
		"notes":           notes,
	}

	order, err := g.client.Order.Create(data, nil)
	if err != nil {
		return nil, fmt.Errorf("razorpay order creation failed: %w", err)
	}

	orderID, ok := order["id"].(string)
	if !ok {
		return nil, errors.New("unable to extract order_id from Razorpay response")
	}
	return &Order{ID: orderID, Amount: amountInPaise, Currency: "INR"}, nil
}
