package payment

import (
	"context"
	"errors"
	"fmt"

	razorpay "github.com/razorpay/razorpay-go"
	"github.com/shopspring/decimal"
)

var ErrProviderResponse = errors.New("unexpected payment provider response")

// Provider creates orders at the payment gateway.
type Provider interface {
	// CreateOrder registers amount (in major units) with the gateway and
	// returns the gateway's order id.
	CreateOrder(ctx context.Context, amount decimal.Decimal, currency, receipt string) (string, error)
}

// orderCreator is the slice of the razorpay client used here.
type orderCreator interface {
	Create(data map[string]interface{}, extraHeaders map[string]string) (map[string]interface{}, error)
}

// RazorpayProvider talks to Razorpay through razorpay-go.
type RazorpayProvider struct {
	orders orderCreator
}

// NewRazorpayProvider creates a provider authenticated with the key pair.
func NewRazorpayProvider(keyID, keySecret string) *RazorpayProvider {
	client := razorpay.NewClient(keyID, keySecret)
	return &RazorpayProvider{orders: client.Order}
}

// ToMinorUnits converts rupees to paise.
func ToMinorUnits(amount decimal.Decimal) int64 {
	return amount.Shift(2).Round(0).IntPart()
}

func (p *RazorpayProvider) CreateOrder(ctx context.Context, amount decimal.Decimal, currency, receipt string) (string, error) {
	type result struct {
		body map[string]interface{}
		err  error
	}

	// razorpay-go takes no context, so the call is raced against ctx
	done := make(chan result, 1)
	go func() {
		body, err := p.orders.Create(map[string]interface{}{
			"amount":   ToMinorUnits(amount),
			"currency": currency,
			"receipt":  receipt,
		}, nil)
		done <- result{body: body, err: err}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case r := <-done:
		if r.err != nil {
			return "", fmt.Errorf("failed to create razorpay order: %w", r.err)
		}
		id, ok := r.body["id"].(string)
		if !ok || id == "" {
			return "", ErrProviderResponse
		}
		return id, nil
	}
}
