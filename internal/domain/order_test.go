package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var allStatuses = []OrderStatus{
	OrderStatusPending,
	OrderStatusConfirmed,
	OrderStatusPacked,
	OrderStatusShipped,
	OrderStatusDelivered,
	OrderStatusCancelled,
}

func TestOrderStatus_Transitions(t *testing.T) {
	tests := []struct {
		from, to OrderStatus
		allowed  bool
	}{
		{OrderStatusPending, OrderStatusConfirmed, true},
		{OrderStatusPending, OrderStatusShipped, true},
		{OrderStatusShipped, OrderStatusDelivered, true},
		{OrderStatusPacked, OrderStatusCancelled, true},
		{OrderStatusShipped, OrderStatusPending, false},
		{OrderStatusConfirmed, OrderStatusConfirmed, false},
		{OrderStatusDelivered, OrderStatusCancelled, false},
		{OrderStatusCancelled, OrderStatusPending, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.allowed, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestProperty_TerminalStatesHaveNoExit(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("delivered and cancelled never transition", prop.ForAll(
		func(i int) bool {
			next := allStatuses[i]
			return !OrderStatusDelivered.CanTransitionTo(next) &&
				!OrderStatusCancelled.CanTransitionTo(next)
		},
		gen.IntRange(0, len(allStatuses)-1),
	))

	properties.Property("non-cancel transitions only move forward", prop.ForAll(
		func(i, j int) bool {
			from, to := allStatuses[i], allStatuses[j]
			if to == OrderStatusCancelled || !from.CanTransitionTo(to) {
				return true
			}
			return statusRank[to] > statusRank[from]
		},
		gen.IntRange(0, len(allStatuses)-1),
		gen.IntRange(0, len(allStatuses)-1),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestParseOrderStatus(t *testing.T) {
	status, err := ParseOrderStatus(" Accepted ")
	require.NoError(t, err)
	assert.Equal(t, OrderStatusConfirmed, status)

	status, err = ParseOrderStatus("SHIPPED")
	require.NoError(t, err)
	assert.Equal(t, OrderStatusShipped, status)

	_, err = ParseOrderStatus("lost")
	assert.Error(t, err)
}

func TestTotal_SumsPriceTimesQuantity(t *testing.T) {
	items := []OrderItem{
		{ProductID: uuid.New(), Quantity: 2, Price: decimal.NewFromInt(100)},
		{ProductID: uuid.New(), Quantity: 1, Price: decimal.NewFromInt(50)},
	}

	assert.True(t, Total(items).Equal(decimal.NewFromInt(250)))
}

func TestOrder_ContainsProduct(t *testing.T) {
	productID := uuid.New()
	order := &Order{Items: []OrderItem{{ProductID: productID, Quantity: 1}}}

	assert.True(t, order.ContainsProduct(productID))
	assert.False(t, order.ContainsProduct(uuid.New()))
}

func TestAddress_ScanRoundTrip(t *testing.T) {
	addr := Address{FullName: "Asha", Phone: "999", Line1: "1 Main", City: "Pune", State: "MH", PostalCode: "411001"}

	v, err := addr.Value()
	require.NoError(t, err)

	var scanned Address
	require.NoError(t, scanned.Scan(v))
	assert.Equal(t, addr, scanned)
}
