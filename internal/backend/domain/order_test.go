package domain_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stockdesk/frontend/internal/backend/domain"
	envelopeDomain "github.com/stockdesk/frontend/internal/envelope/domain"
	apperrors "github.com/stockdesk/frontend/internal/errors"
)

func limitOrder() domain.Order {
	return domain.Order{
		Symbol:          "aapl",
		OrderType:       domain.OrderTypeLimit,
		Quantity:        10,
		LimitPrice:      decimal.RequireFromString("101.10"),
		StopPrice:       decimal.RequireFromString("99"),
		TimeInForce:     domain.TimeInForceDay,
		TakeProfitCheck: true,
	}
}

func TestOrder_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(o *domain.Order)
		wantErr bool
	}{
		{name: "valid limit order", mutate: func(o *domain.Order) {}},
		{
			name: "market order ignores prices",
			mutate: func(o *domain.Order) {
				o.OrderType = domain.OrderTypeMarket
				o.LimitPrice = decimal.Zero
				o.StopPrice = decimal.Zero
			},
		},
		{name: "missing symbol", mutate: func(o *domain.Order) { o.Symbol = "" }, wantErr: true},
		{name: "unknown order type", mutate: func(o *domain.Order) { o.OrderType = "iceberg" }, wantErr: true},
		{name: "zero quantity", mutate: func(o *domain.Order) { o.Quantity = 0 }, wantErr: true},
		{name: "negative quantity", mutate: func(o *domain.Order) { o.Quantity = -3 }, wantErr: true},
		{name: "limit without price", mutate: func(o *domain.Order) { o.LimitPrice = decimal.Zero }, wantErr: true},
		{
			name: "stop limit without stop price",
			mutate: func(o *domain.Order) {
				o.OrderType = domain.OrderTypeStopLimit
				o.StopPrice = decimal.Zero
			},
			wantErr: true,
		},
		{name: "unknown time in force", mutate: func(o *domain.Order) { o.TimeInForce = "ioc" }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			order := limitOrder()
			tt.mutate(&order)

			err := order.Validate()

			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, domain.ErrInvalidOrder)
			assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
		})
	}
}

func TestOrder_Fields(t *testing.T) {
	t.Run("limit order canonical text", func(t *testing.T) {
		text, err := envelopeDomain.Canonical(limitOrder().Fields())

		require.NoError(t, err)
		assert.Equal(t,
			`{"symbol": "AAPL", "order_type": "limit", "quantity": 10, "limit_price": 101.1, `+
				`"stop_price": 0, "time_in_force": "day", "stop_loss_check": false, "take_profit_check": true}`,
			string(text),
		)
	})

	t.Run("stop limit keeps both prices", func(t *testing.T) {
		order := limitOrder()
		order.OrderType = domain.OrderTypeStopLimit

		fields := order.Fields()

		limit, _ := fields.Get("limit_price")
		stop, _ := fields.Get("stop_price")
		assert.Equal(t, "101.1", limit.(decimal.Decimal).String())
		assert.Equal(t, "99", stop.(decimal.Decimal).String())
	})
}
