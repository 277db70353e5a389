package domain

import (
	"fmt"
	"strings"

	validation "github.com/jellydator/validation"
	"github.com/shopspring/decimal"

	envelopeDomain "github.com/stockdesk/frontend/internal/envelope/domain"
)

// OrderType is the execution type of an order.
type OrderType string

// Order types.
const (
	OrderTypeMarket    OrderType = "market"
	OrderTypeLimit     OrderType = "limit"
	OrderTypeStop      OrderType = "stop"
	OrderTypeStopLimit OrderType = "stop_limit"
)

// TimeInForce is how long an order stays open.
type TimeInForce string

// Time in force values.
const (
	TimeInForceDay TimeInForce = "day"
	TimeInForceGTC TimeInForce = "gtc"
)

// Order is a trade submitted to the backend as one mapping parameter.
//
// LimitPrice is meaningful for limit and stop_limit orders, StopPrice for stop
// and stop_limit orders. Prices travel as decimals so 101.10 is not turned
// into a binary float on the way.
type Order struct {
	Symbol          string
	OrderType       OrderType
	Quantity        int
	LimitPrice      decimal.Decimal
	StopPrice       decimal.Decimal
	TimeInForce     TimeInForce
	StopLossCheck   bool
	TakeProfitCheck bool
}

func (o Order) needsLimitPrice() bool {
	return o.OrderType == OrderTypeLimit || o.OrderType == OrderTypeStopLimit
}

func (o Order) needsStopPrice() bool {
	return o.OrderType == OrderTypeStop || o.OrderType == OrderTypeStopLimit
}

// Validate checks the order before it is encoded.
func (o Order) Validate() error {
	err := validation.ValidateStruct(&o,
		validation.Field(&o.Symbol, validation.Required, validation.Length(1, 12)),
		validation.Field(&o.OrderType, validation.Required, validation.In(
			OrderTypeMarket, OrderTypeLimit, OrderTypeStop, OrderTypeStopLimit,
		)),
		validation.Field(&o.Quantity, validation.Required, validation.Min(1)),
		validation.Field(&o.LimitPrice, validation.When(o.needsLimitPrice(), validation.By(positiveDecimal))),
		validation.Field(&o.StopPrice, validation.When(o.needsStopPrice(), validation.By(positiveDecimal))),
		validation.Field(&o.TimeInForce, validation.Required, validation.In(TimeInForceDay, TimeInForceGTC)),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidOrder, err)
	}
	return nil
}

func positiveDecimal(value interface{}) error {
	d, ok := value.(decimal.Decimal)
	if !ok {
		return validation.NewError("validation_decimal_type", "must be a decimal")
	}
	if !d.IsPositive() {
		return validation.NewError("validation_decimal_positive", "must be greater than zero")
	}
	return nil
}

// Fields returns the order as the mapping the backend expects. The symbol is
// upper-cased and prices that do not apply to the order type are sent as 0.
func (o Order) Fields() envelopeDomain.Fields {
	limitPrice := decimal.Zero
	if o.needsLimitPrice() {
		limitPrice = o.LimitPrice
	}
	stopPrice := decimal.Zero
	if o.needsStopPrice() {
		stopPrice = o.StopPrice
	}

	return envelopeDomain.Fields{
		{Key: "symbol", Value: strings.ToUpper(o.Symbol)},
		{Key: "order_type", Value: string(o.OrderType)},
		{Key: "quantity", Value: o.Quantity},
		{Key: "limit_price", Value: limitPrice},
		{Key: "stop_price", Value: stopPrice},
		{Key: "time_in_force", Value: string(o.TimeInForce)},
		{Key: "stop_loss_check", Value: o.StopLossCheck},
		{Key: "take_profit_check", Value: o.TakeProfitCheck},
	}
}
