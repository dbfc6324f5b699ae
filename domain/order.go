// Package domain holds the wire-level types shared by the order book,
// the matching engine, and the bonding curve: orders, trades, and the
// small enums that describe their side and lifecycle.
//
// Generalized from a fixed single-pair/int64 shape to pair-keyed,
// arbitrary-precision amounts so the same types serve any number of
// trading pairs at any decimal scale.
package domain

import "cosmossdk.io/math"

// Side is the direction of an order.
type Side int

const (
	SideBuy Side = iota
	SideSell
)

func (s Side) String() string {
	if s == SideBuy {
		return "buy"
	}
	return "sell"
}

// Opposite returns the other side.
func (s Side) Opposite() Side {
	if s == SideBuy {
		return SideSell
	}
	return SideBuy
}

// OrderStatus is the lifecycle state of a resting order. There is no
// distinct "partially filled" state: a partial fill is represented as
// Active with FilledAmount > 0.
type OrderStatus int

const (
	OrderStatusActive OrderStatus = iota
	OrderStatusFilled
	OrderStatusCancelled
)

// MarketOrderSentinel fills the counterparty order-id slot on a Trade
// that originated from a taker swap rather than a resting limit order.
const MarketOrderSentinel = "market_order"

// Order is a resting or newly submitted limit order.
type Order struct {
	ID              uint64
	Owner           string
	PairID          string
	TokenAmount     math.Int // original quote amount requested
	Price           math.Int // base-per-quote, smallest units
	Timestamp       int64    // unix seconds at submission
	FilledAmount    math.Int
	RemainingAmount math.Int
	Side            Side
	Status          OrderStatus
}

// NewLimitOrder constructs a fresh, unfilled, Active order.
func NewLimitOrder(id uint64, owner, pairID string, side Side, price, amount math.Int, timestamp int64) *Order {
	return &Order{
		ID:              id,
		Owner:           owner,
		PairID:          pairID,
		TokenAmount:     amount,
		Price:           price,
		Timestamp:       timestamp,
		FilledAmount:    math.ZeroInt(),
		RemainingAmount: amount,
		Side:            side,
		Status:          OrderStatusActive,
	}
}

// IsFilled reports whether the order has no remaining quantity.
func (o *Order) IsFilled() bool { return o.RemainingAmount.IsZero() }

// Fill records a partial or full fill of the given quantity, updating
// status. It assumes quantity <= RemainingAmount — callers (the
// matching engine) never offer more.
func (o *Order) Fill(quantity math.Int) {
	o.FilledAmount = o.FilledAmount.Add(quantity)
	o.RemainingAmount = o.RemainingAmount.Sub(quantity)
	if o.RemainingAmount.IsZero() {
		o.Status = OrderStatusFilled
	}
}

// Cancel marks the order Cancelled. The already-filled portion is not
// touched — it was already exchanged and is not refundable.
func (o *Order) Cancel() { o.Status = OrderStatusCancelled }
