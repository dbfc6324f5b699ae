package domain

import "cosmossdk.io/math"

// Trade records one match between a buy and a sell leg. BuyIsSentinel
// / SellIsSentinel mark a leg as the synthetic taker order a swap
// matches with rather than a resting limit order.
type Trade struct {
	ID              uint64
	PairID          string
	BuyOrderID      uint64
	SellOrderID     uint64
	BuyIsSentinel   bool
	SellIsSentinel  bool
	Buyer           string
	Seller          string
	TokenAmount     math.Int
	Price           math.Int
	Timestamp       int64
	TotalPrice      math.Int
	MakerFeeAmount  math.Int
	TakerFeeAmount  math.Int
}

// NewTrade builds a Trade from a matched buy/sell pair and the
// already-computed fee split. total = tokenAmount*price is passed in
// rather than recomputed so callers keep a single source of truth for
// the multiply.
func NewTrade(id uint64, pairID string, buy, sell *Order, tokenAmount, price, total, makerFee, takerFee math.Int, timestamp int64) *Trade {
	return &Trade{
		ID:             id,
		PairID:         pairID,
		BuyOrderID:     buy.ID,
		SellOrderID:    sell.ID,
		Buyer:          buy.Owner,
		Seller:         sell.Owner,
		TokenAmount:    tokenAmount,
		Price:          price,
		Timestamp:      timestamp,
		TotalPrice:     total,
		MakerFeeAmount: makerFee,
		TakerFeeAmount: takerFee,
	}
}
