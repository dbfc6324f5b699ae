// Package matching implements the cross-book matching algorithm: given
// a pair's order book and the side that just changed, walk the
// opposite side best-first and emit trades until either side is
// exhausted of crossable liquidity.
//
// Grounded on the teacher's MatchingEngine (ccyyhlg lightning-exchange,
// matching/engine.go), which ran one matching goroutine per symbol
// reading off a lock-free ring buffer. This system's operations are
// single-threaded and transactional end to end (every external call
// runs to completion with exclusive access to engine state before the
// next one starts), so the goroutine, channel, and ring-buffer
// machinery is dropped; matchBuyOrder/matchSellOrder's nested
// best-price walk and executeTrade's fill/fee bookkeeping are kept and
// generalized from a single resting order per level to the full
// FIFO-queue-per-level walk the specification requires. Both fee legs
// come out of the seller's proceeds, so no timestamp comparison is
// needed to decide which order is maker.
package matching

import (
	"math/big"

	"cosmossdk.io/math"

	"github.com/ledgerforge/bondex/domain"
	"github.com/ledgerforge/bondex/effects"
	"github.com/ledgerforge/bondex/errs"
	"github.com/ledgerforge/bondex/fixedpoint"
	"github.com/ledgerforge/bondex/orderbook"
)

// Engine matches one pair's order book. It holds no state of its own
// beyond the id generators, which are process-wide counters shared
// across pairs (NEXT_TRADE_ID is global, not per-pair).
type Engine struct {
	tradeIDs *IDGenerator
}

// NewEngine builds a matching engine sharing tradeIDs as its trade-id
// source. Callers construct one IDGenerator for the whole process and
// pass it to every pair's Engine.
func NewEngine(tradeIDs *IDGenerator) *Engine {
	return &Engine{tradeIDs: tradeIDs}
}

// Run executes the matching algorithm for one operation: it walks
// book best-first from the initiating side, matching against the
// opposite side, and returns every trade produced in deterministic
// emission order. It mutates order remaining/filled/status in place
// and removes fully filled orders from book. Run emits no effects
// itself; the caller builds them from the returned trades with
// BuildEffects.
//
// makerFee and takerFee are the config-wide fee rates in effect for
// this operation. now is the commit timestamp used for every Trade
// emitted (not the resting orders' own timestamps, which are only used
// for maker/taker determination).
func (e *Engine) Run(book *orderbook.Book, initiating domain.Side, makerFee, takerFee fixedpoint.FixedDecimal, now int64) ([]*domain.Trade, error) {
	switch initiating {
	case domain.SideBuy:
		return e.match(book, domain.SideBuy, makerFee, takerFee, now)
	default:
		return e.match(book, domain.SideSell, makerFee, takerFee, now)
	}
}

// match implements spec §4.3's algorithm for initiator=Buy, symmetric
// for Sell by swapping which side is walked outer vs inner. Every
// trade clears at the sell order's price (see executeTrade): the
// resting side's price when a buy initiates, the initiating order's
// own price when a sell initiates.
func (e *Engine) match(book *orderbook.Book, initiating domain.Side, makerFee, takerFee fixedpoint.FixedDecimal, now int64) ([]*domain.Trade, error) {
	resting := initiating.Opposite()
	var trades []*domain.Trade
	journal := orderbook.NewJournal(book)
	tradeIDsFrom := e.tradeIDs.Peek()

	for {
		outerLevel := book.BestLevel(initiating)
		if outerLevel == nil || len(outerLevel.Orders) == 0 {
			break
		}
		outerOrder := outerLevel.Orders[0]
		if outerOrder.RemainingAmount.IsZero() {
			journal.Remove(initiating, outerOrder)
			continue
		}

		innerLevel := book.BestLevel(resting)
		if innerLevel == nil || len(innerLevel.Orders) == 0 {
			break
		}
		if !crosses(initiating, outerOrder.Price, innerLevel.Price) {
			break
		}
		innerOrder := innerLevel.Orders[0]
		if innerOrder.RemainingAmount.IsZero() {
			journal.Remove(resting, innerOrder)
			continue
		}

		var buy, sell *domain.Order
		if initiating == domain.SideBuy {
			buy, sell = outerOrder, innerOrder
		} else {
			buy, sell = innerOrder, outerOrder
		}

		trade, err := e.executeTrade(journal, buy, sell, makerFee, takerFee, now)
		if err != nil {
			// A mid-loop failure (only checkedMul's overflow guard, or
			// fees exceeding the trade total) must not leave the trades
			// already produced by earlier iterations applied: per
			// spec's "any overflow fails the operation atomically",
			// this whole call either fully commits or leaves book,
			// orders, and the trade-id counter exactly as found.
			journal.Rollback()
			e.tradeIDs.Rollback(tradeIDsFrom)
			return nil, err
		}
		trades = append(trades, trade)

		if buy.IsFilled() {
			journal.Remove(domain.SideBuy, buy)
		}
		if sell.IsFilled() {
			journal.Remove(domain.SideSell, sell)
		}
	}

	book.Cleanup()
	return trades, nil
}

// crosses reports whether the initiating order's price crosses the
// resting side's best price: a buy crosses when buy_price >=
// sell_price; a sell crosses when sell_price <= buy_price.
func crosses(initiating domain.Side, initiatingPrice, restingPrice math.Int) bool {
	if initiating == domain.SideBuy {
		return initiatingPrice.GTE(restingPrice)
	}
	return initiatingPrice.LTE(restingPrice)
}

// executeTrade matches buy against sell at the sell order's price,
// computes both fee legs, fills both orders, and returns the Trade; it
// emits no transfer effects (see BuildEffects). It does not itself
// know which side initiated; that is only relevant for the caller's
// removal order.
//
// Every error return happens before buy/sell are touched, so a caller
// never needs to roll back executeTrade's own failure — only the
// journal entries from trades it already completed in earlier loop
// iterations.
func (e *Engine) executeTrade(journal *orderbook.Journal, buy, sell *domain.Order, makerFee, takerFee fixedpoint.FixedDecimal, now int64) (*domain.Trade, error) {
	amount := minInt(buy.RemainingAmount, sell.RemainingAmount)
	price := sell.Price

	total, err := checkedMul(amount, price)
	if err != nil {
		return nil, err
	}

	// Both fee legs are computed on the trade total and both are
	// deducted from the seller's proceeds, so which order is maker
	// changes no amount; no timestamp comparison is made.
	// MakerFeeAmount is always total*makerFee and TakerFeeAmount
	// total*takerFee.
	makerFeeAmt := fixedpoint.CeilFeeOnInt(total, makerFee)
	takerFeeAmt := fixedpoint.CeilFeeOnInt(total, takerFee)

	sellerReceives := total.Sub(makerFeeAmt).Sub(takerFeeAmt)
	if sellerReceives.IsNegative() {
		return nil, errs.ErrArithmetic.Wrap("fees exceed trade total")
	}

	journal.Touch(buy)
	journal.Touch(sell)
	buy.Fill(amount)
	sell.Fill(amount)

	tradeID := e.tradeIDs.Next()
	trade := domain.NewTrade(tradeID, buy.PairID, buy, sell, amount, price, total, makerFeeAmt, takerFeeAmt, now)

	return trade, nil
}

func minInt(a, b math.Int) math.Int {
	if a.LT(b) {
		return a
	}
	return b
}

func checkedMul(a, b math.Int) (math.Int, error) {
	// Multiply on big.Int directly: math.Int.Mul panics past
	// math.MaxBitLen instead of returning an error.
	product := new(big.Int).Mul(a.BigInt(), b.BigInt())
	if product.Sign() < 0 || product.BitLen() > math.MaxBitLen {
		return math.ZeroInt(), errs.ErrArithmetic.Wrap("overflow computing trade total")
	}
	return math.NewIntFromBigInt(product), nil
}

// Checkpoint captures everything MatchTaker mutated on a successful
// run, so a caller composing a larger transactional operation around
// it — SwapRouter's curve leg — can still undo it later if that later
// step fails. A Checkpoint from a run that itself returned an error is
// always the zero value and must not be rolled back (MatchTaker has
// already undone its own failure before returning).
type Checkpoint struct {
	journal      *orderbook.Journal
	tradeIDsFrom uint64
}

// Rollback undoes every order, book, and trade-id mutation recorded in
// cp. Calling it with the zero Checkpoint is a no-op.
func (e *Engine) Rollback(cp Checkpoint) {
	if cp.journal == nil {
		return
	}
	cp.journal.Rollback()
	e.tradeIDs.Rollback(cp.tradeIDsFrom)
}

// MatchTaker consumes resting liquidity on the opposite side of
// takerSide against a synthetic, unbooked taker order: the book
// path of SwapRouter (spec §4.5), which never rests on the book and
// is never itself a persisted Order. The synthetic leg is recorded on
// each Trade with the matching BuyIsSentinel/SellIsSentinel flag set
// and order id 0, per spec §3's "market_order" sentinel convention.
// now is used as the taker's timestamp, making every resting order
// the maker (it was necessarily submitted earlier) — consistent with
// spec §9's tiebreak rule generalized to the always-tie case a
// synthetic taker produces.
//
// minReturn ends the walk early once the accumulated return meets it,
// per spec §4.5's "stop early only when remaining = 0 or return_so_far
// ≥ min_return" rule — the book leg must not over-consume liquidity
// once the taker's slippage floor is already satisfied. The check runs
// after each match, not before: a zero minReturn (no slippage floor)
// must still consume one match's worth of resting liquidity before the
// "already satisfied" condition can ever be true, matching the
// original match_limit_orders, which checks total_return_amount >=
// min_return only once a trade has executed. Per spec §9(a),
// return_so_far accumulates each trade's total_price (match_amount *
// price), i.e. it is always base-denominated, the same quantity
// SwapRouter's reduced curve-leg budget then subtracts from minReturn
// — not the matched quote-unit count the buggy source revision used.
//
// Returns the trades produced, the quote-token amount matched (the
// taker's own "amount" units consumed), the cumulative
// base-denominated return_so_far, and a Checkpoint the caller must
// either discard (on overall success) or pass to Rollback (if a later
// leg composed around this call fails) to keep the whole operation
// all-or-nothing. On error, the zero Checkpoint is returned: this call
// has already undone its own partial mutations before returning.
func (e *Engine) MatchTaker(book *orderbook.Book, takerSide domain.Side, takerOwner string, amount, minReturn math.Int, makerFee, takerFee fixedpoint.FixedDecimal, now int64) ([]*domain.Trade, math.Int, math.Int, Checkpoint, error) {
	resting := takerSide.Opposite()
	var trades []*domain.Trade
	matched := math.ZeroInt()
	totalReturn := math.ZeroInt()
	journal := orderbook.NewJournal(book)
	tradeIDsFrom := e.tradeIDs.Peek()

	for matched.LT(amount) {
		level := book.BestLevel(resting)
		if level == nil || len(level.Orders) == 0 {
			break
		}
		restingOrder := level.Orders[0]
		if restingOrder.RemainingAmount.IsZero() {
			journal.Remove(resting, restingOrder)
			continue
		}

		remaining := amount.Sub(matched)
		taker := &domain.Order{
			ID:              0,
			Owner:           takerOwner,
			PairID:          restingOrder.PairID,
			Side:            takerSide,
			TokenAmount:     remaining,
			Price:           restingOrder.Price,
			Timestamp:       now,
			FilledAmount:    math.ZeroInt(),
			RemainingAmount: remaining,
			Status:          domain.OrderStatusActive,
		}

		var buy, sell *domain.Order
		if takerSide == domain.SideBuy {
			buy, sell = taker, restingOrder
		} else {
			buy, sell = restingOrder, taker
		}

		fillAmt := minInt(buy.RemainingAmount, sell.RemainingAmount)
		trade, err := e.executeTrade(journal, buy, sell, makerFee, takerFee, now)
		if err != nil {
			// Same atomicity requirement as match(): a mid-loop failure
			// must not leave earlier iterations' fills/removals applied.
			journal.Rollback()
			e.tradeIDs.Rollback(tradeIDsFrom)
			return nil, math.ZeroInt(), math.ZeroInt(), Checkpoint{}, err
		}
		if takerSide == domain.SideBuy {
			trade.SellOrderID, trade.SellIsSentinel = 0, true
		} else {
			trade.BuyOrderID, trade.BuyIsSentinel = 0, true
		}
		totalReturn = totalReturn.Add(trade.TotalPrice)
		trades = append(trades, trade)
		matched = matched.Add(fillAmt)

		if restingOrder.IsFilled() {
			journal.Remove(resting, restingOrder)
		}

		if totalReturn.GTE(minReturn) {
			break
		}
	}

	book.Cleanup()
	return trades, matched, totalReturn, Checkpoint{journal: journal, tradeIDsFrom: tradeIDsFrom}, nil
}

// BuildEffects appends the three transfer effects spec §4.3 requires
// per matched trade: buyer receives quote tokens, seller receives net
// base proceeds, fee collector receives both fee legs.
func BuildEffects(eb *effects.Builder, trade *domain.Trade, tokenID, feeCollector string) {
	eb.TransferQuote(trade.Buyer, tokenID, trade.TokenAmount)
	sellerReceives := trade.TotalPrice.Sub(trade.MakerFeeAmount).Sub(trade.TakerFeeAmount)
	eb.TransferBase(trade.Seller, sellerReceives)
	totalFee := trade.MakerFeeAmount.Add(trade.TakerFeeAmount)
	if totalFee.IsPositive() {
		eb.TransferBase(feeCollector, totalFee)
	}
}
