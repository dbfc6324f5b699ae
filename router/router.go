// Package router implements swap composition: consume resting
// order-book liquidity first, then fall back to the bonding curve for
// any residual amount, all under one `min_return` slippage budget.
//
// This package favors small, explicit structs over interfaces where
// only one implementation exists, and wraps errors via
// cosmossdk.io/errors, matching this module's general style elsewhere.
// The reduced-slippage-budget handoff to the curve leg subtracts the
// accumulated trade *return* (return_so_far), never the raw matched
// quote-unit count — a unit mismatch that a naive implementation can
// introduce by subtracting the wrong accumulator.
package router

import (
	"cosmossdk.io/math"

	"github.com/ledgerforge/bondex/curve"
	"github.com/ledgerforge/bondex/domain"
	"github.com/ledgerforge/bondex/effects"
	"github.com/ledgerforge/bondex/errs"
	"github.com/ledgerforge/bondex/fixedpoint"
	"github.com/ledgerforge/bondex/matching"
	"github.com/ledgerforge/bondex/orderbook"
)

// Router composes one matching.Engine against one pair's book and,
// when liquidity is insufficient, one curve.Pool.
type Router struct {
	engine *matching.Engine
}

// New builds a Router sharing the given matching engine (and thus its
// trade-id generator) across every pair.
func New(engine *matching.Engine) *Router {
	return &Router{engine: engine}
}

// Result summarizes one Swap's outcome for the caller to persist and
// to build query responses from.
type Result struct {
	Trades        []*domain.Trade
	MatchedByBook math.Int // amount satisfied by the order book leg
	CurveAmount   math.Int // residual amount forwarded to the curve, zero if none
	CurveReturn   math.Int // tokens/base received from the curve leg, zero if none
	TotalReturn   math.Int // return_so_far after the book leg (see MatchTaker), plus CurveReturn
}

// Params bundles a swap's invocation inputs that aren't part of the
// engine state it operates on.
type Params struct {
	TakerOwner     string
	TokenID        string
	FeeCollector   string
	Side           domain.Side
	Amount         math.Int
	MinReturn      math.Int
	CurveSupplyCap math.Int // config.bonding_curve_supply
	QuoteDecimals  uint32
	MakerFee       fixedpoint.FixedDecimal
	TakerFee       fixedpoint.FixedDecimal
	Now            int64
}

// Swap executes one taker swap: book first, curve for the residual.
// pool may be nil if the token has already graduated, in which case a
// book shortfall fails the whole swap (no bonding-curve leg exists
// post-graduation). The returned effects.Builder is only populated on
// success; callers must not flush it when err != nil.
//
// The two legs share one slippage budget but are two independent
// failure points: the book leg commits its fills/removals against the
// live book as it runs, then hands back a matching.Checkpoint. If
// anything after that — a missing pool, or the curve leg's own
// slippage/liquidity/supply-cap check — fails, Swap rolls the
// checkpoint back before returning, so a failed swap never leaves a
// partial book-side fill behind. Per spec, the whole call is
// all-or-nothing across both legs.
func (r *Router) Swap(book *orderbook.Book, pool *curve.Pool, p Params) (*Result, *effects.Builder, error) {
	eb := &effects.Builder{}

	trades, matched, returnFromBook, cp, err := r.engine.MatchTaker(book, p.Side, p.TakerOwner, p.Amount, p.MinReturn, p.MakerFee, p.TakerFee, p.Now)
	if err != nil {
		return nil, nil, err
	}

	res := &Result{
		Trades:        trades,
		MatchedByBook: matched,
		CurveAmount:   math.ZeroInt(),
		CurveReturn:   math.ZeroInt(),
		TotalReturn:   returnFromBook,
	}

	remaining := p.Amount.Sub(matched)

	// A nonzero residual always falls through to the curve, even if the
	// book leg already returned enough to satisfy min_return on its
	// own: the curve call is gated only on the residual amount being
	// nonzero, never on whether the book leg already cleared min_return.
	if remaining.IsZero() {
		emitBookEffects(eb, trades, p.TokenID, p.FeeCollector)
		return res, eb, nil
	}

	if pool == nil {
		r.engine.Rollback(cp)
		return nil, nil, errs.ErrLiquidity.Wrap("book liquidity exhausted and token has no bonding-curve pool")
	}

	// Reduced slippage budget for the curve leg: subtract the return
	// already realized, never remaining's raw quote-unit count —
	// subtracting remaining_amount instead would compare quote units
	// against a base-denominated bound.
	curveMinReturn := p.MinReturn.Sub(res.TotalReturn)
	if curveMinReturn.IsNegative() {
		curveMinReturn = math.ZeroInt()
	}

	var curveReturn math.Int
	switch p.Side {
	case domain.SideBuy:
		curveReturn, err = pool.Buy(remaining, curveMinReturn, p.CurveSupplyCap, p.QuoteDecimals)
	default:
		curveReturn, err = pool.Sell(remaining, curveMinReturn, p.QuoteDecimals)
	}
	if err != nil {
		// curve.Pool itself never mutates before its own checks pass,
		// so only the book leg's already-committed fills/removals (and
		// the trade ids they consumed) need undoing here.
		r.engine.Rollback(cp)
		return nil, nil, err
	}

	res.CurveAmount = remaining
	res.CurveReturn = curveReturn
	res.TotalReturn = res.TotalReturn.Add(curveReturn)

	emitBookEffects(eb, trades, p.TokenID, p.FeeCollector)
	emitCurveEffect(eb, p.TakerOwner, p.TokenID, p.Side, remaining, curveReturn)

	return res, eb, nil
}

func emitBookEffects(eb *effects.Builder, trades []*domain.Trade, tokenID, feeCollector string) {
	for _, t := range trades {
		matching.BuildEffects(eb, t, tokenID, feeCollector)
	}
}

// emitCurveEffect appends the curve leg's outbound transfer: the taker
// receives curveReturn (quote tokens on a buy, base on a sell). The
// taker's own payment of amount is inbound and emits no effect.
func emitCurveEffect(eb *effects.Builder, taker, tokenID string, side domain.Side, amount, curveReturn math.Int) {
	if side == domain.SideBuy {
		eb.TransferQuote(taker, tokenID, curveReturn)
		return
	}
	eb.TransferBase(taker, curveReturn)
}
