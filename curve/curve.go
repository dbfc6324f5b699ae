// Package curve implements the per-token exponential bonding-curve
// AMM: a permanent liquidity provider that prices trades by
// integrating an exponential marginal-price function over the supply
// interval a trade traverses, using a deterministic fixed-step EMA
// approximation of exp in place of a true exponential.
//
// This package follows the rest of the module's file-per-subsystem
// layout and error-wrapping style even though the pricing math itself
// has no counterpart elsewhere in the tree.
package curve

import (
	"cosmossdk.io/math"

	"github.com/ledgerforge/bondex/errs"
	"github.com/ledgerforge/bondex/fixedpoint"
)

// BasePrice is the initial marginal price of every newly created
// token, expressed in base-denom micro-units: 100 micro-units, i.e.
// 0.0001 base token per quote token at zero supply sold.
const BasePrice = 100

// priceScale matches the original's hardcoded 1_000_000 scale for
// BASE_PRICE and curve_slope, both supplied to the engine as plain
// integers scaled by 1e6.
var priceScale = fixedpoint.FromInt64(1_000_000)

// baseDecimalsScale is 10^6, the reserve (base) token's fixed decimal
// count used when converting a price-unit into a token amount.
var baseDecimalsScale = fixedpoint.FromInt64(1_000_000)

// Pool is the bonding-curve state for one token.
type Pool struct {
	TokenID            string
	CurveSlope         math.Int // positive integer, scaled by 1e6 like BasePrice
	TokenSold          math.Int
	TotalReserveToken  math.Int
	TotalVolume        math.Int
	TotalTrades        math.Int
	TotalFeesCollected math.Int
	LastPrice          math.Int
	Enabled            bool
}

// NewPool creates a fresh pool at zero reserves, priced at BasePrice,
// as committed by a token's creation.
func NewPool(tokenID string, curveSlope math.Int) *Pool {
	return &Pool{
		TokenID:            tokenID,
		CurveSlope:         curveSlope,
		TokenSold:          math.ZeroInt(),
		TotalReserveToken:  math.ZeroInt(),
		TotalVolume:        math.ZeroInt(),
		TotalTrades:        math.ZeroInt(),
		TotalFeesCollected: math.ZeroInt(),
		LastPrice:          math.NewInt(BasePrice),
		Enabled:            true,
	}
}

// priceUnit computes ceil(avg_price(a,b) * 10^decimals), the integer
// price-per-token used to convert a reserve amount into a token amount
// or vice versa. a and b are raw (unscaled) token_sold supply values;
// decimals is the quote token's decimal count.
//
// avg_price(a,b) = BASE_PRICE * (exp(slope*b) - exp(slope*a)) / (slope*(b-a))
//
// both exp evaluations use the fixed alpha=0.1, 100-step EMA
// recurrence in fixedpoint.EMAExp; this function must never be
// changed to use a closed-form exponential, the EMA recurrence is
// consensus-critical.
func priceUnit(curveSlope math.Int, a, b math.Int, decimals uint32) (math.Int, error) {
	basePrice, err := fixedpoint.FromInt(math.NewInt(BasePrice)).Quo(priceScale)
	if err != nil {
		return math.Int{}, err
	}
	slope, err := fixedpoint.FromInt(curveSlope).Quo(priceScale)
	if err != nil {
		return math.Int{}, err
	}

	aDec := fixedpoint.FromInt(a)
	bDec := fixedpoint.FromInt(b)

	slopeA, err := slope.Mul(aDec)
	if err != nil {
		return math.Int{}, err
	}
	slopeB, err := slope.Mul(bDec)
	if err != nil {
		return math.Int{}, err
	}

	alpha := fixedpoint.Alpha()
	expLower, err := fixedpoint.EMAExp(slopeA, alpha)
	if err != nil {
		return math.Int{}, err
	}
	expUpper, err := fixedpoint.EMAExp(slopeB, alpha)
	if err != nil {
		return math.Int{}, err
	}

	diff, err := expUpper.Sub(expLower)
	if err != nil {
		return math.Int{}, err
	}
	numerator, err := basePrice.Mul(diff)
	if err != nil {
		return math.Int{}, err
	}

	amountDec, err := bDec.Sub(aDec)
	if err != nil {
		return math.Int{}, err
	}
	denominator, err := slope.Mul(amountDec)
	if err != nil {
		return math.Int{}, err
	}
	if denominator.IsZero() {
		return math.Int{}, errs.ErrArithmetic.Wrap("zero-amount curve evaluation")
	}
	avgPrice, err := numerator.Quo(denominator)
	if err != nil {
		return math.Int{}, err
	}

	scale := fixedpoint.FromInt(pow10Int(decimals))
	scaled, err := avgPrice.Mul(scale)
	if err != nil {
		return math.Int{}, err
	}
	return scaled.CeilInt(), nil
}

func pow10Int(n uint32) math.Int {
	v := math.OneInt()
	ten := math.NewInt(10)
	for i := uint32(0); i < n; i++ {
		v = v.Mul(ten)
	}
	return v
}

// Buy quotes and applies a purchase of Δ=amount reserve (base) tokens
// against the curve. cap is config.bonding_curve_supply. decimals is
// the quote token's decimal count. Returns tokens received.
func (p *Pool) Buy(amount, minReturn, cap math.Int, decimals uint32) (math.Int, error) {
	if p.TokenSold.Add(amount).GTE(cap) {
		return math.Int{}, errs.ErrSupplyCap.Wrap("buy would reach or exceed bonding curve supply")
	}

	price, err := priceUnit(p.CurveSlope, p.TokenSold, p.TokenSold.Add(amount), decimals)
	if err != nil {
		return math.Int{}, err
	}

	tokensToReceive := amount.Mul(price).Quo(baseDecimalsScale.FloorInt())

	if tokensToReceive.GT(cap.Sub(p.TokenSold)) {
		return math.Int{}, errs.ErrLiquidity.Wrap("insufficient liquidity in pool")
	}
	if tokensToReceive.LT(minReturn) {
		return math.Int{}, errs.ErrSlippage.Wrapf("buy return below minimum: expected at least %s, got %s", minReturn, tokensToReceive)
	}

	p.TotalReserveToken = p.TotalReserveToken.Add(amount)
	p.TokenSold = p.TokenSold.Add(tokensToReceive)
	p.TotalVolume = p.TotalVolume.Add(amount)
	p.LastPrice = price
	p.TotalTrades = p.TotalTrades.Add(math.OneInt())

	return tokensToReceive, nil
}

// Sell quotes and applies a sale of Δ=amount quote tokens against the
// curve. decimals is the quote token's decimal count. Returns base
// tokens received.
func (p *Pool) Sell(amount, minReturn math.Int, decimals uint32) (math.Int, error) {
	if amount.GT(p.TokenSold) {
		return math.Int{}, errs.ErrLiquidity.Wrap("sell amount exceeds tokens sold")
	}

	price, err := priceUnit(p.CurveSlope, p.TokenSold.Sub(amount), p.TokenSold, decimals)
	if err != nil {
		return math.Int{}, err
	}

	baseToReceive := amount.Mul(price).Quo(baseDecimalsScale.FloorInt())

	if baseToReceive.GT(p.TokenSold) {
		return math.Int{}, errs.ErrLiquidity.Wrap("insufficient liquidity in pool")
	}
	if baseToReceive.LT(minReturn) {
		return math.Int{}, errs.ErrSlippage.Wrapf("sell return below minimum: expected at least %s, got %s", minReturn, baseToReceive)
	}

	p.TokenSold = p.TokenSold.Sub(amount)
	p.TotalReserveToken = p.TotalReserveToken.Sub(baseToReceive)
	p.TotalVolume = p.TotalVolume.Add(amount)
	p.LastPrice = price
	p.TotalTrades = p.TotalTrades.Add(math.OneInt())

	return baseToReceive, nil
}
