package router

import (
	"testing"

	"cosmossdk.io/math"
	"github.com/stretchr/testify/require"

	"github.com/ledgerforge/bondex/curve"
	"github.com/ledgerforge/bondex/domain"
	"github.com/ledgerforge/bondex/errs"
	"github.com/ledgerforge/bondex/fixedpoint"
	"github.com/ledgerforge/bondex/matching"
	"github.com/ledgerforge/bondex/orderbook"
)

func mustFee(t *testing.T, bps int64) fixedpoint.FixedDecimal {
	t.Helper()
	f, err := fixedpoint.FromRatio(bps, 10_000)
	require.NoError(t, err)
	return f
}

// TestSwapFallsThroughToCurve grounds scenario 4: the book only
// supplies part of the requested amount, and min_return is already
// cleared by the book leg alone — yet the residual must still reach
// the curve, since only a zero remaining_amount skips it.
func TestSwapFallsThroughToCurve(t *testing.T) {
	book := orderbook.NewBook("DEMO/uatom")
	book.Insert(domain.NewLimitOrder(1, "S", "DEMO/uatom", domain.SideSell, math.NewInt(10), math.NewInt(40), 1))

	pool := curve.NewPool("demo-token", math.NewInt(1_000_000))

	r := New(matching.NewEngine(matching.NewIDGenerator()))
	res, eb, err := r.Swap(book, pool, Params{
		TakerOwner:     "B",
		TokenID:        "demo-token",
		FeeCollector:   "fees",
		Side:           domain.SideBuy,
		Amount:         math.NewInt(100),
		MinReturn:      math.NewInt(50),
		CurveSupplyCap: math.NewInt(80_000_000_000),
		QuoteDecimals:  8,
		MakerFee:       mustFee(t, 100),
		TakerFee:       mustFee(t, 200),
		Now:            2,
	})
	require.NoError(t, err)
	require.NotNil(t, eb)

	require.True(t, res.MatchedByBook.Equal(math.NewInt(40)))
	require.True(t, res.TotalReturn.Equal(math.NewInt(400))) // book return_so_far (40 * 10) plus the zero curve return
	require.True(t, res.CurveAmount.Equal(math.NewInt(60)))  // residual = 100 - 40
	// price_unit = ceil(avg_price * 10^8) = 10000, so the curve leg
	// returns 60 * 10000 / 10^6, which floors to 0.
	require.True(t, res.CurveReturn.IsZero())
	require.True(t, pool.TokenSold.Equal(res.CurveReturn))
}

// TestCurveSlippageFailure grounds scenario 5: an aggressive min_return
// against a pool with 10_000_000_000 already sold (a buy of 1000 returns
// 99) must fail Slippage and mutate nothing.
func TestCurveSlippageFailure(t *testing.T) {
	pool := curve.NewPool("demo-token", math.NewInt(1))
	pool.TokenSold = math.NewInt(10_000_000_000)
	before := *pool

	book := orderbook.NewBook("DEMO/uatom")
	r := New(matching.NewEngine(matching.NewIDGenerator()))
	_, _, err := r.Swap(book, pool, Params{
		TakerOwner:     "B",
		TokenID:        "demo-token",
		FeeCollector:   "fees",
		Side:           domain.SideBuy,
		Amount:         math.NewInt(1_000),
		MinReturn:      math.NewInt(1_000_000_000),
		CurveSupplyCap: math.NewInt(80_000_000_000),
		QuoteDecimals:  9,
		MakerFee:       mustFee(t, 100),
		TakerFee:       mustFee(t, 200),
		Now:            1,
	})
	require.Error(t, err)
	require.True(t, errs.ErrSlippage.Is(err))
	require.Equal(t, before, *pool)
}

// TestCurveSupplyCapFailure grounds scenario 6: a buy that would reach
// or exceed bonding_curve_supply fails SupplyCap and mutates nothing.
func TestCurveSupplyCapFailure(t *testing.T) {
	cap := math.NewInt(80_000_000_000)
	pool := curve.NewPool("demo-token", math.NewInt(1))
	pool.TokenSold = cap.Sub(math.NewInt(500))
	before := *pool

	book := orderbook.NewBook("DEMO/uatom")
	r := New(matching.NewEngine(matching.NewIDGenerator()))
	_, _, err := r.Swap(book, pool, Params{
		TakerOwner:     "B",
		TokenID:        "demo-token",
		FeeCollector:   "fees",
		Side:           domain.SideBuy,
		Amount:         math.NewInt(1_000),
		MinReturn:      math.ZeroInt(),
		CurveSupplyCap: cap,
		QuoteDecimals:  9,
		MakerFee:       mustFee(t, 100),
		TakerFee:       mustFee(t, 200),
		Now:            1,
	})
	require.Error(t, err)
	require.True(t, errs.ErrSupplyCap.Is(err))
	require.Equal(t, before, *pool)
}

// TestSwapRollsBackBookLegOnCurveFailure guards the all-or-nothing
// requirement across both legs: the book leg here fully fills and
// removes a resting sell before the curve leg deliberately fails
// slippage, so a naive implementation leaves that fill and removal
// applied. The book and the resting order must come back exactly as
// they were before Swap was ever called.
func TestSwapRollsBackBookLegOnCurveFailure(t *testing.T) {
	book := orderbook.NewBook("DEMO/uatom")
	sell := domain.NewLimitOrder(1, "S", "DEMO/uatom", domain.SideSell, math.NewInt(10), math.NewInt(40), 1)
	book.Insert(sell)

	pool := curve.NewPool("demo-token", math.NewInt(1))
	pool.TokenSold = math.NewInt(10_000_000_000)
	before := *pool

	r := New(matching.NewEngine(matching.NewIDGenerator()))
	res, eb, err := r.Swap(book, pool, Params{
		TakerOwner:     "B",
		TokenID:        "demo-token",
		FeeCollector:   "fees",
		Side:           domain.SideBuy,
		Amount:         math.NewInt(1_000),
		MinReturn:      math.NewInt(1_000_000_000),
		CurveSupplyCap: math.NewInt(80_000_000_000),
		QuoteDecimals:  9,
		MakerFee:       mustFee(t, 100),
		TakerFee:       mustFee(t, 200),
		Now:            2,
	})
	require.Error(t, err)
	require.True(t, errs.ErrSlippage.Is(err))
	require.Nil(t, res)
	require.Nil(t, eb)
	require.Equal(t, before, *pool)

	require.Equal(t, domain.OrderStatusActive, sell.Status)
	require.True(t, sell.FilledAmount.IsZero())
	require.True(t, sell.RemainingAmount.Equal(math.NewInt(40)))

	best := book.BestLevel(domain.SideSell)
	require.NotNil(t, best)
	require.True(t, best.Price.Equal(math.NewInt(10)))
	require.Len(t, best.Orders, 1)
	require.Equal(t, sell.ID, best.Orders[0].ID)
}
