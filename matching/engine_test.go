package matching

import (
	"testing"

	"cosmossdk.io/math"
	"github.com/stretchr/testify/require"

	"github.com/ledgerforge/bondex/domain"
	"github.com/ledgerforge/bondex/errs"
	"github.com/ledgerforge/bondex/fixedpoint"
	"github.com/ledgerforge/bondex/orderbook"
)

func mustFee(t *testing.T, bps int64) fixedpoint.FixedDecimal {
	t.Helper()
	f, err := fixedpoint.FromRatio(bps, 10_000)
	require.NoError(t, err)
	return f
}

func mkLimit(id uint64, owner string, side domain.Side, price, amount, ts int64) *domain.Order {
	return domain.NewLimitOrder(id, owner, "DEMO/uatom", side, math.NewInt(price), math.NewInt(amount), ts)
}

// TestPureBookMatchFullFill grounds scenario 1 of the specification's
// concrete end-to-end examples: a resting sell fully crossed by an
// equal-size, equal-price buy.
func TestPureBookMatchFullFill(t *testing.T) {
	book := orderbook.NewBook("DEMO/uatom")
	sell := mkLimit(1, "S", domain.SideSell, 10, 100, 1000)
	book.Insert(sell)

	buy := mkLimit(2, "B", domain.SideBuy, 10, 100, 1001)
	book.Insert(buy)

	eng := NewEngine(NewIDGenerator())
	makerFee, takerFee := mustFee(t, 100), mustFee(t, 200)
	trades, err := eng.Run(book, domain.SideBuy, makerFee, takerFee, 1001)
	require.NoError(t, err)
	require.Len(t, trades, 1)

	tr := trades[0]
	require.True(t, tr.Price.Equal(math.NewInt(10)))
	require.True(t, tr.TokenAmount.Equal(math.NewInt(100)))
	require.True(t, tr.TotalPrice.Equal(math.NewInt(1000)))
	require.True(t, tr.MakerFeeAmount.Equal(math.NewInt(10)))
	require.True(t, tr.TakerFeeAmount.Equal(math.NewInt(20)))

	sellerReceives := tr.TotalPrice.Sub(tr.MakerFeeAmount).Sub(tr.TakerFeeAmount)
	require.True(t, sellerReceives.Equal(math.NewInt(970)))
	require.True(t, tr.TokenAmount.Equal(math.NewInt(100))) // buyer_receives

	require.Equal(t, domain.OrderStatusFilled, buy.Status)
	require.Equal(t, domain.OrderStatusFilled, sell.Status)
	require.Nil(t, book.BestLevel(domain.SideBuy))
	require.Nil(t, book.BestLevel(domain.SideSell))
}

// TestPartialFillAcrossTwoLevels grounds scenario 2: a buy that only
// partially consumes the second, worse-priced resting level.
func TestPartialFillAcrossTwoLevels(t *testing.T) {
	book := orderbook.NewBook("DEMO/uatom")
	s1 := mkLimit(1, "S1", domain.SideSell, 10, 50, 900)
	s2 := mkLimit(2, "S2", domain.SideSell, 11, 80, 950)
	book.Insert(s1)
	book.Insert(s2)

	buy := mkLimit(3, "B", domain.SideBuy, 11, 100, 1000)
	book.Insert(buy)

	eng := NewEngine(NewIDGenerator())
	makerFee, takerFee := mustFee(t, 100), mustFee(t, 200)
	trades, err := eng.Run(book, domain.SideBuy, makerFee, takerFee, 1000)
	require.NoError(t, err)
	require.Len(t, trades, 2)

	require.True(t, trades[0].Price.Equal(math.NewInt(10)))
	require.True(t, trades[0].TokenAmount.Equal(math.NewInt(50)))
	require.True(t, trades[0].TotalPrice.Equal(math.NewInt(500)))

	require.True(t, trades[1].Price.Equal(math.NewInt(11)))
	require.True(t, trades[1].TokenAmount.Equal(math.NewInt(50)))
	require.True(t, trades[1].TotalPrice.Equal(math.NewInt(550)))

	require.Equal(t, domain.OrderStatusFilled, buy.Status)
	require.Equal(t, domain.OrderStatusFilled, s1.Status)
	require.Equal(t, domain.OrderStatusActive, s2.Status)
	require.True(t, s2.RemainingAmount.Equal(math.NewInt(30)))
}

// TestCancelThenRematchDoesNotCross grounds scenario 3: a cancelled buy
// must not be resurrected by a later, crossing sell.
func TestCancelThenRematchDoesNotCross(t *testing.T) {
	book := orderbook.NewBook("DEMO/uatom")
	buy := mkLimit(1, "B", domain.SideBuy, 10, 100, 1)
	book.Insert(buy)
	book.Remove(domain.SideBuy, buy.ID)
	buy.Cancel()

	sell := mkLimit(2, "S", domain.SideSell, 10, 100, 2)
	book.Insert(sell)

	eng := NewEngine(NewIDGenerator())
	makerFee, takerFee := mustFee(t, 100), mustFee(t, 200)
	trades, err := eng.Run(book, domain.SideSell, makerFee, takerFee, 2)
	require.NoError(t, err)
	require.Empty(t, trades)

	require.Equal(t, domain.OrderStatusActive, sell.Status)
	best := book.BestLevel(domain.SideSell)
	require.NotNil(t, best)
	require.True(t, best.Price.Equal(math.NewInt(10)))
}

// TestMatchTakerZeroMinReturnStillConsumesBook guards against a
// pre-check loop condition that would stop before matching anything
// whenever minReturn is zero: a taker with no slippage floor must
// still clear against resting liquidity, exactly as
// match_limit_orders executes one trade before ever testing
// total_return_amount >= min_return.
func TestMatchTakerZeroMinReturnStillConsumesBook(t *testing.T) {
	book := orderbook.NewBook("DEMO/uatom")
	sell := mkLimit(1, "S", domain.SideSell, 10, 100, 1000)
	book.Insert(sell)

	eng := NewEngine(NewIDGenerator())
	makerFee, takerFee := mustFee(t, 100), mustFee(t, 200)
	trades, matched, totalReturn, _, err := eng.MatchTaker(book, domain.SideBuy, "B", math.NewInt(100), math.ZeroInt(), makerFee, takerFee, 1001)
	require.NoError(t, err)
	require.Len(t, trades, 1)
	require.True(t, matched.Equal(math.NewInt(100)))
	require.True(t, totalReturn.Equal(math.NewInt(1000)))
	require.Equal(t, domain.OrderStatusFilled, sell.Status)
}

// TestMatchRollsBackEarlierTradeOnMidLoopFailure guards the atomicity
// requirement for a single Run call: the initiating buy first clears
// fully against the better-priced ask (total 1000, safe under 49%+49%
// fees), then reaches a second, worse-priced ask whose total (11) is
// too small for the same fee rates to round cleanly, tripping
// ErrArithmetic. The first trade's fill must not survive — Run must
// come back with both orders exactly as they were before it was ever
// called.
func TestMatchRollsBackEarlierTradeOnMidLoopFailure(t *testing.T) {
	book := orderbook.NewBook("DEMO/uatom")
	cheapAsk := mkLimit(1, "S1", domain.SideSell, 10, 100, 1)
	pricyAsk := mkLimit(2, "S2", domain.SideSell, 11, 1, 2)
	book.Insert(cheapAsk)
	book.Insert(pricyAsk)

	buy := mkLimit(3, "B", domain.SideBuy, 11, 150, 3)
	book.Insert(buy)

	eng := NewEngine(NewIDGenerator())
	makerFee, takerFee := mustFee(t, 4900), mustFee(t, 4900)
	trades, err := eng.Run(book, domain.SideBuy, makerFee, takerFee, 3)
	require.Error(t, err)
	require.True(t, errs.ErrArithmetic.Is(err))
	require.Nil(t, trades)

	require.Equal(t, domain.OrderStatusActive, buy.Status)
	require.True(t, buy.FilledAmount.IsZero())
	require.True(t, buy.RemainingAmount.Equal(math.NewInt(150)))

	require.Equal(t, domain.OrderStatusActive, cheapAsk.Status)
	require.True(t, cheapAsk.FilledAmount.IsZero())
	require.True(t, cheapAsk.RemainingAmount.Equal(math.NewInt(100)))

	best := book.BestLevel(domain.SideSell)
	require.NotNil(t, best)
	require.True(t, best.Price.Equal(math.NewInt(10)))
	require.Len(t, best.Orders, 1)
	require.Equal(t, cheapAsk.ID, best.Orders[0].ID)
}
