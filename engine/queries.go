// Query surface: read-only operations a caller uses to inspect engine
// state. They lock the same mutex every mutating operation holds,
// since store's maps are not otherwise safe for concurrent access.
package engine

import (
	"cosmossdk.io/math"

	"github.com/ledgerforge/bondex/curve"
	"github.com/ledgerforge/bondex/domain"
	"github.com/ledgerforge/bondex/errs"
	"github.com/ledgerforge/bondex/orderbook"
	"github.com/ledgerforge/bondex/token"
)

// defaultOrderBookDepth caps GetOrderBook when the caller does not
// request a specific depth.
const defaultOrderBookDepth = 20

// PriceLevelView is one aggregated price level in a GetOrderBook
// response.
type PriceLevelView struct {
	Price             math.Int
	AggregateQuantity math.Int
	OrderCount        int
}

// OrderBookView is GetOrderBook's full response: bids descending, asks
// ascending, each capped at the requested (or default) depth.
type OrderBookView struct {
	PairID string
	Bids   []PriceLevelView
	Asks   []PriceLevelView
}

// GetOrderBook returns an aggregated snapshot of pairID's book, bids
// best-first (descending) and asks best-first (ascending), each capped
// at depth price levels (defaultOrderBookDepth if depth <= 0).
func (e *Exchange) GetOrderBook(pairID string, depth int) (*OrderBookView, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, ok := e.store.GetTokenPair(pairID); !ok {
		return nil, errs.ErrNotFound.Wrap("unknown pair")
	}
	if depth <= 0 {
		depth = defaultOrderBookDepth
	}

	book := e.store.GetBook(pairID)
	return &OrderBookView{
		PairID: pairID,
		Bids:   aggregate(book.Depth(domain.SideBuy, depth)),
		Asks:   aggregate(book.Depth(domain.SideSell, depth)),
	}, nil
}

func aggregate(levels []orderbook.Level) []PriceLevelView {
	out := make([]PriceLevelView, 0, len(levels))
	for _, lvl := range levels {
		out = append(out, PriceLevelView{
			Price:             lvl.Price,
			AggregateQuantity: lvl.Quantity,
			OrderCount:        len(lvl.Orders),
		})
	}
	return out
}

// GetOrder returns one order by id.
func (e *Exchange) GetOrder(orderID uint64) (*domain.Order, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.store.GetOrder(orderID)
}

// GetUserOrders returns owner's bounded, oldest-first order history.
func (e *Exchange) GetUserOrders(owner string) []*domain.Order {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.store.GetUserOrders(owner)
}

// GetUserTrades returns owner's bounded, oldest-first trade history.
func (e *Exchange) GetUserTrades(owner string) []*domain.Trade {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.store.GetUserTrades(owner)
}

// GetUserTradeCount returns the total number of trades ever recorded
// for owner (which may exceed what the bounded history still holds).
func (e *Exchange) GetUserTradeCount(owner string) uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.store.GetUserTradeCount(owner)
}

// GetPool returns tokenID's bonding-curve pool, or false if it has
// graduated or never existed.
func (e *Exchange) GetPool(tokenID string) (*curve.Pool, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.store.GetPool(tokenID)
}

// GetTokenInfo returns tokenID's static metadata.
func (e *Exchange) GetTokenInfo(tokenID string) (*token.Info, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.store.GetTokenInfo(tokenID)
}

// GetTokenPair returns pairID's metadata.
func (e *Exchange) GetTokenPair(pairID string) (*token.Pair, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.store.GetTokenPair(pairID)
}

// ListTokenPairs returns every registered trading pair.
func (e *Exchange) ListTokenPairs() []*token.Pair {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.store.ListTokenPairs()
}

// GetConfig returns the engine's current process-wide configuration.
func (e *Exchange) GetConfig() *token.Config {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.store.Config
}

// GetCurrentPrice returns tokenID's last traded curve price, or false
// if the token has graduated (no curve left) or never existed.
func (e *Exchange) GetCurrentPrice(tokenID string) (math.Int, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	pool, ok := e.store.GetPool(tokenID)
	if !ok {
		return math.Int{}, false
	}
	return pool.LastPrice, true
}

// GetRecentTrades returns up to limit of pairID's most recent trades,
// newest first.
func (e *Exchange) GetRecentTrades(pairID string, limit int) []*domain.Trade {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.store.RecentTrades(pairID, limit)
}

// SystemStats aggregates the coarse counters GetSystemStats reports.
type SystemStats struct {
	TokenCount int
	PairCount  int
	OrderCount int
	TradeCount int
}

// GetSystemStats reports the engine's aggregate size.
func (e *Exchange) GetSystemStats() SystemStats {
	e.mu.Lock()
	defer e.mu.Unlock()
	return SystemStats{
		TokenCount: e.store.TokenCount(),
		PairCount:  e.store.PairCount(),
		OrderCount: e.store.OrderCount(),
		TradeCount: e.store.TradeCount(),
	}
}
