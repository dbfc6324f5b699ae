// Package store holds the engine's persisted keyspace: Config,
// TokenInfo, TokenPair, Pool, per-pair order books, the order/trade
// tables, and the per-user rolling indices, all behind one in-memory
// struct. The engine package is the only writer; store itself performs
// no I/O and assumes its caller already holds exclusive access for the
// duration of an operation (see spec §5's single-threaded model).
//
// Grounded on the teacher's direct-map storage inside domain/orderbook
// (ccyyhlg lightning-exchange never separated storage behind its own
// package, since it only ever held one symbol's order book), organized
// here into one package because the specification's persisted layout
// (§6) names a single logical keyspace shared by many components.
// MaxTradesPerUser and MaxOrdersPerUser mirror
// original_source/bonding-curve-dex/src/state.rs's
// MAX_TRADES_PER_USER / MAX_ACTIVE_ORDERS_PER_USER constants.
package store

import (
	"github.com/ledgerforge/bondex/curve"
	"github.com/ledgerforge/bondex/domain"
	"github.com/ledgerforge/bondex/errs"
	"github.com/ledgerforge/bondex/matching"
	"github.com/ledgerforge/bondex/orderbook"
	"github.com/ledgerforge/bondex/token"
)

// MaxTradesPerUser bounds USER_TRADES; MaxOrdersPerUser bounds
// USER_ORDERS. Both are enforced with a per-user monotonic slot
// counter rather than a keyspace scan, per spec §9 note (d).
const (
	MaxTradesPerUser = 100
	MaxOrdersPerUser = 50
)

// userRing is a bounded, monotonically-counted rolling window: slot
// count-1 is the most recently written; once count reaches the limit
// (the ring is full), writing a new slot evicts the oldest still-held
// slot, count-limit, before inserting.
type userRing[T any] struct {
	slots map[uint64]T
	count uint64
	limit uint64
}

func newUserRing[T any](limit uint64) *userRing[T] {
	return &userRing[T]{slots: make(map[uint64]T), limit: limit}
}

func (r *userRing[T]) push(v T) {
	if r.count >= r.limit {
		delete(r.slots, r.count-r.limit)
	}
	r.slots[r.count] = v
	r.count++
}

// items returns every held slot oldest-first.
func (r *userRing[T]) items() []T {
	lo := uint64(0)
	if r.count > r.limit {
		lo = r.count - r.limit
	}
	out := make([]T, 0, r.count-lo)
	for i := lo; i < r.count; i++ {
		out = append(out, r.slots[i])
	}
	return out
}

// Store is the engine's full persisted state.
type Store struct {
	Config *token.Config

	nextOrderID *matching.IDGenerator
	nextTradeID *matching.IDGenerator

	tokenInfo map[string]*token.Info
	tokenPair map[string]*token.Pair
	pools     map[string]*curve.Pool
	books     map[string]*orderbook.Book

	orders map[uint64]*domain.Order
	trades map[uint64]*domain.Trade

	userOrders map[string]*userRing[uint64] // owner -> order ids, ring-bounded
	userTrades map[string]*userRing[uint64] // owner -> trade ids, ring-bounded
}

// New builds an empty store. Config is left nil; the caller
// (engine.New) sets it to an already validated token.Config.
func New() *Store {
	return &Store{
		nextOrderID: matching.NewIDGenerator(),
		nextTradeID: matching.NewIDGenerator(),
		tokenInfo:   make(map[string]*token.Info),
		tokenPair:   make(map[string]*token.Pair),
		pools:       make(map[string]*curve.Pool),
		books:       make(map[string]*orderbook.Book),
		orders:      make(map[uint64]*domain.Order),
		trades:      make(map[uint64]*domain.Trade),
		userOrders:  make(map[string]*userRing[uint64]),
		userTrades:  make(map[string]*userRing[uint64]),
	}
}

// NextOrderID allocates the next strictly increasing order id.
func (s *Store) NextOrderID() uint64 { return s.nextOrderID.Next() }

// NextTradeID allocates the next strictly increasing trade id.
func (s *Store) NextTradeID() uint64 { return s.nextTradeID.Next() }

// TradeIDGenerator exposes the store's trade-id counter so a
// matching.Engine can share the same NEXT_TRADE_ID sequence the store
// itself hands out, rather than keeping two independent counters.
func (s *Store) TradeIDGenerator() *matching.IDGenerator { return s.nextTradeID }

// OrderCount, TradeCount, PairCount, TokenCount report the size of
// their respective tables, used by GetSystemStats.
func (s *Store) OrderCount() int { return len(s.orders) }
func (s *Store) TradeCount() int { return len(s.trades) }
func (s *Store) PairCount() int  { return len(s.tokenPair) }
func (s *Store) TokenCount() int { return len(s.tokenInfo) }

// RecentTrades returns up to limit trades for pairID, most recent
// first, scanning backward from the newest allocated trade id. This is
// a bounded reverse scan, not the per-user ring's O(1) push/evict
// pattern, since there is no persisted per-pair trade index in spec
// §6's keyspace; the scan examines at most 20*limit trade ids, so it
// stays bounded even over a long trade history (and may return fewer
// than limit trades when the pair's trades are sparse).
func (s *Store) RecentTrades(pairID string, limit int) []*domain.Trade {
	if limit <= 0 {
		return nil
	}
	out := make([]*domain.Trade, 0, limit)
	maxScan := limit * 20
	latest := s.nextTradeID.Peek()
	for scanned := 0; uint64(scanned) < latest && scanned < maxScan && len(out) < limit; scanned++ {
		id := latest - uint64(scanned)
		t, ok := s.trades[id]
		if !ok || t.PairID != pairID {
			continue
		}
		out = append(out, t)
	}
	return out
}

// TokenInfo, TokenPair, Pool, Book accessors.

func (s *Store) GetTokenInfo(tokenID string) (*token.Info, bool) {
	i, ok := s.tokenInfo[tokenID]
	return i, ok
}
func (s *Store) PutTokenInfo(i *token.Info) { s.tokenInfo[i.TokenID] = i }

func (s *Store) GetTokenPair(pairID string) (*token.Pair, bool) {
	p, ok := s.tokenPair[pairID]
	return p, ok
}
func (s *Store) PutTokenPair(p *token.Pair) { s.tokenPair[p.PairID] = p }

func (s *Store) ListTokenPairs() []*token.Pair {
	out := make([]*token.Pair, 0, len(s.tokenPair))
	for _, p := range s.tokenPair {
		out = append(out, p)
	}
	return out
}

func (s *Store) GetPool(tokenID string) (*curve.Pool, bool) {
	p, ok := s.pools[tokenID]
	return p, ok
}
func (s *Store) PutPool(p *curve.Pool) { s.pools[p.TokenID] = p }
func (s *Store) DeletePool(tokenID string) { delete(s.pools, tokenID) }

func (s *Store) GetBook(pairID string) *orderbook.Book {
	b, ok := s.books[pairID]
	if !ok {
		b = orderbook.NewBook(pairID)
		s.books[pairID] = b
	}
	return b
}

// Order and trade tables, plus per-user indices.

func (s *Store) GetOrder(orderID uint64) (*domain.Order, bool) {
	o, ok := s.orders[orderID]
	return o, ok
}

// PutOrder persists an order and, if it is newly created (not already
// present), appends it to the owner's bounded order ring.
func (s *Store) PutOrder(o *domain.Order) {
	_, existed := s.orders[o.ID]
	s.orders[o.ID] = o
	if !existed {
		ring, ok := s.userOrders[o.Owner]
		if !ok {
			ring = newUserRing[uint64](MaxOrdersPerUser)
			s.userOrders[o.Owner] = ring
		}
		ring.push(o.ID)
	}
}

// GetUserOrders returns an owner's bounded, oldest-first order history.
func (s *Store) GetUserOrders(owner string) []*domain.Order {
	ring, ok := s.userOrders[owner]
	if !ok {
		return nil
	}
	ids := ring.items()
	out := make([]*domain.Order, 0, len(ids))
	for _, id := range ids {
		if o, ok := s.orders[id]; ok {
			out = append(out, o)
		}
	}
	return out
}

func (s *Store) GetTrade(tradeID uint64) (*domain.Trade, bool) {
	t, ok := s.trades[tradeID]
	return t, ok
}

// PutTrade persists a trade and appends it to both legs' bounded
// rolling trade history, per spec §3's USER_TRADES ring.
func (s *Store) PutTrade(t *domain.Trade) {
	s.trades[t.ID] = t
	for _, owner := range []string{t.Buyer, t.Seller} {
		ring, ok := s.userTrades[owner]
		if !ok {
			ring = newUserRing[uint64](MaxTradesPerUser)
			s.userTrades[owner] = ring
		}
		ring.push(t.ID)
	}
}

// GetUserTrades returns an owner's bounded, oldest-first trade history.
func (s *Store) GetUserTrades(owner string) []*domain.Trade {
	ring, ok := s.userTrades[owner]
	if !ok {
		return nil
	}
	ids := ring.items()
	out := make([]*domain.Trade, 0, len(ids))
	for _, id := range ids {
		if t, ok := s.trades[id]; ok {
			out = append(out, t)
		}
	}
	return out
}

// GetUserTradeCount returns the total number of trades ever recorded
// for owner, which may exceed the number still held in the ring.
func (s *Store) GetUserTradeCount(owner string) uint64 {
	ring, ok := s.userTrades[owner]
	if !ok {
		return 0
	}
	return ring.count
}

// RequireOwner checks caller against Config.Owner.
func (s *Store) RequireOwner(caller string) error {
	if s.Config == nil || caller != s.Config.Owner {
		return errs.ErrUnauthorized.Wrap("caller is not the owner")
	}
	return nil
}
