// Package orderbook implements the two-sided, price-time-priority book
// that backs one trading pair: a price-indexed map of FIFO queues per
// side, supporting insert, remove-by-id, best-first iteration, and
// pruning of emptied levels.
//
// The price index sits behind a PriceTree interface with two
// interchangeable implementations (HashMap+List, and a sharded
// red-black tree for dense books), with amounts carried as math.Int
// smallest-unit values of arbitrary magnitude rather than a fixed
// satoshi-like scale.
package orderbook

import (
	"cosmossdk.io/math"

	"github.com/ledgerforge/bondex/domain"
)

// Level aggregates the resting orders at one price.
type Level struct {
	Price    math.Int
	Orders   []*domain.Order // FIFO: index 0 is the oldest (time priority)
	Quantity math.Int        // sum of RemainingAmount across Orders, refreshed on read
}

// sumRemaining recomputes a level's aggregate quantity from its current
// orders. Quantity is never incrementally tracked across fills — an
// order's RemainingAmount changes in place during matching without
// going through Insert/Remove, so a running total would go stale the
// moment a resting order partially fills without leaving the book.
// Recomputing on every read keeps it exact at the cost of an O(orders
// at this level) scan, which is cheap relative to the matching work
// that just touched those same orders.
func sumRemaining(orders []*domain.Order) math.Int {
	total := math.ZeroInt()
	for _, o := range orders {
		total = total.Add(o.RemainingAmount)
	}
	return total
}

// PriceTree is the ordered index over one side's price levels.
type PriceTree interface {
	Insert(order *domain.Order)
	// InsertFront reinserts order at the head of its price level's FIFO
	// instead of the tail. Only Journal calls this, to undo a Remove
	// while replaying removals in reverse order.
	InsertFront(order *domain.Order)
	Remove(order *domain.Order)
	BestLevel() *Level
	Level(price math.Int) *Level
	Depth(maxLevels int) []Level
	IsEmpty() bool
	Size() int
}

// Book is a two-sided order book for one trading pair.
type Book struct {
	pairID string
	bids   PriceTree // buy orders, best = highest price
	asks   PriceTree // sell orders, best = lowest price
	orders map[uint64]*domain.Order
}

// TreeKind selects a PriceTree implementation.
type TreeKind int

const (
	// HashMapList is correct for any price magnitude; O(1) best-price,
	// O(n) new-level insert. Default, because this domain's prices are
	// unbounded integers, unlike the teacher's fixed satoshi scale.
	HashMapList TreeKind = iota
	// Sharded groups price levels into int64-bucketed red-black-tree
	// nodes; faster for dense books, but requires prices to fit in
	// int64.
	Sharded
)

// NewBook creates an empty book for pairID using the default
// (HashMapList) price tree.
func NewBook(pairID string) *Book {
	return NewBookWithType(pairID, HashMapList)
}

// NewBookWithType creates an empty book using the requested PriceTree
// implementation.
func NewBookWithType(pairID string, kind TreeKind) *Book {
	return &Book{
		pairID: pairID,
		bids:   newPriceTree(kind, true),
		asks:   newPriceTree(kind, false),
		orders: make(map[uint64]*domain.Order),
	}
}

func newPriceTree(kind TreeKind, descending bool) PriceTree {
	switch kind {
	case Sharded:
		return newShardedTree(descending, 128)
	default:
		return newHashMapListTree(descending)
	}
}

// PairID returns the trading pair this book belongs to.
func (b *Book) PairID() string { return b.pairID }

func (b *Book) treeFor(side domain.Side) PriceTree {
	if side == domain.SideBuy {
		return b.bids
	}
	return b.asks
}

// Insert appends order to its side's FIFO at order.Price.
func (b *Book) Insert(order *domain.Order) {
	b.orders[order.ID] = order
	b.treeFor(order.Side).Insert(order)
}

// Remove splices order out of its price level by id, pruning the level
// if it becomes empty. A miss is a no-op.
func (b *Book) Remove(side domain.Side, orderID uint64) {
	order, ok := b.orders[orderID]
	if !ok {
		return
	}
	b.treeFor(side).Remove(order)
	delete(b.orders, orderID)
}

// InsertFront reinserts order at the head of its side's FIFO at its
// original price, restoring time priority instead of appending behind
// whatever else is now resting there. Only used to undo a prior Remove
// when a Journal rolls back a failed operation.
func (b *Book) InsertFront(side domain.Side, order *domain.Order) {
	b.orders[order.ID] = order
	b.treeFor(side).InsertFront(order)
}

// Get looks up a resting order by id.
func (b *Book) Get(orderID uint64) (*domain.Order, bool) {
	o, ok := b.orders[orderID]
	return o, ok
}

// BestLevel returns the best price level for side, or nil if empty.
func (b *Book) BestLevel(side domain.Side) *Level {
	return b.treeFor(side).BestLevel()
}

// IsEmpty reports whether side has no resting orders.
func (b *Book) IsEmpty(side domain.Side) bool {
	return b.treeFor(side).IsEmpty()
}

// Depth returns up to maxLevels aggregated price levels, best first.
func (b *Book) Depth(side domain.Side, maxLevels int) []Level {
	return b.treeFor(side).Depth(maxLevels)
}

// Cleanup drops any order whose RemainingAmount is zero from the
// per-id index; the price trees already prune empty levels as part of
// Remove, so this only needs to sweep stragglers left by callers that
// mutated RemainingAmount without calling Remove (there are none in
// this engine, but the operation is kept for parity with the
// order book's own defined cleanup pass).
func (b *Book) Cleanup() {
	for id, o := range b.orders {
		if o.RemainingAmount.IsZero() && o.Status != domain.OrderStatusActive {
			delete(b.orders, id)
		}
	}
}
