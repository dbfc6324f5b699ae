package orderbook

import (
	"cosmossdk.io/math"

	"github.com/ledgerforge/bondex/domain"
)

// hashMapListTree is a "NASDAQ-style" HashMap + doubly linked list
// price index over math.Int prices: a map keyed by the price's decimal
// string gives O(1) level lookup, and a doubly linked list threaded
// through the levels gives O(1) best-price access and O(1) level
// removal. Inserting a brand new level is O(n) in the number of
// existing levels — acceptable because real books keep most activity
// near the best price.
type hashMapListTree struct {
	levels     map[string]*node
	best       *node
	descending bool // true for bids (high to low), false for asks (low to high)
}

type node struct {
	level Level
	next  *node
	prev  *node
}

func newHashMapListTree(descending bool) *hashMapListTree {
	return &hashMapListTree{
		levels:     make(map[string]*node),
		descending: descending,
	}
}

func (t *hashMapListTree) key(price math.Int) string { return price.String() }

func (t *hashMapListTree) Insert(order *domain.Order) {
	k := t.key(order.Price)
	n, ok := t.levels[k]
	if !ok {
		n = &node{level: Level{Price: order.Price, Quantity: math.ZeroInt()}}
		t.levels[k] = n
		t.link(n)
	}
	n.level.Orders = append(n.level.Orders, order)
}

func (t *hashMapListTree) InsertFront(order *domain.Order) {
	k := t.key(order.Price)
	n, ok := t.levels[k]
	if !ok {
		n = &node{level: Level{Price: order.Price, Quantity: math.ZeroInt()}}
		t.levels[k] = n
		t.link(n)
	}
	n.level.Orders = append([]*domain.Order{order}, n.level.Orders...)
}

func (t *hashMapListTree) Remove(order *domain.Order) {
	k := t.key(order.Price)
	n, ok := t.levels[k]
	if !ok {
		return
	}
	for i, o := range n.level.Orders {
		if o.ID == order.ID {
			n.level.Orders = append(n.level.Orders[:i], n.level.Orders[i+1:]...)
			break
		}
	}
	if len(n.level.Orders) == 0 {
		t.unlink(n)
		delete(t.levels, k)
	}
}

func (t *hashMapListTree) isBetter(a, b math.Int) bool {
	if t.descending {
		return a.GT(b)
	}
	return a.LT(b)
}

func (t *hashMapListTree) link(n *node) {
	if t.best == nil {
		t.best = n
		return
	}
	if t.isBetter(n.level.Price, t.best.level.Price) {
		n.next = t.best
		t.best.prev = n
		t.best = n
		return
	}
	cur := t.best
	for cur.next != nil && !t.isBetter(n.level.Price, cur.next.level.Price) {
		cur = cur.next
	}
	n.next = cur.next
	n.prev = cur
	if cur.next != nil {
		cur.next.prev = n
	}
	cur.next = n
}

func (t *hashMapListTree) unlink(n *node) {
	if n.prev != nil {
		n.prev.next = n.next
	}
	if n.next != nil {
		n.next.prev = n.prev
	}
	if t.best == n {
		t.best = n.next
	}
	n.next, n.prev = nil, nil
}

func (t *hashMapListTree) BestLevel() *Level {
	if t.best == nil {
		return nil
	}
	t.best.level.Quantity = sumRemaining(t.best.level.Orders)
	return &t.best.level
}

func (t *hashMapListTree) Level(price math.Int) *Level {
	n, ok := t.levels[t.key(price)]
	if !ok {
		return nil
	}
	n.level.Quantity = sumRemaining(n.level.Orders)
	return &n.level
}

func (t *hashMapListTree) Depth(maxLevels int) []Level {
	out := make([]Level, 0, maxLevels)
	for cur := t.best; cur != nil && len(out) < maxLevels; cur = cur.next {
		cur.level.Quantity = sumRemaining(cur.level.Orders)
		out = append(out, cur.level)
	}
	return out
}

func (t *hashMapListTree) IsEmpty() bool { return t.best == nil }
func (t *hashMapListTree) Size() int     { return len(t.levels) }
