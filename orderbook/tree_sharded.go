package orderbook

import (
	"sort"

	"cosmossdk.io/math"
	rbt "github.com/emirpasic/gods/v2/trees/redblacktree"

	"github.com/ledgerforge/bondex/domain"
)

// shardedTree is a bucketed red-black tree price index: prices are
// grouped into fixed-size buckets, and only buckets that actually hold
// an order occupy a tree node, which keeps the tree shallow for dense
// books clustered around the best price. The tree's comparator bakes
// in side direction, so buckets.Left() is always the best bucket.
//
// Orders inside a bucket are keyed with a plain map[int64]*Level
// rather than a fixed-size array addressed by price&bucketMask, so
// bucketSize is a shard-granularity knob rather than a hard
// correctness constraint. A small sorted slice of bucket ids (updated
// only on bucket creation/removal, which is rare relative to fills)
// gives best-first bucket order, and each bucket's price keys are
// sorted on every read.
//
// Only usable when every price fits in int64; callers that need
// arbitrary-magnitude prices use hashMapListTree instead.
type shardedTree struct {
	buckets    *rbt.Tree[int64, *bucket]
	bucketIDs  []int64 // kept sorted in traversal order (best first)
	bucketSize int64
	descending bool
	count      int
}

type bucket struct {
	id     int64
	levels map[int64]*Level // keyed by exact price
}

func newShardedTree(descending bool, bucketSize int64) *shardedTree {
	if bucketSize <= 0 {
		bucketSize = 128
	}
	var cmp func(a, b int64) int
	if descending {
		cmp = func(a, b int64) int {
			switch {
			case a > b:
				return -1
			case a < b:
				return 1
			default:
				return 0
			}
		}
	} else {
		cmp = func(a, b int64) int {
			switch {
			case a < b:
				return -1
			case a > b:
				return 1
			default:
				return 0
			}
		}
	}
	return &shardedTree{
		buckets:    rbt.NewWith[int64, *bucket](cmp),
		bucketSize: bucketSize,
		descending: descending,
	}
}

func (t *shardedTree) bucketID(priceKey int64) int64 {
	if priceKey >= 0 {
		return priceKey / t.bucketSize
	}
	return -((-priceKey + t.bucketSize - 1) / t.bucketSize)
}

func (t *shardedTree) priceKey(price math.Int) int64 { return price.Int64() }

func (t *shardedTree) insertBucketID(id int64) {
	i := sort.Search(len(t.bucketIDs), func(i int) bool {
		if t.descending {
			return t.bucketIDs[i] <= id
		}
		return t.bucketIDs[i] >= id
	})
	t.bucketIDs = append(t.bucketIDs, 0)
	copy(t.bucketIDs[i+1:], t.bucketIDs[i:])
	t.bucketIDs[i] = id
}

func (t *shardedTree) removeBucketID(id int64) {
	for i, v := range t.bucketIDs {
		if v == id {
			t.bucketIDs = append(t.bucketIDs[:i], t.bucketIDs[i+1:]...)
			return
		}
	}
}

func (t *shardedTree) Insert(order *domain.Order) {
	pk := t.priceKey(order.Price)
	bid := t.bucketID(pk)
	b, ok := t.buckets.Get(bid)
	if !ok {
		b = &bucket{id: bid, levels: make(map[int64]*Level)}
		t.buckets.Put(bid, b)
		t.insertBucketID(bid)
	}
	lvl, ok := b.levels[pk]
	if !ok {
		lvl = &Level{Price: order.Price, Quantity: math.ZeroInt()}
		b.levels[pk] = lvl
		t.count++
	}
	lvl.Orders = append(lvl.Orders, order)
}

func (t *shardedTree) InsertFront(order *domain.Order) {
	pk := t.priceKey(order.Price)
	bid := t.bucketID(pk)
	b, ok := t.buckets.Get(bid)
	if !ok {
		b = &bucket{id: bid, levels: make(map[int64]*Level)}
		t.buckets.Put(bid, b)
		t.insertBucketID(bid)
	}
	lvl, ok := b.levels[pk]
	if !ok {
		lvl = &Level{Price: order.Price, Quantity: math.ZeroInt()}
		b.levels[pk] = lvl
		t.count++
	}
	lvl.Orders = append([]*domain.Order{order}, lvl.Orders...)
}

func (t *shardedTree) Remove(order *domain.Order) {
	pk := t.priceKey(order.Price)
	bid := t.bucketID(pk)
	b, ok := t.buckets.Get(bid)
	if !ok {
		return
	}
	lvl, ok := b.levels[pk]
	if !ok {
		return
	}
	for i, o := range lvl.Orders {
		if o.ID == order.ID {
			lvl.Orders = append(lvl.Orders[:i], lvl.Orders[i+1:]...)
			break
		}
	}
	if len(lvl.Orders) == 0 {
		delete(b.levels, pk)
		t.count--
		if len(b.levels) == 0 {
			t.buckets.Remove(bid)
			t.removeBucketID(bid)
		}
	}
}

func (t *shardedTree) sortedKeysOf(b *bucket) []int64 {
	keys := make([]int64, 0, len(b.levels))
	for k := range b.levels {
		keys = append(keys, k)
	}
	if t.descending {
		sort.Slice(keys, func(i, j int) bool { return keys[i] > keys[j] })
	} else {
		sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	}
	return keys
}

func (t *shardedTree) BestLevel() *Level {
	if len(t.bucketIDs) == 0 {
		return nil
	}
	b, ok := t.buckets.Get(t.bucketIDs[0])
	if !ok {
		return nil
	}
	keys := t.sortedKeysOf(b)
	if len(keys) == 0 {
		return nil
	}
	lvl := b.levels[keys[0]]
	lvl.Quantity = sumRemaining(lvl.Orders)
	return lvl
}

func (t *shardedTree) Level(price math.Int) *Level {
	pk := t.priceKey(price)
	b, ok := t.buckets.Get(t.bucketID(pk))
	if !ok {
		return nil
	}
	lvl, ok := b.levels[pk]
	if !ok {
		return nil
	}
	lvl.Quantity = sumRemaining(lvl.Orders)
	return lvl
}

func (t *shardedTree) Depth(maxLevels int) []Level {
	out := make([]Level, 0, maxLevels)
	for _, bid := range t.bucketIDs {
		b, ok := t.buckets.Get(bid)
		if !ok {
			continue
		}
		for _, pk := range t.sortedKeysOf(b) {
			lvl := b.levels[pk]
			lvl.Quantity = sumRemaining(lvl.Orders)
			out = append(out, *lvl)
			if len(out) >= maxLevels {
				return out
			}
		}
	}
	return out
}

func (t *shardedTree) IsEmpty() bool { return t.count == 0 }
func (t *shardedTree) Size() int     { return t.count }
