package orderbook

import (
	"testing"

	"cosmossdk.io/math"

	"github.com/ledgerforge/bondex/domain"
)

func mkOrder(id uint64, side domain.Side, price, amount int64, ts int64) *domain.Order {
	return domain.NewLimitOrder(id, "owner", "PAIR", side, math.NewInt(price), math.NewInt(amount), ts)
}

func testBookKinds() []TreeKind { return []TreeKind{HashMapList, Sharded} }

func TestBookBestLevelOrdering(t *testing.T) {
	for _, kind := range testBookKinds() {
		book := NewBookWithType("PAIR", kind)
		book.Insert(mkOrder(1, domain.SideBuy, 10, 5, 1))
		book.Insert(mkOrder(2, domain.SideBuy, 12, 5, 2))
		book.Insert(mkOrder(3, domain.SideBuy, 11, 5, 3))

		best := book.BestLevel(domain.SideBuy)
		if best == nil || !best.Price.Equal(math.NewInt(12)) {
			t.Fatalf("kind=%v expected best bid 12, got %+v", kind, best)
		}

		book.Insert(mkOrder(4, domain.SideSell, 20, 5, 1))
		book.Insert(mkOrder(5, domain.SideSell, 18, 5, 2))
		bestAsk := book.BestLevel(domain.SideSell)
		if bestAsk == nil || !bestAsk.Price.Equal(math.NewInt(18)) {
			t.Fatalf("kind=%v expected best ask 18, got %+v", kind, bestAsk)
		}
	}
}

func TestBookFIFOWithinLevel(t *testing.T) {
	for _, kind := range testBookKinds() {
		book := NewBookWithType("PAIR", kind)
		book.Insert(mkOrder(1, domain.SideBuy, 10, 5, 1))
		book.Insert(mkOrder(2, domain.SideBuy, 10, 3, 2))

		lvl := book.BestLevel(domain.SideBuy)
		if len(lvl.Orders) != 2 || lvl.Orders[0].ID != 1 || lvl.Orders[1].ID != 2 {
			t.Fatalf("kind=%v expected FIFO order [1,2], got %+v", kind, lvl.Orders)
		}
		if !lvl.Quantity.Equal(math.NewInt(8)) {
			t.Fatalf("kind=%v expected aggregate quantity 8, got %s", kind, lvl.Quantity)
		}
	}
}

func TestBookQuantityReflectsInPlaceFill(t *testing.T) {
	for _, kind := range testBookKinds() {
		book := NewBookWithType("PAIR", kind)
		o1 := mkOrder(1, domain.SideBuy, 10, 5, 1)
		o2 := mkOrder(2, domain.SideBuy, 10, 3, 2)
		book.Insert(o1)
		book.Insert(o2)

		// Matching mutates RemainingAmount in place without going through
		// Remove; the level's aggregate quantity must reflect that on the
		// next read rather than the stale sum from insertion time.
		o1.Fill(math.NewInt(2))

		lvl := book.BestLevel(domain.SideBuy)
		if !lvl.Quantity.Equal(math.NewInt(6)) {
			t.Fatalf("kind=%v expected aggregate quantity 6 after partial fill, got %s", kind, lvl.Quantity)
		}

		depth := book.Depth(domain.SideBuy, 10)
		if !depth[0].Quantity.Equal(math.NewInt(6)) {
			t.Fatalf("kind=%v expected Depth quantity 6 after partial fill, got %s", kind, depth[0].Quantity)
		}
	}
}

func TestBookRemovePrunesEmptyLevel(t *testing.T) {
	for _, kind := range testBookKinds() {
		book := NewBookWithType("PAIR", kind)
		o := mkOrder(1, domain.SideSell, 10, 5, 1)
		book.Insert(o)
		book.Remove(domain.SideSell, o.ID)

		if !book.IsEmpty(domain.SideSell) {
			t.Fatalf("kind=%v expected side empty after removing only order", kind)
		}
		if _, ok := book.Get(o.ID); ok {
			t.Fatalf("kind=%v expected order to be gone from per-id index", kind)
		}
	}
}

func TestBookDepthBestFirst(t *testing.T) {
	for _, kind := range testBookKinds() {
		book := NewBookWithType("PAIR", kind)
		book.Insert(mkOrder(1, domain.SideSell, 30, 1, 1))
		book.Insert(mkOrder(2, domain.SideSell, 10, 1, 2))
		book.Insert(mkOrder(3, domain.SideSell, 20, 1, 3))

		depth := book.Depth(domain.SideSell, 10)
		if len(depth) != 3 {
			t.Fatalf("kind=%v expected 3 levels, got %d", kind, len(depth))
		}
		want := []int64{10, 20, 30}
		for i, w := range want {
			if !depth[i].Price.Equal(math.NewInt(w)) {
				t.Fatalf("kind=%v depth[%d] = %s, want %d", kind, i, depth[i].Price, w)
			}
		}
	}
}
