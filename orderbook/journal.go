package orderbook

import (
	"cosmossdk.io/math"

	"github.com/ledgerforge/bondex/domain"
)

// orderSnapshot records an order's mutable fields as they stood the
// first time a Journal touched it, so Rollback can restore them
// regardless of how many further fills that same order took within the
// operation being undone.
type orderSnapshot struct {
	order     *domain.Order
	filled    math.Int
	remaining math.Int
	status    domain.OrderStatus
}

// removal records one Remove call, in the order it happened, so
// Rollback can replay removals in reverse and reconstruct exact FIFO
// order even when several orders were removed from the same level.
type removal struct {
	side  domain.Side
	order *domain.Order
}

// Journal records every order mutation and book removal performed by
// one matching operation against book, so the operation can be undone
// in full if it (or an operation composed around it, such as a swap's
// curve leg) ultimately fails. This is this module's mechanism for the
// "rolls back all state changes produced in the call" requirement:
// rather than mutate speculatively on a private copy of the book, it
// mutates the live book directly — as the matching algorithm always
// has — and keeps enough of a log to reverse exactly those mutations.
type Journal struct {
	book    *Book
	touched map[uint64]orderSnapshot
	removed []removal
}

// NewJournal starts a journal over book. Callers create one per
// operation and discard it once the operation commits; a journal that
// is never rolled back has no effect beyond the bookkeeping it does.
func NewJournal(book *Book) *Journal {
	return &Journal{book: book, touched: make(map[uint64]orderSnapshot)}
}

// Touch snapshots order's current Filled/Remaining/Status the first
// time it is mutated during this operation. Later touches of the same
// order are no-ops, so Rollback always restores the state the order
// had before this operation began. The synthetic, unbooked taker order
// (id 0) used by MatchTaker is never snapshotted — it has no existence
// beyond the call that creates it, so there is nothing to restore.
func (j *Journal) Touch(order *domain.Order) {
	if order.ID == 0 {
		return
	}
	if _, ok := j.touched[order.ID]; ok {
		return
	}
	j.touched[order.ID] = orderSnapshot{
		order:     order,
		filled:    order.FilledAmount,
		remaining: order.RemainingAmount,
		status:    order.Status,
	}
}

// Remove records order's removal from side's book, then performs it.
func (j *Journal) Remove(side domain.Side, order *domain.Order) {
	j.removed = append(j.removed, removal{side: side, order: order})
	j.book.Remove(side, order.ID)
}

// Rollback undoes every Remove and every touched order's field
// mutation recorded since the journal was created, restoring book and
// order state to exactly what it was beforehand. Removals are replayed
// in reverse, each reinserted at its level's head, which reconstructs
// the original FIFO order even when several removals interleaved
// across levels. Safe to call at most once per journal; a committed
// journal should simply be discarded instead.
func (j *Journal) Rollback() {
	for i := len(j.removed) - 1; i >= 0; i-- {
		r := j.removed[i]
		j.book.InsertFront(r.side, r.order)
	}
	for _, snap := range j.touched {
		snap.order.FilledAmount = snap.filled
		snap.order.RemainingAmount = snap.remaining
		snap.order.Status = snap.status
	}
	j.removed = nil
	j.touched = make(map[uint64]orderSnapshot)
}
