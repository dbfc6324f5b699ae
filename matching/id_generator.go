package matching

import "sync/atomic"

// IDGenerator hands out strictly monotonic ids across the process
// lifetime. Grounded on the teacher's IDGenerator (matching/id_generator.go
// in ccyyhlg lightning-exchange), which built string ids ("T1", "T2", ...)
// over an atomic counter; this system's ids are the bare uint64 counter
// itself (NEXT_ORDER_ID / NEXT_TRADE_ID), so the string-building and the
// strings.Builder pool it existed for are dropped.
type IDGenerator struct {
	counter uint64
}

// NewIDGenerator creates a generator starting from 0; the first Next()
// call returns 1.
func NewIDGenerator() *IDGenerator {
	return &IDGenerator{}
}

// Next returns the next unique id.
func (g *IDGenerator) Next() uint64 {
	return atomic.AddUint64(&g.counter, 1)
}

// Peek returns the most recently issued id without allocating a new
// one; zero if none have been issued yet.
func (g *IDGenerator) Peek() uint64 {
	return atomic.LoadUint64(&g.counter)
}

// Rollback resets the counter to a value previously returned by Peek,
// discarding every id issued since — used to undo the trade ids an
// operation allocated once it, or an operation composed around it,
// ultimately fails. Only safe when nothing else has observed or relied
// on the ids being discarded, which holds here because this system is
// single-threaded and transactional: no other caller can see a trade id
// before the operation that allocated it commits.
func (g *IDGenerator) Rollback(to uint64) {
	atomic.StoreUint64(&g.counter, to)
}
