// Package effects accumulates the outbound transfer and allowance
// effects produced by one engine operation. Nothing in this package
// performs I/O: an EffectBuilder is a plain append-only list that the
// caller (the host-call glue, out of scope for this module) flushes
// after an operation commits.
//
// Grounded on the teacher's trade/event construction in matching
// (ccyyhlg lightning-exchange never needed outbound transfers since it
// only matched orders in memory) generalized using the effect-list
// pattern described by the CosmWasm origin of this system
// (Response.add_message / add_attribute in original_source), expressed
// here as a plain Go slice instead of a message queue.
package effects

import "cosmossdk.io/math"

// Kind discriminates the effect variants an operation can emit.
type Kind int

const (
	// TransferBase moves the base reserve denom from the engine to a
	// recipient.
	TransferBase Kind = iota
	// TransferQuote moves a pair's quote (bonding-curve) token from the
	// engine to a recipient.
	TransferQuote
	// IncreaseAllowance grants a spender an allowance over a quote
	// token, used at graduation to hand the LP reserve to the
	// secondary AMM.
	IncreaseAllowance
)

// Effect is one outbound transfer or allowance grant.
type Effect struct {
	Kind      Kind
	Recipient string
	TokenID   string // empty for TransferBase
	Amount    math.Int
}

// Builder accumulates effects for one operation. The zero value is
// ready to use.
type Builder struct {
	effects []Effect
}

// TransferBase appends an outbound base-denom transfer.
func (b *Builder) TransferBase(recipient string, amount math.Int) {
	b.effects = append(b.effects, Effect{Kind: TransferBase, Recipient: recipient, Amount: amount})
}

// TransferQuote appends an outbound quote-token transfer.
func (b *Builder) TransferQuote(recipient, tokenID string, amount math.Int) {
	b.effects = append(b.effects, Effect{Kind: TransferQuote, Recipient: recipient, TokenID: tokenID, Amount: amount})
}

// IncreaseAllowance appends an allowance grant effect.
func (b *Builder) IncreaseAllowance(spender, tokenID string, amount math.Int) {
	b.effects = append(b.effects, Effect{Kind: IncreaseAllowance, Recipient: spender, TokenID: tokenID, Amount: amount})
}

// Effects returns the accumulated effects in emission order.
func (b *Builder) Effects() []Effect { return b.effects }

// Reset discards any accumulated effects, used when an operation rolls
// back and must not flush partial output.
func (b *Builder) Reset() { b.effects = nil }
