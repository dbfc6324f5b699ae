// Package host declares the narrow collaborator interfaces the engine
// calls out to but does not implement itself: the per-token fungible
// contract, the native bank, the token factory, and the secondary AMM
// graduation receives into. Spec §1 places all of this "out of scope"
// and §6 specifies it only by interface; this package is that
// interface boundary. Production wiring (wire serialization, address
// derivation, actual message dispatch) lives entirely outside this
// module.
//
// Grounded on the teacher's IMatchingEngine/IOrderBook pattern of
// defining small capability interfaces next to their implementations
// (ccyyhlg lightning-exchange, orderbook/price_tree_interface.go),
// applied here to the CosmWasm external-message surface described in
// original_source/bonding-curve-dex/src/msg.rs (TokenFactoryExecuteMsg,
// Cw20ExecuteMsg, TokenCreationResponse).
package host

import "cosmossdk.io/math"

// TokenContract is the fungible-token interface every minted quote
// token exposes, modeled on a CW20-style contract.
type TokenContract interface {
	Transfer(tokenID, to string, amount math.Int) error
	TransferFrom(tokenID, from, to string, amount math.Int) error
	IncreaseAllowance(tokenID, spender string, amount math.Int) error
	Balance(tokenID, owner string) (math.Int, error)
	Allowance(tokenID, owner, spender string) (math.Int, error)
}

// Bank is the native reserve-asset transfer interface.
type Bank interface {
	Send(denom, to string, amount math.Int) error
	// AttachedFunds reports the amount of denom attached to the
	// in-flight invocation by the caller, used to validate a buy
	// order's exact-payment requirement and a swap buy's
	// minimum-payment check.
	AttachedFunds(denom string) math.Int
}

// TokenCreationRequest is the payload CreateToken's phase 1 sends the
// factory.
type TokenCreationRequest struct {
	Name            string
	Symbol          string
	Decimals        uint32
	URI             string
	MaxPriceImpact  math.Int
	CurveSlope      math.Int
	InitialBalances []InitialBalance
}

// InitialBalance seeds the minted token's starting distribution; the
// engine always requests its own address be minted the full supply.
type InitialBalance struct {
	Address string
	Amount  math.Int
}

// TokenCreationResponse is the factory's phase-2 reply payload.
type TokenCreationResponse struct {
	TokenAddress   string
	Name           string
	Symbol         string
	Decimals       uint32
	MaxPriceImpact math.Int
	CurveSlope     math.Int
}

// TokenFactory instantiates new token contracts asynchronously: the
// engine sends a request tagged with a correlation id and later
// receives a reply carrying the same id.
type TokenFactory interface {
	RequestCreateToken(correlationID string, req TokenCreationRequest) error
}

// SecondaryAMM is the graduation destination; the engine only ever
// grants it an allowance, it never calls in directly.
type SecondaryAMM interface {
	Address() string
}
