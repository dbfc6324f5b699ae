// Package lifecycle implements the two-phase CreateToken state machine
// and the one-way Graduate transition described in spec §4.7.
//
// Grounded on execute_create_token / the reply entry point / execute_graduate
// in original_source/bonding-curve-dex/src/contract.rs — the Rust
// source composes phase 2 via a host reply hook keyed by a fixed reply
// id; this Go port generalizes the correlation key to a
// caller-supplied string id (spec §9: "model it as an explicit state
// machine... the reply entry point is a separate operation that must
// check the correlation id and commit"), since a single Go process can
// have many create-token requests in flight against a real async
// token factory, unlike CosmWasm's single in-flight submessage.
package lifecycle

import (
	"cosmossdk.io/math"

	"github.com/ledgerforge/bondex/curve"
	"github.com/ledgerforge/bondex/effects"
	"github.com/ledgerforge/bondex/errs"
	"github.com/ledgerforge/bondex/host"
	"github.com/ledgerforge/bondex/store"
	"github.com/ledgerforge/bondex/token"
)

// Pending is phase 1's record of an in-flight token creation, keyed by
// correlation id until phase 2's reply commits or the request is
// abandoned.
type Pending struct {
	CorrelationID string
	Name          string
	Symbol        string
	Decimals      uint32
	MaxPriceImpact math.Int
	CurveSlope    math.Int
}

// Manager drives CreateToken and Graduate against a Store and a
// TokenFactory collaborator. It holds pending phase-1 requests in
// memory; per spec §5, between phase 1 and phase 2 the pending token
// has no committed engine state.
type Manager struct {
	factory host.TokenFactory
	pending map[string]Pending
}

// NewManager builds a lifecycle manager over factory.
func NewManager(factory host.TokenFactory) *Manager {
	return &Manager{factory: factory, pending: make(map[string]Pending)}
}

// CreateTokenPhase1 validates the request and sends the factory an
// instantiation request tagged with correlationID. No local token
// state is mutated; the caller's attribute/event surface (out of this
// module's scope) reports the pending request.
func (m *Manager) CreateTokenPhase1(correlationID string, cfg *token.Config, name, symbol string, decimals uint32, uri string, maxPriceImpact, curveSlope math.Int) error {
	if name == "" || symbol == "" {
		return errs.ErrValidation.Wrap("name and symbol must be non-empty")
	}
	if decimals == 0 {
		return errs.ErrValidation.Wrap("decimals must be greater than 0")
	}
	if maxPriceImpact.IsZero() {
		return errs.ErrValidation.Wrap("max_price_impact must be greater than 0")
	}
	if curveSlope.IsZero() {
		return errs.ErrValidation.Wrap("curve_slope must be greater than 0")
	}

	scale := math.OneInt()
	ten := math.NewInt(10)
	for i := uint32(0); i < decimals; i++ {
		scale = scale.Mul(ten)
	}
	totalSupply := cfg.QuoteTokenTotalSupp.Mul(scale)

	req := host.TokenCreationRequest{
		Name:           name,
		Symbol:         symbol,
		Decimals:       decimals,
		URI:            uri,
		MaxPriceImpact: maxPriceImpact,
		CurveSlope:     curveSlope,
		InitialBalances: []host.InitialBalance{
			{Address: "engine", Amount: totalSupply},
		},
	}
	if err := m.factory.RequestCreateToken(correlationID, req); err != nil {
		return err
	}

	m.pending[correlationID] = Pending{
		CorrelationID:  correlationID,
		Name:           name,
		Symbol:         symbol,
		Decimals:       decimals,
		MaxPriceImpact: maxPriceImpact,
		CurveSlope:     curveSlope,
	}
	return nil
}

// CreateTokenPhase2 commits the reply: it checks the correlation id
// against the pending request, then atomically creates TokenInfo,
// TokenPair, and Pool. A missing or mismatched correlation id aborts
// with no state committed.
func (m *Manager) CreateTokenPhase2(s *store.Store, cfg *token.Config, correlationID string, resp host.TokenCreationResponse) error {
	pending, ok := m.pending[correlationID]
	if !ok {
		return errs.ErrNotFound.Wrap("no pending token creation for correlation id")
	}
	if pending.Symbol != resp.Symbol || pending.Decimals != resp.Decimals {
		return errs.ErrState.Wrap("reply does not match pending request")
	}

	pairID, err := token.PairID(resp.Symbol, cfg.BaseTokenDenom)
	if err != nil {
		return err
	}
	if _, exists := s.GetTokenPair(pairID); exists {
		return errs.ErrState.Wrap("duplicate (name, symbol): pair already exists")
	}

	info := token.NewInfo(resp.TokenAddress, pending.Name, resp.Symbol, resp.Decimals, cfg.QuoteTokenTotalSupp, resp.MaxPriceImpact)
	pair := token.NewPair(pairID, cfg.BaseTokenDenom, resp.TokenAddress, resp.Decimals)
	pool := curve.NewPool(resp.TokenAddress, resp.CurveSlope)

	s.PutTokenInfo(info)
	s.PutTokenPair(pair)
	s.PutPool(pool)

	delete(m.pending, correlationID)
	return nil
}

// Graduate implements spec §4.7's one-way transition: owner-only,
// requires token_info.graduated == false and pool.token_sold ==
// config.bonding_curve_supply exactly. On success it sets graduated,
// deletes the pool, and appends an IncreaseAllowance effect granting
// the secondary AMM config.lp_supply of the quote token.
func Graduate(s *store.Store, cfg *token.Config, caller, tokenID string, eb *effects.Builder) error {
	if caller != cfg.Owner {
		return errs.ErrUnauthorized.Wrap("only the owner may graduate a token")
	}

	info, ok := s.GetTokenInfo(tokenID)
	if !ok {
		return errs.ErrNotFound.Wrap("unknown token")
	}
	pool, ok := s.GetPool(tokenID)
	if !ok {
		return errs.ErrNotFound.Wrap("token has no active pool")
	}
	if info.Graduated {
		return errs.ErrState.Wrap("token already graduated")
	}
	if !pool.TokenSold.Equal(cfg.BondingCurveSupply) {
		return errs.ErrState.Wrap("bonding curve supply has not been fully sold")
	}

	info.Graduated = true
	s.PutTokenInfo(info)
	s.DeletePool(tokenID)

	eb.IncreaseAllowance(cfg.SecondaryAMM, tokenID, cfg.LPSupply)
	return nil
}
