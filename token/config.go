// Package token holds the engine's process-wide configuration and the
// per-token/per-pair registry: TokenInfo, TokenPair, and the Config
// singleton that governs fees, supply caps, and the global enabled
// flag.
//
// Config/TokenInfo/TokenPair are plain Go structs behind the store
// package rather than a key-value Item/Map accessor layer, carrying
// amounts as cosmossdk.io/math.Int rather than a bespoke big-integer
// wrapper.
package token

import (
	"cosmossdk.io/math"

	"github.com/ledgerforge/bondex/errs"
	"github.com/ledgerforge/bondex/fixedpoint"
)

// Config is the engine's single process-wide configuration record.
type Config struct {
	Owner               string
	TokenFactory        string
	FeeCollector        string
	SecondaryAMM        string
	BaseTokenDenom      string
	QuoteTokenTotalSupp math.Int
	BondingCurveSupply  math.Int
	LPSupply            math.Int
	MakerFee            fixedpoint.FixedDecimal
	TakerFee            fixedpoint.FixedDecimal
	Enabled             bool
}

// NewConfig validates and constructs the initial Config: all fields
// are required and non-zero except Enabled, which instantiation always
// starts true; fees must be in (0,1).
func NewConfig(owner, tokenFactory, feeCollector, secondaryAMM, baseTokenDenom string,
	quoteSupply, curveSupply, lpSupply math.Int,
	makerFee, takerFee fixedpoint.FixedDecimal) (*Config, error) {

	if owner == "" || tokenFactory == "" || feeCollector == "" || secondaryAMM == "" {
		return nil, errs.ErrValidation.Wrap("principal fields must be non-empty")
	}
	if baseTokenDenom == "" {
		return nil, errs.ErrValidation.Wrap("base_token_denom must be non-empty")
	}
	if quoteSupply.IsZero() || curveSupply.IsZero() || lpSupply.IsZero() {
		return nil, errs.ErrValidation.Wrap("supply fields must be non-zero")
	}
	if curveSupply.Add(lpSupply).GT(quoteSupply) {
		return nil, errs.ErrValidation.Wrap("bonding_curve_supply + lp_supply must not exceed quote_token_total_supply")
	}
	if !feeInRange(makerFee) || !feeInRange(takerFee) {
		return nil, errs.ErrValidation.Wrap("fees must lie in (0,1)")
	}

	return &Config{
		Owner:               owner,
		TokenFactory:        tokenFactory,
		FeeCollector:        feeCollector,
		SecondaryAMM:        secondaryAMM,
		BaseTokenDenom:      baseTokenDenom,
		QuoteTokenTotalSupp: quoteSupply,
		BondingCurveSupply:  curveSupply,
		LPSupply:            lpSupply,
		MakerFee:            makerFee,
		TakerFee:            takerFee,
		Enabled:             true,
	}, nil
}

func feeInRange(f fixedpoint.FixedDecimal) bool {
	return f.GT(fixedpoint.Zero()) && f.LT(fixedpoint.One())
}

// UpdateParams is a partial update request; nil pointers leave the
// corresponding field untouched.
type UpdateParams struct {
	TokenFactory       *string
	FeeCollector       *string
	MakerFee           *fixedpoint.FixedDecimal
	TakerFee           *fixedpoint.FixedDecimal
	QuoteTokenTotalSup *math.Int
	BondingCurveSupply *math.Int
	LPSupply           *math.Int
	Enabled            *bool
}

// Apply performs the owner-only partial update, validating fee and
// supply-cap invariants before mutating anything so the update is
// all-or-nothing.
func (c *Config) Apply(p UpdateParams) error {
	maker, taker := c.MakerFee, c.TakerFee
	if p.MakerFee != nil {
		maker = *p.MakerFee
	}
	if p.TakerFee != nil {
		taker = *p.TakerFee
	}
	if !feeInRange(maker) || !feeInRange(taker) {
		return errs.ErrValidation.Wrap("fees must lie in (0,1)")
	}

	quoteSupply, curveSupply, lpSupply := c.QuoteTokenTotalSupp, c.BondingCurveSupply, c.LPSupply
	if p.QuoteTokenTotalSup != nil {
		quoteSupply = *p.QuoteTokenTotalSup
	}
	if p.BondingCurveSupply != nil {
		curveSupply = *p.BondingCurveSupply
	}
	if p.LPSupply != nil {
		lpSupply = *p.LPSupply
	}
	if curveSupply.Add(lpSupply).GT(quoteSupply) {
		return errs.ErrValidation.Wrap("bonding_curve_supply + lp_supply must not exceed quote_token_total_supply")
	}

	c.MakerFee, c.TakerFee = maker, taker
	c.QuoteTokenTotalSupp, c.BondingCurveSupply, c.LPSupply = quoteSupply, curveSupply, lpSupply
	if p.TokenFactory != nil {
		c.TokenFactory = *p.TokenFactory
	}
	if p.FeeCollector != nil {
		c.FeeCollector = *p.FeeCollector
	}
	if p.Enabled != nil {
		c.Enabled = *p.Enabled
	}
	return nil
}
