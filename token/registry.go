package token

import (
	"strings"

	"cosmossdk.io/math"

	"github.com/ledgerforge/bondex/curve"
	"github.com/ledgerforge/bondex/errs"
)

// Info is one token's static metadata, created once on the phase-2
// commit of CreateToken.
type Info struct {
	TokenID         string
	Name            string
	Symbol          string
	Decimals        uint32
	TotalSupply     math.Int
	InitialPrice    math.Int
	MaxPriceImpact  math.Int
	Graduated       bool
}

// NewInfo builds the TokenInfo committed at CreateToken phase 2:
// total_supply = config.quote_token_total_supply * 10^decimals,
// initial_price fixed at curve.BasePrice.
func NewInfo(tokenID, name, symbol string, decimals uint32, quoteTotalSupply, maxPriceImpact math.Int) *Info {
	scale := math.OneInt()
	ten := math.NewInt(10)
	for i := uint32(0); i < decimals; i++ {
		scale = scale.Mul(ten)
	}
	return &Info{
		TokenID:        tokenID,
		Name:           name,
		Symbol:         symbol,
		Decimals:       decimals,
		TotalSupply:    quoteTotalSupply.Mul(scale),
		InitialPrice:   math.NewInt(curve.BasePrice),
		MaxPriceImpact: maxPriceImpact,
	}
}

// Pair is one trading pair's metadata: the reserve (base) denom and
// the quote token it trades against.
type Pair struct {
	PairID       string
	BaseDenom    string
	QuoteTokenID string
	BaseDecimals uint32
	QuoteDecimals uint32
	Enabled      bool
}

// BaseDecimals is fixed at 6 for the reserve asset across the whole
// engine.
const BaseDecimals = 6

// PairID derives the canonical pair id "{symbol}/{base_denom_without_prefix}",
// stripping the base denom's one reserved prefix byte (e.g. "uatom" -> "atom").
func PairID(symbol, baseDenom string) (string, error) {
	if len(baseDenom) < 2 {
		return "", errs.ErrValidation.Wrap("base_token_denom too short to strip prefix")
	}
	return symbol + "/" + strings.TrimPrefix(baseDenom, baseDenom[:1]), nil
}

// NewPair builds the TokenPair committed at CreateToken phase 2.
func NewPair(pairID, baseDenom, quoteTokenID string, quoteDecimals uint32) *Pair {
	return &Pair{
		PairID:        pairID,
		BaseDenom:     baseDenom,
		QuoteTokenID:  quoteTokenID,
		BaseDecimals:  BaseDecimals,
		QuoteDecimals: quoteDecimals,
		Enabled:       true,
	}
}
