// Package errs registers the taxonomy of errors the trading engine can
// return, in the same register-once style used by cosmos-sdk modules.
package errs

import (
	errorsmod "cosmossdk.io/errors"
)

// codespace groups every sentinel below under one namespace, matching
// the convention cosmos-sdk modules use for their own error registries.
const codespace = "bondex"

var (
	ErrUnauthorized    = errorsmod.Register(codespace, 2, "unauthorized")
	ErrDisabled        = errorsmod.Register(codespace, 3, "trading disabled")
	ErrNotFound        = errorsmod.Register(codespace, 4, "not found")
	ErrValidation      = errorsmod.Register(codespace, 5, "validation failed")
	ErrPayment         = errorsmod.Register(codespace, 6, "payment mismatch")
	ErrSlippage        = errorsmod.Register(codespace, 7, "slippage exceeded")
	ErrLiquidity       = errorsmod.Register(codespace, 8, "insufficient liquidity")
	ErrSupplyCap       = errorsmod.Register(codespace, 9, "supply cap reached")
	ErrArithmetic      = errorsmod.Register(codespace, 10, "arithmetic error")
	ErrInvariant       = errorsmod.Register(codespace, 11, "invariant violation")
	ErrState           = errorsmod.Register(codespace, 12, "invalid state transition")
)
