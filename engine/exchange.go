// Package engine wires every subsystem package behind one serialized
// entry point: Exchange dispatches every invocation as a synchronous,
// all-or-nothing operation and exposes the read-only query surface
// alongside it.
//
// Exchange favors one small struct owning its collaborators by
// value/pointer rather than a DI container, holding one mutex for the
// full duration of every call rather than routing orders to a
// per-symbol background matching goroutine: this system's operations
// are single-threaded and transactional end to end, so a channel per
// symbol would buy concurrency this model has no use for.
package engine

import (
	"sync"

	errorsmod "cosmossdk.io/errors"
	"cosmossdk.io/log"
	"cosmossdk.io/math"
	"github.com/google/uuid"

	"github.com/ledgerforge/bondex/curve"
	"github.com/ledgerforge/bondex/domain"
	"github.com/ledgerforge/bondex/effects"
	"github.com/ledgerforge/bondex/errs"
	"github.com/ledgerforge/bondex/host"
	"github.com/ledgerforge/bondex/lifecycle"
	"github.com/ledgerforge/bondex/matching"
	"github.com/ledgerforge/bondex/metrics"
	"github.com/ledgerforge/bondex/router"
	"github.com/ledgerforge/bondex/store"
	"github.com/ledgerforge/bondex/token"
)

// Exchange is the top-level, mutex-serialized entry point over one
// engine instance's full persisted state.
type Exchange struct {
	mu sync.Mutex

	engineAddr string // this engine's own address, used as spender in allowance checks

	store     *store.Store
	lifecycle *lifecycle.Manager
	router    *router.Router

	tokenContract host.TokenContract
	bank          host.Bank
	factory       host.TokenFactory
	secondaryAMM  host.SecondaryAMM

	logger  log.Logger
	metrics *metrics.Metrics
}

// New instantiates a fresh Exchange, validating cfg the same way spec
// §6's Instantiate does (delegated to token.NewConfig, called by the
// caller before constructing Exchange). m may be nil, in which case an
// unregistered metrics.Noop() bundle is used so every instrumentation
// call stays safe without requiring a Prometheus registry.
func New(engineAddr string, cfg *token.Config, tokenContract host.TokenContract, bank host.Bank, factory host.TokenFactory, secondaryAMM host.SecondaryAMM, logger log.Logger, m *metrics.Metrics) *Exchange {
	s := store.New()
	s.Config = cfg
	me := matching.NewEngine(s.TradeIDGenerator())
	if m == nil {
		m = metrics.Noop()
	}

	return &Exchange{
		engineAddr:    engineAddr,
		store:         s,
		lifecycle:     lifecycle.NewManager(factory),
		router:        router.New(me),
		tokenContract: tokenContract,
		bank:          bank,
		factory:       factory,
		secondaryAMM:  secondaryAMM,
		logger:        logger,
		metrics:       m,
	}
}

// CreateToken runs phase 1: validates the request, mints a fresh
// correlation id (the caller supplies none of its own — the engine is
// the one party that can tag the in-flight factory request and later
// recognize its reply), and forwards an
// instantiation request to the token factory tagged with it. No local
// token state is mutated; the returned id is the "pending" attribute
// callers surface to the user and must echo back into
// HandleFactoryReply.
func (e *Exchange) CreateToken(name, symbol string, decimals uint32, uri string, maxPriceImpact, curveSlope math.Int) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.store.Config.Enabled {
		return "", errs.ErrDisabled.Wrap("trading is globally disabled")
	}
	correlationID := uuid.NewString()
	if err := e.lifecycle.CreateTokenPhase1(correlationID, e.store.Config, name, symbol, decimals, uri, maxPriceImpact, curveSlope); err != nil {
		return "", err
	}
	e.logger.Info("create_token pending", "correlation_id", correlationID, "symbol", symbol)
	return correlationID, nil
}

// HandleFactoryReply runs phase 2: commits TokenInfo, TokenPair, and
// Pool atomically on a matching correlation id, or aborts with no
// partial state on a miss or mismatch.
func (e *Exchange) HandleFactoryReply(correlationID string, resp host.TokenCreationResponse) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.lifecycle.CreateTokenPhase2(e.store, e.store.Config, correlationID, resp); err != nil {
		e.logger.Info("create_token reply rejected", "correlation_id", correlationID, "error", err.Error())
		return err
	}
	e.logger.Info("create_token committed", "correlation_id", correlationID, "token", resp.TokenAddress)
	return nil
}

// PlaceLimitOrder validates funding, allocates an order id, books the
// order, and runs the matching engine against it in one call.
func (e *Exchange) PlaceLimitOrder(owner, pairID string, amount, price math.Int, isBuy bool, now int64) (uint64, []*domain.Trade, []effects.Effect, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.store.Config.Enabled {
		return 0, nil, nil, errs.ErrDisabled.Wrap("trading is globally disabled")
	}
	pair, ok := e.store.GetTokenPair(pairID)
	if !ok {
		return 0, nil, nil, errs.ErrNotFound.Wrap("unknown pair")
	}
	if !pair.Enabled {
		return 0, nil, nil, errs.ErrDisabled.Wrap("pair is disabled")
	}
	if amount.IsZero() || price.IsZero() {
		return 0, nil, nil, errs.ErrValidation.Wrap("amount and price must be positive")
	}

	side := domain.SideSell
	if isBuy {
		side = domain.SideBuy
	}
	if err := e.checkOrderFunding(pair, owner, side, amount, price); err != nil {
		return 0, nil, nil, err
	}

	orderID := e.store.NextOrderID()
	order := domain.NewLimitOrder(orderID, owner, pairID, side, price, amount, now)

	book := e.store.GetBook(pairID)
	book.Insert(order)
	e.store.PutOrder(order)

	engine := matching.NewEngine(e.store.TradeIDGenerator())
	trades, err := engine.Run(book, side, e.store.Config.MakerFee, e.store.Config.TakerFee, now)
	if err != nil {
		return 0, nil, nil, err
	}

	eb := &effects.Builder{}
	for _, t := range trades {
		e.store.PutTrade(t)
		matching.BuildEffects(eb, t, pair.QuoteTokenID, e.store.Config.FeeCollector)
	}

	e.metrics.OrdersPlaced.WithLabelValues(pairID, side.String()).Inc()
	e.metrics.TradesMatched.WithLabelValues(pairID).Add(float64(len(trades)))
	e.logger.Info("limit order placed", "order_id", orderID, "pair_id", pairID, "side", side.String(), "trades", len(trades))
	return orderID, trades, eb.Effects(), nil
}

// checkOrderFunding validates the taker-side funding rule: a
// buy must attach exactly price*amount of the base denom; a sell must
// already hold, and have approved this engine to spend, at least
// amount of the quote token.
func (e *Exchange) checkOrderFunding(pair *token.Pair, owner string, side domain.Side, amount, price math.Int) error {
	if side == domain.SideBuy {
		required := price.Mul(amount)
		attached := e.bank.AttachedFunds(e.store.Config.BaseTokenDenom)
		if !attached.Equal(required) {
			return errs.ErrPayment.Wrapf("attached base funds must equal price * amount exactly: expected %s, got %s", required, attached)
		}
		return nil
	}

	balance, err := e.tokenContract.Balance(pair.QuoteTokenID, owner)
	if err != nil {
		return err
	}
	if balance.LT(amount) {
		return errs.ErrPayment.Wrapf("insufficient quote token balance: expected at least %s, got %s", amount, balance)
	}
	allowance, err := e.tokenContract.Allowance(pair.QuoteTokenID, owner, e.engineAddr)
	if err != nil {
		return err
	}
	if allowance.LT(amount) {
		return errs.ErrPayment.Wrapf("insufficient quote token allowance: expected at least %s, got %s", amount, allowance)
	}
	return nil
}

// CancelOrder removes a resting order from its book and marks it
// Cancelled. The already-filled portion is not refunded.
func (e *Exchange) CancelOrder(owner, pairID string, orderID uint64) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	order, ok := e.store.GetOrder(orderID)
	if !ok {
		return errs.ErrNotFound.Wrap("order not found")
	}
	if order.Owner != owner {
		return errs.ErrUnauthorized.Wrap("caller does not own this order")
	}

	book := e.store.GetBook(pairID)
	book.Remove(order.Side, order.ID)
	order.Cancel()
	e.store.PutOrder(order)

	e.metrics.OrdersCancelled.Inc()
	e.logger.Info("order cancelled", "order_id", orderID, "owner", owner)
	return nil
}

// Swap executes a taker swap: resting book liquidity first, the
// bonding curve for any residual, under one min_return budget. pool
// absence (a graduated token) is only fatal if the book alone cannot
// fill the whole amount.
func (e *Exchange) Swap(takerOwner, pairID, tokenID string, amount, minReturn math.Int, isBuy bool, now int64) (*router.Result, []effects.Effect, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.store.Config.Enabled {
		return nil, nil, errs.ErrDisabled.Wrap("trading is globally disabled")
	}
	pair, ok := e.store.GetTokenPair(pairID)
	if !ok {
		return nil, nil, errs.ErrNotFound.Wrap("unknown pair")
	}
	if !pair.Enabled {
		return nil, nil, errs.ErrDisabled.Wrap("pair is disabled")
	}

	side := domain.SideSell
	if isBuy {
		side = domain.SideBuy
	}
	if err := e.checkSwapFunding(tokenID, takerOwner, side, amount); err != nil {
		e.metrics.SwapFailures.WithLabelValues("payment").Inc()
		return nil, nil, err
	}

	book := e.store.GetBook(pairID)
	var pool *curve.Pool
	if p, ok := e.store.GetPool(tokenID); ok {
		pool = p
	}

	res, eb, err := e.router.Swap(book, pool, router.Params{
		TakerOwner:     takerOwner,
		TokenID:        tokenID,
		FeeCollector:   e.store.Config.FeeCollector,
		Side:           side,
		Amount:         amount,
		MinReturn:      minReturn,
		CurveSupplyCap: e.store.Config.BondingCurveSupply,
		QuoteDecimals:  pair.QuoteDecimals,
		MakerFee:       e.store.Config.MakerFee,
		TakerFee:       e.store.Config.TakerFee,
		Now:            now,
	})
	if err != nil {
		e.metrics.SwapFailures.WithLabelValues(errCodespaceReason(err)).Inc()
		return nil, nil, err
	}

	for _, t := range res.Trades {
		e.store.PutTrade(t)
	}

	if res.MatchedByBook.IsPositive() {
		e.metrics.BookSwaps.WithLabelValues(pairID, side.String()).Inc()
	}
	if res.CurveAmount.IsPositive() {
		e.metrics.CurveSwaps.WithLabelValues(pairID, side.String()).Inc()
	}
	e.metrics.TradesMatched.WithLabelValues(pairID).Add(float64(len(res.Trades)))
	e.logger.Info("swap executed", "pair_id", pairID, "side", side.String(), "matched_by_book", res.MatchedByBook.String(), "curve_amount", res.CurveAmount.String())
	return res, eb.Effects(), nil
}

// errCodespaceReason extracts a coarse, low-cardinality label for
// SwapFailures from a cosmossdk.io/errors-wrapped error, falling back
// to "unknown" for anything not registered in errs.
func errCodespaceReason(err error) string {
	switch {
	case errorsmod.IsOf(err, errs.ErrSlippage):
		return "slippage"
	case errorsmod.IsOf(err, errs.ErrLiquidity):
		return "liquidity"
	case errorsmod.IsOf(err, errs.ErrSupplyCap):
		return "supply_cap"
	case errorsmod.IsOf(err, errs.ErrArithmetic):
		return "arithmetic"
	case errorsmod.IsOf(err, errs.ErrDisabled):
		return "disabled"
	default:
		return "unknown"
	}
}

// checkSwapFunding mirrors checkOrderFunding for the market-swap
// surface: a buy attaches amount of the base denom (the curve leg's
// own Δ convention, see package curve); a sell must hold and have
// approved amount of the quote token, matching both the book leg's
// and the curve leg's quote-unit convention for Sell.
func (e *Exchange) checkSwapFunding(tokenID, owner string, side domain.Side, amount math.Int) error {
	if side == domain.SideBuy {
		attached := e.bank.AttachedFunds(e.store.Config.BaseTokenDenom)
		if attached.LT(amount) {
			return errs.ErrPayment.Wrapf("insufficient attached base funds: expected at least %s, got %s", amount, attached)
		}
		return nil
	}

	balance, err := e.tokenContract.Balance(tokenID, owner)
	if err != nil {
		return err
	}
	if balance.LT(amount) {
		return errs.ErrPayment.Wrapf("insufficient quote token balance: expected at least %s, got %s", amount, balance)
	}
	allowance, err := e.tokenContract.Allowance(tokenID, owner, e.engineAddr)
	if err != nil {
		return err
	}
	if allowance.LT(amount) {
		return errs.ErrPayment.Wrapf("insufficient quote token allowance: expected at least %s, got %s", amount, allowance)
	}
	return nil
}

// Graduate is the owner-only, one-way transition off the bonding
// curve onto the secondary AMM.
func (e *Exchange) Graduate(caller, tokenID string) ([]effects.Effect, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	eb := &effects.Builder{}
	if err := lifecycle.Graduate(e.store, e.store.Config, caller, tokenID, eb); err != nil {
		return nil, err
	}
	e.metrics.Graduations.Inc()
	e.logger.Info("token graduated", "token_id", tokenID, "secondary_amm", e.secondaryAMM.Address())
	return eb.Effects(), nil
}

// UpdateConfig applies an owner-only partial config update.
func (e *Exchange) UpdateConfig(caller string, p token.UpdateParams) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.store.RequireOwner(caller); err != nil {
		return err
	}
	if err := e.store.Config.Apply(p); err != nil {
		return err
	}
	e.logger.Info("config updated", "caller", caller)
	return nil
}
