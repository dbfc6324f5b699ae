package main

import (
	"fmt"

	"cosmossdk.io/math"
	"github.com/spf13/cobra"

	"github.com/ledgerforge/bondex/host"
	"github.com/ledgerforge/bondex/metrics"
	"github.com/ledgerforge/bondex/token"
)

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "run a scripted walkthrough of token creation, limit orders, and a swap",
	Long: `demo boots a single in-process Exchange and drives it through
token creation, limit order placement on both sides of the book, and
a router swap that crosses the book before touching the curve --
printing the engine's own log lines and a final query snapshot. It
does not cancel orders, graduate the token, or update the config. It
is a smoke test for the wiring, not a benchmark.`,
	RunE: runDemo,
}

func runDemo(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cfgFile)
	if err != nil {
		return err
	}
	return runScenario(cmd, cfg, metrics.New())
}

// runScenario drives the scripted walkthrough against an Exchange
// bootstrapped from cfg, instrumented with m. Shared by demoCmd and
// serveCmd so serve's /metrics endpoint reports the same counters the
// scenario actually incremented, rather than a second, disconnected
// bundle.
func runScenario(cmd *cobra.Command, cfg bondexConfig, m *metrics.Metrics) error {
	ex, tc, bank, factory, err := bootstrap(cfg, m)
	if err != nil {
		return fmt.Errorf("bootstrap: %w", err)
	}

	const bob = "bob"
	const alice = "alice"
	const carol = "carol"
	const tokenAddr = "demo-token-addr"

	correlationID, err := ex.CreateToken("Demo Token", "DEMO", 6, "ipfs://demo", math.NewInt(10_000), math.NewInt(1))
	if err != nil {
		return fmt.Errorf("create token phase 1: %w", err)
	}
	pending, ok := factory.Pending[correlationID]
	if !ok {
		return fmt.Errorf("factory never received correlation id %s", correlationID)
	}
	if err := ex.HandleFactoryReply(correlationID, host.TokenCreationResponse{
		TokenAddress:   tokenAddr,
		Name:           pending.Name,
		Symbol:         pending.Symbol,
		Decimals:       pending.Decimals,
		MaxPriceImpact: pending.MaxPriceImpact,
		CurveSlope:     pending.CurveSlope,
	}); err != nil {
		return fmt.Errorf("create token phase 2: %w", err)
	}
	pairID, err := token.PairID(pending.Symbol, cfg.BaseTokenDenom)
	if err != nil {
		return err
	}
	cmd.Printf("pair created: %s\n", pairID)

	// Seed bob with quote tokens to rest a sell order.
	tc.Mint(tokenAddr, bob, math.NewInt(500))
	tc.SetAllowance(tokenAddr, bob, "bondex-engine", math.NewInt(500))
	if _, _, _, err := ex.PlaceLimitOrder(bob, pairID, math.NewInt(500), math.NewInt(10), false, 1); err != nil {
		return fmt.Errorf("place sell: %w", err)
	}

	// Alice crosses it with a buy, attaching exactly price*amount.
	bank.SetAttached(cfg.BaseTokenDenom, math.NewInt(3_000))
	_, trades, _, err := ex.PlaceLimitOrder(alice, pairID, math.NewInt(300), math.NewInt(10), true, 2)
	if err != nil {
		return fmt.Errorf("place buy: %w", err)
	}
	cmd.Printf("book match produced %d trade(s)\n", len(trades))

	// Carol's swap crosses whatever book liquidity remains, then falls
	// through to the bonding curve for the residual.
	bank.SetAttached(cfg.BaseTokenDenom, math.NewInt(2_000))
	res, _, err := ex.Swap(carol, pairID, tokenAddr, math.NewInt(2_000), math.NewInt(1), true, 3)
	if err != nil {
		return fmt.Errorf("swap: %w", err)
	}
	cmd.Printf("swap settled: book=%s curve=%s trades=%d\n", res.MatchedByBook, res.CurveAmount, len(res.Trades))

	stats := ex.GetSystemStats()
	cmd.Printf("final stats: tokens=%d pairs=%d orders=%d trades=%d\n",
		stats.TokenCount, stats.PairCount, stats.OrderCount, stats.TradeCount)
	return nil
}
