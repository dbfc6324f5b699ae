package main

import (
	"os"

	"cosmossdk.io/log"
	"github.com/spf13/cobra"

	"github.com/ledgerforge/bondex/engine"
	"github.com/ledgerforge/bondex/hostmock"
	"github.com/ledgerforge/bondex/metrics"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "bondexd",
	Short: "bondexd exercises the bondex hybrid CLOB/bonding-curve engine locally",
	Long: `bondexd runs a scripted scenario against the engine package for
local exercising: it is not a production trading host.
Every subcommand runs against a freshly bootstrapped, in-process
Exchange backed by package hostmock's collaborator doubles.`,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "path to a YAML config file (overrides built-in defaults)")
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(demoCmd)
}

// bootstrap builds a fresh Exchange and its hostmock collaborators
// from the loaded config, instrumented with m. It registers nothing
// with Prometheus; serve registers m itself before calling in.
func bootstrap(cfg bondexConfig, m *metrics.Metrics) (*engine.Exchange, *hostmock.TokenContract, *hostmock.Bank, *hostmock.TokenFactory, error) {
	tokenCfg, err := cfg.toTokenConfig()
	if err != nil {
		return nil, nil, nil, nil, err
	}

	tc := hostmock.NewTokenContract()
	bank := hostmock.NewBank()
	factory := hostmock.NewTokenFactory()
	secondaryAMM := &hostmock.SecondaryAMM{Addr: cfg.SecondaryAMM}

	logger := log.NewLogger(os.Stderr)
	ex := engine.New("bondex-engine", tokenCfg, tc, bank, factory, secondaryAMM, logger, m)
	return ex, tc, bank, factory, nil
}
