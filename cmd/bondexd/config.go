package main

import (
	"fmt"
	"strings"

	"cosmossdk.io/math"
	"github.com/spf13/viper"

	"github.com/ledgerforge/bondex/fixedpoint"
	"github.com/ledgerforge/bondex/token"
)

// bondexConfig is the process-wide configuration bondexd reads via
// Viper, env-overridable with the BONDEX_ prefix, mirroring the
// mapstructure-tagged config struct + SetEnvPrefix/AutomaticEnv
// pattern in 0xtitan6-polymarket-mm/internal/config.Load.
type bondexConfig struct {
	Owner               string `mapstructure:"owner"`
	TokenFactory        string `mapstructure:"token_factory"`
	FeeCollector        string `mapstructure:"fee_collector"`
	SecondaryAMM        string `mapstructure:"secondary_amm"`
	BaseTokenDenom      string `mapstructure:"base_token_denom"`
	QuoteTokenTotalSupp int64  `mapstructure:"quote_token_total_supply"`
	BondingCurveSupply  int64  `mapstructure:"bonding_curve_supply"`
	LPSupply            int64  `mapstructure:"lp_supply"`
	MakerFeeBps         int64  `mapstructure:"maker_fee_bps"`
	TakerFeeBps         int64  `mapstructure:"taker_fee_bps"`
	MetricsAddr         string `mapstructure:"metrics_addr"`
}

func defaultConfig() bondexConfig {
	return bondexConfig{
		Owner:               "engine-owner",
		TokenFactory:        "token-factory",
		FeeCollector:        "fee-collector",
		SecondaryAMM:        "secondary-amm",
		BaseTokenDenom:      "uatom",
		QuoteTokenTotalSupp: 1_000_000_000,
		BondingCurveSupply:  800_000_000,
		LPSupply:            200_000_000,
		MakerFeeBps:         100, // 1%
		TakerFeeBps:         200, // 2%
		MetricsAddr:         ":9090",
	}
}

// loadConfig reads cfgFile (if set) layered over defaultConfig, with
// BONDEX_* environment overrides.
func loadConfig(cfgFile string) (bondexConfig, error) {
	cfg := defaultConfig()

	v := viper.New()
	v.SetEnvPrefix("BONDEX")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return cfg, fmt.Errorf("read config: %w", err)
		}
	}
	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("unmarshal config: %w", err)
	}
	return cfg, nil
}

// toTokenConfig converts the CLI-facing config into the validated
// token.Config the engine requires.
func (c bondexConfig) toTokenConfig() (*token.Config, error) {
	makerFee, err := fixedpoint.FromRatio(c.MakerFeeBps, 10_000)
	if err != nil {
		return nil, err
	}
	takerFee, err := fixedpoint.FromRatio(c.TakerFeeBps, 10_000)
	if err != nil {
		return nil, err
	}
	return token.NewConfig(
		c.Owner, c.TokenFactory, c.FeeCollector, c.SecondaryAMM, c.BaseTokenDenom,
		math.NewInt(c.QuoteTokenTotalSupp), math.NewInt(c.BondingCurveSupply), math.NewInt(c.LPSupply),
		makerFee, takerFee,
	)
}
