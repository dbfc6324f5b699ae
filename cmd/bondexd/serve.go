package main

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/ledgerforge/bondex/metrics"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "boot an Exchange, run the demo scenario once, then serve its Prometheus metrics",
	Long: `serve bootstraps an Exchange the same way demo does, runs the same
scripted scenario so the counters have something to show, and then
blocks serving /metrics on the configured address. Ctrl-C to stop.`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cfgFile)
	if err != nil {
		return err
	}
	m := metrics.New()
	m.MustRegister(prometheus.DefaultRegisterer)

	if err := runScenario(cmd, cfg, m); err != nil {
		return err
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	cmd.Printf("serving metrics on %s/metrics\n", cfg.MetricsAddr)
	return http.ListenAndServe(cfg.MetricsAddr, mux)
}
