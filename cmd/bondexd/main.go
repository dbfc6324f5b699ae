// Command bondexd is a thin CLI wrapper over package engine: its two
// Cobra subcommands (demo, serve) run one scripted scenario against
// the engine, with process configuration loaded by Viper. There is no
// subcommand per invocation variant. It is a local exercising harness, not a
// production host: the real host-call glue (wire serialization,
// address derivation, actual bank/token-contract effect execution) is
// out of this module's scope per spec §1 and is stood in for here by
// package hostmock.
//
// Grounded on the cobra root-command + Execute() layout used by
// NimbleMarkets-dbn-go's cmd/dbn-go-hist and cmd/dbn-go-file binaries,
// and on the Viper config-loading pattern in
// 0xtitan6-polymarket-mm/internal/config.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
