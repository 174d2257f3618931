// Package cmd defines and implements the CLI commands for the mandiprices
// executable.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/krishi-shayak/mandi-prices/internal/clock/system"
	"github.com/krishi-shayak/mandi-prices/internal/config"
	"github.com/krishi-shayak/mandi-prices/internal/fetcher"
	"github.com/krishi-shayak/mandi-prices/internal/logging"
	"github.com/krishi-shayak/mandi-prices/internal/mandi"
	"github.com/krishi-shayak/mandi-prices/internal/metrics"
	"github.com/krishi-shayak/mandi-prices/internal/provider/agmarknet"
	"github.com/krishi-shayak/mandi-prices/internal/provider/enam"
	"github.com/krishi-shayak/mandi-prices/internal/provider/synthetic"
)

var cfgFile string

// appKeyType is the key for storing the app state in the command context.
type appKeyType string

const appKey appKeyType = "app"

type appState struct {
	cfg    config.Config
	logger *zap.Logger
}

// newRootCmd creates and configures the root command.
func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mandiprices",
		Short: "Live mandi crop prices with retry and synthetic fallback.",
		Long: `mandiprices fetches current crop market prices for Indian states from
government portals (AGMARKNET, e-NAM), retrying and falling back to a
deterministic synthetic data source so callers always get a response.`,

		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(cfgFile)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			logger, err := logging.New(cfg.Logging.Development)
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}
			metrics.Init()
			ctx := context.WithValue(cmd.Context(), appKey, &appState{cfg: cfg, logger: logger})
			cmd.SetContext(ctx)
			return nil
		},

		PersistentPostRun: func(cmd *cobra.Command, _ []string) {
			if st, ok := cmd.Context().Value(appKey).(*appState); ok && st != nil {
				_ = st.logger.Sync()
			}
		},
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file path")

	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newPricesCmd())

	return cmd
}

// Execute is the main entry point.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func resolveApp(ctx context.Context) (*appState, error) {
	st, ok := ctx.Value(appKey).(*appState)
	if !ok || st == nil {
		return nil, errors.New("application services not initialized")
	}
	return st, nil
}

// buildFetcher wires the provider priority list and the orchestrator from
// the loaded configuration.
func buildFetcher(st *appState) *fetcher.Fetcher {
	clk := system.New()

	agm := agmarknet.New(agmarknet.Config{
		BaseURL:   st.cfg.Sources.AgmarknetURL,
		UserAgent: st.cfg.Sources.UserAgent,
		Timeout:   st.cfg.Timeout(),
	}, st.logger)
	en := enam.New(enam.Config{
		BaseURL:   st.cfg.Sources.EnamURL,
		UserAgent: st.cfg.Sources.UserAgent,
		Timeout:   st.cfg.Timeout(),
	}, st.logger)

	return fetcher.New(
		[]mandi.Provider{agm, en},
		synthetic.New(clk),
		clk,
		fetcher.Config{
			DevMode:       st.cfg.DevMode,
			MockFallback:  st.cfg.MockFallback,
			Timeout:       st.cfg.Timeout(),
			MaxRetries:    st.cfg.MaxRetries,
			RetryDelay:    st.cfg.RetryDelay(),
			DefaultSource: st.cfg.DefaultSource,
		},
		st.logger,
	)
}
