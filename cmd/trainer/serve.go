// ABOUTME: CLI command that runs the HTTP API server.
// ABOUTME: Wires clients, syncer, coach, and cache; stops cleanly on SIGINT/SIGTERM.
package main

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/harperreed/trainer/internal/anthropic"
	"github.com/harperreed/trainer/internal/coach"
	"github.com/harperreed/trainer/internal/server"
	"github.com/harperreed/trainer/internal/strava"
	"github.com/harperreed/trainer/internal/syncer"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the training tracker API server",
	Long: `Run the HTTP API server.

The server exposes the Strava OAuth flow, sync triggers, plan and
progress reads, the journal endpoints, and the AI coach. Prometheus
metrics are served on /metrics and a liveness probe on /healthz.

The AI endpoint needs ANTHROPIC_API_KEY; without it the rest of the API
works and /api/ai/analyze reports the feature as unavailable. Setting
REDIS_ADDR enables a short-lived response cache for read endpoints.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		stravaClient := strava.NewClient(cfg.StravaClientID, cfg.StravaClientSecret)
		sync := syncer.New(repo, stravaClient, logger)
		rollup := syncer.NewRollup(repo, logger)

		var analyzer *coach.Analyzer
		if cfg.AnthropicAPIKey != "" {
			client := anthropic.NewClient(cfg.AnthropicAPIKey, cfg.AnthropicModel)
			analyzer = coach.NewAnalyzer(repo, client, cfg.RaceDate, logger)
		} else {
			logger.Warn("ANTHROPIC_API_KEY not set, AI analysis disabled")
		}

		cache := server.NewCache(cfg.RedisAddr, logger)
		defer cache.Close()

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		srv := server.New(cfg, repo, stravaClient, sync, rollup, analyzer, cache, logger)
		return srv.Run(ctx)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
