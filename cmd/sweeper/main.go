// The sweeper periodically re-runs the allocation pass. A create whose
// matching pass failed leaves its funds unallocated until a later pass; this
// worker closes that window, and also picks up capacity added by raising a
// project target.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"charityfund/internal/allocation"
	"charityfund/internal/infra"
	"charityfund/internal/store"
)

func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv, "sweeper")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	dbpool, err := infra.NewDBPool(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect database")
	}
	defer dbpool.Close()

	db := store.New(dbpool, logger)
	if err := db.EnsureSchema(ctx); err != nil {
		logger.Fatal().Err(err).Msg("failed to apply schema")
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	logger.Info().Dur("interval", cfg.SweepInterval).Msg("sweeper started")
	ticker := time.NewTicker(cfg.SweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			sweep(ctx, db, logger)
		case <-stop:
			logger.Info().Msg("sweeper stopped")
			return
		}
	}
}

func sweep(ctx context.Context, db *store.Store, logger infra.Logger) {
	var res *allocation.Result
	err := db.WithTx(ctx, func(q *store.Queries) error {
		var err error
		res, err = allocation.Run(ctx, q, time.Now)
		return err
	})
	if err != nil {
		logger.Error().Err(err).Msg("sweep failed")
		return
	}
	if res.Moved() {
		logger.Info().
			Int64("transferred", res.Transferred).
			Int("closed_projects", res.ClosedProjects).
			Int("closed_donations", res.ClosedDonations).
			Msg("sweep allocated funds")
	}
}
