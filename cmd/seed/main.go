package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/kruthikhak/Care-Connect/internal/adapters/database"
	"github.com/kruthikhak/Care-Connect/internal/adapters/memory"
	"github.com/kruthikhak/Care-Connect/internal/infrastructure/clients/postgres"
	"github.com/kruthikhak/Care-Connect/internal/infrastructure/observability"
	"github.com/kruthikhak/Care-Connect/pkg/config"
)

func main() {
	_ = godotenv.Load()

	resetDefault, _ := strconv.ParseBool(os.Getenv("RESET_DB"))
	var reset bool
	flag.BoolVar(&reset, "reset", resetDefault, "Truncate all tables before seeding")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		observability.GetLogger().Fatal().Err(err).Msg("failed to load config")
	}
	observability.InitLogger("care-connect-seed", cfg.Server.Env, cfg.Logging.Level)
	logger := observability.GetLogger()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	pgClient, err := postgres.NewClient(ctx, &cfg.Database)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pgClient.Close()

	if err := database.EnsureSchema(ctx, pgClient); err != nil {
		logger.Fatal().Err(err).Msg("failed to apply schema")
	}
	if reset {
		logger.Warn().Msg("truncating directory tables")
		if err := database.Truncate(ctx, pgClient); err != nil {
			logger.Fatal().Err(err).Msg("failed to reset database")
		}
	}

	seed, err := memory.LoadSeed()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load seed data")
	}

	start := time.Now()
	if err := seed.Apply(ctx, database.NewHospitalAdapter(pgClient), database.NewDoctorAdapter(pgClient)); err != nil {
		logger.Fatal().Err(err).Msg("seeding failed")
	}
	logger.Info().
		Int("hospitals", len(seed.Hospitals)).
		Int("doctors", len(seed.Doctors)).
		Dur("elapsed", time.Since(start)).
		Msg("seed complete")
}
