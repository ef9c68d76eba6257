package main

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/kruthikhak/Care-Connect/internal/adapters/cache"
	"github.com/kruthikhak/Care-Connect/internal/adapters/database"
	"github.com/kruthikhak/Care-Connect/internal/adapters/events"
	"github.com/kruthikhak/Care-Connect/internal/adapters/memory"
	"github.com/kruthikhak/Care-Connect/internal/adapters/providers/geocoding"
	"github.com/kruthikhak/Care-Connect/internal/api/handlers"
	"github.com/kruthikhak/Care-Connect/internal/api/middleware"
	"github.com/kruthikhak/Care-Connect/internal/api/routes"
	"github.com/kruthikhak/Care-Connect/internal/application/services"
	"github.com/kruthikhak/Care-Connect/internal/domain/providers"
	"github.com/kruthikhak/Care-Connect/internal/domain/repositories"
	"github.com/kruthikhak/Care-Connect/internal/infrastructure/clients/postgres"
	"github.com/kruthikhak/Care-Connect/internal/infrastructure/clients/redis"
	"github.com/kruthikhak/Care-Connect/internal/infrastructure/observability"
	"github.com/kruthikhak/Care-Connect/pkg/config"
	"golang.org/x/sync/errgroup"
)

type repositorySet struct {
	hospitals    repositories.HospitalRepository
	doctors      repositories.DoctorRepository
	users        repositories.UserRepository
	reviews      repositories.ReviewRepository
	appointments repositories.AppointmentRepository
	feedback     repositories.FeedbackRepository
}

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "failed to read .env: %v\n", err)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	observability.InitLogger(cfg.OTEL.ServiceName, cfg.Server.Env, cfg.Logging.Level)
	logger := observability.GetLogger()

	if err := run(cfg); err != nil {
		logger.Fatal().Err(err).Msg("server exited with error")
	}
}

func run(cfg *config.Config) error {
	logger := observability.GetLogger()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize OpenTelemetry if enabled
	if cfg.OTEL.Enabled && cfg.OTEL.Endpoint != "" {
		shutdown, err := observability.Setup(ctx, cfg.OTEL.ServiceName, cfg.OTEL.ServiceVersion, cfg.OTEL.Endpoint)
		if err != nil {
			logger.Warn().Err(err).Msg("failed to set up OpenTelemetry")
		} else {
			defer func() {
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := shutdown(shutdownCtx); err != nil {
					logger.Error().Err(err).Msg("error shutting down OpenTelemetry")
				}
			}()
			logger.Info().Str("endpoint", cfg.OTEL.Endpoint).Msg("OpenTelemetry initialized")
		}
	}

	checks := map[string]handlers.Pinger{}

	// Cache and event bus: Redis when enabled, in-process otherwise
	var (
		cacheProvider providers.CacheProvider
		eventBus      providers.EventBus
	)
	if cfg.Redis.Enabled {
		redisClient, err := redis.NewClient(ctx, &cfg.Redis)
		if err != nil {
			return fmt.Errorf("initialize redis: %w", err)
		}
		defer redisClient.Close()
		checks["redis"] = redisClient

		cacheProvider = cache.NewRedisAdapter(redisClient)
		eventBus = events.NewRedisEventBus(redisClient)
		logger.Info().Str("host", cfg.Redis.Host).Msg("redis cache and event bus enabled")
	} else {
		cacheProvider = cache.NewMemoryAdapter()
		eventBus = events.NewLocalEventBus()
		logger.Info().Msg("using in-process cache and event bus")
	}
	defer func() {
		if err := eventBus.Close(); err != nil {
			logger.Error().Err(err).Msg("error closing event bus")
		}
	}()

	repos, closeStorage, err := openStorage(ctx, cfg, cacheProvider, checks)
	if err != nil {
		return err
	}
	defer closeStorage()

	var geocoder providers.GeocodingProvider
	switch cfg.Geocoding.Provider {
	case config.GeocoderGoogle:
		geocoder = geocoding.NewGoogleProvider(cfg.Geocoding.APIKey, cacheProvider)
	default:
		geocoder = geocoding.NewStaticProvider()
	}

	// Services
	searchService := services.NewProviderSearchService(repos.hospitals, repos.doctors, geocoder, nil)
	hospitalService := services.NewHospitalService(repos.hospitals, repos.doctors)
	authService := services.NewAuthService(repos.users, cacheProvider, cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	appointmentService := services.NewAppointmentService(repos.appointments, repos.hospitals, cacheProvider, eventBus)
	profileService := services.NewProfileService(repos.users)
	reviewService := services.NewReviewService(repos.reviews, repos.hospitals, eventBus)
	feedbackService := services.NewFeedbackService(repos.feedback, cacheProvider)
	chatbotService := services.NewChatbotService(rand.New(rand.NewSource(time.Now().UnixNano())), time.Now)

	if cfg.Redis.Enabled && cfg.Storage.Driver == config.StoragePostgres {
		services.NewCacheWarmingService(repos.hospitals, repos.doctors).StartPeriodicWarming(ctx, 5*time.Minute)
	}

	cacheInvalidationService := services.NewCacheInvalidationService(cacheProvider, eventBus)
	if err := cacheInvalidationService.Start(); err != nil {
		logger.Warn().Err(err).Msg("failed to start cache invalidation service")
	} else {
		defer cacheInvalidationService.Stop()
	}

	router := routes.NewRouter(
		routes.Handlers{
			Search:      handlers.NewSearchHandler(searchService, cfg.Search),
			Hospital:    handlers.NewHospitalHandler(hospitalService),
			Auth:        handlers.NewAuthHandler(authService, cfg.Auth),
			Appointment: handlers.NewAppointmentHandler(appointmentService),
			Profile:     handlers.NewProfileHandler(profileService),
			Assistant:   handlers.NewAssistantHandler(services.NewSymptomService(), chatbotService),
			Feedback:    handlers.NewFeedbackHandler(feedbackService),
			Review:      handlers.NewReviewHandler(reviewService),
			Health:      handlers.NewHealthHandler(checks),
			Events:      handlers.NewSSEHandler(eventBus, repos.hospitals),
		},
		middleware.NewAuth(authService, cfg.Auth.CookieName),
		middleware.NewLoginRateLimiter(cfg.Auth.LoginAttempts, cfg.Auth.LoginWindow),
		cfg.CORS.AllowedOrigins,
	)

	serverAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      router.SetupRoutes(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info().Str("addr", serverAddr).Str("storage", cfg.Storage.Driver).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info().Msg("server shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		return err
	}
	logger.Info().Msg("server stopped")
	return nil
}

// openStorage builds the repositories for the configured driver and registers
// their health checks.
func openStorage(ctx context.Context, cfg *config.Config, cacheProvider providers.CacheProvider, checks map[string]handlers.Pinger) (*repositorySet, func(), error) {
	logger := observability.GetLogger()

	if cfg.Storage.Driver == config.StorageMemory {
		stores, err := memory.NewSeededStores(ctx)
		if err != nil {
			return nil, nil, fmt.Errorf("seed in-memory directory: %w", err)
		}
		logger.Info().Msg("using in-memory storage with seeded directory")
		return &repositorySet{
			hospitals:    stores.Hospitals,
			doctors:      stores.Doctors,
			users:        stores.Users,
			reviews:      stores.Reviews,
			appointments: stores.Appointments,
			feedback:     stores.Feedback,
		}, func() {}, nil
	}

	pgClient, err := postgres.NewClient(ctx, &cfg.Database)
	if err != nil {
		return nil, nil, fmt.Errorf("initialize postgres: %w", err)
	}
	if err := database.EnsureSchema(ctx, pgClient); err != nil {
		pgClient.Close()
		return nil, nil, fmt.Errorf("ensure schema: %w", err)
	}
	checks["postgres"] = pgClient

	repos := &repositorySet{
		hospitals:    database.NewHospitalAdapter(pgClient),
		doctors:      database.NewDoctorAdapter(pgClient),
		users:        database.NewUserAdapter(pgClient),
		reviews:      database.NewReviewAdapter(pgClient),
		appointments: database.NewAppointmentAdapter(pgClient),
		feedback:     database.NewFeedbackAdapter(pgClient),
	}
	if cfg.Redis.Enabled {
		repos.hospitals = database.NewCachedHospitalAdapter(repos.hospitals, cacheProvider)
		repos.doctors = database.NewCachedDoctorAdapter(repos.doctors, cacheProvider)
		logger.Info().Msg("directory reads wrapped with redis caching")
	}

	return repos, func() { pgClient.Close() }, nil
}
