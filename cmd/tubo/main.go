package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tubo/internal/app/commands"
	"tubo/internal/app/middleware"
	"tubo/internal/app/queries"
	"tubo/internal/app/schedule"
	authsvc "tubo/internal/app/services/auth"
	"tubo/internal/app/services/bookingflow"
	"tubo/internal/app/services/catalog"
	"tubo/internal/domain/availability"
	"tubo/internal/domain/booking"
	"tubo/internal/domain/listings"
	domainuser "tubo/internal/domain/user"
	"tubo/internal/infra/authstore"
	"tubo/internal/infra/broker/kafka"
	"tubo/internal/infra/config"
	mongodb "tubo/internal/infra/db/mongo"
	ginserver "tubo/internal/infra/http/gin"
	"tubo/internal/infra/insight"
	"tubo/internal/infra/obs"
	infraoutbox "tubo/internal/infra/outbox"
	"tubo/internal/infra/security"
	"tubo/internal/infra/storage/memory"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	env := getenv("APP_ENV", "dev")
	logger := obs.NewLogger(env)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("configuration invalid", "error", err)
		os.Exit(1)
	}

	app, err := buildApplication(ctx, cfg, logger)
	if err != nil {
		logger.Error("startup failed", "error", err)
		os.Exit(1)
	}
	server := ginserver.NewServer(cfg, obs.Middleware{Logger: logger}, obs.HealthHandlers{
		Ready: app.ready,
	}, app.handlers)

	if err := app.loadCarFixtures(ctx, cfg.ListingsFixtures, logger); err != nil {
		logger.Warn("car fixtures load failed", "error", err, "path", cfg.ListingsFixtures)
	}

	go func() {
		if err := app.outboxWorker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("outbox worker stopped", "error", err)
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("http shutdown failed", "error", err)
		}
	}()

	logger.Info("HTTP server starting", "addr", cfg.HTTPAddr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("http server failed", "error", err)
		os.Exit(1)
	}
	logger.Info("HTTP server stopped")
}

type application struct {
	handlers     ginserver.Handlers
	outboxWorker *infraoutbox.Worker
	ready        func() error

	cars         *memory.CarRepository
	availability *memory.AvailabilityStore
}

func buildApplication(ctx context.Context, cfg config.Config, logger *slog.Logger) (application, error) {
	cars := memory.NewCarRepository()
	availabilityStore := memory.NewAvailabilityStore()
	sessions := memory.NewSessionRepository()
	outboxStore := memory.NewOutboxStore()
	idStore := memory.NewIdempotencyStore(cfg.IdempotencyTTL)

	var history booking.History = memory.NewBookingHistory()
	ready := func() error { return nil }
	if cfg.StoreMode == "mongo" {
		client, err := mongodb.New(ctx, cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			return application{}, fmt.Errorf("mongo connect: %w", err)
		}
		history = mongodb.NewHistoryRepository(client.DB)
		ready = func() error {
			pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			return client.Ping(pingCtx)
		}
		logger.Info("booking history backed by mongo", "db", cfg.MongoDB)
	}

	users, verifier, err := buildAuthBacking(ctx, cfg, logger)
	if err != nil {
		return application{}, err
	}
	gateway := &authsvc.Gateway{
		Users:     users,
		Sessions:  memory.NewAuthSessionStore(),
		Passwords: security.BcryptHasher{},
		Tokens:    security.RandomTokenGenerator{},
		Verifier:  verifier,
		Logger:    logger,
	}

	var insightProvider catalog.InsightProvider = insight.Static{}
	if cfg.GeminiAPIKey != "" {
		client, err := insight.New(ctx, cfg.GeminiAPIKey, cfg.InsightTimeout, logger)
		if err != nil {
			logger.Warn("insight client unavailable, using static copy", "error", err)
		} else {
			insightProvider = client
		}
	}

	catalogSvc := &catalog.Service{
		Cars:         cars,
		Availability: availabilityStore,
		Insight:      insightProvider,
		Logger:       logger,
	}
	flow := &bookingflow.Service{
		Sessions:     sessions,
		Cars:         cars,
		Availability: availabilityStore,
		History:      history,
		Outbox:       outboxStore,
		Scheduler:    schedule.TimerScheduler{},
		PaymentDelay: cfg.PaymentProcessingDelay,
		Logger:       logger,
	}

	commandBus := commands.NewInMemoryBus()
	bookingflow.RegisterSubmit(commandBus, flow)
	chainedCommands := middleware.ChainCommands(
		commandBus,
		middleware.Authorization(bookingflow.RequireGuest()),
		middleware.Idempotency(idStore, nil),
	)

	queryBus := queries.NewInMemoryBus()
	catalog.RegisterQueries(queryBus, catalogSvc)

	var producer infraoutbox.Producer = infraoutbox.NopProducer{}
	if len(cfg.KafkaBrokers) > 0 {
		kp, err := kafka.NewProducer(cfg.KafkaBrokers, nil)
		if err != nil {
			logger.Warn("kafka unavailable, events will be dropped", "error", err)
		} else {
			producer = kp
		}
	}
	worker := &infraoutbox.Worker{
		Store:       outboxStore,
		Producer:    producer,
		Logger:      logger,
		Interval:    cfg.OutboxPollInterval,
		TopicPrefix: cfg.KafkaTopicPrefix,
		Backoff:     cfg.RetryBackoff,
	}

	authMW := ginserver.AuthMiddleware{Gateway: gateway, Logger: logger}
	return application{
		handlers: ginserver.Handlers{
			Auth:        ginserver.AuthHandler{Gateway: gateway, Logger: logger},
			Listing:     ginserver.ListingHandler{Queries: queryBus, Availability: availabilityStore},
			HostListing: ginserver.HostListingHandler{Catalog: catalogSvc},
			Session:     ginserver.SessionHandler{Flow: flow, Commands: chainedCommands},
			Me:          ginserver.MeHandler{History: history},
			AuthMiddleware: authMW.Handle,
		},
		outboxWorker: worker,
		ready:        ready,
		cars:         cars,
		availability: availabilityStore,
	}, nil
}

func buildAuthBacking(ctx context.Context, cfg config.Config, logger *slog.Logger) (domainuser.Store, authsvc.IdentityVerifier, error) {
	switch cfg.AuthMode {
	case "file":
		store, err := authstore.NewFileUserStore(cfg.AuthUsersFile)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("auth backed by file store", "path", cfg.AuthUsersFile)
		return store, nil, nil
	case "firebase":
		verifier, err := authstore.NewFirebaseVerifier(ctx, cfg.FirebaseCredentials)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("auth backed by firebase")
		return memory.NewUserStore(), verifier, nil
	default:
		return memory.NewUserStore(), nil, nil
	}
}

type carFixture struct {
	ID              string   `json:"id"`
	HostID          string   `json:"host_id"`
	Make            string   `json:"make"`
	Model           string   `json:"model"`
	Year            int      `json:"year"`
	PricePerDayIDR  int64    `json:"price_per_day_idr"`
	Location        string   `json:"location"`
	Description     string   `json:"description"`
	ImageURL        string   `json:"image_url"`
	Sponsored       bool     `json:"sponsored"`
	Rating          float64  `json:"rating"`
	Trips           int      `json:"trips"`
	Features        []string `json:"features"`
	UnavailableDays []string `json:"unavailable_days"`
}

func (a application) loadCarFixtures(ctx context.Context, path string, logger *slog.Logger) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logger.Info("car fixtures file not found, skipping", "path", path)
			return nil
		}
		return fmt.Errorf("read fixtures: %w", err)
	}
	var fixtures []carFixture
	if err := json.Unmarshal(data, &fixtures); err != nil {
		return fmt.Errorf("decode fixtures: %w", err)
	}

	loaded := 0
	for _, fx := range fixtures {
		car, err := listings.NewCar(listings.CreateParams{
			ID:             listings.CarID(fx.ID),
			HostID:         fx.HostID,
			Make:           fx.Make,
			Model:          fx.Model,
			Year:           fx.Year,
			PricePerDayIDR: fx.PricePerDayIDR,
			Location:       fx.Location,
			Description:    fx.Description,
			ImageURL:       fx.ImageURL,
			Sponsored:      fx.Sponsored,
			Features:       fx.Features,
		})
		if err != nil {
			logger.Warn("skipping invalid car fixture", "id", fx.ID, "error", err)
			continue
		}
		car.Rating = fx.Rating
		car.Trips = fx.Trips
		if err := a.cars.Save(ctx, car); err != nil {
			return err
		}
		set, err := availability.SetFromStrings(fx.UnavailableDays)
		if err != nil {
			logger.Warn("skipping invalid unavailable days", "id", fx.ID, "error", err)
			set = availability.Set{}
		}
		a.availability.SetUnavailable(fx.ID, set)
		loaded++
	}
	logger.Info("car fixtures loaded", "count", loaded)
	return nil
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
