package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/vasiliy-maslov/storefront-service/internal/address"
	"github.com/vasiliy-maslov/storefront-service/internal/auth"
	"github.com/vasiliy-maslov/storefront-service/internal/cart"
	"github.com/vasiliy-maslov/storefront-service/internal/config"
	"github.com/vasiliy-maslov/storefront-service/internal/db"
	storefrontHttp "github.com/vasiliy-maslov/storefront-service/internal/handler/http"
	"github.com/vasiliy-maslov/storefront-service/internal/order"
	"github.com/vasiliy-maslov/storefront-service/internal/product"
	"github.com/vasiliy-maslov/storefront-service/internal/sequence"
	"github.com/vasiliy-maslov/storefront-service/internal/store"
	"github.com/vasiliy-maslov/storefront-service/internal/user"
)

type repositories struct {
	users     user.Repository
	addresses address.Repository
	products  product.Repository
	carts     cart.Repository
	orders    order.Repository
	sequences sequence.Repository
	close     func(ctx context.Context)
}

func main() {
	cfg, err := config.Load(".env")
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}

	setupLogger(cfg)
	log.Info().Str("driver", cfg.StorageDriver).Msg("Storefront service starting...")

	startCtx, cancelStart := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelStart()

	var repos repositories
	switch cfg.StorageDriver {
	case store.DriverPostgres:
		repos, err = openPostgres(startCtx, cfg)
	case store.DriverMongo:
		repos, err = openMongo(startCtx, cfg)
	}
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize storage")
	}

	revoked, closeRevoked := openRevocationList(startCtx, cfg.Redis)

	userSvc := user.NewService(repos.users)
	tokens := auth.NewTokenService(cfg.JWT.Secret, cfg.JWT.TTL)
	mw := storefrontHttp.NewMiddleware(tokens, revoked, userSvc)

	router := storefrontHttp.NewRouter(log.Logger, cfg.CORSAllowedOrigins, mw,
		storefrontHttp.NewAuthHandler(tokens, revoked),
		storefrontHttp.NewUserHandler(userSvc),
		storefrontHttp.NewAddressHandler(address.NewService(repos.addresses)),
		storefrontHttp.NewProductHandler(product.NewService(repos.products)),
		storefrontHttp.NewSequenceHandler(sequence.NewService(repos.sequences)),
		storefrontHttp.NewCartHandler(cart.NewService(repos.carts)),
		storefrontHttp.NewOrderHandler(order.NewService(repos.orders), userSvc),
	)

	server := &http.Server{
		Addr:         ":" + cfg.App.Port,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.App.Port).Msg("Starting HTTP server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)
	<-stopCh

	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server shutdown failed")
	}

	closeRevoked()
	repos.close(shutdownCtx)

	log.Info().Msg("Storefront service stopped gracefully")
}

func setupLogger(cfg *config.Config) {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if cfg.IsDevelopment() {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
	log.Logger = log.With().Str("service", cfg.App.Name).Logger()
	zerolog.DefaultContextLogger = &log.Logger
}

func openPostgres(ctx context.Context, cfg *config.Config) (repositories, error) {
	if err := db.Migrate(db.ConnString(cfg.Postgres), cfg.Postgres.DBName, cfg.Postgres.MigrationsPath); err != nil {
		return repositories{}, err
	}

	pg, err := db.NewPostgres(ctx, cfg.Postgres)
	if err != nil {
		return repositories{}, err
	}

	if cfg.UserEmailUniqueIndex {
		if err := pg.EnsureUserEmailIndex(ctx); err != nil {
			pg.Close()
			return repositories{}, err
		}
	}

	return repositories{
		users:     user.NewRepository(pg.Pool),
		addresses: address.NewRepository(pg.Pool),
		products:  product.NewRepository(pg.Pool),
		carts:     cart.NewRepository(pg.Pool),
		orders:    order.NewRepository(pg.Pool),
		sequences: sequence.NewRepository(pg.Pool),
		close:     func(context.Context) { pg.Close() },
	}, nil
}

func openMongo(ctx context.Context, cfg *config.Config) (repositories, error) {
	m, err := db.NewMongo(ctx, cfg.Mongo)
	if err != nil {
		return repositories{}, err
	}

	if err := m.EnsureIndexes(ctx, cfg.UserEmailUniqueIndex); err != nil {
		m.Close(ctx)
		return repositories{}, err
	}

	if err := sequence.SeedMongo(ctx, m.Collection(db.SequencesCollection)); err != nil {
		m.Close(ctx)
		return repositories{}, err
	}

	return repositories{
		users:     user.NewMongoRepository(m.Collection(db.UsersCollection)),
		addresses: address.NewMongoRepository(m.Collection(db.AddressesCollection)),
		products:  product.NewMongoRepository(m.Collection(db.ProductsCollection)),
		carts:     cart.NewMongoRepository(m.Collection(db.CartsCollection)),
		orders:    order.NewMongoRepository(m.Collection(db.OrdersCollection), m.Collection(db.CartsCollection)),
		sequences: sequence.NewMongoRepository(m.Collection(db.SequencesCollection)),
		close:     m.Close,
	}, nil
}

// openRevocationList uses Redis when it is configured and reachable, and
// process memory otherwise.
func openRevocationList(ctx context.Context, cfg config.RedisConfig) (auth.RevocationList, func()) {
	if cfg.Addr == "" {
		log.Info().Msg("REDIS_ADDR not set, using in-memory token revocation list")
		return auth.NewMemoryRevocationList(), func() {}
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		log.Warn().Err(err).Str("addr", cfg.Addr).Msg("Redis unreachable, using in-memory token revocation list")
		_ = client.Close()
		return auth.NewMemoryRevocationList(), func() {}
	}

	log.Info().Str("addr", cfg.Addr).Msg("Connected to Redis")
	return auth.NewRedisRevocationList(client), func() {
		if err := client.Close(); err != nil {
			log.Error().Err(err).Msg("Failed to close Redis client")
		}
	}
}
