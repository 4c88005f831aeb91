package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	_ "github.com/nestmart/shop-api/docs" // swagger docs
	"github.com/nestmart/shop-api/internal/api"
	"github.com/nestmart/shop-api/internal/api/handler"
	"github.com/nestmart/shop-api/internal/api/metrics"
	"github.com/nestmart/shop-api/internal/core/ports"
	"github.com/nestmart/shop-api/internal/core/service"
	"github.com/nestmart/shop-api/internal/infrastructure/config"
	"github.com/nestmart/shop-api/internal/infrastructure/db/mongo"
	"github.com/nestmart/shop-api/internal/infrastructure/db/postgres"
	"github.com/nestmart/shop-api/internal/infrastructure/db/redis"
	"github.com/nestmart/shop-api/internal/infrastructure/security"
	"github.com/nestmart/shop-api/pkg/logger"
)

// @title Shop API
// @version 1.0
// @description User accounts, role-based access and a product catalog behind JWT authentication.
// @BasePath /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Enter your JWT token with the `Bearer ` prefix, e.g. "Bearer eyJhbGci..."

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		// The logger level comes from config, so this one goes out unconfigured.
		log := logger.Init(logger.Options{})
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  !cfg.IsProduction(),
		Service: "shop-api",
	})

	if err := run(ctx, cfg); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

type store struct {
	users    ports.UserRepository
	products ports.ProductRepository
	ping     handler.Check
	close    func()
}

func run(ctx context.Context, cfg *config.Config) error {
	log := logger.Get()

	hasher, err := security.NewPasswordHasher(cfg.Auth.PasswordHash, cfg.Auth.BcryptCost)
	if err != nil {
		return fmt.Errorf("password hasher: %w", err)
	}
	hasher = hasher.WithObserver(metrics.ObservePasswordHash)

	tokens, err := security.NewTokenService(cfg.Auth.JWTSecret, cfg.Auth.JWTTTL)
	if err != nil {
		return err
	}
	log.Info().
		Str("password_hash", cfg.Auth.PasswordHash).
		Dur("token_ttl", tokens.TTL()).
		Msg("auth configured")

	st, err := openStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer st.close()

	readiness := map[string]handler.Check{cfg.Store.Driver: st.ping}

	var idem ports.IdempotencyStore
	if cfg.Redis.Addr != "" {
		rdb, err := redis.Connect(ctx, redis.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return err
		}
		defer rdb.Close()
		idem = redis.NewIdempotencyStore(rdb, cfg.Redis.IdempotencyTTL)
		readiness["redis"] = redisCheck(rdb)
		log.Info().Str("addr", cfg.Redis.Addr).Msg("idempotency keys enabled")
	} else {
		log.Info().Msg("REDIS_ADDR not set, idempotency keys disabled")
	}

	authService, err := service.NewAuthService(st.users, hasher, tokens, log)
	if err != nil {
		return err
	}
	userService := service.NewUserService(st.users, hasher, cfg.Auth.PasswordMinLength, log)
	productService := service.NewProductService(st.products, st.users, idem, log)

	e, err := api.NewRouter(api.Dependencies{
		Auth:      authService,
		Users:     userService,
		Products:  productService,
		Verifier:  tokens,
		Readiness: readiness,
		Log:       log,
		Swagger:   !cfg.IsProduction(),
	})
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           e,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Str("store", cfg.Store.Driver).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	log.Info().Msg("server exited")
	return nil
}

func openStore(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*store, error) {
	switch cfg.Store.Driver {
	case config.StoreDriverMongo:
		client, db, err := mongo.Connect(ctx, mongo.Config{
			URI:      cfg.Mongo.URI,
			Database: cfg.Mongo.Database,
			AppName:  "shop-api",
		})
		if err != nil {
			return nil, err
		}
		users := mongo.NewUserRepository(db)
		if err := users.EnsureIndexes(ctx); err != nil {
			_ = client.Disconnect(context.Background())
			return nil, err
		}
		log.Info().Str("database", cfg.Mongo.Database).Msg("connected to mongodb")
		return &store{
			users:    users,
			products: mongo.NewProductRepository(db),
			ping:     func(ctx context.Context) error { return client.Ping(ctx, nil) },
			close:    func() { _ = client.Disconnect(context.Background()) },
		}, nil

	default:
		db, err := postgres.Connect(ctx, postgres.Config{
			DSN:          cfg.Postgres.DSN,
			MaxOpenConns: cfg.Postgres.MaxOpenConns,
			MaxIdleConns: cfg.Postgres.MaxIdleConns,
		})
		if err != nil {
			return nil, err
		}
		if err := postgres.Migrate(ctx, db); err != nil {
			_ = db.Close()
			return nil, err
		}
		log.Info().Msg("connected to postgres")
		return &store{
			users:    postgres.NewUserRepository(db),
			products: postgres.NewProductRepository(db),
			ping:     db.PingContext,
			close:    func() { _ = db.Close() },
		}, nil
	}
}

func redisCheck(rdb *goredis.Client) handler.Check {
	return func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
}
