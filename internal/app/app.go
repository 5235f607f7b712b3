package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Jonatndm/API-Authenticate/internal/config"
	"github.com/Jonatndm/API-Authenticate/internal/database"
	"github.com/Jonatndm/API-Authenticate/internal/event"
	"github.com/Jonatndm/API-Authenticate/internal/handler"
	"github.com/Jonatndm/API-Authenticate/internal/middleware"
	"github.com/Jonatndm/API-Authenticate/internal/password"
	"github.com/Jonatndm/API-Authenticate/internal/repository"
	"github.com/Jonatndm/API-Authenticate/internal/revocation"
	"github.com/Jonatndm/API-Authenticate/internal/router"
	"github.com/Jonatndm/API-Authenticate/internal/service"
	"github.com/Jonatndm/API-Authenticate/internal/token"
)

const revokedTokenCleanupInterval = 10 * time.Minute

type App struct {
	server       *http.Server
	db           *database.DB
	cleanupFuncs []func()
}

// Services is the fully wired domain layer behind the HTTP surface.
type Services struct {
	Auth  *service.AuthService
	Users *service.UserService
	Gate  *service.Gate
}

func New(cfg *config.Config) (*App, error) {
	ctx := context.Background()
	a := &App{}

	users, err := a.openCredentialStore(ctx, cfg)
	if err != nil {
		a.cleanup()
		return nil, err
	}

	revoked, err := a.openRevocationStore(ctx, cfg)
	if err != nil {
		a.cleanup()
		return nil, err
	}

	bus := event.NewBus()
	audit := service.NewAuditService(bus, slog.Default())
	auditCtx, auditCancel := context.WithCancel(context.Background())
	go audit.Run(auditCtx)
	a.cleanupFuncs = append(a.cleanupFuncs, auditCancel)

	services, err := BuildServices(cfg, users, revoked, bus)
	if err != nil {
		a.cleanup()
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	if cfg.AdminEmail != "" {
		if _, err := services.Auth.EnsureAdmin(ctx, cfg.AdminEmail, cfg.AdminPassword, cfg.AdminName); err != nil {
			a.cleanup()
			return nil, fmt.Errorf("failed to provision admin account: %w", err)
		}
	}

	a.server = &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           NewHTTPHandler(cfg, services),
		ReadHeaderTimeout: cfg.ServerReadHeaderTimeout,
		WriteTimeout:      cfg.ServerWriteTimeout,
		IdleTimeout:       cfg.ServerIdleTimeout,
	}

	return a, nil
}

// BuildServices wires the domain services over the given stores.
func BuildServices(cfg *config.Config, users service.CredentialStore, revoked revocation.Store, bus event.Bus) (Services, error) {
	hasher, err := password.NewHasher(cfg.BcryptCost)
	if err != nil {
		return Services{}, err
	}

	tokens, err := token.NewManager(cfg.JWTSecret, cfg.JWTExpiration)
	if err != nil {
		return Services{}, err
	}

	auth, err := service.NewAuthService(users, password.NewPolicy(cfg.PasswordMinLen), hasher, tokens, revoked, bus, cfg.MaxLoginAttempts)
	if err != nil {
		return Services{}, err
	}

	return Services{
		Auth:  auth,
		Users: service.NewUserService(users),
		Gate:  service.NewGate(tokens, revoked),
	}, nil
}

func NewHTTPHandler(cfg *config.Config, services Services) http.Handler {
	return router.New(cfg, middleware.NewAuthMiddleware(services.Gate), router.Handlers{
		Auth: handler.NewAuthHandler(services.Auth),
		User: handler.NewUserHandler(services.Users),
	})
}

func (a *App) openCredentialStore(ctx context.Context, cfg *config.Config) (service.CredentialStore, error) {
	switch cfg.StoreDriver {
	case config.StoreMemory:
		slog.Warn("using in-memory credential store; accounts are lost on restart")
		return repository.NewMemoryUserRepository(), nil

	case config.StorePostgres:
		db, err := a.openPostgres(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return repository.NewUserRepository(db.Pool), nil

	default:
		slog.Info("connecting to MongoDB")
		mongoDB, err := database.NewMongo(ctx, cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to mongo: %w", err)
		}
		a.cleanupFuncs = append(a.cleanupFuncs, func() {
			closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = mongoDB.Close(closeCtx)
		})

		users := repository.NewMongoUserRepository(mongoDB.Database)
		if err := users.EnsureIndexes(ctx); err != nil {
			return nil, fmt.Errorf("failed to ensure mongo indexes: %w", err)
		}
		return users, nil
	}
}

func (a *App) openRevocationStore(ctx context.Context, cfg *config.Config) (revocation.Store, error) {
	switch cfg.RevocationBackend {
	case config.RevocationRedis:
		slog.Info("connecting to Redis")
		client, err := revocation.Connect(ctx, cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		a.cleanupFuncs = append(a.cleanupFuncs, func() { _ = client.Close() })
		return revocation.NewRedisStore(client), nil

	case config.RevocationPostgres:
		db, err := a.openPostgres(ctx, cfg)
		if err != nil {
			return nil, err
		}
		tokens := repository.NewTokenRepository(db.Pool)

		cleanupCtx, cleanupCancel := context.WithCancel(context.Background())
		go tokens.StartCleanupTicker(cleanupCtx, revokedTokenCleanupInterval)
		a.cleanupFuncs = append(a.cleanupFuncs, cleanupCancel)
		return tokens, nil

	default:
		return revocation.NewMemoryStore(), nil
	}
}

// openPostgres connects once and is shared by the user store and the
// revocation backend.
func (a *App) openPostgres(ctx context.Context, cfg *config.Config) (*database.DB, error) {
	if a.db != nil {
		return a.db, nil
	}

	slog.Info("connecting to PostgreSQL")
	db, err := database.New(ctx, cfg.DatabaseURL, database.PoolOptions{
		MaxConns:        cfg.DBMaxConns,
		MinConns:        cfg.DBMinConns,
		MaxConnLifetime: cfg.DBMaxConnLifetime,
		MaxConnIdleTime: cfg.DBMaxConnIdleTime,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	a.cleanupFuncs = append(a.cleanupFuncs, db.Close)

	if err := db.EnsureSchema(ctx); err != nil {
		return nil, fmt.Errorf("failed to ensure database schema: %w", err)
	}

	a.db = db
	slog.Info("database ready")
	return db, nil
}

func (a *App) cleanup() {
	for i := len(a.cleanupFuncs) - 1; i >= 0; i-- {
		a.cleanupFuncs[i]()
	}
	a.cleanupFuncs = nil
}

func (a *App) Run() error {
	serveErr := make(chan error, 1)
	go func() {
		slog.Info("server starting", "addr", a.server.Addr)
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(stop)

	select {
	case err := <-serveErr:
		a.cleanup()
		return fmt.Errorf("server failed: %w", err)
	case sig := <-stop:
		slog.Info("shutdown requested", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	shutdownErr := a.server.Shutdown(ctx)
	a.cleanup()
	if shutdownErr != nil {
		return fmt.Errorf("graceful shutdown failed: %w", shutdownErr)
	}

	slog.Info("server stopped")
	return nil
}
