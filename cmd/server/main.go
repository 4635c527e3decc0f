package main

import (
	"context"
	"database/sql"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-logger/glog"
	persistence "github.com/goliatone/go-persistence-bun"
	"github.com/goliatone/go-router"
	users "github.com/goliatone/go-users"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

func main() {
	lgr := glog.NewLogger(
		glog.WithLoggerTypePretty(),
		glog.WithLevel(glog.Info),
		glog.WithName("users"),
		glog.WithAddSource(false),
	)

	cfg, err := LoadConfig()
	if err != nil {
		lgr.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()

	db, err := initPersistence(ctx, cfg, lgr)
	if err != nil {
		lgr.Error("failed to initialize persistence", "error", err)
		os.Exit(1)
	}

	repo := users.NewRepositoryManager(db)
	if err := repo.Validate(); err != nil {
		lgr.Error("failed to validate repositories", "error", err)
		os.Exit(1)
	}

	tokens := users.NewTokenServiceFromConfig(cfg, lgr.GetLogger("tokens"))

	accounts := users.NewAccountManager(repo, tokens).
		WithLogger(lgr.GetLogger("accounts"))

	gate := users.ProtectedRoute(cfg, tokens, users.DefaultAuthErrorHandler(lgr.GetLogger("gate")))

	controller := users.NewController(accounts, tokens, gate,
		users.WithControllerLogger(lgr.GetLogger("http")),
		users.WithControllerDebug(cfg.Debug),
	)
	controller.ContextKey = cfg.GetContextKey()

	srv := router.NewFiberAdapter(func(a *fiber.App) *fiber.App {
		return router.DefaultFiberOptions(fiber.New(fiber.Config{
			UnescapePath:  true,
			StrictRouting: false,
			AppName:       "go-users",
		}))
	})

	srv.Router().WithLogger(lgr.GetLogger("router"))

	users.RegisterRoutes(srv.Router(), controller)

	lgr.Info("listening", "addr", cfg.HTTPAddr)
	srv.Serve(cfg.HTTPAddr)

	WaitExitSignal()

	lgr.Info("shutting down")
}

func initPersistence(ctx context.Context, cfg *Config, lgr *glog.BaseLogger) (*bun.DB, error) {
	db, err := sql.Open(sqliteshim.ShimName, cfg.Database.GetDSN())
	if err != nil {
		return nil, err
	}

	persistence.RegisterModel((*users.User)(nil))

	client, err := persistence.New(cfg.Database, db, sqlitedialect.New())
	if err != nil {
		return nil, err
	}

	client.SetLogger(lgr.GetLogger("persistence"))

	migrationsFS, err := fs.Sub(users.GetMigrationsFS(), "data/sql/migrations")
	if err != nil {
		return nil, err
	}

	client.RegisterDialectMigrations(
		migrationsFS,
		persistence.WithDialectSourceLabel("data/sql/migrations"),
		persistence.WithValidationTargets("postgres", "sqlite"),
	)

	if err := client.ValidateDialects(ctx); err != nil {
		return nil, err
	}

	if err := client.Migrate(ctx); err != nil {
		return nil, err
	}

	return client.DB(), nil
}

func WaitExitSignal() os.Signal {
	ch := make(chan os.Signal, 3)
	signal.Notify(ch,
		syscall.SIGINT,
		syscall.SIGQUIT,
		syscall.SIGTERM,
	)
	return <-ch
}
