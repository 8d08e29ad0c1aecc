package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/organize/tasktracker/handlers"
	"github.com/organize/tasktracker/internal/config"
	"github.com/organize/tasktracker/internal/server"
	"github.com/organize/tasktracker/internal/users"
	"github.com/organize/tasktracker/pkg/logger"
)

// The user service: signup, login and profile lookup for the other services.
func main() {
	// LOG_LEVEL: debug|info|warn|error|fatal
	logger.Init(os.Getenv("LOG_LEVEL"))
	logger.SetService("user")

	cfg, err := config.LoadConfig("user")
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	logger.Infof("config loaded: mongo=%v redis=%v rate_limit=%v", cfg.MongoDB.URI != "", cfg.Redis.Host != "", cfg.RateLimit.Enabled)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	codec, err := server.NewCodec(cfg.JWT)
	if err != nil {
		logger.Fatalf("token codec: %v", err)
	}

	checks := map[string]server.ReadyCheck{}
	db, closeDB, err := server.ConnectMongo(ctx, cfg.MongoDB)
	if err != nil {
		logger.Fatalf("mongo: %v", err)
	}
	defer closeDB()

	var repo users.UserRepository = users.NewMemoryUserRepository()
	if db != nil {
		mrepo, err := users.NewMongoUserRepository(ctx, db)
		if err != nil {
			logger.Fatalf("user repository: %v", err)
		}
		repo = mrepo
		checks["mongodb"] = server.MongoCheck(db)
	}

	rdb := server.ConnectRedis(ctx, cfg.Redis)
	if rdb != nil {
		defer rdb.Close()
		checks["redis"] = server.RedisCheck(rdb)
	}

	r := server.UserEngine(server.Options{
		Config:   cfg,
		Verifier: codec,
		Redis:    rdb,
		Checks:   checks,
		Title:    "tasktracker-users",
		APIDoc:   handlers.UserAPIDoc,
	}, users.NewService(repo, codec))

	if err := server.Run(ctx, r, cfg.Server); err != nil {
		logger.Errorf("user service stopped: %v", err)
		os.Exit(1)
	}
}
