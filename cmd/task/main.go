package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/organize/tasktracker/handlers"
	"github.com/organize/tasktracker/internal/config"
	"github.com/organize/tasktracker/internal/rpc"
	"github.com/organize/tasktracker/internal/server"
	"github.com/organize/tasktracker/internal/storage"
	taskhandler "github.com/organize/tasktracker/internal/task/handler"
	"github.com/organize/tasktracker/internal/task/repository"
	"github.com/organize/tasktracker/internal/task/service"
	"github.com/organize/tasktracker/pkg/logger"
)

func main() {
	logger.Init(os.Getenv("LOG_LEVEL"))
	logger.SetService("task")

	cfg, err := config.LoadConfig("task")
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	policy, err := service.PolicyByName(cfg.Policy.Task)
	if err != nil {
		logger.Fatalf("%v", err)
	}
	logger.Infof("config loaded: mongo=%v minio=%v policy=%s user_service=%s", cfg.MongoDB.URI != "", storage.Configured(cfg.Storage), policy.Name, cfg.Services.UserURL)

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

	var repo repository.Repository = repository.NewMemoryRepo()
	if db != nil {
		mrepo, err := repository.NewMongoRepo(ctx, db)
		if err != nil {
			logger.Fatalf("task repository: %v", err)
		}
		repo = mrepo
		checks["mongodb"] = server.MongoCheck(db)
	}

	rdb := server.ConnectRedis(ctx, cfg.Redis)
	if rdb != nil {
		defer rdb.Close()
		checks["redis"] = server.RedisCheck(rdb)
	}

	var images taskhandler.ImageStore
	if storage.Configured(cfg.Storage) {
		store, err := storage.NewMinIOStorage(ctx, cfg.Storage)
		if err != nil {
			logger.Warnf("task images disabled: %v", err)
		} else {
			images = store
			checks["minio"] = store.Ping
		}
	}

	profiles := rpc.NewUserClient(cfg.Services.UserURL, cfg.Services.Timeout, server.RetryPolicy(cfg.Services))
	r := server.TaskEngine(server.Options{
		Config:   cfg,
		Verifier: codec,
		Redis:    rdb,
		Checks:   checks,
		Title:    "tasktracker-tasks",
		APIDoc:   handlers.TaskAPIDoc,
	}, service.NewService(repo, policy), profiles, images)

	if err := server.Run(ctx, r, cfg.Server); err != nil {
		logger.Errorf("task service stopped: %v", err)
		os.Exit(1)
	}
}
