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
	"github.com/organize/tasktracker/internal/submission/repository"
	"github.com/organize/tasktracker/internal/submission/service"
	"github.com/organize/tasktracker/pkg/logger"
)

func main() {
	logger.Init(os.Getenv("LOG_LEVEL"))
	logger.SetService("submission")

	cfg, err := config.LoadConfig("submission")
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	policy, err := service.PolicyByName(cfg.Policy.Submission)
	if err != nil {
		logger.Fatalf("%v", err)
	}
	logger.Infof("config loaded: mongo=%v policy=%s user_service=%s task_service=%s", cfg.MongoDB.URI != "", policy.Name, cfg.Services.UserURL, cfg.Services.TaskURL)

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
			logger.Fatalf("submission repository: %v", err)
		}
		repo = mrepo
		checks["mongodb"] = server.MongoCheck(db)
	}

	rdb := server.ConnectRedis(ctx, cfg.Redis)
	if rdb != nil {
		defer rdb.Close()
		checks["redis"] = server.RedisCheck(rdb)
	}

	retry := server.RetryPolicy(cfg.Services)
	profiles := rpc.NewUserClient(cfg.Services.UserURL, cfg.Services.Timeout, retry)
	tasks := rpc.NewTaskClient(cfg.Services.TaskURL, cfg.Services.Timeout, retry)

	r := server.SubmissionEngine(server.Options{
		Config:   cfg,
		Verifier: codec,
		Redis:    rdb,
		Checks:   checks,
		Title:    "tasktracker-submissions",
		APIDoc:   handlers.SubmissionAPIDoc,
	}, service.NewService(repo, tasks, policy), profiles)

	if err := server.Run(ctx, r, cfg.Server); err != nil {
		logger.Errorf("submission service stopped: %v", err)
		os.Exit(1)
	}
}
