package main

import (
	"context"
	"log"
	"os"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/clipforge/clipforge/internal/config"
	jobsManager "github.com/clipforge/clipforge/internal/jobs/manager"
	jobsRepository "github.com/clipforge/clipforge/internal/jobs/repository"
	"github.com/clipforge/clipforge/internal/media"
	mediaRepository "github.com/clipforge/clipforge/internal/media/repository"
	"github.com/clipforge/clipforge/internal/server"
	"github.com/clipforge/clipforge/internal/storage"
	"github.com/clipforge/clipforge/internal/worker"
	"github.com/clipforge/clipforge/pkg/db/aws"
	"github.com/clipforge/clipforge/pkg/db/postgres"
	"github.com/clipforge/clipforge/pkg/db/redis"
	"github.com/clipforge/clipforge/pkg/logger"
)

func main() {
	log.Println("Starting server")
	configFile := os.Getenv("CONFIG_FILE")
	if configFile == "" {
		configFile = "config.yml"
	}
	cfgFile, err := config.LoadConfig(configFile)
	if err != nil {
		log.Fatalf("loadConfig: %v", err)
	}
	cfg, err := config.ParseConfig(cfgFile)
	if err != nil {
		log.Fatalf("parseConfig: %v", err)
	}
	appLogger := logger.NewApiLogger(cfg)
	appLogger.InitLogger()
	appLogger.Infof("AppVersion: %s, LogLevel: %s, Mode: %s", cfg.Server.AppVersion, cfg.Logger.Level, cfg.Server.Mode)

	psqlDB, err := postgres.NewPsqlDB(cfg)
	if err != nil {
		appLogger.Fatalf("could not connect to db: %s", err)
	}
	appLogger.Infof("db connected, status: %#v", psqlDB.Stats())
	defer psqlDB.Close()

	redisClient, err := redis.NewRedisClient(cfg)
	if err != nil {
		appLogger.Fatalf("could not connect to redis: %s", err)
	}
	defer redisClient.Close()
	appLogger.Infof("redis connected")

	var (
		s3Client      *s3.Client
		presignClient *s3.PresignClient
	)
	if cfg.S3.Enabled {
		s3Client, presignClient, err = aws.NewAWSClient(cfg.S3.Endpoint, cfg.S3.Region, cfg.S3.AccessKey, cfg.S3.SecretKey)
		if err != nil {
			appLogger.Fatalf("could not connect to s3: %s", err)
		}
		appLogger.Infof("s3 connected")
	}

	store, err := storage.NewStore(cfg)
	if err != nil {
		appLogger.Fatalf("could not init storage: %s", err)
	}
	if err := store.EnsureDirs(); err != nil {
		appLogger.Fatalf("could not create media directories: %s", err)
	}

	mediaRepo := mediaRepository.NewMediaRepo(psqlDB)
	jobRepo := jobsRepository.NewJobRepo(psqlDB)
	jobRedisRepo := jobsRepository.NewJobRedisRepo(redisClient)

	var awsRepo media.AWSRepository
	if cfg.S3.Enabled {
		awsRepo = mediaRepository.NewAwsRepository(s3Client, presignClient)
	}

	executors := worker.NewExecutors(cfg, mediaRepo, store, awsRepo, appLogger)
	manager := jobsManager.NewJobManager(cfg, jobRepo, jobRedisRepo, executors, appLogger)
	if err := manager.RecoverInterrupted(context.Background()); err != nil {
		appLogger.Fatalf("could not recover interrupted jobs: %s", err)
	}
	manager.Start()
	defer manager.Stop()

	s := server.NewServer(cfg, psqlDB, redisClient, s3Client, presignClient, store, manager, appLogger)
	if err = s.Run(); err != nil {
		appLogger.Errorf("could not start server: %s", err)
	}
}
