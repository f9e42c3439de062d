package bootstrap

import (
	"context"
	"fmt"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"pkm-backend/internal/ai"
	"pkm-backend/internal/app"
	"pkm-backend/internal/cache"
	"pkm-backend/internal/config"
	"pkm-backend/internal/model"
	mysqlClient "pkm-backend/internal/platform/mysql"
	rabbitmqClient "pkm-backend/internal/platform/rabbitmq"
	redisClient "pkm-backend/internal/platform/redis"
	"pkm-backend/internal/repository"
	"pkm-backend/internal/worker"
)

type App struct {
	Config        *config.Config
	MySQL         *gorm.DB
	Redis         *redis.Client
	MQConn        *amqp.Connection
	Ollama        *ai.OllamaClient
	ModelCache    *cache.ModelCache
	SessionSink   app.SessionSink
	SessionWorker *worker.SessionPersistWorker

	StartedAt time.Time
}

func New(ctx context.Context) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config failed: %w", err)
	}

	mysqlDB, err := mysqlClient.New(ctx, cfg.MySQLDSN(), cfg.App.Env == "dev")
	if err != nil {
		return nil, err
	}
	if err := mysqlDB.AutoMigrate(&model.Workspace{}, &model.Tag{}, &model.Note{}, &model.AISession{}); err != nil {
		return nil, fmt.Errorf("auto migrate tables failed: %w", err)
	}

	redisCli, err := redisClient.New(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		return nil, err
	}

	ollama := ai.NewOllamaClient(ai.OllamaConfig{
		BaseURL:       cfg.Ollama.BaseURL,
		DefaultModel:  cfg.Ollama.DefaultModel,
		Timeout:       time.Duration(cfg.Ollama.TimeoutSeconds) * time.Second,
		HealthTimeout: time.Duration(cfg.Ollama.HealthTimeoutSeconds) * time.Second,
	})

	sessionRepo := repository.NewAISessionRepository(mysqlDB)

	application := &App{
		Config:     cfg,
		MySQL:      mysqlDB,
		Redis:      redisCli,
		Ollama:     ollama,
		ModelCache: cache.NewModelCache(redisCli, time.Duration(cfg.Redis.ModelCacheTTLSeconds)*time.Second),
		StartedAt:  time.Now(),
	}

	if cfg.RabbitMQ.Enabled {
		mqConn, err := rabbitmqClient.New(ctx, cfg.RabbitMQ.URL, cfg.RabbitMQ.SessionPersistQueue)
		if err != nil {
			return nil, err
		}
		sessionWorker := worker.NewSessionPersistWorker(mqConn, sessionRepo, cfg.RabbitMQ.SessionPersistQueue)
		if err := sessionWorker.Start(ctx); err != nil {
			return nil, fmt.Errorf("start session worker failed: %w", err)
		}
		application.MQConn = mqConn
		application.SessionWorker = sessionWorker
		application.SessionSink = rabbitmqClient.NewSessionPublisher(mqConn, cfg.RabbitMQ.SessionPersistQueue)
	} else {
		log.Printf("rabbitmq disabled, ai sessions persisted synchronously")
		application.SessionSink = app.NewDBSessionSink(sessionRepo)
	}

	return application, nil
}

func (a *App) Close() error {
	var closeErr error
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			closeErr = err
		}
	}
	if a.SessionWorker != nil {
		a.SessionWorker.Close()
	}
	if a.MQConn != nil {
		if err := a.MQConn.Close(); err != nil {
			closeErr = err
		}
	}
	if a.MySQL != nil {
		sqlDB, err := a.MySQL.DB()
		if err == nil {
			if err := sqlDB.Close(); err != nil {
				closeErr = err
			}
		}
	}
	return closeErr
}
