package main

import (
	"fmt"
	"os"
	"time"

	"github.com/jonboulle/clockwork"
	log "github.com/sirupsen/logrus"

	"github.com/qs3c/boost_stream_server/config"
	"github.com/qs3c/boost_stream_server/internal/api"
	"github.com/qs3c/boost_stream_server/internal/api/handler"
	"github.com/qs3c/boost_stream_server/internal/database"
	"github.com/qs3c/boost_stream_server/internal/pkg/cron"
	"github.com/qs3c/boost_stream_server/internal/pkg/logger"
	"github.com/qs3c/boost_stream_server/internal/pkg/notify"
	"github.com/qs3c/boost_stream_server/internal/pkg/queue"
	"github.com/qs3c/boost_stream_server/internal/repository"
	"github.com/qs3c/boost_stream_server/internal/service"
)

func main() {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.yaml"
	}

	// 加载配置
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	closer, err := logger.Setup(cfg.Log)
	if err != nil {
		log.Fatalf("Failed to setup logger: %v", err)
	}
	defer closer.Close()

	// 初始化数据库
	db, err := database.Open(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	log.WithField("driver", cfg.Database.Driver).Info("database connected")

	notifier, err := newNotifier(cfg)
	if err != nil {
		log.Fatalf("Failed to init notifier: %v", err)
	}

	clock := clockwork.NewRealClock()

	// 初始化 Repository
	planRepo := repository.NewPlanRepository(db)
	subRepo := repository.NewSubscriptionRepository(db)
	streamRepo := repository.NewStreamRepository(db)
	streamerRepo := repository.NewStreamerRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)

	// 初始化 Service
	quota := service.NewQuotaCalculator(&cfg.Quota)
	streamService := service.NewStreamService(db, streamRepo, streamerRepo, subRepo, quota, notifier, clock, cfg)
	quotaService := service.NewQuotaService(streamRepo, subRepo, quota, clock)
	planService := service.NewPlanService(db, planRepo, subRepo, clock)
	subscriptionService := service.NewSubscriptionService(db, subRepo, planRepo, streamerRepo, clock)
	paymentService := service.NewPaymentService(db, paymentRepo, subRepo, clock)
	streamerService := service.NewStreamerService(streamerRepo, subRepo, clock)

	// 订阅到期整理
	if cfg.Quota.ExpireIntervalMinutes > 0 {
		expiry := cron.NewService(subscriptionService, clock, time.Duration(cfg.Quota.ExpireIntervalMinutes)*time.Minute)
		expiry.Start()
		defer expiry.Stop()
	}

	// 初始化 Router
	router := api.NewRouter(
		handler.NewStreamHandler(streamService),
		handler.NewQuotaHandler(quotaService),
		handler.NewPlanHandler(planService),
		handler.NewSubscriptionHandler(subscriptionService),
		handler.NewPaymentHandler(paymentService),
		handler.NewStreamerHandler(streamerService),
		streamerService,
		cfg,
	)
	engine := router.Setup()

	// 启动服务器
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	log.WithFields(log.Fields{
		"addr":   addr,
		"policy": quota.Policy(),
		"tz":     quota.Location().String(),
	}).Info("server starting")
	if err := engine.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// newNotifier 配置了队列时交给 worker 投递，否则进程内直接调用 webhook
func newNotifier(cfg *config.Config) (notify.Notifier, error) {
	if cfg.Notify.Queue != "" {
		rdb, err := database.NewRedis(&cfg.Redis)
		if err != nil {
			return nil, err
		}
		log.WithField("queue", cfg.Notify.Queue).Info("notifications queued to redis")
		return queue.NewQueue(rdb, cfg.Notify.Queue), nil
	}
	if cfg.Notify.DiscordWebhookURL != "" {
		timeout := time.Duration(cfg.Notify.TimeoutSeconds) * time.Second
		return notify.NewDiscordNotifier(cfg.Notify.DiscordWebhookURL, timeout), nil
	}
	log.Warn("no notification channel configured, stream notifications disabled")
	return notify.NopNotifier{}, nil
}
