package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/qs3c/boost_stream_server/config"
	"github.com/qs3c/boost_stream_server/internal/database"
	"github.com/qs3c/boost_stream_server/internal/pkg/logger"
	"github.com/qs3c/boost_stream_server/internal/pkg/notify"
	"github.com/qs3c/boost_stream_server/internal/pkg/queue"
	"github.com/qs3c/boost_stream_server/internal/worker"
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

	if cfg.Notify.Queue == "" {
		log.Fatal("notify.queue is empty, nothing to consume")
	}
	if cfg.Notify.DiscordWebhookURL == "" {
		log.Fatal("notify.discord_webhook_url is empty")
	}

	// 初始化 Redis
	rdb, err := database.NewRedis(&cfg.Redis)
	if err != nil {
		log.Fatalf("Failed to connect redis: %v", err)
	}
	defer rdb.Close()

	timeout := time.Duration(cfg.Notify.TimeoutSeconds) * time.Second
	dispatcher := worker.NewDispatcher(
		queue.NewQueue(rdb, cfg.Notify.Queue),
		notify.NewDiscordNotifier(cfg.Notify.DiscordWebhookURL, timeout),
		timeout,
	)

	// 创建 context 用于优雅关闭
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Info("received shutdown signal")
		cancel()
	}()

	log.WithFields(log.Fields{
		"queue":   cfg.Notify.Queue,
		"workers": cfg.Notify.Workers,
	}).Info("notification worker started")

	dispatcher.Run(ctx, cfg.Notify.Workers)
	log.Info("worker shutdown complete")
}
