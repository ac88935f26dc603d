package main

import (
	"flag"
	"os"

	"github.com/jonboulle/clockwork"
	log "github.com/sirupsen/logrus"

	"github.com/qs3c/boost_stream_server/config"
	"github.com/qs3c/boost_stream_server/internal/database"
	"github.com/qs3c/boost_stream_server/internal/pkg/logger"
	"github.com/qs3c/boost_stream_server/internal/repository"
	"github.com/qs3c/boost_stream_server/internal/service"
)

var dryRun = flag.Bool("dry-run", false, "Only report elapsed subscriptions, don't update them")

func main() {
	flag.Parse()

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	closer, err := logger.Setup(cfg.Log)
	if err != nil {
		log.Fatalf("Failed to setup logger: %v", err)
	}
	defer closer.Close()

	db, err := database.Open(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect database: %v", err)
	}

	clock := clockwork.NewRealClock()
	subRepo := repository.NewSubscriptionRepository(db)
	subscriptionService := service.NewSubscriptionService(
		db, subRepo, repository.NewPlanRepository(db), repository.NewStreamerRepository(db), clock)

	if *dryRun {
		ids, err := subscriptionService.ElapsedActiveIDs()
		if err != nil {
			log.Fatalf("Failed to list subscriptions: %v", err)
		}
		log.WithField("count", len(ids)).Infof("dry run: would expire %v", ids)
		return
	}

	n, err := subscriptionService.ExpireElapsed()
	if err != nil {
		log.Fatalf("Failed to expire subscriptions: %v", err)
	}
	log.WithField("count", n).Info("elapsed subscriptions marked expired")
}
