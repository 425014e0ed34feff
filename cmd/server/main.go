package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/tavernkeep/companion/internal/clients/bestiary"
	"github.com/tavernkeep/companion/internal/config"
	"github.com/tavernkeep/companion/internal/repositories/characters"
	"github.com/tavernkeep/companion/internal/repositories/encounters"
	"github.com/tavernkeep/companion/internal/services"
	"github.com/tavernkeep/companion/internal/services/hpsync"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	} else {
		log.Println("Loaded .env file")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	catalogClient, err := bestiary.New(&bestiary.Config{
		HttpClient: &http.Client{
			Timeout: cfg.Bestiary.Timeout,
		},
	})
	if err != nil {
		log.Fatalf("Failed to create bestiary client: %v", err)
	}

	providerConfig := &services.ProviderConfig{
		BestiaryClient: catalogClient,
		Markers:        hpsync.NewMarkerSet(nil, cfg.Sync.SuppressionWindow),
	}

	// Keep the Redis client for cleanup
	var redisClient *redis.Client

	if cfg.Redis.URL != "" {
		log.Printf("Connecting to Redis at: %s", cfg.Redis.URL)

		opts, parseErr := redis.ParseURL(cfg.Redis.URL)
		if parseErr != nil {
			log.Printf("Failed to parse Redis URL: %v", parseErr)
			log.Println("Falling back to in-memory repositories")
		} else {
			redisClient = redis.NewClient(opts)

			pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			pingErr := redisClient.Ping(pingCtx).Err()
			cancel()

			if pingErr != nil {
				log.Printf("Failed to connect to Redis: %v", pingErr)
				log.Println("Falling back to in-memory repositories")
				redisClient = nil
			} else {
				log.Println("Successfully connected to Redis")

				providerConfig.EncounterRepository = encounters.NewRedisRepository(&encounters.RedisRepoConfig{Client: redisClient})
				providerConfig.CharacterRepository = characters.NewRedisRepository(&characters.RedisRepoConfig{Client: redisClient})

				log.Println("Using Redis for persistence")
			}
		}
	} else {
		log.Println("No REDIS_URL found, using in-memory repositories")
	}

	serviceProvider := services.NewProvider(providerConfig)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	group, ctx := errgroup.WithContext(ctx)

	group.Go(func() error {
		return serviceProvider.SyncBridge.Run(ctx, cfg.Sync.CampaignID)
	})

	log.Printf("Companion server running for campaign %s. Press CTRL-C to exit.", cfg.Sync.CampaignID)

	if err := group.Wait(); err != nil && err != context.Canceled {
		log.Printf("Server stopped: %v", err)
	} else {
		log.Println("Shutting down...")
	}

	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			log.Printf("Failed to close Redis connection: %v", err)
		}
	}
}
