package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/squadup/squadup/internal/handlers/discord"
	"github.com/squadup/squadup/internal/provisioner"
	sessionRepo "github.com/squadup/squadup/internal/repositories/session"
	"github.com/squadup/squadup/internal/services/party"
)

func main() {
	// Load .env if present; real deployments set the environment directly
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Initialize Redis client
	redisClient := redis.NewClient(&redis.Options{
		Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
		Password: getEnv("REDIS_PASSWORD", ""),
		DB:       0,
	})

	// Test Redis connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}

	// Initialize repositories
	repo, err := sessionRepo.NewRedis(&sessionRepo.Config{
		RedisClient: redisClient,
	})
	if err != nil {
		log.Fatalf("Failed to create session repository: %v", err)
	}

	// Get Discord token from environment
	discordToken := getEnv("DISCORD_TOKEN", "")
	if discordToken == "" {
		log.Fatal("DISCORD_TOKEN environment variable is required")
	}

	discordSession, err := discordgo.New("Bot " + discordToken)
	if err != nil {
		log.Fatalf("Failed to create Discord session: %v", err)
	}

	backend, err := provisioner.NewDiscord(&provisioner.Config{
		Session: discordSession,
	})
	if err != nil {
		log.Fatalf("Failed to create provisioner: %v", err)
	}

	presenter, err := discord.NewPresenter(discordSession)
	if err != nil {
		log.Fatalf("Failed to create presenter: %v", err)
	}

	// Initialize party service
	partySvc, err := party.New(&party.Config{
		SessionTTL:    getEnvDuration("SESSION_TTL", 20*time.Minute),
		IdleThreshold: getEnvDuration("IDLE_THRESHOLD", time.Minute),
		MaxParties:    getEnvInt("MAX_PARTIES", 0),
		SessionRepo:   repo,
		Provisioner:   backend,
		Presenter:     presenter,
	})
	if err != nil {
		log.Fatalf("Failed to create party service: %v", err)
	}

	// Initialize Discord bot
	bot, err := discord.New(&discord.Config{
		Session:       discordSession,
		ApplicationID: getEnv("APPLICATION_ID", ""),
		GuildID:       getEnv("GUILD_ID", ""),
		PartyService:  partySvc,
		SweepInterval: getEnvDuration("SWEEP_INTERVAL", time.Minute),
	})
	if err != nil {
		log.Fatalf("Failed to create Discord bot: %v", err)
	}

	// Start the bot; this reconciles stored sessions before registering
	// commands, so nothing can act on a half-restored registry
	if err := bot.Start(); err != nil {
		log.Fatalf("Failed to start Discord bot: %v", err)
	}

	// Wait for interrupt signal to gracefully shutdown
	sc := make(chan os.Signal, 1)
	signal.Notify(sc, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	<-sc

	// Shutdown the bot
	if err := bot.Stop(); err != nil {
		log.Printf("Error stopping bot: %v", err)
	}

	log.Println("Bot has been shut down")
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvDuration parses a duration environment variable or returns a default
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	d, err := time.ParseDuration(value)
	if err != nil {
		log.Printf("Invalid %s value %q, using default %s", key, value, defaultValue)
		return defaultValue
	}
	return d
}

// getEnvInt parses an integer environment variable or returns a default
func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	n, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("Invalid %s value %q, using default %d", key, value, defaultValue)
		return defaultValue
	}
	return n
}
