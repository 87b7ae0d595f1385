package cmd

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"heist/bot"
	"heist/config"
	"heist/database"
	"heist/events"
	"heist/repository"
	"heist/service"
)

// Run initializes and starts the application
func Run(ctx context.Context) error {
	log.Info("Starting heist bot...")

	cfg := config.Get()

	log.Info("Connecting to database...")
	db, err := database.NewConnection(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	eventBus := events.NewBus()
	uowFactory := repository.NewUnitOfWorkFactory(db, eventBus)

	log.Info("Initializing services...")
	rng := service.NewRand()
	userService := service.NewUserService(uowFactory)
	gameService := service.NewGameService(uowFactory, rng)
	perkService := service.NewPerkService(uowFactory)
	bankService := service.NewBankService(uowFactory)

	log.Info("Initializing Discord bot...")
	botConfig := bot.Config{
		Token:             cfg.DiscordToken,
		GuildID:           cfg.DiscordGuildID,
		WorkMultiplier:    cfg.WorkMultiplier,
		RobMultiplier:     cfg.RobMultiplier,
		DonateMultiplier:  cfg.DonateMultiplier,
		CharityMultiplier: cfg.CharityMultiplier,
	}
	discordBot, err := bot.New(botConfig, userService, gameService, perkService, bankService, eventBus)
	if err != nil {
		db.Close()
		return fmt.Errorf("failed to initialize Discord bot: %w", err)
	}

	log.Infof("Bot is running in %s mode...", cfg.Environment)
	<-ctx.Done()

	log.Info("Shutting down bot...")
	if err := discordBot.Close(); err != nil {
		log.Errorf("Error closing Discord bot: %v", err)
	}

	// Give in-flight event handlers a moment before dropping the pool
	time.Sleep(1 * time.Second)

	log.Info("Closing database connection...")
	db.Close()

	return nil
}
