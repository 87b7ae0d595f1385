package bot

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"heist/events"
	"heist/service"

	"github.com/bwmarrin/discordgo"
)

// Config holds bot configuration
type Config struct {
	Token   string
	GuildID string

	WorkMultiplier    float64
	RobMultiplier     float64
	DonateMultiplier  float64
	CharityMultiplier float64
}

type Bot struct {
	config      Config
	session     *discordgo.Session
	userService service.UserService
	gameService service.GameService
	perkService service.PerkService
	bankService service.BankService
	eventBus    *events.Bus
}

func New(config Config, userService service.UserService, gameService service.GameService, perkService service.PerkService, bankService service.BankService, eventBus *events.Bus) (*Bot, error) {
	dg, err := discordgo.New("Bot " + config.Token)
	if err != nil {
		return nil, fmt.Errorf("error creating discord session: %w", err)
	}
	dg.Identify.Intents = discordgo.IntentsGuilds | discordgo.IntentsGuildMessages

	bot := &Bot{
		config:      config,
		session:     dg,
		userService: userService,
		gameService: gameService,
		perkService: perkService,
		bankService: bankService,
		eventBus:    eventBus,
	}

	dg.AddHandler(bot.handleCommands)

	if err := dg.Open(); err != nil {
		return nil, fmt.Errorf("error opening connection: %w", err)
	}

	if err := bot.registerCommands(); err != nil {
		dg.Close()
		return nil, fmt.Errorf("error registering commands: %w", err)
	}

	eventBus.Subscribe(events.EventTypeLevelUp, func(ctx context.Context, event events.Event) {
		levelUp, ok := event.(events.LevelUpEvent)
		if !ok {
			return
		}
		log.WithFields(log.Fields{
			"guildID":   levelUp.GuildID,
			"discordID": levelUp.DiscordID,
			"level":     levelUp.Level,
		}).Info("User leveled up")
	})

	return bot, nil
}

func (b *Bot) Close() error {
	return b.session.Close()
}

func (b *Bot) handleCommands(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}

	switch i.ApplicationCommandData().Name {
	case "register":
		b.handleRegister(s, i)
	case "profile":
		b.handleProfile(s, i)
	case "history":
		b.handleHistory(s, i)
	case "work":
		b.handleWork(s, i)
	case "rob":
		b.handleRob(s, i)
	case "donate":
		b.handleDonate(s, i)
	case "charity":
		b.handleCharity(s, i)
	case "gamble":
		b.handleGamble(s, i)
	case "buyperk":
		b.handleBuyPerk(s, i)
	case "deposit":
		b.handleDeposit(s, i)
	case "withdraw":
		b.handleWithdraw(s, i)
	case "transfer":
		b.handleTransfer(s, i)
	}
}
