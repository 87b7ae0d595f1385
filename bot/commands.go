package bot

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
)

// registerCommands registers all slash commands with Discord
func (b *Bot) registerCommands() error {
	commands := []*discordgo.ApplicationCommand{
		{
			Name:        "register",
			Description: "Join the game with an empty ledger",
		},
		{
			Name:        "profile",
			Description: "View your level, cash, bank balance and perk charges",
		},
		{
			Name:        "history",
			Description: "View your most recent balance changes",
		},
		{
			Name:        "work",
			Description: "Work a shift for cash and experience",
		},
		{
			Name:        "rob",
			Description: "Attempt to rob another player",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionUser,
					Name:        "user",
					Description: "Player to rob",
					Required:    true,
				},
			},
		},
		{
			Name:        "donate",
			Description: "Give cash to another player",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionUser,
					Name:        "user",
					Description: "Player to donate to",
					Required:    true,
				},
				{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "amount",
					Description: "Amount of cash to give",
					Required:    true,
				},
			},
		},
		{
			Name:        "charity",
			Description: "Give cash away for experience",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "amount",
					Description: "Amount of cash to give away",
					Required:    true,
				},
			},
		},
		{
			Name:        "gamble",
			Description: "Stake cash on a coin flip",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "amount",
					Description: "Amount of cash to stake",
					Required:    true,
				},
			},
		},
		{
			Name:        "buyperk",
			Description: "Buy work or rob perk charges",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "perk",
					Description: "Which perk to buy",
					Required:    true,
					Choices: []*discordgo.ApplicationCommandOptionChoice{
						{Name: "work", Value: "work"},
						{Name: "rob", Value: "rob"},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "quantity",
					Description: "Number of charges to buy",
					Required:    true,
				},
			},
		},
		{
			Name:        "deposit",
			Description: "Move cash into your bank",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "amount",
					Description: "Amount of cash to deposit",
					Required:    true,
				},
			},
		},
		{
			Name:        "withdraw",
			Description: "Move banked funds back into cash",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "amount",
					Description: "Amount to withdraw",
					Required:    true,
				},
			},
		},
		{
			Name:        "transfer",
			Description: "Transfer banked funds to another player",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionUser,
					Name:        "user",
					Description: "Player to transfer to",
					Required:    true,
				},
				{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "amount",
					Description: "Amount to transfer",
					Required:    true,
				},
			},
		},
	}

	for _, cmd := range commands {
		_, err := b.session.ApplicationCommandCreate(b.session.State.User.ID, b.config.GuildID, cmd)
		if err != nil {
			return fmt.Errorf("cannot create '%s' command: %w", cmd.Name, err)
		}
	}

	return nil
}
