package bot

import (
	"context"
	"fmt"
	"strings"

	"heist/models"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

func (b *Bot) handleRegister(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	guildID, discordID, err := interactionIDs(i)
	if err != nil {
		log.Errorf("Error parsing interaction IDs: %v", err)
		b.respondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	user, created, err := b.userService.Register(ctx, guildID, discordID)
	if err != nil {
		b.respondWithDomainError(s, i, err)
		return
	}

	displayName := GetDisplayName(s, i.GuildID, i.Member.User.ID)
	if !created {
		b.respond(s, i, fmt.Sprintf("%s, you are already registered (level %d).", displayName, user.Level))
		return
	}
	b.respond(s, i, fmt.Sprintf("Welcome, %s! You start at level 1 with nothing but ambition.", displayName))
}

func (b *Bot) handleProfile(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	guildID, discordID, err := interactionIDs(i)
	if err != nil {
		log.Errorf("Error parsing interaction IDs: %v", err)
		b.respondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	profile, err := b.userService.GetProfile(ctx, guildID, discordID)
	if err != nil {
		b.respondWithDomainError(s, i, err)
		return
	}

	displayName := GetDisplayName(s, i.GuildID, i.Member.User.ID)
	embed := buildProfileEmbed(displayName, profile)

	err = s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{embed},
		},
	})
	if err != nil {
		log.Errorf("Error responding to profile command: %v", err)
	}
}

func (b *Bot) handleHistory(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	guildID, discordID, err := interactionIDs(i)
	if err != nil {
		log.Errorf("Error parsing interaction IDs: %v", err)
		b.respondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	history, err := b.userService.GetHistory(ctx, guildID, discordID, 10)
	if err != nil {
		b.respondWithDomainError(s, i, err)
		return
	}

	if len(history) == 0 {
		b.respondWithError(s, i, "No balance changes yet. Try `/work`.")
		return
	}

	var sb strings.Builder
	sb.WriteString("Your recent balance changes:\n")
	for _, h := range history {
		sb.WriteString(fmt.Sprintf("%s `%s` **%+d** → %s\n",
			FormatDiscordTimestamp(h.CreatedAt, "R"), h.TransactionType, h.ChangeAmount, FormatCash(h.BalanceAfter)))
	}

	err = s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: sb.String(),
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		log.Errorf("Error responding to history command: %v", err)
	}
}

func (b *Bot) handleWork(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	guildID, discordID, err := interactionIDs(i)
	if err != nil {
		log.Errorf("Error parsing interaction IDs: %v", err)
		b.respondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	result, err := b.gameService.Work(ctx, guildID, discordID, b.config.WorkMultiplier)
	if err != nil {
		b.respondWithDomainError(s, i, err)
		return
	}

	message := fmt.Sprintf("You worked a shift and earned **%s cash** (+%d exp).", FormatCash(result.Amount), result.Exp)
	if result.PerkUsed {
		message += " A work charge boosted your pay."
	}
	if result.LeveledUp {
		message += " 📈 **Level up!**"
	}
	b.respond(s, i, message)
}

func (b *Bot) handleRob(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	guildID, discordID, err := interactionIDs(i)
	if err != nil {
		log.Errorf("Error parsing interaction IDs: %v", err)
		b.respondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	targetUser := optionUser(s, i, "user")
	targetID, ok := parseTargetID(targetUser)
	if !ok {
		b.respondWithError(s, i, "Invalid target user.")
		return
	}

	result, err := b.gameService.Rob(ctx, guildID, discordID, targetID, b.config.RobMultiplier)
	if err != nil {
		b.respondWithDomainError(s, i, err)
		return
	}

	targetName := GetDisplayName(s, i.GuildID, targetUser.ID)
	if result.Failed {
		b.respond(s, i, fmt.Sprintf("You got caught robbing **%s** and paid **%s cash** in damages.",
			targetName, FormatCash(result.Amount)))
		return
	}

	message := fmt.Sprintf("You robbed **%s cash** from **%s** (+%d exp).",
		FormatCash(result.Amount), targetName, result.Exp)
	if result.PerkUsed {
		message += " A rob charge covered your tracks."
	}
	if result.LeveledUp {
		message += " 📈 **Level up!**"
	}
	b.respond(s, i, message)
}

func (b *Bot) handleDonate(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	guildID, discordID, err := interactionIDs(i)
	if err != nil {
		log.Errorf("Error parsing interaction IDs: %v", err)
		b.respondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	targetUser := optionUser(s, i, "user")
	targetID, ok := parseTargetID(targetUser)
	if !ok {
		b.respondWithError(s, i, "Invalid target user.")
		return
	}
	amount := optionInt(i, "amount")

	result, err := b.gameService.Donate(ctx, guildID, discordID, targetID, amount, b.config.DonateMultiplier)
	if err != nil {
		b.respondWithDomainError(s, i, err)
		return
	}

	targetName := GetDisplayName(s, i.GuildID, targetUser.ID)
	message := fmt.Sprintf("You donated **%s cash** to **%s** (+%d exp).",
		FormatCash(result.Amount), targetName, result.Exp)
	if result.LeveledUp {
		message += " 📈 **Level up!**"
	}
	b.respond(s, i, message)
}

func (b *Bot) handleCharity(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	guildID, discordID, err := interactionIDs(i)
	if err != nil {
		log.Errorf("Error parsing interaction IDs: %v", err)
		b.respondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	amount := optionInt(i, "amount")

	result, err := b.gameService.Charity(ctx, guildID, discordID, amount, b.config.CharityMultiplier)
	if err != nil {
		b.respondWithDomainError(s, i, err)
		return
	}

	message := fmt.Sprintf("You gave **%s cash** to charity (+%d exp).", FormatCash(result.Amount), result.Exp)
	if result.LeveledUp {
		message += " 📈 **Level up!**"
	}
	b.respond(s, i, message)
}

func (b *Bot) handleGamble(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	guildID, discordID, err := interactionIDs(i)
	if err != nil {
		log.Errorf("Error parsing interaction IDs: %v", err)
		b.respondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	amount := optionInt(i, "amount")

	result, err := b.gameService.Gamble(ctx, guildID, discordID, amount)
	if err != nil {
		b.respondWithDomainError(s, i, err)
		return
	}

	if result.Won {
		b.respond(s, i, fmt.Sprintf("🎉 **You won %s cash!** New balance: **%s**.",
			FormatCash(result.Amount), FormatCash(result.Cash)))
		return
	}
	b.respond(s, i, fmt.Sprintf("😔 **You lost %s cash.** New balance: **%s**.",
		FormatCash(result.Amount), FormatCash(result.Cash)))
}

func (b *Bot) handleBuyPerk(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	guildID, discordID, err := interactionIDs(i)
	if err != nil {
		log.Errorf("Error parsing interaction IDs: %v", err)
		b.respondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	perk := optionString(i, "perk")
	qty := optionInt(i, "quantity")

	var result *models.PurchaseResult
	switch perk {
	case "work":
		result, err = b.perkService.BuyWork(ctx, guildID, discordID, qty)
	case "rob":
		result, err = b.perkService.BuyRob(ctx, guildID, discordID, qty)
	default:
		b.respondWithError(s, i, "Unknown perk.")
		return
	}
	if err != nil {
		b.respondWithDomainError(s, i, err)
		return
	}

	b.respond(s, i, fmt.Sprintf("You bought **%d %s charge(s)** for **%s cash**. You now hold %d.",
		result.Quantity, perk, FormatCash(result.Cost), result.Charges))
}

func (b *Bot) handleDeposit(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	guildID, discordID, err := interactionIDs(i)
	if err != nil {
		log.Errorf("Error parsing interaction IDs: %v", err)
		b.respondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	amount := optionInt(i, "amount")

	result, err := b.bankService.Deposit(ctx, guildID, discordID, amount)
	if err != nil {
		b.respondWithDomainError(s, i, err)
		return
	}

	b.respond(s, i, fmt.Sprintf("Deposited **%s cash**. Bank balance: **%s**, cash on hand: **%s**.",
		FormatCash(result.Amount), FormatCash(result.Balance), FormatCash(result.Cash)))
}

func (b *Bot) handleWithdraw(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	guildID, discordID, err := interactionIDs(i)
	if err != nil {
		log.Errorf("Error parsing interaction IDs: %v", err)
		b.respondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	amount := optionInt(i, "amount")

	result, err := b.bankService.Withdraw(ctx, guildID, discordID, amount)
	if err != nil {
		b.respondWithDomainError(s, i, err)
		return
	}

	b.respond(s, i, fmt.Sprintf("Withdrew **%s cash**. Bank balance: **%s**, cash on hand: **%s**.",
		FormatCash(result.Amount), FormatCash(result.Balance), FormatCash(result.Cash)))
}

func (b *Bot) handleTransfer(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	guildID, discordID, err := interactionIDs(i)
	if err != nil {
		log.Errorf("Error parsing interaction IDs: %v", err)
		b.respondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	targetUser := optionUser(s, i, "user")
	targetID, ok := parseTargetID(targetUser)
	if !ok {
		b.respondWithError(s, i, "Invalid target user.")
		return
	}
	amount := optionInt(i, "amount")

	if discordID == targetID {
		b.respondWithError(s, i, "You cannot transfer to yourself.")
		return
	}

	result, err := b.bankService.Transfer(ctx, guildID, discordID, targetID, amount)
	if err != nil {
		b.respondWithDomainError(s, i, err)
		return
	}

	targetName := GetDisplayName(s, i.GuildID, targetUser.ID)
	b.respond(s, i, fmt.Sprintf("✅ Transferred **%s** to **%s**. Your bank balance: **%s**.",
		FormatCash(result.Amount), targetName, FormatCash(result.AuthorBalance)))
}
