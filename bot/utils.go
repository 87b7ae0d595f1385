package bot

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"heist/service"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// FormatCash formats an amount with thousand separators
func FormatCash(amount int64) string {
	negative := amount < 0
	str := strconv.FormatInt(amount, 10)
	if negative {
		str = str[1:]
	}

	n := len(str)
	if n > 3 {
		var result strings.Builder
		for i, digit := range str {
			if i > 0 && (n-i)%3 == 0 {
				result.WriteRune(',')
			}
			result.WriteRune(digit)
		}
		str = result.String()
	}

	if negative {
		return "-" + str
	}
	return str
}

// GetDisplayName returns the server-specific display name for a user,
// falling back to the username
func GetDisplayName(s *discordgo.Session, guildID, userID string) string {
	member, err := s.GuildMember(guildID, userID)
	if err == nil && member != nil {
		if member.Nick != "" {
			return member.Nick
		}
		if member.User != nil {
			return member.User.Username
		}
	}

	user, err := s.User(userID)
	if err == nil && user != nil {
		return user.Username
	}

	return "Unknown"
}

// FormatDiscordTimestamp formats a time as a Discord timestamp rendered in
// the viewer's local timezone. "R" gives relative time.
func FormatDiscordTimestamp(t time.Time, format string) string {
	return fmt.Sprintf("<t:%d:%s>", t.Unix(), format)
}

// optionInt returns the named integer option, or zero if absent
func optionInt(i *discordgo.InteractionCreate, name string) int64 {
	for _, opt := range i.ApplicationCommandData().Options {
		if opt.Name == name {
			return opt.IntValue()
		}
	}
	return 0
}

// optionString returns the named string option, or empty if absent
func optionString(i *discordgo.InteractionCreate, name string) string {
	for _, opt := range i.ApplicationCommandData().Options {
		if opt.Name == name {
			return opt.StringValue()
		}
	}
	return ""
}

// optionUser returns the named user option, or nil if absent
func optionUser(s *discordgo.Session, i *discordgo.InteractionCreate, name string) *discordgo.User {
	for _, opt := range i.ApplicationCommandData().Options {
		if opt.Name == name {
			return opt.UserValue(s)
		}
	}
	return nil
}

// parseTargetID converts a user option into a numeric Discord ID
func parseTargetID(user *discordgo.User) (int64, bool) {
	if user == nil {
		return 0, false
	}
	id, err := strconv.ParseInt(user.ID, 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

// interactionIDs extracts the guild and author IDs from an interaction
func interactionIDs(i *discordgo.InteractionCreate) (guildID, discordID int64, err error) {
	guildID, err = strconv.ParseInt(i.GuildID, 10, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid guild ID %q: %w", i.GuildID, err)
	}
	if i.Member == nil || i.Member.User == nil {
		return 0, 0, fmt.Errorf("interaction has no member")
	}
	discordID, err = strconv.ParseInt(i.Member.User.ID, 10, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid user ID %q: %w", i.Member.User.ID, err)
	}
	return guildID, discordID, nil
}

func (b *Bot) respond(s *discordgo.Session, i *discordgo.InteractionCreate, message string) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: message,
		},
	})
	if err != nil {
		log.Errorf("Error sending response: %v", err)
	}
}

func (b *Bot) respondWithError(s *discordgo.Session, i *discordgo.InteractionCreate, message string) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: message,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		log.Errorf("Error sending error response: %v", err)
	}
}

// respondWithDomainError maps service errors to player-facing messages
func (b *Bot) respondWithDomainError(s *discordgo.Session, i *discordgo.InteractionCreate, err error) {
	switch {
	case errors.Is(err, service.ErrUserNotFound):
		b.respondWithError(s, i, "You need to `/register` before playing.")
	case errors.Is(err, service.ErrInvalidRobTarget):
		b.respondWithError(s, i, "That player has no cash worth stealing.")
	case errors.Is(err, service.ErrInvalidAmount):
		b.respondWithError(s, i, "That amount doesn't work here.")
	case errors.Is(err, service.ErrNotEnoughCash):
		b.respondWithError(s, i, "You don't have enough cash on hand.")
	case errors.Is(err, service.ErrInsufficientBankBalance):
		b.respondWithError(s, i, "You don't have enough banked funds.")
	default:
		log.Errorf("Command failed: %v", err)
		b.respondWithError(s, i, "Unable to process request. Please try again.")
	}
}
