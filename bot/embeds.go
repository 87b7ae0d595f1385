package bot

import (
	"fmt"

	"heist/models"

	"github.com/bwmarrin/discordgo"
)

// Discord color constants
const (
	ColorPrimary = 0x5865F2 // Discord blurple
	ColorSuccess = 0x57F287 // Green
	ColorDanger  = 0xED4245 // Red
)

// buildProfileEmbed creates the profile view for a user
func buildProfileEmbed(displayName string, profile *models.Profile) *discordgo.MessageEmbed {
	user := profile.User

	return &discordgo.MessageEmbed{
		Title: fmt.Sprintf("%s — Level %d", displayName, user.Level),
		Color: ColorPrimary,
		Fields: []*discordgo.MessageEmbedField{
			{
				Name:   "Experience",
				Value:  fmt.Sprintf("%d / %d", user.Exp, user.ExpToLevelUp()),
				Inline: true,
			},
			{
				Name:   "Cash",
				Value:  FormatCash(user.Cash),
				Inline: true,
			},
			{
				Name:   "Bank",
				Value:  FormatCash(profile.Bank.Balance),
				Inline: true,
			},
			{
				Name:   "Perk Charges",
				Value:  fmt.Sprintf("Work: %d • Rob: %d", profile.Perk.WorkCharges, profile.Perk.RobCharges),
				Inline: false,
			},
		},
	}
}
