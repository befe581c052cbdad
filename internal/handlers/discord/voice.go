package discord

import (
	"github.com/bwmarrin/discordgo"
)

// handleVoiceStateUpdate reports occupancy for the channels a member moved
// between. The party service decides whether a channel is one of ours.
func (b *Bot) handleVoiceStateUpdate(s *discordgo.Session, e *discordgo.VoiceStateUpdate) {
	channels := make([]string, 0, 2)
	if e.ChannelID != "" {
		channels = append(channels, e.ChannelID)
	}
	if e.BeforeUpdate != nil && e.BeforeUpdate.ChannelID != "" && e.BeforeUpdate.ChannelID != e.ChannelID {
		channels = append(channels, e.BeforeUpdate.ChannelID)
	}

	for _, channelID := range channels {
		b.partyService.NotifyChannelOccupancy(channelID, b.occupantCount(s, e.GuildID, channelID))
	}
}

// occupantCount counts members currently in a voice channel from the state
// cache
func (b *Bot) occupantCount(s *discordgo.Session, guildID, channelID string) int {
	guild, err := s.State.Guild(guildID)
	if err != nil {
		return 0
	}

	count := 0
	for _, vs := range guild.VoiceStates {
		if vs.ChannelID == channelID {
			count++
		}
	}

	return count
}
