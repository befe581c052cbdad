package provisioner

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/bwmarrin/discordgo"
	"github.com/squadup/squadup/internal/models"
)

// Config holds configuration for the Discord provisioner backend
type Config struct {
	// Discord session, already opened by the bot
	Session *discordgo.Session
}

// discordBackend implements the Backend interface using discordgo
type discordBackend struct {
	session *discordgo.Session
}

// NewDiscord creates a new Discord-backed provisioner
func NewDiscord(cfg *Config) (*discordBackend, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}

	if cfg.Session == nil {
		return nil, errors.New("discord session cannot be nil")
	}

	return &discordBackend{
		session: cfg.Session,
	}, nil
}

// CheckCapability verifies the bot holds the guild permissions needed to
// create categories, voice channels and permission overwrites
func (b *discordBackend) CheckCapability(ctx context.Context, input *CheckCapabilityInput) error {
	if input == nil || input.GuildID == "" {
		return errors.New("input and guild ID cannot be empty")
	}

	guild, err := b.guild(input.GuildID)
	if err != nil {
		return fmt.Errorf("failed to get guild: %w", err)
	}

	botUserID := b.session.State.User.ID
	member, err := b.session.State.Member(input.GuildID, botUserID)
	if err != nil {
		member, err = b.session.GuildMember(input.GuildID, botUserID)
		if err != nil {
			return fmt.Errorf("failed to get bot member: %w", err)
		}
	}

	perms := memberPermissions(guild, member)
	if perms&discordgo.PermissionAdministrator != 0 {
		return nil
	}

	required := map[string]int64{
		"Manage Channels": discordgo.PermissionManageChannels,
		"Manage Roles":    discordgo.PermissionManageRoles,
	}

	var missing []string
	for name, bit := range required {
		if perms&bit == 0 {
			missing = append(missing, name)
		}
	}

	if len(missing) > 0 {
		return &CapabilityError{Missing: missing}
	}

	return nil
}

// EnsureGrouping finds or creates the "<Activity> Parties" category
func (b *discordBackend) EnsureGrouping(ctx context.Context, input *EnsureGroupingInput) (*EnsureGroupingOutput, error) {
	if input == nil || input.GuildID == "" {
		return nil, errors.New("input and guild ID cannot be empty")
	}

	name := groupingName(input.Activity)

	channels, err := b.session.GuildChannels(input.GuildID)
	if err != nil {
		return nil, fmt.Errorf("failed to list guild channels: %w", err)
	}

	for _, ch := range channels {
		if ch.Type == discordgo.ChannelTypeGuildCategory && ch.Name == name {
			return &EnsureGroupingOutput{GroupingID: ch.ID}, nil
		}
	}

	category, err := b.session.GuildChannelCreateComplex(input.GuildID, discordgo.GuildChannelCreateData{
		Name: name,
		Type: discordgo.ChannelTypeGuildCategory,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create category %q: %w", name, err)
	}

	return &EnsureGroupingOutput{GroupingID: category.ID}, nil
}

// CreateScopedResource creates a voice channel under the category that only
// the roster members can see and join
func (b *discordBackend) CreateScopedResource(ctx context.Context, input *CreateScopedResourceInput) (*CreateScopedResourceOutput, error) {
	if input == nil || input.GuildID == "" || input.GroupingID == "" {
		return nil, errors.New("input, guild ID and grouping ID cannot be empty")
	}

	if len(input.MemberIDs) == 0 {
		return nil, errors.New("member IDs cannot be empty")
	}

	overwrites := []*discordgo.PermissionOverwrite{
		{
			// @everyone: hidden and unjoinable
			ID:   input.GuildID,
			Type: discordgo.PermissionOverwriteTypeRole,
			Deny: discordgo.PermissionViewChannel | discordgo.PermissionVoiceConnect,
		},
	}

	for _, memberID := range input.MemberIDs {
		overwrites = append(overwrites, &discordgo.PermissionOverwrite{
			ID:    memberID,
			Type:  discordgo.PermissionOverwriteTypeMember,
			Allow: discordgo.PermissionViewChannel | discordgo.PermissionVoiceConnect | discordgo.PermissionVoiceSpeak,
		})
	}

	channel, err := b.session.GuildChannelCreateComplex(input.GuildID, discordgo.GuildChannelCreateData{
		Name:                 input.Name,
		Type:                 discordgo.ChannelTypeGuildVoice,
		ParentID:             input.GroupingID,
		UserLimit:            len(input.MemberIDs),
		PermissionOverwrites: overwrites,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create voice channel %q: %w", input.Name, err)
	}

	return &CreateScopedResourceOutput{ResourceID: channel.ID}, nil
}

// DeleteResource deletes a provisioned voice channel
func (b *discordBackend) DeleteResource(ctx context.Context, input *DeleteResourceInput) error {
	if input == nil || input.ResourceID == "" {
		return errors.New("input and resource ID cannot be empty")
	}

	if _, err := b.session.ChannelDelete(input.ResourceID); err != nil {
		return fmt.Errorf("failed to delete voice channel: %w", err)
	}

	return nil
}

// DeleteGroupingIfEmpty deletes the category when no channels remain in it
func (b *discordBackend) DeleteGroupingIfEmpty(ctx context.Context, input *DeleteGroupingIfEmptyInput) error {
	if input == nil || input.GuildID == "" || input.GroupingID == "" {
		return errors.New("input, guild ID and grouping ID cannot be empty")
	}

	channels, err := b.session.GuildChannels(input.GuildID)
	if err != nil {
		return fmt.Errorf("failed to list guild channels: %w", err)
	}

	for _, ch := range channels {
		if ch.ParentID == input.GroupingID {
			return nil
		}
	}

	if _, err := b.session.ChannelDelete(input.GroupingID); err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}

	return nil
}

// CurrentOccupantCount returns how many users sit in the voice channel
func (b *discordBackend) CurrentOccupantCount(ctx context.Context, input *CurrentOccupantCountInput) (int, error) {
	if input == nil || input.GuildID == "" || input.ResourceID == "" {
		return 0, errors.New("input, guild ID and resource ID cannot be empty")
	}

	guild, err := b.guild(input.GuildID)
	if err != nil {
		return 0, fmt.Errorf("failed to get guild: %w", err)
	}

	count := 0
	for _, vs := range guild.VoiceStates {
		if vs.ChannelID == input.ResourceID {
			count++
		}
	}

	return count, nil
}

// guild reads from the gateway state cache first and falls back to the API
func (b *discordBackend) guild(guildID string) (*discordgo.Guild, error) {
	guild, err := b.session.State.Guild(guildID)
	if err == nil {
		return guild, nil
	}

	return b.session.Guild(guildID)
}

// memberPermissions folds the member's role permissions, starting from the
// @everyone role
func memberPermissions(guild *discordgo.Guild, member *discordgo.Member) int64 {
	var perms int64

	for _, role := range guild.Roles {
		if role.ID == guild.ID {
			perms |= role.Permissions
		}
	}

	for _, roleID := range member.Roles {
		for _, role := range guild.Roles {
			if role.ID == roleID {
				perms |= role.Permissions
			}
		}
	}

	return perms
}

// groupingName builds the category name for an activity, e.g. "Valorant Parties"
func groupingName(activity models.Activity) string {
	name := string(activity)
	if name == "" {
		name = "lfg"
	}

	runes := []rune(strings.ReplaceAll(name, "_", " "))
	runes[0] = unicode.ToUpper(runes[0])

	return string(runes) + " Parties"
}
