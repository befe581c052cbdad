package discord

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/squadup/squadup/internal/models"
	"github.com/squadup/squadup/internal/services/party"
)

// LFGCommandName is the registered name of the /lfg command
const LFGCommandName = "lfg"

// LFGCommand handles the /lfg command
type LFGCommand struct {
	BaseCommand
	partyService party.Service
}

// NewLFGCommand creates a new lfg command handler
func NewLFGCommand(partyService party.Service) *LFGCommand {
	minSize := float64(2)

	return &LFGCommand{
		BaseCommand: BaseCommand{
			Name:        LFGCommandName,
			Description: "Find a group and get a voice channel when it fills",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "create",
					Description: "Open a new party",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "activity",
							Description: "What you want to play",
							Required:    true,
							Choices:     activityChoices(),
						},
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "mode",
							Description: "Game mode",
							Required:    true,
						},
						{
							Type:        discordgo.ApplicationCommandOptionInteger,
							Name:        "size",
							Description: "How many players you need in total, including you",
							Required:    true,
							MinValue:    &minSize,
							MaxValue:    10,
						},
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "note",
							Description: "Optional note shown on the party message",
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "join",
					Description: "Join a specific player's party",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionUser,
							Name:        "creator",
							Description: "Whose party to join",
							Required:    true,
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "quickjoin",
					Description: "Join the oldest open party matching an activity and mode",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "activity",
							Description: "What you want to play",
							Required:    true,
							Choices:     activityChoices(),
						},
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "mode",
							Description: "Game mode",
							Required:    true,
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "leave",
					Description: "Leave the party you are in",
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "end",
					Description: "End the party you created",
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "list",
					Description: "List the open parties in this server",
				},
			},
		},
		partyService: partyService,
	}
}

// GetCommand returns the application command definition, restricted to guilds
func (c *LFGCommand) GetCommand() *discordgo.ApplicationCommand {
	cmd := c.BaseCommand.GetCommand()
	dmPermission := false
	cmd.DMPermission = &dmPermission
	return cmd
}

// activityChoices builds the activity option choices from the default catalog
func activityChoices() []*discordgo.ApplicationCommandOptionChoice {
	choices := make([]*discordgo.ApplicationCommandOptionChoice, 0, len(models.DefaultActivities))
	for _, activity := range []models.Activity{
		models.ActivityValorant,
		models.ActivityApex,
		models.ActivityOverwatch,
		models.ActivityCustom,
	} {
		choices = append(choices, &discordgo.ApplicationCommandOptionChoice{
			Name:  titleCase(string(activity)),
			Value: string(activity),
		})
	}

	return choices
}

// Handle processes a Discord interaction for the lfg command
func (c *LFGCommand) Handle(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	if i.Type != discordgo.InteractionApplicationCommand {
		return nil
	}

	data := i.ApplicationCommandData()
	if data.Name != c.Name {
		return nil
	}

	// The command is guild-only; Member is nil when the interaction somehow
	// arrives from a DM anyway
	if i.Member == nil || i.Member.User == nil {
		return nil
	}

	userID := i.Member.User.ID
	username := i.Member.User.Username
	if i.Member.Nick != "" {
		username = i.Member.Nick
	}

	var err error
	switch data.Options[0].Name {
	case "create":
		err = c.handleCreate(s, i, userID, username)
	case "join":
		err = c.handleJoin(s, i, userID, username)
	case "quickjoin":
		err = c.handleQuickJoin(s, i, userID, username)
	case "leave":
		err = c.handleLeave(s, i, userID)
	case "end":
		err = c.handleEnd(s, i, userID)
	case "list":
		err = c.handleList(s, i)
	default:
		err = errors.New("unknown subcommand")
	}

	return err
}

// HandleComponent processes join and leave button clicks on party messages
func (c *LFGCommand) HandleComponent(s *discordgo.Session, i *discordgo.InteractionCreate, customID string) error {
	prefix, sessionID, found := strings.Cut(customID, ":")
	if !found {
		return nil
	}

	// Buttons only exist on guild status messages
	if i.Member == nil || i.Member.User == nil {
		return nil
	}

	userID := i.Member.User.ID
	username := i.Member.User.Username
	if i.Member.Nick != "" {
		username = i.Member.Nick
	}

	ctx := context.Background()

	switch prefix {
	case buttonJoinPrefix:
		out, err := c.partyService.JoinParty(ctx, &party.JoinPartyInput{
			SessionID: sessionID,
			UserID:    userID,
			UserName:  username,
		})
		if err != nil {
			return c.respondPartyError(s, i, err)
		}

		if out.AlreadyJoined {
			return RespondWithEphemeralMessage(s, i, "You're already in this party.")
		}

		if out.BecameFull {
			return RespondWithEphemeralMessage(s, i, "You're in, and the party is full! Check the voice channel.")
		}

		return RespondWithEphemeralMessage(s, i, "You're in!")
	case buttonLeavePrefix:
		out, err := c.partyService.LeaveParty(ctx, &party.LeavePartyInput{
			SessionID: sessionID,
			UserID:    userID,
		})
		if err != nil {
			return c.respondPartyError(s, i, err)
		}

		if out.Ended {
			return RespondWithEphemeralMessage(s, i, "You left and the party was disbanded.")
		}

		return RespondWithEphemeralMessage(s, i, "You left the party.")
	}

	return nil
}

// handleCreate handles the create subcommand
func (c *LFGCommand) handleCreate(s *discordgo.Session, i *discordgo.InteractionCreate, userID, username string) error {
	ctx := context.Background()

	var (
		activity string
		mode     string
		size     int
		note     string
	)
	for _, opt := range i.ApplicationCommandData().Options[0].Options {
		switch opt.Name {
		case "activity":
			activity = opt.StringValue()
		case "mode":
			mode = opt.StringValue()
		case "size":
			size = int(opt.IntValue())
		case "note":
			note = opt.StringValue()
		}
	}

	out, err := c.partyService.CreateParty(ctx, &party.CreatePartyInput{
		GuildID:    i.GuildID,
		ChannelID:  i.ChannelID,
		UserID:     userID,
		UserName:   username,
		Activity:   models.Activity(activity),
		Mode:       models.Mode(mode),
		TargetSize: size,
		Note:       note,
	})
	if err != nil {
		return c.respondPartyError(s, i, err)
	}

	return RespondWithEphemeralMessage(s, i, fmt.Sprintf(
		"Party is up! Looking for %d more. I'll open a voice channel when it fills.",
		out.Session.TargetSize-len(out.Session.Roster)))
}

// handleJoin handles the join subcommand
func (c *LFGCommand) handleJoin(s *discordgo.Session, i *discordgo.InteractionCreate, userID, username string) error {
	ctx := context.Background()

	var creatorID string
	for _, opt := range i.ApplicationCommandData().Options[0].Options {
		if opt.Name == "creator" {
			creatorID = opt.UserValue(nil).ID
		}
	}

	listOut, err := c.partyService.ListParties(ctx, &party.ListPartiesInput{
		GuildID: i.GuildID,
	})
	if err != nil {
		log.Printf("Error listing parties: %v", err)
		return RespondWithError(s, i, "Something went wrong looking up that party.")
	}

	var sessionID string
	for _, sess := range listOut.Sessions {
		if sess.CreatorID == creatorID {
			sessionID = sess.ID
			break
		}
	}

	if sessionID == "" {
		return RespondWithError(s, i, fmt.Sprintf("<@%s> has no open party in this server.", creatorID))
	}

	out, err := c.partyService.JoinParty(ctx, &party.JoinPartyInput{
		SessionID: sessionID,
		UserID:    userID,
		UserName:  username,
	})
	if err != nil {
		return c.respondPartyError(s, i, err)
	}

	if out.AlreadyJoined {
		return RespondWithEphemeralMessage(s, i, "You're already in that party.")
	}

	if out.BecameFull {
		return RespondWithEphemeralMessage(s, i, "You filled the party! Check the voice channel.")
	}

	return RespondWithEphemeralMessage(s, i, fmt.Sprintf(
		"Joined (%d / %d).", len(out.Session.Roster), out.Session.TargetSize))
}

// handleQuickJoin handles the quickjoin subcommand
func (c *LFGCommand) handleQuickJoin(s *discordgo.Session, i *discordgo.InteractionCreate, userID, username string) error {
	ctx := context.Background()

	var (
		activity string
		mode     string
	)
	for _, opt := range i.ApplicationCommandData().Options[0].Options {
		switch opt.Name {
		case "activity":
			activity = opt.StringValue()
		case "mode":
			mode = opt.StringValue()
		}
	}

	out, err := c.partyService.QuickJoin(ctx, &party.QuickJoinInput{
		GuildID:  i.GuildID,
		UserID:   userID,
		UserName: username,
		Activity: models.Activity(activity),
		Mode:     models.Mode(mode),
	})
	if err != nil {
		return c.respondPartyError(s, i, err)
	}

	if out.BecameFull {
		return RespondWithEphemeralMessage(s, i, fmt.Sprintf(
			"You filled <@%s>'s party! Check the voice channel.", out.Session.CreatorID))
	}

	return RespondWithEphemeralMessage(s, i, fmt.Sprintf(
		"Joined <@%s>'s party (%d / %d).",
		out.Session.CreatorID, len(out.Session.Roster), out.Session.TargetSize))
}

// handleLeave handles the leave subcommand
func (c *LFGCommand) handleLeave(s *discordgo.Session, i *discordgo.InteractionCreate, userID string) error {
	ctx := context.Background()

	// The slash command carries no session ID, so find the caller's party
	// among the guild's open ones
	listOut, err := c.partyService.ListParties(ctx, &party.ListPartiesInput{
		GuildID: i.GuildID,
	})
	if err != nil {
		log.Printf("Error listing parties: %v", err)
		return RespondWithError(s, i, "Something went wrong looking up your party.")
	}

	var sessionID string
	for _, sess := range listOut.Sessions {
		if sess.HasPlayer(userID) {
			sessionID = sess.ID
			break
		}
	}

	if sessionID == "" {
		return RespondWithError(s, i, "You're not in a party in this server.")
	}

	out, err := c.partyService.LeaveParty(ctx, &party.LeavePartyInput{
		SessionID: sessionID,
		UserID:    userID,
	})
	if err != nil {
		return c.respondPartyError(s, i, err)
	}

	if out.Ended {
		return RespondWithEphemeralMessage(s, i, "You left and the party was disbanded.")
	}

	return RespondWithEphemeralMessage(s, i, "You left the party.")
}

// handleEnd handles the end subcommand
func (c *LFGCommand) handleEnd(s *discordgo.Session, i *discordgo.InteractionCreate, userID string) error {
	ctx := context.Background()

	_, err := c.partyService.EndParty(ctx, &party.EndPartyInput{
		UserID: userID,
	})
	if err != nil {
		if errors.Is(err, party.ErrSessionNotFound) {
			return RespondWithError(s, i, "You don't have a party to end. Only the creator can end a party.")
		}
		return c.respondPartyError(s, i, err)
	}

	return RespondWithEphemeralMessage(s, i, "Party ended.")
}

// handleList handles the list subcommand
func (c *LFGCommand) handleList(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	ctx := context.Background()

	out, err := c.partyService.ListParties(ctx, &party.ListPartiesInput{
		GuildID: i.GuildID,
	})
	if err != nil {
		log.Printf("Error listing parties: %v", err)
		return RespondWithError(s, i, "Something went wrong listing parties.")
	}

	if len(out.Sessions) == 0 {
		return RespondWithEphemeralMessage(s, i, "No open parties right now. Start one with `/lfg create`.")
	}

	var description strings.Builder
	for _, sess := range out.Sessions {
		line := fmt.Sprintf("**%s %s** led by <@%s>: %d / %d, expires <t:%d:R>",
			titleCase(string(sess.Activity)), sess.Mode, sess.CreatorID,
			len(sess.Roster), sess.TargetSize, sess.ExpiresAt.Unix())
		if sess.Status == models.SessionStatusFull {
			line += " (full)"
		}
		description.WriteString(line)
		description.WriteString("\n")
	}

	return RespondWithEmbed(s, i, "Open parties", description.String(), nil)
}

// respondPartyError maps service errors onto user-facing responses
func (c *LFGCommand) respondPartyError(s *discordgo.Session, i *discordgo.InteractionCreate, err error) error {
	switch {
	case errors.Is(err, party.ErrAlreadyActive):
		return RespondWithError(s, i, "You're already in a party. Leave it first with `/lfg leave`.")
	case errors.Is(err, party.ErrSessionNotFound):
		return RespondWithError(s, i, "That party no longer exists.")
	case errors.Is(err, party.ErrSessionFull):
		return RespondWithError(s, i, "That party just filled up. Try `/lfg quickjoin` for another one.")
	case errors.Is(err, party.ErrNotAMember):
		return RespondWithError(s, i, "You're not in that party.")
	case errors.Is(err, party.ErrInvalidMode):
		return RespondWithError(s, i, "That mode doesn't exist for this activity.")
	case errors.Is(err, party.ErrInvalidTargetSize):
		return RespondWithError(s, i, "Party size must be between 2 and 10.")
	case errors.Is(err, party.ErrPermissionDenied):
		return RespondWithError(s, i, fmt.Sprintf(
			"I'm missing permissions to set up voice channels: %v. Ask an admin to grant them.", err))
	case errors.Is(err, party.ErrNoAvailableSession):
		return RespondWithError(s, i, "No open party matches that. Start one with `/lfg create`.")
	case errors.Is(err, party.ErrTooManyParties):
		return RespondWithError(s, i, "Too many parties are open right now. Try again in a few minutes.")
	default:
		log.Printf("Unexpected party service error: %v", err)
		return RespondWithError(s, i, "Something went wrong. Try again.")
	}
}
