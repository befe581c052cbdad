package discord

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/squadup/squadup/internal/models"
	"github.com/squadup/squadup/internal/presentation"
)

// Embed colors
const (
	embedColorActive = 0x57f287 // green
	embedColorFull   = 0x5865f2 // blurple
	embedColorError  = 0xed4245 // red
	embedColorEnded  = 0x99aab5 // grey
)

// Button custom ID prefixes; the session ID rides along after the colon
const (
	buttonJoinPrefix  = "lfg_join"
	buttonLeavePrefix = "lfg_leave"
)

// Presenter renders session status messages into Discord. It implements the
// presentation service consumed by the party service.
type Presenter struct {
	session *discordgo.Session
}

// NewPresenter creates a new Discord presenter
func NewPresenter(session *discordgo.Session) (*Presenter, error) {
	if session == nil {
		return nil, errors.New("discord session cannot be nil")
	}

	return &Presenter{session: session}, nil
}

// PostOrUpdateStatus posts the session status message, or edits the existing
// one, and returns its ID
func (p *Presenter) PostOrUpdateStatus(ctx context.Context, input *presentation.PostOrUpdateStatusInput) (*presentation.PostOrUpdateStatusOutput, error) {
	if input == nil || input.Session == nil {
		return nil, errors.New("input and session cannot be nil")
	}

	sess := input.Session
	embed := sessionEmbed(sess)
	components := sessionButtons(sess)

	if sess.MessageID == "" {
		msg, err := p.session.ChannelMessageSendComplex(sess.ChannelID, &discordgo.MessageSend{
			Embeds:     []*discordgo.MessageEmbed{embed},
			Components: components,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to post status message: %w", err)
		}

		return &presentation.PostOrUpdateStatusOutput{MessageID: msg.ID}, nil
	}

	embeds := []*discordgo.MessageEmbed{embed}
	_, err := p.session.ChannelMessageEditComplex(&discordgo.MessageEdit{
		ID:         sess.MessageID,
		Channel:    sess.ChannelID,
		Embeds:     &embeds,
		Components: &components,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to edit status message: %w", err)
	}

	return &presentation.PostOrUpdateStatusOutput{MessageID: sess.MessageID}, nil
}

// MarkEnded rewrites the status message as ended and strips its buttons
func (p *Presenter) MarkEnded(ctx context.Context, input *presentation.MarkEndedInput) error {
	if input == nil || input.Session == nil {
		return errors.New("input and session cannot be nil")
	}

	sess := input.Session
	if sess.MessageID == "" {
		return nil
	}

	embed := &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("%s party over", titleCase(string(sess.Activity))),
		Description: fmt.Sprintf("Party %s.", input.Reason),
		Color:       embedColorEnded,
	}

	embeds := []*discordgo.MessageEmbed{embed}
	components := []discordgo.MessageComponent{}
	_, err := p.session.ChannelMessageEditComplex(&discordgo.MessageEdit{
		ID:         sess.MessageID,
		Channel:    sess.ChannelID,
		Embeds:     &embeds,
		Components: &components,
	})
	if err != nil {
		return fmt.Errorf("failed to mark status message ended: %w", err)
	}

	return nil
}

// sessionEmbed builds the status embed for a session
func sessionEmbed(sess *models.Session) *discordgo.MessageEmbed {
	color := embedColorActive
	statusLine := fmt.Sprintf("Looking for %d more", sess.TargetSize-len(sess.Roster))

	switch sess.Status {
	case models.SessionStatusFull:
		color = embedColorFull
		statusLine = "Party full, voice channel is up"
		if sess.VoiceChannelID == "" {
			statusLine = "Party full"
		}
	case models.SessionStatusResourceFailed:
		color = embedColorError
		statusLine = "Party full, but the voice channel could not be created"
	}

	fields := []*discordgo.MessageEmbedField{
		{
			Name:   "Players",
			Value:  fmt.Sprintf("%d / %d", len(sess.Roster), sess.TargetSize),
			Inline: true,
		},
		{
			Name:   "Mode",
			Value:  string(sess.Mode),
			Inline: true,
		},
		{
			Name:   "Expires",
			Value:  fmt.Sprintf("<t:%d:R>", sess.ExpiresAt.Unix()),
			Inline: true,
		},
		{
			Name:  "Roster",
			Value: rosterLines(sess),
		},
	}

	if sess.VoiceChannelID != "" {
		fields = append(fields, &discordgo.MessageEmbedField{
			Name:  "Voice",
			Value: fmt.Sprintf("<#%s>", sess.VoiceChannelID),
		})
	}

	description := statusLine
	if sess.Note != "" {
		description = fmt.Sprintf("%s\n\n> %s", statusLine, sess.Note)
	}

	return &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("%s LFG: %s", titleCase(string(sess.Activity)), sess.Mode),
		Description: description,
		Color:       color,
		Fields:      fields,
	}
}

// sessionButtons builds the join/leave buttons; none once the party is full
func sessionButtons(sess *models.Session) []discordgo.MessageComponent {
	var buttons []discordgo.MessageComponent

	if sess.Status == models.SessionStatusWaiting {
		buttons = append(buttons, discordgo.Button{
			Label:    "Join",
			Style:    discordgo.SuccessButton,
			CustomID: fmt.Sprintf("%s:%s", buttonJoinPrefix, sess.ID),
			Emoji: &discordgo.ComponentEmoji{
				Name: "🎮",
			},
		})
	}

	buttons = append(buttons, discordgo.Button{
		Label:    "Leave",
		Style:    discordgo.SecondaryButton,
		CustomID: fmt.Sprintf("%s:%s", buttonLeavePrefix, sess.ID),
	})

	return []discordgo.MessageComponent{
		discordgo.ActionsRow{
			Components: buttons,
		},
	}
}

// rosterLines renders the roster in join order, creator first
func rosterLines(sess *models.Session) string {
	if len(sess.Roster) == 0 {
		return "nobody yet"
	}

	lines := make([]string, 0, len(sess.Roster))
	for i, p := range sess.Roster {
		marker := ""
		if p.ID == sess.CreatorID {
			marker = " 👑"
		}
		lines = append(lines, fmt.Sprintf("%d. <@%s>%s", i+1, p.ID, marker))
	}

	return strings.Join(lines, "\n")
}

// titleCase uppercases the first letter of a word
func titleCase(word string) string {
	if word == "" {
		return word
	}

	return strings.ToUpper(word[:1]) + word[1:]
}
