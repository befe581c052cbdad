package discord

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/squadup/squadup/internal/services/party"
)

// Bot represents the Discord bot instance
type Bot struct {
	session      *discordgo.Session
	commands     map[string]CommandHandler
	commandIDs   map[string]string // Maps command name to command ID
	partyService party.Service
	config       *Config
	stopSweep    chan struct{}
}

// Config holds the configuration for the bot
type Config struct {
	// Discord session, created but not yet opened
	Session *discordgo.Session

	// Application ID for the bot
	ApplicationID string

	// Optional guild ID for development (server-specific commands)
	GuildID string

	// Party service
	PartyService party.Service

	// SweepInterval is how often the maintenance sweep runs
	SweepInterval time.Duration
}

// New creates a new Discord bot
func New(cfg *Config) (*Bot, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}

	if cfg.Session == nil {
		return nil, errors.New("discord session cannot be nil")
	}

	if cfg.PartyService == nil {
		return nil, errors.New("party service cannot be nil")
	}

	if cfg.SweepInterval <= 0 {
		cfg.SweepInterval = time.Minute
	}

	bot := &Bot{
		session:      cfg.Session,
		commands:     make(map[string]CommandHandler),
		commandIDs:   make(map[string]string),
		partyService: cfg.PartyService,
		config:       cfg,
		stopSweep:    make(chan struct{}),
	}

	// Register the interaction and voice handlers
	cfg.Session.AddHandler(bot.handleInteraction)
	cfg.Session.AddHandler(bot.handleVoiceStateUpdate)

	// Voice state tracking needs the guild voice intents on top of the
	// defaults
	cfg.Session.Identify.Intents |= discordgo.IntentsGuildVoiceStates | discordgo.IntentsGuilds

	return bot, nil
}

// Start opens the Discord connection, restores stored sessions, then
// registers commands and starts the maintenance sweep
func (b *Bot) Start() error {
	if err := b.session.Open(); err != nil {
		return fmt.Errorf("failed to open Discord connection: %w", err)
	}

	// Restore before exposing any way to act: a command or sweep running
	// against a half-restored registry could treat a surviving session's
	// creator as free, or end a session whose timer was not yet armed
	if err := b.partyService.Reconcile(context.Background()); err != nil {
		return fmt.Errorf("failed to reconcile stored sessions: %w", err)
	}

	lfgCmd := NewLFGCommand(b.partyService)
	if err := b.RegisterCommand(lfgCmd); err != nil {
		return fmt.Errorf("failed to register lfg command: %w", err)
	}

	go b.sweepLoop()

	log.Println("Bot is now running. Press CTRL-C to exit.")
	return nil
}

// Stop gracefully shuts down the Discord connection
func (b *Bot) Stop() error {
	close(b.stopSweep)
	b.partyService.Stop()

	// Remove all commands
	appID := b.config.ApplicationID
	if appID == "" {
		appID = b.session.State.User.ID
	}

	guildID := ""
	if b.config.GuildID != "" {
		guildID = b.config.GuildID
	}

	for cmdName, cmdID := range b.commandIDs {
		if err := b.session.ApplicationCommandDelete(appID, guildID, cmdID); err != nil {
			log.Printf("Failed to delete command %s (ID: %s): %v", cmdName, cmdID, err)
		}
	}

	return b.session.Close()
}

// RegisterCommand registers a command with Discord
func (b *Bot) RegisterCommand(cmd CommandHandler) error {
	appID := b.config.ApplicationID
	if appID == "" {
		// Fall back to session user ID if application ID is not provided
		appID = b.session.State.User.ID
	}

	// If guild ID is provided, register command for that specific guild
	// Otherwise, register it globally
	guildID := ""
	if b.config.GuildID != "" {
		guildID = b.config.GuildID
		log.Printf("Registering command %s for guild %s", cmd.GetName(), guildID)
	} else {
		log.Printf("Registering command %s globally", cmd.GetName())
	}

	createdCmd, err := b.session.ApplicationCommandCreate(appID, guildID, cmd.GetCommand())
	if err != nil {
		return fmt.Errorf("failed to create command %s: %w", cmd.GetName(), err)
	}

	b.commands[cmd.GetName()] = cmd
	b.commandIDs[cmd.GetName()] = createdCmd.ID
	log.Printf("Registered command: %s with ID: %s", cmd.GetName(), createdCmd.ID)

	return nil
}

// sweepLoop drives the periodic maintenance sweep
func (b *Bot) sweepLoop() {
	ticker := time.NewTicker(b.config.SweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			b.partyService.Tick(context.Background())
		case <-b.stopSweep:
			return
		}
	}
}

// handleInteraction handles Discord interactions
func (b *Bot) handleInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		// Handle slash commands
		if h, ok := b.commands[i.ApplicationCommandData().Name]; ok {
			if err := h.Handle(s, i); err != nil {
				log.Printf("Error handling command %s: %v", i.ApplicationCommandData().Name, err)
			}
		}
	case discordgo.InteractionMessageComponent:
		// Handle buttons on status messages
		if err := b.handleComponentInteraction(s, i); err != nil {
			log.Printf("Error handling component interaction: %v", err)
		}
	}
}

// handleComponentInteraction routes button clicks to the lfg command
func (b *Bot) handleComponentInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	customID := i.MessageComponentData().CustomID

	cmd, ok := b.commands[LFGCommandName]
	if !ok {
		return nil
	}

	lfgCmd, ok := cmd.(*LFGCommand)
	if !ok {
		return nil
	}

	return lfgCmd.HandleComponent(s, i, customID)
}
