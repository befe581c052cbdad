package provisioner

import (
	"fmt"
	"strings"

	"github.com/squadup/squadup/internal/models"
)

// CapabilityError reports which guild permissions the bot is missing
type CapabilityError struct {
	Missing []string
}

// Error implements the error interface
func (e *CapabilityError) Error() string {
	return fmt.Sprintf("missing permissions: %s", strings.Join(e.Missing, ", "))
}

type CheckCapabilityInput struct {
	GuildID string
}

type EnsureGroupingInput struct {
	GuildID  string
	Activity models.Activity
}

type EnsureGroupingOutput struct {
	GroupingID string
}

type CreateScopedResourceInput struct {
	GuildID    string
	GroupingID string

	// Name is the channel name shown in Discord
	Name string

	// MemberIDs are the only users allowed to see and join the channel
	MemberIDs []string
}

type CreateScopedResourceOutput struct {
	ResourceID string
}

type DeleteResourceInput struct {
	ResourceID string
}

type DeleteGroupingIfEmptyInput struct {
	GuildID    string
	GroupingID string
}

type CurrentOccupantCountInput struct {
	GuildID    string
	ResourceID string
}
