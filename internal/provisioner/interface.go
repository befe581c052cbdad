package provisioner

//go:generate mockgen -package=mocks -destination=mocks/mock_backend.go github.com/squadup/squadup/internal/provisioner Backend

import (
	"context"
)

// Backend executes voice channel provisioning against the platform. The
// decision of when to provision or reclaim stays in the party service; the
// backend only carries out the requested operation.
type Backend interface {
	// CheckCapability verifies the bot can manage channels in the guild.
	// Returns a *CapabilityError naming the missing permissions.
	CheckCapability(ctx context.Context, input *CheckCapabilityInput) error

	// EnsureGrouping finds or creates the per-activity category
	EnsureGrouping(ctx context.Context, input *EnsureGroupingInput) (*EnsureGroupingOutput, error)

	// CreateScopedResource creates a voice channel only the given members
	// can see and join
	CreateScopedResource(ctx context.Context, input *CreateScopedResourceInput) (*CreateScopedResourceOutput, error)

	// DeleteResource deletes a provisioned voice channel
	DeleteResource(ctx context.Context, input *DeleteResourceInput) error

	// DeleteGroupingIfEmpty deletes the category if no channels remain in it
	DeleteGroupingIfEmpty(ctx context.Context, input *DeleteGroupingIfEmptyInput) error

	// CurrentOccupantCount returns how many users sit in the voice channel
	CurrentOccupantCount(ctx context.Context, input *CurrentOccupantCountInput) (int, error)
}
