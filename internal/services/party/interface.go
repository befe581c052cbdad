package party

import "context"

// Service defines the interface for matchmaking operations
type Service interface {
	// CreateParty opens a new matchmaking session with the caller as creator
	CreateParty(ctx context.Context, input *CreatePartyInput) (*CreatePartyOutput, error)

	// JoinParty adds the caller to an existing party
	JoinParty(ctx context.Context, input *JoinPartyInput) (*JoinPartyOutput, error)

	// LeaveParty removes the caller from a party; a leaving creator ends it
	LeaveParty(ctx context.Context, input *LeavePartyInput) (*LeavePartyOutput, error)

	// QuickJoin joins the oldest open party matching the caller's filters
	QuickJoin(ctx context.Context, input *QuickJoinInput) (*QuickJoinOutput, error)

	// EndParty ends the party the caller created
	EndParty(ctx context.Context, input *EndPartyInput) (*EndPartyOutput, error)

	// ListParties returns the active parties in a guild, oldest first
	ListParties(ctx context.Context, input *ListPartiesInput) (*ListPartiesOutput, error)

	// Tick runs one maintenance sweep: expires stale parties and reclaims
	// voice channels that have sat empty past the idle threshold
	Tick(ctx context.Context)

	// NotifyChannelOccupancy feeds voice channel occupancy changes into the
	// idle-channel watch
	NotifyChannelOccupancy(channelID string, occupants int)

	// Reconcile rebuilds in-memory state from the durable store after a
	// process restart
	Reconcile(ctx context.Context) error

	// Stop cancels all outstanding expiry timers
	Stop()
}
