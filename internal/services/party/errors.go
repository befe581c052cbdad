package party

// PartyError is a custom error type for matchmaking errors
type PartyError string

// Error implements the error interface
func (e PartyError) Error() string {
	return string(e)
}

// Define errors
const (
	ErrAlreadyActive      PartyError = "you already have an active party; leave it first"
	ErrSessionNotFound    PartyError = "party not found"
	ErrNotAMember         PartyError = "you are not a member of this party"
	ErrSessionFull        PartyError = "party is already full"
	ErrInvalidMode        PartyError = "that mode is not available for this activity"
	ErrInvalidTargetSize  PartyError = "party size is out of range"
	ErrPermissionDenied   PartyError = "the bot is missing permissions to create the voice channel"
	ErrNoAvailableSession PartyError = "no open party matches your request; create one instead"
	ErrProvisionFailed    PartyError = "the voice channel could not be created"
	ErrTooManyParties     PartyError = "too many active parties right now; try again later"
	ErrNilConfig          PartyError = "config cannot be nil"
	ErrNilSessionRepo     PartyError = "session repository cannot be nil"
	ErrNilProvisioner     PartyError = "provisioner backend cannot be nil"
	ErrNilPresenter       PartyError = "presentation service cannot be nil"
)
