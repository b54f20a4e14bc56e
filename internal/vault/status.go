package vault

// Status is the verification state of one credential within one session.
// The zero value is Locked: a credential is never unlocked by default, not
// even immediately after creation.
type Status int

const (
	Locked Status = iota
	// PendingCode means a one-time code has been dispatched and a
	// submission is awaited.
	PendingCode
	// Unlocked means a code was accepted during this session. The state is
	// terminal until logout or restart wipes it; there is no re-lock.
	Unlocked
)

func (s Status) String() string {
	switch s {
	case PendingCode:
		return "pending_code"
	case Unlocked:
		return "unlocked"
	default:
		return "locked"
	}
}
