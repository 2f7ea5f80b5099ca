package models

// Status is the moderation state shared by tickets and registrations.
// Both start at pending and move to approved or rejected by an explicit
// privileged action, never by their creator.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	return s == StatusPending || s == StatusApproved || s == StatusRejected
}
