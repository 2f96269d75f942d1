package types

import "time"

// AccessRequest is one badge swipe at a reader. Timestamp is the instant
// of the swipe; the decision engine never reads a wall clock.
type AccessRequest struct {
	BadgeCode  string    `json:"badge_code"`
	ReaderID   string    `json:"reader_id"`
	ResourceID string    `json:"resource_id,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
	DoorClosed *bool     `json:"door_closed,omitempty"`
}

// Reason codes carried in AccessResponse.Code.
const (
	CodeGranted                 = "granted"
	CodeResourceUncontrolled    = "resource_uncontrolled"
	CodeUserNotFound            = "user_not_found"
	CodeResourceNotFound        = "resource_not_found"
	CodeNoProfiles              = "no_profiles"
	CodeResourceUngrouped       = "resource_ungrouped"
	CodeProfileMissing          = "profile_missing"
	CodeGroupNotCovered         = "group_not_covered"
	CodeTimeFilterRejected      = "time_filter_rejected"
	CodeInsufficientPermissions = "insufficient_permissions"
	CodeUnknownReader           = "unknown_reader"
)

// AccessResponse is the decision for one AccessRequest. Message is the
// human-readable reason shown to operators; Code is its stable,
// machine-readable counterpart.
type AccessResponse struct {
	ReaderID string `json:"reader_id"`
	Granted  bool   `json:"granted"`
	Message  string `json:"message"`
	Code     string `json:"code"`
	Profile  string `json:"profile,omitempty"` // profile that granted, if any
}
