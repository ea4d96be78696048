package moderation

import "errors"

var ErrInvalidTransition = errors.New("invalid moderation transition")

// VenueStatus is the venue lifecycle: pending → approved | rejected.
// Rejection keeps the row but hides it from public reads; deletion is a
// separate operation allowed from any state.
type VenueStatus string

const (
	VenuePending  VenueStatus = "pending"
	VenueApproved VenueStatus = "approved"
	VenueRejected VenueStatus = "rejected"
)

func (s VenueStatus) Valid() bool {
	switch s {
	case VenuePending, VenueApproved, VenueRejected:
		return true
	}
	return false
}

// CanTransition reports whether an admin may move a venue from s to next.
// pending is the only state with outgoing edges; approved and rejected are
// terminal (re-submission creates a new row).
func (s VenueStatus) CanTransition(next VenueStatus) bool {
	if s == VenuePending {
		return next == VenueApproved || next == VenueRejected
	}
	return false
}

// ProfileStatus is the bartender lifecycle. It is the approved-flag model
// plus a featured tier: pending → approved ⇄ featured. Rejection of a
// pending profile is modeled as deletion, so there is no rejected state.
type ProfileStatus string

const (
	ProfilePending  ProfileStatus = "pending"
	ProfileApproved ProfileStatus = "approved"
	ProfileFeatured ProfileStatus = "featured"
)

func (s ProfileStatus) Valid() bool {
	switch s {
	case ProfilePending, ProfileApproved, ProfileFeatured:
		return true
	}
	return false
}

func (s ProfileStatus) CanTransition(next ProfileStatus) bool {
	switch s {
	case ProfilePending:
		return next == ProfileApproved
	case ProfileApproved:
		return next == ProfileFeatured
	case ProfileFeatured:
		return next == ProfileApproved
	}
	return false
}

// InitialApproved implements the creation rule shared by all community
// content: records authored by an admin publish immediately, everything
// else waits for moderation.
func InitialApproved(creatorRole string) bool {
	return creatorRole == RoleAdmin
}

// InitialProfileStatus is the same rule for bartender profiles.
func InitialProfileStatus(creatorRole string) ProfileStatus {
	if creatorRole == RoleAdmin {
		return ProfileApproved
	}
	return ProfilePending
}

// User roles. The admin check always runs server-side against the users
// table; a client-supplied role is never trusted.
const (
	RoleUser      = "user"
	RoleBartender = "bartender"
	RoleAdmin     = "admin"
)
