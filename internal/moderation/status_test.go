package moderation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVenueTransitions(t *testing.T) {
	tests := []struct {
		from, to VenueStatus
		ok       bool
	}{
		{VenuePending, VenueApproved, true},
		{VenuePending, VenueRejected, true},
		{VenueApproved, VenueRejected, false},
		{VenueApproved, VenuePending, false},
		{VenueRejected, VenueApproved, false},
		{VenueRejected, VenuePending, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.ok, tt.from.CanTransition(tt.to), "%s -> %s", tt.from, tt.to)
	}
}

func TestProfileTransitions(t *testing.T) {
	tests := []struct {
		from, to ProfileStatus
		ok       bool
	}{
		{ProfilePending, ProfileApproved, true},
		{ProfilePending, ProfileFeatured, false},
		{ProfileApproved, ProfileFeatured, true},
		{ProfileFeatured, ProfileApproved, true},
		{ProfileFeatured, ProfilePending, false},
		{ProfileApproved, ProfilePending, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.ok, tt.from.CanTransition(tt.to), "%s -> %s", tt.from, tt.to)
	}
}

func TestInitialApproved(t *testing.T) {
	assert.True(t, InitialApproved(RoleAdmin))
	assert.False(t, InitialApproved(RoleUser))
	assert.False(t, InitialApproved(RoleBartender))
	assert.False(t, InitialApproved(""))

	assert.Equal(t, ProfileApproved, InitialProfileStatus(RoleAdmin))
	assert.Equal(t, ProfilePending, InitialProfileStatus(RoleUser))
}
