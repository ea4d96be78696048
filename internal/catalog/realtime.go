package catalog

import (
	"ziorum/internal/moderation"
	"ziorum/internal/store"
)

// Venue change operations as reported by the database trigger.
const (
	ChangeInsert = "INSERT"
	ChangeUpdate = "UPDATE"
	ChangeDelete = "DELETE"
)

// ApplyVenueChange merges one live venue notification into the cloud
// snapshot. Approved rows upsert (matched in either id space); an update
// away from approved retracts the venue from public view without a
// delete; deletes remove by either id. venue is nil for deletes.
func (s *Service) ApplyVenueChange(op, id string, venue *store.Venue) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch op {
	case ChangeInsert, ChangeUpdate:
		if venue == nil {
			return
		}
		if venue.Status != moderation.VenueApproved {
			s.cloudVenues = dropVenue(s.cloudVenues, id)
			return
		}
		for i := range s.cloudVenues {
			if matchesVenue(&s.cloudVenues[i], venue.ID) ||
				(venue.RemoteID != "" && matchesVenue(&s.cloudVenues[i], venue.RemoteID)) {
				s.cloudVenues[i] = *venue
				return
			}
		}
		s.cloudVenues = append(s.cloudVenues, *venue)
		// An approved row supersedes any cloud-pending placeholder.
		s.localVenues = dropVenue(s.localVenues, venue.ID)

	case ChangeDelete:
		s.cloudVenues = dropVenue(s.cloudVenues, id)
		s.localVenues = dropVenue(s.localVenues, id)
	}
}
