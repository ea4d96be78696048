package catalog

import (
	"context"
	"fmt"

	"ziorum/internal/moderation"
	"ziorum/internal/store"
)

// ApproveVenue moves a pending venue to approved, optionally patching its
// coordinates. In remote mode the approved snapshot is reloaded wholesale
// afterwards instead of merged incrementally, so the public list can
// never drift from the database.
func (s *Service) ApproveVenue(ctx context.Context, id string, lat, lon *float64) error {
	return s.transitionVenue(ctx, id, moderation.VenueApproved, lat, lon)
}

// RejectVenue hides a venue from public view without deleting the row.
func (s *Service) RejectVenue(ctx context.Context, id string) error {
	return s.transitionVenue(ctx, id, moderation.VenueRejected, nil, nil)
}

func (s *Service) transitionVenue(ctx context.Context, id string, next moderation.VenueStatus, lat, lon *float64) error {
	current, err := s.currentVenueStatus(ctx, id)
	if err != nil {
		return err
	}
	if !current.CanTransition(next) {
		return fmt.Errorf("%w: venue %s -> %s", moderation.ErrInvalidTransition, current, next)
	}

	if s.store != nil {
		if err := s.store.Venues.SetStatus(ctx, id, next, lat, lon); err != nil {
			return err
		}
		if next == moderation.VenueApproved {
			return s.reloadApprovedVenues(ctx, id)
		}

		s.mu.Lock()
		defer s.mu.Unlock()
		if v := s.findVenueLocked(id); v != nil {
			v.Status = next
		}
		s.cloudVenues = dropVenue(s.cloudVenues, id)
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	v := s.findVenueLocked(id)
	if v == nil {
		return ErrNotFound
	}
	v.Status = next
	if lat != nil {
		v.Latitude = lat
	}
	if lon != nil {
		v.Longitude = lon
	}
	return nil
}

func (s *Service) currentVenueStatus(ctx context.Context, id string) (moderation.VenueStatus, error) {
	s.mu.RLock()
	if v := s.findVenueLocked(id); v != nil {
		status := v.Status
		s.mu.RUnlock()
		return status, nil
	}
	s.mu.RUnlock()

	if s.store == nil {
		return "", ErrNotFound
	}
	v, err := s.store.Venues.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	return v.Status, nil
}

func (s *Service) reloadApprovedVenues(ctx context.Context, approvedID string) error {
	venues, err := s.store.Venues.ListByStatus(ctx, moderation.VenueApproved)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.cloudVenues = venues
	// The cloud-pending placeholder for the approved venue is superseded
	// by its row in the fresh snapshot.
	s.localVenues = dropVenue(s.localVenues, approvedID)
	return nil
}

func dropVenue(list []store.Venue, id string) []store.Venue {
	kept := list[:0]
	for _, v := range list {
		if !matchesVenue(&v, id) {
			kept = append(kept, v)
		}
	}
	return kept
}

// SetBartenderStatus applies an admin transition (approve, feature,
// unfeature) with transition validation; unlike venue approval this is a
// single-record patch, no snapshot reload.
func (s *Service) SetBartenderStatus(ctx context.Context, id string, next moderation.ProfileStatus) error {
	if !next.Valid() {
		return fmt.Errorf("%w: unknown status %q", moderation.ErrInvalidTransition, next)
	}

	s.mu.RLock()
	var current *moderation.ProfileStatus
	for i := range s.bartenders {
		if s.bartenders[i].ID == id {
			st := s.bartenders[i].Status
			current = &st
			break
		}
	}
	s.mu.RUnlock()
	if current == nil {
		return ErrNotFound
	}
	if !current.CanTransition(next) {
		return fmt.Errorf("%w: bartender %s -> %s", moderation.ErrInvalidTransition, *current, next)
	}

	if s.store != nil {
		if err := s.store.Bartenders.SetStatus(ctx, id, next); err != nil {
			return err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.bartenders {
		if s.bartenders[i].ID == id {
			s.bartenders[i].Status = next
			return nil
		}
	}
	return ErrNotFound
}

// SetOwnerMessageApproved patches one message's approved flag.
func (s *Service) SetOwnerMessageApproved(ctx context.Context, id string, approved bool) error {
	if s.store != nil {
		if err := s.store.OwnerMessages.SetApproved(ctx, id, approved); err != nil {
			return err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.ownerMessages {
		if s.ownerMessages[i].ID == id {
			s.ownerMessages[i].Approved = approved
			return nil
		}
	}
	return ErrNotFound
}

// SetCommunityEventApproved patches one event's approved flag.
func (s *Service) SetCommunityEventApproved(ctx context.Context, id string, approved bool) error {
	if s.store != nil {
		if err := s.store.CommunityEvents.SetApproved(ctx, id, approved); err != nil {
			return err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.events {
		if s.events[i].ID == id {
			s.events[i].Approved = approved
			return nil
		}
	}
	return ErrNotFound
}

// SetCommunityPostApproved patches one post's approved flag.
func (s *Service) SetCommunityPostApproved(ctx context.Context, id string, approved bool) error {
	if s.store != nil {
		if err := s.store.CommunityPosts.SetApproved(ctx, id, approved); err != nil {
			return err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.posts {
		if s.posts[i].ID == id {
			s.posts[i].Approved = approved
			return nil
		}
	}
	return ErrNotFound
}
