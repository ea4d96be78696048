package catalog

import (
	"math"
	"sort"

	"ziorum/internal/moderation"
	"ziorum/internal/store"
)

// Venues returns the public venue list: local venues that are neither
// awaiting cloud moderation nor explicitly unverified, plus the approved
// cloud snapshot, each enriched with its derived rating fields.
func (s *Service) Venues() []store.Venue {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]store.Venue, 0, len(s.localVenues)+len(s.cloudVenues))
	for i := range s.localVenues {
		v := s.localVenues[i]
		if v.CloudPending {
			continue
		}
		if !v.Verified && v.Status != moderation.VenueApproved {
			continue
		}
		s.enrichLocked(&v)
		out = append(out, v)
	}
	for i := range s.cloudVenues {
		v := s.cloudVenues[i]
		s.enrichLocked(&v)
		out = append(out, v)
	}
	return out
}

// VenueByID looks up a venue in both the local and cloud collections,
// matching any of its id spaces.
func (s *Service) VenueByID(id string) (*store.Venue, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v := s.findVenueLocked(id)
	if v == nil {
		return nil, ErrNotFound
	}
	out := *v
	s.enrichLocked(&out)
	return &out, nil
}

func (s *Service) findVenueLocked(id string) *store.Venue {
	for i := range s.localVenues {
		if matchesVenue(&s.localVenues[i], id) {
			return &s.localVenues[i]
		}
	}
	for i := range s.cloudVenues {
		if matchesVenue(&s.cloudVenues[i], id) {
			return &s.cloudVenues[i]
		}
	}
	return nil
}

// ReviewsByVenue returns the venue's reviews, newest first.
func (s *Service) ReviewsByVenue(venueID string) []store.Review {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v := s.findVenueLocked(venueID)

	var out []store.Review
	for i := range s.reviews {
		r := s.reviews[i]
		matched := r.VenueID == venueID
		if !matched && v != nil {
			matched = reviewBelongsTo(&r, v)
		}
		if matched {
			r.Recompute()
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

// Reviews returns every review in memory, newest first.
func (s *Service) Reviews() []store.Review {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := cloneReviews(s.reviews)
	for i := range out {
		out[i].Recompute()
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

// Bartenders lists profiles, optionally filtered by status, newest first.
func (s *Service) Bartenders(status *moderation.ProfileStatus) []store.Bartender {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []store.Bartender
	for _, b := range s.bartenders {
		if status != nil && b.Status != *status {
			continue
		}
		out = append(out, b)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

func (s *Service) Articles() []store.Article {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := append([]store.Article(nil), s.articles...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

func (s *Service) Drinks() []store.Drink {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := append([]store.Drink(nil), s.drinks...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

// OwnerMessages lists messages newest first.
func (s *Service) OwnerMessages(approvedOnly bool) []store.OwnerMessage {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []store.OwnerMessage
	for _, m := range s.ownerMessages {
		if approvedOnly && !m.Approved {
			continue
		}
		out = append(out, m)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

// CommunityEvents lists events soonest first.
func (s *Service) CommunityEvents(approvedOnly bool) []store.CommunityEvent {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []store.CommunityEvent
	for _, e := range s.events {
		if approvedOnly && !e.Approved {
			continue
		}
		out = append(out, e)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].EventDate.Before(out[j].EventDate)
	})
	return out
}

// CommunityPosts lists posts newest first.
func (s *Service) CommunityPosts(approvedOnly bool) []store.CommunityPost {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []store.CommunityPost
	for _, p := range s.posts {
		if approvedOnly && !p.Approved {
			continue
		}
		out = append(out, p)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

// enrichLocked recomputes the venue's derived rating fields from its
// approved reviews. Aggregates are never stored, so they cannot drift
// from the underlying review set.
func (s *Service) enrichLocked(v *store.Venue) {
	v.ReviewCount = 0
	v.Overall, v.DrinkAvg, v.StaffAvg, v.AtmoAvg, v.ValueAvg = nil, nil, nil, nil, nil

	var overallSum float64
	var overallN int
	var drinkSum, drinkN, staffSum, staffN, atmoSum, atmoN, valueSum, valueN int

	// Callers hold only the read lock, so recompute on a copy rather
	// than writing Overall back into the shared slice.
	for i := range s.reviews {
		r := s.reviews[i]
		if r.Status != "approved" || !reviewBelongsTo(&r, v) {
			continue
		}
		v.ReviewCount++

		r.Recompute()
		if r.Overall != nil {
			overallSum += *r.Overall
			overallN++
		}
		if r.DrinkQuality > 0 {
			drinkSum += r.DrinkQuality
			drinkN++
		}
		if r.StaffCompetence > 0 {
			staffSum += r.StaffCompetence
			staffN++
		}
		if r.Atmosphere > 0 {
			atmoSum += r.Atmosphere
			atmoN++
		}
		if r.Value > 0 {
			valueSum += r.Value
			valueN++
		}
	}

	if overallN > 0 {
		v.Overall = round1(overallSum / float64(overallN))
	}
	v.DrinkAvg = avg1(drinkSum, drinkN)
	v.StaffAvg = avg1(staffSum, staffN)
	v.AtmoAvg = avg1(atmoSum, atmoN)
	v.ValueAvg = avg1(valueSum, valueN)
}

func round1(f float64) *float64 {
	r := math.Round(f*10) / 10
	return &r
}

func avg1(sum, n int) *float64 {
	if n == 0 {
		return nil
	}
	return round1(float64(sum) / float64(n))
}
