package catalog

import (
	"context"

	"ziorum/internal/ident"
	"ziorum/internal/moderation"
	"ziorum/internal/store"
)

// SyncOutcome records what happened to one venue during a batch sync.
// The batch is deliberately not transactional: each venue syncs on its
// own, and a failed item leaves the rest of the batch unaffected.
type SyncOutcome struct {
	LocalID       string `json:"local_id"`
	RemoteID      string `json:"remote_id,omitempty"`
	Synced        bool   `json:"synced"`
	ReviewsRekeyd int64  `json:"reviews_rekeyed"`
	Error         string `json:"error,omitempty"`
}

// LocalVenuesToSync returns the venues that were created in this process
// and never pushed to the database. Selection is by origin tag, not by
// inspecting the shape of the id.
func (s *Service) LocalVenuesToSync() []store.Venue {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []store.Venue
	for _, v := range s.localVenues {
		if v.Origin == ident.OriginLocal && !v.CloudPending {
			out = append(out, v)
		}
	}
	return out
}

// SyncLocalVenues pushes every unsynced local venue to the database as
// pending, re-keying the venue and all reviews that reference it onto
// the new remote id. Items are processed one at a time with a recorded
// outcome each; re-running after a partial failure picks up the venues
// that are still tagged local.
func (s *Service) SyncLocalVenues(ctx context.Context) ([]SyncOutcome, error) {
	if s.store == nil {
		return nil, ErrRemoteNotConfigured
	}

	candidates := s.LocalVenuesToSync()
	outcomes := make([]SyncOutcome, 0, len(candidates))

	for _, v := range candidates {
		outcome := SyncOutcome{LocalID: v.ID}

		insert := v
		insert.ExternalID = nil
		insert.Status = moderation.VenuePending
		insert.RemoteID = ""

		if err := s.store.Venues.Create(ctx, &insert); err != nil {
			outcome.Error = err.Error()
			outcomes = append(outcomes, outcome)
			s.logger.Errorw("venue sync failed", "local_id", v.ID, "error", err)
			continue
		}

		insert.CloudPending = true
		outcome.RemoteID = insert.ID
		outcome.Synced = true

		// Reviews that reached the database under the local id (backup
		// imports) are re-pointed there too, not just in memory.
		if n, err := s.store.Reviews.RekeyVenue(ctx, v.ID, insert.ID); err != nil {
			s.logger.Errorw("review rekey failed", "local_id", v.ID, "remote_id", insert.ID, "error", err)
		} else {
			outcome.ReviewsRekeyd = n
		}

		var rekeyed int64
		s.mu.Lock()
		for i := range s.localVenues {
			if s.localVenues[i].ID == v.ID {
				s.localVenues[i] = insert
				break
			}
		}
		for i := range s.reviews {
			if s.reviews[i].VenueID == v.ID {
				s.reviews[i].VenueID = insert.ID
				rekeyed++
			}
		}
		s.mu.Unlock()

		// The in-memory set mirrors the database, so report whichever
		// side moved more rows.
		if rekeyed > outcome.ReviewsRekeyd {
			outcome.ReviewsRekeyd = rekeyed
		}

		outcomes = append(outcomes, outcome)
		s.logger.Infow("venue synced", "local_id", v.ID, "remote_id", insert.ID, "reviews", outcome.ReviewsRekeyd)
	}

	return outcomes, nil
}
