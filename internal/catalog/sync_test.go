package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ziorum/internal/ident"
	"ziorum/internal/moderation"
	"ziorum/internal/seed"
	"ziorum/internal/store"
)

// fakeVenues satisfies the venues repository with uuid-assigning inserts,
// failing for venue names listed in failNames.
type fakeVenues struct {
	created   []store.Venue
	failNames map[string]bool
}

func (f *fakeVenues) ListByStatus(context.Context, moderation.VenueStatus) ([]store.Venue, error) {
	return nil, nil
}

func (f *fakeVenues) GetByID(context.Context, string) (*store.Venue, error) {
	return nil, store.ErrNotFound
}

func (f *fakeVenues) Create(_ context.Context, v *store.Venue) error {
	if f.failNames[v.Name] {
		return errors.New("insert failed")
	}
	v.RemoteID = uuid.NewString()
	v.ID = v.RemoteID
	v.Origin = ident.OriginRemote
	f.created = append(f.created, *v)
	return nil
}

func (f *fakeVenues) Update(context.Context, string, map[string]any) error { return nil }

func (f *fakeVenues) SetStatus(context.Context, string, moderation.VenueStatus, *float64, *float64) error {
	return nil
}

func (f *fakeVenues) Delete(context.Context, string) error { return nil }

// fakeReviews records RekeyVenue calls; the other methods are no-ops.
type fakeReviews struct {
	rekeyed map[string]string
}

func (f *fakeReviews) ListApproved(context.Context) ([]store.Review, error) { return nil, nil }
func (f *fakeReviews) Create(context.Context, *store.Review) error          { return nil }
func (f *fakeReviews) Update(context.Context, *store.Review) error          { return nil }
func (f *fakeReviews) Delete(context.Context, string) error                 { return nil }
func (f *fakeReviews) DeleteByVenue(context.Context, string) error          { return nil }

func (f *fakeReviews) RekeyVenue(_ context.Context, oldVenueID, newVenueID string) (int64, error) {
	if f.rekeyed == nil {
		f.rekeyed = make(map[string]string)
	}
	f.rekeyed[oldVenueID] = newVenueID
	return 0, nil
}

func newSyncService(t *testing.T, fake *fakeVenues, reviews *fakeReviews) *Service {
	t.Helper()
	svc, err := New(Options{Seed: seed.Demo(), LocalSalt: "sync"})
	require.NoError(t, err)
	require.NoError(t, svc.Load(context.Background()))
	svc.store = &store.Storage{Venues: fake, Reviews: reviews}
	return svc
}

func TestSyncLocalVenuesRekeysReviews(t *testing.T) {
	fake := &fakeVenues{}
	reviews := &fakeReviews{}
	svc := newSyncService(t, fake, reviews)

	candidates := svc.LocalVenuesToSync()
	require.NotEmpty(t, candidates)
	oldID := candidates[0].ID
	oldReviews := len(svc.ReviewsByVenue(oldID))

	outcomes, err := svc.SyncLocalVenues(context.Background())
	require.NoError(t, err)
	require.Len(t, outcomes, len(candidates))

	var outcome *SyncOutcome
	for i := range outcomes {
		require.True(t, outcomes[i].Synced)
		if outcomes[i].LocalID == oldID {
			outcome = &outcomes[i]
		}
	}
	require.NotNil(t, outcome)
	assert.True(t, ident.IsRemoteShaped(outcome.RemoteID))
	assert.Equal(t, int64(oldReviews), outcome.ReviewsRekeyd)

	// The database-side rekey ran for every synced venue.
	assert.Equal(t, outcome.RemoteID, reviews.rekeyed[oldID])
	assert.Len(t, reviews.rekeyed, len(candidates))

	// The new id resolves, carries the cloud-pending flag, and every
	// review moved with it; the old id no longer resolves.
	v, err := svc.VenueByID(outcome.RemoteID)
	require.NoError(t, err)
	assert.True(t, v.CloudPending)
	assert.Len(t, svc.ReviewsByVenue(outcome.RemoteID), oldReviews)

	_, err = svc.VenueByID(oldID)
	assert.ErrorIs(t, err, ErrNotFound)
	for _, r := range svc.Reviews() {
		assert.NotEqual(t, oldID, r.VenueID)
	}

	// Nothing left to sync; re-running is a no-op.
	assert.Empty(t, svc.LocalVenuesToSync())
	outcomes, err = svc.SyncLocalVenues(context.Background())
	require.NoError(t, err)
	assert.Empty(t, outcomes)
}

func TestSyncLocalVenuesPartialFailure(t *testing.T) {
	fake := &fakeVenues{failNames: map[string]bool{"Tiki Room Roma": true}}
	svc := newSyncService(t, fake, &fakeReviews{})

	before := len(svc.LocalVenuesToSync())
	outcomes, err := svc.SyncLocalVenues(context.Background())
	require.NoError(t, err)
	require.Len(t, outcomes, before)

	var failed, synced int
	for _, o := range outcomes {
		if o.Synced {
			synced++
		} else {
			failed++
			assert.NotEmpty(t, o.Error)
		}
	}
	assert.Equal(t, 1, failed)
	assert.Equal(t, before-1, synced)

	// The failed venue is still tagged local, so a later run retries it.
	remaining := svc.LocalVenuesToSync()
	require.Len(t, remaining, 1)
	assert.Equal(t, "Tiki Room Roma", remaining[0].Name)
}

func TestSyncRequiresRemote(t *testing.T) {
	svc, err := New(Options{Seed: seed.Demo(), LocalSalt: "x"})
	require.NoError(t, err)
	require.NoError(t, svc.Load(context.Background()))

	_, err = svc.SyncLocalVenues(context.Background())
	assert.ErrorIs(t, err, ErrRemoteNotConfigured)
}
