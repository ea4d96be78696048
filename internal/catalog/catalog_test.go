package catalog

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ziorum/internal/ident"
	"ziorum/internal/moderation"
	"ziorum/internal/seed"
	"ziorum/internal/store"
)

func newMemoryService(t *testing.T) *Service {
	t.Helper()
	svc, err := New(Options{Seed: seed.Demo(), LocalSalt: "test"})
	require.NoError(t, err)
	require.NoError(t, svc.Load(context.Background()))
	return svc
}

func TestLoadFromSeedWhenUnconfigured(t *testing.T) {
	svc := newMemoryService(t)

	venues := svc.Venues()
	require.NotEmpty(t, venues)
	assert.False(t, svc.Remote())

	for _, v := range venues {
		assert.False(t, v.CloudPending)
	}
}

func TestVenueAggregatesComputedOnRead(t *testing.T) {
	svc := newMemoryService(t)
	svc.mu.Lock()
	svc.localVenues = append(svc.localVenues, store.Venue{
		ID: "vnEmpty01", Origin: ident.OriginLocal, Name: "Senza Recensioni",
		Verified: true, Status: moderation.VenueApproved,
	})
	svc.mu.Unlock()

	v, err := svc.VenueByID("vnEmpty01")
	require.NoError(t, err)
	assert.Nil(t, v.Overall)
	assert.Equal(t, 0, v.ReviewCount)

	svc.mu.Lock()
	svc.reviews = append(svc.reviews, store.Review{
		ID: "rvT1", VenueID: "vnEmpty01", AuthorName: "T", Status: "approved",
		DrinkQuality: 8, StaffCompetence: 6, Atmosphere: 7, Value: 9,
		CreatedAt: time.Now(),
	})
	svc.mu.Unlock()

	v, err = svc.VenueByID("vnEmpty01")
	require.NoError(t, err)
	require.NotNil(t, v.Overall)
	assert.Equal(t, 7.5, *v.Overall)
	assert.Equal(t, 1, v.ReviewCount)
}

func TestVenueOverallIsMeanOfReviewOveralls(t *testing.T) {
	svc := newMemoryService(t)
	svc.mu.Lock()
	svc.localVenues = append(svc.localVenues, store.Venue{
		ID: "vnAgg01", Origin: ident.OriginLocal, Name: "Aggregato",
		Verified: true, Status: moderation.VenueApproved,
	})
	// One review at 8.0, one at 9.0.
	svc.reviews = append(svc.reviews,
		store.Review{ID: "rvA", VenueID: "vnAgg01", Status: "approved", DrinkQuality: 8, StaffCompetence: 8, Atmosphere: 8, Value: 8},
		store.Review{ID: "rvB", VenueID: "vnAgg01", Status: "approved", DrinkQuality: 9, StaffCompetence: 9, Atmosphere: 9, Value: 9},
	)
	svc.mu.Unlock()

	v, err := svc.VenueByID("vnAgg01")
	require.NoError(t, err)
	require.NotNil(t, v.Overall)
	assert.Equal(t, 8.5, *v.Overall)
	assert.Equal(t, 2, v.ReviewCount)
}

func TestConcurrentReadsDoNotWriteSharedReviews(t *testing.T) {
	svc := newMemoryService(t)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				svc.Venues()
				svc.VenueByID("vnKe42xq")
				svc.ReviewsByVenue("vnKe42xq")
			}
		}()
	}
	wg.Wait()

	// Aggregates are derived per read; the stored reviews keep their
	// persisted shape with Overall unset.
	svc.mu.RLock()
	defer svc.mu.RUnlock()
	for _, r := range svc.reviews {
		assert.Nil(t, r.Overall)
	}
}

func TestConcurrentLocalCreatesMintUniqueIDs(t *testing.T) {
	svc := newMemoryService(t)
	ctx := context.Background()
	before := len(svc.Articles())

	const n = 64
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, svc.AddArticle(ctx, &store.Article{Title: "rum", Content: "note"}, moderation.RoleAdmin))
		}()
	}
	wg.Wait()

	articles := svc.Articles()
	require.Len(t, articles, before+n)
	seen := make(map[string]bool, len(articles))
	for _, a := range articles {
		assert.False(t, seen[a.ID], "duplicate id %s", a.ID)
		seen[a.ID] = true
	}
}

func TestAccessorsAreIdempotent(t *testing.T) {
	svc := newMemoryService(t)

	assert.Equal(t, svc.Venues(), svc.Venues())
	assert.Equal(t, svc.Reviews(), svc.Reviews())
	assert.Equal(t, svc.Drinks(), svc.Drinks())
	assert.Equal(t, svc.CommunityEvents(true), svc.CommunityEvents(true))
}

func TestAddReviewRequiresRemote(t *testing.T) {
	svc := newMemoryService(t)
	before := len(svc.Reviews())

	err := svc.AddReview(context.Background(), &store.Review{
		VenueID: "vnKe42xq", AuthorName: "X", Content: "x", DrinkQuality: 7,
	})
	require.ErrorIs(t, err, ErrRemoteNotConfigured)
	assert.Len(t, svc.Reviews(), before)
}

func TestInitialApprovalFollowsCreatorRole(t *testing.T) {
	svc := newMemoryService(t)
	ctx := context.Background()

	adminPost := &store.CommunityPost{AuthorName: "zio", Content: "benvenuti"}
	require.NoError(t, svc.AddCommunityPost(ctx, adminPost, moderation.RoleAdmin))
	assert.True(t, adminPost.Approved)

	userPost := &store.CommunityPost{AuthorName: "ospite", Content: "ciao"}
	require.NoError(t, svc.AddCommunityPost(ctx, userPost, moderation.RoleUser))
	assert.False(t, userPost.Approved)

	// Unapproved posts stay out of the public feed until moderated.
	for _, p := range svc.CommunityPosts(true) {
		assert.NotEqual(t, userPost.ID, p.ID)
	}

	require.NoError(t, svc.SetCommunityPostApproved(ctx, userPost.ID, true))
	found := false
	for _, p := range svc.CommunityPosts(true) {
		if p.ID == userPost.ID {
			found = true
		}
	}
	assert.True(t, found)
}

func TestBartenderStatusTransitions(t *testing.T) {
	svc := newMemoryService(t)
	ctx := context.Background()

	b := &store.Bartender{DisplayName: "Nico"}
	require.NoError(t, svc.AddBartender(ctx, b, moderation.RoleUser))
	assert.Equal(t, moderation.ProfilePending, b.Status)

	// featured is only reachable from approved
	err := svc.SetBartenderStatus(ctx, b.ID, moderation.ProfileFeatured)
	require.ErrorIs(t, err, moderation.ErrInvalidTransition)

	require.NoError(t, svc.SetBartenderStatus(ctx, b.ID, moderation.ProfileApproved))
	require.NoError(t, svc.SetBartenderStatus(ctx, b.ID, moderation.ProfileFeatured))

	featured := moderation.ProfileFeatured
	list := svc.Bartenders(&featured)
	require.Len(t, list, 1)
	assert.Equal(t, b.ID, list[0].ID)

	// and back down
	require.NoError(t, svc.SetBartenderStatus(ctx, b.ID, moderation.ProfileApproved))
}

func TestDeleteVenueCascadesReviews(t *testing.T) {
	svc := newMemoryService(t)
	ctx := context.Background()

	require.NotEmpty(t, svc.ReviewsByVenue("vnKe42xq"))
	require.NoError(t, svc.DeleteVenue(ctx, "vnKe42xq"))

	_, err := svc.VenueByID("vnKe42xq")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Empty(t, svc.ReviewsByVenue("vnKe42xq"))
	for _, r := range svc.Reviews() {
		assert.NotEqual(t, "vnKe42xq", r.VenueID)
	}
}

func TestAddVenueLocalFallback(t *testing.T) {
	svc := newMemoryService(t)

	v := &store.Venue{Name: "Nuovo Bar", City: "Bari", Country: "Italia"}
	pending, err := svc.AddVenue(context.Background(), v)
	require.NoError(t, err)
	assert.True(t, pending)
	assert.Equal(t, ident.OriginLocal, v.Origin)
	assert.NotEmpty(t, v.ID)

	// Pending local venues are hidden from the public list.
	for _, got := range svc.Venues() {
		assert.NotEqual(t, v.ID, got.ID)
	}

	// Admin approval in demo mode flips it visible.
	require.NoError(t, svc.ApproveVenue(context.Background(), v.ID, nil, nil))
	got, err := svc.VenueByID(v.ID)
	require.NoError(t, err)
	assert.Equal(t, moderation.VenueApproved, got.Status)
}

func TestVenueRejectionIsNotDeletion(t *testing.T) {
	svc := newMemoryService(t)
	ctx := context.Background()

	v := &store.Venue{Name: "Bar Sospetto", City: "Roma", Country: "Italia"}
	_, err := svc.AddVenue(ctx, v)
	require.NoError(t, err)

	require.NoError(t, svc.RejectVenue(ctx, v.ID))

	// Hidden from the public list but still resolvable.
	for _, got := range svc.Venues() {
		assert.NotEqual(t, v.ID, got.ID)
	}
	got, err := svc.VenueByID(v.ID)
	require.NoError(t, err)
	assert.Equal(t, moderation.VenueRejected, got.Status)

	// rejected is terminal
	err = svc.ApproveVenue(ctx, v.ID, nil, nil)
	assert.ErrorIs(t, err, moderation.ErrInvalidTransition)
}

func TestApplyVenueChange(t *testing.T) {
	svc := newMemoryService(t)

	approved := &store.Venue{
		ID: "c1f0b1de-9f64-4f05-9c4a-1d2e3f4a5b6c", RemoteID: "c1f0b1de-9f64-4f05-9c4a-1d2e3f4a5b6c",
		Origin: ident.OriginRemote, Name: "Cloud Bar", Status: moderation.VenueApproved,
	}
	svc.ApplyVenueChange(ChangeInsert, approved.ID, approved)
	_, err := svc.VenueByID(approved.ID)
	require.NoError(t, err)

	// Update to a non-approved status retracts without deleting the row.
	retracted := *approved
	retracted.Status = moderation.VenueRejected
	svc.ApplyVenueChange(ChangeUpdate, retracted.ID, &retracted)
	_, err = svc.VenueByID(approved.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	// Re-approval brings it back; upsert matches the remote id.
	svc.ApplyVenueChange(ChangeUpdate, approved.ID, approved)
	_, err = svc.VenueByID(approved.ID)
	require.NoError(t, err)

	svc.ApplyVenueChange(ChangeDelete, approved.ID, nil)
	_, err = svc.VenueByID(approved.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestBackupRoundTrip(t *testing.T) {
	svc := newMemoryService(t)
	doc := svc.Export()
	assert.Equal(t, BackupVersion, doc.Version)

	fresh, err := New(Options{LocalSalt: "fresh"})
	require.NoError(t, err)
	require.NoError(t, fresh.Load(context.Background()))
	require.NoError(t, fresh.Import(doc))

	assert.Equal(t, svc.Venues(), fresh.Venues())
	assert.Equal(t, svc.Reviews(), fresh.Reviews())
	assert.Equal(t, svc.Drinks(), fresh.Drinks())
	assert.Equal(t, svc.Articles(), fresh.Articles())
	assert.Equal(t, svc.Bartenders(nil), fresh.Bartenders(nil))
	assert.Equal(t, svc.OwnerMessages(false), fresh.OwnerMessages(false))
	assert.Equal(t, svc.CommunityEvents(false), fresh.CommunityEvents(false))
	assert.Equal(t, svc.CommunityPosts(false), fresh.CommunityPosts(false))
}

func TestImportSplitsLegacyCommaJoinedURLs(t *testing.T) {
	svc := newMemoryService(t)
	doc := Backup{
		Version: 1,
		Venues: []store.Venue{{
			ID: "vnLegacy1", Name: "Legacy", Verified: true, Status: moderation.VenueApproved,
			ImageURLs: []string{"https://a.example/1.jpg, https://a.example/2.jpg"},
		}},
	}
	require.NoError(t, svc.Import(doc))

	v, err := svc.VenueByID("vnLegacy1")
	require.NoError(t, err)
	assert.Equal(t, []string{"https://a.example/1.jpg", "https://a.example/2.jpg"}, v.ImageURLs)
}

func TestImportRejectsNewerVersion(t *testing.T) {
	svc := newMemoryService(t)
	err := svc.Import(Backup{Version: BackupVersion + 1})
	assert.Error(t, err)
}
