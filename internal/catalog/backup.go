package catalog

import (
	"fmt"
	"strings"
	"time"

	"ziorum/internal/ident"
	"ziorum/internal/store"
)

// BackupVersion tags exported documents; Import refuses anything newer.
const BackupVersion = 2

// Backup is the portable JSON document holding every content collection,
// used for manual backup/restore and for moving locally-created records
// between installations without a server round-trip.
type Backup struct {
	Version    int       `json:"version"`
	ExportedAt time.Time `json:"exported_at"`

	Venues          []store.Venue          `json:"venues"`
	Reviews         []store.Review         `json:"reviews"`
	Drinks          []store.Drink          `json:"drinks"`
	Articles        []store.Article        `json:"articles"`
	Bartenders      []store.Bartender      `json:"bartenders"`
	OwnerMessages   []store.OwnerMessage   `json:"owner_messages"`
	CommunityEvents []store.CommunityEvent `json:"community_events"`
	CommunityPosts  []store.CommunityPost  `json:"community_posts"`
}

// Export snapshots all collections. Venues include both the local and
// cloud lists, raw (no derived rating fields are persisted).
func (s *Service) Export() Backup {
	s.mu.RLock()
	defer s.mu.RUnlock()

	venues := make([]store.Venue, 0, len(s.localVenues)+len(s.cloudVenues))
	for _, v := range append(cloneVenues(s.localVenues), s.cloudVenues...) {
		v.ReviewCount = 0
		v.Overall, v.DrinkAvg, v.StaffAvg, v.AtmoAvg, v.ValueAvg = nil, nil, nil, nil, nil
		venues = append(venues, v)
	}

	return Backup{
		Version:         BackupVersion,
		ExportedAt:      time.Now().UTC(),
		Venues:          venues,
		Reviews:         cloneReviews(s.reviews),
		Drinks:          append([]store.Drink(nil), s.drinks...),
		Articles:        append([]store.Article(nil), s.articles...),
		Bartenders:      append([]store.Bartender(nil), s.bartenders...),
		OwnerMessages:   append([]store.OwnerMessage(nil), s.ownerMessages...),
		CommunityEvents: append([]store.CommunityEvent(nil), s.events...),
		CommunityPosts:  append([]store.CommunityPost(nil), s.posts...),
	}
}

// Import replaces the in-memory state with the document's collections.
// Ids and field values are preserved; venue origin is reconstructed from
// the remote id when present, else from the id shape (documents carry no
// origin tag — this is the one place the shape test is still needed).
func (s *Service) Import(doc Backup) error {
	if doc.Version > BackupVersion {
		return fmt.Errorf("unsupported backup version %d", doc.Version)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.localVenues = nil
	s.cloudVenues = nil
	for _, v := range doc.Venues {
		normalizeURLList(&v.ImageURLs)
		switch {
		case v.RemoteID != "":
			v.Origin = ident.OriginRemote
			s.cloudVenues = append(s.cloudVenues, v)
		case ident.IsRemoteShaped(v.ID):
			v.Origin = ident.OriginRemote
			v.RemoteID = v.ID
			s.cloudVenues = append(s.cloudVenues, v)
		default:
			v.Origin = ident.OriginLocal
			s.localVenues = append(s.localVenues, v)
		}
	}

	s.reviews = make([]store.Review, 0, len(doc.Reviews))
	for _, r := range doc.Reviews {
		normalizeURLList(&r.PhotoURLs)
		normalizeURLList(&r.VideoURLs)
		if r.Status == "" {
			r.Status = "approved"
		}
		s.reviews = append(s.reviews, r)
	}

	s.drinks = append([]store.Drink(nil), doc.Drinks...)
	s.articles = append([]store.Article(nil), doc.Articles...)
	s.bartenders = append([]store.Bartender(nil), doc.Bartenders...)
	s.ownerMessages = append([]store.OwnerMessage(nil), doc.OwnerMessages...)
	s.events = append([]store.CommunityEvent(nil), doc.CommunityEvents...)
	s.posts = append([]store.CommunityPost(nil), doc.CommunityPosts...)

	s.logger.Infow("backup imported",
		"version", doc.Version,
		"venues", len(doc.Venues),
		"reviews", len(doc.Reviews),
	)
	return nil
}

// normalizeURLList splits legacy single-element comma-joined url strings,
// the serialization old exports used for multiple media urls.
func normalizeURLList(urls *[]string) {
	if len(*urls) != 1 || !strings.Contains((*urls)[0], ",") {
		return
	}
	parts := strings.Split((*urls)[0], ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	*urls = out
}
