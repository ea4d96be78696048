// Package catalog is the process-wide source of truth for every content
// collection. It bridges three storage modes behind one interface: the
// database when configured, in-memory demo state seeded from static
// datasets, and an upstream submission API as the venue-intake fallback.
// Constructed once in main and injected into the HTTP layer.
package catalog

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"ziorum/internal/ident"
	"ziorum/internal/moderation"
	"ziorum/internal/seed"
	"ziorum/internal/store"
)

var (
	// ErrRemoteNotConfigured is returned by remote-required mutators
	// (reviews) when the service runs without a database.
	ErrRemoteNotConfigured = errors.New("catalog: database not configured")

	ErrNotFound = errors.New("catalog: record not found")
)

// Backend selects where a content kind persists. Articles and drinks
// default to memory: the application has always treated them as curated
// demo content, so the database path is opt-in per kind.
type Backend string

const (
	BackendMemory Backend = "memory"
	BackendDB     Backend = "db"
)

// Backends is the per-kind persistence configuration.
type Backends struct {
	Articles Backend
	Drinks   Backend
}

// Submitter is the fallback venue intake used when no database is
// configured. Implemented by internal/submit.
type Submitter interface {
	AddVenue(ctx context.Context, v store.Venue) (id string, err error)
}

type Service struct {
	mu sync.RWMutex

	store    *store.Storage // nil when the database is not configured
	submit   Submitter      // nil when no fallback endpoint is set
	logger   *zap.SugaredLogger
	ids      *ident.Generator
	backends Backends
	seed     seed.Data

	// localVenues holds records created in this process plus seed data;
	// cloudVenues mirrors the approved snapshot of the venues table.
	localVenues []store.Venue
	cloudVenues []store.Venue

	reviews       []store.Review
	drinks        []store.Drink
	articles      []store.Article
	bartenders    []store.Bartender
	ownerMessages []store.OwnerMessage
	events        []store.CommunityEvent
	posts         []store.CommunityPost
}

type Options struct {
	Store     *store.Storage
	Submit    Submitter
	Logger    *zap.SugaredLogger
	Backends  Backends
	Seed      seed.Data
	LocalSalt string
}

func New(opts Options) (*Service, error) {
	if opts.Backends.Articles == "" {
		opts.Backends.Articles = BackendMemory
	}
	if opts.Backends.Drinks == "" {
		opts.Backends.Drinks = BackendMemory
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop().Sugar()
	}

	gen, err := ident.NewGenerator(opts.LocalSalt)
	if err != nil {
		return nil, err
	}

	return &Service{
		store:    opts.Store,
		submit:   opts.Submit,
		logger:   opts.Logger,
		ids:      gen,
		backends: opts.Backends,
		seed:     opts.Seed,
	}, nil
}

// Remote reports whether the database is configured.
func (s *Service) Remote() bool {
	return s.store != nil
}

// Load builds the initial snapshot. Without a database every collection
// comes from the seed. With one, each collection is fetched independently
// and falls back to its own seed on error, so one failing table does not
// blank the whole application.
func (s *Service) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.store == nil {
		s.loadSeedLocked()
		s.logger.Infow("catalog loaded from seed", "venues", len(s.localVenues))
		return nil
	}

	if venues, err := s.store.Venues.ListByStatus(ctx, moderation.VenueApproved); err != nil {
		s.logger.Errorw("venue snapshot failed, using seed", "error", err)
		s.localVenues = cloneVenues(s.seed.Venues)
	} else {
		s.cloudVenues = venues
	}

	if reviews, err := s.store.Reviews.ListApproved(ctx); err != nil {
		s.logger.Errorw("review snapshot failed, using seed", "error", err)
		s.reviews = cloneReviews(s.seed.Reviews)
	} else {
		s.reviews = reviews
	}

	if bartenders, err := s.store.Bartenders.List(ctx, nil); err != nil {
		s.logger.Errorw("bartender snapshot failed, using seed", "error", err)
		s.bartenders = append([]store.Bartender(nil), s.seed.Bartenders...)
	} else {
		s.bartenders = bartenders
	}

	if messages, err := s.store.OwnerMessages.List(ctx, false); err != nil {
		s.logger.Errorw("owner message snapshot failed, using seed", "error", err)
		s.ownerMessages = append([]store.OwnerMessage(nil), s.seed.OwnerMessages...)
	} else {
		s.ownerMessages = messages
	}

	if events, err := s.store.CommunityEvents.List(ctx, false); err != nil {
		s.logger.Errorw("event snapshot failed, using seed", "error", err)
		s.events = append([]store.CommunityEvent(nil), s.seed.CommunityEvents...)
	} else {
		s.events = events
	}

	if posts, err := s.store.CommunityPosts.List(ctx, false); err != nil {
		s.logger.Errorw("post snapshot failed, using seed", "error", err)
		s.posts = append([]store.CommunityPost(nil), s.seed.CommunityPosts...)
	} else {
		s.posts = posts
	}

	s.loadContentLocked(ctx)

	s.logger.Infow("catalog loaded",
		"cloud_venues", len(s.cloudVenues),
		"local_venues", len(s.localVenues),
		"reviews", len(s.reviews),
	)
	return nil
}

func (s *Service) loadContentLocked(ctx context.Context) {
	if s.backends.Articles == BackendDB {
		if articles, err := s.store.Articles.List(ctx); err != nil {
			s.logger.Errorw("article snapshot failed, using seed", "error", err)
			s.articles = append([]store.Article(nil), s.seed.Articles...)
		} else {
			s.articles = articles
		}
	} else {
		s.articles = append([]store.Article(nil), s.seed.Articles...)
	}

	if s.backends.Drinks == BackendDB {
		if drinks, err := s.store.Drinks.List(ctx); err != nil {
			s.logger.Errorw("drink snapshot failed, using seed", "error", err)
			s.drinks = append([]store.Drink(nil), s.seed.Drinks...)
		} else {
			s.drinks = drinks
		}
	} else {
		s.drinks = append([]store.Drink(nil), s.seed.Drinks...)
	}
}

func (s *Service) loadSeedLocked() {
	s.localVenues = cloneVenues(s.seed.Venues)
	s.reviews = cloneReviews(s.seed.Reviews)
	s.drinks = append([]store.Drink(nil), s.seed.Drinks...)
	s.articles = append([]store.Article(nil), s.seed.Articles...)
	s.bartenders = append([]store.Bartender(nil), s.seed.Bartenders...)
	s.ownerMessages = append([]store.OwnerMessage(nil), s.seed.OwnerMessages...)
	s.events = append([]store.CommunityEvent(nil), s.seed.CommunityEvents...)
	s.posts = append([]store.CommunityPost(nil), s.seed.CommunityPosts...)
}

func cloneVenues(in []store.Venue) []store.Venue {
	out := make([]store.Venue, len(in))
	copy(out, in)
	return out
}

func cloneReviews(in []store.Review) []store.Review {
	out := make([]store.Review, len(in))
	copy(out, in)
	return out
}

// matchesVenue reports whether id refers to v in any of its id spaces.
func matchesVenue(v *store.Venue, id string) bool {
	if id == "" {
		return false
	}
	if v.ID == id || (v.RemoteID != "" && v.RemoteID == id) {
		return true
	}
	return v.ExternalID != nil && *v.ExternalID == id
}

// reviewBelongsTo reports whether r references v in either id space.
func reviewBelongsTo(r *store.Review, v *store.Venue) bool {
	return matchesVenue(v, r.VenueID)
}
