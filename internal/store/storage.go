package store

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"ziorum/internal/moderation"
)

var (
	ErrNotFound          = errors.New("resource not found")
	ErrConflict          = errors.New("resource already exists")
	QueryTimeoutDuration = time.Second * 5
)

type Storage struct {
	Users interface {
		Create(context.Context, *User) error
		GetByID(context.Context, string) (*User, error)
		GetByEmail(context.Context, string) (*User, error)
		UpdateRefreshToken(context.Context, string, string) error
		SetRole(context.Context, string, string) error
		List(context.Context, int, int) ([]User, error)
	}
	Venues interface {
		ListByStatus(context.Context, moderation.VenueStatus) ([]Venue, error)
		GetByID(context.Context, string) (*Venue, error)
		Create(context.Context, *Venue) error
		Update(context.Context, string, map[string]any) error
		SetStatus(context.Context, string, moderation.VenueStatus, *float64, *float64) error
		Delete(context.Context, string) error
	}
	Reviews interface {
		ListApproved(context.Context) ([]Review, error)
		Create(context.Context, *Review) error
		Update(context.Context, *Review) error
		Delete(context.Context, string) error
		DeleteByVenue(context.Context, string) error
		RekeyVenue(context.Context, string, string) (int64, error)
	}
	Drinks interface {
		List(context.Context) ([]Drink, error)
		Create(context.Context, *Drink) error
		Update(context.Context, *Drink) error
		Delete(context.Context, string) error
	}
	Articles interface {
		List(context.Context) ([]Article, error)
		Create(context.Context, *Article) error
		Update(context.Context, *Article) error
		Delete(context.Context, string) error
	}
	Bartenders interface {
		List(context.Context, *moderation.ProfileStatus) ([]Bartender, error)
		GetByID(context.Context, string) (*Bartender, error)
		Create(context.Context, *Bartender) error
		SetStatus(context.Context, string, moderation.ProfileStatus) error
		Delete(context.Context, string) error
	}
	OwnerMessages interface {
		List(context.Context, bool) ([]OwnerMessage, error)
		Create(context.Context, *OwnerMessage) error
		SetApproved(context.Context, string, bool) error
		Delete(context.Context, string) error
	}
	CommunityEvents interface {
		List(context.Context, bool) ([]CommunityEvent, error)
		Create(context.Context, *CommunityEvent) error
		SetApproved(context.Context, string, bool) error
		Delete(context.Context, string) error
	}
	CommunityPosts interface {
		List(context.Context, bool) ([]CommunityPost, error)
		Create(context.Context, *CommunityPost) error
		SetApproved(context.Context, string, bool) error
		Delete(context.Context, string) error
	}
	PushTokens interface {
		Register(context.Context, *PushToken) error
		ListForRole(context.Context, string) ([]string, error)
	}
}

func NewStorage(db *pgxpool.Pool) Storage {
	return Storage{
		Users:           &UsersStore{db},
		Venues:          &VenuesStore{db},
		Reviews:         &ReviewsStore{db},
		Drinks:          &DrinksStore{db},
		Articles:        &ArticlesStore{db},
		Bartenders:      &BartendersStore{db},
		OwnerMessages:   &OwnerMessagesStore{db},
		CommunityEvents: &CommunityEventsStore{db},
		CommunityPosts:  &CommunityPostsStore{db},
		PushTokens:      &PushTokensStore{db},
	}
}
