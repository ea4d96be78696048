package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ziorum/internal/ident"
	"ziorum/internal/moderation"
	"ziorum/internal/store"
)

// AddReview persists a review. Reviews are remote-required: without a
// database the call fails and the collection is left untouched.
func (s *Service) AddReview(ctx context.Context, review *store.Review) error {
	if s.store == nil {
		return ErrRemoteNotConfigured
	}

	if err := s.store.Reviews.Create(ctx, review); err != nil {
		return err
	}

	s.mu.Lock()
	s.reviews = append(s.reviews, *review)
	s.mu.Unlock()
	return nil
}

func (s *Service) UpdateReview(ctx context.Context, review *store.Review) error {
	if s.store == nil {
		return ErrRemoteNotConfigured
	}

	if err := s.store.Reviews.Update(ctx, review); err != nil {
		return err
	}

	s.mu.Lock()
	for i := range s.reviews {
		if s.reviews[i].ID == review.ID {
			s.reviews[i] = *review
			break
		}
	}
	s.mu.Unlock()
	return nil
}

func (s *Service) DeleteReview(ctx context.Context, id string) error {
	if s.store == nil {
		return ErrRemoteNotConfigured
	}

	if err := s.store.Reviews.Delete(ctx, id); err != nil {
		return err
	}

	s.mu.Lock()
	for i := range s.reviews {
		if s.reviews[i].ID == id {
			s.reviews = append(s.reviews[:i], s.reviews[i+1:]...)
			break
		}
	}
	s.mu.Unlock()
	return nil
}

// AddVenue submits a venue through the first available channel: database
// insert as pending, the upstream submission API, or plain local state.
// The returned flag says whether the venue awaits moderation somewhere
// outside this process.
func (s *Service) AddVenue(ctx context.Context, venue *store.Venue) (pending bool, err error) {
	if s.store != nil {
		if !venue.Status.Valid() {
			venue.Status = moderation.VenuePending
		}
		if err := s.store.Venues.Create(ctx, venue); err != nil {
			return false, err
		}
		venue.CloudPending = venue.Status == moderation.VenuePending

		s.mu.Lock()
		if venue.CloudPending {
			s.localVenues = append(s.localVenues, *venue)
		} else {
			// Admin-created venues insert approved and go straight to
			// the public snapshot.
			s.cloudVenues = append(s.cloudVenues, *venue)
		}
		s.mu.Unlock()
		return venue.CloudPending, nil
	}

	if s.submit != nil {
		id, err := s.submit.AddVenue(ctx, *venue)
		if err != nil {
			return false, err
		}
		venue.ID = id
		venue.Origin = ident.OriginRemote
		venue.CloudPending = true
		venue.Status = moderation.VenuePending

		s.mu.Lock()
		s.localVenues = append(s.localVenues, *venue)
		s.mu.Unlock()
		return true, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	venue.ID = s.ids.Next()
	venue.Origin = ident.OriginLocal
	if !venue.Status.Valid() {
		venue.Status = moderation.VenuePending
	}
	venue.CreatedAt = time.Now()
	venue.UpdatedAt = venue.CreatedAt
	s.localVenues = append(s.localVenues, *venue)
	return venue.Status == moderation.VenuePending, nil
}

// UpdateVenue patches a venue's editable fields in whichever collection
// holds it, writing through to the database for remote-origin records.
func (s *Service) UpdateVenue(ctx context.Context, id string, updates map[string]any) error {
	s.mu.Lock()
	v := s.findVenueLocked(id)
	if v == nil {
		s.mu.Unlock()
		return ErrNotFound
	}
	remote := v.Origin == ident.OriginRemote
	s.mu.Unlock()

	if remote && s.store != nil {
		if err := s.store.Venues.Update(ctx, id, updates); err != nil {
			return err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if v := s.findVenueLocked(id); v != nil {
		if err := applyVenueUpdates(v, updates); err != nil {
			return err
		}
		v.UpdatedAt = time.Now()
	}
	return nil
}

func applyVenueUpdates(v *store.Venue, updates map[string]any) error {
	for key, value := range updates {
		switch key {
		case "name":
			v.Name, _ = value.(string)
		case "city":
			v.City, _ = value.(string)
		case "country":
			v.Country, _ = value.(string)
		case "address":
			v.Address, _ = value.(string)
		case "price_range":
			v.PriceRange, _ = value.(string)
		case "phone":
			v.Phone = strField(value)
		case "email":
			v.Email = strField(value)
		case "website":
			v.Website = strField(value)
		case "cover_url":
			v.CoverURL = strField(value)
		case "latitude":
			v.Latitude = floatField(value)
		case "longitude":
			v.Longitude = floatField(value)
		case "categories":
			list, ok := value.([]string)
			if !ok {
				return fmt.Errorf("invalid categories data")
			}
			v.Categories = list
		case "image_urls":
			list, ok := value.([]string)
			if !ok {
				return fmt.Errorf("invalid image_urls data")
			}
			v.ImageURLs = list
		default:
			return fmt.Errorf("unsupported field: %s", key)
		}
	}
	return nil
}

func strField(value any) *string {
	if s, ok := value.(string); ok {
		return &s
	}
	return nil
}

func floatField(value any) *float64 {
	if f, ok := value.(float64); ok {
		return &f
	}
	return nil
}

// DeleteVenue removes a venue from every collection along with all of
// its reviews (both id spaces).
func (s *Service) DeleteVenue(ctx context.Context, id string) error {
	s.mu.Lock()
	v := s.findVenueLocked(id)
	if v == nil {
		s.mu.Unlock()
		return ErrNotFound
	}
	target := *v
	s.mu.Unlock()

	if target.Origin == ident.OriginRemote && s.store != nil {
		if err := s.store.Reviews.DeleteByVenue(ctx, target.RemoteID); err != nil {
			return err
		}
		if err := s.store.Venues.Delete(ctx, target.RemoteID); err != nil && !errors.Is(err, store.ErrNotFound) {
			return err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.removeVenueLocked(&target)
	kept := s.reviews[:0]
	for _, r := range s.reviews {
		if !reviewBelongsTo(&r, &target) {
			kept = append(kept, r)
		}
	}
	s.reviews = kept
	return nil
}

func (s *Service) removeVenueLocked(target *store.Venue) {
	filter := func(list []store.Venue) []store.Venue {
		kept := list[:0]
		for _, v := range list {
			if !matchesVenue(&v, target.ID) && (target.RemoteID == "" || !matchesVenue(&v, target.RemoteID)) {
				kept = append(kept, v)
			}
		}
		return kept
	}
	s.localVenues = filter(s.localVenues)
	s.cloudVenues = filter(s.cloudVenues)
}

// AddArticle stores magazine content on the configured backend. The
// admin-authored rule applies: only admin-created articles auto-publish.
func (s *Service) AddArticle(ctx context.Context, article *store.Article, creatorRole string) error {
	article.Approved = moderation.InitialApproved(creatorRole)

	if s.backends.Articles == BackendDB && s.store != nil {
		if err := s.store.Articles.Create(ctx, article); err != nil {
			return err
		}
		s.mu.Lock()
		s.articles = append(s.articles, *article)
		s.mu.Unlock()
		return nil
	}

	// The id generator is serialized by the catalog lock.
	s.mu.Lock()
	defer s.mu.Unlock()
	article.ID = s.ids.Next()
	article.CreatedAt = time.Now()
	article.UpdatedAt = article.CreatedAt
	s.articles = append(s.articles, *article)
	return nil
}

func (s *Service) UpdateArticle(ctx context.Context, article *store.Article) error {
	if s.backends.Articles == BackendDB && s.store != nil {
		if err := s.store.Articles.Update(ctx, article); err != nil {
			return err
		}
	} else {
		article.UpdatedAt = time.Now()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.articles {
		if s.articles[i].ID == article.ID {
			s.articles[i] = *article
			return nil
		}
	}
	return ErrNotFound
}

func (s *Service) DeleteArticle(ctx context.Context, id string) error {
	if s.backends.Articles == BackendDB && s.store != nil {
		if err := s.store.Articles.Delete(ctx, id); err != nil {
			return err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.articles {
		if s.articles[i].ID == id {
			s.articles = append(s.articles[:i], s.articles[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func (s *Service) AddDrink(ctx context.Context, drink *store.Drink, creatorRole string) error {
	drink.Approved = moderation.InitialApproved(creatorRole)

	if s.backends.Drinks == BackendDB && s.store != nil {
		if err := s.store.Drinks.Create(ctx, drink); err != nil {
			return err
		}
		s.mu.Lock()
		s.drinks = append(s.drinks, *drink)
		s.mu.Unlock()
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	drink.ID = s.ids.Next()
	drink.CreatedAt = time.Now()
	drink.UpdatedAt = drink.CreatedAt
	s.drinks = append(s.drinks, *drink)
	return nil
}

func (s *Service) UpdateDrink(ctx context.Context, drink *store.Drink) error {
	if s.backends.Drinks == BackendDB && s.store != nil {
		if err := s.store.Drinks.Update(ctx, drink); err != nil {
			return err
		}
	} else {
		drink.UpdatedAt = time.Now()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.drinks {
		if s.drinks[i].ID == drink.ID {
			s.drinks[i] = *drink
			return nil
		}
	}
	return ErrNotFound
}

func (s *Service) DeleteDrink(ctx context.Context, id string) error {
	if s.backends.Drinks == BackendDB && s.store != nil {
		if err := s.store.Drinks.Delete(ctx, id); err != nil {
			return err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.drinks {
		if s.drinks[i].ID == id {
			s.drinks = append(s.drinks[:i], s.drinks[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

// AddBartender creates a profile. Admin-created profiles start approved,
// everything else starts pending.
func (s *Service) AddBartender(ctx context.Context, bartender *store.Bartender, creatorRole string) error {
	bartender.Status = moderation.InitialProfileStatus(creatorRole)
	if bartender.VenueID != nil {
		bartender.VenueName = nil
	}

	if s.store != nil {
		if err := s.store.Bartenders.Create(ctx, bartender); err != nil {
			return err
		}
		s.mu.Lock()
		s.bartenders = append(s.bartenders, *bartender)
		s.mu.Unlock()
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	bartender.ID = s.ids.Next()
	bartender.CreatedAt = time.Now()
	bartender.UpdatedAt = bartender.CreatedAt
	s.bartenders = append(s.bartenders, *bartender)
	return nil
}

func (s *Service) DeleteBartender(ctx context.Context, id string) error {
	if s.store != nil {
		if err := s.store.Bartenders.Delete(ctx, id); err != nil && !errors.Is(err, store.ErrNotFound) {
			return err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.bartenders {
		if s.bartenders[i].ID == id {
			s.bartenders = append(s.bartenders[:i], s.bartenders[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func (s *Service) AddOwnerMessage(ctx context.Context, msg *store.OwnerMessage, creatorRole string) error {
	msg.Approved = moderation.InitialApproved(creatorRole)

	if s.store != nil {
		if err := s.store.OwnerMessages.Create(ctx, msg); err != nil {
			return err
		}
		s.mu.Lock()
		s.ownerMessages = append(s.ownerMessages, *msg)
		s.mu.Unlock()
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	msg.ID = s.ids.Next()
	msg.CreatedAt = time.Now()
	s.ownerMessages = append(s.ownerMessages, *msg)
	return nil
}

func (s *Service) DeleteOwnerMessage(ctx context.Context, id string) error {
	if s.store != nil {
		if err := s.store.OwnerMessages.Delete(ctx, id); err != nil && !errors.Is(err, store.ErrNotFound) {
			return err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.ownerMessages {
		if s.ownerMessages[i].ID == id {
			s.ownerMessages = append(s.ownerMessages[:i], s.ownerMessages[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func (s *Service) AddCommunityEvent(ctx context.Context, event *store.CommunityEvent, creatorRole string) error {
	event.Approved = moderation.InitialApproved(creatorRole)

	if s.store != nil {
		if err := s.store.CommunityEvents.Create(ctx, event); err != nil {
			return err
		}
		s.mu.Lock()
		s.events = append(s.events, *event)
		s.mu.Unlock()
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	event.ID = s.ids.Next()
	event.CreatedAt = time.Now()
	s.events = append(s.events, *event)
	return nil
}

func (s *Service) DeleteCommunityEvent(ctx context.Context, id string) error {
	if s.store != nil {
		if err := s.store.CommunityEvents.Delete(ctx, id); err != nil && !errors.Is(err, store.ErrNotFound) {
			return err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.events {
		if s.events[i].ID == id {
			s.events = append(s.events[:i], s.events[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func (s *Service) AddCommunityPost(ctx context.Context, post *store.CommunityPost, creatorRole string) error {
	post.Approved = moderation.InitialApproved(creatorRole)

	if s.store != nil {
		if err := s.store.CommunityPosts.Create(ctx, post); err != nil {
			return err
		}
		s.mu.Lock()
		s.posts = append(s.posts, *post)
		s.mu.Unlock()
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	post.ID = s.ids.Next()
	post.CreatedAt = time.Now()
	s.posts = append(s.posts, *post)
	return nil
}

func (s *Service) DeleteCommunityPost(ctx context.Context, id string) error {
	if s.store != nil {
		if err := s.store.CommunityPosts.Delete(ctx, id); err != nil && !errors.Is(err, store.ErrNotFound) {
			return err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.posts {
		if s.posts[i].ID == id {
			s.posts = append(s.posts[:i], s.posts[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}
