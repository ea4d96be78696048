package main

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"ziorum/internal/catalog"
	"ziorum/internal/store"
)

type CreateReviewPayload struct {
	AuthorName string `json:"author_name" validate:"max=100"`
	Title      string `json:"title" validate:"max=150"`
	Content    string `json:"content" validate:"required,max=4000"`

	DrinkQuality    int `json:"drink_quality" validate:"min=0,max=10"`
	StaffCompetence int `json:"staff_competence" validate:"min=0,max=10"`
	Atmosphere      int `json:"atmosphere" validate:"min=0,max=10"`
	Value           int `json:"value" validate:"min=0,max=10"`

	DrinkMentions []string `json:"drink_mentions,omitempty" validate:"max=20"`
	PhotoURLs     []string `json:"photo_urls,omitempty" validate:"max=10"`
	VideoURLs     []string `json:"video_urls,omitempty" validate:"max=5"`
}

// hasRating reports whether at least one category was rated. A review
// with every sub-rating absent has no overall rating and is rejected.
func (p *CreateReviewPayload) hasRating() bool {
	return p.DrinkQuality > 0 || p.StaffCompetence > 0 || p.Atmosphere > 0 || p.Value > 0
}

// getVenueReviews godoc
//
//	@Summary		List reviews for a venue
//	@Description	Returns approved reviews for the venue, resolved across both id spaces
//	@Tags			Review
//	@Produce		json
//	@Param			venueID	path	string	true	"Venue ID"
//	@Success		200		{array}	store.Review
//	@Router			/venues/{venueID}/reviews [get]
func (app *application) getVenueReviewsHandler(w http.ResponseWriter, r *http.Request) {
	venueID := chi.URLParam(r, "venueID")

	reviews := app.catalog.ReviewsByVenue(venueID)

	if err := app.jsonResponse(w, http.StatusOK, reviews); err != nil {
		app.internalServerError(w, r, err)
	}
}

// createReview godoc
//
//	@Summary		Create a review
//	@Description	Adds a review with 1..10 sub-ratings; the overall rating is computed server-side
//	@Tags			Review
//	@Accept			json
//	@Produce		json
//	@Param			venueID	path		string				true	"Venue ID"
//	@Param			payload	body		CreateReviewPayload	true	"Review"
//	@Success		201		{object}	store.Review
//	@Failure		400		{object}	error
//	@Failure		404		{object}	error
//	@Failure		503		{object}	error	"No database configured"
//	@Security		ApiKeyAuth
//	@Router			/venues/{venueID}/reviews [post]
func (app *application) createReviewHandler(w http.ResponseWriter, r *http.Request) {
	venueID := chi.URLParam(r, "venueID")

	var payload CreateReviewPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if !payload.hasRating() {
		app.badRequestResponse(w, r, errors.New("at least one rating category is required"))
		return
	}

	venue, err := app.catalog.VenueByID(venueID)
	if err != nil {
		app.notFoundResponse(w, r, err)
		return
	}

	user := getUserFromContext(r)
	authorName := payload.AuthorName
	if authorName == "" {
		authorName = user.DisplayName
	}

	review := &store.Review{
		VenueID:         venue.ID,
		UserID:          &user.ID,
		AuthorName:      authorName,
		Title:           payload.Title,
		Content:         payload.Content,
		DrinkQuality:    payload.DrinkQuality,
		StaffCompetence: payload.StaffCompetence,
		Atmosphere:      payload.Atmosphere,
		Value:           payload.Value,
		DrinkMentions:   payload.DrinkMentions,
		PhotoURLs:       payload.PhotoURLs,
		VideoURLs:       payload.VideoURLs,
	}

	if err := app.catalog.AddReview(r.Context(), review); err != nil {
		switch {
		case errors.Is(err, catalog.ErrRemoteNotConfigured):
			app.serviceUnavailableResponse(w, r, err)
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	if err := app.jsonResponse(w, http.StatusCreated, review); err != nil {
		app.internalServerError(w, r, err)
	}
}

// updateReview godoc
//
//	@Summary		Update a review
//	@Description	Replaces the review's content and sub-ratings; only the author may edit
//	@Tags			Review
//	@Accept			json
//	@Produce		json
//	@Param			venueID		path		string				true	"Venue ID"
//	@Param			reviewID	path		string				true	"Review ID"
//	@Param			payload		body		CreateReviewPayload	true	"Review"
//	@Success		200			{object}	store.Review
//	@Failure		400			{object}	error
//	@Failure		403			{object}	error
//	@Failure		404			{object}	error
//	@Security		ApiKeyAuth
//	@Router			/venues/{venueID}/reviews/{reviewID} [patch]
func (app *application) updateReviewHandler(w http.ResponseWriter, r *http.Request) {
	reviewID := chi.URLParam(r, "reviewID")

	var payload CreateReviewPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if !payload.hasRating() {
		app.badRequestResponse(w, r, errors.New("at least one rating category is required"))
		return
	}

	existing := app.findReview(reviewID)
	if existing == nil {
		app.notFoundResponse(w, r, store.ErrNotFound)
		return
	}

	user := getUserFromContext(r)
	if !app.canTouchReview(user, existing) {
		app.forbiddenResponse(w, r)
		return
	}

	existing.Title = payload.Title
	existing.Content = payload.Content
	existing.DrinkQuality = payload.DrinkQuality
	existing.StaffCompetence = payload.StaffCompetence
	existing.Atmosphere = payload.Atmosphere
	existing.Value = payload.Value
	existing.DrinkMentions = payload.DrinkMentions
	existing.PhotoURLs = payload.PhotoURLs
	existing.VideoURLs = payload.VideoURLs
	if payload.AuthorName != "" {
		existing.AuthorName = payload.AuthorName
	}

	if err := app.catalog.UpdateReview(r.Context(), existing); err != nil {
		switch {
		case errors.Is(err, catalog.ErrRemoteNotConfigured):
			app.serviceUnavailableResponse(w, r, err)
		case errors.Is(err, store.ErrNotFound):
			app.notFoundResponse(w, r, err)
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, existing); err != nil {
		app.internalServerError(w, r, err)
	}
}

// deleteReview godoc
//
//	@Summary		Delete a review
//	@Description	Deletes the review; allowed for the author or an admin
//	@Tags			Review
//	@Param			venueID		path	string	true	"Venue ID"
//	@Param			reviewID	path	string	true	"Review ID"
//	@Success		204
//	@Failure		403	{object}	error
//	@Failure		404	{object}	error
//	@Security		ApiKeyAuth
//	@Router			/venues/{venueID}/reviews/{reviewID} [delete]
func (app *application) deleteReviewHandler(w http.ResponseWriter, r *http.Request) {
	reviewID := chi.URLParam(r, "reviewID")

	existing := app.findReview(reviewID)
	if existing == nil {
		app.notFoundResponse(w, r, store.ErrNotFound)
		return
	}

	user := getUserFromContext(r)
	if !app.canTouchReview(user, existing) {
		app.forbiddenResponse(w, r)
		return
	}

	if err := app.catalog.DeleteReview(r.Context(), reviewID); err != nil {
		switch {
		case errors.Is(err, catalog.ErrRemoteNotConfigured):
			app.serviceUnavailableResponse(w, r, err)
		case errors.Is(err, store.ErrNotFound):
			app.notFoundResponse(w, r, err)
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (app *application) findReview(id string) *store.Review {
	for _, review := range app.catalog.Reviews() {
		if review.ID == id {
			r := review
			return &r
		}
	}
	return nil
}

func (app *application) canTouchReview(user *store.User, review *store.Review) bool {
	if user.IsAdmin() {
		return true
	}
	return review.UserID != nil && *review.UserID == user.ID
}
