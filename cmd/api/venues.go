package main

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"ziorum/internal/catalog"
	"ziorum/internal/moderation"
	"ziorum/internal/store"
)

type CreateVenuePayload struct {
	Name       string   `json:"name" validate:"required,max=150"`
	City       string   `json:"city" validate:"required,max=100"`
	Country    string   `json:"country" validate:"max=100"`
	Address    string   `json:"address" validate:"max=255"`
	Latitude   *float64 `json:"latitude,omitempty" validate:"omitempty,min=-90,max=90"`
	Longitude  *float64 `json:"longitude,omitempty" validate:"omitempty,min=-180,max=180"`
	Categories []string `json:"categories,omitempty" validate:"max=20"`
	PriceRange string   `json:"price_range,omitempty" validate:"max=10"`
	Phone      *string  `json:"phone,omitempty" validate:"omitempty,max=30"`
	Email      *string  `json:"email,omitempty" validate:"omitempty,email"`
	Website    *string  `json:"website,omitempty" validate:"omitempty,url"`
	CoverURL   *string  `json:"cover_url,omitempty" validate:"omitempty,url"`
	ImageURLs  []string `json:"image_urls,omitempty" validate:"max=10"`
}

// listVenues godoc
//
//	@Summary		List venues
//	@Description	Merged view of approved venues plus locally created ones, with rating aggregates
//	@Tags			Venue
//	@Produce		json
//	@Success		200	{array}	store.Venue
//	@Router			/venues [get]
func (app *application) listVenuesHandler(w http.ResponseWriter, r *http.Request) {
	venues := app.catalog.Venues()

	if err := app.jsonResponse(w, http.StatusOK, venues); err != nil {
		app.internalServerError(w, r, err)
	}
}

// getVenue godoc
//
//	@Summary		Get a venue
//	@Description	Resolves the venue by any of its ids and returns it with aggregates
//	@Tags			Venue
//	@Produce		json
//	@Param			venueID	path		string	true	"Venue ID"
//	@Success		200		{object}	store.Venue
//	@Failure		404		{object}	error
//	@Router			/venues/{venueID} [get]
func (app *application) getVenueHandler(w http.ResponseWriter, r *http.Request) {
	venueID := chi.URLParam(r, "venueID")

	venue, err := app.catalog.VenueByID(venueID)
	if err != nil {
		app.notFoundResponse(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, venue); err != nil {
		app.internalServerError(w, r, err)
	}
}

// createVenue godoc
//
//	@Summary		Submit a venue
//	@Description	Queues a venue for moderation; admins insert approved directly
//	@Tags			Venue
//	@Accept			json
//	@Produce		json
//	@Param			payload	body		CreateVenuePayload	true	"Venue details"
//	@Success		201		{object}	store.Venue
//	@Failure		400		{object}	error
//	@Failure		401		{object}	error
//	@Failure		500		{object}	error
//	@Security		ApiKeyAuth
//	@Router			/venues [post]
func (app *application) createVenueHandler(w http.ResponseWriter, r *http.Request) {
	var payload CreateVenuePayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	user := getUserFromContext(r)

	venue := &store.Venue{
		Name:           payload.Name,
		City:           payload.City,
		Country:        payload.Country,
		Address:        payload.Address,
		Latitude:       payload.Latitude,
		Longitude:      payload.Longitude,
		Categories:     payload.Categories,
		PriceRange:     payload.PriceRange,
		Phone:          payload.Phone,
		Email:          payload.Email,
		Website:        payload.Website,
		CoverURL:  payload.CoverURL,
		ImageURLs: payload.ImageURLs,
	}
	if user.Email != "" {
		venue.SubmitterEmail = &user.Email
	}
	if user.IsAdmin() {
		venue.Status = moderation.VenueApproved
		venue.Verified = true
	}

	pending, err := app.catalog.AddVenue(r.Context(), venue)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if pending && app.push != nil {
		go func() {
			if err := app.sendPendingVenueAlert(venue); err != nil {
				app.logger.Warnw("pending venue push failed", "error", err)
			}
		}()
	}

	if err := app.jsonResponse(w, http.StatusCreated, venue); err != nil {
		app.internalServerError(w, r, err)
	}
}

// updateVenue godoc
//
//	@Summary		Update venue information
//	@Description	Patches editable venue fields; unknown fields are rejected
//	@Tags			Venue
//	@Accept			json
//	@Produce		json
//	@Param			venueID	path	string			true	"Venue ID"
//	@Param			payload	body	map[string]any	true	"Fields to update"
//	@Success		200		{object}	store.Venue
//	@Failure		400		{object}	error
//	@Failure		403		{object}	error
//	@Failure		404		{object}	error
//	@Security		ApiKeyAuth
//	@Router			/venues/{venueID} [patch]
func (app *application) updateVenueHandler(w http.ResponseWriter, r *http.Request) {
	venueID := chi.URLParam(r, "venueID")

	var updates map[string]any
	if err := readJSON(w, r, &updates); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	existing, err := app.catalog.VenueByID(venueID)
	if err != nil {
		app.notFoundResponse(w, r, err)
		return
	}

	user := getUserFromContext(r)
	if !app.canTouchVenue(user, existing) {
		app.forbiddenResponse(w, r)
		return
	}

	if err := app.catalog.UpdateVenue(r.Context(), venueID, updates); err != nil {
		switch {
		case errors.Is(err, catalog.ErrNotFound):
			app.notFoundResponse(w, r, err)
		default:
			app.badRequestResponse(w, r, err)
		}
		return
	}

	venue, err := app.catalog.VenueByID(venueID)
	if err != nil {
		app.notFoundResponse(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, venue); err != nil {
		app.internalServerError(w, r, err)
	}
}

// canTouchVenue allows admins and the venue's submitter. Venues from
// the approved snapshot or the seed carry no submitter, so only admins
// may edit those.
func (app *application) canTouchVenue(user *store.User, venue *store.Venue) bool {
	if user.IsAdmin() {
		return true
	}
	return venue.SubmitterEmail != nil && user.Email != "" && *venue.SubmitterEmail == user.Email
}

// deleteVenue godoc
//
//	@Summary		Delete a venue
//	@Description	Removes the venue and cascades its reviews, in any moderation state
//	@Tags			admin
//	@Param			venueID	path	string	true	"Venue ID"
//	@Success		204
//	@Failure		404	{object}	error
//	@Security		ApiKeyAuth
//	@Router			/admin/venues/{venueID} [delete]
func (app *application) deleteVenueHandler(w http.ResponseWriter, r *http.Request) {
	venueID := chi.URLParam(r, "venueID")

	if err := app.catalog.DeleteVenue(r.Context(), venueID); err != nil {
		switch {
		case errors.Is(err, catalog.ErrNotFound):
			app.notFoundResponse(w, r, err)
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
