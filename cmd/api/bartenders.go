package main

import (
	"errors"
	"fmt"
	"net/http"

	"ziorum/internal/moderation"
	"ziorum/internal/store"
)

type CreateBartenderPayload struct {
	DisplayName string   `json:"display_name" validate:"required,max=100"`
	Bio         string   `json:"bio" validate:"max=2000"`
	VenueID     *string  `json:"venue_id,omitempty"`
	VenueName   *string  `json:"venue_name,omitempty" validate:"omitempty,max=150"`
	Specialties []string `json:"specialties,omitempty" validate:"max=20"`
	PhotoURL    *string  `json:"photo_url,omitempty" validate:"omitempty,url"`
}

// listBartenders godoc
//
//	@Summary		List bartender profiles
//	@Description	Filterable by status (approved, featured); defaults to every publicly visible profile
//	@Tags			Bartender
//	@Produce		json
//	@Param			status	query	string	false	"Profile status filter"
//	@Success		200		{array}	store.Bartender
//	@Failure		400		{object}	error
//	@Router			/bartenders [get]
func (app *application) listBartendersHandler(w http.ResponseWriter, r *http.Request) {
	var filter *moderation.ProfileStatus

	if raw := r.URL.Query().Get("status"); raw != "" {
		status := moderation.ProfileStatus(raw)
		if !status.Valid() {
			app.badRequestResponse(w, r, fmt.Errorf("unknown status %q", raw))
			return
		}
		filter = &status
	}

	if err := app.jsonResponse(w, http.StatusOK, app.catalog.Bartenders(filter)); err != nil {
		app.internalServerError(w, r, err)
	}
}

// createBartender godoc
//
//	@Summary		Submit a bartender profile
//	@Description	Creates a profile tied to a venue by id or free-text name (exactly one); starts pending unless created by an admin
//	@Tags			Bartender
//	@Accept			json
//	@Produce		json
//	@Param			payload	body		CreateBartenderPayload	true	"Profile"
//	@Success		201		{object}	store.Bartender
//	@Failure		400		{object}	error
//	@Security		ApiKeyAuth
//	@Router			/bartenders [post]
func (app *application) createBartenderHandler(w http.ResponseWriter, r *http.Request) {
	var payload CreateBartenderPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if (payload.VenueID == nil) == (payload.VenueName == nil) {
		app.badRequestResponse(w, r, errors.New("exactly one of venue_id and venue_name is required"))
		return
	}

	user := getUserFromContext(r)

	bartender := &store.Bartender{
		UserID:      &user.ID,
		DisplayName: payload.DisplayName,
		Bio:         payload.Bio,
		VenueID:     payload.VenueID,
		VenueName:   payload.VenueName,
		Specialties: payload.Specialties,
		PhotoURL:    payload.PhotoURL,
	}

	if err := app.catalog.AddBartender(r.Context(), bartender, user.Role); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if bartender.Status == moderation.ProfilePending && app.push != nil {
		go func() {
			if err := app.sendPendingContentAlert("bartender", bartender.DisplayName); err != nil {
				app.logger.Warnw("pending bartender push failed", "error", err)
			}
		}()
	}

	if err := app.jsonResponse(w, http.StatusCreated, bartender); err != nil {
		app.internalServerError(w, r, err)
	}
}
