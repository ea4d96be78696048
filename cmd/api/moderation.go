package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"ziorum/internal/catalog"
	"ziorum/internal/mailer"
	"ziorum/internal/moderation"
	"ziorum/internal/notifications"
	"ziorum/internal/store"
)

// pendingVenues godoc
//
//	@Summary	List venues awaiting moderation
//	@Tags		admin
//	@Produce	json
//	@Success	200	{array}	store.Venue
//	@Security	ApiKeyAuth
//	@Router		/admin/pending/venues [get]
func (app *application) pendingVenuesHandler(w http.ResponseWriter, r *http.Request) {
	if app.remote {
		venues, err := app.store.Venues.ListByStatus(r.Context(), moderation.VenuePending)
		if err != nil {
			app.internalServerError(w, r, err)
			return
		}
		if err := app.jsonResponse(w, http.StatusOK, venues); err != nil {
			app.internalServerError(w, r, err)
		}
		return
	}

	pending := make([]store.Venue, 0)
	for _, v := range app.catalog.LocalVenuesToSync() {
		if v.Status == moderation.VenuePending {
			pending = append(pending, v)
		}
	}

	if err := app.jsonResponse(w, http.StatusOK, pending); err != nil {
		app.internalServerError(w, r, err)
	}
}

// pendingBartenders godoc
//
//	@Summary	List bartender profiles awaiting moderation
//	@Tags		admin
//	@Produce	json
//	@Success	200	{array}	store.Bartender
//	@Security	ApiKeyAuth
//	@Router		/admin/pending/bartenders [get]
func (app *application) pendingBartendersHandler(w http.ResponseWriter, r *http.Request) {
	status := moderation.ProfilePending

	if err := app.jsonResponse(w, http.StatusOK, app.catalog.Bartenders(&status)); err != nil {
		app.internalServerError(w, r, err)
	}
}

type pendingCommunity struct {
	Messages []store.OwnerMessage   `json:"messages"`
	Events   []store.CommunityEvent `json:"events"`
	Posts    []store.CommunityPost  `json:"posts"`
}

// pendingCommunity godoc
//
//	@Summary	List unapproved community content
//	@Tags		admin
//	@Produce	json
//	@Success	200	{object}	pendingCommunity
//	@Security	ApiKeyAuth
//	@Router		/admin/pending/community [get]
func (app *application) pendingCommunityHandler(w http.ResponseWriter, r *http.Request) {
	result := pendingCommunity{
		Messages: make([]store.OwnerMessage, 0),
		Events:   make([]store.CommunityEvent, 0),
		Posts:    make([]store.CommunityPost, 0),
	}

	for _, m := range app.catalog.OwnerMessages(false) {
		if !m.Approved {
			result.Messages = append(result.Messages, m)
		}
	}
	for _, e := range app.catalog.CommunityEvents(false) {
		if !e.Approved {
			result.Events = append(result.Events, e)
		}
	}
	for _, p := range app.catalog.CommunityPosts(false) {
		if !p.Approved {
			result.Posts = append(result.Posts, p)
		}
	}

	if err := app.jsonResponse(w, http.StatusOK, result); err != nil {
		app.internalServerError(w, r, err)
	}
}

type ApproveVenuePayload struct {
	Latitude  *float64 `json:"latitude,omitempty" validate:"omitempty,min=-90,max=90"`
	Longitude *float64 `json:"longitude,omitempty" validate:"omitempty,min=-180,max=180"`
}

// approveVenue godoc
//
//	@Summary		Approve a pending venue
//	@Description	Moves a pending venue to approved, optionally patching its coordinates
//	@Tags			admin
//	@Accept			json
//	@Param			venueID	path	string				true	"Venue ID"
//	@Param			payload	body	ApproveVenuePayload	false	"Coordinate patch"
//	@Success		204
//	@Failure		404	{object}	error
//	@Failure		409	{object}	error	"Not in a state that can be approved"
//	@Security		ApiKeyAuth
//	@Router			/admin/venues/{venueID}/approve [post]
func (app *application) approveVenueHandler(w http.ResponseWriter, r *http.Request) {
	venueID := chi.URLParam(r, "venueID")

	// The coordinate patch body is optional.
	var payload ApproveVenuePayload
	if err := readJSON(w, r, &payload); err != nil && !errors.Is(err, io.EOF) {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	recipient := app.venueSubmitter(r.Context(), venueID)

	if err := app.catalog.ApproveVenue(r.Context(), venueID, payload.Latitude, payload.Longitude); err != nil {
		app.moderationErrorResponse(w, r, err)
		return
	}

	app.notifyVenueOutcome(recipient, mailer.VenueApprovedTemplate)

	w.WriteHeader(http.StatusNoContent)
}

// rejectVenue godoc
//
//	@Summary		Reject a pending venue
//	@Description	Marks the venue rejected; the record is kept and can still be deleted
//	@Tags			admin
//	@Param			venueID	path	string	true	"Venue ID"
//	@Success		204
//	@Failure		404	{object}	error
//	@Failure		409	{object}	error	"Not in a state that can be rejected"
//	@Security		ApiKeyAuth
//	@Router			/admin/venues/{venueID}/reject [post]
func (app *application) rejectVenueHandler(w http.ResponseWriter, r *http.Request) {
	venueID := chi.URLParam(r, "venueID")

	recipient := app.venueSubmitter(r.Context(), venueID)

	if err := app.catalog.RejectVenue(r.Context(), venueID); err != nil {
		app.moderationErrorResponse(w, r, err)
		return
	}

	app.notifyVenueOutcome(recipient, mailer.VenueRejectedTemplate)

	w.WriteHeader(http.StatusNoContent)
}

type SetBartenderStatusPayload struct {
	Status moderation.ProfileStatus `json:"status" validate:"required"`
}

// setBartenderStatus godoc
//
//	@Summary		Transition a bartender profile
//	@Description	pending→approved, approved⇄featured; anything else answers 409
//	@Tags			admin
//	@Accept			json
//	@Param			bartenderID	path	string						true	"Bartender ID"
//	@Param			payload		body	SetBartenderStatusPayload	true	"Target status"
//	@Success		204
//	@Failure		404	{object}	error
//	@Failure		409	{object}	error
//	@Security		ApiKeyAuth
//	@Router			/admin/bartenders/{bartenderID}/status [post]
func (app *application) setBartenderStatusHandler(w http.ResponseWriter, r *http.Request) {
	bartenderID := chi.URLParam(r, "bartenderID")

	var payload SetBartenderStatusPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if !payload.Status.Valid() {
		app.badRequestResponse(w, r, fmt.Errorf("unknown status %q", payload.Status))
		return
	}

	if err := app.catalog.SetBartenderStatus(r.Context(), bartenderID, payload.Status); err != nil {
		app.moderationErrorResponse(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// deleteBartender godoc
//
//	@Summary		Delete a bartender profile
//	@Description	Also how a pending profile is rejected
//	@Tags			admin
//	@Param			bartenderID	path	string	true	"Bartender ID"
//	@Success		204
//	@Failure		404	{object}	error
//	@Security		ApiKeyAuth
//	@Router			/admin/bartenders/{bartenderID} [delete]
func (app *application) deleteBartenderHandler(w http.ResponseWriter, r *http.Request) {
	bartenderID := chi.URLParam(r, "bartenderID")

	if err := app.catalog.DeleteBartender(r.Context(), bartenderID); err != nil {
		app.moderationErrorResponse(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type SetApprovedPayload struct {
	Approved bool `json:"approved"`
}

// setCommunityApproved godoc
//
//	@Summary	Approve or un-approve community content
//	@Tags		admin
//	@Accept		json
//	@Param		kind	path	string				true	"messages | events | posts"
//	@Param		itemID	path	string				true	"Item ID"
//	@Param		payload	body	SetApprovedPayload	true	"Approval flag"
//	@Success	204
//	@Failure	400	{object}	error
//	@Failure	404	{object}	error
//	@Security	ApiKeyAuth
//	@Router		/admin/community/{kind}/{itemID}/approved [post]
func (app *application) setCommunityApprovedHandler(w http.ResponseWriter, r *http.Request) {
	kind := chi.URLParam(r, "kind")
	itemID := chi.URLParam(r, "itemID")

	var payload SetApprovedPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	var err error
	switch kind {
	case "messages":
		err = app.catalog.SetOwnerMessageApproved(r.Context(), itemID, payload.Approved)
	case "events":
		err = app.catalog.SetCommunityEventApproved(r.Context(), itemID, payload.Approved)
	case "posts":
		err = app.catalog.SetCommunityPostApproved(r.Context(), itemID, payload.Approved)
	default:
		app.badRequestResponse(w, r, fmt.Errorf("unknown content kind %q", kind))
		return
	}

	if err != nil {
		app.moderationErrorResponse(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// deleteCommunityItem godoc
//
//	@Summary		Delete community content
//	@Description	Deletion doubles as rejection for unapproved content
//	@Tags			admin
//	@Param			kind	path	string	true	"messages | events | posts"
//	@Param			itemID	path	string	true	"Item ID"
//	@Success		204
//	@Failure		400	{object}	error
//	@Failure		404	{object}	error
//	@Security		ApiKeyAuth
//	@Router			/admin/community/{kind}/{itemID} [delete]
func (app *application) deleteCommunityItemHandler(w http.ResponseWriter, r *http.Request) {
	kind := chi.URLParam(r, "kind")
	itemID := chi.URLParam(r, "itemID")

	var err error
	switch kind {
	case "messages":
		err = app.catalog.DeleteOwnerMessage(r.Context(), itemID)
	case "events":
		err = app.catalog.DeleteCommunityEvent(r.Context(), itemID)
	case "posts":
		err = app.catalog.DeleteCommunityPost(r.Context(), itemID)
	default:
		app.badRequestResponse(w, r, fmt.Errorf("unknown content kind %q", kind))
		return
	}

	if err != nil {
		app.moderationErrorResponse(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (app *application) moderationErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, moderation.ErrInvalidTransition):
		app.conflictResponse(w, r, err)
	case errors.Is(err, catalog.ErrNotFound), errors.Is(err, store.ErrNotFound):
		app.notFoundResponse(w, r, err)
	default:
		app.internalServerError(w, r, err)
	}
}

type venueOutcomeRecipient struct {
	email     string
	username  string
	venueName string
}

// venueSubmitter resolves the submitter's email before the transition
// mutates or reloads the record.
func (app *application) venueSubmitter(ctx context.Context, venueID string) *venueOutcomeRecipient {
	var venue *store.Venue

	if v, err := app.catalog.VenueByID(venueID); err == nil {
		venue = v
	} else if app.remote {
		if v, err := app.store.Venues.GetByID(ctx, venueID); err == nil {
			venue = v
		}
	}

	if venue == nil || venue.SubmitterEmail == nil || *venue.SubmitterEmail == "" {
		return nil
	}

	return &venueOutcomeRecipient{
		email:     *venue.SubmitterEmail,
		username:  venue.Name,
		venueName: venue.Name,
	}
}

// notifyVenueOutcome emails the submitter, best effort.
func (app *application) notifyVenueOutcome(recipient *venueOutcomeRecipient, template string) {
	if recipient == nil || app.mailer == nil {
		return
	}

	go func() {
		vars := struct {
			Username  string
			VenueName string
		}{
			Username:  recipient.username,
			VenueName: recipient.venueName,
		}

		if _, err := app.mailer.Send(template, recipient.username, recipient.email, vars); err != nil {
			app.logger.Warnw("moderation outcome email failed", "template", template, "error", err)
		}
	}()
}

func (app *application) sendPendingVenueAlert(venue *store.Venue) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if !app.remote {
		return nil
	}
	return notifications.SendPendingVenueToAdmins(ctx, app.push, &app.store, venue.Name, venue.ID)
}

func (app *application) sendPendingContentAlert(kind, label string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if !app.remote {
		return nil
	}
	return notifications.SendPendingContentToAdmins(ctx, app.push, &app.store, kind, label)
}
