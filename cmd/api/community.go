package main

import (
	"net/http"
	"time"

	"ziorum/internal/store"
)

type CreateCommunityPostPayload struct {
	AuthorName string  `json:"author_name" validate:"max=100"`
	Content    string  `json:"content" validate:"required,max=4000"`
	PhotoURL   *string `json:"photo_url,omitempty" validate:"omitempty,url"`
}

type CreateCommunityEventPayload struct {
	Title       string    `json:"title" validate:"required,max=200"`
	Description string    `json:"description" validate:"max=2000"`
	VenueName   *string   `json:"venue_name,omitempty" validate:"omitempty,max=150"`
	EventDate   time.Time `json:"event_date" validate:"required"`
}

type CreateOwnerMessagePayload struct {
	VenueID *string `json:"venue_id,omitempty"`
	Message string  `json:"message" validate:"required,max=2000"`
}

// listCommunityPosts godoc
//
//	@Summary	List approved community posts
//	@Tags		Community
//	@Produce	json
//	@Success	200	{array}	store.CommunityPost
//	@Router		/community/posts [get]
func (app *application) listCommunityPostsHandler(w http.ResponseWriter, r *http.Request) {
	if err := app.jsonResponse(w, http.StatusOK, app.catalog.CommunityPosts(true)); err != nil {
		app.internalServerError(w, r, err)
	}
}

// listCommunityEvents godoc
//
//	@Summary	List approved community events, soonest first
//	@Tags		Community
//	@Produce	json
//	@Success	200	{array}	store.CommunityEvent
//	@Router		/community/events [get]
func (app *application) listCommunityEventsHandler(w http.ResponseWriter, r *http.Request) {
	if err := app.jsonResponse(w, http.StatusOK, app.catalog.CommunityEvents(true)); err != nil {
		app.internalServerError(w, r, err)
	}
}

// listOwnerMessages godoc
//
//	@Summary	List approved owner messages
//	@Tags		Community
//	@Produce	json
//	@Success	200	{array}	store.OwnerMessage
//	@Router		/community/messages [get]
func (app *application) listOwnerMessagesHandler(w http.ResponseWriter, r *http.Request) {
	if err := app.jsonResponse(w, http.StatusOK, app.catalog.OwnerMessages(true)); err != nil {
		app.internalServerError(w, r, err)
	}
}

// createCommunityPost godoc
//
//	@Summary		Create a community post
//	@Description	Posts start unapproved unless created by an admin
//	@Tags			Community
//	@Accept			json
//	@Produce		json
//	@Param			payload	body		CreateCommunityPostPayload	true	"Post"
//	@Success		201		{object}	store.CommunityPost
//	@Failure		400		{object}	error
//	@Security		ApiKeyAuth
//	@Router			/community/posts [post]
func (app *application) createCommunityPostHandler(w http.ResponseWriter, r *http.Request) {
	var payload CreateCommunityPostPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	user := getUserFromContext(r)
	authorName := payload.AuthorName
	if authorName == "" {
		authorName = user.DisplayName
	}

	post := &store.CommunityPost{
		AuthorID:   &user.ID,
		AuthorName: authorName,
		Content:    payload.Content,
		PhotoURL:   payload.PhotoURL,
	}

	if err := app.catalog.AddCommunityPost(r.Context(), post, user.Role); err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if !post.Approved && app.push != nil {
		go func() {
			if err := app.sendPendingContentAlert("post", post.AuthorName); err != nil {
				app.logger.Warnw("pending post push failed", "error", err)
			}
		}()
	}

	if err := app.jsonResponse(w, http.StatusCreated, post); err != nil {
		app.internalServerError(w, r, err)
	}
}

// createCommunityEvent godoc
//
//	@Summary		Create a community event
//	@Description	Events start unapproved unless created by an admin
//	@Tags			Community
//	@Accept			json
//	@Produce		json
//	@Param			payload	body		CreateCommunityEventPayload	true	"Event"
//	@Success		201		{object}	store.CommunityEvent
//	@Failure		400		{object}	error
//	@Security		ApiKeyAuth
//	@Router			/community/events [post]
func (app *application) createCommunityEventHandler(w http.ResponseWriter, r *http.Request) {
	var payload CreateCommunityEventPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	user := getUserFromContext(r)

	event := &store.CommunityEvent{
		AuthorID:    &user.ID,
		AuthorName:  user.DisplayName,
		Title:       payload.Title,
		Description: payload.Description,
		VenueName:   payload.VenueName,
		EventDate:   payload.EventDate,
	}

	if err := app.catalog.AddCommunityEvent(r.Context(), event, user.Role); err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if !event.Approved && app.push != nil {
		go func() {
			if err := app.sendPendingContentAlert("event", event.Title); err != nil {
				app.logger.Warnw("pending event push failed", "error", err)
			}
		}()
	}

	if err := app.jsonResponse(w, http.StatusCreated, event); err != nil {
		app.internalServerError(w, r, err)
	}
}

// createOwnerMessage godoc
//
//	@Summary		Post an owner message
//	@Description	Messages start unapproved unless posted by an admin
//	@Tags			Community
//	@Accept			json
//	@Produce		json
//	@Param			payload	body		CreateOwnerMessagePayload	true	"Message"
//	@Success		201		{object}	store.OwnerMessage
//	@Failure		400		{object}	error
//	@Security		ApiKeyAuth
//	@Router			/community/messages [post]
func (app *application) createOwnerMessageHandler(w http.ResponseWriter, r *http.Request) {
	var payload CreateOwnerMessagePayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	user := getUserFromContext(r)

	msg := &store.OwnerMessage{
		VenueID:    payload.VenueID,
		AuthorName: user.DisplayName,
		Message:    payload.Message,
	}

	if err := app.catalog.AddOwnerMessage(r.Context(), msg, user.Role); err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if !msg.Approved && app.push != nil {
		go func() {
			if err := app.sendPendingContentAlert("message", msg.AuthorName); err != nil {
				app.logger.Warnw("pending message push failed", "error", err)
			}
		}()
	}

	if err := app.jsonResponse(w, http.StatusCreated, msg); err != nil {
		app.internalServerError(w, r, err)
	}
}
