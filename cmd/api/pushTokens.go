package main

import (
	"net/http"

	"ziorum/internal/store"
)

// RegisterPushTokenPayload is the payload for registering an Expo device token.
type RegisterPushTokenPayload struct {
	Token string `json:"token" validate:"required"`
}

// registerPushToken godoc
//
//	@Summary		Register a push notification token
//	@Description	Stores or refreshes the user's Expo push token; admin tokens receive moderation alerts
//	@Tags			Notifications
//	@Accept			json
//	@Param			payload	body	RegisterPushTokenPayload	true	"Push token"
//	@Success		204
//	@Failure		400	{object}	error
//	@Failure		503	{object}	error	"No database configured"
//	@Security		ApiKeyAuth
//	@Router			/users/push-tokens [post]
func (app *application) registerPushTokenHandler(w http.ResponseWriter, r *http.Request) {
	if !app.requireRemote(w, r) {
		return
	}

	var payload RegisterPushTokenPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	user := getUserFromContext(r)

	pt := &store.PushToken{
		UserID: user.ID,
		Token:  payload.Token,
	}
	if err := app.store.PushTokens.Register(r.Context(), pt); err != nil {
		app.internalServerError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
