package main

import (
	"errors"
	"net/http"

	"ziorum/internal/catalog"
)

// syncVenues godoc
//
//	@Summary		Push local venues to the database
//	@Description	Submits every local-origin venue as pending and re-keys its reviews; partial failures are reported per item
//	@Tags			admin
//	@Produce		json
//	@Success		200	{array}	catalog.SyncOutcome
//	@Failure		503	{object}	error	"No database configured"
//	@Security		ApiKeyAuth
//	@Router			/admin/sync [post]
func (app *application) syncVenuesHandler(w http.ResponseWriter, r *http.Request) {
	outcomes, err := app.catalog.SyncLocalVenues(r.Context())
	if err != nil {
		switch {
		case errors.Is(err, catalog.ErrRemoteNotConfigured):
			app.serviceUnavailableResponse(w, r, err)
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, outcomes); err != nil {
		app.internalServerError(w, r, err)
	}
}
