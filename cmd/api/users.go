package main

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"ziorum/internal/moderation"
	"ziorum/internal/params"
	"ziorum/internal/store"
)

// currentUser godoc
//
//	@Summary	Get the authenticated user's profile
//	@Tags		User
//	@Produce	json
//	@Success	200	{object}	store.User
//	@Failure	401	{object}	error
//	@Security	ApiKeyAuth
//	@Router		/users/me [get]
func (app *application) currentUserHandler(w http.ResponseWriter, r *http.Request) {
	user := getUserFromContext(r)

	if err := app.jsonResponse(w, http.StatusOK, user); err != nil {
		app.internalServerError(w, r, err)
	}
}

// logout godoc
//
//	@Summary		Logout
//	@Description	Invalidates the stored refresh token
//	@Tags			User
//	@Success		204
//	@Failure		500	{object}	error
//	@Security		ApiKeyAuth
//	@Router			/users/logout [post]
func (app *application) logoutHandler(w http.ResponseWriter, r *http.Request) {
	user := getUserFromContext(r)

	// Guests have no stored refresh token to revoke.
	if app.remote {
		if err := app.store.Users.UpdateRefreshToken(r.Context(), user.ID, ""); err != nil {
			app.internalServerError(w, r, err)
			return
		}
	}

	w.WriteHeader(http.StatusNoContent)
}

// listUsers godoc
//
//	@Summary	List users
//	@Tags		admin
//	@Produce	json
//	@Param		limit	query	int	false	"Page size"	default(50)
//	@Param		offset	query	int	false	"Offset"	default(0)
//	@Success	200		{array}	store.User
//	@Security	ApiKeyAuth
//	@Router		/admin/users [get]
func (app *application) listUsersHandler(w http.ResponseWriter, r *http.Request) {
	if !app.requireRemote(w, r) {
		return
	}

	p := params.ParsePagination(r.URL.Query())

	users, err := app.store.Users.List(r.Context(), p.Limit, p.Offset)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, users); err != nil {
		app.internalServerError(w, r, err)
	}
}

type SetRolePayload struct {
	Role string `json:"role" validate:"required"`
}

// setUserRole godoc
//
//	@Summary	Change a user's role
//	@Tags		admin
//	@Accept		json
//	@Param		userID	path	string			true	"User ID"
//	@Param		payload	body	SetRolePayload	true	"New role"
//	@Success	204
//	@Failure	400	{object}	error
//	@Failure	404	{object}	error
//	@Security	ApiKeyAuth
//	@Router		/admin/users/{userID}/role [patch]
func (app *application) setUserRoleHandler(w http.ResponseWriter, r *http.Request) {
	if !app.requireRemote(w, r) {
		return
	}

	userID := chi.URLParam(r, "userID")

	var payload SetRolePayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	switch payload.Role {
	case moderation.RoleUser, moderation.RoleBartender, moderation.RoleAdmin:
	default:
		app.badRequestResponse(w, r, fmt.Errorf("unknown role %q", payload.Role))
		return
	}

	if err := app.store.Users.SetRole(r.Context(), userID, payload.Role); err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			app.notFoundResponse(w, r, err)
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
