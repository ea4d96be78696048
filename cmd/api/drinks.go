package main

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"ziorum/internal/catalog"
	"ziorum/internal/store"
)

type DrinkPayload struct {
	Name        string   `json:"name" validate:"required,max=150"`
	Category    string   `json:"category" validate:"required,max=50"`
	Description string   `json:"description" validate:"max=2000"`
	Origin      string   `json:"origin" validate:"max=100"`
	ABV         *float64 `json:"abv,omitempty" validate:"omitempty,min=0,max=100"`
	ImageURL    *string  `json:"image_url,omitempty" validate:"omitempty,url"`
}

// listDrinks godoc
//
//	@Summary	List drinks
//	@Tags		Drink
//	@Produce	json
//	@Success	200	{array}	store.Drink
//	@Router		/drinks [get]
func (app *application) listDrinksHandler(w http.ResponseWriter, r *http.Request) {
	if err := app.jsonResponse(w, http.StatusOK, app.catalog.Drinks()); err != nil {
		app.internalServerError(w, r, err)
	}
}

// createDrink godoc
//
//	@Summary	Create a drink
//	@Tags		admin
//	@Accept		json
//	@Produce	json
//	@Param		payload	body		DrinkPayload	true	"Drink"
//	@Success	201		{object}	store.Drink
//	@Failure	400		{object}	error
//	@Security	ApiKeyAuth
//	@Router		/admin/drinks [post]
func (app *application) createDrinkHandler(w http.ResponseWriter, r *http.Request) {
	var payload DrinkPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	user := getUserFromContext(r)

	drink := &store.Drink{
		Name:        payload.Name,
		Category:    payload.Category,
		Description: payload.Description,
		OriginLand:  payload.Origin,
		ABV:         payload.ABV,
		ImageURL:    payload.ImageURL,
		CreatedBy:   user.ID,
	}

	if err := app.catalog.AddDrink(r.Context(), drink, user.Role); err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusCreated, drink); err != nil {
		app.internalServerError(w, r, err)
	}
}

// updateDrink godoc
//
//	@Summary	Update a drink
//	@Tags		admin
//	@Accept		json
//	@Produce	json
//	@Param		drinkID	path		string			true	"Drink ID"
//	@Param		payload	body		DrinkPayload	true	"Drink"
//	@Success	200		{object}	store.Drink
//	@Failure	404		{object}	error
//	@Security	ApiKeyAuth
//	@Router		/admin/drinks/{drinkID} [patch]
func (app *application) updateDrinkHandler(w http.ResponseWriter, r *http.Request) {
	drinkID := chi.URLParam(r, "drinkID")

	var payload DrinkPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	var existing *store.Drink
	for _, d := range app.catalog.Drinks() {
		if d.ID == drinkID {
			copied := d
			existing = &copied
			break
		}
	}
	if existing == nil {
		app.notFoundResponse(w, r, store.ErrNotFound)
		return
	}

	existing.Name = payload.Name
	existing.Category = payload.Category
	existing.Description = payload.Description
	existing.OriginLand = payload.Origin
	existing.ABV = payload.ABV
	existing.ImageURL = payload.ImageURL

	if err := app.catalog.UpdateDrink(r.Context(), existing); err != nil {
		switch {
		case errors.Is(err, catalog.ErrNotFound):
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

// deleteDrink godoc
//
//	@Summary	Delete a drink
//	@Tags		admin
//	@Param		drinkID	path	string	true	"Drink ID"
//	@Success	204
//	@Failure	404	{object}	error
//	@Security	ApiKeyAuth
//	@Router		/admin/drinks/{drinkID} [delete]
func (app *application) deleteDrinkHandler(w http.ResponseWriter, r *http.Request) {
	drinkID := chi.URLParam(r, "drinkID")

	if err := app.catalog.DeleteDrink(r.Context(), drinkID); err != nil {
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
