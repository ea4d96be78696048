package main

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"ziorum/internal/catalog"
	"ziorum/internal/store"
)

type ArticlePayload struct {
	Title    string  `json:"title" validate:"required,max=200"`
	Author   string  `json:"author" validate:"max=100"`
	Excerpt  string  `json:"excerpt" validate:"max=500"`
	Content  string  `json:"content" validate:"required"`
	Category string  `json:"category" validate:"max=50"`
	CoverURL *string `json:"cover_url,omitempty" validate:"omitempty,url"`
}

// listArticles godoc
//
//	@Summary	List articles
//	@Tags		Article
//	@Produce	json
//	@Success	200	{array}	store.Article
//	@Router		/articles [get]
func (app *application) listArticlesHandler(w http.ResponseWriter, r *http.Request) {
	if err := app.jsonResponse(w, http.StatusOK, app.catalog.Articles()); err != nil {
		app.internalServerError(w, r, err)
	}
}

// createArticle godoc
//
//	@Summary	Create an article
//	@Tags		admin
//	@Accept		json
//	@Produce	json
//	@Param		payload	body		ArticlePayload	true	"Article"
//	@Success	201		{object}	store.Article
//	@Failure	400		{object}	error
//	@Security	ApiKeyAuth
//	@Router		/admin/articles [post]
func (app *application) createArticleHandler(w http.ResponseWriter, r *http.Request) {
	var payload ArticlePayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	user := getUserFromContext(r)

	article := &store.Article{
		Title:     payload.Title,
		Author:    payload.Author,
		Excerpt:   payload.Excerpt,
		Content:   payload.Content,
		Category:  payload.Category,
		CoverURL:  payload.CoverURL,
		CreatedBy: user.ID,
	}
	if article.Author == "" {
		article.Author = user.DisplayName
	}

	if err := app.catalog.AddArticle(r.Context(), article, user.Role); err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusCreated, article); err != nil {
		app.internalServerError(w, r, err)
	}
}

// updateArticle godoc
//
//	@Summary	Update an article
//	@Tags		admin
//	@Accept		json
//	@Produce	json
//	@Param		articleID	path		string			true	"Article ID"
//	@Param		payload		body		ArticlePayload	true	"Article"
//	@Success	200			{object}	store.Article
//	@Failure	404			{object}	error
//	@Security	ApiKeyAuth
//	@Router		/admin/articles/{articleID} [patch]
func (app *application) updateArticleHandler(w http.ResponseWriter, r *http.Request) {
	articleID := chi.URLParam(r, "articleID")

	var payload ArticlePayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	var existing *store.Article
	for _, a := range app.catalog.Articles() {
		if a.ID == articleID {
			copied := a
			existing = &copied
			break
		}
	}
	if existing == nil {
		app.notFoundResponse(w, r, store.ErrNotFound)
		return
	}

	existing.Title = payload.Title
	existing.Author = payload.Author
	existing.Excerpt = payload.Excerpt
	existing.Content = payload.Content
	existing.Category = payload.Category
	existing.CoverURL = payload.CoverURL

	if err := app.catalog.UpdateArticle(r.Context(), existing); err != nil {
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

// deleteArticle godoc
//
//	@Summary	Delete an article
//	@Tags		admin
//	@Param		articleID	path	string	true	"Article ID"
//	@Success	204
//	@Failure	404	{object}	error
//	@Security	ApiKeyAuth
//	@Router		/admin/articles/{articleID} [delete]
func (app *application) deleteArticleHandler(w http.ResponseWriter, r *http.Request) {
	articleID := chi.URLParam(r, "articleID")

	if err := app.catalog.DeleteArticle(r.Context(), articleID); err != nil {
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
