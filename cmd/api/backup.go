package main

import (
	"net/http"

	"ziorum/internal/catalog"
)

// exportBackup godoc
//
//	@Summary		Export a backup document
//	@Description	Full snapshot of every collection, versioned; derived fields are stripped
//	@Tags			Backup
//	@Produce		json
//	@Success		200	{object}	catalog.Backup
//	@Security		ApiKeyAuth
//	@Router			/backup/export [get]
func (app *application) exportBackupHandler(w http.ResponseWriter, r *http.Request) {
	doc := app.catalog.Export()

	if err := app.jsonResponse(w, http.StatusOK, doc); err != nil {
		app.internalServerError(w, r, err)
	}
}

// importBackup godoc
//
//	@Summary		Import a backup document
//	@Description	Replaces in-memory state from a backup; rejects documents newer than this build understands
//	@Tags			Backup
//	@Accept			json
//	@Success		204
//	@Failure		400	{object}	error
//	@Security		ApiKeyAuth
//	@Router			/backup/import [post]
func (app *application) importBackupHandler(w http.ResponseWriter, r *http.Request) {
	var doc catalog.Backup
	if err := readJSON(w, r, &doc); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := app.catalog.Import(doc); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
