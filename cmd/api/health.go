package main

import "net/http"

// healthCheck godoc
//
//	@Summary		Healthcheck
//	@Description	Reports the service status, environment and storage mode
//	@Tags			ops
//	@Produce		json
//	@Success		200	{object}	map[string]string
//	@Router			/health [get]
func (app *application) healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	mode := "demo"
	if app.remote {
		mode = "database"
	}

	data := map[string]string{
		"status":  "ok",
		"env":     app.config.env,
		"version": version,
		"mode":    mode,
	}

	if err := app.jsonResponse(w, http.StatusOK, data); err != nil {
		app.internalServerError(w, r, err)
	}
}
