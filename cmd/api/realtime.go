package main

import (
	"net/http"

	"github.com/gorilla/websocket"

	"ziorum/internal/realtime"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// The feed is public read-only data; origin checks add nothing.
		return true
	},
}

// venueFeed godoc
//
//	@Summary		Live venue change feed
//	@Description	Upgrades to a websocket carrying venue insert/update/delete events
//	@Tags			Venue
//	@Router			/ws [get]
func (app *application) venueFeedHandler(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		app.logger.Warnw("ws upgrade failed", "error", err)
		return
	}

	app.hub.Register(realtime.NewClient(conn))
}
