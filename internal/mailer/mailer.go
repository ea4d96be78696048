package mailer

import "embed"

const (
	FromName              = "Lo Zio del Rum"
	maxRetires            = 3
	VenueApprovedTemplate = "venue_approved.tmpl"
	VenueRejectedTemplate = "venue_rejected.tmpl"
)

//go:embed "templates"
var FS embed.FS

type Client interface {
	Send(templateFile, username, email string, data any) (int, error)
}
