package main

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/go-chi/chi/v5"

	"ziorum/internal/catalog"
)

const maxUploadBytes = 10 << 20 // 10mb

// uploadToCloudinary uploads one file under the given folder with a
// deterministic public ID.
func (app *application) uploadToCloudinary(r *http.Request, file io.Reader, folder, publicID string) (string, error) {
	resp, err := app.cld.Upload.Upload(
		r.Context(),
		file,
		uploader.UploadParams{
			Folder:    folder,
			PublicID:  publicID,
			Overwrite: api.Bool(false),
		},
	)
	if err != nil {
		return "", fmt.Errorf("cloudinary upload: %w", err)
	}
	return resp.SecureURL, nil
}

func (app *application) deletePhotoFromCloudinary(r *http.Request, photoURL string) error {
	publicID, err := extractPublicIDFromURL(photoURL)
	if err != nil {
		return fmt.Errorf("failed to extract public ID: %w", err)
	}

	_, err = app.cld.Upload.Destroy(r.Context(), uploader.DestroyParams{
		PublicID: publicID,
	})
	if err != nil {
		return fmt.Errorf("failed to delete photo from Cloudinary: %w", err)
	}

	return nil
}

// Helper function to extract the public ID from the Cloudinary URL
func extractPublicIDFromURL(photoURL string) (string, error) {
	parsedURL, err := url.Parse(photoURL)
	if err != nil {
		return "", fmt.Errorf("invalid URL format: %w", err)
	}

	pathParts := strings.Split(parsedURL.Path, "/")
	for i, part := range pathParts {
		if part == "upload" && i+1 < len(pathParts) {
			return strings.Join(pathParts[i+1:], "/"), nil
		}
	}

	return "", errors.New("failed to extract public ID from URL")
}

// uploadVenuePhoto godoc
//
//	@Summary		Upload a venue photo
//	@Description	Multipart upload; the stored URL is appended to the venue's image list
//	@Tags			Venue
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			venueID	path		string	true	"Venue ID"
//	@Param			photo	formData	file	true	"Photo"
//	@Success		200		{object}	map[string]string
//	@Failure		400		{object}	error
//	@Failure		404		{object}	error
//	@Security		ApiKeyAuth
//	@Router			/venues/{venueID}/photos [post]
func (app *application) uploadVenuePhotoHandler(w http.ResponseWriter, r *http.Request) {
	if app.cld == nil {
		app.serviceUnavailableResponse(w, r, errors.New("media uploads are not configured"))
		return
	}

	venueID := chi.URLParam(r, "venueID")

	venue, err := app.catalog.VenueByID(venueID)
	if err != nil {
		app.notFoundResponse(w, r, err)
		return
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	file, header, err := r.FormFile("photo")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	defer file.Close()

	publicID := fmt.Sprintf("venue_%s_%d", venue.ID, len(venue.ImageURLs)+1)
	photoURL, err := app.uploadToCloudinary(r, file, "venues", publicID)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	updates := map[string]any{
		"image_urls": append(venue.ImageURLs, photoURL),
	}
	if err := app.catalog.UpdateVenue(r.Context(), venueID, updates); err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			app.notFoundResponse(w, r, err)
			return
		}
		app.internalServerError(w, r, err)
		return
	}

	app.logger.Infow("venue photo uploaded", "venue", venue.ID, "file", header.Filename)

	if err := app.jsonResponse(w, http.StatusOK, map[string]string{"url": photoURL}); err != nil {
		app.internalServerError(w, r, err)
	}
}

// uploadAvatar godoc
//
//	@Summary	Upload a profile picture
//	@Tags		User
//	@Accept		multipart/form-data
//	@Produce	json
//	@Param		avatar	formData	file	true	"Avatar image"
//	@Success	200		{object}	map[string]string
//	@Failure	400		{object}	error
//	@Security	ApiKeyAuth
//	@Router		/users/avatar [post]
func (app *application) uploadAvatarHandler(w http.ResponseWriter, r *http.Request) {
	if app.cld == nil {
		app.serviceUnavailableResponse(w, r, errors.New("media uploads are not configured"))
		return
	}

	user := getUserFromContext(r)

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	file, _, err := r.FormFile("avatar")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	defer file.Close()

	avatarURL, err := app.uploadToCloudinary(r, file, "avatars", "user_"+user.ID)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, map[string]string{"url": avatarURL}); err != nil {
		app.internalServerError(w, r, err)
	}
}
