package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"ziorum/internal/auth"
	"ziorum/internal/catalog"
	"ziorum/internal/moderation"
	"ziorum/internal/ratelimiter"
	"ziorum/internal/seed"
	"ziorum/internal/store"
)

// newDemoApp builds an application without a database, the way main
// does when DB_ADDR is unset.
func newDemoApp(t *testing.T) *application {
	t.Helper()

	cat, err := catalog.New(catalog.Options{Seed: seed.Demo(), LocalSalt: "demo-test"})
	require.NoError(t, err)
	require.NoError(t, cat.Load(context.Background()))

	return &application{
		config:        config{rateLimiter: ratelimiter.Config{Enabled: false}},
		catalog:       cat,
		logger:        zap.NewNop().Sugar(),
		authenticator: auth.NewJWTAuthenticator("access-secret", "refresh-secret", "ziorum", "ziorum"),
		rateLimiter:   ratelimiter.NewFixedWindowLimiter(100, time.Minute),
	}
}

func (app *application) testToken(t *testing.T, userID, role string) string {
	t.Helper()
	access, _, err := app.authenticator.GenerateTokens(userID, role)
	require.NoError(t, err)
	return access
}

func doJSON(t *testing.T, h http.Handler, method, target, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestDemoModeAcceptsVenueSubmission(t *testing.T) {
	app := newDemoApp(t)
	mux := app.mount()
	token := app.testToken(t, "guest-1", moderation.RoleUser)

	rr := doJSON(t, mux, http.MethodPost, "/v1/venues", token, map[string]any{
		"name": "Bar Nuovo", "city": "Palermo", "country": "Italia",
	})
	require.Equal(t, http.StatusCreated, rr.Code)

	var resp struct {
		Data store.Venue `json:"data"`
	}
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.NotEmpty(t, resp.Data.ID)
	assert.Equal(t, moderation.VenuePending, resp.Data.Status)

	// The submission landed in the catalog, awaiting moderation.
	v, err := app.catalog.VenueByID(resp.Data.ID)
	require.NoError(t, err)
	assert.Equal(t, moderation.VenuePending, v.Status)
}

func TestDemoModeGuestIsNeverAdmin(t *testing.T) {
	app := newDemoApp(t)
	mux := app.mount()

	// An admin role claim cannot be verified against a users table, so
	// the caller degrades to guest and admin routes stay closed.
	token := app.testToken(t, "guest-2", moderation.RoleAdmin)

	rr := doJSON(t, mux, http.MethodPost, "/v1/admin/sync", token, nil)
	assert.Equal(t, http.StatusForbidden, rr.Code)
}

func TestCreateReviewRequiresARatedCategory(t *testing.T) {
	app := newDemoApp(t)
	mux := app.mount()
	token := app.testToken(t, "guest-3", moderation.RoleUser)

	rr := doJSON(t, mux, http.MethodPost, "/v1/venues/vnKe42xq/reviews", token, map[string]any{
		"content": "bel posto ma nessun voto",
	})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestUpdateVenueRequiresAuthorOrAdmin(t *testing.T) {
	app := newDemoApp(t)
	mux := app.mount()
	token := app.testToken(t, "guest-4", moderation.RoleUser)

	rr := doJSON(t, mux, http.MethodPatch, "/v1/venues/vnKe42xq", token, map[string]any{
		"name": "Nome Cambiato",
	})
	assert.Equal(t, http.StatusForbidden, rr.Code)
}
