package submit

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ziorum/internal/store"
)

func TestAddVenueReturnsQueueID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/add-venue", r.URL.Path)

		var v store.Venue
		require.NoError(t, json.NewDecoder(r.Body).Decode(&v))
		assert.Equal(t, "Bar Paradiso", v.Name)

		json.NewEncoder(w).Encode(map[string]any{"ok": true, "id": "q-123"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	id, err := c.AddVenue(context.Background(), store.Venue{Name: "Bar Paradiso"})
	require.NoError(t, err)
	assert.Equal(t, "q-123", id)
}

func TestAddVenueBootstrapsSchemaOnce(t *testing.T) {
	var initCalls, addCalls atomic.Int32

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/init-db":
			initCalls.Add(1)
			json.NewEncoder(w).Encode(map[string]any{"ok": true})
		case "/api/add-venue":
			if addCalls.Add(1) == 1 {
				w.WriteHeader(http.StatusInternalServerError)
				json.NewEncoder(w).Encode(map[string]string{"error": `relation "venues" does not exist`})
				return
			}
			json.NewEncoder(w).Encode(map[string]any{"ok": true, "id": "q-9"})
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	id, err := c.AddVenue(context.Background(), store.Venue{Name: "Rum Corner"})
	require.NoError(t, err)
	assert.Equal(t, "q-9", id)
	assert.Equal(t, int32(1), initCalls.Load())
	assert.Equal(t, int32(2), addCalls.Load())
}

func TestVenueActionFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"ok": false})
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	err := c.VenueAction(context.Background(), "approve", "v1", nil, nil)
	assert.Error(t, err)
}

func TestPendingVenues(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		json.NewEncoder(w).Encode(map[string]any{
			"ok":   true,
			"data": []map[string]any{{"name": "Drago Verde"}, {"name": "La Cuba"}},
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	venues, err := c.PendingVenues(context.Background())
	require.NoError(t, err)
	require.Len(t, venues, 2)
	assert.Equal(t, "Drago Verde", venues[0].Name)
}
