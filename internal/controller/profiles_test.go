package controller_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tugasku/pkg/models"
)

func TestGetProfileMissingYieldsEmptyObject(t *testing.T) {
	e := setup(t)

	rec := e.request(t, http.MethodGet, "/api/profiles", "dev-1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"data":{}}`, rec.Body.String())
}

func TestProfileUpsertKeepsOneRow(t *testing.T) {
	e := setup(t)

	rec := e.request(t, http.MethodPost, "/api/profiles", "dev-1", map[string]interface{}{
		"name": "Budi", "student_id": "13520001",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	var first models.Profile
	decodeData(t, rec, &first)

	// second save for the same device replaces, not duplicates
	rec = e.request(t, http.MethodPost, "/api/profiles", "dev-1", map[string]interface{}{
		"name": "Budi Santoso",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	var second models.Profile
	decodeData(t, rec, &second)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "Budi Santoso", second.Name)

	e.profiles.mu.Lock()
	assert.Len(t, e.profiles.profiles, 1)
	e.profiles.mu.Unlock()

	rec = e.request(t, http.MethodGet, "/api/profiles", "dev-1", nil)
	var fetched models.Profile
	decodeData(t, rec, &fetched)
	assert.Equal(t, "Budi Santoso", fetched.Name)
}

func TestProfilePutAlsoUpserts(t *testing.T) {
	e := setup(t)

	rec := e.request(t, http.MethodPut, "/api/profiles", "dev-1", map[string]interface{}{
		"name": "Sari", "major": "Informatika",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	var p models.Profile
	decodeData(t, rec, &p)
	assert.Equal(t, "Sari", p.Name)
	assert.Equal(t, "Informatika", p.Major)
}

func TestProfileRequiresName(t *testing.T) {
	e := setup(t)

	rec := e.request(t, http.MethodPost, "/api/profiles", "dev-1", map[string]interface{}{
		"bio": "no name",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Profile name is required", message(t, rec))
}

func TestGetProfileByID(t *testing.T) {
	e := setup(t)

	rec := e.request(t, http.MethodPost, "/api/profiles", "dev-1", map[string]interface{}{"name": "Budi"})
	var p models.Profile
	decodeData(t, rec, &p)

	rec = e.request(t, http.MethodGet, "/api/profiles/"+p.ID, "dev-1", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	// same id under another device is invisible
	rec = e.request(t, http.MethodGet, "/api/profiles/"+p.ID, "dev-2", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMissingDeviceHeader(t *testing.T) {
	e := setup(t)

	rec := e.request(t, http.MethodGet, "/api/profiles", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Device ID missing", message(t, rec))
}
