package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blockedby/application-tracker/internal/catalog"
	"github.com/blockedby/application-tracker/internal/models"
)

func TestCatalogAPI_Catalog(t *testing.T) {
	h := NewCatalogHandler(catalog.Default())

	rec := httptest.NewRecorder()
	h.Catalog(rec, httptest.NewRequest("GET", "/api/catalog", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp CatalogResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "FR", resp.DefaultCountry)
	assert.Contains(t, resp.Attachments, "CV_Junior_Dev.pdf")
	require.Len(t, resp.Statuses, len(models.Statuses()))
	assert.Equal(t, models.StatusSent, resp.Statuses[0].Value)
	assert.Equal(t, "Envoyée", resp.Statuses[0].Label)
}

func TestCatalogAPI_Countries(t *testing.T) {
	h := NewCatalogHandler(nil)

	rec := httptest.NewRecorder()
	h.Countries(rec, httptest.NewRequest("GET", "/api/countries?q=allem", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp []CountryResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.NotEmpty(t, resp)
	assert.Equal(t, "DE", resp[0].Code)
	assert.Equal(t, "🇩🇪", resp[0].Flag)
}

func TestCatalogAPI_CountriesNoMatch(t *testing.T) {
	rec := httptest.NewRecorder()
	NewCatalogHandler(nil).Countries(rec, httptest.NewRequest("GET", "/api/countries?q=zzzzzz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}
