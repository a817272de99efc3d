package handlers

import (
	"net/http"

	"github.com/blockedby/application-tracker/internal/catalog"
	"github.com/blockedby/application-tracker/internal/models"
)

// StatusOption is a selectable status with its display label.
type StatusOption struct {
	Value models.Status `json:"value"`
	Label string        `json:"label"`
}

// CatalogResponse is the body of GET /api/catalog.
type CatalogResponse struct {
	DefaultCountry string         `json:"defaultCountry"`
	Locale         string         `json:"locale"`
	Statuses       []StatusOption `json:"statuses"`
	Attachments    []string       `json:"attachments"`
}

// CountryResponse is one entry of GET /api/countries.
type CountryResponse struct {
	Code string `json:"code"`
	Name string `json:"name"`
	Flag string `json:"flag"`
}

// CatalogHandler serves reference data for the form.
type CatalogHandler struct {
	catalog   *catalog.Catalog
	countries []catalog.Country
}

// NewCatalogHandler creates a CatalogHandler. Country names are resolved
// once, in the catalog locale.
func NewCatalogHandler(c *catalog.Catalog) *CatalogHandler {
	if c == nil {
		c = catalog.Default()
	}
	return &CatalogHandler{
		catalog:   c,
		countries: catalog.Countries(c.Locale),
	}
}

// Catalog returns statuses, attachments and the default country.
// GET /api/catalog
func (h *CatalogHandler) Catalog(w http.ResponseWriter, _ *http.Request) {
	statuses := make([]StatusOption, 0, len(models.Statuses()))
	for _, s := range models.Statuses() {
		statuses = append(statuses, StatusOption{Value: s, Label: s.Label(h.catalog.Locale)})
	}

	respondJSON(w, http.StatusOK, CatalogResponse{
		DefaultCountry: h.catalog.DefaultCountry,
		Locale:         h.catalog.Locale,
		Statuses:       statuses,
		Attachments:    append([]string{}, h.catalog.Attachments...),
	})
}

// Countries returns the localized country list, filtered by ?q=.
// GET /api/countries
func (h *CatalogHandler) Countries(w http.ResponseWriter, r *http.Request) {
	matches := catalog.SearchCountries(h.countries, r.URL.Query().Get("q"))

	out := make([]CountryResponse, 0, len(matches))
	for _, c := range matches {
		out = append(out, CountryResponse{Code: c.Code, Name: c.Name, Flag: catalog.Flag(c.Code)})
	}
	respondJSON(w, http.StatusOK, out)
}
