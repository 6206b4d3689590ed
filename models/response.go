package models

import "encoding/json"

// SearchResponse is the response for POST /api/v1/search.
type SearchResponse struct {
	// Success is false only when the request itself was rejected. A search
	// where every site failed still succeeds at this level; the per-site
	// entries carry the failures.
	Success bool `json:"success"`

	// Term is the normalised search term.
	Term string `json:"term,omitempty"`

	// Sites holds one entry per registered site.
	Sites map[string]SiteResult `json:"sites,omitempty"`

	// Timing provides duration breakdowns for the operation.
	Timing TimingInfo `json:"timing"`

	// CacheStatus indicates whether the response was served from cache.
	// Values: "hit", "miss", or empty (caching not requested).
	CacheStatus string `json:"cache_status,omitempty"`

	// Error is populated only when Success is false.
	Error *ErrorDetail `json:"error,omitempty"`
}

// SiteResult is either a listing set or an error for one site.
type SiteResult struct {
	Listings  []ListingView `json:"listings"`
	Count     int           `json:"count"`
	Error     string        `json:"error,omitempty"`
	ErrorCode string        `json:"error_code,omitempty"`
}

type siteResultJSON SiteResult

// MarshalJSON renders a success as {listings, count}, always with a
// listings array, and a failure as {error, error_code}.
func (r SiteResult) MarshalJSON() ([]byte, error) {
	if !r.OK() {
		return json.Marshal(struct {
			Error     string `json:"error"`
			ErrorCode string `json:"error_code,omitempty"`
		}{r.Error, r.ErrorCode})
	}
	if r.Listings == nil {
		r.Listings = []ListingView{}
	}
	return json.Marshal(siteResultJSON(r))
}

// OK reports whether the site produced listings rather than an error.
func (r SiteResult) OK() bool {
	return r.Error == ""
}

// ListingView is a Listing as rendered to API clients, with the parsed
// numeric price when one could be read.
type ListingView struct {
	Listing
	Price *float64 `json:"price,omitempty"`
}

// NewListingView builds the API view of l.
func NewListingView(l Listing) ListingView {
	v := ListingView{Listing: l}
	if p, ok := ParsePrice(l.RawPrice); ok {
		v.Price = &p
	}
	return v
}

// BuscarResponse is the success payload of the /buscar/:site routes.
type BuscarResponse struct {
	Resultados []Resultado `json:"resultados"`
}

// Resultado is a listing in the field names the /buscar clients read.
type Resultado struct {
	Titulo string `json:"titulo"`
	Precio string `json:"precio"`
	Imagen string `json:"imagen"`
}

// NewBuscarResponse maps listings to the /buscar payload, keeping order.
func NewBuscarResponse(listings []Listing) BuscarResponse {
	out := make([]Resultado, len(listings))
	for i, l := range listings {
		out[i] = Resultado{Titulo: l.Title, Precio: l.RawPrice, Imagen: l.ImageURL}
	}
	return BuscarResponse{Resultados: out}
}

// BuscarError is the failure payload of the /buscar/:site routes.
type BuscarError struct {
	Error string `json:"error"`
}

// SitesResponse is the response for GET /api/v1/sites.
type SitesResponse struct {
	Sites []SiteInfo `json:"sites"`
}

// SiteInfo describes a registered site.
type SiteInfo struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	SearchURL string `json:"search_url"`
}

// TimingInfo breaks down the time spent in each phase.
type TimingInfo struct {
	// TotalMs is the end-to-end duration in milliseconds.
	TotalMs int64 `json:"total_ms"`

	// SitesMs is the time spent waiting for the site pipelines.
	SitesMs int64 `json:"sites_ms"`
}

// HealthResponse is the response for GET /api/v1/health.
type HealthResponse struct {
	Status       string       `json:"status"` // "healthy" or "degraded"
	Uptime       string       `json:"uptime"`
	SessionStats SessionStats `json:"session_stats"`
	Sites        []string     `json:"sites"`
	Version      string       `json:"version"`
}

// SessionStats reports the state of the browser session limiter.
type SessionStats struct {
	MaxSessions    int `json:"max_sessions"`
	ActiveSessions int `json:"active_sessions"`
}
