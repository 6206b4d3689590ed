package report

import (
	"github.com/google/uuid"
	"github.com/use-agent/shopscout/models"
	"github.com/use-agent/shopscout/pipeline"
)

// NewSearchResponse renders runner outcomes as an API response. The second
// result reports whether every site succeeded.
func NewSearchResponse(term string, outcomes map[string]pipeline.Outcome) (*models.SearchResponse, bool) {
	resp := &models.SearchResponse{
		Success: true,
		Term:    term,
		Sites:   make(map[string]models.SiteResult, len(outcomes)),
	}
	allOK := true
	for id, out := range outcomes {
		resp.Sites[id] = SiteResult(out)
		allOK = allOK && out.OK()
	}
	return resp, allOK
}

// SiteResult renders one outcome. Each listing gets a fresh UUID here; the
// pipeline never assigns IDs.
func SiteResult(out pipeline.Outcome) models.SiteResult {
	if !out.OK() {
		return models.SiteResult{
			Error:     out.Err.Message,
			ErrorCode: out.Err.Code(),
		}
	}

	views := make([]models.ListingView, 0, len(out.Listings))
	for _, l := range WithIDs(out.Listings) {
		views = append(views, models.NewListingView(l))
	}
	return models.SiteResult{Listings: views, Count: len(views)}
}

// WithIDs returns a copy of listings with an ID set on each one missing it.
func WithIDs(listings []models.Listing) []models.Listing {
	out := make([]models.Listing, len(listings))
	for i, l := range listings {
		if l.ID == "" {
			l.ID = uuid.NewString()
		}
		out[i] = l
	}
	return out
}
