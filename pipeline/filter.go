package pipeline

import "github.com/use-agent/shopscout/models"

// FilterValid keeps only complete records, preserving order. The result is
// never nil so an empty search still serializes as [].
func FilterValid(raw []models.RawListing) []models.Listing {
	out := make([]models.Listing, 0, len(raw))
	for _, r := range raw {
		if !r.Complete() {
			continue
		}
		out = append(out, models.Listing{
			Title:    r.Title,
			RawPrice: r.RawPrice,
			ImageURL: r.ImageURL,
		})
	}
	return out
}
