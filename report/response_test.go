package report

import (
	"testing"

	"github.com/use-agent/shopscout/models"
	"github.com/use-agent/shopscout/pipeline"
)

func TestNewSearchResponse(t *testing.T) {
	t.Parallel()

	outcomes := map[string]pipeline.Outcome{
		"amazon": {Listings: []models.Listing{
			{Title: "A", RawPrice: "1.299,", ImageURL: "a.jpg"},
			{ID: "keep-me", Title: "B", RawPrice: "3", ImageURL: "b.jpg"},
		}},
		"aliexpress": {Err: models.NewExtractionError("aliexpress",
			models.NewScrapeError(models.ErrCodeNavigation, "navigation to https://www.aliexpress.com/ failed", nil))},
	}

	resp, allOK := NewSearchResponse("auriculares", outcomes)
	if allOK {
		t.Error("allOK should be false with a failed site")
	}

	amazon := resp.Sites["amazon"]
	if amazon.Count != 2 || amazon.Listings[0].ID == "" || amazon.Listings[1].ID != "keep-me" {
		t.Errorf("amazon = %+v", amazon)
	}
	if amazon.Listings[0].Price == nil || *amazon.Listings[0].Price != 1299 {
		t.Errorf("price = %v, want 1299", amazon.Listings[0].Price)
	}
	if amazon.Listings[0].ID == amazon.Listings[1].ID {
		t.Error("ids must be unique")
	}

	ali := resp.Sites["aliexpress"]
	if ali.OK() || ali.ErrorCode != models.ErrCodeNavigation || ali.Listings != nil {
		t.Errorf("aliexpress = %+v", ali)
	}

	if outcomes["amazon"].Listings[0].ID != "" {
		t.Error("outcome listings must not be mutated")
	}
}
