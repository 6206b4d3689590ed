package models

import (
	"strings"
	"time"
)

// Placeholders substituted for DOM fields that are missing or blank.
// Records carrying any of them are incomplete and get filtered out.
const (
	SentinelTitle = "Sin título"
	SentinelPrice = "Sin precio"
	SentinelImage = "Sin imagen"
)

// RawListing is one candidate record read from a results page, before
// validation.
type RawListing struct {
	Title    string
	RawPrice string
	ImageURL string
}

// Complete reports whether every field holds real data.
func (r RawListing) Complete() bool {
	return r.Title != "" && r.Title != SentinelTitle &&
		r.RawPrice != "" && r.RawPrice != SentinelPrice &&
		r.ImageURL != "" && r.ImageURL != SentinelImage
}

// Listing is a validated product entry.
//
// ID is optional: extraction never sets it, consumers assign one when they
// need a stable handle.
type Listing struct {
	ID       string `json:"id,omitempty"`
	Title    string `json:"title"`
	RawPrice string `json:"rawPrice"`
	ImageURL string `json:"imageUrl"`
}

// Snapshot is the last successful extraction persisted for a site.
type Snapshot struct {
	Site     string    `json:"site"`
	Listings []Listing `json:"listings"`
	SavedAt  time.Time `json:"saved_at"`
}

// ValidateTerm trims the search term and rejects it when empty.
func ValidateTerm(term string) (string, error) {
	t := strings.TrimSpace(term)
	if t == "" {
		return "", NewScrapeError(ErrCodeInvalidInput, "search term is required", nil)
	}
	return t, nil
}
