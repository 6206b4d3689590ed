package models

// SearchRequest is the payload for POST /api/v1/search and
// POST /api/v1/sites/:site/search.
type SearchRequest struct {
	// Term is the product to search for. Required, non-blank.
	Term string `json:"term"`

	// MaxAge allows serving a cached response younger than this many
	// milliseconds. 0 disables the cache lookup.
	MaxAge int `json:"max_age,omitempty" binding:"omitempty,min=0"`

	// WebhookURL receives a signed "search.completed" event when set.
	WebhookURL string `json:"webhook_url,omitempty" binding:"omitempty,url"`

	// WebhookSecret signs the webhook body with HMAC-SHA256.
	WebhookSecret string `json:"webhook_secret,omitempty"`
}

// BuscarRequest is the payload accepted by the POST /buscar/:site routes.
type BuscarRequest struct {
	Producto string `json:"producto" form:"producto"`
}
