package site

import "time"

// AmazonID is the site key for Amazon Spain.
const AmazonID = "amazon"

// Amazon searches amazon.es. Submitting loads a new results page, and the
// search box can take a long time to appear behind the cookie banner.
func Amazon() Profile {
	t := defaultTiming()
	t.InputTimeout = 60 * time.Second
	t.AwaitNavigation = true

	return Profile{
		ID:        AmazonID,
		Name:      "Amazon",
		SearchURL: "https://www.amazon.es/",
		Selectors: Selectors{
			SearchInput: `input[name="field-keywords"]`,
			Results:     ".s-main-slot",
			Item:        ".s-main-slot .s-result-item",
			Title:       "h2 span",
			Price:       ".a-price-whole",
			Image:       ".s-image",
			ImageAttr:   "src",
		},
		Timing: t,
	}
}
