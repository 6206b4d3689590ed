package site

// AliExpressID is the site key for AliExpress.
const AliExpressID = "aliexpress"

// AliExpress searches aliexpress.com. Results render client-side into the
// gallery wrapper without a page navigation.
func AliExpress() Profile {
	return Profile{
		ID:        AliExpressID,
		Name:      "AliExpress",
		SearchURL: "https://www.aliexpress.com/",
		Selectors: Selectors{
			SearchInput: `input[type="text"]`,
			Results:     ".list--galleryWrapper--29HRJT4",
			Item:        ".multi--modalContext--1Hxqhwi",
			Title:       ".multi--title--G7dOCj3",
			Price:       ".multi--price--1okBCly",
			Image:       "img.images--item--3XZa6xf",
			ImageAttr:   "src",
		},
		Timing: defaultTiming(),
	}
}
