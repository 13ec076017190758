package domain

// Listing is one rental entry scraped from a search result page.
type Listing struct {
	ID    string `json:"id"`    // "" when the link carries no listing number
	Title string `json:"title"`
	Info  string `json:"info"`
	URL   string `json:"url"`
}
